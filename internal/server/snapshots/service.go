// Package snapshots hands out presigned S3 URLs for encrypted project
// snapshots. The server never proxies snapshot bytes; clients upload and
// download sealed archives directly against object storage.
package snapshots

import (
	"context"
	"fmt"
	"time"

	"github.com/dberzins/envault/internal/logging"
	sc "github.com/dberzins/envault/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignValidity = 15 * time.Minute

type Service struct {
	config *sc.Config
	logger logging.Logger
}

func NewService(cfg *sc.Config, logger logging.Logger) *Service {
	return &Service{
		config: cfg,
		logger: logger.With("module", "snapshots"),
	}
}

// RandomStorageKey produces a fresh object key partitioned by date. Keys are
// never reused, so a re-uploaded snapshot cannot clobber an older one.
func RandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("projects/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Service) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return s3.NewPresignClient(client), nil
}

// GetPresignedPutUrl allocates a storage key and returns it together with a
// URL the client can PUT the sealed snapshot to.
func (s *Service) GetPresignedPutUrl(ctx context.Context) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := RandomStorageKey()

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// GetPresignedGetUrl returns a URL to download the snapshot stored under key.
func (s *Service) GetPresignedGetUrl(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
