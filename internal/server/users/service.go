package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dberzins/envault/internal/common"
	"github.com/dberzins/envault/internal/cryptox"
	"github.com/dberzins/envault/internal/server/auth"
	"github.com/dberzins/envault/internal/server/config"
)

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account, committing to the password via a salted
// SHA-256 verifier.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	hash, salt := cryptox.ComputeSaltedHash(password)

	user := &User{
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		PasswordSalt: salt,
	}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	return user, nil
}

// checkPassword recomputes the salted digest for the candidate and compares
// in constant time against the stored verifier.
func (s *Service) checkPassword(user *User, password string) bool {
	salt, err := cryptox.DecodeBase64(user.PasswordSalt)
	if err != nil {
		return false
	}
	candidate := cryptox.HashWithSalt(password, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(user.PasswordHash)) == 1
}

// Login verifies credentials and returns a signed access token. Unknown
// account and bad password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !s.checkPassword(user, password) {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}
