package resettokens

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/dberzins/envault/internal/common"
	"github.com/dberzins/envault/internal/cryptox"
	"github.com/dberzins/envault/internal/dbx"
	"github.com/dberzins/envault/internal/logging"
	"github.com/dberzins/envault/internal/server/config"
	"github.com/dberzins/envault/internal/server/users"
)

const (
	rawTokenSize  = 32
	tokenSaltSize = 16
)

// Mailer delivers the reset token to the account owner. token is the
// compound value the user pastes back, never stored server-side.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string, expiresAt time.Time) error
}

type Service struct {
	db       *sql.DB
	repo     Repository
	users    users.Repository
	mailer   Mailer
	validity time.Duration
	logger   logging.Logger
}

func NewService(db *sql.DB, mailer Mailer, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		db:       db,
		repo:     NewPostgresRepository(db),
		users:    users.NewPostgresRepository(db),
		mailer:   mailer,
		validity: cfg.ResetTokenValidityDuration,
		logger:   logger.With("module", "resettokens"),
	}
}

// hashToken digests the raw secret together with its salt. Both sides are
// already base64url strings; the separator keeps (salt, raw) pairs from
// colliding across different split points.
func hashToken(salt, raw string) string {
	sum := sha256.Sum256([]byte(salt + "." + raw))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Issue starts a password reset for the account behind email. It reports
// success whether or not the account exists, so the endpoint cannot be used
// to probe for registered addresses. Issuing supersedes any earlier token
// that was never redeemed.
func (s *Service) Issue(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "reset requested for unknown email")
			return nil
		}
		return common.ErrorInternal
	}

	if err := s.repo.DeleteUnusedByUser(ctx, user.ID); err != nil {
		return common.ErrorInternal
	}

	raw := base64.RawURLEncoding.EncodeToString(common.GenerateRandByteArray(rawTokenSize))
	salt := base64.RawURLEncoding.EncodeToString(common.GenerateRandByteArray(tokenSaltSize))

	token := &ResetToken{
		UserID:    user.ID,
		TokenHash: hashToken(salt, raw),
		TokenSalt: salt,
		ExpiresAt: time.Now().Add(s.validity),
	}

	if _, err := s.repo.Create(ctx, token); err != nil {
		return common.ErrorInternal
	}

	compound := token.ID + "." + raw

	if err := s.mailer.SendPasswordReset(ctx, user.Email, compound, token.ExpiresAt); err != nil {
		// The token row stays valid; the user can request again.
		s.logger.Error(ctx, "failed to send reset email", "error", err)
	}

	return nil
}

// Redeem validates a compound token and, if it checks out, sets the new
// password, retires the token and discards any other outstanding tokens of
// the same user in one transaction. Every validation failure collapses to
// common.ErrInvalidOrExpiredToken so the response never reveals which check
// tripped.
func (s *Service) Redeem(ctx context.Context, compoundToken, newPassword string) error {
	id, raw, found := strings.Cut(compoundToken, ".")
	if !found || id == "" || raw == "" {
		return common.ErrInvalidOrExpiredToken
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidOrExpiredToken
		}
		return common.ErrorInternal
	}

	if record.UsedAt != nil {
		s.logger.Info(ctx, "rejected reused reset token", "token_id", record.ID)
		return common.ErrInvalidOrExpiredToken
	}
	if time.Now().After(record.ExpiresAt) {
		s.logger.Info(ctx, "rejected expired reset token", "token_id", record.ID)
		return common.ErrInvalidOrExpiredToken
	}

	candidate := hashToken(record.TokenSalt, raw)
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(record.TokenHash)) != 1 {
		s.logger.Info(ctx, "rejected reset token with bad secret", "token_id", record.ID)
		return common.ErrInvalidOrExpiredToken
	}

	hash, salt := cryptox.ComputeSaltedHash(newPassword)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := users.NewPostgresRepository(tx).UpdatePassword(ctx, record.UserID, hash, salt); err != nil {
			return err
		}
		repo := NewPostgresRepository(tx)
		if err := repo.MarkUsed(ctx, record.ID); err != nil {
			// Lost a race with another redeem of the same token.
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidOrExpiredToken
			}
			return err
		}
		return repo.DeleteUnusedByUser(ctx, record.UserID)
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidOrExpiredToken) {
			return err
		}
		return common.ErrorInternal
	}

	return nil
}
