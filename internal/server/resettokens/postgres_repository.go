// Package resettokens implements single-use password reset tokens: a
// PostgreSQL-backed repository for the stored token records and the service
// that issues and redeems them.
package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dberzins/envault/internal/common"
	"github.com/dberzins/envault/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a token row and fills in the generated id.
func (r *PostgresRepository) Create(ctx context.Context, token *ResetToken) (*ResetToken, error) {
	query := `
		INSERT INTO password_reset_tokens (user_id, token_hash, token_salt, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		token.UserID, token.TokenHash, token.TokenSalt, token.ExpiresAt).Scan(&token.ID)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return token, nil
}

// FindByID returns the token record or common.ErrorNotFound.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*ResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, token_salt, expires_at, used_at
		FROM password_reset_tokens
		WHERE id = $1
	`
	t := &ResetToken{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &t.TokenSalt, &t.ExpiresAt, &t.UsedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return t, nil
}

// MarkUsed stamps used_at, retiring the token permanently.
func (r *PostgresRepository) MarkUsed(ctx context.Context, id string) error {
	query := `
		UPDATE password_reset_tokens
		SET used_at = now()
		WHERE id = $1 AND used_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// DeleteUnusedByUser removes every token of the user that has not been
// redeemed yet. Used rows stay behind as an audit trail.
func (r *PostgresRepository) DeleteUnusedByUser(ctx context.Context, userID string) error {
	query := `
		DELETE FROM password_reset_tokens
		WHERE user_id = $1 AND used_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}
