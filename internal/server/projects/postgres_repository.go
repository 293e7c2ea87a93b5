// Package projects provides the project aggregate: a PostgreSQL-backed
// repository for projects and their encrypted variables, and the service
// that seals/opens variable values.
package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dberzins/envault/internal/common"
	"github.com/dberzins/envault/internal/cryptox"
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

// Create inserts a project row and fills in the generated id.
func (r *PostgresRepository) Create(ctx context.Context, project *Project) (*Project, error) {
	query := `
		INSERT INTO projects (user_id, name, master_key_hash, master_key_salt, master_key_encrypted)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		project.UserID, project.Name,
		project.MasterKeyHash, project.MasterKeySalt, project.MasterKeyEncrypted).Scan(&project.ID)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return project, nil
}

// GetByID returns the project scoped to its owner.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*Project, error) {
	query := `
		SELECT id, user_id, name,
		       COALESCE(master_key_hash, ''), COALESCE(master_key_salt, ''), COALESCE(master_key_encrypted, ''),
		       created_at, updated_at
		FROM projects
		WHERE id = $1 AND user_id = $2
	`
	p := &Project{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&p.ID, &p.UserID, &p.Name,
		&p.MasterKeyHash, &p.MasterKeySalt, &p.MasterKeyEncrypted,
		&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return p, nil
}

// ListByUser returns all projects owned by userID, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Project, error) {
	query := `
		SELECT id, user_id, name,
		       COALESCE(master_key_hash, ''), COALESCE(master_key_salt, ''), COALESCE(master_key_encrypted, ''),
		       created_at, updated_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var out []*Project
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name,
			&p.MasterKeyHash, &p.MasterKeySalt, &p.MasterKeyEncrypted,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return out, nil
}

// Update rewrites the mutable project fields and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET name = $3,
		    master_key_hash = NULLIF($4, ''),
		    master_key_salt = NULLIF($5, ''),
		    master_key_encrypted = NULLIF($6, ''),
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		project.ID, project.UserID, project.Name,
		project.MasterKeyHash, project.MasterKeySalt, project.MasterKeyEncrypted)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes the project; variables go with it via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `
		DELETE FROM projects
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ReplaceVariables swaps the project's variable set wholesale. Envelopes
// are immutable: an edit always writes fresh rows, never patches
// ciphertext in place. Callers run this inside a transaction together
// with the project update.
func (r *PostgresRepository) ReplaceVariables(ctx context.Context, projectID string, vars []cryptox.EncryptedVariable) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM variables WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	query := `
		INSERT INTO variables (project_id, name, encrypted_value)
		VALUES ($1, $2, $3)
	`
	for _, v := range vars {
		if _, err := r.db.ExecContext(ctx, query, projectID, v.Name, v.Encrypted); err != nil {
			return fmt.Errorf("error performing sql request: %v", err)
		}
	}
	return nil
}

// GetVariables returns the project's sealed variables ordered by name.
func (r *PostgresRepository) GetVariables(ctx context.Context, projectID string) ([]cryptox.EncryptedVariable, error) {
	query := `
		SELECT name, encrypted_value
		FROM variables
		WHERE project_id = $1
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var out []cryptox.EncryptedVariable
	for rows.Next() {
		var v cryptox.EncryptedVariable
		if err := rows.Scan(&v.Name, &v.Encrypted); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return out, nil
}
