// Package db wires the storage layer together: it opens the connection,
// runs migrations and hands out repositories.
package db

import (
	"context"
	"database/sql"

	"github.com/dberzins/envault/internal/server/projects"
	"github.com/dberzins/envault/internal/server/resettokens"
	"github.com/dberzins/envault/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Projects() projects.Repository
	ResetTokens() resettokens.Repository
}
