package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dberzins/envault/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_FillsGeneratedID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(5 * time.Minute)

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+password_reset_tokens\b.*RETURNING\s+id\s*$`).
		WithArgs("u1", "hash", "salt", expires).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("t1"))

	got, err := repo.Create(context.Background(), &ResetToken{
		UserID: "u1", TokenHash: "hash", TokenSalt: "salt", ExpiresAt: expires,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "t1" {
		t.Fatalf("expected generated id to be filled in, got %q", got.ID)
	}
}

func TestFindByID_UnusedTokenScansNilUsedAt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	expires := time.Now().Add(5 * time.Minute)
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "token_salt", "expires_at", "used_at"}).
		AddRow("t1", "u1", "hash", "salt", expires, nil)

	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*token_hash`).
		WithArgs("t1").
		WillReturnRows(rows)

	got, err := repo.FindByID(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UsedAt != nil {
		t.Fatalf("expected nil UsedAt for an unused token, got %v", got.UsedAt)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*user_id,\s*token_hash`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestMarkUsed_OnlyAffectsUnusedRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+password_reset_tokens\s+SET\s+used_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+used_at\s+IS\s+NULL`).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkUsed(context.Background(), "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec(`UPDATE\s+password_reset_tokens`).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.MarkUsed(context.Background(), "t1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("second mark must report not found, got %v", err)
	}
}

func TestDeleteUnusedByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+password_reset_tokens\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+used_at\s+IS\s+NULL`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteUnusedByUser(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
