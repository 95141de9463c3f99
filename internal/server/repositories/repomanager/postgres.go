// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mbelyaev/postboard/internal/dbx"
	"github.com/mbelyaev/postboard/internal/server/migrations"
	"github.com/mbelyaev/postboard/internal/server/repositories/comments"
	"github.com/mbelyaev/postboard/internal/server/repositories/posts"
	"github.com/mbelyaev/postboard/internal/server/repositories/replies"
	"github.com/mbelyaev/postboard/internal/server/repositories/resettokens"
	"github.com/mbelyaev/postboard/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Posts returns a posts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Posts(db dbx.DBTX) posts.Repository {
	return posts.NewPostgresRepository(db)
}

// Comments returns a comments.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Comments(db dbx.DBTX) comments.Repository {
	return comments.NewPostgresRepository(db)
}

// Replies returns a replies.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Replies(db dbx.DBTX) replies.Repository {
	return replies.NewPostgresRepository(db)
}

// ResetTokens returns a resettokens.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) ResetTokens(db dbx.DBTX) resettokens.Repository {
	return resettokens.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
