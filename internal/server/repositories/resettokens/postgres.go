// Package resettokens provides a PostgreSQL-backed store for single-use
// password-reset tokens.
package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mbelyaev/postboard/internal/common"
	"github.com/mbelyaev/postboard/internal/dbx"
	"github.com/mbelyaev/postboard/internal/server/models"
)

// PostgresRepository implements the reset-token store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a reset token for userID expiring at now+validity.
func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	query := `
		INSERT INTO reset_tokens (id, user_id, token, expiration_date)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(), userID, token, time.Now().Add(validity))
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

// Find returns the reset-token row for the given token string.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.ResetToken, error) {
	query := `
		SELECT id, user_id, token, expiration_date, created_at
		FROM reset_tokens
		WHERE token = $1
	`
	rt := &models.ResetToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&rt.ID, &rt.UserID, &rt.Token, &rt.ExpirationDate, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rt, nil
}

// Delete removes a reset token by its token string. Redeeming a token goes
// through this, making the token single-use.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM reset_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteForUser removes all outstanding reset tokens for a user, so at most
// one token is active per request cycle.
func (r *PostgresRepository) DeleteForUser(ctx context.Context, userID string) error {
	query := `
		DELETE FROM reset_tokens
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
