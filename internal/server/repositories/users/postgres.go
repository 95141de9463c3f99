// Package users provides a PostgreSQL-backed repository for user accounts.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mbelyaev/postboard/internal/common"
	"github.com/mbelyaev/postboard/internal/dbx"
	"github.com/mbelyaev/postboard/internal/server/models"
)

// PostgresRepository implements CRUD operations for users over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, `WHERE username = $1`, username)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

// FindByUsernameOrEmail backs the signup uniqueness pre-check
// (username = X OR email = Y).
func (r *PostgresRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	return r.findOne(ctx, `WHERE username = $1 OR email = $2`, username, email)
}

func (r *PostgresRepository) findOne(ctx context.Context, where string, args ...any) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at FROM users
	` + where

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at FROM users
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.User{}
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update applies a partial profile update and returns the updated row.
// COALESCE leaves a column unchanged when the corresponding field is nil.
func (r *PostgresRepository) Update(ctx context.Context, id string, update ProfileUpdate) (*models.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username), email = COALESCE($3, email)
		WHERE id = $1
		RETURNING id, username, email, password_hash, created_at
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id, update.Username, update.Email).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	query := `
		UPDATE users SET password_hash = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM users
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
