// Package posts provides a PostgreSQL-backed repository for posts.
package posts

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	query := `
		INSERT INTO posts (id, title, content, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Content, post.AuthorID).Scan(&post.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT id, title, content, author_id, created_at FROM posts
		WHERE id = $1
	`
	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.Post, error) {
	return r.findMany(ctx, `ORDER BY created_at`)
}

// FindByAuthor returns the author's posts in insertion order.
func (r *PostgresRepository) FindByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	return r.findMany(ctx, `WHERE author_id = $1 ORDER BY created_at`, authorID)
}

func (r *PostgresRepository) findMany(ctx context.Context, clause string, args ...any) ([]*models.Post, error) {
	query := `
		SELECT id, title, content, author_id, created_at FROM posts
	` + clause

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Post{}
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM posts
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
