// Package comments provides a PostgreSQL-backed repository for comments.
package comments

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

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	query := `
		INSERT INTO comments (id, text, post_id, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.Text, comment.PostID, comment.AuthorID).Scan(&comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT id, text, post_id, author_id, created_at FROM comments
		WHERE id = $1
	`
	comment := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.Text, &comment.PostID, &comment.AuthorID, &comment.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.Comment, error) {
	return r.findMany(ctx, `ORDER BY created_at`)
}

func (r *PostgresRepository) FindByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return r.findMany(ctx, `WHERE post_id = $1 ORDER BY created_at`, postID)
}

func (r *PostgresRepository) findMany(ctx context.Context, clause string, args ...any) ([]*models.Comment, error) {
	query := `
		SELECT id, text, post_id, author_id, created_at FROM comments
	` + clause

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Comment{}
	for rows.Next() {
		comment := &models.Comment{}
		if err := rows.Scan(&comment.ID, &comment.Text, &comment.PostID, &comment.AuthorID, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM comments
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
