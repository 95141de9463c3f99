// Package replies provides a PostgreSQL-backed repository for replies.
package replies

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

func (r *PostgresRepository) Create(ctx context.Context, reply *models.Reply) (*models.Reply, error) {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}

	query := `
		INSERT INTO replies (id, text, comment_id, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		reply.ID, reply.Text, reply.CommentID, reply.AuthorID).Scan(&reply.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return reply, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Reply, error) {
	query := `
		SELECT id, text, comment_id, author_id, created_at FROM replies
		WHERE id = $1
	`
	reply := &models.Reply{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reply.ID, &reply.Text, &reply.CommentID, &reply.AuthorID, &reply.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return reply, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.Reply, error) {
	return r.findMany(ctx, `ORDER BY created_at`)
}

func (r *PostgresRepository) FindByComment(ctx context.Context, commentID string) ([]*models.Reply, error) {
	return r.findMany(ctx, `WHERE comment_id = $1 ORDER BY created_at`, commentID)
}

func (r *PostgresRepository) findMany(ctx context.Context, clause string, args ...any) ([]*models.Reply, error) {
	query := `
		SELECT id, text, comment_id, author_id, created_at FROM replies
	` + clause

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Reply{}
	for rows.Next() {
		reply := &models.Reply{}
		if err := rows.Scan(&reply.ID, &reply.Text, &reply.CommentID, &reply.AuthorID, &reply.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, reply)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM replies
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
