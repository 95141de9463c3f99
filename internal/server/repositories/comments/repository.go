package comments

import (
	"context"

	"github.com/mbelyaev/postboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	FindAll(ctx context.Context) ([]*models.Comment, error)
	FindByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	Delete(ctx context.Context, id string) error
}
