package posts

import (
	"context"

	"github.com/mbelyaev/postboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	FindAll(ctx context.Context) ([]*models.Post, error)
	FindByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
}
