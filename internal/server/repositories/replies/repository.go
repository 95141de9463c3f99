package replies

import (
	"context"

	"github.com/mbelyaev/postboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, reply *models.Reply) (*models.Reply, error)
	FindByID(ctx context.Context, id string) (*models.Reply, error)
	FindAll(ctx context.Context) ([]*models.Reply, error)
	FindByComment(ctx context.Context, commentID string) ([]*models.Reply, error)
	Delete(ctx context.Context, id string) error
}
