package resettokens

import (
	"context"
	"time"

	"github.com/mbelyaev/postboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.ResetToken, error)
	Delete(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, userID string) error
}
