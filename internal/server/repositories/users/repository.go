package users

import (
	"context"

	"github.com/mbelyaev/postboard/internal/server/models"
)

// ProfileUpdate carries the optional fields of a partial profile update.
// Nil means "leave unchanged".
type ProfileUpdate struct {
	Username *string
	Email    *string
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id string, update ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
