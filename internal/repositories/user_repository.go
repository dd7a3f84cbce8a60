package repositories

import (
	"context"

	"burningbros/internal/models"
)

// UserRepository defines the interface for user data access.
// Usernames are expected to be normalized by the caller.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
