package repository

import (
	"context"

	"milkledger/models"
)

// UserRepository defines the interface for user operations.
// Lookups return nil, nil when no user matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	GetUserByID(ctx context.Context, id string) (*models.AppUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error)
	GetUserByUsername(ctx context.Context, username string) (*models.AppUser, error)
	ListUsers(ctx context.Context) ([]*models.AppUser, error)
	UpdateUserStatus(ctx context.Context, id string, active bool) (*models.AppUser, error)
	UpdateUserRole(ctx context.Context, id, role string) (*models.AppUser, error)
	CountUsers(ctx context.Context) (int, error)
}
