package repository

import (
	"context"

	"event-management-system/backend/internal/user/domain"
)

// Repository defines the user reads and the single write (password update)
// that the auth core needs. Full user CRUD is out of scope here.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
