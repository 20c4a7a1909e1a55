package ports

import (
	"context"

	"github.com/jobbee/jobboard-api/internal/core/apifilter"
	"github.com/jobbee/jobboard-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Find(ctx context.Context, q apifilter.Query) ([]*domain.User, error)
	// Create returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	UpdateProfile(ctx context.Context, id, name, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
