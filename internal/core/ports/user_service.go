package ports

import (
	"context"
	"net/url"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

// ProfileInput carries the fields a user may change on their own account.
type ProfileInput struct {
	Name  string
	Email string
}

type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, input ProfileInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query url.Values) ([]*domain.User, error)
}
