package ports

import (
	"context"
	"time"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // empty means domain.RoleUser
}

// AuthResult is a freshly issued token plus the account it belongs to.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	UpdatePassword(ctx context.Context, userID, current, next string) (*AuthResult, error)
}
