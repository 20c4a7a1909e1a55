package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jobbee/jobboard-api/internal/core/apifilter"
	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile changes name and email. Empty input fields keep the current value.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input ports.ProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(input.Email); email != "" {
		user.Email = email
	}
	if err := domain.NewValidationError(domain.ValidateUser(user)); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProfile(ctx, id, user.Name, user.Email)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Msg("profile updated")
	return updated, nil
}

// Delete removes the account only. Jobs and applications that reference it
// are kept.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) List(ctx context.Context, query url.Values) ([]*domain.User, error) {
	return s.repo.Find(ctx, apifilter.Build(query, UserQuerySchema))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
