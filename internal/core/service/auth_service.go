package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

// AuthService implements registration, login and password changes. Every
// successful call issues a new token.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	role := domain.RoleUser
	if input.Role != "" {
		role = domain.Role(input.Role)
	}
	if role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admin accounts can not be self-registered", domain.ErrForbidden)
	}

	user := &domain.User{
		Name:      strings.TrimSpace(input.Name),
		Email:     normalizeEmail(input.Email),
		Role:      role,
		CreatedAt: s.now(),
	}
	violations := domain.ValidateUser(user)
	if v, ok := passwordViolation(input.Password); !ok {
		violations = append(violations, v)
	}
	if err := domain.NewValidationError(violations); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(user)
}

// UpdatePassword checks the current password before storing next.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, next string) (*ports.AuthResult, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if v, ok := passwordViolation(next); !ok {
		return nil, domain.NewValidationError([]domain.Violation{v})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: signed, ExpiresAt: exp, User: user}, nil
}

func passwordViolation(password string) (domain.Violation, bool) {
	if len(password) < domain.MinPasswordLength {
		return domain.Violation{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", domain.MinPasswordLength),
		}, false
	}
	return domain.Violation{}, true
}
