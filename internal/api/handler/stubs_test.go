package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jobbee/jobboard-api/internal/api/middleware"
	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	updatePasswordFn func(ctx context.Context, userID, current, next string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) UpdatePassword(ctx context.Context, userID, current, next string) (*ports.AuthResult, error) {
	return s.updatePasswordFn(ctx, userID, current, next)
}

type stubJobService struct {
	listFn      func(ctx context.Context, query url.Values) ([]*domain.Job, error)
	getFn       func(ctx context.Context, id, slug string) (*domain.Job, error)
	radiusFn    func(ctx context.Context, zipcode string, miles float64) ([]*domain.Job, error)
	statsFn     func(ctx context.Context, topic string) ([]domain.JobStats, error)
	createFn    func(ctx context.Context, actor ports.Actor, input ports.JobInput) (*domain.Job, error)
	updateFn    func(ctx context.Context, actor ports.Actor, id string, patch ports.JobPatch) (*domain.Job, error)
	deleteFn    func(ctx context.Context, actor ports.Actor, id string) error
	appliedFn   func(ctx context.Context, actor ports.Actor) ([]*domain.Job, error)
	publishedFn func(ctx context.Context, actor ports.Actor) ([]*domain.Job, error)
}

func (s *stubJobService) List(ctx context.Context, query url.Values) ([]*domain.Job, error) {
	return s.listFn(ctx, query)
}

func (s *stubJobService) Get(ctx context.Context, id, slug string) (*domain.Job, error) {
	return s.getFn(ctx, id, slug)
}

func (s *stubJobService) WithinRadius(ctx context.Context, zipcode string, miles float64) ([]*domain.Job, error) {
	return s.radiusFn(ctx, zipcode, miles)
}

func (s *stubJobService) Stats(ctx context.Context, topic string) ([]domain.JobStats, error) {
	return s.statsFn(ctx, topic)
}

func (s *stubJobService) Create(ctx context.Context, actor ports.Actor, input ports.JobInput) (*domain.Job, error) {
	return s.createFn(ctx, actor, input)
}

func (s *stubJobService) Update(ctx context.Context, actor ports.Actor, id string, patch ports.JobPatch) (*domain.Job, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubJobService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubJobService) Applied(ctx context.Context, actor ports.Actor) ([]*domain.Job, error) {
	return s.appliedFn(ctx, actor)
}

func (s *stubJobService) Published(ctx context.Context, actor ports.Actor) ([]*domain.Job, error) {
	return s.publishedFn(ctx, actor)
}

type stubApplicationService struct {
	applyFn func(ctx context.Context, actor ports.Actor, jobID string, file *ports.ResumeFile) (string, error)
}

func (s *stubApplicationService) Apply(ctx context.Context, actor ports.Actor, jobID string, file *ports.ResumeFile) (string, error) {
	return s.applyFn(ctx, actor, jobID, file)
}

type stubUserService struct {
	getFn    func(ctx context.Context, id string) (*domain.User, error)
	updateFn func(ctx context.Context, id string, input ports.ProfileInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context, query url.Values) ([]*domain.User, error)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, id string, input ports.ProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context, query url.Values) ([]*domain.User, error) {
	return s.listFn(ctx, query)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// withActor mimics the Auth middleware.
func withActor(c echo.Context, id, name string, role domain.Role) {
	c.Set(middleware.ContextUserID, id)
	c.Set(middleware.ContextName, name)
	c.Set(middleware.ContextRole, role)
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %T (%v)", err, err)
	}
	for _, v := range ve.Violations {
		if v.Field == field {
			return
		}
	}
	t.Fatalf("expected violation on %q, got %+v", field, ve.Violations)
}
