package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

const testSecret = "router-secret"

type fakeJobs struct {
	ports.JobService
	created int
	reads   int
}

func (f *fakeJobs) List(ctx context.Context, query url.Values) ([]*domain.Job, error) {
	f.reads++
	return []*domain.Job{{ID: "j1", Title: "Go Developer"}}, nil
}

func (f *fakeJobs) Get(ctx context.Context, id, slug string) (*domain.Job, error) {
	f.reads++
	return nil, domain.ErrJobNotFound
}

func (f *fakeJobs) WithinRadius(ctx context.Context, zipcode string, distanceMiles float64) ([]*domain.Job, error) {
	f.reads++
	return []*domain.Job{}, nil
}

func (f *fakeJobs) Stats(ctx context.Context, topic string) ([]domain.JobStats, error) {
	f.reads++
	return []domain.JobStats{{Experience: "NO EXPERIENCE", TotalJobs: 1}}, nil
}

func (f *fakeJobs) Create(ctx context.Context, actor ports.Actor, input ports.JobInput) (*domain.Job, error) {
	f.created++
	return &domain.Job{ID: "j2", Title: input.Title, JobType: input.JobType, User: actor.ID}, nil
}

type fakeUsers struct {
	ports.UserService
}

func (fakeUsers) List(ctx context.Context, query url.Values) ([]*domain.User, error) {
	return []*domain.User{{ID: "u1", Name: "Ann", Role: domain.RoleUser}}, nil
}

func token(t *testing.T, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "64b7f0c2a1b2c3d4e5f60718",
		"role": role,
		"name": "Tester",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newTestRouter(jobs *fakeJobs) http.Handler {
	return NewRouter(RouterConfig{
		Logger:    zerolog.Nop(),
		JWTSecret: testSecret,
		Jobs:      jobs,
		Users:     fakeUsers{},
		Registry:  prometheus.NewRegistry(),
	})
}

func do(h http.Handler, method, target, bearer, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const newJobBody = `{"title":"Go Developer","description":"APIs","address":"Boston","company":"Acme",
	"industry":["Information Technology"],"jobType":"Permanent","minEducation":"Bachelors",
	"experience":"No Experience","salary":100000}`

func TestRouter_JobReadsRequireToken(t *testing.T) {
	targets := []string{
		"/api/v1/jobs?salary[gte]=50000",
		"/api/v1/jobs/j1/some-slug",
		"/api/v1/job/02118/10",
		"/api/v1/stats/go",
	}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			jobs := &fakeJobs{}
			rec := do(newTestRouter(jobs), http.MethodGet, target, "", "")

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
			}
			if jobs.reads != 0 {
				t.Fatalf("service reached without a token")
			}
		})
	}
}

func TestRouter_JobListWithToken(t *testing.T) {
	jobs := &fakeJobs{}
	rec := do(newTestRouter(jobs), http.MethodGet, "/api/v1/jobs?salary[gte]=50000", token(t, "user"), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if jobs.reads != 1 {
		t.Fatalf("service called %d times", jobs.reads)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestRouter_JobQueriesWithToken(t *testing.T) {
	h := newTestRouter(&fakeJobs{})

	if rec := do(h, http.MethodGet, "/api/v1/job/02118/10", token(t, "user"), ""); rec.Code != http.StatusOK {
		t.Fatalf("expected radius search 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(h, http.MethodGet, "/api/v1/stats/go", token(t, "employer"), ""); rec.Code != http.StatusOK {
		t.Fatalf("expected stats 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_CreateJobGuards(t *testing.T) {
	tests := []struct {
		name   string
		bearer string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"applicant role", token(t, "user"), http.StatusForbidden},
		{"unknown role", token(t, "employeer"), http.StatusForbidden},
		{"employer", token(t, "employer"), http.StatusCreated},
		{"admin", token(t, "admin"), http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := &fakeJobs{}
			rec := do(newTestRouter(jobs), http.MethodPost, "/api/v1/job/new", tt.bearer, newJobBody)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if wantCreated := tt.want == http.StatusCreated; (jobs.created == 1) != wantCreated {
				t.Fatalf("service called %d times", jobs.created)
			}
		})
	}
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	rec := do(newTestRouter(&fakeJobs{}), http.MethodGet, "/api/v1/jobs/j1/some-slug", token(t, "user"), "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["success"] != false || body["message"] != domain.ErrJobNotFound.Error() {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestRouter_ValidationEnvelope(t *testing.T) {
	rec := do(newTestRouter(&fakeJobs{}), http.MethodPost, "/api/v1/job/new", token(t, "employer"), `{"title":"x"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Errors) == 0 {
		t.Fatalf("expected field violations, got %+v", body)
	}
}

func TestRouter_AdminOnlyUsers(t *testing.T) {
	h := newTestRouter(&fakeJobs{})

	if rec := do(h, http.MethodGet, "/api/v1/users", token(t, "employer"), ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employer, got %d", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/api/v1/users", token(t, "admin"), ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestRouter_OpsEndpoints(t *testing.T) {
	h := newTestRouter(&fakeJobs{})

	if rec := do(h, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected /health 200, got %d", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected /health/ready 200 with no dependencies, got %d", rec.Code)
	}

	do(h, http.MethodGet, "/api/v1/jobs", token(t, "user"), "")
	rec := do(h, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "jobboard_http_requests_total") {
		t.Fatalf("expected http metrics in output")
	}
}
