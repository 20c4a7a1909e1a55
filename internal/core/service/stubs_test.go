package service

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobbee/jobboard-api/internal/core/apifilter"
	"github.com/jobbee/jobboard-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Jobs
// ---------------------------------------------------------------------------

type stubJobRepo struct {
	mu        sync.Mutex
	jobs      map[string]*domain.Job
	seq       int
	lastQuery apifilter.Query
	lastRad   [3]float64
	stats     []domain.JobStats
	updates   int
	addErr    error

	removedApplicants int
}

func newStubJobRepo() *stubJobRepo {
	return &stubJobRepo{jobs: make(map[string]*domain.Job)}
}

func cloneJob(j *domain.Job) *domain.Job {
	clone := *j
	clone.Applicants = append([]domain.Applicant(nil), j.Applicants...)
	return &clone
}

func (r *stubJobRepo) put(j *domain.Job) *domain.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j.ID == "" {
		r.seq++
		j.ID = fmt.Sprintf("job%d", r.seq)
	}
	r.jobs[j.ID] = cloneJob(j)
	return j
}

func (r *stubJobRepo) Create(_ context.Context, j *domain.Job) error {
	r.put(j)
	return nil
}

func (r *stubJobRepo) FindByID(_ context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(j), nil
}

func (r *stubJobRepo) FindByIDAndSlug(ctx context.Context, id, slug string) (*domain.Job, error) {
	j, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Slug != slug {
		return nil, domain.ErrJobNotFound
	}
	j.Applicants = nil
	return j, nil
}

func (r *stubJobRepo) Find(_ context.Context, q apifilter.Query) ([]*domain.Job, error) {
	r.lastQuery = q
	var out []*domain.Job
	for _, j := range r.jobs {
		out = append(out, cloneJob(j))
	}
	return out, nil
}

func (r *stubJobRepo) FindWithinRadius(_ context.Context, lng, lat, radius float64) ([]*domain.Job, error) {
	r.lastRad = [3]float64{lng, lat, radius}
	return nil, nil
}

func (r *stubJobRepo) Stats(_ context.Context, _ string) ([]domain.JobStats, error) {
	return r.stats, nil
}

func (r *stubJobRepo) Update(_ context.Context, j *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[j.ID]; !ok {
		return domain.ErrJobNotFound
	}
	r.updates++
	r.jobs[j.ID] = cloneJob(j)
	return nil
}

func (r *stubJobRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

// AddApplicant mirrors the conditional update done by the Mongo repository.
func (r *stubJobRepo) AddApplicant(_ context.Context, jobID string, a domain.Applicant, now time.Time) (bool, error) {
	if r.addErr != nil {
		return false, r.addErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok || now.After(j.LastDate) || j.HasApplicant(a.ID) {
		return false, nil
	}
	j.Applicants = append(j.Applicants, a)
	return true, nil
}

func (r *stubJobRepo) RemoveApplicant(_ context.Context, jobID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removedApplicants++
	j, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	j.Applicants = slices.DeleteFunc(j.Applicants, func(a domain.Applicant) bool { return a.ID == userID })
	return nil
}

func (r *stubJobRepo) FindAppliedBy(_ context.Context, userID string) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, j := range r.jobs {
		if j.HasApplicant(userID) {
			out = append(out, cloneJob(j))
		}
	}
	return out, nil
}

func (r *stubJobRepo) FindPublishedBy(_ context.Context, userID string) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, j := range r.jobs {
		if j.User == userID {
			out = append(out, cloneJob(j))
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user%d", r.seq)
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Find(_ context.Context, _ apifilter.Query) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, other := range r.users {
		if other.ID != id && other.Email == email {
			return nil, domain.ErrUserExists
		}
	}
	u.Name, u.Email = name, email
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// Geocoder, storage, events
// ---------------------------------------------------------------------------

type stubGeocoder struct {
	results []domain.GeoResult
	err     error
	calls   []string
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) ([]domain.GeoResult, error) {
	g.calls = append(g.calls, address)
	return g.results, g.err
}

type stubStorage struct {
	files   map[string]string
	removed []string
	saveErr error
}

func newStubStorage() *stubStorage {
	return &stubStorage{files: make(map[string]string)}
}

func (s *stubStorage) Save(_ context.Context, name string, r io.Reader, _ int64) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	var b strings.Builder
	if _, err := io.Copy(&b, r); err != nil {
		return err
	}
	s.files[name] = b.String()
	return nil
}

func (s *stubStorage) Remove(_ context.Context, name string) error {
	s.removed = append(s.removed, name)
	delete(s.files, name)
	return nil
}

type stubDispatcher struct {
	events []domain.ApplicationSubmitted
	full   bool
}

func (d *stubDispatcher) Enqueue(e domain.ApplicationSubmitted) bool {
	if d.full {
		return false
	}
	d.events = append(d.events, e)
	return true
}
