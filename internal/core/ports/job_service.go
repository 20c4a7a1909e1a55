package ports

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

// Actor is the authenticated caller, as established by the auth middleware.
type Actor struct {
	ID   string
	Name string
	Role domain.Role
}

// JobInput carries the fields an employer supplies when posting a job.
type JobInput struct {
	Title        string
	Description  string
	Email        string
	Address      string
	Company      string
	Industry     []string
	JobType      string
	MinEducation string
	Positions    int
	Experience   string
	Salary       float64
	LastDate     time.Time // optional; zero means now + domain.ApplicationWindow
}

// JobPatch carries a partial update. Nil fields are left unchanged.
type JobPatch struct {
	Title        *string
	Description  *string
	Email        *string
	Address      *string
	Company      *string
	Industry     []string
	JobType      *string
	MinEducation *string
	Positions    *int
	Experience   *string
	Salary       *float64
}

// JobService defines use-case operations for job postings.
type JobService interface {
	List(ctx context.Context, query url.Values) ([]*domain.Job, error)
	Get(ctx context.Context, id, slug string) (*domain.Job, error)
	WithinRadius(ctx context.Context, zipcode string, distanceMiles float64) ([]*domain.Job, error)
	Stats(ctx context.Context, topic string) ([]domain.JobStats, error)
	Create(ctx context.Context, actor Actor, input JobInput) (*domain.Job, error)
	Update(ctx context.Context, actor Actor, id string, patch JobPatch) (*domain.Job, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Applied(ctx context.Context, actor Actor) ([]*domain.Job, error)
	Published(ctx context.Context, actor Actor) ([]*domain.Job, error)
}

// ResumeFile is an uploaded resume as received from the transport layer.
type ResumeFile struct {
	Name    string // original client filename, used for its extension
	Size    int64
	Content io.Reader
}

// ApplicationService handles applying to a job with a resume.
type ApplicationService interface {
	// Apply returns the name the resume was stored under.
	Apply(ctx context.Context, actor Actor, jobID string, file *ResumeFile) (string, error)
}
