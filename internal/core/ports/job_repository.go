package ports

import (
	"context"
	"time"

	"github.com/jobbee/jobboard-api/internal/core/apifilter"
	"github.com/jobbee/jobboard-api/internal/core/domain"
)

// JobRepository defines persistence operations for job postings.
// Read methods used by public endpoints never return the applicant list.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	// FindByID returns the full document, applicants included.
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	FindByIDAndSlug(ctx context.Context, id, slug string) (*domain.Job, error)
	Find(ctx context.Context, q apifilter.Query) ([]*domain.Job, error)
	// FindWithinRadius matches jobs whose location falls inside a sphere of
	// radius radians around (lng, lat).
	FindWithinRadius(ctx context.Context, lng, lat, radius float64) ([]*domain.Job, error)
	Stats(ctx context.Context, topic string) ([]domain.JobStats, error)
	// Update writes the editable fields of job. Applicants, owner and dates
	// are left untouched.
	Update(ctx context.Context, job *domain.Job) error
	Delete(ctx context.Context, id string) error

	// AddApplicant appends a to the job only if the deadline has not passed at
	// now and a.ID is not already an applicant. It reports whether the job
	// matched those conditions.
	AddApplicant(ctx context.Context, jobID string, a domain.Applicant, now time.Time) (bool, error)
	// RemoveApplicant pulls userID's applicant record from the job.
	RemoveApplicant(ctx context.Context, jobID, userID string) error
	FindAppliedBy(ctx context.Context, userID string) ([]*domain.Job, error)
	FindPublishedBy(ctx context.Context, userID string) ([]*domain.Job, error)
}
