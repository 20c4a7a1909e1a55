package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/jobbee/jobboard-api/internal/core/apifilter"
	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

// EarthRadiusMiles converts a search distance in miles to radians.
const EarthRadiusMiles = 3963.0

type JobService struct {
	repo     ports.JobRepository
	geocoder ports.Geocoder
	storage  ports.ResumeStorage
	logger   zerolog.Logger
	now      func() time.Time
}

func NewJobService(repo ports.JobRepository, geocoder ports.Geocoder, storage ports.ResumeStorage, logger zerolog.Logger) *JobService {
	return &JobService{
		repo:     repo,
		geocoder: geocoder,
		storage:  storage,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *JobService) List(ctx context.Context, query url.Values) ([]*domain.Job, error) {
	return s.repo.Find(ctx, apifilter.Build(query, JobQuerySchema))
}

func (s *JobService) Get(ctx context.Context, id, jobSlug string) (*domain.Job, error) {
	return s.repo.FindByIDAndSlug(ctx, id, jobSlug)
}

// WithinRadius returns jobs located within distanceMiles of the zipcode.
func (s *JobService) WithinRadius(ctx context.Context, zipcode string, distanceMiles float64) ([]*domain.Job, error) {
	zipcode = strings.TrimSpace(zipcode)
	var violations []domain.Violation
	if zipcode == "" {
		violations = append(violations, domain.Violation{Field: "zipcode", Message: "zipcode is required"})
	}
	if distanceMiles <= 0 {
		violations = append(violations, domain.Violation{Field: "distance", Message: "distance must be greater than 0"})
	}
	if err := domain.NewValidationError(violations); err != nil {
		return nil, err
	}

	loc, err := s.locate(ctx, zipcode)
	if err != nil {
		return nil, err
	}
	lng, lat := loc.Coordinates[0], loc.Coordinates[1]
	return s.repo.FindWithinRadius(ctx, lng, lat, distanceMiles/EarthRadiusMiles)
}

func (s *JobService) Stats(ctx context.Context, topic string) ([]domain.JobStats, error) {
	topic = strings.TrimSpace(topic)
	stats, err := s.repo.Stats(ctx, topic)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("%w for - %s", domain.ErrNoStats, topic)
	}
	return stats, nil
}

// Create validates, slugs and geocodes a new posting owned by actor.
func (s *JobService) Create(ctx context.Context, actor ports.Actor, input ports.JobInput) (*domain.Job, error) {
	job := &domain.Job{
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Email:        strings.TrimSpace(input.Email),
		Address:      strings.TrimSpace(input.Address),
		Company:      strings.TrimSpace(input.Company),
		Industry:     input.Industry,
		JobType:      input.JobType,
		MinEducation: input.MinEducation,
		Positions:    input.Positions,
		Experience:   input.Experience,
		Salary:       input.Salary,
		LastDate:     input.LastDate,
		User:         actor.ID,
	}
	job.ApplyDefaults(s.now())

	if err := s.prepare(ctx, job, true); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, job); err != nil {
		s.logger.Error().Err(err).Msg("failed to create job")
		return nil, err
	}

	s.logger.Info().Str("job_id", job.ID).Str("user_id", actor.ID).Msg("job created")
	return job, nil
}

// Update applies patch to a job the actor is allowed to modify. The address
// is geocoded again only when it changed.
func (s *JobService) Update(ctx context.Context, actor ports.Actor, id string, patch ports.JobPatch) (*domain.Job, error) {
	job, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	addressChanged := false
	if patch.Address != nil {
		addr := strings.TrimSpace(*patch.Address)
		addressChanged = addr != job.Address || job.Location == nil
		job.Address = addr
	}
	setString(&job.Title, patch.Title, true)
	setString(&job.Description, patch.Description, true)
	setString(&job.Email, patch.Email, true)
	setString(&job.Company, patch.Company, true)
	setString(&job.JobType, patch.JobType, false)
	setString(&job.MinEducation, patch.MinEducation, false)
	setString(&job.Experience, patch.Experience, false)
	if patch.Industry != nil {
		job.Industry = patch.Industry
	}
	if patch.Positions != nil {
		job.Positions = *patch.Positions
	}
	if patch.Salary != nil {
		job.Salary = *patch.Salary
	}

	if err := s.prepare(ctx, job, addressChanged); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("job_id", id).Msg("failed to update job")
		return nil, err
	}

	s.logger.Info().Str("job_id", id).Str("user_id", actor.ID).Bool("geocoded", addressChanged).Msg("job updated")
	job.Applicants = nil
	return job, nil
}

// Delete removes the job and, best effort, every resume submitted to it.
func (s *JobService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	job, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	for _, a := range job.Applicants {
		if err := s.storage.Remove(ctx, a.Resume); err != nil {
			s.logger.Warn().Err(err).Str("job_id", id).Str("resume", a.Resume).Msg("failed to remove resume")
		}
	}

	s.logger.Info().Str("job_id", id).Str("user_id", actor.ID).Int("resumes", len(job.Applicants)).Msg("job deleted")
	return nil
}

func (s *JobService) Applied(ctx context.Context, actor ports.Actor) ([]*domain.Job, error) {
	return s.repo.FindAppliedBy(ctx, actor.ID)
}

func (s *JobService) Published(ctx context.Context, actor ports.Actor) ([]*domain.Job, error) {
	return s.repo.FindPublishedBy(ctx, actor.ID)
}

// authorize loads the job and checks that actor owns it or is an admin.
func (s *JobService) authorize(ctx context.Context, actor ports.Actor, id string) (*domain.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && !job.OwnedBy(actor.ID) {
		return nil, fmt.Errorf("%w: user %s is not allowed to modify job %s", domain.ErrForbidden, actor.ID, id)
	}
	return job, nil
}

// prepare derives the slug, validates, and geocodes the address when asked to.
// Nothing is written if any step fails.
func (s *JobService) prepare(ctx context.Context, job *domain.Job, geocode bool) error {
	job.Slug = slug.Make(job.Title)

	if err := domain.NewValidationError(domain.ValidateJob(job)); err != nil {
		return err
	}
	if !geocode {
		return nil
	}

	loc, err := s.locate(ctx, job.Address)
	if err != nil {
		return err
	}
	job.Location = loc
	return nil
}

func (s *JobService) locate(ctx context.Context, address string) (*domain.Location, error) {
	results, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		if !errors.Is(err, domain.ErrGeocoderUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrGeocoderUnavailable, err)
		}
		s.logger.Error().Err(err).Str("address", address).Msg("geocoding failed")
		return nil, err
	}
	first, err := domain.FirstResult(results)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, address)
	}
	return domain.NewLocation(first), nil
}

func setString(dst *string, src *string, trim bool) {
	if src == nil {
		return
	}
	if trim {
		*dst = strings.TrimSpace(*src)
		return
	}
	*dst = *src
}
