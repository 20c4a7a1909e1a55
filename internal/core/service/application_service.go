package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

// AllowedResumeExtensions lists the accepted resume formats.
var AllowedResumeExtensions = []string{".pdf", ".docx"}

type ApplicationService struct {
	jobs        ports.JobRepository
	storage     ports.ResumeStorage
	events      ports.EventDispatcher
	maxFileSize int64
	logger      zerolog.Logger
	now         func() time.Time
}

func NewApplicationService(
	jobs ports.JobRepository,
	storage ports.ResumeStorage,
	events ports.EventDispatcher,
	maxFileSize int64,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		jobs:        jobs,
		storage:     storage,
		events:      events,
		maxFileSize: maxFileSize,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Apply attaches the actor's resume to a job. Checks run in order: job exists,
// deadline, duplicate, file present, file type, file size. The applicant is
// appended with a conditional update so concurrent submissions by the same
// user can not both succeed, and only the winner stores its file.
func (s *ApplicationService) Apply(ctx context.Context, actor ports.Actor, jobID string, file *ports.ResumeFile) (string, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return "", err
	}

	now := s.now()
	if !job.AcceptsApplicationsAt(now) {
		return "", domain.ErrDeadlinePassed
	}
	if job.HasApplicant(actor.ID) {
		return "", domain.ErrAlreadyApplied
	}
	if file == nil || file.Content == nil {
		return "", domain.ErrFileMissing
	}
	ext := strings.ToLower(filepath.Ext(file.Name))
	if !lo.Contains(AllowedResumeExtensions, ext) {
		return "", fmt.Errorf("%w: %q, expected one of %s", domain.ErrUnsupportedFileType, ext, strings.Join(AllowedResumeExtensions, ", "))
	}
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return "", fmt.Errorf("%w: %d bytes exceeds the %d byte limit", domain.ErrFileTooLarge, file.Size, s.maxFileSize)
	}

	// The applicant is recorded before the file is written, so a request that
	// loses the race never touches storage.
	name := ResumeName(actor.Name, job.ID, ext)
	added, err := s.jobs.AddApplicant(ctx, job.ID, domain.Applicant{ID: actor.ID, Resume: name}, now)
	if err != nil {
		return "", err
	}
	if !added {
		if !job.AcceptsApplicationsAt(s.now()) {
			return "", domain.ErrDeadlinePassed
		}
		return "", domain.ErrAlreadyApplied
	}

	if err := s.storage.Save(ctx, name, file.Content, file.Size); err != nil {
		s.logger.Error().Err(err).Str("job_id", job.ID).Str("resume", name).Msg("failed to store resume")
		s.withdraw(ctx, job.ID, actor.ID)
		return "", fmt.Errorf("store resume: %w", err)
	}

	s.logger.Info().Str("job_id", job.ID).Str("user_id", actor.ID).Str("resume", name).Msg("application submitted")

	event := domain.ApplicationSubmitted{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		JobTitle:    job.Title,
		EmployerID:  job.User,
		ApplicantID: actor.ID,
		Resume:      name,
		SubmittedAt: now,
	}
	if !s.events.Enqueue(event) {
		s.logger.Warn().Str("event_id", event.ID).Str("job_id", job.ID).Msg("application event dropped")
	}

	return name, nil
}

// withdraw removes an applicant whose resume could not be stored.
func (s *ApplicationService) withdraw(ctx context.Context, jobID, userID string) {
	if err := s.jobs.RemoveApplicant(context.WithoutCancel(ctx), jobID, userID); err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Str("user_id", userID).Msg("failed to withdraw applicant without resume")
	}
}

// ResumeName builds the stored filename: the applicant's name with whitespace
// replaced by underscores, the job id, and the original extension.
func ResumeName(applicant, jobID, ext string) string {
	base := strings.Join(strings.Fields(applicant), "_")
	base = strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(base)
	if base == "" {
		base = "resume"
	}
	return base + "_" + jobID + ext
}
