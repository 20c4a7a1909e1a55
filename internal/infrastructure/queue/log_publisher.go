package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.ApplicationSubmitted) error {
	p.log.Info().
		Str("event_id", event.ID).
		Str("job_id", event.JobID).
		Str("employer_id", event.EmployerID).
		Str("applicant_id", event.ApplicantID).
		Str("resume", event.Resume).
		Time("submitted_at", event.SubmittedAt).
		Msg("application submitted")
	return nil
}
