package domain

import "time"

// ApplicationSubmitted is emitted after a resume has been attached to a job.
type ApplicationSubmitted struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	JobTitle    string    `json:"jobTitle"`
	EmployerID  string    `json:"employerId"`
	ApplicantID string    `json:"applicantId"`
	Resume      string    `json:"resume"`
	SubmittedAt time.Time `json:"submittedAt"`
}
