package handler

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

func toJobInput(req createJobRequest) ports.JobInput {
	in := ports.JobInput{
		Title:        req.Title,
		Description:  req.Description,
		Email:        req.Email,
		Address:      req.Address,
		Company:      req.Company,
		Industry:     cleanIndustry(req.Industry),
		JobType:      req.JobType,
		MinEducation: req.MinEducation,
		Positions:    req.Positions,
		Experience:   req.Experience,
	}
	if req.Salary != nil {
		in.Salary = *req.Salary
	}
	if req.LastDate != nil {
		in.LastDate = req.LastDate.UTC()
	}
	return in
}

func toJobPatch(req updateJobRequest) ports.JobPatch {
	return ports.JobPatch{
		Title:        req.Title,
		Description:  req.Description,
		Email:        req.Email,
		Address:      req.Address,
		Company:      req.Company,
		Industry:     cleanIndustry(req.Industry),
		JobType:      req.JobType,
		MinEducation: req.MinEducation,
		Positions:    req.Positions,
		Experience:   req.Experience,
		Salary:       req.Salary,
	}
}

// cleanIndustry trims entries and drops blanks and repeats, keeping order.
func cleanIndustry(in []string) []string {
	if in == nil {
		return nil
	}
	trimmed := lo.Map(in, func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Uniq(lo.Compact(trimmed))
}

func toJobResponse(j *domain.Job) jobResponse {
	resp := jobResponse{
		ID:           j.ID,
		Title:        j.Title,
		Slug:         j.Slug,
		Description:  j.Description,
		Email:        j.Email,
		Address:      j.Address,
		Company:      j.Company,
		Industry:     j.Industry,
		JobType:      j.JobType,
		MinEducation: j.MinEducation,
		Positions:    j.Positions,
		Experience:   j.Experience,
		Salary:       j.Salary,
		PostingDate:  timePtr(j.PostingDate),
		LastDate:     timePtr(j.LastDate),
		User:         j.User,
	}
	if j.Location != nil {
		resp.Location = &locationResponse{
			Type:             j.Location.Type,
			Coordinates:      j.Location.Coordinates,
			FormattedAddress: j.Location.FormattedAddress,
			City:             j.Location.City,
			State:            j.Location.State,
			Zipcode:          j.Location.Zipcode,
			Country:          j.Location.Country,
		}
	}
	if len(j.Applicants) > 0 {
		resp.Applicants = lo.Map(j.Applicants, func(a domain.Applicant, _ int) applicantResponse {
			return applicantResponse{ID: a.ID, Resume: a.Resume}
		})
	}
	return resp
}

func toJobResponses(jobs []*domain.Job) []jobResponse {
	return lo.Map(jobs, func(j *domain.Job, _ int) jobResponse { return toJobResponse(j) })
}

func toStatsResponses(stats []domain.JobStats) []jobStatsResponse {
	return lo.Map(stats, func(s domain.JobStats, _ int) jobStatsResponse {
		return jobStatsResponse{
			Experience:  s.Experience,
			TotalJobs:   s.TotalJobs,
			AvgPosition: s.AvgPosition,
			AvgSalary:   s.AvgSalary,
			MinSalary:   s.MinSalary,
			MaxSalary:   s.MaxSalary,
		}
	})
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
