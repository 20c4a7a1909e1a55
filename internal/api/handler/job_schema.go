package handler

import "time"

// --- Request / Response types ---

type createJobRequest struct {
	Title        string     `json:"title"        validate:"required,max=100"`
	Description  string     `json:"description"  validate:"required,max=1000"`
	Email        string     `json:"email"        validate:"omitempty,email"`
	Address      string     `json:"address"      validate:"required"`
	Company      string     `json:"company"      validate:"required"`
	Industry     []string   `json:"industry"     validate:"required,min=1"`
	JobType      string     `json:"jobType"      validate:"required"`
	MinEducation string     `json:"minEducation" validate:"required"`
	Positions    int        `json:"positions"    validate:"gte=0"`
	Experience   string     `json:"experience"   validate:"required"`
	Salary       *float64   `json:"salary"       validate:"required,gte=0"`
	LastDate     *time.Time `json:"lastDate"`
}

type updateJobRequest struct {
	Title        *string  `json:"title"        validate:"omitempty,max=100"`
	Description  *string  `json:"description"  validate:"omitempty,max=1000"`
	Email        *string  `json:"email"        validate:"omitempty,email"`
	Address      *string  `json:"address"`
	Company      *string  `json:"company"`
	Industry     []string `json:"industry"     validate:"omitempty,min=1"`
	JobType      *string  `json:"jobType"`
	MinEducation *string  `json:"minEducation"`
	Positions    *int     `json:"positions"    validate:"omitempty,gte=1"`
	Experience   *string  `json:"experience"`
	Salary       *float64 `json:"salary"       validate:"omitempty,gte=0"`
}

type locationResponse struct {
	Type             string    `json:"type"`
	Coordinates      []float64 `json:"coordinates"`
	FormattedAddress string    `json:"formattedAddress,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty"`
	Country          string    `json:"country,omitempty"`
}

type applicantResponse struct {
	ID     string `json:"id"`
	Resume string `json:"resume"`
}

// jobResponse omits empty fields so a ?fields= projection is reflected in the
// payload instead of being padded with zero values.
type jobResponse struct {
	ID           string              `json:"_id,omitempty"`
	Title        string              `json:"title,omitempty"`
	Slug         string              `json:"slug,omitempty"`
	Description  string              `json:"description,omitempty"`
	Email        string              `json:"email,omitempty"`
	Address      string              `json:"address,omitempty"`
	Location     *locationResponse   `json:"location,omitempty"`
	Company      string              `json:"company,omitempty"`
	Industry     []string            `json:"industry,omitempty"`
	JobType      string              `json:"jobType,omitempty"`
	MinEducation string              `json:"minEducation,omitempty"`
	Positions    int                 `json:"positions,omitempty"`
	Experience   string              `json:"experience,omitempty"`
	Salary       float64             `json:"salary,omitempty"`
	PostingDate  *time.Time          `json:"postingDate,omitempty"`
	LastDate     *time.Time          `json:"lastDate,omitempty"`
	Applicants   []applicantResponse `json:"applicantsApplied,omitempty"`
	User         string              `json:"user,omitempty"`
}

type jobStatsResponse struct {
	Experience  string  `json:"_id"`
	TotalJobs   int     `json:"totalJobs"`
	AvgPosition float64 `json:"avgPosition"`
	AvgSalary   float64 `json:"avgSalary"`
	MinSalary   float64 `json:"minSalary"`
	MaxSalary   float64 `json:"maxSalary"`
}

type applyResponse struct {
	Resume string `json:"resume"`
}

// jobListResponse and jobEnvelope document the success envelopes for swagger.
type jobListResponse struct {
	Success bool          `json:"success" example:"true"`
	Results int           `json:"results"`
	Data    []jobResponse `json:"data"`
}

type jobEnvelope struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty"`
	Data    jobResponse `json:"data"`
}
