package domain

import "time"

// Job enumerations. Values are stored verbatim.
const (
	IndustryBusiness          = "Business"
	IndustryIT                = "Information Technology"
	IndustryBanking           = "Banking"
	IndustryEducation         = "Education/Training"
	IndustryTelecommunication = "Telecommunication"
	IndustryOthers            = "Others"

	JobTypePermanent  = "Permanent"
	JobTypeTemporary  = "Temporary"
	JobTypeInternship = "Internship"

	EducationBachelors = "Bachelors"
	EducationMasters   = "Masters"
	EducationPhd       = "Phd"

	ExperienceNone      = "No Experience"
	ExperienceOneToTwo  = "1 Year - 2 Years"
	ExperienceTwoToFive = "2 Year - 5 Years"
	ExperienceFivePlus  = "5 Years+"
)

var (
	Industries  = []string{IndustryBusiness, IndustryIT, IndustryBanking, IndustryEducation, IndustryTelecommunication, IndustryOthers}
	JobTypes    = []string{JobTypePermanent, JobTypeTemporary, JobTypeInternship}
	Educations  = []string{EducationBachelors, EducationMasters, EducationPhd}
	Experiences = []string{ExperienceNone, ExperienceOneToTwo, ExperienceTwoToFive, ExperienceFivePlus}
)

// ApplicationWindow is how long a job accepts applications when no
// lastDate is supplied.
const ApplicationWindow = 7 * 24 * time.Hour

// Applicant links a user to the resume they submitted for a job.
type Applicant struct {
	ID     string `json:"id"`
	Resume string `json:"resume"`
}

// Job is a single posting. Slug and Location are derived before every write.
type Job struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"        validate:"required,max=100"`
	Slug         string      `json:"slug"`
	Description  string      `json:"description"  validate:"required,max=1000"`
	Email        string      `json:"email"        validate:"omitempty,email"`
	Address      string      `json:"address"      validate:"required"`
	Location     *Location   `json:"location,omitempty"`
	Company      string      `json:"company"      validate:"required"`
	Industry     []string    `json:"industry"     validate:"required,min=1,dive,industry"`
	JobType      string      `json:"jobType"      validate:"required,jobtype"`
	MinEducation string      `json:"minEducation" validate:"required,education"`
	Positions    int         `json:"positions"    validate:"gte=1"`
	Experience   string      `json:"experience"   validate:"required,experience"`
	Salary       float64     `json:"salary"       validate:"gte=0"`
	PostingDate  time.Time   `json:"postingDate"`
	LastDate     time.Time   `json:"lastDate"`
	Applicants   []Applicant `json:"applicantsApplied,omitempty"`
	User         string      `json:"user"         validate:"required"`
}

// ApplyDefaults fills the values a new posting gets when the caller leaves
// them empty. LastDate is fixed here and never recomputed on update.
func (j *Job) ApplyDefaults(now time.Time) {
	if j.Positions == 0 {
		j.Positions = 1
	}
	if j.PostingDate.IsZero() {
		j.PostingDate = now
	}
	if j.LastDate.IsZero() {
		j.LastDate = now.Add(ApplicationWindow)
	}
}

// HasApplicant reports whether userID already appears in the applicant list.
func (j *Job) HasApplicant(userID string) bool {
	for _, a := range j.Applicants {
		if a.ID == userID {
			return true
		}
	}
	return false
}

// AcceptsApplicationsAt reports whether the deadline has not yet passed at t.
func (j *Job) AcceptsApplicationsAt(t time.Time) bool {
	return !t.After(j.LastDate)
}

// OwnedBy reports whether userID created the job.
func (j *Job) OwnedBy(userID string) bool {
	return j.User != "" && j.User == userID
}

// JobStats is one experience bracket of the per-topic aggregate.
type JobStats struct {
	Experience  string  `json:"_id"         bson:"_id"`
	TotalJobs   int     `json:"totalJobs"   bson:"totalJobs"`
	AvgPosition float64 `json:"avgPosition" bson:"avgPosition"`
	AvgSalary   float64 `json:"avgSalary"   bson:"avgSalary"`
	MinSalary   float64 `json:"minSalary"   bson:"minSalary"`
	MaxSalary   float64 `json:"maxSalary"   bson:"maxSalary"`
}
