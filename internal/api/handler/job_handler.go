package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
	"github.com/jobbee/jobboard-api/internal/pkg/metrics"
)

// ResumeField is the multipart form field carrying the resume on apply.
const ResumeField = "file"

// JobHandler handles HTTP requests for job postings and applications.
type JobHandler struct {
	jobs         ports.JobService
	applications ports.ApplicationService
}

func NewJobHandler(jobs ports.JobService, applications ports.ApplicationService) *JobHandler {
	return &JobHandler{jobs: jobs, applications: applications}
}

// List handles GET /jobs.
//
// @Summary      List jobs
// @Description  Filters on any job field (salary[gte]=50000, jobType=Permanent), sorts (sort=-salary,title), projects (fields=title,salary), text searches (search=node developer) and paginates (page, limit ≤ 100).
// @Tags         jobs
// @Produce      json
// @Param        sort    query     string  false  "Comma separated sort fields, - prefix for descending"
// @Param        fields  query     string  false  "Comma separated fields to include"
// @Param        search  query     string  false  "Phrase matched against title and description"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Security     BearerAuth
// @Success      200     {object}  jobListResponse
// @Failure      401     {object}  errorResponse
// @Failure      500     {object}  errorResponse
// @Router       /jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	jobs, err := h.jobs.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return respondList(c, toJobResponses(jobs))
}

// Get handles GET /jobs/:id/:slug.
//
// @Summary      Get a job by id and slug
// @Tags         jobs
// @Produce      json
// @Param        id    path      string  true  "Job id"
// @Param        slug  path      string  true  "Job slug"
// @Security     BearerAuth
// @Success      200   {object}  jobEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /jobs/{id}/{slug} [get]
func (h *JobHandler) Get(c echo.Context) error {
	job, err := h.jobs.Get(c.Request().Context(), c.Param("id"), c.Param("slug"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toJobResponse(job))
}

// WithinRadius handles GET /job/:zipcode/:distance.
//
// @Summary      Jobs within a radius
// @Description  Geocodes the zipcode and returns jobs located within distance miles of it.
// @Tags         jobs
// @Produce      json
// @Param        zipcode   path      string  true  "Zipcode to search around"
// @Param        distance  path      number  true  "Radius in miles"
// @Security     BearerAuth
// @Success      200       {object}  jobListResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Failure      502       {object}  errorResponse
// @Router       /job/{zipcode}/{distance} [get]
func (h *JobHandler) WithinRadius(c echo.Context) error {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		return badRequest("distance must be a number of miles")
	}

	jobs, err := h.jobs.WithinRadius(c.Request().Context(), c.Param("zipcode"), distance)
	if err != nil {
		return err
	}
	return respondList(c, toJobResponses(jobs))
}

// Stats handles GET /stats/:topic.
//
// @Summary      Job statistics for a topic
// @Description  Groups jobs matching the topic by experience level with count, average positions and salary range.
// @Tags         jobs
// @Produce      json
// @Param        topic  path      string  true  "Search phrase"
// @Security     BearerAuth
// @Success      200    {object}  envelope{data=[]jobStatsResponse}
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /stats/{topic} [get]
func (h *JobHandler) Stats(c echo.Context) error {
	stats, err := h.jobs.Stats(c.Request().Context(), c.Param("topic"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toStatsResponses(stats))
}

// Create handles POST /job/new.
//
// @Summary      Post a new job
// @Description  The address is geocoded and the slug derived from the title before the job is stored.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createJobRequest  true  "Job details"
// @Success      201   {object}  jobEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /job/new [post]
func (h *JobHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.Request().Context(), actor, toJobInput(req))
	if err != nil {
		return err
	}

	metrics.JobsCreatedTotal.WithLabelValues(job.JobType).Inc()
	return respondMessage(c, http.StatusCreated, "Job Created Successfully", toJobResponse(job))
}

// Update handles PUT /job/:id.
//
// @Summary      Update a job
// @Description  Employers may only update their own jobs. Omitted fields are left unchanged.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Job id"
// @Param        body  body      updateJobRequest  true  "Fields to change"
// @Success      200   {object}  jobEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /job/{id} [put]
func (h *JobHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateJobRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	job, err := h.jobs.Update(c.Request().Context(), actor, c.Param("id"), toJobPatch(req))
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Job Updated Successfully", toJobResponse(job))
}

// Delete handles DELETE /job/:id.
//
// @Summary      Delete a job
// @Description  Employers may only delete their own jobs. Stored resumes of applicants are removed.
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /job/{id} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.jobs.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Job Deleted Successfully", nil)
}

// Apply handles PUT /job/:id/apply.
//
// @Summary      Apply to a job
// @Description  Uploads a .pdf or .docx resume. Each user may apply once, before the job's last date.
// @Tags         jobs
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Job id"
// @Param        file  formData  file    true  "Resume (.pdf or .docx)"
// @Success      200   {object}  envelope{data=applyResponse}
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      413   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /job/{id}/apply [put]
func (h *JobHandler) Apply(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	file, closeFile, err := resumeFrom(c)
	if err != nil {
		return err
	}
	defer closeFile()

	resume, err := h.applications.Apply(c.Request().Context(), actor, c.Param("id"), file)
	metrics.ApplicationsTotal.WithLabelValues(applicationResult(err)).Inc()
	if err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "Applied to Job successfully", applyResponse{Resume: resume})
}

// Applied handles GET /jobs/applied.
//
// @Summary      Jobs the caller applied to
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  jobListResponse
// @Failure      401  {object}  errorResponse
// @Router       /jobs/applied [get]
func (h *JobHandler) Applied(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.Applied(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respondList(c, toJobResponses(jobs))
}

// Published handles GET /jobs/published.
//
// @Summary      Jobs the caller published
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  jobListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /jobs/published [get]
func (h *JobHandler) Published(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.Published(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return respondList(c, toJobResponses(jobs))
}

// resumeFrom opens the uploaded resume. A request without one yields a nil
// file so the service reports it in its usual check order.
func resumeFrom(c echo.Context) (*ports.ResumeFile, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(ResumeField)
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return nil, noop, err
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, noop, nil
	case errors.Is(err, multipart.ErrMessageTooLarge):
		return nil, noop, domain.ErrFileTooLarge
	case err != nil:
		return nil, noop, badRequest("invalid multipart form")
	}

	src, err := fh.Open()
	if err != nil {
		return nil, noop, badRequest("unreadable resume upload")
	}
	return &ports.ResumeFile{Name: fh.Filename, Size: fh.Size, Content: src}, func() { _ = src.Close() }, nil
}

func applicationResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrDeadlinePassed):
		return "deadline_passed"
	case errors.Is(err, domain.ErrAlreadyApplied):
		return "duplicate"
	case errors.Is(err, domain.ErrFileMissing),
		errors.Is(err, domain.ErrUnsupportedFileType),
		errors.Is(err, domain.ErrFileTooLarge):
		return "invalid_file"
	default:
		return "error"
	}
}
