package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/tap-portal-server/internal/api/http/response"
	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/service"
)

const msgInvalidJobID = "Invalid job id"

// JobService defines job posting and application operations.
type JobService interface {
	ListForStudent(ctx context.Context, query string) ([]model.Job, error)
	GetForStudent(ctx context.Context, roll string, id uuid.UUID) (service.JobDetails, error)
	Apply(ctx context.Context, roll string, id uuid.UUID, form map[string]any) (model.Application, error)
	StudentApplications(ctx context.Context, roll string) ([]model.Application, error)

	Create(ctx context.Context, coordinatorID string, in service.JobInput) (model.Job, error)
	ListForCoordinator(ctx context.Context, coordinatorID string, filter model.JobFilter) ([]model.Job, error)
	Pending(ctx context.Context, coordinatorID string) ([]model.Job, error)
	GetForCoordinator(ctx context.Context, coordinatorID string, id uuid.UUID) (service.JobDetails, error)
	Update(ctx context.Context, coordinatorID string, id uuid.UUID, update model.JobUpdate) (model.Job, error)
	Delete(ctx context.Context, coordinatorID string, id uuid.UUID) error
	Verify(ctx context.Context, coordinatorID string, id uuid.UUID, action service.VerifyAction) (model.Job, int, error)
	UploadJD(ctx context.Context, coordinatorID string, id uuid.UUID, file io.Reader, size int64) (string, error)
	CoordinatorApplications(ctx context.Context, coordinatorID string, jobID *uuid.UUID, limit int) ([]model.Application, error)
	UpdateApplicationStatus(ctx context.Context, coordinatorID string, jobID uuid.UUID, studentID string, status model.ApplicationStatus) error
}

type applyRequest struct {
	Form map[string]any `json:"form"`
}

type createJobRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"jd" validate:"required"`
	Location    string          `json:"location" validate:"required"`
	Package     string          `json:"package" validate:"required"`
	Company     string          `json:"company" validate:"required"`
	Type        string          `json:"job_type" validate:"required,oneof=intern fte intern_fte"`
	Eligibility eligibilityBody `json:"eligibility"`
	Deadline    time.Time       `json:"deadline" validate:"required"`
	Form        map[string]any  `json:"form" validate:"required"`
	RecruiterID *uuid.UUID      `json:"recruiter"`
}

type updateJobRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1"`
	Description *string          `json:"jd" validate:"omitempty,min=1"`
	Location    *string          `json:"location" validate:"omitempty,min=1"`
	Package     *string          `json:"package" validate:"omitempty,min=1"`
	Company     *string          `json:"company" validate:"omitempty,min=1"`
	Type        *string          `json:"job_type" validate:"omitempty,oneof=intern fte intern_fte"`
	Eligibility *eligibilityBody `json:"eligibility"`
	Deadline    *time.Time       `json:"deadline"`
	Form        map[string]any   `json:"form"`
}

type verifyJobRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

type applicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending under_review selected rejected"`
}

type jobDetailsResponse struct {
	Job          jobResponse           `json:"job"`
	HasApplied   bool                  `json:"has_applied"`
	JDURL        string                `json:"jd_url,omitempty"`
	Applications []applicationResponse `json:"applications,omitempty"`
}

type verifyJobResponse struct {
	Job      jobResponse `json:"job"`
	Notified int         `json:"notified"`
}

type jdResponse struct {
	URL string `json:"url"`
}

// StudentJobs handles /api/jobs/student.
type StudentJobs struct {
	jobs           JobService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewStudentJobs(jobs JobService, contextManager model.ContextManager, logger *logger.Logger) *StudentJobs {
	return &StudentJobs{jobs: jobs, contextManager: contextManager, logger: logger}
}

func (h *StudentJobs) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListForStudent(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", toJobs(jobs))
}

func (h *StudentJobs) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id", msgInvalidJobID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	details, err := h.jobs.GetForStudent(r.Context(), principal.ID, id)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", jobDetailsResponse{
		Job:        toJob(details.Job),
		HasApplied: details.HasApplied,
		JDURL:      details.JDURL,
	})
}

func (h *StudentJobs) Apply(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id", msgInvalidJobID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req applyRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	app, err := h.jobs.Apply(r.Context(), principal.ID, id, req.Form)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusCreated, "Application submitted successfully", toApplication(app))
}

func (h *StudentJobs) Applications(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	apps, err := h.jobs.StudentApplications(r.Context(), principal.ID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", toApplications(apps))
}

// CoordinatorJobs handles /api/jobs/tap.
type CoordinatorJobs struct {
	jobs           JobService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewCoordinatorJobs(jobs JobService, contextManager model.ContextManager, logger *logger.Logger) *CoordinatorJobs {
	return &CoordinatorJobs{jobs: jobs, contextManager: contextManager, logger: logger}
}

func (h *CoordinatorJobs) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req createJobRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	job, err := h.jobs.Create(r.Context(), principal.ID, service.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Package:     req.Package,
		Company:     req.Company,
		Type:        model.JobType(req.Type),
		Eligibility: req.Eligibility.model(),
		Deadline:    req.Deadline,
		Form:        req.Form,
		RecruiterID: req.RecruiterID,
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusCreated, "Job created successfully", toJob(job))
}

func (h *CoordinatorJobs) List(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	filter, err := jobFilter(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	jobs, err := h.jobs.ListForCoordinator(r.Context(), principal.ID, filter)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", toJobs(jobs))
}

func jobFilter(r *http.Request) (model.JobFilter, error) {
	q := r.URL.Query()
	filter := model.JobFilter{
		Search:    strings.TrimSpace(q.Get("search")),
		Ascending: strings.EqualFold(q.Get("sortOrder"), "asc"),
	}

	switch sortBy := model.JobSort(q.Get("sortBy")); sortBy {
	case "", model.JobSortPostedTime, model.JobSortPackage:
		filter.SortBy = sortBy
	default:
		return model.JobFilter{}, apierrors.NewErrBadRequest("Invalid sortBy. Must be either 'postedTime' or 'package'")
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return model.JobFilter{}, apierrors.NewErrBadRequest("Invalid limit")
		}
		filter.Limit = limit
	}

	return filter, nil
}

func (h *CoordinatorJobs) Pending(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	jobs, err := h.jobs.Pending(r.Context(), principal.ID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", toJobs(jobs))
}

func (h *CoordinatorJobs) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id", msgInvalidJobID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	details, err := h.jobs.GetForCoordinator(r.Context(), principal.ID, id)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", jobDetailsResponse{
		Job:          toJob(details.Job),
		JDURL:        details.JDURL,
		Applications: toApplications(details.Applications),
	})
}

func (h *CoordinatorJobs) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id", msgInvalidJobID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req updateJobRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	update := model.JobUpdate{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Package:     req.Package,
		Company:     req.Company,
		Deadline:    req.Deadline,
		Form:        req.Form,
	}
	if req.Type != nil {
		jobType := model.JobType(*req.Type)
		update.Type = &jobType
	}
	if req.Eligibility != nil {
		eligibility := req.Eligibility.model()
		update.Eligibility = &eligibility
	}

	job, err := h.jobs.Update(r.Context(), principal.ID, id, update)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Job updated successfully", toJob(job))
}

func (h *CoordinatorJobs) Delete(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id", msgInvalidJobID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if err := h.jobs.Delete(r.Context(), principal.ID, id); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Job deleted successfully", nil)
}

func (h *CoordinatorJobs) Verify(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id", msgInvalidJobID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req verifyJobRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	job, notified, err := h.jobs.Verify(r.Context(), principal.ID, id, service.VerifyAction(req.Action))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	message := "Job approved successfully"
	if job.Status != model.JobStatusActive {
		message = "Job rejected successfully"
	}
	response.Success(w, http.StatusOK, message, verifyJobResponse{Job: toJob(job), Notified: notified})
}

func (h *CoordinatorJobs) UploadJD(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	id, err := pathUUID(r, "id", msgInvalidJobID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	file, size, err := formFile(w, r, "jd", service.MaxJDSize)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	defer file.Close()

	url, err := h.jobs.UploadJD(r.Context(), principal.ID, id, file, size)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Job description uploaded successfully", jdResponse{URL: url})
}

func (h *CoordinatorJobs) Applications(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	q := r.URL.Query()
	var jobID *uuid.UUID
	if raw := q.Get("job"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, r, h.logger, apierrors.NewErrBadRequest(msgInvalidJobID))
			return
		}
		jobID = &id
	}

	var limit int
	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			response.Error(w, r, h.logger, apierrors.NewErrBadRequest("Invalid limit"))
			return
		}
	}

	apps, err := h.jobs.CoordinatorApplications(r.Context(), principal.ID, jobID, limit)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", toApplications(apps))
}

func (h *CoordinatorJobs) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	jobID, err := pathUUID(r, "id", msgInvalidJobID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req applicationStatusRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	studentID := chi.URLParam(r, "studentId")
	if err := h.jobs.UpdateApplicationStatus(r.Context(), principal.ID, jobID, studentID, model.ApplicationStatus(req.Status)); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Application status updated successfully", nil)
}
