package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/tap-portal-server/internal/api/http/response"
	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/service"
)

// StudentService defines student profile operations.
type StudentService interface {
	Dashboard(ctx context.Context, roll string) (service.StudentDashboard, error)
	UpdateProfile(ctx context.Context, roll string, update model.StudentProfileUpdate) (model.Student, error)
	List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error)
	Get(ctx context.Context, roll string) (model.Student, error)
	Applications(ctx context.Context, roll string) ([]model.Application, error)
}

// ResumeService defines resume storage operations.
type ResumeService interface {
	Upload(ctx context.Context, roll string, file io.Reader, size int64) (service.Resume, error)
	Get(ctx context.Context, roll string) (service.Resume, error)
	Delete(ctx context.Context, roll string) error
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=3"`
	LastName  *string `json:"last_name" validate:"omitempty,min=3"`
	Mobile    *string `json:"mobile" validate:"omitempty,numeric,min=10"`
	LinkedIn  *string `json:"linkedin" validate:"omitempty,url"`
}

type studentDashboardResponse struct {
	Student      studentResponse                 `json:"student"`
	Applications map[model.ApplicationStatus]int `json:"applications"`
	HasResume    bool                            `json:"has_resume"`
}

type resumeResponse struct {
	URL       string     `json:"url"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Student handles the student's own dashboard and resume.
type Student struct {
	students       StudentService
	resumes        ResumeService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewStudent(students StudentService, resumes ResumeService, contextManager model.ContextManager, logger *logger.Logger) *Student {
	return &Student{students: students, resumes: resumes, contextManager: contextManager, logger: logger}
}

func (h *Student) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	dashboard, err := h.students.Dashboard(r.Context(), principal.ID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", studentDashboardResponse{
		Student:      toStudent(dashboard.Student),
		Applications: dashboard.Applications,
		HasResume:    dashboard.HasResume,
	})
}

func (h *Student) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req updateProfileRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	student, err := h.students.UpdateProfile(r.Context(), principal.ID, model.StudentProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
		LinkedIn:  req.LinkedIn,
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", toStudent(student))
}

func (h *Student) UploadResume(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	file, size, err := formFile(w, r, "resume", service.MaxResumeSize)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	defer file.Close()

	resume, err := h.resumes.Upload(r.Context(), principal.ID, file, size)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Resume uploaded successfully", resumeResponse{URL: resume.URL, UpdatedAt: resume.UpdatedAt})
}

func (h *Student) GetResume(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	resume, err := h.resumes.Get(r.Context(), principal.ID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", resumeResponse{URL: resume.URL, UpdatedAt: resume.UpdatedAt})
}

func (h *Student) DeleteResume(w http.ResponseWriter, r *http.Request) {
	principal, err := principalOf(r, h.contextManager)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if err := h.resumes.Delete(r.Context(), principal.ID); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Resume deleted successfully", nil)
}

// CoordinatorStudents handles student lookups by coordinators.
type CoordinatorStudents struct {
	students StudentService
	logger   *logger.Logger
}

func NewCoordinatorStudents(students StudentService, logger *logger.Logger) *CoordinatorStudents {
	return &CoordinatorStudents{students: students, logger: logger}
}

func (h *CoordinatorStudents) List(w http.ResponseWriter, r *http.Request) {
	filter := model.StudentFilter{Branch: r.URL.Query().Get("branch")}
	if raw := r.URL.Query().Get("batch"); raw != "" {
		batch, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, r, h.logger, apierrors.NewErrBadRequest("Invalid batch"))
			return
		}
		filter.Batch = batch
	}

	students, err := h.students.List(r.Context(), filter)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", toStudents(students))
}

func (h *CoordinatorStudents) Get(w http.ResponseWriter, r *http.Request) {
	student, err := h.students.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", toStudent(student))
}

func (h *CoordinatorStudents) Applications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.students.Applications(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", toApplications(apps))
}
