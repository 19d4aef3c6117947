package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/tap-portal-server/internal/api/http/response"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

const msgInvalidRecruiterID = "Invalid recruiter id"

// RecruiterService defines recruiter management operations.
type RecruiterService interface {
	List(ctx context.Context) ([]model.Recruiter, error)
	Create(ctx context.Context, companyName, name, email string) (model.Recruiter, error)
	Get(ctx context.Context, id uuid.UUID) (model.Recruiter, error)
	Verify(ctx context.Context, id uuid.UUID) (model.Recruiter, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type createRecruiterRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
}

// Recruiters handles /api/recruiter/tap.
type Recruiters struct {
	recruiters RecruiterService
	logger     *logger.Logger
}

func NewRecruiters(recruiters RecruiterService, logger *logger.Logger) *Recruiters {
	return &Recruiters{recruiters: recruiters, logger: logger}
}

func (h *Recruiters) List(w http.ResponseWriter, r *http.Request) {
	recruiters, err := h.recruiters.List(r.Context())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	out := make([]recruiterResponse, 0, len(recruiters))
	for _, rec := range recruiters {
		out = append(out, toRecruiter(rec))
	}
	response.Success(w, http.StatusOK, "", out)
}

func (h *Recruiters) Create(w http.ResponseWriter, r *http.Request) {
	var req createRecruiterRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	recruiter, err := h.recruiters.Create(r.Context(), req.CompanyName, req.Name, req.Email)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusCreated, "Recruiter created successfully", toRecruiter(recruiter))
}

func (h *Recruiters) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", msgInvalidRecruiterID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	recruiter, err := h.recruiters.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "", toRecruiter(recruiter))
}

func (h *Recruiters) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", msgInvalidRecruiterID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	recruiter, err := h.recruiters.Verify(r.Context(), id)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Recruiter verified successfully", toRecruiter(recruiter))
}

func (h *Recruiters) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", msgInvalidRecruiterID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if err := h.recruiters.Delete(r.Context(), id); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Recruiter deleted successfully", nil)
}
