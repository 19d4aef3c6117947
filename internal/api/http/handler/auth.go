package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/tap-portal-server/internal/api/http/response"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/service"
)

const (
	msgLoggedOut     = "Logged out successfully"
	msgResetSent     = "If the email is registered, a password reset link has been sent"
	msgPasswordReset = "Password has been reset successfully"
)

// StudentAuthService defines student registration, login and password reset.
type StudentAuthService interface {
	Register(ctx context.Context, reg service.StudentRegistration) (model.Student, service.Session, error)
	Login(ctx context.Context, email, password string) (model.Student, service.Session, error)
	ResetPassword(ctx context.Context, email string)
	ConfirmResetPassword(ctx context.Context, code, newPassword string) error
}

// CoordinatorAuthService defines coordinator registration, login and password reset.
type CoordinatorAuthService interface {
	Register(ctx context.Context, name, email, password string) (model.Coordinator, service.Session, error)
	Login(ctx context.Context, email, password string) (model.Coordinator, service.Session, error)
	ResetPassword(ctx context.Context, email string)
	ConfirmResetPassword(ctx context.Context, code, newPassword string) error
}

type studentRegisterRequest struct {
	Email     string `json:"reg_email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=3"`
	LastName  string `json:"last_name" validate:"required,min=3"`
	Mobile    string `json:"mobile" validate:"required,numeric,min=10"`
	LinkedIn  string `json:"linkedin" validate:"required,url"`
	Branch    string `json:"branch" validate:"required"`
}

type studentLoginRequest struct {
	Email    string `json:"reg_email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type studentResetRequest struct {
	Email string `json:"reg_email" validate:"required,email"`
}

type coordinatorRegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type coordinatorLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type coordinatorResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type confirmResetRequest struct {
	Code        string `json:"code" validate:"required,min=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type idResponse struct {
	ID string `json:"id"`
}

// StudentAuth handles /api/auth/student.
type StudentAuth struct {
	auth    StudentAuthService
	cookies Cookies
	logger  *logger.Logger
}

func NewStudentAuth(auth StudentAuthService, cookies Cookies, logger *logger.Logger) *StudentAuth {
	return &StudentAuth{auth: auth, cookies: cookies, logger: logger}
}

func (h *StudentAuth) Register(w http.ResponseWriter, r *http.Request) {
	var req studentRegisterRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	student, session, err := h.auth.Register(r.Context(), service.StudentRegistration{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
		LinkedIn:  req.LinkedIn,
		Branch:    req.Branch,
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	h.cookies.Set(w, session)
	response.Success(w, http.StatusCreated, "Student registered successfully", idResponse{ID: student.RollNumber})
}

func (h *StudentAuth) Login(w http.ResponseWriter, r *http.Request) {
	var req studentLoginRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	student, session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	h.cookies.Set(w, session)
	response.Success(w, http.StatusOK, "Login successful", toStudent(student))
}

func (h *StudentAuth) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.Clear(w)
	response.Success(w, http.StatusOK, msgLoggedOut, nil)
}

func (h *StudentAuth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req studentResetRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	h.auth.ResetPassword(r.Context(), req.Email)
	response.Success(w, http.StatusOK, msgResetSent, nil)
}

func (h *StudentAuth) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	confirmReset(w, r, h.auth.ConfirmResetPassword, h.logger)
}

// CoordinatorAuth handles /api/auth/tap.
type CoordinatorAuth struct {
	auth    CoordinatorAuthService
	cookies Cookies
	logger  *logger.Logger
}

func NewCoordinatorAuth(auth CoordinatorAuthService, cookies Cookies, logger *logger.Logger) *CoordinatorAuth {
	return &CoordinatorAuth{auth: auth, cookies: cookies, logger: logger}
}

func (h *CoordinatorAuth) Register(w http.ResponseWriter, r *http.Request) {
	var req coordinatorRegisterRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	coordinator, session, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	h.cookies.Set(w, session)
	response.Success(w, http.StatusCreated, "Coordinator registered successfully", idResponse{ID: coordinator.ID})
}

func (h *CoordinatorAuth) Login(w http.ResponseWriter, r *http.Request) {
	var req coordinatorLoginRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	coordinator, session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	h.cookies.Set(w, session)
	response.Success(w, http.StatusOK, "Login successful", coordinatorResponse{
		ID:    coordinator.ID,
		Name:  coordinator.Name,
		Email: coordinator.Email,
	})
}

func (h *CoordinatorAuth) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.Clear(w)
	response.Success(w, http.StatusOK, msgLoggedOut, nil)
}

func (h *CoordinatorAuth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req coordinatorResetRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	h.auth.ResetPassword(r.Context(), req.Email)
	response.Success(w, http.StatusOK, msgResetSent, nil)
}

func (h *CoordinatorAuth) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	confirmReset(w, r, h.auth.ConfirmResetPassword, h.logger)
}

func confirmReset(
	w http.ResponseWriter,
	r *http.Request,
	confirm func(ctx context.Context, code, newPassword string) error,
	logger *logger.Logger,
) {
	var req confirmResetRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := confirm(r.Context(), req.Code, req.NewPassword); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, msgPasswordReset, nil)
}
