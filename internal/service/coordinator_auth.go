package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

type CoordinatorAuth struct {
	coordinators model.CoordinatorStore
	identity     model.IdentityProvider
	sessions     *Sessions
	reset        passwordReset
	logger       *logger.Logger
}

func NewCoordinatorAuth(
	coordinators model.CoordinatorStore,
	identity model.IdentityProvider,
	sessions *Sessions,
	logger *logger.Logger,
) *CoordinatorAuth {
	return &CoordinatorAuth{
		coordinators: coordinators,
		identity:     identity,
		sessions:     sessions,
		reset: passwordReset{
			identity: identity,
			known:    knownBy(coordinators.GetByEmail),
			name:     "Coordinator auth service",
			logger:   logger,
		},
		logger: logger,
	}
}

func (a *CoordinatorAuth) Register(ctx context.Context, name, email, password string) (model.Coordinator, Session, error) {
	email = NormalizeEmail(email)

	identity, err := a.identity.SignUp(ctx, email, password)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Coordinator{}, Session{}, apierrors.NewErrConflict("Coordinator already exists")
		}
		a.logger.Error("Coordinator auth service: provider sign-up failed", "error", err.Error())
		return model.Coordinator{}, Session{}, fmt.Errorf("failed to sign up: %w", err)
	}

	if err := a.identity.SendVerificationEmail(ctx, identity); err != nil {
		a.logger.Warn("Coordinator auth service: failed to send verification email",
			"provider_id", identity.UID,
			"error", err.Error())
	}

	coordinator, err := a.coordinators.Create(ctx, model.Coordinator{
		ID:         identity.UID,
		ProviderID: identity.UID,
		Name:       name,
		Email:      email,
	})
	if err != nil {
		rollbackSignUp(ctx, a.identity, identity, "Coordinator auth service", a.logger)
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Coordinator{}, Session{}, apierrors.NewErrConflict("Coordinator already exists")
		}
		a.logger.Error("Coordinator auth service: failed to create coordinator",
			"provider_id", identity.UID,
			"error", err.Error())
		return model.Coordinator{}, Session{}, fmt.Errorf("failed to create coordinator: %w", err)
	}

	session, err := a.sessions.Issue(model.Principal{ID: coordinator.ID, Role: model.RoleTAP}, identity.UID)
	if err != nil {
		return model.Coordinator{}, Session{}, err
	}

	a.logger.Info("Coordinator auth service: coordinator registered", "id", coordinator.ID)

	return coordinator, session, nil
}

func (a *CoordinatorAuth) Login(ctx context.Context, email, password string) (model.Coordinator, Session, error) {
	email = NormalizeEmail(email)
	identity, err := a.identity.VerifyPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPassword) {
			return model.Coordinator{}, Session{}, apierrors.NewErrInvalidLogin()
		}
		a.logger.Error("Coordinator auth service: password verification failed", "error", err.Error())
		return model.Coordinator{}, Session{}, fmt.Errorf("failed to verify password: %w", err)
	}

	coordinator, err := a.coordinators.GetByID(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Coordinator{}, Session{}, apierrors.NewErrInvalidLogin()
		}
		return model.Coordinator{}, Session{}, fmt.Errorf("failed to get coordinator: %w", err)
	}

	principal := model.Principal{ID: coordinator.ID, Role: model.RoleTAP}
	session, err := a.sessions.IssueVerified(ctx, principal, identity)
	if err != nil {
		return model.Coordinator{}, Session{}, err
	}

	if !coordinator.EmailVerified {
		if err := a.coordinators.MarkEmailVerified(ctx, coordinator.ID); err != nil {
			return model.Coordinator{}, Session{}, fmt.Errorf("failed to mark email verified: %w", err)
		}
		coordinator.EmailVerified = true
	}

	a.logger.Info("Coordinator auth service: coordinator logged in", "id", coordinator.ID)

	return coordinator, session, nil
}

func (a *CoordinatorAuth) ResetPassword(ctx context.Context, email string) {
	a.reset.Request(ctx, email)
}

func (a *CoordinatorAuth) ConfirmResetPassword(ctx context.Context, code, newPassword string) error {
	return a.reset.Confirm(ctx, code, newPassword)
}
