package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

const msgRecruiterNotFound = "Recruiter not found"

type Recruiters struct {
	recruiters model.RecruiterStore
	logger     *logger.Logger
}

func NewRecruiters(recruiters model.RecruiterStore, logger *logger.Logger) *Recruiters {
	return &Recruiters{recruiters: recruiters, logger: logger}
}

func (s *Recruiters) List(ctx context.Context) ([]model.Recruiter, error) {
	recruiters, err := s.recruiters.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recruiters: %w", err)
	}
	return recruiters, nil
}

func (s *Recruiters) Create(ctx context.Context, companyName, name, email string) (model.Recruiter, error) {
	recruiter, err := s.recruiters.Create(ctx, model.Recruiter{
		ID:          uuid.New(),
		CompanyName: companyName,
		Name:        name,
		Email:       email,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Recruiter{}, apierrors.NewErrConflict("Recruiter already exists")
		}
		return model.Recruiter{}, fmt.Errorf("failed to create recruiter: %w", err)
	}

	s.logger.Info("Recruiter service: recruiter created", "recruiter_id", recruiter.ID)
	return recruiter, nil
}

func (s *Recruiters) Get(ctx context.Context, id uuid.UUID) (model.Recruiter, error) {
	recruiter, err := s.recruiters.GetByID(ctx, id)
	if err != nil {
		return model.Recruiter{}, notFound(err, msgRecruiterNotFound)
	}
	return recruiter, nil
}

func (s *Recruiters) Verify(ctx context.Context, id uuid.UUID) (model.Recruiter, error) {
	if err := s.recruiters.Verify(ctx, id); err != nil {
		return model.Recruiter{}, notFound(err, msgRecruiterNotFound)
	}

	s.logger.Info("Recruiter service: recruiter verified", "recruiter_id", id)
	return s.Get(ctx, id)
}

func (s *Recruiters) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.recruiters.Delete(ctx, id); err != nil {
		return notFound(err, msgRecruiterNotFound)
	}

	s.logger.Info("Recruiter service: recruiter deleted", "recruiter_id", id)
	return nil
}
