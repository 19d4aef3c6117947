package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecruiterStore defines persistence operations for recruiters.
type RecruiterStore interface {
	Create(ctx context.Context, recruiter Recruiter) (Recruiter, error)
	GetByID(ctx context.Context, id uuid.UUID) (Recruiter, error)
	List(ctx context.Context) ([]Recruiter, error)
	Verify(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnverified(ctx context.Context) (int, error)
}

// Recruiter is a hiring company contact.
type Recruiter struct {
	ID          uuid.UUID
	CompanyName string
	Name        string
	Email       string
	IsVerified  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
