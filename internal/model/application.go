package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ApplicationStore defines persistence operations for job applications.
type ApplicationStore interface {
	Create(ctx context.Context, application Application) (Application, error)
	Exists(ctx context.Context, jobID uuid.UUID, studentID string) (bool, error)
	List(ctx context.Context, filter ApplicationFilter) ([]Application, error)
	// UpdateStatus also marks the student placed when status is selected.
	UpdateStatus(ctx context.Context, jobID uuid.UUID, studentID string, status ApplicationStatus) error
	// CountByStatus counts the student's applications, or all when studentID is empty.
	CountByStatus(ctx context.Context, studentID string) (map[ApplicationStatus]int, error)
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusSelected    ApplicationStatus = "selected"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusUnderReview, ApplicationStatusSelected, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is a student's submission to a job.
type Application struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	StudentID string
	Form      map[string]any
	Status    ApplicationStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	// Populated by List from the joined job and student rows.
	JobTitle     string
	Company      string
	StudentName  string
	StudentEmail string
}

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	JobID     *uuid.UUID
	StudentID string
	// CreatedBy restricts to jobs posted by the given coordinator.
	CreatedBy string
	Limit     int
}
