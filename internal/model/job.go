package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobStore defines persistence operations for job postings.
type JobStore interface {
	Create(ctx context.Context, job Job) (Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	List(ctx context.Context, filter JobFilter) ([]Job, error)
	Update(ctx context.Context, id uuid.UUID, update JobUpdate) (Job, error)
	SetStatus(ctx context.Context, id uuid.UUID, status JobStatus) error
	// TransitionStatus moves the job from one status to another and fails with
	// ErrStatusChanged when the job is no longer in from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to JobStatus) error
	SetJDKey(ctx context.Context, id uuid.UUID, key string) error
	CountByStatus(ctx context.Context) (map[JobStatus]int, error)
}

// JobType enumerates posting kinds.
type JobType string

const (
	JobTypeIntern    JobType = "intern"
	JobTypeFTE       JobType = "fte"
	JobTypeInternFTE JobType = "intern_fte"
)

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeIntern, JobTypeFTE, JobTypeInternFTE:
		return true
	}
	return false
}

// JobStatus is the verification lifecycle of a posting.
type JobStatus string

const (
	JobStatusPendingVerification JobStatus = "pending_verification"
	JobStatusActive              JobStatus = "active"
	JobStatusInactive            JobStatus = "inactive"
)

// Eligibility restricts who may apply to a job.
type Eligibility struct {
	CGPA     float64  `json:"cgpa"`
	Branches []string `json:"branches"`
	Batches  []int    `json:"batches"`
}

// Job is a placement posting.
type Job struct {
	ID          uuid.UUID
	Title       string
	Description string
	JDKey       string
	Location    string
	Package     string
	Company     string
	Type        JobType
	RecruiterID *uuid.UUID
	CreatedBy   string
	Eligibility Eligibility
	Deadline    time.Time
	Form        map[string]any
	Status      JobStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// JobSort selects the ordering of job listings.
type JobSort string

const (
	JobSortPostedTime JobSort = "postedTime"
	JobSortPackage    JobSort = "package"
)

// JobFilter narrows job listings. Zero values match everything.
type JobFilter struct {
	Type      JobType
	Status    JobStatus
	CreatedBy string
	Search    string
	SortBy    JobSort
	Ascending bool
	Limit     int
}

// JobUpdate holds optional job fields; nil fields are left unchanged.
type JobUpdate struct {
	Title       *string
	Description *string
	Location    *string
	Package     *string
	Company     *string
	Type        *JobType
	Eligibility *Eligibility
	Deadline    *time.Time
	Form        map[string]any
}
