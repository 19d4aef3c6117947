package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StudentStore defines persistence operations for students.
type StudentStore interface {
	Create(ctx context.Context, student Student) (Student, error)
	GetByRoll(ctx context.Context, roll string) (Student, error)
	GetByEmail(ctx context.Context, email string) (Student, error)
	List(ctx context.Context, filter StudentFilter) ([]Student, error)
	UpdateProfile(ctx context.Context, roll string, update StudentProfileUpdate) (Student, error)
	MarkEmailVerified(ctx context.Context, roll string) error
	SetResume(ctx context.Context, roll, key string, updatedAt *time.Time) error
	UpdateCGPA(ctx context.Context, grades map[string]float64) (missing []string, err error)
	Stats(ctx context.Context) (StudentStats, error)
}

// Student is a registered student keyed by roll number.
type Student struct {
	RollNumber      string
	ProviderID      string
	Email           string
	FirstName       string
	LastName        string
	Mobile          string
	LinkedIn        string
	Branch          string
	Batch           int
	CGPA            *float64
	EmailVerified   bool
	Placed          bool
	PlacedJob       *uuid.UUID
	ResumeKey       string
	ResumeUpdatedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentProfileUpdate holds optional profile fields; nil fields are left unchanged.
type StudentProfileUpdate struct {
	FirstName *string
	LastName  *string
	Mobile    *string
	LinkedIn  *string
}

// StudentFilter narrows student listings. Zero values match everything.
type StudentFilter struct {
	Branch   string
	Batch    int
	Branches []string
	Batches  []int
}

// StudentStats aggregates placement figures.
type StudentStats struct {
	Total  int
	Placed int
}
