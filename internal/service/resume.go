package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

const msgResumeNotFound = "Resume not found"

// Resume is a stored resume with a time-limited download URL.
type Resume struct {
	URL       string
	UpdatedAt *time.Time
}

type Resumes struct {
	students model.StudentStore
	storage  model.Storage
	urlTTL   time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

func NewResumes(students model.StudentStore, storage model.Storage, urlTTL time.Duration, logger *logger.Logger) *Resumes {
	return &Resumes{students: students, storage: storage, urlTTL: urlTTL, now: time.Now, logger: logger}
}

// ResumeKey is the object key of a student's resume.
func ResumeKey(roll string) string {
	return "resumes/" + roll + "/resume.pdf"
}

// Upload stores or replaces the student's resume.
func (s *Resumes) Upload(ctx context.Context, roll string, file io.Reader, size int64) (Resume, error) {
	body, err := pdfReader(file, size, MaxResumeSize)
	if err != nil {
		return Resume{}, err
	}

	key := ResumeKey(roll)
	if err := s.storage.Upload(ctx, key, body, size, pdfContentType); err != nil {
		s.logger.Error("Resume service: failed to upload resume",
			"roll", roll,
			"error", err.Error())
		return Resume{}, fmt.Errorf("failed to upload resume: %w", err)
	}

	now := s.now().UTC()
	if err := s.students.SetResume(ctx, roll, key, &now); err != nil {
		return Resume{}, notFound(err, "Student not found")
	}

	url, err := s.storage.PresignGet(ctx, key, s.urlTTL)
	if err != nil {
		return Resume{}, fmt.Errorf("failed to presign resume: %w", err)
	}

	s.logger.Info("Resume service: resume uploaded", "roll", roll, "size", size)

	return Resume{URL: url, UpdatedAt: &now}, nil
}

func (s *Resumes) Get(ctx context.Context, roll string) (Resume, error) {
	student, err := s.students.GetByRoll(ctx, roll)
	if err != nil {
		return Resume{}, notFound(err, "Student not found")
	}
	if student.ResumeKey == "" {
		return Resume{}, apierrors.NewErrNotFound(msgResumeNotFound)
	}

	url, err := s.storage.PresignGet(ctx, student.ResumeKey, s.urlTTL)
	if err != nil {
		return Resume{}, fmt.Errorf("failed to presign resume: %w", err)
	}

	return Resume{URL: url, UpdatedAt: student.ResumeUpdatedAt}, nil
}

func (s *Resumes) Delete(ctx context.Context, roll string) error {
	student, err := s.students.GetByRoll(ctx, roll)
	if err != nil {
		return notFound(err, "Student not found")
	}
	if student.ResumeKey == "" {
		return apierrors.NewErrNotFound(msgResumeNotFound)
	}

	if err := s.storage.Delete(ctx, student.ResumeKey); err != nil {
		s.logger.Error("Resume service: failed to delete resume object",
			"roll", roll,
			"error", err.Error())
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if err := s.students.SetResume(ctx, roll, "", nil); err != nil {
		return fmt.Errorf("failed to clear resume: %w", err)
	}

	s.logger.Info("Resume service: resume deleted", "roll", roll)
	return nil
}
