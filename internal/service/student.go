package service

import (
	"context"
	"fmt"

	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

const msgStudentNotFound = "Student not found"

// StudentDashboard is the student's own overview.
type StudentDashboard struct {
	Student      model.Student
	Applications map[model.ApplicationStatus]int
	HasResume    bool
}

// Students serves student profiles to both the students and coordinators.
type Students struct {
	students model.StudentStore
	apps     model.ApplicationStore
	logger   *logger.Logger
}

func NewStudents(students model.StudentStore, apps model.ApplicationStore, logger *logger.Logger) *Students {
	return &Students{students: students, apps: apps, logger: logger}
}

func (s *Students) Dashboard(ctx context.Context, roll string) (StudentDashboard, error) {
	student, err := s.students.GetByRoll(ctx, roll)
	if err != nil {
		return StudentDashboard{}, notFound(err, msgStudentNotFound)
	}

	counts, err := s.apps.CountByStatus(ctx, roll)
	if err != nil {
		return StudentDashboard{}, fmt.Errorf("failed to count applications: %w", err)
	}

	return StudentDashboard{
		Student:      student,
		Applications: counts,
		HasResume:    student.ResumeKey != "",
	}, nil
}

func (s *Students) UpdateProfile(ctx context.Context, roll string, update model.StudentProfileUpdate) (model.Student, error) {
	student, err := s.students.UpdateProfile(ctx, roll, update)
	if err != nil {
		return model.Student{}, notFound(err, msgStudentNotFound)
	}

	s.logger.Info("Student service: profile updated", "roll", roll)
	return student, nil
}

func (s *Students) List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error) {
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *Students) Get(ctx context.Context, roll string) (model.Student, error) {
	student, err := s.students.GetByRoll(ctx, roll)
	if err != nil {
		return model.Student{}, notFound(err, msgStudentNotFound)
	}
	return student, nil
}

// Applications lists a student's applications for a coordinator.
func (s *Students) Applications(ctx context.Context, roll string) ([]model.Application, error) {
	if _, err := s.Get(ctx, roll); err != nil {
		return nil, err
	}

	apps, err := s.apps.List(ctx, model.ApplicationFilter{StudentID: roll})
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}
