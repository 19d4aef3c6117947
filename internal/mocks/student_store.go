package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// StudentStore is a testify mock of model.StudentStore.
type StudentStore struct {
	mock.Mock
}

// NewStudentStore creates a mock that asserts its expectations on cleanup.
func NewStudentStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *StudentStore {
	m := &StudentStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StudentStore) Create(ctx context.Context, student model.Student) (model.Student, error) {
	ret := m.Called(ctx, student)
	return ret.Get(0).(model.Student), ret.Error(1)
}

func (m *StudentStore) GetByRoll(ctx context.Context, roll string) (model.Student, error) {
	ret := m.Called(ctx, roll)
	return ret.Get(0).(model.Student), ret.Error(1)
}

func (m *StudentStore) GetByEmail(ctx context.Context, email string) (model.Student, error) {
	ret := m.Called(ctx, email)
	return ret.Get(0).(model.Student), ret.Error(1)
}

func (m *StudentStore) List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error) {
	ret := m.Called(ctx, filter)

	var r0 []model.Student
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Student)
	}

	return r0, ret.Error(1)
}

func (m *StudentStore) UpdateProfile(ctx context.Context, roll string, update model.StudentProfileUpdate) (model.Student, error) {
	ret := m.Called(ctx, roll, update)
	return ret.Get(0).(model.Student), ret.Error(1)
}

func (m *StudentStore) MarkEmailVerified(ctx context.Context, roll string) error {
	ret := m.Called(ctx, roll)
	return ret.Error(0)
}

func (m *StudentStore) SetResume(ctx context.Context, roll string, key string, updatedAt *time.Time) error {
	ret := m.Called(ctx, roll, key, updatedAt)
	return ret.Error(0)
}

func (m *StudentStore) UpdateCGPA(ctx context.Context, grades map[string]float64) ([]string, error) {
	ret := m.Called(ctx, grades)

	var r0 []string
	if v := ret.Get(0); v != nil {
		r0 = v.([]string)
	}

	return r0, ret.Error(1)
}

func (m *StudentStore) Stats(ctx context.Context) (model.StudentStats, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(model.StudentStats), ret.Error(1)
}
