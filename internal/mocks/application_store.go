package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// ApplicationStore is a testify mock of model.ApplicationStore.
type ApplicationStore struct {
	mock.Mock
}

// NewApplicationStore creates a mock that asserts its expectations on cleanup.
func NewApplicationStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ApplicationStore {
	m := &ApplicationStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ApplicationStore) Create(ctx context.Context, application model.Application) (model.Application, error) {
	ret := m.Called(ctx, application)
	return ret.Get(0).(model.Application), ret.Error(1)
}

func (m *ApplicationStore) Exists(ctx context.Context, jobID uuid.UUID, studentID string) (bool, error) {
	ret := m.Called(ctx, jobID, studentID)
	return ret.Bool(0), ret.Error(1)
}

func (m *ApplicationStore) List(ctx context.Context, filter model.ApplicationFilter) ([]model.Application, error) {
	ret := m.Called(ctx, filter)

	var r0 []model.Application
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Application)
	}

	return r0, ret.Error(1)
}

func (m *ApplicationStore) UpdateStatus(ctx context.Context, jobID uuid.UUID, studentID string, status model.ApplicationStatus) error {
	ret := m.Called(ctx, jobID, studentID, status)
	return ret.Error(0)
}

func (m *ApplicationStore) CountByStatus(ctx context.Context, studentID string) (map[model.ApplicationStatus]int, error) {
	ret := m.Called(ctx, studentID)

	var r0 map[model.ApplicationStatus]int
	if v := ret.Get(0); v != nil {
		r0 = v.(map[model.ApplicationStatus]int)
	}

	return r0, ret.Error(1)
}
