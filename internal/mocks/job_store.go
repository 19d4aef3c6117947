package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// JobStore is a testify mock of model.JobStore.
type JobStore struct {
	mock.Mock
}

// NewJobStore creates a mock that asserts its expectations on cleanup.
func NewJobStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *JobStore {
	m := &JobStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *JobStore) Create(ctx context.Context, job model.Job) (model.Job, error) {
	ret := m.Called(ctx, job)
	return ret.Get(0).(model.Job), ret.Error(1)
}

func (m *JobStore) GetByID(ctx context.Context, id uuid.UUID) (model.Job, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.Job), ret.Error(1)
}

func (m *JobStore) List(ctx context.Context, filter model.JobFilter) ([]model.Job, error) {
	ret := m.Called(ctx, filter)

	var r0 []model.Job
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Job)
	}

	return r0, ret.Error(1)
}

func (m *JobStore) Update(ctx context.Context, id uuid.UUID, update model.JobUpdate) (model.Job, error) {
	ret := m.Called(ctx, id, update)
	return ret.Get(0).(model.Job), ret.Error(1)
}

func (m *JobStore) SetStatus(ctx context.Context, id uuid.UUID, status model.JobStatus) error {
	ret := m.Called(ctx, id, status)
	return ret.Error(0)
}

func (m *JobStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.JobStatus) error {
	ret := m.Called(ctx, id, from, to)
	return ret.Error(0)
}

func (m *JobStore) SetJDKey(ctx context.Context, id uuid.UUID, key string) error {
	ret := m.Called(ctx, id, key)
	return ret.Error(0)
}

func (m *JobStore) CountByStatus(ctx context.Context) (map[model.JobStatus]int, error) {
	ret := m.Called(ctx)

	var r0 map[model.JobStatus]int
	if v := ret.Get(0); v != nil {
		r0 = v.(map[model.JobStatus]int)
	}

	return r0, ret.Error(1)
}
