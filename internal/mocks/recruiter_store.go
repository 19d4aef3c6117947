package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// RecruiterStore is a testify mock of model.RecruiterStore.
type RecruiterStore struct {
	mock.Mock
}

// NewRecruiterStore creates a mock that asserts its expectations on cleanup.
func NewRecruiterStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *RecruiterStore {
	m := &RecruiterStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RecruiterStore) Create(ctx context.Context, recruiter model.Recruiter) (model.Recruiter, error) {
	ret := m.Called(ctx, recruiter)
	return ret.Get(0).(model.Recruiter), ret.Error(1)
}

func (m *RecruiterStore) GetByID(ctx context.Context, id uuid.UUID) (model.Recruiter, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.Recruiter), ret.Error(1)
}

func (m *RecruiterStore) List(ctx context.Context) ([]model.Recruiter, error) {
	ret := m.Called(ctx)

	var r0 []model.Recruiter
	if v := ret.Get(0); v != nil {
		r0 = v.([]model.Recruiter)
	}

	return r0, ret.Error(1)
}

func (m *RecruiterStore) Verify(ctx context.Context, id uuid.UUID) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}

func (m *RecruiterStore) Delete(ctx context.Context, id uuid.UUID) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}

func (m *RecruiterStore) CountUnverified(ctx context.Context) (int, error) {
	ret := m.Called(ctx)
	return ret.Int(0), ret.Error(1)
}
