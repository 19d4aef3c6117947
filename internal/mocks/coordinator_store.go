package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// CoordinatorStore is a testify mock of model.CoordinatorStore.
type CoordinatorStore struct {
	mock.Mock
}

// NewCoordinatorStore creates a mock that asserts its expectations on cleanup.
func NewCoordinatorStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *CoordinatorStore {
	m := &CoordinatorStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CoordinatorStore) Create(ctx context.Context, coordinator model.Coordinator) (model.Coordinator, error) {
	ret := m.Called(ctx, coordinator)
	return ret.Get(0).(model.Coordinator), ret.Error(1)
}

func (m *CoordinatorStore) GetByID(ctx context.Context, id string) (model.Coordinator, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(model.Coordinator), ret.Error(1)
}

func (m *CoordinatorStore) GetByEmail(ctx context.Context, email string) (model.Coordinator, error) {
	ret := m.Called(ctx, email)
	return ret.Get(0).(model.Coordinator), ret.Error(1)
}

func (m *CoordinatorStore) MarkEmailVerified(ctx context.Context, id string) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}
