// Package mocks provides testify mocks of the model interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// AccountStore is a testify mock of model.AccountStore.
type AccountStore struct {
	mock.Mock
}

// NewAccountStore creates a mock that asserts its expectations on cleanup.
func NewAccountStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountStore {
	m := &AccountStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AccountStore) GetAccount(ctx context.Context, role model.Role, id string) (model.Account, error) {
	ret := m.Called(ctx, role, id)
	return ret.Get(0).(model.Account), ret.Error(1)
}

func (m *AccountStore) MarkEmailVerified(ctx context.Context, role model.Role, id string) error {
	ret := m.Called(ctx, role, id)
	return ret.Error(0)
}
