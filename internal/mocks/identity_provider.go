package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// IdentityProvider is a testify mock of model.IdentityProvider.
type IdentityProvider struct {
	mock.Mock
}

// NewIdentityProvider creates a mock that asserts its expectations on cleanup.
func NewIdentityProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *IdentityProvider {
	m := &IdentityProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *IdentityProvider) SignUp(ctx context.Context, email string, password string) (model.Identity, error) {
	ret := m.Called(ctx, email, password)
	return ret.Get(0).(model.Identity), ret.Error(1)
}

func (m *IdentityProvider) VerifyPassword(ctx context.Context, email string, password string) (model.Identity, error) {
	ret := m.Called(ctx, email, password)
	return ret.Get(0).(model.Identity), ret.Error(1)
}

func (m *IdentityProvider) Lookup(ctx context.Context, uid string) (model.Identity, error) {
	ret := m.Called(ctx, uid)
	return ret.Get(0).(model.Identity), ret.Error(1)
}

func (m *IdentityProvider) SendVerificationEmail(ctx context.Context, identity model.Identity) error {
	ret := m.Called(ctx, identity)
	return ret.Error(0)
}

func (m *IdentityProvider) SendPasswordReset(ctx context.Context, email string) error {
	ret := m.Called(ctx, email)
	return ret.Error(0)
}

func (m *IdentityProvider) ConfirmPasswordReset(ctx context.Context, code string, newPassword string) error {
	ret := m.Called(ctx, code, newPassword)
	return ret.Error(0)
}

func (m *IdentityProvider) DeleteAccount(ctx context.Context, identity model.Identity) error {
	ret := m.Called(ctx, identity)
	return ret.Error(0)
}
