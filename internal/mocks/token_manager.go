package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// TokenManager is a testify mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

// NewTokenManager creates a mock that asserts its expectations on cleanup.
func NewTokenManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenManager {
	m := &TokenManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenManager) Issue(principal model.Principal, providerID string) (string, time.Time, error) {
	ret := m.Called(principal, providerID)
	return ret.String(0), ret.Get(1).(time.Time), ret.Error(2)
}

func (m *TokenManager) Parse(token string) (model.Claims, error) {
	ret := m.Called(token)
	return ret.Get(0).(model.Claims), ret.Error(1)
}
