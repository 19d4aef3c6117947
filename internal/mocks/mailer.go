package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// Mailer is a testify mock of model.Mailer.
type Mailer struct {
	mock.Mock
}

// NewMailer creates a mock that asserts its expectations on cleanup.
func NewMailer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Mailer {
	m := &Mailer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Mailer) Send(ctx context.Context, email model.Email) error {
	ret := m.Called(ctx, email)
	return ret.Error(0)
}

// SheetReader is a testify mock of model.SheetReader.
type SheetReader struct {
	mock.Mock
}

// NewSheetReader creates a mock that asserts its expectations on cleanup.
func NewSheetReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *SheetReader {
	m := &SheetReader{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SheetReader) ReadRows(ctx context.Context, spreadsheetID string, readRange string) ([][]string, error) {
	ret := m.Called(ctx, spreadsheetID, readRange)

	var r0 [][]string
	if v := ret.Get(0); v != nil {
		r0 = v.([][]string)
	}

	return r0, ret.Error(1)
}
