package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/mocks"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/testutil"
)

func TestRecruiters(t *testing.T) {
	t.Parallel()

	t.Run("create duplicate", func(t *testing.T) {
		t.Parallel()
		store := mocks.NewRecruiterStore(t)
		svc := NewRecruiters(store, testutil.MakeNoopLogger())
		store.On("Create", mock.Anything, mock.Anything).Return(model.Recruiter{}, model.ErrAlreadyExists).Once()

		_, err := svc.Create(context.Background(), "Acme", "Jane", "jane@acme.io")
		assert.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
	})

	t.Run("verify returns the updated record", func(t *testing.T) {
		t.Parallel()
		store := mocks.NewRecruiterStore(t)
		svc := NewRecruiters(store, testutil.MakeNoopLogger())
		id := uuid.New()
		store.On("Verify", mock.Anything, id).Return(nil).Once()
		store.On("GetByID", mock.Anything, id).Return(model.Recruiter{ID: id, IsVerified: true}, nil).Once()

		got, err := svc.Verify(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, got.IsVerified)
	})

	t.Run("delete missing", func(t *testing.T) {
		t.Parallel()
		store := mocks.NewRecruiterStore(t)
		svc := NewRecruiters(store, testutil.MakeNoopLogger())
		id := uuid.New()
		store.On("Delete", mock.Anything, id).Return(model.ErrNotFound).Once()

		err := svc.Delete(context.Background(), id)
		assert.Equal(t, apierrors.KindNotFound, apierrors.KindOf(err))
	})
}
