package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/mocks"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/testutil"
	"github.com/dtroode/tap-portal-server/internal/token"
)

var studentEmailPattern = regexp.MustCompile(`^[a-zA-Z]+\.[0-9]{4}ug[0-9]{4}@iiitranchi\.ac\.in$`)

const studentEmail = "asha.2023ug1058@iiitranchi.ac.in"

func TestRollNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		roll  string
		ok    bool
	}{
		{email: studentEmail, roll: "2023ug1058", ok: true},
		{email: "Asha.2023UG1058@iiitranchi.ac.in", roll: "2023ug1058", ok: true},
		{email: "asha@gmail.com", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()
			roll, ok := RollNumber(tt.email)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.roll, roll)
		})
	}

	assert.Equal(t, 2023, BatchFromRoll("2023ug1058"))
	assert.Equal(t, 0, BatchFromRoll("ug"))
	assert.Equal(t, 0, BatchFromRoll("abcdug1058"))
}

type studentAuthFixture struct {
	students *mocks.StudentStore
	identity *mocks.IdentityProvider
	tokens   *token.JWT
	auth     *StudentAuth
}

func newStudentAuthFixture(t *testing.T) studentAuthFixture {
	t.Helper()
	f := studentAuthFixture{
		students: mocks.NewStudentStore(t),
		identity: mocks.NewIdentityProvider(t),
		tokens:   token.NewJWT(testSecret, week),
	}
	log := testutil.MakeNoopLogger()
	f.auth = NewStudentAuth(f.students, f.identity, NewSessions(f.tokens, f.identity, log), studentEmailPattern, log)
	return f
}

func TestStudentAuth_Register(t *testing.T) {
	t.Parallel()
	f := newStudentAuthFixture(t)
	ctx := context.Background()
	identity := model.Identity{UID: "uid-1", Email: studentEmail, IDToken: "id-token"}

	f.students.On("GetByRoll", mock.Anything, "2023ug1058").Return(model.Student{}, model.ErrNotFound).Once()
	f.identity.On("SignUp", mock.Anything, studentEmail, "secret123").Return(identity, nil).Once()
	f.identity.On("SendVerificationEmail", mock.Anything, identity).Return(assert.AnError).Once()
	f.students.On("Create", mock.Anything, mock.MatchedBy(func(s model.Student) bool {
		return s.RollNumber == "2023ug1058" && s.ProviderID == "uid-1" && s.Batch == 2023 && s.Branch == "CSE"
	})).Return(model.Student{RollNumber: "2023ug1058", ProviderID: "uid-1", Batch: 2023}, nil).Once()

	student, session, err := f.auth.Register(ctx, StudentRegistration{
		Email:     studentEmail,
		Password:  "secret123",
		FirstName: "Asha",
		LastName:  "Kumari",
		Branch:    "CSE",
	})
	require.NoError(t, err)
	assert.Equal(t, "2023ug1058", student.RollNumber)
	assert.WithinDuration(t, time.Now().Add(week), session.ExpiresAt, time.Minute)

	claims, err := f.tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, model.Principal{ID: "2023ug1058", Role: model.RoleStudent}, claims.Principal)
	assert.Equal(t, "uid-1", claims.ProviderID)
}

func TestStudentAuth_RegisterRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		setup func(f studentAuthFixture)
		kind  apierrors.Kind
	}{
		{
			name:  "email outside institute",
			email: "asha@gmail.com",
			kind:  apierrors.KindBadRequest,
		},
		{
			name:  "roll already registered",
			email: studentEmail,
			setup: func(f studentAuthFixture) {
				f.students.On("GetByRoll", mock.Anything, "2023ug1058").Return(model.Student{RollNumber: "2023ug1058"}, nil).Once()
			},
			kind: apierrors.KindConflict,
		},
		{
			name:  "provider account exists",
			email: studentEmail,
			setup: func(f studentAuthFixture) {
				f.students.On("GetByRoll", mock.Anything, "2023ug1058").Return(model.Student{}, model.ErrNotFound).Once()
				f.identity.On("SignUp", mock.Anything, studentEmail, "secret123").Return(model.Identity{}, model.ErrAlreadyExists).Once()
			},
			kind: apierrors.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newStudentAuthFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, _, err := f.auth.Register(context.Background(), StudentRegistration{Email: tt.email, Password: "secret123"})
			assert.Equal(t, tt.kind, apierrors.KindOf(err))
		})
	}
}

func TestStudentAuth_Login(t *testing.T) {
	t.Parallel()

	record := model.Student{RollNumber: "2023ug1058", ProviderID: "uid-1", Email: studentEmail}

	tests := []struct {
		name    string
		setup   func(f studentAuthFixture)
		kind    apierrors.Kind
		wantErr bool
	}{
		{
			name: "verified login syncs record",
			setup: func(f studentAuthFixture) {
				f.identity.On("VerifyPassword", mock.Anything, studentEmail, "pw").
					Return(model.Identity{UID: "uid-1", EmailVerified: true}, nil).Once()
				f.students.On("GetByEmail", mock.Anything, studentEmail).Return(record, nil).Once()
				f.students.On("MarkEmailVerified", mock.Anything, "2023ug1058").Return(nil).Once()
			},
		},
		{
			name: "wrong password",
			setup: func(f studentAuthFixture) {
				f.identity.On("VerifyPassword", mock.Anything, studentEmail, "pw").
					Return(model.Identity{}, model.ErrInvalidPassword).Once()
			},
			kind:    apierrors.KindInvalidLogin,
			wantErr: true,
		},
		{
			name: "no student record",
			setup: func(f studentAuthFixture) {
				f.identity.On("VerifyPassword", mock.Anything, studentEmail, "pw").
					Return(model.Identity{UID: "uid-1", EmailVerified: true}, nil).Once()
				f.students.On("GetByEmail", mock.Anything, studentEmail).Return(model.Student{}, model.ErrNotFound).Once()
			},
			kind:    apierrors.KindInvalidLogin,
			wantErr: true,
		},
		{
			name: "record bound to another provider account",
			setup: func(f studentAuthFixture) {
				f.identity.On("VerifyPassword", mock.Anything, studentEmail, "pw").
					Return(model.Identity{UID: "uid-2", EmailVerified: true}, nil).Once()
				f.students.On("GetByEmail", mock.Anything, studentEmail).Return(record, nil).Once()
			},
			kind:    apierrors.KindInvalidLogin,
			wantErr: true,
		},
		{
			name: "email not verified",
			setup: func(f studentAuthFixture) {
				identity := model.Identity{UID: "uid-1", Email: studentEmail, IDToken: "id-token"}
				f.identity.On("VerifyPassword", mock.Anything, studentEmail, "pw").Return(identity, nil).Once()
				f.students.On("GetByEmail", mock.Anything, studentEmail).Return(record, nil).Once()
				f.identity.On("SendVerificationEmail", mock.Anything, identity).Return(nil).Once()
			},
			kind:    apierrors.KindEmailUnverified,
			wantErr: true,
		},
		{
			name: "provider unavailable",
			setup: func(f studentAuthFixture) {
				f.identity.On("VerifyPassword", mock.Anything, studentEmail, "pw").
					Return(model.Identity{}, assert.AnError).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newStudentAuthFixture(t)
			tt.setup(f)

			student, session, err := f.auth.Login(context.Background(), studentEmail, "pw")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.kind, apierrors.KindOf(err))
				assert.Empty(t, session.Token)
				return
			}
			require.NoError(t, err)
			assert.True(t, student.EmailVerified)
			assert.NotEmpty(t, session.Token)
		})
	}
}

func TestStudentAuth_PasswordReset(t *testing.T) {
	t.Parallel()

	t.Run("known email", func(t *testing.T) {
		t.Parallel()
		f := newStudentAuthFixture(t)
		f.students.On("GetByEmail", mock.Anything, studentEmail).Return(model.Student{RollNumber: "2023ug1058"}, nil).Once()
		f.identity.On("SendPasswordReset", mock.Anything, studentEmail).Return(nil).Once()

		f.auth.ResetPassword(context.Background(), studentEmail)
	})

	t.Run("unknown email stays silent", func(t *testing.T) {
		t.Parallel()
		f := newStudentAuthFixture(t)
		f.students.On("GetByEmail", mock.Anything, "nobody@iiitranchi.ac.in").Return(model.Student{}, model.ErrNotFound).Once()

		f.auth.ResetPassword(context.Background(), "nobody@iiitranchi.ac.in")
		f.identity.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything)
	})

	t.Run("confirm with expired code", func(t *testing.T) {
		t.Parallel()
		f := newStudentAuthFixture(t)
		f.identity.On("ConfirmPasswordReset", mock.Anything, "code", "newpass1").Return(model.ErrInvalidResetCode).Once()

		err := f.auth.ConfirmResetPassword(context.Background(), "code", "newpass1")
		assert.Equal(t, apierrors.KindBadRequest, apierrors.KindOf(err))
	})
}

type coordinatorAuthFixture struct {
	coordinators *mocks.CoordinatorStore
	identity     *mocks.IdentityProvider
	tokens       *token.JWT
	auth         *CoordinatorAuth
}

func newCoordinatorAuthFixture(t *testing.T) coordinatorAuthFixture {
	t.Helper()
	f := coordinatorAuthFixture{
		coordinators: mocks.NewCoordinatorStore(t),
		identity:     mocks.NewIdentityProvider(t),
		tokens:       token.NewJWT(testSecret, week),
	}
	log := testutil.MakeNoopLogger()
	f.auth = NewCoordinatorAuth(f.coordinators, f.identity, NewSessions(f.tokens, f.identity, log), log)
	return f
}

func TestCoordinatorAuth_Register(t *testing.T) {
	t.Parallel()
	f := newCoordinatorAuthFixture(t)
	identity := model.Identity{UID: "tap-uid", Email: "tap@iiitranchi.ac.in"}

	f.identity.On("SignUp", mock.Anything, "tap@iiitranchi.ac.in", "secret123").Return(identity, nil).Once()
	f.identity.On("SendVerificationEmail", mock.Anything, identity).Return(nil).Once()
	f.coordinators.On("Create", mock.Anything, model.Coordinator{
		ID:         "tap-uid",
		ProviderID: "tap-uid",
		Name:       "Placement Cell",
		Email:      "tap@iiitranchi.ac.in",
	}).Return(model.Coordinator{ID: "tap-uid", ProviderID: "tap-uid"}, nil).Once()

	coordinator, session, err := f.auth.Register(context.Background(), "Placement Cell", " tap@iiitranchi.ac.in ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tap-uid", coordinator.ID)

	claims, err := f.tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleTAP, claims.Role)
	assert.Equal(t, "tap-uid", claims.ID)
}

func TestCoordinatorAuth_RegisterDuplicate(t *testing.T) {
	t.Parallel()
	f := newCoordinatorAuthFixture(t)

	f.identity.On("SignUp", mock.Anything, "tap@iiitranchi.ac.in", "secret123").Return(model.Identity{}, model.ErrAlreadyExists).Once()

	_, _, err := f.auth.Register(context.Background(), "Placement Cell", "tap@iiitranchi.ac.in", "secret123")
	assert.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
}

func TestCoordinatorAuth_Login(t *testing.T) {
	t.Parallel()

	t.Run("verified", func(t *testing.T) {
		t.Parallel()
		f := newCoordinatorAuthFixture(t)
		f.identity.On("VerifyPassword", mock.Anything, "tap@iiitranchi.ac.in", "pw").
			Return(model.Identity{UID: "tap-uid", EmailVerified: true}, nil).Once()
		f.coordinators.On("GetByID", mock.Anything, "tap-uid").
			Return(model.Coordinator{ID: "tap-uid", ProviderID: "tap-uid", EmailVerified: true}, nil).Once()

		coordinator, session, err := f.auth.Login(context.Background(), "tap@iiitranchi.ac.in", "pw")
		require.NoError(t, err)
		assert.Equal(t, "tap-uid", coordinator.ID)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("student account on coordinator route", func(t *testing.T) {
		t.Parallel()
		f := newCoordinatorAuthFixture(t)
		f.identity.On("VerifyPassword", mock.Anything, studentEmail, "pw").
			Return(model.Identity{UID: "uid-1", EmailVerified: true}, nil).Once()
		f.coordinators.On("GetByID", mock.Anything, "uid-1").Return(model.Coordinator{}, model.ErrNotFound).Once()

		_, _, err := f.auth.Login(context.Background(), studentEmail, "pw")
		assert.Equal(t, apierrors.KindInvalidLogin, apierrors.KindOf(err))
	})
}

func TestStudentAuth_EmailCaseInsensitive(t *testing.T) {
	t.Parallel()

	const mixedCase = " Asha.2023UG1058@IIITRanchi.ac.in "

	t.Run("register stores the lower-cased email", func(t *testing.T) {
		t.Parallel()
		f := newStudentAuthFixture(t)
		identity := model.Identity{UID: "uid-1", Email: studentEmail, IDToken: "id-token"}

		f.students.On("GetByRoll", mock.Anything, "2023ug1058").Return(model.Student{}, model.ErrNotFound).Once()
		f.identity.On("SignUp", mock.Anything, studentEmail, "secret123").Return(identity, nil).Once()
		f.identity.On("SendVerificationEmail", mock.Anything, identity).Return(nil).Once()
		f.students.On("Create", mock.Anything, mock.MatchedBy(func(s model.Student) bool {
			return s.Email == studentEmail
		})).Return(model.Student{RollNumber: "2023ug1058", Email: studentEmail}, nil).Once()

		_, _, err := f.auth.Register(context.Background(), StudentRegistration{Email: mixedCase, Password: "secret123"})
		require.NoError(t, err)
	})

	t.Run("login with different case finds the record", func(t *testing.T) {
		t.Parallel()
		f := newStudentAuthFixture(t)

		f.identity.On("VerifyPassword", mock.Anything, studentEmail, "pw").
			Return(model.Identity{UID: "uid-1", EmailVerified: true}, nil).Once()
		f.students.On("GetByEmail", mock.Anything, studentEmail).
			Return(model.Student{RollNumber: "2023ug1058", ProviderID: "uid-1", Email: studentEmail, EmailVerified: true}, nil).Once()

		student, session, err := f.auth.Login(context.Background(), "ASHA.2023ug1058@iiitranchi.ac.in", "pw")
		require.NoError(t, err)
		assert.Equal(t, "2023ug1058", student.RollNumber)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("reset with different case sends the email", func(t *testing.T) {
		t.Parallel()
		f := newStudentAuthFixture(t)

		f.students.On("GetByEmail", mock.Anything, studentEmail).Return(model.Student{RollNumber: "2023ug1058"}, nil).Once()
		f.identity.On("SendPasswordReset", mock.Anything, studentEmail).Return(nil).Once()

		f.auth.ResetPassword(context.Background(), mixedCase)
	})
}

func TestStudentAuth_RegisterRollsBackProviderAccount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		createErr error
		deleteErr error
		kind      apierrors.Kind
	}{
		{name: "store unavailable", createErr: assert.AnError},
		{name: "email taken by a concurrent registration", createErr: model.ErrAlreadyExists, kind: apierrors.KindConflict},
		{name: "cleanup failure keeps the original error", createErr: assert.AnError, deleteErr: errors.New("provider down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newStudentAuthFixture(t)
			identity := model.Identity{UID: "uid-1", Email: studentEmail, IDToken: "id-token"}

			f.students.On("GetByRoll", mock.Anything, "2023ug1058").Return(model.Student{}, model.ErrNotFound).Once()
			f.identity.On("SignUp", mock.Anything, studentEmail, "secret123").Return(identity, nil).Once()
			f.identity.On("SendVerificationEmail", mock.Anything, identity).Return(nil).Once()
			f.students.On("Create", mock.Anything, mock.AnythingOfType("model.Student")).Return(model.Student{}, tt.createErr).Once()
			f.identity.On("DeleteAccount", mock.Anything, identity).Return(tt.deleteErr).Once()

			_, session, err := f.auth.Register(context.Background(), StudentRegistration{Email: studentEmail, Password: "secret123"})
			require.Error(t, err)
			assert.Equal(t, tt.kind, apierrors.KindOf(err))
			assert.Empty(t, session.Token)
			if tt.kind == "" {
				assert.ErrorIs(t, err, tt.createErr)
			}
		})
	}
}

func TestCoordinatorAuth_RegisterRollsBackProviderAccount(t *testing.T) {
	t.Parallel()
	f := newCoordinatorAuthFixture(t)
	identity := model.Identity{UID: "tap-uid", Email: "tap@iiitranchi.ac.in", IDToken: "id-token"}

	f.identity.On("SignUp", mock.Anything, "tap@iiitranchi.ac.in", "secret123").Return(identity, nil).Once()
	f.identity.On("SendVerificationEmail", mock.Anything, identity).Return(nil).Once()
	f.coordinators.On("Create", mock.Anything, mock.AnythingOfType("model.Coordinator")).Return(model.Coordinator{}, assert.AnError).Once()
	f.identity.On("DeleteAccount", mock.Anything, identity).Return(nil).Once()

	_, _, err := f.auth.Register(context.Background(), "Placement Cell", "TAP@iiitranchi.ac.in", "secret123")
	require.ErrorIs(t, err, assert.AnError)
}
