package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

var rollNumberPattern = regexp.MustCompile(`[0-9]{4}ug[0-9]{4}`)

// StudentRegistration is the input of StudentAuth.Register.
type StudentRegistration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Mobile    string
	LinkedIn  string
	Branch    string
}

type StudentAuth struct {
	students     model.StudentStore
	identity     model.IdentityProvider
	sessions     *Sessions
	emailPattern *regexp.Regexp
	reset        passwordReset
	logger       *logger.Logger
}

func NewStudentAuth(
	students model.StudentStore,
	identity model.IdentityProvider,
	sessions *Sessions,
	emailPattern *regexp.Regexp,
	logger *logger.Logger,
) *StudentAuth {
	return &StudentAuth{
		students:     students,
		identity:     identity,
		sessions:     sessions,
		emailPattern: emailPattern,
		reset: passwordReset{
			identity: identity,
			known:    knownBy(students.GetByEmail),
			name:     "Student auth service",
			logger:   logger,
		},
		logger: logger,
	}
}

// NormalizeEmail trims and lower-cases an email. Accounts are stored and looked
// up in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RollNumber extracts the lower-cased roll number from an institute email.
func RollNumber(email string) (string, bool) {
	roll := rollNumberPattern.FindString(strings.ToLower(email))
	return roll, roll != ""
}

// BatchFromRoll returns the admission year encoded in the first four digits.
func BatchFromRoll(roll string) int {
	if len(roll) < 4 {
		return 0
	}
	year, err := strconv.Atoi(roll[:4])
	if err != nil {
		return 0
	}
	return year
}

func (a *StudentAuth) Register(ctx context.Context, reg StudentRegistration) (model.Student, Session, error) {
	email := NormalizeEmail(reg.Email)
	if !a.emailPattern.MatchString(email) {
		return model.Student{}, Session{}, apierrors.NewErrBadRequest("Invalid college email format")
	}
	roll, ok := RollNumber(email)
	if !ok {
		return model.Student{}, Session{}, apierrors.NewErrBadRequest("Invalid college email format")
	}

	a.logger.Debug("Student auth service: starting registration", "roll", roll)

	if _, err := a.students.GetByRoll(ctx, roll); err == nil {
		return model.Student{}, Session{}, apierrors.NewErrConflict("Student already exists")
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.Student{}, Session{}, fmt.Errorf("failed to get student by roll: %w", err)
	}

	identity, err := a.identity.SignUp(ctx, email, reg.Password)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Student{}, Session{}, apierrors.NewErrConflict("Student already exists")
		}
		a.logger.Error("Student auth service: provider sign-up failed",
			"roll", roll,
			"error", err.Error())
		return model.Student{}, Session{}, fmt.Errorf("failed to sign up: %w", err)
	}

	if err := a.identity.SendVerificationEmail(ctx, identity); err != nil {
		a.logger.Warn("Student auth service: failed to send verification email",
			"roll", roll,
			"error", err.Error())
	}

	student, err := a.students.Create(ctx, model.Student{
		RollNumber: roll,
		ProviderID: identity.UID,
		Email:      email,
		FirstName:  reg.FirstName,
		LastName:   reg.LastName,
		Mobile:     reg.Mobile,
		LinkedIn:   reg.LinkedIn,
		Branch:     reg.Branch,
		Batch:      BatchFromRoll(roll),
	})
	if err != nil {
		rollbackSignUp(ctx, a.identity, identity, "Student auth service", a.logger)
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Student{}, Session{}, apierrors.NewErrConflict("Student already exists")
		}
		a.logger.Error("Student auth service: failed to create student",
			"roll", roll,
			"provider_id", identity.UID,
			"error", err.Error())
		return model.Student{}, Session{}, fmt.Errorf("failed to create student: %w", err)
	}

	session, err := a.sessions.Issue(model.Principal{ID: roll, Role: model.RoleStudent}, identity.UID)
	if err != nil {
		return model.Student{}, Session{}, err
	}

	a.logger.Info("Student auth service: student registered", "roll", roll)

	return student, session, nil
}

// rollbackSignUp removes a provider account whose record could not be stored,
// so the same email can register again.
func rollbackSignUp(ctx context.Context, provider model.IdentityProvider, identity model.Identity, name string, log *logger.Logger) {
	if err := provider.DeleteAccount(context.WithoutCancel(ctx), identity); err != nil {
		log.Error(name+": failed to remove provider account after failed registration",
			"provider_id", identity.UID,
			"error", err.Error())
		return
	}
	log.Info(name+": provider account removed after failed registration", "provider_id", identity.UID)
}

func (a *StudentAuth) Login(ctx context.Context, email, password string) (model.Student, Session, error) {
	email = NormalizeEmail(email)
	identity, err := a.identity.VerifyPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPassword) {
			return model.Student{}, Session{}, apierrors.NewErrInvalidLogin()
		}
		a.logger.Error("Student auth service: password verification failed", "error", err.Error())
		return model.Student{}, Session{}, fmt.Errorf("failed to verify password: %w", err)
	}

	student, err := a.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Student{}, Session{}, apierrors.NewErrInvalidLogin()
		}
		return model.Student{}, Session{}, fmt.Errorf("failed to get student by email: %w", err)
	}
	if student.ProviderID != identity.UID {
		a.logger.Warn("Student auth service: provider uid does not match record", "roll", student.RollNumber)
		return model.Student{}, Session{}, apierrors.NewErrInvalidLogin()
	}

	principal := model.Principal{ID: student.RollNumber, Role: model.RoleStudent}
	session, err := a.sessions.IssueVerified(ctx, principal, identity)
	if err != nil {
		return model.Student{}, Session{}, err
	}

	if !student.EmailVerified {
		if err := a.students.MarkEmailVerified(ctx, student.RollNumber); err != nil {
			return model.Student{}, Session{}, fmt.Errorf("failed to mark email verified: %w", err)
		}
		student.EmailVerified = true
	}

	a.logger.Info("Student auth service: student logged in", "roll", student.RollNumber)

	return student, session, nil
}

func (a *StudentAuth) ResetPassword(ctx context.Context, email string) {
	a.reset.Request(ctx, email)
}

func (a *StudentAuth) ConfirmResetPassword(ctx context.Context, code, newPassword string) error {
	return a.reset.Confirm(ctx, code, newPassword)
}
