package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/tap-portal-server/internal/api/http/context"
	"github.com/dtroode/tap-portal-server/internal/api/http/handler"
	"github.com/dtroode/tap-portal-server/internal/api/http/response"
	"github.com/dtroode/tap-portal-server/internal/mocks"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/service"
	"github.com/dtroode/tap-portal-server/internal/testutil"
	"github.com/dtroode/tap-portal-server/internal/token"
)

const (
	secret       = "router-test-secret"
	ttl          = 7 * 24 * time.Hour
	studentEmail = "asha.2023ug1058@iiitranchi.ac.in"
	roll         = "2023ug1058"
)

type fixture struct {
	identity     *mocks.IdentityProvider
	accounts     *mocks.AccountStore
	students     *mocks.StudentStore
	coordinators *mocks.CoordinatorStore
	jobs         *mocks.JobStore
	apps         *mocks.ApplicationStore
	recruiters   *mocks.RecruiterStore
	tokens       *token.JWT
	handler      http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	f := fixture{
		identity:     mocks.NewIdentityProvider(t),
		accounts:     mocks.NewAccountStore(t),
		students:     mocks.NewStudentStore(t),
		coordinators: mocks.NewCoordinatorStore(t),
		jobs:         mocks.NewJobStore(t),
		apps:         mocks.NewApplicationStore(t),
		recruiters:   mocks.NewRecruiterStore(t),
		tokens:       token.NewJWT(secret, ttl),
	}
	storage := mocks.NewStorage(t)
	log := testutil.MakeNoopLogger()
	sessions := service.NewSessions(f.tokens, f.identity, log)
	pattern := regexp.MustCompile(`^[a-zA-Z]+\.[0-9]{4}ug[0-9]{4}@iiitranchi\.ac\.in$`)

	services := Services{
		Gate:            service.NewGate(f.tokens, f.identity, f.accounts, true, log),
		StudentAuth:     service.NewStudentAuth(f.students, f.identity, sessions, pattern, log),
		CoordinatorAuth: service.NewCoordinatorAuth(f.coordinators, f.identity, sessions, log),
		Students:        service.NewStudents(f.students, f.apps, log),
		Resumes:         service.NewResumes(f.students, storage, time.Hour, log),
		Jobs:            service.NewJobs(f.jobs, f.apps, f.students, f.recruiters, storage, nil, time.Hour, log),
		Recruiters:      service.NewRecruiters(f.recruiters, log),
		Dashboard:       service.NewDashboard(f.students, f.jobs, f.apps, f.recruiters, nil, log),
	}
	options := Options{
		Cookies:     handler.Cookies{Name: "token", Secure: true, TTL: ttl},
		CORSOrigins: []string{"http://localhost:5173"},
		Registry:    prometheus.NewRegistry(),
	}

	f.handler = New(services, options, httpcontext.NewManager(), log).Register()
	return f
}

func (f fixture) credential(t *testing.T, p model.Principal, uid string) *http.Cookie {
	t.Helper()
	tok, _, err := f.tokens.Issue(p, uid)
	require.NoError(t, err)
	return &http.Cookie{Name: "token", Value: tok}
}

// admit sets up the provider and store so the gate accepts p.
func (f fixture) admit(p model.Principal, uid string) {
	f.identity.On("Lookup", mock.Anything, uid).Return(model.Identity{UID: uid, EmailVerified: true}, nil).Once()
	f.accounts.On("GetAccount", mock.Anything, p.Role, p.ID).
		Return(model.Account{ID: p.ID, Role: p.Role, ProviderID: uid, EmailVerified: true}, nil).Once()
}

func (f fixture) do(method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func errorMessages(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	out := make([]string, 0, len(body.Errors))
	for _, e := range body.Errors {
		out = append(out, e.Message)
	}
	return out
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestRegisterThenUseStudentRoute(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	identity := model.Identity{UID: "uid-1", Email: studentEmail, IDToken: "id-token"}
	f.students.On("GetByRoll", mock.Anything, roll).Return(model.Student{}, model.ErrNotFound).Once()
	f.identity.On("SignUp", mock.Anything, studentEmail, "secret123").Return(identity, nil).Once()
	f.identity.On("SendVerificationEmail", mock.Anything, identity).Return(nil).Once()
	f.students.On("Create", mock.Anything, mock.AnythingOfType("model.Student")).
		Return(model.Student{RollNumber: roll, ProviderID: "uid-1", Email: studentEmail, Batch: 2023}, nil).Once()

	rec := f.do(http.MethodPost, "/api/auth/student/register", `{
		"reg_email": "`+studentEmail+`",
		"password": "secret123",
		"first_name": "Asha",
		"last_name": "Kumari",
		"mobile": "9876543210",
		"linkedin": "https://linkedin.com/in/asha",
		"branch": "CSE"
	}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"message":"Student registered successfully","data":{"id":"2023ug1058"}}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "eyJ")

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(ttl/time.Second), cookie.MaxAge)

	// The student verified the email after registering.
	f.identity.On("Lookup", mock.Anything, "uid-1").Return(model.Identity{UID: "uid-1", EmailVerified: true}, nil).Once()
	f.accounts.On("GetAccount", mock.Anything, model.RoleStudent, roll).
		Return(model.Account{ID: roll, Role: model.RoleStudent, ProviderID: "uid-1", Email: studentEmail}, nil).Once()
	f.accounts.On("MarkEmailVerified", mock.Anything, model.RoleStudent, roll).Return(nil).Once()
	f.students.On("GetByRoll", mock.Anything, roll).Return(model.Student{RollNumber: roll, EmailVerified: true}, nil).Once()
	f.apps.On("CountByStatus", mock.Anything, roll).Return(map[model.ApplicationStatus]int{}, nil).Once()

	rec = f.do(http.MethodGet, "/api/dashboard/student", "", &http.Cookie{Name: "token", Value: cookie.Value})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLoginWithUnverifiedEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	identity := model.Identity{UID: "uid-1", Email: studentEmail, IDToken: "id-token"}
	f.identity.On("VerifyPassword", mock.Anything, studentEmail, "secret123").Return(identity, nil).Once()
	f.students.On("GetByEmail", mock.Anything, studentEmail).
		Return(model.Student{RollNumber: roll, ProviderID: "uid-1", Email: studentEmail}, nil).Once()
	f.identity.On("SendVerificationEmail", mock.Anything, identity).Return(nil).Once()

	rec := f.do(http.MethodPost, "/api/auth/student/login", `{"reg_email":"`+studentEmail+`","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{"Email not verified. Please verify your email."}, errorMessages(t, rec))
	assert.Nil(t, sessionCookie(rec))
}

func TestLoginUnknownAccountMatchesWrongPassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.identity.On("VerifyPassword", mock.Anything, studentEmail, "wrong-pass").Return(model.Identity{}, model.ErrInvalidPassword).Once()
	f.identity.On("VerifyPassword", mock.Anything, "nobody.2023ug0000@iiitranchi.ac.in", "secret123").Return(model.Identity{}, model.ErrInvalidPassword).Once()

	wrong := f.do(http.MethodPost, "/api/auth/student/login", `{"reg_email":"`+studentEmail+`","password":"wrong-pass"}`, nil)
	unknown := f.do(http.MethodPost, "/api/auth/student/login", `{"reg_email":"nobody.2023ug0000@iiitranchi.ac.in","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestRoleGating(t *testing.T) {
	t.Parallel()

	student := model.Principal{ID: roll, Role: model.RoleStudent}
	tap := model.Principal{ID: "tap-uid", Role: model.RoleTAP}

	tests := []struct {
		name      string
		principal model.Principal
		uid       string
		target    string
	}{
		{name: "student on tap dashboard", principal: student, uid: "uid-1", target: "/api/dashboard/tap"},
		{name: "student on tap jobs", principal: student, uid: "uid-1", target: "/api/jobs/tap"},
		{name: "student on recruiters", principal: student, uid: "uid-1", target: "/api/recruiter/tap"},
		{name: "tap on student dashboard", principal: tap, uid: "tap-uid", target: "/api/dashboard/student"},
		{name: "tap on student jobs", principal: tap, uid: "tap-uid", target: "/api/jobs/student"},
		{name: "tap on resume", principal: tap, uid: "tap-uid", target: "/api/student/resume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			f.admit(tt.principal, tt.uid)

			rec := f.do(http.MethodGet, tt.target, "", f.credential(t, tt.principal, tt.uid))

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, []string{"Access forbidden for this account type."}, errorMessages(t, rec))
		})
	}
}

func TestGateRejections(t *testing.T) {
	t.Parallel()

	student := model.Principal{ID: roll, Role: model.RoleStudent}

	tests := []struct {
		name    string
		cookie  func(t *testing.T, f fixture) *http.Cookie
		setup   func(f fixture)
		message string
	}{
		{
			name:    "no cookie",
			cookie:  func(*testing.T, fixture) *http.Cookie { return nil },
			message: "Authentication required. Please log in.",
		},
		{
			name: "expired credential replayed",
			cookie: func(t *testing.T, _ fixture) *http.Cookie {
				tok, _, err := token.NewJWT(secret, -time.Minute).Issue(student, "uid-1")
				require.NoError(t, err)
				return &http.Cookie{Name: "token", Value: tok}
			},
			message: "Authentication required. Please log in.",
		},
		{
			name: "credential signed with another secret",
			cookie: func(t *testing.T, _ fixture) *http.Cookie {
				tok, _, err := token.NewJWT("other-secret", ttl).Issue(student, "uid-1")
				require.NoError(t, err)
				return &http.Cookie{Name: "token", Value: tok}
			},
			message: "Authentication required. Please log in.",
		},
		{
			name: "account record deleted",
			cookie: func(t *testing.T, f fixture) *http.Cookie {
				return f.credential(t, student, "uid-1")
			},
			setup: func(f fixture) {
				f.identity.On("Lookup", mock.Anything, "uid-1").Return(model.Identity{UID: "uid-1", EmailVerified: true}, nil).Once()
				f.accounts.On("GetAccount", mock.Anything, model.RoleStudent, roll).Return(model.Account{}, model.ErrNotFound).Once()
			},
			message: "Authentication required. Please log in.",
		},
		{
			name: "provider account replaced",
			cookie: func(t *testing.T, f fixture) *http.Cookie {
				return f.credential(t, student, "uid-1")
			},
			setup: func(f fixture) {
				f.identity.On("Lookup", mock.Anything, "uid-1").Return(model.Identity{UID: "uid-1", EmailVerified: true}, nil).Once()
				f.accounts.On("GetAccount", mock.Anything, model.RoleStudent, roll).
					Return(model.Account{ID: roll, Role: model.RoleStudent, ProviderID: "uid-2", EmailVerified: true}, nil).Once()
			},
			message: "Invalid authentication. Please log in again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			rec := f.do(http.MethodGet, "/api/dashboard/student", "", tt.cookie(t, f))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, []string{tt.message}, errorMessages(t, rec))
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	tap := model.Principal{ID: "tap-uid", Role: model.RoleTAP}
	f.admit(tap, "tap-uid")

	rec := f.do(http.MethodPost, "/api/auth/tap/logout", "", f.credential(t, tap, "tap-uid"))

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/auth/student/register", `{"reg_email":"not-an-email","password":"short"}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	fields := map[string]string{}
	for _, e := range body.Errors {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "reg_email must be a valid email", fields["reg_email"])
	assert.Equal(t, "password must be at least 8 characters", fields["password"])
	assert.Equal(t, "first_name is required", fields["first_name"])
	assert.Nil(t, sessionCookie(rec))
}

func TestResetPasswordNeverRevealsAccounts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.coordinators.On("GetByEmail", mock.Anything, "ghost@iiitranchi.ac.in").Return(model.Coordinator{}, model.ErrNotFound).Once()

	rec := f.do(http.MethodPost, "/api/auth/tap/reset-password", `{"email":"ghost@iiitranchi.ac.in"}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecruiterInvalidID(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	tap := model.Principal{ID: "tap-uid", Role: model.RoleTAP}
	f.admit(tap, "tap-uid")

	rec := f.do(http.MethodGet, "/api/recruiter/tap/not-a-uuid", "", f.credential(t, tap, "tap-uid"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Invalid recruiter id"}, errorMessages(t, rec))
}

func TestOperationalEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	f.do(http.MethodGet, "/api/dashboard/student", "", nil)

	rec = f.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `portal_gate_rejections_total{reason="missing_credential"} 1`)
}

func TestCORSAllowsCredentials(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/student/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
