package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/tap-portal-server/internal/api/http/context"
	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/testutil"
)

type gateFunc func(ctx context.Context, token string) (model.Principal, error)

func (f gateFunc) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	return f(ctx, token)
}

func principalEcho(cm model.ContextManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := cm.GetPrincipal(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(string(p.Role) + ":" + p.ID))
	})
}

func TestAuthenticate_Handler(t *testing.T) {
	t.Parallel()

	student := model.Principal{ID: "2023ug1058", Role: model.RoleStudent}

	tests := []struct {
		name       string
		cookie     *http.Cookie
		gateResult model.Principal
		gateErr    error
		wantToken  string
		wantStatus int
		wantBody   string
		wantReason string
	}{
		{
			name:       "valid session",
			cookie:     &http.Cookie{Name: "token", Value: "good"},
			gateResult: student,
			wantToken:  "good",
			wantStatus: http.StatusOK,
			wantBody:   "student:2023ug1058",
		},
		{
			name:       "no cookie",
			gateErr:    apierrors.NewErrMissingCredential(),
			wantStatus: http.StatusUnauthorized,
			wantReason: "missing_credential",
		},
		{
			name:       "cookie under another name",
			cookie:     &http.Cookie{Name: "session", Value: "good"},
			gateErr:    apierrors.NewErrMissingCredential(),
			wantStatus: http.StatusUnauthorized,
			wantReason: "missing_credential",
		},
		{
			name:       "stale identity",
			cookie:     &http.Cookie{Name: "token", Value: "stale"},
			gateErr:    apierrors.NewErrStaleIdentitySession(),
			wantToken:  "stale",
			wantStatus: http.StatusUnauthorized,
			wantReason: "stale_identity_session",
		},
		{
			name:       "store failure",
			cookie:     &http.Cookie{Name: "token", Value: "good"},
			gateErr:    assert.AnError,
			wantToken:  "good",
			wantStatus: http.StatusInternalServerError,
			wantReason: "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cm := httpcontext.NewManager()
			metrics := NewMetrics(prometheus.NewRegistry())
			gate := gateFunc(func(_ context.Context, token string) (model.Principal, error) {
				assert.Equal(t, tt.wantToken, token)
				return tt.gateResult, tt.gateErr
			})
			mw := NewAuthenticate(gate, cm, "token", metrics, testutil.MakeNoopLogger())

			req := httptest.NewRequest(http.MethodGet, "/api/dashboard/student", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			mw.Handler(principalEcho(cm)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantReason != "" {
				assert.Equal(t, 1.0, promtestutil.ToFloat64(metrics.GateRejections.WithLabelValues(tt.wantReason)))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		principal  *model.Principal
		role       model.Role
		wantStatus int
	}{
		{name: "student on student route", principal: &model.Principal{ID: "2023ug1058", Role: model.RoleStudent}, role: model.RoleStudent, wantStatus: http.StatusOK},
		{name: "tap on tap route", principal: &model.Principal{ID: "uid-1", Role: model.RoleTAP}, role: model.RoleTAP, wantStatus: http.StatusOK},
		{name: "student on tap route", principal: &model.Principal{ID: "2023ug1058", Role: model.RoleStudent}, role: model.RoleTAP, wantStatus: http.StatusForbidden},
		{name: "tap on student route", principal: &model.Principal{ID: "uid-1", Role: model.RoleTAP}, role: model.RoleStudent, wantStatus: http.StatusForbidden},
		{name: "no principal", role: model.RoleStudent, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cm := httpcontext.NewManager()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(cm.SetPrincipal(req.Context(), *tt.principal))
			}
			rec := httptest.NewRecorder()

			RequireRole(cm, tt.role, testutil.MakeNoopLogger())(principalEcho(cm)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(metrics.Handler)
	r.Get("/api/jobs/student/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/jobs/student/"+id, nil))
	}

	assert.Equal(t, 3.0, promtestutil.ToFloat64(metrics.Requests.WithLabelValues(http.MethodGet, "/api/jobs/student/{id}", "404")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var metrics *Metrics
	metrics.RecordRejection(assert.AnError)

	called := false
	h := metrics.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestLogging_Handler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf, 0)

	r := chi.NewRouter()
	r.Use(NewLogging(lg).Handler)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Contains(t, buf.String(), "HTTP request completed")
	assert.Contains(t, buf.String(), "route=/health")
	assert.Contains(t, buf.String(), "status=200")

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Contains(t, buf.String(), "HTTP request failed")
	assert.Contains(t, buf.String(), "status=500")
}
