package middleware

import (
	"context"
	"net/http"

	"github.com/dtroode/tap-portal-server/internal/api/http/response"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/service"
)

// Gate resolves the principal behind a session credential.
type Gate interface {
	Authenticate(ctx context.Context, token string) (model.Principal, error)
}

// Authenticate reads the session cookie, runs the gate and injects the principal into the request context.
type Authenticate struct {
	gate           Gate
	contextManager model.ContextManager
	cookieName     string
	metrics        *Metrics
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware.
func NewAuthenticate(
	gate Gate,
	contextManager model.ContextManager,
	cookieName string,
	metrics *Metrics,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		gate:           gate,
		contextManager: contextManager,
		cookieName:     cookieName,
		metrics:        metrics,
		logger:         logger,
	}
}

func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(m.cookieName); err == nil {
			token = cookie.Value
		}

		principal, err := m.gate.Authenticate(r.Context(), token)
		if err != nil {
			m.metrics.RecordRejection(err)
			response.Error(w, r, m.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetPrincipal(r.Context(), principal)))
	})
}

// RequireRole admits only principals holding role. It must run after Authenticate.
func RequireRole(contextManager model.ContextManager, role model.Role, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := contextManager.GetPrincipal(r.Context())
			if err := service.Authorize(principal, ok, role); err != nil {
				logger.Info("HTTP: role check failed",
					"path", r.URL.Path,
					"principal_id", principal.ID,
					"role", principal.Role,
					"required", role)
				response.Error(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
