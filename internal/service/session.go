package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

// Session is an issued credential ready to be set as a cookie.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Sessions issues session credentials. The role always comes from the caller's
// route, never from user input.
type Sessions struct {
	tokens   model.TokenManager
	identity model.IdentityProvider
	logger   *logger.Logger
}

func NewSessions(tokens model.TokenManager, identity model.IdentityProvider, logger *logger.Logger) *Sessions {
	return &Sessions{tokens: tokens, identity: identity, logger: logger}
}

// Issue signs a credential for principal bound to the provider uid.
func (s *Sessions) Issue(principal model.Principal, providerID string) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(principal, providerID)
	if err != nil {
		s.logger.Error("Session service: failed to issue credential",
			"principal_id", principal.ID,
			"role", principal.Role,
			"error", err.Error())
		return Session{}, fmt.Errorf("failed to issue credential: %w", err)
	}

	return Session{Token: token, ExpiresAt: expiresAt}, nil
}

// IssueVerified issues a credential only when the provider reports the email
// as verified. Otherwise the verification email is sent again and the login is
// refused.
func (s *Sessions) IssueVerified(ctx context.Context, principal model.Principal, identity model.Identity) (Session, error) {
	if !identity.EmailVerified {
		if err := s.identity.SendVerificationEmail(ctx, identity); err != nil {
			s.logger.Warn("Session service: failed to resend verification email",
				"principal_id", principal.ID,
				"error", err.Error())
		}
		s.logger.Info("Session service: login refused, email not verified",
			"principal_id", principal.ID,
			"role", principal.Role)
		return Session{}, apierrors.NewErrEmailUnverified()
	}

	return s.Issue(principal, identity.UID)
}
