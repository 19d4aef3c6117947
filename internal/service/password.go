package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

// passwordReset drives the provider's out-of-band reset flow for one account table.
type passwordReset struct {
	identity model.IdentityProvider
	// known reports whether email belongs to an account of this role.
	known  func(ctx context.Context, email string) (bool, error)
	name   string
	logger *logger.Logger
}

// Request sends a reset email to known accounts. It never reveals whether the
// email exists.
func (p passwordReset) Request(ctx context.Context, email string) {
	email = NormalizeEmail(email)
	ok, err := p.known(ctx, email)
	if err != nil {
		p.logger.Error(p.name+": failed to look up account for password reset", "error", err.Error())
		return
	}
	if !ok {
		p.logger.Debug(p.name + ": password reset for unknown email")
		return
	}

	if err := p.identity.SendPasswordReset(ctx, email); err != nil {
		p.logger.Error(p.name+": failed to send password reset", "error", err.Error())
		return
	}

	p.logger.Info(p.name + ": password reset email sent")
}

func (p passwordReset) Confirm(ctx context.Context, code, newPassword string) error {
	if err := p.identity.ConfirmPasswordReset(ctx, code, newPassword); err != nil {
		if errors.Is(err, model.ErrInvalidResetCode) {
			return apierrors.NewErrBadRequest("Invalid or expired reset code")
		}
		p.logger.Error(p.name+": failed to confirm password reset", "error", err.Error())
		return fmt.Errorf("failed to confirm password reset: %w", err)
	}
	return nil
}

func knownBy[T any](get func(ctx context.Context, email string) (T, error)) func(ctx context.Context, email string) (bool, error) {
	return func(ctx context.Context, email string) (bool, error) {
		_, err := get(ctx, email)
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
}
