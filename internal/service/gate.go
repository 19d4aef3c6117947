package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

// Gate validates session credentials on every request.
type Gate struct {
	tokens             model.TokenManager
	identity           model.IdentityProvider
	accounts           model.AccountStore
	resendVerification bool
	logger             *logger.Logger
}

func NewGate(
	tokens model.TokenManager,
	identity model.IdentityProvider,
	accounts model.AccountStore,
	resendVerification bool,
	logger *logger.Logger,
) *Gate {
	return &Gate{
		tokens:             tokens,
		identity:           identity,
		accounts:           accounts,
		resendVerification: resendVerification,
		logger:             logger,
	}
}

// Authenticate resolves the principal behind token. Rejections are returned as
// *apierrors.APIError; any other error is an internal failure.
func (g *Gate) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, apierrors.NewErrMissingCredential()
	}

	claims, err := g.tokens.Parse(token)
	if err != nil {
		g.logger.Debug("Gate: credential rejected", "error", err.Error())
		return model.Principal{}, apierrors.NewErrInvalidCredential()
	}

	identity, err := g.identity.Lookup(ctx, claims.ProviderID)
	if err != nil {
		g.logger.Info("Gate: identity lookup failed",
			"principal_id", claims.ID,
			"provider_id", claims.ProviderID,
			"error", err.Error())
		return model.Principal{}, apierrors.NewErrStaleIdentitySession()
	}
	if identity.UID == "" || identity.Disabled {
		g.logger.Info("Gate: identity missing or disabled",
			"principal_id", claims.ID,
			"provider_id", claims.ProviderID)
		return model.Principal{}, apierrors.NewErrStaleIdentitySession()
	}

	account, err := g.accounts.GetAccount(ctx, claims.Role, claims.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			g.logger.Info("Gate: account not found",
				"principal_id", claims.ID,
				"role", claims.Role)
			return model.Principal{}, apierrors.NewErrPrincipalNotFound()
		}
		g.logger.Error("Gate: failed to get account",
			"principal_id", claims.ID,
			"role", claims.Role,
			"error", err.Error())
		return model.Principal{}, fmt.Errorf("failed to get account: %w", err)
	}

	if !account.EmailVerified {
		if err := g.checkVerification(ctx, account, identity); err != nil {
			return model.Principal{}, err
		}
	}

	if identity.UID != account.ProviderID {
		g.logger.Warn("Gate: provider identity mismatch",
			"principal_id", account.ID,
			"role", account.Role)
		return model.Principal{}, apierrors.NewErrStaleIdentitySession()
	}

	return model.Principal{ID: account.ID, Role: account.Role}, nil
}

// checkVerification syncs the record when the provider has since verified the
// email and rejects the request otherwise.
func (g *Gate) checkVerification(ctx context.Context, account model.Account, identity model.Identity) error {
	if identity.EmailVerified && identity.UID == account.ProviderID {
		if err := g.accounts.MarkEmailVerified(ctx, account.Role, account.ID); err != nil {
			g.logger.Error("Gate: failed to sync email verification",
				"principal_id", account.ID,
				"error", err.Error())
			return fmt.Errorf("failed to mark email verified: %w", err)
		}
		return nil
	}

	if g.resendVerification {
		// No id token here, so the provider needs service account credentials.
		if err := g.identity.SendVerificationEmail(ctx, model.Identity{UID: identity.UID, Email: account.Email}); err != nil {
			g.logger.Warn("Gate: failed to resend verification email",
				"principal_id", account.ID,
				"error", err.Error())
		}
	}

	return apierrors.NewErrEmailUnverified()
}

// Authorize checks that principal holds the required role.
func Authorize(principal model.Principal, ok bool, role model.Role) error {
	if !ok || principal.ID == "" {
		return apierrors.NewErrMissingCredential()
	}
	if principal.Role != role {
		return apierrors.NewErrInsufficientRole()
	}
	return nil
}
