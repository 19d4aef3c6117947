package model

import "context"

// Identity is the identity provider's view of an account.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Disabled      bool
	// IDToken is set only right after sign-up or password verification.
	IDToken string
}

// IdentityProvider is the external authentication service.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (Identity, error)
	VerifyPassword(ctx context.Context, email, password string) (Identity, error)
	Lookup(ctx context.Context, uid string) (Identity, error)
	SendVerificationEmail(ctx context.Context, identity Identity) error
	SendPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, code, newPassword string) error
	// DeleteAccount removes the provider account. Deleting a missing account is not an error.
	DeleteAccount(ctx context.Context, identity Identity) error
}
