package model

import "context"

// Role scopes a principal to one side of the portal.
type Role string

const (
	// RoleStudent is a student principal keyed by roll number.
	RoleStudent Role = "student"
	// RoleTAP is a training and placement coordinator keyed by provider uid.
	RoleTAP Role = "tap"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTAP
}

// Principal is the authenticated actor derived from a session credential.
type Principal struct {
	ID   string
	Role Role
}

// Account is the gate-facing projection of a student or coordinator row.
type Account struct {
	ID            string
	Role          Role
	ProviderID    string
	Email         string
	EmailVerified bool
}

// AccountStore resolves accounts for the access gate.
type AccountStore interface {
	GetAccount(ctx context.Context, role Role, id string) (Account, error)
	MarkEmailVerified(ctx context.Context, role Role, id string) error
}
