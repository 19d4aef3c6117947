package model

import "time"

// Claims is the decoded content of a verified session credential.
type Claims struct {
	Principal
	ProviderID string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// TokenManager issues and verifies session credentials.
type TokenManager interface {
	Issue(principal Principal, providerID string) (token string, expiresAt time.Time, err error)
	Parse(token string) (Claims, error)
}
