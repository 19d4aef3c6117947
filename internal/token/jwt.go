package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/tap-portal-server/internal/model"
)

var _ model.TokenManager = (*JWT)(nil)

// Claims represents session credential claims. Subject carries the provider uid.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string     `json:"id"`
	Role      model.Role `json:"role"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a new JWT token manager with the provided secret key and credential lifetime.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	return &JWT{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

// Issue signs a credential for the principal. Every call yields a distinct token.
func (j *JWT) Issue(principal model.Principal, providerID string) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   providerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AccountID: principal.ID,
		Role:      principal.Role,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Parse verifies signature and expiry and returns the decoded claims.
func (j *JWT) Parse(tokenString string) (model.Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return model.Claims{}, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return model.Claims{}, errors.New("session token is invalid")
	}
	if claims.AccountID == "" || claims.Subject == "" || !claims.Role.Valid() {
		return model.Claims{}, errors.New("session token is missing required claims")
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return model.Claims{
		Principal:  model.Principal{ID: claims.AccountID, Role: claims.Role},
		ProviderID: claims.Subject,
		IssuedAt:   issuedAt,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}
