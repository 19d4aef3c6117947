package model

import (
	"context"
	"time"
)

// CoordinatorStore defines persistence operations for TAP coordinators.
type CoordinatorStore interface {
	Create(ctx context.Context, coordinator Coordinator) (Coordinator, error)
	GetByID(ctx context.Context, id string) (Coordinator, error)
	GetByEmail(ctx context.Context, email string) (Coordinator, error)
	MarkEmailVerified(ctx context.Context, id string) error
}

// Coordinator is a TAP coordinator keyed by the provider uid issued at registration.
type Coordinator struct {
	ID            string
	ProviderID    string
	Name          string
	Email         string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
