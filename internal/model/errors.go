package model

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidPassword  = errors.New("invalid email or password")
	ErrInvalidResetCode = errors.New("invalid or expired reset code")
	// ErrStatusChanged means a conditional status update found a different current status.
	ErrStatusChanged = errors.New("status changed")
)
