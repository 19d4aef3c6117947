package service

import (
	"errors"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
	"github.com/dtroode/tap-portal-server/internal/model"
)

// notFound replaces model.ErrNotFound with a client-facing error carrying message.
func notFound(err error, message string) error {
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrNotFound(message)
	}
	return err
}
