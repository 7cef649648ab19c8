package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/audit"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
)

// Auditor receives post-commit audit events. *audit.Logger implements it.
type Auditor interface {
	Append(ctx context.Context, stream audit.Stream, ev audit.Event)
}

// Principal is the identity carried by a locally issued token.
type Principal struct {
	ID    string
	Email string
	Role  string
}

// notFound turns store.ErrNotFound into a 404 with msg and passes other
// errors through untouched.
func notFound(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.Wrap(apperr.NotFound(msg), err)
	}
	return err
}
