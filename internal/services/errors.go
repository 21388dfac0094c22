// Package services holds the dashboard's business rules on top of the store
// ports: access gating, reference checks, installments, deactivate-if-linked
// deletes, reports and overdue marking.
package services

import (
	"context"
	"errors"
	"log/slog"

	"financas/internal/core"
	"financas/internal/ports"
)

var (
	// ErrCategoryMismatch is returned when a referenced category belongs to
	// another client or to the other kind.
	ErrCategoryMismatch = errors.New("category does not belong to this client and kind")
	// ErrInactiveReference is returned when a new reference points at a
	// deactivated category or payment method.
	ErrInactiveReference = errors.New("referenced record is inactive")
	ErrPaymentMethod     = errors.New("payment method not found")
)

var validationErrors = []error{
	ErrCategoryMismatch,
	ErrInactiveReference,
	ErrPaymentMethod,
	core.ErrInvalidDay,
	core.ErrInvalidMonth,
	core.ErrInvalidAmount,
	core.ErrInvalidKind,
	core.ErrInvalidStatus,
	core.ErrInvalidColor,
	core.ErrEmptyName,
	core.ErrEmptyDescription,
	core.ErrInvalidInstalment,
	core.ErrGoalCategory,
	core.ErrInvalidPeriod,
	core.ErrDuplicateName,
	errValidation,
}

// errValidation marks free-form validation messages from core validators.
var errValidation = errors.New("validation failed")

// IsValidation reports whether err was caused by bad input rather than by the
// store.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type validationError struct{ err error }

func (e validationError) Error() string { return e.err.Error() }
func (e validationError) Unwrap() []error {
	return []error{e.err, errValidation}
}

// invalid tags any validator error as a validation failure.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return validationError{err: err}
}

// CacheInvalidator drops cached reports of a client.
type CacheInvalidator interface {
	Invalidate(clientID int64)
}

// publisher forwards events to an optional ports.EventPublisher. Publish
// failures are logged and never fail the request: the row is already stored.
type publisher struct {
	pub ports.EventPublisher
}

func (p publisher) publish(ctx context.Context, ev core.TransactionEvent) {
	if p.pub == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping event", "op", ev.Op, "id", ev.ID)
		return
	}
	if err := p.pub.PublishTransactionEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"op", ev.Op,
			"kind", ev.Kind,
			"id", ev.ID,
			"error", err)
	}
}
