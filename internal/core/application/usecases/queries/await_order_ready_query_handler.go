package queries

import (
	"context"

	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// AwaitOrderReadyQueryHandler blocks until the customer's order is fulfilled.
// Readiness push surfaces build on this: one goroutine per interested
// session waits here and notifies the customer when the wait returns.
type AwaitOrderReadyQueryHandler struct {
	registry ports.OrderRegistry
}

// NewAwaitOrderReadyQueryHandler creates a handler for readiness waits.
func NewAwaitOrderReadyQueryHandler(registry ports.OrderRegistry) AwaitOrderReadyQueryHandler {
	return AwaitOrderReadyQueryHandler{
		registry: registry,
	}
}

// Handle blocks until the customer's order is fulfilled, the order goes
// away, or the context is cancelled. Returns nil exactly when the order is
// fulfilled and still active; an ObjectNotFoundError means the order was
// collected or cancelled while waiting (or never existed).
//
// An add-on arriving after fulfillment re-arms the order's readiness, so the
// loop re-checks the order after every wake-up instead of trusting a single
// notification.
func (h *AwaitOrderReadyQueryHandler) Handle(ctx context.Context, q AwaitOrderReadyQuery) error {
	if err := q.Validate(); err != nil {
		return err
	}

	for {
		ord, ok := h.registry.Get(q.CustomerID())
		if !ok {
			return errs.NewObjectNotFoundError("customer", q.CustomerID())
		}
		if ord.Removed() {
			// Cancelled or collected between Get and here; re-resolve.
			continue
		}
		if ord.IsFulfilled() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ord.Ready():
		}
	}
}
