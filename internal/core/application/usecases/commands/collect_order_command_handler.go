package commands

import (
	"context"

	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// CollectOrderCommandHandler handles order collection. Collection succeeds
// only when every item of the order is Ready; the check and the removal are
// atomic, so a racing add-on cannot slip items into a hand-over.
type CollectOrderCommandHandler struct {
	registry ports.OrderRegistry
}

// NewCollectOrderCommandHandler creates a handler for order collection.
func NewCollectOrderCommandHandler(registry ports.OrderRegistry) CollectOrderCommandHandler {
	return CollectOrderCommandHandler{
		registry: registry,
	}
}

// Handle removes the customer's order if it is fulfilled. Returns an
// ObjectNotFoundError when the customer has no active order, or
// ErrOrderNotReady when items are still outstanding.
func (h *CollectOrderCommandHandler) Handle(_ context.Context, cmd CollectOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if h.registry.Collect(cmd.CustomerID()) {
		return nil
	}

	if _, ok := h.registry.Get(cmd.CustomerID()); !ok {
		return errs.NewObjectNotFoundError("customer", cmd.CustomerID())
	}
	return ErrOrderNotReady
}
