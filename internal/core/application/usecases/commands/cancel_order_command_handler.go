package commands

import (
	"context"

	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// CancelOrderCommandHandler handles order cancellation. The order leaves the
// registry immediately; items already prepared or in preparation are then
// offered to other orders before anything is thrown away.
type CancelOrderCommandHandler struct {
	registry  ports.OrderRegistry
	reclaimer OrderReclaimer
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(registry ports.OrderRegistry, reclaimer OrderReclaimer) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		registry:  registry,
		reclaimer: reclaimer,
	}
}

// Handle removes the customer's order and redistributes its items. Returns
// an ObjectNotFoundError when the customer has no active order.
func (h *CancelOrderCommandHandler) Handle(_ context.Context, cmd CancelOrderCommand) (services.CancellationOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return services.CancellationOutcome{}, err
	}

	cancelled, ok := h.registry.Cancel(cmd.CustomerID())
	if !ok {
		return services.CancellationOutcome{}, errs.NewObjectNotFoundError("customer", cmd.CustomerID())
	}

	return h.reclaimer.Reclaim(cancelled), nil
}
