package commands

import (
	"context"

	"cafe/internal/core/ports"
)

// PlaceOrderResult reports what the place operation did.
type PlaceOrderResult struct {
	// Created is true when a new order was opened, false when the items were
	// added to the customer's existing order.
	Created bool

	// TotalItems is the order's item count after the operation.
	TotalItems int
}

// PlaceOrderCommandHandler handles order placement. Submitting registers the
// items and wakes the scheduler so preparation starts as soon as capacity
// allows; the command never waits for readiness.
type PlaceOrderCommandHandler struct {
	registry ports.OrderRegistry
	kicker   FulfillmentKicker
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
func NewPlaceOrderCommandHandler(registry ports.OrderRegistry, kicker FulfillmentKicker) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		registry: registry,
		kicker:   kicker,
	}
}

// Handle registers the requested items under the customer's order, creating
// the order if none is active, and requests a dispatch pass.
func (h *PlaceOrderCommandHandler) Handle(_ context.Context, cmd PlaceOrderCommand) (PlaceOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return PlaceOrderResult{}, err
	}

	ord, created, err := h.registry.Submit(cmd.CustomerID(), cmd.CustomerName(), cmd.Counts())
	if err != nil {
		return PlaceOrderResult{}, err
	}

	h.kicker.Kick()

	return PlaceOrderResult{
		Created:    created,
		TotalItems: ord.TotalItems(),
	}, nil
}
