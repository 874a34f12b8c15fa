package queries

import (
	"context"

	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// GetOrderStatusResponse is a point-in-time view of one order. The counts
// may be stale by the time the caller reads them; only collect decides
// readiness authoritatively.
type GetOrderStatusResponse struct {
	CustomerID   string
	CustomerName string
	Fulfilled    bool
	TotalItems   int
	ReadyItems   int
	Counts       map[item.Type]order.StateTally
}

// GetOrderStatusQueryHandler answers order status queries from the registry.
type GetOrderStatusQueryHandler struct {
	registry ports.OrderRegistry
}

// NewGetOrderStatusQueryHandler creates a handler for order status queries.
func NewGetOrderStatusQueryHandler(registry ports.OrderRegistry) GetOrderStatusQueryHandler {
	return GetOrderStatusQueryHandler{
		registry: registry,
	}
}

// Handle returns the current status of the customer's active order, or an
// ObjectNotFoundError when no order is active.
func (h *GetOrderStatusQueryHandler) Handle(_ context.Context, q GetOrderStatusQuery) (GetOrderStatusResponse, error) {
	if err := q.Validate(); err != nil {
		return GetOrderStatusResponse{}, err
	}

	ord, ok := h.registry.Get(q.CustomerID())
	if !ok {
		return GetOrderStatusResponse{}, errs.NewObjectNotFoundError("customer", q.CustomerID())
	}

	return GetOrderStatusResponse{
		CustomerID:   ord.CustomerID(),
		CustomerName: ord.CustomerName(),
		Fulfilled:    ord.IsFulfilled(),
		TotalItems:   ord.TotalItems(),
		ReadyItems:   ord.ReadyCount(),
		Counts:       ord.CountsByState(),
	}, nil
}
