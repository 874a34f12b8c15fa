// Package memory provides the in-memory implementation of the order registry.
// Orders live only for the lifetime of the process and are not persisted
// across restarts.
package memory

import (
	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"

	"github.com/puzpuzpuz/xsync/v3"
)

// OrderRegistry implements ports.OrderRegistry on a sharded concurrent map.
// Per-key atomic Compute sections make submit, collect and cancel on the same
// customer id linearizable without a registry-wide lock, so unrelated
// customers never contend.
type OrderRegistry struct {
	orders *xsync.MapOf[string, *order.Order]
}

// NewOrderRegistry creates an empty registry.
func NewOrderRegistry() *OrderRegistry {
	return &OrderRegistry{
		orders: xsync.NewMapOf[string, *order.Order](),
	}
}

var _ ports.OrderRegistry = (*OrderRegistry)(nil)

// Submit creates the customer's order or appends add-on items to it.
// The whole mutation happens inside the map's per-key atomic section, so a
// racing cancel either sees the order with the new items or not at all.
func (r *OrderRegistry) Submit(
	customerID, customerName string, counts map[item.Type]int,
) (*order.Order, bool, error) {
	var (
		affected *order.Order
		created  bool
		err      error
	)

	r.orders.Compute(customerID, func(existing *order.Order, loaded bool) (*order.Order, bool) {
		if loaded {
			err = existing.AddItems(counts)
			affected = existing
			return existing, false
		}

		var fresh *order.Order
		fresh, err = order.NewOrder(customerID, customerName, counts)
		if err != nil {
			return nil, true
		}
		affected = fresh
		created = true
		return fresh, false
	})

	if err != nil {
		return nil, false, err
	}
	return affected, created, nil
}

// Get returns the customer's active order without blocking.
func (r *OrderRegistry) Get(customerID string) (*order.Order, bool) {
	return r.orders.Load(customerID)
}

// Collect removes the order iff it is fulfilled. The fulfillment check and
// the removal share one atomic section, so a racing add-on cannot slip items
// into an order that is being handed over.
func (r *OrderRegistry) Collect(customerID string) bool {
	collected := false

	r.orders.Compute(customerID, func(existing *order.Order, loaded bool) (*order.Order, bool) {
		if !loaded {
			return nil, true
		}
		if !existing.IsFulfilled() {
			return existing, false
		}
		existing.MarkRemoved()
		collected = true
		return nil, true
	})

	return collected
}

// Cancel removes the order regardless of state and returns it for
// reclamation. The removed order is marked so waiters are released and
// in-flight preparation tasks observe the removal.
func (r *OrderRegistry) Cancel(customerID string) (*order.Order, bool) {
	removed, ok := r.orders.LoadAndDelete(customerID)
	if !ok {
		return nil, false
	}
	removed.MarkRemoved()
	return removed, true
}

// All returns a snapshot of every registered order.
func (r *OrderRegistry) All() []*order.Order {
	snapshot := make([]*order.Order, 0, r.orders.Size())
	r.orders.Range(func(_ string, o *order.Order) bool {
		snapshot = append(snapshot, o)
		return true
	})
	return snapshot
}

// Len returns the number of registered orders.
func (r *OrderRegistry) Len() int {
	return r.orders.Size()
}
