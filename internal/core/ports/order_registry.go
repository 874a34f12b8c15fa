// Package ports defines the boundary interfaces of the fulfillment engine.
// These interfaces establish contracts between the core and its adapters,
// enabling dependency inversion and testability.
package ports

import (
	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/model/order"
)

// OrderRegistry is the concurrent map of active orders keyed by customer id.
// It owns the lifetime of every registered Order.
//
// Submit, Collect and Cancel on the same customer id are linearizable with
// respect to each other: a concurrent submit and cancel never leave a
// dangling order visible to a later Get.
type OrderRegistry interface {
	// Submit creates an order for the customer, or appends the requested
	// counts as new Waiting items to the existing one. Item ids continue each
	// type's historical sequence and are never reused. Zero counts per type
	// are legal no-ops. Returns the affected order and whether it was newly
	// created.
	//
	// Submit does not wake the scheduler itself; the application layer kicks
	// it after every successful submit.
	Submit(customerID, customerName string, counts map[item.Type]int) (*order.Order, bool, error)

	// Get returns the customer's active order without blocking.
	Get(customerID string) (*order.Order, bool)

	// Collect atomically removes the order iff it exists and is fulfilled.
	// Returns true only when the order was removed; an absent or unfinished
	// order is a normal negative result, not a fault.
	Collect(customerID string) bool

	// Cancel atomically removes the order regardless of fulfillment state and
	// returns it for reclamation. The removed order is marked so released
	// waiters and in-flight preparation tasks observe the removal.
	Cancel(customerID string) (*order.Order, bool)

	// All returns a point-in-time snapshot of every registered order,
	// in no particular order.
	All() []*order.Order

	// Len returns the number of registered orders.
	Len() int
}
