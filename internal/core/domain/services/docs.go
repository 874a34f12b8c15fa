// Package services contains the domain services of the cafe: the
// FulfillmentScheduler, which moves Waiting items into timed preparation
// under the per-type capacity bound, and the CancellationCoordinator, which
// redistributes a cancelled order's in-progress and finished items to other
// orders.
//
// Domain services coordinate across aggregates. They hold no item state of
// their own; all item state lives in the order aggregates, all capacity
// state in the pool.
package services
