// Package order provides the Order aggregate of the cafe fulfillment domain.
//
// The package includes:
//   - Order: the aggregate root owning one customer's items, their states and
//     the order's aggregate readiness
//   - ItemSnapshot and StateTally: point-in-time read models taken under the
//     order lock
//
// Key business rules:
//   - Item ids are allocated per type from a monotonic sequence and never
//     reused; add-on items continue the sequence
//   - readyCount mirrors the number of Ready items at all times
//   - An order is fulfilled iff every item is Ready; fulfillment (or removal)
//     closes the order's readiness channel, releasing waiters
//   - An order removed from the registry remains a valid object so in-flight
//     preparation tasks can finish against it
//
// Every mutating method serializes on the order's own lock, which is the only
// lock a caller ever holds while touching the aggregate.
package order
