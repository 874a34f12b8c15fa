// Package item provides the leaf entity of the fulfillment domain: a single
// preparable unit within an order.
//
// The package includes:
//   - Item: one drink of a given type with its own preparation state
//   - Type: an open enumeration of menu types (tea and coffee by reference)
//   - State: a state machine enforcing Waiting -> Preparing -> Ready
//
// Key business rules:
//   - State moves monotonically forward except when an item is transferred
//     from a cancelled order, which re-points a Waiting item directly to the
//     donated state
//   - Items are mutated only under their owning order's lock
//
// The package follows the same value-object conventions as the rest of the
// domain model: constructor validation, sentinel errors, and transition
// methods that return the new state or an error.
package item
