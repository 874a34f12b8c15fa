// Package guard implements a defensive construction pattern for value objects
// and commands: a zero-value struct is distinguishable from one built through
// its designated constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is the default error returned by ConstructorGuard.Validate()
// when a nil error is passed as the validation error. This ensures that validation
// always fails with a meaningful message even if no specific error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures value objects and commands are only created through
// their designated constructor functions. Embedding a ConstructorGuard in a
// struct makes a zero-value instance detectable, so invariants checked in the
// constructor cannot be bypassed by direct struct initialization.
//
// Example usage:
//
//	type PlaceOrderCommand struct {
//	    customerID string
//	    guard      guard.ConstructorGuard
//	}
//
//	func NewPlaceOrderCommand(customerID string) (PlaceOrderCommand, error) {
//	    if customerID == "" {
//	        return PlaceOrderCommand{}, errors.New("customer id is required")
//	    }
//	    return PlaceOrderCommand{
//	        customerID: customerID,
//	        guard:      guard.NewConstructorGuard(),
//	    }, nil
//	}
//
//	func (c PlaceOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a ConstructorGuard that marks an object as
// properly constructed. Call it in the constructor of guarded objects.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate checks whether the guarded object was created through its
// constructor. Returns nil for constructed objects, validationError for
// zero values, and ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
