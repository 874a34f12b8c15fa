package commands

import (
	"errors"

	"cafe/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents a request to cancel the customer's active
// order, typically because the customer left without collecting it.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	customerID string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel the customer's order.
func NewCancelOrderCommand(customerID string) (CancelOrderCommand, error) {
	cancelCommand := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cancelCommand.setCustomerID(customerID); err != nil {
		return CancelOrderCommand{}, err
	}

	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// CustomerID returns the identity of the cancelling customer.
func (c CancelOrderCommand) CustomerID() string {
	return c.customerID
}

func (c *CancelOrderCommand) setCustomerID(customerID string) error {
	if customerID == "" {
		return ErrCustomerIDIsRequired
	}

	c.customerID = customerID
	return nil
}
