package commands

import (
	"errors"

	"cafe/internal/pkg/guard"
)

var ErrCollectOrderCommandIsNotConstructed = errors.New(
	"CollectOrderCommand must be created via NewCollectOrderCommand constructor",
)

// ErrOrderNotReady is returned when the customer tries to collect an order
// that still has items in preparation or waiting.
var ErrOrderNotReady = errors.New("order is not ready for collection")

// CollectOrderCommand represents a customer's request to collect their
// fulfilled order.
type CollectOrderCommand struct { //nolint:recvcheck //using for validation
	customerID string

	guard guard.ConstructorGuard
}

// NewCollectOrderCommand creates a command to collect the customer's order.
func NewCollectOrderCommand(customerID string) (CollectOrderCommand, error) {
	collectCommand := CollectOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := collectCommand.setCustomerID(customerID); err != nil {
		return CollectOrderCommand{}, err
	}

	return collectCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CollectOrderCommand) Validate() error {
	return c.guard.Validate(ErrCollectOrderCommandIsNotConstructed)
}

// CustomerID returns the identity of the collecting customer.
func (c CollectOrderCommand) CustomerID() string {
	return c.customerID
}

func (c *CollectOrderCommand) setCustomerID(customerID string) error {
	if customerID == "" {
		return ErrCustomerIDIsRequired
	}

	c.customerID = customerID
	return nil
}
