package commands

import (
	"errors"

	"cafe/internal/core/domain/model/item"
	"cafe/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrCustomerIDIsRequired   = errors.New("customer id is required")
	ErrCustomerNameIsRequired = errors.New("customer name is required")
	ErrItemCountIsNegative    = errors.New("item count must not be negative")
	ErrNoItemsRequested       = errors.New("at least one item is required")
)

// PlaceOrderCommand represents a request to place a new order or to add
// items to the customer's active order.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(sessionID, "Alice", map[item.Type]int{item.Tea: 2})
//	if err != nil {
//	    return fmt.Errorf("invalid order request: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	customerID   string
	customerName string
	counts       map[item.Type]int

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place or extend an order.
// Validates that the customer identity is present, every requested type is
// valid, no count is negative and at least one item is requested in total.
func NewPlaceOrderCommand(customerID, customerName string, counts map[item.Type]int) (PlaceOrderCommand, error) {
	placeCommand := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		placeCommand.setCustomerID(customerID),
		placeCommand.setCustomerName(customerName),
		placeCommand.setCounts(counts),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return placeCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// CustomerID returns the identity of the ordering customer.
func (c PlaceOrderCommand) CustomerID() string {
	return c.customerID
}

// CustomerName returns the display name of the ordering customer.
func (c PlaceOrderCommand) CustomerName() string {
	return c.customerName
}

// Counts returns the requested number of items per type.
func (c PlaceOrderCommand) Counts() map[item.Type]int {
	return c.counts
}

func (c *PlaceOrderCommand) setCustomerID(customerID string) error {
	if customerID == "" {
		return ErrCustomerIDIsRequired
	}

	c.customerID = customerID
	return nil
}

func (c *PlaceOrderCommand) setCustomerName(customerName string) error {
	if customerName == "" {
		return ErrCustomerNameIsRequired
	}

	c.customerName = customerName
	return nil
}

func (c *PlaceOrderCommand) setCounts(counts map[item.Type]int) error {
	total := 0
	copied := make(map[item.Type]int, len(counts))
	for t, n := range counts {
		if err := t.Validate(); err != nil {
			return err
		}
		if n < 0 {
			return ErrItemCountIsNegative
		}
		if n > 0 {
			copied[t] = n
			total += n
		}
	}
	if total == 0 {
		return ErrNoItemsRequested
	}

	c.counts = copied
	return nil
}
