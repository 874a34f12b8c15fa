package queries

import (
	"errors"

	"cafe/internal/pkg/guard"
)

var (
	ErrGetOrderStatusQueryIsNotConstructed = errors.New(
		"GetOrderStatusQuery must be created via NewGetOrderStatusQuery constructor",
	)
	ErrCustomerIDIsRequired = errors.New("customer id is required")
)

// GetOrderStatusQuery represents a request for the current state of one
// customer's active order.
type GetOrderStatusQuery struct { //nolint:recvcheck //using for validation
	customerID string

	guard guard.ConstructorGuard
}

// NewGetOrderStatusQuery creates a query for the customer's order status.
func NewGetOrderStatusQuery(customerID string) (GetOrderStatusQuery, error) {
	statusQuery := GetOrderStatusQuery{
		guard: guard.NewConstructorGuard(),
	}

	if customerID == "" {
		return GetOrderStatusQuery{}, ErrCustomerIDIsRequired
	}
	statusQuery.customerID = customerID

	return statusQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusQueryIsNotConstructed)
}

// CustomerID returns the identity of the asking customer.
func (q GetOrderStatusQuery) CustomerID() string {
	return q.customerID
}
