package queries

import (
	"errors"

	"cafe/internal/pkg/guard"
)

var ErrAwaitOrderReadyQueryIsNotConstructed = errors.New(
	"AwaitOrderReadyQuery must be created via NewAwaitOrderReadyQuery constructor",
)

// AwaitOrderReadyQuery represents a blocking wait for the moment every item
// of the customer's order is Ready.
type AwaitOrderReadyQuery struct { //nolint:recvcheck //using for validation
	customerID string

	guard guard.ConstructorGuard
}

// NewAwaitOrderReadyQuery creates a query that waits for order readiness.
func NewAwaitOrderReadyQuery(customerID string) (AwaitOrderReadyQuery, error) {
	awaitQuery := AwaitOrderReadyQuery{
		guard: guard.NewConstructorGuard(),
	}

	if customerID == "" {
		return AwaitOrderReadyQuery{}, ErrCustomerIDIsRequired
	}
	awaitQuery.customerID = customerID

	return awaitQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q AwaitOrderReadyQuery) Validate() error {
	return q.guard.Validate(ErrAwaitOrderReadyQueryIsNotConstructed)
}

// CustomerID returns the identity of the waiting customer.
func (q AwaitOrderReadyQuery) CustomerID() string {
	return q.customerID
}
