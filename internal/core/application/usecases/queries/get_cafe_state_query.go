package queries

import (
	"errors"

	"cafe/internal/pkg/guard"
)

var ErrGetCafeStateQueryIsNotConstructed = errors.New(
	"GetCafeStateQuery must be created via NewGetCafeStateQuery constructor",
)

// GetCafeStateQuery represents a request for an aggregate snapshot of the
// whole cafe: active orders, per-type item tallies and slot occupancy.
type GetCafeStateQuery struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewGetCafeStateQuery creates a query for the cafe-wide state snapshot.
func NewGetCafeStateQuery() GetCafeStateQuery {
	return GetCafeStateQuery{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q GetCafeStateQuery) Validate() error {
	return q.guard.Validate(ErrGetCafeStateQueryIsNotConstructed)
}
