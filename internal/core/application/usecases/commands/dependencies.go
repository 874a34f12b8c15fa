package commands

import (
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"
)

// FulfillmentKicker wakes the fulfillment scheduler after a command changed
// the set of placeable items.
type FulfillmentKicker interface {
	Kick()
}

// OrderReclaimer redistributes a cancelled order's items to other orders.
type OrderReclaimer interface {
	Reclaim(cancelled *order.Order) services.CancellationOutcome
}
