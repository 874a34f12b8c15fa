package ports

import (
	"context"
	"time"

	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/model/order"
)

// CafeSnapshot is one timestamped observation of the cafe for the audit
// trail: connected customers, active orders and per-type item and slot
// tallies.
type CafeSnapshot struct {
	TakenAt      time.Time
	Presence     PresenceCounts
	ActiveOrders int
	Counts       map[item.Type]TypeSnapshot
}

// TypeSnapshot tallies one item type at observation time.
type TypeSnapshot struct {
	order.StateTally
	SlotsOccupied int
}

// AuditLog is the append-only operational trail of cafe state observations.
type AuditLog interface {
	// Append persists one snapshot. Implementations must not mutate it.
	Append(ctx context.Context, snapshot CafeSnapshot) error
}
