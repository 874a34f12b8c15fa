package queries

import (
	"context"
	"time"

	"cafe/internal/core/domain/model/capacity"
	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// GetCafeStateQueryHandler assembles cafe-wide snapshots from the registry,
// the capacity pool and the presence source. The same snapshot feeds the
// monitoring endpoint and the audit trail.
type GetCafeStateQueryHandler struct {
	registry ports.OrderRegistry
	pool     *capacity.Pool
	menu     []item.Type
	presence ports.PresenceSource
}

// NewGetCafeStateQueryHandler creates a handler for cafe state queries.
// menu lists the types always reported, even when no order references them;
// types appearing only in active orders are added on the fly. presence may
// be nil, the snapshot then reports an empty cafe.
func NewGetCafeStateQueryHandler(
	registry ports.OrderRegistry, pool *capacity.Pool, menu []item.Type, presence ports.PresenceSource,
) (GetCafeStateQueryHandler, error) {
	if registry == nil {
		return GetCafeStateQueryHandler{}, errs.NewValueIsRequiredError("registry")
	}
	if err := pool.Validate(); err != nil {
		return GetCafeStateQueryHandler{}, err
	}
	for _, t := range menu {
		if err := t.Validate(); err != nil {
			return GetCafeStateQueryHandler{}, err
		}
	}

	return GetCafeStateQueryHandler{
		registry: registry,
		pool:     pool,
		menu:     menu,
		presence: presence,
	}, nil
}

// Handle returns a snapshot of the whole cafe. Tallies across orders are not
// taken atomically; the snapshot is an operational observation, not a
// consistent cut.
func (h *GetCafeStateQueryHandler) Handle(_ context.Context, q GetCafeStateQuery) (ports.CafeSnapshot, error) {
	if err := q.Validate(); err != nil {
		return ports.CafeSnapshot{}, err
	}

	orders := h.registry.All()

	counts := make(map[item.Type]ports.TypeSnapshot, len(h.menu))
	for _, t := range h.menu {
		counts[t] = ports.TypeSnapshot{SlotsOccupied: h.pool.Occupied(t)}
	}

	for _, ord := range orders {
		for t, tally := range ord.CountsByState() {
			snapshot, ok := counts[t]
			if !ok {
				snapshot = ports.TypeSnapshot{SlotsOccupied: h.pool.Occupied(t)}
			}
			snapshot.Waiting += tally.Waiting
			snapshot.Preparing += tally.Preparing
			snapshot.Ready += tally.Ready
			counts[t] = snapshot
		}
	}

	var presence ports.PresenceCounts
	if h.presence != nil {
		presence = h.presence.Counts()
	}

	return ports.CafeSnapshot{
		TakenAt:      time.Now().UTC(),
		Presence:     presence,
		ActiveOrders: len(orders),
		Counts:       counts,
	}, nil
}
