package services

import (
	"log/slog"

	"cafe/internal/core/domain/model/capacity"
	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// CancellationOutcome summarizes what happened to a cancelled order's items.
type CancellationOutcome struct {
	// Transferred items moved to another order's Waiting item of the same
	// type, keeping their Preparing or Ready state.
	Transferred int

	// Discarded items had no recipient; a Preparing discard released its
	// capacity slot.
	Discarded int

	// Dropped items were still Waiting and vanished without side effects.
	Dropped int
}

// CancellationCoordinator is the domain service that reclaims the work
// already invested in a cancelled order.
//
// Key responsibilities:
//   - Dropping Waiting items outright
//   - Moving each Preparing or Ready item onto another order's Waiting item
//     of the same type, preserving its state
//   - Discarding items no order can take and releasing their slots
//
// Business rules:
//   - A transferred Preparing item keeps its capacity slot; the recipient's
//     preparation runs its full duration without re-acquiring
//   - A discarded Preparing item releases its slot exactly once
//   - A Ready item carries no slot; transferring or discarding it touches
//     no capacity
//   - The pick of a recipient order carries no ordering guarantee
//
// The coordinator locks at most one order at a time, so it can never
// deadlock against the scheduler or a concurrent submit.
type CancellationCoordinator struct {
	registry  ports.OrderRegistry
	pool      *capacity.Pool
	scheduler *FulfillmentScheduler
	logger    *slog.Logger
}

// NewCancellationCoordinator creates a coordinator over the given registry,
// capacity pool and scheduler.
func NewCancellationCoordinator(
	registry ports.OrderRegistry,
	pool *capacity.Pool,
	scheduler *FulfillmentScheduler,
	logger *slog.Logger,
) (*CancellationCoordinator, error) {
	if registry == nil {
		return nil, errs.NewValueIsRequiredError("registry")
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	if scheduler == nil {
		return nil, errs.NewValueIsRequiredError("scheduler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CancellationCoordinator{
		registry:  registry,
		pool:      pool,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "cancellation_coordinator")),
	}, nil
}

// Reclaim redistributes the items of an order that was already removed from
// the registry. Each non-Waiting item either transfers to another order's
// Waiting item of the same type or is discarded; Waiting items are dropped.
//
// A Preparing item whose completion timer fires during reclamation is
// treated as Ready: the timer already finished it against the retained
// order and released its slot.
func (c *CancellationCoordinator) Reclaim(cancelled *order.Order) CancellationOutcome {
	var outcome CancellationOutcome

	customerID := cancelled.CustomerID()
	for _, snap := range cancelled.Items() {
		switch snap.State {
		case item.Waiting:
			outcome.Dropped++

		case item.Preparing:
			if c.scheduler.CancelPreparation(customerID, snap.ID) {
				c.reclaimPreparing(customerID, snap, &outcome)
			} else {
				// Lost the race against the completion timer; the item is
				// Ready now and its slot is gone.
				c.reclaimReady(customerID, snap, &outcome)
			}

		case item.Ready:
			c.reclaimReady(customerID, snap, &outcome)
		}
	}

	if outcome.Discarded > 0 {
		c.scheduler.Kick()
	}

	c.logger.Info("order reclaimed",
		slog.String("customerId", customerID),
		slog.Int("transferred", outcome.Transferred),
		slog.Int("discarded", outcome.Discarded),
		slog.Int("dropped", outcome.Dropped),
	)

	return outcome
}

// reclaimPreparing disposes of a Preparing item whose task was cancelled.
// The caller holds the item's capacity slot: a transfer hands it to the
// recipient's preparation, a discard releases it.
func (c *CancellationCoordinator) reclaimPreparing(cancelledID string, snap order.ItemSnapshot, outcome *CancellationOutcome) {
	for _, o := range c.registry.All() {
		if o.CustomerID() == cancelledID {
			continue
		}
		if _, ok := c.scheduler.TransferPreparation(o, snap.Type); ok {
			outcome.Transferred++
			return
		}
	}

	if err := c.pool.Release(snap.Type); err != nil {
		c.logger.Error("releasing discarded slot failed",
			slog.String("itemId", snap.ID),
			slog.Any("error", err),
		)
	}
	outcome.Discarded++
}

// reclaimReady hands a finished item to some other order holding a Waiting
// item of the same type. A Ready item carries no slot, so a discard touches
// no capacity.
func (c *CancellationCoordinator) reclaimReady(cancelledID string, snap order.ItemSnapshot, outcome *CancellationOutcome) {
	for _, o := range c.registry.All() {
		if o.CustomerID() == cancelledID {
			continue
		}
		if _, ok := o.ReceiveTransfer(snap.Type, item.Ready); ok {
			outcome.Transferred++
			return
		}
	}
	outcome.Discarded++
}
