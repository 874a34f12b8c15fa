package services

import (
	"log/slog"
	"sync"
	"time"

	"cafe/internal/core/domain/model/capacity"
	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"
)

// taskKey identifies one in-flight preparation across all orders.
type taskKey struct {
	customerID string
	itemID     string
}

// preparationTask owns one timed preparation and, implicitly, one capacity
// slot. Exactly one of the completion timer and CancelPreparation takes the
// done flag; whoever takes it is the sole party allowed to dispose of the
// slot. This makes the release happen exactly once no matter how the
// completion timer races a cancellation.
type preparationTask struct {
	mu    sync.Mutex
	done  bool
	timer *time.Timer
}

// take claims ownership of the task's outcome. Returns false if the other
// party already took it.
func (t *preparationTask) take() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	return true
}

// FulfillmentScheduler is the domain service that moves Waiting items into
// preparation whenever capacity allows, and finishes them after their timed
// preparation elapses.
//
// Key responsibilities:
//   - Acquiring a capacity slot before any item starts preparing
//   - Claiming some Waiting item of the slot's type across all active orders
//   - Finishing each preparation after its configured duration and releasing
//     the slot for the next item
//   - Re-scanning on every wake-up so no Waiting item is starved while a slot
//     is free
//
// Business rules:
//   - At most Pool.MaxPerType items of one type prepare concurrently
//   - The pick among eligible Waiting items carries no ordering guarantee
//   - A preparation finishing against a removed order mutates the retained
//     order and releases its slot; nothing else happens
//   - A slot accounting error is unrecoverable and halts the scheduler
//
// Wake-ups arrive from the application layer after every submit, from task
// completions, from the cancellation path after a discard, and from a
// periodic safety-net job. Wake-ups coalesce: the dispatch loop runs at most
// once per pending signal and each run drains all placeable work.
type FulfillmentScheduler struct {
	registry        ports.OrderRegistry
	pool            *capacity.Pool
	durations       map[item.Type]time.Duration
	defaultDuration time.Duration
	logger          *slog.Logger

	wake chan struct{}
	stop chan struct{}

	stopOnce sync.Once
	wg       sync.WaitGroup

	mu       sync.Mutex
	inflight map[taskKey]*preparationTask
	halted   bool
}

// NewFulfillmentScheduler creates a scheduler over the given registry and
// capacity pool. durations maps each item type to its preparation time;
// types absent from the map fall back to defaultDuration.
func NewFulfillmentScheduler(
	registry ports.OrderRegistry,
	pool *capacity.Pool,
	durations map[item.Type]time.Duration,
	defaultDuration time.Duration,
	logger *slog.Logger,
) (*FulfillmentScheduler, error) {
	if registry == nil {
		return nil, errs.NewValueIsRequiredError("registry")
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	if defaultDuration <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("default duration", defaultDuration, 1, time.Duration(1<<62))
	}
	for t, d := range durations {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, errs.NewValueIsOutOfRangeError(string(t)+" duration", d, 1, time.Duration(1<<62))
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FulfillmentScheduler{
		registry:        registry,
		pool:            pool,
		durations:       durations,
		defaultDuration: defaultDuration,
		logger:          logger.With(slog.String("component", "fulfillment_scheduler")),
		wake:            make(chan struct{}, 1),
		stop:            make(chan struct{}),
		inflight:        make(map[taskKey]*preparationTask),
	}, nil
}

// Start launches the dispatch loop. The scheduler places nothing before Start.
func (s *FulfillmentScheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop terminates the dispatch loop and stops all in-flight preparation
// timers. Items left Preparing never finish; shutdown does not drain.
func (s *FulfillmentScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, task := range s.inflight {
		if task.take() && task.timer != nil {
			task.timer.Stop()
		}
		delete(s.inflight, key)
	}
}

// Kick requests a dispatch pass. Safe to call from any goroutine; concurrent
// kicks coalesce into one pending pass.
func (s *FulfillmentScheduler) Kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Halted reports whether the scheduler shut itself down after a slot
// accounting error.
func (s *FulfillmentScheduler) Halted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halted
}

// InflightCount returns the number of preparations currently running.
func (s *FulfillmentScheduler) InflightCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

// CancelPreparation stops the in-flight preparation of one item, typically
// because its order was cancelled. Returns true if the cancellation won the
// race against the completion timer; the caller then owns the item's
// capacity slot and must either hand it to a transferred preparation or
// release it. Returns false if the preparation had already finished.
//
// Items flip to Preparing and register their task in the same mutex section,
// so any item a caller observed as Preparing is guaranteed to be found here:
// a false return always means the completion timer won.
func (s *FulfillmentScheduler) CancelPreparation(customerID, itemID string) bool {
	key := taskKey{customerID: customerID, itemID: itemID}

	s.mu.Lock()
	task, ok := s.inflight[key]
	s.mu.Unlock()
	if !ok {
		return false
	}

	if !task.take() {
		return false
	}
	if task.timer != nil {
		task.timer.Stop()
	}

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()

	return true
}

// TransferPreparation moves a Preparing donation from a cancelled order onto
// o's first Waiting item of type t and starts its preparation. The capacity
// slot is inherited from the cancelled preparation, so none is acquired here;
// the preparation runs its full duration. Returns the receiving item id, or
// false when o has no Waiting item of that type.
func (s *FulfillmentScheduler) TransferPreparation(o *order.Order, t item.Type) (string, bool) {
	s.mu.Lock()
	if s.halted {
		s.mu.Unlock()
		return "", false
	}

	itemID, ok := o.ReceiveTransfer(t, item.Preparing)
	if !ok {
		s.mu.Unlock()
		return "", false
	}

	key := taskKey{customerID: o.CustomerID(), itemID: itemID}
	task := &preparationTask{}
	s.inflight[key] = task
	s.mu.Unlock()

	s.begin(key, task, o, itemID, t)
	return itemID, true
}

func (s *FulfillmentScheduler) run() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stop:
			return
		case <-s.wake:
			s.dispatch()
		}
	}
}

// dispatch drains all placeable work: for every type with Waiting items it
// keeps acquiring slots and claiming items until either slots or Waiting
// items run out.
func (s *FulfillmentScheduler) dispatch() {
	if s.Halted() {
		return
	}

	orders := s.registry.All()

	types := make(map[item.Type]struct{})
	for _, o := range orders {
		for t, tally := range o.CountsByState() {
			if tally.Waiting > 0 {
				types[t] = struct{}{}
			}
		}
	}

	for t := range types {
		s.dispatchType(t, orders)
	}
}

func (s *FulfillmentScheduler) dispatchType(t item.Type, orders []*order.Order) {
	for {
		if !s.pool.TryAcquire(t) {
			return
		}

		// Every scanned order lost its Waiting items since the tally,
		// hand the slot back.
		if !s.claimAndStart(t, orders) {
			if err := s.pool.Release(t); err != nil {
				s.halt(err)
			}
			return
		}
	}
}

// claimAndStart claims one Waiting item of type t and starts its preparation.
// The claim and the task registration share one mutex section: a concurrent
// CancelPreparation for an item seen as Preparing serializes behind it and
// always finds the task. The caller holds the item's capacity slot.
func (s *FulfillmentScheduler) claimAndStart(t item.Type, orders []*order.Order) bool {
	s.mu.Lock()
	if s.halted {
		s.mu.Unlock()
		return false
	}

	for _, o := range orders {
		itemID, ok := o.ClaimWaiting(t)
		if !ok {
			continue
		}

		key := taskKey{customerID: o.CustomerID(), itemID: itemID}
		task := &preparationTask{}
		s.inflight[key] = task
		s.mu.Unlock()

		s.begin(key, task, o, itemID, t)
		return true
	}

	s.mu.Unlock()
	return false
}

// begin starts the timed preparation of one registered task. If a
// cancellation already took the task, the fresh timer is stopped before it
// ever fires.
func (s *FulfillmentScheduler) begin(key taskKey, task *preparationTask, o *order.Order, itemID string, t item.Type) {
	s.logger.Debug("preparation started",
		slog.String("customerId", o.CustomerID()),
		slog.String("itemId", itemID),
	)

	timer := time.AfterFunc(s.durationFor(t), func() {
		s.complete(key, task, o, itemID, t)
	})

	task.mu.Lock()
	if task.done {
		timer.Stop()
	} else {
		task.timer = timer
	}
	task.mu.Unlock()
}

// complete is the timer callback of one preparation. If the cancellation
// path already took the task, the slot belongs to it and nothing happens
// here.
func (s *FulfillmentScheduler) complete(key taskKey, task *preparationTask, o *order.Order, itemID string, t item.Type) {
	if !task.take() {
		return
	}

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()

	fulfilled, err := o.FinishPreparing(itemID)
	if err != nil {
		s.logger.Error("finishing preparation failed",
			slog.String("customerId", o.CustomerID()),
			slog.String("itemId", itemID),
			slog.Any("error", err),
		)
	} else if fulfilled {
		s.logger.Info("order fulfilled", slog.String("customerId", o.CustomerID()))
	}

	if err := s.pool.Release(t); err != nil {
		s.halt(err)
		return
	}

	s.Kick()
}

// halt permanently stops placing work after a slot accounting error. The
// pool's counters can no longer be trusted, so continuing could exceed the
// concurrency bound.
func (s *FulfillmentScheduler) halt(err error) {
	s.mu.Lock()
	if s.halted {
		s.mu.Unlock()
		return
	}
	s.halted = true
	s.mu.Unlock()

	s.logger.Error("slot accounting failed, scheduler halted", slog.Any("error", err))
}

func (s *FulfillmentScheduler) durationFor(t item.Type) time.Duration {
	if d, ok := s.durations[t]; ok {
		return d
	}
	return s.defaultDuration
}
