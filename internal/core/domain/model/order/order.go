package order

import (
	"errors"
	"fmt"
	"sync"

	"cafe/internal/core/domain/model/item"
	"cafe/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrItemNotFound is returned when an item id does not (or no longer does)
	// belong to the order.
	ErrItemNotFound = errors.New("item not found in order")
)

// Order represents one customer's active order in the cafe. It is the
// aggregate root that owns every item the customer asked for and tracks the
// aggregate readiness of the order.
//
// Order follows these invariants:
//   - Item ids are unique within the order and allocated monotonically per
//     type ("tea-0", "tea-1", ...); an id is never reused, add-on items
//     continue the sequence
//   - readyCount always equals the number of items in the Ready state
//   - The order is fulfilled iff every item is Ready
//   - Can only be created through the NewOrder constructor
//
// Unlike a plain value object, Order is mutated concurrently by the
// fulfillment scheduler, in-flight preparation tasks, the submit path and
// the cancellation path. All mutations are serialized by the order's own
// lock; no caller ever needs to hold two order locks at once.
//
// The order stays valid after removal from the registry: in-flight
// preparation tasks hold their own reference and finish against it safely.
type Order struct {
	mu sync.Mutex

	// customerID identifies the owning customer; registry key
	customerID string

	// customerName is the display name used in responses and logs
	customerName string

	// items maps item id to the owned item
	items map[string]*item.Item

	// seq is the monotonic per-type id counter; never decremented
	seq map[item.Type]int

	// readyCount is the number of items currently in the Ready state
	readyCount int

	// removed marks the order as no longer registered; set on collect/cancel
	removed bool

	// ready is closed when the order becomes fulfilled or removed, releasing
	// waiters; re-armed when add-on items arrive after fulfillment
	ready chan struct{}

	// readyClosed records whether the current ready channel is closed
	readyClosed bool

	// isConstructed ensures the order was created via NewOrder
	isConstructed bool
}

// ItemSnapshot is a point-in-time copy of one item, taken under the order lock.
type ItemSnapshot struct {
	ID    string
	Type  item.Type
	State item.State
}

// StateTally counts the items of one type per preparation state.
type StateTally struct {
	Waiting   int
	Preparing int
	Ready     int
}

// NewOrder creates an Order for the given customer with the requested item
// counts, every item starting in the Waiting state.
//
// Parameters:
//   - customerID: Registry key for the owning customer (must not be empty)
//   - customerName: Display name (must not be empty)
//   - counts: Requested number of items per type; zero counts are legal no-ops
//
// Returns the created order, or a validation error if the customer identity
// is missing, a type is invalid, or a count is negative.
func NewOrder(customerID, customerName string, counts map[item.Type]int) (*Order, error) {
	if customerID == "" {
		return nil, errs.NewValueIsRequiredError("customer id")
	}
	if customerName == "" {
		return nil, errs.NewValueIsRequiredError("customer name")
	}

	o := &Order{
		customerID:    customerID,
		customerName:  customerName,
		items:         make(map[string]*item.Item),
		seq:           make(map[item.Type]int),
		ready:         make(chan struct{}),
		isConstructed: true,
	}

	if err := o.AddItems(counts); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// CustomerID returns the registry key of the owning customer.
func (o *Order) CustomerID() string {
	return o.customerID
}

// CustomerName returns the display name of the owning customer.
func (o *Order) CustomerName() string {
	return o.customerName
}

// AddItems appends the requested counts as new Waiting items, continuing each
// type's id sequence from its historical total. A zero count for a type is a
// legal no-op; a negative count or invalid type rejects the whole call before
// any mutation.
//
// If the order had already been fulfilled, adding items re-arms the readiness
// notification so waiters block until the new items are Ready too.
func (o *Order) AddItems(counts map[item.Type]int) error {
	for t, n := range counts {
		if err := t.Validate(); err != nil {
			return err
		}
		if n < 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"item count",
				fmt.Errorf("%d %s is not a valid quantity", n, t),
			)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	added := 0
	for t, n := range counts {
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("%s-%d", t, o.seq[t])
			it, err := item.NewItem(id, t)
			if err != nil {
				return err
			}
			o.items[id] = it
			o.seq[t]++
			added++
		}
	}

	if added > 0 && o.readyClosed && !o.removed {
		o.ready = make(chan struct{})
		o.readyClosed = false
	}

	return nil
}

// ClaimWaiting picks some Waiting item of the given type, flips it to
// Preparing and returns its id. The pick carries no ordering guarantee.
// Returns false if the order holds no Waiting item of that type or has been
// removed from the registry. The caller must already hold a capacity slot.
func (o *Order) ClaimWaiting(t item.Type) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.removed {
		return "", false
	}

	for id, it := range o.items {
		if it.Type() == t && it.State() == item.Waiting {
			if err := it.StartPreparing(); err != nil {
				return "", false
			}
			return id, true
		}
	}
	return "", false
}

// FinishPreparing moves the identified item to Ready and updates the
// aggregate readiness. It is safe to call after the order was removed from
// the registry; the retained object absorbs the mutation and waiters were
// already released.
//
// Returns whether the order is now fulfilled, or ErrItemNotFound if the item
// no longer belongs to the order.
func (o *Order) FinishPreparing(itemID string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	it, ok := o.items[itemID]
	if !ok {
		return false, ErrItemNotFound
	}
	if err := it.Finish(); err != nil {
		return false, err
	}

	o.readyCount++
	fulfilled := o.fulfilledLocked()
	if fulfilled {
		o.closeReadyLocked()
	}
	return fulfilled, nil
}

// ReceiveTransfer re-points some Waiting item of the given type to the
// donated state of an item reclaimed from a cancelled order. A Ready donation
// bumps the aggregate readiness; a Preparing donation arrives with its
// capacity slot already held. Returns the receiving item's id, or false if no
// Waiting item of that type exists or the order has been removed.
func (o *Order) ReceiveTransfer(t item.Type, donated item.State) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.removed {
		return "", false
	}

	for id, it := range o.items {
		if it.Type() == t && it.State() == item.Waiting {
			if err := it.ReceiveTransfer(donated); err != nil {
				return "", false
			}
			if donated == item.Ready {
				o.readyCount++
				if o.fulfilledLocked() {
					o.closeReadyLocked()
				}
			}
			return id, true
		}
	}
	return "", false
}

// MarkRemoved flags the order as no longer registered and releases any
// readiness waiters. Called exactly once by the registry on collect or cancel.
func (o *Order) MarkRemoved() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.removed = true
	o.closeReadyLocked()
}

// Removed reports whether the order has been removed from the registry.
func (o *Order) Removed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.removed
}

// IsFulfilled reports whether every item of the order is Ready.
func (o *Order) IsFulfilled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fulfilledLocked()
}

// Ready returns the channel closed when the order becomes fulfilled or is
// removed. Waiters must re-check IsFulfilled and Removed after the channel
// closes: an add-on arriving after fulfillment re-arms a fresh channel.
func (o *Order) Ready() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ready
}

// ReadyCount returns the number of items currently Ready.
func (o *Order) ReadyCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.readyCount
}

// TotalItems returns the number of items currently owned by the order.
func (o *Order) TotalItems() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}

// Items returns a point-in-time snapshot of every owned item.
func (o *Order) Items() []ItemSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	snapshot := make([]ItemSnapshot, 0, len(o.items))
	for id, it := range o.items {
		snapshot = append(snapshot, ItemSnapshot{ID: id, Type: it.Type(), State: it.State()})
	}
	return snapshot
}

// CountsByState tallies the order's items per type and state.
func (o *Order) CountsByState() map[item.Type]StateTally {
	o.mu.Lock()
	defer o.mu.Unlock()

	tallies := make(map[item.Type]StateTally)
	for _, it := range o.items {
		tally := tallies[it.Type()]
		switch it.State() {
		case item.Waiting:
			tally.Waiting++
		case item.Preparing:
			tally.Preparing++
		case item.Ready:
			tally.Ready++
		}
		tallies[it.Type()] = tally
	}
	return tallies
}

func (o *Order) fulfilledLocked() bool {
	return len(o.items) > 0 && o.readyCount == len(o.items)
}

func (o *Order) closeReadyLocked() {
	if !o.readyClosed {
		close(o.ready)
		o.readyClosed = true
	}
}
