package capacity

import (
	"errors"
	"sync/atomic"

	"cafe/internal/core/domain/model/item"
	"cafe/internal/pkg/errs"

	"github.com/puzpuzpuz/xsync/v3"
)

var (
	// ErrReleaseWithoutAcquire indicates that a capacity slot was released
	// more often than it was acquired. This is a programming error, never a
	// consequence of user behavior; callers treat it as fatal for the
	// scheduling subsystem rather than let the counters corrupt silently.
	ErrReleaseWithoutAcquire = errors.New("capacity slot released without a matching acquire")

	// ErrPoolIsNotConstructed indicates that the Pool was not created via NewPool.
	ErrPoolIsNotConstructed = errors.New("Pool must be created via NewPool constructor")
)

// Pool bounds how many items of each type may be in the preparation stage
// concurrently. It is the one piece of truly global mutable state in the
// engine and is shared by the scheduler, every preparation task and the
// cancellation path.
//
// Pool follows these invariants:
//   - The occupied count per type never exceeds the configured maximum
//   - The occupied count per type never falls below zero
//   - Acquire and release are atomic with respect to concurrent callers
//
// Each type gets its own atomic counter, so contention is confined to items
// of the same type; unrelated types progress independently.
type Pool struct {
	// maxPerType is the slot bound applied to every item type
	maxPerType int32

	// occupied holds one atomic counter per item type, created on first use
	// since the menu is an open enumeration
	occupied *xsync.MapOf[item.Type, *atomic.Int32]

	// isConstructed ensures the pool was created via NewPool
	isConstructed bool
}

// NewPool creates a Pool granting at most maxPerType concurrent preparation
// slots for each item type. The reference configuration is two slots per type.
//
// Returns a validation error if maxPerType is not positive.
func NewPool(maxPerType int) (*Pool, error) {
	if maxPerType < 1 {
		return nil, errs.NewValueIsOutOfRangeError("max slots per type", maxPerType, 1, int(^uint32(0)>>1))
	}

	return &Pool{
		maxPerType:    int32(maxPerType),
		occupied:      xsync.NewMapOf[item.Type, *atomic.Int32](),
		isConstructed: true,
	}, nil
}

// Validate ensures the Pool instance was properly constructed through NewPool.
func (p *Pool) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPoolIsNotConstructed
	}
	return nil
}

// TryAcquire claims a preparation slot for the given type without blocking.
// Returns whether a slot was granted; the occupied count never exceeds the
// configured maximum even under concurrent callers.
func (p *Pool) TryAcquire(t item.Type) bool {
	counter := p.counter(t)
	for {
		current := counter.Load()
		if current >= p.maxPerType {
			return false
		}
		if counter.CompareAndSwap(current, current+1) {
			return true
		}
	}
}

// Release returns a previously acquired slot for the given type.
// Returns ErrReleaseWithoutAcquire if the counter would fall below zero;
// the counter is restored before returning so the pool stays usable for
// diagnosis.
func (p *Pool) Release(t item.Type) error {
	counter := p.counter(t)
	if counter.Add(-1) < 0 {
		counter.Add(1)
		return ErrReleaseWithoutAcquire
	}
	return nil
}

// Occupied returns the number of slots currently claimed for the given type.
func (p *Pool) Occupied(t item.Type) int {
	return int(p.counter(t).Load())
}

// MaxPerType returns the configured slot bound.
func (p *Pool) MaxPerType() int {
	return int(p.maxPerType)
}

func (p *Pool) counter(t item.Type) *atomic.Int32 {
	counter, _ := p.occupied.LoadOrCompute(t, func() *atomic.Int32 {
		return &atomic.Int32{}
	})
	return counter
}
