package services_test

import (
	"testing"
	"time"

	"cafe/internal/adapters/out/memory"
	"cafe/internal/core/domain/model/capacity"
	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cancellationFixture struct {
	registry    *memory.OrderRegistry
	pool        *capacity.Pool
	scheduler   *services.FulfillmentScheduler
	coordinator *services.CancellationCoordinator
}

func newCancellationFixture(t *testing.T, duration time.Duration) *cancellationFixture {
	t.Helper()

	registry := memory.NewOrderRegistry()
	pool, err := capacity.NewPool(2)
	require.NoError(t, err)
	scheduler := newScheduler(t, registry, pool, duration)
	coordinator, err := services.NewCancellationCoordinator(registry, pool, scheduler, nil)
	require.NoError(t, err)

	return &cancellationFixture{
		registry:    registry,
		pool:        pool,
		scheduler:   scheduler,
		coordinator: coordinator,
	}
}

func (f *cancellationFixture) cancel(t *testing.T, customerID string) *order.Order {
	t.Helper()
	removed, ok := f.registry.Cancel(customerID)
	require.True(t, ok)
	return removed
}

func (f *cancellationFixture) awaitPreparing(t *testing.T, typ item.Type, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.pool.Occupied(typ) == want
	}, time.Second, time.Millisecond)
}

func Test_CancellationCoordinator_Reclaim(t *testing.T) {
	t.Run("should drop waiting items without touching capacity", func(t *testing.T) {
		f := newCancellationFixture(t, time.Minute)
		_, _, err := f.registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 3})
		require.NoError(t, err)
		// No kick: every item is still Waiting.

		outcome := f.coordinator.Reclaim(f.cancel(t, "alice"))

		assert.Equal(t, services.CancellationOutcome{Dropped: 3}, outcome)
		assert.Equal(t, 0, f.pool.Occupied(item.Tea))
	})

	t.Run("should transfer preparing items without re-acquiring slots", func(t *testing.T) {
		f := newCancellationFixture(t, 80*time.Millisecond)
		_, _, err := f.registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 2})
		require.NoError(t, err)
		f.scheduler.Kick()
		f.awaitPreparing(t, item.Tea, 2)

		bob, _, err := f.registry.Submit("bob", "Bob", map[item.Type]int{item.Tea: 2})
		require.NoError(t, err)

		outcome := f.coordinator.Reclaim(f.cancel(t, "alice"))

		assert.Equal(t, 2, outcome.Transferred)
		assert.Equal(t, 0, outcome.Dropped)
		// The transfers inherited the two occupied slots.
		assert.LessOrEqual(t, f.pool.Occupied(item.Tea), 2)

		require.Eventually(t, bob.IsFulfilled, 2*time.Second, 5*time.Millisecond)
		assert.Equal(t, 0, f.pool.Occupied(item.Tea))
	})

	t.Run("should discard preparing items with no recipient and release their slots", func(t *testing.T) {
		f := newCancellationFixture(t, time.Minute)
		_, _, err := f.registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 2})
		require.NoError(t, err)
		f.scheduler.Kick()
		f.awaitPreparing(t, item.Tea, 2)

		outcome := f.coordinator.Reclaim(f.cancel(t, "alice"))

		assert.Equal(t, services.CancellationOutcome{Discarded: 2}, outcome)
		assert.Equal(t, 0, f.pool.Occupied(item.Tea))
		assert.Equal(t, 0, f.scheduler.InflightCount())
	})

	t.Run("should transfer only as many items as recipients can take", func(t *testing.T) {
		f := newCancellationFixture(t, time.Minute)
		_, _, err := f.registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 2})
		require.NoError(t, err)
		f.scheduler.Kick()
		f.awaitPreparing(t, item.Tea, 2)

		bob, _, err := f.registry.Submit("bob", "Bob", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)

		outcome := f.coordinator.Reclaim(f.cancel(t, "alice"))

		assert.Equal(t, 1, outcome.Transferred)
		assert.Equal(t, 1, outcome.Discarded)
		tally := bob.CountsByState()[item.Tea]
		assert.Equal(t, 1, tally.Preparing)
	})

	t.Run("should not transfer across item types", func(t *testing.T) {
		f := newCancellationFixture(t, time.Minute)
		_, _, err := f.registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)
		f.scheduler.Kick()
		f.awaitPreparing(t, item.Tea, 1)

		bob, _, err := f.registry.Submit("bob", "Bob", map[item.Type]int{item.Coffee: 1})
		require.NoError(t, err)

		outcome := f.coordinator.Reclaim(f.cancel(t, "alice"))

		assert.Equal(t, 1, outcome.Discarded)
		tally := bob.CountsByState()[item.Coffee]
		assert.Equal(t, 1, tally.Waiting)
	})

	t.Run("should reclaim a transferred preparation as preparing, not ready", func(t *testing.T) {
		f := newCancellationFixture(t, time.Minute)
		_, _, err := f.registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)
		f.scheduler.Kick()
		f.awaitPreparing(t, item.Tea, 1)

		bob, _, err := f.registry.Submit("bob", "Bob", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)

		first := f.coordinator.Reclaim(f.cancel(t, "alice"))
		require.Equal(t, 1, first.Transferred)
		require.Equal(t, 1, bob.CountsByState()[item.Tea].Preparing)

		// Bob leaves right after inheriting the preparation. With no third
		// order around, the still-running item is discarded with its slot,
		// never handed on as a finished one.
		second := f.coordinator.Reclaim(f.cancel(t, "bob"))

		assert.Equal(t, services.CancellationOutcome{Discarded: 1}, second)
		assert.Equal(t, 0, bob.ReadyCount())
		assert.Equal(t, 0, f.pool.Occupied(item.Tea))
		assert.Equal(t, 0, f.scheduler.InflightCount())
	})

	t.Run("should transfer ready items and bump the recipient's readiness", func(t *testing.T) {
		f := newCancellationFixture(t, 10*time.Millisecond)
		alice, _, err := f.registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)
		f.scheduler.Kick()
		require.Eventually(t, alice.IsFulfilled, time.Second, time.Millisecond)

		bob, _, err := f.registry.Submit("bob", "Bob", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)

		outcome := f.coordinator.Reclaim(f.cancel(t, "alice"))

		assert.Equal(t, services.CancellationOutcome{Transferred: 1}, outcome)
		assert.True(t, bob.IsFulfilled())
		assert.Equal(t, 0, f.pool.Occupied(item.Tea))
	})

	t.Run("should discard ready items with no recipient", func(t *testing.T) {
		f := newCancellationFixture(t, 10*time.Millisecond)
		alice, _, err := f.registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)
		f.scheduler.Kick()
		require.Eventually(t, alice.IsFulfilled, time.Second, time.Millisecond)

		outcome := f.coordinator.Reclaim(f.cancel(t, "alice"))

		assert.Equal(t, services.CancellationOutcome{Discarded: 1}, outcome)
		assert.Equal(t, 0, f.pool.Occupied(item.Tea))
	})

	t.Run("should free capacity for other orders after a discard", func(t *testing.T) {
		f := newCancellationFixture(t, 40*time.Millisecond)
		_, _, err := f.registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 2})
		require.NoError(t, err)
		f.scheduler.Kick()
		f.awaitPreparing(t, item.Tea, 2)

		f.coordinator.Reclaim(f.cancel(t, "alice"))

		bob, _, err := f.registry.Submit("bob", "Bob", map[item.Type]int{item.Tea: 2})
		require.NoError(t, err)
		f.scheduler.Kick()

		require.Eventually(t, bob.IsFulfilled, 2*time.Second, 5*time.Millisecond)
	})
}
