package queries_test

import (
	"context"
	"testing"
	"time"

	"cafe/internal/adapters/out/memory"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/model/item"
	"cafe/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitOrderReadyQueryHandler_Handle(t *testing.T) {
	t.Run("should return immediately for a fulfilled order", func(t *testing.T) {
		ctx := t.Context()
		registry := memory.NewOrderRegistry()
		ord, _, err := registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)
		itemID, ok := ord.ClaimWaiting(item.Tea)
		require.True(t, ok)
		_, err = ord.FinishPreparing(itemID)
		require.NoError(t, err)

		h := queries.NewAwaitOrderReadyQueryHandler(registry)
		q, err := queries.NewAwaitOrderReadyQuery("alice")
		require.NoError(t, err)

		assert.NoError(t, h.Handle(ctx, q))
	})

	t.Run("should return not found when no order is active", func(t *testing.T) {
		ctx := t.Context()
		h := queries.NewAwaitOrderReadyQueryHandler(memory.NewOrderRegistry())
		q, err := queries.NewAwaitOrderReadyQuery("nobody")
		require.NoError(t, err)

		assert.ErrorIs(t, h.Handle(ctx, q), errs.ErrObjectNotFound)
	})

	t.Run("should wake up when the last item becomes ready", func(t *testing.T) {
		ctx := t.Context()
		registry := memory.NewOrderRegistry()
		ord, _, err := registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)

		h := queries.NewAwaitOrderReadyQueryHandler(registry)
		q, err := queries.NewAwaitOrderReadyQuery("alice")
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() {
			done <- h.Handle(ctx, q)
		}()

		itemID, ok := ord.ClaimWaiting(item.Tea)
		require.True(t, ok)
		_, err = ord.FinishPreparing(itemID)
		require.NoError(t, err)

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("wait never returned")
		}
	})

	t.Run("should report not found when the order is cancelled while waiting", func(t *testing.T) {
		ctx := t.Context()
		registry := memory.NewOrderRegistry()
		_, _, err := registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)

		h := queries.NewAwaitOrderReadyQueryHandler(registry)
		q, err := queries.NewAwaitOrderReadyQuery("alice")
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() {
			done <- h.Handle(ctx, q)
		}()

		_, ok := registry.Cancel("alice")
		require.True(t, ok)

		select {
		case err := <-done:
			assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		case <-time.After(2 * time.Second):
			t.Fatal("wait never returned")
		}
	})

	t.Run("should respect context cancellation", func(t *testing.T) {
		registry := memory.NewOrderRegistry()
		_, _, err := registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 1})
		require.NoError(t, err)

		h := queries.NewAwaitOrderReadyQueryHandler(registry)
		q, err := queries.NewAwaitOrderReadyQuery("alice")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, h.Handle(ctx, q), context.DeadlineExceeded)
	})
}
