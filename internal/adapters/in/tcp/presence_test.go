package tcp_test

import (
	"testing"

	"cafe/internal/adapters/in/tcp"
	"cafe/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Presence(t *testing.T) {
	t.Run("should start idle", func(t *testing.T) {
		p := tcp.NewPresence()
		assert.Equal(t, tcp.PresenceStateIdle, p.Current())
	})

	t.Run("should move to waiting when an order is placed", func(t *testing.T) {
		ctx := t.Context()
		p := tcp.NewPresence()

		require.NoError(t, p.OrderPlaced(ctx))
		assert.Equal(t, tcp.PresenceStateWaiting, p.Current())
	})

	t.Run("should treat an add-on while waiting as a no-op", func(t *testing.T) {
		ctx := t.Context()
		p := tcp.NewPresence()

		require.NoError(t, p.OrderPlaced(ctx))
		require.NoError(t, p.OrderPlaced(ctx))
		assert.Equal(t, tcp.PresenceStateWaiting, p.Current())
	})

	t.Run("should return to idle when the order closes", func(t *testing.T) {
		ctx := t.Context()
		p := tcp.NewPresence()

		require.NoError(t, p.OrderPlaced(ctx))
		require.NoError(t, p.OrderClosed(ctx))
		assert.Equal(t, tcp.PresenceStateIdle, p.Current())
	})

	t.Run("should treat closing while idle as a no-op", func(t *testing.T) {
		ctx := t.Context()
		p := tcp.NewPresence()

		require.NoError(t, p.OrderClosed(ctx))
		assert.Equal(t, tcp.PresenceStateIdle, p.Current())
	})
}

func Test_PresenceRegistry(t *testing.T) {
	t.Run("should count registered customers by activity", func(t *testing.T) {
		ctx := t.Context()
		registry := tcp.NewPresenceRegistry()

		idle := tcp.NewPresence()
		waiting := tcp.NewPresence()
		require.NoError(t, waiting.OrderPlaced(ctx))

		registry.Register("alice", waiting)
		registry.Register("bob", idle)

		assert.Equal(t, ports.PresenceCounts{InCafe: 2, WaitingOrders: 1}, registry.Counts())
	})

	t.Run("should follow presence transitions", func(t *testing.T) {
		ctx := t.Context()
		registry := tcp.NewPresenceRegistry()

		p := tcp.NewPresence()
		registry.Register("alice", p)
		require.NoError(t, p.OrderPlaced(ctx))
		assert.Equal(t, 1, registry.Counts().WaitingOrders)

		require.NoError(t, p.OrderClosed(ctx))
		assert.Equal(t, 0, registry.Counts().WaitingOrders)
	})

	t.Run("should forget unregistered customers", func(t *testing.T) {
		registry := tcp.NewPresenceRegistry()

		registry.Register("alice", tcp.NewPresence())
		registry.Unregister("alice")
		registry.Unregister("never-arrived")

		assert.Equal(t, ports.PresenceCounts{}, registry.Counts())
	})
}
