package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	cafehttp "cafe/internal/adapters/in/http"
	"cafe/internal/adapters/out/memory"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/model/capacity"
	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPresence struct {
	counts ports.PresenceCounts
}

func (s stubPresence) Counts() ports.PresenceCounts {
	return s.counts
}

type stubAuditReader struct {
	snapshots []ports.CafeSnapshot
	err       error
	gotLimit  int
}

func (s *stubAuditReader) Recent(_ context.Context, limit int) ([]ports.CafeSnapshot, error) {
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.snapshots) {
		return s.snapshots[:limit], nil
	}
	return s.snapshots, nil
}

func newHTTPFixture(t *testing.T, audit cafehttp.AuditReader) (*memory.OrderRegistry, *echo.Echo) {
	t.Helper()

	registry := memory.NewOrderRegistry()
	pool, err := capacity.NewPool(2)
	require.NoError(t, err)

	cafeStateHandler, err := queries.NewGetCafeStateQueryHandler(
		registry, pool, []item.Type{item.Tea, item.Coffee},
		stubPresence{counts: ports.PresenceCounts{InCafe: 2, WaitingOrders: 1}},
	)
	require.NoError(t, err)

	server := cafehttp.NewServer(cafeStateHandler, queries.NewGetOrderStatusQueryHandler(registry), audit)
	e := echo.New()
	server.Register(e)
	return registry, e
}

func Test_Server_GetHealth(t *testing.T) {
	_, e := newHTTPFixture(t, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func Test_Server_GetCafeState(t *testing.T) {
	registry, e := newHTTPFixture(t, nil)
	_, _, err := registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 2})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cafe", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body cafehttp.CafeStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.ActiveOrders)
	assert.Equal(t, 2, body.CustomersInCafe)
	assert.Equal(t, 1, body.CustomersWaiting)
	assert.Equal(t, 2, body.Types["tea"].Waiting)
	assert.Contains(t, body.Types, "coffee")
	assert.False(t, body.TakenAt.IsZero())
}

func Test_Server_GetAuditTrail(t *testing.T) {
	trail := []ports.CafeSnapshot{
		{
			TakenAt:      time.Date(2026, 3, 1, 12, 0, 10, 0, time.UTC),
			Presence:     ports.PresenceCounts{InCafe: 2, WaitingOrders: 1},
			ActiveOrders: 1,
			Counts: map[item.Type]ports.TypeSnapshot{
				item.Tea: {StateTally: order.StateTally{Preparing: 1}, SlotsOccupied: 1},
			},
		},
		{TakenAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}

	t.Run("should return recent entries newest first", func(t *testing.T) {
		_, e := newHTTPFixture(t, &stubAuditReader{snapshots: trail})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body []cafehttp.CafeStateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, 2, body[0].CustomersInCafe)
		assert.Equal(t, 1, body[0].CustomersWaiting)
		assert.Equal(t, 1, body[0].Types["tea"].Preparing)
		assert.True(t, body[0].TakenAt.After(body[1].TakenAt))
	})

	t.Run("should honor the limit query parameter", func(t *testing.T) {
		reader := &stubAuditReader{snapshots: trail}
		_, e := newHTTPFixture(t, reader)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=1", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, reader.gotLimit)

		var body []cafehttp.CafeStateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body, 1)
	})

	t.Run("should reject a malformed limit", func(t *testing.T) {
		_, e := newHTTPFixture(t, &stubAuditReader{snapshots: trail})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=soon", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should not mount the route without an audit store", func(t *testing.T) {
		_, e := newHTTPFixture(t, nil)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_Server_GetOrderStatus(t *testing.T) {
	t.Run("should return the order breakdown", func(t *testing.T) {
		registry, e := newHTTPFixture(t, nil)
		_, _, err := registry.Submit("alice", "Alice", map[item.Type]int{item.Tea: 1, item.Coffee: 1})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/alice", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body cafehttp.OrderStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "alice", body.CustomerID)
		assert.Equal(t, "Alice", body.CustomerName)
		assert.False(t, body.Fulfilled)
		assert.Equal(t, 2, body.TotalItems)
		assert.Equal(t, 1, body.Types["tea"].Waiting)
	})

	t.Run("should return 404 for an unknown customer", func(t *testing.T) {
		_, e := newHTTPFixture(t, nil)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/nobody", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
