// Package http exposes the read-only operations surface of the cafe.
// Ordering happens over the TCP protocol; this API is for monitoring.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/ports"
	"cafe/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// AuditReader serves recent observations from the audit trail.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]ports.CafeSnapshot, error)
}

const (
	defaultAuditLimit = 20
	maxAuditLimit     = 500
)

// Server coordinates between HTTP handlers and application queries.
type Server struct {
	cafeStateHandler   queries.GetCafeStateQueryHandler
	orderStatusHandler queries.GetOrderStatusQueryHandler
	auditReader        AuditReader
}

// NewServer creates a new HTTP server with the required query handlers.
// auditReader may be nil; the audit route is then not mounted.
func NewServer(
	cafeStateHandler queries.GetCafeStateQueryHandler,
	orderStatusHandler queries.GetOrderStatusQueryHandler,
	auditReader AuditReader,
) *Server {
	return &Server{
		cafeStateHandler:   cafeStateHandler,
		orderStatusHandler: orderStatusHandler,
		auditReader:        auditReader,
	}
}

// Register mounts all routes on the given echo instance.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.GetHealth)
	e.GET("/api/v1/cafe", s.GetCafeState)
	e.GET("/api/v1/orders/:customerId", s.GetOrderStatus)
	if s.auditReader != nil {
		e.GET("/api/v1/audit", s.GetAuditTrail)
	}
}

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TypeStateResponse reports one item type's tallies and slot occupancy.
type TypeStateResponse struct {
	Waiting       int `json:"waiting"`
	Preparing     int `json:"preparing"`
	Ready         int `json:"ready"`
	SlotsOccupied int `json:"slotsOccupied"`
}

// CafeStateResponse is the cafe-wide snapshot returned by GET /api/v1/cafe
// and, per entry, by GET /api/v1/audit.
type CafeStateResponse struct {
	TakenAt          time.Time                    `json:"takenAt"`
	CustomersInCafe  int                          `json:"customersInCafe"`
	CustomersWaiting int                          `json:"customersWaiting"`
	ActiveOrders     int                          `json:"activeOrders"`
	Types            map[string]TypeStateResponse `json:"types"`
}

// OrderStatusResponse is the per-order breakdown returned by
// GET /api/v1/orders/:customerId.
type OrderStatusResponse struct {
	CustomerID   string                       `json:"customerId"`
	CustomerName string                       `json:"customerName"`
	Fulfilled    bool                         `json:"fulfilled"`
	TotalItems   int                          `json:"totalItems"`
	ReadyItems   int                          `json:"readyItems"`
	Types        map[string]TypeStateResponse `json:"types"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// GetCafeState handles GET /api/v1/cafe.
func (s *Server) GetCafeState(ctx echo.Context) error {
	snapshot, err := s.cafeStateHandler.Handle(ctx.Request().Context(), queries.NewGetCafeStateQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to snapshot cafe state",
		})
	}

	return ctx.JSON(http.StatusOK, toCafeStateResponse(snapshot))
}

// GetAuditTrail handles GET /api/v1/audit. Entries come back newest first;
// the optional limit query parameter caps how many.
func (s *Server) GetAuditTrail(ctx echo.Context) error {
	limit := defaultAuditLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "Invalid limit: " + raw,
			})
		}
		limit = min(parsed, maxAuditLimit)
	}

	snapshots, err := s.auditReader.Recent(ctx.Request().Context(), limit)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to read audit trail",
		})
	}

	entries := make([]CafeStateResponse, 0, len(snapshots))
	for _, snapshot := range snapshots {
		entries = append(entries, toCafeStateResponse(snapshot))
	}
	return ctx.JSON(http.StatusOK, entries)
}

// GetOrderStatus handles GET /api/v1/orders/:customerId.
func (s *Server) GetOrderStatus(ctx echo.Context) error {
	query, err := queries.NewGetOrderStatusQuery(ctx.Param("customerId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid customer id: " + err.Error(),
		})
	}

	response, err := s.orderStatusHandler.Handle(ctx.Request().Context(), query)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: "No active order for customer",
		})
	}
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to read order status",
		})
	}

	types := make(map[string]TypeStateResponse, len(response.Counts))
	for t, tally := range response.Counts {
		types[string(t)] = TypeStateResponse{
			Waiting:   tally.Waiting,
			Preparing: tally.Preparing,
			Ready:     tally.Ready,
		}
	}

	return ctx.JSON(http.StatusOK, OrderStatusResponse{
		CustomerID:   response.CustomerID,
		CustomerName: response.CustomerName,
		Fulfilled:    response.Fulfilled,
		TotalItems:   response.TotalItems,
		ReadyItems:   response.ReadyItems,
		Types:        types,
	})
}

func toCafeStateResponse(snapshot ports.CafeSnapshot) CafeStateResponse {
	types := make(map[string]TypeStateResponse, len(snapshot.Counts))
	for t, typeSnapshot := range snapshot.Counts {
		types[string(t)] = TypeStateResponse{
			Waiting:       typeSnapshot.Waiting,
			Preparing:     typeSnapshot.Preparing,
			Ready:         typeSnapshot.Ready,
			SlotsOccupied: typeSnapshot.SlotsOccupied,
		}
	}

	return CafeStateResponse{
		TakenAt:          snapshot.TakenAt,
		CustomersInCafe:  snapshot.Presence.InCafe,
		CustomersWaiting: snapshot.Presence.WaitingOrders,
		ActiveOrders:     snapshot.ActiveOrders,
		Types:            types,
	}
}
