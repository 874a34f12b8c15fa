// Package tcp implements the customer-facing line protocol of the cafe.
//
// A session opens with a name handshake answered by SUCCESS, then accepts
// the commands place_order, order_status, collect and exit, one per line.
// Barista replies are prefixed "[barista]:". Readiness is pushed: when every
// item of the customer's order is ready, the session announces it without
// being asked. Disconnecting with an uncollected order cancels it.
package tcp

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/application/usecases/queries"
)

// Handlers bundles the application operations the protocol exposes.
type Handlers struct {
	PlaceOrder   commands.PlaceOrderCommandHandler
	CollectOrder commands.CollectOrderCommandHandler
	CancelOrder  commands.CancelOrderCommandHandler
	OrderStatus  queries.GetOrderStatusQueryHandler
	AwaitReady   queries.AwaitOrderReadyQueryHandler
}

// Server accepts customer connections and runs one session per connection.
type Server struct {
	addr       string
	handlers   Handlers
	presences  *PresenceRegistry
	logger     *slog.Logger
	baseLogger *slog.Logger

	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewServer creates a server listening on addr once started. Sessions report
// their customer's presence to the given registry.
func NewServer(addr string, handlers Handlers, presences *PresenceRegistry, logger *slog.Logger) *Server {
	return &Server{
		addr:       addr,
		handlers:   handlers,
		presences:  presences,
		logger:     logger.With(slog.String("component", "tcp_server")),
		baseLogger: logger,
	}
}

// Start binds the listener and begins accepting connections.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("Cafe accepting customers", slog.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address. Valid after Start.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Stop closes the listener and terminates all sessions. Each session's
// uncollected order is cancelled through the session teardown path.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	s.logger.Info("Cafe closed")
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error("Accept failed", slog.Any("error", err))
			return
		}

		sess := newSession(conn, s.handlers, s.presences, s.baseLogger)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sess.run(s.ctx)
		}()
	}
}
