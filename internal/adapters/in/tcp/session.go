package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"

	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/model/item"
	"cafe/internal/pkg/errs"

	"github.com/google/uuid"
)

const baristaPrefix = "[barista]: "

// session serves one connected customer. The connection-scoped uuid is the
// customer id for the whole visit; the customer's given name is display only.
type session struct {
	id        string
	conn      net.Conn
	handlers  Handlers
	logger    *slog.Logger
	presence  *Presence
	presences *PresenceRegistry

	writeMu sync.Mutex

	mu       sync.Mutex
	watching bool

	name string
}

func newSession(conn net.Conn, handlers Handlers, presences *PresenceRegistry, logger *slog.Logger) *session {
	id := uuid.NewString()
	return &session{
		id:        id,
		conn:      conn,
		handlers:  handlers,
		logger:    logger.With(slog.String("component", "tcp_session"), slog.String("customerId", id)),
		presence:  NewPresence(),
		presences: presences,
	}
}

func (s *session) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Unblock pending reads when the server shuts down.
	go func() {
		<-ctx.Done()
		_ = s.conn.Close()
	}()

	defer s.teardown()

	scanner := bufio.NewScanner(s.conn)

	if !s.handshake(scanner) {
		return
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !s.handleCommand(ctx, line) {
			return
		}
	}
}

// handshake reads the customer's name. Empty lines are re-prompted; a
// dropped connection aborts the session.
func (s *session) handshake(scanner *bufio.Scanner) bool {
	s.writeLine("welcome to the virtual cafe, please introduce yourself")

	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			s.writeLine("please tell us your name")
			continue
		}

		s.name = name
		s.writeLine("SUCCESS")
		s.presences.Register(s.id, s.presence)
		s.logger.Info("Customer arrived",
			slog.String("name", name),
			slog.Int("customersInCafe", s.presences.Counts().InCafe),
		)
		return true
	}
	return false
}

// handleCommand dispatches one protocol line. Returns false when the
// session should end.
func (s *session) handleCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)

	switch fields[0] {
	case "place_order":
		s.placeOrder(ctx, fields[1:])
	case "order_status":
		s.orderStatus(ctx)
	case "collect":
		s.collect(ctx)
	case "exit":
		s.reply("goodbye, %s", s.name)
		return false
	default:
		s.reply("rejected request: unknown command %q", fields[0])
	}
	return true
}

func (s *session) placeOrder(ctx context.Context, args []string) {
	teas, coffees, err := parseOrderArgs(args)
	if err != nil {
		s.reply("rejected request: %s", err)
		return
	}

	cmd, err := commands.NewPlaceOrderCommand(s.id, s.name, map[item.Type]int{
		item.Tea:    teas,
		item.Coffee: coffees,
	})
	if err != nil {
		s.reply("rejected request: %s", rejectionReason(err))
		return
	}

	result, err := s.handlers.PlaceOrder.Handle(ctx, cmd)
	if err != nil {
		s.reply("rejected request: %s", rejectionReason(err))
		return
	}

	if err := s.presence.OrderPlaced(ctx); err != nil {
		s.logger.Error("Presence transition failed", slog.Any("error", err))
	}

	if result.Created {
		s.reply("order received for %s (%d tea(s), %d coffee(s))", s.name, teas, coffees)
	} else {
		s.reply("order updated for %s, %d item(s) in total", s.name, result.TotalItems)
	}

	s.startReadyWatch(ctx)
}

func (s *session) orderStatus(ctx context.Context) {
	q, err := queries.NewGetOrderStatusQuery(s.id)
	if err != nil {
		s.reply("rejected request: %s", rejectionReason(err))
		return
	}

	response, err := s.handlers.OrderStatus.Handle(ctx, q)
	if errors.Is(err, errs.ErrObjectNotFound) {
		s.reply("no order found for %s", s.name)
		return
	}
	if err != nil {
		s.reply("rejected request: %s", rejectionReason(err))
		return
	}

	s.reply("order status for %s: %s", s.name, formatStatus(response))
}

func (s *session) collect(ctx context.Context) {
	cmd, err := commands.NewCollectOrderCommand(s.id)
	if err != nil {
		s.reply("rejected request: %s", rejectionReason(err))
		return
	}

	err = s.handlers.CollectOrder.Handle(ctx, cmd)
	switch {
	case err == nil:
		if err := s.presence.OrderClosed(ctx); err != nil {
			s.logger.Error("Presence transition failed", slog.Any("error", err))
		}
		s.reply("here is your order, %s. enjoy!", s.name)
	case errors.Is(err, commands.ErrOrderNotReady):
		s.reply("your order is not ready yet, %s", s.name)
	case errors.Is(err, errs.ErrObjectNotFound):
		s.reply("no order found for %s", s.name)
	default:
		s.reply("rejected request: %s", rejectionReason(err))
	}
}

// startReadyWatch pushes a readiness announcement once the customer's order
// is fulfilled. One watcher per session at a time; an add-on placed while a
// watcher runs is covered by that watcher's re-armed wait.
func (s *session) startReadyWatch(ctx context.Context) {
	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return
	}
	s.watching = true
	s.mu.Unlock()

	q, err := queries.NewAwaitOrderReadyQuery(s.id)
	if err != nil {
		s.mu.Lock()
		s.watching = false
		s.mu.Unlock()
		return
	}

	go func() {
		err := s.handlers.AwaitReady.Handle(ctx, q)

		s.mu.Lock()
		s.watching = false
		s.mu.Unlock()

		if err == nil {
			s.reply("%s, your order is ready for collection", s.name)
		}
	}()
}

// teardown cancels the customer's uncollected order before the connection
// goes away, freeing its items for other orders.
func (s *session) teardown() {
	_ = s.conn.Close()
	s.presences.Unregister(s.id)

	cmd, err := commands.NewCancelOrderCommand(s.id)
	if err != nil {
		return
	}

	outcome, err := s.handlers.CancelOrder.Handle(context.Background(), cmd)
	if err == nil {
		s.logger.Info("Customer left, order cancelled",
			slog.String("name", s.name),
			slog.Int("transferred", outcome.Transferred),
			slog.Int("discarded", outcome.Discarded),
			slog.Int("dropped", outcome.Dropped),
		)
		return
	}
	s.logger.Info("Customer left", slog.String("name", s.name))
}

func (s *session) reply(format string, args ...any) {
	s.writeLine(baristaPrefix + fmt.Sprintf(format, args...))
}

func (s *session) writeLine(line string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, _ = s.conn.Write([]byte(line + "\n"))
}

func parseOrderArgs(args []string) (teas, coffees int, err error) {
	if len(args) != 2 {
		return 0, 0, errors.New("usage: place_order <teas> <coffees>")
	}

	teas, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a number of teas", args[0])
	}
	coffees, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a number of coffees", args[1])
	}
	return teas, coffees, nil
}

// rejectionReason flattens a validation error to a single protocol line.
func rejectionReason(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}

// formatStatus renders per-type tallies in a stable type order.
func formatStatus(response queries.GetOrderStatusResponse) string {
	types := make([]string, 0, len(response.Counts))
	for t := range response.Counts {
		types = append(types, string(t))
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		tally := response.Counts[item.Type(t)]
		parts = append(parts, fmt.Sprintf("%s %d waiting, %d preparing, %d ready",
			t, tally.Waiting, tally.Preparing, tally.Ready))
	}

	status := strings.Join(parts, "; ")
	if response.Fulfilled {
		status += " (ready for collection)"
	}
	return status
}
