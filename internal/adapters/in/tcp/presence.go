package tcp

import (
	"context"
	"sync"

	"github.com/looplab/fsm"
)

const (
	PresenceStateIdle    = "idle"
	PresenceStateWaiting = "waiting"
)

const (
	PresenceEventOrderPlaced = "order_placed"
	PresenceEventOrderClosed = "order_closed"
)

// Presence tracks one connected customer's coarse activity: idle until an
// order is placed, waiting until that order is collected or cancelled.
type Presence struct {
	fsm *fsm.FSM
	mu  sync.Mutex
}

// NewPresence creates a presence machine in the idle state.
func NewPresence() *Presence {
	p := &Presence{}
	p.fsm = fsm.NewFSM(
		PresenceStateIdle,
		fsm.Events{
			{Name: PresenceEventOrderPlaced, Src: []string{PresenceStateIdle}, Dst: PresenceStateWaiting},
			{Name: PresenceEventOrderClosed, Src: []string{PresenceStateWaiting}, Dst: PresenceStateIdle},
		},
		fsm.Callbacks{},
	)
	return p
}

// OrderPlaced transitions the customer to waiting. Placing an add-on while
// already waiting is a no-op.
func (p *Presence) OrderPlaced(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.fsm.Can(PresenceEventOrderPlaced) {
		return nil
	}
	return p.fsm.Event(ctx, PresenceEventOrderPlaced)
}

// OrderClosed transitions the customer back to idle after a collect or
// cancel. Closing while already idle is a no-op.
func (p *Presence) OrderClosed(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.fsm.Can(PresenceEventOrderClosed) {
		return nil
	}
	return p.fsm.Event(ctx, PresenceEventOrderClosed)
}

// Current returns the customer's current presence state.
func (p *Presence) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fsm.Current()
}
