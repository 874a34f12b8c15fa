package tcp

import (
	"cafe/internal/core/ports"

	"github.com/puzpuzpuz/xsync/v3"
)

// PresenceRegistry aggregates the presence machines of all connected
// customers into cafe-wide counts for the monitoring surface and the audit
// trail.
type PresenceRegistry struct {
	customers *xsync.MapOf[string, *Presence]
}

// NewPresenceRegistry creates an empty registry.
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		customers: xsync.NewMapOf[string, *Presence](),
	}
}

var _ ports.PresenceSource = (*PresenceRegistry)(nil)

// Register adds one connected customer's presence machine.
func (r *PresenceRegistry) Register(customerID string, presence *Presence) {
	r.customers.Store(customerID, presence)
}

// Unregister drops a customer when their session ends.
func (r *PresenceRegistry) Unregister(customerID string) {
	r.customers.Delete(customerID)
}

// Counts tallies the connected customers and those waiting for an order.
func (r *PresenceRegistry) Counts() ports.PresenceCounts {
	var counts ports.PresenceCounts
	r.customers.Range(func(_ string, p *Presence) bool {
		counts.InCafe++
		if p.Current() == PresenceStateWaiting {
			counts.WaitingOrders++
		}
		return true
	})
	return counts
}
