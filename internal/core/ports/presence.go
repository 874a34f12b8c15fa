package ports

// PresenceCounts is one observation of the connected customers: how many are
// in the cafe and how many of them are waiting for an order.
type PresenceCounts struct {
	InCafe        int
	WaitingOrders int
}

// PresenceSource reports the connected customers' coarse activity. The TCP
// adapter implements it over its session registry.
type PresenceSource interface {
	Counts() PresenceCounts
}
