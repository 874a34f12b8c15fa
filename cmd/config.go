package cmd

import "time"

// Config carries all runtime knobs of the cafe. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	TCPPort  string
	HTTPPort string

	// SlotsPerType bounds how many items of one type prepare concurrently.
	SlotsPerType int

	TeaPrepTime     time.Duration
	CoffeePrepTime  time.Duration
	DefaultPrepTime time.Duration

	// AuditDSN is the Postgres connection string for the audit trail.
	// Empty disables auditing.
	AuditDSN      string
	AuditSchedule string
}
