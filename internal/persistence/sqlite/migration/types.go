package migration

import "time"

// Migration is one versioned schema change. Statements run in order inside a
// single transaction.
type Migration struct {
	Version     int
	Description string
	Statements  []string
}

// Record describes an applied migration as stored in the tracking table.
type Record struct {
	Version     int
	Description string
	AppliedAt   time.Time
}
