// Package rotation implements the deterministic topic and message rotation.
// Topic and message selection are pure functions of (catalog, rules, date):
// no hidden state, fully reproducible for any date, past or future.
package rotation

import "time"

// Rules holds the rotation anchors and the override table.
// All values are explicit configuration so tests can inject dates and
// catalogs freely.
type Rules struct {
	// WeeklyAnchor is the Sunday starting week 1. Weeks are aligned
	// Sunday through Saturday relative to this date.
	WeeklyAnchor time.Time

	// DailyAnchor is the date at which the daily message cycle is index 0.
	// It is shared globally across all topics: switching topics does not
	// reset the daily cycle.
	DailyAnchor time.Time

	// Overrides maps week numbers to topic codes for a finite set of
	// explicitly scheduled weeks. Absent entries fall through to modulo
	// rotation.
	Overrides map[int]string
}

// DefaultRules returns the production rotation rules.
func DefaultRules() Rules {
	return Rules{
		WeeklyAnchor: time.Date(2024, time.December, 29, 0, 0, 0, 0, time.UTC),
		DailyAnchor:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		Overrides: map[int]string{
			5:  "SFM",  // safe-forklift-movement campaign week
			27: "COLD", // winter campaign
			48: "MSD",
		},
	}
}
