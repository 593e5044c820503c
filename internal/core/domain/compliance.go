package domain

import "time"

// ComplianceWindow is one 24-hour backup window for one protected object.
//
// Windows are anchored at a fixed clock time (default 20:00) rather than
// calendar midnight: a single early-morning backup can satisfy yesterday's
// window and not today's, so checking "is there a backup from today" against
// midnight boundaries gives wrong answers around the backup schedule.
type ComplianceWindow struct {
	// ObjectID is the protected object the window belongs to.
	ObjectID string `json:"object_id"`

	// DayIndex is 1 for the most recent window, counting backwards.
	DayIndex int `json:"day_index"`

	// RangeStart is the later (exclusive) bound of the window.
	RangeStart time.Time `json:"range_start"`

	// RangeEnd is the earlier (inclusive) bound, 24 hours before RangeStart.
	RangeEnd time.Time `json:"range_end"`

	// BackupFound is true if at least one snapshot timestamp falls within
	// [RangeEnd, RangeStart).
	BackupFound bool `json:"backup_found"`
}

// Contains reports whether ts falls inside the window [RangeEnd, RangeStart).
func (w *ComplianceWindow) Contains(ts time.Time) bool {
	return !ts.Before(w.RangeEnd) && ts.Before(w.RangeStart)
}
