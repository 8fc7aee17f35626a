package journal

import "time"

// Recorder is the write/read interface over the journal. It exists so
// callers can be tested against an in-memory store.
type Recorder interface {
	// Record stores a single entry
	Record(entry Entry) error

	// List lists entries matching the provided filters, newest first
	List(filters Filters) ([]Entry, error)

	// RecentErrors retrieves the most recent error entries
	RecentErrors(limit int) ([]Entry, error)

	// Cleanup removes entries older than the specified time
	Cleanup(before time.Time) error
}

// Ensure *Store implements Recorder interface
var _ Recorder = (*Store)(nil)
