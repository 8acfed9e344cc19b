// Package selection orchestrates a window selection run: a fixed-size worker
// pool over events, each worker owning its own travel-time calculator, with
// results funnelled into shared thread-safe collections.
package selection

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Entry is one logged rejection.
type Entry struct {
	RecordID string
	Reason   string
}

// RejectLog is the shared append-only log of rejected records: one line per
// record, `<record identity> : <reason>`. Writes are serialized with a mutex
// so concurrent workers never interleave lines. Entries are also kept in
// memory so a completed run can persist them to the run catalog.
type RejectLog struct {
	mu      sync.Mutex
	w       io.Writer
	c       io.Closer
	entries []Entry
}

// NewRejectLog wraps an existing writer.
func NewRejectLog(w io.Writer) *RejectLog {
	return &RejectLog{w: w}
}

// CreateRejectLog opens (truncating) a log file at path.
func CreateRejectLog(path string) (*RejectLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create reject log: %w", err)
	}
	return &RejectLog{w: f, c: f}, nil
}

// Reject appends one rejection line.
func (l *RejectLog) Reject(recordID, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{RecordID: recordID, Reason: reason})
	_, err := fmt.Fprintf(l.w, "%s : %s\n", recordID, reason)
	return err
}

// Count returns the number of rejections logged so far.
func (l *RejectLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the rejections logged so far.
func (l *RejectLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Close closes the underlying file, when the log owns one.
func (l *RejectLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.c == nil {
		return nil
	}
	return l.c.Close()
}
