package search

import "time"

// DefaultWindow is the pause after the last keystroke before the raw
// input is promoted to the committed search term.
const DefaultWindow = 300 * time.Millisecond

// Debouncer separates the raw input text, updated on every keystroke,
// from the committed term the table actually filters on. Each Input
// call returns a fresh sequence number; the caller schedules a timer
// and calls Commit with that number when it fires. A Commit whose
// sequence is no longer current is a stale timer from an earlier
// keystroke and is ignored.
//
// Debouncer does not own a timer. The caller drives time, which in the
// TUI is a tea.Tick command and in tests is a plain function call.
type Debouncer struct {
	raw       string
	committed string
	seq       int
}

// Input records a keystroke's resulting text and returns the sequence
// number identifying this edit.
func (d *Debouncer) Input(s string) int {
	d.raw = s
	d.seq++
	return d.seq
}

// Commit promotes raw to committed if seq is still the latest edit.
// It reports whether the promotion happened.
func (d *Debouncer) Commit(seq int) bool {
	if seq != d.seq {
		return false
	}
	d.committed = d.raw
	return true
}

// Flush commits the raw input immediately, bypassing the pending
// window. Used when the user presses enter.
func (d *Debouncer) Flush() {
	d.committed = d.raw
}

// Raw returns the text as typed, shown in the input box.
func (d *Debouncer) Raw() string { return d.raw }

// Term returns the committed term the table filters on.
func (d *Debouncer) Term() string { return d.committed }

// Pending reports whether an edit is awaiting commit.
func (d *Debouncer) Pending() bool { return d.raw != d.committed }
