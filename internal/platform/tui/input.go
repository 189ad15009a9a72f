package tui

import "time"

// releaseAfter is how long the jump key may stay silent before it counts as
// released. Terminals report presses and auto-repeats, never releases.
const releaseAfter = 180 * time.Millisecond

// jumpTracker turns the jump key's press and auto-repeat stream into
// press/release pairs.
type jumpTracker struct {
	held     bool
	lastSeen time.Time
}

// Press records a jump key event at wall time t. It reports whether the
// event starts a new press rather than repeating a held one.
func (j *jumpTracker) Press(t time.Time) bool {
	j.lastSeen = t
	if j.held {
		return false
	}
	j.held = true
	return true
}

// Release reports whether a held key has been silent long enough at t to be
// treated as released. A reported release clears the held state.
func (j *jumpTracker) Release(t time.Time) bool {
	if !j.held || t.Sub(j.lastSeen) < releaseAfter {
		return false
	}
	j.held = false
	return true
}

// Reset forgets any held key.
func (j *jumpTracker) Reset() {
	j.held = false
}
