package engine

import "time"

// DebounceTracker maps card numbers to the time of their last ACCEPTED
// scan. Process-local and unpersisted: a restart reopens the window for
// every card, which is acceptable.
//
// The map is keyed by card alone, not (event, card) - see the package
// doc. No eviction: the entry count is bounded by the number of physical
// cards ever scanned in this process, which is small.
//
// Thread-safety: none of its own. The tracker is owned by the Engine and
// only touched inside ProcessScan's critical section.
type DebounceTracker struct {
	window   time.Duration
	lastScan map[string]time.Time
}

// NewDebounceTracker creates a tracker with the given rejection window.
func NewDebounceTracker(window time.Duration) *DebounceTracker {
	return &DebounceTracker{
		window:   window,
		lastScan: make(map[string]time.Time),
	}
}

// Check reports whether a scan of card at now falls inside the window of
// its last accepted scan, and if so how long remains. A rejected check
// never updates the tracker, so the remaining time stays relative to the
// original accepted scan.
func (d *DebounceTracker) Check(card string, now time.Time) (remaining time.Duration, tooSoon bool) {
	last, seen := d.lastScan[card]
	if !seen {
		return 0, false
	}
	elapsed := now.Sub(last)
	if elapsed < d.window {
		return d.window - elapsed, true
	}
	return 0, false
}

// Record stores now as the card's last accepted scan time.
func (d *DebounceTracker) Record(card string, now time.Time) {
	d.lastScan[card] = now
}

// Window returns the configured rejection window.
func (d *DebounceTracker) Window() time.Duration {
	return d.window
}

// Len returns the number of cards ever recorded.
func (d *DebounceTracker) Len() int {
	return len(d.lastScan)
}
