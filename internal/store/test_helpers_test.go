package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// newTestStore opens a store in a per-test temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustCreateEvent creates an event or fails the test.
func mustCreateEvent(t *testing.T, s *Store, name string) Event {
	t.Helper()

	ev, err := s.CreateEvent(context.Background(), name, testTime(0))
	if err != nil {
		t.Fatalf("CreateEvent(%q) failed: %v", name, err)
	}
	return ev
}

// testTime returns a fixed base time offset by the given number of seconds.
func testTime(offsetSeconds int) time.Time {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(offsetSeconds) * time.Second)
}
