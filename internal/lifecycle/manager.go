// Package lifecycle orchestrates administrative operations on events:
// create, rename, delete, bulk delete, and the global force-close.
//
// The manager is thin: validation up front, then delegation to the
// store, which owns the transactional semantics (the delete cascade in
// particular). It never touches the engine's debounce state.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tapin/tapin/internal/engine"
	"github.com/tapin/tapin/internal/store"
)

// ErrEmptyName indicates a blank event name was supplied.
var ErrEmptyName = errors.New("event name must not be empty")

// Manager performs event lifecycle operations against the store.
type Manager struct {
	store *store.Store
	clock engine.Clock
}

// New creates a Manager over the given store and clock.
func New(st *store.Store, clock engine.Clock) *Manager {
	return &Manager{store: st, clock: clock}
}

// Create adds a new event. The name is trimmed; a blank name fails with
// ErrEmptyName before any store access.
func (m *Manager) Create(ctx context.Context, name string) (store.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Event{}, ErrEmptyName
	}
	return m.store.CreateEvent(ctx, name, m.clock.Now())
}

// Rename changes an event's name, with the same blank-name guard as Create.
func (m *Manager) Rename(ctx context.Context, id int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	return m.store.RenameEvent(ctx, id, newName)
}

// Delete removes an event and all its transactions atomically.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	return m.store.DeleteEvent(ctx, id)
}

// Outcome is the per-id result of a bulk delete.
type Outcome struct {
	ID  int64
	Err error // nil on success
}

// Failed reports whether this deletion failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// BulkDelete deletes each listed event, continuing past individual
// failures. One missing id does not block deletion of the rest; callers
// get a per-id outcome list in input order.
func (m *Manager) BulkDelete(ctx context.Context, ids []int64) []Outcome {
	outcomes := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		err := m.store.DeleteEvent(ctx, id)
		if err != nil {
			err = fmt.Errorf("delete event %d: %w", id, err)
		}
		outcomes = append(outcomes, Outcome{ID: id, Err: err})
	}
	return outcomes
}

// ForceCloseAllOpen stamps the current time on every open transaction
// across all events and returns how many were closed.
func (m *Manager) ForceCloseAllOpen(ctx context.Context) (int64, time.Time, error) {
	now := m.clock.Now()
	count, err := m.store.ForceCloseAllOpen(ctx, now)
	if err != nil {
		return 0, time.Time{}, err
	}
	return count, now, nil
}
