package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeFormat is the storage representation for all timestamps.
// RFC 3339 text sorts lexicographically in timestamp order, which keeps
// the SQL comparisons on check_out_time honest.
const timeFormat = time.RFC3339Nano

// Event is a single tracked event.
type Event struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

// CreateEvent inserts a new event and returns it with its assigned id.
// Returns ErrDuplicateName if an event with the same name exists.
func (s *Store) CreateEvent(ctx context.Context, name string, createdAt time.Time) (Event, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO events (name, created_at) VALUES (?, ?)
	`, name, formatTime(createdAt))
	if err != nil {
		if isUniqueViolation(err) {
			return Event{}, fmt.Errorf("create event %q: %w", name, ErrDuplicateName)
		}
		return Event{}, fmt.Errorf("create event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Event{}, fmt.Errorf("create event: last insert id: %w", err)
	}

	return Event{ID: id, Name: name, CreatedAt: createdAt.UTC()}, nil
}

// GetEvent retrieves a single event by id.
// Returns ErrNotFound if no such event exists.
func (s *Store) GetEvent(ctx context.Context, id int64) (Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM events WHERE id = ?
	`, id)

	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Event{}, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

// ListEvents returns all events in insertion (id) order.
// Returns an empty slice (not nil) when no events exist.
func (s *Store) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM events ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	if events == nil {
		events = []Event{}
	}
	return events, nil
}

// RenameEvent changes an event's name.
// Returns ErrNotFound if the id does not exist, ErrDuplicateName if the
// new name is already taken.
func (s *Store) RenameEvent(ctx context.Context, id int64, newName string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET name = ? WHERE id = ?
	`, newName, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("rename event %d to %q: %w", id, newName, ErrDuplicateName)
		}
		return fmt.Errorf("rename event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename event: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteEvent removes an event and all its transactions as one atomic unit.
// Either both deletions apply or neither does.
// Returns ErrNotFound if the event does not exist; the store is unchanged.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete event: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// Dependent transactions first, then the event row. The event delete's
	// affected-row count is what distinguishes NotFound from success.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM transactions WHERE event_id = ?
	`, id); err != nil {
		return fmt.Errorf("delete event: delete transactions: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM events WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("delete event: delete event row: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: rows affected: %w", err)
	}
	if affected == 0 {
		// Rollback discards the (vacuous) transaction delete.
		return fmt.Errorf("event %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete event: commit: %w", err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(r rowScanner) (Event, error) {
	var (
		ev      Event
		created string
	)
	if err := r.Scan(&ev.ID, &ev.Name, &created); err != nil {
		return Event{}, err
	}
	t, err := parseTime(created)
	if err != nil {
		return Event{}, err
	}
	ev.CreatedAt = t
	return ev, nil
}
