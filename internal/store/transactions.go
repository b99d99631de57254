package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Transaction is a single attendance record. A nil CheckOutTime means the
// card is currently checked in.
type Transaction struct {
	ID           int64
	EventID      int64
	CardNumber   string
	CheckInTime  time.Time
	CheckOutTime *time.Time
}

// Open reports whether the transaction has no check-out yet.
func (t Transaction) Open() bool {
	return t.CheckOutTime == nil
}

// FindOpenTransaction returns the open transaction for (eventID, card),
// if one exists. The engine's serialized scan processing guarantees at
// most one such row; LIMIT 1 makes that assumption explicit.
func (s *Store) FindOpenTransaction(ctx context.Context, eventID int64, card string) (Transaction, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, event_id, card_number, check_in_time, check_out_time
		FROM transactions
		WHERE event_id = ? AND card_number = ? AND check_out_time IS NULL
		LIMIT 1
	`, eventID, card)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, false, nil
	}
	if err != nil {
		return Transaction{}, false, fmt.Errorf("find open transaction: %w", err)
	}
	return txn, true, nil
}

// InsertCheckIn creates a new open transaction and returns its id.
func (s *Store) InsertCheckIn(ctx context.Context, eventID int64, card string, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (event_id, card_number, check_in_time)
		VALUES (?, ?, ?)
	`, eventID, card, formatTime(at))
	if err != nil {
		return 0, fmt.Errorf("insert check-in: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert check-in: last insert id: %w", err)
	}
	return id, nil
}

// SetCheckOut closes a transaction by recording its check-out time.
// A transaction is mutated exactly once: a second SetCheckOut on the same
// id returns ErrNotFound. Returns ErrNotFound if no open row matches.
func (s *Store) SetCheckOut(ctx context.Context, txID int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET check_out_time = ?
		WHERE id = ? AND check_out_time IS NULL
	`, formatTime(at), txID)
	if err != nil {
		return fmt.Errorf("set check-out: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set check-out: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("open transaction %d: %w", txID, ErrNotFound)
	}
	return nil
}

// ForceCloseAllOpen stamps a check-out time on every open transaction
// across all events and returns the number of rows closed.
func (s *Store) ForceCloseAllOpen(ctx context.Context, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET check_out_time = ?
		WHERE check_out_time IS NULL
	`, formatTime(at))
	if err != nil {
		return 0, fmt.Errorf("force close: %w", err)
	}

	closed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("force close: rows affected: %w", err)
	}
	return closed, nil
}

// ListOpenTransactions returns the currently checked-in transactions for an
// event, oldest check-in first. Returns an empty slice (not nil) when none.
func (s *Store) ListOpenTransactions(ctx context.Context, eventID int64) ([]Transaction, error) {
	return s.listTransactions(ctx, `
		SELECT id, event_id, card_number, check_in_time, check_out_time
		FROM transactions
		WHERE event_id = ? AND check_out_time IS NULL
		ORDER BY check_in_time ASC, id ASC
	`, eventID)
}

// ListAllTransactions returns every transaction for an event, open or
// closed, oldest check-in first. Returns an empty slice (not nil) when none.
func (s *Store) ListAllTransactions(ctx context.Context, eventID int64) ([]Transaction, error) {
	return s.listTransactions(ctx, `
		SELECT id, event_id, card_number, check_in_time, check_out_time
		FROM transactions
		WHERE event_id = ?
		ORDER BY check_in_time ASC, id ASC
	`, eventID)
}

func (s *Store) listTransactions(ctx context.Context, query string, eventID int64) ([]Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	if txns == nil {
		txns = []Transaction{}
	}
	return txns, nil
}

func scanTransaction(r rowScanner) (Transaction, error) {
	var (
		txn      Transaction
		checkIn  string
		checkOut sql.NullString
	)
	if err := r.Scan(&txn.ID, &txn.EventID, &txn.CardNumber, &checkIn, &checkOut); err != nil {
		return Transaction{}, err
	}

	in, err := parseTime(checkIn)
	if err != nil {
		return Transaction{}, err
	}
	txn.CheckInTime = in

	if checkOut.Valid {
		out, err := parseTime(checkOut.String)
		if err != nil {
			return Transaction{}, err
		}
		txn.CheckOutTime = &out
	}
	return txn, nil
}
