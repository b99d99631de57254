package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tapin/tapin/internal/store"
)

// timeLayout is how check-in/check-out times appear in CSV cells.
const timeLayout = "2006-01-02 15:04:05"

// csvHeader is the fixed header row of every export.
var csvHeader = []string{"EventName", "CardNumber", "CheckInTime", "CheckOutTime"}

// WriteCSV writes the transaction dump for an event: the header row plus
// one row per transaction. An open transaction has an empty CheckOutTime
// cell.
func WriteCSV(w io.Writer, eventName string, txns []store.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, txn := range txns {
		checkOut := ""
		if txn.CheckOutTime != nil {
			checkOut = txn.CheckOutTime.UTC().Format(timeLayout)
		}
		row := []string{
			eventName,
			txn.CardNumber,
			txn.CheckInTime.UTC().Format(timeLayout),
			checkOut,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// EventCSV exports all transactions for an event into dir and returns the
// created file's path.
//
// A failed export never claims success: any resolution, file-system, or
// encoding error surfaces, and a partially written file is not passed off
// as a completed export.
func EventCSV(ctx context.Context, st *store.Store, eventID int64, dir string, now time.Time) (string, error) {
	ev, err := st.GetEvent(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	txns, err := st.ListAllTransactions(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	path := filepath.Join(dir, Filename(ev.Name, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create %s: %w", path, err)
	}

	if err := WriteCSV(f, ev.Name, txns); err != nil {
		f.Close()
		return "", fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("export: close %s: %w", path, err)
	}

	return path, nil
}
