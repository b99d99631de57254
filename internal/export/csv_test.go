package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapin/tapin/internal/store"
)

func ptrTime(t time.Time) *time.Time { return &t }

func sampleTransactions() []store.Transaction {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return []store.Transaction{
		{
			ID:           1,
			EventID:      1,
			CardNumber:   "CARD1",
			CheckInTime:  base,
			CheckOutTime: ptrTime(base.Add(45*time.Minute + 30*time.Second)),
		},
		{
			ID:          2,
			EventID:     1,
			CardNumber:  "CARD2",
			CheckInTime: base.Add(5 * time.Minute),
			// still checked in
		},
	}
}

func TestWriteCSV_Golden(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, "Spring Gala", sampleTransactions())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "spring_gala_export", buf.Bytes())
}

func TestWriteCSV_HeaderPlusOneRowPerTransaction(t *testing.T) {
	var buf bytes.Buffer
	txns := sampleTransactions()
	require.NoError(t, WriteCSV(&buf, "Gala", txns))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, len(txns)+1, "header + N rows")
	assert.Equal(t, "EventName,CardNumber,CheckInTime,CheckOutTime", lines[0])
}

func TestWriteCSV_OpenTransactionHasEmptyCheckOut(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, "Gala", sampleTransactions()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.True(t, strings.HasSuffix(lines[2], ","), "open row ends with empty cell: %q", lines[2])
}

func TestWriteCSV_NoTransactions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, "Gala", nil))

	assert.Equal(t, "EventName,CardNumber,CheckInTime,CheckOutTime\n", buf.String())
}

func TestEventCSV_WritesFile(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	ev, err := st.CreateEvent(ctx, "Gala", base)
	require.NoError(t, err)
	id, err := st.InsertCheckIn(ctx, ev.ID, "CARD1", base)
	require.NoError(t, err)
	require.NoError(t, st.SetCheckOut(ctx, id, base.Add(time.Hour)))

	dir := t.TempDir()
	path, err := EventCSV(ctx, st, ev.ID, dir, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Gala_Transactions_20250601_110000.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"EventName,CardNumber,CheckInTime,CheckOutTime\n"+
			"Gala,CARD1,2025-06-01 09:00:00,2025-06-01 10:00:00\n",
		string(data))
}

func TestEventCSV_EventNotFound(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = EventCSV(context.Background(), st, 42, t.TempDir(), time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEventCSV_UnwritableDirFailsWithoutSuccessClaim(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	ev, err := st.CreateEvent(ctx, "Gala", time.Now())
	require.NoError(t, err)

	path, err := EventCSV(ctx, st, ev.ID, "/nonexistent/dir", time.Now())
	require.Error(t, err)
	assert.Empty(t, path, "a failed export must not return a path")
}
