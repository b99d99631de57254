package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_ChecksCardsIn(t *testing.T) {
	db := tempDB(t)

	_, err := runCommand(t, "", "events", "create", "Gala", "--db", db)
	require.NoError(t, err)

	out, err := runCommand(t, "CARD1\nCARD2\nstop\n", "scan", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "check-in")
	assert.Contains(t, out, "CARD1")
	assert.Contains(t, out, "2 check-ins")

	out, err = runCommand(t, "", "attendees", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "CARD1")
	assert.Contains(t, out, "CARD2")
}

func TestScan_DebounceReported(t *testing.T) {
	db := tempDB(t)

	_, err := runCommand(t, "", "events", "create", "Gala", "--db", db)
	require.NoError(t, err)

	// Same card twice back to back: the second scan lands inside the
	// window and is rejected.
	out, err := runCommand(t, "CARD1\nCARD1\nstop\n", "scan", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "too soon")
	assert.Contains(t, out, "1 check-ins")
	assert.Contains(t, out, "1 too-soon")
}

func TestScan_CustomStopKeyword(t *testing.T) {
	db := tempDB(t)

	_, err := runCommand(t, "", "events", "create", "Gala", "--db", db)
	require.NoError(t, err)

	out, err := runCommand(t, "CARD1\ndone\n", "scan", "1", "--db", db, "--stop-keyword", "done")
	require.NoError(t, err)
	assert.Contains(t, out, "1 check-ins")
}

func TestScan_EventNotFound(t *testing.T) {
	_, err := runCommand(t, "CARD1\nstop\n", "scan", "7", "--db", tempDB(t))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestScan_StopKeywordFromConfig(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "tapin.db")
	cfgPath := filepath.Join(dir, "tapin.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("stop_keyword: finish\n"), 0o644))

	_, err := runCommand(t, "", "events", "create", "Gala", "--db", db, "--config", cfgPath)
	require.NoError(t, err)

	out, err := runCommand(t, "CARD1\nFINISH\n", "scan", "1", "--db", db, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 check-ins")
}

func TestScan_CheckOutAcrossSessions(t *testing.T) {
	db := tempDB(t)

	_, err := runCommand(t, "", "events", "create", "Gala", "--db", db)
	require.NoError(t, err)

	out, err := runCommand(t, "CARD1\nstop\n", "scan", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1 check-ins")

	// Open transactions persist in the store, but the debounce window is
	// in-memory per session, so a fresh invocation toggles immediately.
	out, err = runCommand(t, "CARD1\nstop\n", "scan", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "check-out")
	assert.Contains(t, out, "1 check-outs")
}

func TestScan_InvalidID(t *testing.T) {
	_, err := runCommand(t, "", "scan", "zero", "--db", tempDB(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestScan_OutputMentionsEventName(t *testing.T) {
	db := tempDB(t)

	_, err := runCommand(t, "", "events", "create", "Gala", "--db", db)
	require.NoError(t, err)

	out, err := runCommand(t, "stop\n", "scan", "1", "--db", db)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"Gala"`), "banner names the event: %q", out)
}
