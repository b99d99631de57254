package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminForceClose_ClosesAllOpen(t *testing.T) {
	db := tempDB(t)

	_, err := runCommand(t, "", "events", "create", "Gala", "--db", db)
	require.NoError(t, err)
	_, err = runCommand(t, "", "events", "create", "Workshop", "--db", db)
	require.NoError(t, err)

	_, err = runCommand(t, "CARD1\nCARD2\nstop\n", "scan", "1", "--db", db)
	require.NoError(t, err)
	_, err = runCommand(t, "CARD3\nstop\n", "scan", "2", "--db", db)
	require.NoError(t, err)

	out, err := runCommand(t, "", "admin", "force-close", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "force-closed 3 open check-ins")

	out, err = runCommand(t, "", "attendees", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "no attendees currently checked in")

	out, err = runCommand(t, "", "attendees", "2", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "no attendees currently checked in")
}

func TestAdminForceClose_NothingOpen(t *testing.T) {
	out, err := runCommand(t, "", "admin", "force-close", "--db", tempDB(t))
	require.NoError(t, err)
	assert.Contains(t, out, "force-closed 0 open check-ins")
}
