// Package export produces read-only projections of an event's attendance:
// the CSV transaction dump and its timestamped file name.
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// filenameTimestamp is the layout for the export timestamp suffix.
const filenameTimestamp = "20060102_150405"

// invalidFilenameRunes are stripped from event names before they become
// file names. The set is the Windows-invalid characters, which is a
// superset of what Unix forbids.
const invalidFilenameRunes = `<>:"/\|?*`

// Filename builds the export file name for an event:
// {sanitizedEventName}_Transactions_{YYYYMMDD_HHMMSS}.csv
func Filename(eventName string, now time.Time) string {
	return fmt.Sprintf("%s_Transactions_%s.csv",
		sanitize(eventName), now.Format(filenameTimestamp))
}

// sanitize strips characters invalid in file names and replaces spaces
// with underscores.
func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case strings.ContainsRune(invalidFilenameRunes, r):
			// dropped
		case unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
