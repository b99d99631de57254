package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates the referenced event or transaction does not exist.
// The store is left unchanged when an operation fails with ErrNotFound.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName indicates an event name collision.
// Event names are unique across all events.
var ErrDuplicateName = errors.New("event name already exists")

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. Other constraint violations (NOT NULL, FK) are not mapped -
// they indicate a programming error and surface as storage faults.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
