package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrorClassification tells whether a failed statement may succeed when
// executed again.
type ErrorClassification int

const (
	// NonRetryable is the default for unrecognised errors, constraint
	// violations and corrupt or read-only databases.
	NonRetryable ErrorClassification = iota

	// Retryable marks lock contention with another connection or process.
	Retryable
)

// ClassifySQLiteError inspects the go-sqlite3 result code of err.
//
// Retryable codes:
//   - SQLITE_BUSY: the database file is locked by another connection
//   - SQLITE_LOCKED: a table is locked within the same connection
//
// Everything else, including errors that do not come from the driver, is
// [NonRetryable].
func ClassifySQLiteError(err error) ErrorClassification {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return NonRetryable
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Retryable
	}
	return NonRetryable
}
