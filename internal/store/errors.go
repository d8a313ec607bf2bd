package store

import "errors"

var (
	// ErrKeyNotFound is returned by [LocalStore.Get] for missing keys.
	ErrKeyNotFound = errors.New("key not found")
)

// Low-level database operation errors. Repository methods wrap the driver
// error with one of these.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrDecodingValue is returned when a stored value cannot be decoded.
	ErrDecodingValue = errors.New("failed to decode stored value")
)
