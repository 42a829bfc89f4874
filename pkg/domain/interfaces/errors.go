package interfaces

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared by all repository backends. Backends wrap these so
// callers can branch with errors.Is without caring which backend is in use.
var (
	// ErrNotFound means the queried entity does not exist in the guild scope.
	ErrNotFound = goerr.New("not found")

	// ErrStatusConflict means a compare-and-set status transition observed a
	// different stored status than expected.
	ErrStatusConflict = goerr.New("case status conflict")
)
