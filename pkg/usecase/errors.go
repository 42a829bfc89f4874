package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrCaseNotFound means no case exists for the given ID in the guild
	ErrCaseNotFound = goerr.New("case not found")

	// ErrAlreadyClosed means the case is closed or a close is already in
	// flight. Callers treat it as a benign no-op.
	ErrAlreadyClosed = goerr.New("case already closed")

	// ErrArchiveNotConfigured means the guild has no archive forum set up.
	// The close request aborts before touching case state.
	ErrArchiveNotConfigured = goerr.New("archive forum not configured")

	// ErrNotCreator means the requester is not the case creator
	ErrNotCreator = goerr.New("requester is not the case creator")

	// ErrKindMismatch means the operation does not apply to the case kind,
	// e.g. admin_only on an application.
	ErrKindMismatch = goerr.New("operation not supported for case kind")
)
