package services

import "errors"

var (
	// ErrNoAccess covers both a missing record and an ownership mismatch:
	// mutating routes answer the two identically so callers cannot probe
	// for other users' resource ids.
	ErrNoAccess = errors.New("no access")

	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("duplicate")
	ErrStorageUnavailable = errors.New("storage service unavailable")
	ErrMailerUnavailable  = errors.New("mailer unavailable")
)
