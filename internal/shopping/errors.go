package shopping

import "errors"

// Failures a caller can act on. Store faults are returned as-is and match
// none of these.
var (
	ErrMissingCaller    = errors.New("missing caller id")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrItemListMismatch = errors.New("item does not belong to list")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrInconsistent     = errors.New("resource changed during operation")
	ErrInvalidInput     = errors.New("invalid input")
)
