package domain

import "errors"

// Error categories. Package-level sentinel errors wrap one of them so the
// transport layer can map any error to a response code with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrInvalidTime = errors.New("invalid time")
	ErrForbidden   = errors.New("forbidden")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrInternal    = errors.New("internal error")
)
