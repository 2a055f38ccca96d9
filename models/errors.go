package models

import "errors"

// Outcome sentinels shared by repositories and services. Handlers translate
// them to the HTTP taxonomy; ward mismatches surface as ErrForbidden on
// orders and patients, while non-owned notifications surface as ErrNotFound
// so their existence never leaks.
var (
	ErrNotFound   = errors.New("record not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)
