// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. Callers
// attach detail with fmt.Errorf("%w: ...") and test with errors.Is.
package repository

import (
	"errors"

	"github.com/mgrozdek22/TBP-nail-app/internal/interval"
)

// ErrValidation marks malformed, missing or out-of-range input.
var ErrValidation = errors.New("validation error")

// ErrDuplicateActiveName is returned when another pending or approved row
// in the same namespace already uses the normalized name.
var ErrDuplicateActiveName = errors.New("duplicate active name")

// ErrDuplicateReview is returned when the author already reviewed the
// technician for the same technique and style.
var ErrDuplicateReview = errors.New("duplicate review")

// ErrInvalidInterval is returned when a time range does not satisfy
// from < to.
var ErrInvalidInterval = interval.ErrInvalid

// ErrConflict is returned when a proposed interval overlaps an active
// interval of the same technician. Handlers translate it into a 409.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when a referenced row does not exist (or is not
// visible to the caller).
var ErrNotFound = errors.New("not found")

// ErrAlreadyDecided is returned when moderating a row that is no longer
// pending.
var ErrAlreadyDecided = errors.New("already decided")

// ErrPatchApplication is returned when an approved profile edit cannot be
// applied to its technician. The edit stays pending.
var ErrPatchApplication = errors.New("patch application failed")

// ErrForbidden is returned when the caller lacks the role for an
// operation. Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrHandleExists is returned when registering a handle that is taken.
var ErrHandleExists = errors.New("handle already exists")
