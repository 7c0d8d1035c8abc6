package ledger

import (
	"errors"
	"fmt"
)

// Precondition failures. All of them are recoverable and leave the ledger unchanged.
var (
	ErrDuplicateEntity   = errors.New("duplicate entity")
	ErrNotFound          = errors.New("not found")
	ErrNotLoggedIn       = errors.New("student not logged in")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrCourseFull        = errors.New("course full")
	ErrTimeConflict      = errors.New("time conflict")
	ErrNotEnrolled       = errors.New("not enrolled in course")
	ErrInvalidArgument   = errors.New("invalid argument")

	// ErrInvariantViolation marks a bookkeeping bug. It is only ever raised through panic.
	ErrInvariantViolation = errors.New("invariant violated")
)

// TimeConflictError reports the first already-enrolled course sharing the target's time label.
type TimeConflictError struct {
	CourseID      string
	ConflictsWith string
	Time          string
}

func (e *TimeConflictError) Error() string {
	return fmt.Sprintf("%s: %s clashes with %s at %q", ErrTimeConflict, e.CourseID, e.ConflictsWith, e.Time)
}

func (e *TimeConflictError) Unwrap() error { return ErrTimeConflict }

// InvariantViolationError is the panic value used when checkInvariant fails.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvariantViolation, e.Reason)
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }

// Kind returns a short machine-readable name for a ledger error, or "internal"
// for anything outside the taxonomy.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateEntity):
		return "duplicate_entity"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotLoggedIn):
		return "not_logged_in"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrCourseFull):
		return "course_full"
	case errors.Is(err, ErrTimeConflict):
		return "time_conflict"
	case errors.Is(err, ErrNotEnrolled):
		return "not_enrolled"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "internal"
	}
}
