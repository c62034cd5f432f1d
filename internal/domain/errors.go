package domain

import "errors"

// Error kinds surfaced by every core operation. Callers match them with
// errors.Is; the wrapped message carries the detail.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Validation errors
var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidWeekday     = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidStatus      = errors.New("status must be completed or not_completed")
	ErrDescriptionEmpty   = errors.New("description is required")
	ErrDescriptionTooLong = errors.New("description is too long")
	ErrReasonTooLong      = errors.New("reason is too long")
	ErrReasonNotAllowed   = errors.New("reason can only be set on a not_completed entry")
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
	ErrInvalidKind        = errors.New("kind must be recurring or temporary")
	ErrKindMismatch       = errors.New("field does not apply to this definition kind")
	ErrNotActiveOnDate    = errors.New("definition is not active on this date")
	ErrRangeTooLong       = errors.New("date range is too long")
)
