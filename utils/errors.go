package utils

import (
	"errors"
	"net/http"
)

// Kind classifies failures by how callers are expected to react to them.
type Kind int

const (
	KindPersistence Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "persistence"
	}
}

// AppError is a sentinel carrying a kind and a stable machine-readable code.
// Wrap it with fmt.Errorf("%w: ...") to add detail.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

func newAppError(kind Kind, code, msg string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: msg}
}

var (
	ErrInvalidInput        = newAppError(KindValidation, "invalid_input", "invalid input")
	ErrInvalidRange        = newAppError(KindValidation, "invalid_range", "start must be before end")
	ErrInvalidAvailability = newAppError(KindValidation, "invalid_availability", "invalid availability template")
	ErrOutsideAvailability = newAppError(KindValidation, "outside_availability", "requested time is outside the practitioner's availability")

	ErrSlotConflict        = newAppError(KindConflict, "slot_conflict", "requested slot overlaps an active booking")
	ErrSlotBusy            = newAppError(KindConflict, "slot_busy", "another booking for this day is being processed, retry shortly")
	ErrInvalidTransition   = newAppError(KindConflict, "invalid_transition", "status transition not allowed")
	ErrPrematureCompletion = newAppError(KindConflict, "premature_completion", "booking has not ended yet")
	ErrStaleUpdate         = newAppError(KindConflict, "stale_update", "booking was modified concurrently, re-read and retry")

	ErrBookingNotFound      = newAppError(KindNotFound, "booking_not_found", "booking not found")
	ErrPractitionerNotFound = newAppError(KindNotFound, "practitioner_not_found", "practitioner not found")

	ErrUnauthorized = newAppError(KindUnauthorized, "unauthorized", "missing or invalid bearer token")

	ErrPersistence = newAppError(KindPersistence, "internal_error", "internal server error")
)

// KindOf returns the kind of the first AppError in err's chain.
// Unclassified errors are treated as persistence failures.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

// CodeOf returns the machine code of the first AppError in err's chain.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrPersistence.Code
}

// HTTPStatus maps an error onto the status code surfaced to clients.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
