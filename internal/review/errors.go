package review

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lectio-edu/lectio/internal/syllabi"
)

// Kind classifies review errors for transport mapping.
type Kind string

const (
	// KindPermissionDenied indicates the actor lacks the capability for
	// the requested transition, or no rule connects the current status to
	// the requested one.
	KindPermissionDenied Kind = "permission_denied"
	// KindValidationFailed indicates the request is malformed, e.g. a
	// required comment is missing.
	KindValidationFailed Kind = "validation_failed"
	// KindUnknownState indicates a status value outside the workflow.
	KindUnknownState Kind = "unknown_state"
)

// Error is a classified review failure with a human-readable reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// MapHTTPStatus maps review errors to HTTP status codes, delegating
// unclassified errors to the syllabus domain mapping.
func MapHTTPStatus(err error) int {
	var re *Error
	if errors.As(err, &re) {
		switch re.Kind {
		case KindPermissionDenied:
			return http.StatusForbidden
		case KindValidationFailed:
			return http.StatusBadRequest
		case KindUnknownState:
			return http.StatusUnprocessableEntity
		}
	}
	return syllabi.MapHTTPStatus(err)
}
