package syllabi

import (
	"errors"
	"net/http"
)

// Domain errors for syllabus operations.
var (
	ErrForbidden    = errors.New("caller lacks permission for this operation")
	ErrNotFound     = errors.New("syllabus not found")
	ErrDuplicate    = errors.New("syllabus already exists")
	ErrNotEditable  = errors.New("syllabus is not editable in its current status")
	ErrNoFile       = errors.New("syllabus has no attached file")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
	ErrInvalidInput = errors.New("invalid input")
)

// MapHTTPStatus maps syllabus domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoFile) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNotEditable) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidFile) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
