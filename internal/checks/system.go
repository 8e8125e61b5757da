package checks

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for AI check operations.
type System interface {
	Handler(worker *Worker) *Handler

	// Run executes the check pipeline for a syllabus and persists the
	// result. Internal failures (storage, gateway, malformed model output)
	// degrade to a rejected result; Run only errors for unknown syllabi
	// or when the result cannot be stored.
	Run(ctx context.Context, syllabusID uuid.UUID) (*Result, error)

	// History lists stored check results for a syllabus, newest first.
	History(ctx context.Context, syllabusID uuid.UUID) ([]Result, error)
}
