package syllabi

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/internal/actors"
	"github.com/lectio-edu/lectio/pkg/pagination"
)

// System defines the public contract for syllabus domain operations.
type System interface {
	Handler(maxUploadSize int64, actors actors.System) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Syllabus], error)

	Find(ctx context.Context, id uuid.UUID) (*Syllabus, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*Detail, error)
	Create(ctx context.Context, cmd CreateCommand) (*Syllabus, error)

	// ReplaceTopics swaps the full weekly topic plan of an editable syllabus.
	ReplaceTopics(ctx context.Context, id, actorID uuid.UUID, topics []TopicInput) (*Detail, error)

	// AttachFile uploads a syllabus document and bumps the version.
	// Only editable syllabi accept uploads unless allowApproved is set,
	// which permits replacing the file of an approved syllabus.
	AttachFile(ctx context.Context, id uuid.UUID, cmd AttachCommand, allowApproved bool) (*Syllabus, error)

	// DownloadFile streams the attached document. The caller must close the
	// reader. Returns ErrNoFile when no document has been uploaded.
	DownloadFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error)

	// SetFeedback records review feedback tagged with its origin (ai or reviewer).
	SetFeedback(ctx context.Context, id uuid.UUID, feedback, origin string) error

	// NextQueued returns the oldest syllabus awaiting an AI check.
	// Returns ErrNotFound when the queue is empty.
	NextQueued(ctx context.Context) (*Syllabus, error)
}
