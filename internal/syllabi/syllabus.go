// Package syllabi implements the syllabus domain for Lectio.
// It provides types, data access, and business logic for syllabus
// authoring, weekly topic planning, file attachment, and review feedback.
package syllabi

import (
	"time"

	"github.com/google/uuid"
)

// Syllabus statuses. A syllabus moves from draft through AI checking and
// staged review to approval; correction returns it to the author.
const (
	StatusDraft      = "draft"
	StatusAiCheck    = "ai_check"
	StatusCorrection = "correction"
	StatusReviewDean = "review_dean"
	StatusReviewUmu  = "review_umu"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

// Feedback origins distinguish AI-generated remarks from reviewer comments.
const (
	FeedbackOriginAI       = "ai"
	FeedbackOriginReviewer = "reviewer"
)

// Syllabus represents a course syllabus with its review state and
// denormalized course and author fields.
type Syllabus struct {
	ID                   uuid.UUID `json:"id"`
	CourseID             uuid.UUID `json:"course_id"`
	AuthorID             uuid.UUID `json:"author_id"`
	Semester             string    `json:"semester"`
	AcademicYear         string    `json:"academic_year"`
	MainLanguage         string    `json:"main_language"`
	Status               string    `json:"status"`
	Version              int       `json:"version"`
	TotalWeeks           int       `json:"total_weeks"`
	IsShared             bool      `json:"is_shared"`
	CourseDescription    string    `json:"course_description"`
	CourseGoal           string    `json:"course_goal"`
	MainLiterature       string    `json:"main_literature"`
	AdditionalLiterature string    `json:"additional_literature"`
	Feedback             *string   `json:"feedback"`
	FeedbackOrigin       *string   `json:"feedback_origin"`
	FileKey              *string   `json:"file_key"`
	FileName             *string   `json:"file_name"`
	FilePages            *int      `json:"file_pages"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	CourseCode  string `json:"course_code"`
	CourseTitle string `json:"course_title"`
	AuthorName  string `json:"author_name"`
}

// Editable reports whether syllabus content may be modified in the current status.
func (s *Syllabus) Editable() bool {
	return s.Status == StatusDraft || s.Status == StatusCorrection
}

// TopicAssignment places a course topic in a specific week of a syllabus.
// TopicTitle resolves to the custom title when one is set, otherwise the
// catalog title. The note fields carry week-specific planning text.
type TopicAssignment struct {
	TopicID         uuid.UUID `json:"topic_id"`
	TopicTitle      string    `json:"topic_title"`
	CustomTitle     *string   `json:"custom_title"`
	WeekNumber      int       `json:"week_number"`
	Hours           int       `json:"hours"`
	Tasks           string    `json:"tasks"`
	Outcomes        string    `json:"outcomes"`
	LiteratureNotes string    `json:"literature_notes"`
	Assessment      string    `json:"assessment"`
}

// Detail extends Syllabus with its weekly topic assignments.
type Detail struct {
	Syllabus
	Topics []TopicAssignment `json:"topics"`
}

// CreateCommand carries the data needed to register a new syllabus.
type CreateCommand struct {
	CourseID             uuid.UUID
	AuthorID             uuid.UUID
	Semester             string
	AcademicYear         string
	MainLanguage         string
	TotalWeeks           int
	IsShared             bool
	CourseDescription    string
	CourseGoal           string
	MainLiterature       string
	AdditionalLiterature string
}

// TopicInput assigns an existing topic to a week when replacing a
// syllabus's topic plan.
type TopicInput struct {
	TopicID         uuid.UUID `json:"topic_id"`
	CustomTitle     *string   `json:"custom_title"`
	WeekNumber      int       `json:"week_number"`
	Hours           int       `json:"hours"`
	Tasks           string    `json:"tasks"`
	Outcomes        string    `json:"outcomes"`
	LiteratureNotes string    `json:"literature_notes"`
	Assessment      string    `json:"assessment"`
}

// AttachCommand carries an uploaded syllabus document. Data holds the raw
// file bytes. PageCount is optional and may be extracted by the caller via
// pdfcpu; nil values are stored as NULL.
type AttachCommand struct {
	ActorID     uuid.UUID
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}
