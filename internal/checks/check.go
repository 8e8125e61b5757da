// Package checks implements the AI check pipeline for Lectio. It acquires
// syllabus content from the attached document or the database, prompts the
// generation gateway for a structured verdict, and stores the result as an
// append-only history per syllabus.
package checks

import (
	"time"

	"github.com/google/uuid"
)

// Content sources describe where the checked text came from.
const (
	SourceFile     = "file"
	SourceDatabase = "database"
)

// Verdict is the structured judgement expected from the model.
type Verdict struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
}

// Raw captures the full check outcome, stored as JSONB alongside the
// flattened summary fields.
type Raw struct {
	Approved      bool   `json:"approved"`
	Feedback      string `json:"feedback"`
	FullResponse  string `json:"full_response"`
	ContentSource string `json:"content_source"`
}

// Result represents a stored AI check run for a syllabus.
type Result struct {
	ID         uuid.UUID `json:"id"`
	SyllabusID uuid.UUID `json:"syllabus_id"`
	ModelName  string    `json:"model_name"`
	Summary    string    `json:"summary"`
	Raw        Raw       `json:"raw"`
	CreatedAt  time.Time `json:"created_at"`
}
