package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/pkg/repository"
)

// Transition captures an evaluated status change ready to be applied.
type Transition struct {
	SyllabusID     uuid.UUID
	From           string
	To             string
	ActorID        *uuid.UUID
	ActorName      string
	Comment        *string
	FeedbackOrigin *string
	// ClearFeedback drops previous feedback as part of the transition,
	// set when a syllabus re-enters the automated check.
	ClearFeedback bool
}

// TransitionRecord is a persisted workflow transition.
type TransitionRecord struct {
	ID         uuid.UUID  `json:"id"`
	SyllabusID uuid.UUID  `json:"syllabus_id"`
	From       string     `json:"from_status"`
	To         string     `json:"to_status"`
	ActorID    *uuid.UUID `json:"actor_id"`
	ActorName  string     `json:"actor_name"`
	Comment    *string    `json:"comment"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AuditEntry is a persisted audit trail row for a syllabus.
type AuditEntry struct {
	ID         uuid.UUID  `json:"id"`
	SyllabusID uuid.UUID  `json:"syllabus_id"`
	ActorID    *uuid.UUID `json:"actor_id"`
	Action     string     `json:"action"`
	Detail     *string    `json:"detail"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Recorder applies evaluated transitions atomically and reads workflow history.
type Recorder interface {
	// Record applies the transition: status update, transition row, audit
	// row, and feedback propagation execute in a single transaction. The
	// status update is guarded against concurrent transitions.
	Record(ctx context.Context, t Transition) error

	History(ctx context.Context, syllabusID uuid.UUID) ([]TransitionRecord, error)
	Audit(ctx context.Context, syllabusID uuid.UUID) ([]AuditEntry, error)
}

type recorder struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRecorder creates a SQL-backed transition recorder.
func NewRecorder(db *sql.DB, logger *slog.Logger) Recorder {
	return &recorder{
		db:     db,
		logger: logger.With("system", "review"),
	}
}

func (r *recorder) Record(ctx context.Context, t Transition) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE syllabi SET status = $2, updated_at = now() WHERE id = $1 AND status = $3",
			t.SyllabusID, t.To, t.From,
		); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return struct{}{}, newError(KindPermissionDenied, "syllabus is no longer in status %s", t.From)
			}
			return struct{}{}, err
		}

		if t.ClearFeedback {
			if err := repository.ExecExpectOne(
				ctx, tx,
				"UPDATE syllabi SET feedback = NULL, feedback_origin = NULL WHERE id = $1",
				t.SyllabusID,
			); err != nil {
				return struct{}{}, err
			}
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO syllabus_transitions(id, syllabus_id, from_status, to_status, actor_id, actor_name, comment)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), t.SyllabusID, t.From, t.To, t.ActorID, t.ActorName, t.Comment,
		); err != nil {
			return struct{}{}, err
		}

		if t.FeedbackOrigin != nil && t.Comment != nil {
			if err := repository.ExecExpectOne(
				ctx, tx,
				"UPDATE syllabi SET feedback = $2, feedback_origin = $3 WHERE id = $1",
				t.SyllabusID, *t.Comment, *t.FeedbackOrigin,
			); err != nil {
				return struct{}{}, err
			}
		}

		detail := fmt.Sprintf("%s to %s", t.From, t.To)
		if _, err := tx.ExecContext(
			ctx,
			"INSERT INTO syllabus_audit(id, syllabus_id, actor_id, action, detail) VALUES ($1, $2, $3, $4, $5)",
			uuid.New(), t.SyllabusID, t.ActorID, "status_changed", detail,
		); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, nil
	})

	if err != nil {
		return err
	}

	r.logger.Info(
		"transition recorded",
		"syllabus_id", t.SyllabusID,
		"from", t.From,
		"to", t.To,
		"actor", t.ActorName,
	)
	return nil
}

func (r *recorder) History(ctx context.Context, syllabusID uuid.UUID) ([]TransitionRecord, error) {
	q := `
		SELECT id, syllabus_id, from_status, to_status, actor_id, actor_name, comment, created_at
		FROM syllabus_transitions
		WHERE syllabus_id = $1
		ORDER BY created_at DESC`

	records, err := repository.QueryMany(ctx, r.db, q, []any{syllabusID}, scanTransition)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}

	return records, nil
}

func (r *recorder) Audit(ctx context.Context, syllabusID uuid.UUID) ([]AuditEntry, error) {
	q := `
		SELECT id, syllabus_id, actor_id, action, detail, created_at
		FROM syllabus_audit
		WHERE syllabus_id = $1
		ORDER BY created_at DESC`

	entries, err := repository.QueryMany(ctx, r.db, q, []any{syllabusID}, scanAuditEntry)
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}

	return entries, nil
}

func scanTransition(s repository.Scanner) (TransitionRecord, error) {
	var t TransitionRecord
	err := s.Scan(
		&t.ID,
		&t.SyllabusID,
		&t.From,
		&t.To,
		&t.ActorID,
		&t.ActorName,
		&t.Comment,
		&t.CreatedAt,
	)
	return t, err
}

func scanAuditEntry(s repository.Scanner) (AuditEntry, error) {
	var e AuditEntry
	err := s.Scan(
		&e.ID,
		&e.SyllabusID,
		&e.ActorID,
		&e.Action,
		&e.Detail,
		&e.CreatedAt,
	)
	return e, err
}
