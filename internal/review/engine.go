package review

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/internal/actors"
	"github.com/lectio-edu/lectio/internal/notify"
	"github.com/lectio-edu/lectio/internal/syllabi"
)

// Engine coordinates workflow transitions: evaluation, atomic recording,
// and notification fan-out.
type Engine struct {
	syllabi  syllabi.System
	actors   actors.System
	recorder Recorder
	notify   notify.System
	logger   *slog.Logger
}

// NewEngine creates a workflow engine over the given systems.
func NewEngine(
	syllabiSys syllabi.System,
	actorSys actors.System,
	recorder Recorder,
	notifySys notify.System,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		syllabi:  syllabiSys,
		actors:   actorSys,
		recorder: recorder,
		notify:   notifySys,
		logger:   logger.With("system", "review"),
	}
}

// Handler returns the HTTP handler for transition endpoints.
func (e *Engine) Handler() *Handler {
	return NewHandler(e, e.actors, e.recorder, e.logger)
}

// Request evaluates and applies a status transition. The comment becomes
// author-facing feedback when the syllabus moves to correction or rejected.
// Notifications are best-effort and never fail the transition.
func (e *Engine) Request(
	ctx context.Context,
	syllabusID uuid.UUID,
	target string,
	actor Actor,
	comment string,
) (*syllabi.Syllabus, error) {
	s, err := e.syllabi.Find(ctx, syllabusID)
	if err != nil {
		return nil, err
	}

	// Requesting the current status is not a transition.
	if s.Status == target {
		return s, nil
	}

	if err := Evaluate(s.Status, target, actor, comment); err != nil {
		return nil, err
	}

	if err := e.checkAuthorship(s, actor, target); err != nil {
		return nil, err
	}

	t := Transition{
		SyllabusID: syllabusID,
		From:       s.Status,
		To:         target,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		// Re-entering the automated check invalidates previous feedback.
		ClearFeedback: target == syllabi.StatusAiCheck,
	}

	if comment != "" {
		t.Comment = &comment
	}

	if t.Comment != nil && (target == syllabi.StatusCorrection || target == syllabi.StatusRejected) {
		origin := syllabi.FeedbackOriginReviewer
		if actor.System {
			origin = syllabi.FeedbackOriginAI
		}
		t.FeedbackOrigin = &origin
	}

	if err := e.recorder.Record(ctx, t); err != nil {
		return nil, err
	}

	e.announce(ctx, s, target, actor, comment)

	return e.syllabi.Find(ctx, syllabusID)
}

// checkAuthorship enforces the authorship rules the transition table cannot
// express: submission and resubmission are restricted to the syllabus author
// (or any author-capable actor when the syllabus is shared), and authors may
// never advance the review of their own syllabus even when they hold the
// reviewing capability. Overrides and the system actor are exempt.
func (e *Engine) checkAuthorship(s *syllabi.Syllabus, actor Actor, target string) error {
	if actor.System || actor.Capabilities.Has(actors.CapOverride) {
		return nil
	}

	isAuthor := actor.ID != nil && *actor.ID == s.AuthorID

	advancing := (s.Status == syllabi.StatusReviewDean && target == syllabi.StatusReviewUmu) ||
		(s.Status == syllabi.StatusReviewUmu && target == syllabi.StatusApproved)
	if advancing && isAuthor {
		return newError(KindPermissionDenied, "authors may not approve their own syllabus")
	}

	submitting := s.Status == syllabi.StatusDraft || s.Status == syllabi.StatusCorrection ||
		(s.Status == syllabi.StatusAiCheck && target == syllabi.StatusReviewDean)
	if !submitting {
		return nil
	}

	if isAuthor {
		return nil
	}

	if s.IsShared && actor.Capabilities.Has(actors.CapAuthor) {
		return nil
	}

	return newError(KindPermissionDenied, "only the syllabus author may submit it for review")
}

func (e *Engine) announce(ctx context.Context, s *syllabi.Syllabus, target string, actor Actor, comment string) {
	recipients, err := e.recipients(ctx, s, target)
	if err != nil {
		e.logger.Warn("notification recipients unresolved", "syllabus_id", s.ID, "error", err)
		return
	}

	e.notify.Announce(ctx, notify.Event{
		CourseCode:  s.CourseCode,
		CourseTitle: s.CourseTitle,
		From:        s.Status,
		To:          target,
		ActorName:   actor.Name,
		Comment:     comment,
		Recipients:  recipients,
	})
}

// recipients resolves who to inform for a transition: the incoming review
// stage's role members, or the author for every other destination.
func (e *Engine) recipients(ctx context.Context, s *syllabi.Syllabus, target string) ([]string, error) {
	switch target {
	case syllabi.StatusReviewDean:
		return e.roleEmails(ctx, actors.RoleDean)
	case syllabi.StatusReviewUmu:
		return e.roleEmails(ctx, actors.RoleUmu)
	default:
		author, err := e.actors.Find(ctx, s.AuthorID)
		if err != nil {
			return nil, err
		}
		return []string{author.Email}, nil
	}
}

func (e *Engine) roleEmails(ctx context.Context, role string) ([]string, error) {
	users, err := e.actors.FindByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(users))
	for _, u := range users {
		emails = append(emails, u.Email)
	}
	return emails, nil
}
