// Package review implements the syllabus approval workflow: the status
// state machine, role-gated transition evaluation, atomic transition
// recording with audit, and workflow notifications.
package review

import (
	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/internal/actors"
	"github.com/lectio-edu/lectio/internal/syllabi"
)

// Actor is the party requesting a transition.
type Actor struct {
	ID           *uuid.UUID
	Name         string
	Capabilities actors.Capability
	System       bool
}

// SystemActor returns the actor used by the background worker when
// applying AI check verdicts.
func SystemActor() Actor {
	return Actor{Name: "ai-check", System: true}
}

// ForUser adapts a registered user to a workflow actor.
func ForUser(a *actors.Actor) Actor {
	id := a.ID
	return Actor{
		ID:           &id,
		Name:         a.DisplayName,
		Capabilities: a.Capabilities(),
	}
}

type rule struct {
	from, to        string
	caps            actors.Capability
	system          bool
	commentRequired bool
}

// The workflow transition table. A transition is permitted when the actor
// holds any of the listed capabilities, or is the system actor where the
// rule allows it. Administrative overrides additionally permit rejection
// from any status.
var rules = []rule{
	{from: syllabi.StatusDraft, to: syllabi.StatusAiCheck, caps: actors.CapAuthor},
	{from: syllabi.StatusCorrection, to: syllabi.StatusAiCheck, caps: actors.CapAuthor},
	{from: syllabi.StatusDraft, to: syllabi.StatusReviewDean, caps: actors.CapAuthor},
	{from: syllabi.StatusCorrection, to: syllabi.StatusReviewDean, caps: actors.CapAuthor},
	{from: syllabi.StatusAiCheck, to: syllabi.StatusReviewDean, caps: actors.CapAuthor, system: true},
	{from: syllabi.StatusAiCheck, to: syllabi.StatusCorrection, system: true, commentRequired: true},
	{from: syllabi.StatusReviewDean, to: syllabi.StatusReviewUmu, caps: actors.CapDean},
	{from: syllabi.StatusReviewDean, to: syllabi.StatusCorrection, caps: actors.CapDean, commentRequired: true},
	{from: syllabi.StatusReviewUmu, to: syllabi.StatusApproved, caps: actors.CapMethodology},
	{from: syllabi.StatusReviewUmu, to: syllabi.StatusCorrection, caps: actors.CapMethodology, commentRequired: true},
}

var knownStatuses = map[string]bool{
	syllabi.StatusDraft:      true,
	syllabi.StatusAiCheck:    true,
	syllabi.StatusCorrection: true,
	syllabi.StatusReviewDean: true,
	syllabi.StatusReviewUmu:  true,
	syllabi.StatusApproved:   true,
	syllabi.StatusRejected:   true,
}

// Evaluate checks whether the actor may move a syllabus from current to
// target with the given comment. It is a pure function over the transition
// table; authorship constraints are enforced by the Engine.
func Evaluate(current, target string, actor Actor, comment string) error {
	if !knownStatuses[current] {
		return newError(KindUnknownState, "unknown status %q", current)
	}
	if !knownStatuses[target] {
		return newError(KindUnknownState, "unknown status %q", target)
	}

	if target == syllabi.StatusRejected {
		if !actor.Capabilities.Has(actors.CapOverride) {
			return newError(KindPermissionDenied, "rejection requires an administrative override")
		}
		if comment == "" {
			return newError(KindValidationFailed, "rejection requires a comment")
		}
		return nil
	}

	for _, r := range rules {
		if r.from != current || r.to != target {
			continue
		}

		permitted := (r.system && actor.System) ||
			(r.caps != 0 && actor.Capabilities&r.caps != 0) ||
			actor.Capabilities.Has(actors.CapOverride)
		if !permitted {
			return newError(KindPermissionDenied, "transition %s to %s is not permitted for this actor", current, target)
		}

		if r.commentRequired && comment == "" {
			return newError(KindValidationFailed, "transition %s to %s requires a comment", current, target)
		}

		return nil
	}

	return newError(KindPermissionDenied, "cannot move from %s to %s", current, target)
}
