// Package notify delivers workflow email notifications over SMTP.
package notify

import (
	"context"
)

// Event describes a syllabus status change to announce.
type Event struct {
	CourseCode  string
	CourseTitle string
	From        string
	To          string
	ActorName   string
	Comment     string
	Recipients  []string
}

// System defines the public contract for workflow notifications.
// Delivery is best-effort: implementations log failures rather than
// propagating them into the workflow.
type System interface {
	Announce(ctx context.Context, event Event)
}

// Disabled returns a System that drops all events. Used when SMTP
// delivery is not configured.
func Disabled() System {
	return disabled{}
}

type disabled struct{}

func (disabled) Announce(context.Context, Event) {}
