package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/wneessen/go-mail"

	"github.com/lectio-edu/lectio/internal/config"
)

func TestNewDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sys, err := New(&config.NotifyConfig{Enabled: false}, logger)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if _, ok := sys.(disabled); !ok {
		t.Fatalf("system = %T, want disabled", sys)
	}

	// Announcing on the disabled system must be a no-op.
	sys.Announce(context.Background(), Event{
		CourseCode: "CS101",
		Recipients: []string{"dean@example.edu"},
	})
}

func TestAnnounceFanOut(t *testing.T) {
	recipients := []string{
		"dean1@example.edu",
		"dean2@example.edu",
		"dean3@example.edu",
		"dean4@example.edu",
		"dean5@example.edu",
	}

	var mu sync.Mutex
	attempted := make(map[string]bool)

	m := &mailer{
		from:   "lectio@localhost",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		send: func(ctx context.Context, msg *mail.Msg) error {
			to, err := msg.GetRecipients()
			if err != nil {
				t.Errorf("GetRecipients error: %v", err)
				return err
			}

			mu.Lock()
			for _, r := range to {
				attempted[r] = true
			}
			mu.Unlock()

			// One transient failure must not abort the rest.
			if len(to) == 1 && to[0] == "dean2@example.edu" {
				return errors.New("connection reset")
			}
			return nil
		},
	}

	m.Announce(context.Background(), Event{
		CourseCode:  "CS101",
		CourseTitle: "Intro to Computing",
		From:        "ai_check",
		To:          "review_dean",
		Recipients:  recipients,
	})

	for _, r := range recipients {
		if !attempted[r] {
			t.Errorf("recipient %s was never attempted", r)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"draft", "Draft"},
		{"ai_check", "AI Check"},
		{"correction", "Needs Correction"},
		{"review_dean", "Dean Review"},
		{"review_umu", "Methodology Review"},
		{"approved", "Approved"},
		{"rejected", "Rejected"},
		{"archived", "archived"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := statusLabel(tt.status); got != tt.want {
				t.Errorf("statusLabel(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestComposeBody(t *testing.T) {
	t.Run("full event", func(t *testing.T) {
		body := composeBody(Event{
			CourseCode:  "CS101",
			CourseTitle: "Intro to Computing",
			From:        "review_dean",
			To:          "correction",
			ActorName:   "Dana Dean",
			Comment:     "week 3 is missing literature",
		})

		for _, want := range []string{
			"CS101 Intro to Computing",
			"Dean Review",
			"Needs Correction",
			"Changed by: Dana Dean",
			"week 3 is missing literature",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q:\n%s", want, body)
			}
		}
	})

	t.Run("omits empty sections", func(t *testing.T) {
		body := composeBody(Event{
			CourseCode:  "CS101",
			CourseTitle: "Intro to Computing",
			From:        "draft",
			To:          "ai_check",
		})

		if strings.Contains(body, "Changed by") {
			t.Errorf("body has actor line without an actor:\n%s", body)
		}
		if strings.Contains(body, "Comment") {
			t.Errorf("body has comment section without a comment:\n%s", body)
		}
	})
}
