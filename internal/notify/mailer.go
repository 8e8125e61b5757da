package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/wneessen/go-mail"
	"golang.org/x/sync/errgroup"

	"github.com/lectio-edu/lectio/internal/config"
)

type mailer struct {
	send   func(ctx context.Context, msg *mail.Msg) error
	from   string
	logger *slog.Logger
}

// New creates an SMTP-backed notification system. Returns the Disabled
// system when notifications are turned off in config.
func New(cfg *config.NotifyConfig, logger *slog.Logger) (System, error) {
	if !cfg.Enabled {
		return Disabled(), nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
	}

	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &mailer{
		send: func(ctx context.Context, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
		from:   cfg.From,
		logger: logger.With("system", "notify"),
	}, nil
}

func (m *mailer) Announce(ctx context.Context, event Event) {
	if len(event.Recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("[Lectio] %s %s: %s", event.CourseCode, event.CourseTitle, statusLabel(event.To))
	body := composeBody(event)

	// Delivery is best effort per recipient: one failure must not stop
	// the rest of the fan-out, so errors are logged and swallowed here.
	var g errgroup.Group
	g.SetLimit(4)

	var failed atomic.Int32

	for _, recipient := range event.Recipients {
		g.Go(func() error {
			if err := m.deliver(ctx, recipient, subject, body); err != nil {
				failed.Add(1)
				m.logger.Warn("notification delivery failed",
					"course", event.CourseCode,
					"recipient", recipient,
					"error", err,
				)
			}
			return nil
		})
	}

	g.Wait()

	m.logger.Info(
		"notifications sent",
		"course", event.CourseCode,
		"to_status", event.To,
		"recipients", len(event.Recipients),
		"failed", failed.Load(),
	)
}

func (m *mailer) deliver(ctx context.Context, recipient, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("set recipient %s: %w", recipient, err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send to %s: %w", recipient, err)
	}

	return nil
}

func composeBody(event Event) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The syllabus for %s %s moved from %s to %s.\n",
		event.CourseCode, event.CourseTitle, statusLabel(event.From), statusLabel(event.To))

	if event.ActorName != "" {
		fmt.Fprintf(&b, "Changed by: %s\n", event.ActorName)
	}

	if event.Comment != "" {
		fmt.Fprintf(&b, "\nComment:\n%s\n", event.Comment)
	}

	return b.String()
}

func statusLabel(status string) string {
	switch status {
	case "draft":
		return "Draft"
	case "ai_check":
		return "AI Check"
	case "correction":
		return "Needs Correction"
	case "review_dean":
		return "Dean Review"
	case "review_umu":
		return "Methodology Review"
	case "approved":
		return "Approved"
	case "rejected":
		return "Rejected"
	default:
		return status
	}
}
