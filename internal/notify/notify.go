// Package notify tells the site owner about new contact submissions.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"folio/internal/config"
	"folio/internal/metrics"
	"folio/internal/models"
)

// Notifier delivers a notice about one stored submission.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, s models.Submission) error
}

// Multi sends to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Name() string { return "multi" }

func (m Multi) Notify(ctx context.Context, s models.Submission) error {
	var errs []error
	for _, n := range m {
		err := n.Notify(ctx, s)
		result := "ok"
		if err != nil {
			result = "error"
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
		metrics.NotificationsTotal.WithLabelValues(n.Name(), result).Inc()
	}
	return errors.Join(errs...)
}

// Dispatch delivers in the background with a deadline so a slow webhook
// never holds up the request that stored the submission.
func Dispatch(n Notifier, s models.Submission, timeout time.Duration) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := n.Notify(ctx, s); err != nil {
			slog.Warn("submission notification failed", "submission_id", s.ID, "error", err)
		}
	}()
}

// plain turns stored, entity-encoded text back into readable plain text for
// channels that do not render HTML.
func plain(s string) string {
	return html.UnescapeString(s)
}

func summary(s models.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s", plain(s.Name))
	if s.Email != "" {
		fmt.Fprintf(&b, " <%s>", s.Email)
	}
	if s.Phone != "" {
		fmt.Fprintf(&b, "\nPhone: %s", s.Phone)
	}
	if s.Website != "" {
		fmt.Fprintf(&b, "\nWebsite: %s", s.Website)
	}
	for k, v := range s.Extra {
		fmt.Fprintf(&b, "\n%s: %s", k, plain(v))
	}
	fmt.Fprintf(&b, "\n\n%s", plain(s.Message))
	return b.String()
}

// FromConfig builds the notifiers the configuration enables. It returns nil
// when none are configured.
func FromConfig(cfg *config.Config) Notifier {
	var m Multi
	if ws := NewWebhookSender(cfg.WebhookURL, cfg.WebhookFormat); ws != nil {
		m = append(m, ws)
	}
	if es := NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.NotifyEmail, cfg.SMTPUsername, cfg.SMTPPassword); es != nil {
		m = append(m, es)
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
