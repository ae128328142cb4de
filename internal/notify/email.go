package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"folio/internal/models"
)

type EmailSender struct {
	Host     string
	Port     int
	From     string
	To       []string
	Username string
	Password string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailSender returns nil unless host, sender and recipients are all set.
// to is a comma-separated list.
func NewEmailSender(host string, port int, from, to, username, password string) *EmailSender {
	if host == "" || from == "" || to == "" {
		return nil
	}
	var recipients []string
	for _, r := range strings.Split(to, ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		From:     from,
		To:       recipients,
		Username: username,
		Password: password,
		send:     smtp.SendMail,
	}
}

func (es *EmailSender) Name() string { return "email" }

// Notify sends a plain-text notice. Reply-To is set to the visitor's address,
// which the sanitizer has already stripped of header-breaking characters.
func (es *EmailSender) Notify(ctx context.Context, s models.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := headerSafe(fmt.Sprintf("New contact message from %s", plain(s.Name)))
	var hdr strings.Builder
	fmt.Fprintf(&hdr, "From: %s\r\nTo: %s\r\nSubject: %s\r\n", es.From, strings.Join(es.To, ", "), subject)
	if s.Email != "" {
		fmt.Fprintf(&hdr, "Reply-To: %s\r\n", headerSafe(s.Email))
	}
	hdr.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg := hdr.String() + summary(s)

	addr := fmt.Sprintf("%s:%d", es.Host, es.Port)

	var auth smtp.Auth
	if es.Username != "" {
		auth = smtp.PlainAuth("", es.Username, es.Password, es.Host)
	}

	if err := es.send(addr, auth, es.From, es.To, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(s)
}
