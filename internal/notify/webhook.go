package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"folio/internal/models"
)

// Discord embed descriptions are capped at 4096 characters.
const maxEmbedDescription = 4000

type WebhookSender struct {
	URL    string
	Format string
	Client *http.Client
}

func NewWebhookSender(url, format string) *WebhookSender {
	if url == "" {
		return nil
	}
	return &WebhookSender{
		URL:    url,
		Format: format,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (ws *WebhookSender) Name() string { return "webhook" }

func (ws *WebhookSender) Notify(ctx context.Context, s models.Submission) error {
	payload, err := ws.payload(s)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ws.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ws.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (ws *WebhookSender) payload(s models.Submission) ([]byte, error) {
	title := fmt.Sprintf("New message from %s", plain(s.Name))
	body := summary(s)

	switch ws.Format {
	case "slack":
		// Slack treats <, > and & as control characters in mrkdwn.
		esc := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
		return json.Marshal(map[string]string{
			"text": fmt.Sprintf("*%s*\n%s", esc.Replace(title), esc.Replace(body)),
		})
	default:
		if len([]rune(body)) > maxEmbedDescription {
			body = string([]rune(body)[:maxEmbedDescription]) + "…"
		}
		return json.Marshal(map[string]interface{}{
			"embeds": []map[string]interface{}{
				{
					"title":       title,
					"description": body,
					"color":       3447003,
					"timestamp":   time.Now().UTC().Format(time.RFC3339),
				},
			},
		})
	}
}
