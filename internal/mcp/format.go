package mcptools

import (
	"html"
	"time"

	"folio/internal/models"
)

// FormResult mirrors the JSON the contact endpoint and the sanitize
// command produce.
type FormResult struct {
	Fields map[string]string `json:"fields"`
	Valid  bool              `json:"isValid"`
	Errors map[string]string `json:"errors"`
}

// SubmissionDTO carries plain text: stored values are decoded from their
// HTML-safe form since MCP clients do not render HTML.
type SubmissionDTO struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Website   string            `json:"website,omitempty"`
	Message   string            `json:"message,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
	RemoteIP  string            `json:"remote_ip,omitempty"`
	Read      bool              `json:"read"`
	ReadAt    string            `json:"read_at,omitempty"`
	CreatedAt string            `json:"created_at"`
}

type ActivityDTO struct {
	ID         int    `json:"id"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id,omitempty"`
	Action     string `json:"action"`
	Details    string `json:"details,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func SubmissionToDTO(s models.Submission) SubmissionDTO {
	d := SubmissionDTO{
		ID:        s.ID,
		Name:      html.UnescapeString(s.Name),
		Email:     html.UnescapeString(s.Email),
		Phone:     s.Phone,
		Website:   s.Website,
		Message:   html.UnescapeString(s.Message),
		RemoteIP:  s.RemoteIP,
		Read:      s.IsRead(),
		CreatedAt: formatTime(s.CreatedAt),
	}
	if len(s.Extra) > 0 {
		d.Extra = make(map[string]string, len(s.Extra))
		for k, v := range s.Extra {
			d.Extra[k] = html.UnescapeString(v)
		}
	}
	if s.ReadAt.Valid {
		d.ReadAt = formatTime(s.ReadAt.Time)
	}
	return d
}

func ActivityToDTO(a models.Activity) ActivityDTO {
	return ActivityDTO{
		ID:         a.ID,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Action:     a.Action,
		Details:    a.Details,
		IPAddress:  a.IPAddress,
		CreatedAt:  formatTime(a.CreatedAt),
	}
}
