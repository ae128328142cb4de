package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"folio/internal/config"
	"folio/internal/metrics"
	"folio/internal/models"
	"folio/internal/notify"
	"folio/internal/sanitize"
	"folio/internal/views"
)

const (
	// Bots fill every input; people never see this one.
	honeypotField = "company_url"

	maxFields       = 32
	maxFieldNameLen = 64
	notifyTimeout   = 15 * time.Second
)

var errTooManyFields = errors.New("too many fields")

func ContactPage(site config.Site) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form := views.ContactForm{Sent: c.Query("sent") == "1"}
		return renderHTML(c, fiber.StatusOK, views.ContactPage(site, form))
	}
}

// ContactSubmit accepts a contact form as JSON, urlencoded or multipart
// data. Values of any type are accepted; anything that is not text is
// cleaned to an empty string rather than rejected.
func ContactSubmit(db *sql.DB, site config.Site, n notify.Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		asJSON := wantsJSON(c)

		raw, err := decodeForm(c)
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues("error").Inc()
			msg := "Could not read the submitted form"
			if errors.Is(err, errTooManyFields) {
				msg = "Too many fields submitted"
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}

		if trap, ok := raw[honeypotField]; ok {
			delete(raw, honeypotField)
			if s, _ := trap.(string); strings.TrimSpace(s) != "" {
				metrics.SubmissionsTotal.WithLabelValues("spam").Inc()
				slog.Info("discarded honeypot submission", "ip", c.IP())
				return accepted(c, asJSON, "")
			}
		}

		clean, res := sanitize.Clean(raw)
		metrics.ObserveForm(clean, res)

		if !res.Valid {
			metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
			if asJSON {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
			}
			form := views.ContactForm{Values: clean, Errors: res.Errors}
			return renderHTML(c, fiber.StatusUnprocessableEntity, views.ContactPage(site, form))
		}

		sub := models.SubmissionFromFields(clean)
		sub.RemoteIP = c.IP()
		sub.UserAgent = sanitize.Text(c.Get(fiber.HeaderUserAgent))

		if err := models.CreateSubmission(db, sub); err != nil {
			metrics.SubmissionsTotal.WithLabelValues("error").Inc()
			slog.Error("failed to store submission", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save your message"})
		}
		metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()

		models.LogActivity(db, "submission", sub.ID, "received",
			"Message from "+sanitize.LogSafe(sub.Name), sub.RemoteIP, sub.UserAgent)
		slog.Info("contact submission stored", "submission_id", sub.ID, "ip", sub.RemoteIP)

		if n != nil {
			notify.Dispatch(n, *sub, notifyTimeout)
		}

		return accepted(c, asJSON, sub.ID)
	}
}

func accepted(c *fiber.Ctx, asJSON bool, id string) error {
	if asJSON {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":      id,
			"isValid": true,
			"errors":  fiber.Map{},
		})
	}
	return c.Redirect("/contact?sent=1", fiber.StatusSeeOther)
}

// decodeForm reads the request body into a field map. Repeated form keys
// keep their first value.
func decodeForm(c *fiber.Ctx) (map[string]any, error) {
	raw := make(map[string]any)

	switch {
	case c.Is("json"):
		if err := json.Unmarshal(c.Body(), &raw); err != nil {
			return nil, err
		}
	case strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm):
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for k, v := range mf.Value {
			if len(v) > 0 {
				raw[k] = v[0]
			}
		}
	default:
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			k := string(key)
			if _, seen := raw[k]; !seen {
				raw[k] = string(value)
			}
		})
	}

	if len(raw) > maxFields {
		return nil, errTooManyFields
	}
	for k := range raw {
		if len(k) > maxFieldNameLen || k == "" {
			delete(raw, k)
		}
	}
	return raw, nil
}
