package handlers

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"folio/internal/models"
	"folio/internal/views"
)

const inboxPerPage = 25

func csrfToken(c *fiber.Ctx) string {
	if t, ok := c.Locals("csrf").(string); ok {
		return t
	}
	return ""
}

func ListInbox(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}

		subs, err := models.ListSubmissions(db, inboxPerPage, (page-1)*inboxPerPage)
		if err != nil {
			slog.Error("failed to list submissions", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to load inbox")
		}
		total, err := models.CountSubmissions(db)
		if err != nil {
			slog.Error("failed to count submissions", "error", err)
		}
		unread, err := models.CountUnread(db)
		if err != nil {
			slog.Error("failed to count unread submissions", "error", err)
		}

		return renderHTML(c, fiber.StatusOK, views.InboxPage(views.Inbox{
			Submissions: subs,
			Page:        page,
			PerPage:     inboxPerPage,
			Total:       total,
			Unread:      unread,
			CSRFToken:   csrfToken(c),
		}))
	}
}

// ViewSubmission shows one message and marks it read.
func ViewSubmission(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid submission ID")
		}

		sub, err := models.GetSubmissionByID(db, id)
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Submission not found")
		}
		if err != nil {
			slog.Error("failed to load submission", "submission_id", id, "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to load submission")
		}

		if !sub.IsRead() {
			if err := models.MarkSubmissionRead(db, id); err != nil {
				slog.Warn("failed to mark submission read", "submission_id", id, "error", err)
			} else {
				sub.ReadAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
			}
		}

		return renderHTML(c, fiber.StatusOK, views.SubmissionPage(*sub, csrfToken(c)))
	}
}

func DeleteSubmission(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid submission ID")
		}

		err := models.DeleteSubmission(db, id)
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Submission not found")
		}
		if err != nil {
			slog.Error("failed to delete submission", "submission_id", id, "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete submission")
		}

		user, _ := c.Locals("username").(string)
		models.LogActivity(db, "submission", id, "deleted", "Deleted by "+user, c.IP(), c.Get(fiber.HeaderUserAgent))

		if c.Get("HX-Request") == "true" {
			return c.SendString("")
		}
		return c.Redirect("/inbox", fiber.StatusSeeOther)
	}
}

// ExportCSV downloads every submission. Stored values are entity-encoded
// for HTML, so they are decoded back to plain text for spreadsheets.
func ExportCSV(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subs, err := models.GetAllSubmissions(db)
		if err != nil {
			slog.Error("failed to export submissions", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to export submissions")
		}

		c.Set("Content-Type", "text/csv; charset=utf-8")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="submissions-%s.csv"`, time.Now().Format("2006-01-02")))

		w := csv.NewWriter(c.Response().BodyWriter())
		w.Write([]string{"ID", "Received", "Name", "Email", "Phone", "Website", "Message", "Read"})
		for _, s := range subs {
			read := "no"
			if s.IsRead() {
				read = "yes"
			}
			w.Write([]string{
				s.ID,
				s.CreatedAt.Format(time.RFC3339),
				csvCell(s.Name),
				csvCell(s.Email),
				csvCell(s.Phone),
				csvCell(s.Website),
				csvCell(s.Message),
				read,
			})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			slog.Error("failed to write CSV export", "error", err)
		}

		user, _ := c.Locals("username").(string)
		models.LogActivity(db, "submission", "", "exported", fmt.Sprintf("%d submissions exported by %s", len(subs), user), c.IP(), c.Get(fiber.HeaderUserAgent))
		return nil
	}
}

// csvCell decodes a stored value and neutralizes spreadsheet formulas.
func csvCell(s string) string {
	s = html.UnescapeString(s)
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
