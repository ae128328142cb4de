package mcptools

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"folio/internal/backup"
)

// RegisterTools exposes the sanitizer and the inbox to MCP clients. backups
// may be nil, in which case backup_database is not offered.
func RegisterTools(s *server.MCPServer, db *sql.DB, backups *backup.Manager) {
	h := &handlers{db: db, backups: backups}

	s.AddTool(
		mcp.NewTool("sanitize_form",
			mcp.WithDescription("Sanitize a form submission field by field and validate the result. Returns the cleaned fields, isValid and per-field errors. Nothing is stored."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithObject("fields", mcp.Required(), mcp.Description("Form fields keyed by name, e.g. {\"name\": \"Ada\", \"email\": \"ada@example.com\"}")),
		),
		h.sanitizeForm,
	)

	s.AddTool(
		mcp.NewTool("validate_form",
			mcp.WithDescription("Check whether a form submission would be accepted. Fields are sanitized first and only isValid and per-field errors are returned. Non-string values count as empty."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithObject("fields", mcp.Required(), mcp.Description("Raw form fields keyed by name")),
		),
		h.validateForm,
	)

	s.AddTool(
		mcp.NewTool("list_submissions",
			mcp.WithDescription("List contact submissions, newest first."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithNumber("limit", mcp.Description("Number of submissions to return (default 20, max 100)")),
			mcp.WithNumber("offset", mcp.Description("Number of submissions to skip")),
		),
		h.listSubmissions,
	)

	s.AddTool(
		mcp.NewTool("get_submission",
			mcp.WithDescription("Get one contact submission by ID, including extra fields."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("id", mcp.Required(), mcp.Description("Submission ID (UUID)")),
		),
		h.getSubmission,
	)

	s.AddTool(
		mcp.NewTool("get_activity_log",
			mcp.WithDescription("Get the recent audit trail: received and deleted submissions, logins and exports."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithNumber("limit", mcp.Description("Number of activities to return (default 20)")),
			mcp.WithString("entity_type", mcp.Description("Filter by entity type (submission, auth)")),
		),
		h.getActivityLog,
	)

	if backups != nil {
		s.AddTool(
			mcp.NewTool("backup_database",
				mcp.WithDescription("Write a compressed snapshot of the submissions database and prune backups older than 30 days."),
				mcp.WithReadOnlyHintAnnotation(false),
				mcp.WithDestructiveHintAnnotation(false),
			),
			h.backupDatabase,
		)
	}
}
