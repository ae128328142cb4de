package mcptools

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"folio/internal/backup"
	"folio/internal/db"
	"folio/internal/models"
)

func newTestHandlers(t *testing.T) *handlers {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "folio.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	m, err := backup.NewManager(filepath.Join(dir, "backups"), database)
	if err != nil {
		t.Fatalf("backup manager: %v", err)
	}
	return &handlers{db: database, backups: m}
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("tool returned protocol error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("tool returned no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func seed(t *testing.T, database *sql.DB, name string) string {
	t.Helper()
	s := &models.Submission{Name: name, Email: "x@example.com", Message: "Tom &amp; Jerry say hi"}
	if err := models.CreateSubmission(database, s); err != nil {
		t.Fatalf("create submission: %v", err)
	}
	return s.ID
}

func TestSanitizeForm(t *testing.T) {
	h := newTestHandlers(t)

	out, isErr := call(t, h.sanitizeForm, map[string]any{
		"fields": map[string]any{
			"name":    "<b>Ada</b>",
			"email":   "not an email",
			"message": "<script>x</script>Long enough message",
			"website": "javascript:alert(1)",
		},
	})
	if isErr {
		t.Fatalf("unexpected tool error: %s", out)
	}

	var res FormResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Fields["name"] != "Ada" || res.Fields["website"] != "" {
		t.Errorf("unexpected fields %v", res.Fields)
	}
	if res.Valid || res.Errors["email"] == "" {
		t.Errorf("expected email error, got valid=%v errors=%v", res.Valid, res.Errors)
	}
}

func TestSanitizeForm_RequiresObject(t *testing.T) {
	h := newTestHandlers(t)

	if _, isErr := call(t, h.sanitizeForm, map[string]any{}); !isErr {
		t.Error("expected error when fields is missing")
	}
	if _, isErr := call(t, h.sanitizeForm, map[string]any{"fields": "nope"}); !isErr {
		t.Error("expected error when fields is not an object")
	}
}

func TestValidateForm(t *testing.T) {
	h := newTestHandlers(t)

	out, _ := call(t, h.validateForm, map[string]any{
		"fields": map[string]any{"name": "42", "message": 12345},
	})
	if !strings.Contains(out, "only numbers") || !strings.Contains(out, `"isValid": false`) {
		t.Errorf("unexpected validation output: %s", out)
	}
}

func TestValidateForm_JudgesSanitizedValues(t *testing.T) {
	h := newTestHandlers(t)

	// Raw, these pass every rule; once the markup is removed they do not.
	out, isErr := call(t, h.validateForm, map[string]any{
		"fields": map[string]any{
			"name":    "<b>A</b>",
			"message": "<script>steal(document.cookie)</script>hi",
		},
	})
	if isErr {
		t.Fatalf("unexpected tool error: %s", out)
	}

	var res struct {
		Valid  bool              `json:"isValid"`
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Valid || res.Errors["name"] == "" || res.Errors["message"] == "" {
		t.Errorf("expected name and message errors after sanitizing, got %+v", res)
	}
	if strings.Contains(out, "fields") {
		t.Errorf("validate_form should not echo cleaned fields: %s", out)
	}
}

func TestListAndGetSubmission(t *testing.T) {
	h := newTestHandlers(t)
	id := seed(t, h.db, "Ada")
	seed(t, h.db, "Grace")

	out, isErr := call(t, h.listSubmissions, map[string]any{"limit": float64(1)})
	if isErr {
		t.Fatalf("list failed: %s", out)
	}
	var list struct {
		Total       int             `json:"total"`
		Submissions []SubmissionDTO `json:"submissions"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 2 || len(list.Submissions) != 1 {
		t.Errorf("expected 1 of 2 submissions, got %d of %d", len(list.Submissions), list.Total)
	}

	out, isErr = call(t, h.getSubmission, map[string]any{"id": id})
	if isErr {
		t.Fatalf("get failed: %s", out)
	}
	var dto SubmissionDTO
	if err := json.Unmarshal([]byte(out), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.Message != "Tom & Jerry say hi" {
		t.Errorf("expected decoded message, got %q", dto.Message)
	}

	if _, isErr := call(t, h.getSubmission, map[string]any{"id": "bogus"}); !isErr {
		t.Error("expected error for malformed id")
	}
	if _, isErr := call(t, h.getSubmission, map[string]any{"id": uuid.NewString()}); !isErr {
		t.Error("expected error for unknown id")
	}
}

func TestGetActivityLog(t *testing.T) {
	h := newTestHandlers(t)
	models.LogActivity(h.db, "submission", "abc", "received", "hello", "127.0.0.1", "test")
	models.LogActivity(h.db, "auth", "", "login", "", "127.0.0.1", "test")

	out, _ := call(t, h.getActivityLog, map[string]any{"entity_type": "auth"})
	var acts []ActivityDTO
	if err := json.Unmarshal([]byte(out), &acts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(acts) != 1 || acts[0].Action != "login" {
		t.Errorf("expected only the login entry, got %+v", acts)
	}
}

func TestBackupDatabase(t *testing.T) {
	h := newTestHandlers(t)
	seed(t, h.db, "Ada")

	out, isErr := call(t, h.backupDatabase, nil)
	if isErr {
		t.Fatalf("backup failed: %s", out)
	}
	if !strings.Contains(out, "folio-db-") {
		t.Errorf("expected backup name in output, got %s", out)
	}

	list, err := h.backups.ListBackups()
	if err != nil || len(list) != 1 {
		t.Errorf("expected one backup on disk, got %d (%v)", len(list), err)
	}
}

func TestToInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{float64(7), 7, true},
		{3, 3, true},
		{"12", 12, true},
		{json.Number("5"), 5, true},
		{true, 0, false},
	}
	for _, c := range cases {
		got, err := toInt(c.in)
		if (err == nil) != c.ok || got != c.want {
			t.Errorf("toInt(%#v) = %d, %v", c.in, got, err)
		}
	}
}
