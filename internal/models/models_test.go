package models

import (
	"database/sql"
	"errors"
	"testing"

	"folio/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSubmissionFromFields(t *testing.T) {
	s := SubmissionFromFields(map[string]string{
		"name":      "Ann Lee",
		"email":     "ann@example.com",
		"telephone": "+1 555 0100",
		"link":      "https://ann.dev/",
		"content":   "Hello there, let us talk.",
		"subject":   "Hiring",
		"company":   "",
	})
	if s.Phone != "+1 555 0100" {
		t.Errorf("expected phone from telephone alias, got %q", s.Phone)
	}
	if s.Website != "https://ann.dev/" {
		t.Errorf("expected website from link alias, got %q", s.Website)
	}
	if s.Message != "Hello there, let us talk." {
		t.Errorf("expected message from content alias, got %q", s.Message)
	}
	if len(s.Extra) != 1 || s.Extra["subject"] != "Hiring" {
		t.Errorf("expected only subject in extra, got %v", s.Extra)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	database := newTestDB(t)

	s := &Submission{
		Name:     "Ann Lee",
		Email:    "ann@example.com",
		Message:  "I would like to hire you.",
		Extra:    map[string]string{"subject": "Work"},
		RemoteIP: "10.0.0.1",
	}
	if err := CreateSubmission(database, s); err != nil {
		t.Fatalf("CreateSubmission failed: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := GetSubmissionByID(database, s.ID)
	if err != nil {
		t.Fatalf("GetSubmissionByID failed: %v", err)
	}
	if got.Name != "Ann Lee" || got.Extra["subject"] != "Work" {
		t.Errorf("unexpected submission %+v", got)
	}
	if got.IsRead() {
		t.Error("new submission should be unread")
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	unread, err := CountUnread(database)
	if err != nil || unread != 1 {
		t.Fatalf("CountUnread = %d, %v; want 1", unread, err)
	}

	if err := MarkSubmissionRead(database, s.ID); err != nil {
		t.Fatalf("MarkSubmissionRead failed: %v", err)
	}
	got, _ = GetSubmissionByID(database, s.ID)
	if !got.IsRead() {
		t.Error("expected submission to be read")
	}
	if unread, _ := CountUnread(database); unread != 0 {
		t.Errorf("expected 0 unread, got %d", unread)
	}

	if err := DeleteSubmission(database, s.ID); err != nil {
		t.Fatalf("DeleteSubmission failed: %v", err)
	}
	if _, err := GetSubmissionByID(database, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := DeleteSubmission(database, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestListSubmissions_Paginates(t *testing.T) {
	database := newTestDB(t)
	for _, name := range []string{"first", "second", "third"} {
		if err := CreateSubmission(database, &Submission{Name: name}); err != nil {
			t.Fatalf("CreateSubmission failed: %v", err)
		}
	}

	page, err := ListSubmissions(database, 2, 0)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(page) != 2 || page[0].Name != "third" {
		t.Errorf("expected newest first, got %+v", page)
	}

	all, err := GetAllSubmissions(database)
	if err != nil || len(all) != 3 {
		t.Fatalf("GetAllSubmissions = %d, %v; want 3", len(all), err)
	}
	if n, _ := CountSubmissions(database); n != 3 {
		t.Errorf("expected 3 submissions, got %d", n)
	}
}

func TestActivities_FilterByType(t *testing.T) {
	database := newTestDB(t)
	LogActivity(database, "submission", "abc", "received", "Message from Ann", "10.0.0.1", "test")
	LogActivity(database, "auth", "admin", "login", "Admin signed in", "10.0.0.1", "test")

	all, err := GetRecentActivities(database, 10, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("GetRecentActivities = %d, %v; want 2", len(all), err)
	}

	subs, err := GetRecentActivities(database, 10, "submission")
	if err != nil {
		t.Fatalf("GetRecentActivities failed: %v", err)
	}
	if len(subs) != 1 || subs[0].EntityID != "abc" {
		t.Errorf("unexpected filtered activities %+v", subs)
	}
}
