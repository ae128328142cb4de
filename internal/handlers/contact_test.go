package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"folio/internal/models"
	"folio/internal/notify"
)

type recordingNotifier struct {
	mu   sync.Mutex
	got  []models.Submission
	done chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 1)}
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Notify(_ context.Context, s models.Submission) error {
	r.mu.Lock()
	r.got = append(r.got, s)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func newContactApp(t *testing.T, n notify.Notifier) (*fiber.App, func() int) {
	t.Helper()
	database := newTestDB(t)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/contact", ContactPage(testSite))
	app.Post("/contact", ContactSubmit(database, testSite, n))
	count := func() int {
		c, err := models.CountSubmissions(database)
		if err != nil {
			t.Fatalf("count submissions: %v", err)
		}
		return c
	}
	return app, count
}

func postJSON(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestContactPage_Renders(t *testing.T) {
	app, _ := newContactApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/contact?sent=1", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{`name="email"`, `name="message"`, `name="company_url"`, "your message was sent"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestContactSubmit_JSONAccepted(t *testing.T) {
	n := newRecordingNotifier()
	app, count := newContactApp(t, n)

	status, out := postJSON(t, app, `{
		"name": "<b>Ada</b> Lovelace",
		"email": " ADA@Example.com ",
		"message": "Hello <script>alert(1)</script>I enjoyed your portfolio.",
		"website": "javascript:alert(1)",
		"budget": 5000
	}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", status, out)
	}
	if out["isValid"] != true {
		t.Errorf("expected isValid true, got %v", out["isValid"])
	}
	if id, _ := out["id"].(string); id == "" {
		t.Error("expected submission id in response")
	}
	if count() != 1 {
		t.Fatalf("expected 1 stored submission, got %d", count())
	}

	select {
	case <-n.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
	n.mu.Lock()
	got := n.got[0]
	n.mu.Unlock()
	if got.Name != "Ada Lovelace" {
		t.Errorf("unexpected name %q", got.Name)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("unexpected email %q", got.Email)
	}
	if strings.Contains(got.Message, "script") {
		t.Errorf("script survived sanitization: %q", got.Message)
	}
	if got.Website != "" {
		t.Errorf("expected dangerous URL to be dropped, got %q", got.Website)
	}
}

func TestContactSubmit_JSONInvalid(t *testing.T) {
	app, count := newContactApp(t, nil)

	status, out := postJSON(t, app, `{"name": "12345", "email": "nope", "message": "short"}`)
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if out["isValid"] != false {
		t.Errorf("expected isValid false, got %v", out["isValid"])
	}
	errs, _ := out["errors"].(map[string]any)
	for _, k := range []string{"name", "email", "message"} {
		if errs[k] == nil {
			t.Errorf("expected error for %s, got %v", k, errs)
		}
	}
	if count() != 0 {
		t.Error("invalid submission should not be stored")
	}
}

func TestContactSubmit_FormRedirects(t *testing.T) {
	app, count := newContactApp(t, nil)

	form := url.Values{
		"name":    {"Grace Hopper"},
		"email":   {"grace@navy.mil"},
		"message": {"Let's talk about compilers sometime."},
	}
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/contact?sent=1" {
		t.Errorf("unexpected redirect %q", loc)
	}
	if count() != 1 {
		t.Errorf("expected 1 stored submission, got %d", count())
	}
}

func TestContactSubmit_FormInvalidRerenders(t *testing.T) {
	app, _ := newContactApp(t, nil)

	form := url.Values{
		"name":    {`<img src=x onerror=alert(1)>Al`},
		"email":   {"broken"},
		"message": {"Long enough message body here."},
	}
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "valid email") {
		t.Error("expected email error in re-rendered form")
	}
	if strings.Contains(body, "onerror") {
		t.Error("event handler leaked into the page")
	}
}

func TestContactSubmit_HoneypotDiscarded(t *testing.T) {
	n := newRecordingNotifier()
	app, count := newContactApp(t, n)

	status, _ := postJSON(t, app, `{"name":"Bot","email":"bot@spam.test","message":"buy cheap things now","company_url":"http://spam.test"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("expected bots to see success, got %d", status)
	}
	if count() != 0 {
		t.Error("honeypot submission should not be stored")
	}
	select {
	case <-n.done:
		t.Error("honeypot submission should not notify")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestContactSubmit_BadJSON(t *testing.T) {
	app, _ := newContactApp(t, nil)

	req := httptest.NewRequest("POST", "/contact", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestContactSubmit_TooManyFields(t *testing.T) {
	app, _ := newContactApp(t, nil)

	var b strings.Builder
	b.WriteString("{")
	for i := 0; i <= maxFields; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"f%d":"v"`, i)
	}
	b.WriteString("}")

	req := httptest.NewRequest("POST", "/contact", strings.NewReader(b.String()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCSVCell(t *testing.T) {
	cases := map[string]string{
		"Tom &amp; Jerry": "Tom & Jerry",
		"=HYPERLINK(1)":   "'=HYPERLINK(1)",
		"@cmd":            "'@cmd",
		"plain":           "plain",
		"":                "",
		"&quot;hi&quot;":  `"hi"`,
	}
	for in, want := range cases {
		if got := csvCell(in); got != want {
			t.Errorf("csvCell(%q) = %q, want %q", in, got, want)
		}
	}
}
