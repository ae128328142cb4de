package sanitize

import "testing"

func TestKindFor(t *testing.T) {
	cases := map[string]FieldKind{
		"email":       KindEmail,
		"message":     KindMessage,
		"description": KindMessage,
		"content":     KindMessage,
		"url":         KindURL,
		"website":     KindURL,
		"link":        KindURL,
		"phone":       KindPhone,
		"telephone":   KindPhone,
		"mobile":      KindPhone,
		"name":        KindText,
		"subject":     KindText,
		"Email":       KindText,
		"":            KindText,
	}
	for name, want := range cases {
		if got := KindFor(name); got != want {
			t.Errorf("KindFor(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFieldKind_String(t *testing.T) {
	if KindURL.String() != "url" {
		t.Errorf("expected url, got %s", KindURL)
	}
	if FieldKind(99).String() != "unknown" {
		t.Errorf("expected unknown for out-of-range kind, got %s", FieldKind(99))
	}
}

func TestSanitizeForm(t *testing.T) {
	in := map[string]any{
		"name":    "<b>Ann</b> Lee",
		"email":   "  ANN@Example.com ",
		"message": 12345,
		"website": "javascript:alert(1)",
		"phone":   "call +44 20 7946 0958",
		"extra":   true,
		"subject": nil,
	}
	want := map[string]string{
		"name":    "Ann Lee",
		"email":   "ann@example.com",
		"message": "",
		"website": "",
		"phone":   " +44 20 7946 0958",
		"extra":   "",
		"subject": "",
	}

	got := SanitizeForm(in)
	if len(got) != len(in) {
		t.Fatalf("expected %d keys, got %d", len(in), len(got))
	}
	for k, w := range want {
		v, ok := got[k]
		if !ok {
			t.Errorf("key %q missing from sanitized form", k)
			continue
		}
		if v != w {
			t.Errorf("field %q = %q, want %q", k, v, w)
		}
	}
}

func TestSanitizeForm_Empty(t *testing.T) {
	got := SanitizeForm(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil map, got %#v", got)
	}
}

func TestClean_ValidatesSanitizedValues(t *testing.T) {
	clean, res := Clean(map[string]any{
		"name":    "  <i>Grace Hopper</i>  ",
		"email":   " GRACE@Navy.MIL ",
		"message": "<script>x()</script>Loved the compiler talk, thanks!",
	})
	if !res.Valid {
		t.Fatalf("expected valid submission, got errors %v", res.Errors)
	}
	if clean["email"] != "grace@navy.mil" {
		t.Errorf("unexpected email %q", clean["email"])
	}

	_, res = Clean(map[string]any{"message": "<script>long enough payload</script>hi"})
	if res.Valid || res.Errors["message"] == "" {
		t.Error("expected message to be too short once the script is removed")
	}
}
