package sanitize

// FieldKind selects the cleaning rule applied to a form field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindEmail
	KindMessage
	KindURL
	KindPhone
)

var kindNames = [...]string{
	KindText:    "text",
	KindEmail:   "email",
	KindMessage: "message",
	KindURL:     "url",
	KindPhone:   "phone",
}

func (k FieldKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// fieldKinds maps well-known field names to their kind. Names not listed
// here are plain text.
var fieldKinds = map[string]FieldKind{
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
}

// KindFor returns the kind for a field name. Matching is exact and
// case-sensitive.
func KindFor(name string) FieldKind {
	if k, ok := fieldKinds[name]; ok {
		return k
	}
	return KindText
}

// Sanitize runs v through the rule for k.
func (k FieldKind) Sanitize(v any) string {
	switch k {
	case KindEmail:
		return Email(v)
	case KindMessage:
		return Message(v)
	case KindURL:
		return URL(v)
	case KindPhone:
		return Phone(v)
	default:
		return Text(v)
	}
}

// SanitizeForm cleans every field of a submission. The result has exactly
// the keys of fields, each mapped to a string.
func SanitizeForm(fields map[string]any) map[string]string {
	out := make(map[string]string, len(fields))
	for name, v := range fields {
		out[name] = KindFor(name).Sanitize(v)
	}
	return out
}

// Clean sanitizes fields and validates the sanitized result.
func Clean(fields map[string]any) (map[string]string, Result) {
	clean := SanitizeForm(fields)
	return clean, Validate(clean)
}
