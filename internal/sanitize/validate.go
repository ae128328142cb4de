package sanitize

import "unicode/utf8"

const (
	minMessageLength = 10
	minNameLength    = 2
	maxNameLength    = 100
)

// Validation messages, keyed by field in Result.Errors.
const (
	ErrEmailInvalid   = "Please enter a valid email address"
	ErrMessageShort   = "Message is too short (minimum 10 characters)"
	ErrNameShort      = "Name is too short (minimum 2 characters)"
	ErrNameLong       = "Name is too long (maximum 100 characters)"
	ErrNameOnlyDigits = "Name cannot be only numbers"
)

// Result reports whether sanitized data is acceptable. Errors holds one
// human-readable message per rejected field and is never nil.
type Result struct {
	Valid  bool              `json:"isValid"`
	Errors map[string]string `json:"errors"`
}

// Validate checks sanitized data. Each field is checked independently; a
// field with several violations reports the first one found, in the order
// too short, too long, only digits.
func Validate(data map[string]string) Result {
	errs := make(map[string]string)

	if email, ok := data["email"]; ok && email != "" {
		if !emailShapeRegex.MatchString(email) {
			errs["email"] = ErrEmailInvalid
		}
	}

	if msg, ok := data["message"]; ok && utf8.RuneCountInString(msg) < minMessageLength {
		errs["message"] = ErrMessageShort
	}

	if name, ok := data["name"]; ok {
		if m := nameError(name); m != "" {
			errs["name"] = m
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func nameError(name string) string {
	n := utf8.RuneCountInString(name)
	switch {
	case n < minNameLength:
		return ErrNameShort
	case n > maxNameLength:
		return ErrNameLong
	case digitsOnlyRegex.MatchString(name):
		return ErrNameOnlyDigits
	}
	return ""
}
