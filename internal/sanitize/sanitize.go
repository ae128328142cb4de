// Package sanitize cleans untrusted form input before it is rendered,
// linked to, or stored.
//
// Every function accepts an arbitrary value and always returns a string.
// Anything that is not a Go string degrades to "" so one malformed field
// never aborts the processing of a whole submission. Acceptance is checked
// separately, on sanitized output, by Validate.
package sanitize

import (
	"net"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// Output ceilings, in characters.
const (
	MaxTextLength    = 10000
	MaxEmailLength   = 254
	MaxMessageLength = 50000
	MaxPhoneLength   = 50
)

// entities are the encodings emitted by encodeEntities. An ampersand that
// already starts one of them is kept as is, so output can be re-sanitized
// without double encoding.
var entities = []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#x27;"}

// Text cleans a short plain-text field such as a name or a subject line.
func Text(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}

	s = strings.TrimSpace(stripControl(s))
	s = tagRegex.ReplaceAllString(s, "")
	s = encodeEntities(s)
	return truncate(s, MaxTextLength)
}

// Email lower-cases an address and drops characters that have no business
// in one. It does not check the address shape; Validate does.
func Email(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}

	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '<', '>', '(', ')', '[', ']', '\\', ',', ';', ':', '"':
			return -1
		}
		return r
	}, s)
	return truncate(s, MaxEmailLength)
}

// Message cleans free-form text. Active elements are removed with their
// bodies, inline handlers are stripped and whatever markup is left is
// entity-encoded rather than removed.
//
// The javascript: and data: removal is a literal substring heuristic: it also
// eats harmless occurrences such as "metadata: none". It repeats until no
// scheme or handler is left, so nested payloads cannot reassemble one. Pages
// rendering the result still need context-aware escaping of their own.
func Message(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}

	s = strings.TrimSpace(stripControl(s))
	for _, re := range dangerousElements {
		s = re.ReplaceAllString(s, "")
	}
	s = stripActive(s)
	s = encodeEntities(s)
	return truncate(s, MaxMessageLength)
}

// URL accepts only absolute http and https URLs and returns them in
// canonical form. Anything else, including relative references and other
// schemes, yields "".
func URL(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}

	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" || u.Opaque != "" {
		return ""
	}
	return canonicalURL(u)
}

// Phone keeps digits, whitespace and the punctuation people type into phone
// numbers. No numbering-plan checks are made.
func Phone(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}

	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', unicode.IsSpace(r):
			return r
		case r == '-', r == '(', r == ')', r == '+':
			return r
		}
		return -1
	}, s)
	return truncate(s, MaxPhoneLength)
}

// stripActive removes inline handlers and script schemes until none remain.
// Every pass that changes s makes it shorter, so the loop terminates.
func stripActive(s string) string {
	for {
		next := quotedHandlerRegex.ReplaceAllString(s, "")
		next = bareHandlerRegex.ReplaceAllString(next, "")
		next = schemeRegex.ReplaceAllString(next, "")
		if next == s {
			return s
		}
		s = next
	}
}

// LogSafe removes line breaks so user input cannot forge log lines.
func LogSafe(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// canonicalURL lowercases the scheme and host, converts internationalized
// hosts to their ASCII form, drops default ports and removes dot segments
// from the path. It returns "" for a host IDNA rejects.
func canonicalURL(u *url.URL) string {
	u.Scheme = strings.ToLower(u.Scheme)

	host, port := u.Hostname(), u.Port()
	host = strings.ToLower(host)
	if !isASCII(host) && !strings.Contains(host, ":") {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return ""
		}
		host = ascii
	}
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		u.Host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		u.Host = "[" + host + "]"
	} else {
		u.Host = host
	}

	if escaped := removeDotSegments(u.EscapedPath()); escaped != u.EscapedPath() {
		p, err := url.PathUnescape(escaped)
		if err != nil {
			return ""
		}
		u.Path, u.RawPath = p, escaped
	}
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}
	return u.String()
}

// removeDotSegments applies RFC 3986 section 5.2.4 to an absolute, escaped
// path. A path ending in a dot segment keeps its trailing slash, and
// percent-encoded dots count as dots.
func removeDotSegments(p string) string {
	if !strings.HasPrefix(p, "/") {
		return p
	}
	segs := strings.Split(p[1:], "/")
	out := make([]string, 0, len(segs))
	for i, seg := range segs {
		last := i == len(segs)-1
		switch lower := strings.ToLower(seg); lower {
		case ".", "%2e":
			if last {
				out = append(out, "")
			}
		case "..", ".%2e", "%2e.", "%2e%2e":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			if last {
				out = append(out, "")
			}
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func encodeEntities(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if known := entityAt(s[i:]); known != "" {
				b.WriteString(known)
				i += len(known) - 1
				continue
			}
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#x27;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func entityAt(s string) string {
	for _, e := range entities {
		if strings.HasPrefix(s, e) {
			return e
		}
	}
	return ""
}

func isStrippedControl(r rune) bool {
	switch {
	case r <= 0x08, r == 0x0B, r == 0x0C:
		return true
	case r >= 0x0E && r <= 0x1F, r == 0x7F:
		return true
	}
	return false
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if isStrippedControl(r) {
			return -1
		}
		return r
	}, s)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
