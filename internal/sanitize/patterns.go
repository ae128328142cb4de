package sanitize

import "regexp"

// Compiled once; Go's RE2 engine matches in time linear in the input.
var (
	tagRegex = regexp.MustCompile(`<[^>]*>`)

	scriptRegex = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	iframeRegex = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe\s*>`)
	objectRegex = regexp.MustCompile(`(?is)<object\b[^>]*>.*?</object\s*>`)
	embedRegex  = regexp.MustCompile(`(?is)<embed\b[^>]*>.*?</embed\s*>`)

	linkTagRegex  = regexp.MustCompile(`(?i)<link\b[^>]*>`)
	metaTagRegex  = regexp.MustCompile(`(?i)<meta\b[^>]*>`)
	styleTagRegex = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)

	quotedHandlerRegex = regexp.MustCompile(`(?i)\bon\w+\s*=\s*(?:"[^"]*"|'[^']*')`)
	bareHandlerRegex   = regexp.MustCompile(`(?i)\bon\w+\s*=\s*[^\s>]+`)

	schemeRegex = regexp.MustCompile(`(?i)javascript:|data:`)

	emailShapeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitsOnlyRegex = regexp.MustCompile(`^[0-9]+$`)
)

// dangerousElements are removed with their bodies, in this order.
var dangerousElements = []*regexp.Regexp{
	scriptRegex,
	iframeRegex,
	objectRegex,
	embedRegex,
	linkTagRegex,
	metaTagRegex,
	styleTagRegex,
}
