package preserve

import "regexp"

// Compiled fragment patterns. Package-level regexps are stateless and safe
// for concurrent use: every call scans from the start of its input, so no
// scan position leaks between requests.
var (
	// Opening or closing HTML tag: "<", optional "/", letter-led name,
	// optional attribute text, ">". Best-effort token matching, not a
	// compliant HTML parser.
	tagRe = regexp.MustCompile(`</?[a-zA-Z][^<>]*>`)

	// HTML entity: named ("&nbsp;"), decimal ("&#160;"), or hex ("&#xA0;"),
	// always terminated by ";".
	entityRe = regexp.MustCompile(`&(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#[xX][0-9a-fA-F]+);`)

	// ASCII colon. The full-width colon is never encoded; it is only
	// repaired during decode.
	colonRe = regexp.MustCompile(`:`)
)

// fullWidthColon is an artifact some translation engines emit in place of
// the ASCII colon.
const fullWidthColon = "："

// ContainsMarkup reports whether text holds any fragment worth protecting
// through the encode/decode cycle: an HTML tag or an HTML entity. Callers
// use it to skip the pipeline for plain prose.
func ContainsMarkup(text string) bool {
	return tagRe.MatchString(text) || entityRe.MatchString(text)
}
