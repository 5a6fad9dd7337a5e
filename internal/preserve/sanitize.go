package preserve

import "strings"

// safeTags are harmless formatting tags kept by Sanitize. Everything else
// is deleted wholesale.
var safeTags = map[string]bool{
	"a":          true,
	"b":          true,
	"blockquote": true,
	"br":         true,
	"code":       true,
	"div":        true,
	"em":         true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"hr":         true,
	"i":          true,
	"li":         true,
	"ol":         true,
	"p":          true,
	"pre":        true,
	"s":          true,
	"small":      true,
	"span":       true,
	"strong":     true,
	"sub":        true,
	"sup":        true,
	"u":          true,
	"ul":         true,
}

// Sanitize removes every tag whose name is not on the safe-tag allow-list.
// Only the tag itself is deleted, never its enclosed text. Allow-listed
// tags pass through verbatim, attributes included and unexamined — this is
// a shallow, name-only defense, not an attribute scrubber.
func Sanitize(text string) string {
	return tagRe.ReplaceAllStringFunc(text, func(tag string) string {
		if safeTags[strings.ToLower(tagName(tag))] {
			return tag
		}
		return ""
	})
}

// tagName extracts the element name from a matched tag, e.g. "<em>",
// "</EM>", and `<em class="x">` all yield "em"/"EM".
func tagName(tag string) string {
	s := strings.TrimPrefix(tag, "<")
	s = strings.TrimPrefix(s, "/")
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return s[:i]
		}
	}
	return s
}
