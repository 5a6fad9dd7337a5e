// Package preserve shields HTML markup and colons from corruption by an
// opaque text transformation, typically a machine-translation call. Encode
// swaps every protected fragment for an opaque token and records the
// mapping; Decode restores the fragments afterward. The companion Sanitize
// strips tags that are not on a fixed allow-list.
package preserve

import "strings"

// Encode replaces every protected fragment in text with a freshly minted
// token and returns the processed text together with the record needed to
// undo the substitution. Passes run in a fixed order — tags, then entities,
// then remaining colons — each over the current text, so the entity pass
// never sees entity-like substrings inside already-tokenized tag attributes
// and the colon pass never touches colons inside tokens.
func Encode(text string) (string, *Record) {
	rec := NewRecord()

	out := tagRe.ReplaceAllStringFunc(text, rec.mint)
	out = entityRe.ReplaceAllStringFunc(out, rec.mint)
	out = colonRe.ReplaceAllStringFunc(out, rec.mint)

	return out, rec
}

// Decode restores every token in text back to its original fragment using
// the record produced by Encode, then rewrites any full-width colon the
// transformation introduced on its own to the ASCII colon.
//
// Token matching is case-insensitive because translation engines sometimes
// re-case otherwise-opaque tokens. A token absent from text is a no-op. If
// the transformed text happens to contain a byte sequence identical to a
// token, the wrong fragment is substituted silently — a known risk of the
// scheme, not a raised error.
func Decode(text string, rec *Record) string {
	out := text
	if rec != nil {
		for _, e := range rec.entries {
			out = replaceFold(out, e.token, e.original)
		}
	}
	return strings.ReplaceAll(out, fullWidthColon, ":")
}

// replaceFold replaces every ASCII-case-insensitive occurrence of old in s
// with repl. Only 'A'–'Z' are folded: tokens are ASCII, and full Unicode
// lowering can change byte length (İ, Ⱥ), which would desynchronize the
// offsets taken from the search copy.
func replaceFold(s, old, repl string) string {
	if old == "" {
		return s
	}
	lower := asciiLower(s)
	target := asciiLower(old)

	i := strings.Index(lower, target)
	if i < 0 {
		return s
	}

	var b strings.Builder
	for i >= 0 {
		b.WriteString(s[:i])
		b.WriteString(repl)
		s = s[i+len(old):]
		lower = lower[i+len(target):]
		i = strings.Index(lower, target)
	}
	b.WriteString(s)
	return b.String()
}

// asciiLower lowercases 'A'–'Z' byte for byte, leaving every other byte
// untouched, so len(asciiLower(s)) == len(s) always holds.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
