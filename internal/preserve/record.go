package preserve

import "fmt"

// Token delimiters. The sequence is deliberately rare: it does not occur in
// natural language or markup, so a translation engine treats the whole token
// as an opaque word and carries it through unchanged (modulo letter casing,
// which Decode tolerates).
const (
	tokenPrefix = "ZXQ"
	tokenSuffix = "QXZ"
)

// entry links one minted token to the fragment it replaced.
type entry struct {
	token    string
	original string
}

// Record maps placeholder tokens back to the fragments they replaced for one
// encode/decode cycle. Entries are kept in discovery order: all tags, then
// all entities, then all colons. Not goroutine-safe; one record per request,
// discarded after the matching Decode.
type Record struct {
	entries []entry
	counter int
}

// NewRecord creates an empty preservation record.
func NewRecord() *Record {
	return &Record{}
}

// mint allocates a fresh token for a fragment and registers the pair.
// The ordinal is zero-padded to three digits; past 999 it simply widens,
// it never wraps.
func (r *Record) mint(original string) string {
	tok := fmt.Sprintf("%s%03d%s", tokenPrefix, r.counter, tokenSuffix)
	r.counter++
	r.entries = append(r.entries, entry{token: tok, original: original})
	return tok
}

// Len returns the number of tokens minted so far.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// fragment returns the original fragment for a token.
func (r *Record) fragment(token string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, e := range r.entries {
		if e.token == token {
			return e.original, true
		}
	}
	return "", false
}
