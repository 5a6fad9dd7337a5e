package preserve

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestEncodeNoFragments(t *testing.T) {
	in := "plain prose without anything to protect"
	out, rec := Encode(in)
	if out != in {
		t.Errorf("text without fragments must pass through: got %q", out)
	}
	if rec.Len() != 0 {
		t.Errorf("expected empty record, got %d entries", rec.Len())
	}
	if got := Decode(out, rec); got != in {
		t.Errorf("round-trip failed: got %q", got)
	}
}

func TestEncodeLeavesNoRawFragments(t *testing.T) {
	in := `<a href="/x">link</a> &amp; more: see &#160; and <br/>`
	out, _ := Encode(in)

	if strings.ContainsAny(out, "<>:") {
		t.Errorf("encoded text leaks raw markup or colon: %q", out)
	}
	if strings.Contains(out, "&amp;") || strings.Contains(out, "&#160;") {
		t.Errorf("encoded text leaks raw entity: %q", out)
	}
}

func TestEncodeDecodeIdentityTransform(t *testing.T) {
	cases := []string{
		"",
		"no markup here",
		"a: b: c",
		"<strong>bold</strong> and <em>italic</em>",
		"&lt;escaped&gt; &amp; entities &#x1F600;",
		`<a href="http://example.com/?q=1&amp;r=2">mixed: tags &amp; colons</a>`,
		"<p>first</p>\n<p>second: &nbsp; third</p>",
	}
	for _, in := range cases {
		out, rec := Encode(in)
		if got := Decode(out, rec); got != in {
			t.Errorf("Encode/Decode round trip:\n  in  %q\n  got %q", in, got)
		}
	}
}

func TestEncodeOrderTagsEntitiesColons(t *testing.T) {
	in := `<b>x</b> &amp; y: z`
	_, rec := Encode(in)

	want := []string{"<b>", "</b>", "&amp;", ":"}
	if rec.Len() != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), rec.Len())
	}
	for i, e := range rec.entries {
		if e.original != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, e.original, want[i])
		}
	}
}

func TestEncodeExampleEndToEnd(t *testing.T) {
	in := "<strong>A</strong>: <code>B</code>"
	out, rec := Encode(in)

	if rec.Len() != 5 {
		t.Errorf("expected 5 tokens (four tags, one colon), got %d", rec.Len())
	}
	if strings.ContainsAny(out, "<:") {
		t.Errorf("encoded text leaks raw fragment: %q", out)
	}
	if got := Decode(out, rec); got != in {
		t.Errorf("decode of unchanged encoded text: got %q, want %q", got, in)
	}
}

func TestDecodeCaseInsensitive(t *testing.T) {
	in := "<strong>A</strong>"
	out, rec := Encode(in)

	// The mangle re-cases the payload letter too; only the markup is
	// guaranteed restored.
	for _, mangle := range []func(string) string{strings.ToLower, strings.ToUpper} {
		got := Decode(mangle(out), rec)
		if !strings.HasPrefix(got, "<strong>") || !strings.HasSuffix(got, "</strong>") {
			t.Errorf("re-cased tokens must still restore markup: got %q", got)
		}
	}
}

func TestDecodeTextWithLengthChangingCaseRunes(t *testing.T) {
	// İ (U+0130) shrinks and Ⱥ (U+023A) grows under full Unicode
	// lowering; the ASCII-only fold must leave both alone so token
	// offsets stay aligned with the transformed text.
	in := "<b>z</b>"
	out, rec := Encode(in)

	for _, affix := range []string{"İ", "Ⱥ", "ß", "İȺ mixed"} {
		mangled := affix + out + affix
		got := Decode(mangled, rec)
		want := affix + in + affix
		if got != want {
			t.Errorf("decode with %q neighbors: got %q, want %q", affix, got, want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("decode with %q neighbors produced invalid UTF-8: %q", affix, got)
		}
	}
}

func TestDecodeRecasedTokensAmidUnicode(t *testing.T) {
	in := "<b></b>"
	out, rec := Encode(in)

	mangled := "İ" + strings.ToLower(out) + "Ⱥ"
	got := Decode(mangled, rec)
	want := "İ" + in + "Ⱥ"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeMissingTokenIsNoop(t *testing.T) {
	_, rec := Encode("<b>x</b>")
	if got := Decode("the transform dropped everything", rec); got != "the transform dropped everything" {
		t.Errorf("missing tokens must be a no-op, got %q", got)
	}
}

func TestDecodeFullWidthColonRepair(t *testing.T) {
	out, rec := Encode("note: value")
	mangled := out + " extra： introduced"
	got := Decode(mangled, rec)
	if strings.Contains(got, "：") {
		t.Errorf("full-width colon not repaired: %q", got)
	}
	if !strings.HasPrefix(got, "note: value") {
		t.Errorf("original colon not restored: %q", got)
	}
}

func TestDecodeNilRecord(t *testing.T) {
	if got := Decode("text：here", nil); got != "text:here" {
		t.Errorf("nil record decode: got %q", got)
	}
}

func TestDecodeNeverMutatesRecord(t *testing.T) {
	in := "<b>x</b>: y"
	out, rec := Encode(in)
	before := rec.Len()
	Decode(out, rec)
	Decode(out, rec)
	if rec.Len() != before {
		t.Errorf("record mutated by decode: %d != %d", rec.Len(), before)
	}
	if got := Decode(out, rec); got != in {
		t.Errorf("repeated decode diverged: got %q", got)
	}
}

func TestRecordFragment(t *testing.T) {
	_, rec := Encode("<b>x</b>")
	tok := rec.entries[0].token
	if frag, ok := rec.fragment(tok); !ok || frag != "<b>" {
		t.Errorf("fragment(%q) = %q, %v", tok, frag, ok)
	}
	if _, ok := rec.fragment("ZXQ999QXZ"); ok {
		t.Error("fragment must miss for unminted token")
	}
}

func TestTokenOrdinalWidensPast999(t *testing.T) {
	rec := NewRecord()
	rec.counter = 1000
	tok := rec.mint(":")
	if tok != "ZXQ1000QXZ" {
		t.Errorf("ordinal must widen, never wrap: got %q", tok)
	}
}

func TestContainsMarkup(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"plain prose, no markup", false},
		{"a: b", false}, // colons alone do not trigger the pipeline
		{"3 < 5 and 5 > 3", false},
		{"<b>bold</b>", true},
		{"<br/>", true},
		{"&amp;", true},
		{"&#160;", true},
		{"&#xA0;", true},
		{"& loose ampersand ;", false},
		{"<123>not a tag</123>", false},
	}
	for _, tc := range cases {
		if got := ContainsMarkup(tc.in); got != tc.want {
			t.Errorf("ContainsMarkup(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestReplaceFold(t *testing.T) {
	cases := []struct {
		s, old, repl, want string
	}{
		{"abc", "b", "X", "aXc"},
		{"aBcAbC", "abc", "-", "--"},
		{"no match", "zz", "X", "no match"},
		{"zxq000qxz mid ZXQ000QXZ", "ZXQ000QXZ", "<b>", "<b> mid <b>"},
		{"\u023AZXQ000QXZ\u0130", "zxq000qxz", ":", "\u023A:\u0130"},
		// Only ASCII letters fold; Unicode case pairs do not match.
		{"\u0130", "i", "X", "\u0130"},
		{"", "x", "y", ""},
		{"keep", "", "y", "keep"},
	}
	for _, tc := range cases {
		if got := replaceFold(tc.s, tc.old, tc.repl); got != tc.want {
			t.Errorf("replaceFold(%q, %q, %q) = %q, want %q", tc.s, tc.old, tc.repl, got, tc.want)
		}
	}
}
