// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package comment_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/creachadair/jsonc/comment"
	"github.com/google/go-cmp/cmp"
	"github.com/tailscale/hujson"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		remove string
		blank  string
	}{
		{"Empty", "", "", ""},
		{"NoComments", `{"a": [1, 2]}`, `{"a": [1, 2]}`, `{"a": [1, 2]}`},
		{"Mixed",
			"// comments\n{\"x\":/*test*/1}",
			"\n{\"x\":1}",
			"           \n{\"x\":        1}"},
		{"LineAtEnd", "1 // one", "1 ", "1       "},
		{"BlockLines", "[1, /* a\nb */ 2]", "[1,  2]", "[1,     \n     2]"},
		{"CRLF", "// x\r\n1", "\n1", "     \n1"},
		{"Adjacent", "/**//**/1", "1", "        1"},
		{"StarSlash", "/* a */ */", " */", "        */"},
		{"Nested", "/* /* x */ y */", " y */", "           y */"},
		{"SlashInString", `"a // b"`, `"a // b"`, `"a // b"`},
		{"BlockInString", `["/* x */", 1]`, `["/* x */", 1]`, `["/* x */", 1]`},
		{"EscapedQuote", `"a\"//b" // c`, `"a\"//b" `, `"a\"//b"     `},
		{"EscapedBackslash", `"a\\" // c`, `"a\\" `, `"a\\"     `},
		{"LoneSlash", `1 / 2`, `1 / 2`, `1 / 2`},
		{"TrailingSlash", `1 /`, `1 /`, `1 /`},
		{"UnterminatedBlock", "1 /* and so on\n", "1 ", "1             \n"},
		{"UnterminatedString", `"a // b`, `"a // b`, `"a // b`},
		{"CommentInLineComment", "// a /* b\n1", "\n1", "         \n1"},
		{"LineInBlock", "/* // */1", "1", "        1"},
		{"Unicode", "/* \xc3\xa9\xe4\xb8\x96 */x", "x", "        x"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := comment.Strip(tc.input, comment.Remove); got != tc.remove {
				t.Errorf("Strip(%#q, Remove): got %#q, want %#q", tc.input, got, tc.remove)
			}
			if got := comment.Strip(tc.input, comment.Blank); got != tc.blank {
				t.Errorf("Strip(%#q, Blank): got %#q, want %#q", tc.input, got, tc.blank)
			}
		})
	}
}

func TestStripProperties(t *testing.T) {
	inputs := []string{
		"",
		"// comments\n{\"x\":/*test*/1}",
		"/* a */ /* b */ // c\n// d",
		`{"url": "http://x/*y*/", /* real */ "z": "\\"} // tail`,
		"/* unterminated\n\n",
		`"unterminated // string`,
		"\t[1,\r\n// two\r\n2]",
	}
	for _, input := range inputs {
		for _, mode := range []comment.Mode{comment.Remove, comment.Blank} {
			once := comment.Strip(input, mode)
			if twice := comment.Strip(once, mode); twice != once {
				t.Errorf("Strip(%#q, %v) is not idempotent:\nonce:  %#q\ntwice: %#q", input, mode, once, twice)
			}
			if got := comment.Spans(once); len(got) != 0 {
				t.Errorf("Spans(%#q): got %v, want none", once, got)
			}
		}

		blank := comment.Strip(input, comment.Blank)
		if len(blank) != len(input) {
			t.Errorf("Strip(%#q, Blank): length %d, want %d", input, len(blank), len(input))
		}
		if got, want := strings.Count(blank, "\n"), strings.Count(input, "\n"); got != want {
			t.Errorf("Strip(%#q, Blank): %d lines, want %d", input, got, want)
		}
	}
}

func TestSpans(t *testing.T) {
	tests := []struct {
		input string
		want  []comment.Span
	}{
		{"", nil},
		{`"// not a comment"`, nil},
		{"1 // a\n2", []comment.Span{{Kind: comment.Line, Pos: 2, End: 6}}},
		{"/* a */ [/**/] // z", []comment.Span{
			{Kind: comment.Block, Pos: 0, End: 7},
			{Kind: comment.Block, Pos: 9, End: 13},
			{Kind: comment.Line, Pos: 15, End: 19},
		}},
		{"x /* open", []comment.Span{{Kind: comment.Block, Pos: 2, End: 9}}},
	}
	for _, tc := range tests {
		got := comment.Spans(tc.input)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Spans(%#q) (-want, +got):\n%s", tc.input, diff)
		}
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[comment.Kind]string{
		comment.Line:    "line comment",
		comment.Block:   "block comment",
		comment.Kind(0): "invalid comment",
	} {
		if got := kind.String(); got != want {
			t.Errorf("Kind %d: got %q, want %q", kind, got, want)
		}
	}
}

// Check that stripped text decodes to the same values as the hujson
// standardizer produces for the same input.
func TestStandardizeAgreement(t *testing.T) {
	inputs := []string{
		`// leading
{
  "name": "widget", // trailing
  /* before */ "size": [1, 2 /* inside */, 3],
  "path": "a//b/*c*/d"
}`,
		`/* a */ [ /* b */ ] /* c */`,
		"{\"x\": /* multi\nline */ true}",
		`["\"// quoted", "\\", "/"] // done`,
	}
	for _, input := range inputs {
		std, err := hujson.Standardize([]byte(input))
		if err != nil {
			t.Fatalf("Standardize %#q: %v", input, err)
		}
		var want any
		if err := json.Unmarshal(std, &want); err != nil {
			t.Fatalf("Unmarshal standardized %#q: %v", std, err)
		}

		for _, mode := range []comment.Mode{comment.Remove, comment.Blank} {
			var got any
			text := comment.Strip(input, mode)
			if err := json.Unmarshal([]byte(text), &got); err != nil {
				t.Errorf("Unmarshal stripped %#q: %v", text, err)
				continue
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Strip(%#q, %v) (-want, +got):\n%s", input, mode, diff)
			}
		}
	}
}
