// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package comment implements a lexer that finds and removes JavaScript-style
// comments from JSON text.
//
// Two comment forms are recognized outside of string literals: line comments,
// which begin with "//" and run up to (but not including) the next newline,
// and block comments, which begin with "/*" and run through the next "*/".
// Comment delimiters inside a double-quoted string are ordinary text.
//
// The lexer does not validate the JSON grammar. Its output is meant to be
// checked by a strict JSON decoder. Malformed comment syntax never causes an
// error: an unterminated comment extends to the end of the input, and an
// unterminated string is passed through unchanged.
package comment

import (
	"strings"
	"unicode/utf8"
)

// Mode selects how Strip treats the text of a comment.
type Mode int

const (
	// Remove deletes comment text entirely.
	Remove Mode = iota

	// Blank replaces each character of comment text with a single space,
	// except for newlines which are kept, so that line numbers in the output
	// agree with the input.
	Blank
)

// Kind identifies the syntactic form of a comment.
type Kind byte

const (
	Line  Kind = iota + 1 // comment: // ... <LF>
	Block                 // comment: /* ... */
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line comment"
	case Block:
		return "block comment"
	default:
		return "invalid comment"
	}
}

// A Span describes the location of a comment in source text as a half-open
// range of byte offsets. The newline that ends a line comment is not part of
// its span.
type Span struct {
	Kind Kind
	Pos  int // the start offset, 0-based
	End  int // the end offset, 0-based (noninclusive)
}

// Strip returns a copy of text with its comments removed or blanked out
// according to mode.
func Strip(text string, mode Mode) string {
	var sb strings.Builder
	sb.Grow(len(text))
	lx := lexer{src: text}
	prev := 0
	for lx.next() {
		sb.WriteString(text[prev:lx.pos])
		if mode == Blank {
			blank(&sb, text[lx.pos:lx.end])
		}
		prev = lx.end
	}
	sb.WriteString(text[prev:])
	return sb.String()
}

// Spans reports the locations of all the comments in text, in order of
// occurrence.
func Spans(text string) []Span {
	var out []Span
	lx := lexer{src: text}
	for lx.next() {
		out = append(out, Span{Kind: lx.kind, Pos: lx.pos, End: lx.end})
	}
	return out
}

// blank writes a space to sb for each non-newline character of com, and
// copies newlines.
func blank(sb *strings.Builder, com string) {
	for _, ch := range com {
		if ch == '\n' {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
}

// state is the lexical state of the scan.
type state byte

const (
	sNormal       state = iota // bare JSON syntax
	sString                    // inside a string literal
	sLineComment               // inside a // comment
	sBlockComment              // inside a /* comment
)

// A lexer scans text in a single forward pass, looking no more than one
// character ahead, to find the spans of comments.
type lexer struct {
	src  string
	off  int   // offset of the next unread byte
	st   state // current lexical state
	esc  bool  // in sString: the previous character was an unescaped backslash
	kind Kind  // kind of the current comment
	pos  int   // start of the current comment
	end  int   // end of the current comment
}

// next advances lx to the next comment in the input, and reports whether one
// was found. When it returns true, lx.kind, lx.pos, and lx.end describe the
// comment.
func (lx *lexer) next() bool {
	for lx.off < len(lx.src) {
		ch := lx.src[lx.off]
		switch lx.st {
		case sNormal:
			if ch == '"' {
				lx.st = sString
			} else if ch == '/' && lx.off+1 < len(lx.src) {
				switch lx.src[lx.off+1] {
				case '/':
					lx.st, lx.kind = sLineComment, Line
				case '*':
					lx.st, lx.kind = sBlockComment, Block
				}
				if lx.st != sNormal {
					lx.pos = lx.off
					lx.off += 2
					continue
				}
			}

		case sString:
			if lx.esc {
				lx.esc = false
			} else if ch == '\\' {
				lx.esc = true
			} else if ch == '"' {
				lx.st = sNormal
			}

		case sLineComment:
			if ch == '\n' {
				// The newline is not part of the comment.
				return lx.emit(lx.off)
			}

		case sBlockComment:
			if ch == '*' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] == '/' {
				lx.off += 2
				return lx.emit(lx.off)
			}
		}

		// Comment delimiters and the characters that change state are all
		// ASCII, so other bytes of a multi-byte rune are skipped as a unit.
		if ch < utf8.RuneSelf {
			lx.off++
		} else {
			_, n := utf8.DecodeRuneInString(lx.src[lx.off:])
			lx.off += n
		}
	}

	// An unterminated comment runs to the end of the input.
	if lx.st == sLineComment || lx.st == sBlockComment {
		return lx.emit(len(lx.src))
	}
	return false
}

// emit records the end of the current comment and returns to the normal
// state.
func (lx *lexer) emit(end int) bool {
	lx.end = end
	lx.st = sNormal
	return true
}
