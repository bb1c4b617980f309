// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package scan implements a strict lexical scanner and an event-driven
// parser for JSON text held in memory.
package scan

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Scanner reads lexical tokens from a string. Each call to Next advances the
// scanner to the next token, or reports an error.
//
// Comments are not part of the strict grammar; a "/" in the input is reported
// as a lexical error.
type Scanner struct {
	src string
	tok Token
	err error

	pos, end int // start and end offsets of current token

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from src.
func NewScanner(src string) *Scanner { return &Scanner{src: src} }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.err = nil
	s.tok = Invalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, ok := s.rune()
		if !ok {
			return s.setErr(io.EOF)
		}

		// Discard whitespace.
		if isSpace(ch) {
			if ch == '\n' {
				s.eline++
				s.ecol = 0
			}
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.tok = t
			return nil
		}

		// Handle numbers.
		if isNumStart(ch) {
			return s.scanNumber(ch)
		}

		// Handle string values.
		if ch == '"' {
			return s.scanString()
		}

		// Handle constants: true, false, null
		var want mem.RO
		switch ch {
		case 't':
			s.tok = True
			want = mem.S("true")
		case 'f':
			s.tok = False
			want = mem.S("false")
		case 'n':
			s.tok = Null
			want = mem.S("null")
		default:
			s.tok = Invalid
			return s.failf("unexpected %q", ch)
		}
		s.readWhile(isNameRune)
		if got := mem.S(s.src[s.pos:s.end]); !got.Equal(want) {
			s.tok = Invalid
			return s.failf("unknown constant %q", got.StringCopy())
		}
		return nil // OK, token is already set
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.
func (s *Scanner) Text() string { return s.src[s.pos:s.end] }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// First returns the line and column of the start of the current token.
func (s *Scanner) First() LineCol { return LineCol{Line: s.pline + 1, Column: s.pcol} }

// Last returns the line and column of the end of the current token.
func (s *Scanner) Last() LineCol { return LineCol{Line: s.eline + 1, Column: s.ecol} }

func (s *Scanner) scanString() error {
	var esc bool
	for {
		ch, ok := s.rune()
		if !ok {
			return s.failf("unterminated string")
		} else if ch == '"' && !esc {
			s.tok = String
			return nil
		}
		if esc {
			// We are awaiting the completion of a \-escape.
			switch ch {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				if err := s.readHex4(); err != nil {
					return s.failf("invalid Unicode escape: %w", err)
				}
			default:
				return s.failf("invalid %q after escape", ch)
			}
			esc = false
		} else if ch < ' ' {
			return s.failf("unescaped control %q", ch)
		} else {
			esc = ch == '\\'
		}
	}
}

func (s *Scanner) scanNumber(start rune) error {
	if start == '-' {
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		if _, err := s.require(isDigit, "digit"); err != nil {
			return err
		}
	}

	// Consume the remainder of an integer.
	s.readWhile(isDigit)

	// Check for extra leading zeroes, which JSON disallows.
	// That is: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.src[s.pos:s.end]) {
		return s.failf("extra leading zeroes")
	}
	s.tok = Integer

	// If a decimal point follows, consume a fractional part.
	if s.peek() == '.' {
		s.rune()
		if s.readWhile(isDigit) == 0 {
			return s.failf("no digits after decimal point")
		}
		s.tok = Number
	}

	// If an exponent follows, consume it.
	if ch := s.peek(); ch != 'E' && ch != 'e' {
		return nil
	}
	s.rune()
	ch, err := s.require(isExpStart, "sign or digit")
	if err != nil {
		return err
	}
	if s.readWhile(isDigit) == 0 && (ch == '-' || ch == '+') {
		// It's OK to have no digits if the previous rune was not a sign,
		// otherwise we have to have at least one.
		return s.failf("missing exponent digits")
	}
	s.tok = Number
	return nil
}

// rune reads the next rune of input, or reports false at the end of input.
func (s *Scanner) rune() (rune, bool) {
	if s.end >= len(s.src) {
		return 0, false
	}
	ch, nb := utf8.DecodeRuneInString(s.src[s.end:])
	s.end += nb
	s.ecol += nb
	return ch, true
}

// peek returns the next byte of input without consuming it, or 0 at the end
// of input.
func (s *Scanner) peek() byte {
	if s.end >= len(s.src) {
		return 0
	}
	return s.src[s.end]
}

// require reads a single rune matching f from the input, or returns an error
// mentioning the desired label.
func (s *Scanner) require(f func(rune) bool, label string) (rune, error) {
	ch, ok := s.rune()
	if !ok {
		return 0, s.failf("want %s, got end of input", label)
	} else if !f(ch) {
		return 0, s.failf("got %q, want %s", ch, label)
	}
	return ch, nil
}

// readWhile consumes ASCII bytes matching f from the input until the end of
// input or until a byte not matching f is found. It reports the number of
// bytes consumed.
func (s *Scanner) readWhile(f func(rune) bool) int {
	var nr int
	for s.end < len(s.src) && f(rune(s.src[s.end])) {
		s.end++
		s.ecol++
		nr++
	}
	return nr
}

// readHex4 reads exactly 4 hexadecimal digits from the input.
func (s *Scanner) readHex4() error {
	for range 4 {
		ch, ok := s.rune()
		if !ok {
			return io.ErrUnexpectedEOF
		} else if !isHexDigit(ch) {
			return fmt.Errorf("not a hex digit: %q", ch)
		}
	}
	return nil
}

type posError struct {
	pos int
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() error { return p.err }

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

func (s *Scanner) failf(msg string, args ...any) error {
	return s.setErr(posError{s.end, fmt.Errorf(msg, args...)})
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }
func isNameRune(ch rune) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// text has redundant leading zeroes, which RFC 8259 disallows.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(text string) bool {
	text = strings.TrimPrefix(text, "-")
	return len(text) > 1 && text[0] == '0'
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
