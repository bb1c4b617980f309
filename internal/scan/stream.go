// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package scan

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// A Handler handles events from parsing an input stream. If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
//
// The Scanner passed to a Handler method is positioned at the token that
// triggered the event, and is only valid for the duration of that call.
type Handler interface {
	// Begin a new object, whose open brace is the current token.
	BeginObject(s *Scanner) error

	// End the most-recently-opened object, whose close brace is the current
	// token.
	EndObject(s *Scanner) error

	// Begin a new array, whose open bracket is the current token.
	BeginArray(s *Scanner) error

	// End the most-recently-opened array, whose close bracket is the current
	// token.
	EndArray(s *Scanner) error

	// Begin a new object member, whose key is the current token. The text of
	// the key is still quoted.
	BeginMember(s *Scanner) error

	// End the current object member. The current token is the one that
	// terminated the member (either Comma or RBrace).
	EndMember(s *Scanner) error

	// Report a data value. The type of the value can be recovered from the
	// token. String tokens are quoted.
	Value(s *Scanner) error
}

// Stream is a parser that consumes input and delivers events to a Handler
// corresponding with the structure of the input.
type Stream struct {
	s     *Scanner
	depth int // number of enclosing objects and arrays
}

// MaxDepth is the maximum nesting depth of objects and arrays accepted by
// ParseSingle.
const MaxDepth = 10000

// NewStream constructs a new Stream that consumes input from src.
func NewStream(src string) *Stream { return &Stream{s: NewScanner(src)} }

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// ParseSingle parses exactly one value from the input and delivers events to
// h. Apart from whitespace, the value must be the only content of the input.
// In case of a syntax error, the returned error has type [*SyntaxError].
func (s *Stream) ParseSingle(h Handler) (err error) {
	defer s.recoverParseError(&err)

	if err := s.s.Next(); err == io.EOF {
		s.syntaxError(nil, "unexpected end of input")
	} else if err != nil {
		s.syntaxError(err, "%v", err)
	}
	s.parseElement(h)

	if err := s.s.Next(); err == nil {
		s.syntaxError(nil, "unexpected %v after value", s.s.Token())
	} else if err != io.EOF {
		s.syntaxError(err, "%v", err)
	}
	return nil
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (s *Stream) parseElement(h Handler) {
	switch tok := s.s.Token(); tok {
	case LBrace:
		s.enter()
		s.checkError(h.BeginObject(s.s))
		s.parseMembers(h)
		s.checkError(h.EndObject(s.s))
		s.depth--
	case LSquare:
		s.enter()
		s.checkError(h.BeginArray(s.s))
		s.parseElements(h)
		s.checkError(h.EndArray(s.s))
		s.depth--
	case Integer, Number, String, True, False, Null:
		s.checkError(h.Value(s.s))
	case RBrace, RSquare, Comma, Colon:
		s.syntaxError(nil, "unexpected %v", tok)
	default:
		s.syntaxError(nil, "unknown token %v", tok)
	}
}

// parseMembers consumes zero of more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (s *Stream) parseMembers(h Handler) {
	tok := s.advance(RBrace, String)
	if tok == RBrace {
		return // end of object
	}
	for {
		// Parse a single member: "key": value
		s.checkError(h.BeginMember(s.s))
		s.advance(Colon)
		s.advance()
		s.parseElement(h)

		// Check whether we have more members (",") or are done ("}").
		tok := s.advance(RBrace, Comma)
		s.checkError(h.EndMember(s.s))
		if tok == RBrace {
			return // end of object
		}
		s.advance(String) // advance to next key
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (s *Stream) parseElements(h Handler) {
	if tok := s.advance(); tok == RSquare {
		return // end of array
	}
	s.parseElement(h)
	for {
		tok := s.advance(RSquare, Comma)
		if tok == RSquare {
			return // end of array
		}
		s.advance()
		s.parseElement(h)
	}
}

// enter records the start of an object or array at the current token.
func (s *Stream) enter() {
	if s.depth == MaxDepth {
		s.syntaxError(nil, "exceeded maximum nesting depth %d", MaxDepth)
	}
	s.depth++
}

func (s *Stream) advance(tokens ...Token) Token {
	if err := s.s.Next(); err == io.EOF {
		s.syntaxError(err, "%v", tokLabel(tokens, "end of input"))
	} else if err != nil {
		s.syntaxError(err, "%v", err)
	}
	tok := s.s.Token()
	if len(tokens) != 0 && !slices.Contains(tokens, tok) {
		s.syntaxError(nil, "%v", tokLabel(tokens, tok))
	}
	return tok
}

func (s *Stream) syntaxError(err error, msg string, args ...any) {
	var pe posError
	if errors.As(err, &pe) {
		msg, args = "%v", []any{pe.err}
	}
	panic(&SyntaxError{
		Location: s.s.First(),
		Offset:   s.s.Span().Pos,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	})
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// tokLabel makes a human-readable summary string for the given token types.
func tokLabel(tokens []Token, got any) string {
	if len(tokens) == 0 {
		return fmt.Sprintf("expected more input, got %v", got)
	}
	var exp string
	if len(tokens) == 1 {
		exp = tokens[0].String()
	} else {
		last := len(tokens) - 1
		ss := make([]string, len(tokens)-1)
		for i, tok := range tokens[:last] {
			ss[i] = tok.String()
		}
		exp = strings.Join(ss, ", ") + " or " + tokens[last].String()
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// SyntaxError is the concrete type of errors reported by the stream parser.
type SyntaxError struct {
	Location LineCol // where the offending token begins
	Offset   int     // byte offset of the offending token
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
