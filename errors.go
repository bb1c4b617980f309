// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creachadair/jsonc/internal/scan"
	"github.com/creachadair/jsonc/internal/serialize"
)

// Error kinds. Every error reported by an operation of this package has
// concrete type [*Error], and its Kind is one of these values, so callers may
// use [errors.Is] to classify a failure.
var (
	// ErrParse indicates malformed JSON, or comment syntax in text that was
	// required not to have any.
	ErrParse = errors.New("invalid JSON")

	// ErrCircular indicates a cyclic value that was required not to have any
	// cycles.
	ErrCircular = errors.New("circular reference")

	// ErrFileSystem indicates a failure to read or write a file.
	ErrFileSystem = errors.New("file system error")

	// ErrType indicates a value that has no JSON encoding.
	ErrType = errors.New("unsupported value")

	// ErrCallback indicates a panic in a caller-provided function, recovered
	// by a [SafeCodec].
	ErrCallback = errors.New("callback panicked")
)

// SyntaxError is the concrete type of the cause of an [ErrParse] error. It
// reports the line and column where the problem was found.
type SyntaxError = scan.SyntaxError

// Error is the concrete type of errors reported by this package.
type Error struct {
	Op   string // the operation that failed, e.g., "parse" or "write"
	Path string // the file path involved, if any
	Kind error  // one of the ErrX kinds
	Err  error  // the underlying cause
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("jsonc: ")
	sb.WriteString(e.Op)
	if e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Path)
	}
	sb.WriteString(": ")
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString(e.Kind.Error())
	}
	return sb.String()
}

// Unwrap reports both the kind and the cause of e.
func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

// encodeError classifies an error from the serializer.
func encodeError(op string, err error) *Error {
	kind := ErrType
	if errors.Is(err, serialize.ErrCycle) {
		kind = ErrCircular
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// panicError converts a recovered panic value into an error.
func panicError(op string, x any) error {
	cause, ok := x.(error)
	if !ok {
		cause = fmt.Errorf("%v", x)
	}
	return &Error{Op: op, Kind: ErrCallback, Err: fmt.Errorf("panic: %w", cause)}
}
