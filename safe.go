// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsonc

import "context"

// A Result is the outcome of an operation of a [SafeCodec]. Exactly one of
// Value and Err is meaningful: if Err != nil, Value is the zero value.
type Result[T any] struct {
	Value T
	Err   error
}

// Unpack returns the value and error of r.
func (r Result[T]) Unpack() (T, error) { return r.Value, r.Err }

// OK reports whether r represents a success.
func (r Result[T]) OK() bool { return r.Err == nil }

// A SafeCodec provides the operations of a [Codec] with their outcomes
// reported as a [Result]. A SafeCodec never panics: a panic in a reviver,
// replacer, or other function called during the operation is recovered and
// reported as an error of kind [ErrCallback].
type SafeCodec struct{ c *Codec }

// Safe returns a SafeCodec that delegates to c.
func (c *Codec) Safe() SafeCodec { return SafeCodec{c: c} }

// Safe is a SafeCodec with default settings.
var Safe = std.Safe()

// capture calls f and packages its outcome, recovering from a panic.
func capture[T any](op string, f func() (T, error)) (r Result[T]) {
	defer func() {
		if x := recover(); x != nil {
			r = Result[T]{Err: panicError(op, x)}
		}
	}()
	v, err := f()
	if err != nil {
		return Result[T]{Err: err}
	}
	return Result[T]{Value: v}
}

// Parse is the safe form of [Codec.Parse].
func (s SafeCodec) Parse(text string, opts *ParseOptions) Result[any] {
	return capture("parse", func() (any, error) { return s.c.Parse(text, opts) })
}

// Stringify is the safe form of [Codec.Stringify].
func (s SafeCodec) Stringify(v any, opts *StringifyOptions) Result[string] {
	return capture("stringify", func() (string, error) { return s.c.Stringify(v, opts) })
}

// IsJSON reports whether text is a valid JSON object or array, as
// [Codec.IsJSON] does.
func (s SafeCodec) IsJSON(text string, allowComments bool) bool {
	return s.c.IsJSON(text, allowComments)
}

// StripComments removes the comments from text, as [Codec.StripComments]
// does. It never fails.
func (s SafeCodec) StripComments(text string, blank bool) string {
	return s.c.StripComments(text, blank)
}

// Beautify is the safe form of [Codec.Beautify].
func (s SafeCodec) Beautify(text, indent string) Result[string] {
	return capture("beautify", func() (string, error) { return s.c.Beautify(text, indent) })
}

// Uglify is the safe form of [Codec.Uglify].
func (s SafeCodec) Uglify(text string) Result[string] {
	return capture("uglify", func() (string, error) { return s.c.Uglify(text) })
}

// Normalize is the safe form of [Codec.Normalize].
func (s SafeCodec) Normalize(v any, r Replacer) Result[any] {
	return capture("normalize", func() (any, error) { return s.c.Normalize(v, r) })
}

// Canonicalize is the safe form of [Codec.Canonicalize].
func (s SafeCodec) Canonicalize(text string) Result[string] {
	return capture("canonicalize", func() (string, error) { return s.c.Canonicalize(text) })
}

// ReadFile is the safe form of [Codec.ReadFile].
func (s SafeCodec) ReadFile(path string, opts *ReadOptions) Result[any] {
	return capture("read", func() (any, error) { return s.c.ReadFile(path, opts) })
}

// ReadFiles is the safe form of [Codec.ReadFiles].
func (s SafeCodec) ReadFiles(ctx context.Context, paths []string, opts *ReadOptions) Result[[]any] {
	return capture("read", func() ([]any, error) { return s.c.ReadFiles(ctx, paths, opts) })
}

// WriteFile is the safe form of [Codec.WriteFile]. Its value reports whether
// the file was written.
func (s SafeCodec) WriteFile(path string, v any, opts *WriteOptions) Result[bool] {
	return capture("write", func() (bool, error) {
		if err := s.c.WriteFile(path, v, opts); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Log is the same as [Codec.Log].
func (s SafeCodec) Log(args ...any) { s.c.Log(args...) }

// Logp is the same as [Codec.Logp].
func (s SafeCodec) Logp(args ...any) { s.c.Logp(args...) }
