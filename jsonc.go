// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"io"
	"os"

	"github.com/creachadair/jsonc/comment"
	"github.com/creachadair/jsonc/internal/serialize"
	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/go-logr/logr"
)

// Config carries the settings for a [Codec].
// A zero value is ready for use and provides default settings.
type Config struct {
	// Values written by Log and Logp go to Stream. If nil, os.Stdout is used.
	Stream io.Writer

	// When an argument to Log or Logp is an error, the line goes to StreamErr
	// instead of Stream. If nil, os.Stderr is used.
	StreamErr io.Writer

	// Diagnostic messages about file operations and failed log writes are
	// sent to Logger. If it is the zero value, they are discarded.
	Logger logr.Logger
}

// A Codec parses and formats JSON text that may contain comments.
// A Codec is safe for concurrent use by multiple goroutines.
//
// The package-level functions use a Codec with default settings.
type Codec struct {
	stream    io.Writer
	streamErr io.Writer
	log       logr.Logger
}

// New constructs a new Codec with the given settings.
func New(config Config) *Codec {
	c := &Codec{
		stream:    config.Stream,
		streamErr: config.StreamErr,
		log:       config.Logger,
	}
	if c.stream == nil {
		c.stream = os.Stdout
	}
	if c.streamErr == nil {
		c.streamErr = os.Stderr
	}
	if c.log.GetSink() == nil {
		c.log = logr.Discard()
	}
	return c
}

var std = New(Config{})

// Parse parses text as a single JSON value, after removing comments.
//
// Objects are decoded as *Object, arrays as []any, strings as string,
// numbers as float64 (or json.Number, if opts.UseNumber is true), true and
// false as bool, and null as nil. If opts.Reviver is set, the decoded value is
// passed through it. A nil opts provides default settings.
//
// On failure, the error has kind [ErrParse] and its cause is a
// [*SyntaxError]. Comments are replaced with spaces before decoding, so the
// positions reported agree with the original text.
func (c *Codec) Parse(text string, opts *ParseOptions) (any, error) {
	return c.parse("parse", text, opts)
}

func (c *Codec) parse(op, text string, opts *ParseOptions) (any, error) {
	if !opts.keepComments() {
		text = comment.Strip(text, comment.Blank)
	}
	v, err := decode(text, opts.useNumber())
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrParse, Err: err}
	}
	if r := opts.reviver(); r != nil {
		if v = revive("", v, r); v == Omit {
			v = nil
		}
	}
	return v, nil
}

// Stringify renders v as JSON text. A nil opts provides default settings.
//
// Values are encoded the way [encoding/json] encodes them, except that the
// members of an *Object are written in order and map keys are sorted. A
// reference cycle is written as the string "[Circular]", unless
// opts.RejectCircular is true. A value with no JSON encoding, such as a
// function or channel, is omitted from an object and written as null in an
// array.
//
// On failure, the error has kind [ErrCircular] for a rejected cycle and
// [ErrType] otherwise.
func (c *Codec) Stringify(v any, opts *StringifyOptions) (string, error) {
	s, err := serialize.Marshal(v, opts.settings())
	if err != nil {
		return "", encodeError("stringify", err)
	}
	return s, nil
}

// StripComments removes the comments from text. If blank is true, each
// character of a comment other than a newline is replaced by a space, so the
// line and column of the remaining text do not change.
func (c *Codec) StripComments(text string, blank bool) string {
	if blank {
		return comment.Strip(text, comment.Blank)
	}
	return comment.Strip(text, comment.Remove)
}

// Beautify reformats the JSON value in text with the given indentation,
// removing comments. If indent == "", two spaces are used. Object members
// keep their order, and numbers keep their original text.
func (c *Codec) Beautify(text, indent string) (string, error) {
	if indent == "" {
		indent = Spaces(2)
	}
	return c.reformat("beautify", text, indent)
}

// Uglify reformats the JSON value in text without whitespace, removing
// comments.
func (c *Codec) Uglify(text string) (string, error) { return c.reformat("uglify", text, "") }

func (c *Codec) reformat(op, text, indent string) (string, error) {
	v, err := c.parse(op, text, &ParseOptions{UseNumber: true})
	if err != nil {
		return "", err
	}
	s, err := serialize.Marshal(v, serialize.Options{Indent: clampIndent(indent)})
	if err != nil {
		return "", encodeError(op, err)
	}
	return s, nil
}

// Normalize returns a copy of v as it would be decoded from its JSON
// encoding. Values with no JSON encoding are removed, structs and maps become
// *Object values, and a reference cycle becomes the string "[Circular]".
func (c *Codec) Normalize(v any, r Replacer) (any, error) {
	s, err := serialize.Marshal(v, settingsFor(r, "", false))
	if err != nil {
		return nil, encodeError("normalize", err)
	}
	return c.parse("normalize", s, &ParseOptions{KeepComments: true})
}

// Canonicalize returns the canonical form of the JSON value in text, as
// defined by RFC 8785, after removing comments. In canonical form, object
// members are sorted by key, there is no whitespace, and numbers and strings
// have a single representation.
func (c *Codec) Canonicalize(text string) (string, error) {
	text = comment.Strip(text, comment.Blank)
	v, err := decode(text, false)
	if err != nil {
		return "", &Error{Op: "canonicalize", Kind: ErrParse, Err: err}
	}

	// The canonicalizer requires an object or array at the top level.
	var wrapped bool
	switch v.(type) {
	case *Object, []any:
	default:
		text, wrapped = "["+text+"]", true
	}
	out, err := jsoncanonicalizer.Transform([]byte(text))
	if err != nil {
		return "", &Error{Op: "canonicalize", Kind: ErrParse, Err: err}
	}
	if wrapped {
		out = out[1 : len(out)-1]
	}
	return string(out), nil
}

// Parse parses text using a Codec with default settings. See [Codec.Parse].
func Parse(text string, opts *ParseOptions) (any, error) { return std.Parse(text, opts) }

// Stringify renders v using a Codec with default settings. See
// [Codec.Stringify].
func Stringify(v any, opts *StringifyOptions) (string, error) { return std.Stringify(v, opts) }

// StripComments removes the comments from text. See [Codec.StripComments].
func StripComments(text string, blank bool) string { return std.StripComments(text, blank) }

// Beautify reformats text with indentation. See [Codec.Beautify].
func Beautify(text, indent string) (string, error) { return std.Beautify(text, indent) }

// Uglify reformats text without whitespace. See [Codec.Uglify].
func Uglify(text string) (string, error) { return std.Uglify(text) }

// Normalize round-trips v through its JSON encoding. See [Codec.Normalize].
func Normalize(v any, r Replacer) (any, error) { return std.Normalize(v, r) }

// Canonicalize returns the canonical form of text. See [Codec.Canonicalize].
func Canonicalize(text string) (string, error) { return std.Canonicalize(text) }
