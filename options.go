// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"io/fs"
	"strings"

	"github.com/creachadair/jsonc/internal/serialize"
)

// MaxIndent is the maximum length of an indentation string. Longer strings
// are truncated, and Spaces clamps its argument to this value.
const MaxIndent = 10

// Omit is a sentinel value that a [Reviver] or [ReplaceFunc] may return to
// remove a value from its enclosing structure. An object member is deleted;
// an array element becomes null.
var Omit = serialize.Omit

// A Reviver is called during parsing for each decoded value, after the values
// it contains. The key is the member key or the array index in decimal, and
// "" for the top-level value. The value returned replaces the decoded value.
type Reviver func(key string, value any) any

// A Replacer selects or transforms the values written by Stringify.
// It is either a [ReplaceFunc] or a [KeyList].
type Replacer interface {
	replacer()
}

// A ReplaceFunc is called for each value before it is written. The key is the
// member key or the array index in decimal, and "" for the top-level value.
// The value returned is written in place of the original.
type ReplaceFunc func(key string, value any) any

// A KeyList restricts the members written for every object to those whose
// keys are listed, in the order listed.
type KeyList []string

func (ReplaceFunc) replacer() {}
func (KeyList) replacer()     {}

// ParseOptions are settings for parsing. A nil *ParseOptions is ready for
// use and provides default settings.
type ParseOptions struct {
	// If not nil, Reviver is called for each decoded value.
	Reviver Reviver

	// If true, comments are not removed before decoding, so any comment in
	// the input is reported as a syntax error.
	KeepComments bool

	// If true, numbers are decoded as json.Number values that keep their
	// original text, rather than as float64.
	UseNumber bool
}

func (o *ParseOptions) reviver() Reviver {
	if o == nil {
		return nil
	}
	return o.Reviver
}

func (o *ParseOptions) keepComments() bool { return o != nil && o.KeepComments }
func (o *ParseOptions) useNumber() bool    { return o != nil && o.UseNumber }

// ReadOptions are settings for reading a file. They have the same meaning as
// for parsing.
type ReadOptions = ParseOptions

// StringifyOptions are settings for Stringify. A nil *StringifyOptions is
// ready for use and provides default settings.
type StringifyOptions struct {
	// If not nil, the replacer to apply to each value.
	Replacer Replacer

	// If not empty, output is written one value per line, and Indent is
	// repeated once per nesting level. Use [Spaces] for an indentation of a
	// given width.
	Indent string

	// If true, a cyclic reference is reported as an error of kind
	// [ErrCircular], instead of being written as "[Circular]".
	RejectCircular bool
}

func (o *StringifyOptions) settings() serialize.Options {
	if o == nil {
		return serialize.Options{}
	}
	return settingsFor(o.Replacer, o.Indent, o.RejectCircular)
}

// WriteOptions are settings for writing a file. A nil *WriteOptions is ready
// for use and provides default settings.
type WriteOptions struct {
	// The permission bits for a newly-created file. If zero, 0666 is used,
	// before the process umask is applied.
	Mode fs.FileMode

	// If true, missing parent directories of the file are not created, and
	// writing to a path whose directory does not exist fails.
	NoMkdir bool

	// If not nil, the replacer to apply to each value.
	Replacer Replacer

	// The indentation string, as for [StringifyOptions].
	Indent string
}

func (o *WriteOptions) mode() fs.FileMode {
	if o == nil || o.Mode == 0 {
		return 0666
	}
	return o.Mode
}

func (o *WriteOptions) noMkdir() bool { return o != nil && o.NoMkdir }

func (o *WriteOptions) settings() serialize.Options {
	if o == nil {
		return serialize.Options{}
	}
	return settingsFor(o.Replacer, o.Indent, false)
}

// settingsFor resolves a replacer and indentation into serializer settings.
func settingsFor(r Replacer, indent string, rejectCircular bool) serialize.Options {
	opts := serialize.Options{Indent: clampIndent(indent), RejectCircular: rejectCircular}
	switch t := r.(type) {
	case ReplaceFunc:
		opts.Replace = t
	case KeyList:
		opts.Keys = t
	}
	return opts
}

// Spaces returns an indentation string of n spaces, where n is clamped to the
// range 0 to [MaxIndent].
func Spaces(n int) string { return strings.Repeat(" ", max(0, min(n, MaxIndent))) }

// clampIndent truncates s to at most MaxIndent characters.
func clampIndent(s string) string {
	var n int
	for i := range s {
		if n == MaxIndent {
			return s[:i]
		}
		n++
	}
	return s
}
