// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/creachadair/jsonc/internal/serialize"
)

// Log writes its arguments to the codec's output stream on a single line,
// separated by spaces. Strings, numbers, and booleans are written as plain
// text; other values are written as compact JSON, with cycles marked. A nil
// argument is written as null.
//
// An error argument is written as its message, and causes the whole line to
// go to the error stream instead. If the error implements [fmt.Formatter],
// its "%+v" form is used, so that errors that carry a stack trace report it.
func (c *Codec) Log(args ...any) { c.writeLog(args, "") }

// Logp is like [Codec.Log], but renders JSON values with two-space
// indentation.
func (c *Codec) Logp(args ...any) { c.writeLog(args, Spaces(2)) }

func (c *Codec) writeLog(args []any, indent string) {
	w := c.stream
	parts := make([]string, len(args))
	for i, arg := range args {
		if err, ok := arg.(error); ok {
			w = c.streamErr
			parts[i] = errorText(err)
		} else {
			parts[i] = logText(arg, indent)
		}
	}
	if _, err := io.WriteString(w, strings.Join(parts, " ")+"\n"); err != nil {
		c.log.Error(err, "log write failed")
	}
}

func errorText(err error) string {
	if _, ok := err.(fmt.Formatter); ok {
		return fmt.Sprintf("%+v", err)
	}
	return err.Error()
}

// logText renders a single log argument.
func logText(arg any, indent string) string {
	switch reflect.ValueOf(arg).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(arg)
	}
	s, err := serialize.Marshal(arg, serialize.Options{Indent: indent})
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

// Log writes its arguments to standard output. See [Codec.Log].
func Log(args ...any) { std.Log(args...) }

// Logp writes its arguments to standard output with indentation. See
// [Codec.Logp].
func Logp(args ...any) { std.Logp(args...) }
