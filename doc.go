// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jsonc parses and formats JSON text that may contain comments.
//
// # Comments
//
// Input text may contain JavaScript-style line comments, which begin with
// "//" and run to the end of the line, and block comments, which are
// enclosed in "/*" and "*/". Comment delimiters inside a string are ordinary
// text. Comments are the only extension to strict JSON: trailing commas and
// unquoted keys are not accepted.
//
//	v, err := jsonc.Parse(`{
//	   // The name of the thing.
//	   "name": "widget",
//	   "size": 3 /* in meters */
//	}`, nil)
//
// To remove comments without parsing, use StripComments. In blank mode,
// comment text is replaced by spaces so that the line and column of every
// remaining character is unchanged:
//
//	clean := jsonc.StripComments(text, true)
//
// # Values
//
// Parse decodes a JSON object as an *Object, which keeps its members in the
// order they appear in the input, and a JSON array as []any. Stringify
// accepts the same values, as well as any Go value that [encoding/json] can
// encode. Unlike encoding/json, Stringify does not fail on a reference cycle:
// the cyclic reference is written as the string "[Circular]".
//
//	m := map[string]any{"name": "loop"}
//	m["self"] = m
//	s, _ := jsonc.Stringify(m, nil) // {"name":"loop","self":"[Circular]"}
//
// # Errors
//
// Operations report errors of concrete type *Error, whose Kind is one of
// ErrParse, ErrCircular, ErrFileSystem, ErrType, or ErrCallback. Use
// errors.Is to check the kind:
//
//	if _, err := jsonc.ReadFile("config.json", nil); errors.Is(err, jsonc.ErrFileSystem) {
//	   log.Printf("Cannot read config: %v", err)
//	}
//
// The Safe variable and the Codec.Safe method provide the same operations
// with their outcomes reported as a Result value. A SafeCodec also recovers
// from panics in caller-provided functions such as revivers and replacers.
//
//	res := jsonc.Safe.Parse(text, nil)
//	if res.Err != nil {
//	   log.Printf("Parse failed: %v", res.Err)
//	}
package jsonc
