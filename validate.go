// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsonc

import "github.com/creachadair/jsonc/comment"

// IsJSON reports whether text is a valid JSON object or array. Other valid
// JSON values, such as numbers, strings, and null, are not accepted. If
// allowComments is true, comments are removed before checking; otherwise
// any comment makes the text invalid.
func (c *Codec) IsJSON(text string, allowComments bool) bool {
	if allowComments {
		text = comment.Strip(text, comment.Remove)
	}
	v, err := decode(text, true)
	if err != nil {
		return false
	}
	switch v.(type) {
	case *Object, []any:
		return true
	}
	return false
}

// IsJSON reports whether text is a valid JSON object or array. See
// [Codec.IsJSON].
func IsJSON(text string, allowComments bool) bool { return std.IsJSON(text, allowComments) }
