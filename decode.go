// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/creachadair/jsonc/internal/escape"
	"github.com/creachadair/jsonc/internal/scan"
	"go4.org/mem"
)

// decode parses text, which must contain a single strict JSON value.
// Objects are decoded as *Object, arrays as []any, and numbers as float64 or
// json.Number depending on useNumber.
func decode(text string, useNumber bool) (any, error) {
	h := &decodeHandler{useNumber: useNumber}
	if err := scan.NewStream(text).ParseSingle(h); err != nil {
		return nil, err
	}
	return h.root, nil
}

// A decodeHandler implements the scan.Handler interface to construct values
// from parser events.
type decodeHandler struct {
	useNumber bool
	stk       []*frame
	root      any
}

// A frame is an object or array under construction.
type frame struct {
	obj *Object
	pos map[string]int // obj: offset of each key in obj.Members
	key string         // obj: key of the current member

	arr []any
}

func (h *decodeHandler) top() *frame { return h.stk[len(h.stk)-1] }

func (h *decodeHandler) pop() *frame {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

// reduce adds v to the value under construction, or makes it the result.
func (h *decodeHandler) reduce(v any) {
	if len(h.stk) == 0 {
		h.root = v
		return
	}
	f := h.top()
	if f.obj == nil {
		f.arr = append(f.arr, v)
		return
	}

	// A repeated key keeps its first position, with the last value.
	if i, ok := f.pos[f.key]; ok {
		f.obj.Members[i].Value = v
	} else {
		f.pos[f.key] = len(f.obj.Members)
		f.obj.Members = append(f.obj.Members, Member{Key: f.key, Value: v})
	}
}

func (h *decodeHandler) BeginObject(*scan.Scanner) error {
	h.stk = append(h.stk, &frame{obj: &Object{Members: []Member{}}, pos: make(map[string]int)})
	return nil
}

func (h *decodeHandler) EndObject(*scan.Scanner) error {
	h.reduce(h.pop().obj)
	return nil
}

func (h *decodeHandler) BeginArray(*scan.Scanner) error {
	h.stk = append(h.stk, &frame{arr: []any{}})
	return nil
}

func (h *decodeHandler) EndArray(*scan.Scanner) error {
	h.reduce(h.pop().arr)
	return nil
}

func (h *decodeHandler) BeginMember(s *scan.Scanner) error {
	key, err := unquote(s.Text())
	if err != nil {
		return err
	}
	h.top().key = key
	return nil
}

func (h *decodeHandler) EndMember(*scan.Scanner) error { return nil }

func (h *decodeHandler) Value(s *scan.Scanner) error {
	switch s.Token() {
	case scan.String:
		str, err := unquote(s.Text())
		if err != nil {
			return err
		}
		h.reduce(str)
	case scan.Integer, scan.Number:
		if h.useNumber {
			h.reduce(json.Number(s.Text()))
			return nil
		}
		f, err := strconv.ParseFloat(s.Text(), 64)
		if errors.Is(err, strconv.ErrRange) {
			return &SyntaxError{
				Location: s.First(),
				Offset:   s.Span().Pos,
				Message:  "number " + s.Text() + " out of range",
			}
		} else if err != nil {
			return err
		}
		h.reduce(f)
	case scan.True, scan.False:
		h.reduce(s.Token() == scan.True)
	case scan.Null:
		h.reduce(nil)
	}
	return nil
}

// unquote decodes a quoted JSON string token.
func unquote(text string) (string, error) {
	return escape.Unquote(mem.S(text[1 : len(text)-1]))
}

// revive applies r to v and to each value it contains, innermost first, and
// returns the result. The key is the one to report for v itself.
func revive(key string, v any, r Reviver) any {
	switch t := v.(type) {
	case *Object:
		kept := t.Members[:0]
		for _, m := range t.Members {
			nv := revive(m.Key, m.Value, r)
			if nv == Omit {
				continue
			}
			m.Value = nv
			kept = append(kept, m)
		}
		clear(t.Members[len(kept):])
		t.Members = kept
	case []any:
		for i, elt := range t {
			nv := revive(strconv.Itoa(i), elt, r)
			if nv == Omit {
				nv = nil
			}
			t[i] = nv
		}
	}
	return r(key, v)
}
