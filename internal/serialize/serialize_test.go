// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package serialize_test

import (
	"encoding/json"
	"errors"
	"iter"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/creachadair/jsonc/internal/serialize"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

type inner struct {
	Z int `json:"z"`
}

type sample struct {
	Name  string `json:"name"`
	Skip  int    `json:"-"`
	Empty string `json:",omitempty"`
	Count int
	inner
	hidden int
}

type node struct {
	Name string
	Next *node
}

type upper string

func (u upper) MarshalText() ([]byte, error) { return []byte(strings.ToUpper(string(u))), nil }

type code int

func (c code) MarshalText() ([]byte, error) { return []byte("c" + strconv.Itoa(int(c))), nil }

type rawJSON string

func (r rawJSON) MarshalJSON() ([]byte, error) { return []byte(r), nil }

// ordered is a minimal implementation of serialize.Ordered.
type ordered struct {
	keys []string
	vals []any
}

func (o *ordered) Len() int { return len(o.keys) }

func (o *ordered) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for i, key := range o.keys {
			if !yield(key, o.vals[i]) {
				return
			}
		}
	}
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"Nil", nil, "null"},
		{"True", true, "true"},
		{"Int", 15, "15"},
		{"Uint8", uint8(3), "3"},
		{"NegInt", int64(-99), "-99"},
		{"Float", 1.5, "1.5"},
		{"Float32", float32(0.1), "0.1"},
		{"BigFloat", 1e21, "1e+21"},
		{"NotSoBig", 1e20, "100000000000000000000"},
		{"TinyFloat", 1e-7, "1e-7"},
		{"NegZero", math.Copysign(0, -1), "0"},
		{"String", "a\"b\n", `"a\"b\n"`},
		{"Comment", "a // b", `"a // b"`},
		{"Number", json.Number("12.50"), "12.50"},
		{"Bytes", []byte("hi"), `"aGk="`},
		{"Slice", []int{1, 2, 3}, "[1,2,3]"},
		{"EmptySlice", []string{}, "[]"},
		{"NilSlice", []string(nil), "null"},
		{"Array", [2]string{"a", "b"}, `["a","b"]`},
		{"Map", map[string]int{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{"IntKeys", map[int]bool{10: true, 2: false}, `{"10":true,"2":false}`},
		{"StringKindKeys", map[upper]int{"x": 1}, `{"x":1}`},
		{"TextKeys", map[code]string{7: "seven"}, `{"c7":"seven"}`},
		{"NilMap", map[string]any(nil), "null"},
		{"Struct", sample{Name: "x", Skip: 5, Count: 2, inner: inner{Z: 3}, hidden: 1},
			`{"name":"x","Count":2,"z":3}`},
		{"Pointer", &inner{Z: 4}, `{"z":4}`},
		{"NilPointer", (*inner)(nil), "null"},
		{"TextMarshaler", upper("abc"), `"ABC"`},
		{"Marshaler", rawJSON(` { "a" : [ 1, 2 ] } `), `{"a":[1,2]}`},
		{"Ordered", &ordered{keys: []string{"z", "a"}, vals: []any{1, 2}}, `{"z":1,"a":2}`},
		{"OmitFuncMember", map[string]any{"f": func() {}, "n": 1}, `{"n":1}`},
		{"NullFuncElement", []any{func() {}, make(chan int), 1}, `[null,null,1]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := serialize.Marshal(tc.input, serialize.Options{})
			if err != nil {
				t.Fatalf("Marshal %v: unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("Marshal %v: got %#q, want %#q", tc.input, got, tc.want)
			}
		})
	}
}

func TestMarshalIndent(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		indent string
		want   string
	}{
		{"Scalar", 5, "  ", "5"},
		{"Empty", map[string]any{"a": []any{}, "b": map[string]any{}}, "  ",
			"{\n  \"a\": [],\n  \"b\": {}\n}"},
		{"Nested", map[string]any{"a": []any{1, map[string]any{"c": true}}}, "  ",
			"{\n  \"a\": [\n    1,\n    {\n      \"c\": true\n    }\n  ]\n}"},
		{"Tabs", []int{1, 2}, "\t", "[\n\t1,\n\t2\n]"},
		{"Marshaler", map[string]any{"m": rawJSON(`{"x":[1,2]}`)}, "  ",
			"{\n  \"m\": {\n    \"x\": [\n      1,\n      2\n    ]\n  }\n}"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := serialize.Marshal(tc.input, serialize.Options{Indent: tc.indent})
			if err != nil {
				t.Fatalf("Marshal: unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Marshal (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	t.Run("Modify", func(t *testing.T) {
		input := map[string]any{"a": 1, "b": "text"}
		got, err := serialize.Marshal(input, serialize.Options{
			Replace: func(key string, v any) any {
				if key == "b" {
					return "modified " + v.(string)
				}
				return v
			},
			Indent: "  ",
		})
		if err != nil {
			t.Fatalf("Marshal: unexpected error: %v", err)
		}
		if want := "{\n  \"a\": 1,\n  \"b\": \"modified text\"\n}"; got != want {
			t.Errorf("Marshal: got %#q, want %#q", got, want)
		}
	})

	t.Run("Keys", func(t *testing.T) {
		var keys []string
		input := map[string]any{"x": []any{true, "y"}}
		_, err := serialize.Marshal(input, serialize.Options{
			Replace: func(key string, v any) any {
				keys = append(keys, key)
				return v
			},
		})
		if err != nil {
			t.Fatalf("Marshal: unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"", "x", "0", "1"}, keys); diff != "" {
			t.Errorf("Replace keys (-want, +got):\n%s", diff)
		}
	})

	t.Run("Omit", func(t *testing.T) {
		input := map[string]any{"x": 1, "y": []any{1, 2, 3}}
		got, err := serialize.Marshal(input, serialize.Options{
			Replace: func(key string, v any) any {
				if key == "x" || key == "1" {
					return serialize.Omit
				}
				return v
			},
		})
		if err != nil {
			t.Fatalf("Marshal: unexpected error: %v", err)
		}
		if want := `{"y":[1,null,3]}`; got != want {
			t.Errorf("Marshal: got %#q, want %#q", got, want)
		}
	})

	t.Run("OmitRoot", func(t *testing.T) {
		got, err := serialize.Marshal(1, serialize.Options{
			Replace: func(string, any) any { return serialize.Omit },
		})
		if !errors.Is(err, serialize.ErrUnsupported) {
			t.Errorf("Marshal: got (%q, %v), want %v", got, err, serialize.ErrUnsupported)
		}
	})

	t.Run("Panic", func(t *testing.T) {
		mtest.MustPanic(t, func() {
			serialize.Marshal([]int{1}, serialize.Options{
				Replace: func(key string, v any) any {
					if key == "0" {
						panic("bad element")
					}
					return v
				},
			})
		})
	})
}

func TestKeyList(t *testing.T) {
	input := map[string]any{
		"a": map[string]any{"b": 2, "c": 3},
		"b": 1,
		"c": 4,
	}
	got, err := serialize.Marshal(input, serialize.Options{Keys: []string{"c", "a", "c", "q"}})
	if err != nil {
		t.Fatalf("Marshal: unexpected error: %v", err)
	}
	if want := `{"c":4,"a":{"c":3}}`; got != want {
		t.Errorf("Marshal: got %#q, want %#q", got, want)
	}
}

func TestCircular(t *testing.T) {
	selfMap := map[string]any{"a": 1}
	selfMap["self"] = selfMap

	selfSlice := []any{1, nil}
	selfSlice[1] = selfSlice

	selfNode := &node{Name: "a"}
	selfNode.Next = selfNode

	ma := map[string]any{"name": "a"}
	mb := map[string]any{"name": "b", "a": ma}
	ma["b"] = mb

	shared := map[string]any{"k": 1}
	siblings := map[string]any{"x": shared, "y": []any{shared, shared}}

	selfOrdered := &ordered{keys: []string{"v", "me"}, vals: []any{true, nil}}
	selfOrdered.vals[1] = selfOrdered

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"Map", selfMap, `{"a":1,"self":"[Circular]"}`},
		{"Slice", selfSlice, `[1,"[Circular]"]`},
		{"Pointer", selfNode, `{"Name":"a","Next":"[Circular]"}`},
		{"Indirect", ma, `{"b":{"a":"[Circular]","name":"b"},"name":"a"}`},
		{"Ordered", selfOrdered, `{"v":true,"me":"[Circular]"}`},
		{"Shared", siblings, `{"x":{"k":1},"y":[{"k":1},{"k":1}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := serialize.Marshal(tc.input, serialize.Options{})
			if err != nil {
				t.Fatalf("Marshal: unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Marshal: got %#q, want %#q", got, tc.want)
			}

			// The output must be valid JSON.
			var v any
			if err := json.Unmarshal([]byte(got), &v); err != nil {
				t.Errorf("Output %#q is not valid: %v", got, err)
			}

			_, err = serialize.Marshal(tc.input, serialize.Options{RejectCircular: true})
			if tc.name == "Shared" {
				if err != nil {
					t.Errorf("Marshal(RejectCircular): unexpected error: %v", err)
				}
			} else if !errors.Is(err, serialize.ErrCycle) {
				t.Errorf("Marshal(RejectCircular): got %v, want %v", err, serialize.ErrCycle)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"NaN", math.NaN()},
		{"Inf", []any{math.Inf(-1)}},
		{"BadNumber", json.Number("1x")},
		{"BadKey", map[bool]int{true: 1}},
		{"BadMarshaler", rawJSON(`{"a":`)},
		{"Func", func() {}},
		{"Complex", complex(1, 2)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := serialize.Marshal(tc.input, serialize.Options{})
			if err == nil {
				t.Errorf("Marshal: got %#q, want error", got)
			} else {
				t.Logf("Marshal: got expected error: %v", err)
			}
		})
	}
}
