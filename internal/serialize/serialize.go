// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package serialize implements a JSON encoder for arbitrary Go values that
// tolerates reference cycles.
//
// A composite value (map, slice, pointer, or ordered object) that is found
// again while its own contents are being written is replaced by the string
// "[Circular]", unless the caller asks for cycles to be reported as errors.
// Only the path from the root to the current value is tracked, so a value
// that is shared by sibling branches is written in full each time.
package serialize

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jsonc/internal/escape"
	"github.com/creachadair/jsonc/internal/scan"
	"github.com/creachadair/mds/mapset"
	"go4.org/mem"
)

// Circular is the placeholder written in place of a cyclic reference.
const Circular = "[Circular]"

var (
	// ErrCycle is reported for a cyclic reference when Options.RejectCircular
	// is set.
	ErrCycle = errors.New("circular reference")

	// ErrUnsupported is reported for values that have no JSON encoding.
	ErrUnsupported = errors.New("unsupported value")
)

// Omit is a sentinel value. When a replacer returns Omit for an object
// member, the member is left out of the output; for an array element, null
// is written in its place.
var Omit any = omit{}

type omit struct{}

// Ordered is the interface satisfied by object values that keep their members
// in a fixed order. Members are written in the order reported by All.
type Ordered interface {
	Len() int
	All() iter.Seq2[string, any]
}

// Options are the settings for Marshal. A zero Options writes compact
// output and replaces cycles with a placeholder.
type Options struct {
	// If not nil, Replace is called for the root value with key "", for each
	// object member with its key, and for each array element with its index
	// in decimal. The value it returns is encoded in place of v.
	Replace func(key string, v any) any

	// If not nil, only object members whose keys are listed are written, in
	// the order listed. This applies to objects at every depth.
	Keys []string

	// If not empty, output is written one value per line, and Indent is
	// repeated once per nesting level.
	Indent string

	// If true, a cyclic reference is reported as an error wrapping ErrCycle
	// instead of being replaced.
	RejectCircular bool
}

// Marshal returns the JSON encoding of v according to opts.
func Marshal(v any, opts Options) (string, error) {
	e := &encoder{opts: opts, seen: mapset.New[handle]()}
	if opts.Keys != nil {
		have := mapset.New[string]()
		e.keys = make([]string, 0, len(opts.Keys))
		for _, key := range opts.Keys {
			if !have.Has(key) {
				have.Add(key)
				e.keys = append(e.keys, key)
			}
		}
	}
	v = e.replace("", v)
	if unrepresentable(v) {
		return "", unsupported(v)
	}
	if err := e.encode(v); err != nil {
		return "", err
	}
	return string(e.buf), nil
}

// A handle identifies a composite value by the location and shape of its
// storage. The length distinguishes a slice from a prefix of itself, and the
// type distinguishes a struct from its first field.
type handle struct {
	p uintptr
	n int
	t reflect.Type
}

func handleOf(rv reflect.Value) (handle, bool) {
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if !rv.IsNil() {
			return handle{p: rv.Pointer(), t: rv.Type()}, true
		}
	case reflect.Slice:
		if !rv.IsNil() && rv.Len() != 0 {
			return handle{p: rv.Pointer(), n: rv.Len(), t: rv.Type()}, true
		}
	}
	return handle{}, false
}

type encoder struct {
	buf   []byte
	opts  Options
	keys  []string // deduplicated opts.Keys
	seen  mapset.Set[handle]
	depth int
}

type member struct {
	key   string
	value any
}

func (e *encoder) replace(key string, v any) any {
	if e.opts.Replace == nil {
		return v
	}
	return e.opts.Replace(key, v)
}

// visit calls emit to write the contents of rv, unless rv is already being
// written by an enclosing call.
func (e *encoder) visit(rv reflect.Value, emit func() error) error {
	h, ok := handleOf(rv)
	if !ok {
		return emit()
	}
	if e.seen.Has(h) {
		if e.opts.RejectCircular {
			return fmt.Errorf("%w of type %v", ErrCycle, rv.Type())
		}
		e.buf = escape.AppendQuote(e.buf, mem.S(Circular))
		return nil
	}
	e.seen.Add(h)
	defer e.seen.Remove(h)
	return emit()
}

func (e *encoder) encode(v any) error {
	switch t := v.(type) {
	case nil:
		e.buf = append(e.buf, "null"...)
		return nil
	case Ordered:
		rv := reflect.ValueOf(v)
		if isNilPointer(rv) {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		return e.visit(rv, func() error { return e.writeObject(orderedMembers(t)) })
	case json.Number:
		return e.writeNumber(t)
	case json.Marshaler:
		if isNilPointer(reflect.ValueOf(v)) {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		return e.writeMarshaler(t)
	case encoding.TextMarshaler:
		if isNilPointer(reflect.ValueOf(v)) {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		text, err := t.MarshalText()
		if err != nil {
			return fmt.Errorf("calling MarshalText for %T: %w", v, err)
		}
		e.buf = escape.AppendQuote(e.buf, mem.B(text))
		return nil
	}
	return e.encodeValue(reflect.ValueOf(v))
}

func (e *encoder) encodeValue(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Bool:
		e.buf = strconv.AppendBool(e.buf, rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf = strconv.AppendInt(e.buf, rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.buf = strconv.AppendUint(e.buf, rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		buf, err := appendFloat(e.buf, rv.Float(), rv.Type().Bits())
		if err != nil {
			return err
		}
		e.buf = buf
	case reflect.String:
		e.buf = escape.AppendQuote(e.buf, mem.S(rv.String()))

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		return e.visit(rv, func() error { return e.encode(rv.Elem().Interface()) })

	case reflect.Map:
		if rv.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		return e.visit(rv, func() error {
			ms, err := mapMembers(rv)
			if err != nil {
				return err
			}
			return e.writeObject(ms)
		})

	case reflect.Slice:
		if rv.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		if isByteSlice(rv.Type()) {
			e.buf = append(e.buf, '"')
			e.buf = base64.StdEncoding.AppendEncode(e.buf, rv.Bytes())
			e.buf = append(e.buf, '"')
			return nil
		}
		return e.visit(rv, func() error { return e.writeArray(rv) })

	case reflect.Array:
		return e.writeArray(rv)

	case reflect.Struct:
		return e.writeObject(structMembers(rv))

	default:
		return unsupported(rv.Interface())
	}
	return nil
}

// writeObject writes the members of an object, subject to the key filter and
// the replacer.
func (e *encoder) writeObject(ms []member) error {
	if e.keys != nil {
		ms = e.filter(ms)
	}
	e.buf = append(e.buf, '{')
	e.depth++
	var n int
	for _, m := range ms {
		v := e.replace(m.key, m.value)
		if unrepresentable(v) {
			continue
		}
		if n > 0 {
			e.buf = append(e.buf, ',')
		}
		e.newline()
		e.buf = escape.AppendQuote(e.buf, mem.S(m.key))
		e.buf = append(e.buf, ':')
		if e.opts.Indent != "" {
			e.buf = append(e.buf, ' ')
		}
		if err := e.encode(v); err != nil {
			return err
		}
		n++
	}
	e.depth--
	if n > 0 {
		e.newline()
	}
	e.buf = append(e.buf, '}')
	return nil
}

// filter returns the members of ms whose keys are listed in e.keys, in the
// order of that list. If ms has multiple members with the same key, the last
// one wins.
func (e *encoder) filter(ms []member) []member {
	byKey := make(map[string]any, len(ms))
	for _, m := range ms {
		byKey[m.key] = m.value
	}
	var out []member
	for _, key := range e.keys {
		if v, ok := byKey[key]; ok {
			out = append(out, member{key: key, value: v})
		}
	}
	return out
}

func (e *encoder) writeArray(rv reflect.Value) error {
	e.buf = append(e.buf, '[')
	e.depth++
	n := rv.Len()
	for i := range n {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		e.newline()
		v := e.replace(strconv.Itoa(i), rv.Index(i).Interface())
		if unrepresentable(v) {
			v = nil
		}
		if err := e.encode(v); err != nil {
			return err
		}
	}
	e.depth--
	if n > 0 {
		e.newline()
	}
	e.buf = append(e.buf, ']')
	return nil
}

// writeNumber writes a json.Number, which must have valid JSON number syntax.
func (e *encoder) writeNumber(n json.Number) error {
	if n == "" {
		n = "0"
	}
	s := scan.NewScanner(string(n))
	if s.Next() != nil || (s.Token() != scan.Integer && s.Token() != scan.Number) ||
		s.Span().End != len(n) {
		return fmt.Errorf("%w: invalid number literal %q", ErrUnsupported, string(n))
	}
	e.buf = append(e.buf, n...)
	return nil
}

// writeMarshaler writes the output of a json.Marshaler, after checking that it
// is valid JSON and reformatting it to match the current indentation.
func (e *encoder) writeMarshaler(m json.Marshaler) error {
	data, err := m.MarshalJSON()
	if err != nil {
		return fmt.Errorf("calling MarshalJSON for %T: %w", m, err)
	}
	var out bytes.Buffer
	if e.opts.Indent == "" {
		err = json.Compact(&out, data)
	} else {
		err = json.Indent(&out, data, strings.Repeat(e.opts.Indent, e.depth), e.opts.Indent)
	}
	if err != nil {
		return fmt.Errorf("calling MarshalJSON for %T: %w", m, err)
	}
	e.buf = append(e.buf, out.Bytes()...)
	return nil
}

func (e *encoder) newline() {
	if e.opts.Indent == "" {
		return
	}
	e.buf = append(e.buf, '\n')
	for range e.depth {
		e.buf = append(e.buf, e.opts.Indent...)
	}
}

// mapMembers returns the members of a map in order of their encoded keys.
func mapMembers(rv reflect.Value) ([]member, error) {
	ms := make([]member, 0, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		key, err := mapKey(it.Key())
		if err != nil {
			return nil, err
		}
		ms = append(ms, member{key: key, value: it.Value().Interface()})
	}
	slices.SortFunc(ms, func(a, b member) int { return strings.Compare(a.key, b.key) })
	return ms, nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if isNilPointer(k) {
			return "", nil
		}
		text, err := tm.MarshalText()
		if err != nil {
			return "", fmt.Errorf("calling MarshalText for %T: %w", tm, err)
		}
		return string(text), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("%w: map key of type %v", ErrUnsupported, k.Type())
}

func orderedMembers(o Ordered) []member {
	ms := make([]member, 0, o.Len())
	for key, v := range o.All() {
		ms = append(ms, member{key: key, value: v})
	}
	return ms
}

// unrepresentable reports whether v has no JSON encoding of its own, so that
// it is left out of objects and written as null in arrays.
func unrepresentable(v any) bool {
	if v == Omit {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return true
	}
	return false
}

func unsupported(v any) error {
	if v == Omit {
		return fmt.Errorf("%w: omitted root value", ErrUnsupported)
	}
	return fmt.Errorf("%w of type %T", ErrUnsupported, v)
}

func isNilPointer(rv reflect.Value) bool {
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

var (
	marshalerType     = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// isByteSlice reports whether t is a slice of bytes that should be encoded as
// a base64 string.
func isByteSlice(t reflect.Type) bool {
	if t.Elem().Kind() != reflect.Uint8 {
		return false
	}
	pt := reflect.PointerTo(t.Elem())
	return !pt.Implements(marshalerType) && !pt.Implements(textMarshalerType)
}
