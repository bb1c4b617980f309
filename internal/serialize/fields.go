// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package serialize

import (
	"cmp"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// A field describes an exported struct field that is written as an object
// member.
type field struct {
	name      string
	index     []int
	tagged    bool // name came from a struct tag
	omitEmpty bool
	omitZero  bool
}

// fieldCache maps a struct type to its []field.
var fieldCache sync.Map

// structMembers returns the encodable members of the struct value rv, in
// field order.
func structMembers(rv reflect.Value) []member {
	var ms []member
	for _, f := range fieldsOf(rv.Type()) {
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			continue // through a nil embedded pointer
		}
		if (f.omitEmpty && isEmpty(fv)) || (f.omitZero && fv.IsZero()) {
			continue
		}
		ms = append(ms, member{key: f.name, value: fv.Interface()})
	}
	return ms
}

func fieldsOf(t reflect.Type) []field {
	if v, ok := fieldCache.Load(t); ok {
		return v.([]field)
	}
	v, _ := fieldCache.LoadOrStore(t, typeFields(t))
	return v.([]field)
}

// typeFields returns the fields of struct type t that should be written,
// including fields promoted from embedded structs. Among fields with the
// same name, the shallowest wins; a tie is broken in favour of a tagged
// field, and otherwise all the tied fields are dropped.
func typeFields(t reflect.Type) []field {
	type level struct {
		typ   reflect.Type
		index []int
	}
	var all []field
	visited := make(map[reflect.Type]bool)
	next := []level{{typ: t}}
	for len(next) != 0 {
		cur := next
		next = nil
		for _, lv := range cur {
			if visited[lv.typ] {
				continue
			}
			visited[lv.typ] = true

			for i := range lv.typ.NumField() {
				sf := lv.typ.Field(i)
				ft := sf.Type
				if sf.Anonymous && ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if sf.Anonymous {
					if !sf.IsExported() && (ft.Kind() != reflect.Struct || sf.Type.Kind() == reflect.Pointer) {
						continue
					}
				} else if !sf.IsExported() {
					continue
				}
				tag := sf.Tag.Get("json")
				if tag == "-" {
					continue
				}
				name, opts, _ := strings.Cut(tag, ",")
				index := append(slices.Clip(lv.index), i)

				if name == "" && sf.Anonymous && ft.Kind() == reflect.Struct {
					next = append(next, level{typ: ft, index: index})
					continue
				}
				f := field{
					name:      name,
					index:     index,
					tagged:    name != "",
					omitEmpty: hasOption(opts, "omitempty"),
					omitZero:  hasOption(opts, "omitzero"),
				}
				if f.name == "" {
					f.name = sf.Name
				}
				all = append(all, f)
			}
		}
	}

	// Order by name, then depth, then tagged-first, so that the candidates for
	// each name are adjacent with the dominant one first.
	slices.SortStableFunc(all, func(a, b field) int {
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		if c := cmp.Compare(len(a.index), len(b.index)); c != 0 {
			return c
		}
		if a.tagged != b.tagged {
			if a.tagged {
				return -1
			}
			return 1
		}
		return 0
	})
	var out []field
	for i := 0; i < len(all); {
		j := i + 1
		for j < len(all) && all[j].name == all[i].name {
			j++
		}
		if dom, ok := dominant(all[i:j]); ok {
			out = append(out, dom)
		}
		i = j
	}
	slices.SortFunc(out, func(a, b field) int { return slices.Compare(a.index, b.index) })
	return out
}

// dominant returns the field that wins among fs, which all have the same name
// and are sorted by depth and tagging.
func dominant(fs []field) (field, bool) {
	if len(fs) > 1 && len(fs[0].index) == len(fs[1].index) && fs[0].tagged == fs[1].tagged {
		return field{}, false
	}
	return fs[0], true
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}
