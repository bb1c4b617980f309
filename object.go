// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"iter"

	"github.com/creachadair/jsonc/internal/serialize"
)

// An Object is a JSON object whose members keep their order. Parse decodes
// every JSON object as an *Object, and Stringify writes an *Object with its
// members in order.
//
// Keys are expected to be unique. The methods of Object preserve this, but a
// caller that edits Members directly is responsible for it.
type Object struct {
	Members []Member
}

// A Member is a single key-value pair of an [Object].
type Member struct {
	Key   string
	Value any
}

// Field constructs an object member with the given key and value.
func Field(key string, value any) Member { return Member{Key: key, Value: value} }

// NewObject constructs an object with the given members. If a key occurs more
// than once, the last value is kept at the position of the first.
func NewObject(ms ...Member) *Object {
	o := &Object{Members: make([]Member, 0, len(ms))}
	for _, m := range ms {
		o.Set(m.Key, m.Value)
	}
	return o
}

// Len reports the number of members in o. A nil *Object is empty.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Members)
}

// At returns the member at offset i of o. It panics if i is out of range.
func (o *Object) At(i int) Member { return o.Members[i] }

// Find returns the offset of the member of o with the given key, or -1.
func (o *Object) Find(key string) int {
	if o == nil {
		return -1
	}
	for i, m := range o.Members {
		if m.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value of the member of o with the given key, and reports
// whether such a member exists.
func (o *Object) Get(key string) (any, bool) {
	if i := o.Find(key); i >= 0 {
		return o.Members[i].Value, true
	}
	return nil, false
}

// Set sets the value of the member of o with the given key. If there is no
// such member, a new one is added at the end.
func (o *Object) Set(key string, value any) {
	if i := o.Find(key); i >= 0 {
		o.Members[i].Value = value
	} else {
		o.Members = append(o.Members, Member{Key: key, Value: value})
	}
}

// Delete removes the member of o with the given key, and reports whether it
// was present.
func (o *Object) Delete(key string) bool {
	i := o.Find(key)
	if i < 0 {
		return false
	}
	o.Members = append(o.Members[:i], o.Members[i+1:]...)
	return true
}

// Keys returns the keys of o in order.
func (o *Object) Keys() []string {
	keys := make([]string, o.Len())
	for i := range keys {
		keys[i] = o.Members[i].Key
	}
	return keys
}

// All is a range function over the keys and values of o, in order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for i := range o.Len() {
			if !yield(o.Members[i].Key, o.Members[i].Value) {
				return
			}
		}
	}
}

// MarshalJSON implements the [encoding/json.Marshaler] interface. Members are
// written in order, and a cyclic reference is written as "[Circular]".
func (o *Object) MarshalJSON() ([]byte, error) {
	s, err := serialize.Marshal(o, serialize.Options{})
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
