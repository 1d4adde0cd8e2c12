// Package jsonvalue models untrusted JSON documents as a closed set of value
// types (null, bool, number, string, array, object) with object member order
// preserved, and provides a path-tracking walker over them.
//
// Numbers keep their literal text so a parsed document re-encodes to the same
// bytes it was read from (modulo insignificant whitespace).
package jsonvalue

import (
	"strconv"
)

// Kind identifies the JSON type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is any JSON value. The concrete types are Null, Bool, Number, String,
// Array and *Object.
type Value interface {
	Kind() Kind
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number, stored as its literal text.
type Number string

// String is a JSON string.
type String string

// Array is a JSON array.
type Array []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }

// Float64 returns the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object that remembers member insertion order.
// The zero value is an empty object ready to use.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{}
}

func (*Object) Kind() Kind { return KindObject }

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.index == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Has reports whether key is present, regardless of its value.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v under key. An existing key keeps its position and gets the new
// value, which mirrors how duplicate keys resolve when parsing.
func (o *Object) Set(key string, v Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Keys returns member keys in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Members returns the members in order. The returned slice must not be modified.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

// IsEmpty reports whether v is falsy: missing (nil), null, false, the empty
// string, or a number equal to zero. Arrays and objects are never empty.
func IsEmpty(v Value) bool {
	switch t := v.(type) {
	case nil, Null:
		return true
	case Bool:
		return !bool(t)
	case String:
		return t == ""
	case Number:
		f, err := t.Float64()
		return err == nil && f == 0
	default:
		return false
	}
}
