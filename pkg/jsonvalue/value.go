package jsonvalue

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the JSON name of the kind
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  *Map
}

// NullValue returns the JSON null value.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue wraps a number in its textual form.
func NumberValue(n json.Number) Value { return Value{kind: Number, num: n} }

// IntValue wraps an integer.
func IntValue(n int64) Value { return NumberValue(json.Number(fmt.Sprintf("%d", n))) }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// ArrayValue wraps the given elements. The slice is copied.
func ArrayValue(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: Array, arr: arr}
}

// ObjectValue wraps an ordered map. The map is copied.
func ObjectValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: Object, obj: m.Clone()}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean held by v and whether v is a Bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == Bool }

// Number returns the number held by v and whether v is a Number.
func (v Value) Number() (json.Number, bool) { return v.num, v.kind == Number }

// Str returns the string held by v and whether v is a String.
func (v Value) Str() (string, bool) { return v.str, v.kind == String }

// Items returns a copy of the array elements, or nil when v is not an Array.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out
}

// Len returns the number of elements of an array or keys of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return v.obj.Len()
	default:
		return 0
	}
}

// Map returns a copy of the object held by v, or nil when v is not an Object.
func (v Value) Map() *Map {
	if v.kind != Object {
		return nil
	}
	return v.obj.Clone()
}

// Get looks up key when v is an Object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Map is an insertion-ordered string-keyed map of values.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap returns an empty ordered map.
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (m *Map) Set(key string, value Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns a shallow copy; values are immutable so this is enough.
func (m *Map) Clone() *Map {
	out := &Map{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]Value, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether a and b are the same JSON value. Object key order is
// not significant; numbers compare by their textual form.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Number:
		return a.num == b.num
	case String:
		return a.str == b.str
	case Array:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, k := range a.obj.keys {
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(a.obj.values[k], bv) {
				return false
			}
		}
		return true
	}
	return false
}
