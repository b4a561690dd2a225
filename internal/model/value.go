package model

import "math"

// Kind identifies the CBOR major-type family a Value holds.
type Kind int

const (
	KindInt Kind = iota
	KindBytes
	KindText
	KindArray
	KindMap
	KindBool
	KindNull
	KindUndefined
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBytes:
		return "bytes"
	case KindText:
		return "text"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// MapEntry is one (key, value) pair of a Value of kind KindMap. Entries
// preserve encounter order, matching spec.md's insertion-order invariant.
type MapEntry struct {
	Key   string
	Value Value
}

// Value is the tagged variant over the CBOR data model described in
// spec.md §3: unsigned/negative integers collapsed into a single signed
// int64 (the host's safe integer range is [-(2^53-1), 2^53-1], which fits
// comfortably in int64), byte strings, UTF-8 text strings, arrays,
// string-keyed ordered maps, booleans, null, undefined, and double floats.
type Value struct {
	kind    Kind
	i       int64
	f       float64
	text    string
	bytes   []byte
	array   []Value
	entries []MapEntry
	boolean bool
}

func Int(v int64) Value             { return Value{kind: KindInt, i: v} }
func Bytes(v []byte) Value          { return Value{kind: KindBytes, bytes: v} }
func Text(v string) Value           { return Value{kind: KindText, text: v} }
func Array(items ...Value) Value    { return Value{kind: KindArray, array: items} }
func Map(entries ...MapEntry) Value { return Value{kind: KindMap, entries: entries} }
func Bool(v bool) Value             { return Value{kind: KindBool, boolean: v} }
func Null() Value                   { return Value{kind: KindNull} }
func Undefined() Value              { return Value{kind: KindUndefined} }
func Float(v float64) Value         { return Value{kind: KindFloat, f: v} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.bytes, true
}

func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

func (v Value) Array() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.array, true
}

func (v Value) Map() ([]MapEntry, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.entries, true
}

func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolean, true
}

func (v Value) Float() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// Lookup returns the value for key in a KindMap Value, preserving
// first-match-wins semantics (decode already rejects duplicate keys).
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Equal reports structural equality per spec.md §8's round-trip property:
// map key order is irrelevant, but array order and map key sets matter.
func (a Value) Equal(b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindInt:
		return a.i == b.i
	case KindBytes:
		return bytesEqual(a.bytes, b.bytes)
	case KindText:
		return a.text == b.text
	case KindBool:
		return a.boolean == b.boolean
	case KindNull, KindUndefined:
		return true
	case KindFloat:
		if math.IsNaN(a.f) && math.IsNaN(b.f) {
			return true
		}
		return a.f == b.f
	case KindArray:
		if len(a.array) != len(b.array) {
			return false
		}
		for i := range a.array {
			if !a.array[i].Equal(b.array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.entries) != len(b.entries) {
			return false
		}
		for _, ea := range a.entries {
			bv, ok := b.Lookup(ea.Key)
			if !ok || !ea.Value.Equal(bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
