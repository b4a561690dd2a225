package cbor

import "github.com/iMrDJAi/microcbor/internal/model"

// Kind identifies the CBOR major-type family a Value holds.
type Kind = model.Kind

const (
	KindInt       = model.KindInt
	KindBytes     = model.KindBytes
	KindText      = model.KindText
	KindArray     = model.KindArray
	KindMap       = model.KindMap
	KindBool      = model.KindBool
	KindNull      = model.KindNull
	KindUndefined = model.KindUndefined
	KindFloat     = model.KindFloat
)

// MapEntry is one (key, value) pair of a Value of kind KindMap. Entries
// preserve encounter order, matching spec.md's insertion-order invariant.
type MapEntry = model.MapEntry

// Value is the tagged variant over the CBOR data model described in
// spec.md §3. See internal/model.Value for the full doc comment; it is
// aliased here rather than duplicated so the type identity is shared with
// the internal codec packages.
type Value = model.Value

var (
	Int       = model.Int
	Bytes     = model.Bytes
	Text      = model.Text
	Array     = model.Array
	Map       = model.Map
	Bool      = model.Bool
	Null      = model.Null
	Undefined = model.Undefined
	Float     = model.Float
)
