package cbor

import "github.com/iMrDJAi/microcbor/internal/model"

// PathElem is one step of a KeyPath: either a string map key or a
// non-negative array index (spec.md §3).
type PathElem = model.PathElem

// KeyPath is the ordered traversal path from the root value to the
// current point, passed to transform hooks (spec.md §3).
type KeyPath = model.KeyPath

var (
	KeyElem   = model.KeyElem
	IndexElem = model.IndexElem
)
