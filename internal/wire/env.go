package wire

import "github.com/iMrDJAi/microcbor/internal/model"

// env is the per-traversal state described in spec.md §3's "codec
// environment": the current key path and the "next string is a map key"
// flag. Its lifetime is exactly one top-level value traversal; Encoder
// and Decoder each own one and never share it, so there is no global
// mutable state anywhere in this package.
type env struct {
	path  model.KeyPath
	isKey bool
}

func (e *env) pushKey(key string) {
	e.path = append(e.path, model.KeyElem(key))
}

func (e *env) pushIndex(i int) {
	e.path = append(e.path, model.IndexElem(i))
}

func (e *env) pop() {
	e.path = e.path[:len(e.path)-1]
}
