package cbor

import "github.com/iMrDJAi/microcbor/internal/model"

// ValueThunk is passed to an OnValue decode hook; calling Decode performs
// the actual decode of the current item exactly once (spec.md §4.3, §9).
type ValueThunk = model.ValueThunk

// KeyThunk is the map-key analog of ValueThunk, used by OnKey decode
// hooks.
type KeyThunk = model.KeyThunk
