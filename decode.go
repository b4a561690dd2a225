package cbor

import (
	"github.com/iMrDJAi/microcbor/internal/model"
	"github.com/iMrDJAi/microcbor/internal/rope"
	"github.com/iMrDJAi/microcbor/internal/wire"
)

// Decode parses exactly one top-level CBOR value from data, per spec.md
// §4.3. Grounded on the teacher's NewDecoder(data, aligned) one-shot
// usage: feed the whole slice into a rope.Rope with no Puller, so any
// shortfall surfaces as rope.ErrNeedMore, translated here to
// ErrPrematureEnd (there being no further input to pull for a one-shot
// call).
func Decode(data []byte, opts DecOptions) (Value, error) {
	r := rope.New(nil)
	r.Feed(data)
	dec := wire.NewDecoder(r, opts)
	v, err := dec.DecodeValue()
	if err == rope.ErrNeedMore {
		return Value{}, model.ErrPrematureEnd
	}
	return v, err
}
