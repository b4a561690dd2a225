package cbor

import (
	"github.com/iMrDJAi/microcbor/internal/wire"
)

// Encode serializes v to a single CBOR-encoded byte slice, per spec.md
// §4.1. Grounded on the teacher's Encoder.Bytes() one-shot usage: build
// one wire.Encoder over an in-memory outbuf.Buffer, append every emitted
// chunk, flush, return the concatenation.
func Encode(v Value, opts EncOptions) ([]byte, error) {
	var out []byte
	enc := wire.NewEncoder(func(chunk []byte) error {
		out = append(out, chunk...)
		return nil
	}, opts)
	if err := enc.EncodeValue(v); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return out, nil
}
