// Package stream provides pull-style streaming adapters over io.Reader
// and io.Writer (spec.md §4.4): a Decoder that blocks for more input only
// when an in-flight value actually needs it, and an Encoder that flushes
// each value's chunks to a Writer as they are produced.
//
// Grounded directly on fxamacker/cbor's Decoder/Encoder
// (other_examples/cc7d1e4a_fxamacker-cbor__stream.go.go), but without its
// retry-on-io.ErrUnexpectedEOF loop: internal/rope.Rope's Puller already
// blocks for more data exactly where the codec needs it, so one
// DecodeValue call either returns a complete value or the terminal error.
package stream

import (
	"io"

	cbor "github.com/iMrDJAi/microcbor"
	"github.com/iMrDJAi/microcbor/internal/rope"
	"github.com/iMrDJAi/microcbor/internal/wire"
)

const readChunkSize = 4096

// Decoder reads and decodes CBOR values from r, one DecodeValue per call.
type Decoder struct {
	r   io.Reader
	buf []byte
	dec *wire.Decoder
}

// NewDecoder returns a Decoder that reads from r.
func NewDecoder(r io.Reader, opts cbor.DecOptions) *Decoder {
	d := &Decoder{r: r, buf: make([]byte, readChunkSize)}
	rp := rope.NewPulling(nil, d.pull)
	d.dec = wire.NewDecoder(rp, opts)
	return d
}

// pull reads at least one byte from r, looping past zero-length non-error
// reads as io.Reader's contract allows.
func (d *Decoder) pull() ([]byte, error) {
	for {
		n, err := d.r.Read(d.buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, d.buf[:n])
			return chunk, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Decode reads the next top-level CBOR value. It returns io.EOF, matching
// encoding/json.Decoder's convention, once the stream is cleanly
// exhausted between values.
func (d *Decoder) Decode() (cbor.Value, error) {
	return d.dec.DecodeValue()
}

// Encoder writes CBOR-encoded values to w.
type Encoder struct {
	enc *wire.Encoder
}

// NewEncoder returns an Encoder that writes to w.
func NewEncoder(w io.Writer, opts cbor.EncOptions) *Encoder {
	return &Encoder{enc: wire.NewEncoder(func(chunk []byte) error {
		_, err := w.Write(chunk)
		return err
	}, opts)}
}

// Encode writes the CBOR encoding of v, flushing any partial tail chunk
// so each call leaves a complete, self-contained item on the wire.
func (e *Encoder) Encode(v cbor.Value) error {
	if err := e.enc.EncodeValue(v); err != nil {
		return err
	}
	return e.enc.Flush()
}
