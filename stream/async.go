package stream

import (
	"context"

	cbor "github.com/iMrDJAi/microcbor"
	"github.com/iMrDJAi/microcbor/internal/rope"
	"github.com/iMrDJAi/microcbor/internal/wire"
)

// ChunkSource supplies the next input chunk for an AsyncDecoder, blocking
// until one is available or ctx is done. It is the asynchronous analog of
// io.Reader used by Decoder (spec.md §4.4).
type ChunkSource func(ctx context.Context) ([]byte, error)

// ChunkSink accepts one output chunk from an AsyncEncoder, blocking until
// it has been taken or ctx is done.
type ChunkSink func(ctx context.Context, chunk []byte) error

// Result carries the outcome of one asynchronous decode.
type Result struct {
	Value cbor.Value
	Err   error
}

// AsyncDecoder decodes values pulled from a ChunkSource without blocking
// its own goroutine: DecodeAsync runs the decode on a fresh goroutine and
// reports through a channel, the Go idiom for "awaitable" that the corpus
// itself reaches for wherever a true async/await primitive would be used
// elsewhere — there is no teacher or pack analog for asynchronous pull,
// so this is grounded on spec.md §4.4 directly.
type AsyncDecoder struct {
	dec *wire.Decoder
}

// NewAsyncDecoder creates an AsyncDecoder pulling chunks from source.
// source is responsible for honoring ctx cancellation on its own blocking
// operations; this package cannot interrupt a source call already in
// flight.
func NewAsyncDecoder(ctx context.Context, source ChunkSource, opts cbor.DecOptions) *AsyncDecoder {
	pull := func() ([]byte, error) { return source(ctx) }
	r := rope.NewPulling(nil, pull)
	return &AsyncDecoder{dec: wire.NewDecoder(r, opts)}
}

// DecodeAsync decodes the next top-level value on a new goroutine and
// returns a channel that receives exactly one Result.
func (d *AsyncDecoder) DecodeAsync() <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		v, err := d.dec.DecodeValue()
		ch <- Result{Value: v, Err: err}
	}()
	return ch
}

// Decode is DecodeAsync collapsed into a blocking call, returning early
// with ctx.Err() if ctx is done first (the decode goroutine itself keeps
// running until its ChunkSource call returns).
func (d *AsyncDecoder) Decode(ctx context.Context) (cbor.Value, error) {
	select {
	case r := <-d.DecodeAsync():
		return r.Value, r.Err
	case <-ctx.Done():
		return cbor.Value{}, ctx.Err()
	}
}

// AsyncEncoder encodes values and delivers their wire bytes to a
// ChunkSink without blocking its own goroutine.
type AsyncEncoder struct {
	enc *wire.Encoder
}

// NewAsyncEncoder creates an AsyncEncoder delivering chunks to sink.
func NewAsyncEncoder(ctx context.Context, sink ChunkSink, opts cbor.EncOptions) *AsyncEncoder {
	e := &AsyncEncoder{}
	e.enc = wire.NewEncoder(func(chunk []byte) error {
		return sink(ctx, chunk)
	}, opts)
	return e
}

// EncodeAsync encodes v on a new goroutine, flushing its tail chunk, and
// returns a channel that receives exactly one error (nil on success).
func (e *AsyncEncoder) EncodeAsync(v cbor.Value) <-chan error {
	ch := make(chan error, 1)
	go func() {
		if err := e.enc.EncodeValue(v); err != nil {
			ch <- err
			return
		}
		ch <- e.enc.Flush()
	}()
	return ch
}
