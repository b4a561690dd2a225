package duplex

import (
	"io"

	cbor "github.com/iMrDJAi/microcbor"
	"github.com/iMrDJAi/microcbor/internal/rope"
	"github.com/iMrDJAi/microcbor/internal/wire"
)

type decodeResult struct {
	v   cbor.Value
	err error
}

// DecodeStream is a push-style decoder: the caller feeds encoded bytes in
// through Write while a background goroutine decodes top-level values as
// soon as enough input has arrived, deliverable through Next.
type DecodeStream struct {
	br      *bridge
	results chan decodeResult
}

// NewDecodeStream starts a DecodeStream. onFree, if non-nil, is called
// once for every chunk passed to Write after the decoder has fully
// consumed it, or when the decode loop ends while the chunk is still
// held, so the caller can return its backing array to a pool
// (spec.md §4.3/§9's chunk-identity recycling).
func NewDecodeStream(opts cbor.DecOptions, onFree func([]byte)) *DecodeStream {
	ds := &DecodeStream{br: newBridge(), results: make(chan decodeResult)}
	r := rope.NewPulling(onFree, ds.br.recv)
	dec := wire.NewDecoder(r, opts)
	go func() {
		ds.run(dec)
		r.Release()
	}()
	return ds
}

func (ds *DecodeStream) run(dec *wire.Decoder) {
	defer close(ds.results)
	for {
		v, err := dec.DecodeValue()
		ds.results <- decodeResult{v: v, err: err}
		if err != nil {
			return
		}
	}
}

// Write feeds the next chunk of encoded input. It blocks until the
// decoder goroutine takes this chunk, giving exactly one chunk of
// backpressure; it does not wait for the chunk to be fully consumed
// (onFree reports that). It returns cbor.ErrStreamClosed after Close or
// Abort.
func (ds *DecodeStream) Write(chunk []byte) error {
	return ds.br.send(chunk)
}

// Close signals a clean end of input; a subsequent Next returns io.EOF
// once all already-written input has been decoded.
func (ds *DecodeStream) Close() error {
	ds.br.close(nil)
	return nil
}

// CloseWithError aborts the stream; a subsequent Next returns err once
// already-written input has been decoded.
func (ds *DecodeStream) CloseWithError(err error) error {
	ds.br.close(err)
	return nil
}

// Abort aborts the stream with ErrAborted.
func (ds *DecodeStream) Abort() error {
	return ds.CloseWithError(ErrAborted)
}

// Next returns the next decoded top-level value, blocking until one is
// available.
func (ds *DecodeStream) Next() (cbor.Value, error) {
	r, ok := <-ds.results
	if !ok {
		return cbor.Value{}, io.EOF
	}
	return r.v, r.err
}
