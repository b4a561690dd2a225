package duplex

import (
	cbor "github.com/iMrDJAi/microcbor"
	"github.com/iMrDJAi/microcbor/internal/wire"
)

// EncodeStream is a push-style encoder: EncodeValue pushes a value in
// (run from whichever goroutine calls it) while Read, implementing
// io.Reader, lets a consumer pull the resulting bytes out as they are
// produced — the mirror image of DecodeStream.
type EncodeStream struct {
	br      *bridge
	enc     *wire.Encoder
	pending []byte
}

// NewEncodeStream starts an EncodeStream.
func NewEncodeStream(opts cbor.EncOptions) *EncodeStream {
	es := &EncodeStream{br: newBridge()}
	es.enc = wire.NewEncoder(func(chunk []byte) error {
		cp := append([]byte(nil), chunk...)
		return es.br.send(cp)
	}, opts)
	return es
}

// EncodeValue encodes v, blocking until every chunk it produces has been
// taken by Read — call it from its own goroutine when a reader drains
// concurrently, the way an io.Pipe writer would.
func (es *EncodeStream) EncodeValue(v cbor.Value) error {
	if err := es.enc.EncodeValue(v); err != nil {
		return err
	}
	return es.enc.Flush()
}

// Close signals that no further values will be encoded; a pending or
// future Read returns io.EOF once buffered chunks are drained.
func (es *EncodeStream) Close() error {
	es.br.close(nil)
	return nil
}

// CloseWithError aborts the stream, delivering err to Read.
func (es *EncodeStream) CloseWithError(err error) error {
	es.br.close(err)
	return nil
}

// Abort aborts the stream with ErrAborted.
func (es *EncodeStream) Abort() error {
	return es.CloseWithError(ErrAborted)
}

// Read implements io.Reader over the chunks EncodeValue produces.
func (es *EncodeStream) Read(p []byte) (int, error) {
	if len(es.pending) == 0 {
		chunk, err := es.br.recv()
		if err != nil {
			return 0, err
		}
		es.pending = chunk
	}
	n := copy(p, es.pending)
	es.pending = es.pending[n:]
	return n, nil
}
