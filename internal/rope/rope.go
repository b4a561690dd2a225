// Package rope implements the decode-side chunk buffer from spec.md
// §4.3: an ordered sequence of input byte chunks with a read cursor,
// supporting allocate-ahead, exact-N advancement with optional copy into
// a caller-supplied target, and an on-free callback so an outer
// adapter can recycle input buffers.
//
// The advancement discipline (move a cursor within the first chunk
// rather than re-slicing it, and drop a chunk as soon as it has been
// fully read) is adapted from the
// teacher's lib/bitbuffer.go Read/Advance offset==8 bookkeeping,
// generalized from a single contiguous buffer to a list of discrete
// owned chunks.
package rope

import "errors"

// ErrNeedMore is returned by Allocate when not enough data is buffered
// and no Puller is configured to fetch more. The one-shot cbor.Decode
// reports it as ErrPrematureEnd.
var ErrNeedMore = errors.New("rope: need more input")

// Puller pulls the next chunk from a pull-style byte source. It returns
// io.EOF (or any error) when the source is exhausted.
type Puller func() ([]byte, error)

// Rope holds zero or more chunks plus a cursor into the first one.
type Rope struct {
	chunks [][]byte
	cursor int
	total  int
	onFree func([]byte)
	pull   Puller
}

// New creates a Rope fed only via Feed (used by the one-shot cbor.Decode).
func New(onFree func([]byte)) *Rope {
	return &Rope{onFree: onFree}
}

// NewPulling creates a Rope that can also pull further chunks from a
// pull-style source when Allocate needs more than is currently buffered
// (used by the stream package's adapters and by duplex.DecodeStream).
func NewPulling(onFree func([]byte), pull Puller) *Rope {
	r := New(onFree)
	r.pull = pull
	return r
}

// Feed appends a chunk fed in from outside (used directly by the
// one-shot cbor.Decode, and internally by Allocate for chunks pulled
// from a Puller).
func (r *Rope) Feed(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	r.chunks = append(r.chunks, chunk)
	r.total += len(chunk)
}

// Unread returns the total unread byte count across all held chunks,
// matching spec.md §3's invariant definition of that quantity.
func (r *Rope) Unread() int { return r.total }

// Allocate ensures at least n bytes are available, pulling further
// chunks from the configured Puller as needed. If no Puller is
// configured, it returns ErrNeedMore instead of blocking. If the Puller
// is exhausted before n bytes accumulate, its error (typically io.EOF)
// is returned unchanged.
func (r *Rope) Allocate(n int) error {
	for r.total < n {
		if r.pull == nil {
			return ErrNeedMore
		}
		chunk, err := r.pull()
		if err != nil {
			return err
		}
		r.Feed(chunk)
	}
	return nil
}

// PeekByte returns the next unread byte without consuming it, for the
// decoder's initial-byte fast path. ok is false if nothing is buffered.
func (r *Rope) PeekByte() (b byte, ok bool) {
	if len(r.chunks) == 0 {
		return 0, false
	}
	chunk := r.chunks[0]
	if r.cursor >= len(chunk) {
		return 0, false
	}
	return chunk[r.cursor], true
}

// Advance consumes exactly n bytes across the rope, copying them into
// target if target is non-nil (target must have length >= n). Chunks
// fully consumed are dropped and OnFree is invoked on them in order,
// exactly once each, enabling buffer-pool reuse by the source. Advance
// panics if fewer than n bytes are buffered — callers must Allocate(n)
// first.
func (r *Rope) Advance(n int, target []byte) {
	if n > r.total {
		panic("rope: Advance past buffered data; call Allocate first")
	}
	remaining := n
	off := 0
	for remaining > 0 {
		chunk := r.chunks[0]
		avail := len(chunk) - r.cursor
		take := avail
		if take > remaining {
			take = remaining
		}
		if target != nil {
			copy(target[off:off+take], chunk[r.cursor:r.cursor+take])
		}
		off += take
		r.cursor += take
		remaining -= take
		r.total -= take
		if r.cursor == len(chunk) {
			r.chunks = r.chunks[1:]
			r.cursor = 0
			if r.onFree != nil {
				r.onFree(chunk)
			}
		}
	}
}

// Release drops every held chunk through OnFree without consuming them
// logically — used on teardown (duplex.DecodeStream calls it once its
// decode loop ends) so no chunk storage leaks (spec.md §5).
func (r *Rope) Release() {
	for _, chunk := range r.chunks {
		if r.onFree != nil {
			r.onFree(chunk)
		}
	}
	r.chunks = nil
	r.cursor = 0
	r.total = 0
}
