// Package outbuf implements the encode-side output buffer described in
// spec.md §4.2: a fixed-capacity append buffer that emits a chunk when
// full and, optionally, recycles its backing storage across emits.
//
// The growth/reset discipline is adapted from the teacher's
// lib/bitbuffer.go Write/grow fast-path (append-in-place while capacity
// remains, allocate fresh storage on overflow) at byte rather than bit
// granularity. Backing-array pooling is adapted from kalbasit/fastcdc's
// pool.go ChunkerPool, repurposed to pool raw []byte arrays instead of
// whole chunker objects.
package outbuf

import "sync"

// Emitter receives a completed chunk. The slice is only guaranteed valid
// until the next call into the Buffer unless the Buffer was built without
// recycling, in which case the Emitter takes ownership of it.
type Emitter func(chunk []byte) error

// pool holds recycled backing arrays across Buffer instances created with
// NewPooled. It is the only package-level mutable state in this package,
// and it is safe for concurrent use by construction (sync.Pool).
var pool = &sync.Pool{}

// Buffer is a fixed-capacity byte buffer that calls its Emitter whenever
// a write would overflow, or on an explicit Flush.
type Buffer struct {
	data     []byte
	cursor   int
	capacity int
	recycle  bool
	emit     Emitter
	pooled   bool
}

// New creates a Buffer with the given capacity. If recycle is true, the
// same backing array is reused across emitted chunks — the Emitter must
// copy a chunk before the next Write/Flush call, since the array is
// mutated in place afterward.
func New(capacity int, recycle bool, emit Emitter) *Buffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer{capacity: capacity, recycle: recycle, emit: emit}
}

// NewPooled is like New but draws backing arrays from a shared pool when
// recycle is false (each emitted chunk gets fresh storage). Buffer.Release
// returns only the Buffer's current backing array to the pool; arrays
// already handed to the Emitter are not reclaimed. When recycle is true
// pooling has nothing to add — the
// one backing array already lives for the Buffer's whole lifetime — so it
// behaves exactly like New.
func NewPooled(capacity int, recycle bool, emit Emitter) *Buffer {
	b := New(capacity, recycle, emit)
	b.pooled = !recycle
	return b
}

func (b *Buffer) alloc() []byte {
	if b.pooled {
		if v := pool.Get(); v != nil {
			buf := v.([]byte)
			if cap(buf) >= b.capacity {
				return buf[:b.capacity]
			}
		}
	}
	return make([]byte, b.capacity)
}

// Release returns the current backing array to the shared pool. Callers
// using NewPooled should call Release once the Buffer (and any chunk it
// last emitted) is no longer needed.
func (b *Buffer) Release() {
	if b.pooled && b.data != nil {
		pool.Put(b.data) //nolint:staticcheck // non-pointer []byte is the pool's documented common case
		b.data = nil
	}
}

// Len returns the number of unflushed bytes currently buffered.
func (b *Buffer) Len() int { return b.cursor }

// Cap returns the buffer's fixed chunk capacity.
func (b *Buffer) Cap() int { return b.capacity }

// Write appends p, splitting across as many emitted chunks as needed.
// The encoder's output buffer cursor never exceeds its capacity; on
// reaching capacity it emits and resets, matching spec.md §3's invariant.
func (b *Buffer) Write(p []byte) error {
	for len(p) > 0 {
		if b.data == nil {
			b.data = b.alloc()
		}
		room := b.capacity - b.cursor
		if room == 0 {
			if err := b.emitCurrent(); err != nil {
				return err
			}
			continue
		}
		n := len(p)
		if n > room {
			n = room
		}
		copy(b.data[b.cursor:], p[:n])
		b.cursor += n
		p = p[n:]
		if b.cursor == b.capacity {
			if err := b.emitCurrent(); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteByte appends a single byte, for the hot path of emitting initial
// bytes and short arguments without a slice allocation at the call site.
func (b *Buffer) WriteByte(c byte) error {
	return b.Write([]byte{c})
}

// WriteString appends s without converting it to []byte first — Go's
// builtin copy supports a string source directly, so a text string value
// reaches the wire without an intermediate encoding buffer (spec.md
// §4.1's "avoid allocating an intermediate encoding when avoidable").
func (b *Buffer) WriteString(s string) error {
	for len(s) > 0 {
		if b.data == nil {
			b.data = b.alloc()
		}
		room := b.capacity - b.cursor
		if room == 0 {
			if err := b.emitCurrent(); err != nil {
				return err
			}
			continue
		}
		n := len(s)
		if n > room {
			n = room
		}
		copy(b.data[b.cursor:], s[:n])
		b.cursor += n
		s = s[n:]
		if b.cursor == b.capacity {
			if err := b.emitCurrent(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Buffer) emitCurrent() error {
	chunk := b.data[:b.cursor]
	if err := b.emit(chunk); err != nil {
		return err
	}
	if b.recycle {
		b.cursor = 0
		return nil
	}
	b.data = b.alloc()
	b.cursor = 0
	return nil
}

// Flush emits any partial tail chunk. Calling Flush with nothing
// buffered is a no-op, matching spec.md §4.1's "after the last value a
// flush call emits any partial tail chunk".
func (b *Buffer) Flush() error {
	if b.cursor == 0 {
		return nil
	}
	return b.emitCurrent()
}
