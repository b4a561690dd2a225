package wire

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/iMrDJAi/microcbor/internal/model"
	"github.com/iMrDJAi/microcbor/internal/outbuf"
	"github.com/x448/float16"
)

// Encoder runs the CBOR major-type state machine described in spec.md
// §4.1 over an outbuf.Buffer: numeric width minimization, UTF-8 string
// framing written directly (Go strings already are their own UTF-8
// encoding, so no intermediate transcoding buffer is needed), and
// pre-order traversal of arrays/maps with on_key/on_value hook dispatch.
//
// Grounded on the teacher's lib/per/encode.go Encoder (a buffer-owning
// encoder with one method per value shape) and on fxamacker/cbor's
// encodeFloat/encodeNaN for float narrowing
// (other_examples/.../fxamacker-cbor-encode.go.go).
type Encoder struct {
	buf  *outbuf.Buffer
	opts model.EncOptions
	env  env
}

// NewEncoder creates an Encoder that calls emit for every completed
// output chunk.
func NewEncoder(emit outbuf.Emitter, opts model.EncOptions) *Encoder {
	return &Encoder{
		buf:  outbuf.New(opts.ChunkSizeOrDefault(), opts.ChunkRecycling, emit),
		opts: opts,
	}
}

// Flush emits any partial tail chunk (spec.md §4.1).
func (e *Encoder) Flush() error { return e.buf.Flush() }

// EncodeValue encodes one top-level value, running it through the
// configured OnValue hook first.
func (e *Encoder) EncodeValue(v model.Value) error {
	e.env.path = e.env.path[:0]
	return e.encodeWithHook(v)
}

func (e *Encoder) currentPath() model.KeyPath {
	cp := make(model.KeyPath, len(e.env.path))
	copy(cp, e.env.path)
	return cp
}

// encodeWithHook is the pre-order traversal entry point invoked for the
// top-level value and for every array element and map value: it runs
// OnValue, then dispatches on the (possibly replaced) value's kind.
func (e *Encoder) encodeWithHook(v model.Value) error {
	if e.opts.OnValue != nil {
		replacement, ok, err := e.opts.OnValue(v, e.currentPath())
		if err != nil {
			return &model.HookError{Err: err}
		}
		if ok {
			v = replacement
		}
	}
	return e.dispatch(v)
}

func (e *Encoder) dispatch(v model.Value) error {
	switch v.Kind() {
	case model.KindInt:
		i, _ := v.Int()
		return e.encodeInt(i)
	case model.KindBytes:
		b, _ := v.Bytes()
		return e.encodeBytes(b)
	case model.KindText:
		s, _ := v.Text()
		return e.encodeTextRaw(s)
	case model.KindArray:
		items, _ := v.Array()
		return e.encodeArray(items)
	case model.KindMap:
		entries, _ := v.Map()
		return e.encodeMap(entries)
	case model.KindBool:
		b, _ := v.Bool()
		return e.encodeBool(b)
	case model.KindNull:
		return e.buf.WriteByte(majorSimpleFloat<<5 | simpleNull)
	case model.KindUndefined:
		if e.opts.DisallowUndefined {
			return model.ErrUndefinedDisallowed
		}
		return e.buf.WriteByte(majorSimpleFloat<<5 | simpleUndefined)
	case model.KindFloat:
		f, _ := v.Float()
		return e.encodeFloat(f)
	default:
		return &model.InvalidEncodingError{Reason: "unrecognized value kind"}
	}
}

// encodeInt implements RFC 8949 §3.1: non-negative integers under major
// type 0, negative integers transformed to u = -1-n under major type 1.
func (e *Encoder) encodeInt(i int64) error {
	if i > SafeIntMax || i < SafeIntMin {
		return &model.InvalidEncodingError{Reason: "integer exceeds safe integer range"}
	}
	if i >= 0 {
		return WriteHeader(e.buf, majorUnsignedInt, uint64(i))
	}
	return WriteHeader(e.buf, majorNegativeInt, uint64(-1-i))
}

func (e *Encoder) encodeBytes(b []byte) error {
	if err := WriteHeader(e.buf, majorByteString, uint64(len(b))); err != nil {
		return err
	}
	return e.buf.Write(b)
}

// encodeTextRaw writes a definite-length UTF-8 text string header plus
// its bytes directly; invalid UTF-8 is rejected rather than repaired,
// since Go strings carry no surrogate-pair baggage to normalize (unlike
// the UTF-16-backed strings spec.md §4.1 was written against) — see
// SPEC_FULL.md §4.1.
func (e *Encoder) encodeTextRaw(s string) error {
	if !utf8.ValidString(s) {
		return &model.InvalidEncodingError{Reason: "text string is not valid UTF-8"}
	}
	if err := WriteHeader(e.buf, majorTextString, uint64(len(s))); err != nil {
		return err
	}
	return e.buf.WriteString(s)
}

func (e *Encoder) encodeArray(items []model.Value) error {
	if err := WriteHeader(e.buf, majorArray, uint64(len(items))); err != nil {
		return err
	}
	for i, item := range items {
		e.env.pushIndex(i)
		err := e.encodeWithHook(item)
		e.env.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

// encodeMap iterates entries in encounter order, invoking OnKey before
// writing each key and OnValue (via encodeWithHook) on each value with
// the key path extended, per spec.md §4.1.
func (e *Encoder) encodeMap(entries []model.MapEntry) error {
	if err := WriteHeader(e.buf, majorMap, uint64(len(entries))); err != nil {
		return err
	}
	for _, entry := range entries {
		key := entry.Key
		if e.opts.OnKey != nil {
			replacement, ok, err := e.opts.OnKey(key)
			if err != nil {
				return &model.HookError{Err: err}
			}
			if ok {
				key = replacement
			}
		}
		if err := e.encodeTextRaw(key); err != nil {
			return err
		}
		e.env.pushKey(key)
		err := e.encodeWithHook(entry.Value)
		e.env.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeBool(b bool) error {
	ai := byte(simpleFalse)
	if b {
		ai = simpleTrue
	}
	return e.buf.WriteByte(majorSimpleFloat<<5 | ai)
}

// encodeFloat implements spec.md §4.1's float narrowing: try 64->32->16,
// emitting the narrowest width that round-trips exactly and never
// narrower than MinFloatSize.
func (e *Encoder) encodeFloat(f float64) error {
	minSize := e.opts.MinFloatSizeOrDefault()
	if minSize <= 16 {
		if h, ok := tryFloat16(f); ok {
			return e.writeFloat16(h)
		}
	}
	if minSize <= 32 {
		if f32, ok := tryFloat32(f); ok {
			return e.writeFloat32(f32)
		}
	}
	return e.writeFloat64(f)
}

func (e *Encoder) writeFloat16(h float16.Float16) error {
	var tmp [3]byte
	tmp[0] = majorSimpleFloat<<5 | float16AI
	binary.BigEndian.PutUint16(tmp[1:], uint16(h))
	return e.buf.Write(tmp[:])
}

func (e *Encoder) writeFloat32(f float32) error {
	var tmp [5]byte
	tmp[0] = majorSimpleFloat<<5 | float32AI
	binary.BigEndian.PutUint32(tmp[1:], math.Float32bits(f))
	return e.buf.Write(tmp[:])
}

func (e *Encoder) writeFloat64(f float64) error {
	var tmp [9]byte
	tmp[0] = majorSimpleFloat<<5 | float64AI
	binary.BigEndian.PutUint64(tmp[1:], math.Float64bits(f))
	return e.buf.Write(tmp[:])
}

// tryFloat32 reports whether f64 round-trips exactly through float32.
// NaN and infinities always "round-trip" under spec.md's rule that
// non-finite values take their canonical narrow-width bit pattern.
func tryFloat32(f64 float64) (float32, bool) {
	if math.IsNaN(f64) {
		return float32(math.NaN()), true
	}
	f32 := float32(f64)
	return f32, float64(f32) == f64
}

// tryFloat16 reports whether f64 round-trips exactly through float16,
// using github.com/x448/float16 the same way fxamacker/cbor's
// encodeFloat does (other_examples/.../fxamacker-cbor-encode.go.go).
func tryFloat16(f64 float64) (float16.Float16, bool) {
	if math.IsNaN(f64) {
		h, _ := float16.FromNaN32ps(float32(math.NaN()))
		return h, true
	}
	f32 := float32(f64)
	if float64(f32) != f64 {
		return float16.Float16{}, false
	}
	switch float16.PrecisionFromfloat32(f32) {
	case float16.PrecisionExact:
		return float16.Fromfloat32(f32), true
	case float16.PrecisionUnknown:
		h := float16.Fromfloat32(f32)
		if h.Float32() == f32 {
			return h, true
		}
	}
	return float16.Float16{}, false
}
