package wire

import (
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/iMrDJAi/microcbor/internal/model"
	"github.com/iMrDJAi/microcbor/internal/rope"
	"github.com/x448/float16"
)

// Decoder runs the CBOR major-type state machine in reverse: initial-byte
// dispatch, argument decoding, and pre-order traversal with on_key/
// on_value hook dispatch via memoized thunks (spec.md §4.3).
//
// Grounded on the teacher's lib/per/decode.go Decoder (a cursor-owning
// decoder with one method per shape) for structure, and on
// fxamacker/cbor's streaming decode loop
// (other_examples/.../fxamacker-cbor-stream.go.go) for the
// io.EOF-at-a-clean-boundary vs io.ErrUnexpectedEOF-mid-item distinction,
// realized here as DecodeValue's unwrapped io.EOF versus every other call
// site's model.ErrPrematureEnd.
type Decoder struct {
	rope *rope.Rope
	opts model.DecOptions
	env  env
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r *rope.Rope, opts model.DecOptions) *Decoder {
	return &Decoder{rope: r, opts: opts}
}

func (d *Decoder) currentPath() model.KeyPath {
	cp := make(model.KeyPath, len(d.env.path))
	copy(cp, d.env.path)
	return cp
}

// DecodeValue decodes one top-level value. A clean end of input before
// any byte of a new value is read is reported as io.EOF unchanged, so
// streaming adapters can distinguish "no more values" from a truncated
// one; every other premature end becomes model.ErrPrematureEnd.
func (d *Decoder) DecodeValue() (model.Value, error) {
	d.env.path = d.env.path[:0]
	major, ai, err := d.readInitial()
	if err != nil {
		return model.Value{}, err
	}
	return d.decodeRest(major, ai)
}

// decodeWithHook is the nested entry point used for array elements and
// map values, where end of input is always premature.
func (d *Decoder) decodeWithHook() (model.Value, error) {
	major, ai, err := d.readInitial()
	if err != nil {
		return model.Value{}, d.wrapEOF(err)
	}
	return d.decodeRest(major, ai)
}

func (d *Decoder) decodeRest(major, ai byte) (model.Value, error) {
	switch major {
	case majorUnsignedInt, majorNegativeInt:
		arg, err := d.readArg(ai)
		if err != nil {
			return model.Value{}, d.wrapEOF(err)
		}
		perform := func() (model.Value, error) { return decodeInt(major, arg) }
		return d.hookValue(model.KindInt, 0, perform, noopSkip)
	case majorSimpleFloat:
		arg, err := d.readArg(ai)
		if err != nil {
			return model.Value{}, d.wrapEOF(err)
		}
		perform := func() (model.Value, error) { return d.decodeMajor7(ai, arg) }
		return d.hookValue(major7Kind(ai, arg), 0, perform, noopSkip)
	case majorByteString:
		length, err := d.readLength(ai)
		if err != nil {
			return model.Value{}, err
		}
		return d.decodeBytesDeferred(length)
	case majorTextString:
		length, err := d.readLength(ai)
		if err != nil {
			return model.Value{}, err
		}
		return d.decodeTextDeferred(length)
	case majorArray:
		count, err := d.readLength(ai)
		if err != nil {
			return model.Value{}, err
		}
		return d.decodeArrayDeferred(count)
	case majorMap:
		count, err := d.readLength(ai)
		if err != nil {
			return model.Value{}, err
		}
		return d.decodeMapDeferred(count)
	case majorTag:
		return model.Value{}, &model.UnsupportedFeatureError{Feature: "tag"}
	default:
		return model.Value{}, &model.InvalidEncodingError{Reason: "invalid major type"}
	}
}

// argToLength converts a raw CBOR argument into a length/count usable as a
// Go int. Arguments above math.MaxInt would wrap negative on conversion;
// those (and, on 32-bit platforms, merely very large ones) are rejected
// outright rather than handed to make/append as a bogus size.
func argToLength(arg uint64) (int, error) {
	if arg > math.MaxInt {
		return 0, &model.InvalidEncodingError{Reason: "length exceeds supported range"}
	}
	return int(arg), nil
}

// readLength reads ai's trailing argument and validates it as a length or
// item count, wrapping premature end of input the same way readArg's other
// callers do.
func (d *Decoder) readLength(ai byte) (int, error) {
	arg, err := d.readArg(ai)
	if err != nil {
		return 0, d.wrapEOF(err)
	}
	return argToLength(arg)
}

// maxPreallocHint bounds how much capacity decodeArrayDeferred and
// decodeMapDeferred preallocate from an untrusted item count. append grows
// the rest, so a bogus huge count costs extra append calls once the input
// actually runs out (PrematureEnd) instead of one huge up-front allocation.
const maxPreallocHint = 256

func preallocHint(count int) int {
	if count < maxPreallocHint {
		return count
	}
	return maxPreallocHint
}

func noopSkip() error { return nil }

// hookValue runs the configured OnValue hook (if any) around perform,
// falling back to skip when the hook supplies a replacement without ever
// calling the thunk's Decode — guaranteeing the cursor still advances by
// exactly the item's encoded length (spec.md §4.3 hook rule 1).
func (d *Decoder) hookValue(kind model.Kind, length int, perform func() (model.Value, error), skip func() error) (model.Value, error) {
	if d.opts.OnValue == nil {
		return perform()
	}
	thunk := model.NewValueThunk(perform)
	path := d.currentPath()
	replacement, ok, err := d.opts.OnValue(thunk, length, kind, path)
	if err != nil {
		return model.Value{}, &model.HookError{Err: err}
	}
	if ok {
		if !thunk.Called() {
			if err := skip(); err != nil {
				return model.Value{}, err
			}
		}
		return replacement, nil
	}
	return thunk.Decode()
}

func (d *Decoder) decodeBytesDeferred(length int) (model.Value, error) {
	perform := func() (model.Value, error) {
		buf, err := d.readPayload(length)
		if err != nil {
			return model.Value{}, err
		}
		return model.Bytes(buf), nil
	}
	skip := func() error { return d.skipPayload(length) }
	return d.hookValue(model.KindBytes, length, perform, skip)
}

func (d *Decoder) decodeTextDeferred(length int) (model.Value, error) {
	perform := func() (model.Value, error) {
		buf, err := d.readPayload(length)
		if err != nil {
			return model.Value{}, err
		}
		if !utf8.Valid(buf) {
			return model.Value{}, &model.InvalidEncodingError{Reason: "text string is not valid UTF-8"}
		}
		return model.Text(string(buf)), nil
	}
	skip := func() error { return d.skipPayload(length) }
	return d.hookValue(model.KindText, length, perform, skip)
}

func (d *Decoder) decodeArrayDeferred(count int) (model.Value, error) {
	perform := func() (model.Value, error) {
		items := make([]model.Value, 0, preallocHint(count))
		for i := 0; i < count; i++ {
			d.env.pushIndex(i)
			v, err := d.decodeWithHook()
			d.env.pop()
			if err != nil {
				return model.Value{}, err
			}
			items = append(items, v)
		}
		return model.Array(items...), nil
	}
	skip := func() error {
		for i := 0; i < count; i++ {
			if err := d.skipValue(); err != nil {
				return err
			}
		}
		return nil
	}
	return d.hookValue(model.KindArray, count, perform, skip)
}

// decodeMapDeferred rejects duplicate keys unconditionally — spec.md's
// open question on a permissive mode was decided against; see DESIGN.md.
func (d *Decoder) decodeMapDeferred(count int) (model.Value, error) {
	perform := func() (model.Value, error) {
		entries := make([]model.MapEntry, 0, preallocHint(count))
		seen := make(map[string]struct{}, preallocHint(count))
		for i := 0; i < count; i++ {
			key, err := d.decodeMapKey()
			if err != nil {
				return model.Value{}, err
			}
			if _, dup := seen[key]; dup {
				return model.Value{}, &model.InvalidEncodingError{Reason: "duplicate map key"}
			}
			seen[key] = struct{}{}
			d.env.pushKey(key)
			v, err := d.decodeWithHook()
			d.env.pop()
			if err != nil {
				return model.Value{}, err
			}
			entries = append(entries, model.MapEntry{Key: key, Value: v})
		}
		return model.Map(entries...), nil
	}
	skip := func() error {
		for i := 0; i < count; i++ {
			if err := d.skipMapKey(); err != nil {
				return err
			}
			if err := d.skipValue(); err != nil {
				return err
			}
		}
		return nil
	}
	return d.hookValue(model.KindMap, count, perform, skip)
}

// decodeMapKey reads one map key, which RFC 8949 permits to be any type
// but spec.md §3 restricts to text strings, running it through OnKey.
func (d *Decoder) decodeMapKey() (string, error) {
	major, ai, err := d.readInitial()
	if err != nil {
		return "", d.wrapEOF(err)
	}
	if major != majorTextString {
		return "", &model.InvalidEncodingError{Reason: "map key is not a text string"}
	}
	length, err := d.readLength(ai)
	if err != nil {
		return "", err
	}
	perform := func() (string, error) {
		buf, err := d.readPayload(length)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(buf) {
			return "", &model.InvalidEncodingError{Reason: "map key is not valid UTF-8"}
		}
		return string(buf), nil
	}
	if d.opts.OnKey == nil {
		return perform()
	}
	thunk := model.NewKeyThunk(perform)
	replacement, ok, err := d.opts.OnKey(thunk, length)
	if err != nil {
		return "", &model.HookError{Err: err}
	}
	if ok {
		if !thunk.Called() {
			if err := d.skipPayload(length); err != nil {
				return "", err
			}
		}
		return replacement, nil
	}
	return thunk.Decode()
}

// major7Kind classifies the Kind a major-type-7 item will decode to, so
// hookValue can report it to OnValue before the value itself is decoded.
// Forms that always error (the two-byte simple-value encoding, unassigned
// simple values) have no real kind; KindUndefined is reported for those so
// the hook still gets a chance to run.
func major7Kind(ai byte, arg uint64) model.Kind {
	switch ai {
	case float16AI, float32AI, float64AI:
		return model.KindFloat
	case aiOneByte:
		return model.KindUndefined
	default:
		switch arg {
		case simpleFalse, simpleTrue:
			return model.KindBool
		case simpleNull:
			return model.KindNull
		default:
			return model.KindUndefined
		}
	}
}

func (d *Decoder) decodeMajor7(ai byte, arg uint64) (model.Value, error) {
	switch ai {
	case aiOneByte:
		// RFC 8949 §3.3: additional info 24 is reserved for simple values
		// 32-255; values below 32 must use the inline form. Both cases are
		// unassigned/not well-formed here, so reject unconditionally rather
		// than interpreting the following byte as a simple-value code.
		return model.Value{}, &model.UnsupportedFeatureError{Feature: "simple value"}
	case float16AI:
		if d.opts.MinFloatSizeOrDefault() > 16 {
			return model.Value{}, &model.InvalidEncodingError{Reason: "float narrower than configured minimum width"}
		}
		h := float16.Float16(uint16(arg))
		return model.Float(float64(h.Float32())), nil
	case float32AI:
		if d.opts.MinFloatSizeOrDefault() > 32 {
			return model.Value{}, &model.InvalidEncodingError{Reason: "float narrower than configured minimum width"}
		}
		return model.Float(float64(math.Float32frombits(uint32(arg)))), nil
	case float64AI:
		return model.Float(math.Float64frombits(arg)), nil
	default:
		switch arg {
		case simpleFalse:
			return model.Bool(false), nil
		case simpleTrue:
			return model.Bool(true), nil
		case simpleNull:
			return model.Null(), nil
		case simpleUndefined:
			if d.opts.DisallowUndefined {
				return model.Value{}, model.ErrUndefinedDisallowed
			}
			return model.Undefined(), nil
		default:
			return model.Value{}, &model.UnsupportedFeatureError{Feature: "simple value"}
		}
	}
}

// decodeInt implements RFC 8949 §3.1's unsigned/negative transform,
// raising UnsafeIntegerError when the magnitude exceeds the host's safe
// integer range instead of silently promoting (spec.md §7).
func decodeInt(major byte, arg uint64) (model.Value, error) {
	if major == majorUnsignedInt {
		if arg > uint64(SafeIntMax) {
			return model.Value{}, &model.UnsafeIntegerError{Value: new(big.Int).SetUint64(arg)}
		}
		return model.Int(int64(arg)), nil
	}
	if arg <= uint64(SafeIntMax-1) {
		return model.Int(-1 - int64(arg)), nil
	}
	v := new(big.Int).SetUint64(arg)
	v.Add(v, big.NewInt(1))
	v.Neg(v)
	return model.Value{}, &model.UnsafeIntegerError{Value: v}
}

func (d *Decoder) readInitial() (major, ai byte, err error) {
	if err := d.rope.Allocate(1); err != nil {
		return 0, 0, err
	}
	b, _ := d.rope.PeekByte()
	d.rope.Advance(1, nil)
	major, ai = splitMajor(b)
	return major, ai, nil
}

func (d *Decoder) readArg(ai byte) (uint64, error) {
	switch ai {
	case aiOneByte:
		return d.readN(1)
	case aiTwoByte:
		return d.readN(2)
	case aiFourByte:
		return d.readN(4)
	case aiEightByte:
		return d.readN(8)
	case aiReserved28, aiReserved29, aiReserved30:
		return 0, &model.InvalidEncodingError{Reason: "reserved additional info value"}
	case aiBreak:
		return 0, &model.UnsupportedFeatureError{Feature: "indefinite-length item"}
	default:
		return uint64(ai), nil
	}
}

func (d *Decoder) readN(n int) (uint64, error) {
	if err := d.rope.Allocate(n); err != nil {
		return 0, err
	}
	var tmp [8]byte
	d.rope.Advance(n, tmp[:n])
	switch n {
	case 1:
		return uint64(tmp[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(tmp[:2])), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(tmp[:4])), nil
	default:
		return binary.BigEndian.Uint64(tmp[:8]), nil
	}
}

func (d *Decoder) readPayload(length int) ([]byte, error) {
	if err := d.rope.Allocate(length); err != nil {
		return nil, d.wrapEOF(err)
	}
	buf := make([]byte, length)
	d.rope.Advance(length, buf)
	return buf, nil
}

func (d *Decoder) skipPayload(length int) error {
	if err := d.rope.Allocate(length); err != nil {
		return d.wrapEOF(err)
	}
	d.rope.Advance(length, nil)
	return nil
}

func (d *Decoder) skipMapKey() error {
	major, ai, err := d.readInitial()
	if err != nil {
		return d.wrapEOF(err)
	}
	if major != majorTextString {
		return &model.InvalidEncodingError{Reason: "map key is not a text string"}
	}
	length, err := d.readLength(ai)
	if err != nil {
		return err
	}
	return d.skipPayload(length)
}

// skipValue advances past one whole value without materializing it, used
// for each element of an array/map whose own OnValue hook supplied a
// replacement for the whole container without calling the thunk.
func (d *Decoder) skipValue() error {
	major, ai, err := d.readInitial()
	if err != nil {
		return d.wrapEOF(err)
	}
	switch major {
	case majorUnsignedInt, majorNegativeInt, majorSimpleFloat:
		if _, err := d.readArg(ai); err != nil {
			return d.wrapEOF(err)
		}
		return nil
	case majorByteString, majorTextString:
		length, err := d.readLength(ai)
		if err != nil {
			return err
		}
		return d.skipPayload(length)
	case majorArray:
		count, err := d.readLength(ai)
		if err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			if err := d.skipValue(); err != nil {
				return err
			}
		}
		return nil
	case majorMap:
		count, err := d.readLength(ai)
		if err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			if err := d.skipMapKey(); err != nil {
				return err
			}
			if err := d.skipValue(); err != nil {
				return err
			}
		}
		return nil
	case majorTag:
		return &model.UnsupportedFeatureError{Feature: "tag"}
	default:
		return &model.InvalidEncodingError{Reason: "invalid major type"}
	}
}

// wrapEOF turns "ran out of input" signals into model.ErrPrematureEnd,
// used everywhere except DecodeValue's very first byte, where the same
// signals mean a clean end of stream.
func (d *Decoder) wrapEOF(err error) error {
	if err == io.EOF || err == rope.ErrNeedMore {
		return model.ErrPrematureEnd
	}
	return err
}
