package model

// DefaultChunkSize is the output chunk capacity used when EncOptions
// leaves ChunkSize at zero (spec.md §6).
const DefaultChunkSize = 4096

// DefaultMinFloatSize is the narrowest float width allowed when an
// option struct leaves MinFloatSize at zero (spec.md §6).
const DefaultMinFloatSize = 16

// EncodeKeyHook validates or remaps a string map key during encoding. It
// returns the replacement key and true, or an empty string and false to
// fall through to the original key; a returned error aborts the whole
// traversal (wrapped in HookError by the caller).
type EncodeKeyHook func(key string) (replacement string, ok bool, err error)

// EncodeValueHook validates or transforms a value during encoding, given
// the key path at which it was encountered. Returning ok=false leaves the
// original value in place.
type EncodeValueHook func(v Value, path KeyPath) (replacement Value, ok bool, err error)

// DecodeKeyHook intercepts a map key before it is decoded. thunk.Decode
// performs the actual decode (memoized); length is the key's encoded
// UTF-8 byte length. Returning ok=false lets the decoder decode normally.
type DecodeKeyHook func(thunk *KeyThunk, length int) (replacement string, ok bool, err error)

// DecodeValueHook intercepts a value before it is decoded. thunk.Decode
// performs the actual decode (memoized); length is the item's payload
// length in the units appropriate to kind (byte/text length, element
// count, or 0 for scalars). If the hook returns ok=true without calling
// thunk.Decode, the decoder skips the item's bytes instead of decoding
// them, guaranteeing byte-exact cursor advancement (spec.md §4.3).
type DecodeValueHook func(thunk *ValueThunk, length int, kind Kind, path KeyPath) (replacement Value, ok bool, err error)

// EncOptions configures Encode and the encode-side streaming adapters.
// The zero value is the spec.md §6 default: undefined allowed, no
// recycling, 4096-byte chunks, float16-and-up narrowing, no hooks.
type EncOptions struct {
	// DisallowUndefined, when true, makes encoding an undefined value an
	// error instead of emitting the CBOR undefined simple value. Named
	// as a negative so the zero value matches the spec's "allowed by
	// default" (spec.md §6 AllowUndefined=true).
	DisallowUndefined bool
	// ChunkRecycling reuses one backing buffer across emitted chunks;
	// the consumer must copy a chunk before the next one is emitted.
	ChunkRecycling bool
	// ChunkSize is the output chunk capacity in bytes. Zero means
	// DefaultChunkSize.
	ChunkSize int
	// MinFloatSize is the narrowest float width the encoder may emit;
	// wider is used automatically when needed to round-trip exactly.
	// Must be 16, 32 or 64; zero means DefaultMinFloatSize.
	MinFloatSize int
	OnKey        EncodeKeyHook
	OnValue      EncodeValueHook
}

func (o EncOptions) ChunkSizeOrDefault() int {
	if o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

func (o EncOptions) MinFloatSizeOrDefault() int {
	switch o.MinFloatSize {
	case 32, 64:
		return o.MinFloatSize
	default:
		return DefaultMinFloatSize
	}
}

// DecOptions configures Decode and the decode-side streaming adapters.
// The zero value is the spec.md §6 default.
type DecOptions struct {
	// DisallowUndefined, when true, makes decoding an undefined value an
	// error. See EncOptions.DisallowUndefined for why this is a negative
	// flag.
	DisallowUndefined bool
	// MinFloatSize rejects encoded floats narrower than this width.
	// Must be 16, 32 or 64; zero means DefaultMinFloatSize.
	MinFloatSize int
	OnKey        DecodeKeyHook
	OnValue      DecodeValueHook
}

func (o DecOptions) MinFloatSizeOrDefault() int {
	switch o.MinFloatSize {
	case 32, 64:
		return o.MinFloatSize
	default:
		return DefaultMinFloatSize
	}
}
