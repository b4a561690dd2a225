package cbor

import "github.com/iMrDJAi/microcbor/internal/model"

// DefaultChunkSize is the output chunk capacity used when EncOptions
// leaves ChunkSize at zero (spec.md §6).
const DefaultChunkSize = model.DefaultChunkSize

// DefaultMinFloatSize is the narrowest float width allowed when an
// option struct leaves MinFloatSize at zero (spec.md §6).
const DefaultMinFloatSize = model.DefaultMinFloatSize

// EncodeKeyHook validates or remaps a string map key during encoding.
type EncodeKeyHook = model.EncodeKeyHook

// EncodeValueHook validates or transforms a value during encoding.
type EncodeValueHook = model.EncodeValueHook

// DecodeKeyHook intercepts a map key before it is decoded.
type DecodeKeyHook = model.DecodeKeyHook

// DecodeValueHook intercepts a value before it is decoded.
type DecodeValueHook = model.DecodeValueHook

// EncOptions configures Encode and the encode-side streaming adapters.
// The zero value is the spec.md §6 default: undefined allowed, no
// recycling, 4096-byte chunks, float16-and-up narrowing, no hooks.
type EncOptions = model.EncOptions

// DecOptions configures Decode and the decode-side streaming adapters.
// The zero value is the spec.md §6 default.
type DecOptions = model.DecOptions
