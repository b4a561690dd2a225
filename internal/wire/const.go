// Package wire implements the CBOR major-type state machine from
// spec.md §4.1/§4.3: numeric width minimization, UTF-8 string framing,
// array/map item-count framing, and the transform-hook dispatch that
// encode and decode both run through.
//
// It depends only on internal/model (the value/option/hook types) and
// internal/rope, internal/outbuf (the byte-level buffers) — never on the
// module root — so the root package can freely import wire without
// creating an import cycle.
package wire

// Major types, RFC 8949 §3 Table 1.
const (
	majorUnsignedInt = 0
	majorNegativeInt = 1
	majorByteString  = 2
	majorTextString  = 3
	majorArray       = 4
	majorMap         = 5
	majorTag         = 6
	majorSimpleFloat = 7
)

// Additional-info selectors for a following fixed-width argument,
// RFC 8949 §3.
const (
	aiOneByte    = 24
	aiTwoByte    = 25
	aiFourByte   = 26
	aiEightByte  = 27
	aiReserved28 = 28
	aiReserved29 = 29
	aiReserved30 = 30
	aiBreak      = 31
)

// Major type 7 (simple/float) additional-info values, RFC 8949 §3.3.
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	float16AI       = 25
	float32AI       = 26
	float64AI       = 27
)

// SafeIntMax/SafeIntMin bound the host's safe integer range, 2^53-1, per
// spec.md's glossary.
const (
	SafeIntMax int64 = 1<<53 - 1
	SafeIntMin int64 = -(1<<53 - 1)
)

// DefaultChunkSize has the same value as model.DefaultChunkSize; the
// encoder itself takes its default from model.EncOptions.
const DefaultChunkSize = 4096
