package wire

import (
	"encoding/binary"

	"github.com/iMrDJAi/microcbor/internal/outbuf"
)

// widthForUint picks the narrowest CBOR argument width — 0 meaning
// "inline in the initial byte", else 1/2/4/8 — able to hold v. This is
// the CBOR analog of the teacher's BitsNonNegativeBinaryInteger/
// OctetsNonNegativeBinaryIntegerLength minimal-width calculators and of
// skyportsystems-snappy's emitLiteral size-class switch, generalized from
// a 2/3-way choice to CBOR's 5-way one (RFC 8949 §3).
func widthForUint(v uint64) int {
	switch {
	case v < 24:
		return 0
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}

// WriteHeader emits the initial byte (and, if needed, the following
// fixed-width big-endian argument) for major type major carrying argument
// v, using the narrowest encoding per RFC 8949 §3 — spec.md §4.1's
// numeric-width-minimization rule.
func WriteHeader(buf *outbuf.Buffer, major byte, v uint64) error {
	switch widthForUint(v) {
	case 0:
		return buf.WriteByte(major<<5 | byte(v))
	case 1:
		var tmp [2]byte
		tmp[0] = major<<5 | aiOneByte
		tmp[1] = byte(v)
		return buf.Write(tmp[:])
	case 2:
		var tmp [3]byte
		tmp[0] = major<<5 | aiTwoByte
		binary.BigEndian.PutUint16(tmp[1:], uint16(v))
		return buf.Write(tmp[:])
	case 4:
		var tmp [5]byte
		tmp[0] = major<<5 | aiFourByte
		binary.BigEndian.PutUint32(tmp[1:], uint32(v))
		return buf.Write(tmp[:])
	default:
		var tmp [9]byte
		tmp[0] = major<<5 | aiEightByte
		binary.BigEndian.PutUint64(tmp[1:], v)
		return buf.Write(tmp[:])
	}
}

// HeaderLen returns the number of bytes WriteHeader would emit for
// (major, v), whatever the major type; tests use it to assert minimal
// width without actually encoding.
func HeaderLen(v uint64) int {
	switch widthForUint(v) {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 3
	case 4:
		return 5
	default:
		return 9
	}
}

// splitMajor breaks an initial byte into its major type and additional
// info per RFC 8949 §3.
func splitMajor(initial byte) (major byte, ai byte) {
	return initial >> 5, initial & 0x1F
}
