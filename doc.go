// Package cbor implements a streaming codec for the CBOR subset defined by
// RFC 8949 that is convenient for interchange with generic, dynamically
// typed data: unsigned/negative integers, byte strings, UTF-8 text strings,
// arrays, string-keyed maps, booleans, null, undefined and floats.
//
// Definite-length encoding only. Tags (major type 6), indefinite-length
// items, non-string map keys, duplicate map keys and integers outside the
// host's safe integer range are all decode errors rather than silent
// coercions.
//
// The one-shot Encode/Decode pair operates on a single buffer. Package
// stream provides pull-style adapters over io.Reader/io.Writer and over
// channels; package duplex provides push-style adapters with bounded
// backpressure.
package cbor
