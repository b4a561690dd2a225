package model

import (
	"errors"
	"fmt"
	"math/big"
)

// UnsafeIntegerError is raised when a decoded integer's magnitude exceeds
// the host's safe integer range, [-(2^53-1), 2^53-1]. It carries the
// original value as a math/big.Int rather than promoting the decoded
// value itself to arbitrary precision (spec.md §7).
type UnsafeIntegerError struct {
	Value *big.Int
}

func (e *UnsafeIntegerError) Error() string {
	return fmt.Sprintf("cbor: integer %s exceeds safe integer range", e.Value.String())
}

// UnsupportedFeatureError is raised for tagged items, indefinite-length
// items, or unassigned simple values — features explicitly out of scope
// per spec.md §1.
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return "cbor: unsupported feature: " + e.Feature
}

// InvalidEncodingError covers malformed arguments, invalid UTF-8, invalid
// major/simple bytes, non-string map keys, duplicate map keys, and floats
// narrower than the configured minimum width.
type InvalidEncodingError struct {
	Reason string
}

func (e *InvalidEncodingError) Error() string {
	return "cbor: invalid encoding: " + e.Reason
}

// ErrPrematureEnd is returned when the input is exhausted in the middle
// of an item.
var ErrPrematureEnd = errors.New("cbor: premature end of input")

// ErrUndefinedDisallowed is returned when an undefined value is
// encountered (encode or decode) with DisallowUndefined set.
var ErrUndefinedDisallowed = errors.New("cbor: undefined value not allowed")

// HookError wraps any error raised from within an OnKey/OnValue hook,
// propagated unchanged to the caller per spec.md §7.
type HookError struct {
	Err error
}

func (e *HookError) Error() string { return "cbor: hook error: " + e.Err.Error() }
func (e *HookError) Unwrap() error { return e.Err }

// ErrStreamClosed is returned by a push adapter's Write after Close or
// Abort has already been called.
var ErrStreamClosed = errors.New("cbor: write after close")
