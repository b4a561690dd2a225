package cbor

import "github.com/iMrDJAi/microcbor/internal/model"

// UnsafeIntegerError is raised when a decoded integer's magnitude exceeds
// the host's safe integer range, [-(2^53-1), 2^53-1]. It carries the
// original value as a math/big.Int (spec.md §7).
type UnsafeIntegerError = model.UnsafeIntegerError

// UnsupportedFeatureError is raised for tagged items, indefinite-length
// items, or unassigned simple values.
type UnsupportedFeatureError = model.UnsupportedFeatureError

// InvalidEncodingError covers malformed arguments, invalid UTF-8, invalid
// major/simple bytes, non-string map keys, duplicate map keys, and floats
// narrower than the configured minimum width.
type InvalidEncodingError = model.InvalidEncodingError

// HookError wraps any error raised from within an OnKey/OnValue hook.
type HookError = model.HookError

// ErrPrematureEnd is returned when the input is exhausted in the middle
// of an item.
var ErrPrematureEnd = model.ErrPrematureEnd

// ErrUndefinedDisallowed is returned when an undefined value is
// encountered (encode or decode) with DisallowUndefined set.
var ErrUndefinedDisallowed = model.ErrUndefinedDisallowed

// ErrStreamClosed is returned by a push adapter's Write after Close or
// Abort has already been called.
var ErrStreamClosed = model.ErrStreamClosed
