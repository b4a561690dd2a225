package model

// thunkState models design note §9's "hook thunk memoization -> explicit
// state": {Pending, Done(value)}. The codec is single-threaded and
// cooperative (spec.md §5), so no locking is needed — the thunk is called
// from the same goroutine that constructed it, at most once, and every
// subsequent call just replays the memoized result.
type thunkState int

const (
	thunkPending thunkState = iota
	thunkDone
)

// ValueThunk is passed to an OnValue decode hook. Calling Decode performs
// the actual decode of the current item exactly once; subsequent calls
// return the memoized result. If the hook returns a replacement without
// ever calling Decode, the decoder falls back to its skip routine so the
// cursor still advances by exactly the item's encoded length (spec.md
// §4.3 hook rule 1).
type ValueThunk struct {
	state   thunkState
	value   Value
	err     error
	called  bool
	perform func() (Value, error)
}

// NewValueThunk wraps perform as a ValueThunk for an OnValue hook. Used
// by internal/wire when invoking decode hooks.
func NewValueThunk(perform func() (Value, error)) *ValueThunk {
	return &ValueThunk{perform: perform}
}

// Decode runs the underlying decode exactly once and memoizes the result.
func (t *ValueThunk) Decode() (Value, error) {
	if t.state == thunkPending {
		t.called = true
		t.value, t.err = t.perform()
		t.state = thunkDone
	}
	return t.value, t.err
}

// Called reports whether Decode has been invoked.
func (t *ValueThunk) Called() bool { return t.called }

// KeyThunk is the map-key analog of ValueThunk, used by OnKey decode
// hooks; map keys are always text strings, so it yields a string.
type KeyThunk struct {
	state   thunkState
	value   string
	err     error
	called  bool
	perform func() (string, error)
}

// NewKeyThunk wraps perform as a KeyThunk for an OnKey hook.
func NewKeyThunk(perform func() (string, error)) *KeyThunk {
	return &KeyThunk{perform: perform}
}

func (t *KeyThunk) Decode() (string, error) {
	if t.state == thunkPending {
		t.called = true
		t.value, t.err = t.perform()
		t.state = thunkDone
	}
	return t.value, t.err
}

func (t *KeyThunk) Called() bool { return t.called }
