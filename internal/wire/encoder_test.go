package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/iMrDJAi/microcbor/internal/model"
)

func encodeOnce(t *testing.T, v model.Value, opts model.EncOptions) []byte {
	t.Helper()
	var out []byte
	enc := NewEncoder(func(chunk []byte) error {
		out = append(out, chunk...)
		return nil
	}, opts)
	if err := enc.EncodeValue(v); err != nil {
		t.Fatalf("EncodeValue failed: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	return out
}

func TestEncodeIntegers(t *testing.T) {
	test := func(v int64, want []byte, description string) {
		t.Run(description, func(t *testing.T) {
			got := encodeOnce(t, model.Int(v), model.EncOptions{})
			if !bytes.Equal(got, want) {
				t.Errorf("encode(%d) = % x, want % x", v, got, want)
			}
		})
	}
	test(0, []byte{0x00}, "zero")
	test(23, []byte{0x17}, "23 is the inline boundary")
	test(24, []byte{0x18, 0x18}, "24 needs one extra byte")
	test(-1, []byte{0x20}, "negative one")
	test(-1000000, []byte{0x3A, 0x00, 0x0F, 0x42, 0x3F}, "negative one million")
	test(SafeIntMax, append([]byte{0x1B}, 0x00, 0x1F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF), "max safe integer")
}

func TestEncodeIntegerOutsideSafeRangeFails(t *testing.T) {
	var out []byte
	enc := NewEncoder(func(chunk []byte) error { out = append(out, chunk...); return nil }, model.EncOptions{})
	err := enc.EncodeValue(model.Int(SafeIntMax + 1))
	var invalid *model.InvalidEncodingError
	if !errors.As(err, &invalid) {
		t.Fatalf("got err %v, want *model.InvalidEncodingError", err)
	}
}

func TestEncodeBytesAndText(t *testing.T) {
	got := encodeOnce(t, model.Bytes([]byte{1, 2, 3}), model.EncOptions{})
	want := []byte{0x43, 1, 2, 3}
	if !bytes.Equal(got, want) {
		t.Errorf("encode(bytes) = % x, want % x", got, want)
	}

	got = encodeOnce(t, model.Text("IETF"), model.EncOptions{})
	want = []byte{0x64, 'I', 'E', 'T', 'F'}
	if !bytes.Equal(got, want) {
		t.Errorf("encode(text) = % x, want % x", got, want)
	}
}

func TestEncodeInvalidUTF8Fails(t *testing.T) {
	var out []byte
	enc := NewEncoder(func(chunk []byte) error { out = append(out, chunk...); return nil }, model.EncOptions{})
	err := enc.EncodeValue(model.Text(string([]byte{0xff, 0xfe})))
	var invalid *model.InvalidEncodingError
	if !errors.As(err, &invalid) {
		t.Fatalf("got err %v, want *model.InvalidEncodingError", err)
	}
}

func TestEncodeArrayAndMap(t *testing.T) {
	got := encodeOnce(t, model.Array(model.Int(1), model.Int(2), model.Int(3)), model.EncOptions{})
	want := []byte{0x83, 0x01, 0x02, 0x03}
	if !bytes.Equal(got, want) {
		t.Errorf("encode([1,2,3]) = % x, want % x", got, want)
	}

	v := model.Map(
		model.MapEntry{Key: "a", Value: model.Int(1)},
		model.MapEntry{Key: "b", Value: model.Array(model.Bool(true), model.Null())},
	)
	got = encodeOnce(t, v, model.EncOptions{})
	want = []byte{
		0xA2,
		0x61, 'a', 0x01,
		0x61, 'b', 0x82, 0xF5, 0xF6,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("encode(map) = % x, want % x", got, want)
	}
}

func TestEncodeUndefinedDisallowed(t *testing.T) {
	enc := NewEncoder(func(chunk []byte) error { return nil }, model.EncOptions{DisallowUndefined: true})
	if err := enc.EncodeValue(model.Undefined()); !errors.Is(err, model.ErrUndefinedDisallowed) {
		t.Errorf("got err %v, want ErrUndefinedDisallowed", err)
	}

	got := encodeOnce(t, model.Undefined(), model.EncOptions{})
	if !bytes.Equal(got, []byte{0xF7}) {
		t.Errorf("encode(undefined) = % x, want [f7]", got)
	}
}

func TestEncodeFloatNarrowing(t *testing.T) {
	// 1.0 round-trips through float16 exactly.
	got := encodeOnce(t, model.Float(1.0), model.EncOptions{})
	if len(got) != 3 || got[0] != 0xF9 {
		t.Errorf("encode(1.0) = % x, want a 3-byte float16", got)
	}

	// A value that only round-trips at float64.
	got = encodeOnce(t, model.Float(1.1), model.EncOptions{})
	if len(got) != 9 || got[0] != 0xFB {
		t.Errorf("encode(1.1) = % x, want a 9-byte float64", got)
	}

	// MinFloatSize forbids narrowing below the configured width.
	got = encodeOnce(t, model.Float(1.0), model.EncOptions{MinFloatSize: 32})
	if len(got) != 5 || got[0] != 0xFA {
		t.Errorf("encode(1.0, min=32) = % x, want a 5-byte float32", got)
	}
}

func TestEncodeOnValueHookReplacesAndReceivesPath(t *testing.T) {
	var sawPaths []string
	opts := model.EncOptions{
		OnValue: func(v model.Value, path model.KeyPath) (model.Value, bool, error) {
			sawPaths = append(sawPaths, path.String())
			if i, ok := v.Int(); ok && i == 2 {
				return model.Int(99), true, nil
			}
			return model.Value{}, false, nil
		},
	}
	got := encodeOnce(t, model.Array(model.Int(1), model.Int(2)), opts)
	want := []byte{0x82, 0x01, 0x18, 0x63}
	if !bytes.Equal(got, want) {
		t.Errorf("encode with hook = % x, want % x", got, want)
	}
	if len(sawPaths) != 3 {
		t.Fatalf("hook invoked %d times, want 3 (array + 2 elements)", len(sawPaths))
	}
	if sawPaths[1] != "0" || sawPaths[2] != "1" {
		t.Errorf("paths = %v, want [\"\" \"0\" \"1\"]", sawPaths)
	}
}

func TestEncodeOnKeyHookCanReplaceKey(t *testing.T) {
	opts := model.EncOptions{
		OnKey: func(key string) (string, bool, error) {
			if key == "a" {
				return "renamed", true, nil
			}
			return "", false, nil
		},
	}
	v := model.Map(model.MapEntry{Key: "a", Value: model.Int(1)})
	got := encodeOnce(t, v, opts)
	want := []byte{0xA1, 0x67, 'r', 'e', 'n', 'a', 'm', 'e', 'd', 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("encode with OnKey = % x, want % x", got, want)
	}
}

func TestEncodeHookErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	opts := model.EncOptions{
		OnValue: func(v model.Value, path model.KeyPath) (model.Value, bool, error) {
			return model.Value{}, false, boom
		},
	}
	enc := NewEncoder(func(chunk []byte) error { return nil }, opts)
	err := enc.EncodeValue(model.Int(1))
	var hookErr *model.HookError
	if !errors.As(err, &hookErr) || !errors.Is(err, boom) {
		t.Fatalf("got err %v, want *model.HookError wrapping boom", err)
	}
}
