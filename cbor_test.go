package cbor

import (
	"bytes"
	"math"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	test := func(v Value, description string) {
		t.Run(description, func(t *testing.T) {
			enc, err := Encode(v, EncOptions{})
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := Decode(enc, DecOptions{})
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !got.Equal(v) {
				t.Errorf("round trip = %v, want %v", got, v)
			}
		})
	}
	test(Int(0), "zero")
	test(Int(-1000000), "negative one million")
	test(Int(SafeIntMaxForTest), "max safe integer")
	test(Text("hello, 世界"), "multi-byte UTF-8 text")
	test(Bytes([]byte{1, 2, 3, 4}), "byte string")
	test(Bool(true), "bool true")
	test(Bool(false), "bool false")
	test(Null(), "null")
	test(Undefined(), "undefined")
	test(Float(3.14), "float")
	test(Float(math.Inf(1)), "positive infinity")
	test(Float(math.NaN()), "NaN")
	test(Array(), "empty array")
	test(Map(), "empty map")
	test(Array(Int(1), Text("two"), Array(Int(3))), "nested array")
	test(Map(
		MapEntry{Key: "a", Value: Int(1)},
		MapEntry{Key: "b", Value: Map(MapEntry{Key: "c", Value: Bool(true)})},
	), "nested map")
}

// SafeIntMaxForTest mirrors internal/wire.SafeIntMax without importing an
// internal package from a root-level test.
const SafeIntMaxForTest = 1<<53 - 1

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	full, err := Encode(Array(Int(1), Int(2), Int(3)), EncOptions{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	truncated := full[:len(full)-1]
	if _, err := Decode(truncated, DecOptions{}); err != ErrPrematureEnd {
		t.Errorf("Decode(truncated) = %v, want ErrPrematureEnd", err)
	}
}

func TestDecodeEmptyInputIsPrematureEnd(t *testing.T) {
	if _, err := Decode(nil, DecOptions{}); err != ErrPrematureEnd {
		t.Errorf("Decode(nil) = %v, want ErrPrematureEnd", err)
	}
}

func TestValueEqualIgnoresMapKeyOrder(t *testing.T) {
	a := Map(MapEntry{Key: "x", Value: Int(1)}, MapEntry{Key: "y", Value: Int(2)})
	b := Map(MapEntry{Key: "y", Value: Int(2)}, MapEntry{Key: "x", Value: Int(1)})
	if !a.Equal(b) {
		t.Errorf("maps with same entries in different order should be equal")
	}
}

func TestValueEqualArrayOrderMatters(t *testing.T) {
	a := Array(Int(1), Int(2))
	b := Array(Int(2), Int(1))
	if a.Equal(b) {
		t.Errorf("arrays with different element order should not be equal")
	}
}

func TestKeyPathString(t *testing.T) {
	p := KeyPath{KeyElem("a"), IndexElem(2), KeyElem("b")}
	if got, want := p.String(), "a.2.b"; got != want {
		t.Errorf("KeyPath.String() = %q, want %q", got, want)
	}
	if got, want := (KeyPath{}).String(), ""; got != want {
		t.Errorf("empty KeyPath.String() = %q, want %q", got, want)
	}
}

func TestLookupFindsFirstMatchingKey(t *testing.T) {
	m := Map(MapEntry{Key: "k", Value: Int(1)})
	v, ok := m.Lookup("k")
	if !ok {
		t.Fatalf("Lookup(k) not found")
	}
	if n, _ := v.Int(); n != 1 {
		t.Errorf("Lookup(k) = %d, want 1", n)
	}
	if _, ok := m.Lookup("missing"); ok {
		t.Errorf("Lookup(missing) should not be found")
	}
}

func TestEncodeProducesExpectedBytesForKnownVectors(t *testing.T) {
	got, err := Encode(Int(24), EncOptions{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{0x18, 0x18}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(24) = % x, want % x", got, want)
	}
}
