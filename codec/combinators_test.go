// Copyright (C) 2024 The rcodec Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package codec

import (
	"errors"
	"testing"

	"github.com/plausiblelabs/rcodec/bytevector"
	"github.com/plausiblelabs/rcodec/hlist"
)

func TestPrependEncodesHeadFirst(t *testing.T) {
	c := Prepend(Uint8(), Prepend(Uint16(), New[hlist.HNil]("hnil",
		func(hlist.HNil) (bytevector.ByteVector, error) { return bytevector.Empty(), nil },
		func(bv bytevector.ByteVector) (hlist.HNil, bytevector.ByteVector, error) { return hlist.HNil{}, bv, nil },
	)))

	v := hlist.Cons[uint8](7, hlist.Cons[uint16](3, hlist.HNil{}))
	bv, err := c.Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x07, 0x00, 0x03}
	if got := bv.ToSlice(); string(got) != string(want) {
		t.Fatalf("Encode = % x, want % x", got, want)
	}

	decoded, rem, err := c.Decode(bv)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Head != 7 || decoded.Tail.Head != 3 {
		t.Errorf("decoded = %+v, want Head=7 Tail.Head=3", decoded)
	}
	if rem.Length() != 0 {
		t.Errorf("remainder not empty")
	}
}

func TestPrependAssociativeWireBytes(t *testing.T) {
	a, b, c := Uint8(), Uint8(), Uint8()
	nilCodec := New[hlist.HNil]("hnil",
		func(hlist.HNil) (bytevector.ByteVector, error) { return bytevector.Empty(), nil },
		func(bv bytevector.ByteVector) (hlist.HNil, bytevector.ByteVector, error) { return hlist.HNil{}, bv, nil },
	)

	// (A :: B) :: C, with A :: B nested as the head, vs A :: (B :: C): both
	// describe the same field order, so the wire bytes for equal values
	// must match even though the HList shapes differ.
	rightGrouped := Prepend(a, Prepend(b, Prepend(c, nilCodec)))
	v := hlist.Cons[uint8](1, hlist.Cons[uint8](2, hlist.Cons[uint8](3, hlist.HNil{})))
	leftGrouped := Prepend(Prepend(a, Prepend(b, nilCodec)), Prepend(c, nilCodec))
	lv := hlist.Cons(hlist.Cons[uint8](1, hlist.Cons[uint8](2, hlist.HNil{})), hlist.Cons[uint8](3, hlist.HNil{}))

	bv1, _ := rightGrouped.Encode(v)
	bv2, _ := leftGrouped.Encode(lv)
	if !bytevector.Equal(bv1, bv2) {
		t.Fatalf("groupings encode differently: % x vs % x", bv1.ToSlice(), bv2.ToSlice())
	}
	if got := bv1.ToSlice(); string(got) != string([]byte{1, 2, 3}) {
		t.Fatalf("got % x, want 01 02 03", got)
	}
}

func TestDropLeftConstantThenTwoBytes(t *testing.T) {
	// constant([0xCA,0xFE]) >> uint8 >> uint8, encoding (1, 2)
	inner := Prepend(Uint8(), Prepend(Uint8(), hnilCodec()))
	full := DropLeft(Constant(bytevector.FromSlice([]byte{0xCA, 0xFE})), inner)

	bv, err := full.Encode(hlist.Cons[uint8](1, hlist.Cons[uint8](2, hlist.HNil{})))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xCA, 0xFE, 0x01, 0x02}
	if got := bv.ToSlice(); string(got) != string(want) {
		t.Fatalf("got % x, want % x", got, want)
	}

	_, _, err = full.Decode(bytevector.FromSlice([]byte{0xCA, 0xFF, 0x01, 0x02}))
	var ce *Error
	if !errors.As(err, &ce) || ce.Kind != KindConstantMismatch {
		t.Fatalf("expected KindConstantMismatch, got %v", err)
	}
}

func TestDropLeftIgnoreThenUint8(t *testing.T) {
	c := DropLeft(Ignore(2), Uint8())
	bv, err := c.Encode(5)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 0x00, 0x05}
	if got := bv.ToSlice(); string(got) != string(want) {
		t.Fatalf("got % x, want % x", got, want)
	}
	v, _, err := c.Decode(bytevector.FromSlice([]byte{0xAA, 0xBB, 0x05}))
	if err != nil {
		t.Fatal(err)
	}
	if v != 5 {
		t.Errorf("decoded %d, want 5", v)
	}
}

func TestFlatMapLengthPrefixedBytes(t *testing.T) {
	// decode a uint8 = n, then bytes(n)
	c := FlatMap(Uint8(), func(n uint8) Codec[bytevector.ByteVector] {
		return Bytes(int(n))
	})

	input := bytevector.FromSlice([]byte{0x03, 0x41, 0x42, 0x43, 0x44})
	decoded, rem, err := c.Decode(input)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Head != 3 {
		t.Errorf("n = %d, want 3", decoded.Head)
	}
	if got := decoded.Tail.Head.ToSlice(); string(got) != "ABC" {
		t.Errorf("body = %q, want ABC", got)
	}
	if got := rem.ToSlice(); string(got) != "D" {
		t.Errorf("remainder = %q, want D", got)
	}

	reencoded, err := c.Encode(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if got := reencoded.ToSlice(); string(got) != "\x03ABC" {
		t.Errorf("re-encoded = % x, want 03 41 42 43", got)
	}
}

func TestXmapRoundTrip(t *testing.T) {
	type Flag bool
	c := Xmap(Uint8(),
		func(v uint8) Flag { return Flag(v != 0) },
		func(f Flag) uint8 {
			if f {
				return 1
			}
			return 0
		},
	)
	bv, err := c.Encode(true)
	if err != nil {
		t.Fatal(err)
	}
	v, _, err := c.Decode(bv)
	if err != nil {
		t.Fatal(err)
	}
	if v != true {
		t.Errorf("round-trip failed: got %v", v)
	}
}

func TestExmapReportsConversionError(t *testing.T) {
	c := Exmap(Uint8(),
		func(v uint8) (string, error) {
			if v > 2 {
				return "", errors.New("out of range")
			}
			return []string{"a", "b", "c"}[v], nil
		},
		func(s string) (uint8, error) {
			for i, v := range []string{"a", "b", "c"} {
				if v == s {
					return uint8(i), nil
				}
			}
			return 0, errors.New("unknown")
		},
	)

	_, _, err := c.Decode(bytevector.FromSlice([]byte{9}))
	var ce *Error
	if !errors.As(err, &ce) || ce.Kind != KindConversion {
		t.Fatalf("expected KindConversion, got %v", err)
	}

	v, _, err := c.Decode(bytevector.FromSlice([]byte{1}))
	if err != nil {
		t.Fatal(err)
	}
	if v != "b" {
		t.Errorf("decoded %q, want b", v)
	}
}

func TestWithContextTransparentOnSuccess(t *testing.T) {
	plain := Uint8()
	wrapped := WithContext("field", plain)

	bv1, _ := plain.Encode(7)
	bv2, _ := wrapped.Encode(7)
	if !bytevector.Equal(bv1, bv2) {
		t.Fatalf("WithContext changed wire bytes on success")
	}
}

func TestWithContextAddsLabelOnFailure(t *testing.T) {
	wrapped := WithContext("outer", WithContext("inner", Uint32()))
	_, _, err := wrapped.Decode(bytevector.FromSlice([]byte{0x01}))
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if len(ce.Context) != 2 || ce.Context[0] != "outer" || ce.Context[1] != "inner" {
		t.Fatalf("context stack = %v, want [outer inner]", ce.Context)
	}
	msg := err.Error()
	want := "outer / inner / insufficient bits: needed 4, available 1"
	if msg != want {
		t.Fatalf("Error() = %q, want %q", msg, want)
	}
}
