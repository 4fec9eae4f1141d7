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

package bytevector

import (
	"math/rand"
	"testing"
)

func TestAppendIdentity(t *testing.T) {
	x := FromSlice([]byte("hello"))
	if !Equal(Append(Empty(), x), x) {
		t.Errorf("Append(Empty, x) != x")
	}
	if !Equal(Append(x, Empty()), x) {
		t.Errorf("Append(x, Empty) != x")
	}
}

func TestAppendAssociative(t *testing.T) {
	a := FromSlice([]byte("abc"))
	b := FromSlice([]byte("def"))
	c := FromSlice([]byte("ghi"))

	left := Append(Append(a, b), c)
	right := Append(a, Append(b, c))
	if !Equal(left, right) {
		t.Errorf("append not associative: %x vs %x", left.ToSlice(), right.ToSlice())
	}
}

func TestSliceFull(t *testing.T) {
	x := FromSlice([]byte("abcdef"))
	if !Equal(x.Slice(0, x.Length()), x) {
		t.Errorf("Slice(0, Length()) != original")
	}
}

func TestFromSliceBorrowsFromSliceCopyDoesNot(t *testing.T) {
	data := []byte("mutate me later")
	borrowed := FromSlice(data)
	copied := FromSliceCopy(data)

	data[0] = 'X'

	if got := string(borrowed.ToSlice()); got[0] != 'X' {
		t.Errorf("FromSlice did not borrow: got %q", got)
	}
	if got := string(copied.ToSlice()); got[0] == 'X' {
		t.Errorf("FromSliceCopy did not defensively copy: got %q", got)
	}
}

func TestToSliceRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		{0x00},
		{0xff, 0x00, 0x01},
		[]byte("the quick brown fox jumps over the lazy dog"),
	}
	for i, c := range cases {
		bv := FromSliceCopy(c)
		got := bv.ToSlice()
		if len(got) != len(c) {
			t.Fatalf("case #%d: length mismatch: got %d want %d", i, len(got), len(c))
		}
		for j := range c {
			if got[j] != c[j] {
				t.Fatalf("case #%d: byte %d mismatch: got %02x want %02x", i, j, got[j], c[j])
			}
		}
	}
}

func TestAppendAndSliceAgainstReferenceSlice(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var bv ByteVector
	var ref []byte

	for i := 0; i < 500; i++ {
		chunk := make([]byte, 1+rng.Intn(7))
		rng.Read(chunk)
		bv = Append(bv, FromSliceCopy(chunk))
		ref = append(ref, chunk...)
	}

	if bv.Length() != len(ref) {
		t.Fatalf("length mismatch: got %d want %d", bv.Length(), len(ref))
	}
	if got := bv.ToSlice(); string(got) != string(ref) {
		t.Fatalf("ToSlice mismatch")
	}

	for i := 0; i < 200; i++ {
		start := rng.Intn(len(ref))
		n := rng.Intn(len(ref) - start + 1)
		got := bv.Slice(start, n).ToSlice()
		want := ref[start : start+n]
		if string(got) != string(want) {
			t.Fatalf("slice(%d,%d) mismatch: got %x want %x", start, n, got, want)
		}
	}
}

func TestDeeplyNestedAppendStaysReadable(t *testing.T) {
	// A long chain of single-byte appends is the pathological case that
	// forces rebalancing; without it this would build an O(N)-deep tree.
	var bv ByteVector
	for i := 0; i < 4000; i++ {
		bv = Append(bv, FromSlice([]byte{byte(i)}))
	}
	for i := 0; i < 4000; i++ {
		if got := bv.At(i); got != byte(i) {
			t.Fatalf("At(%d) = %d, want %d", i, got, byte(i))
		}
	}
}

func TestReadUintBigEndian(t *testing.T) {
	bv := FromSlice([]byte{0x00, 0x00, 0x01, 0x02})
	v, err := bv.ReadUint32(0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 258 {
		t.Errorf("ReadUint32 = %d, want 258", v)
	}
}

func TestReadUintInsufficientBits(t *testing.T) {
	bv := FromSlice([]byte{0x01, 0x02})
	if _, err := bv.ReadUint32(0); err != ErrInsufficientBits {
		t.Errorf("expected ErrInsufficientBits, got %v", err)
	}
}

func TestEmptyLength(t *testing.T) {
	if Empty().Length() != 0 {
		t.Errorf("Empty().Length() != 0")
	}
	if FromSlice(nil).Length() != 0 {
		t.Errorf("FromSlice(nil).Length() != 0")
	}
}
