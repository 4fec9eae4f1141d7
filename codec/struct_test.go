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
	"testing"

	"github.com/plausiblelabs/rcodec/bytevector"
	"github.com/plausiblelabs/rcodec/hlist"
)

type fooBar struct {
	Foo uint8
	Bar uint16
}

type fooBarHList = hlist.HCons[uint8, hlist.HCons[uint16, hlist.HNil]]

var fooBarIso = Iso[fooBar, fooBarHList]{
	ToHList: func(r fooBar) fooBarHList {
		return hlist.Cons(r.Foo, hlist.Cons(r.Bar, hlist.HNil{}))
	},
	FromHList: func(l fooBarHList) fooBar {
		return fooBar{Foo: l.Head, Bar: l.Tail.Head}
	},
}

func hnilCodec() Codec[hlist.HNil] {
	return New[hlist.HNil]("hnil",
		func(hlist.HNil) (bytevector.ByteVector, error) { return bytevector.Empty(), nil },
		func(bv bytevector.ByteVector) (hlist.HNil, bytevector.ByteVector, error) {
			return hlist.HNil{}, bv, nil
		},
	)
}

func TestStructRoundTrip(t *testing.T) {
	inner := Prepend(Uint8(), Prepend(Uint16(), hnilCodec()))
	c := Struct[fooBar](inner, fooBarIso)

	bv, err := c.Encode(fooBar{Foo: 7, Bar: 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x07, 0x00, 0x03}
	if got := bv.ToSlice(); string(got) != string(want) {
		t.Fatalf("Encode = % x, want % x", got, want)
	}

	v, rem, err := c.Decode(bv)
	if err != nil {
		t.Fatal(err)
	}
	if v != (fooBar{Foo: 7, Bar: 3}) {
		t.Fatalf("Decode = %+v, want {Foo:7 Bar:3}", v)
	}
	if rem.Length() != 0 {
		t.Errorf("remainder not empty")
	}
}

func TestStructReportsFieldFailure(t *testing.T) {
	inner := WithContext("bar", Prepend(Uint8(), Prepend(Uint16(), hnilCodec())))
	c := Struct[fooBar](inner, fooBarIso)

	_, _, err := c.Decode(bytevector.FromSlice([]byte{0x07}))
	if err == nil {
		t.Fatal("expected error")
	}
}
