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
	"github.com/plausiblelabs/rcodec/bytevector"
	"github.com/plausiblelabs/rcodec/hlist"
)

// Prepend sequences a head codec in front of a tail codec, producing a
// codec for the HList obtained by consing the head's value onto the tail's.
// Bytes appear head-first on the wire for both Encode and Decode.
func Prepend[H any, T hlist.HList](head Codec[H], tail Codec[T]) Codec[hlist.HCons[H, T]] {
	return New[hlist.HCons[H, T]](head.Name()+" :: "+tail.Name(),
		func(v hlist.HCons[H, T]) (bytevector.ByteVector, error) {
			hb, err := head.Encode(v.Head)
			if err != nil {
				return bytevector.Empty(), err
			}
			tb, err := tail.Encode(v.Tail)
			if err != nil {
				return bytevector.Empty(), err
			}
			return bytevector.Append(hb, tb), nil
		},
		func(bv bytevector.ByteVector) (hlist.HCons[H, T], bytevector.ByteVector, error) {
			h, rem, err := head.Decode(bv)
			if err != nil {
				var zero hlist.HCons[H, T]
				return zero, bv, err
			}
			t, rem2, err := tail.Decode(rem)
			if err != nil {
				var zero hlist.HCons[H, T]
				return zero, bv, err
			}
			return hlist.Cons(h, t), rem2, nil
		},
	)
}

// DropLeft sequences a Unit-typed codec (typically Constant or Ignore)
// ahead of a value codec, discarding the unit's decoded value. It is the
// combinator used for magic numbers, version tags, and padding.
func DropLeft[T any](unit Codec[Unit], value Codec[T]) Codec[T] {
	return New[T](unit.Name()+" >> "+value.Name(),
		func(v T) (bytevector.ByteVector, error) {
			ub, err := unit.Encode(Unit{})
			if err != nil {
				return bytevector.Empty(), err
			}
			vb, err := value.Encode(v)
			if err != nil {
				return bytevector.Empty(), err
			}
			return bytevector.Append(ub, vb), nil
		},
		func(bv bytevector.ByteVector) (T, bytevector.ByteVector, error) {
			_, rem, err := unit.Decode(bv)
			if err != nil {
				var zero T
				return zero, bv, err
			}
			return value.Decode(rem)
		},
	)
}

// FlatMap decodes an A, derives a B-codec from it, and decodes a B from the
// remainder; f must be pure, returning an equivalent codec whenever it is
// invoked again with an equal A. Because encoding a B requires knowing
// which A produced its codec, the combinator's value type carries both: an
// HCons of A followed by an HCons of B followed by HNil.
func FlatMap[A any, B any](ca Codec[A], f func(A) Codec[B]) Codec[hlist.HCons[A, hlist.HCons[B, hlist.HNil]]] {
	type L = hlist.HCons[A, hlist.HCons[B, hlist.HNil]]
	return New[L](ca.Name()+".flatMap(...)",
		func(v L) (bytevector.ByteVector, error) {
			ab, err := ca.Encode(v.Head)
			if err != nil {
				return bytevector.Empty(), err
			}
			cb := f(v.Head)
			bb, err := cb.Encode(v.Tail.Head)
			if err != nil {
				return bytevector.Empty(), err
			}
			return bytevector.Append(ab, bb), nil
		},
		func(bv bytevector.ByteVector) (L, bytevector.ByteVector, error) {
			a, rem, err := ca.Decode(bv)
			if err != nil {
				var zero L
				return zero, bv, err
			}
			cb := f(a)
			b, rem2, err := cb.Decode(rem)
			if err != nil {
				var zero L
				return zero, bv, err
			}
			return hlist.Cons(a, hlist.Cons(b, hlist.HNil{})), rem2, nil
		},
	)
}

// Xmap applies a total, mutually-inverse pair of functions to move a codec
// from type A to type B. to and from must be inverses on the supported
// value space, or decode-then-encode may not reproduce the original bytes;
// round-trip tests are the way to catch a violation.
func Xmap[A any, B any](ca Codec[A], to func(A) B, from func(B) A) Codec[B] {
	return New[B](ca.Name()+".xmap",
		func(v B) (bytevector.ByteVector, error) {
			return ca.Encode(from(v))
		},
		func(bv bytevector.ByteVector) (B, bytevector.ByteVector, error) {
			a, rem, err := ca.Decode(bv)
			if err != nil {
				var zero B
				return zero, bv, err
			}
			return to(a), rem, nil
		},
	)
}

// Exmap is the error-returning variant of Xmap for host languages, like Go,
// without a native notion of a partial inverse: to and from may reject a
// value, reported as KindConversion.
func Exmap[A any, B any](ca Codec[A], to func(A) (B, error), from func(B) (A, error)) Codec[B] {
	return New[B](ca.Name()+".exmap",
		func(v B) (bytevector.ByteVector, error) {
			a, err := from(v)
			if err != nil {
				return bytevector.Empty(), ErrConversion(err.Error())
			}
			return ca.Encode(a)
		},
		func(bv bytevector.ByteVector) (B, bytevector.ByteVector, error) {
			a, rem, err := ca.Decode(bv)
			if err != nil {
				var zero B
				return zero, bv, err
			}
			b, err := to(a)
			if err != nil {
				var zero B
				return zero, bv, ErrConversion(err.Error())
			}
			return b, rem, nil
		},
	)
}

// WithContext wraps inner so that any failure it reports has label pushed
// onto the front of the resulting error's context stack. It does not alter
// success behavior or wire bytes.
func WithContext[T any](label string, inner Codec[T]) Codec[T] {
	return New[T](label+": "+inner.Name(),
		func(v T) (bytevector.ByteVector, error) {
			bv, err := inner.Encode(v)
			if err != nil {
				return bv, pushContext(label, err)
			}
			return bv, nil
		},
		func(bv bytevector.ByteVector) (T, bytevector.ByteVector, error) {
			v, rem, err := inner.Decode(bv)
			if err != nil {
				return v, bv, pushContext(label, err)
			}
			return v, rem, nil
		},
	)
}
