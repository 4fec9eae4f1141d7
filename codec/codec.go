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

// Package codec defines the shared contract every binary codec in this
// module implements, the primitive codecs (fixed-width integers, raw
// bytes, constants, padding), and the combinators that build larger codecs
// out of smaller ones (sequencing, context-dependent decoding, mapping,
// error-context scoping, and record binding).
//
// Codecs are values: constructed once, safe to share across goroutines,
// and free of hidden mutable state. Encode and Decode never panic on
// malformed input; they report a *codec.Error instead.
package codec

import "github.com/plausiblelabs/rcodec/bytevector"

// Unit is the payload type of codecs that carry no information of their
// own (Constant, Ignore). It is the codec-algebra equivalent of Go's
// struct{}.
type Unit struct{}

// Codec denotes a bidirectional mapping between values of type T and
// ByteVectors.
type Codec[T any] interface {
	// Name is a short, human-readable description of the codec, used to
	// build combinator names and to aid debugging; it is not part of the
	// wire format.
	Name() string

	// Encode serializes value, or reports a *codec.Error (typically
	// KindEncoding or KindConversion) if value violates some codec's
	// precondition.
	Encode(value T) (bytevector.ByteVector, error)

	// Decode consumes a prefix of bv and returns the decoded value
	// alongside the unconsumed remainder. A failure reports a
	// *codec.Error (typically KindInsufficientBits, KindConstantMismatch,
	// or KindConversion).
	Decode(bv bytevector.ByteVector) (T, bytevector.ByteVector, error)
}

// codecFuncs is the one concrete Codec implementation every primitive and
// combinator in this package funnels through, so adding a new codec never
// requires a new named type.
type codecFuncs[T any] struct {
	name   string
	encode func(T) (bytevector.ByteVector, error)
	decode func(bytevector.ByteVector) (T, bytevector.ByteVector, error)
}

func (c *codecFuncs[T]) Name() string { return c.name }

func (c *codecFuncs[T]) Encode(value T) (bytevector.ByteVector, error) {
	return c.encode(value)
}

func (c *codecFuncs[T]) Decode(bv bytevector.ByteVector) (T, bytevector.ByteVector, error) {
	return c.decode(bv)
}

// New builds a Codec[T] from a name and an encode/decode pair. Every
// primitive and combinator in this module is expressed in terms of New.
func New[T any](
	name string,
	encode func(T) (bytevector.ByteVector, error),
	decode func(bytevector.ByteVector) (T, bytevector.ByteVector, error),
) Codec[T] {
	return &codecFuncs[T]{name: name, encode: encode, decode: decode}
}
