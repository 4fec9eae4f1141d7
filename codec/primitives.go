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
	"fmt"

	"github.com/plausiblelabs/rcodec/bytevector"
)

func fixedWidthUint[T ~uint8 | ~uint16 | ~uint32 | ~uint64](
	name string,
	width int,
	read func(bytevector.ByteVector, int) (T, error),
	write func(v T, dst []byte),
) Codec[T] {
	return New[T](name,
		func(v T) (bytevector.ByteVector, error) {
			buf := make([]byte, width)
			write(v, buf)
			return bytevector.FromSlice(buf), nil
		},
		func(bv bytevector.ByteVector) (T, bytevector.ByteVector, error) {
			v, err := read(bv, 0)
			if err != nil {
				var zero T
				return zero, bv, asInsufficientBits(err, width, bv.Length())
			}
			return v, bv.Slice(width, bv.Length()-width), nil
		},
	)
}

func asInsufficientBits(err error, needed, available int) error {
	if err == bytevector.ErrInsufficientBits {
		return ErrInsufficientBits(needed, available)
	}
	return err
}

// Uint8 is a fixed 1-byte unsigned integer codec.
func Uint8() Codec[uint8] {
	return fixedWidthUint("uint8", 1,
		func(bv bytevector.ByteVector, off int) (uint8, error) { return bv.ReadUint8(off) },
		func(v uint8, dst []byte) { dst[0] = v })
}

// Uint16 is a fixed 2-byte big-endian unsigned integer codec.
func Uint16() Codec[uint16] {
	return fixedWidthUint("uint16", 2,
		func(bv bytevector.ByteVector, off int) (uint16, error) { return bv.ReadUint16(off) },
		func(v uint16, dst []byte) {
			dst[0] = byte(v >> 8)
			dst[1] = byte(v)
		})
}

// Uint32 is a fixed 4-byte big-endian unsigned integer codec.
func Uint32() Codec[uint32] {
	return fixedWidthUint("uint32", 4,
		func(bv bytevector.ByteVector, off int) (uint32, error) { return bv.ReadUint32(off) },
		func(v uint32, dst []byte) {
			dst[0] = byte(v >> 24)
			dst[1] = byte(v >> 16)
			dst[2] = byte(v >> 8)
			dst[3] = byte(v)
		})
}

// Uint64 is a fixed 8-byte big-endian unsigned integer codec.
func Uint64() Codec[uint64] {
	return fixedWidthUint("uint64", 8,
		func(bv bytevector.ByteVector, off int) (uint64, error) { return bv.ReadUint64(off) },
		func(v uint64, dst []byte) {
			dst[0] = byte(v >> 56)
			dst[1] = byte(v >> 48)
			dst[2] = byte(v >> 40)
			dst[3] = byte(v >> 32)
			dst[4] = byte(v >> 24)
			dst[5] = byte(v >> 16)
			dst[6] = byte(v >> 8)
			dst[7] = byte(v)
		})
}

// Bytes reads exactly n bytes into a ByteVector. Encode requires the value
// to have length exactly n, reporting KindEncoding otherwise.
func Bytes(n int) Codec[bytevector.ByteVector] {
	return New[bytevector.ByteVector](fmt.Sprintf("bytes(%d)", n),
		func(v bytevector.ByteVector) (bytevector.ByteVector, error) {
			if v.Length() != n {
				return bytevector.Empty(), ErrEncoding(fmt.Sprintf("expected %d bytes, got %d", n, v.Length()))
			}
			return v, nil
		},
		func(bv bytevector.ByteVector) (bytevector.ByteVector, bytevector.ByteVector, error) {
			if bv.Length() < n {
				return bytevector.Empty(), bv, ErrInsufficientBits(n, bv.Length())
			}
			return bv.Slice(0, n), bv.Slice(n, bv.Length()-n), nil
		},
	)
}

// Constant ignores its Unit value on encode, always emitting the literal
// bytes of bv. Decode reads bv.Length() bytes and reports
// KindConstantMismatch if they do not compare equal to bv.
func Constant(bv bytevector.ByteVector) Codec[Unit] {
	n := bv.Length()
	return New[Unit](fmt.Sprintf("constant(% x)", bv.ToSlice()),
		func(Unit) (bytevector.ByteVector, error) {
			return bv, nil
		},
		func(input bytevector.ByteVector) (Unit, bytevector.ByteVector, error) {
			if input.Length() < n {
				return Unit{}, input, ErrInsufficientBits(n, input.Length())
			}
			got := input.Slice(0, n)
			if !bytevector.Equal(got, bv) {
				return Unit{}, input, ErrConstantMismatch(bv, got)
			}
			return Unit{}, input.Slice(n, input.Length()-n), nil
		},
	)
}

// Ignore is Unit-typed: encode emits n zero bytes, decode consumes and
// discards n bytes.
func Ignore(n int) Codec[Unit] {
	zeros := make([]byte, n)
	return New[Unit](fmt.Sprintf("ignore(%d)", n),
		func(Unit) (bytevector.ByteVector, error) {
			return bytevector.FromSlice(zeros), nil
		},
		func(bv bytevector.ByteVector) (Unit, bytevector.ByteVector, error) {
			if bv.Length() < n {
				return Unit{}, bv, ErrInsufficientBits(n, bv.Length())
			}
			return Unit{}, bv.Slice(n, bv.Length()-n), nil
		},
	)
}

// Eager forces inner's result. In a strictly evaluated host language like
// Go this is a no-op; it exists for API parity with the wider combinator
// vocabulary the spec describes, so a codec description ported from a
// lazily-evaluated host language needs no changes here.
func Eager[T any](inner Codec[T]) Codec[T] {
	return inner
}
