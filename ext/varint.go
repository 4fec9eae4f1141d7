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

package ext

import (
	"math/bits"

	"github.com/plausiblelabs/rcodec/bytevector"
	"github.com/plausiblelabs/rcodec/codec"
)

// varUintSize returns the number of bytes needed to encode v as a 7-bits-
// per-byte variable-width unsigned integer.
func varUintSize(v uint64) int {
	return (bits.Len64(v|1) + 6) / 7
}

// VarUint is a variable-width unsigned integer codec: 7 payload bits per
// byte, most significant group first, with the high bit set only on the
// final byte to mark the end of the value. Unlike the fixed-width Uint64, its wire size depends on the
// value, which makes it a better fit for length and count fields that are
// usually small.
func VarUint() codec.Codec[uint64] {
	return codec.New[uint64]("varuint",
		func(v uint64) (bytevector.ByteVector, error) {
			n := varUintSize(v)
			buf := make([]byte, n)
			off := n - 1
			buf[off] = byte(v&0x7f) | 0x80
			for off > 0 {
				off--
				v >>= 7
				buf[off] = byte(v & 0x7f)
			}
			return bytevector.FromSlice(buf), nil
		},
		func(bv bytevector.ByteVector) (uint64, bytevector.ByteVector, error) {
			var out uint64
			n := bv.Length()
			limit := n
			if limit > 10 {
				limit = 10 // 10*7 bits comfortably covers a uint64
			}
			for i := 0; i < limit; i++ {
				b := bv.At(i)
				out = out<<7 | uint64(b&0x7f)
				if b&0x80 != 0 {
					return out, bv.Slice(i+1, n-i-1), nil
				}
			}
			return 0, bv, codec.ErrInsufficientBits(limit+1, n)
		},
	)
}
