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
	"encoding/binary"

	"github.com/dchest/siphash"

	"github.com/plausiblelabs/rcodec/bytevector"
	"github.com/plausiblelabs/rcodec/codec"
)

// Checksummed wraps inner, appending an 8-byte SipHash-2-4 tag (keyed by
// k0, k1) computed over inner's encoded bytes. Decode recomputes the tag
// over the bytes inner actually consumed and reports KindConstantMismatch
// if it does not match the trailing 8 bytes on the wire.
func Checksummed[T any](k0, k1 uint64, inner codec.Codec[T]) codec.Codec[T] {
	return codec.New[T](inner.Name()+".checksummed",
		func(v T) (bytevector.ByteVector, error) {
			payload, err := inner.Encode(v)
			if err != nil {
				return bytevector.Empty(), err
			}
			tag := tagBytes(k0, k1, payload)
			return bytevector.Append(payload, bytevector.FromSlice(tag)), nil
		},
		func(bv bytevector.ByteVector) (T, bytevector.ByteVector, error) {
			v, rem, err := inner.Decode(bv)
			if err != nil {
				var zero T
				return zero, bv, err
			}
			consumed := bv.Length() - rem.Length()
			payload := bv.Slice(0, consumed)

			if rem.Length() < 8 {
				var zero T
				return zero, bv, codec.ErrInsufficientBits(8, rem.Length())
			}
			got := rem.Slice(0, 8)
			want := bytevector.FromSlice(tagBytes(k0, k1, payload))
			if !bytevector.Equal(got, want) {
				var zero T
				return zero, bv, codec.ErrConstantMismatch(want, got)
			}
			return v, rem.Slice(8, rem.Length()-8), nil
		},
	)
}

func tagBytes(k0, k1 uint64, payload bytevector.ByteVector) []byte {
	tag := siphash.Hash(k0, k1, payload.ToSlice())
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, tag)
	return buf
}
