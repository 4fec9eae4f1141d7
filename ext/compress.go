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
	"github.com/klauspost/compress/zstd"

	"github.com/plausiblelabs/rcodec/bytevector"
	"github.com/plausiblelabs/rcodec/codec"
)

// zstdEncoder and zstdDecoder are created once and reused across every
// Compressed codec: both support concurrent EncodeAll/DecodeAll calls, so
// there is no reason to pay zstd's setup cost per codec construction.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	zstdEncoder = enc

	dec, err := zstd.NewReader(nil)
	if err != nil {
		panic(err)
	}
	zstdDecoder = dec
}

// Compressed wraps inner, zstd-compressing its encoded bytes behind a
// Uint64 length prefix giving the compressed payload's size. It is meant
// for large, optional, or repetitive payloads where the compression ratio
// outweighs the framing overhead.
func Compressed[T any](inner codec.Codec[T]) codec.Codec[T] {
	length := codec.Uint64()
	return codec.New[T](inner.Name()+".compressed",
		func(v T) (bytevector.ByteVector, error) {
			payload, err := inner.Encode(v)
			if err != nil {
				return bytevector.Empty(), err
			}
			compressed := zstdEncoder.EncodeAll(payload.ToSlice(), nil)
			lengthBytes, err := length.Encode(uint64(len(compressed)))
			if err != nil {
				return bytevector.Empty(), err
			}
			return bytevector.Append(lengthBytes, bytevector.FromSlice(compressed)), nil
		},
		func(bv bytevector.ByteVector) (T, bytevector.ByteVector, error) {
			n, rem, err := length.Decode(bv)
			if err != nil {
				var zero T
				return zero, bv, err
			}
			if n > uint64(rem.Length()) {
				var zero T
				return zero, bv, codec.ErrInsufficientBits(int(n), rem.Length())
			}
			compressed := rem.Slice(0, int(n))
			rest := rem.Slice(int(n), rem.Length()-int(n))

			decompressed, err := zstdDecoder.DecodeAll(compressed.ToSlice(), nil)
			if err != nil {
				var zero T
				return zero, bv, codec.ErrConversion("zstd: " + err.Error())
			}
			v, innerRem, err := inner.Decode(bytevector.FromSlice(decompressed))
			if err != nil {
				var zero T
				return zero, bv, err
			}
			if innerRem.Length() != 0 {
				var zero T
				return zero, bv, codec.ErrConversion("compressed payload had trailing bytes after decode")
			}
			return v, rest, nil
		},
	)
}
