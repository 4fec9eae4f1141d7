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
	"crypto/rand"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/plausiblelabs/rcodec/bytevector"
	"github.com/plausiblelabs/rcodec/codec"
)

// Sealed wraps inner, sealing its encoded bytes as a ChaCha20-Poly1305 AEAD
// frame under key (which must be chacha20poly1305.KeySize bytes). The wire
// form is a Uint64 length prefix (covering what follows), a fresh random
// nonce, then the ciphertext (which carries its own 16-byte authentication
// tag), so Sealed composes with Prepend/DropLeft like any other codec.
// Decode fails with KindConversion if the tag does not verify.
func Sealed[T any](key []byte, inner codec.Codec[T]) codec.Codec[T] {
	length := codec.Uint64()
	return codec.New[T](inner.Name()+".sealed",
		func(v T) (bytevector.ByteVector, error) {
			aead, err := chacha20poly1305.New(key)
			if err != nil {
				return bytevector.Empty(), codec.ErrEncoding(err.Error())
			}
			payload, err := inner.Encode(v)
			if err != nil {
				return bytevector.Empty(), err
			}
			nonce := make([]byte, aead.NonceSize())
			if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
				return bytevector.Empty(), codec.ErrEncoding(err.Error())
			}
			sealed := aead.Seal(nil, nonce, payload.ToSlice(), nil)

			frame := bytevector.Append(bytevector.FromSlice(nonce), bytevector.FromSlice(sealed))
			lengthBytes, err := length.Encode(uint64(frame.Length()))
			if err != nil {
				return bytevector.Empty(), err
			}
			return bytevector.Append(lengthBytes, frame), nil
		},
		func(bv bytevector.ByteVector) (T, bytevector.ByteVector, error) {
			aead, err := chacha20poly1305.New(key)
			if err != nil {
				var zero T
				return zero, bv, codec.ErrConversion(err.Error())
			}

			n, rem, err := length.Decode(bv)
			if err != nil {
				var zero T
				return zero, bv, err
			}
			if n > uint64(rem.Length()) {
				var zero T
				return zero, bv, codec.ErrInsufficientBits(int(n), rem.Length())
			}
			frame := rem.Slice(0, int(n))
			rest := rem.Slice(int(n), rem.Length()-int(n))

			nonceSize := aead.NonceSize()
			if frame.Length() < nonceSize {
				var zero T
				return zero, bv, codec.ErrInsufficientBits(nonceSize, frame.Length())
			}
			nonce := frame.Slice(0, nonceSize).ToSlice()
			sealed := frame.Slice(nonceSize, frame.Length()-nonceSize).ToSlice()

			opened, err := aead.Open(nil, nonce, sealed, nil)
			if err != nil {
				var zero T
				return zero, bv, codec.ErrConversion("chacha20poly1305: " + err.Error())
			}
			v, innerRem, err := inner.Decode(bytevector.FromSlice(opened))
			if err != nil {
				var zero T
				return zero, bv, err
			}
			if innerRem.Length() != 0 {
				var zero T
				return zero, bv, codec.ErrConversion("sealed payload had trailing bytes after decode")
			}
			return v, rest, nil
		},
	)
}
