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

// Package ext collects domain codecs built entirely out of the codec
// package's algebra: nothing here reaches into bytevector or codec
// internals, it only composes the public combinators. These are the
// "first users" of the core a reader would expect a binary-codec library
// to ship alongside the core itself.
package ext

import (
	"github.com/google/uuid"

	"github.com/plausiblelabs/rcodec/bytevector"
	"github.com/plausiblelabs/rcodec/codec"
)

// UUID is a Codec[uuid.UUID] for the 16-byte binary UUID representation:
// an Exmap over Bytes(16), the same 16-byte layout uuid.UUID already uses
// as its underlying array.
func UUID() codec.Codec[uuid.UUID] {
	return codec.Exmap(codec.Bytes(16),
		func(bv bytevector.ByteVector) (uuid.UUID, error) {
			var id uuid.UUID
			copy(id[:], bv.ToSlice())
			return id, nil
		},
		func(id uuid.UUID) (bytevector.ByteVector, error) {
			return bytevector.FromSliceCopy(id[:]), nil
		},
	)
}
