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

// Iso declares the isomorphism between a user record type R and the fixed
// HList shape L its fields decompose into. ToHList and FromHList must be
// total and mutually inverse; Struct does not itself verify this, matching
// the distilled spec's decision to make the isomorphism a declared
// contract rather than something the core checks at runtime.
//
// An Iso may be written by hand, or generated by cmd/codecgen from a YAML
// field schema.
type Iso[R any, L hlist.HList] struct {
	ToHList   func(R) L
	FromHList func(L) R
}

// Struct binds an HList codec to a user record type R via iso, producing a
// Codec[R]. Encode converts r to its HList with iso.ToHList and runs
// inner's Encode; decode runs inner's Decode and converts the result back
// to R with iso.FromHList.
func Struct[R any, L hlist.HList](inner Codec[L], iso Iso[R, L]) Codec[R] {
	return New[R]("struct("+inner.Name()+")",
		func(r R) (bytevector.ByteVector, error) {
			return inner.Encode(iso.ToHList(r))
		},
		func(bv bytevector.ByteVector) (R, bytevector.ByteVector, error) {
			l, rem, err := inner.Decode(bv)
			if err != nil {
				var zero R
				return zero, bv, err
			}
			return iso.FromHList(l), rem, nil
		},
	)
}
