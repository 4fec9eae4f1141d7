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

// Package hlist implements a heterogeneous, compile-time-typed cons-list:
// the universal intermediate value the codec package sequences into and
// destructures from. An HList's length and element types are fixed by its
// Go type, not by any runtime tag.
package hlist

// HList marks a type as a valid heterogeneous-list shape: either HNil or an
// HCons whose tail is itself an HList. It has no methods a caller needs to
// implement by hand; embedding is not required because HNil and HCons
// already satisfy it.
type HList interface {
	hlist()
}

// HNil is the empty HList.
type HNil struct{}

func (HNil) hlist() {}

// HCons prepends a head of type H onto a tail HList of type T.
type HCons[H any, T HList] struct {
	Head H
	Tail T
}

func (HCons[H, T]) hlist() {}

// Cons builds an HCons from a head value and a tail list. It exists only to
// save a caller from spelling out HCons[H, T]{...} at call sites.
func Cons[H any, T HList](head H, tail T) HCons[H, T] {
	return HCons[H, T]{Head: head, Tail: tail}
}
