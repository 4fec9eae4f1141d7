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

// Package bytevector implements an immutable, structurally shared byte
// sequence: append without copying, logarithmic-time random access and
// slicing, and no copying of the buffers a caller hands in. Append is
// constant time except when the result grows too deep, in which case the
// whole tree is rebuilt in time linear in its number of leaves.
//
// A ByteVector is a small value (a single node pointer) that is cheap to
// copy and safe to share across goroutines without synchronization; every
// operation that looks like a mutation returns a new ByteVector sharing
// structure with its inputs.
package bytevector

import (
	"errors"
	"math/bits"

	"golang.org/x/exp/slices"
)

// ErrInsufficientBits is returned by the ReadUintN family when fewer bytes
// remain than the operation requires. (At panics instead.)
var ErrInsufficientBits = errors.New("bytevector: insufficient bits")

// node is the internal tree representation. It is never exposed outside
// this package; ByteVector is the only public handle to a tree.
type node interface {
	length() int
	depth() int
	at(i int) byte
	copyRange(dst []byte, start, n int)
}

// leaf wraps a contiguous buffer directly. It may be borrowed (FromSlice) or
// owned (FromSliceCopy); either way the package never mutates it.
type leaf struct {
	data []byte
}

func (l *leaf) length() int { return len(l.data) }
func (l *leaf) depth() int  { return 0 }
func (l *leaf) at(i int) byte {
	return l.data[i]
}
func (l *leaf) copyRange(dst []byte, start, n int) {
	copy(dst, l.data[start:start+n])
}

// window is a sub-range of another node, recorded without copying.
type window struct {
	base  node
	start int
	size  int
}

func (w *window) length() int { return w.size }
func (w *window) depth() int  { return w.base.depth() }
func (w *window) at(i int) byte {
	return w.base.at(w.start + i)
}
func (w *window) copyRange(dst []byte, start, n int) {
	w.base.copyRange(dst, w.start+start, n)
}

// concat glues two nodes together. leftLen and total are cached so that
// length() and the left/right dispatch in at()/copyRange() are O(1).
type concat struct {
	left, right    node
	leftLen, total int
	nodeDepth      int
}

func (c *concat) length() int { return c.total }
func (c *concat) depth() int  { return c.nodeDepth }
func (c *concat) at(i int) byte {
	if i < c.leftLen {
		return c.left.at(i)
	}
	return c.right.at(i - c.leftLen)
}
func (c *concat) copyRange(dst []byte, start, n int) {
	if n == 0 {
		return
	}
	if start+n <= c.leftLen {
		c.left.copyRange(dst, start, n)
		return
	}
	if start >= c.leftLen {
		c.right.copyRange(dst, start-c.leftLen, n)
		return
	}
	fromLeft := c.leftLen - start
	c.left.copyRange(dst[:fromLeft], start, fromLeft)
	c.right.copyRange(dst[fromLeft:], 0, n-fromLeft)
}

// ByteVector is an immutable sequence of bytes. The zero value is the empty
// vector.
type ByteVector struct {
	root node
}

// Empty returns the zero-length ByteVector.
func Empty() ByteVector { return ByteVector{} }

// FromSlice wraps data without copying it. The caller must not mutate data
// afterward; doing so would violate the immutability every other operation
// in this package assumes.
func FromSlice(data []byte) ByteVector {
	if len(data) == 0 {
		return Empty()
	}
	return ByteVector{root: &leaf{data: data}}
}

// FromSliceCopy defensively copies data before wrapping it, for callers that
// cannot guarantee the slice is otherwise left alone.
func FromSliceCopy(data []byte) ByteVector {
	if len(data) == 0 {
		return Empty()
	}
	return FromSlice(slices.Clone(data))
}

// Length returns the number of bytes in bv.
func (bv ByteVector) Length() int {
	if bv.root == nil {
		return 0
	}
	return bv.root.length()
}

// At returns the byte at index i, panicking if i is out of [0, Length()).
// Callers decoding untrusted input should check bounds with Length first,
// or use a codec, which reports KindInsufficientBits instead of panicking.
func (bv ByteVector) At(i int) byte {
	if i < 0 || i >= bv.Length() {
		panic("bytevector: index out of range")
	}
	return bv.root.at(i)
}

// Slice returns the n bytes starting at start, sharing structure with bv and
// never copying. It panics if the range is out of bounds.
func (bv ByteVector) Slice(start, n int) ByteVector {
	if start < 0 || n < 0 || start+n > bv.Length() {
		panic("bytevector: slice out of range")
	}
	if n == 0 {
		return Empty()
	}
	if start == 0 && n == bv.Length() {
		return bv
	}
	if w, ok := bv.root.(*window); ok {
		return ByteVector{root: &window{base: w.base, start: w.start + start, size: n}}
	}
	return ByteVector{root: &window{base: bv.root, start: start, size: n}}
}

// Append concatenates a and b, returning the other unchanged if either is
// empty. The resulting tree is rebalanced if its depth has grown
// disproportionate to its length, keeping At/Slice/ReadUintN logarithmic;
// that rebuild flattens the whole tree and costs time linear in its number
// of leaves, so a long chain of small appends is not constant time per
// append.
func Append(a, b ByteVector) ByteVector {
	if a.Length() == 0 {
		return b
	}
	if b.Length() == 0 {
		return a
	}
	n := &concat{
		left:    a.root,
		right:   b.root,
		leftLen: a.Length(),
		total:   a.Length() + b.Length(),
	}
	n.nodeDepth = 1 + max(a.root.depth(), b.root.depth())
	return ByteVector{root: rebalance(n)}
}

// rebalanceSlack bounds how far a tree's depth may exceed the theoretical
// minimum (roughly log2 of its length) before it is flattened and rebuilt.
// A small slack avoids rebuilding on every single append while still
// bounding worst-case depth for pathological left- or right-leaning chains.
const rebalanceSlack = 8

func rebalance(n node) node {
	length := n.length()
	if length == 0 {
		return n
	}
	limit := bits.Len(uint(length)) + rebalanceSlack
	if n.depth() <= limit {
		return n
	}
	leaves := collectLeaves(n, nil)
	return buildBalanced(leaves)
}

func collectLeaves(n node, out []node) []node {
	switch v := n.(type) {
	case *concat:
		out = collectLeaves(v.left, out)
		out = collectLeaves(v.right, out)
		return out
	default:
		return append(out, n)
	}
}

func buildBalanced(leaves []node) node {
	if len(leaves) == 1 {
		return leaves[0]
	}
	mid := len(leaves) / 2
	left := buildBalanced(leaves[:mid])
	right := buildBalanced(leaves[mid:])
	return &concat{
		left:      left,
		right:     right,
		leftLen:   left.length(),
		total:     left.length() + right.length(),
		nodeDepth: 1 + max(left.depth(), right.depth()),
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ToSlice materializes bv into a single contiguous buffer. This is the
// system boundary: the result is always freshly allocated and safe for the
// caller to mutate.
func (bv ByteVector) ToSlice() []byte {
	n := bv.Length()
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	bv.root.copyRange(out, 0, n)
	return out
}

// Equal reports whether a and b contain the same bytes, regardless of how
// each is represented internally.
func Equal(a, b ByteVector) bool {
	if a.Length() != b.Length() {
		return false
	}
	n := a.Length()
	for i := 0; i < n; i++ {
		if a.root.at(i) != b.root.at(i) {
			return false
		}
	}
	return true
}

func readUint(bv ByteVector, offset, width int) (uint64, error) {
	if offset < 0 || width < 0 || offset+width > bv.Length() {
		return 0, ErrInsufficientBits
	}
	var v uint64
	for i := 0; i < width; i++ {
		v = v<<8 | uint64(bv.root.at(offset+i))
	}
	return v, nil
}

// ReadUint8 reads a single big-endian byte at offset.
func (bv ByteVector) ReadUint8(offset int) (uint8, error) {
	v, err := readUint(bv, offset, 1)
	return uint8(v), err
}

// ReadUint16 reads a 2-byte big-endian unsigned integer at offset.
func (bv ByteVector) ReadUint16(offset int) (uint16, error) {
	v, err := readUint(bv, offset, 2)
	return uint16(v), err
}

// ReadUint32 reads a 4-byte big-endian unsigned integer at offset.
func (bv ByteVector) ReadUint32(offset int) (uint32, error) {
	v, err := readUint(bv, offset, 4)
	return uint32(v), err
}

// ReadUint64 reads an 8-byte big-endian unsigned integer at offset.
func (bv ByteVector) ReadUint64(offset int) (uint64, error) {
	return readUint(bv, offset, 8)
}
