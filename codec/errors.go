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
	"errors"
	"fmt"
	"strings"

	"github.com/plausiblelabs/rcodec/bytevector"
)

// Kind tags the category of failure an Error represents.
type Kind int

const (
	// KindInsufficientBits means decode attempted to consume more bytes
	// than remained in the input.
	KindInsufficientBits Kind = iota
	// KindEncoding means an encode precondition was violated.
	KindEncoding
	// KindConstantMismatch means a Constant codec decoded bytes that did
	// not equal the expected literal.
	KindConstantMismatch
	// KindConversion means an Xmap/Exmap function, or a record
	// isomorphism, failed.
	KindConversion
)

func (k Kind) String() string {
	switch k {
	case KindInsufficientBits:
		return "insufficient bits"
	case KindEncoding:
		return "encoding"
	case KindConstantMismatch:
		return "constant mismatch"
	case KindConversion:
		return "conversion"
	default:
		return "unknown"
	}
}

// Error is the error type every codec in this module returns. It carries a
// Kind plus whatever fields that kind needs, and an ordered stack of
// context labels pushed by WithContext as the error propagates outward.
type Error struct {
	Kind    Kind
	Message string

	// Set only for KindInsufficientBits.
	Needed, Available int

	// Set only for KindConstantMismatch.
	Expected, Actual bytevector.ByteVector

	// Context holds labels from outermost to innermost, pushed by
	// WithContext; Error() renders them as "label1 / label2 / ... / msg".
	Context []string
}

func (e *Error) Error() string {
	var b strings.Builder
	for _, c := range e.Context {
		b.WriteString(c)
		b.WriteString(" / ")
	}
	switch e.Kind {
	case KindInsufficientBits:
		fmt.Fprintf(&b, "insufficient bits: needed %d, available %d", e.Needed, e.Available)
	case KindConstantMismatch:
		fmt.Fprintf(&b, "constant mismatch: expected % x, got % x", e.Expected.ToSlice(), e.Actual.ToSlice())
	default:
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, &codec.Error{Kind: codec.KindEncoding}).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// ErrInsufficientBits builds a KindInsufficientBits error.
func ErrInsufficientBits(needed, available int) *Error {
	return &Error{Kind: KindInsufficientBits, Needed: needed, Available: available}
}

// ErrEncoding builds a KindEncoding error.
func ErrEncoding(msg string) *Error {
	return &Error{Kind: KindEncoding, Message: msg}
}

// ErrConstantMismatch builds a KindConstantMismatch error.
func ErrConstantMismatch(expected, actual bytevector.ByteVector) *Error {
	return &Error{Kind: KindConstantMismatch, Expected: expected, Actual: actual}
}

// ErrConversion builds a KindConversion error.
func ErrConversion(msg string) *Error {
	return &Error{Kind: KindConversion, Message: msg}
}

// pushContext returns a copy of err (converting a non-*Error into a
// KindEncoding wrapper first) with label pushed onto its Context stack.
func pushContext(label string, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: KindEncoding, Message: err.Error()}
	}
	// A label pushed by an outer WithContext must print before labels
	// pushed by WithContext wrappers nested inside it, so the result
	// reads as an outer-to-inner field path: prepend, don't append.
	cp := *e
	cp.Context = append([]string{label}, e.Context...)
	return &cp
}
