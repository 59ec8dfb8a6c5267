// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import "errors"

// Kind classifies a codec Error into one of the three taxonomy buckets the
// format distinguishes between.
type Kind uint8

const (
	// BadInput covers magic mismatches, unsupported versions, malformed
	// strings, invalid opcode tags and out-of-range offsets found inside an
	// otherwise large-enough buffer.
	BadInput Kind = iota

	// Incomplete is returned when the buffer is shorter than the bytes a
	// read requires.
	Incomplete

	// BadOffset is returned when a cursor would land past the end of the
	// buffer.
	BadOffset
)

func (k Kind) String() string {
	switch k {
	case BadInput:
		return "bad input"
	case Incomplete:
		return "incomplete"
	case BadOffset:
		return "bad offset"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by the codec layer.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Sentinel errors, declared next to the structures they guard.
var (
	// ErrBadMagic is returned when the header's magic bytes aren't "REDS".
	ErrBadMagic = newError(BadInput, "invalid magic number")

	// ErrUnsupportedVersion is returned when the header's version field is
	// anything other than the single supported version.
	ErrUnsupportedVersion = newError(BadInput, "unsupported version")

	// ErrOutsideBoundary is returned when attempting to read data beyond
	// the buffer's limits.
	ErrOutsideBoundary = newError(Incomplete, "reading data outside boundary")

	// ErrBadOffset is returned when a cursor lands past the end of the
	// buffer.
	ErrBadOffset = newError(BadOffset, "cursor past end of buffer")

	// ErrMalformedString is returned when a zero-terminated string runs off
	// the end of the buffer without a terminator.
	ErrMalformedString = newError(BadInput, "unterminated string in blob")

	// ErrInvalidOpcode is returned when an instruction tag byte does not
	// map to any known opcode.
	ErrInvalidOpcode = newError(BadInput, "invalid opcode tag")

	// ErrUndefinedAtNonZero is returned if a non-zero definition entry
	// decodes as Undefined, which must only ever occupy index 0.
	ErrUndefinedAtNonZero = newError(BadInput, "undefined definition outside index 0")

	// ErrInvalidDefinitionKind is returned when a definition header's kind
	// tag does not map to any known variant.
	ErrInvalidDefinitionKind = newError(BadInput, "invalid definition kind tag")

	// ErrWrongVariant is the value the panicking typed-accessor form panics
	// with when the index is out of range or the definition at it has a
	// different variant.
	ErrWrongVariant = errors.New("scriptbundle: unresolved index: unexpected definition variant")

	// ErrEncodeTarget is returned if a caller attempts to encode the
	// synthetic Target instruction, which must never be written.
	ErrEncodeTarget = errors.New("scriptbundle: Target is a synthetic marker and cannot be encoded")
)
