// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import "encoding/binary"

// reader is a minimal bounds-checked cursor over a byte slice, generalized
// from offset-taking ReadUint32/ReadUint8-style methods into a standalone
// cursor since a bundle has many independent tables instead of one single
// mmap'd file.
type reader struct {
	data []byte
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) size() uint32 {
	return uint32(len(r.data))
}

// readUint8 reads a uint8 at offset.
func (r *reader) readUint8(offset uint32) (uint8, *Error) {
	if offset >= r.size() {
		return 0, ErrOutsideBoundary
	}
	return r.data[offset], nil
}

// readUint16 reads a little-endian uint16 at offset.
func (r *reader) readUint16(offset uint32) (uint16, *Error) {
	if offset > r.size() || r.size()-offset < 2 {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint16(r.data[offset:]), nil
}

// readUint32 reads a little-endian uint32 at offset.
func (r *reader) readUint32(offset uint32) (uint32, *Error) {
	if offset > r.size() || r.size()-offset < 4 {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint32(r.data[offset:]), nil
}

// readUint64 reads a little-endian uint64 at offset.
func (r *reader) readUint64(offset uint32) (uint64, *Error) {
	if offset > r.size() || r.size()-offset < 8 {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint64(r.data[offset:]), nil
}

// readInt16 reads a little-endian signed int16 at offset.
func (r *reader) readInt16(offset uint32) (int16, *Error) {
	v, err := r.readUint16(offset)
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

// readBytes returns a sub-slice of length size at offset, without copying.
func (r *reader) readBytes(offset, size uint32) ([]byte, *Error) {
	total := offset + size
	if (total > offset) != (size > 0) {
		return nil, ErrOutsideBoundary
	}
	if offset > r.size() || total > r.size() {
		return nil, ErrOutsideBoundary
	}
	return r.data[offset:total], nil
}

// readCString reads a zero-terminated byte run starting at offset and
// returns it (without the terminator), zero-copy into the backing buffer.
func (r *reader) readCString(offset uint32) ([]byte, *Error) {
	if offset > r.size() {
		return nil, ErrOutsideBoundary
	}
	end := offset
	for end < r.size() {
		if r.data[end] == 0 {
			return r.data[offset:end], nil
		}
		end++
	}
	return nil, ErrMalformedString
}

// --- fixed-width writer helpers ---

func putUint8(b []byte, offset uint32, v uint8) {
	b[offset] = v
}

func putUint16(b []byte, offset uint32, v uint16) {
	binary.LittleEndian.PutUint16(b[offset:], v)
}

func putUint32(b []byte, offset uint32, v uint32) {
	binary.LittleEndian.PutUint32(b[offset:], v)
}

func putUint64(b []byte, offset uint32, v uint64) {
	binary.LittleEndian.PutUint64(b[offset:], v)
}

func putInt16(b []byte, offset uint32, v int16) {
	putUint16(b, offset, uint16(v))
}
