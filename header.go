// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import (
	"encoding/binary"
	"hash/crc32"
)

const (
	// HeaderSize is the fixed on-disk size of the top-level header.
	HeaderSize = 104

	// TableDescriptorSize is the fixed on-disk size of one table
	// descriptor triple (offset, count, crc).
	TableDescriptorSize = 12

	// DefinitionHeaderSize is the fixed on-disk size of one definition
	// header record.
	DefinitionHeaderSize = 20

	// SupportedVersion is the only container version this library reads
	// or writes. Any other value is refused on read.
	SupportedVersion = 14

	// SegmentCount is always stamped into the header's `segments` field
	// on write: one string blob plus six tables.
	SegmentCount = 7

	// unstampedCRC is the sentinel value written into the header's crc
	// field before the header bytes are hashed to produce the real CRC.
	unstampedCRC = 0xDEADBEEF
)

// Magic is the four-byte signature every bundle begins with.
var Magic = [4]byte{'R', 'E', 'D', 'S'}

// TableDescriptor locates one on-disk table: its byte offset, its record
// or byte count, and the CRC-32 of the bytes it occupies.
type TableDescriptor struct {
	Offset uint32
	Count  uint32
	CRC    uint32
}

func (t TableDescriptor) put(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], t.Offset)
	binary.LittleEndian.PutUint32(b[4:8], t.Count)
	binary.LittleEndian.PutUint32(b[8:12], t.CRC)
}

func readTableDescriptor(b []byte) TableDescriptor {
	return TableDescriptor{
		Offset: binary.LittleEndian.Uint32(b[0:4]),
		Count:  binary.LittleEndian.Uint32(b[4:8]),
		CRC:    binary.LittleEndian.Uint32(b[8:12]),
	}
}

// Header is the 104-byte record at offset 0 describing the whole
// container: the six table descriptors plus write-time metadata.
type Header struct {
	Version   uint32
	Flags     uint32
	Timestamp Timestamp
	Build     uint32
	CRC       uint32
	Segments  uint32

	StringData TableDescriptor
	CNames     TableDescriptor
	TweakDBIDs TableDescriptor
	Resources  TableDescriptor
	Defs       TableDescriptor
	Strings    TableDescriptor
}

func (h Header) put(b []byte) {
	copy(b[0:4], Magic[:])
	binary.LittleEndian.PutUint32(b[4:8], h.Version)
	binary.LittleEndian.PutUint32(b[8:12], h.Flags)
	binary.LittleEndian.PutUint64(b[12:20], uint64(h.Timestamp))
	binary.LittleEndian.PutUint32(b[20:24], h.Build)
	binary.LittleEndian.PutUint32(b[24:28], h.CRC)
	binary.LittleEndian.PutUint32(b[28:32], h.Segments)
	h.StringData.put(b[32:44])
	h.CNames.put(b[44:56])
	h.TweakDBIDs.put(b[56:68])
	h.Resources.put(b[68:80])
	h.Defs.put(b[80:92])
	h.Strings.put(b[92:104])
}

// Bytes serializes the header to a freshly allocated 104-byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	h.put(b)
	return b
}

func readHeader(b []byte) (Header, *Error) {
	if len(b) < HeaderSize {
		return Header{}, ErrOutsideBoundary
	}
	if string(b[0:4]) != string(Magic[:]) {
		return Header{}, ErrBadMagic
	}
	h := Header{
		Version:   binary.LittleEndian.Uint32(b[4:8]),
		Flags:     binary.LittleEndian.Uint32(b[8:12]),
		Timestamp: Timestamp(binary.LittleEndian.Uint64(b[12:20])),
		Build:     binary.LittleEndian.Uint32(b[20:24]),
		CRC:       binary.LittleEndian.Uint32(b[24:28]),
		Segments:  binary.LittleEndian.Uint32(b[28:32]),

		StringData: readTableDescriptor(b[32:44]),
		CNames:     readTableDescriptor(b[44:56]),
		TweakDBIDs: readTableDescriptor(b[56:68]),
		Resources:  readTableDescriptor(b[68:80]),
		Defs:       readTableDescriptor(b[80:92]),
		Strings:    readTableDescriptor(b[92:104]),
	}
	if h.Version != SupportedVersion {
		return Header{}, ErrUnsupportedVersion
	}
	return h, nil
}

// crc32Of returns the CRC-32 (IEEE polynomial) of b, the same algorithm
// every table descriptor's hash field stores.
func crc32Of(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

// headerCRC computes the header CRC: the header serialized with its crc
// field forced to the unstamped sentinel, then CRC-32'd.
func headerCRC(h Header) uint32 {
	h.CRC = unstampedCRC
	return crc32Of(h.Bytes())
}

// Timestamp is the 64-bit bit-packed (year, month, day, hours, minutes,
// seconds, milliseconds) value the writer stamps into the header. It is
// write-only metadata: the reader never interprets it, only round-trips
// the raw bits.
type Timestamp uint64

// Layout, from the least significant bit:
//
//	bits 0-9    unused
//	bits 10-14  day    (5 bits)
//	bits 15-19  month  (5 bits)
//	bits 20-31  year   (12 bits)
//	bits 32-41  millis (10 bits)
//	bits 42-47  seconds (6 bits)
//	bits 48-53  minutes (6 bits)
//	bits 54-59  hours   (6 bits)
//	bits 60-63  unused
const (
	tsDayShift    = 10
	tsMonthShift  = 15
	tsYearShift   = 20
	tsMillisShift = 32
	tsSecShift    = 42
	tsMinShift    = 48
	tsHourShift   = 54
)

// NewTimestamp packs a calendar moment into the wire format.
func NewTimestamp(year int, month, day, hours, minutes, seconds, millis int) Timestamp {
	var v uint64
	v |= uint64(day&0x1f) << tsDayShift
	v |= uint64(month&0x1f) << tsMonthShift
	v |= uint64(year&0xfff) << tsYearShift
	v |= uint64(millis&0x3ff) << tsMillisShift
	v |= uint64(seconds&0x3f) << tsSecShift
	v |= uint64(minutes&0x3f) << tsMinShift
	v |= uint64(hours&0x3f) << tsHourShift
	return Timestamp(v)
}

// Year returns the packed year component.
func (t Timestamp) Year() int { return int(uint64(t)>>tsYearShift) & 0xfff }

// Month returns the packed month component.
func (t Timestamp) Month() int { return int(uint64(t)>>tsMonthShift) & 0x1f }

// Day returns the packed day component.
func (t Timestamp) Day() int { return int(uint64(t)>>tsDayShift) & 0x1f }

// Hours returns the packed hours component.
func (t Timestamp) Hours() int { return int(uint64(t)>>tsHourShift) & 0x3f }

// Minutes returns the packed minutes component.
func (t Timestamp) Minutes() int { return int(uint64(t)>>tsMinShift) & 0x3f }

// Seconds returns the packed seconds component.
func (t Timestamp) Seconds() int { return int(uint64(t)>>tsSecShift) & 0x3f }

// Millis returns the packed milliseconds component.
func (t Timestamp) Millis() int { return int(uint64(t)>>tsMillisShift) & 0x3ff }
