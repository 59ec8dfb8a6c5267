// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		Version:   SupportedVersion,
		Flags:     1,
		Timestamp: NewTimestamp(2024, 3, 15, 12, 30, 45, 500),
		Build:     7,
		Segments:  SegmentCount,
		StringData: TableDescriptor{Offset: 104, Count: 10, CRC: 1},
		CNames:     TableDescriptor{Offset: 114, Count: 2, CRC: 2},
		TweakDBIDs: TableDescriptor{Offset: 122, Count: 1, CRC: 3},
		Resources:  TableDescriptor{Offset: 126, Count: 1, CRC: 4},
		Defs:       TableDescriptor{Offset: 130, Count: 0, CRC: 5},
		Strings:    TableDescriptor{Offset: 130, Count: 0, CRC: 6},
	}
	h.CRC = headerCRC(h)

	b := h.Bytes()
	if len(b) != HeaderSize {
		t.Fatalf("Bytes() length = %d, want %d", len(b), HeaderSize)
	}

	got, err := readHeader(b)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if got.CRC != headerCRC(got) {
		t.Fatalf("stamped CRC does not verify")
	}
	if got.Version != h.Version || got.Build != h.Build {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestReadHeaderBadMagic(t *testing.T) {
	b := make([]byte, HeaderSize)
	copy(b, "XXXX")
	if _, err := readHeader(b); err != ErrBadMagic {
		t.Fatalf("readHeader() err = %v, want ErrBadMagic", err)
	}
}

func TestReadHeaderUnsupportedVersion(t *testing.T) {
	h := Header{Version: 99}
	b := h.Bytes()
	if _, err := readHeader(b); err != ErrUnsupportedVersion {
		t.Fatalf("readHeader() err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestReadHeaderTooShort(t *testing.T) {
	if _, err := readHeader(make([]byte, HeaderSize-1)); err != ErrOutsideBoundary {
		t.Fatalf("readHeader() err = %v, want ErrOutsideBoundary", err)
	}
}

func TestTimestampPacking(t *testing.T) {
	ts := NewTimestamp(2077, 6, 9, 23, 59, 1, 999)
	if ts.Year() != 2077 || ts.Month() != 6 || ts.Day() != 9 {
		t.Fatalf("date fields: got (%d,%d,%d)", ts.Year(), ts.Month(), ts.Day())
	}
	if ts.Hours() != 23 || ts.Minutes() != 59 || ts.Seconds() != 1 || ts.Millis() != 999 {
		t.Fatalf("time fields: got (%d,%d,%d,%d)", ts.Hours(), ts.Minutes(), ts.Seconds(), ts.Millis())
	}
}
