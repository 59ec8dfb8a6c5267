// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

// WriteOptions configures WriteBundle. The zero value produces a bundle
// with a zeroed Timestamp and Build, the permissive default.
type WriteOptions struct {
	Timestamp Timestamp
	Build     uint32
	Flags     uint32
}

// WriteBundle serializes b into a freshly allocated byte slice using a
// two-pass layout: payload segments are written first while their
// offsets are recorded, then the 104-byte header is backpatched with
// those offsets/counts and finally re-stamped with its own CRC-32 over
// the header bytes with the crc field set to the 0xDEADBEEF sentinel
// (ground: Header::write in
// original_source/src/bundle.rs).
func WriteBundle(b *ScriptBundle, opts *WriteOptions) ([]byte, error) {
	if opts == nil {
		opts = &WriteOptions{}
	}

	out := make([]byte, HeaderSize)

	stringData, cnameOff, cnameCRC := writeBlobAndOffsets(b.CNames.All())
	_, twkOff, twkCRC := writeBlobAndOffsetsInto(&stringData, b.TweakDBIDs.All())
	_, resOff, resCRC := writeBlobAndOffsetsInto(&stringData, b.Resources.All())
	_, strOff, strCRC := writeBlobAndOffsetsInto(&stringData, b.Strings.All())

	stringDataOffset := uint32(len(out))
	out = append(out, stringData...)

	// Offset tables are built relative to the blob's own start; rebase
	// them to absolute file offsets now that stringDataOffset is known.
	rebaseOffsets(cnameOff, stringDataOffset)
	rebaseOffsets(twkOff, stringDataOffset)
	rebaseOffsets(resOff, stringDataOffset)
	rebaseOffsets(strOff, stringDataOffset)
	cnameCRC, twkCRC, resCRC, strCRC = crc32Of(cnameOff), crc32Of(twkOff), crc32Of(resOff), crc32Of(strOff)

	cnamesTableOffset := uint32(len(out))
	out = append(out, cnameOff...)
	twkTableOffset := uint32(len(out))
	out = append(out, twkOff...)
	resTableOffset := uint32(len(out))
	out = append(out, resOff...)
	strTableOffset := uint32(len(out))
	out = append(out, strOff...)

	// Reserve the definition-header table, one slot per entry in
	// Definitions including index 0 (the Undefined sentinel): its slot's
	// contents are never read back on decode, but the table's record
	// count and layout must still account for it (spec.md §4.1, §4.5).
	defHeaderOffset := uint32(len(out))
	defCount := uint32(len(b.Definitions))
	out = append(out, make([]byte, defCount*DefinitionHeaderSize)...)

	headers := make([]DefinitionHeader, len(b.Definitions))
	for i := 1; i < len(b.Definitions); i++ {
		payloadStart := uint32(len(out))
		var err error
		out, err = writeDefinitionPayload(out, b.Definitions[i])
		if err != nil {
			return nil, err
		}
		h := b.Headers[i]
		h.Kind = b.Definitions[i].Kind()
		h.Offset = payloadStart
		h.Size = uint32(len(out)) - payloadStart
		headers[i] = h
	}

	for i := uint32(0); i < defCount; i++ {
		headers[i].put(out[defHeaderOffset+i*DefinitionHeaderSize:])
	}
	defHeaderCRC := crc32Of(out[defHeaderOffset : defHeaderOffset+defCount*DefinitionHeaderSize])

	hdr := Header{
		Version:   SupportedVersion,
		Flags:     opts.Flags,
		Timestamp: opts.Timestamp,
		Build:     opts.Build,
		Segments:  SegmentCount,
		StringData: TableDescriptor{
			Offset: stringDataOffset,
			Count:  uint32(len(stringData)),
			CRC:    crc32Of(stringData),
		},
		CNames:     TableDescriptor{Offset: cnamesTableOffset, Count: uint32(b.CNames.Len()), CRC: cnameCRC},
		TweakDBIDs: TableDescriptor{Offset: twkTableOffset, Count: uint32(b.TweakDBIDs.Len()), CRC: twkCRC},
		Resources:  TableDescriptor{Offset: resTableOffset, Count: uint32(b.Resources.Len()), CRC: resCRC},
		Defs:       TableDescriptor{Offset: defHeaderOffset, Count: defCount, CRC: defHeaderCRC},
		Strings:    TableDescriptor{Offset: strTableOffset, Count: uint32(b.Strings.Len()), CRC: strCRC},
	}
	hdr.CRC = headerCRC(hdr)
	hdr.put(out[0:HeaderSize])

	return out, nil
}

// writeBlobAndOffsets appends each string's zero-terminated bytes to a
// new blob and returns the blob, the little-endian uint32 offset table
// (one entry per string, pointing at its start within the *final*
// stringData), and the CRC-32 of that blob-relative offset table. Ground: the shared
// interned-string segment in original_source/src/bundle.rs.
func writeBlobAndOffsets(strings []string) (blob []byte, offsets []byte, crc uint32) {
	return writeBlobAndOffsetsInto(&blob, strings)
}

func writeBlobAndOffsetsInto(blob *[]byte, strings []string) ([]byte, []byte, uint32) {
	offsets := make([]byte, 4*len(strings))
	for i, s := range strings {
		putUint32(offsets, uint32(i*4), uint32(len(*blob)))
		*blob = append(*blob, s...)
		*blob = append(*blob, 0)
	}
	return *blob, offsets, crc32Of(offsets)
}

// rebaseOffsets adds base to every little-endian uint32 entry in offsets,
// turning blob-relative string offsets into absolute file offsets.
func rebaseOffsets(offsets []byte, base uint32) {
	for i := 0; i+4 <= len(offsets); i += 4 {
		v := uint32(offsets[i]) | uint32(offsets[i+1])<<8 | uint32(offsets[i+2])<<16 | uint32(offsets[i+3])<<24
		putUint32(offsets, uint32(i), v+base)
	}
}

func writeIndexList32[T ~uint32](out []byte, values []T) []byte {
	count := make([]byte, 4)
	putUint32(count, 0, uint32(len(values)))
	out = append(out, count...)
	for _, v := range values {
		b := make([]byte, 4)
		putUint32(b, 0, uint32(v))
		out = append(out, b...)
	}
	return out
}

func writeDefinitionPayload(out []byte, def Definition) ([]byte, error) {
	switch d := def.(type) {
	case Type:
		b := make([]byte, 13)
		putUint32(b, 0, uint32(d.Name))
		putUint8(b, 4, uint8(d.TypeKind))
		putUint32(b, 5, uint32(d.Inner))
		putUint32(b, 9, d.ArraySize)
		return append(out, b...), nil

	case Class:
		b := make([]byte, 10)
		putUint32(b, 0, uint32(d.Name))
		putUint16(b, 4, uint16(d.Flags))
		putUint32(b, 6, uint32(d.Base))
		out = append(out, b...)
		out = writeIndexList32(out, d.Functions)
		out = writeIndexList32(out, d.Fields)
		return out, nil

	case EnumMember:
		b := make([]byte, 12)
		putUint32(b, 0, uint32(d.Name))
		putUint64(b, 4, uint64(d.Value))
		return append(out, b...), nil

	case Enum:
		b := make([]byte, 6)
		putUint32(b, 0, uint32(d.Name))
		putUint8(b, 4, d.Size)
		putUint8(b, 5, uint8(d.Flags))
		out = append(out, b...)
		out = writeIndexList32(out, d.Members)
		return out, nil

	case Parameter:
		b := make([]byte, 9)
		putUint32(b, 0, uint32(d.Name))
		putUint32(b, 4, uint32(d.Type))
		putUint8(b, 8, uint8(d.Flags))
		return append(out, b...), nil

	case Local:
		b := make([]byte, 9)
		putUint32(b, 0, uint32(d.Name))
		putUint32(b, 4, uint32(d.Type))
		putUint8(b, 8, uint8(d.Flags))
		return append(out, b...), nil

	case Field:
		b := make([]byte, 14)
		putUint32(b, 0, uint32(d.Name))
		putUint32(b, 4, uint32(d.Type))
		putUint16(b, 8, uint16(d.Flags))
		putUint32(b, 10, uint32(d.Hint))
		return append(out, b...), nil

	case SourceFile:
		b := make([]byte, 4)
		putUint32(b, 0, uint32(d.Path))
		return append(out, b...), nil

	case Function:
		return writeFunctionPayload(out, d)

	default:
		return nil, ErrInvalidOpcode
	}
}

func writeFunctionPayload(out []byte, f Function) ([]byte, error) {
	b := make([]byte, 17)
	putUint32(b, 0, uint32(f.Name))
	putUint32(b, 4, uint32(f.Flags))
	putUint32(b, 8, uint32(f.ReturnType))
	putUint32(b, 12, uint32(f.Base))
	if f.Source != nil {
		putUint8(b, 16, 1)
	}
	out = append(out, b...)
	if f.Source != nil {
		sb := make([]byte, 8)
		putUint32(sb, 0, uint32(f.Source.File))
		putUint32(sb, 4, f.Source.Line)
		out = append(out, sb...)
	}

	out = writeIndexList32(out, f.Parameters)
	out = writeIndexList32(out, f.Locals)

	if f.Body != nil {
		for _, instr := range f.Body.Code {
			var err error
			out, err = EncodeInstruction(out, instr)
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
