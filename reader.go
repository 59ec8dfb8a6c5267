// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

// ReadOptions configures ReadBundle. The zero value is the permissive
// default: no CRC is checked, following the same
// zero-value-is-permissive convention as other Options structs in this
// ecosystem.
type ReadOptions struct {
	// Strict, when true, verifies the header's own CRC, failing closed on
	// mismatch. Per-table CRCs are not verified.
	Strict bool
}

// ReadBundle parses a complete in-memory container, materializing all
// four string pools and the definition vector. Each string is copied out
// of data as it is added to its pool, so the bundle does not alias data;
// the entries stay marked borrowed until ScriptBundle.IntoOwned is called.
func ReadBundle(data []byte, opts *ReadOptions) (*ScriptBundle, *Error) {
	if opts == nil {
		opts = &ReadOptions{}
	}
	r := newReader(data)

	hdr, err := readHeader(data)
	if err != nil {
		return nil, err
	}

	if opts.Strict {
		if hdr.CRC != headerCRC(hdr) {
			return nil, newError(BadInput, "header CRC mismatch")
		}
	}

	b := NewScriptBundle()

	if err := readStringPool(r, hdr.CNames, b.CNames); err != nil {
		return nil, err
	}
	if err := readStringPool(r, hdr.TweakDBIDs, b.TweakDBIDs); err != nil {
		return nil, err
	}
	if err := readStringPool(r, hdr.Resources, b.Resources); err != nil {
		return nil, err
	}
	if err := readStringPool(r, hdr.Strings, b.Strings); err != nil {
		return nil, err
	}

	if err := readDefinitions(r, hdr, b); err != nil {
		return nil, err
	}

	return b, nil
}

// readStringPool reads an offset-table + blob-backed string pool: td
// locates an array of td.Count little-endian uint32 offsets into the
// container's shared interned-string blob (hdr.StringData), each
// pointing at a zero-terminated run.
func readStringPool[K any](r *reader, td TableDescriptor, pool *StringPool[K]) *Error {
	for i := uint32(0); i < td.Count; i++ {
		blobOffset, err := r.readUint32(td.Offset + i*4)
		if err != nil {
			return err
		}
		s, err := r.readCString(blobOffset)
		if err != nil {
			return err
		}
		pool.addBorrowed(string(s))
	}
	return nil
}

// readDefinitions decodes every stored definition record after index 0.
// Whatever occupies record 0 on disk is never interpreted: the Undefined
// sentinel is always prepended at index 0 in-memory regardless of what
// was actually stored there (spec.md §4.1, §4.5).
func readDefinitions(r *reader, hdr Header, b *ScriptBundle) *Error {
	for i := uint32(1); i < hdr.Defs.Count; i++ {
		headerOffset := hdr.Defs.Offset + i*DefinitionHeaderSize
		dh, err := readDefinitionHeader(r, headerOffset)
		if err != nil {
			return err
		}

		if dh.Kind == KindUndefined {
			return ErrUndefinedAtNonZero
		}
		def, err := readDefinitionPayload(r, dh, b)
		if err != nil {
			return err
		}

		b.Definitions = append(b.Definitions, def)
		b.Headers = append(b.Headers, dh)
	}
	return nil
}

func readDefinitionPayload(r *reader, dh DefinitionHeader, b *ScriptBundle) (Definition, *Error) {
	switch dh.Kind {
	case KindType:
		return readType(r, dh.Offset)
	case KindClass:
		return readClass(r, dh.Offset)
	case KindEnumMember:
		return readEnumMember(r, dh.Offset)
	case KindEnum:
		return readEnum(r, dh.Offset)
	case KindFunction:
		return readFunction(r, dh.Offset, dh.Size)
	case KindParameter:
		return readParameter(r, dh.Offset)
	case KindLocal:
		return readLocal(r, dh.Offset)
	case KindField:
		return readField(r, dh.Offset)
	case KindSourceFile:
		return readSourceFile(r, dh.Offset)
	default:
		return nil, ErrInvalidDefinitionKind
	}
}

func readType(r *reader, off uint32) (Type, *Error) {
	name, err := r.readUint32(off)
	if err != nil {
		return Type{}, err
	}
	kind, err := r.readUint8(off + 4)
	if err != nil {
		return Type{}, err
	}
	inner, err := r.readUint32(off + 5)
	if err != nil {
		return Type{}, err
	}
	arraySize, err := r.readUint32(off + 9)
	if err != nil {
		return Type{}, err
	}
	return Type{Name: CNameIndex(name), TypeKind: TypeKind(kind), Inner: TypeIndex(inner), ArraySize: arraySize}, nil
}

func readIndexList32(r *reader, off uint32) ([]uint32, uint32, *Error) {
	count, err := r.readUint32(off)
	if err != nil {
		return nil, 0, err
	}
	if count > (r.size()-off-4)/4 {
		return nil, 0, ErrOutsideBoundary
	}
	out := make([]uint32, count)
	cursor := off + 4
	for i := range out {
		v, err := r.readUint32(cursor)
		if err != nil {
			return nil, 0, err
		}
		out[i] = v
		cursor += 4
	}
	return out, cursor, nil
}

func readClass(r *reader, off uint32) (Class, *Error) {
	name, err := r.readUint32(off)
	if err != nil {
		return Class{}, err
	}
	flags, err := r.readUint16(off + 4)
	if err != nil {
		return Class{}, err
	}
	base, err := r.readUint32(off + 6)
	if err != nil {
		return Class{}, err
	}
	fnRaw, cursor, err := readIndexList32(r, off+10)
	if err != nil {
		return Class{}, err
	}
	fieldRaw, _, err := readIndexList32(r, cursor)
	if err != nil {
		return Class{}, err
	}

	functions := make([]FunctionIndex, len(fnRaw))
	for i, v := range fnRaw {
		functions[i] = FunctionIndex(v)
	}
	fields := make([]FieldIndex, len(fieldRaw))
	for i, v := range fieldRaw {
		fields[i] = FieldIndex(v)
	}

	return Class{
		Name:      CNameIndex(name),
		Flags:     ClassFlags(flags),
		Base:      ClassIndex(base),
		Functions: functions,
		Fields:    fields,
	}, nil
}

func readEnumMember(r *reader, off uint32) (EnumMember, *Error) {
	name, err := r.readUint32(off)
	if err != nil {
		return EnumMember{}, err
	}
	value, err := r.readUint64(off + 4)
	if err != nil {
		return EnumMember{}, err
	}
	return EnumMember{Name: CNameIndex(name), Value: int64(value)}, nil
}

func readEnum(r *reader, off uint32) (Enum, *Error) {
	name, err := r.readUint32(off)
	if err != nil {
		return Enum{}, err
	}
	size, err := r.readUint8(off + 4)
	if err != nil {
		return Enum{}, err
	}
	flags, err := r.readUint8(off + 5)
	if err != nil {
		return Enum{}, err
	}
	memberRaw, _, err := readIndexList32(r, off+6)
	if err != nil {
		return Enum{}, err
	}
	members := make([]EnumValueIndex, len(memberRaw))
	for i, v := range memberRaw {
		members[i] = EnumValueIndex(v)
	}
	return Enum{Name: CNameIndex(name), Size: size, Flags: EnumFlags(flags), Members: members}, nil
}

func readParameter(r *reader, off uint32) (Parameter, *Error) {
	name, err := r.readUint32(off)
	if err != nil {
		return Parameter{}, err
	}
	typ, err := r.readUint32(off + 4)
	if err != nil {
		return Parameter{}, err
	}
	flags, err := r.readUint8(off + 8)
	if err != nil {
		return Parameter{}, err
	}
	return Parameter{Name: CNameIndex(name), Type: TypeIndex(typ), Flags: ParameterFlags(flags)}, nil
}

func readLocal(r *reader, off uint32) (Local, *Error) {
	name, err := r.readUint32(off)
	if err != nil {
		return Local{}, err
	}
	typ, err := r.readUint32(off + 4)
	if err != nil {
		return Local{}, err
	}
	flags, err := r.readUint8(off + 8)
	if err != nil {
		return Local{}, err
	}
	return Local{Name: CNameIndex(name), Type: TypeIndex(typ), Flags: LocalFlags(flags)}, nil
}

func readField(r *reader, off uint32) (Field, *Error) {
	name, err := r.readUint32(off)
	if err != nil {
		return Field{}, err
	}
	typ, err := r.readUint32(off + 4)
	if err != nil {
		return Field{}, err
	}
	flags, err := r.readUint16(off + 8)
	if err != nil {
		return Field{}, err
	}
	hint, err := r.readUint32(off + 10)
	if err != nil {
		return Field{}, err
	}
	return Field{Name: CNameIndex(name), Type: TypeIndex(typ), Flags: FieldFlags(flags), Hint: StringIndex(hint)}, nil
}

func readSourceFile(r *reader, off uint32) (SourceFile, *Error) {
	path, err := r.readUint32(off)
	if err != nil {
		return SourceFile{}, err
	}
	return SourceFile{Path: ResourceIndex(path)}, nil
}

// readFunction decodes a Function payload. size bounds the encoded body
// so a truncated/garbled length is caught without scanning past it.
func readFunction(r *reader, off, size uint32) (Function, *Error) {
	name, err := r.readUint32(off)
	if err != nil {
		return Function{}, err
	}
	flags, err := r.readUint32(off + 4)
	if err != nil {
		return Function{}, err
	}
	retType, err := r.readUint32(off + 8)
	if err != nil {
		return Function{}, err
	}
	base, err := r.readUint32(off + 12)
	if err != nil {
		return Function{}, err
	}
	hasSource, err := r.readUint8(off + 16)
	if err != nil {
		return Function{}, err
	}

	cursor := off + 17
	var source *SourceReference
	if hasSource != 0 {
		file, err := r.readUint32(cursor)
		if err != nil {
			return Function{}, err
		}
		line, err := r.readUint32(cursor + 4)
		if err != nil {
			return Function{}, err
		}
		source = &SourceReference{File: SourceFileIndex(file), Line: line}
		cursor += 8
	}

	paramRaw, cursor2, err := readIndexList32(r, cursor)
	if err != nil {
		return Function{}, err
	}
	localRaw, cursor3, err := readIndexList32(r, cursor2)
	if err != nil {
		return Function{}, err
	}

	params := make([]ParameterIndex, len(paramRaw))
	for i, v := range paramRaw {
		params[i] = ParameterIndex(v)
	}
	locals := make([]LocalIndex, len(localRaw))
	for i, v := range localRaw {
		locals[i] = LocalIndex(v)
	}

	var body *FunctionBody
	bodyEnd := off + size
	if cursor3 < bodyEnd {
		code, err := decodeCode(r, cursor3, bodyEnd)
		if err != nil {
			return Function{}, err
		}
		body = &FunctionBody{Code: code}
	}

	return Function{
		Name:       CNameIndex(name),
		Flags:      FunctionFlags(flags),
		ReturnType: TypeIndex(retType),
		Base:       FunctionIndex(base),
		Source:     source,
		Parameters: params,
		Locals:     locals,
		Body:       body,
	}, nil
}

// decodeCode decodes a straight-line instruction stream from start up to
// (not including) end, stopping exactly at end; any opcode that would
// read past end is reported as ErrOutsideBoundary.
func decodeCode(r *reader, start, end uint32) ([]Instruction, *Error) {
	var code []Instruction
	offset := start
	for offset < end {
		instr, next, err := DecodeInstruction(r, offset)
		if err != nil {
			return nil, err
		}
		if next > end {
			return nil, ErrOutsideBoundary
		}
		code = append(code, instr)
		offset = next
	}
	return code, nil
}
