// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

// DefinitionKind tags which payload variant a DefinitionHeader record
// describes. original_source/src/definition.rs was not retrieved with
// this pack, so the payload field sets below (SPEC_FULL.md §4.4) are this
// project's own design, grounded only in the GLOSSARY and the definition
// header shape from bundle.rs; see DESIGN.md's Open Question decisions.
type DefinitionKind uint8

const (
	KindUndefined DefinitionKind = iota
	KindType
	KindClass
	KindEnumMember
	KindEnum
	KindFunction
	KindParameter
	KindLocal
	KindField
	KindSourceFile

	definitionKindCount
)

var definitionKindNames = [definitionKindCount]string{
	KindUndefined: "Undefined", KindType: "Type", KindClass: "Class",
	KindEnumMember: "EnumMember", KindEnum: "Enum", KindFunction: "Function",
	KindParameter: "Parameter", KindLocal: "Local", KindField: "Field",
	KindSourceFile: "SourceFile",
}

func (k DefinitionKind) String() string {
	if k < definitionKindCount {
		return definitionKindNames[k]
	}
	return "Unknown"
}

// Valid reports whether k is a recognized definition kind tag.
func (k DefinitionKind) Valid() bool { return k < definitionKindCount }

// DefinitionHeader is the fixed 20-byte record every definition owns in
// the definition-header table: its interned name, its parent definition
// (0 if none), the byte size and offset of its variable-length payload
// in the definition-payload segment, and its kind tag.
type DefinitionHeader struct {
	Name   CNameIndex
	Parent DefIndex
	Size   uint32
	Offset uint32
	Kind   DefinitionKind
}

func readDefinitionHeader(r *reader, offset uint32) (DefinitionHeader, *Error) {
	name, err := r.readUint32(offset)
	if err != nil {
		return DefinitionHeader{}, err
	}
	parent, err := r.readUint32(offset + 4)
	if err != nil {
		return DefinitionHeader{}, err
	}
	size, err := r.readUint32(offset + 8)
	if err != nil {
		return DefinitionHeader{}, err
	}
	payloadOffset, err := r.readUint32(offset + 12)
	if err != nil {
		return DefinitionHeader{}, err
	}
	kindByte, err := r.readUint8(offset + 16)
	if err != nil {
		return DefinitionHeader{}, err
	}
	kind := DefinitionKind(kindByte)
	if !kind.Valid() {
		return DefinitionHeader{}, ErrInvalidDefinitionKind
	}
	return DefinitionHeader{
		Name:   CNameIndex(name),
		Parent: DefIndex(parent),
		Size:   size,
		Offset: payloadOffset,
		Kind:   kind,
	}, nil
}

func (h DefinitionHeader) put(b []byte) {
	putUint32(b, 0, uint32(h.Name))
	putUint32(b, 4, uint32(h.Parent))
	putUint32(b, 8, h.Size)
	putUint32(b, 12, h.Offset)
	putUint8(b, 16, uint8(h.Kind))
	// bytes 17-19 reserved, left zero
}

// Definition is the payload common to every definition variant below.
type Definition interface {
	Kind() DefinitionKind
}

// Undefined is the sentinel definition that always occupies index 0,
// regardless of what (if anything) the on-disk table stores there.
type Undefined struct{}

func (Undefined) Kind() DefinitionKind { return KindUndefined }

// TypeKind distinguishes the shape a Type definition describes.
type TypeKind uint8

const (
	TypePrimitive TypeKind = iota
	TypeClassRef
	TypeClassHandle
	TypeClassWeakHandle
	TypeArray
	TypeStaticArray
)

// Type names a primitive, a class reference/handle, or an array of an
// inner type. ArraySize is meaningful only for TypeStaticArray.
type Type struct {
	Name      CNameIndex
	TypeKind  TypeKind
	Inner     TypeIndex
	ArraySize uint32
}

func (Type) Kind() DefinitionKind { return KindType }

// ClassFlags are the bit flags a Class definition can carry.
type ClassFlags uint16

const (
	ClassAbstract ClassFlags = 1 << iota
	ClassFinal
	ClassNative
	ClassStruct
	ClassImportOnly
)

// Class describes a scripted class or struct: its base, its own fields
// and member functions (inherited members are reached through Base).
type Class struct {
	Name      CNameIndex
	Flags     ClassFlags
	Base      ClassIndex
	Functions []FunctionIndex
	Fields    []FieldIndex
}

func (Class) Kind() DefinitionKind { return KindClass }

// EnumMember is one named, valued member of an Enum definition.
type EnumMember struct {
	Name  CNameIndex
	Value int64
}

func (EnumMember) Kind() DefinitionKind { return KindEnumMember }

// EnumFlags are the bit flags an Enum definition can carry.
type EnumFlags uint8

const (
	EnumBitfield EnumFlags = 1 << iota
)

// Enum describes a scripted enum: its underlying storage width in bytes
// and the ordered list of its members.
type Enum struct {
	Name    CNameIndex
	Size    uint8
	Flags   EnumFlags
	Members []EnumValueIndex
}

func (Enum) Kind() DefinitionKind { return KindEnum }

// FunctionFlags are the bit flags a Function definition can carry.
type FunctionFlags uint32

const (
	FunctionStatic FunctionFlags = 1 << iota
	FunctionFinal
	FunctionNative
	FunctionCallback
	FunctionConst
	FunctionQuest
	FunctionThreadSafe
	FunctionExec
	FunctionTimer
)

// SourceReference locates a function's definition site in its source
// file for debugging/tooling purposes.
type SourceReference struct {
	File SourceFileIndex
	Line uint32
}

// FunctionBody is the compiled instruction stream for a function. Its
// encoded byte length is not stored here; the writer measures it while
// writing the payload and stamps it into the owning DefinitionHeader.
type FunctionBody struct {
	Code []Instruction
}

// Function describes a scripted function or method.
type Function struct {
	Name       CNameIndex
	Flags      FunctionFlags
	ReturnType TypeIndex
	Base       FunctionIndex
	Source     *SourceReference
	Parameters []ParameterIndex
	Locals     []LocalIndex
	Body       *FunctionBody
}

func (Function) Kind() DefinitionKind { return KindFunction }

// ParameterFlags are the bit flags a Parameter definition can carry.
type ParameterFlags uint8

const (
	ParameterOptional ParameterFlags = 1 << iota
	ParameterOut
	ParameterConst
)

// Parameter describes one formal parameter of a Function.
type Parameter struct {
	Name  CNameIndex
	Type  TypeIndex
	Flags ParameterFlags
}

func (Parameter) Kind() DefinitionKind { return KindParameter }

// LocalFlags are the bit flags a Local definition can carry.
type LocalFlags uint8

const (
	LocalConst LocalFlags = 1 << iota
)

// Local describes one local variable declared within a function body.
type Local struct {
	Name  CNameIndex
	Type  TypeIndex
	Flags LocalFlags
}

func (Local) Kind() DefinitionKind { return KindLocal }

// FieldFlags are the bit flags a Field definition can carry.
type FieldFlags uint16

const (
	FieldNative FieldFlags = 1 << iota
	FieldEditable
	FieldInline
	FieldConst
	FieldPersistent
	FieldReplicated
)

// Field describes one member field of a Class. Hint optionally names an
// editor/tooling display string.
type Field struct {
	Name  CNameIndex
	Type  TypeIndex
	Flags FieldFlags
	Hint  StringIndex
}

func (Field) Kind() DefinitionKind { return KindField }

// SourceFile names one compiled source file by its resource path.
type SourceFile struct {
	Path ResourceIndex
}

func (SourceFile) Kind() DefinitionKind { return KindSourceFile }
