// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

// Instruction is one decoded bytecode instruction. Ground: the tagged
// Instr<Loc> enum in original_source/src/instr.rs; Go has no enum with
// per-variant payloads, so each variant (or family of variants sharing an
// operand shape, e.g. Jump/JumpIfFalse/Skip) becomes its own struct type
// implementing this interface, following the corpus's const-enum-plus-
// struct-table idiom (see other_examples' opcode table for the precedent).
type Instruction interface {
	Opcode() Opcode
	// Size returns the encoded size in bytes, tag byte included.
	Size() uint16
}

func fixedSize(op Opcode) uint16 {
	return 1 + operandSize[op]
}

// NilaryInstr covers every opcode with no operand bytes at all (23 of
// them): Nop, Null, I32One, I32Zero, TrueConst, FalseConst, Assign,
// ExternalVar, SwitchDefault, ParamEnd, Return, Delete, This, RefToBool,
// WeakRefToBool, VariantIsDefined, VariantIsRef, VariantIsArray,
// VariantTypeName, VariantToString, WeakRefToRef, RefToWeakRef, WeakRefNull.
type NilaryInstr struct {
	Op Opcode
}

func (i NilaryInstr) Opcode() Opcode { return i.Op }
func (i NilaryInstr) Size() uint16   { return fixedSize(i.Op) }

// Target is the synthetic zero-size marker instruction used only as a
// jump/switch label placeholder in a decoded body; it is never written
// back out (EncodeInstruction rejects it, see ErrEncodeTarget).
type Target struct{}

func (Target) Opcode() Opcode { return OpTarget }
func (Target) Size() uint16   { return 0 }

// Numeric constant instructions.

type I8Const struct{ Value int8 }
type I16Const struct{ Value int16 }
type I32Const struct{ Value int32 }
type I64Const struct{ Value int64 }
type U8Const struct{ Value uint8 }
type U16Const struct{ Value uint16 }
type U32Const struct{ Value uint32 }
type U64Const struct{ Value uint64 }
type F32Const struct{ Value float32 }
type F64Const struct{ Value float64 }

func (I8Const) Opcode() Opcode  { return OpI8Const }
func (I8Const) Size() uint16    { return fixedSize(OpI8Const) }
func (I16Const) Opcode() Opcode { return OpI16Const }
func (I16Const) Size() uint16   { return fixedSize(OpI16Const) }
func (I32Const) Opcode() Opcode { return OpI32Const }
func (I32Const) Size() uint16   { return fixedSize(OpI32Const) }
func (I64Const) Opcode() Opcode { return OpI64Const }
func (I64Const) Size() uint16   { return fixedSize(OpI64Const) }
func (U8Const) Opcode() Opcode  { return OpU8Const }
func (U8Const) Size() uint16    { return fixedSize(OpU8Const) }
func (U16Const) Opcode() Opcode { return OpU16Const }
func (U16Const) Size() uint16   { return fixedSize(OpU16Const) }
func (U32Const) Opcode() Opcode { return OpU32Const }
func (U32Const) Size() uint16   { return fixedSize(OpU32Const) }
func (U64Const) Opcode() Opcode { return OpU64Const }
func (U64Const) Size() uint16   { return fixedSize(OpU64Const) }
func (F32Const) Opcode() Opcode { return OpF32Const }
func (F32Const) Size() uint16   { return fixedSize(OpF32Const) }
func (F64Const) Opcode() Opcode { return OpF64Const }
func (F64Const) Size() uint16   { return fixedSize(OpF64Const) }

// Pool-backed constant instructions. CNameConst, TweakDBIdConst and
// ResourceConst carry their pool index padded to 8 bytes on the wire;
// StringConst is the one exception and stores its index unpadded in 4
// bytes (spec.md §4.3).
type CNameConst struct{ Value CNameIndex }
type TweakDBIdConst struct{ Value TweakDBIndex }
type ResourceConst struct{ Value ResourceIndex }
type StringConst struct{ Value StringIndex }

// EnumConst names an enum definition and one of its members, each padded
// to 8 bytes (16 bytes total).
type EnumConst struct {
	Enum   EnumIndex
	Member EnumValueIndex
}

func (CNameConst) Opcode() Opcode     { return OpCNameConst }
func (CNameConst) Size() uint16       { return fixedSize(OpCNameConst) }
func (TweakDBIdConst) Opcode() Opcode { return OpTweakDBIdConst }
func (TweakDBIdConst) Size() uint16   { return fixedSize(OpTweakDBIdConst) }
func (ResourceConst) Opcode() Opcode  { return OpResourceConst }
func (ResourceConst) Size() uint16    { return fixedSize(OpResourceConst) }
func (StringConst) Opcode() Opcode    { return OpStringConst }
func (StringConst) Size() uint16      { return fixedSize(OpStringConst) }
func (EnumConst) Opcode() Opcode      { return OpEnumConst }
func (EnumConst) Size() uint16        { return fixedSize(OpEnumConst) }

// Breakpoint carries an opaque 19-byte debug payload. This library never
// interprets its contents; debugger integration is out of scope.
type Breakpoint struct {
	Payload [19]byte
}

func (Breakpoint) Opcode() Opcode { return OpBreakpoint }
func (Breakpoint) Size() uint16   { return fixedSize(OpBreakpoint) }

// Local, Param, ObjectField and StructField each reference a single
// definition, padded to 8 bytes.
type LocalInstr struct{ Local LocalIndex }
type ParamInstr struct{ Param ParameterIndex }
type ObjectFieldInstr struct{ Field FieldIndex }
type StructFieldInstr struct{ Field FieldIndex }

func (LocalInstr) Opcode() Opcode       { return OpLocal }
func (LocalInstr) Size() uint16         { return fixedSize(OpLocal) }
func (ParamInstr) Opcode() Opcode       { return OpParam }
func (ParamInstr) Size() uint16         { return fixedSize(OpParam) }
func (ObjectFieldInstr) Opcode() Opcode { return OpObjectField }
func (ObjectFieldInstr) Size() uint16   { return fixedSize(OpObjectField) }
func (StructFieldInstr) Opcode() Opcode { return OpStructField }
func (StructFieldInstr) Size() uint16   { return fixedSize(OpStructField) }

// Switch begins a switch statement over a type, with a position-relative
// offset (biasSwitchFirstCase) to its first SwitchLabel.
type Switch struct {
	Type      TypeIndex
	FirstCase int16
}

func (Switch) Opcode() Opcode { return OpSwitch }
func (Switch) Size() uint16   { return fixedSize(OpSwitch) }

// SwitchLabel holds two position-relative offsets: to the next label
// (biasSwitchLabelNext) and to this case's body (biasSwitchLabelBody).
type SwitchLabel struct {
	NextCase int16
	Body     int16
}

func (SwitchLabel) Opcode() Opcode { return OpSwitchLabel }
func (SwitchLabel) Size() uint16   { return fixedSize(OpSwitchLabel) }

// Jump is the shared family type for Jump, JumpIfFalse and Skip: each
// carries one position-relative target offset (biasJump). Ground:
// Jump<Loc> reused across three Rust enum variants in
// original_source/src/instr.rs.
type Jump struct {
	Op     Opcode // OpJump, OpJumpIfFalse or OpSkip
	Target int16
}

func (j Jump) Opcode() Opcode { return j.Op }
func (j Jump) Size() uint16   { return fixedSize(j.Op) }

// Conditional carries two position-relative offsets: to the false branch
// (biasCondFalseLabel) and past the whole if/else (biasCondExit).
type Conditional struct {
	FalseLabel int16
	Exit       int16
}

func (Conditional) Opcode() Opcode { return OpConditional }
func (Conditional) Size() uint16   { return fixedSize(OpConditional) }

// Context carries a position-relative offset (biasContextExit) past the
// context expression it guards.
type Context struct {
	Exit int16
}

func (Context) Opcode() Opcode { return OpContext }
func (Context) Size() uint16   { return fixedSize(OpContext) }

// Construct allocates an instance of Type with ArgCount arguments already
// pushed on the evaluation stack. Wire layout is arg_count then type,
// matching Construct's field declaration order in original_source/src/instr.rs.
type Construct struct {
	ArgCount uint8
	Type     ClassIndex
}

func (Construct) Opcode() Opcode { return OpConstruct }
func (Construct) Size() uint16   { return fixedSize(OpConstruct) }

// New allocates a bare instance of Type with no constructor arguments.
type New struct {
	Type ClassIndex
}

func (New) Opcode() Opcode { return OpNew }
func (New) Size() uint16   { return fixedSize(OpNew) }

// InvokeStatic and InvokeVirtual share an operand shape: a position-
// relative offset past the call (biasInvokeExit), a source line number,
// and the function being invoked.
type InvokeStatic struct {
	Exit     int16
	Line     uint16
	Function FunctionIndex
	Flags    uint16
}

func (InvokeStatic) Opcode() Opcode { return OpInvokeStatic }
func (InvokeStatic) Size() uint16   { return fixedSize(OpInvokeStatic) }

type InvokeVirtual struct {
	Exit     int16
	Line     uint16
	Function CNameIndex
	Flags    uint16
}

func (InvokeVirtual) Opcode() Opcode { return OpInvokeVirtual }
func (InvokeVirtual) Size() uint16   { return fixedSize(OpInvokeVirtual) }

// TypeCompare covers the six structural/reference equality opcodes, all
// sharing a single definition operand (the type being compared).
type TypeCompare struct {
	Op   Opcode
	Type TypeIndex
}

func (c TypeCompare) Opcode() Opcode { return c.Op }
func (c TypeCompare) Size() uint16   { return fixedSize(c.Op) }

// ArrayOp covers every dynamic-array opcode (ArrayClear through
// ArraySortByPredicate); each takes one element-type operand.
type ArrayOp struct {
	Op          Opcode
	ElementType TypeIndex
}

func (a ArrayOp) Opcode() Opcode { return a.Op }
func (a ArrayOp) Size() uint16   { return fixedSize(a.Op) }

// StaticArrayOp covers every fixed-size-array opcode (StaticArraySize
// through StaticArrayElement); each takes one element-type operand.
type StaticArrayOp struct {
	Op          Opcode
	ElementType TypeIndex
}

func (a StaticArrayOp) Opcode() Opcode { return a.Op }
func (a StaticArrayOp) Size() uint16   { return fixedSize(a.Op) }

// EnumConvert covers EnumToI32 and I32ToEnum, each naming the enum type
// plus its underlying integer width in bytes.
type EnumConvert struct {
	Op    Opcode
	Enum  EnumIndex
	Width uint8
}

func (c EnumConvert) Opcode() Opcode { return c.Op }
func (c EnumConvert) Size() uint16   { return fixedSize(c.Op) }

// DynamicCast casts the top-of-stack reference to Type, failing toward
// null when Flags requests a safe (non-throwing) cast.
type DynamicCast struct {
	Type  ClassIndex
	Flags uint8
}

func (DynamicCast) Opcode() Opcode { return OpDynamicCast }
func (DynamicCast) Size() uint16   { return fixedSize(OpDynamicCast) }

// TypeConvert covers ToString, ToVariant and FromVariant, each naming the
// source or destination type.
type TypeConvert struct {
	Op   Opcode
	Type TypeIndex
}

func (c TypeConvert) Opcode() Opcode { return c.Op }
func (c TypeConvert) Size() uint16   { return fixedSize(c.Op) }

// RefConvert covers AsRef and Deref, each naming the referenced type.
type RefConvert struct {
	Op   Opcode
	Type TypeIndex
}

func (c RefConvert) Opcode() Opcode { return c.Op }
func (c RefConvert) Size() uint16   { return fixedSize(c.Op) }

// Profile is the one variable-size instruction: a 4-byte length-prefixed
// byte vector followed by a trailing enabled flag. Ground: Instr::Profile
// in original_source/src/instr.rs, the only variant whose size() is not a
// compile-time constant.
type Profile struct {
	Function []byte
	Enabled  bool
}

func (Profile) Opcode() Opcode { return OpProfile }

func (p Profile) Size() uint16 {
	return 1 /*tag*/ + 4 /*length prefix*/ + uint16(len(p.Function)) + 1 /*enabled*/
}
