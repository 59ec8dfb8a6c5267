// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import (
	"math"
)

// Definition and pool indices embedded inside instruction operands are
// written padded to 8 bytes (low 4 bytes hold the value, high 4 bytes are
// zero), matching the fixed per-opcode operand sizes in opcode.go. The one
// exception is StringConst, whose index is written unpadded in 4 bytes.

func readPadded32(r *reader, offset uint32) (uint32, *Error) {
	v, err := r.readUint64(offset)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func putPadded32(b []byte, offset uint32, v uint32) {
	putUint64(b, offset, uint64(v))
}

// DecodeInstruction decodes one instruction from r at offset, returning
// it along with the offset of the byte following it.
func DecodeInstruction(r *reader, offset uint32) (Instruction, uint32, *Error) {
	tagByte, err := r.readUint8(offset)
	if err != nil {
		return nil, 0, err
	}
	op := Opcode(tagByte)
	if !op.Valid() {
		return nil, 0, ErrInvalidOpcode
	}
	body := offset + 1

	switch op {
	case OpNop, OpNull, OpI32One, OpI32Zero, OpTrueConst, OpFalseConst,
		OpAssign, OpExternalVar, OpSwitchDefault, OpParamEnd, OpReturn,
		OpDelete, OpThis, OpRefToBool, OpWeakRefToBool, OpVariantIsDefined,
		OpVariantIsRef, OpVariantIsArray, OpVariantTypeName, OpVariantToString,
		OpWeakRefToRef, OpRefToWeakRef, OpWeakRefNull:
		return NilaryInstr{Op: op}, body, nil

	case OpI8Const:
		v, err := r.readUint8(body)
		return I8Const{Value: int8(v)}, body + 1, err
	case OpI16Const:
		v, err := r.readInt16(body)
		return I16Const{Value: v}, body + 2, err
	case OpI32Const:
		v, err := r.readUint32(body)
		return I32Const{Value: int32(v)}, body + 4, err
	case OpI64Const:
		v, err := r.readUint64(body)
		return I64Const{Value: int64(v)}, body + 8, err
	case OpU8Const:
		v, err := r.readUint8(body)
		return U8Const{Value: v}, body + 1, err
	case OpU16Const:
		v, err := r.readUint16(body)
		return U16Const{Value: v}, body + 2, err
	case OpU32Const:
		v, err := r.readUint32(body)
		return U32Const{Value: v}, body + 4, err
	case OpU64Const:
		v, err := r.readUint64(body)
		return U64Const{Value: v}, body + 8, err
	case OpF32Const:
		v, err := r.readUint32(body)
		return F32Const{Value: math.Float32frombits(v)}, body + 4, err
	case OpF64Const:
		v, err := r.readUint64(body)
		return F64Const{Value: math.Float64frombits(v)}, body + 8, err

	case OpCNameConst:
		v, err := readPadded32(r, body)
		return CNameConst{Value: CNameIndex(v)}, body + 8, err
	case OpTweakDBIdConst:
		v, err := readPadded32(r, body)
		return TweakDBIdConst{Value: TweakDBIndex(v)}, body + 8, err
	case OpResourceConst:
		v, err := readPadded32(r, body)
		return ResourceConst{Value: ResourceIndex(v)}, body + 8, err
	case OpStringConst:
		v, err := r.readUint32(body)
		return StringConst{Value: StringIndex(v)}, body + 4, err
	case OpEnumConst:
		e, err := readPadded32(r, body)
		if err != nil {
			return nil, 0, err
		}
		m, err := readPadded32(r, body+8)
		return EnumConst{Enum: EnumIndex(e), Member: EnumValueIndex(m)}, body + 16, err

	case OpBreakpoint:
		b, err := r.readBytes(body, 19)
		if err != nil {
			return nil, 0, err
		}
		var bp Breakpoint
		copy(bp.Payload[:], b)
		return bp, body + 19, nil

	case OpLocal:
		v, err := readPadded32(r, body)
		return LocalInstr{Local: LocalIndex(v)}, body + 8, err
	case OpParam:
		v, err := readPadded32(r, body)
		return ParamInstr{Param: ParameterIndex(v)}, body + 8, err
	case OpObjectField:
		v, err := readPadded32(r, body)
		return ObjectFieldInstr{Field: FieldIndex(v)}, body + 8, err
	case OpStructField:
		v, err := readPadded32(r, body)
		return StructFieldInstr{Field: FieldIndex(v)}, body + 8, err

	case OpSwitch:
		t, err := readPadded32(r, body)
		if err != nil {
			return nil, 0, err
		}
		fc, err := r.readInt16(body + 8)
		return Switch{Type: TypeIndex(t), FirstCase: fc}, body + 10, err
	case OpSwitchLabel:
		next, err := r.readInt16(body)
		if err != nil {
			return nil, 0, err
		}
		bodyOff, err := r.readInt16(body + 2)
		return SwitchLabel{NextCase: next, Body: bodyOff}, body + 4, err

	case OpJump, OpJumpIfFalse, OpSkip:
		v, err := r.readInt16(body)
		return Jump{Op: op, Target: v}, body + 2, err

	case OpConditional:
		fl, err := r.readInt16(body)
		if err != nil {
			return nil, 0, err
		}
		exit, err := r.readInt16(body + 2)
		return Conditional{FalseLabel: fl, Exit: exit}, body + 4, err

	case OpContext:
		v, err := r.readInt16(body)
		return Context{Exit: v}, body + 2, err

	case OpConstruct:
		n, err := r.readUint8(body)
		if err != nil {
			return nil, 0, err
		}
		t, err := readPadded32(r, body+1)
		return Construct{Type: ClassIndex(t), ArgCount: n}, body + 9, err

	case OpNew:
		t, err := readPadded32(r, body)
		return New{Type: ClassIndex(t)}, body + 8, err

	case OpInvokeStatic:
		exit, err := r.readInt16(body)
		if err != nil {
			return nil, 0, err
		}
		line, err := r.readUint16(body + 2)
		if err != nil {
			return nil, 0, err
		}
		fn, err := readPadded32(r, body+4)
		if err != nil {
			return nil, 0, err
		}
		flags, err := r.readUint16(body + 12)
		return InvokeStatic{Exit: exit, Line: line, Function: FunctionIndex(fn), Flags: flags}, body + 14, err

	case OpInvokeVirtual:
		exit, err := r.readInt16(body)
		if err != nil {
			return nil, 0, err
		}
		line, err := r.readUint16(body + 2)
		if err != nil {
			return nil, 0, err
		}
		fn, err := readPadded32(r, body+4)
		if err != nil {
			return nil, 0, err
		}
		flags, err := r.readUint16(body + 12)
		return InvokeVirtual{Exit: exit, Line: line, Function: CNameIndex(fn), Flags: flags}, body + 14, err

	case OpEquals, OpRefStringEqualsString, OpStringEqualsRefString,
		OpNotEquals, OpRefStringNotEqualsString, OpStringNotEqualsRefString:
		t, err := readPadded32(r, body)
		return TypeCompare{Op: op, Type: TypeIndex(t)}, body + 8, err

	case OpArrayClear, OpArraySize, OpArrayResize, OpArrayFindFirst, OpArrayFindFirstFast,
		OpArrayFindLast, OpArrayFindLastFast, OpArrayContains, OpArrayContainsFast,
		OpArrayCount, OpArrayCountFast, OpArrayPush, OpArrayPop, OpArrayInsert,
		OpArrayRemove, OpArrayRemoveFast, OpArrayGrow, OpArrayErase, OpArrayEraseFast,
		OpArrayLast, OpArrayElement, OpArraySort, OpArraySortByPredicate:
		t, err := readPadded32(r, body)
		return ArrayOp{Op: op, ElementType: TypeIndex(t)}, body + 8, err

	case OpStaticArraySize, OpStaticArrayFindFirst, OpStaticArrayFindFirstFast,
		OpStaticArrayFindLast, OpStaticArrayFindLastFast, OpStaticArrayContains,
		OpStaticArrayContainsFast, OpStaticArrayCount, OpStaticArrayCountFast,
		OpStaticArrayLast, OpStaticArrayElement:
		t, err := readPadded32(r, body)
		return StaticArrayOp{Op: op, ElementType: TypeIndex(t)}, body + 8, err

	case OpEnumToI32, OpI32ToEnum:
		e, err := readPadded32(r, body)
		if err != nil {
			return nil, 0, err
		}
		w, err := r.readUint8(body + 8)
		return EnumConvert{Op: op, Enum: EnumIndex(e), Width: w}, body + 9, err

	case OpDynamicCast:
		t, err := readPadded32(r, body)
		if err != nil {
			return nil, 0, err
		}
		flags, err := r.readUint8(body + 8)
		return DynamicCast{Type: ClassIndex(t), Flags: flags}, body + 9, err

	case OpToString, OpToVariant, OpFromVariant:
		t, err := readPadded32(r, body)
		return TypeConvert{Op: op, Type: TypeIndex(t)}, body + 8, err

	case OpAsRef, OpDeref:
		t, err := readPadded32(r, body)
		return RefConvert{Op: op, Type: TypeIndex(t)}, body + 8, err

	case OpProfile:
		length, err := r.readUint32(body)
		if err != nil {
			return nil, 0, err
		}
		fn, err := r.readBytes(body+4, length)
		if err != nil {
			return nil, 0, err
		}
		enabled, err := r.readUint8(body + 4 + length)
		if err != nil {
			return nil, 0, err
		}
		end := body + 4 + length + 1
		return Profile{Function: append([]byte(nil), fn...), Enabled: enabled != 0}, end, nil

	case OpTarget:
		return Target{}, body, nil
	}

	return nil, 0, ErrInvalidOpcode
}

// EncodeInstruction appends the wire encoding of instr to b, returning the
// extended slice. Target can never be encoded: it exists only as a decoded
// jump-label placeholder.
func EncodeInstruction(b []byte, instr Instruction) ([]byte, error) {
	if _, ok := instr.(Target); ok {
		return nil, ErrEncodeTarget
	}

	b = append(b, byte(instr.Opcode()))
	start := len(b)
	b = append(b, make([]byte, operandSize[instr.Opcode()])...)
	body := b[start:]

	switch v := instr.(type) {
	case NilaryInstr:
		// no operand bytes
	case I8Const:
		putUint8(body, 0, uint8(v.Value))
	case I16Const:
		putInt16(body, 0, v.Value)
	case I32Const:
		putUint32(body, 0, uint32(v.Value))
	case I64Const:
		putUint64(body, 0, uint64(v.Value))
	case U8Const:
		putUint8(body, 0, v.Value)
	case U16Const:
		putUint16(body, 0, v.Value)
	case U32Const:
		putUint32(body, 0, v.Value)
	case U64Const:
		putUint64(body, 0, v.Value)
	case F32Const:
		putUint32(body, 0, math.Float32bits(v.Value))
	case F64Const:
		putUint64(body, 0, math.Float64bits(v.Value))
	case CNameConst:
		putPadded32(body, 0, uint32(v.Value))
	case TweakDBIdConst:
		putPadded32(body, 0, uint32(v.Value))
	case ResourceConst:
		putPadded32(body, 0, uint32(v.Value))
	case StringConst:
		putUint32(body, 0, uint32(v.Value))
	case EnumConst:
		putPadded32(body, 0, uint32(v.Enum))
		putPadded32(body, 8, uint32(v.Member))
	case Breakpoint:
		copy(body, v.Payload[:])
	case LocalInstr:
		putPadded32(body, 0, uint32(v.Local))
	case ParamInstr:
		putPadded32(body, 0, uint32(v.Param))
	case ObjectFieldInstr:
		putPadded32(body, 0, uint32(v.Field))
	case StructFieldInstr:
		putPadded32(body, 0, uint32(v.Field))
	case Switch:
		putPadded32(body, 0, uint32(v.Type))
		putInt16(body, 8, v.FirstCase)
	case SwitchLabel:
		putInt16(body, 0, v.NextCase)
		putInt16(body, 2, v.Body)
	case Jump:
		putInt16(body, 0, v.Target)
	case Conditional:
		putInt16(body, 0, v.FalseLabel)
		putInt16(body, 2, v.Exit)
	case Context:
		putInt16(body, 0, v.Exit)
	case Construct:
		putUint8(body, 0, v.ArgCount)
		putPadded32(body, 1, uint32(v.Type))
	case New:
		putPadded32(body, 0, uint32(v.Type))
	case InvokeStatic:
		putInt16(body, 0, v.Exit)
		putUint16(body, 2, v.Line)
		putPadded32(body, 4, uint32(v.Function))
		putUint16(body, 12, v.Flags)
	case InvokeVirtual:
		putInt16(body, 0, v.Exit)
		putUint16(body, 2, v.Line)
		putPadded32(body, 4, uint32(v.Function))
		putUint16(body, 12, v.Flags)
	case TypeCompare:
		putPadded32(body, 0, uint32(v.Type))
	case ArrayOp:
		putPadded32(body, 0, uint32(v.ElementType))
	case StaticArrayOp:
		putPadded32(body, 0, uint32(v.ElementType))
	case EnumConvert:
		putPadded32(body, 0, uint32(v.Enum))
		putUint8(body, 8, v.Width)
	case DynamicCast:
		putPadded32(body, 0, uint32(v.Type))
		putUint8(body, 8, v.Flags)
	case TypeConvert:
		putPadded32(body, 0, uint32(v.Type))
	case RefConvert:
		putPadded32(body, 0, uint32(v.Type))
	case Profile:
		// Profile is variable-size: truncate the fixed placeholder and
		// append the real length-prefixed payload instead.
		b = b[:start]
		lenBuf := make([]byte, 4)
		putUint32(lenBuf, 0, uint32(len(v.Function)))
		b = append(b, lenBuf...)
		b = append(b, v.Function...)
		if v.Enabled {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}
	default:
		return nil, ErrInvalidOpcode
	}

	return b, nil
}
