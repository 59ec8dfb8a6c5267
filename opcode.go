// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

// Opcode is the single-byte instruction tag. The tag-to-variant mapping
// below must be reproduced exactly (spec.md §4.3); the 0x00-0x67 range is
// dense and sequential, so iota gives the exact wire value for each.
type Opcode uint8

const (
	OpNop Opcode = iota // 0x00
	OpNull
	OpI32One
	OpI32Zero
	OpI8Const
	OpI16Const
	OpI32Const
	OpI64Const
	OpU8Const
	OpU16Const
	OpU32Const
	OpU64Const
	OpF32Const
	OpF64Const
	OpCNameConst
	OpEnumConst
	OpStringConst
	OpTweakDBIdConst
	OpResourceConst
	OpTrueConst
	OpFalseConst
	OpBreakpoint
	OpAssign
	OpTarget
	OpLocal
	OpParam
	OpObjectField
	OpExternalVar
	OpSwitch
	OpSwitchLabel
	OpSwitchDefault
	OpJump
	OpJumpIfFalse
	OpSkip
	OpConditional
	OpConstruct
	OpInvokeStatic
	OpInvokeVirtual
	OpParamEnd
	OpReturn
	OpStructField
	OpContext
	OpEquals                   // 0x2A
	OpRefStringEqualsString    // 0x2B
	OpStringEqualsRefString    // 0x2C
	OpNotEquals                // 0x2D
	OpRefStringNotEqualsString // 0x2E
	OpStringNotEqualsRefString // 0x2F
	OpNew                      // 0x30
	OpDelete
	OpThis
	OpProfile
	OpArrayClear // 0x34
	OpArraySize
	OpArrayResize
	OpArrayFindFirst
	OpArrayFindFirstFast
	OpArrayFindLast
	OpArrayFindLastFast
	OpArrayContains
	OpArrayContainsFast
	OpArrayCount
	OpArrayCountFast
	OpArrayPush
	OpArrayPop
	OpArrayInsert
	OpArrayRemove
	OpArrayRemoveFast
	OpArrayGrow
	OpArrayErase
	OpArrayEraseFast
	OpArrayLast
	OpArrayElement
	OpArraySort
	OpArraySortByPredicate // 0x4A
	OpStaticArraySize      // 0x4B
	OpStaticArrayFindFirst
	OpStaticArrayFindFirstFast
	OpStaticArrayFindLast
	OpStaticArrayFindLastFast
	OpStaticArrayContains
	OpStaticArrayContainsFast
	OpStaticArrayCount
	OpStaticArrayCountFast
	OpStaticArrayLast
	OpStaticArrayElement // 0x55
	OpRefToBool          // 0x56
	OpWeakRefToBool      // 0x57
	OpEnumToI32          // 0x58
	OpI32ToEnum          // 0x59
	OpDynamicCast        // 0x5A
	OpToString           // 0x5B
	OpToVariant          // 0x5C
	OpFromVariant        // 0x5D
	OpVariantIsDefined   // 0x5E
	OpVariantIsRef
	OpVariantIsArray
	OpVariantTypeName
	OpVariantToString // 0x62
	OpWeakRefToRef    // 0x63
	OpRefToWeakRef    // 0x64
	OpWeakRefNull     // 0x65
	OpAsRef           // 0x66
	OpDeref           // 0x67

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	OpNop: "Nop", OpNull: "Null", OpI32One: "I32One", OpI32Zero: "I32Zero",
	OpI8Const: "I8Const", OpI16Const: "I16Const", OpI32Const: "I32Const", OpI64Const: "I64Const",
	OpU8Const: "U8Const", OpU16Const: "U16Const", OpU32Const: "U32Const", OpU64Const: "U64Const",
	OpF32Const: "F32Const", OpF64Const: "F64Const", OpCNameConst: "CNameConst", OpEnumConst: "EnumConst",
	OpStringConst: "StringConst", OpTweakDBIdConst: "TweakDbIdConst", OpResourceConst: "ResourceConst",
	OpTrueConst: "TrueConst", OpFalseConst: "FalseConst", OpBreakpoint: "Breakpoint", OpAssign: "Assign",
	OpTarget: "Target", OpLocal: "Local", OpParam: "Param", OpObjectField: "ObjectField",
	OpExternalVar: "ExternalVar", OpSwitch: "Switch", OpSwitchLabel: "SwitchLabel", OpSwitchDefault: "SwitchDefault",
	OpJump: "Jump", OpJumpIfFalse: "JumpIfFalse", OpSkip: "Skip", OpConditional: "Conditional",
	OpConstruct: "Construct", OpInvokeStatic: "InvokeStatic", OpInvokeVirtual: "InvokeVirtual",
	OpParamEnd: "ParamEnd", OpReturn: "Return", OpStructField: "StructField", OpContext: "Context",
	OpEquals: "Equals", OpRefStringEqualsString: "RefStringEqualsString", OpStringEqualsRefString: "StringEqualsRefString",
	OpNotEquals: "NotEquals", OpRefStringNotEqualsString: "RefStringNotEqualsString", OpStringNotEqualsRefString: "StringNotEqualsRefString",
	OpNew: "New", OpDelete: "Delete", OpThis: "This", OpProfile: "Profile",
	OpArrayClear: "ArrayClear", OpArraySize: "ArraySize", OpArrayResize: "ArrayResize",
	OpArrayFindFirst: "ArrayFindFirst", OpArrayFindFirstFast: "ArrayFindFirstFast",
	OpArrayFindLast: "ArrayFindLast", OpArrayFindLastFast: "ArrayFindLastFast",
	OpArrayContains: "ArrayContains", OpArrayContainsFast: "ArrayContainsFast",
	OpArrayCount: "ArrayCount", OpArrayCountFast: "ArrayCountFast",
	OpArrayPush: "ArrayPush", OpArrayPop: "ArrayPop", OpArrayInsert: "ArrayInsert",
	OpArrayRemove: "ArrayRemove", OpArrayRemoveFast: "ArrayRemoveFast", OpArrayGrow: "ArrayGrow",
	OpArrayErase: "ArrayErase", OpArrayEraseFast: "ArrayEraseFast", OpArrayLast: "ArrayLast",
	OpArrayElement: "ArrayElement", OpArraySort: "ArraySort", OpArraySortByPredicate: "ArraySortByPredicate",
	OpStaticArraySize: "StaticArraySize", OpStaticArrayFindFirst: "StaticArrayFindFirst",
	OpStaticArrayFindFirstFast: "StaticArrayFindFirstFast", OpStaticArrayFindLast: "StaticArrayFindLast",
	OpStaticArrayFindLastFast: "StaticArrayFindLastFast", OpStaticArrayContains: "StaticArrayContains",
	OpStaticArrayContainsFast: "StaticArrayContainsFast", OpStaticArrayCount: "StaticArrayCount",
	OpStaticArrayCountFast: "StaticArrayCountFast", OpStaticArrayLast: "StaticArrayLast",
	OpStaticArrayElement: "StaticArrayElement", OpRefToBool: "RefToBool", OpWeakRefToBool: "WeakRefToBool",
	OpEnumToI32: "EnumToI32", OpI32ToEnum: "I32ToEnum", OpDynamicCast: "DynamicCast",
	OpToString: "ToString", OpToVariant: "ToVariant", OpFromVariant: "FromVariant",
	OpVariantIsDefined: "VariantIsDefined", OpVariantIsRef: "VariantIsRef", OpVariantIsArray: "VariantIsArray",
	OpVariantTypeName: "VariantTypeName", OpVariantToString: "VariantToString",
	OpWeakRefToRef: "WeakRefToRef", OpRefToWeakRef: "RefToWeakRef", OpWeakRefNull: "WeakRefNull",
	OpAsRef: "AsRef", OpDeref: "Deref",
}

func (op Opcode) String() string {
	if op < opcodeCount {
		if n := opcodeNames[op]; n != "" {
			return n
		}
	}
	return "Unknown"
}

// Valid reports whether op is a recognized opcode tag.
func (op Opcode) Valid() bool {
	return op < opcodeCount
}

// operandSize is the fixed operand-byte count for every opcode except
// Profile (variable, computed separately) and Target (synthetic, never
// encoded). Encoded instruction size is always 1 + operandSize(op).
var operandSize = [opcodeCount]uint16{
	OpNop: 0, OpNull: 0, OpI32One: 0, OpI32Zero: 0,
	OpI8Const: 1, OpI16Const: 2, OpI32Const: 4, OpI64Const: 8,
	OpU8Const: 1, OpU16Const: 2, OpU32Const: 4, OpU64Const: 8,
	OpF32Const: 4, OpF64Const: 8,
	OpCNameConst:     8,
	OpEnumConst:      16,
	OpStringConst:    4,
	OpTweakDBIdConst: 8,
	OpResourceConst:  8,
	OpTrueConst:      0, OpFalseConst: 0,
	OpBreakpoint: 19,
	OpAssign:     0,
	OpTarget:     0, // synthetic, never emitted
	OpLocal:      8, OpParam: 8, OpObjectField: 8,
	OpExternalVar: 0,
	OpSwitch:      10,
	OpSwitchLabel: 4,
	OpSwitchDefault: 0,
	OpJump:          2, OpJumpIfFalse: 2, OpSkip: 2,
	OpConditional: 4,
	OpConstruct:   9,
	OpInvokeStatic: 14, OpInvokeVirtual: 14,
	OpParamEnd: 0, OpReturn: 0,
	OpStructField: 8,
	OpContext:     2,
	OpEquals: 8, OpRefStringEqualsString: 8, OpStringEqualsRefString: 8,
	OpNotEquals: 8, OpRefStringNotEqualsString: 8, OpStringNotEqualsRefString: 8,
	OpNew: 8, OpDelete: 0, OpThis: 0,
	// OpProfile: variable, handled separately.
	OpArrayClear: 8, OpArraySize: 8, OpArrayResize: 8,
	OpArrayFindFirst: 8, OpArrayFindFirstFast: 8, OpArrayFindLast: 8, OpArrayFindLastFast: 8,
	OpArrayContains: 8, OpArrayContainsFast: 8, OpArrayCount: 8, OpArrayCountFast: 8,
	OpArrayPush: 8, OpArrayPop: 8, OpArrayInsert: 8, OpArrayRemove: 8, OpArrayRemoveFast: 8,
	OpArrayGrow: 8, OpArrayErase: 8, OpArrayEraseFast: 8, OpArrayLast: 8, OpArrayElement: 8,
	OpArraySort: 8, OpArraySortByPredicate: 8,
	OpStaticArraySize: 8, OpStaticArrayFindFirst: 8, OpStaticArrayFindFirstFast: 8,
	OpStaticArrayFindLast: 8, OpStaticArrayFindLastFast: 8, OpStaticArrayContains: 8,
	OpStaticArrayContainsFast: 8, OpStaticArrayCount: 8, OpStaticArrayCountFast: 8,
	OpStaticArrayLast: 8, OpStaticArrayElement: 8,
	OpRefToBool: 0, OpWeakRefToBool: 0,
	OpEnumToI32: 9, OpI32ToEnum: 9,
	OpDynamicCast: 9,
	OpToString:    8, OpToVariant: 8, OpFromVariant: 8,
	OpVariantIsDefined: 0, OpVariantIsRef: 0, OpVariantIsArray: 0,
	OpVariantTypeName: 0, OpVariantToString: 0,
	OpWeakRefToRef: 0, OpRefToWeakRef: 0, OpWeakRefNull: 0,
	OpAsRef: 8, OpDeref: 8,
}

// Offset biases (spec.md §4.3): stored = logical - bias, logical = stored
// + bias. The stored displacement is measured from the byte immediately
// after the displacement field. EncodeInstruction and DecodeInstruction do
// not apply these biases: offset fields of a decoded instruction hold the
// stored displacement as read, and are written back unchanged.
const (
	biasJump            = 3 // Jump, JumpIfFalse, Skip: target
	biasContextExit     = 3 // Context: exit
	biasCondFalseLabel  = 3 // Conditional: false_label
	biasCondExit        = 5 // Conditional: exit
	biasSwitchFirstCase = 11
	biasSwitchLabelNext = 3
	biasSwitchLabelBody = 5
	biasInvokeExit      = 3 // InvokeStatic, InvokeVirtual: exit
)
