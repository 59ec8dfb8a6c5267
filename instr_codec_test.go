// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import (
	"bytes"
	"testing"
)

func encodeDecode(t *testing.T, instr Instruction) Instruction {
	t.Helper()
	b, err := EncodeInstruction(nil, instr)
	if err != nil {
		t.Fatalf("EncodeInstruction(%#v): %v", instr, err)
	}
	if uint16(len(b)) != instr.Size() {
		t.Fatalf("encoded length = %d, want Size() = %d", len(b), instr.Size())
	}
	got, n, derr := DecodeInstruction(newReader(b), 0)
	if derr != nil {
		t.Fatalf("DecodeInstruction: %v", derr)
	}
	if n != uint32(len(b)) {
		t.Fatalf("decoded end offset = %d, want %d", n, len(b))
	}
	return got
}

func TestInstructionRoundTripNilary(t *testing.T) {
	got := encodeDecode(t, NilaryInstr{Op: OpNop})
	if got.(NilaryInstr).Op != OpNop {
		t.Fatalf("got %#v", got)
	}
}

func TestInstructionRoundTripConsts(t *testing.T) {
	cases := []Instruction{
		I8Const{Value: -12},
		I32Const{Value: -70000},
		U64Const{Value: 18446744073709551615},
		F32Const{Value: 3.5},
		F64Const{Value: -1.25},
		StringConst{Value: StringIndex(42)},
		CNameConst{Value: CNameIndex(7)},
		EnumConst{Enum: EnumIndex(3), Member: EnumValueIndex(9)},
	}
	for _, c := range cases {
		got := encodeDecode(t, c)
		if got != c {
			t.Errorf("round trip %#v: got %#v", c, got)
		}
	}
}

func TestInstructionRoundTripJumpFamily(t *testing.T) {
	for _, op := range []Opcode{OpJump, OpJumpIfFalse, OpSkip} {
		instr := Jump{Op: op, Target: -100}
		got := encodeDecode(t, instr)
		if got != Instruction(instr) {
			t.Errorf("round trip %v: got %#v", op, got)
		}
	}
}

func TestInstructionRoundTripConditional(t *testing.T) {
	instr := Conditional{FalseLabel: 10, Exit: 40}
	got := encodeDecode(t, instr)
	if got != Instruction(instr) {
		t.Fatalf("got %#v", got)
	}
}

func TestInstructionRoundTripSwitch(t *testing.T) {
	sw := Switch{Type: TypeIndex(4), FirstCase: 20}
	if got := encodeDecode(t, sw); got != Instruction(sw) {
		t.Fatalf("Switch round trip: got %#v", got)
	}
	label := SwitchLabel{NextCase: 8, Body: 12}
	if got := encodeDecode(t, label); got != Instruction(label) {
		t.Fatalf("SwitchLabel round trip: got %#v", got)
	}
}

func TestProfileWireSize(t *testing.T) {
	p := Profile{Function: []byte{0xAA, 0xBB, 0xCC}, Enabled: true}
	wantSize := uint16(9)
	if p.Size() != wantSize {
		t.Fatalf("Size() = %d, want %d", p.Size(), wantSize)
	}

	b, err := EncodeInstruction(nil, p)
	if err != nil {
		t.Fatalf("EncodeInstruction: %v", err)
	}
	if len(b) != int(wantSize) {
		t.Fatalf("encoded length = %d, want %d", len(b), wantSize)
	}

	got, n, derr := DecodeInstruction(newReader(b), 0)
	if derr != nil {
		t.Fatalf("DecodeInstruction: %v", derr)
	}
	if n != uint32(len(b)) {
		t.Fatalf("decoded end offset = %d, want %d", n, len(b))
	}
	gp := got.(Profile)
	if gp.Enabled != p.Enabled || !bytes.Equal(gp.Function, p.Function) {
		t.Fatalf("got %#v, want %#v", gp, p)
	}
}

func TestInstructionRoundTripEmptyProfile(t *testing.T) {
	p := Profile{Function: nil, Enabled: false}
	b, err := EncodeInstruction(nil, p)
	if err != nil {
		t.Fatalf("EncodeInstruction: %v", err)
	}
	got, _, derr := DecodeInstruction(newReader(b), 0)
	if derr != nil {
		t.Fatalf("DecodeInstruction: %v", derr)
	}
	gp := got.(Profile)
	if gp.Enabled != p.Enabled || len(gp.Function) != 0 {
		t.Fatalf("got %#v, want %#v", gp, p)
	}
}

func TestEncodeTargetRejected(t *testing.T) {
	if _, err := EncodeInstruction(nil, Target{}); err != ErrEncodeTarget {
		t.Fatalf("EncodeInstruction(Target{}) err = %v, want ErrEncodeTarget", err)
	}
}

func TestDecodeInvalidOpcode(t *testing.T) {
	data := []byte{0xFF}
	if _, _, err := DecodeInstruction(newReader(data), 0); err != ErrInvalidOpcode {
		t.Fatalf("DecodeInstruction err = %v, want ErrInvalidOpcode", err)
	}
}

func TestDecodeTruncatedOperand(t *testing.T) {
	data := []byte{byte(OpI32Const), 1, 2}
	if _, _, err := DecodeInstruction(newReader(data), 0); err == nil {
		t.Fatalf("DecodeInstruction with truncated operand: want error, got nil")
	}
}

func TestInvokeStaticRoundTrip(t *testing.T) {
	instr := InvokeStatic{Exit: 30, Line: 120, Function: FunctionIndex(55), Flags: 0x0001}
	got := encodeDecode(t, instr)
	if got != Instruction(instr) {
		t.Fatalf("got %#v", got)
	}
}

func TestArrayOpRoundTrip(t *testing.T) {
	instr := ArrayOp{Op: OpArrayPush, ElementType: TypeIndex(9)}
	got := encodeDecode(t, instr)
	if got != Instruction(instr) {
		t.Fatalf("got %#v", got)
	}
}
