// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import "testing"

func TestWriteReadEmptyBundle(t *testing.T) {
	b := NewScriptBundle()
	data, err := WriteBundle(b, nil)
	if err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}
	if len(data) < HeaderSize {
		t.Fatalf("written bundle shorter than header: %d bytes", len(data))
	}

	got, rerr := ReadBundle(data, &ReadOptions{Strict: true})
	if rerr != nil {
		t.Fatalf("ReadBundle: %v", rerr)
	}
	if len(got.Definitions) != 1 {
		t.Fatalf("len(Definitions) = %d, want 1 (just Undefined)", len(got.Definitions))
	}
	if _, ok := got.Definitions[0].(Undefined); !ok {
		t.Fatalf("Definitions[0] = %#v, want Undefined", got.Definitions[0])
	}
}

func TestWriteReadPoolDedup(t *testing.T) {
	b := NewScriptBundle()
	a := b.CNames.Add("IScriptable")
	c := b.CNames.Add("IScriptable")
	if a != c {
		t.Fatalf("Add duplicate returned different indices: %v, %v", a, c)
	}
	b.Resources.Add("base\\gameplay\\gui\\widgets.ink")

	data, err := WriteBundle(b, nil)
	if err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}
	got, rerr := ReadBundle(data, nil)
	if rerr != nil {
		t.Fatalf("ReadBundle: %v", rerr)
	}
	if got.CNames.Len() != 1 {
		t.Fatalf("CNames.Len() = %d, want 1", got.CNames.Len())
	}
	s, ok := got.CNames.Get(CNameIndex(0))
	if !ok || s != "IScriptable" {
		t.Fatalf("CNames.Get(0) = %q, %v", s, ok)
	}
}

func TestWriteReadDefinitionsAndFunctionBody(t *testing.T) {
	b := NewScriptBundle()

	className := b.CNames.Add("TestClass")
	fnName := b.CNames.Add("DoSomething")

	fnIdx := b.Define(Function{
		Name:       fnName,
		Flags:      FunctionNative,
		ReturnType: TypeIndex(0),
		Body: &FunctionBody{
			Code: []Instruction{
				NilaryInstr{Op: OpNop},
				I32Const{Value: 42},
				NilaryInstr{Op: OpReturn},
			},
		},
	}, DefinitionHeader{Name: fnName})

	b.Define(Class{
		Name:      className,
		Flags:     ClassFinal,
		Functions: []FunctionIndex{FunctionIndex(fnIdx)},
	}, DefinitionHeader{Name: className})

	data, err := WriteBundle(b, &WriteOptions{Build: 3})
	if err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}

	got, rerr := ReadBundle(data, &ReadOptions{Strict: true})
	if rerr != nil {
		t.Fatalf("ReadBundle: %v", rerr)
	}

	fn := got.Function(FunctionIndex(fnIdx))
	if fn.Body == nil || len(fn.Body.Code) != 3 {
		t.Fatalf("function body = %#v, want 3 instructions", fn.Body)
	}
	if c, ok := fn.Body.Code[1].(I32Const); !ok || c.Value != 42 {
		t.Fatalf("instruction[1] = %#v, want I32Const{42}", fn.Body.Code[1])
	}

	class := got.Class(ClassIndex(2))
	if len(class.Functions) != 1 || class.Functions[0] != FunctionIndex(fnIdx) {
		t.Fatalf("class.Functions = %#v", class.Functions)
	}
}

func TestReadBundleRejectsBadMagic(t *testing.T) {
	b := NewScriptBundle()
	data, err := WriteBundle(b, nil)
	if err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}
	data[0] = 'X'
	if _, rerr := ReadBundle(data, nil); rerr != ErrBadMagic {
		t.Fatalf("ReadBundle err = %v, want ErrBadMagic", rerr)
	}
}

func TestTypedAccessorWrongVariantPanics(t *testing.T) {
	b := NewScriptBundle()
	name := b.CNames.Add("Foo")
	idx := b.Define(SourceFile{Path: ResourceIndex(0)}, DefinitionHeader{Name: name})

	defer func() {
		if recover() == nil {
			t.Fatalf("Class() on a SourceFile index did not panic")
		}
	}()
	b.Class(ClassIndex(idx))
}
