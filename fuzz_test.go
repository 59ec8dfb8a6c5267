// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import "testing"

// FuzzReadBundle feeds arbitrary bytes to ReadBundle; the codec must
// never panic on untrusted input, only return an *Error. Ground: the
// legacy go-fuzz Fuzz(data []byte) int entry point once shipped in
// fuzz.go, ported to native testing.F.
func FuzzReadBundle(f *testing.F) {
	seed := NewScriptBundle()
	seed.CNames.Add("IScriptable")
	seed.Resources.Add("base\\gameplay\\gui.ink")
	seed.Define(Function{
		Name: seed.CNames.Add("DoSomething"),
		Body: &FunctionBody{Code: []Instruction{NilaryInstr{Op: OpNop}}},
	}, DefinitionHeader{})

	if data, err := WriteBundle(seed, nil); err == nil {
		f.Add(data)
	}
	f.Add([]byte{})
	f.Add([]byte("REDS"))
	f.Add(make([]byte, HeaderSize))

	f.Fuzz(func(t *testing.T, data []byte) {
		b, err := ReadBundle(data, &ReadOptions{Strict: true})
		if err != nil {
			return
		}
		// A successful parse must expose a usable bundle: Undefined
		// always occupies index 0.
		if _, ok := b.Definitions[0].(Undefined); !ok {
			t.Fatalf("Definitions[0] is not Undefined: %#v", b.Definitions[0])
		}
	})
}
