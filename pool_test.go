// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import "testing"

func TestStringPoolDedup(t *testing.T) {
	p := NewStringPool[cnameKind]()
	a := p.Add("IScriptable")
	b := p.Add("Vector3")
	c := p.Add("IScriptable")

	if a != c {
		t.Fatalf("Add(\"IScriptable\") twice: got indices %v and %v, want equal", a, c)
	}
	if a == b {
		t.Fatalf("distinct strings got the same index %v", a)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}

	got, ok := p.Get(b)
	if !ok || got != "Vector3" {
		t.Fatalf("Get(%v) = %q, %v, want \"Vector3\", true", b, got, ok)
	}
}

func TestStringPoolGetOutOfRange(t *testing.T) {
	p := NewStringPool[stringKind]()
	p.Add("only")
	if _, ok := p.Get(StringIndex(5)); ok {
		t.Fatalf("Get() of out-of-range index returned ok=true")
	}
}

func TestStringPoolPromote(t *testing.T) {
	data := []byte("hello\x00world\x00")
	r := newReader(data)
	s, err := r.readCString(0)
	if err != nil {
		t.Fatalf("readCString: %v", err)
	}

	p := NewStringPool[stringKind]()
	idx := p.addBorrowed(string(s))
	p.promote()

	got, ok := p.Get(idx)
	if !ok || got != "hello" {
		t.Fatalf("Get after promote = %q, %v", got, ok)
	}
}
