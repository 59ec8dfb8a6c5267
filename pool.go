// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

// StringPool is an insertion-ordered set of unique strings, parameterized
// by its phantom pool kind K so CName/TweakDB/Resource/String indices
// cannot be mixed up at the type-checking layer. Ground: the generic
// StringPool<'i, A> in original_source/src/bundle.rs, backed there by an
// IndexSet; here by a slice plus a lookup map, the idiomatic Go shape for
// an ordered-and-indexable set.
type StringPool[K any] struct {
	strings []string
	index   map[string]uint32
	// borrowed marks, parallel to strings, which entries were read from
	// an input byte buffer and have not been promoted yet.
	borrowed []bool
}

// NewStringPool returns an empty pool.
func NewStringPool[K any]() *StringPool[K] {
	return &StringPool[K]{index: make(map[string]uint32)}
}

// Len returns the number of unique strings currently in the pool.
func (p *StringPool[K]) Len() int {
	return len(p.strings)
}

// Add inserts s if not already present and returns its index. Inserting
// an already-interned string returns the existing index (idempotent).
func (p *StringPool[K]) Add(s string) PoolIndex[K] {
	if idx, ok := p.index[s]; ok {
		return PoolIndex[K](idx)
	}
	idx := uint32(len(p.strings))
	p.strings = append(p.strings, s)
	p.borrowed = append(p.borrowed, false)
	p.index[s] = idx
	return PoolIndex[K](idx)
}

// addBorrowed inserts s (a string converted from the input buffer during
// a read) and marks it borrowed.
func (p *StringPool[K]) addBorrowed(s string) PoolIndex[K] {
	if idx, ok := p.index[s]; ok {
		return PoolIndex[K](idx)
	}
	idx := uint32(len(p.strings))
	p.strings = append(p.strings, s)
	p.borrowed = append(p.borrowed, true)
	p.index[s] = idx
	return PoolIndex[K](idx)
}

// GetIndex looks up s and reports whether it is interned.
func (p *StringPool[K]) GetIndex(s string) (PoolIndex[K], bool) {
	idx, ok := p.index[s]
	return PoolIndex[K](idx), ok
}

// Get returns the string at index i, or "" and false if out of range.
func (p *StringPool[K]) Get(i PoolIndex[K]) (string, bool) {
	idx := int(i)
	if idx < 0 || idx >= len(p.strings) {
		return "", false
	}
	return p.strings[idx], true
}

// All returns the pool's strings in insertion order. The returned slice
// must not be mutated by the caller.
func (p *StringPool[K]) All() []string {
	return p.strings
}

// promote copies every entry marked borrowed and clears its mark.
// Ground: StringPool::into_owned in original_source.
func (p *StringPool[K]) promote() {
	for i, isBorrowed := range p.borrowed {
		if isBorrowed {
			cp := make([]byte, len(p.strings[i]))
			copy(cp, p.strings[i])
			p.strings[i] = string(cp)
			p.borrowed[i] = false
		}
	}
}
