// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

import "fmt"

// Pool kind markers. Each is an uninhabited type used only as a phantom
// type parameter, the Go analogue of the Rust PhantomData<PoolIndex<A>>
// pattern in original_source/src/bundle.rs: at the byte level every pool
// index is a plain uint32, but the type parameter stops callers from
// handing a CNameIndex to the Resource pool by accident.
type (
	cnameKind     struct{}
	tweakDBIDKind struct{}
	resourceKind  struct{}
	stringKind    struct{}
)

// PoolIndex is a nullable 32-bit handle into one of the four string
// pools, tagged by kind K. The zero value means "none".
type PoolIndex[K any] uint32

// NullIndex is the distinguished "none" value shared by every pool index
// kind.
const NullIndex = 0

// Valid reports whether the index is non-zero. StringPool.Add assigns
// indices from 0, so a pool's first entry has index 0 and is reported as
// not valid here.
func (i PoolIndex[K]) Valid() bool { return i != NullIndex }

// Value returns the raw uint32 value.
func (i PoolIndex[K]) Value() uint32 { return uint32(i) }

func (i PoolIndex[K]) String() string {
	if !i.Valid() {
		return "<null>"
	}
	return fmt.Sprintf("#%d", uint32(i))
}

// CNameIndex addresses the CName string pool.
type CNameIndex = PoolIndex[cnameKind]

// TweakDBIndex addresses the TweakDB identifier string pool.
type TweakDBIndex = PoolIndex[tweakDBIDKind]

// ResourceIndex addresses the resource-path string pool.
type ResourceIndex = PoolIndex[resourceKind]

// StringIndex addresses the literal-string pool.
type StringIndex = PoolIndex[stringKind]

// DefIndex is a handle into the definition vector. Unlike the four string
// pool indices, index 0 is a reserved sentinel (the Undefined definition)
// rather than "none" for every definition variant type below; each typed
// index still treats 0 as invalid since no real definition ever occupies
// it.
type DefIndex uint32

// Valid reports whether the index can refer to a real (non-Undefined)
// definition.
func (i DefIndex) Valid() bool { return i != 0 }

func (i DefIndex) String() string {
	if !i.Valid() {
		return "<undefined>"
	}
	return fmt.Sprintf("#%d", uint32(i))
}

// Typed definition indices. Each wraps DefIndex so the typed accessor
// facade (bundle.go) can dispatch on the expected Definition variant.
type (
	TypeIndex       DefIndex
	ClassIndex      DefIndex
	EnumIndex       DefIndex
	EnumValueIndex  DefIndex
	FunctionIndex   DefIndex
	ParameterIndex  DefIndex
	LocalIndex      DefIndex
	FieldIndex      DefIndex
	SourceFileIndex DefIndex
)

// Valid reports whether the index can refer to a real definition.
func (i TypeIndex) Valid() bool       { return DefIndex(i).Valid() }
func (i ClassIndex) Valid() bool      { return DefIndex(i).Valid() }
func (i EnumIndex) Valid() bool       { return DefIndex(i).Valid() }
func (i EnumValueIndex) Valid() bool  { return DefIndex(i).Valid() }
func (i FunctionIndex) Valid() bool   { return DefIndex(i).Valid() }
func (i ParameterIndex) Valid() bool  { return DefIndex(i).Valid() }
func (i LocalIndex) Valid() bool      { return DefIndex(i).Valid() }
func (i FieldIndex) Valid() bool      { return DefIndex(i).Valid() }
func (i SourceFileIndex) Valid() bool { return DefIndex(i).Valid() }

func (i TypeIndex) String() string       { return DefIndex(i).String() }
func (i ClassIndex) String() string      { return DefIndex(i).String() }
func (i EnumIndex) String() string       { return DefIndex(i).String() }
func (i EnumValueIndex) String() string  { return DefIndex(i).String() }
func (i FunctionIndex) String() string   { return DefIndex(i).String() }
func (i ParameterIndex) String() string  { return DefIndex(i).String() }
func (i LocalIndex) String() string      { return DefIndex(i).String() }
func (i FieldIndex) String() string      { return DefIndex(i).String() }
func (i SourceFileIndex) String() string { return DefIndex(i).String() }
