// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package bundle

// ScriptBundle is a fully materialized compiled-script container: its
// four string pools and its flat vector of definitions. Ground: the
// ScriptBundle<'i> struct in original_source/src/bundle.rs, generalized
// from a borrow-parameterized Rust type into a Go struct whose pools mark,
// per entry, whether a string was read from an input buffer (borrowed)
// or added by the caller (owned).
type ScriptBundle struct {
	CNames     *StringPool[cnameKind]
	TweakDBIDs *StringPool[tweakDBIDKind]
	Resources  *StringPool[resourceKind]
	Strings    *StringPool[stringKind]

	// Definitions is the flat definition vector; index 0 is always
	// Undefined regardless of what was read from disk.
	Definitions []Definition
	Headers     []DefinitionHeader
}

// NewScriptBundle returns an empty bundle with its Undefined sentinel
// already in place at index 0.
func NewScriptBundle() *ScriptBundle {
	return &ScriptBundle{
		CNames:      NewStringPool[cnameKind](),
		TweakDBIDs:  NewStringPool[tweakDBIDKind](),
		Resources:   NewStringPool[resourceKind](),
		Strings:     NewStringPool[stringKind](),
		Definitions: []Definition{Undefined{}},
		Headers:     []DefinitionHeader{{}},
	}
}

// Define appends def (with its header metadata, Size/Offset left for the
// writer to stamp) and returns its new, always non-zero, index.
func (b *ScriptBundle) Define(def Definition, header DefinitionHeader) DefIndex {
	header.Kind = def.Kind()
	idx := DefIndex(len(b.Definitions))
	b.Definitions = append(b.Definitions, def)
	b.Headers = append(b.Headers, header)
	return idx
}

func (b *ScriptBundle) at(i DefIndex) (Definition, bool) {
	idx := int(i)
	if idx <= 0 || idx >= len(b.Definitions) {
		return nil, false
	}
	return b.Definitions[idx], true
}

// GetType fallibly resolves i. The second return is false if i is out of
// range or does not name a Type definition.
func (b *ScriptBundle) GetType(i TypeIndex) (Type, bool) {
	d, ok := b.at(DefIndex(i))
	if !ok {
		return Type{}, false
	}
	t, ok := d.(Type)
	return t, ok
}

// Type resolves i and panics if it does not name a Type definition. This
// form must never be called with an index obtained from untrusted input;
// use GetType for that.
func (b *ScriptBundle) Type(i TypeIndex) Type {
	t, ok := b.GetType(i)
	if !ok {
		panic(ErrWrongVariant)
	}
	return t
}

// GetClass fallibly resolves i to a Class definition.
func (b *ScriptBundle) GetClass(i ClassIndex) (Class, bool) {
	d, ok := b.at(DefIndex(i))
	if !ok {
		return Class{}, false
	}
	c, ok := d.(Class)
	return c, ok
}

// Class resolves i and panics if it does not name a Class definition.
func (b *ScriptBundle) Class(i ClassIndex) Class {
	c, ok := b.GetClass(i)
	if !ok {
		panic(ErrWrongVariant)
	}
	return c
}

// GetEnum fallibly resolves i to an Enum definition.
func (b *ScriptBundle) GetEnum(i EnumIndex) (Enum, bool) {
	d, ok := b.at(DefIndex(i))
	if !ok {
		return Enum{}, false
	}
	e, ok := d.(Enum)
	return e, ok
}

// Enum resolves i and panics if it does not name an Enum definition.
func (b *ScriptBundle) Enum(i EnumIndex) Enum {
	e, ok := b.GetEnum(i)
	if !ok {
		panic(ErrWrongVariant)
	}
	return e
}

// GetEnumMember fallibly resolves i to an EnumMember definition.
func (b *ScriptBundle) GetEnumMember(i EnumValueIndex) (EnumMember, bool) {
	d, ok := b.at(DefIndex(i))
	if !ok {
		return EnumMember{}, false
	}
	m, ok := d.(EnumMember)
	return m, ok
}

// EnumMember resolves i and panics if it does not name an EnumMember
// definition.
func (b *ScriptBundle) EnumMember(i EnumValueIndex) EnumMember {
	m, ok := b.GetEnumMember(i)
	if !ok {
		panic(ErrWrongVariant)
	}
	return m
}

// GetFunction fallibly resolves i to a Function definition.
func (b *ScriptBundle) GetFunction(i FunctionIndex) (Function, bool) {
	d, ok := b.at(DefIndex(i))
	if !ok {
		return Function{}, false
	}
	f, ok := d.(Function)
	return f, ok
}

// Function resolves i and panics if it does not name a Function
// definition.
func (b *ScriptBundle) Function(i FunctionIndex) Function {
	f, ok := b.GetFunction(i)
	if !ok {
		panic(ErrWrongVariant)
	}
	return f
}

// GetParameter fallibly resolves i to a Parameter definition.
func (b *ScriptBundle) GetParameter(i ParameterIndex) (Parameter, bool) {
	d, ok := b.at(DefIndex(i))
	if !ok {
		return Parameter{}, false
	}
	p, ok := d.(Parameter)
	return p, ok
}

// Parameter resolves i and panics if it does not name a Parameter
// definition.
func (b *ScriptBundle) Parameter(i ParameterIndex) Parameter {
	p, ok := b.GetParameter(i)
	if !ok {
		panic(ErrWrongVariant)
	}
	return p
}

// GetLocal fallibly resolves i to a Local definition.
func (b *ScriptBundle) GetLocal(i LocalIndex) (Local, bool) {
	d, ok := b.at(DefIndex(i))
	if !ok {
		return Local{}, false
	}
	l, ok := d.(Local)
	return l, ok
}

// Local resolves i and panics if it does not name a Local definition.
func (b *ScriptBundle) Local(i LocalIndex) Local {
	l, ok := b.GetLocal(i)
	if !ok {
		panic(ErrWrongVariant)
	}
	return l
}

// GetField fallibly resolves i to a Field definition.
func (b *ScriptBundle) GetField(i FieldIndex) (Field, bool) {
	d, ok := b.at(DefIndex(i))
	if !ok {
		return Field{}, false
	}
	f, ok := d.(Field)
	return f, ok
}

// Field resolves i and panics if it does not name a Field definition.
func (b *ScriptBundle) Field(i FieldIndex) Field {
	f, ok := b.GetField(i)
	if !ok {
		panic(ErrWrongVariant)
	}
	return f
}

// GetSourceFile fallibly resolves i to a SourceFile definition.
func (b *ScriptBundle) GetSourceFile(i SourceFileIndex) (SourceFile, bool) {
	d, ok := b.at(DefIndex(i))
	if !ok {
		return SourceFile{}, false
	}
	s, ok := d.(SourceFile)
	return s, ok
}

// SourceFile resolves i and panics if it does not name a SourceFile
// definition.
func (b *ScriptBundle) SourceFile(i SourceFileIndex) SourceFile {
	s, ok := b.GetSourceFile(i)
	if !ok {
		panic(ErrWrongVariant)
	}
	return s
}

// IntoOwned promotes every borrowed string in every pool, copying it and
// clearing its borrowed mark. Ground: ScriptBundle::into_owned in
// original_source/src/bundle.rs.
func (b *ScriptBundle) IntoOwned() {
	b.CNames.promote()
	b.TweakDBIDs.promote()
	b.Resources.promote()
	b.Strings.promote()
}
