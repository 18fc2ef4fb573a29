// Copyright 2025 The LUCI Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package synth

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/randsynth/randsynth/randerr"
)

// Kind is the shape of a type.
type Kind int

// Known kinds.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindRune
	KindString
	KindUUID
	KindEnum
	KindArray
	KindList
	KindSet
	KindMap
	KindRecord
	KindObject
)

var kindNames = [...]string{
	"invalid", "bool",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64",
	"float32", "float64", "rune", "string", "uuid", "enum",
	"array", "list", "set", "map", "record", "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) isSigned() bool   { return k >= KindInt && k <= KindInt64 }
func (k Kind) isUnsigned() bool { return k >= KindUint && k <= KindUint64 }
func (k Kind) isFloat() bool    { return k == KindFloat32 || k == KindFloat64 }

// isContainer is true for kinds with element types.
func (k Kind) isContainer() bool { return k >= KindArray && k <= KindMap }

// isComposite is true for kinds built by creators or constructors, which
// are subject to the depth budget.
func (k Kind) isComposite() bool { return k == KindRecord || k == KindObject }

// Member is a named, typed slot: a record component, a creator or
// constructor parameter, or an object field.
type Member struct {
	Name string
	Type *Type
	// Meta constrains the values synthesized for the member. If nil, the
	// Synthesizer looks it up in its MetaSet, then falls back to defaults.
	Meta *Meta
}

// Field is a mutable member of an object, assigned after construction.
type Field struct {
	Member
	// Set assigns v to the field of obj. See Setter.
	Set func(obj, v any) error
}

// Creator is a preferred way to build an object, e.g. a factory function.
type Creator struct {
	Name string
	// Weight is the relative probability of choosing this creator among all
	// creators of the type. Zero means 1; negative weights are invalid.
	Weight int64
	// KeepDefaults makes the creator receive default values for every
	// parameter instead of synthesized ones.
	KeepDefaults bool
	Params       []Member
	Invoke       func(args []any) (any, error)
}

// Constructor is a structural way to build an object. Constructors are only
// used when the type has no creators.
type Constructor struct {
	Name   string
	Params []Member
	Invoke func(args []any) (any, error)
}

// EnumConst is a named constant of an enum.
type EnumConst struct {
	Name  string
	Value any
}

// Type describes how to synthesize values of a Go type.
//
// Types are built ahead of time with the constructors of this package and
// may refer to each other, including cyclically through records and objects.
// A Type must not be modified once a Synthesizer using it was created.
type Type struct {
	name string
	kind Kind

	elem *Type // array, list and set elements, map values
	key  *Type // map keys

	consts []EnumConst

	components []Member
	construct  func(args []any) (any, error)

	creators     []Creator
	constructors []Constructor
	fields       []Field

	zero any
	// empty returns an empty container of the concrete type.
	empty func() any
	// seq builds a concrete slice or set out of elements.
	seq func(elems []any) (any, error)
	// dict builds a concrete map out of entries.
	dict func(keys, vals []any, merge func(earlier, later any) any) (any, error)
}

// Name is the name of the type, used in errors, logs and MetaSet lookups.
func (t *Type) Name() string { return t.name }

// Kind is the shape of the type.
func (t *Type) Kind() Kind { return t.kind }

// Elem is the element type of arrays, lists and sets and the value type of
// maps.
func (t *Type) Elem() *Type { return t.elem }

// Key is the key type of maps.
func (t *Type) Key() *Type { return t.key }

func (t *Type) String() string { return t.name }

func scalar(name string, kind Kind, zero any) *Type {
	return &Type{name: name, kind: kind, zero: zero}
}

var (
	boolType    = scalar("bool", KindBool, false)
	intType     = scalar("int", KindInt, int(0))
	int8Type    = scalar("int8", KindInt8, int8(0))
	int16Type   = scalar("int16", KindInt16, int16(0))
	int32Type   = scalar("int32", KindInt32, int32(0))
	int64Type   = scalar("int64", KindInt64, int64(0))
	uintType    = scalar("uint", KindUint, uint(0))
	uint8Type   = scalar("uint8", KindUint8, uint8(0))
	uint16Type  = scalar("uint16", KindUint16, uint16(0))
	uint32Type  = scalar("uint32", KindUint32, uint32(0))
	uint64Type  = scalar("uint64", KindUint64, uint64(0))
	float32Type = scalar("float32", KindFloat32, float32(0))
	float64Type = scalar("float64", KindFloat64, float64(0))
	runeType    = scalar("rune", KindRune, rune(0))
	stringType  = scalar("string", KindString, "")
	uuidType    = scalar("uuid", KindUUID, uuid.Nil)
)

// Scalar types.
func Bool() *Type    { return boolType }
func Int() *Type     { return intType }
func Int8() *Type    { return int8Type }
func Int16() *Type   { return int16Type }
func Int32() *Type   { return int32Type }
func Int64() *Type   { return int64Type }
func Uint() *Type    { return uintType }
func Uint8() *Type   { return uint8Type }
func Uint16() *Type  { return uint16Type }
func Uint32() *Type  { return uint32Type }
func Uint64() *Type  { return uint64Type }
func Float32() *Type { return float32Type }
func Float64() *Type { return float64Type }
func Rune() *Type    { return runeType }
func String() *Type  { return stringType }
func UUID() *Type    { return uuidType }

// Enum describes an enumeration with the given constants, in declaration
// order. The first constant is the default one.
func Enum(name string, consts ...EnumConst) *Type {
	t := &Type{name: name, kind: KindEnum, consts: consts}
	if len(consts) > 0 {
		t.zero = consts[0].Value
	}
	return t
}

// EnumOf describes an enumeration whose constants are named by their String
// method.
func EnumOf[E fmt.Stringer](name string, consts ...E) *Type {
	cs := make([]EnumConst, len(consts))
	for i, c := range consts {
		cs[i] = EnumConst{Name: c.String(), Value: c}
	}
	return Enum(name, cs...)
}

func convert[E any](v any) (E, error) {
	if v == nil {
		var zero E
		return zero, nil
	}
	e, ok := v.(E)
	if !ok {
		return e, randerr.Gen("got %T, want %T", v, e)
	}
	return e, nil
}

func sliceBuilder[L ~[]E, E any](elems []any) (any, error) {
	out := make(L, len(elems))
	for i, v := range elems {
		var err error
		if out[i], err = convert[E](v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ArrayOf describes a slice type L whose length is governed by the
// array_min_length and array_max_length metadata. Multi-dimensional arrays
// are arrays of arrays.
func ArrayOf[L ~[]E, E any](elem *Type) *Type {
	return &Type{
		name:  fmt.Sprintf("%T", L(nil)),
		kind:  KindArray,
		elem:  elem,
		zero:  L{},
		empty: func() any { return L{} },
		seq:   sliceBuilder[L],
	}
}

// ListOf describes a slice type L whose length is governed by the
// container_min_size and container_max_size metadata.
func ListOf[L ~[]E, E any](elem *Type) *Type {
	return &Type{
		name:  fmt.Sprintf("%T", L(nil)),
		kind:  KindList,
		elem:  elem,
		zero:  L{},
		empty: func() any { return L{} },
		seq:   sliceBuilder[L],
	}
}

// SetOf describes a set type S. Duplicate elements collapse, so sets may be
// smaller than the drawn size.
func SetOf[S ~map[E]struct{}, E comparable](elem *Type) *Type {
	return &Type{
		name:  fmt.Sprintf("%T", S(nil)),
		kind:  KindSet,
		elem:  elem,
		zero:  S{},
		empty: func() any { return S{} },
		seq: func(elems []any) (any, error) {
			out := make(S, len(elems))
			for _, v := range elems {
				e, err := convert[E](v)
				if err != nil {
					return nil, err
				}
				out[e] = struct{}{}
			}
			return out, nil
		},
	}
}

// MapOf describes a map type M.
func MapOf[M ~map[K]V, K comparable, V any](key, val *Type) *Type {
	return &Type{
		name:  fmt.Sprintf("%T", M(nil)),
		kind:  KindMap,
		key:   key,
		elem:  val,
		zero:  M{},
		empty: func() any { return M{} },
		dict: func(keys, vals []any, merge func(earlier, later any) any) (any, error) {
			out := make(M, len(keys))
			for i := range keys {
				k, err := convert[K](keys[i])
				if err != nil {
					return nil, err
				}
				v := vals[i]
				if prev, ok := out[k]; ok {
					v = merge(prev, v)
				}
				if out[k], err = convert[V](v); err != nil {
					return nil, err
				}
			}
			return out, nil
		},
	}
}

// Record describes a type with a fixed list of components, all of which are
// synthesized and passed, in order, to construct.
//
// Every component must have metadata, either inline or in the MetaSet.
func Record[R any](name string, construct func(args []any) (R, error), components ...Member) *Type {
	var zero R
	t := &Type{name: name, kind: KindRecord, components: components, zero: zero}
	if construct != nil {
		t.construct = func(args []any) (any, error) { return construct(args) }
	}
	return t
}

// Object describes a type built by creators or, failing that, by
// constructors followed by field assignment. Its zero value is the zero O,
// typically a nil pointer.
//
// Creators, constructors and fields are added with the methods of the
// returned Type, which allows self-referential types:
//
//	node := synth.Object[*Node]("Node")
//	node.WithConstructor(synth.Constructor{
//	  Invoke: func([]any) (any, error) { return &Node{}, nil },
//	}).WithField(synth.Field{
//	  Member: synth.Member{Name: "Next", Type: node},
//	  Set:    synth.Setter(func(n *Node, next *Node) { n.Next = next }),
//	})
func Object[O any](name string) *Type {
	var zero O
	return &Type{name: name, kind: KindObject, zero: zero}
}

// WithCreator adds a creator to an object type.
func (t *Type) WithCreator(c Creator) *Type {
	t.creators = append(t.creators, c)
	return t
}

// WithConstructor adds a constructor to an object type.
func (t *Type) WithConstructor(c Constructor) *Type {
	t.constructors = append(t.constructors, c)
	return t
}

// WithField adds a mutable field to an object type.
func (t *Type) WithField(f Field) *Type {
	t.fields = append(t.fields, f)
	return t
}

// Setter adapts a typed assignment function for Field.Set.
func Setter[O, V any](set func(obj O, v V)) func(obj, v any) error {
	return func(obj, v any) error {
		o, err := convert[O](obj)
		if err != nil {
			return err
		}
		val, err := convert[V](v)
		if err != nil {
			return err
		}
		set(o, val)
		return nil
	}
}
