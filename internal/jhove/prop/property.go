// Package prop implements JHOVE's typed, recursive metadata tree: the
// Property. A Property is built once by a constructor matching its
// (Type, Arity) pair and is never mutated afterwards, so a tree handed to
// a Handler is safe to share across goroutines without copying.
//
// This has no direct analogue in the teacher (ostafen/digler carves files,
// it doesn't build a metadata tree), so its shape is grounded on the
// labeled/typed tag tables in greg-hacke/go-metadata's meta and tags
// packages, generalized from "flat map of tag to value" into a recursive
// tree with an explicit arity dimension.
package prop

import (
	"time"

	"github.com/ostafen/digler/internal/jhove/rational"
)

// Type identifies the payload type carried by a Property's value.
type Type int

const (
	Boolean Type = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float
	Double
	RationalT
	StringT
	RawT
	DateT
	PropertyT
	NisoImageMetadataT
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "Boolean"
	case Int8:
		return "Int8"
	case Uint8:
		return "Uint8"
	case Int16:
		return "Int16"
	case Uint16:
		return "Uint16"
	case Int32:
		return "Int32"
	case Uint32:
		return "Uint32"
	case Int64:
		return "Int64"
	case Uint64:
		return "Uint64"
	case Float:
		return "Float"
	case Double:
		return "Double"
	case RationalT:
		return "Rational"
	case StringT:
		return "String"
	case RawT:
		return "Raw"
	case DateT:
		return "Date"
	case PropertyT:
		return "Property"
	case NisoImageMetadataT:
		return "NisoImageMetadata"
	default:
		return "Unknown"
	}
}

// Arity describes the shape the value is stored in.
type Arity int

const (
	Scalar Arity = iota
	Array
	List
	Set
	MapArity
)

func (a Arity) String() string {
	switch a {
	case Scalar:
		return "Scalar"
	case Array:
		return "Array"
	case List:
		return "List"
	case Set:
		return "Set"
	case MapArity:
		return "Map"
	default:
		return "Unknown"
	}
}

// Property is a named, typed node. Only the constructors in this file may
// build one; there is no exported mutator, which is what makes a
// constructed tree safe to share read-only (spec invariant: type and
// value agree; a Handler cannot corrupt the tree it was handed).
type Property struct {
	name  string
	typ   Type
	arity Arity
	value any
}

func (p Property) Name() string   { return p.name }
func (p Property) Type() Type     { return p.typ }
func (p Property) Arity() Arity   { return p.arity }
func (p Property) Value() any     { return p.value }

func (p Property) Bool() bool                   { return p.value.(bool) }
func (p Property) Int() int64                   { return p.value.(int64) }
func (p Property) Uint() uint64                  { return p.value.(uint64) }
func (p Property) Float64Val() float64          { return p.value.(float64) }
func (p Property) Rational() rational.Rational  { return p.value.(rational.Rational) }
func (p Property) Str() string                  { return p.value.(string) }
func (p Property) Raw() []byte                  { return p.value.([]byte) }
func (p Property) Date() time.Time              { return p.value.(time.Time) }
func (p Property) Children() []Property         { return p.value.([]Property) }
func (p Property) MapChildren() map[string]Property { return p.value.(map[string]Property) }

func NewBoolean(name string, v bool) Property {
	return Property{name: name, typ: Boolean, arity: Scalar, value: v}
}

func newInt(name string, typ Type, v int64) Property {
	return Property{name: name, typ: typ, arity: Scalar, value: v}
}

func NewInt8(name string, v int8) Property   { return newInt(name, Int8, int64(v)) }
func NewInt16(name string, v int16) Property { return newInt(name, Int16, int64(v)) }
func NewInt32(name string, v int32) Property { return newInt(name, Int32, int64(v)) }
func NewInt64(name string, v int64) Property { return newInt(name, Int64, v) }

func newUint(name string, typ Type, v uint64) Property {
	return Property{name: name, typ: typ, arity: Scalar, value: v}
}

func NewUint8(name string, v uint8) Property   { return newUint(name, Uint8, uint64(v)) }
func NewUint16(name string, v uint16) Property { return newUint(name, Uint16, uint64(v)) }
func NewUint32(name string, v uint32) Property { return newUint(name, Uint32, uint64(v)) }
func NewUint64(name string, v uint64) Property { return newUint(name, Uint64, v) }

func NewFloat(name string, v float32) Property {
	return Property{name: name, typ: Float, arity: Scalar, value: float64(v)}
}

func NewDouble(name string, v float64) Property {
	return Property{name: name, typ: Double, arity: Scalar, value: v}
}

func NewRational(name string, v rational.Rational) Property {
	return Property{name: name, typ: RationalT, arity: Scalar, value: v}
}

func NewString(name string, v string) Property {
	return Property{name: name, typ: StringT, arity: Scalar, value: v}
}

func NewRaw(name string, v []byte) Property {
	return Property{name: name, typ: RawT, arity: Scalar, value: v}
}

func NewDate(name string, v time.Time) Property {
	return Property{name: name, typ: DateT, arity: Scalar, value: v}
}

// container builds a PropertyT node of the given arity holding children.
func container(name string, arity Arity, children []Property) Property {
	return Property{name: name, typ: PropertyT, arity: arity, value: children}
}

func NewList(name string, children []Property) Property  { return container(name, List, children) }
func NewArray(name string, children []Property) Property { return container(name, Array, children) }
func NewSet(name string, children []Property) Property   { return container(name, Set, children) }

func NewMap(name string, children map[string]Property) Property {
	return Property{name: name, typ: PropertyT, arity: MapArity, value: children}
}

// NewStringArray builds a StringT array from plain strings, the common
// case for e.g. a TIFF ASCII-array tag.
func NewStringArray(name string, values []string) Property {
	children := make([]Property, len(values))
	for i, v := range values {
		children[i] = NewString(name, v)
	}
	return container(name, Array, children)
}

// NewRationalArray builds a RationalT array.
func NewRationalArray(name string, values []rational.Rational) Property {
	children := make([]Property, len(values))
	for i, v := range values {
		children[i] = NewRational(name, v)
	}
	return container(name, Array, children)
}

// NewIntArray builds an Int64 array (used for signed integer tag arrays).
func NewIntArray(name string, values []int64) Property {
	children := make([]Property, len(values))
	for i, v := range values {
		children[i] = NewInt64(name, v)
	}
	return container(name, Array, children)
}

// NewUintArray builds a Uint64 array (used for unsigned integer tag arrays).
func NewUintArray(name string, values []uint64) Property {
	children := make([]Property, len(values))
	for i, v := range values {
		children[i] = NewUint64(name, v)
	}
	return container(name, Array, children)
}

// Walk performs a recursive descent over p and its PropertyT-arity
// children, calling visit on each node encountered including p itself.
// visit returning false stops the descent into that node's children (but
// not its siblings). The tree is acyclic by construction, so Walk needs no
// visited-set.
func Walk(p Property, visit func(Property) bool) {
	if !visit(p) {
		return
	}
	if p.typ != PropertyT {
		return
	}
	switch p.arity {
	case List, Array, Set:
		for _, c := range p.Children() {
			Walk(c, visit)
		}
	case MapArity:
		for _, c := range p.MapChildren() {
			Walk(c, visit)
		}
	}
}
