package ir

import (
	"strconv"
	"strings"
)

// Type is an interned handle to a type owned by a Context. Two types
// constructed with the same content in the same context compare equal
// with ==. The zero Type is invalid.
type Type struct {
	ctx *Context
	id  typeID
}

// IntegerType returns the signless integer type of the given bit width.
func IntegerType(ctx *Context, width uint) Type {
	d := typeData{kind: typeInteger, width: uint32(width)}
	return Type{ctx: ctx, id: ctx.interner.internType(typeKey(d), d)}
}

// IndexType returns the platform-sized index type.
func IndexType(ctx *Context) Type {
	d := typeData{kind: typeIndex}
	return Type{ctx: ctx, id: ctx.interner.internType(typeKey(d), d)}
}

// Float32Type returns the 32-bit float type.
func Float32Type(ctx *Context) Type {
	d := typeData{kind: typeF32}
	return Type{ctx: ctx, id: ctx.interner.internType(typeKey(d), d)}
}

// Float64Type returns the 64-bit float type.
func Float64Type(ctx *Context) Type {
	d := typeData{kind: typeF64}
	return Type{ctx: ctx, id: ctx.interner.internType(typeKey(d), d)}
}

// NoneType returns the unit type carrying no data.
func NoneType(ctx *Context) Type {
	d := typeData{kind: typeNone}
	return Type{ctx: ctx, id: ctx.interner.internType(typeKey(d), d)}
}

// FunctionType returns the function type with the given inputs and results.
func FunctionType(ctx *Context, inputs, results []Type) Type {
	d := typeData{
		kind:    typeFunction,
		inputs:  typeIDs(ctx, inputs),
		results: typeIDs(ctx, results),
	}
	return Type{ctx: ctx, id: ctx.interner.internType(typeKey(d), d)}
}

// Valid reports whether the handle refers to a type.
func (t Type) Valid() bool {
	return t.ctx != nil && t.id != 0
}

// Context returns the owning context.
func (t Type) Context() *Context {
	return t.ctx
}

// IsInteger reports whether the type is a signless integer.
func (t Type) IsInteger() bool {
	return t.data().kind == typeInteger
}

// IntegerWidth returns the bit width of an integer type.
func (t Type) IntegerWidth() (uint, bool) {
	d := t.data()
	if d.kind != typeInteger {
		return 0, false
	}
	return uint(d.width), true
}

// IsIndex reports whether the type is the index type.
func (t Type) IsIndex() bool {
	return t.data().kind == typeIndex
}

// IsFloat32 reports whether the type is f32.
func (t Type) IsFloat32() bool {
	return t.data().kind == typeF32
}

// IsFloat64 reports whether the type is f64.
func (t Type) IsFloat64() bool {
	return t.data().kind == typeF64
}

// IsNone reports whether the type is the none type.
func (t Type) IsNone() bool {
	return t.data().kind == typeNone
}

// IsFunction reports whether the type is a function type.
func (t Type) IsFunction() bool {
	return t.data().kind == typeFunction
}

// FunctionInputs returns the input types of a function type.
func (t Type) FunctionInputs() ([]Type, bool) {
	d := t.data()
	if d.kind != typeFunction {
		return nil, false
	}
	return typesFromIDs(t.ctx, d.inputs), true
}

// FunctionResults returns the result types of a function type.
func (t Type) FunctionResults() ([]Type, bool) {
	d := t.data()
	if d.kind != typeFunction {
		return nil, false
	}
	return typesFromIDs(t.ctx, d.results), true
}

// String renders the type in a compact textual form such as "i32" or
// "(i32, i32) -> (i32)".
func (t Type) String() string {
	if !t.Valid() {
		return "<<invalid type>>"
	}
	d := t.data()
	switch d.kind {
	case typeInteger:
		return "i" + strconv.FormatUint(uint64(d.width), 10)
	case typeIndex:
		return "index"
	case typeF32:
		return "f32"
	case typeF64:
		return "f64"
	case typeNone:
		return "none"
	case typeFunction:
		var b strings.Builder
		b.WriteString("(")
		for i, id := range d.inputs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Type{ctx: t.ctx, id: id}.String())
		}
		b.WriteString(") -> (")
		for i, id := range d.results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Type{ctx: t.ctx, id: id}.String())
		}
		b.WriteString(")")
		return b.String()
	}
	return "<<invalid type>>"
}

func (t Type) data() *typeData {
	if t.ctx == nil || t.id == 0 {
		panic("ir: use of zero Type")
	}
	return t.ctx.interner.typeData(t.id)
}

func typeIDs(ctx *Context, types []Type) []typeID {
	if len(types) == 0 {
		return nil
	}
	ids := make([]typeID, len(types))
	for i, t := range types {
		if t.ctx != ctx {
			panic("ir: type belongs to a different context")
		}
		ids[i] = t.id
	}
	return ids
}

func typesFromIDs(ctx *Context, ids []typeID) []Type {
	if len(ids) == 0 {
		return nil
	}
	types := make([]Type, len(ids))
	for i, id := range ids {
		types[i] = Type{ctx: ctx, id: id}
	}
	return types
}
