package ir

import (
	"strconv"
	"strings"
)

// OperandSegmentSizesAttrName is the reserved attribute that records how
// a flat operand list is partitioned into named groups. Its value is a
// dense i32 array with one entry per group.
const OperandSegmentSizesAttrName = "operandSegmentSizes"

// Attribute is an interned handle to an attribute owned by a Context.
// Two attributes constructed with the same content in the same context
// compare equal with ==. The zero Attribute is invalid.
type Attribute struct {
	ctx *Context
	id  attrID
}

// NamedAttribute pairs an attribute with its name.
type NamedAttribute struct {
	Name  Identifier
	Value Attribute
}

// Named builds a NamedAttribute, interning the name.
func Named(ctx *Context, name string, value Attribute) NamedAttribute {
	return NamedAttribute{Name: NewIdentifier(ctx, name), Value: value}
}

// StringAttr returns the string attribute with the given value.
func StringAttr(ctx *Context, value string) Attribute {
	d := attrData{kind: attrString, str: value}
	return Attribute{ctx: ctx, id: ctx.interner.internAttr(attrKey(d), d)}
}

// IntegerAttr returns an integer attribute of the given type.
func IntegerAttr(t Type, value int64) Attribute {
	ctx := t.ctx
	if ctx == nil {
		panic("ir: IntegerAttr with zero Type")
	}
	d := attrData{kind: attrInteger, typ: t.id, num: value}
	return Attribute{ctx: ctx, id: ctx.interner.internAttr(attrKey(d), d)}
}

// BoolAttr returns the true or false attribute.
func BoolAttr(ctx *Context, value bool) Attribute {
	d := attrData{kind: attrBool}
	if value {
		d.num = 1
	}
	return Attribute{ctx: ctx, id: ctx.interner.internAttr(attrKey(d), d)}
}

// UnitAttr returns the unit attribute, whose presence alone is the signal.
func UnitAttr(ctx *Context) Attribute {
	d := attrData{kind: attrUnit}
	return Attribute{ctx: ctx, id: ctx.interner.internAttr(attrKey(d), d)}
}

// TypeAttr wraps a type as an attribute.
func TypeAttr(t Type) Attribute {
	ctx := t.ctx
	if ctx == nil {
		panic("ir: TypeAttr with zero Type")
	}
	d := attrData{kind: attrType, typ: t.id}
	return Attribute{ctx: ctx, id: ctx.interner.internAttr(attrKey(d), d)}
}

// ArrayAttr returns an attribute holding an ordered list of attributes.
func ArrayAttr(ctx *Context, elems []Attribute) Attribute {
	d := attrData{kind: attrArray}
	if len(elems) > 0 {
		d.elems = make([]attrID, len(elems))
		for i, e := range elems {
			if e.ctx != ctx {
				panic("ir: attribute belongs to a different context")
			}
			d.elems[i] = e.id
		}
	}
	return Attribute{ctx: ctx, id: ctx.interner.internAttr(attrKey(d), d)}
}

// DenseI32ArrayAttr returns an attribute holding a dense array of i32
// values. The slice is copied.
func DenseI32ArrayAttr(ctx *Context, values []int32) Attribute {
	d := attrData{kind: attrDenseI32}
	if len(values) > 0 {
		d.ints = make([]int32, len(values))
		copy(d.ints, values)
	}
	return Attribute{ctx: ctx, id: ctx.interner.internAttr(attrKey(d), d)}
}

// FlatSymbolRefAttr returns an attribute referencing a symbol by name.
func FlatSymbolRefAttr(ctx *Context, symbol string) Attribute {
	d := attrData{kind: attrFlatSymbolRef, str: symbol}
	return Attribute{ctx: ctx, id: ctx.interner.internAttr(attrKey(d), d)}
}

// Valid reports whether the handle refers to an attribute.
func (a Attribute) Valid() bool {
	return a.ctx != nil && a.id != 0
}

// Context returns the owning context.
func (a Attribute) Context() *Context {
	return a.ctx
}

// AsString returns the value of a string attribute.
func (a Attribute) AsString() (string, bool) {
	d := a.data()
	if d.kind != attrString {
		return "", false
	}
	return d.str, true
}

// AsInteger returns the value of an integer attribute.
func (a Attribute) AsInteger() (int64, bool) {
	d := a.data()
	if d.kind != attrInteger {
		return 0, false
	}
	return d.num, true
}

// AsBool returns the value of a bool attribute.
func (a Attribute) AsBool() (bool, bool) {
	d := a.data()
	if d.kind != attrBool {
		return false, false
	}
	return d.num != 0, true
}

// IsUnit reports whether the attribute is the unit attribute.
func (a Attribute) IsUnit() bool {
	return a.data().kind == attrUnit
}

// AsType returns the type wrapped by a type attribute.
func (a Attribute) AsType() (Type, bool) {
	d := a.data()
	if d.kind != attrType {
		return Type{}, false
	}
	return Type{ctx: a.ctx, id: d.typ}, true
}

// AsArray returns the elements of an array attribute.
func (a Attribute) AsArray() ([]Attribute, bool) {
	d := a.data()
	if d.kind != attrArray {
		return nil, false
	}
	elems := make([]Attribute, len(d.elems))
	for i, id := range d.elems {
		elems[i] = Attribute{ctx: a.ctx, id: id}
	}
	return elems, true
}

// AsDenseI32Array returns a copy of the values of a dense i32 array
// attribute.
func (a Attribute) AsDenseI32Array() ([]int32, bool) {
	d := a.data()
	if d.kind != attrDenseI32 {
		return nil, false
	}
	values := make([]int32, len(d.ints))
	copy(values, d.ints)
	return values, true
}

// AsFlatSymbolRef returns the symbol name referenced by a flat symbol
// reference attribute.
func (a Attribute) AsFlatSymbolRef() (string, bool) {
	d := a.data()
	if d.kind != attrFlatSymbolRef {
		return "", false
	}
	return d.str, true
}

// Type returns the type carried by the attribute, for the attribute
// kinds that carry one.
func (a Attribute) Type() (Type, bool) {
	d := a.data()
	switch d.kind {
	case attrInteger, attrType:
		return Type{ctx: a.ctx, id: d.typ}, true
	}
	return Type{}, false
}

// String renders the attribute in a compact textual form.
func (a Attribute) String() string {
	if !a.Valid() {
		return "<<invalid attribute>>"
	}
	d := a.data()
	switch d.kind {
	case attrString:
		return strconv.Quote(d.str)
	case attrInteger:
		return strconv.FormatInt(d.num, 10) + " : " + Type{ctx: a.ctx, id: d.typ}.String()
	case attrBool:
		if d.num != 0 {
			return "true"
		}
		return "false"
	case attrUnit:
		return "unit"
	case attrType:
		return Type{ctx: a.ctx, id: d.typ}.String()
	case attrArray:
		var b strings.Builder
		b.WriteString("[")
		for i, id := range d.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Attribute{ctx: a.ctx, id: id}.String())
		}
		b.WriteString("]")
		return b.String()
	case attrDenseI32:
		var b strings.Builder
		b.WriteString("array<i32")
		for i, v := range d.ints {
			if i == 0 {
				b.WriteString(": ")
			} else {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatInt(int64(v), 10))
		}
		b.WriteString(">")
		return b.String()
	case attrFlatSymbolRef:
		return "@" + d.str
	}
	return "<<invalid attribute>>"
}

func (a Attribute) data() *attrData {
	if a.ctx == nil || a.id == 0 {
		panic("ir: use of zero Attribute")
	}
	return a.ctx.interner.attrData(a.id)
}
