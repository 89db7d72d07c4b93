package ir

import (
	"strconv"
	"strings"
)

// Interned object ids. Zero is reserved for "no object" so that the zero
// value of every handle type is detectably invalid.
type (
	typeID  uint32
	attrID  uint32
	identID uint32
	locID   uint32
)

type typeKind uint8

const (
	typeInvalid typeKind = iota
	typeInteger
	typeIndex
	typeF32
	typeF64
	typeNone
	typeFunction
)

type typeData struct {
	kind    typeKind
	width   uint32
	inputs  []typeID
	results []typeID
}

type attrKind uint8

const (
	attrInvalid attrKind = iota
	attrString
	attrInteger
	attrBool
	attrUnit
	attrType
	attrArray
	attrDenseI32
	attrFlatSymbolRef
)

type attrData struct {
	kind  attrKind
	str   string
	num   int64
	typ   typeID
	ints  []int32
	elems []attrID
}

type locData struct {
	unknown bool
	file    string
	line    uint32
	col     uint32
}

// interner deduplicates immutable IR objects by content. Each kind has a
// dense slice of payloads plus a key map from canonical content string to
// id, so equal content always yields the same id and handle equality is
// plain struct equality.
type interner struct {
	types    []typeData
	typeKeys map[string]typeID

	attrs    []attrData
	attrKeys map[string]attrID

	idents    []string
	identKeys map[string]identID

	locs    []locData
	locKeys map[string]locID
}

func newInterner() *interner {
	return &interner{
		typeKeys:  make(map[string]typeID),
		attrKeys:  make(map[string]attrID),
		identKeys: make(map[string]identID),
		locKeys:   make(map[string]locID),
	}
}

func (in *interner) internType(key string, d typeData) typeID {
	if id, ok := in.typeKeys[key]; ok {
		return id
	}
	in.types = append(in.types, d)
	id := typeID(len(in.types))
	in.typeKeys[key] = id
	return id
}

func (in *interner) typeData(id typeID) *typeData {
	if id == 0 || int(id) > len(in.types) {
		panic("ir: invalid type handle")
	}
	return &in.types[id-1]
}

func (in *interner) internAttr(key string, d attrData) attrID {
	if id, ok := in.attrKeys[key]; ok {
		return id
	}
	in.attrs = append(in.attrs, d)
	id := attrID(len(in.attrs))
	in.attrKeys[key] = id
	return id
}

func (in *interner) attrData(id attrID) *attrData {
	if id == 0 || int(id) > len(in.attrs) {
		panic("ir: invalid attribute handle")
	}
	return &in.attrs[id-1]
}

func (in *interner) internIdent(value string) identID {
	if id, ok := in.identKeys[value]; ok {
		return id
	}
	in.idents = append(in.idents, value)
	id := identID(len(in.idents))
	in.identKeys[value] = id
	return id
}

func (in *interner) identValue(id identID) string {
	if id == 0 || int(id) > len(in.idents) {
		panic("ir: invalid identifier handle")
	}
	return in.idents[id-1]
}

func (in *interner) internLoc(key string, d locData) locID {
	if id, ok := in.locKeys[key]; ok {
		return id
	}
	in.locs = append(in.locs, d)
	id := locID(len(in.locs))
	in.locKeys[key] = id
	return id
}

func (in *interner) locData(id locID) *locData {
	if id == 0 || int(id) > len(in.locs) {
		panic("ir: invalid location handle")
	}
	return &in.locs[id-1]
}

// typeKey builds the canonical content key for a type.
func typeKey(d typeData) string {
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
		b.WriteString("fn(")
		writeIDList(&b, d.inputs)
		b.WriteString(")->(")
		writeIDList(&b, d.results)
		b.WriteString(")")
		return b.String()
	}
	panic("ir: unreachable type kind")
}

// attrKey builds the canonical content key for an attribute. A one byte
// tag keeps kinds with overlapping payloads apart.
func attrKey(d attrData) string {
	var b strings.Builder
	switch d.kind {
	case attrString:
		b.WriteString("s\x00")
		b.WriteString(d.str)
	case attrInteger:
		b.WriteString("i\x00")
		b.WriteString(strconv.FormatUint(uint64(d.typ), 10))
		b.WriteString("\x00")
		b.WriteString(strconv.FormatInt(d.num, 10))
	case attrBool:
		b.WriteString("b\x00")
		b.WriteString(strconv.FormatInt(d.num, 10))
	case attrUnit:
		b.WriteString("u")
	case attrType:
		b.WriteString("t\x00")
		b.WriteString(strconv.FormatUint(uint64(d.typ), 10))
	case attrArray:
		b.WriteString("a\x00")
		for i, e := range d.elems {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(strconv.FormatUint(uint64(e), 10))
		}
	case attrDenseI32:
		b.WriteString("d\x00")
		for i, v := range d.ints {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(strconv.FormatInt(int64(v), 10))
		}
	case attrFlatSymbolRef:
		b.WriteString("@\x00")
		b.WriteString(d.str)
	default:
		panic("ir: unreachable attribute kind")
	}
	return b.String()
}

func locKey(d locData) string {
	if d.unknown {
		return "?"
	}
	return d.file + "\x00" + strconv.FormatUint(uint64(d.line), 10) + "\x00" + strconv.FormatUint(uint64(d.col), 10)
}

func writeIDList(b *strings.Builder, ids []typeID) {
	for i, id := range ids {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
}
