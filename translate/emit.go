package translate

// Binary encoding of the target format. Sections and number encodings
// follow the WebAssembly core specification: sections are id-prefixed
// and length-prefixed, integers are LEB128.

const (
	sectionType   byte = 1
	sectionFunc   byte = 3
	sectionExport byte = 7
	sectionCode   byte = 10
)

const (
	valTypeI32 byte = 0x7F
	valTypeI64 byte = 0x7E
)

const (
	funcTypeMarker byte = 0x60
	exportKindFunc byte = 0x00
)

const (
	opEnd      byte = 0x0B
	opReturn   byte = 0x0F
	opLocalGet byte = 0x20
	opLocalSet byte = 0x21
	opI32Const byte = 0x41
	opI64Const byte = 0x42
	opI32Add   byte = 0x6A
	opI32Sub   byte = 0x6B
	opI32Mul   byte = 0x6C
	opI64Add   byte = 0x7C
	opI64Sub   byte = 0x7D
	opI64Mul   byte = 0x7E
)

type buffer struct {
	Bytes []byte
}

func (b *buffer) AppendByte(v byte) {
	b.Bytes = append(b.Bytes, v)
}

func (b *buffer) WriteBytes(v []byte) {
	b.Bytes = append(b.Bytes, v...)
}

// WriteU32 writes unsigned LEB128 encoding.
func (b *buffer) WriteU32(v uint32) {
	for {
		byt := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			byt |= 0x80
		}
		b.AppendByte(byt)
		if v == 0 {
			break
		}
	}
}

// WriteI32 writes signed LEB128 encoding.
func (b *buffer) WriteI32(v int32) {
	for {
		byt := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && byt&0x40 == 0) || (v == -1 && byt&0x40 != 0) {
			b.AppendByte(byt)
			break
		}
		b.AppendByte(byt | 0x80)
	}
}

// WriteI64 writes signed LEB128 encoding.
func (b *buffer) WriteI64(v int64) {
	for {
		byt := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && byt&0x40 == 0) || (v == -1 && byt&0x40 != 0) {
			b.AppendByte(byt)
			break
		}
		b.AppendByte(byt | 0x80)
	}
}

func (b *buffer) WriteString(s string) {
	b.WriteU32(uint32(len(s)))
	b.WriteBytes([]byte(s))
}

// funcType is a function signature in target value types.
type funcType struct {
	params  []byte
	results []byte
}

func (ft funcType) key() string {
	return string(ft.params) + "|" + string(ft.results)
}

type wasmExport struct {
	name string
	idx  uint32
}

// wasmModule accumulates one target module: the deduplicated type
// table, one type index per function, the exported names and the
// encoded body of every function.
type wasmModule struct {
	types   []funcType
	typeKey map[string]uint32
	funcs   []uint32
	exports []wasmExport
	code    [][]byte
}

func newWasmModule() *wasmModule {
	return &wasmModule{typeKey: make(map[string]uint32)}
}

// typeIndex returns the index of ft in the type table, adding it on
// first use.
func (m *wasmModule) typeIndex(ft funcType) uint32 {
	if idx, ok := m.typeKey[ft.key()]; ok {
		return idx
	}
	idx := uint32(len(m.types))
	m.types = append(m.types, ft)
	m.typeKey[ft.key()] = idx
	return idx
}

// addFunction appends a function with the given type index and encoded
// body and returns its function index.
func (m *wasmModule) addFunction(typeIdx uint32, body []byte) uint32 {
	idx := uint32(len(m.funcs))
	m.funcs = append(m.funcs, typeIdx)
	m.code = append(m.code, body)
	return idx
}

func (m *wasmModule) addExport(name string, idx uint32) {
	m.exports = append(m.exports, wasmExport{name: name, idx: idx})
}

func (m *wasmModule) encode() []byte {
	buf := &buffer{}

	buf.WriteBytes([]byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}) // magic + version

	if len(m.types) > 0 {
		m.encodeTypeSection(buf)
	}
	if len(m.funcs) > 0 {
		m.encodeFuncSection(buf)
	}
	if len(m.exports) > 0 {
		m.encodeExportSection(buf)
	}
	if len(m.code) > 0 {
		m.encodeCodeSection(buf)
	}

	return buf.Bytes
}

func writeSection(buf *buffer, id byte, content *buffer) {
	buf.AppendByte(id)
	buf.WriteU32(uint32(len(content.Bytes)))
	buf.WriteBytes(content.Bytes)
}

func (m *wasmModule) encodeTypeSection(buf *buffer) {
	sec := &buffer{}
	sec.WriteU32(uint32(len(m.types)))
	for _, ft := range m.types {
		sec.AppendByte(funcTypeMarker)
		sec.WriteU32(uint32(len(ft.params)))
		sec.WriteBytes(ft.params)
		sec.WriteU32(uint32(len(ft.results)))
		sec.WriteBytes(ft.results)
	}
	writeSection(buf, sectionType, sec)
}

func (m *wasmModule) encodeFuncSection(buf *buffer) {
	sec := &buffer{}
	sec.WriteU32(uint32(len(m.funcs)))
	for _, typeIdx := range m.funcs {
		sec.WriteU32(typeIdx)
	}
	writeSection(buf, sectionFunc, sec)
}

func (m *wasmModule) encodeExportSection(buf *buffer) {
	sec := &buffer{}
	sec.WriteU32(uint32(len(m.exports)))
	for _, e := range m.exports {
		sec.WriteString(e.name)
		sec.AppendByte(exportKindFunc)
		sec.WriteU32(e.idx)
	}
	writeSection(buf, sectionExport, sec)
}

func (m *wasmModule) encodeCodeSection(buf *buffer) {
	sec := &buffer{}
	sec.WriteU32(uint32(len(m.code)))
	for _, body := range m.code {
		sec.WriteU32(uint32(len(body)))
		sec.WriteBytes(body)
	}
	writeSection(buf, sectionCode, sec)
}

// encodeBody prefixes the instruction stream with the declaration of
// the extra locals, grouping consecutive locals of one value type.
func encodeBody(locals []byte, instrs []byte) []byte {
	var groups []struct {
		count uint32
		vt    byte
	}
	for _, vt := range locals {
		if len(groups) > 0 && groups[len(groups)-1].vt == vt {
			groups[len(groups)-1].count++
		} else {
			groups = append(groups, struct {
				count uint32
				vt    byte
			}{1, vt})
		}
	}

	body := &buffer{}
	body.WriteU32(uint32(len(groups)))
	for _, g := range groups {
		body.WriteU32(g.count)
		body.AppendByte(g.vt)
	}
	body.WriteBytes(instrs)
	return body.Bytes
}
