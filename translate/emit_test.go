package translate

import (
	"bytes"
	"testing"
)

func TestBufferWriteU32(t *testing.T) {
	tests := []struct {
		want []byte
		val  uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7F}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xFF, 0x7F}, 16383},
		{[]byte{0x80, 0x80, 0x01}, 16384},
	}
	for _, tt := range tests {
		b := &buffer{}
		b.WriteU32(tt.val)
		if !bytes.Equal(b.Bytes, tt.want) {
			t.Errorf("WriteU32(%d) = %v, want %v", tt.val, b.Bytes, tt.want)
		}
	}
}

func TestBufferWriteI32(t *testing.T) {
	tests := []struct {
		want []byte
		val  int32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x2A}, 42},
		{[]byte{0x7F}, -1},
		{[]byte{0xC0, 0x00}, 64},
		{[]byte{0x40}, -64},
		{[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}, 2147483647},
	}
	for _, tt := range tests {
		b := &buffer{}
		b.WriteI32(tt.val)
		if !bytes.Equal(b.Bytes, tt.want) {
			t.Errorf("WriteI32(%d) = %v, want %v", tt.val, b.Bytes, tt.want)
		}
	}
}

func TestBufferWriteI64(t *testing.T) {
	tests := []struct {
		want []byte
		val  int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7F}, -1},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}, 9223372036854775807},
	}
	for _, tt := range tests {
		b := &buffer{}
		b.WriteI64(tt.val)
		if !bytes.Equal(b.Bytes, tt.want) {
			t.Errorf("WriteI64(%d) = %v, want %v", tt.val, b.Bytes, tt.want)
		}
	}
}

func TestTypeIndexDeduplicates(t *testing.T) {
	wm := newWasmModule()
	a := wm.typeIndex(funcType{params: []byte{valTypeI32}, results: []byte{valTypeI32}})
	b := wm.typeIndex(funcType{params: []byte{valTypeI32}, results: []byte{valTypeI32}})
	c := wm.typeIndex(funcType{params: []byte{valTypeI64}, results: []byte{valTypeI32}})
	if a != b {
		t.Fatalf("identical signatures got indices %d and %d", a, b)
	}
	if a == c {
		t.Fatalf("distinct signatures share index %d", a)
	}
	if len(wm.types) != 2 {
		t.Fatalf("type table holds %d entries, want 2", len(wm.types))
	}
}

func TestEncodeBodyGroupsLocals(t *testing.T) {
	got := encodeBody([]byte{valTypeI32, valTypeI32, valTypeI64}, []byte{opEnd})
	want := []byte{
		0x02,             // two local groups
		0x02, valTypeI32, // 2 x i32
		0x01, valTypeI64, // 1 x i64
		opEnd,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("encodeBody = %v, want %v", got, want)
	}
}

// TestEncodeConstantFunctionModule pins the full binary layout of the
// smallest interesting module: one exported function returning the
// constant 42.
func TestEncodeConstantFunctionModule(t *testing.T) {
	instrs := &buffer{}
	instrs.AppendByte(opI32Const)
	instrs.WriteI32(42)
	instrs.AppendByte(opLocalSet)
	instrs.WriteU32(0)
	instrs.AppendByte(opLocalGet)
	instrs.WriteU32(0)
	instrs.AppendByte(opReturn)
	instrs.AppendByte(opEnd)

	wm := newWasmModule()
	typeIdx := wm.typeIndex(funcType{results: []byte{valTypeI32}})
	funcIdx := wm.addFunction(typeIdx, encodeBody([]byte{valTypeI32}, instrs.Bytes))
	wm.addExport("c", funcIdx)

	want := []byte{
		0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00, // magic + version
		0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7F, // type: () -> (i32)
		0x03, 0x02, 0x01, 0x00, // func: one function of type 0
		0x07, 0x05, 0x01, 0x01, 0x63, 0x00, 0x00, // export: "c" func 0
		0x0A, 0x0D, 0x01, 0x0B, // code: one body of 11 bytes
		0x01, 0x01, 0x7F, // one i32 local
		0x41, 0x2A, // i32.const 42
		0x21, 0x00, // local.set 0
		0x20, 0x00, // local.get 0
		0x0F, 0x0B, // return, end
	}
	if got := wm.encode(); !bytes.Equal(got, want) {
		t.Fatalf("encode() = % X\nwant        % X", got, want)
	}
}
