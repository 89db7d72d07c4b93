package ir

import (
	"testing"
)

func TestNewModule(t *testing.T) {
	ctx := testContext()

	m := NewModule(UnknownLocation(ctx))
	if !m.Valid() {
		t.Fatalf("new module invalid")
	}
	if got, want := m.AsOperation().Name(), "builtin.module"; got != want {
		t.Fatalf("operation name = %q, want %q", got, want)
	}
	if m.Body().OperationCount() != 0 {
		t.Fatalf("new module body not empty")
	}
	if m.Context() != ctx {
		t.Fatalf("module context mismatch")
	}
}

func TestNewModuleWithoutDialects(t *testing.T) {
	// builtin is registered implicitly, so a bare context is enough.
	ctx := NewContext()
	m := NewModule(UnknownLocation(ctx))
	if !m.Valid() {
		t.Fatalf("module creation failed on a bare context")
	}
}

func TestModuleAppend(t *testing.T) {
	ctx := testContext()

	m := NewModule(UnknownLocation(ctx))
	fn, _ := simpleFunc(t, ctx, "f")
	m.Append(fn)
	if m.Body().OperationCount() != 1 {
		t.Fatalf("OperationCount() = %d, want 1", m.Body().OperationCount())
	}
	parent, ok := fn.ParentOperation()
	if !ok || parent != m.AsOperation() {
		t.Fatalf("function parent = %v, %v", parent, ok)
	}
}

func TestModuleFromOperation(t *testing.T) {
	ctx := testContext()

	m := NewModule(UnknownLocation(ctx))
	adopted, ok := ModuleFromOperation(m.AsOperation())
	if !ok {
		t.Fatalf("ModuleFromOperation rejected a builtin.module")
	}
	if adopted.AsOperation() != m.AsOperation() {
		t.Fatalf("adopted module wraps a different operation")
	}

	other := indexConstant(t, ctx, 1)
	if _, ok := ModuleFromOperation(other); ok {
		t.Fatalf("ModuleFromOperation accepted arith.constant")
	}
}

func TestModuleDestroy(t *testing.T) {
	ctx := testContext()

	m := NewModule(UnknownLocation(ctx))
	fn, _ := simpleFunc(t, ctx, "f")
	m.Append(fn)
	m.Destroy()
	if m.Valid() {
		t.Fatalf("destroyed module still valid")
	}
	if fn.Valid() {
		t.Fatalf("nested function survived module destruction")
	}
}
