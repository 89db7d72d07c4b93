package engine

import (
	"testing"

	"github.com/wippyai/ir-core/errors"
	"github.com/wippyai/ir-core/ir"
)

func callOp(t *testing.T, ctx *ir.Context, callee string) ir.Operation {
	t.Helper()
	op, err := ir.NewOperationBuilder("func.call", ir.UnknownLocation(ctx)).
		AddAttributes(ir.Named(ctx, "callee", ir.FlatSymbolRefAttr(ctx, callee))).
		Build()
	if err != nil {
		t.Fatalf("building call: %v", err)
	}
	return op
}

func emptyFunc(t *testing.T, m ir.Module, name string, private bool) ir.Operation {
	t.Helper()
	ctx := m.Context()
	block := ir.NewBlock(ctx, nil)
	block.AppendOperation(returnOp(t, ctx))
	return funcWithBody(t, m, name, block, private)
}

func callerFunc(t *testing.T, m ir.Module, name, callee string) ir.Operation {
	t.Helper()
	ctx := m.Context()
	block := ir.NewBlock(ctx, nil)
	block.AppendOperation(callOp(t, ctx, callee))
	block.AppendOperation(returnOp(t, ctx))
	return funcWithBody(t, m, name, block, false)
}

func TestMergeEmptyModules(t *testing.T) {
	ctx := testContext()
	target := ir.NewModule(ir.UnknownLocation(ctx))
	source := ir.NewModule(ir.UnknownLocation(ctx))

	if err := MergeSymbolsFromClone(target.AsOperation(), source.AsOperation()); err != nil {
		t.Fatalf("MergeSymbolsFromClone: %v", err)
	}
	if n := target.Body().OperationCount(); n != 0 {
		t.Fatalf("target gained %d operations from an empty source", n)
	}
	if !source.Valid() {
		t.Fatalf("source destroyed by merge")
	}
}

func TestMergeDisjointSymbols(t *testing.T) {
	ctx := testContext()
	target := ir.NewModule(ir.UnknownLocation(ctx))
	emptyFunc(t, target, "g", false)
	source := ir.NewModule(ir.UnknownLocation(ctx))
	emptyFunc(t, source, "f", false)

	if err := MergeSymbolsFromClone(target.AsOperation(), source.AsOperation()); err != nil {
		t.Fatalf("MergeSymbolsFromClone: %v", err)
	}
	for _, name := range []string{"f", "g"} {
		if _, ok := ir.LookupSymbol(target.AsOperation(), name); !ok {
			t.Fatalf("symbol %q missing from target after merge", name)
		}
	}
	if _, ok := ir.LookupSymbol(source.AsOperation(), "f"); !ok {
		t.Fatalf("merge consumed the source symbol")
	}
}

func TestMergeRenamesPrivateIncoming(t *testing.T) {
	ctx := testContext()
	target := ir.NewModule(ir.UnknownLocation(ctx))
	kept := emptyFunc(t, target, "util", false)

	source := ir.NewModule(ir.UnknownLocation(ctx))
	emptyFunc(t, source, "util", true)
	callerFunc(t, source, "caller", "util")

	if err := MergeSymbolsFromClone(target.AsOperation(), source.AsOperation()); err != nil {
		t.Fatalf("MergeSymbolsFromClone: %v", err)
	}

	got, ok := ir.LookupSymbol(target.AsOperation(), "util")
	if !ok || got != kept {
		t.Fatalf("public target symbol lost its name")
	}
	renamed, ok := ir.LookupSymbol(target.AsOperation(), "util_0")
	if !ok || !ir.IsPrivateSymbol(renamed) {
		t.Fatalf("private incoming symbol not renamed to util_0")
	}
	if n := ir.SymbolUses(target.AsOperation(), "util_0"); n != 1 {
		t.Fatalf("references to the renamed symbol = %d, want 1", n)
	}

	// The source keeps its own names and references.
	if _, ok := ir.LookupSymbol(source.AsOperation(), "util"); !ok {
		t.Fatalf("source symbol renamed in place")
	}
	if n := ir.SymbolUses(source.AsOperation(), "util"); n != 1 {
		t.Fatalf("source references rewritten: %d uses of util", n)
	}
}

func TestMergePublicIncomingDisplacesPrivateTarget(t *testing.T) {
	ctx := testContext()
	target := ir.NewModule(ir.UnknownLocation(ctx))
	emptyFunc(t, target, "util", true)
	callerFunc(t, target, "main", "util")

	source := ir.NewModule(ir.UnknownLocation(ctx))
	incoming := emptyFunc(t, source, "util", false)

	if err := MergeSymbolsFromClone(target.AsOperation(), source.AsOperation()); err != nil {
		t.Fatalf("MergeSymbolsFromClone: %v", err)
	}

	got, ok := ir.LookupSymbol(target.AsOperation(), "util")
	if !ok {
		t.Fatalf("public incoming symbol missing from target")
	}
	if ir.IsPrivateSymbol(got) {
		t.Fatalf("the name util belongs to the private symbol, want the public incoming one")
	}
	if got == incoming {
		t.Fatalf("merge moved the source operation instead of a clone")
	}

	renamed, ok := ir.LookupSymbol(target.AsOperation(), "util_0")
	if !ok || !ir.IsPrivateSymbol(renamed) {
		t.Fatalf("private target symbol not renamed to util_0")
	}
	if n := ir.SymbolUses(target.AsOperation(), "util_0"); n != 1 {
		t.Fatalf("references to the renamed symbol = %d, want 1", n)
	}
}

func TestMergePublicConflictFails(t *testing.T) {
	ctx := testContext()
	target := ir.NewModule(ir.UnknownLocation(ctx))
	emptyFunc(t, target, "f", false)
	source := ir.NewModule(ir.UnknownLocation(ctx))
	emptyFunc(t, source, "f", false)

	err := MergeSymbolsFromClone(target.AsOperation(), source.AsOperation())
	if !errors.Is(err, errors.MergeFailed()) {
		t.Fatalf("error = %v, want merge failure", err)
	}
	if errors.Is(err, errors.TransformFailed()) {
		t.Fatalf("merge failure matched the transform phase")
	}

	if n := target.Body().OperationCount(); n != 1 {
		t.Fatalf("failed merge changed the target: %d top-level operations", n)
	}
	if _, ok := ir.LookupSymbol(source.AsOperation(), "f"); !ok {
		t.Fatalf("failed merge damaged the source")
	}
}

func TestMergeMovesOnlySymbolOperations(t *testing.T) {
	ctx := testContext()
	target := ir.NewModule(ir.UnknownLocation(ctx))
	source := ir.NewModule(ir.UnknownLocation(ctx))
	emptyFunc(t, source, "f", false)
	source.Append(constOp(t, ctx, 3))

	if err := MergeSymbolsFromClone(target.AsOperation(), source.AsOperation()); err != nil {
		t.Fatalf("MergeSymbolsFromClone: %v", err)
	}
	for _, op := range target.Body().Operations() {
		if _, ok := ir.SymbolName(op); !ok {
			t.Fatalf("non-symbol operation %s moved into the target", op)
		}
	}
	if _, ok := ir.LookupSymbol(target.AsOperation(), "f"); !ok {
		t.Fatalf("symbol f missing from target")
	}
}
