package engine

import (
	"testing"

	"github.com/wippyai/ir-core/errors"
	"github.com/wippyai/ir-core/ir"
	"github.com/wippyai/ir-core/pass"
)

func testContext() *ir.Context {
	ctx := ir.NewContext()
	registry := ir.NewDialectRegistry()
	ir.RegisterAllDialects(registry)
	ctx.AppendDialectRegistry(registry)
	return ctx
}

func constOp(t *testing.T, ctx *ir.Context, value int64) ir.Operation {
	t.Helper()
	i32 := ir.IntegerType(ctx, 32)
	op, err := ir.NewOperationBuilder("arith.constant", ir.UnknownLocation(ctx)).
		AddResults(i32).
		AddAttributes(ir.Named(ctx, "value", ir.IntegerAttr(i32, value))).
		Build()
	if err != nil {
		t.Fatalf("building constant: %v", err)
	}
	return op
}

func returnOp(t *testing.T, ctx *ir.Context, operands ...ir.Value) ir.Operation {
	t.Helper()
	op, err := ir.NewOperationBuilder("func.return", ir.UnknownLocation(ctx)).
		AddOperands(operands...).
		Build()
	if err != nil {
		t.Fatalf("building return: %v", err)
	}
	return op
}

// funcWithBody wraps the block into func.func @name() -> () and appends
// it to the module.
func funcWithBody(t *testing.T, m ir.Module, name string, block ir.Block, private bool) ir.Operation {
	t.Helper()
	ctx := m.Context()
	region := ir.NewRegion(ctx)
	region.AppendBlock(block)
	attrs := []ir.NamedAttribute{
		ir.Named(ctx, ir.SymbolNameAttrName, ir.StringAttr(ctx, name)),
		ir.Named(ctx, "function_type", ir.TypeAttr(ir.FunctionType(ctx, nil, nil))),
	}
	if private {
		attrs = append(attrs, ir.Named(ctx, ir.SymbolVisibilityAttrName, ir.StringAttr(ctx, "private")))
	}
	fn, err := ir.NewOperationBuilder("func.func", ir.UnknownLocation(ctx)).
		AddRegions(region).
		AddAttributes(attrs...).
		Build()
	if err != nil {
		t.Fatalf("building func.func: %v", err)
	}
	m.Append(fn)
	return fn
}

// namedSequence builds a transform.named_sequence holding the steps
// followed by a transform.yield.
func namedSequence(t *testing.T, ctx *ir.Context, name string, steps ...ir.Operation) ir.Operation {
	t.Helper()
	block := ir.NewBlock(ctx, nil)
	for _, step := range steps {
		block.AppendOperation(step)
	}
	yield, err := ir.NewOperationBuilder("transform.yield", ir.UnknownLocation(ctx)).Build()
	if err != nil {
		t.Fatalf("building yield: %v", err)
	}
	block.AppendOperation(yield)
	region := ir.NewRegion(ctx)
	region.AppendBlock(block)
	seq, err := ir.NewOperationBuilder("transform.named_sequence", ir.UnknownLocation(ctx)).
		AddRegions(region).
		AddAttributes(ir.Named(ctx, ir.SymbolNameAttrName, ir.StringAttr(ctx, name))).
		Build()
	if err != nil {
		t.Fatalf("building named sequence: %v", err)
	}
	return seq
}

// passStep builds transform.apply_registered_pass for the named pass,
// with an options attribute when options is non-empty.
func passStep(t *testing.T, ctx *ir.Context, passName, options string) ir.Operation {
	t.Helper()
	attrs := []ir.NamedAttribute{
		ir.Named(ctx, "pass_name", ir.StringAttr(ctx, passName)),
	}
	if options != "" {
		attrs = append(attrs, ir.Named(ctx, "options", ir.StringAttr(ctx, options)))
	}
	op, err := ir.NewOperationBuilder("transform.apply_registered_pass", ir.UnknownLocation(ctx)).
		AddAttributes(attrs...).
		Build()
	if err != nil {
		t.Fatalf("building apply_registered_pass: %v", err)
	}
	return op
}

func printStep(t *testing.T, ctx *ir.Context) ir.Operation {
	t.Helper()
	op, err := ir.NewOperationBuilder("transform.print", ir.UnknownLocation(ctx)).Build()
	if err != nil {
		t.Fatalf("building print: %v", err)
	}
	return op
}

// scriptModule wraps the operations into a fresh module.
func scriptModule(t *testing.T, ctx *ir.Context, ops ...ir.Operation) ir.Module {
	t.Helper()
	m := ir.NewModule(ir.UnknownLocation(ctx))
	for _, op := range ops {
		m.Append(op)
	}
	return m
}

// deadConstPayload builds a module with one function whose body holds a
// dead constant in front of an empty return.
func deadConstPayload(t *testing.T, ctx *ir.Context) (ir.Module, ir.Operation) {
	t.Helper()
	m := ir.NewModule(ir.UnknownLocation(ctx))
	block := ir.NewBlock(ctx, nil)
	dead := constOp(t, ctx, 7)
	block.AppendOperation(dead)
	block.AppendOperation(returnOp(t, ctx))
	funcWithBody(t, m, "f", block, false)
	return m, dead
}

func TestApplyNamedSequenceRunsRegisteredPass(t *testing.T) {
	pass.RegisterAll()
	ctx := testContext()
	payload, dead := deadConstPayload(t, ctx)

	seq := namedSequence(t, ctx, "main", passStep(t, ctx, "canonicalize", ""))
	script := scriptModule(t, ctx, seq)

	opts := NewOptions().
		EnableExpensiveChecks(true).
		EnforceSingleTopLevelTransformOp(true)
	defer opts.Close()

	if err := ApplyNamedSequence(payload.AsOperation(), seq, script.AsOperation(), opts); err != nil {
		t.Fatalf("ApplyNamedSequence: %v", err)
	}
	if dead.Valid() {
		t.Fatalf("canonicalize never ran: dead constant survived")
	}
}

func TestApplyNamedSequencePassOptions(t *testing.T) {
	pass.RegisterAll()
	ctx := testContext()
	payload, dead := deadConstPayload(t, ctx)

	seq := namedSequence(t, ctx, "main", passStep(t, ctx, "canonicalize", "max-iterations=1"))
	script := scriptModule(t, ctx, seq)

	opts := NewOptions()
	defer opts.Close()

	if err := ApplyNamedSequence(payload.AsOperation(), seq, script.AsOperation(), opts); err != nil {
		t.Fatalf("ApplyNamedSequence: %v", err)
	}
	if dead.Valid() {
		t.Fatalf("canonicalize never ran: dead constant survived")
	}
}

func TestApplyNamedSequenceBadPassOptions(t *testing.T) {
	pass.RegisterAll()
	ctx := testContext()
	payload, _ := deadConstPayload(t, ctx)

	seq := namedSequence(t, ctx, "main", passStep(t, ctx, "canonicalize", "max-iterations=many"))
	script := scriptModule(t, ctx, seq)

	opts := NewOptions()
	defer opts.Close()

	err := ApplyNamedSequence(payload.AsOperation(), seq, script.AsOperation(), opts)
	if !errors.Is(err, errors.TransformFailed()) {
		t.Fatalf("error = %v, want transform failure", err)
	}
}

func TestApplyNamedSequenceWrongRoot(t *testing.T) {
	ctx := testContext()
	payload, _ := deadConstPayload(t, ctx)

	root := printStep(t, ctx)
	script := scriptModule(t, ctx, root)

	opts := NewOptions()
	defer opts.Close()

	err := ApplyNamedSequence(payload.AsOperation(), root, script.AsOperation(), opts)
	if !errors.Is(err, errors.TransformFailed()) {
		t.Fatalf("error = %v, want transform failure", err)
	}
}

func TestApplyNamedSequenceRootOutsideModule(t *testing.T) {
	ctx := testContext()
	payload, _ := deadConstPayload(t, ctx)

	seq := namedSequence(t, ctx, "main", printStep(t, ctx))
	scriptModule(t, ctx, seq) // seq lives here
	other := scriptModule(t, ctx)

	opts := NewOptions()
	defer opts.Close()

	err := ApplyNamedSequence(payload.AsOperation(), seq, other.AsOperation(), opts)
	if !errors.Is(err, errors.TransformFailed()) {
		t.Fatalf("error = %v, want transform failure", err)
	}
}

func TestApplyNamedSequenceSingleTopLevelEnforcement(t *testing.T) {
	ctx := testContext()
	payload, _ := deadConstPayload(t, ctx)

	seqA := namedSequence(t, ctx, "a", printStep(t, ctx))
	seqB := namedSequence(t, ctx, "b")
	script := scriptModule(t, ctx, seqA, seqB)

	strict := NewOptions().EnforceSingleTopLevelTransformOp(true)
	defer strict.Close()
	err := ApplyNamedSequence(payload.AsOperation(), seqA, script.AsOperation(), strict)
	if !errors.Is(err, errors.TransformFailed()) {
		t.Fatalf("error = %v, want transform failure", err)
	}

	relaxed := NewOptions().EnforceSingleTopLevelTransformOp(false)
	defer relaxed.Close()
	if err := ApplyNamedSequence(payload.AsOperation(), seqA, script.AsOperation(), relaxed); err != nil {
		t.Fatalf("ApplyNamedSequence without enforcement: %v", err)
	}
}

func TestApplyNamedSequenceMissingApplier(t *testing.T) {
	ctx := testContext()
	ctx.SetAllowUnregisteredDialects(true)
	payload, _ := deadConstPayload(t, ctx)

	step, err := ir.NewOperationBuilder("transform.mystery", ir.UnknownLocation(ctx)).Build()
	if err != nil {
		t.Fatalf("building step: %v", err)
	}
	seq := namedSequence(t, ctx, "main", step)
	script := scriptModule(t, ctx, seq)

	opts := NewOptions()
	defer opts.Close()

	got := ApplyNamedSequence(payload.AsOperation(), seq, script.AsOperation(), opts)
	if !errors.Is(got, errors.TransformFailed()) {
		t.Fatalf("error = %v, want transform failure", got)
	}
}

func TestApplyNamedSequenceUnknownPass(t *testing.T) {
	ctx := testContext()
	payload, _ := deadConstPayload(t, ctx)

	seq := namedSequence(t, ctx, "main", passStep(t, ctx, "no-such-pass", ""))
	script := scriptModule(t, ctx, seq)

	opts := NewOptions()
	defer opts.Close()

	err := ApplyNamedSequence(payload.AsOperation(), seq, script.AsOperation(), opts)
	if !errors.Is(err, errors.TransformFailed()) {
		t.Fatalf("error = %v, want transform failure", err)
	}
}

func TestApplyNamedSequenceEmptyBody(t *testing.T) {
	ctx := testContext()
	payload, _ := deadConstPayload(t, ctx)

	seq := namedSequence(t, ctx, "main")
	script := scriptModule(t, ctx, seq)

	opts := NewOptions()
	defer opts.Close()

	if err := ApplyNamedSequence(payload.AsOperation(), seq, script.AsOperation(), opts); err != nil {
		t.Fatalf("ApplyNamedSequence on yield-only body: %v", err)
	}
}

func TestRegisterApplierExtendsTheTable(t *testing.T) {
	ctx := testContext()
	ctx.SetAllowUnregisteredDialects(true)
	payload, _ := deadConstPayload(t, ctx)

	ran := false
	if err := RegisterApplier("transform.test_mark", func(actx *ApplyContext, op ir.Operation) error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("RegisterApplier: %v", err)
	}
	if err := RegisterApplier("transform.test_mark", nil); err == nil {
		t.Fatalf("duplicate RegisterApplier succeeded")
	}

	step, err := ir.NewOperationBuilder("transform.test_mark", ir.UnknownLocation(ctx)).Build()
	if err != nil {
		t.Fatalf("building step: %v", err)
	}
	seq := namedSequence(t, ctx, "main", step)
	script := scriptModule(t, ctx, seq)

	opts := NewOptions()
	defer opts.Close()

	if err := ApplyNamedSequence(payload.AsOperation(), seq, script.AsOperation(), opts); err != nil {
		t.Fatalf("ApplyNamedSequence: %v", err)
	}
	if !ran {
		t.Fatalf("registered applier never ran")
	}
}

func TestRegisterApplierRejectsBuiltinNames(t *testing.T) {
	err := RegisterApplier("transform.yield", func(*ApplyContext, ir.Operation) error { return nil })
	if err == nil {
		t.Fatalf("RegisterApplier accepted a built-in name")
	}
}

func TestExpensiveChecksCatchCorruptingApplier(t *testing.T) {
	ctx := testContext()
	ctx.SetAllowUnregisteredDialects(true)

	// The applier destroys the constant feeding the return, leaving a
	// dangling operand behind.
	if err := RegisterApplier("transform.test_corrupt", func(actx *ApplyContext, op ir.Operation) error {
		actx.Payload.Walk(func(inner ir.Operation) bool {
			if inner.Name() == "arith.constant" {
				inner.Destroy()
				return false
			}
			return true
		})
		return nil
	}); err != nil {
		t.Fatalf("RegisterApplier: %v", err)
	}

	usedConstPayload := func() ir.Module {
		m := ir.NewModule(ir.UnknownLocation(ctx))
		block := ir.NewBlock(ctx, nil)
		c := constOp(t, ctx, 1)
		block.AppendOperation(c)
		v, err := c.Result(0)
		if err != nil {
			t.Fatalf("Result(0): %v", err)
		}
		block.AppendOperation(returnOp(t, ctx, v))
		funcWithBody(t, m, "f", block, false)
		return m
	}

	buildScript := func() (ir.Operation, ir.Module) {
		step, err := ir.NewOperationBuilder("transform.test_corrupt", ir.UnknownLocation(ctx)).Build()
		if err != nil {
			t.Fatalf("building step: %v", err)
		}
		seq := namedSequence(t, ctx, "main", step)
		return seq, scriptModule(t, ctx, seq)
	}

	checked := NewOptions().EnableExpensiveChecks(true)
	defer checked.Close()
	seq, script := buildScript()
	err := ApplyNamedSequence(usedConstPayload().AsOperation(), seq, script.AsOperation(), checked)
	if !errors.Is(err, errors.TransformFailed()) {
		t.Fatalf("error = %v, want transform failure from the payload checks", err)
	}

	unchecked := NewOptions().EnableExpensiveChecks(false)
	defer unchecked.Close()
	seq, script = buildScript()
	if err := ApplyNamedSequence(usedConstPayload().AsOperation(), seq, script.AsOperation(), unchecked); err != nil {
		t.Fatalf("ApplyNamedSequence without checks: %v", err)
	}
}

func TestTransformPrintRuns(t *testing.T) {
	ctx := testContext()
	payload, _ := deadConstPayload(t, ctx)

	seq := namedSequence(t, ctx, "main", printStep(t, ctx))
	script := scriptModule(t, ctx, seq)

	opts := NewOptions()
	defer opts.Close()

	if err := ApplyNamedSequence(payload.AsOperation(), seq, script.AsOperation(), opts); err != nil {
		t.Fatalf("ApplyNamedSequence: %v", err)
	}
}

func TestRegisteredAppliersIncludesBuiltins(t *testing.T) {
	names := RegisteredAppliers()
	want := map[string]bool{
		"transform.yield":                 false,
		"transform.apply_registered_pass": false,
		"transform.print":                 false,
	}
	for _, name := range names {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("RegisteredAppliers() missing %q: %v", name, names)
		}
	}
	for i := 1; i < len(names); i++ {
		if names[i] < names[i-1] {
			t.Fatalf("RegisteredAppliers() not sorted: %v", names)
		}
	}
}
