package pass

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/ir-core/errors"
	"github.com/wippyai/ir-core/ir"
)

// recordingPass appends name@anchor to a shared log on every run.
type recordingPass struct {
	name string
	log  *[]string
	fail bool
}

func (p *recordingPass) Name() string { return p.name }

func (p *recordingPass) Run(op ir.Operation) error {
	*p.log = append(*p.log, p.name+"@"+op.Name())
	if p.fail {
		return stderrors.New("boom")
	}
	return nil
}

func TestManagerRunOrder(t *testing.T) {
	ctx := testContext()
	m := ir.NewModule(ir.UnknownLocation(ctx))
	block := ir.NewBlock(ctx, nil)
	block.AppendOperation(returnOp(t, ctx))
	funcWithBody(t, m, "f", block, false)

	var log []string
	pm := NewManager("builtin.module")
	pm.AddPass(&recordingPass{name: "first", log: &log})
	pm.AddPass(&recordingPass{name: "second", log: &log})
	pm.Nest("func.func").AddPass(&recordingPass{name: "inner", log: &log})

	if err := pm.Run(m.AsOperation()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"first@builtin.module", "second@builtin.module", "inner@func.func"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
}

func TestManagerAnchorMismatch(t *testing.T) {
	ctx := testContext()
	m := ir.NewModule(ir.UnknownLocation(ctx))

	pm := NewManager("func.func")
	err := pm.Run(m.AsOperation())
	if err == nil {
		t.Fatalf("Run accepted a mismatched anchor")
	}
	if !strings.Contains(err.Error(), "does not match pipeline anchor") {
		t.Fatalf("error = %v", err)
	}
}

func TestManagerEmptyAnchorMatchesAnything(t *testing.T) {
	ctx := testContext()
	m := ir.NewModule(ir.UnknownLocation(ctx))

	var log []string
	pm := NewManager("")
	pm.AddPass(&recordingPass{name: "p", log: &log})
	if err := pm.Run(m.AsOperation()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("log = %v", log)
	}
}

func TestManagerNestedRunsPerMatchingChild(t *testing.T) {
	ctx := testContext()
	m := ir.NewModule(ir.UnknownLocation(ctx))
	for _, name := range []string{"a", "b"} {
		block := ir.NewBlock(ctx, nil)
		block.AppendOperation(returnOp(t, ctx))
		funcWithBody(t, m, name, block, false)
	}

	var log []string
	pm := NewManager("builtin.module")
	pm.Nest("func.func").AddPass(&recordingPass{name: "inner", log: &log})
	if err := pm.Run(m.AsOperation()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("nested pass ran %d times, want 2: %v", len(log), log)
	}
}

func TestManagerPassFailure(t *testing.T) {
	ctx := testContext()
	m := ir.NewModule(ir.UnknownLocation(ctx))

	var log []string
	pm := NewManager("builtin.module")
	pm.AddPass(&recordingPass{name: "bad", log: &log, fail: true})
	pm.AddPass(&recordingPass{name: "after", log: &log})

	err := pm.Run(m.AsOperation())
	if err == nil {
		t.Fatalf("Run succeeded with a failing pass")
	}
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindPassFailed {
		t.Fatalf("error = %v, want pass failure", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error lost the cause: %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("passes after the failure still ran: %v", log)
	}
}

func TestManagerAccessors(t *testing.T) {
	pm := NewManager("builtin.module")
	if pm.Anchor() != "builtin.module" {
		t.Fatalf("Anchor() = %q", pm.Anchor())
	}
	var log []string
	pm.AddPass(&recordingPass{name: "p", log: &log})
	child := pm.Nest("func.func")
	if len(pm.Passes()) != 1 || len(pm.Nested()) != 1 {
		t.Fatalf("Passes()/Nested() = %d/%d", len(pm.Passes()), len(pm.Nested()))
	}
	if pm.Nested()[0] != child {
		t.Fatalf("Nested() lost the child manager")
	}
}
