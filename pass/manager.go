package pass

import (
	"github.com/wippyai/ir-core/errors"
	"github.com/wippyai/ir-core/ir"
	"go.uber.org/zap"
)

// Manager schedules passes over operations of one anchor name and holds
// nested managers for operations inside them. An empty anchor matches
// any operation.
type Manager struct {
	anchor string
	passes []Pass
	nested []*Manager
}

// NewManager creates a manager anchored at the operation name, usually
// "builtin.module" for a top-level pipeline.
func NewManager(anchor string) *Manager {
	return &Manager{anchor: anchor}
}

// Anchor returns the operation name the manager runs on.
func (m *Manager) Anchor() string {
	return m.anchor
}

// AddPass appends a pass to the manager's sequence.
func (m *Manager) AddPass(p Pass) *Manager {
	m.passes = append(m.passes, p)
	return m
}

// Nest creates a manager for operations of the given name found directly
// inside this manager's anchor, and returns it. Each call creates a new
// nested manager; their order is the run order.
func (m *Manager) Nest(anchor string) *Manager {
	child := NewManager(anchor)
	m.nested = append(m.nested, child)
	return child
}

// Passes returns the scheduled passes in order.
func (m *Manager) Passes() []Pass {
	out := make([]Pass, len(m.passes))
	copy(out, m.passes)
	return out
}

// Nested returns the nested managers in order.
func (m *Manager) Nested() []*Manager {
	out := make([]*Manager, len(m.nested))
	copy(out, m.nested)
	return out
}

// Run executes the manager on the operation: first its own passes in
// order, then every nested manager on the matching direct children. The
// operation name must match the anchor. The first failing pass aborts
// the run; the tree keeps whatever edits completed before the failure.
func (m *Manager) Run(op ir.Operation) error {
	if m.anchor != "" && op.Name() != m.anchor {
		return errors.InvalidInput(errors.PhasePipeline,
			"operation '"+op.Name()+"' does not match pipeline anchor '"+m.anchor+"'")
	}
	for _, p := range m.passes {
		Logger().Debug("running pass",
			zap.String("pass", p.Name()),
			zap.String("anchor", op.Name()))
		if err := p.Run(op); err != nil {
			return errors.PassFailed(p.Name(), err)
		}
	}
	for _, child := range m.nested {
		for _, region := range op.Regions() {
			for _, block := range region.Blocks() {
				for _, inner := range block.Operations() {
					if child.anchor != "" && inner.Name() != child.anchor {
						continue
					}
					if err := child.Run(inner); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
