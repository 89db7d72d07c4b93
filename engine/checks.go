package engine

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/wippyai/ir-core/ir"
)

// checkPayload verifies the structural consistency of a payload tree.
// It runs before and after every transform step when expensive checks
// are enabled and collects every problem it finds rather than stopping
// at the first one.
func checkPayload(root ir.Operation) error {
	if !root.Valid() {
		return fmt.Errorf("payload root was destroyed")
	}

	var errs error
	root.Walk(func(op ir.Operation) bool {
		errs = multierr.Append(errs, checkOperation(op))
		return true
	})
	return errs
}

func checkOperation(op ir.Operation) error {
	var errs error

	for i, v := range op.Operands() {
		if !v.Valid() {
			errs = multierr.Append(errs, fmt.Errorf(
				"operand %d of %s references a destroyed owner", i, op))
		}
	}

	errs = multierr.Append(errs, checkSuccessors(op))
	errs = multierr.Append(errs, checkSegmentSizes(op))

	for ri, r := range op.Regions() {
		errs = multierr.Append(errs, checkRegion(op, ri, r))
	}
	return errs
}

// checkSuccessors verifies that every successor of op is a live block
// in the same region as the block holding op. Branching across region
// boundaries has no meaning and breaks region-local processing.
func checkSuccessors(op ir.Operation) error {
	parent, ok := op.ParentBlock()
	if !ok {
		if op.SuccessorCount() > 0 {
			return fmt.Errorf("detached %s has successors", op)
		}
		return nil
	}
	home, _ := parent.ParentRegion()

	var errs error
	for i, succ := range op.Successors() {
		if !succ.Valid() {
			errs = multierr.Append(errs, fmt.Errorf(
				"successor %d of %s was destroyed", i, op))
			continue
		}
		region, ok := succ.ParentRegion()
		if !ok || region != home {
			errs = multierr.Append(errs, fmt.Errorf(
				"successor %d of %s is outside the operation's region", i, op))
		}
	}
	return errs
}

// checkSegmentSizes verifies that a recorded operand segmentation still
// matches the operand list. Structural edits never touch the attribute,
// so a mismatch means an applier corrupted the operation.
func checkSegmentSizes(op ir.Operation) error {
	attr, ok := op.Attribute(ir.OperandSegmentSizesAttrName)
	if !ok {
		return nil
	}
	sizes, ok := attr.AsDenseI32Array()
	if !ok {
		return fmt.Errorf("%s attribute of %s is not a dense i32 array",
			ir.OperandSegmentSizesAttrName, op)
	}

	total := 0
	for i, n := range sizes {
		if n < 0 {
			return fmt.Errorf("segment %d of %s has negative size %d", i, op, n)
		}
		total += int(n)
	}
	if total != op.OperandCount() {
		return fmt.Errorf("segment sizes of %s sum to %d, have %d operands",
			op, total, op.OperandCount())
	}
	return nil
}

func checkRegion(op ir.Operation, ri int, r ir.Region) error {
	var errs error
	blocks := r.Blocks()
	for bi, b := range blocks {
		if len(blocks) > 1 && b.OperationCount() == 0 {
			errs = multierr.Append(errs, fmt.Errorf(
				"block %d in region %d of %s is empty", bi, ri, op))
		}
		errs = multierr.Append(errs, checkTerminatorPlacement(op, ri, bi, b))
	}
	return errs
}

// checkTerminatorPlacement verifies that no operation registered as a
// terminator sits in a non-final position of its block. Unregistered
// operations are skipped since nothing is known about them.
func checkTerminatorPlacement(op ir.Operation, ri, bi int, b ir.Block) error {
	ops := b.Operations()
	for i, inner := range ops[:max(len(ops)-1, 0)] {
		schema, ok := inner.Context().OperationSchema(inner.Name())
		if ok && schema.Terminator {
			return fmt.Errorf(
				"terminator %s at position %d of block %d in region %d of %s is not last",
				inner, i, bi, ri, op)
		}
	}
	return nil
}
