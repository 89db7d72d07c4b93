package pass

import (
	"strconv"
	"strings"

	"github.com/wippyai/ir-core/errors"
	"github.com/wippyai/ir-core/ir"
	"go.uber.org/zap"
)

const defaultCanonicalizeIterations = 10

// canonicalizePass removes pure operations whose results are unused
// anywhere below the anchor, iterating until a fixpoint or the iteration
// cap is reached.
type canonicalizePass struct {
	maxIterations int
}

func (p *canonicalizePass) Name() string { return "canonicalize" }

func (p *canonicalizePass) SetOptions(options string) error {
	for _, field := range strings.Split(options, " ") {
		if field == "" {
			continue
		}
		key, value, found := strings.Cut(field, "=")
		if !found {
			return errors.InvalidInput(errors.PhasePipeline, "malformed option '"+field+"'")
		}
		switch key {
		case "max-iterations":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return errors.InvalidInput(errors.PhasePipeline, "max-iterations must be a positive integer")
			}
			p.maxIterations = n
		default:
			return errors.InvalidInput(errors.PhasePipeline, "unknown canonicalize option '"+key+"'")
		}
	}
	return nil
}

func (p *canonicalizePass) Run(root ir.Operation) error {
	for i := 0; i < p.maxIterations; i++ {
		if !removeDeadOnce(root) {
			return nil
		}
	}
	return nil
}

// removeDeadOnce destroys every dead pure operation below root and
// reports whether anything was removed.
func removeDeadOnce(root ir.Operation) bool {
	uses := make(map[ir.Value]int)
	root.Walk(func(op ir.Operation) bool {
		for _, v := range op.Operands() {
			uses[v]++
		}
		return true
	})

	var dead []ir.Operation
	root.Walk(func(op ir.Operation) bool {
		if op == root {
			return true
		}
		schema, ok := op.Context().OperationSchema(op.Name())
		if !ok || !schema.Pure || schema.Terminator {
			return true
		}
		for _, r := range op.Results() {
			if uses[r] > 0 {
				return true
			}
		}
		dead = append(dead, op)
		return true
	})

	removed := 0
	for _, op := range dead {
		// A dead operation nested in another dead operation is gone by
		// the time we reach it.
		if op.Valid() {
			op.Destroy()
			removed++
		}
	}
	if removed > 0 {
		Logger().Debug("canonicalize removed dead operations", zap.Int("count", removed))
	}
	return removed > 0
}

// csePass deduplicates pure operations within each block: a later
// operation with the same name, operands, attributes and result types as
// an earlier one is removed and its uses are redirected.
type csePass struct{}

func (p *csePass) Name() string { return "cse" }

func (p *csePass) Run(root ir.Operation) error {
	valueNums := make(map[ir.Value]int)
	attrNums := make(map[ir.Attribute]int)
	root.Walk(func(op ir.Operation) bool {
		for _, region := range op.Regions() {
			for _, block := range region.Blocks() {
				cseBlock(root, block, valueNums, attrNums)
			}
		}
		return true
	})
	return nil
}

func cseBlock(scope ir.Operation, block ir.Block, valueNums map[ir.Value]int, attrNums map[ir.Attribute]int) {
	seen := make(map[string]ir.Operation)
	for _, op := range block.Operations() {
		schema, ok := op.Context().OperationSchema(op.Name())
		if !ok || !schema.Pure || op.RegionCount() > 0 || op.SuccessorCount() > 0 {
			continue
		}
		key := fingerprint(op, valueNums, attrNums)
		prev, dup := seen[key]
		if !dup {
			seen[key] = op
			continue
		}
		for i := 0; i < op.ResultCount(); i++ {
			oldV, _ := op.Result(i)
			newV, _ := prev.Result(i)
			ir.ReplaceAllUsesWithin(scope, oldV, newV)
		}
		op.Destroy()
		Logger().Debug("cse removed duplicate", zap.String("op", prev.Name()))
	}
}

// fingerprint builds a structural key for an operation. Interned handles
// are numbered on first sight, so equal content always produces equal
// keys within one pass run.
func fingerprint(op ir.Operation, valueNums map[ir.Value]int, attrNums map[ir.Attribute]int) string {
	var b strings.Builder
	b.WriteString(op.Name())
	for _, v := range op.Operands() {
		n, ok := valueNums[v]
		if !ok {
			n = len(valueNums)
			valueNums[v] = n
		}
		b.WriteString("|v")
		b.WriteString(strconv.Itoa(n))
	}
	for _, na := range op.Attributes() {
		n, ok := attrNums[na.Value]
		if !ok {
			n = len(attrNums)
			attrNums[na.Value] = n
		}
		b.WriteString("|a")
		b.WriteString(na.Name.Value())
		b.WriteString("=")
		b.WriteString(strconv.Itoa(n))
	}
	for _, r := range op.Results() {
		b.WriteString("|t")
		b.WriteString(r.Type().String())
	}
	return b.String()
}

// symbolDCEPass removes private symbols that are never referenced,
// repeating until no more can be removed so that chains of dead
// helpers disappear in one run.
type symbolDCEPass struct{}

func (p *symbolDCEPass) Name() string { return "symbol-dce" }

func (p *symbolDCEPass) Run(root ir.Operation) error {
	for {
		removed := false
		for _, region := range root.Regions() {
			for _, block := range region.Blocks() {
				for _, op := range block.Operations() {
					name, ok := ir.SymbolName(op)
					if !ok || !ir.IsPrivateSymbol(op) {
						continue
					}
					if ir.SymbolUses(root, name) > 0 {
						continue
					}
					op.Destroy()
					removed = true
					Logger().Debug("symbol-dce removed symbol", zap.String("symbol", name))
				}
			}
		}
		if !removed {
			return nil
		}
	}
}

// topologicalSortPass reorders the operations of every block below the
// anchor so that producers precede their in-block consumers. Blocks that
// are already ordered come out unchanged.
type topologicalSortPass struct{}

func (p *topologicalSortPass) Name() string { return "topological-sort" }

func (p *topologicalSortPass) Run(root ir.Operation) error {
	var failed error
	root.Walk(func(op ir.Operation) bool {
		for _, region := range op.Regions() {
			for _, block := range region.Blocks() {
				if err := sortBlock(block); err != nil {
					failed = err
					return false
				}
			}
		}
		return true
	})
	return failed
}

func sortBlock(block ir.Block) error {
	ops := block.Operations()
	n := len(ops)
	if n < 2 {
		return nil
	}

	// A trailing terminator keeps its place; only the body is sorted.
	body := ops
	var terminator []ir.Operation
	if _, ok := block.Terminator(); ok {
		body = ops[:n-1]
		terminator = ops[n-1:]
	}

	producer := make(map[ir.Value]int, len(body))
	for i, op := range body {
		for _, r := range op.Results() {
			producer[r] = i
		}
	}
	deps := make([][]int, len(body))
	for i, op := range body {
		for _, v := range op.Operands() {
			if j, ok := producer[v]; ok && j != i {
				deps[i] = append(deps[i], j)
			}
		}
	}

	emitted := make([]bool, len(body))
	order := make([]ir.Operation, 0, n)
	for len(order) < len(body) {
		progressed := false
		for i, op := range body {
			if emitted[i] {
				continue
			}
			ready := true
			for _, j := range deps[i] {
				if !emitted[j] {
					ready = false
					break
				}
			}
			if ready {
				emitted[i] = true
				order = append(order, op)
				progressed = true
			}
		}
		if !progressed {
			return errors.InvalidInput(errors.PhasePipeline, "use-def cycle in block")
		}
	}
	order = append(order, terminator...)
	return block.ReorderOperations(order)
}
