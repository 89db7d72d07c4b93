package ir

import (
	"github.com/wippyai/ir-core/errors"
)

// BlockArg declares one block argument: its type and the location it
// came from.
type BlockArg struct {
	Type Type
	Loc  Location
}

// Block is a handle to a sequence of operations with a list of typed
// arguments. A block is created detached, transferred into exactly one
// region, and owns the operations appended to it.
type Block struct {
	ctx *Context
	id  blockID
}

// NewBlock creates a detached block with the given arguments.
func NewBlock(ctx *Context, args []BlockArg) Block {
	d := blockData{valid: true}
	for _, a := range args {
		if a.Type.ctx != ctx || a.Loc.ctx != ctx {
			panic("ir: block argument belongs to a different context")
		}
		d.argTypes = append(d.argTypes, a.Type.id)
		d.argLocs = append(d.argLocs, a.Loc.id)
	}
	id := ctx.arena.newBlock(d)
	return Block{ctx: ctx, id: id}
}

// Valid reports whether the block still exists.
func (b Block) Valid() bool {
	return b.ctx != nil && b.id != 0 && b.ctx.arena.block(b.id).valid
}

// Context returns the owning context.
func (b Block) Context() *Context {
	return b.ctx
}

// AddArgument appends an argument to the block and returns its value.
func (b Block) AddArgument(t Type, loc Location) Value {
	bd := b.must()
	if t.ctx != b.ctx || loc.ctx != b.ctx {
		panic("ir: block argument belongs to a different context")
	}
	bd.argTypes = append(bd.argTypes, t.id)
	bd.argLocs = append(bd.argLocs, loc.id)
	return Value{ctx: b.ctx, ref: valueRef{kind: refBlockArg, owner: uint32(b.id), index: uint32(len(bd.argTypes) - 1)}}
}

// ArgumentCount returns the number of block arguments.
func (b Block) ArgumentCount() int {
	return len(b.must().argTypes)
}

// Argument returns the i-th block argument as a value.
func (b Block) Argument(i int) (Value, error) {
	bd := b.must()
	if i < 0 || i >= len(bd.argTypes) {
		return Value{}, errors.OutOfBounds(errors.PhaseIR, "block argument", i, len(bd.argTypes))
	}
	return Value{ctx: b.ctx, ref: valueRef{kind: refBlockArg, owner: uint32(b.id), index: uint32(i)}}, nil
}

// Arguments returns all block arguments in order.
func (b Block) Arguments() []Value {
	bd := b.must()
	args := make([]Value, len(bd.argTypes))
	for i := range bd.argTypes {
		args[i] = Value{ctx: b.ctx, ref: valueRef{kind: refBlockArg, owner: uint32(b.id), index: uint32(i)}}
	}
	return args
}

// AppendOperation appends an operation to the block, taking ownership.
// An operation already owned by a block cannot be appended again.
func (b Block) AppendOperation(op Operation) {
	bd := b.must()
	od := op.must()
	if od.owner != 0 {
		panic("ir: operation already owned by a block")
	}
	od.owner = b.id
	bd.ops = append(bd.ops, op.id)
}

// InsertOperation inserts an operation at the given position.
func (b Block) InsertOperation(pos int, op Operation) error {
	bd := b.must()
	od := op.must()
	if pos < 0 || pos > len(bd.ops) {
		return errors.OutOfBounds(errors.PhaseIR, "operation position", pos, len(bd.ops)+1)
	}
	if od.owner != 0 {
		panic("ir: operation already owned by a block")
	}
	od.owner = b.id
	bd.ops = append(bd.ops, 0)
	copy(bd.ops[pos+1:], bd.ops[pos:])
	bd.ops[pos] = op.id
	return nil
}

// Operations returns a snapshot of the operations in the block.
func (b Block) Operations() []Operation {
	bd := b.must()
	ops := make([]Operation, len(bd.ops))
	for i, id := range bd.ops {
		ops[i] = Operation{ctx: b.ctx, id: id}
	}
	return ops
}

// OperationCount returns the number of operations in the block.
func (b Block) OperationCount() int {
	return len(b.must().ops)
}

// FirstOperation returns the first operation of the block.
func (b Block) FirstOperation() (Operation, bool) {
	bd := b.must()
	if len(bd.ops) == 0 {
		return Operation{}, false
	}
	return Operation{ctx: b.ctx, id: bd.ops[0]}, true
}

// Terminator returns the last operation of the block if its schema marks
// it as a terminator.
func (b Block) Terminator() (Operation, bool) {
	bd := b.must()
	if len(bd.ops) == 0 {
		return Operation{}, false
	}
	last := Operation{ctx: b.ctx, id: bd.ops[len(bd.ops)-1]}
	s, ok := b.ctx.OperationSchema(last.Name())
	if !ok || !s.Terminator {
		return Operation{}, false
	}
	return last, true
}

// ParentRegion returns the region that owns the block.
func (b Block) ParentRegion() (Region, bool) {
	bd := b.must()
	if bd.owner == 0 {
		return Region{}, false
	}
	return Region{ctx: b.ctx, id: bd.owner}, true
}

// ReorderOperations replaces the operation order of the block. The new
// order must be a permutation of the operations currently in the block;
// ownership does not change.
func (b Block) ReorderOperations(ops []Operation) error {
	bd := b.must()
	if len(ops) != len(bd.ops) {
		return errors.InvalidInput(errors.PhaseIR, "reorder must keep the same operation set")
	}
	seen := make(map[opID]bool, len(ops))
	ids := make([]opID, len(ops))
	for i, op := range ops {
		od := op.must()
		if od.owner != b.id {
			return errors.InvalidInput(errors.PhaseIR, "reorder with operation from another block")
		}
		if seen[op.id] {
			return errors.InvalidInput(errors.PhaseIR, "reorder with duplicate operation")
		}
		seen[op.id] = true
		ids[i] = op.id
	}
	bd.ops = ids
	return nil
}

// removeOperation unlinks an operation from the block's list.
func (b Block) removeOperation(id opID) {
	bd := b.must()
	for i, o := range bd.ops {
		if o == id {
			bd.ops = append(bd.ops[:i], bd.ops[i+1:]...)
			return
		}
	}
}

func (b Block) must() *blockData {
	if b.ctx == nil || b.id == 0 {
		panic("ir: use of zero Block")
	}
	return b.ctx.arena.mustBlock(b.id)
}
