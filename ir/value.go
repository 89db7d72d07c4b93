package ir

import "strconv"

// Value references an SSA value: either a block argument or an operation
// result. Values are never allocated on their own; a Value is a typed
// reference into its owner, and stays comparable with ==. The zero Value
// is invalid.
type Value struct {
	ctx *Context
	ref valueRef
}

// Valid reports whether the handle references a value whose owner still
// exists.
func (v Value) Valid() bool {
	if v.ctx == nil || v.ref.kind == 0 {
		return false
	}
	switch v.ref.kind {
	case refOpResult:
		return v.ctx.arena.op(opID(v.ref.owner)).valid
	case refBlockArg:
		return v.ctx.arena.block(blockID(v.ref.owner)).valid
	}
	return false
}

// Context returns the owning context.
func (v Value) Context() *Context {
	return v.ctx
}

// IsOperationResult reports whether the value is an operation result.
func (v Value) IsOperationResult() bool {
	return v.ref.kind == refOpResult
}

// IsBlockArgument reports whether the value is a block argument.
func (v Value) IsBlockArgument() bool {
	return v.ref.kind == refBlockArg
}

// Index returns the result number or argument number of the value within
// its owner.
func (v Value) Index() int {
	v.mustRef()
	return int(v.ref.index)
}

// OwnerOperation returns the operation that produces the value, when the
// value is an operation result.
func (v Value) OwnerOperation() (Operation, bool) {
	if v.ref.kind != refOpResult {
		return Operation{}, false
	}
	return Operation{ctx: v.ctx, id: opID(v.ref.owner)}, true
}

// OwnerBlock returns the block that declares the value, when the value
// is a block argument.
func (v Value) OwnerBlock() (Block, bool) {
	if v.ref.kind != refBlockArg {
		return Block{}, false
	}
	return Block{ctx: v.ctx, id: blockID(v.ref.owner)}, true
}

// Type returns the type of the value.
func (v Value) Type() Type {
	v.mustRef()
	switch v.ref.kind {
	case refOpResult:
		d := v.ctx.arena.mustOp(opID(v.ref.owner))
		return Type{ctx: v.ctx, id: d.resultTypes[v.ref.index]}
	case refBlockArg:
		d := v.ctx.arena.mustBlock(blockID(v.ref.owner))
		return Type{ctx: v.ctx, id: d.argTypes[v.ref.index]}
	}
	panic("ir: unreachable value kind")
}

// String renders the value for debugging, e.g. "%result2(arith.addi)".
func (v Value) String() string {
	if v.ctx == nil || v.ref.kind == 0 {
		return "<<invalid value>>"
	}
	switch v.ref.kind {
	case refOpResult:
		d := v.ctx.arena.op(opID(v.ref.owner))
		return "%result" + strconv.FormatUint(uint64(v.ref.index), 10) + "(" + d.name + ")"
	case refBlockArg:
		return "%arg" + strconv.FormatUint(uint64(v.ref.index), 10)
	}
	return "<<invalid value>>"
}

func (v Value) mustRef() {
	if v.ctx == nil || v.ref.kind == 0 {
		panic("ir: use of zero Value")
	}
}
