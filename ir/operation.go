package ir

import (
	"strconv"
	"strings"

	"github.com/wippyai/ir-core/errors"
)

// Operation is a handle to a built operation. Operations come out of an
// OperationBuilder fully formed; after that the accumulation surface is
// closed and only structural edits remain: Detach, Destroy, and use
// replacement through ReplaceAllUsesWithin.
type Operation struct {
	ctx *Context
	id  opID
}

// Valid reports whether the operation still exists.
func (o Operation) Valid() bool {
	return o.ctx != nil && o.id != 0 && o.ctx.arena.op(o.id).valid
}

// Context returns the owning context.
func (o Operation) Context() *Context {
	return o.ctx
}

// Name returns the fully qualified operation name, e.g. "arith.addi".
func (o Operation) Name() string {
	return o.must().name
}

// Dialect returns the dialect namespace part of the operation name.
func (o Operation) Dialect() string {
	return o.must().dialect
}

// Location returns the source location attached to the operation.
func (o Operation) Location() Location {
	return Location{ctx: o.ctx, id: o.must().location}
}

// ResultCount returns the number of results.
func (o Operation) ResultCount() int {
	return len(o.must().resultTypes)
}

// Result returns the i-th result as a value.
func (o Operation) Result(i int) (Value, error) {
	d := o.must()
	if i < 0 || i >= len(d.resultTypes) {
		return Value{}, errors.OutOfBounds(errors.PhaseIR, "operation result", i, len(d.resultTypes))
	}
	return Value{ctx: o.ctx, ref: valueRef{kind: refOpResult, owner: uint32(o.id), index: uint32(i)}}, nil
}

// Results returns all results in order.
func (o Operation) Results() []Value {
	d := o.must()
	results := make([]Value, len(d.resultTypes))
	for i := range d.resultTypes {
		results[i] = Value{ctx: o.ctx, ref: valueRef{kind: refOpResult, owner: uint32(o.id), index: uint32(i)}}
	}
	return results
}

// OperandCount returns the number of operands.
func (o Operation) OperandCount() int {
	return len(o.must().operands)
}

// Operand returns the i-th operand value.
func (o Operation) Operand(i int) (Value, error) {
	d := o.must()
	if i < 0 || i >= len(d.operands) {
		return Value{}, errors.OutOfBounds(errors.PhaseIR, "operand", i, len(d.operands))
	}
	return Value{ctx: o.ctx, ref: d.operands[i]}, nil
}

// Operands returns all operand values in order.
func (o Operation) Operands() []Value {
	d := o.must()
	operands := make([]Value, len(d.operands))
	for i, ref := range d.operands {
		operands[i] = Value{ctx: o.ctx, ref: ref}
	}
	return operands
}

// RegionCount returns the number of regions.
func (o Operation) RegionCount() int {
	return len(o.must().regions)
}

// Region returns the i-th region.
func (o Operation) Region(i int) (Region, error) {
	d := o.must()
	if i < 0 || i >= len(d.regions) {
		return Region{}, errors.OutOfBounds(errors.PhaseIR, "region", i, len(d.regions))
	}
	return Region{ctx: o.ctx, id: d.regions[i]}, nil
}

// Regions returns all regions in order.
func (o Operation) Regions() []Region {
	d := o.must()
	regions := make([]Region, len(d.regions))
	for i, id := range d.regions {
		regions[i] = Region{ctx: o.ctx, id: id}
	}
	return regions
}

// SuccessorCount returns the number of successor blocks.
func (o Operation) SuccessorCount() int {
	return len(o.must().successors)
}

// Successor returns the i-th successor block.
func (o Operation) Successor(i int) (Block, error) {
	d := o.must()
	if i < 0 || i >= len(d.successors) {
		return Block{}, errors.OutOfBounds(errors.PhaseIR, "successor", i, len(d.successors))
	}
	return Block{ctx: o.ctx, id: d.successors[i]}, nil
}

// Successors returns all successor blocks in order. Successors are
// non-owning edges; the blocks belong to their regions.
func (o Operation) Successors() []Block {
	d := o.must()
	succs := make([]Block, len(d.successors))
	for i, id := range d.successors {
		succs[i] = Block{ctx: o.ctx, id: id}
	}
	return succs
}

// AttributeCount returns the number of attached attributes.
func (o Operation) AttributeCount() int {
	return len(o.must().attrs)
}

// Attribute returns the attribute stored under the name.
func (o Operation) Attribute(name string) (Attribute, bool) {
	d := o.must()
	for _, na := range d.attrs {
		if o.ctx.interner.identValue(na.name) == name {
			return Attribute{ctx: o.ctx, id: na.value}, true
		}
	}
	return Attribute{}, false
}

// HasAttribute reports whether an attribute with the name is attached.
func (o Operation) HasAttribute(name string) bool {
	_, ok := o.Attribute(name)
	return ok
}

// Attributes returns all attached attributes in attachment order.
func (o Operation) Attributes() []NamedAttribute {
	d := o.must()
	attrs := make([]NamedAttribute, len(d.attrs))
	for i, na := range d.attrs {
		attrs[i] = NamedAttribute{
			Name:  Identifier{ctx: o.ctx, id: na.name},
			Value: Attribute{ctx: o.ctx, id: na.value},
		}
	}
	return attrs
}

// ParentBlock returns the block that owns the operation.
func (o Operation) ParentBlock() (Block, bool) {
	d := o.must()
	if d.owner == 0 {
		return Block{}, false
	}
	return Block{ctx: o.ctx, id: d.owner}, true
}

// ParentOperation returns the closest operation enclosing this one.
func (o Operation) ParentOperation() (Operation, bool) {
	b, ok := o.ParentBlock()
	if !ok {
		return Operation{}, false
	}
	r, ok := b.ParentRegion()
	if !ok {
		return Operation{}, false
	}
	return r.ParentOperation()
}

// Walk visits the operation and every operation nested in its regions in
// pre-order. Returning false from the callback stops the walk.
func (o Operation) Walk(fn func(Operation) bool) {
	o.walk(fn)
}

func (o Operation) walk(fn func(Operation) bool) bool {
	if !fn(o) {
		return false
	}
	d := o.must()
	for _, rid := range d.regions {
		rd := o.ctx.arena.mustRegion(rid)
		for _, bid := range rd.blocks {
			bd := o.ctx.arena.mustBlock(bid)
			for _, oid := range bd.ops {
				if !(Operation{ctx: o.ctx, id: oid}).walk(fn) {
					return false
				}
			}
		}
	}
	return true
}

// Detach removes the operation from its owning block without destroying
// it. A detached operation can be appended to another block.
func (o Operation) Detach() {
	d := o.must()
	if d.owner == 0 {
		return
	}
	Block{ctx: o.ctx, id: d.owner}.removeOperation(o.id)
	d.owner = 0
}

// Destroy detaches the operation and invalidates it together with every
// region, block and operation nested inside it. Handles to destroyed
// nodes fail loudly on next use.
func (o Operation) Destroy() {
	o.Detach()
	o.destroyTree()
}

func (o Operation) destroyTree() {
	d := o.must()
	for _, rid := range d.regions {
		rd := o.ctx.arena.mustRegion(rid)
		for _, bid := range rd.blocks {
			bd := o.ctx.arena.mustBlock(bid)
			for _, oid := range bd.ops {
				(Operation{ctx: o.ctx, id: oid}).destroyTree()
			}
			bd.ops = nil
			bd.valid = false
		}
		rd.blocks = nil
		rd.valid = false
	}
	d.valid = false
}

// Clone deep-copies the operation and everything nested inside it. The
// clone is detached. Operands and successors that point inside the
// cloned subtree are remapped to their copies; references to values and
// blocks outside the subtree are shared with the original.
func (o Operation) Clone() Operation {
	st := &cloneState{
		opMap:    make(map[opID]opID),
		blockMap: make(map[blockID]blockID),
	}
	id := o.cloneInto(st)
	st.remap(o.ctx)
	return Operation{ctx: o.ctx, id: id}
}

type cloneState struct {
	opMap    map[opID]opID
	blockMap map[blockID]blockID
	newOps   []opID
}

func (o Operation) cloneInto(st *cloneState) opID {
	d := o.must()
	nd := opData{
		name:     d.name,
		dialect:  d.dialect,
		location: d.location,
		owner:    0,
		valid:    true,
	}
	nd.resultTypes = append([]typeID(nil), d.resultTypes...)
	nd.operands = append([]valueRef(nil), d.operands...)
	nd.successors = append([]blockID(nil), d.successors...)
	nd.attrs = append([]namedAttr(nil), d.attrs...)

	a := o.ctx.arena
	for _, rid := range d.regions {
		rd := a.mustRegion(rid)
		nrid := a.newRegion(regionData{claimed: true, valid: true})

		// Create all blocks of the region first so that successor edges
		// inside the region can resolve to their copies.
		for _, bid := range rd.blocks {
			bd := a.mustBlock(bid)
			nbd := blockData{
				argTypes: append([]typeID(nil), bd.argTypes...),
				argLocs:  append([]locID(nil), bd.argLocs...),
				owner:    nrid,
				valid:    true,
			}
			nbid := a.newBlock(nbd)
			st.blockMap[bid] = nbid
			a.region(nrid).blocks = append(a.region(nrid).blocks, nbid)
		}
		for i, bid := range rd.blocks {
			bd := a.mustBlock(bid)
			nbid := a.region(nrid).blocks[i]
			for _, oid := range bd.ops {
				noid := (Operation{ctx: o.ctx, id: oid}).cloneInto(st)
				a.op(noid).owner = nbid
				a.block(nbid).ops = append(a.block(nbid).ops, noid)
			}
		}
		nd.regions = append(nd.regions, nrid)
	}

	id := a.newOp(nd)
	for _, rid := range nd.regions {
		a.region(rid).owner = id
	}
	st.opMap[o.id] = id
	st.newOps = append(st.newOps, id)
	return id
}

// remap rewrites operands and successors of all cloned operations so
// that references into the cloned subtree point at the copies.
func (st *cloneState) remap(ctx *Context) {
	a := ctx.arena
	for _, id := range st.newOps {
		d := a.op(id)
		for i, ref := range d.operands {
			switch ref.kind {
			case refOpResult:
				if nid, ok := st.opMap[opID(ref.owner)]; ok {
					d.operands[i].owner = uint32(nid)
				}
			case refBlockArg:
				if nid, ok := st.blockMap[blockID(ref.owner)]; ok {
					d.operands[i].owner = uint32(nid)
				}
			}
		}
		for i, succ := range d.successors {
			if nid, ok := st.blockMap[succ]; ok {
				d.successors[i] = nid
			}
		}
	}
}

// String renders a one-line summary of the operation for debugging and
// logs.
func (o Operation) String() string {
	if !o.Valid() {
		return "<<destroyed operation>>"
	}
	d := o.must()
	var b strings.Builder
	b.WriteString(d.name)
	b.WriteString(" (")
	b.WriteString(strconv.Itoa(len(d.operands)))
	b.WriteString(" operands, ")
	b.WriteString(strconv.Itoa(len(d.resultTypes)))
	b.WriteString(" results, ")
	b.WriteString(strconv.Itoa(len(d.regions)))
	b.WriteString(" regions, ")
	b.WriteString(strconv.Itoa(len(d.attrs)))
	b.WriteString(" attributes)")
	return b.String()
}

// setAttribute replaces or appends an attribute. Kept internal: the only
// sanctioned post-build attribute edit is symbol renaming.
func (o Operation) setAttribute(name string, value Attribute) {
	d := o.must()
	nid := o.ctx.interner.internIdent(name)
	for i, na := range d.attrs {
		if na.name == nid {
			d.attrs[i].value = value.id
			return
		}
	}
	d.attrs = append(d.attrs, namedAttr{name: nid, value: value.id})
}

// ReplaceAllUsesWithin walks the scope operation and rewrites every
// operand equal to from so that it references to instead. It returns
// the number of operands rewritten.
func ReplaceAllUsesWithin(scope Operation, from, to Value) int {
	if from.ctx != scope.ctx || to.ctx != scope.ctx {
		panic("ir: value belongs to a different context")
	}
	count := 0
	scope.Walk(func(op Operation) bool {
		d := op.must()
		for i, ref := range d.operands {
			if ref == from.ref {
				d.operands[i] = to.ref
				count++
			}
		}
		return true
	})
	return count
}

func (o Operation) must() *opData {
	if o.ctx == nil || o.id == 0 {
		panic("ir: use of zero Operation")
	}
	return o.ctx.arena.mustOp(o.id)
}
