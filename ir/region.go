package ir

// Region is a handle to an ordered list of blocks. A region is created
// detached, populated with blocks, and then transferred into exactly one
// operation through OperationBuilder.AddRegions. The transfer is final:
// handing the same region to a second builder panics.
type Region struct {
	ctx *Context
	id  regionID
}

// NewRegion creates an empty detached region.
func NewRegion(ctx *Context) Region {
	id := ctx.arena.newRegion(regionData{valid: true})
	return Region{ctx: ctx, id: id}
}

// Valid reports whether the region still exists.
func (r Region) Valid() bool {
	return r.ctx != nil && r.id != 0 && r.ctx.arena.region(r.id).valid
}

// Context returns the owning context.
func (r Region) Context() *Context {
	return r.ctx
}

// AppendBlock appends a block to the region, taking ownership of it.
// A block already owned by a region cannot be appended again.
func (r Region) AppendBlock(b Block) {
	rd := r.must()
	bd := b.must()
	if bd.owner != 0 {
		panic("ir: block already owned by a region")
	}
	bd.owner = r.id
	rd.blocks = append(rd.blocks, b.id)
}

// FirstBlock returns the first block of the region.
func (r Region) FirstBlock() (Block, bool) {
	rd := r.must()
	if len(rd.blocks) == 0 {
		return Block{}, false
	}
	return Block{ctx: r.ctx, id: rd.blocks[0]}, true
}

// Blocks returns the blocks of the region in order.
func (r Region) Blocks() []Block {
	rd := r.must()
	blocks := make([]Block, len(rd.blocks))
	for i, id := range rd.blocks {
		blocks[i] = Block{ctx: r.ctx, id: id}
	}
	return blocks
}

// BlockCount returns the number of blocks in the region.
func (r Region) BlockCount() int {
	return len(r.must().blocks)
}

// ParentOperation returns the operation that owns the region, once the
// region has been transferred into one.
func (r Region) ParentOperation() (Operation, bool) {
	rd := r.must()
	if rd.owner == 0 {
		return Operation{}, false
	}
	return Operation{ctx: r.ctx, id: rd.owner}, true
}

// IsClaimed reports whether ownership of the region has already been
// transferred to an operation builder.
func (r Region) IsClaimed() bool {
	return r.must().claimed
}

// claim marks the region as consumed by a builder. Second transfer is a
// use-after-move and fails loudly.
func (r Region) claim() {
	rd := r.must()
	if rd.claimed {
		panic("ir: region already transferred to an operation")
	}
	rd.claimed = true
}

func (r Region) must() *regionData {
	if r.ctx == nil || r.id == 0 {
		panic("ir: use of zero Region")
	}
	return r.ctx.arena.mustRegion(r.id)
}
