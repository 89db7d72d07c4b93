package ir

// Arena ids for owned IR nodes. Zero means "no node".
type (
	opID     uint32
	blockID  uint32
	regionID uint32
)

// valueRef identifies an SSA value without allocating it: either result
// number index of operation owner, or argument number index of block
// owner.
type valueRef struct {
	kind  uint8
	owner uint32
	index uint32
}

const (
	refOpResult uint8 = iota + 1
	refBlockArg
)

// namedAttr is the arena-side form of a NamedAttribute.
type namedAttr struct {
	name  identID
	value attrID
}

// opData is the arena entry behind an Operation handle.
type opData struct {
	name        string
	dialect     string
	location    locID
	resultTypes []typeID
	operands    []valueRef
	regions     []regionID
	successors  []blockID
	attrs       []namedAttr

	owner blockID
	valid bool
}

// blockData is the arena entry behind a Block handle.
type blockData struct {
	argTypes []typeID
	argLocs  []locID
	ops      []opID

	owner regionID
	valid bool
}

// regionData is the arena entry behind a Region handle. claimed is set
// when ownership is transferred to an operation builder and never
// cleared, which is what makes regions move-only.
type regionData struct {
	blocks []blockID

	owner   opID
	claimed bool
	valid   bool
}

// arena owns every operation, block and region created in a context.
// Entries are appended and never reused; destruction only clears the
// valid flag, so a stale handle fails loudly instead of resolving to an
// unrelated node.
//
// Appending may relocate the backing arrays. Entry pointers must not be
// written through after a new* call; re-resolve the id instead.
type arena struct {
	ops     []opData
	blocks  []blockData
	regions []regionData
}

func newArena() *arena {
	return &arena{}
}

func (a *arena) newOp(d opData) opID {
	a.ops = append(a.ops, d)
	return opID(len(a.ops))
}

func (a *arena) newBlock(d blockData) blockID {
	a.blocks = append(a.blocks, d)
	return blockID(len(a.blocks))
}

func (a *arena) newRegion(d regionData) regionID {
	a.regions = append(a.regions, d)
	return regionID(len(a.regions))
}

func (a *arena) op(id opID) *opData {
	if id == 0 || int(id) > len(a.ops) {
		panic("ir: invalid operation handle")
	}
	return &a.ops[id-1]
}

func (a *arena) block(id blockID) *blockData {
	if id == 0 || int(id) > len(a.blocks) {
		panic("ir: invalid block handle")
	}
	return &a.blocks[id-1]
}

func (a *arena) region(id regionID) *regionData {
	if id == 0 || int(id) > len(a.regions) {
		panic("ir: invalid region handle")
	}
	return &a.regions[id-1]
}

// mustOp resolves an operation id and panics if the node was destroyed.
func (a *arena) mustOp(id opID) *opData {
	d := a.op(id)
	if !d.valid {
		panic("ir: use of destroyed operation")
	}
	return d
}

// mustBlock resolves a block id and panics if the node was destroyed.
func (a *arena) mustBlock(id blockID) *blockData {
	d := a.block(id)
	if !d.valid {
		panic("ir: use of destroyed block")
	}
	return d
}

// mustRegion resolves a region id and panics if the node was destroyed.
func (a *arena) mustRegion(id regionID) *regionData {
	d := a.region(id)
	if !d.valid {
		panic("ir: use of destroyed region")
	}
	return d
}
