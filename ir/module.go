package ir

// Module wraps a builtin.module operation: a single region holding one
// block of top-level operations. It is the root payload most passes and
// transforms run on.
type Module struct {
	op Operation
}

// NewModule creates an empty module at the location. The builtin dialect
// is always registered, so module creation cannot fail.
func NewModule(loc Location) Module {
	ctx := loc.ctx
	if ctx == nil {
		panic("ir: NewModule with zero Location")
	}
	region := NewRegion(ctx)
	region.AppendBlock(NewBlock(ctx, nil))
	op, err := NewOperationBuilder("builtin.module", loc).
		AddRegions(region).
		Build()
	if err != nil {
		panic("ir: builtin.module rejected: " + err.Error())
	}
	return Module{op: op}
}

// ModuleFromOperation adopts an existing builtin.module operation as a
// Module.
func ModuleFromOperation(op Operation) (Module, bool) {
	if !op.Valid() || op.Name() != "builtin.module" {
		return Module{}, false
	}
	return Module{op: op}, true
}

// Valid reports whether the underlying operation still exists.
func (m Module) Valid() bool {
	return m.op.Valid()
}

// Context returns the owning context.
func (m Module) Context() *Context {
	return m.op.ctx
}

// AsOperation returns the underlying builtin.module operation.
func (m Module) AsOperation() Operation {
	return m.op
}

// Body returns the single block that holds the module's top-level
// operations.
func (m Module) Body() Block {
	r, err := m.op.Region(0)
	if err != nil {
		panic("ir: module without region")
	}
	b, ok := r.FirstBlock()
	if !ok {
		panic("ir: module without body block")
	}
	return b
}

// Append adds a top-level operation to the module body.
func (m Module) Append(op Operation) {
	m.Body().AppendOperation(op)
}

// Destroy destroys the module and everything inside it.
func (m Module) Destroy() {
	m.op.Destroy()
}
