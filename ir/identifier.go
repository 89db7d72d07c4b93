package ir

// Identifier is an interned handle to a name string, used for attribute
// names. Equal strings intern to equal handles within one context.
type Identifier struct {
	ctx *Context
	id  identID
}

// NewIdentifier interns a name in the context.
func NewIdentifier(ctx *Context, value string) Identifier {
	return Identifier{ctx: ctx, id: ctx.interner.internIdent(value)}
}

// Valid reports whether the handle refers to an interned name.
func (i Identifier) Valid() bool {
	return i.ctx != nil && i.id != 0
}

// Context returns the owning context.
func (i Identifier) Context() *Context {
	return i.ctx
}

// Value returns the interned string.
func (i Identifier) Value() string {
	if i.ctx == nil || i.id == 0 {
		panic("ir: use of zero Identifier")
	}
	return i.ctx.interner.identValue(i.id)
}
