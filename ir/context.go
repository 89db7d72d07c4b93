package ir

// Context owns every IR object created through it. Types, attributes,
// identifiers and locations are interned and deduplicated; operations,
// blocks and regions live in an arena that is released as a whole when
// the context is garbage collected.
//
// A Context and the objects it owns must be confined to one goroutine.
type Context struct {
	interner *interner
	arena    *arena

	dialects          map[string]*Dialect
	allowUnregistered bool

	extensions map[string]any
}

// NewContext creates an empty context.
//
// The builtin dialect is always registered so that builtin.module can be
// constructed without further setup. All other dialects must be attached
// through AppendDialectRegistry.
func NewContext() *Context {
	c := &Context{
		interner:   newInterner(),
		arena:      newArena(),
		dialects:   make(map[string]*Dialect),
		extensions: make(map[string]any),
	}
	c.dialects["builtin"] = BuiltinDialect()
	return c
}

// AppendDialectRegistry attaches every dialect in the registry to the
// context. Re-attaching a dialect that is already present replaces it.
func (c *Context) AppendDialectRegistry(r *DialectRegistry) {
	for ns, d := range r.dialects {
		c.dialects[ns] = d
	}
}

// SetAllowUnregisteredDialects controls whether operations from dialects
// that were never attached to the context may be built. The default is
// to reject them.
func (c *Context) SetAllowUnregisteredDialects(allow bool) {
	c.allowUnregistered = allow
}

// AllowsUnregisteredDialects reports the current unregistered-dialect policy.
func (c *Context) AllowsUnregisteredDialects() bool {
	return c.allowUnregistered
}

// RegisteredDialect returns the dialect attached under the namespace.
func (c *Context) RegisteredDialect(namespace string) (*Dialect, bool) {
	d, ok := c.dialects[namespace]
	return d, ok
}

// RegisteredDialectCount returns the number of dialects attached to the
// context, including the implicit builtin dialect.
func (c *Context) RegisteredDialectCount() int {
	return len(c.dialects)
}

// IsRegisteredOperation reports whether the fully qualified operation
// name resolves to a schema in one of the attached dialects.
func (c *Context) IsRegisteredOperation(name string) bool {
	_, ok := c.OperationSchema(name)
	return ok
}

// OperationSchema resolves a fully qualified operation name such as
// "arith.addi" to its registered schema.
func (c *Context) OperationSchema(name string) (*OpSchema, bool) {
	ns, op := splitOperationName(name)
	d, ok := c.dialects[ns]
	if !ok {
		return nil, false
	}
	s, ok := d.ops[op]
	return s, ok
}

// RegisterExtension stores an extension payload under a key, typically a
// table of hooks installed by another package. It returns false without
// overwriting when the key is already present, so repeated registration
// is safe.
func (c *Context) RegisterExtension(key string, ext any) bool {
	if _, ok := c.extensions[key]; ok {
		return false
	}
	c.extensions[key] = ext
	return true
}

// Extension returns the payload registered under the key.
func (c *Context) Extension(key string) (any, bool) {
	ext, ok := c.extensions[key]
	return ext, ok
}

// splitOperationName splits "dialect.op" at the first dot. A name with
// no dot belongs to the empty namespace, which never resolves.
func splitOperationName(name string) (namespace, op string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return "", name
}
