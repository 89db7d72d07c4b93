package ir

import (
	"sort"

	"github.com/wippyai/ir-core/errors"
)

// InferenceFn computes the result types of an operation from its
// operands and attributes, before the operation exists. Returning an
// error rejects the build.
type InferenceFn func(ctx *Context, operands []Value, attrs []NamedAttribute) ([]Type, error)

// OpSchema describes one operation of a dialect: the shape Build
// enforces and the traits passes consult.
type OpSchema struct {
	// Name is the operation name without the dialect prefix.
	Name string

	// MinOperands and MaxOperands bound the operand count.
	// MaxOperands < 0 means variadic.
	MinOperands int
	MaxOperands int

	// NumResults is the exact result count, or < 0 for any.
	NumResults int

	// NumRegions is the exact region count, or < 0 for any.
	NumRegions int

	// RequiredAttrs lists attribute names that must be attached.
	RequiredAttrs []string

	// Terminator marks operations that must close a block.
	Terminator bool

	// Pure marks operations with no side effects, making them eligible
	// for dead code elimination and deduplication.
	Pure bool

	// InferResults computes result types when the builder enables
	// result type inference. Nil means inference is unsupported.
	InferResults InferenceFn
}

// check validates accumulated builder state against the schema.
func (s *OpSchema) check(fullName string, operands, results, regions int, attrs []NamedAttribute) error {
	if operands < s.MinOperands {
		return errors.New(errors.PhaseBuild, errors.KindOperationBuild).
			Op(fullName).
			Detail("expects at least %d operands, got %d", s.MinOperands, operands).
			Build()
	}
	if s.MaxOperands >= 0 && operands > s.MaxOperands {
		return errors.New(errors.PhaseBuild, errors.KindOperationBuild).
			Op(fullName).
			Detail("expects at most %d operands, got %d", s.MaxOperands, operands).
			Build()
	}
	if s.NumResults >= 0 && results != s.NumResults {
		return errors.New(errors.PhaseBuild, errors.KindOperationBuild).
			Op(fullName).
			Detail("expects %d results, got %d", s.NumResults, results).
			Build()
	}
	if s.NumRegions >= 0 && regions != s.NumRegions {
		return errors.New(errors.PhaseBuild, errors.KindOperationBuild).
			Op(fullName).
			Detail("expects %d regions, got %d", s.NumRegions, regions).
			Build()
	}
	for _, req := range s.RequiredAttrs {
		found := false
		for _, na := range attrs {
			if na.Name.Value() == req {
				found = true
				break
			}
		}
		if !found {
			return errors.New(errors.PhaseBuild, errors.KindOperationBuild).
				Op(fullName).
				Detail("missing required attribute '%s'", req).
				Build()
		}
	}
	return nil
}

// Dialect groups operation schemas under a namespace.
type Dialect struct {
	namespace string
	ops       map[string]*OpSchema
}

// NewDialect creates an empty dialect for the namespace.
func NewDialect(namespace string) *Dialect {
	return &Dialect{
		namespace: namespace,
		ops:       make(map[string]*OpSchema),
	}
}

// Namespace returns the dialect namespace.
func (d *Dialect) Namespace() string {
	return d.namespace
}

// Define adds an operation schema. Defining the same name again
// replaces the previous schema.
func (d *Dialect) Define(s *OpSchema) *Dialect {
	d.ops[s.Name] = s
	return d
}

// Operation returns the schema registered under the name, without the
// dialect prefix.
func (d *Dialect) Operation(name string) (*OpSchema, bool) {
	s, ok := d.ops[name]
	return s, ok
}

// OperationNames returns the fully qualified names of all operations in
// the dialect, sorted.
func (d *Dialect) OperationNames() []string {
	names := make([]string, 0, len(d.ops))
	for name := range d.ops {
		names = append(names, d.namespace+"."+name)
	}
	sort.Strings(names)
	return names
}

// DialectRegistry collects dialects before they are attached to a
// context with AppendDialectRegistry.
type DialectRegistry struct {
	dialects map[string]*Dialect
}

// NewDialectRegistry creates an empty registry.
func NewDialectRegistry() *DialectRegistry {
	return &DialectRegistry{dialects: make(map[string]*Dialect)}
}

// Register adds a dialect to the registry. Registering the same
// namespace again replaces it, so repeated registration is safe.
func (r *DialectRegistry) Register(d *Dialect) {
	r.dialects[d.namespace] = d
}

// Len returns the number of dialects in the registry.
func (r *DialectRegistry) Len() int {
	return len(r.dialects)
}
