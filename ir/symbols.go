package ir

import (
	"strconv"

	"github.com/wippyai/ir-core/errors"
)

// Reserved attribute names of the symbol mechanism.
const (
	// SymbolNameAttrName holds the name under which an operation is
	// addressable, as a string attribute.
	SymbolNameAttrName = "sym_name"

	// SymbolVisibilityAttrName holds the visibility of a symbol. Absent
	// means public.
	SymbolVisibilityAttrName = "sym_visibility"
)

// SymbolName returns the symbol name of an operation, when it defines
// one.
func SymbolName(op Operation) (string, bool) {
	a, ok := op.Attribute(SymbolNameAttrName)
	if !ok {
		return "", false
	}
	return a.AsString()
}

// SymbolVisibility returns the visibility of a symbol operation. An
// absent or malformed visibility attribute means "public".
func SymbolVisibility(op Operation) string {
	a, ok := op.Attribute(SymbolVisibilityAttrName)
	if !ok {
		return "public"
	}
	s, ok := a.AsString()
	if !ok {
		return "public"
	}
	return s
}

// IsPrivateSymbol reports whether the operation defines a symbol that is
// not visible outside its enclosing symbol table.
func IsPrivateSymbol(op Operation) bool {
	v := SymbolVisibility(op)
	return v == "private" || v == "nested"
}

// LookupSymbol finds the direct child of root that defines the symbol.
// Only immediate children of root's regions are searched; nested symbol
// tables keep their own namespaces.
func LookupSymbol(root Operation, name string) (Operation, bool) {
	for _, r := range root.Regions() {
		for _, b := range r.Blocks() {
			for _, op := range b.Operations() {
				if n, ok := SymbolName(op); ok && n == name {
					return op, true
				}
			}
		}
	}
	return Operation{}, false
}

// SymbolUses counts flat symbol references to the name anywhere in the
// root subtree, root included.
func SymbolUses(root Operation, name string) int {
	count := 0
	root.Walk(func(op Operation) bool {
		for _, na := range op.Attributes() {
			if ref, ok := na.Value.AsFlatSymbolRef(); ok && ref == name {
				count++
			}
		}
		return true
	})
	return count
}

// RenameSymbol renames the symbol defined under root from one name to
// another, rewriting every flat symbol reference in the subtree. The
// definition must exist and the new name must be free.
func RenameSymbol(root Operation, from, to string) error {
	def, ok := LookupSymbol(root, from)
	if !ok {
		return errors.NotFound(errors.PhaseIR, "symbol", from)
	}
	if _, taken := LookupSymbol(root, to); taken {
		return errors.InvalidInput(errors.PhaseIR, "symbol '"+to+"' already defined")
	}
	ctx := root.ctx
	def.setAttribute(SymbolNameAttrName, StringAttr(ctx, to))
	root.Walk(func(op Operation) bool {
		for _, na := range op.Attributes() {
			if ref, ok := na.Value.AsFlatSymbolRef(); ok && ref == from {
				op.setAttribute(na.Name.Value(), FlatSymbolRefAttr(ctx, to))
			}
		}
		return true
	})
	return nil
}

// UniqueSymbolName returns base if it is free in every scope, otherwise
// base_0, base_1, ... until a free name is found.
func UniqueSymbolName(base string, scopes ...Operation) string {
	free := func(name string) bool {
		for _, s := range scopes {
			if _, taken := LookupSymbol(s, name); taken {
				return false
			}
		}
		return true
	}
	if free(base) {
		return base
	}
	for i := 0; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if free(candidate) {
			return candidate
		}
	}
}
