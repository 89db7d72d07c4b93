package ir

import (
	stderrors "errors"
)

// RegisterAllDialects fills the registry with every dialect shipped with
// this module. Calling it any number of times is safe: registration
// replaces by namespace.
func RegisterAllDialects(r *DialectRegistry) {
	r.Register(BuiltinDialect())
	r.Register(FuncDialect())
	r.Register(ArithDialect())
	r.Register(TransformDialect())
}

// BuiltinDialect returns the builtin dialect. It is attached to every
// context automatically.
//
// Operations:
//   - builtin.module: the top-level container, one region.
func BuiltinDialect() *Dialect {
	d := NewDialect("builtin")
	d.Define(&OpSchema{
		Name:        "module",
		MinOperands: 0,
		MaxOperands: 0,
		NumResults:  0,
		NumRegions:  1,
	})
	return d
}

// FuncDialect returns the func dialect: function definitions, returns
// and direct calls.
func FuncDialect() *Dialect {
	d := NewDialect("func")
	d.Define(&OpSchema{
		Name:          "func",
		MinOperands:   0,
		MaxOperands:   0,
		NumResults:    0,
		NumRegions:    1,
		RequiredAttrs: []string{"sym_name", "function_type"},
	})
	d.Define(&OpSchema{
		Name:        "return",
		MinOperands: 0,
		MaxOperands: -1,
		NumResults:  0,
		NumRegions:  0,
		Terminator:  true,
	})
	d.Define(&OpSchema{
		Name:          "call",
		MinOperands:   0,
		MaxOperands:   -1,
		NumResults:    -1,
		NumRegions:    0,
		RequiredAttrs: []string{"callee"},
	})
	return d
}

// ArithDialect returns the arith dialect: integer constants and binary
// arithmetic. All value-producing operations support result type
// inference.
func ArithDialect() *Dialect {
	d := NewDialect("arith")
	d.Define(&OpSchema{
		Name:          "constant",
		MinOperands:   0,
		MaxOperands:   0,
		NumResults:    1,
		NumRegions:    0,
		RequiredAttrs: []string{"value"},
		Pure:          true,
		InferResults:  inferConstantResult,
	})
	for _, name := range []string{"addi", "subi", "muli"} {
		d.Define(&OpSchema{
			Name:         name,
			MinOperands:  2,
			MaxOperands:  2,
			NumResults:   1,
			NumRegions:   0,
			Pure:         true,
			InferResults: inferBinaryIntegerResult,
		})
	}
	return d
}

// TransformDialect returns the transform dialect: named sequences of
// transform steps interpreted by the engine package.
func TransformDialect() *Dialect {
	d := NewDialect("transform")
	d.Define(&OpSchema{
		Name:          "named_sequence",
		MinOperands:   0,
		MaxOperands:   0,
		NumResults:    0,
		NumRegions:    1,
		RequiredAttrs: []string{"sym_name"},
	})
	d.Define(&OpSchema{
		Name:        "yield",
		MinOperands: 0,
		MaxOperands: -1,
		NumResults:  0,
		NumRegions:  0,
		Terminator:  true,
	})
	d.Define(&OpSchema{
		Name:          "apply_registered_pass",
		MinOperands:   0,
		MaxOperands:   0,
		NumResults:    0,
		NumRegions:    0,
		RequiredAttrs: []string{"pass_name"},
	})
	d.Define(&OpSchema{
		Name:        "print",
		MinOperands: 0,
		MaxOperands: 0,
		NumResults:  0,
		NumRegions:  0,
	})
	return d
}

// inferConstantResult types arith.constant from its value attribute.
func inferConstantResult(ctx *Context, operands []Value, attrs []NamedAttribute) ([]Type, error) {
	for _, na := range attrs {
		if na.Name.Value() != "value" {
			continue
		}
		if t, ok := na.Value.Type(); ok {
			return []Type{t}, nil
		}
		return nil, stderrors.New("value attribute carries no type")
	}
	return nil, stderrors.New("missing value attribute")
}

// inferBinaryIntegerResult types arith.addi and friends from their
// operands: both must have the same integer or index type, which is also
// the result type.
func inferBinaryIntegerResult(ctx *Context, operands []Value, attrs []NamedAttribute) ([]Type, error) {
	if len(operands) != 2 {
		return nil, stderrors.New("expects exactly two operands")
	}
	lhs := operands[0].Type()
	rhs := operands[1].Type()
	if lhs != rhs {
		return nil, stderrors.New("operand types differ")
	}
	if !lhs.IsInteger() && !lhs.IsIndex() {
		return nil, stderrors.New("operands must have integer or index type")
	}
	return []Type{lhs}, nil
}
