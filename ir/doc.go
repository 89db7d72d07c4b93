// Package ir implements the core intermediate representation: contexts,
// interned types and attributes, and the operation graph of regions,
// blocks and operations.
//
// # Contexts and Interning
//
// Every IR object belongs to a Context. Types, attributes, identifiers
// and locations are immutable and interned: constructing the same
// content twice yields handles that compare equal with ==.
//
//	ctx := ir.NewContext()
//	i32 := ir.IntegerType(ctx, 32)
//	same := ir.IntegerType(ctx, 32)
//	// i32 == same
//
// # Operations
//
// Operations are assembled with an OperationBuilder and finalized with
// Build. The builder is one-shot: Build consumes it, success or not.
//
//	op, err := ir.NewOperationBuilder("arith.addi", loc).
//		AddOperands(lhs, rhs).
//		EnableResultTypeInference().
//		Build()
//
// Values are never allocated: a Value references a block argument or an
// operation result inside its owner.
//
// # Ownership
//
// Operations, blocks and regions live in an arena owned by the context.
// Ownership transfers are one-way: a region handed to AddRegions, a
// block appended to a region, an operation appended to a block. A second
// transfer of the same node panics, and using a destroyed node panics.
// Successor edges are the exception: they never own their blocks.
//
// # Dialects
//
// Operation names resolve against dialects attached to the context.
// RegisterAllDialects fills a DialectRegistry with the builtin, func,
// arith and transform dialects; contexts reject operations of
// unregistered dialects unless SetAllowUnregisteredDialects is used.
//
// A Context and the objects it owns are not safe for concurrent use.
package ir
