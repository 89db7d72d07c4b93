// Package ircore provides a self-contained intermediate-representation
// infrastructure: an interning context, an arena-owned operation graph, a
// one-shot operation builder, a transform-script engine, and a pass-pipeline
// layer with textual pipeline parsing.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	ircore/        Root package with the shared diagnostic streaming contract
//	├── ir/        Context, type/attribute interner, arena-owned operations,
//	│              regions, blocks, values, and the operation builder
//	├── engine/    Transform engine: options, named-sequence application,
//	│              symbol merging
//	├── pass/      Pass registry, pass manager tree, pipeline text parsing,
//	│              built-in passes
//	├── translate/ Lowering of IR modules into WASM inside a caller-supplied
//	│              target context
//	└── errors/    Structured error types and diagnostic accumulation
//
// # Quick Start
//
// Build a module and run a pipeline over it:
//
//	ctx := ir.NewContext()
//	registry := ir.NewDialectRegistry()
//	ir.RegisterAllDialects(registry)
//	ctx.AppendDialectRegistry(registry)
//
//	module := ir.NewModule(ir.UnknownLocation(ctx))
//
//	pass.RegisterAll()
//	pm := pass.NewManager("builtin.module")
//	if err := pass.ParsePipeline(pm, "canonicalize,func.func(cse)"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := pm.Run(module.AsOperation()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Ownership Model
//
// All IR nodes live in an arena owned by their Context. Public Operation,
// Region, Block, and Value types are stable handles into that arena, so
// copying them is cheap and comparing them with == is structural identity.
// Structure-transferring calls (appending a block to a region, handing a
// region to a builder, appending an operation to a block) claim the node:
// a second transfer attempt panics. Reads through any handle remain valid
// for the Context's lifetime.
//
// # Thread Safety
//
// A Context and everything reachable from it belong to a single logical
// caller; share them across goroutines only with external synchronization.
// The one process-wide mutable surface, the pass registry, is safe for
// concurrent registration and its bulk population runs exactly once.
package ircore
