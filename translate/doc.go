// Package translate lowers IR modules to executable WebAssembly.
//
// Lowering walks a module's functions, turns each body into a core WASM
// function (LEB128-encoded type, function, export and code sections)
// and compiles the result inside a caller-owned target context backed
// by a wazero runtime.
//
// Basic usage:
//
//	translate.RegisterLowerings(m.Context())
//	tc, err := translate.NewTargetContext(ctx)
//	defer tc.Close(ctx)
//
//	tm := translate.ModuleToTarget(ctx, tc, m)
//	if tm == nil {
//		// reasons are in the debug log
//	}
//	inst, err := tm.Instantiate(ctx)
//	sum, err := inst.ExportedFunction("add").Call(ctx, 2, 3)
//
// Lowerable surface:
//   - func.func with integer-typed arguments and results; public
//     functions are exported under their symbol name
//   - func.return
//   - arith.constant, arith.addi, arith.subi, arith.muli
//   - types i32 (32-bit), i64 and index (64-bit)
//
// Function bodies must be a single block; floats, multi-block control
// flow and every other operation are rejected. Translation never
// returns a structured error: on any failure ModuleToTarget yields nil
// and logs the reason at debug level.
package translate
