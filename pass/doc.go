// Package pass provides the pass registry, the pass manager tree and the
// textual pipeline parser.
//
// # Registry
//
// Passes register process-wide under unique names. RegisterAll installs
// the built-in passes (canonicalize, cse, symbol-dce, topological-sort)
// exactly once no matter how often it is called; the raw registration
// underneath is not repeatable, so the once guard is load-bearing, not
// cosmetic.
//
//	pass.RegisterAll()
//	p, ok := pass.Lookup("canonicalize")
//
// # Managers
//
// A Manager runs passes on operations of one anchor name and nests
// managers for the operations inside them:
//
//	pm := pass.NewManager("builtin.module")
//	pm.Nest("func.func").AddPass(p)
//	err := pm.Run(module.AsOperation())
//
// # Pipelines
//
// ParsePipeline turns descriptions such as
//
//	canonicalize, func.func(cse, topological-sort)
//
// into the equivalent manager tree. Parse failures are streamed through
// the diagnostic channel in chunks and come back as one pipeline parse
// error carrying the accumulated message.
//
// The registry is safe for concurrent use. Managers and the passes they
// run are confined to one goroutine, like the IR they mutate.
package pass
