// Package engine interprets transform scripts against payload IR.
//
// A transform script is ordinary IR in the transform dialect: a module
// holding a transform.named_sequence whose body lists the steps to run.
// The engine walks that body and dispatches every step to an applier,
// mutating the payload in place.
//
// # Applying a sequence
//
//	opts := engine.NewOptions().EnableExpensiveChecks(true)
//	defer opts.Close()
//
//	err := engine.ApplyNamedSequence(
//		payload.AsOperation(),
//		sequence,
//		script.AsOperation(),
//		opts,
//	)
//
// Options are a scoped resource. Close releases them; touching them
// afterwards panics rather than silently steering a later transform.
//
// # Built-in steps
//
// The engine ships appliers for transform.yield (ends the sequence),
// transform.apply_registered_pass (runs a pass from the pass registry
// over the payload, with optional options text) and transform.print
// (logs a payload summary). RegisterApplier extends the table with
// appliers for further transform operations.
//
// # Failure reporting
//
// Every failure collapses to one generic transform-failure error. What
// actually went wrong, a missing applier, a failing pass, a payload
// that no longer passes its consistency checks, is reported through the
// package logger at debug level only. Install a logger with SetLogger
// when diagnosing a failing script.
//
// # Symbol merging
//
// MergeSymbolsFromClone combines two modules at the symbol level: the
// source is cloned, colliding names are resolved by renaming whichever
// side is private, and the clone's symbols move into the target. Two
// public definitions of one name cannot merge.
//
// The applier table is safe for concurrent use. Payloads, sequences and
// options are confined to one goroutine, like the IR they mutate.
package engine
