// Package errors provides structured error types for the ir-core library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the affected operation name, a detail
// message, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBuild, errors.KindOperationBuild).
//		Op("gpu.launch").
//		Detail("operand segment sizes disagree with operand count").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OperationBuild("gpu.launch", "missing required attribute kernel")
//	err := errors.PipelineParse(diagnosticText)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when their Phase and Kind agree.
//
// The package also provides Diagnostic, a stateful accumulator for
// callback-streamed diagnostic text: external parsers deliver a message in
// multiple fragments, and Diagnostic assembles them into one message with a
// UTF-8 fallback instead of a decoding panic.
package errors
