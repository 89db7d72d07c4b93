package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Is reports whether any error in err's chain matches target. It is the
// standard library errors.Is, re-exported so callers need one import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseIR        Phase = "ir"        // entity access and graph edits
	PhaseBuild     Phase = "build"     // operation construction
	PhasePipeline  Phase = "pipeline"  // pass pipeline parsing and execution
	PhaseTransform Phase = "transform" // named-sequence application
	PhaseMerge     Phase = "merge"     // symbol table merging
	PhaseTranslate Phase = "translate" // target lowering
	PhaseRegistry  Phase = "registry"  // dialect and pass registration
)

// Kind categorizes the error
type Kind string

const (
	KindOperationBuild  Kind = "operation_build"
	KindPipelineParse   Kind = "pipeline_parse"
	KindTransformFailed Kind = "transform_failed"
	KindPassFailed      Kind = "pass_failed"
	KindRegistration    Kind = "registration"
	KindNotFound        Kind = "not_found"
	KindInvalidInput    Kind = "invalid_input"
	KindOutOfBounds     Kind = "out_of_bounds"
)

// Error is the structured error type used throughout ir-core
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	OpName string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.OpName != "" {
		b.WriteString(" at '")
		b.WriteString(e.OpName)
		b.WriteByte('\'')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the affected operation name
func (b *Builder) Op(name string) *Builder {
	b.err.OpName = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OperationBuild creates an error for a rejected operation finalize step.
// The accumulated builder state is consumed either way, so the error is not
// retryable: callers fix their input and rebuild from scratch.
func OperationBuild(op, detail string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindOperationBuild,
		OpName: op,
		Detail: detail,
	}
}

// PipelineParse creates an error for a malformed pipeline description,
// carrying the accumulated diagnostic text.
func PipelineParse(message string) *Error {
	return &Error{
		Phase:  PhasePipeline,
		Kind:   KindPipelineParse,
		Detail: message,
	}
}

// TransformFailed creates the generic transform-application failure.
// No structured detail crosses this boundary; specifics go to the engine's
// debug log only.
func TransformFailed() *Error {
	return &Error{
		Phase: PhaseTransform,
		Kind:  KindTransformFailed,
	}
}

// MergeFailed creates the generic symbol-merge failure. It shares the
// transform-failure kind: merge conflicts and sequence failures are not
// distinguishable through the error value.
func MergeFailed() *Error {
	return &Error{
		Phase: PhaseMerge,
		Kind:  KindTransformFailed,
	}
}

// PassFailed wraps a pass execution failure
func PassFailed(pass string, cause error) *Error {
	return &Error{
		Phase:  PhasePipeline,
		Kind:   KindPassFailed,
		Detail: fmt.Sprintf("pass %q failed", pass),
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// OutOfBounds creates a position-out-of-range error
func OutOfBounds(phase Phase, what string, index, count int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("%s index %d out of range, have %d", what, index, count),
	}
}

// Registration creates a registration error
func Registration(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %q", name),
		Cause:  cause,
	}
}
