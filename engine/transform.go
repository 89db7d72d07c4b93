package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/wippyai/ir-core/errors"
	"github.com/wippyai/ir-core/ir"
	"github.com/wippyai/ir-core/pass"
	"go.uber.org/zap"
)

// ApplyContext carries the state visible to a single applier call.
type ApplyContext struct {
	// Payload is the operation tree being transformed in place.
	Payload ir.Operation

	// TransformModule is the module the running sequence came from.
	TransformModule ir.Operation

	// Options are the live options of this application.
	Options *Options
}

// ApplyFn executes one transform step against the payload. A returned
// error aborts the sequence; its text surfaces only in the debug log.
type ApplyFn func(actx *ApplyContext, op ir.Operation) error

var (
	appliersMu sync.RWMutex
	appliers   = make(map[string]ApplyFn)
)

// builtinAppliers handles the transform operations shipped with this
// package. The table is consulted after user registrations, but
// RegisterApplier refuses the built-in names, so no shadowing occurs.
var builtinAppliers = map[string]ApplyFn{
	"transform.yield":                 applyYield,
	"transform.apply_registered_pass": applyRegisteredPass,
	"transform.print":                 applyPrint,
}

// RegisterApplier binds fn as the applier for the named transform
// operation. Built-in and already-taken names are rejected.
func RegisterApplier(name string, fn ApplyFn) error {
	appliersMu.Lock()
	defer appliersMu.Unlock()
	if _, ok := builtinAppliers[name]; ok {
		return errors.Registration(name, errors.InvalidInput(errors.PhaseRegistry, "applier name is built in"))
	}
	if _, ok := appliers[name]; ok {
		return errors.Registration(name, errors.InvalidInput(errors.PhaseRegistry, "applier name already registered"))
	}
	appliers[name] = fn
	return nil
}

// RegisteredAppliers returns the sorted names of every applier,
// built-in and registered alike.
func RegisteredAppliers() []string {
	appliersMu.RLock()
	defer appliersMu.RUnlock()
	names := make([]string, 0, len(appliers)+len(builtinAppliers))
	for name := range appliers {
		names = append(names, name)
	}
	for name := range builtinAppliers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupApplier(name string) (ApplyFn, bool) {
	appliersMu.RLock()
	fn, ok := appliers[name]
	appliersMu.RUnlock()
	if ok {
		return fn, true
	}
	fn, ok = builtinAppliers[name]
	return fn, ok
}

// ApplyNamedSequence interprets the body of transformRoot, a
// transform.named_sequence living inside transformModule, dispatching
// each step to its applier and mutating payload in place.
//
// Any failure collapses to the generic transform-failure error; what
// actually went wrong is reported through the package logger at debug
// level only. When expensive checks are enabled the payload is verified
// before the first step and again after every step.
func ApplyNamedSequence(payload, transformRoot, transformModule ir.Operation, opts *Options) error {
	log := Logger()

	if !payload.Valid() || !transformRoot.Valid() || !transformModule.Valid() {
		log.Debug("transform application over destroyed operations")
		return errors.TransformFailed()
	}
	if transformRoot.Name() != "transform.named_sequence" {
		log.Debug("transform root is not a named sequence",
			zap.String("op", transformRoot.Name()))
		return errors.TransformFailed()
	}
	if !containedIn(transformRoot, transformModule) {
		log.Debug("transform root is not inside the transform module")
		return errors.TransformFailed()
	}

	if opts.SingleTopLevelTransformOpEnforced() {
		n, err := countTopLevelTransformOps(transformModule)
		if err != nil {
			log.Debug("transform module is malformed", zap.Error(err))
			return errors.TransformFailed()
		}
		if n != 1 {
			log.Debug("transform module must hold exactly one top-level transform operation",
				zap.Int("count", n))
			return errors.TransformFailed()
		}
	}

	seqRegion, err := transformRoot.Region(0)
	if err != nil {
		log.Debug("named sequence has no body region")
		return errors.TransformFailed()
	}
	seqBlock, ok := seqRegion.FirstBlock()
	if !ok {
		return nil
	}

	expensive := opts.ExpensiveChecksEnabled()
	if expensive {
		if err := checkPayload(payload); err != nil {
			log.Debug("payload failed consistency checks before transform",
				zap.Error(err))
			return errors.TransformFailed()
		}
	}

	actx := &ApplyContext{
		Payload:         payload,
		TransformModule: transformModule,
		Options:         opts,
	}
	for _, step := range seqBlock.Operations() {
		fn, ok := lookupApplier(step.Name())
		if !ok {
			log.Debug("no applier for transform operation",
				zap.String("op", step.Name()))
			return errors.TransformFailed()
		}
		if err := fn(actx, step); err != nil {
			log.Debug("transform step failed",
				zap.String("op", step.Name()), zap.Error(err))
			return errors.TransformFailed()
		}
		if expensive {
			if err := checkPayload(payload); err != nil {
				log.Debug("payload failed consistency checks after transform step",
					zap.String("op", step.Name()), zap.Error(err))
				return errors.TransformFailed()
			}
		}
	}
	return nil
}

// countTopLevelTransformOps counts transform-dialect operations among
// the direct children of the transform module's first region.
func countTopLevelTransformOps(module ir.Operation) (int, error) {
	r, err := module.Region(0)
	if err != nil {
		return 0, fmt.Errorf("transform module has no region")
	}
	b, ok := r.FirstBlock()
	if !ok {
		return 0, nil
	}
	n := 0
	for _, op := range b.Operations() {
		if op.Dialect() == "transform" {
			n++
		}
	}
	return n, nil
}

func containedIn(op, ancestor ir.Operation) bool {
	cur := op
	for {
		if cur == ancestor {
			return true
		}
		parent, ok := cur.ParentOperation()
		if !ok {
			return false
		}
		cur = parent
	}
}

// applyYield terminates a sequence body. Yielded operands are ignored:
// sequences mutate the payload rather than produce values.
func applyYield(*ApplyContext, ir.Operation) error {
	return nil
}

// applyRegisteredPass runs a pass from the pass registry over the
// payload. The pass is named by the pass_name attribute; an options
// attribute, when present, is forwarded to the pass before running.
func applyRegisteredPass(actx *ApplyContext, op ir.Operation) error {
	attr, ok := op.Attribute("pass_name")
	if !ok {
		return fmt.Errorf("missing pass_name attribute")
	}
	name, ok := attr.AsString()
	if !ok {
		return fmt.Errorf("pass_name attribute is not a string")
	}
	p, ok := pass.Lookup(name)
	if !ok {
		return fmt.Errorf("pass %q is not registered", name)
	}
	if optAttr, ok := op.Attribute("options"); ok {
		text, ok := optAttr.AsString()
		if !ok {
			return fmt.Errorf("options attribute is not a string")
		}
		setter, ok := p.(pass.OptionsSetter)
		if !ok {
			return fmt.Errorf("pass %q accepts no options", name)
		}
		if err := setter.SetOptions(text); err != nil {
			return err
		}
	}
	return p.Run(actx.Payload)
}

// applyPrint logs a one-line payload summary through the package
// logger.
func applyPrint(actx *ApplyContext, _ ir.Operation) error {
	Logger().Info("transform.print", zap.String("payload", actx.Payload.String()))
	return nil
}
