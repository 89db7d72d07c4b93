package translate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/ir-core/ir"
)

// ModuleToTarget lowers the module to the target format and compiles it
// inside the target context. Translation has an absent-result contract:
// any failure, whether a missing lowering table, an unsupported
// operation or type, or a rejected binary, yields nil, with the reason
// reported through the package logger at debug level.
func ModuleToTarget(ctx context.Context, tc *TargetContext, m ir.Module) *TargetModule {
	log := Logger()
	if !m.Valid() {
		log.Debug("translation of a destroyed module")
		return nil
	}
	table, ok := lowerings(m.Context())
	if !ok {
		log.Debug("no lowerings registered in the module's context")
		return nil
	}

	wm := newWasmModule()
	for _, op := range topLevelOps(m) {
		if op.Name() != "func.func" {
			log.Debug("top-level operation has no lowering",
				zap.String("op", op.Name()))
			return nil
		}
		if err := lowerFunction(wm, table, op); err != nil {
			name, _ := ir.SymbolName(op)
			log.Debug("function lowering failed",
				zap.String("function", name), zap.Error(err))
			return nil
		}
	}

	binary := wm.encode()
	compiled, err := tc.runtime.CompileModule(ctx, binary)
	if err != nil {
		log.Debug("target rejected the lowered binary", zap.Error(err))
		return nil
	}
	log.Debug("module lowered",
		zap.Int("functions", len(wm.funcs)), zap.Int("bytes", len(binary)))
	return &TargetModule{tc: tc, compiled: compiled, binary: binary}
}

func topLevelOps(m ir.Module) []ir.Operation {
	r, err := m.AsOperation().Region(0)
	if err != nil {
		return nil
	}
	b, ok := r.FirstBlock()
	if !ok {
		return nil
	}
	return b.Operations()
}

// lowerFunction lowers one func.func into the module under
// construction. Public functions are exported under their symbol name.
func lowerFunction(wm *wasmModule, table *loweringTable, fn ir.Operation) error {
	name, ok := ir.SymbolName(fn)
	if !ok {
		return fmt.Errorf("function without a symbol name")
	}
	sigAttr, ok := fn.Attribute("function_type")
	if !ok {
		return fmt.Errorf("function without a function_type attribute")
	}
	sig, ok := sigAttr.AsType()
	if !ok || !sig.IsFunction() {
		return fmt.Errorf("function_type attribute is not a function type")
	}
	inputs, _ := sig.FunctionInputs()
	outputs, _ := sig.FunctionResults()
	params, err := valTypes(inputs)
	if err != nil {
		return err
	}
	results, err := valTypes(outputs)
	if err != nil {
		return err
	}

	region, err := fn.Region(0)
	if err != nil {
		return fmt.Errorf("function without a body region")
	}
	if region.BlockCount() != 1 {
		return fmt.Errorf("control flow across %d blocks cannot be lowered", region.BlockCount())
	}
	body, _ := region.FirstBlock()
	args := body.Arguments()
	if len(args) != len(inputs) {
		return fmt.Errorf("entry block has %d arguments for %d parameters", len(args), len(inputs))
	}
	for i, arg := range args {
		if arg.Type() != inputs[i] {
			return fmt.Errorf("entry block argument %d has type %s, want %s",
				i, arg.Type(), inputs[i])
		}
	}

	e := newFuncEmitter(args)
	for _, op := range body.Operations() {
		lower, ok := table.ops[op.Name()]
		if !ok {
			return fmt.Errorf("operation %s has no lowering", op.Name())
		}
		if err := lower(e, op); err != nil {
			return err
		}
	}

	typeIdx := wm.typeIndex(funcType{params: params, results: results})
	funcIdx := wm.addFunction(typeIdx, e.body())
	if !ir.IsPrivateSymbol(fn) {
		wm.addExport(name, funcIdx)
	}
	return nil
}

func valTypes(types []ir.Type) ([]byte, error) {
	if len(types) == 0 {
		return nil, nil
	}
	out := make([]byte, len(types))
	for i, t := range types {
		vt, err := valType(t)
		if err != nil {
			return nil, err
		}
		out[i] = vt
	}
	return out, nil
}
