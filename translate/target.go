package translate

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// TargetContext owns the runtime that lowered modules are compiled
// into. Close it when every module produced inside it is done.
type TargetContext struct {
	runtime wazero.Runtime
}

// NewTargetContext creates a target context backed by a fresh runtime.
func NewTargetContext(ctx context.Context) (*TargetContext, error) {
	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())
	return &TargetContext{runtime: runtime}, nil
}

// Runtime exposes the underlying wazero runtime.
func (tc *TargetContext) Runtime() wazero.Runtime {
	return tc.runtime
}

// Close releases the runtime together with every module compiled in it.
func (tc *TargetContext) Close(ctx context.Context) error {
	return tc.runtime.Close(ctx)
}

// TargetModule is a lowered, compiled module ready to instantiate.
type TargetModule struct {
	tc       *TargetContext
	compiled wazero.CompiledModule
	binary   []byte
}

// Binary returns the encoded target binary the module was compiled
// from.
func (tm *TargetModule) Binary() []byte {
	return tm.binary
}

// Compiled returns the compiled module.
func (tm *TargetModule) Compiled() wazero.CompiledModule {
	return tm.compiled
}

// Instantiate creates a runnable instance of the module inside its
// target context.
func (tm *TargetModule) Instantiate(ctx context.Context) (api.Module, error) {
	return tm.tc.runtime.InstantiateModule(ctx, tm.compiled, wazero.NewModuleConfig())
}

// Close releases the compiled module. The owning target context's
// Close also covers it.
func (tm *TargetModule) Close(ctx context.Context) error {
	return tm.compiled.Close(ctx)
}
