package pass

import (
	"sort"
	"sync"

	"github.com/wippyai/ir-core/errors"
	"github.com/wippyai/ir-core/ir"
	"go.uber.org/zap"
)

// Pass transforms an operation tree in place. Run receives the anchor
// operation the pass was scheduled on.
type Pass interface {
	Name() string
	Run(op ir.Operation) error
}

// OptionsSetter is implemented by passes that accept the textual options
// blob of a pipeline entry such as "canonicalize{max-iterations=2}".
type OptionsSetter interface {
	SetOptions(options string) error
}

// Factory creates a fresh instance of a pass. The registry hands every
// Lookup caller its own instance so pass state never leaks between
// pipelines.
type Factory func() Pass

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)

	registerAllOnce sync.Once
)

// Register adds a pass factory under a unique name. Registering a name
// that is already taken fails.
func Register(name string, factory Factory) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		return errors.Registration(name, errors.InvalidInput(errors.PhaseRegistry, "pass name already registered"))
	}
	registry[name] = factory
	return nil
}

// Lookup instantiates the pass registered under the name.
func Lookup(name string) (Pass, bool) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Registered returns the sorted names of all registered passes.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterAll registers every built-in pass. The underlying registration
// is not repeatable, so it runs exactly once per process regardless of
// how many callers or goroutines invoke RegisterAll.
func RegisterAll() {
	registerAllOnce.Do(registerBuiltins)
}

// registerBuiltins performs the raw registrations. A second invocation
// would panic on the duplicate names; RegisterAll's once guard is what
// keeps that from ever happening.
func registerBuiltins() {
	builtins := []struct {
		name    string
		factory Factory
	}{
		{"canonicalize", func() Pass { return &canonicalizePass{maxIterations: defaultCanonicalizeIterations} }},
		{"cse", func() Pass { return &csePass{} }},
		{"symbol-dce", func() Pass { return &symbolDCEPass{} }},
		{"topological-sort", func() Pass { return &topologicalSortPass{} }},
	}
	for _, b := range builtins {
		if err := Register(b.name, b.factory); err != nil {
			panic("pass: built-in registration: " + err.Error())
		}
		Logger().Debug("registered built-in pass", zap.String("name", b.name))
	}
}
