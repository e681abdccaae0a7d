package menuopts

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Function represents a callable registered against evaluators.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom functions keyed by name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("menuopts: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("menuopts: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("menuopts: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("menuopts: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("menuopts: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry configures the rule evaluators to use registry.
func WithFunctionRegistry(registry *FunctionRegistry) ServiceOption {
	return func(cfg *serviceConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for rule expressions.
func WithCustomFunction(name string, fn Function) ServiceOption {
	return func(cfg *serviceConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.functions[strings.ToLower(name)]
	return ok
}

// BuiltinFunctions returns a registry preloaded with helpers commonly used in
// delivery rules: has_meta(metadata, key), lower(s) and one_of(value, ...candidates).
func BuiltinFunctions() *FunctionRegistry {
	registry := NewFunctionRegistry()
	_ = registry.Register("has_meta", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("menuopts: has_meta expects 2 arguments, got %d", len(args))
		}
		meta, ok := args[0].(map[string]any)
		if !ok {
			return false, nil
		}
		key, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("menuopts: has_meta key must be a string")
		}
		_, found := meta[key]
		return found, nil
	})
	_ = registry.Register("lower", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("menuopts: lower expects 1 argument, got %d", len(args))
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("menuopts: lower argument must be a string")
		}
		return strings.ToLower(s), nil
	})
	_ = registry.Register("one_of", func(args ...any) (any, error) {
		if len(args) == 0 {
			return false, nil
		}
		for _, candidate := range args[1:] {
			if fmt.Sprint(candidate) == fmt.Sprint(args[0]) {
				return true, nil
			}
		}
		return false, nil
	})
	return registry
}
