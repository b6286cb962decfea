package scriq

import (
	"maps"
	"slices"
)

// Reserved names are control-flow keywords and never hold variables.
var reservedNames = map[string]struct{}{
	"break":    {},
	"continue": {},
	"return":   {},
}

// IsReservedName reports whether name is a control-flow keyword.
func IsReservedName(name string) bool {
	_, ok := reservedNames[name]
	return ok
}

// Env is the flat variable table shared by one evaluation. Scripts have no
// block scope: every assignment lands here. Env is not safe for concurrent use.
type Env struct {
	values map[string]Value
}

func NewEnv() *Env {
	return &Env{values: make(map[string]Value)}
}

// NewEnvFrom seeds an environment with a copy of vars.
func NewEnvFrom(vars map[string]Value) *Env {
	env := NewEnv()
	for name, val := range vars {
		env.values[name] = val
	}
	return env
}

func (e *Env) Get(name string) (Value, bool) {
	val, ok := e.values[name]
	return val, ok
}

// Set binds name to val. Reserved names are rejected.
func (e *Env) Set(name string, val Value) error {
	if IsReservedName(name) {
		return newError(FaultTypeMismatch, "cannot assign to reserved name %q", name)
	}
	e.values[name] = val
	return nil
}

func (e *Env) Delete(name string) {
	delete(e.values, name)
}

func (e *Env) Len() int { return len(e.values) }

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.values))
}

// Snapshot returns a copy of the bindings.
func (e *Env) Snapshot() map[string]Value {
	return maps.Clone(e.values)
}

// Clear removes every binding.
func (e *Env) Clear() {
	clear(e.values)
}
