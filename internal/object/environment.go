package object

import "clou/internal/cerrors"

// Environment is a lexical scope frame: a binding table plus a link to
// the enclosing scope. Grounded on sam-decook-lox's Environment, but with
// Get taking a pointer receiver throughout (the teacher's Get used a
// value receiver, which is harmless only because Environment held no
// mutable fields beyond the map — Define/Assign already needed pointers,
// so Get gets one too for consistency).
type Environment struct {
	parent   *Environment
	values   map[string]any
	consts   map[string]bool
	moduleID string // set only on the root environment require() creates for a module
}

// NewEnvironment creates a top-level environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]any), consts: make(map[string]bool)}
}

// NewChild creates an environment enclosed by e.
func NewChild(e *Environment) *Environment {
	return &Environment{parent: e, values: make(map[string]any), consts: make(map[string]bool)}
}

// Parent returns e's enclosing environment, or nil at the top level.
func (e *Environment) Parent() *Environment { return e.parent }

// Define binds name to value in e's own scope, shadowing any outer
// binding of the same name. isConst marks the binding as reassignment-proof.
func (e *Environment) Define(name string, value any, isConst bool) {
	e.values[name] = value
	e.consts[name] = isConst
}

// Get resolves name by walking from e outward through enclosing scopes.
func (e *Environment) Get(name string) (any, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign rewrites an existing binding of name in the nearest enclosing
// scope that defines it. It reports a *cerrors.RuntimeError if name is
// undefined or bound const.
func (e *Environment) Assign(name string, value any) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			if env.consts[name] {
				return cerrors.NewRuntimeError("Cannot reassign const variable '%s'", name)
			}
			env.values[name] = value
			return nil
		}
	}
	return cerrors.NewRuntimeError("Undefined variable '%s'", name)
}

// SetModuleID marks e as the root environment of the module identified by
// id. Called once, on the environment require() creates before executing
// a module's body.
func (e *Environment) SetModuleID(id string) { e.moduleID = id }

// ModuleID returns the module a closure rooted at e belongs to, by
// walking outward until it finds the environment SetModuleID marked.
// Returns "" for closures rooted at the top-level script environment,
// which is never a module root.
func (e *Environment) ModuleID() string {
	for env := e; env != nil; env = env.parent {
		if env.moduleID != "" {
			return env.moduleID
		}
	}
	return ""
}

// AncestorDefining returns the environment in e's parent chain (including
// e itself) that owns the binding for name. Returns nil if name is
// unbound anywhere.
func (e *Environment) AncestorDefining(name string) *Environment {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			return env
		}
	}
	return nil
}
