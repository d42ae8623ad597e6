package interp

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"clou/internal/cerrors"
	"clou/internal/lexer"
	"clou/internal/object"
	"clou/internal/parser"
)

// defineBuiltins installs the global native functions: print and len
// (pure, stateless), clock (wall time), and require (stateful — it
// drives the module loader and this same Interpreter to execute a
// module's body, which is why it lives here instead of in a standalone
// builtins package with no access to Interpreter).
func (it *Interpreter) defineBuiltins() {
	it.Globals.Define("print", &object.NativeFunction{
		Name: "print", Arity: -1,
		Fn: func(args []any) (any, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = object.Stringify(a)
			}
			fmt.Fprintln(it.out, strings.Join(parts, " "))
			return nil, nil
		},
	}, true)

	it.Globals.Define("len", &object.NativeFunction{
		Name: "len", Arity: 1,
		Fn: func(args []any) (any, error) {
			switch v := args[0].(type) {
			case string:
				return float64(len(v)), nil
			case *object.Array:
				return float64(len(v.Elements)), nil
			case *object.Object:
				return float64(len(v.Keys())), nil
			default:
				return nil, cerrors.NewRuntimeError("len() does not accept %s", object.TypeName(v))
			}
		},
	}, true)

	it.Globals.Define("clock", &object.NativeFunction{
		Name: "clock", Arity: 0,
		Fn: func(args []any) (any, error) {
			return float64(time.Now().UnixNano()) / 1e9, nil
		},
	}, true)

	it.Globals.Define("require", &object.NativeFunction{
		Name: "require", Arity: 1,
		Fn: func(args []any) (any, error) {
			path, ok := args[0].(string)
			if !ok {
				return nil, cerrors.NewRuntimeError("require() argument must be a string")
			}
			return it.require(path)
		},
	}, true)
}

// require implements spec.md's module system: resolve path relative to
// the currently executing module, return the cached exports object if
// this module has already been (or is currently being) loaded, or else
// cache a fresh exports object *before* running the module body so a
// cyclic require observes the partially-populated object instead of
// looping forever, then run the body in a dedicated module environment
// and return the same exports object the body mutated.
func (it *Interpreter) require(path string) (any, error) {
	currentDir := it.currentModuleDir()
	resolved, err := it.loader.Resolve(path, currentDir)
	if err != nil {
		return nil, err
	}

	if cached, ok := it.loader.Cached(resolved); ok {
		return cached, nil
	}

	source, err := it.loader.Source(resolved)
	if err != nil {
		return nil, err
	}

	exports := object.NewObject()
	it.loader.Cache(resolved, exports)

	lx := lexer.New(source)
	toks, lexErrs := lx.Scan()
	if len(lexErrs) > 0 {
		return nil, lexErrs[0]
	}

	ps := parser.New(toks)
	prog, parseErrs := ps.Parse()
	if len(parseErrs) > 0 {
		return nil, parseErrs[0]
	}

	moduleEnv := object.NewChild(it.Globals)
	moduleEnv.SetModuleID(resolved)
	moduleEnv.Define("exports", exports, false)
	moduleEnv.Define("__dirname", filepath.Dir(resolved), true)
	moduleEnv.Define("__filename", resolved, true)

	prevEnv := it.env
	it.env = moduleEnv
	defer func() { it.env = prevEnv }()

	for _, stmt := range prog.Stmts {
		if err := it.execStmt(stmt); err != nil {
			return nil, err
		}
	}

	return exports, nil
}

// currentModuleDir returns the directory require() should resolve
// relative paths against: the nearest enclosing module's directory, or
// the entry script's own directory (it.scriptDir) when the call is made
// from top-level script code rather than from inside a required module.
func (it *Interpreter) currentModuleDir() string {
	if id := it.env.ModuleID(); id != "" {
		return filepath.Dir(id)
	}
	return it.scriptDir
}
