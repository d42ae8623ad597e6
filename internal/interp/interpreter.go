// Package interp evaluates a Clou ast.Program by walking it directly,
// the way sam-decook-lox's evaluate.go/run.go do — except dispatch is a
// type switch inside Interpreter rather than an Evaluate/Run method
// attached to each node, which avoids an import cycle between ast and
// interp (the teacher's own ast.go declares those methods but its
// evaluate.go/run.go never actually implement the interface that
// promised, an inconsistency this package deliberately resolves one way
// instead of the other) and keeps every engine error a plain Go error
// instead of an os.Exit call.
package interp

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"clou/internal/ast"
	"clou/internal/cerrors"
	"clou/internal/module"
	"clou/internal/object"
	"clou/internal/token"
)

// Interpreter holds everything one Clou program run needs: the global
// and current environments, the module loader backing require(), the
// output sink print() writes to, and the per-module call stack used to
// break circular-require recursion.
type Interpreter struct {
	Globals   *object.Environment
	env       *object.Environment
	loader    *module.Loader
	out       io.Writer
	scriptDir string // directory of the entry script, for top-level require() calls

	// callStack tracks (moduleID, functionName) pairs currently executing,
	// so a module whose require cycle calls back into a function already
	// running on its own module's behalf short-circuits instead of
	// recursing forever. Keyed by moduleID; value is the set of function
	// names currently on that module's stack.
	callStack map[string]map[string]bool
}

// New creates an Interpreter with a fresh global environment, wiring in
// the builtins and an empty module loader. out receives everything
// print() writes; pass os.Stdout for a CLI, a bytes.Buffer for tests.
func New(out io.Writer) *Interpreter {
	it := &Interpreter{
		Globals:   object.NewEnvironment(),
		loader:    module.NewLoader(),
		out:       out,
		callStack: make(map[string]map[string]bool),
	}
	it.env = it.Globals
	it.defineBuiltins()
	return it
}

// Loader exposes the module loader, letting a CLI pre-register the
// entry script's own source under its path before Run executes it.
func (it *Interpreter) Loader() *module.Loader { return it.loader }

// Run executes prog's top-level statements against the interpreter's
// global environment. path identifies prog's own source file for
// require() resolution of relative paths; pass "" for a REPL line with
// no file of its own.
func (it *Interpreter) Run(prog *ast.Program, path string) error {
	if path != "" {
		it.scriptDir = filepath.Dir(path)
	}
	for _, stmt := range prog.Stmts {
		if err := it.execStmt(stmt); err != nil {
			if ret, ok := err.(*returnSignal); ok {
				_ = ret
				return cerrors.NewRuntimeError("return outside of a function")
			}
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (it *Interpreter) execStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := it.eval(s.Expr)
		return err

	case *ast.VarStmt:
		var value any
		if s.Init != nil {
			v, err := it.eval(s.Init)
			if err != nil {
				return err
			}
			value = v
		}
		it.env.Define(s.Name.Lexeme, value, s.IsConst)
		return nil

	case *ast.Block:
		return it.execBlock(s.Stmts, object.NewChild(it.env))

	case *ast.If:
		cond, err := it.eval(s.Condition)
		if err != nil {
			return err
		}
		if object.IsTruthy(cond) {
			return it.execStmt(s.Then)
		} else if s.Else != nil {
			return it.execStmt(s.Else)
		}
		return nil

	case *ast.While:
		for {
			cond, err := it.eval(s.Condition)
			if err != nil {
				return err
			}
			if !object.IsTruthy(cond) {
				return nil
			}
			if err := it.execStmt(s.Body); err != nil {
				return err
			}
		}

	case *ast.FunctionDecl:
		fn := it.makeFunction(s.Fn, it.env, false)
		it.env.Define(s.Fn.Name, fn, false)
		return nil

	case *ast.Return:
		var value any
		if s.Value != nil {
			v, err := it.eval(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}

	case *ast.ClassDecl:
		return it.execClassDecl(s)

	default:
		return cerrors.NewRuntimeError("unhandled statement type %T", stmt)
	}
}

func (it *Interpreter) execBlock(stmts []ast.Stmt, env *object.Environment) error {
	prev := it.env
	it.env = env
	defer func() { it.env = prev }()

	for _, stmt := range stmts {
		if err := it.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// execClassDecl implements the five-step environment dance spec.md §4.3
// describes: resolve the superclass, open a scope binding "super" only
// if there is one, build the method table closed over that scope, define
// the class in the *original* enclosing scope, then pop the "super"
// scope back off.
func (it *Interpreter) execClassDecl(s *ast.ClassDecl) error {
	var super *object.Class
	if s.Superclass != nil {
		v, ok := it.env.Get(s.Superclass.Name.Lexeme)
		if !ok {
			return cerrors.NewRuntimeErrorAt(s.Superclass.Name, "undefined superclass '%s'", s.Superclass.Name.Lexeme)
		}
		sc, ok := v.(*object.Class)
		if !ok {
			return cerrors.NewRuntimeErrorAt(s.Superclass.Name, "'%s' is not a class", s.Superclass.Name.Lexeme)
		}
		super = sc
	}

	methodEnv := it.env
	if super != nil {
		methodEnv = object.NewChild(it.env)
		methodEnv.Define("super", super, true)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, m := range s.Methods {
		fn := it.makeFunction(m.Fn, methodEnv, m.Fn.Name == "init")
		methods[m.Fn.Name] = fn
	}

	class := &object.Class{Name: s.Name.Lexeme, Superclass: super, Methods: methods}
	it.env.Define(s.Name.Lexeme, class, false)
	return nil
}

func (it *Interpreter) makeFunction(fn *ast.FunctionExpr, closure *object.Environment, isInit bool) *object.Function {
	params := make([]object.Param, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = object.Param{Name: p.Name.Lexeme, Default: p.Default, Rest: p.Rest}
	}
	return &object.Function{
		Name:    fn.Name,
		Params:  params,
		Body:    fn.Body,
		Closure: closure,
		IsInit:  isInit,
	}
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

func (it *Interpreter) eval(expr ast.Expr) (any, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Variable:
		v, ok := it.env.Get(e.Name.Lexeme)
		if !ok {
			return nil, cerrors.NewRuntimeErrorAt(e.Name, "Undefined variable '%s'", e.Name.Lexeme)
		}
		return v, nil

	case *ast.Grouping:
		return it.eval(e.Expr)

	case *ast.Unary:
		return it.evalUnary(e)

	case *ast.Binary:
		return it.evalBinary(e)

	case *ast.Logical:
		return it.evalLogical(e)

	case *ast.Assign:
		v, err := it.eval(e.Value)
		if err != nil {
			return nil, err
		}
		if err := it.env.Assign(e.Name.Lexeme, v); err != nil {
			return nil, annotateAt(err, e.Name)
		}
		return v, nil

	case *ast.Call:
		return it.evalCall(e)

	case *ast.Get:
		return it.evalGet(e)

	case *ast.Set:
		return it.evalSet(e)

	case *ast.This:
		v, ok := it.env.Get("this")
		if !ok {
			return nil, cerrors.NewRuntimeErrorAt(e.Keyword, "'this' used outside of a method")
		}
		return v, nil

	case *ast.Super:
		return it.evalSuper(e)

	case *ast.New:
		return it.evalNew(e)

	case *ast.Array:
		elems := make([]any, len(e.Elements))
		for i, el := range e.Elements {
			v, err := it.eval(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &object.Array{Elements: elems}, nil

	case *ast.Object:
		obj := object.NewObject()
		for _, entry := range e.Entries {
			v, err := it.eval(entry.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(entry.Key, v)
		}
		return obj, nil

	case *ast.Index:
		return it.evalIndex(e)

	case *ast.IndexAssign:
		return it.evalIndexAssign(e)

	case *ast.FunctionExpr:
		return it.makeFunction(e, it.env, false), nil

	default:
		return nil, cerrors.NewRuntimeError("unhandled expression type %T", expr)
	}
}

func (it *Interpreter) evalUnary(e *ast.Unary) (any, error) {
	right, err := it.eval(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Kind {
	case token.MINUS:
		n, ok := right.(float64)
		if !ok {
			return nil, cerrors.NewRuntimeErrorAt(e.Op, "operand of '-' must be a number, got %s", object.TypeName(right))
		}
		return -n, nil
	case token.BANG, token.NOT:
		return !object.IsTruthy(right), nil
	default:
		return nil, cerrors.NewRuntimeErrorAt(e.Op, "unknown unary operator '%s'", e.Op.Lexeme)
	}
}

func (it *Interpreter) evalLogical(e *ast.Logical) (any, error) {
	left, err := it.eval(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Kind == token.OR {
		if object.IsTruthy(left) {
			return left, nil
		}
	} else {
		if !object.IsTruthy(left) {
			return left, nil
		}
	}
	return it.eval(e.Right)
}

func (it *Interpreter) evalBinary(e *ast.Binary) (any, error) {
	left, err := it.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.EQUAL_EQUAL:
		return object.Equals(left, right), nil
	case token.BANG_EQUAL:
		return !object.Equals(left, right), nil
	}

	// `+` also means string concatenation; every other arithmetic
	// and comparison operator requires two numbers.
	if e.Op.Kind == token.PLUS {
		if ls, ok := left.(string); ok {
			return ls + object.Stringify(right), nil
		}
		if rs, ok := right.(string); ok {
			return object.Stringify(left) + rs, nil
		}
	}

	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if !lok || !rok {
		bad := left
		if lok {
			bad = right
		}
		return nil, cerrors.NewRuntimeErrorAt(e.Op, "operator '%s' requires numbers, got %s", e.Op.Lexeme, object.TypeName(bad))
	}

	switch e.Op.Kind {
	case token.PLUS:
		return ln + rn, nil
	case token.MINUS:
		return ln - rn, nil
	case token.STAR:
		return ln * rn, nil
	case token.SLASH:
		if rn == 0 {
			return nil, cerrors.NewRuntimeErrorAt(e.Op, "Division by zero")
		}
		return ln / rn, nil
	case token.PERCENT:
		if rn == 0 {
			return nil, cerrors.NewRuntimeErrorAt(e.Op, "Division by zero")
		}
		return math.Mod(ln, rn), nil
	case token.CARET:
		return math.Pow(ln, rn), nil
	case token.LESS:
		return ln < rn, nil
	case token.LESS_EQUAL:
		return ln <= rn, nil
	case token.GREATER:
		return ln > rn, nil
	case token.GREATER_EQUAL:
		return ln >= rn, nil
	default:
		return nil, cerrors.NewRuntimeErrorAt(e.Op, "unknown binary operator '%s'", e.Op.Lexeme)
	}
}

func annotateAt(err error, tok token.Token) error {
	if re, ok := err.(*cerrors.RuntimeError); ok && re.Tok.Line == 0 {
		re.Tok = tok
		return re
	}
	return err
}

func (it *Interpreter) evalGet(e *ast.Get) (any, error) {
	obj, err := it.eval(e.Object)
	if err != nil {
		return nil, err
	}
	return it.memberGet(obj, e.Name)
}

func (it *Interpreter) memberGet(obj any, name token.Token) (any, error) {
	switch o := obj.(type) {
	case *object.Instance:
		if v, ok := o.Get(name.Lexeme); ok {
			return v, nil
		}
		return nil, cerrors.NewRuntimeErrorAt(name, "undefined property '%s'", name.Lexeme)
	case *object.Object:
		if v, ok := o.Get(name.Lexeme); ok {
			return v, nil
		}
		// Non-standard, but this is the documented contract of the
		// engine: a miss on a plain object's dotted property returns the
		// property name itself rather than null.
		return name.Lexeme, nil
	case *object.Array:
		return it.arrayMethod(o, name.Lexeme)
	case string:
		return it.stringMethod(o, name.Lexeme)
	case float64:
		return it.numberMethod(o, name.Lexeme)
	case nil:
		return nil, cerrors.NewRuntimeErrorAt(name, "cannot read property '%s' of null", name.Lexeme)
	default:
		return nil, cerrors.NewRuntimeErrorAt(name, "cannot read property '%s' of %s", name.Lexeme, object.TypeName(obj))
	}
}

func (it *Interpreter) evalSet(e *ast.Set) (any, error) {
	obj, err := it.eval(e.Object)
	if err != nil {
		return nil, err
	}
	value, err := it.eval(e.Value)
	if err != nil {
		return nil, err
	}

	switch o := obj.(type) {
	case *object.Instance:
		o.Set(e.Name.Lexeme, value)
		return value, nil
	case *object.Object:
		o.Set(e.Name.Lexeme, value)
		return value, nil
	default:
		return nil, cerrors.NewRuntimeErrorAt(e.Name, "cannot set property '%s' on %s", e.Name.Lexeme, object.TypeName(obj))
	}
}

func (it *Interpreter) evalSuper(e *ast.Super) (any, error) {
	v, ok := it.env.Get("super")
	if !ok {
		return nil, cerrors.NewRuntimeErrorAt(e.Keyword, "'super' used outside of a subclass method")
	}
	super := v.(*object.Class)

	thisVal, ok := it.env.Get("this")
	if !ok {
		return nil, cerrors.NewRuntimeErrorAt(e.Keyword, "'super' used outside of a method")
	}
	instance := thisVal.(*object.Instance)

	fn, ok := super.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, cerrors.NewRuntimeErrorAt(e.Method, "undefined superclass method '%s'", e.Method.Lexeme)
	}
	return fn.Bind(instance), nil
}

func (it *Interpreter) evalNew(e *ast.New) (any, error) {
	v, ok := it.env.Get(e.ClassName.Lexeme)
	if !ok {
		return nil, cerrors.NewRuntimeErrorAt(e.ClassName, "undefined class '%s'", e.ClassName.Lexeme)
	}
	class, ok := v.(*object.Class)
	if !ok {
		return nil, cerrors.NewRuntimeErrorAt(e.ClassName, "'%s' is not a class", e.ClassName.Lexeme)
	}

	args := make([]any, len(e.Args))
	for i, a := range e.Args {
		av, err := it.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = av
	}

	instance := object.NewInstance(class)
	if init, ok := class.FindMethod("init"); ok {
		bound := init.Bind(instance)
		if _, err := it.callFunction(bound, args, e.Keyword); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (it *Interpreter) evalIndex(e *ast.Index) (any, error) {
	obj, err := it.eval(e.Object)
	if err != nil {
		return nil, err
	}
	idx, err := it.eval(e.Index)
	if err != nil {
		return nil, err
	}
	return it.indexGet(obj, idx, e.Bracket)
}

func (it *Interpreter) indexGet(obj, idx any, at token.Token) (any, error) {
	switch o := obj.(type) {
	case *object.Array:
		i, ok := idx.(float64)
		if !ok {
			return nil, cerrors.NewRuntimeErrorAt(at, "array index must be a number")
		}
		n := int(i)
		if n < 0 || n >= len(o.Elements) {
			return nil, cerrors.NewRuntimeErrorAt(at, "Array index out of bounds: %d (length %d)", n, len(o.Elements))
		}
		return o.Elements[n], nil
	case *object.Object:
		key, ok := idx.(string)
		if !ok {
			return nil, cerrors.NewRuntimeErrorAt(at, "object key must be a string")
		}
		v, ok := o.Get(key)
		if !ok {
			return nil, cerrors.NewRuntimeErrorAt(at, "Object property not found")
		}
		return v, nil
	case string:
		i, ok := idx.(float64)
		if !ok {
			return nil, cerrors.NewRuntimeErrorAt(at, "string index must be a number")
		}
		n := int(i)
		if n < 0 || n >= len(o) {
			return nil, cerrors.NewRuntimeErrorAt(at, "String index out of bounds: %d (length %d)", n, len(o))
		}
		return string(o[n]), nil
	default:
		return nil, cerrors.NewRuntimeErrorAt(at, "cannot index into %s", object.TypeName(obj))
	}
}

func (it *Interpreter) evalIndexAssign(e *ast.IndexAssign) (any, error) {
	obj, err := it.eval(e.Object)
	if err != nil {
		return nil, err
	}
	idx, err := it.eval(e.Index)
	if err != nil {
		return nil, err
	}
	value, err := it.eval(e.Value)
	if err != nil {
		return nil, err
	}

	switch o := obj.(type) {
	case *object.Array:
		i, ok := idx.(float64)
		if !ok {
			return nil, cerrors.NewRuntimeErrorAt(e.Bracket, "array index must be a number")
		}
		n := int(i)
		if n < 0 {
			return nil, cerrors.NewRuntimeErrorAt(e.Bracket, "Array index out of bounds: %d (length %d)", n, len(o.Elements))
		}
		for n >= len(o.Elements) {
			o.Elements = append(o.Elements, nil)
		}
		o.Elements[n] = value
		return value, nil
	case *object.Object:
		key, ok := idx.(string)
		if !ok {
			return nil, cerrors.NewRuntimeErrorAt(e.Bracket, "object key must be a string")
		}
		o.Set(key, value)
		return value, nil
	default:
		return nil, cerrors.NewRuntimeErrorAt(e.Bracket, "cannot index-assign into %s", object.TypeName(obj))
	}
}

// ---------------------------------------------------------------------
// Calls
// ---------------------------------------------------------------------

func (it *Interpreter) evalCall(e *ast.Call) (any, error) {
	callee, err := it.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]any, len(e.Args))
	for i, a := range e.Args {
		v, err := it.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case *object.Function:
		return it.callFunction(fn, args, e.Paren)
	case *object.NativeFunction:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, cerrors.NewRuntimeErrorAt(e.Paren, "%s expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
		}
		return fn.Fn(args)
	default:
		return nil, cerrors.NewRuntimeErrorAt(e.Paren, "Can only call functions and classes")
	}
}

// callFunction invokes fn with args in a fresh environment rooted at its
// closure. Excess arguments are ignored; missing trailing parameters
// fall back to their default expression (evaluated in the new call
// frame, so a default may reference earlier parameters) or null; a
// trailing rest parameter collects everything left over into an Array.
//
// Before running the body, it checks whether fn's closure belongs to a
// module environment (see object.Environment.ModuleID) and, if so,
// whether (moduleID, fn.Name) is already on that module's call stack —
// a require cycle re-entering a function still executing on its own
// module's behalf. If so it returns the empty-string sentinel instead of
// recursing, which is what lets circular requires terminate.
func (it *Interpreter) callFunction(fn *object.Function, args []any, at token.Token) (any, error) {
	moduleID := fn.Closure.ModuleID()
	if moduleID != "" {
		if it.callStack[moduleID] != nil && it.callStack[moduleID][fn.Name] {
			return moduleCycleSentinel, nil
		}
		if it.callStack[moduleID] == nil {
			it.callStack[moduleID] = make(map[string]bool)
		}
		it.callStack[moduleID][fn.Name] = true
		defer delete(it.callStack[moduleID], fn.Name)
	}

	callEnv := object.NewChild(fn.Closure)
	if fn.BoundThis != nil {
		callEnv.Define("this", fn.BoundThis, true)
	}

	if err := it.bindParams(fn, args, callEnv, at); err != nil {
		return nil, err
	}

	body, ok := fn.Body.([]ast.Stmt)
	if !ok {
		return nil, cerrors.NewRuntimeErrorAt(at, "malformed function body for '%s'", fn.Name)
	}

	err := it.execBlock(body, callEnv)
	if err == nil {
		if fn.IsInit {
			return fn.BoundThis, nil
		}
		return nil, nil
	}
	if ret, ok := err.(*returnSignal); ok {
		if fn.IsInit {
			return fn.BoundThis, nil
		}
		return ret.value, nil
	}
	return nil, err
}

func (it *Interpreter) bindParams(fn *object.Function, args []any, callEnv *object.Environment, at token.Token) error {
	for i, p := range fn.Params {
		if p.Rest {
			var rest []any
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			callEnv.Define(p.Name, &object.Array{Elements: rest}, false)
			return nil
		}
		// An explicit `null` argument for a defaulted parameter falls
		// through to the default expression rather than binding null — a
		// source quirk spec.md §9 documents as worth preserving.
		suppliedAndUsable := i < len(args) && !(p.Default != nil && args[i] == nil)
		switch {
		case suppliedAndUsable:
			callEnv.Define(p.Name, args[i], false)
		case p.Default != nil:
			prevEnv := it.env
			it.env = callEnv
			v, err := it.eval(p.Default.(ast.Expr))
			it.env = prevEnv
			if err != nil {
				return err
			}
			callEnv.Define(p.Name, v, false)
		default:
			callEnv.Define(p.Name, nil, false)
		}
	}
	return nil
}

// ---------------------------------------------------------------------
// Builtin member methods (arrays, strings)
// ---------------------------------------------------------------------

func (it *Interpreter) arrayMethod(arr *object.Array, name string) (any, error) {
	native := func(fn func(args []any) (any, error), arity int) *object.NativeFunction {
		return &object.NativeFunction{Name: name, Arity: arity, Fn: fn}
	}

	switch name {
	case "length":
		return native(func(args []any) (any, error) {
			return float64(len(arr.Elements)), nil
		}, 0), nil
	case "push":
		return native(func(args []any) (any, error) {
			arr.Elements = append(arr.Elements, args...)
			return float64(len(arr.Elements)), nil
		}, -1), nil
	case "pop":
		return native(func(args []any) (any, error) {
			if len(arr.Elements) == 0 {
				return nil, nil
			}
			last := arr.Elements[len(arr.Elements)-1]
			arr.Elements = arr.Elements[:len(arr.Elements)-1]
			return last, nil
		}, 0), nil
	case "slice":
		return native(func(args []any) (any, error) {
			start, end := sliceBounds(args, len(arr.Elements))
			out := make([]any, end-start)
			copy(out, arr.Elements[start:end])
			return &object.Array{Elements: out}, nil
		}, -1), nil
	case "join":
		return native(func(args []any) (any, error) {
			sep := ","
			if len(args) > 0 {
				s, ok := args[0].(string)
				if !ok {
					return nil, cerrors.NewRuntimeError("join separator must be a string")
				}
				sep = s
			}
			parts := make([]string, len(arr.Elements))
			for i, e := range arr.Elements {
				parts[i] = object.Stringify(e)
			}
			return strings.Join(parts, sep), nil
		}, -1), nil
	default:
		return nil, cerrors.NewRuntimeError("array has no method '%s'", name)
	}
}

func (it *Interpreter) stringMethod(s string, name string) (any, error) {
	native := func(fn func(args []any) (any, error), arity int) *object.NativeFunction {
		return &object.NativeFunction{Name: name, Arity: arity, Fn: fn}
	}

	switch name {
	case "length":
		return float64(len(s)), nil
	case "includes":
		return native(func(args []any) (any, error) {
			if len(args) != 1 {
				return nil, cerrors.NewRuntimeError("includes expects 1 argument")
			}
			sub, ok := args[0].(string)
			if !ok {
				return nil, cerrors.NewRuntimeError("includes argument must be a string")
			}
			return strings.Contains(s, sub), nil
		}, 1), nil
	case "split":
		return native(func(args []any) (any, error) {
			sep := ""
			if len(args) > 0 {
				v, ok := args[0].(string)
				if !ok {
					return nil, cerrors.NewRuntimeError("split separator must be a string")
				}
				sep = v
			}
			var parts []string
			if sep == "" {
				parts = strings.Split(s, "")
			} else {
				parts = strings.Split(s, sep)
			}
			elems := make([]any, len(parts))
			for i, p := range parts {
				elems[i] = p
			}
			return &object.Array{Elements: elems}, nil
		}, -1), nil
	case "slice":
		return native(func(args []any) (any, error) {
			start, end := sliceBounds(args, len(s))
			return s[start:end], nil
		}, -1), nil
	default:
		return nil, cerrors.NewRuntimeError("string has no method '%s'", name)
	}
}

// numberMethod dispatches a Clou number's virtual methods (spec.md §4.3:
// just toFixed(digits)).
func (it *Interpreter) numberMethod(n float64, name string) (any, error) {
	native := func(fn func(args []any) (any, error), arity int) *object.NativeFunction {
		return &object.NativeFunction{Name: name, Arity: arity, Fn: fn}
	}

	switch name {
	case "toFixed":
		return native(func(args []any) (any, error) {
			digits := 0
			if len(args) > 0 {
				d, ok := args[0].(float64)
				if !ok {
					return nil, cerrors.NewRuntimeError("toFixed argument must be a number")
				}
				digits = int(d)
			}
			return fmt.Sprintf("%.*f", digits, n), nil
		}, -1), nil
	default:
		return nil, cerrors.NewRuntimeError("number has no method '%s'", name)
	}
}

func sliceBounds(args []any, length int) (int, int) {
	start, end := 0, length
	if len(args) > 0 {
		if v, ok := args[0].(float64); ok {
			start = clampIndex(int(v), length)
		}
	}
	if len(args) > 1 {
		if v, ok := args[1].(float64); ok {
			end = clampIndex(int(v), length)
		}
	}
	if end < start {
		end = start
	}
	return start, end
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}
