// Package object defines Clou's runtime value representation and the
// lexical environment that binds names to values.
//
// Values are represented the way sam-decook-lox's object.go does it — a
// small tagged set of concrete Go types passed around as `any` rather
// than a boxed interface with a Type() method — generalized with Array,
// Object, Class, and Instance to cover spec.md §5's full value set.
package object

import (
	"fmt"
	"strconv"
	"strings"
)

// Array is a Clou array: an ordered, mutable, growable value list.
type Array struct {
	Elements []any
}

// Object is a Clou object literal: an insertion-ordered string-keyed map.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Get returns the value bound to key and whether it was present.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set binds key to value, appending key to the insertion order if new.
func (o *Object) Set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Function is a user-defined Clou function or method value: an AST body
// closed over the environment active at its definition site.
type Function struct {
	Name      string
	Params    []Param
	Body      any // []ast.Stmt, typed any to avoid an object->ast import cycle
	Closure   *Environment
	IsInit    bool // true for a method literally named "init"
	BoundThis *Instance
}

// Param mirrors ast.Param without importing the ast package.
type Param struct {
	Name    string
	Default any // ast.Expr, or nil
	Rest    bool
}

// Bind returns a copy of the function with this bound to instance, used
// when a method is looked up off an instance so calls to `this` inside
// the method body resolve correctly.
func (f *Function) Bind(instance *Instance) *Function {
	bound := *f
	bound.BoundThis = instance
	return &bound
}

// Class is a Clou class: a method table plus an optional superclass link.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

// FindMethod looks up name on c, then walks the superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if fn, ok := c.Methods[name]; ok {
		return fn, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Instance is an instantiated Class with its own field set.
type Instance struct {
	Class  *Class
	Fields map[string]any
}

// NewInstance creates a zero-field Instance of class.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]any)}
}

// Get resolves obj.name: an instance field first, then a bound method.
func (i *Instance) Get(name string) (any, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, ok
	}
	if fn, ok := i.Class.FindMethod(name); ok {
		return fn.Bind(i), true
	}
	return nil, false
}

// Set assigns obj.name = value, always as an instance field.
func (i *Instance) Set(name string, value any) {
	i.Fields[name] = value
}

// NativeFunction is a builtin implemented in Go; Arity of -1 means variadic.
type NativeFunction struct {
	Name  string
	Arity int
	Fn    func(args []any) (any, error)
}

// IsTruthy implements Clou's truthiness rule: null, false, the number 0,
// and the empty string are falsy; everything else is truthy.
func IsTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// Equals implements spec.md's equality rule: same-type value comparison,
// no coercion across types, reference identity for arrays/objects/
// instances.
func Equals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case *Array:
		y, ok := b.(*Array)
		return ok && x == y
	case *Object:
		y, ok := b.(*Object)
		return ok && x == y
	case *Instance:
		y, ok := b.(*Instance)
		return ok && x == y
	case *Class:
		y, ok := b.(*Class)
		return ok && x == y
	case *Function:
		y, ok := b.(*Function)
		return ok && x == y
	default:
		return false
	}
}

// Stringify renders v the way `print` and string concatenation do.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(t)
	case string:
		return t
	case *Array:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = Stringify(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Object:
		parts := make([]string, 0, len(t.keys))
		for _, k := range t.Keys() {
			v, _ := t.Get(k)
			parts = append(parts, fmt.Sprintf("%s: %s", k, Stringify(v)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Function:
		if t.Name == "" {
			return "<function>"
		}
		return fmt.Sprintf("<function %s>", t.Name)
	case *NativeFunction:
		return fmt.Sprintf("<native function %s>", t.Name)
	case *Class:
		return fmt.Sprintf("<class %s>", t.Name)
	case *Instance:
		return fmt.Sprintf("<%s instance>", t.Class.Name)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// formatNumber renders a float64 the way Clou source would write it:
// integral values drop the trailing ".0".
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// TypeName returns the Clou-level type name of v, used in error messages.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Array:
		return "array"
	case *Object:
		return "object"
	case *Function, *NativeFunction:
		return "function"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	default:
		return "unknown"
	}
}
