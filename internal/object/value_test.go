package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTruthy(t *testing.T) {
	assert.False(t, IsTruthy(nil))
	assert.False(t, IsTruthy(false))
	assert.False(t, IsTruthy(0.0))
	assert.False(t, IsTruthy(""))
	assert.True(t, IsTruthy(true))
	assert.True(t, IsTruthy(1.0))
	assert.True(t, IsTruthy("x"))
	assert.True(t, IsTruthy(&Array{}))
}

func TestEqualsIsTypedNoCoercion(t *testing.T) {
	assert.True(t, Equals(1.0, 1.0))
	assert.False(t, Equals(1.0, "1"))
	assert.False(t, Equals(nil, false))
	assert.True(t, Equals(nil, nil))
}

func TestEqualsReferenceIdentityForContainers(t *testing.T) {
	a := &Array{Elements: []any{1.0}}
	b := &Array{Elements: []any{1.0}}
	assert.False(t, Equals(a, b), "distinct arrays with equal contents are not ==")
	assert.True(t, Equals(a, a))
}

func TestStringifyNumberDropsTrailingZero(t *testing.T) {
	assert.Equal(t, "8", Stringify(8.0))
	assert.Equal(t, "3.14159", Stringify(3.14159))
}

func TestStringifyArrayPreservesOrder(t *testing.T) {
	arr := &Array{Elements: []any{0.0, 1.0, 4.0, 9.0, 16.0}}
	assert.Equal(t, "[0, 1, 4, 9, 16]", Stringify(arr))
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("z", 1.0)
	o.Set("a", 2.0)
	o.Set("m", 3.0)
	assert.Equal(t, []string{"z", "a", "m"}, o.Keys())
}

func TestObjectSetExistingKeyDoesNotReorder(t *testing.T) {
	o := NewObject()
	o.Set("a", 1.0)
	o.Set("b", 2.0)
	o.Set("a", 99.0)
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	v, ok := o.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 99.0, v)
}

func TestClassFindMethodWalksSuperclassChain(t *testing.T) {
	base := &Class{Name: "A", Methods: map[string]*Function{"greet": {Name: "greet"}}}
	derived := &Class{Name: "B", Superclass: base, Methods: map[string]*Function{}}

	fn, ok := derived.FindMethod("greet")
	assert.True(t, ok)
	assert.Equal(t, "greet", fn.Name)

	_, ok = derived.FindMethod("missing")
	assert.False(t, ok)
}

func TestFunctionBindCreatesDistinctBoundCopy(t *testing.T) {
	fn := &Function{Name: "m"}
	inst1 := NewInstance(&Class{Name: "A"})
	inst2 := NewInstance(&Class{Name: "A"})

	b1 := fn.Bind(inst1)
	b2 := fn.Bind(inst2)

	assert.NotSame(t, b1, b2)
	assert.Same(t, inst1, b1.BoundThis)
	assert.Same(t, inst2, b2.BoundThis)
	assert.Nil(t, fn.BoundThis, "binding must not mutate the original function")
}

func TestInstanceGetPrefersFieldOverMethod(t *testing.T) {
	class := &Class{Name: "A", Methods: map[string]*Function{"n": {Name: "n"}}}
	inst := NewInstance(class)
	inst.Fields["n"] = "field value"

	v, ok := inst.Get("n")
	assert.True(t, ok)
	assert.Equal(t, "field value", v)
}
