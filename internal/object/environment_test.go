package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentGetWalksParentChain(t *testing.T) {
	global := NewEnvironment()
	global.Define("x", 1.0, false)
	child := NewChild(global)

	v, ok := child.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestEnvironmentDefineShadowsOuterScope(t *testing.T) {
	global := NewEnvironment()
	global.Define("x", 1.0, false)
	child := NewChild(global)
	child.Define("x", 2.0, false)

	v, _ := child.Get("x")
	assert.Equal(t, 2.0, v)
	outer, _ := global.Get("x")
	assert.Equal(t, 1.0, outer)
}

func TestEnvironmentAssignRewritesNearestOwningScope(t *testing.T) {
	global := NewEnvironment()
	global.Define("x", 1.0, false)
	child := NewChild(global)

	require.NoError(t, child.Assign("x", 2.0))
	v, _ := global.Get("x")
	assert.Equal(t, 2.0, v)
}

func TestEnvironmentAssignUndefinedIsError(t *testing.T) {
	env := NewEnvironment()
	err := env.Assign("nope", 1.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'nope'")
}

func TestEnvironmentAssignConstIsError(t *testing.T) {
	env := NewEnvironment()
	env.Define("PI", 3.14, true)
	err := env.Assign("PI", 4.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot reassign const variable 'PI'")
}

func TestModuleIDWalksToNearestMarkedAncestor(t *testing.T) {
	globals := NewEnvironment()
	assert.Equal(t, "", globals.ModuleID())

	moduleRoot := NewChild(globals)
	moduleRoot.SetModuleID("/mods/math.clou")
	callFrame := NewChild(moduleRoot)

	assert.Equal(t, "/mods/math.clou", callFrame.ModuleID())
	// a plain top-level call frame never inherits a module id it wasn't given
	topLevelFrame := NewChild(globals)
	assert.Equal(t, "", topLevelFrame.ModuleID())
}
