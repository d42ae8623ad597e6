package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrefersExactRegisteredPath(t *testing.T) {
	l := NewLoader()
	l.AddFile("math.clou", "exports.add = function(a,b){return a+b;};")

	resolved, err := l.Resolve("math.clou", "")
	require.NoError(t, err)
	assert.Equal(t, "math.clou", resolved)
}

func TestResolveAppendsClouSuffix(t *testing.T) {
	l := NewLoader()
	l.AddFile("math.clou", "exports.x = 1;")

	resolved, err := l.Resolve("math", "")
	require.NoError(t, err)
	assert.Equal(t, "math.clou", resolved)
}

func TestResolveJoinsUnderCurrentDir(t *testing.T) {
	l := NewLoader()
	l.AddFile("lib/math.clou", "exports.x = 1;")

	resolved, err := l.Resolve("math.clou", "lib")
	require.NoError(t, err)
	assert.Equal(t, "lib/math.clou", resolved)
}

func TestResolveJoinsUnderCurrentDirWithSuffix(t *testing.T) {
	l := NewLoader()
	l.AddFile("lib/math.clou", "exports.x = 1;")

	resolved, err := l.Resolve("math", "lib")
	require.NoError(t, err)
	assert.Equal(t, "lib/math.clou", resolved)
}

func TestResolveUnknownPathIsError(t *testing.T) {
	l := NewLoader()
	_, err := l.Resolve("nope", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve module")
}

func TestSourceReturnsRegisteredTextWithoutDisk(t *testing.T) {
	l := NewLoader()
	l.AddFile("a.clou", "exports.v = 1;")

	src, err := l.Source("a.clou")
	require.NoError(t, err)
	assert.Equal(t, "exports.v = 1;", src)
}

func TestCacheIsPopulatedBeforeExecutionObservesSameObject(t *testing.T) {
	l := NewLoader()
	type exportsStub struct{ v int }
	exports := &exportsStub{}

	_, ok := l.Cached("a.clou")
	assert.False(t, ok)

	l.Cache("a.clou", exports)

	// a require() that reenters while the module body is still running
	// (a cyclic require) must see the very same object, not a copy.
	exports.v = 1
	cached, ok := l.Cached("a.clou")
	require.True(t, ok)
	assert.Same(t, exports, cached)
	assert.Equal(t, 1, cached.(*exportsStub).v)
}

func TestClearCacheDropsAllEntries(t *testing.T) {
	l := NewLoader()
	l.Cache("a.clou", "exports-a")
	l.Cache("b.clou", "exports-b")

	l.ClearCache()

	_, ok := l.Cached("a.clou")
	assert.False(t, ok)
	_, ok = l.Cached("b.clou")
	assert.False(t, ok)
}

func TestDirReturnsContainingDirectory(t *testing.T) {
	assert.Equal(t, "lib", Dir("lib/math.clou"))
	assert.Equal(t, ".", Dir("math.clou"))
}
