package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clou/internal/lexer"
	"clou/internal/parser"
)

// run lexes, parses and executes src against a fresh Interpreter, returning
// everything print() wrote and any error Run produced.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	toks, lexErrs := lexer.New(src).Scan()
	require.Empty(t, lexErrs)
	prog, parseErrs := parser.New(toks).Parse()
	require.Empty(t, parseErrs)

	var buf bytes.Buffer
	it := New(&buf)
	err := it.Run(prog, "")
	return buf.String(), err
}

func TestClosureCapturesEnclosingVariable(t *testing.T) {
	out, err := run(t, `
		function makeCounter() {
			let count = 0;
			function increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		let counter = makeCounter();
		print(counter());
		print(counter());
		print(counter());
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestClassSingleInheritanceAndSuperCall(t *testing.T) {
	out, err := run(t, `
		class Animal {
			function init(name) { this.name = name; }
			function speak() { return this.name + " makes a sound"; }
		}
		class Dog extends Animal {
			function speak() { return super.speak() + ", specifically barks"; }
		}
		let d = new Dog("Rex");
		print(d.speak());
	`)
	require.NoError(t, err)
	assert.Equal(t, "Rex makes a sound, specifically barks\n", out)
}

func TestConstReassignmentIsRuntimeError(t *testing.T) {
	_, err := run(t, `const x = 1; x = 2;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot reassign const variable 'x'")
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print(doesNotExist);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'doesNotExist'")
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `print(1 / 0);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Division by zero")
}

func TestArrayIndexOutOfBoundsIsRuntimeError(t *testing.T) {
	_, err := run(t, `let a = [1, 2, 3]; print(a[5]);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Array index out of bounds")
}

func TestArrayGrowsExactlyAtLength(t *testing.T) {
	out, err := run(t, `
		let a = [1, 2];
		a[2] = 3;
		print(a);
	`)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]\n", out)
}

func TestArrayWriteFarBeyondLengthFillsNulls(t *testing.T) {
	out, err := run(t, `
		let a = [1, 2];
		a[4] = "x";
		print(a);
	`)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, null, null, x]\n", out)
}

func TestArrayNegativeIndexAssignIsError(t *testing.T) {
	_, err := run(t, `let a = [1, 2]; a[-1] = 3;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Array index out of bounds")
}

func TestObjectIndexMissingKeyIsRuntimeError(t *testing.T) {
	_, err := run(t, `let o = {x: 1}; print(o["y"]);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Object property not found")
}

func TestCallingNonCallableIsExactError(t *testing.T) {
	_, err := run(t, `let x = 5; x();`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes")
}

func TestObjectPropertyMissOnPlainObjectReturnsPropertyName(t *testing.T) {
	out, err := run(t, `
		let obj = {name: "Ada"};
		print(obj.age);
	`)
	require.NoError(t, err)
	assert.Equal(t, "age\n", out)
}

func TestObjectPrintPreservesInsertionOrder(t *testing.T) {
	out, err := run(t, `
		let o = {z: 1, a: 2, m: 3};
		print(o);
	`)
	require.NoError(t, err)
	assert.Equal(t, "{z: 1, a: 2, m: 3}\n", out)
}

func TestRequireReturnsSameExportsObjectOnRepeatCalls(t *testing.T) {
	out, err := runWithModules(t, `
		let m1 = require("math");
		let m2 = require("math");
		print(m1 == m2);
		print(m1.add(2, 3));
	`, map[string]string{
		"math.clou": `exports.add = function(a, b) { return a + b; };`,
	})
	require.NoError(t, err)
	assert.Equal(t, "true\n5\n", out)
}

func TestCircularRequireProducesDocumentedValue(t *testing.T) {
	out, err := runWithModules(t, `
		let a = require("a");
		print("Value: " + a.getValue());
	`, map[string]string{
		"a.clou": `
			let b = require("b");
			exports.label = "A";
			exports.getValue = function() {
				return exports.label + b.getValue();
			};
		`,
		"b.clou": `
			let a = require("a");
			exports.label = "B";
			exports.getValue = function() {
				return exports.label + a.getValue();
			};
		`,
	})
	require.NoError(t, err)
	assert.Equal(t, "Value: AB\n", out)
}

func TestTopLevelRecursionIsUnaffectedByCycleSentinel(t *testing.T) {
	out, err := run(t, `
		function fib(n) {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		print(fib(10));
	`)
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestArrayAndStringBuiltinMethods(t *testing.T) {
	out, err := run(t, `
		let a = [1, 2, 3];
		a.push(4);
		print(a);
		print(a.length());
		print("hello world".includes("world"));
		print("a,b,c".split(","));
	`)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[1, 2, 3, 4]", lines[0])
	assert.Equal(t, "4", lines[1])
	assert.Equal(t, "true", lines[2])
	assert.Equal(t, "[a, b, c]", lines[3])
}

// runWithModules pre-registers files into the Interpreter's Loader before
// running src, so multi-module scenarios don't touch disk.
func runWithModules(t *testing.T, src string, files map[string]string) (string, error) {
	t.Helper()
	toks, lexErrs := lexer.New(src).Scan()
	require.Empty(t, lexErrs)
	prog, parseErrs := parser.New(toks).Parse()
	require.Empty(t, parseErrs)

	var buf bytes.Buffer
	it := New(&buf)
	for path, source := range files {
		it.Loader().AddFile(path, source)
	}
	err := it.Run(prog, "")
	return buf.String(), err
}
