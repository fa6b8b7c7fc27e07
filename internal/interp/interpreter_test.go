package interp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdcook/loxi/internal/diag"
	"github.com/sdcook/loxi/internal/interp"
	"github.com/sdcook/loxi/internal/parser"
	"github.com/sdcook/loxi/internal/resolver"
	"github.com/sdcook/loxi/internal/scanner"
)

// run scans, parses, resolves, and interprets src, returning everything
// printed to stdout and any runtime error.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	var diagBuf strings.Builder
	reporter := diag.NewCollectingReporter(&diagBuf)
	reporter.NoColor = true

	toks := scanner.New([]byte(src), reporter).Scan()
	require.False(t, reporter.HadError(), "scan failed for %q: %s", src, diagBuf.String())

	stmts := parser.New(toks, reporter).ParseProgram()
	require.False(t, reporter.HadError(), "parse failed for %q: %s", src, diagBuf.String())

	res := resolver.New(reporter)
	res.Resolve(stmts)
	require.False(t, reporter.HadError(), "resolve failed for %q: %s", src, diagBuf.String())

	var out strings.Builder
	it := interp.New(&out, res.Locals)
	err := it.Interpret(stmts)
	return out.String(), err
}

func TestInterpretArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestInterpretStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestInterpretNumberFormattingDropsTrailingZero(t *testing.T) {
	out, err := run(t, `print 42.0; print 42.5;`)
	require.NoError(t, err)
	assert.Equal(t, "42\n42.5\n", out)
}

func TestInterpretMixedAdditionIsRuntimeError(t *testing.T) {
	_, err := run(t, `print 1 + "2";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands must be two numbers or two strings.")
}

func TestInterpretClosureCapturesDeclarationTimeEnvironment(t *testing.T) {
	out, err := run(t, `
fun makeCounter() {
  var count = 0;
  fun counter() {
    count = count + 1;
    return count;
  }
  return counter;
}
var c = makeCounter();
print c();
print c();
print c();
`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInterpretRecursionViaClosure(t *testing.T) {
	out, err := run(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`)
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestInterpretClassInstantiationAndMethods(t *testing.T) {
	out, err := run(t, `
class Greeter {
  init(name) {
    this.name = name;
  }
  greet() {
    return "hello " + this.name;
  }
}
var g = Greeter("world");
print g.greet();
`)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestInterpretInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
class Animal {
  speak() {
    return "...";
  }
}
class Dog < Animal {
  speak() {
    return super.speak() + " woof";
  }
}
print Dog().speak();
`)
	require.NoError(t, err)
	assert.Equal(t, "... woof\n", out)
}

func TestInterpretInitializerAlwaysReturnsThis(t *testing.T) {
	out, err := run(t, `
class Box {
  init() {
    return;
  }
}
var b = Box();
print b;
`)
	require.NoError(t, err)
	assert.Equal(t, "Box instance\n", out)
}

func TestInterpretUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print nope;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'nope'.")
}

func TestInterpretCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `
var x = 1;
x();
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes.")
}

func TestInterpretWrongArityIsRuntimeError(t *testing.T) {
	_, err := run(t, `
fun f(a, b) { return a + b; }
f(1);
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1.")
}

func TestInterpretForLoopSum(t *testing.T) {
	out, err := run(t, `
var sum = 0;
for (var i = 1; i <= 5; i = i + 1) {
  sum = sum + i;
}
print sum;
`)
	require.NoError(t, err)
	assert.Equal(t, "15\n", out)
}

func TestInterpretWhileLoopAndLogicalShortCircuit(t *testing.T) {
	out, err := run(t, `
var i = 0;
var seen = "";
while (i < 3 and true) {
  seen = seen + "x";
  i = i + 1;
}
print seen;
`)
	require.NoError(t, err)
	assert.Equal(t, "xxx\n", out)
}

func TestInterpretShadowingAcrossBlockScopes(t *testing.T) {
	out, err := run(t, `
var a = "global";
{
  var a = "block";
  print a;
}
print a;
`)
	require.NoError(t, err)
	assert.Equal(t, "block\nglobal\n", out)
}

func TestInterpretTruthiness(t *testing.T) {
	out, err := run(t, `
if (nil) print "bad"; else print "nil falsy";
if (false) print "bad"; else print "false falsy";
if (0) print "zero truthy";
if ("") print "empty string truthy";
`)
	require.NoError(t, err)
	assert.Equal(t, "nil falsy\nfalse falsy\nzero truthy\nempty string truthy\n", out)
}
