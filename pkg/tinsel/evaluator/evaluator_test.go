package evaluator

import (
	"strings"
	"testing"

	"github.com/tinsel-lang/tinsel/pkg/tinsel/parser"
)

func testEval(t *testing.T, input string) Object {
	t.Helper()
	return testEvalWithInput(t, input, "")
}

func testEvalWithInput(t *testing.T, input, inputText string) Object {
	t.Helper()
	program, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("parse error for %q: %v", input, err)
	}
	env := NewEnvironment()
	if inputText != "" {
		env.SetInput(inputText)
	}
	return Eval(program, env)
}

func testNumberObject(t *testing.T, input string, obj Object, expected int64) {
	t.Helper()
	n, ok := obj.(*Number)
	if !ok {
		t.Errorf("%q: expected Number, got %T (%s)", input, obj, obj.Inspect())
		return
	}
	if n.Value != expected {
		t.Errorf("%q: expected %d, got %d", input, expected, n.Value)
	}
}

func testErrorObject(t *testing.T, input string, obj Object, message string) {
	t.Helper()
	errObj, ok := obj.(*Error)
	if !ok {
		t.Errorf("%q: expected error, got %T (%s)", input, obj, obj.Inspect())
		return
	}
	if errObj.Message != message {
		t.Errorf("%q: expected error %q, got %q", input, message, errObj.Message)
	}
}

func TestNumberExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5", 5},
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 / 3", 3},
		{"0 - 7", -7},
		{"10 % 3", 1},
		{"7 - 2 - 1", 4},
		{"~\"123\"", 123},
		{"~true", 1},
		{"~false", 0},
		{"~42", 42},
		{"max(2, 7)", 7},
		{"min(2, 7)", 2},
		{"floor(5)", 5},
		{"ceil(5)", 5},
	}

	for _, tt := range tests {
		testNumberObject(t, tt.input, testEval(t, tt.input), tt.expected)
	}
}

func TestBooleanCoercion(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"true + 1", 2},
		{"1 + true", 2},
		{"5 - true", 4},
		{"5 * true", 5},
		{"10 / true", 10},
		{"false + 10", 10},
	}

	for _, tt := range tests {
		testNumberObject(t, tt.input, testEval(t, tt.input), tt.expected)
	}

	// modulo never coerces, and booleans never pair with booleans
	testErrorObject(t, "true % 2", testEval(t, "true % 2"), "Invalid operands for %")
	testErrorObject(t, "true + false", testEval(t, "true + false"), "Invalid operands for +")
}

func TestValueReturningLogicalOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"5 && 10", 10},
		{"0 && 10", 0},
		{"0 || 10", 10},
		{"0 || 0", 0},
		{"7 || 3", 7},
	}

	for _, tt := range tests {
		testNumberObject(t, tt.input, testEval(t, tt.input), tt.expected)
	}
}

func TestLogicalOperatorsEvaluateBothSides(t *testing.T) {
	// no short circuit: the undefined right side fails even though the
	// left side already decides the value
	result := testEval(t, "0 && missing")
	testErrorObject(t, "0 && missing", result, "Undefined variable: missing")
}

func TestEquality(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 == 1", true},
		{"1 == 2", false},
		{"1 == true", false},
		{"0 == false", false},
		{"\"1\" == 1", false},
		{"\"ab\" == \"ab\"", true},
		{"[1, 2] == [1, 2]", true},
		{"[1, 2] == [1]", false},
		{"3 < 4", true},
		{"3 >= 4", false},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		b, ok := result.(*Boolean)
		if !ok {
			t.Errorf("%q: expected Boolean, got %T", tt.input, result)
			continue
		}
		if b.Value != tt.expected {
			t.Errorf("%q: expected %t, got %t", tt.input, tt.expected, b.Value)
		}
	}

	testErrorObject(t, "\"a\" < \"b\"", testEval(t, "\"a\" < \"b\""), "Invalid operands for <")
}

func TestStringAndArrayConcatenation(t *testing.T) {
	result := testEval(t, `"foo" + "bar"`)
	s, ok := result.(*String)
	if !ok || s.Value != "foobar" {
		t.Errorf("string concat: got %s", result.Inspect())
	}

	result = testEval(t, "[1, 2] + [3]")
	if result.Inspect() != "[1, 2, 3]" {
		t.Errorf("array concat: got %s", result.Inspect())
	}

	testErrorObject(t, `"a" + 1`, testEval(t, `"a" + 1`), "Invalid operands for +")
}

func TestRangeLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[1..5]", "[1, 2, 3, 4, 5]"},
		{"[5..0]", "[5, 4, 3, 2, 1, 0]"},
		{"[3..3]", "[3]"},
		{"a = 2\nb = 4\n[a..b]", "[2, 3, 4]"},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		if result.Inspect() != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, result.Inspect())
		}
	}

	testErrorObject(t, "[\"a\"..2]", testEval(t, "[\"a\"..2]"), "Range start must be a number")
}

func TestIndexingAndSlicing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[1, 2, 3][1]", "2"},
		{"\"abc\"[0]", "a"},
		{"[1, 2, 3, 4][1..3]", "[2, 3]"},
		{"[1, 2, 3][1..]", "[2, 3]"},
		{"[1, 2, 3][..2]", "[1, 2]"},
		{"[1, 2, 3][..]", "[1, 2, 3]"},
		{"[1, 2][0..10]", "[1, 2]"},
		{"\"hello\"[1..3]", "el"},
		{"[[1, 2], [3, 4]][1][0]", "3"},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		if result.Inspect() != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, result.Inspect())
		}
	}
}

func TestIndexErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"[1, 2, 3][5]", "Index 5 out of bounds (array length: 3)"},
		{"[1, 2][0 - 1]", "Array index must be non-negative integer"},
		{"[1, 2][\"x\"]", "Array index must be a number"},
		{"5[0]", "Cannot index non-array value: Number"},
		{"5[0..2]", "Cannot slice non-array value"},
	}

	for _, tt := range tests {
		testErrorObject(t, tt.input, testEval(t, tt.input), tt.message)
	}
}

func TestReturnSlotSelectsProgramValue(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"_ = 5", "5"},
		{"_ = 5\n3", "5"},
		{"5\n3", "3"},
		{"x = 1", "[]"},
		{"", "[]"},
		{"_ = 1\n_ += 2", "3"},
		{"_ = 2\n_ * 10", "2"},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		if result.Inspect() != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, result.Inspect())
		}
	}
}

func TestUnsetReturnSlotErrors(t *testing.T) {
	testErrorObject(t, "_", testEval(t, "_"), "No return value set")
	testErrorObject(t, "_ += 1", testEval(t, "_ += 1"), "No return value set")
	testErrorObject(t, "_t += 1", testEval(t, "_t += 1"), "No return value set for _t")
	testErrorObject(t, "_t", testEval(t, "_t"), "Undefined named return: _t")
}

func TestNamedReturns(t *testing.T) {
	// a named return write also sets the unnamed slot
	testNumberObject(t, "named sets unnamed", testEval(t, "_total = 5\n9"), 5)

	// compound on a named slot updates only that slot
	result := testEval(t, "x = { _ = 5\n_t += 1\n_ = _t }\nx")
	testNumberObject(t, "named fallback", result, 6)

	result = testEval(t, "x = { _t = 1\n_t += 2\n_ = _t }\nx")
	testNumberObject(t, "named accumulate", result, 3)
}

func TestCompoundAssignment(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"x = 1\nx += 2\nx", 3},
		{"x = 10\nx -= 3\nx", 7},
		{"x = 4\nx *= 3\nx", 12},
		{"x = 9\nx /= 2\nx", 4},
		{"x = 9\nx %= 4\nx", 1},
	}

	for _, tt := range tests {
		testNumberObject(t, tt.input, testEval(t, tt.input), tt.expected)
	}

	testErrorObject(t, "x += 1", testEval(t, "x += 1"), "Undefined variable: x")
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"{ _ = 5 }", "5"},
		{"{ x = 1 }", "[]"},
		{"x = { _ = 1\n_ += 2 }\nx", "3"},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		if result.Inspect() != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, result.Inspect())
		}
	}

	// block return slots are isolated from the enclosing program
	testNumberObject(t, "block isolation", testEval(t, "_ = 1\ny = { _ = 99 }\n0"), 1)
}

func TestFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"add(x, y) = x + y\nadd(2, 3)", 5},
		{"double(x) = x * 2\ndouble(21)", 42},
		{"f(x) = { _ = x * 2 }\nf(4)", 8},
		{"inc(x) = x + 1\ninc(inc(1))", 3},
		{"choose(c) = if(c, 1, 2)\nchoose(0)", 2},
	}

	for _, tt := range tests {
		testNumberObject(t, tt.input, testEval(t, tt.input), tt.expected)
	}
}

func TestFunctionErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"add(x, y) = x + y\nadd(1)", "Function add expects 2 arguments, got 1"},
		{"nope(1)", "Undefined function: nope"},
	}

	for _, tt := range tests {
		testErrorObject(t, tt.input, testEval(t, tt.input), tt.message)
	}
}

func TestFunctionParameterRestoration(t *testing.T) {
	// the parameter shadows the global during the call only
	testNumberObject(t, "param shadowing",
		testEval(t, "x = 10\nf(x) = x + 1\nf(1)\nx"), 10)

	// restoration also happens when the body fails
	input := "x = 10\nf(x) = x + missing\nerr = 0\nf(1)\nx"
	result := testEval(t, input)
	testErrorObject(t, input, result, "Undefined variable: missing")
}

func TestFunctionReturnSlotWinsOverBodyValue(t *testing.T) {
	testNumberObject(t, "slot wins",
		testEval(t, "f(x) = { _ = 1\n99 }\nf(0)"), 1)
}

func TestForLoops(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"for(x of [1..3], x)", "[]"},
		{"for(x of [1..3], { _ += x }, 0)", "6"},
		{"for(x of [1, 2], { _ += x }, 10)", "13"},
		{"for(x of [], { _ += x }, 7)", "7"},
		{"for(x of [1..3], { _ = x })", "[]"},
		{"for(s of [\"a\", \"b\"], { _ += s }, \"\")", "ab"},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		if result.Inspect() != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, result.Inspect())
		}
	}
}

func TestForLoopVariableRestoration(t *testing.T) {
	testNumberObject(t, "loop var restore",
		testEval(t, "x = 9\nfor(x of [1..3], x)\nx"), 9)
}

func TestForLoopInitialMayReadOuterSlot(t *testing.T) {
	input := "y = { _ = 5\n_ = for(i of [1, 2], { _ += i }, _) }\ny"
	testNumberObject(t, "initial reads outer", testEval(t, input), 8)
}

func TestForLoopErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"for(x of 5, x)", "for loop requires array"},
		{"for(x of \"ab\", x)", "for loop requires array"},
	}

	for _, tt := range tests {
		testErrorObject(t, tt.input, testEval(t, tt.input), tt.message)
	}

	result := testEvalWithInput(t, "for(r of input, r)", "ab\ncd")
	testErrorObject(t, "2D iterable", result, "for loop requires 1D array")
}

func TestIfExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"if(1, 2)", "2"},
		{"if(0, 2)", "[]"},
		{"if(0, 2, 3)", "3"},
		{"if(true, 1, 2)", "1"},
		{"if(\"\", 1, 2)", "2"},
		{"if([1], 1, 2)", "1"},
		{"if([], 1, 2)", "2"},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		if result.Inspect() != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, result.Inspect())
		}
	}
}

func TestPipe(t *testing.T) {
	// the piped value is parked under a name no expression can read, so
	// the right side stands alone
	testNumberObject(t, "pipe", testEval(t, "[1, 2] |> 5"), 5)
	testNumberObject(t, "pipe chain", testEval(t, "1 |> 2 |> 3"), 3)

	result := testEval(t, "xs = [1, 2]\nxs |> len(xs)")
	testNumberObject(t, "pipe with call", result, 2)
}

func TestInput(t *testing.T) {
	grid := testEvalWithInput(t, "input", "AB\nCD\n")
	if grid.Inspect() != "[[A, B], [C, D]]" {
		t.Errorf("input grid: got %s", grid.Inspect())
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"input[0]", "[A, B]"},
		{"input[1][0]", "C"},
		{"input[0][1]", "B"},
		{"len(input)", "[2, 2]"},
		{"input.rows()", "[[A, B], [C, D]]"},
		{"len(input.rows())", "2"},
		{"input[0..1]", "[[A, B]]"},
	}

	for _, tt := range tests {
		result := testEvalWithInput(t, tt.input, "AB\nCD\n")
		if result.Inspect() != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, result.Inspect())
		}
	}

	// no input means an empty grid, not an error
	bare := testEval(t, "input")
	if grid2d, ok := bare.(*Array2D); !ok || len(grid2d.Rows) != 0 {
		t.Errorf("input without input: expected empty 2D array, got %s", bare.Inspect())
	}
	dims := testEval(t, "len(input)")
	if dims.Inspect() != "[0, 0]" {
		t.Errorf("len(input) without input: expected [0, 0], got %s", dims.Inspect())
	}
}

func TestColumnAccess(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"input[.., 1]", "[B, D, F]"},
		{"input[0..2, 0]", "[A, C]"},
		{"input[1.., 1]", "[D, F]"},
	}

	for _, tt := range tests {
		result := testEvalWithInput(t, tt.input, "AB\nCD\nEF\n")
		if result.Inspect() != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, result.Inspect())
		}
	}

	// short rows simply contribute nothing to the column
	result := testEvalWithInput(t, "input[.., 1]", "AB\nC\nEF\n")
	if result.Inspect() != "[B, F]" {
		t.Errorf("ragged column: got %s", result.Inspect())
	}
}

func TestLen(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"len(\"abc\")", "3"},
		{"len([1, 2])", "2"},
		{"len([])", "0"},
	}

	for _, tt := range tests {
		result := testEval(t, tt.input)
		if result.Inspect() != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, result.Inspect())
		}
	}

	testErrorObject(t, "len(5)", testEval(t, "len(5)"), "len requires array or string")
	testErrorObject(t, "max(1, \"a\")", testEval(t, "max(1, \"a\")"), "max requires 2 numbers")
	testErrorObject(t, "floor(\"x\")", testEval(t, "floor(\"x\")"), "floor requires a number")
}

func TestMethods(t *testing.T) {
	testErrorObject(t, "[1].rows()", testEval(t, "[1].rows()"), "rows() method only works on 2D arrays")
	testErrorObject(t, "[1].cols()", testEval(t, "[1].cols()"), "Unknown method: cols")
}

func TestConversionErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"~\"abc\"", "Cannot convert 'abc' to number"},
		{"~[1, 2]", "Cannot convert non-string array element to number"},
	}

	for _, tt := range tests {
		testErrorObject(t, tt.input, testEval(t, tt.input), tt.message)
	}

	result := testEvalWithInput(t, "~input", "ab")
	testErrorObject(t, "~input", result, "Cannot convert to number")
}

func TestDivisionByZero(t *testing.T) {
	testErrorObject(t, "1 / 0", testEval(t, "1 / 0"), "Division by zero")
	testErrorObject(t, "1 / false", testEval(t, "1 / false"), "Division by zero")
	testErrorObject(t, "1 % 0", testEval(t, "1 % 0"), "Modulo by zero")
}

func TestParseDigitsFromLine(t *testing.T) {
	// "L50" style lines: slice off the prefix, convert the rest
	result := testEvalWithInput(t, "line = input.rows()[0]\n~line[1..]", "L50\nR25\n")
	testNumberObject(t, "digits from line", result, 50)
}

func TestUndefinedVariableHint(t *testing.T) {
	result := testEval(t, "count = 1\nconut")
	errObj, ok := result.(*Error)
	if !ok {
		t.Fatalf("expected error, got %T", result)
	}
	if errObj.Message != "Undefined variable: conut" {
		t.Errorf("unexpected message %q", errObj.Message)
	}
	if len(errObj.Hints) != 1 || !strings.Contains(errObj.Hints[0], "'count'") {
		t.Errorf("expected a did-you-mean hint, got %v", errObj.Hints)
	}
}

func TestRuntimeErrorCarriesPosition(t *testing.T) {
	result := testEval(t, "x = 1\ny = missing")
	errObj, ok := result.(*Error)
	if !ok {
		t.Fatalf("expected error, got %T", result)
	}
	if errObj.Line != 2 {
		t.Errorf("expected line 2, got %d", errObj.Line)
	}
}
