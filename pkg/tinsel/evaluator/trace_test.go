package evaluator

import (
	"reflect"
	"testing"

	"github.com/tinsel-lang/tinsel/pkg/tinsel/parser"
)

type recordingTracer struct {
	lines []string
}

func (r *recordingTracer) Trace(line string) {
	r.lines = append(r.lines, line)
}

func traceProgram(t *testing.T, input, inputText string) []string {
	t.Helper()
	program, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("parse error for %q: %v", input, err)
	}
	env := NewEnvironment()
	if inputText != "" {
		env.SetInput(inputText)
	}
	tracer := &recordingTracer{}
	env.SetTracer(tracer)
	if result := Eval(program, env); isError(result) {
		t.Fatalf("eval error for %q: %s", input, result.Inspect())
	}
	return tracer.lines
}

func TestTraceAssignments(t *testing.T) {
	lines := traceProgram(t, "x = 5\nx = 6", "")
	expected := []string{
		"x: undefined → 5",
		"x: 5 → 6",
	}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("expected %q, got %q", expected, lines)
	}
}

func TestTraceCompoundAssignment(t *testing.T) {
	lines := traceProgram(t, "x = 1\nx += 2", "")
	expected := []string{
		"x: undefined → 1",
		"x +=: 1 → 3",
	}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("expected %q, got %q", expected, lines)
	}
}

func TestTraceNamedCompoundShowsOwnSlot(t *testing.T) {
	// _best reads the unnamed slot as a fallback, but the trace reports
	// the named slot's own previous state
	lines := traceProgram(t, "_ = 10\n_best += 5\n_best += 1", "")
	expected := []string{
		"_best +=: undefined → 15",
		"_best +=: 15 → 16",
	}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("expected %q, got %q", expected, lines)
	}
}

func TestTraceIndentsInsideIf(t *testing.T) {
	lines := traceProgram(t, "if(1, { y = 2 })", "")
	expected := []string{
		"if 1: true",
		"  y: undefined → 2",
	}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("expected %q, got %q", expected, lines)
	}
}

func TestTraceForIterations(t *testing.T) {
	lines := traceProgram(t, "for(i of [1..2], { z = i })", "")
	expected := []string{
		"for i: 1",
		"  z: undefined → 1",
		"for i: 2",
		"  z: 1 → 2",
	}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("expected %q, got %q", expected, lines)
	}
}

func TestTraceRendersCharArraysAsStrings(t *testing.T) {
	lines := traceProgram(t, "r = input[0]", "AB\nCD\n")
	expected := []string{
		`r: undefined → "AB"`,
	}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("expected %q, got %q", expected, lines)
	}
}

func TestNoTracerMeansNoTracing(t *testing.T) {
	program, err := parser.Parse("x = 1\nx += 1")
	if err != nil {
		t.Fatal(err)
	}
	env := NewEnvironment()
	if result := Eval(program, env); isError(result) {
		t.Fatalf("eval error: %s", result.Inspect())
	}
}
