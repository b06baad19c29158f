// Package tinsel is the embedding surface: parse and run a program in
// one call, with optional puzzle input and tracing. The CLI, the REPL,
// and the golden tests all go through it.
package tinsel

import (
	"github.com/tinsel-lang/tinsel/pkg/tinsel/errors"
	"github.com/tinsel-lang/tinsel/pkg/tinsel/evaluator"
	"github.com/tinsel-lang/tinsel/pkg/tinsel/parser"
)

type Options struct {
	// Input is the raw puzzle input exposed through the `input`
	// keyword. It only counts when HasInput is set, so an empty
	// provided file is distinct from no file at all.
	Input    string
	HasInput bool

	// Tracer, when non-nil, receives one line per traced step.
	Tracer evaluator.Tracer

	// Filename appears in error positions.
	Filename string
}

// Run parses and evaluates a program in a fresh environment.
func Run(source string, opts Options) (evaluator.Object, error) {
	env := evaluator.NewEnvironment()
	if opts.HasInput {
		env.SetInput(opts.Input)
	}
	if opts.Tracer != nil {
		env.SetTracer(opts.Tracer)
	}
	return RunInEnv(source, env, opts.Filename)
}

// RunInEnv evaluates a program in an existing environment, which is how
// the REPL keeps definitions across entries.
func RunInEnv(source string, env *evaluator.Environment, filename string) (evaluator.Object, error) {
	program, err := parser.Parse(source)
	if err != nil {
		if perr, ok := err.(*errors.Error); ok {
			perr.File = filename
		}
		return nil, err
	}
	result := evaluator.Eval(program, env)
	if errObj, ok := result.(*evaluator.Error); ok {
		rerr := errObj.ToError()
		rerr.File = filename
		return nil, rerr
	}
	return result, nil
}

// Check parses without evaluating.
func Check(source string) error {
	_, err := parser.Parse(source)
	return err
}

// IsEmptyResult reports whether a program produced the empty array, the
// conventional "nothing to print" value.
func IsEmptyResult(obj evaluator.Object) bool {
	arr, ok := obj.(*evaluator.Array)
	return ok && len(arr.Elements) == 0
}
