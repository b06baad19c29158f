package evaluator

import (
	"sort"
	"strings"
)

// Tracer receives one line per traced evaluation step: assignments,
// compound assignments, if conditions, and for-loop iterations. The
// line already carries its indentation; implementations add prefixes.
type Tracer interface {
	Trace(line string)
}

// Environment is the single global scope plus the two return channels.
// Parameter and loop-variable shadowing is save/restore over the same
// variable map, not a scope chain.
type Environment struct {
	vars      map[string]Object
	functions map[string]*Function

	inputText string
	hasInput  bool
	inputGrid *Array2D

	ret   Object // unnamed return slot, nil when unset
	named map[string]Object

	tracer Tracer
	depth  int
}

func NewEnvironment() *Environment {
	return &Environment{
		vars:      make(map[string]Object),
		functions: make(map[string]*Function),
		named:     make(map[string]Object),
	}
}

// SetInput supplies the raw puzzle input read by the `input` keyword.
func (env *Environment) SetInput(text string) {
	env.inputText = text
	env.hasInput = true
	env.inputGrid = nil
}

// SetTracer installs a trace observer; nil disables tracing.
func (env *Environment) SetTracer(t Tracer) {
	env.tracer = t
}

func (env *Environment) trace(msg string) {
	if env.tracer != nil {
		env.tracer.Trace(strings.Repeat(" ", env.depth) + msg)
	}
}

func (env *Environment) tracing() bool {
	return env.tracer != nil
}

// setVar replaces a variable, returning its previous value for
// save/restore shadowing. restoreVar undoes it.
func (env *Environment) setVar(name string, val Object) (old Object, existed bool) {
	old, existed = env.vars[name]
	env.vars[name] = val
	return old, existed
}

func (env *Environment) restoreVar(name string, old Object, existed bool) {
	if existed {
		env.vars[name] = old
	} else {
		delete(env.vars, name)
	}
}

// returnState snapshots both return channels so a block or call can
// clear and later restore them.
type returnState struct {
	ret   Object
	named map[string]Object
}

func (env *Environment) saveReturns() returnState {
	saved := returnState{ret: env.ret, named: env.named}
	env.ret = nil
	env.named = make(map[string]Object)
	return saved
}

func (env *Environment) restoreReturns(s returnState) {
	env.ret = s.ret
	env.named = s.named
}

// Names returns everything definable a user could have meant, for
// completion and "did you mean" hints.
func (env *Environment) Names() []string {
	names := make([]string, 0, len(env.vars)+len(env.functions))
	for name := range env.vars {
		if name == pipeTempVar {
			continue
		}
		names = append(names, name)
	}
	for name := range env.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get looks up a variable. Used by the REPL's :env command.
func (env *Environment) Get(name string) (Object, bool) {
	obj, ok := env.vars[name]
	return obj, ok
}

// Clear drops all user state but keeps the input and tracer.
func (env *Environment) Clear() {
	env.vars = make(map[string]Object)
	env.functions = make(map[string]*Function)
	env.named = make(map[string]Object)
	env.ret = nil
	env.depth = 0
}
