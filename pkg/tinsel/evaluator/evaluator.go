// Package evaluator walks the syntax tree and produces values.
//
// There is one global scope. Function parameters and loop variables
// shadow globals by save/restore over the same map, and parameters are
// restored unconditionally, whether or not the body failed. The unnamed
// return slot `_` and the named slots `_name` are separate channels:
// blocks and function calls save and clear both on entry and restore
// them on exit, while a for-loop body written as a literal block runs
// its statements directly so the slot accumulates across iterations.
package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tinsel-lang/tinsel/pkg/tinsel/ast"
	terrors "github.com/tinsel-lang/tinsel/pkg/tinsel/errors"
	"github.com/tinsel-lang/tinsel/pkg/tinsel/lexer"
)

// pipeTempVar is where `|>` parks the left-hand value while the right
// side evaluates. Nothing else reads it; the binding is observable only
// through this name.
const pipeTempVar = "__pipe_temp__"

func Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	case *ast.Program:
		return evalProgram(node, env)
	case *ast.ExpressionStatement:
		return Eval(node.Expression, env)
	case *ast.AssignStatement:
		return evalAssign(node, env)
	case *ast.CompoundAssignStatement:
		return evalCompoundAssign(node, env)
	case *ast.ReturnStatement:
		return evalReturn(node, env)
	case *ast.FunctionStatement:
		env.functions[node.Name] = &Function{Name: node.Name, Params: node.Params, Body: node.Body}
		return &Array{}

	case *ast.NumberLiteral:
		return &Number{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.Identifier:
		return evalIdentifier(node, env)
	case *ast.ReturnValueExpression:
		if env.ret == nil {
			return newError(terrors.ValueError, node.Token, "No return value set")
		}
		return env.ret
	case *ast.InputExpression:
		return evalInput(node.Token, env)
	case *ast.ArrayLiteral:
		return evalArrayLiteral(node, env)
	case *ast.RangeLiteral:
		return evalRangeLiteral(node, env)
	case *ast.PrefixExpression:
		return evalPrefix(node, env)
	case *ast.InfixExpression:
		return evalInfix(node, env)
	case *ast.PipeExpression:
		return evalPipe(node, env)
	case *ast.IfExpression:
		return evalIf(node, env)
	case *ast.ForExpression:
		return evalFor(node, env)
	case *ast.BlockExpression:
		return evalBlock(node, env)
	case *ast.CallExpression:
		return evalCall(node, env)
	case *ast.BuiltinCall:
		return evalBuiltin(node, env)
	case *ast.MethodCallExpression:
		return evalMethodCall(node, env)
	case *ast.IndexExpression:
		return evalIndexExpression(node, env)
	}
	return &Error{Class: terrors.ValueError, Message: fmt.Sprintf("unhandled node %T", node)}
}

// evalProgram runs the statements and selects the final value: the
// return slot if it was ever set, otherwise the value of the last bare
// expression, otherwise an empty array.
func evalProgram(program *ast.Program, env *Environment) Object {
	var last Object = &Array{}
	for _, stmt := range program.Statements {
		result := Eval(stmt, env)
		if isError(result) {
			return result
		}
		if _, ok := stmt.(*ast.ExpressionStatement); ok {
			last = result
		}
	}
	if env.ret != nil {
		return env.ret
	}
	return last
}

// -------------------------------------------------------------- statements

func evalAssign(stmt *ast.AssignStatement, env *Environment) Object {
	val := Eval(stmt.Value, env)
	if isError(val) {
		return val
	}
	if env.tracing() {
		old := "undefined"
		if prev, ok := env.vars[stmt.Name]; ok {
			old = DebugString(prev)
		}
		env.trace(fmt.Sprintf("%s: %s → %s", stmt.Name, old, DebugString(val)))
	}
	env.vars[stmt.Name] = val
	return val
}

// evalReturn sets the unnamed slot always; a named target additionally
// records the value under its name.
func evalReturn(stmt *ast.ReturnStatement, env *Environment) Object {
	val := Eval(stmt.Value, env)
	if isError(val) {
		return val
	}
	env.ret = val
	if stmt.Target != "_" {
		env.named[stmt.Target[1:]] = val
	}
	return val
}

// evalCompoundAssign reads the current value first, so an undefined
// target is reported even when the right side would also fail. A named
// return target reads its own slot, falling back to the unnamed slot,
// but writes back only to its own slot.
func evalCompoundAssign(stmt *ast.CompoundAssignStatement, env *Environment) Object {
	name := stmt.Name
	isReturn := strings.HasPrefix(name, "_")

	// oldTrace is the target slot's own previous state; a named target
	// that fell back to the unnamed slot still traces as undefined.
	var current Object
	oldTrace := "undefined"
	switch {
	case name == "_":
		if env.ret == nil {
			return newError(terrors.ValueError, stmt.Token, "No return value set")
		}
		current = env.ret
		oldTrace = DebugString(current)
	case isReturn:
		bare := name[1:]
		if v, ok := env.named[bare]; ok {
			current = v
			oldTrace = DebugString(v)
		} else if env.ret != nil {
			current = env.ret
		} else {
			return newError(terrors.ValueError, stmt.Token, "No return value set for _"+bare)
		}
	default:
		v, ok := env.vars[name]
		if !ok {
			return undefinedVariable(name, stmt.Token, env)
		}
		current = v
		oldTrace = DebugString(v)
	}

	right := Eval(stmt.Value, env)
	if isError(right) {
		return right
	}
	newVal := evalBinaryOp(stmt.Operator, current, right, stmt.Token)
	if isError(newVal) {
		return newVal
	}

	if env.tracing() {
		env.trace(fmt.Sprintf("%s %s=: %s → %s", name, stmt.Operator, oldTrace, DebugString(newVal)))
	}

	switch {
	case name == "_":
		env.ret = newVal
	case isReturn:
		env.named[name[1:]] = newVal
	default:
		env.vars[name] = newVal
	}
	return newVal
}

// ------------------------------------------------------------- identifiers

func evalIdentifier(node *ast.Identifier, env *Environment) Object {
	name := node.Value
	if strings.HasPrefix(name, "_") && len(name) > 1 {
		bare := name[1:]
		if v, ok := env.named[bare]; ok {
			return v
		}
		return newError(terrors.NameError, node.Token, "Undefined named return: _"+bare)
	}
	if v, ok := env.vars[name]; ok {
		return v
	}
	return undefinedVariable(name, node.Token, env)
}

func undefinedVariable(name string, tok lexer.Token, env *Environment) *Error {
	err := newError(terrors.NameError, tok, "Undefined variable: "+name)
	if match := terrors.FindClosestMatch(name, env.Names()); match != "" {
		err.Hints = append(err.Hints, fmt.Sprintf("did you mean '%s'?", match))
	}
	return err
}

// ------------------------------------------------------------------- input

// evalInput splits the raw input into lines and each line into
// one-character strings, building the grid once per environment.
// Absent input is an empty grid, not an error.
func evalInput(tok lexer.Token, env *Environment) Object {
	if !env.hasInput {
		return &Array2D{}
	}
	if env.inputGrid == nil {
		lines := strings.Split(env.inputText, "\n")
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		rows := make([][]Object, len(lines))
		for i, line := range lines {
			line = strings.TrimSuffix(line, "\r")
			runes := []rune(line)
			row := make([]Object, len(runes))
			for j, r := range runes {
				row[j] = &String{Value: string(r)}
			}
			rows[i] = row
		}
		env.inputGrid = &Array2D{Rows: rows}
	}
	return env.inputGrid
}

// ---------------------------------------------------------------- literals

func evalArrayLiteral(node *ast.ArrayLiteral, env *Environment) Object {
	elements := make([]Object, 0, len(node.Elements))
	for _, el := range node.Elements {
		val := Eval(el, env)
		if isError(val) {
			return val
		}
		elements = append(elements, val)
	}
	return &Array{Elements: elements}
}

// evalRangeLiteral builds the inclusive range, counting down when the
// start exceeds the end.
func evalRangeLiteral(node *ast.RangeLiteral, env *Environment) Object {
	startVal := Eval(node.Start, env)
	if isError(startVal) {
		return startVal
	}
	endVal := Eval(node.End, env)
	if isError(endVal) {
		return endVal
	}
	start, ok := startVal.(*Number)
	if !ok {
		return newError(terrors.TypeError, node.Token, "Range start must be a number")
	}
	end, ok := endVal.(*Number)
	if !ok {
		return newError(terrors.TypeError, node.Token, "Range end must be a number")
	}

	var elements []Object
	if start.Value <= end.Value {
		for i := start.Value; i <= end.Value; i++ {
			elements = append(elements, &Number{Value: i})
		}
	} else {
		for i := start.Value; i >= end.Value; i-- {
			elements = append(elements, &Number{Value: i})
		}
	}
	return &Array{Elements: elements}
}

// --------------------------------------------------------------- operators

func evalPrefix(node *ast.PrefixExpression, env *Environment) Object {
	val := Eval(node.Right, env)
	if isError(val) {
		return val
	}
	switch node.Operator {
	case "~":
		return convertToNumber(val, node.Token)
	case "!":
		return nativeBoolToBooleanObject(!isTruthy(val))
	}
	return newError(terrors.ValueError, node.Token, "Unknown operator: "+node.Operator)
}

// convertToNumber is `~`: parse strings, join-and-parse character
// arrays, map booleans to 0/1, and pass numbers through.
func convertToNumber(val Object, tok lexer.Token) Object {
	switch v := val.(type) {
	case *Number:
		return v
	case *Boolean:
		if v.Value {
			return &Number{Value: 1}
		}
		return &Number{Value: 0}
	case *String:
		n, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			return newError(terrors.ValueError, tok, fmt.Sprintf("Cannot convert '%s' to number", v.Value))
		}
		return &Number{Value: n}
	case *Array:
		var sb strings.Builder
		for _, el := range v.Elements {
			s, ok := el.(*String)
			if !ok {
				return newError(terrors.ValueError, tok, "Cannot convert non-string array element to number")
			}
			sb.WriteString(s.Value)
		}
		n, err := strconv.ParseInt(sb.String(), 10, 64)
		if err != nil {
			return newError(terrors.ValueError, tok, fmt.Sprintf("Cannot convert '%s' to number", sb.String()))
		}
		return &Number{Value: n}
	}
	return newError(terrors.ValueError, tok, "Cannot convert to number")
}

// evalInfix evaluates both sides before applying the operator; the
// logical operators are value-returning but not short-circuiting.
func evalInfix(node *ast.InfixExpression, env *Environment) Object {
	left := Eval(node.Left, env)
	if isError(left) {
		return left
	}
	right := Eval(node.Right, env)
	if isError(right) {
		return right
	}
	return evalBinaryOp(node.Operator, left, right, node.Token)
}

// coerceNumeric maps a Number through and a Boolean to 0/1 when paired
// with a Number. Boolean-Boolean pairs stay unconverted.
func coerceNumeric(left, right Object) (int64, int64, bool) {
	switch l := left.(type) {
	case *Number:
		switch r := right.(type) {
		case *Number:
			return l.Value, r.Value, true
		case *Boolean:
			return l.Value, boolToInt(r.Value), true
		}
	case *Boolean:
		if r, ok := right.(*Number); ok {
			return boolToInt(l.Value), r.Value, true
		}
	}
	return 0, 0, false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func evalBinaryOp(op string, left, right Object, tok lexer.Token) Object {
	switch op {
	case "+":
		if a, b, ok := coerceNumeric(left, right); ok {
			return &Number{Value: a + b}
		}
		if l, ok := left.(*String); ok {
			if r, ok := right.(*String); ok {
				return &String{Value: l.Value + r.Value}
			}
		}
		if l, ok := left.(*Array); ok {
			if r, ok := right.(*Array); ok {
				elements := make([]Object, 0, len(l.Elements)+len(r.Elements))
				elements = append(elements, l.Elements...)
				elements = append(elements, r.Elements...)
				return &Array{Elements: elements}
			}
		}
		return newError(terrors.TypeError, tok, "Invalid operands for +")
	case "-":
		if a, b, ok := coerceNumeric(left, right); ok {
			return &Number{Value: a - b}
		}
		return newError(terrors.TypeError, tok, "Invalid operands for -")
	case "*":
		if a, b, ok := coerceNumeric(left, right); ok {
			return &Number{Value: a * b}
		}
		return newError(terrors.TypeError, tok, "Invalid operands for *")
	case "/":
		if a, b, ok := coerceNumeric(left, right); ok {
			if b == 0 {
				return newError(terrors.ValueError, tok, "Division by zero")
			}
			if b == -1 {
				// avoids the MinInt64 / -1 overflow trap
				return &Number{Value: -a}
			}
			return &Number{Value: a / b}
		}
		return newError(terrors.TypeError, tok, "Invalid operands for /")
	case "%":
		// no boolean coercion here, unlike the other arithmetic ops
		l, lok := left.(*Number)
		r, rok := right.(*Number)
		if !lok || !rok {
			return newError(terrors.TypeError, tok, "Invalid operands for %")
		}
		if r.Value == 0 {
			return newError(terrors.ValueError, tok, "Modulo by zero")
		}
		if r.Value == -1 {
			return &Number{Value: 0}
		}
		return &Number{Value: l.Value % r.Value}
	case "<", ">", "<=", ">=":
		l, lok := left.(*Number)
		r, rok := right.(*Number)
		if !lok || !rok {
			return newError(terrors.TypeError, tok, "Invalid operands for "+op)
		}
		switch op {
		case "<":
			return nativeBoolToBooleanObject(l.Value < r.Value)
		case ">":
			return nativeBoolToBooleanObject(l.Value > r.Value)
		case "<=":
			return nativeBoolToBooleanObject(l.Value <= r.Value)
		default:
			return nativeBoolToBooleanObject(l.Value >= r.Value)
		}
	case "==":
		return nativeBoolToBooleanObject(objectsEqual(left, right))
	case "&&":
		if !isTruthy(left) {
			return left
		}
		return right
	case "||":
		if isTruthy(left) {
			return left
		}
		return right
	}
	return newError(terrors.ValueError, tok, "Unknown operator: "+op)
}

// -------------------------------------------------------------------- pipe

func evalPipe(node *ast.PipeExpression, env *Environment) Object {
	left := Eval(node.Left, env)
	if isError(left) {
		return left
	}
	old, existed := env.setVar(pipeTempVar, left)
	result := Eval(node.Right, env)
	env.restoreVar(pipeTempVar, old, existed)
	return result
}

// ------------------------------------------------------------ control flow

func evalIf(node *ast.IfExpression, env *Environment) Object {
	cond := Eval(node.Condition, env)
	if isError(cond) {
		return cond
	}
	truth := isTruthy(cond)
	if env.tracing() {
		env.trace(fmt.Sprintf("if %s: %t", node.Condition.String(), truth))
	}
	env.depth += 2
	var result Object
	switch {
	case truth:
		result = Eval(node.Then, env)
	case node.Else != nil:
		result = Eval(node.Else, env)
	default:
		result = &Array{}
	}
	env.depth -= 2
	return result
}

// evalFor iterates a 1D array. With an initial value the return slot
// seeds from it and the accumulated slot is the loop's value; without
// one the loop's value is always the empty array. A literal block body
// runs its statements directly, with no block save/restore, which is
// what lets `_ += x` accumulate across iterations. The loop variable is
// saved and restored around each element.
func evalFor(node *ast.ForExpression, env *Environment) Object {
	iter := Eval(node.Iterable, env)
	if isError(iter) {
		return iter
	}
	var elements []Object
	switch v := iter.(type) {
	case *Array:
		elements = v.Elements
	case *Array2D:
		return newError(terrors.TypeError, node.Token, "for loop requires 1D array")
	default:
		return newError(terrors.TypeError, node.Token, "for loop requires array")
	}

	savedRet, savedNamed := env.ret, env.named
	defer func() {
		env.ret = savedRet
		env.named = savedNamed
	}()

	// the initial value may read the outer return slot
	if node.Initial != nil {
		initial := Eval(node.Initial, env)
		if isError(initial) {
			return initial
		}
		env.ret = initial
	} else {
		env.ret = nil
	}
	env.named = make(map[string]Object)

	for _, element := range elements {
		if env.tracing() {
			env.trace(fmt.Sprintf("for %s: %s", node.Var, DebugString(element)))
		}
		old, existed := env.setVar(node.Var, element)
		env.depth += 2

		var failed Object
		if block, ok := node.Body.(*ast.BlockExpression); ok {
			for _, stmt := range block.Statements {
				if r := Eval(stmt, env); isError(r) {
					failed = r
					break
				}
			}
		} else if r := Eval(node.Body, env); isError(r) {
			failed = r
		}

		env.depth -= 2
		env.restoreVar(node.Var, old, existed)
		if failed != nil {
			return failed
		}
	}

	if node.Initial != nil && env.ret != nil {
		return env.ret
	}
	return &Array{}
}

// evalBlock runs the statements with fresh return channels; the block's
// value is whatever the slot holds at the end, or the empty array.
func evalBlock(node *ast.BlockExpression, env *Environment) Object {
	saved := env.saveReturns()
	defer env.restoreReturns(saved)

	for _, stmt := range node.Statements {
		if r := Eval(stmt, env); isError(r) {
			return r
		}
	}
	if env.ret != nil {
		return env.ret
	}
	return &Array{}
}

// ------------------------------------------------------------------- calls

type savedParam struct {
	name    string
	old     Object
	existed bool
}

// evalCall overlays the arguments on the global scope, clears the
// return channels, and evaluates the body. Parameters are restored
// whether or not the body failed. A body error propagates even when the
// return slot was set; otherwise a set slot wins over the body value.
func evalCall(node *ast.CallExpression, env *Environment) Object {
	fn, ok := env.functions[node.Name]
	if !ok {
		err := newError(terrors.NameError, node.Token, "Undefined function: "+node.Name)
		if match := terrors.FindClosestMatch(node.Name, env.Names()); match != "" {
			err.Hints = append(err.Hints, fmt.Sprintf("did you mean '%s'?", match))
		}
		return err
	}
	if len(node.Args) != len(fn.Params) {
		return newError(terrors.ArityError, node.Token,
			fmt.Sprintf("Function %s expects %d arguments, got %d", node.Name, len(fn.Params), len(node.Args)))
	}

	argVals := make([]Object, len(node.Args))
	for i, arg := range node.Args {
		val := Eval(arg, env)
		if isError(val) {
			return val
		}
		argVals[i] = val
	}

	saves := make([]savedParam, len(fn.Params))
	for i, param := range fn.Params {
		old, existed := env.setVar(param, argVals[i])
		saves[i] = savedParam{name: param, old: old, existed: existed}
	}
	savedRet := env.saveReturns()

	result := Eval(fn.Body, env)

	for _, s := range saves {
		env.restoreVar(s.name, s.old, s.existed)
	}
	retVal := env.ret
	env.restoreReturns(savedRet)

	if retVal == nil {
		return result
	}
	if isError(result) {
		return result
	}
	return retVal
}

func evalBuiltin(node *ast.BuiltinCall, env *Environment) Object {
	argVals := make([]Object, len(node.Args))
	for i, arg := range node.Args {
		val := Eval(arg, env)
		if isError(val) {
			return val
		}
		argVals[i] = val
	}

	switch node.Name {
	case "len":
		switch v := argVals[0].(type) {
		case *Array:
			return &Number{Value: int64(len(v.Elements))}
		case *Array2D:
			if len(v.Rows) == 0 {
				return &Array{Elements: []Object{&Number{}, &Number{}}}
			}
			return &Array{Elements: []Object{
				&Number{Value: int64(len(v.Rows))},
				&Number{Value: int64(len(v.Rows[0]))},
			}}
		case *String:
			return &Number{Value: int64(len([]rune(v.Value)))}
		}
		return newError(terrors.TypeError, node.Token, "len requires array or string")
	case "max", "min":
		a, aok := argVals[0].(*Number)
		b, bok := argVals[1].(*Number)
		if !aok || !bok {
			return newError(terrors.TypeError, node.Token, node.Name+" requires 2 numbers")
		}
		if node.Name == "max" {
			if a.Value >= b.Value {
				return a
			}
			return b
		}
		if a.Value <= b.Value {
			return a
		}
		return b
	case "floor", "ceil":
		// numbers are already integers; these exist for familiarity
		if n, ok := argVals[0].(*Number); ok {
			return n
		}
		return newError(terrors.TypeError, node.Token, node.Name+" requires a number")
	}
	return newError(terrors.NameError, node.Token, "Unknown builtin: "+node.Name)
}

func evalMethodCall(node *ast.MethodCallExpression, env *Environment) Object {
	obj := Eval(node.Object, env)
	if isError(obj) {
		return obj
	}
	switch node.Method {
	case "rows":
		if len(node.Args) != 0 {
			return newError(terrors.ArityError, node.Token, "rows() method takes no arguments")
		}
		arr2d, ok := obj.(*Array2D)
		if !ok {
			return newError(terrors.TypeError, node.Token, "rows() method only works on 2D arrays")
		}
		rows := make([]Object, len(arr2d.Rows))
		for i, row := range arr2d.Rows {
			rows[i] = &Array{Elements: row}
		}
		return &Array{Elements: rows}
	}
	return newError(terrors.NameError, node.Token, "Unknown method: "+node.Method)
}

// ---------------------------------------------------------------- indexing

// evalIndexExpression applies the index components left to right. A
// range component applied to a 2D array with a following single index
// is column access: it consumes both components, clamps the row range,
// and silently skips rows too short to have the column.
func evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	current := Eval(node.Left, env)
	if isError(current) {
		return current
	}

	comps := node.Components
	i := 0
	for i < len(comps) {
		if arr2d, ok := current.(*Array2D); ok && i+1 < len(comps) {
			if rangeComp, isRange := comps[i].(*ast.RangeIndex); isRange {
				col, errObj := evalColumnAccess(arr2d, rangeComp, comps[i+1], node.Token, env)
				if errObj != nil {
					return errObj
				}
				current = col
				i += 2
				continue
			}
		}

		switch comp := comps[i].(type) {
		case *ast.SingleIndex:
			idxVal := Eval(comp.Value, env)
			if isError(idxVal) {
				return idxVal
			}
			idx, errObj := toIndex(idxVal, node.Token)
			if errObj != nil {
				return errObj
			}
			result := indexValue(current, idx, node.Token)
			if isError(result) {
				return result
			}
			current = result
		case *ast.RangeIndex:
			start, end, errObj := evalRangeBounds(comp, node.Token, env)
			if errObj != nil {
				return errObj
			}
			result := sliceValue(current, start, end, node.Token)
			if isError(result) {
				return result
			}
			current = result
		}
		i++
	}
	return current
}

func evalColumnAccess(arr2d *Array2D, rowRange *ast.RangeIndex, colComp ast.IndexComponent, tok lexer.Token, env *Environment) (Object, Object) {
	single, ok := colComp.(*ast.SingleIndex)
	if !ok {
		return nil, newError(terrors.TypeError, tok, "Column access requires single index")
	}
	colVal := Eval(single.Value, env)
	if isError(colVal) {
		return nil, colVal
	}
	col, errObj := toIndex(colVal, tok)
	if errObj != nil {
		return nil, errObj
	}
	start, end, errObj := evalRangeBounds(rowRange, tok, env)
	if errObj != nil {
		return nil, errObj
	}

	endRow := len(arr2d.Rows)
	if end != nil && *end < endRow {
		endRow = *end
	}
	startRow := start
	if startRow > endRow {
		startRow = endRow
	}

	var elements []Object
	for _, row := range arr2d.Rows[startRow:endRow] {
		if col < len(row) {
			elements = append(elements, row[col])
		}
	}
	return &Array{Elements: elements}, nil
}

// evalRangeBounds resolves a range component's endpoints; a nil end
// means "to the end of the value".
func evalRangeBounds(comp *ast.RangeIndex, tok lexer.Token, env *Environment) (int, *int, Object) {
	start := 0
	if comp.Start != nil {
		val := Eval(comp.Start, env)
		if isError(val) {
			return 0, nil, val
		}
		idx, errObj := toIndex(val, tok)
		if errObj != nil {
			return 0, nil, errObj
		}
		start = idx
	}
	var end *int
	if comp.End != nil {
		val := Eval(comp.End, env)
		if isError(val) {
			return 0, nil, val
		}
		idx, errObj := toIndex(val, tok)
		if errObj != nil {
			return 0, nil, errObj
		}
		end = &idx
	}
	return start, end, nil
}

func toIndex(val Object, tok lexer.Token) (int, Object) {
	n, ok := val.(*Number)
	if !ok {
		return 0, newError(terrors.IndexError, tok, "Array index must be a number")
	}
	if n.Value < 0 {
		return 0, newError(terrors.IndexError, tok, "Array index must be non-negative integer")
	}
	return int(n.Value), nil
}

// indexValue is a bounds-checked single index; unlike slicing it errors
// instead of clamping.
func indexValue(value Object, index int, tok lexer.Token) Object {
	switch v := value.(type) {
	case *Array:
		if index >= len(v.Elements) {
			return newError(terrors.IndexError, tok,
				fmt.Sprintf("Index %d out of bounds (array length: %d)", index, len(v.Elements)))
		}
		return v.Elements[index]
	case *Array2D:
		if index >= len(v.Rows) {
			return newError(terrors.IndexError, tok, fmt.Sprintf("Index %d out of bounds", index))
		}
		return &Array{Elements: v.Rows[index]}
	case *String:
		runes := []rune(v.Value)
		if index >= len(runes) {
			return newError(terrors.IndexError, tok, fmt.Sprintf("Index %d out of bounds", index))
		}
		return &String{Value: string(runes[index])}
	}
	return newError(terrors.TypeError, tok, fmt.Sprintf("Cannot index non-array value: %s", value.Type()))
}

// sliceValue is end-exclusive and clamps both bounds to the length.
func sliceValue(value Object, start int, end *int, tok lexer.Token) Object {
	clamp := func(length int) (int, int) {
		e := length
		if end != nil && *end < length {
			e = *end
		}
		s := start
		if s > e {
			s = e
		}
		return s, e
	}
	switch v := value.(type) {
	case *Array:
		s, e := clamp(len(v.Elements))
		return &Array{Elements: v.Elements[s:e]}
	case *String:
		runes := []rune(v.Value)
		s, e := clamp(len(runes))
		return &String{Value: string(runes[s:e])}
	case *Array2D:
		s, e := clamp(len(v.Rows))
		return &Array2D{Rows: v.Rows[s:e]}
	}
	return newError(terrors.TypeError, tok, "Cannot slice non-array value")
}
