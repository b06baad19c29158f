package evaluator

import (
	"strconv"
	"strings"

	"github.com/tinsel-lang/tinsel/pkg/tinsel/ast"
	terrors "github.com/tinsel-lang/tinsel/pkg/tinsel/errors"
	"github.com/tinsel-lang/tinsel/pkg/tinsel/lexer"
)

type ObjectType string

// Type names double as the user-facing names in error messages.
const (
	NUMBER_OBJ  ObjectType = "Number"
	BOOLEAN_OBJ ObjectType = "Boolean"
	STRING_OBJ  ObjectType = "String"
	ARRAY_OBJ   ObjectType = "Array1D"
	ARRAY2D_OBJ ObjectType = "Array2D"
	ERROR_OBJ   ObjectType = "Error"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Number struct {
	Value int64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatInt(n.Value, 10) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(v bool) *Boolean {
	if v {
		return TRUE
	}
	return FALSE
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Array is the 1D array. Values are never mutated in place, so elements
// may be shared between bindings.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Array2D is the grid type. It only arises from `input` and from
// slicing another Array2D; rows may have uneven lengths.
type Array2D struct {
	Rows [][]Object
}

func (a *Array2D) Type() ObjectType { return ARRAY2D_OBJ }
func (a *Array2D) Inspect() string {
	rows := make([]string, len(a.Rows))
	for i, row := range a.Rows {
		parts := make([]string, len(row))
		for j, el := range row {
			parts[j] = el.Inspect()
		}
		rows[i] = "[" + strings.Join(parts, ", ") + "]"
	}
	return "[" + strings.Join(rows, ", ") + "]"
}

// Error is a runtime fault travelling up the evaluation tree.
type Error struct {
	Class   terrors.ErrorClass
	Message string
	Line    int
	Column  int
	Hints   []string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }

// ToError converts to the structured error shared with the parser.
func (e *Error) ToError() *terrors.Error {
	err := terrors.NewWithPosition(e.Class, e.Message, e.Line, e.Column)
	err.Hints = e.Hints
	return err
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

func newError(class terrors.ErrorClass, tok lexer.Token, message string) *Error {
	return &Error{Class: class, Message: message, Line: tok.Line, Column: tok.Column}
}

// isTruthy: non-zero numbers, true, and non-empty strings and arrays.
func isTruthy(obj Object) bool {
	switch v := obj.(type) {
	case *Number:
		return v.Value != 0
	case *Boolean:
		return v.Value
	case *String:
		return v.Value != ""
	case *Array:
		return len(v.Elements) > 0
	case *Array2D:
		return len(v.Rows) > 0
	}
	return false
}

// objectsEqual is structural equality with no coercion: values of
// different types never compare equal.
func objectsEqual(a, b Object) bool {
	switch av := a.(type) {
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Value == bv.Value
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Array:
		bv, ok := b.(*Array)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !objectsEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Array2D:
		bv, ok := b.(*Array2D)
		if !ok || len(av.Rows) != len(bv.Rows) {
			return false
		}
		for i := range av.Rows {
			if len(av.Rows[i]) != len(bv.Rows[i]) {
				return false
			}
			for j := range av.Rows[i] {
				if !objectsEqual(av.Rows[i][j], bv.Rows[i][j]) {
					return false
				}
			}
		}
		return true
	}
	return false
}

// DebugString renders a value for trace output. Strings are quoted, and
// a non-empty array of single-character strings prints as the joined,
// quoted string, which keeps grid-row traces readable.
func DebugString(obj Object) string {
	switch v := obj.(type) {
	case *String:
		return `"` + v.Value + `"`
	case *Array:
		if s, ok := charArrayString(v); ok {
			return `"` + s + `"`
		}
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			parts[i] = DebugString(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Array2D:
		rows := make([]string, len(v.Rows))
		for i, row := range v.Rows {
			parts := make([]string, len(row))
			for j, el := range row {
				parts[j] = DebugString(el)
			}
			rows[i] = "[" + strings.Join(parts, ", ") + "]"
		}
		return "[" + strings.Join(rows, ", ") + "]"
	default:
		return obj.Inspect()
	}
}

func charArrayString(arr *Array) (string, bool) {
	if len(arr.Elements) == 0 {
		return "", false
	}
	var sb strings.Builder
	for _, el := range arr.Elements {
		s, ok := el.(*String)
		if !ok || len([]rune(s.Value)) != 1 {
			return "", false
		}
		sb.WriteString(s.Value)
	}
	return sb.String(), true
}

// Function is a user-defined, single-expression function. There are no
// closures; bodies see the global scope at call time.
type Function struct {
	Name   string
	Params []string
	Body   ast.Expression
}
