// Package ast defines the syntax tree produced by the parser.
package ast

import (
	"bytes"
	"strings"

	"github.com/tinsel-lang/tinsel/pkg/tinsel/lexer"
)

type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: a flat list of statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// ---------------------------------------------------------------- statements

// AssignStatement is `name = value`.
type AssignStatement struct {
	Token lexer.Token // the identifier token
	Name  string
	Value Expression
}

func (s *AssignStatement) statementNode()       {}
func (s *AssignStatement) TokenLiteral() string { return s.Token.Literal }
func (s *AssignStatement) String() string {
	return s.Name + " = " + s.Value.String()
}

// CompoundAssignStatement is `name op= value`. Name may also be `_` or a
// named return target like `_total`.
type CompoundAssignStatement struct {
	Token    lexer.Token
	Name     string
	Operator string // "+", "-", "*", "/", "%"
	Value    Expression
}

func (s *CompoundAssignStatement) statementNode()       {}
func (s *CompoundAssignStatement) TokenLiteral() string { return s.Token.Literal }
func (s *CompoundAssignStatement) String() string {
	return s.Name + " " + s.Operator + "= " + s.Value.String()
}

// ReturnStatement assigns the return slot: `_ = value` or `_name = value`.
// Target is the literal spelling, "_" or "_name".
type ReturnStatement struct {
	Token  lexer.Token
	Target string
	Value  Expression
}

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStatement) String() string {
	return s.Target + " = " + s.Value.String()
}

// FunctionStatement is `name(p1, p2) = body`.
type FunctionStatement struct {
	Token  lexer.Token
	Name   string
	Params []string
	Body   Expression
}

func (s *FunctionStatement) statementNode()       {}
func (s *FunctionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *FunctionStatement) String() string {
	var out bytes.Buffer
	out.WriteString(s.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(s.Params, ", "))
	out.WriteString(") = ")
	out.WriteString(s.Body.String())
	return out.String()
}

// ExpressionStatement is a bare expression at statement position.
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (s *ExpressionStatement) statementNode()       {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) String() string {
	if s.Expression != nil {
		return s.Expression.String()
	}
	return ""
}

// --------------------------------------------------------------- expressions

type NumberLiteral struct {
	Token lexer.Token
	Value int64
}

func (e *NumberLiteral) expressionNode()      {}
func (e *NumberLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *NumberLiteral) String() string       { return e.Token.Literal }

type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (e *BooleanLiteral) expressionNode()      {}
func (e *BooleanLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *BooleanLiteral) String() string       { return e.Token.Literal }

type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (e *StringLiteral) expressionNode()      {}
func (e *StringLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *StringLiteral) String() string       { return `"` + e.Value + `"` }

type Identifier struct {
	Token lexer.Token
	Value string
}

func (e *Identifier) expressionNode()      {}
func (e *Identifier) TokenLiteral() string { return e.Token.Literal }
func (e *Identifier) String() string       { return e.Value }

// InputExpression is the `input` keyword: the puzzle input as a 2D grid.
type InputExpression struct {
	Token lexer.Token
}

func (e *InputExpression) expressionNode()      {}
func (e *InputExpression) TokenLiteral() string { return e.Token.Literal }
func (e *InputExpression) String() string       { return "input" }

// ReturnValueExpression is a bare `_` read of the return slot.
type ReturnValueExpression struct {
	Token lexer.Token
}

func (e *ReturnValueExpression) expressionNode()      {}
func (e *ReturnValueExpression) TokenLiteral() string { return e.Token.Literal }
func (e *ReturnValueExpression) String() string       { return "_" }

type ArrayLiteral struct {
	Token    lexer.Token // the '['
	Elements []Expression
}

func (e *ArrayLiteral) expressionNode()      {}
func (e *ArrayLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *ArrayLiteral) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// RangeLiteral is `[start..end]`. Both endpoints are required.
type RangeLiteral struct {
	Token lexer.Token // the '['
	Start Expression
	End   Expression
}

func (e *RangeLiteral) expressionNode()      {}
func (e *RangeLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *RangeLiteral) String() string {
	return "[" + e.Start.String() + ".." + e.End.String() + "]"
}

type PrefixExpression struct {
	Token    lexer.Token
	Operator string // "~" or "!"
	Right    Expression
}

func (e *PrefixExpression) expressionNode()      {}
func (e *PrefixExpression) TokenLiteral() string { return e.Token.Literal }
func (e *PrefixExpression) String() string {
	return "(" + e.Operator + e.Right.String() + ")"
}

type InfixExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (e *InfixExpression) expressionNode()      {}
func (e *InfixExpression) TokenLiteral() string { return e.Token.Literal }
func (e *InfixExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// PipeExpression is `left |> right`.
type PipeExpression struct {
	Token lexer.Token
	Left  Expression
	Right Expression
}

func (e *PipeExpression) expressionNode()      {}
func (e *PipeExpression) TokenLiteral() string { return e.Token.Literal }
func (e *PipeExpression) String() string {
	return "(" + e.Left.String() + " |> " + e.Right.String() + ")"
}

// CallExpression is a user function call `name(args...)`.
type CallExpression struct {
	Token lexer.Token // the identifier token
	Name  string
	Args  []Expression
}

func (e *CallExpression) expressionNode()      {}
func (e *CallExpression) TokenLiteral() string { return e.Token.Literal }
func (e *CallExpression) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Name + "(" + strings.Join(parts, ", ") + ")"
}

// IndexComponent is one comma-separated entry inside an index group.
type IndexComponent interface {
	indexComponent()
	String() string
}

// SingleIndex is a plain index expression.
type SingleIndex struct {
	Value Expression
}

func (c *SingleIndex) indexComponent() {}
func (c *SingleIndex) String() string  { return c.Value.String() }

// RangeIndex is a slice component; either endpoint may be nil.
type RangeIndex struct {
	Start Expression
	End   Expression
}

func (c *RangeIndex) indexComponent() {}
func (c *RangeIndex) String() string {
	var out bytes.Buffer
	if c.Start != nil {
		out.WriteString(c.Start.String())
	}
	out.WriteString("..")
	if c.End != nil {
		out.WriteString(c.End.String())
	}
	return out.String()
}

// IndexExpression is one `left[c1, c2, ...]` group. Chained groups nest,
// with the earlier group as Left.
type IndexExpression struct {
	Token      lexer.Token // the '['
	Left       Expression
	Components []IndexComponent
}

func (e *IndexExpression) expressionNode()      {}
func (e *IndexExpression) TokenLiteral() string { return e.Token.Literal }
func (e *IndexExpression) String() string {
	parts := make([]string, len(e.Components))
	for i, c := range e.Components {
		parts[i] = c.String()
	}
	return e.Left.String() + "[" + strings.Join(parts, ", ") + "]"
}

// IfExpression is `if(cond, then)` or `if(cond, then, else)`; Else is
// nil when absent.
type IfExpression struct {
	Token     lexer.Token
	Condition Expression
	Then      Expression
	Else      Expression
}

func (e *IfExpression) expressionNode()      {}
func (e *IfExpression) TokenLiteral() string { return e.Token.Literal }
func (e *IfExpression) String() string {
	var out bytes.Buffer
	out.WriteString("if(")
	out.WriteString(e.Condition.String())
	out.WriteString(", ")
	out.WriteString(e.Then.String())
	if e.Else != nil {
		out.WriteString(", ")
		out.WriteString(e.Else.String())
	}
	out.WriteString(")")
	return out.String()
}

// ForExpression is `for(v of seq, body)` or `for(v of seq, body, initial)`;
// Initial is nil when absent.
type ForExpression struct {
	Token    lexer.Token
	Var      string
	Iterable Expression
	Body     Expression
	Initial  Expression
}

func (e *ForExpression) expressionNode()      {}
func (e *ForExpression) TokenLiteral() string { return e.Token.Literal }
func (e *ForExpression) String() string {
	var out bytes.Buffer
	out.WriteString("for(")
	out.WriteString(e.Var)
	out.WriteString(" of ")
	out.WriteString(e.Iterable.String())
	out.WriteString(", ")
	out.WriteString(e.Body.String())
	if e.Initial != nil {
		out.WriteString(", ")
		out.WriteString(e.Initial.String())
	}
	out.WriteString(")")
	return out.String()
}

// BuiltinCall is one of len, max, min, floor, ceil.
type BuiltinCall struct {
	Token lexer.Token
	Name  string
	Args  []Expression
}

func (e *BuiltinCall) expressionNode()      {}
func (e *BuiltinCall) TokenLiteral() string { return e.Token.Literal }
func (e *BuiltinCall) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Name + "(" + strings.Join(parts, ", ") + ")"
}

// MethodCallExpression is `object.method(args...)`. Method names are not
// checked at parse time.
type MethodCallExpression struct {
	Token  lexer.Token // the '.'
	Object Expression
	Method string
	Args   []Expression
}

func (e *MethodCallExpression) expressionNode()      {}
func (e *MethodCallExpression) TokenLiteral() string { return e.Token.Literal }
func (e *MethodCallExpression) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Object.String() + "." + e.Method + "(" + strings.Join(parts, ", ") + ")"
}

// BlockExpression is `{ stmt; stmt; ... }` used as a value.
type BlockExpression struct {
	Token      lexer.Token // the '{'
	Statements []Statement
}

func (e *BlockExpression) expressionNode()      {}
func (e *BlockExpression) TokenLiteral() string { return e.Token.Literal }
func (e *BlockExpression) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range e.Statements {
		out.WriteString(s.String())
		out.WriteString("; ")
	}
	out.WriteString("}")
	return out.String()
}
