// Package parser builds a syntax tree from the token stream.
//
// The grammar has three ambiguities that need lookahead beyond one
// token: a call vs a function definition (`f(x)` vs `f(x) = ...`), a
// range literal vs an array literal (`[a..b]` vs `[a, b]`), and the
// assignment forms vs a bare expression. All three are resolved by
// checkpointing the token cursor, parsing tentatively, and rewinding on
// failure. Rewinding also discards any error recorded during the
// tentative parse, so only errors on the committed path surface.
//
// The parser stops at the first error and reports it with the source
// position and a caret-annotated line.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tinsel-lang/tinsel/pkg/tinsel/ast"
	terrors "github.com/tinsel-lang/tinsel/pkg/tinsel/errors"
	"github.com/tinsel-lang/tinsel/pkg/tinsel/lexer"
)

type Parser struct {
	tokens []lexer.Token
	pos    int
	source string
	eof    lexer.Token
	err    *terrors.Error
}

func New(source string) *Parser {
	p := &Parser{
		tokens: lexer.Tokenize(source),
		source: source,
	}
	line, column := 1, 1
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		line = last.Line
		column = last.Column + len(last.Literal)
	}
	p.eof = lexer.Token{Type: lexer.EOF, Line: line, Column: column}
	return p
}

// Parse is a convenience for the one-shot case.
func Parse(source string) (*ast.Program, error) {
	return New(source).ParseProgram()
}

func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{}
	for {
		p.skipSeparators()
		if p.atEnd() {
			break
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil, p.err
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

// ------------------------------------------------------------ token cursor

func (p *Parser) cur() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.eof
}

func (p *Parser) peekType(offset int) lexer.TokenType {
	if p.pos+offset < len(p.tokens) {
		return p.tokens[p.pos+offset].Type
	}
	return lexer.EOF
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

// skipSeparators steps over newlines and comments; statements are
// newline-separated but neither token carries meaning beyond that.
func (p *Parser) skipSeparators() {
	for p.check(lexer.NEWLINE) || p.check(lexer.COMMENT) {
		p.advance()
	}
}

// checkpoint captures the cursor and error state for a tentative parse.
type checkpoint struct {
	pos int
	err *terrors.Error
}

func (p *Parser) mark() checkpoint {
	return checkpoint{pos: p.pos, err: p.err}
}

func (p *Parser) rewind(c checkpoint) {
	p.pos = c.pos
	p.err = c.err
}

// ------------------------------------------------------------------ errors

func (p *Parser) addError(message string, tok lexer.Token) {
	if p.err != nil {
		return
	}
	p.err = terrors.NewWithPosition(terrors.SyntaxError, message, tok.Line, tok.Column)
	if ctx := terrors.SourceContext(p.source, tok.Line, tok.Column); ctx != "" {
		p.err.Message = message + "\n" + ctx
	}
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.NEWLINE:
		return "end of line"
	default:
		return "'" + tok.Literal + "'"
	}
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, bool) {
	if p.check(tt) {
		return p.advance(), true
	}
	p.addError(fmt.Sprintf("expected '%s', got %s", tt, describe(p.cur())), p.cur())
	return p.cur(), false
}

// -------------------------------------------------------------- statements

func (p *Parser) parseStatement() ast.Statement {
	tok := p.cur()

	switch tok.Type {
	case lexer.IDENT:
		if p.peekType(1) == lexer.LPAREN {
			if stmt := p.tryParseFunctionStatement(); stmt != nil || p.err != nil {
				return stmt
			}
		}
		switch p.peekType(1) {
		case lexer.ASSIGN:
			name := p.advance()
			p.advance() // '='
			value := p.parseExpression()
			if p.err != nil {
				return nil
			}
			if strings.HasPrefix(name.Literal, "_") {
				return &ast.ReturnStatement{Token: name, Target: name.Literal, Value: value}
			}
			return &ast.AssignStatement{Token: name, Name: name.Literal, Value: value}
		case lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.ASTERISK_ASSIGN,
			lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN:
			return p.parseCompoundAssign()
		}
	case lexer.UNDERSCORE:
		switch p.peekType(1) {
		case lexer.ASSIGN:
			name := p.advance()
			p.advance() // '='
			value := p.parseExpression()
			if p.err != nil {
				return nil
			}
			return &ast.ReturnStatement{Token: name, Target: "_", Value: value}
		case lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.ASTERISK_ASSIGN,
			lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN:
			return p.parseCompoundAssign()
		}
	}

	expr := p.parseExpression()
	if p.err != nil {
		return nil
	}
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

var compoundOps = map[lexer.TokenType]string{
	lexer.PLUS_ASSIGN:     "+",
	lexer.MINUS_ASSIGN:    "-",
	lexer.ASTERISK_ASSIGN: "*",
	lexer.SLASH_ASSIGN:    "/",
	lexer.PERCENT_ASSIGN:  "%",
}

func (p *Parser) parseCompoundAssign() ast.Statement {
	name := p.advance()
	op := p.advance()
	value := p.parseExpression()
	if p.err != nil {
		return nil
	}
	return &ast.CompoundAssignStatement{
		Token:    name,
		Name:     name.Literal,
		Operator: compoundOps[op.Type],
		Value:    value,
	}
}

// tryParseFunctionStatement decides whether `name(...)` is a definition
// by skipping the balanced parens and looking for a following '='. A
// call site rewinds and returns nil; once the '=' is seen the parse is
// committed and malformed parameters are hard errors.
func (p *Parser) tryParseFunctionStatement() ast.Statement {
	c := p.mark()
	name := p.advance()
	p.advance() // '('
	depth := 1
	for depth > 0 {
		if p.atEnd() {
			p.rewind(c)
			return nil
		}
		switch p.advance().Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
		}
	}
	if !p.check(lexer.ASSIGN) {
		p.rewind(c)
		return nil
	}
	p.rewind(c)

	p.advance() // name
	p.advance() // '('
	var params []string
	p.skipSeparators()
	for !p.check(lexer.RPAREN) {
		param, ok := p.expect(lexer.IDENT)
		if !ok {
			return nil
		}
		params = append(params, param.Literal)
		p.skipSeparators()
		if p.check(lexer.COMMA) {
			p.advance()
			p.skipSeparators()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.RPAREN); !ok {
		return nil
	}
	if _, ok := p.expect(lexer.ASSIGN); !ok {
		return nil
	}
	body := p.parseExpression()
	if p.err != nil {
		return nil
	}
	return &ast.FunctionStatement{Token: name, Name: name.Literal, Params: params, Body: body}
}

// ------------------------------------------------------------- expressions

// Precedence, lowest to highest: |>  ||  &&  comparisons  + -  * / %
// unary  postfix. All binary operators left-associate.

func (p *Parser) parseExpression() ast.Expression {
	return p.parsePipe()
}

func (p *Parser) parsePipe() ast.Expression {
	left := p.parseOr()
	for p.err == nil && p.check(lexer.PIPE_GREATER) {
		tok := p.advance()
		right := p.parseOr()
		if p.err != nil {
			return nil
		}
		left = &ast.PipeExpression{Token: tok, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.err == nil && p.check(lexer.OR) {
		tok := p.advance()
		right := p.parseAnd()
		if p.err != nil {
			return nil
		}
		left = &ast.InfixExpression{Token: tok, Left: left, Operator: "||", Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseComparison()
	for p.err == nil && p.check(lexer.AND) {
		tok := p.advance()
		right := p.parseComparison()
		if p.err != nil {
			return nil
		}
		left = &ast.InfixExpression{Token: tok, Left: left, Operator: "&&", Right: right}
	}
	return left
}

var comparisonOps = map[lexer.TokenType]string{
	lexer.EQ:    "==",
	lexer.LT:    "<",
	lexer.GT:    ">",
	lexer.LT_EQ: "<=",
	lexer.GT_EQ: ">=",
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for p.err == nil {
		op, ok := comparisonOps[p.cur().Type]
		if !ok {
			return left
		}
		tok := p.advance()
		right := p.parseAdditive()
		if p.err != nil {
			return nil
		}
		left = &ast.InfixExpression{Token: tok, Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.err == nil && (p.check(lexer.PLUS) || p.check(lexer.MINUS)) {
		tok := p.advance()
		right := p.parseMultiplicative()
		if p.err != nil {
			return nil
		}
		left = &ast.InfixExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for p.err == nil && (p.check(lexer.ASTERISK) || p.check(lexer.SLASH) || p.check(lexer.PERCENT)) {
		tok := p.advance()
		right := p.parseUnary()
		if p.err != nil {
			return nil
		}
		left = &ast.InfixExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.check(lexer.TILDE) || p.check(lexer.BANG) {
		tok := p.advance()
		right := p.parseUnary()
		if p.err != nil {
			return nil
		}
		return &ast.PrefixExpression{Token: tok, Operator: tok.Literal, Right: right}
	}
	return p.parsePostfix()
}

// parsePostfix handles index groups and method calls, which bind tighter
// than any operator. A newline ends the chain.
func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	for p.err == nil {
		switch {
		case p.check(lexer.LBRACKET):
			expr = p.parseIndexGroup(expr)
		case p.check(lexer.DOT):
			expr = p.parseMethodCall(expr)
		default:
			return expr
		}
	}
	return nil
}

func (p *Parser) parsePrimary() ast.Expression {
	p.skipSeparators()
	tok := p.cur()

	switch tok.Type {
	case lexer.INT:
		p.advance()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.addError(fmt.Sprintf("number %s out of range", tok.Literal), tok)
			return nil
		}
		return &ast.NumberLiteral{Token: tok, Value: value}
	case lexer.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Token: tok, Value: tok.Type == lexer.TRUE}
	case lexer.INPUT:
		p.advance()
		return &ast.InputExpression{Token: tok}
	case lexer.UNDERSCORE:
		p.advance()
		return &ast.ReturnValueExpression{Token: tok}
	case lexer.IDENT:
		p.advance()
		if p.check(lexer.LPAREN) {
			return p.parseCall(tok)
		}
		return &ast.Identifier{Token: tok, Value: tok.Literal}
	case lexer.LBRACKET:
		return p.parseArrayOrRange()
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression()
		if p.err != nil {
			return nil
		}
		p.skipSeparators()
		if _, ok := p.expect(lexer.RPAREN); !ok {
			return nil
		}
		return expr
	case lexer.IF:
		return p.parseIf()
	case lexer.FOR:
		return p.parseFor()
	case lexer.LEN:
		return p.parseBuiltin(tok, 1)
	case lexer.MAX, lexer.MIN:
		return p.parseBuiltin(tok, 2)
	case lexer.FLOOR, lexer.CEIL:
		return p.parseBuiltin(tok, 1)
	case lexer.ILLEGAL:
		p.addError(fmt.Sprintf("unexpected character %s", describe(tok)), tok)
		return nil
	default:
		p.addError(fmt.Sprintf("unexpected %s", describe(tok)), tok)
		return nil
	}
}

func (p *Parser) parseCall(name lexer.Token) ast.Expression {
	p.advance() // '('
	args := p.parseArgList()
	if p.err != nil {
		return nil
	}
	return &ast.CallExpression{Token: name, Name: name.Literal, Args: args}
}

// parseArgList parses comma-separated expressions up to a closing ')',
// which it consumes.
func (p *Parser) parseArgList() []ast.Expression {
	var args []ast.Expression
	p.skipSeparators()
	for !p.check(lexer.RPAREN) {
		arg := p.parseExpression()
		if p.err != nil {
			return nil
		}
		args = append(args, arg)
		p.skipSeparators()
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.RPAREN); !ok {
		return nil
	}
	return args
}

// parseArrayOrRange disambiguates `[a..b]` from `[a, b, ...]` by trying
// the range shape first and rewinding when it does not fit.
func (p *Parser) parseArrayOrRange() ast.Expression {
	lbracket := p.advance()
	p.skipSeparators()

	if p.check(lexer.RBRACKET) {
		p.advance()
		return &ast.ArrayLiteral{Token: lbracket}
	}

	c := p.mark()
	start := p.parseExpression()
	if p.err == nil && p.check(lexer.DOTDOT) {
		p.advance()
		end := p.parseExpression()
		if p.err == nil && p.check(lexer.RBRACKET) {
			p.advance()
			return &ast.RangeLiteral{Token: lbracket, Start: start, End: end}
		}
	}
	p.rewind(c)

	var elements []ast.Expression
	for !p.check(lexer.RBRACKET) {
		el := p.parseExpression()
		if p.err != nil {
			return nil
		}
		elements = append(elements, el)
		p.skipSeparators()
		if p.check(lexer.COMMA) {
			p.advance()
			p.skipSeparators()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.RBRACKET); !ok {
		return nil
	}
	return &ast.ArrayLiteral{Token: lbracket, Elements: elements}
}

func (p *Parser) parseBlock() ast.Expression {
	lbrace := p.advance()
	block := &ast.BlockExpression{Token: lbrace}
	for {
		p.skipSeparators()
		if p.check(lexer.RBRACE) {
			p.advance()
			return block
		}
		if p.atEnd() {
			p.addError("expected '}', got end of input", p.cur())
			return nil
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
	}
}

func (p *Parser) parseIf() ast.Expression {
	tok := p.advance()
	if _, ok := p.expect(lexer.LPAREN); !ok {
		return nil
	}
	cond := p.parseExpression()
	if p.err != nil {
		return nil
	}
	p.skipSeparators()
	if _, ok := p.expect(lexer.COMMA); !ok {
		return nil
	}
	then := p.parseExpression()
	if p.err != nil {
		return nil
	}
	var els ast.Expression
	p.skipSeparators()
	if p.check(lexer.COMMA) {
		p.advance()
		els = p.parseExpression()
		if p.err != nil {
			return nil
		}
		p.skipSeparators()
	}
	if _, ok := p.expect(lexer.RPAREN); !ok {
		return nil
	}
	return &ast.IfExpression{Token: tok, Condition: cond, Then: then, Else: els}
}

func (p *Parser) parseFor() ast.Expression {
	tok := p.advance()
	if _, ok := p.expect(lexer.LPAREN); !ok {
		return nil
	}
	p.skipSeparators()
	loopVar, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.OF); !ok {
		return nil
	}
	iterable := p.parseExpression()
	if p.err != nil {
		return nil
	}
	p.skipSeparators()
	if _, ok := p.expect(lexer.COMMA); !ok {
		return nil
	}
	body := p.parseExpression()
	if p.err != nil {
		return nil
	}
	var initial ast.Expression
	p.skipSeparators()
	if p.check(lexer.COMMA) {
		p.advance()
		initial = p.parseExpression()
		if p.err != nil {
			return nil
		}
		p.skipSeparators()
	}
	if _, ok := p.expect(lexer.RPAREN); !ok {
		return nil
	}
	return &ast.ForExpression{Token: tok, Var: loopVar.Literal, Iterable: iterable, Body: body, Initial: initial}
}

func (p *Parser) parseBuiltin(tok lexer.Token, arity int) ast.Expression {
	p.advance()
	if _, ok := p.expect(lexer.LPAREN); !ok {
		return nil
	}
	args := p.parseArgList()
	if p.err != nil {
		return nil
	}
	if len(args) != arity {
		p.err = terrors.NewWithPosition(terrors.ArityError,
			fmt.Sprintf("wrong number of arguments to `%s`. got=%d, want=%d", tok.Literal, len(args), arity),
			tok.Line, tok.Column)
		return nil
	}
	return &ast.BuiltinCall{Token: tok, Name: tok.Literal, Args: args}
}

func (p *Parser) parseMethodCall(object ast.Expression) ast.Expression {
	dot := p.advance()
	method, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.LPAREN); !ok {
		return nil
	}
	args := p.parseArgList()
	if p.err != nil {
		return nil
	}
	return &ast.MethodCallExpression{Token: dot, Object: object, Method: method.Literal, Args: args}
}

func (p *Parser) parseIndexGroup(left ast.Expression) ast.Expression {
	lbracket := p.advance()
	group := &ast.IndexExpression{Token: lbracket, Left: left}
	for {
		p.skipSeparators()
		comp := p.parseIndexComponent()
		if p.err != nil {
			return nil
		}
		group.Components = append(group.Components, comp)
		p.skipSeparators()
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.RBRACKET); !ok {
		return nil
	}
	return group
}

// parseIndexComponent parses one of: expr, expr..expr, expr.., ..expr,
// or a bare `..`.
func (p *Parser) parseIndexComponent() ast.IndexComponent {
	if p.check(lexer.DOTDOT) {
		p.advance()
		if p.check(lexer.RBRACKET) || p.check(lexer.COMMA) {
			return &ast.RangeIndex{}
		}
		end := p.parseExpression()
		if p.err != nil {
			return nil
		}
		return &ast.RangeIndex{End: end}
	}

	start := p.parseExpression()
	if p.err != nil {
		return nil
	}
	if !p.check(lexer.DOTDOT) {
		return &ast.SingleIndex{Value: start}
	}
	p.advance()
	if p.check(lexer.RBRACKET) || p.check(lexer.COMMA) {
		return &ast.RangeIndex{Start: start}
	}
	end := p.parseExpression()
	if p.err != nil {
		return nil
	}
	return &ast.RangeIndex{Start: start, End: end}
}
