// Package lexer turns tinsel source text into a stream of tokens.
//
// The lexer is deliberately forgiving: it never fails. Unterminated
// strings run to end of input, unrecognized characters are skipped, and
// the only character it flags is a lone '&', which becomes an ILLEGAL
// token for the parser to report.
package lexer

import "strings"

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	NEWLINE
	COMMENT

	IDENT
	INT
	STRING
	UNDERSCORE

	// keywords
	IF
	FOR
	OF
	INPUT
	LEN
	MAX
	MIN
	FLOOR
	CEIL
	TRUE
	FALSE

	// operators
	ASSIGN
	PLUS
	MINUS
	ASTERISK
	SLASH
	PERCENT
	PLUS_ASSIGN
	MINUS_ASSIGN
	ASTERISK_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	EQ
	LT
	GT
	LT_EQ
	GT_EQ
	AND
	OR
	BANG
	TILDE
	PIPE
	PIPE_GREATER
	DOT
	DOTDOT

	// delimiters
	COMMA
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
)

var tokenNames = map[TokenType]string{
	ILLEGAL:         "ILLEGAL",
	EOF:             "EOF",
	NEWLINE:         "NEWLINE",
	COMMENT:         "COMMENT",
	IDENT:           "IDENT",
	INT:             "INT",
	STRING:          "STRING",
	UNDERSCORE:      "_",
	IF:              "if",
	FOR:             "for",
	OF:              "of",
	INPUT:           "input",
	LEN:             "len",
	MAX:             "max",
	MIN:             "min",
	FLOOR:           "floor",
	CEIL:            "ceil",
	TRUE:            "true",
	FALSE:           "false",
	ASSIGN:          "=",
	PLUS:            "+",
	MINUS:           "-",
	ASTERISK:        "*",
	SLASH:           "/",
	PERCENT:         "%",
	PLUS_ASSIGN:     "+=",
	MINUS_ASSIGN:    "-=",
	ASTERISK_ASSIGN: "*=",
	SLASH_ASSIGN:    "/=",
	PERCENT_ASSIGN:  "%=",
	EQ:              "==",
	LT:              "<",
	GT:              ">",
	LT_EQ:           "<=",
	GT_EQ:           ">=",
	AND:             "&&",
	OR:              "||",
	BANG:            "!",
	TILDE:           "~",
	PIPE:            "|",
	PIPE_GREATER:    "|>",
	DOT:             ".",
	DOTDOT:          "..",
	COMMA:           ",",
	LPAREN:          "(",
	RPAREN:          ")",
	LBRACKET:        "[",
	RBRACKET:        "]",
	LBRACE:          "{",
	RBRACE:          "}",
}

func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token carries its 1-based source position so the parser and evaluator
// can report exactly where things went wrong.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

var keywords = map[string]TokenType{
	"if":    IF,
	"for":   FOR,
	"of":    OF,
	"input": INPUT,
	"len":   LEN,
	"max":   MAX,
	"min":   MIN,
	"floor": FLOOR,
	"ceil":  CEIL,
	"true":  TRUE,
	"false": FALSE,
}

// LookupIdent maps reserved words to their token types.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}

type Lexer struct {
	input        string
	position     int  // current position (points to ch)
	readPosition int  // next position to read
	ch           byte // current char, 0 at EOF
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) newToken(tt TokenType, literal string, line, column int) Token {
	return Token{Type: tt, Literal: literal, Line: line, Column: column}
}

// NextToken returns the next token in the input. Newlines and comments
// are real tokens; the parser decides what to do with them.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		line, column := l.line, l.column

		switch l.ch {
		case 0:
			return l.newToken(EOF, "", line, column)
		case '\n':
			l.readChar()
			return l.newToken(NEWLINE, "\n", line, column)
		case '=':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return l.newToken(EQ, "==", line, column)
			}
			l.readChar()
			return l.newToken(ASSIGN, "=", line, column)
		case '+':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return l.newToken(PLUS_ASSIGN, "+=", line, column)
			}
			l.readChar()
			return l.newToken(PLUS, "+", line, column)
		case '-':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return l.newToken(MINUS_ASSIGN, "-=", line, column)
			}
			l.readChar()
			return l.newToken(MINUS, "-", line, column)
		case '*':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return l.newToken(ASTERISK_ASSIGN, "*=", line, column)
			}
			l.readChar()
			return l.newToken(ASTERISK, "*", line, column)
		case '%':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return l.newToken(PERCENT_ASSIGN, "%=", line, column)
			}
			l.readChar()
			return l.newToken(PERCENT, "%", line, column)
		case '/':
			switch l.peekChar() {
			case '/':
				return l.readComment(line, column)
			case '=':
				l.readChar()
				l.readChar()
				return l.newToken(SLASH_ASSIGN, "/=", line, column)
			}
			l.readChar()
			return l.newToken(SLASH, "/", line, column)
		case '<':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return l.newToken(LT_EQ, "<=", line, column)
			}
			l.readChar()
			return l.newToken(LT, "<", line, column)
		case '>':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return l.newToken(GT_EQ, ">=", line, column)
			}
			l.readChar()
			return l.newToken(GT, ">", line, column)
		case '&':
			if l.peekChar() == '&' {
				l.readChar()
				l.readChar()
				return l.newToken(AND, "&&", line, column)
			}
			l.readChar()
			return l.newToken(ILLEGAL, "&", line, column)
		case '|':
			switch l.peekChar() {
			case '|':
				l.readChar()
				l.readChar()
				return l.newToken(OR, "||", line, column)
			case '>':
				l.readChar()
				l.readChar()
				return l.newToken(PIPE_GREATER, "|>", line, column)
			}
			l.readChar()
			return l.newToken(PIPE, "|", line, column)
		case '!':
			l.readChar()
			return l.newToken(BANG, "!", line, column)
		case '~':
			l.readChar()
			return l.newToken(TILDE, "~", line, column)
		case '.':
			if l.peekChar() == '.' {
				l.readChar()
				l.readChar()
				return l.newToken(DOTDOT, "..", line, column)
			}
			l.readChar()
			return l.newToken(DOT, ".", line, column)
		case ',':
			l.readChar()
			return l.newToken(COMMA, ",", line, column)
		case '(':
			l.readChar()
			return l.newToken(LPAREN, "(", line, column)
		case ')':
			l.readChar()
			return l.newToken(RPAREN, ")", line, column)
		case '[':
			l.readChar()
			return l.newToken(LBRACKET, "[", line, column)
		case ']':
			l.readChar()
			return l.newToken(RBRACKET, "]", line, column)
		case '{':
			l.readChar()
			return l.newToken(LBRACE, "{", line, column)
		case '}':
			l.readChar()
			return l.newToken(RBRACE, "}", line, column)
		case '"':
			return l.newToken(STRING, l.readString(), line, column)
		case '_':
			if isLetter(l.peekChar()) || isDigit(l.peekChar()) || l.peekChar() == '_' {
				return l.newToken(IDENT, l.readIdentifier(), line, column)
			}
			l.readChar()
			return l.newToken(UNDERSCORE, "_", line, column)
		default:
			if isLetter(l.ch) {
				literal := l.readIdentifier()
				return l.newToken(LookupIdent(literal), literal, line, column)
			}
			if isDigit(l.ch) {
				return l.newToken(INT, l.readNumber(), line, column)
			}
			// anything else is dropped on the floor
			l.readChar()
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString consumes a double-quoted string, resolving the escapes
// \n \t \\ \". A missing closing quote swallows the rest of the input.
func (l *Lexer) readString() string {
	var sb strings.Builder
	l.readChar() // opening quote
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			switch l.peekChar() {
			case 'n':
				sb.WriteByte('\n')
				l.readChar()
			case 't':
				sb.WriteByte('\t')
				l.readChar()
			case '\\':
				sb.WriteByte('\\')
				l.readChar()
			case '"':
				sb.WriteByte('"')
				l.readChar()
			default:
				sb.WriteByte(l.ch)
			}
		} else {
			sb.WriteByte(l.ch)
		}
		l.readChar()
	}
	if l.ch == '"' {
		l.readChar() // closing quote
	}
	return sb.String()
}

func (l *Lexer) readComment(line, column int) Token {
	l.readChar() // first slash
	l.readChar() // second slash
	start := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return l.newToken(COMMENT, l.input[start:l.position], line, column)
}

// Tokenize runs the lexer over the whole input and returns every token
// up to, but not including, EOF.
func Tokenize(input string) []Token {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
