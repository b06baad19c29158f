// Package errors defines the structured error type shared by the parser
// and evaluator, plus the caret-annotated source context used when
// reporting errors against the original program text.
package errors

import (
	"fmt"
	"strings"
)

// ErrorClass groups errors by what went wrong rather than where.
type ErrorClass string

const (
	SyntaxError ErrorClass = "syntax"
	TypeError   ErrorClass = "type"
	NameError   ErrorClass = "name"
	IndexError  ErrorClass = "index"
	ArityError  ErrorClass = "arity"
	ValueError  ErrorClass = "value"
)

// Error is a positioned tinsel error. Line and Column are 1-based; zero
// means the position is unknown.
type Error struct {
	Class   ErrorClass
	Message string
	Line    int
	Column  int
	File    string
	Hints   []string
}

func New(class ErrorClass, message string) *Error {
	return &Error{Class: class, Message: message}
}

func NewWithPosition(class ErrorClass, message string, line, column int) *Error {
	return &Error{Class: class, Message: message, Line: line, Column: column}
}

// WithHint appends a suggestion shown under the error message.
func (e *Error) WithHint(hint string) *Error {
	e.Hints = append(e.Hints, hint)
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Class))
	sb.WriteString(" error")
	if e.Line > 0 {
		if e.File != "" {
			fmt.Fprintf(&sb, " at %s:%d:%d", e.File, e.Line, e.Column)
		} else {
			fmt.Fprintf(&sb, " at line %d, column %d", e.Line, e.Column)
		}
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

// PrettyString renders the error with the offending source line and a
// caret under the reported column, followed by any hints.
func (e *Error) PrettyString(source string) string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	if ctx := SourceContext(source, e.Line, e.Column); ctx != "" {
		sb.WriteString("\n")
		sb.WriteString(ctx)
	}
	for _, hint := range e.Hints {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}
	return sb.String()
}

const tabWidth = 8

// SourceContext returns the numbered source line with a caret marking
// the column, or "" when the position is out of range. Tabs in the line
// are expanded so the caret lands where the terminal shows the glyph.
func SourceContext(source string, line, column int) string {
	if line < 1 || column < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	text := lines[line-1]

	// visual column of the caret, expanding tabs to the next stop
	visual := 0
	for i := 0; i < column-1 && i < len(text); i++ {
		if text[i] == '\t' {
			visual += tabWidth - visual%tabWidth
		} else {
			visual++
		}
	}
	if column-1 > len(text) {
		visual += column - 1 - len(text)
	}

	expanded := expandTabs(text)
	prefix := fmt.Sprintf("  %d | ", line)
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(expanded)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(prefix)+visual))
	sb.WriteString("^")
	return sb.String()
}

func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
		} else {
			sb.WriteByte(s[i])
			col++
		}
	}
	return sb.String()
}

// FindClosestMatch returns the candidate within edit distance 2 of name,
// for "did you mean" hints on undefined identifiers.
func FindClosestMatch(name string, candidates []string) string {
	best := ""
	bestDist := 3
	for _, c := range candidates {
		if c == name {
			continue
		}
		if d := levenshtein(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
