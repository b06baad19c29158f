// Package repl is the interactive shell. Definitions and the input
// grid persist across entries; an entry with unbalanced brackets
// continues on the next line.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	terrors "github.com/tinsel-lang/tinsel/pkg/tinsel/errors"
	"github.com/tinsel-lang/tinsel/pkg/tinsel/evaluator"
	"github.com/tinsel-lang/tinsel/pkg/tinsel/tinsel"
)

const (
	prompt     = ">> "
	contPrompt = ".. "
)

var completionWords = []string{
	"if(", "for(", "of", "input", "len(", "max(", "min(",
	"floor(", "ceil(", "true", "false",
	":help", ":env", ":clear", ":quit",
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tinsel_history")
}

// Start runs the read-eval-print loop until EOF or :quit.
func Start(out io.Writer, opts tinsel.Options) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	env := evaluator.NewEnvironment()
	if opts.HasInput {
		env.SetInput(opts.Input)
	}
	if opts.Tracer != nil {
		env.SetTracer(opts.Tracer)
	}

	line.SetCompleter(func(partial string) []string {
		words := append([]string{}, completionWords...)
		for _, name := range env.Names() {
			words = append(words, name)
		}
		sort.Strings(words)
		var matches []string
		for _, w := range words {
			if strings.HasPrefix(w, partial) {
				matches = append(matches, w)
			}
		}
		return matches
	})

	if path := historyPath(); path != "" {
		if f, err := os.Open(path); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprintln(out, "tinsel repl. Type :help for help, :quit to exit.")

	for {
		entry, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			break
		}
		if err != nil {
			fmt.Fprintln(out, err)
			break
		}

		for needsMoreInput(entry) {
			more, err := line.Prompt(contPrompt)
			if err != nil {
				break
			}
			entry += "\n" + more
		}

		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		line.AppendHistory(entry)

		if strings.HasPrefix(trimmed, ":") {
			if handleCommand(trimmed, out, env) {
				break
			}
			continue
		}

		result, err := tinsel.RunInEnv(entry, env, "")
		if err != nil {
			printError(out, err, entry)
			continue
		}
		if !tinsel.IsEmptyResult(result) {
			fmt.Fprintln(out, result.Inspect())
		}
	}

	if path := historyPath(); path != "" {
		if f, err := os.Create(path); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
}

// handleCommand runs a :command; true means quit.
func handleCommand(cmd string, out io.Writer, env *evaluator.Environment) bool {
	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprintln(out, "  :help   show this help")
		fmt.Fprintln(out, "  :env    list defined variables")
		fmt.Fprintln(out, "  :clear  forget all definitions")
		fmt.Fprintln(out, "  :quit   exit")
	case ":env":
		names := env.Names()
		if len(names) == 0 {
			fmt.Fprintln(out, "(empty)")
			return false
		}
		for _, name := range names {
			if val, ok := env.Get(name); ok {
				fmt.Fprintf(out, "  %s = %s\n", name, val.Inspect())
			} else {
				fmt.Fprintf(out, "  %s(...)\n", name)
			}
		}
	case ":clear":
		env.Clear()
		fmt.Fprintln(out, "cleared")
	default:
		fmt.Fprintf(out, "unknown command %s\n", cmd)
	}
	return false
}

func printError(out io.Writer, err error, source string) {
	if terr, ok := err.(*terrors.Error); ok {
		fmt.Fprintln(out, terr.PrettyString(source))
		return
	}
	fmt.Fprintln(out, err)
}

// needsMoreInput reports unbalanced brackets outside string literals.
func needsMoreInput(s string) bool {
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '/':
			if i+1 < len(s) && s[i+1] == '/' {
				// comment runs to end of line
				for i < len(s) && s[i] != '\n' {
					i++
				}
			}
		}
	}
	return depth > 0
}
