package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	terrors "github.com/tinsel-lang/tinsel/pkg/tinsel/errors"
	"github.com/tinsel-lang/tinsel/pkg/tinsel/repl"
	"github.com/tinsel-lang/tinsel/pkg/tinsel/tinsel"
)

// Version is set at compile time via -ldflags
var Version = "0.3.0"

var (
	helpFlag        = flag.Bool("h", false, "Show help message")
	helpLongFlag    = flag.Bool("help", false, "Show help message")
	versionFlag     = flag.Bool("V", false, "Show version information")
	versionLongFlag = flag.Bool("version", false, "Show version information")

	inputFlag     = flag.String("i", "", "Puzzle input file")
	inputLongFlag = flag.String("input", "", "Puzzle input file")
	evalFlag      = flag.String("e", "", "Evaluate code string")
	evalLongFlag  = flag.String("eval", "", "Evaluate code string")
	debugFlag     = flag.Bool("d", false, "Print an execution trace to stderr")
	debugLongFlag = flag.Bool("debug", false, "Print an execution trace to stderr")
	checkFlag     = flag.Bool("check", false, "Check syntax without executing")
	watchFlag     = flag.Bool("watch", false, "Re-run the script whenever it or the input file changes")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag || *helpLongFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag || *versionLongFlag {
		fmt.Printf("tinsel version %s\n", Version)
		os.Exit(0)
	}

	inputFile := *inputFlag
	if inputFile == "" {
		inputFile = *inputLongFlag
	}

	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLongFlag
	}

	debug := *debugFlag || *debugLongFlag

	switch {
	case evalCode != "":
		opts, err := buildOptions(inputFile, debug, "<eval>")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(runSource(evalCode, opts))
	case *checkFlag:
		files := flag.Args()
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --check requires at least one file")
			os.Exit(2)
		}
		os.Exit(checkFiles(files))
	case len(flag.Args()) > 0:
		filename := flag.Args()[0]
		if *watchFlag {
			watchAndRun(filename, inputFile, debug)
			return
		}
		os.Exit(runFile(filename, inputFile, debug))
	case !isTerminal(os.Stdin):
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		opts, err := buildOptions(inputFile, debug, "<stdin>")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(runSource(string(source), opts))
	default:
		opts, err := buildOptions(inputFile, debug, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		repl.Start(os.Stdout, opts)
	}
}

func printHelp() {
	fmt.Printf(`tinsel - interpreter for the tinsel puzzle language, version %s

Usage:
  tinsel [options] [file]
  tinsel -e "code"
  tinsel --check <file>...

Options:
  -h, --help            Show this help message
  -V, --version         Show version information
  -i, --input <file>    Puzzle input exposed to the script as input
  -e, --eval <code>     Evaluate code string
  -d, --debug           Print an execution trace to stderr
  --check               Check syntax without executing
  --watch               Re-run the script when it or the input file changes

Examples:
  tinsel                          Start interactive REPL
  tinsel day01.tns                Run a script
  tinsel -i day01.txt day01.tns   Run a script against a puzzle input
  tinsel -e '~"12" + 30'          Evaluate inline code (outputs: 42)
  tinsel -d day01.tns             Run with a step-by-step trace
  tinsel --watch -i in.txt s.tns  Re-run on every save
  tinsel --check *.tns            Check syntax without executing
`, Version)
}

// buildOptions loads the optional input file into run options.
func buildOptions(inputFile string, debug bool, filename string) (tinsel.Options, error) {
	opts := tinsel.Options{Filename: filename}
	if inputFile != "" {
		content, err := os.ReadFile(inputFile)
		if err != nil {
			return opts, fmt.Errorf("reading input file '%s': %w", inputFile, err)
		}
		opts.Input = string(content)
		opts.HasInput = true
	}
	if debug {
		opts.Tracer = tinsel.NewWriterTracer(os.Stderr)
	}
	return opts, nil
}

func runFile(filename, inputFile string, debug bool) int {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file '%s': %v\n", filename, err)
		return 1
	}
	opts, err := buildOptions(inputFile, debug, filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return runSource(string(content), opts)
}

func runSource(source string, opts tinsel.Options) int {
	result, err := tinsel.Run(source, opts)
	if err != nil {
		printError(err, source)
		return 1
	}
	if !tinsel.IsEmptyResult(result) {
		fmt.Println(result.Inspect())
	}
	return 0
}

func checkFiles(files []string) int {
	hasErrors := false
	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
			return 2
		}
		if err := tinsel.Check(string(content)); err != nil {
			printError(err, string(content))
			hasErrors = true
		}
	}
	if hasErrors {
		return 1
	}
	return 0
}

func printError(err error, source string) {
	if terr, ok := err.(*terrors.Error); ok {
		fmt.Fprintln(os.Stderr, terr.PrettyString(source))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// watchAndRun re-executes the script after every change to it or to
// the input file. Events are debounced because editors fire several
// per save.
func watchAndRun(filename, inputFile string, debug bool) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	watched := map[string]bool{}
	for _, f := range []string{filename, inputFile} {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		watched[abs] = true
		// Watch the directory; some editors replace the file on
		// save, which drops a watch on the file itself.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", f, err)
			os.Exit(1)
		}
	}

	run := func() {
		fmt.Fprintf(os.Stderr, "--- %s %s\n", filename, time.Now().Format("15:04:05"))
		runFile(filename, inputFile, debug)
	}
	run()

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(100 * time.Millisecond)
		case <-pending:
			pending = nil
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
