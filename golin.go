// Golin is an AWK-like command line tool: it evaluates one short expression
// against each record of its input, or against the whole input as a table,
// and prints the result in a format inferred from the data.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/golin/golin/internal/term"
	"github.com/golin/golin/interp"
	"github.com/golin/golin/ioformat"
	"github.com/golin/golin/parser"
)

const version = "v0.9.0"

const (
	exitOK         = 0
	exitRuntime    = 1
	exitFileOpen   = 2
	exitParseError = 3
	exitBrokenPipe = 141
)

func main() {
	fieldSep := flag.String("F", "", "field separator (regular expression)")
	recordSep := flag.String("R", "\n", "record separator")
	inputFormat := flag.String("i", "auto", "input format: "+strings.Join(ioformat.ParserFormats(), "|"))
	outputFormat := flag.String("o", "auto", "output format: "+strings.Join(ioformat.PrinterFormats(), "|"))
	modules := flag.String("m", "", "comma-separated modules to enable (default all)")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: golin [flags] 'program' [input-file]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(exitOK)
	}
	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		flag.Usage()
		os.Exit(exitRuntime)
	}

	enabled, err := moduleList(*modules)
	if err != nil {
		errorExit(exitRuntime, "%s", err)
	}

	prog, err := parser.ParseProgram([]byte(args[0]))
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintln(os.Stderr, perr.Pretty())
			os.Exit(exitParseError)
		}
		errorExit(exitParseError, "%s", err)
	}

	config := &interp.Config{
		Output:       os.Stdout,
		RecordSep:    *recordSep,
		FieldSep:     *fieldSep,
		InputFormat:  *inputFormat,
		OutputFormat: *outputFormat,
		TableWidth:   tableWidth,
		Modules:      enabled,
	}
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			errorExit(exitFileOpen, "can't open file %q", args[1])
		}
		defer f.Close()
		input, err := ioformat.DecompressReader(f)
		if err != nil {
			errorExit(exitRuntime, "%s", err)
		}
		config.Input = input
		config.InputName = args[1]
	} else {
		input, err := ioformat.DecompressReader(os.Stdin)
		if err != nil {
			errorExit(exitRuntime, "%s", err)
		}
		config.Input = input
	}

	if err := interp.Run(prog, config); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			os.Exit(exitBrokenPipe)
		}
		errorExit(exitRuntime, "%s", err)
	}
}

func errorExit(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}

func moduleList(arg string) ([]string, error) {
	if arg == "" {
		return nil, nil
	}
	known := make(map[string]bool)
	for _, name := range interp.Modules() {
		known[name] = true
	}
	var names []string
	for _, name := range strings.Split(arg, ",") {
		name = strings.TrimSpace(name)
		if !known[name] {
			return nil, fmt.Errorf("unknown module %q (available: %s)",
				name, strings.Join(interp.Modules(), ", "))
		}
		names = append(names, name)
	}
	return names, nil
}

// tableWidth reports the width available for table output: the terminal
// width when stdout is a terminal, otherwise GOLIN_TABLE_WIDTH or 100.
func tableWidth() int {
	if term.IsTerminal(os.Stdout.Fd()) {
		if w, ok := term.Width(os.Stdout.Fd()); ok {
			return w
		}
	}
	if env := os.Getenv("GOLIN_TABLE_WIDTH"); env != "" {
		if w, err := strconv.Atoi(env); err == nil && w > 0 {
			return w
		}
	}
	return 100
}
