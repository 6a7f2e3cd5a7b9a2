package interp

import (
	"io"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/golin/golin/internal/ast"
	"github.com/golin/golin/internal/debug"
	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/ioformat"
	"github.com/golin/golin/record"
)

// Config tells the interpreter where its input and output are and which
// formats to use.
type Config struct {
	// Input is the input stream; read only when the program accesses an
	// input-derived variable.
	Input io.Reader

	// InputName is the file name Input was opened from, or "" for stdin.
	InputName string

	Output io.Writer

	RecordSep    string
	FieldSep     string
	InputFormat  string
	OutputFormat string

	// TableWidth yields the available output width for table layouts.
	TableWidth func() int

	// Modules restricts which modules the program can reference. nil means
	// all of Modules().
	Modules []string
}

// Interp holds the state for evaluating one program.
type Interp struct {
	prog    *ast.Program
	conf    *progConfig
	env     *env
	input   io.Reader
	output  io.Writer
	width   func() int
	records *record.Sequence
	recCur  *seq.ReplayIter[*record.Record]
	lineCur *seq.ReplayIter[interface{}]
	jsonCur *seq.ReplayIter[interface{}]
}

// Run evaluates the program against the configured input and prints the
// result. Scope is inferred from the variables the program touches: record
// scoped programs re-evaluate per input record, table scoped programs run
// once.
func Run(prog *ast.Program, config *Config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch r := r.(type) {
			case *UserError:
				err = r
			case *ioformat.FormatError:
				err = r
			default:
				panic(r)
			}
		}
	}()

	interp := newInterp(prog, config)
	if err := interp.checkStaticScope(); err != nil {
		return err
	}
	result := interp.execLooped()
	return interp.print(result)
}

func newInterp(prog *ast.Program, config *Config) *Interp {
	input := config.Input
	if input == nil {
		input = os.Stdin
	}
	output := config.Output
	if output == nil {
		output = os.Stdout
	}
	outputFormat := config.OutputFormat
	if outputFormat == "" {
		outputFormat = "auto"
	}
	inputFormat := config.InputFormat
	if inputFormat == "" {
		inputFormat = "auto"
	}
	printer, perr := ioformat.NewPrinter(outputFormat)
	if perr != nil {
		panic(&UserError{Message: perr.Error()})
	}

	ip := &Interp{
		prog:   prog,
		output: output,
		width:  config.TableWidth,
		conf: &progConfig{
			printer:     printer,
			recordSep:   config.RecordSep,
			fieldSep:    config.FieldSep,
			inputFormat: inputFormat,
		},
		env:   newEnv(),
		input: input,
	}
	ip.setupGlobals(config)
	return ip
}

// recordSeq lazily builds the shared record sequence, freezing the parser
// on first use.
func (ip *Interp) recordSeq() *record.Sequence {
	if ip.records == nil {
		parser := ip.conf.freezeParser()
		ip.records = record.NewSequence(parser.Records(ip.input))
	}
	return ip.records
}

func (ip *Interp) setupGlobals(config *Config) {
	env := ip.env
	conf := ip.conf

	accessRecord := func() interface{} {
		if ip.recCur == nil {
			ip.recCur = seq.NewReplayIter(ip.recordSeq().Iter())
		}
		cur := ip.recCur
		conf.setScope(func() bool { _, ok := cur.Next(); return ok }, "record")
		r, ok := cur.CurrentOrFirst()
		if !ok {
			panic(noMoreRecords{})
		}
		return r
	}
	env.provide("record", false, accessRecord)
	env.provide("fields", false, accessRecord)

	env.provide("line", false, func() interface{} {
		if ip.lineCur == nil {
			ip.lineCur = seq.NewReplayIter(ip.lineSeq())
		}
		cur := ip.lineCur
		conf.setScope(func() bool { _, ok := cur.Next(); return ok }, "line")
		v, ok := cur.CurrentOrFirst()
		if !ok {
			panic(noMoreRecords{})
		}
		return v
	})

	env.provide("jsonobj", false, func() interface{} {
		if ip.jsonCur == nil {
			ip.jsonCur = seq.NewReplayIter(ioformat.JsonValues(ip.input))
		}
		cur := ip.jsonCur
		conf.suggested = "json"
		if conf.scope != nil || cur.HasMultiple() {
			// With a single object the result should not present itself
			// as a sequence, so no scope is entered.
			conf.setScope(func() bool { _, ok := cur.Next(); return ok }, "json")
		}
		v, ok := cur.CurrentOrFirst()
		if !ok {
			panic(noMoreRecords{})
		}
		return v
	})

	tableScoped := func(get func() interface{}) func() interface{} {
		return func() interface{} {
			conf.setScope(nil, "file")
			return get()
		}
	}
	env.provide("records", true, tableScoped(func() interface{} {
		return ip.recordSeq()
	}))
	env.provide("lines", true, tableScoped(func() interface{} {
		records := ip.recordSeq().Iter()
		return seq.New(func() (interface{}, bool) {
			r, ok := records()
			if !ok {
				return nil, false
			}
			return r.Source(), true
		})
	}))
	env.provide("jsonobjs", true, tableScoped(func() interface{} {
		conf.suggested = "json"
		return seq.New(ioformat.JsonValues(ip.input))
	}))
	contents := tableScoped(func() interface{} {
		ip.conf.freezeParser()
		data, err := io.ReadAll(ip.input)
		if err != nil {
			runtimeErrorf("reading input: %s", err)
		}
		if !utf8.Valid(data) {
			return data
		}
		return record.NewField(string(data), "")
	})
	env.provide("file", true, contents)
	env.provide("contents", true, contents)

	if config.InputName != "" {
		env.provideValue("filename", config.InputName)
	} else {
		env.provideValue("filename", nil)
	}
	env.provideValue("cfg", conf)
	env.provideValue("_UNDEFINED_", obj.Undefined)

	modules := map[string]*module{"math": mathModule, "re": reModule, "json": jsonModule}
	enabled := config.Modules
	if enabled == nil {
		enabled = Modules()
	}
	for _, name := range enabled {
		if m, ok := modules[name]; ok {
			env.provideValue(name, m)
		}
	}
}

// checkStaticScope classifies the program by the names it can read. The
// result is advisory: the runtime tracker still enforces exclusivity for
// dynamic access patterns, but an obvious conflict fails before any input is
// consumed.
func (ip *Interp) checkStaticScope() error {
	names := ast.UsedNames(ip.prog)
	recordNames := []string{"record", "fields", "line", "jsonobj"}
	tableNames := []string{"records", "lines", "file", "contents", "jsonobjs"}
	usesRecord, usesTable := false, false
	for _, n := range recordNames {
		if names[n] {
			usesRecord = true
		}
	}
	for _, n := range tableNames {
		if names[n] {
			usesTable = true
		}
	}
	debug.Printf("static scope: record=%v table=%v", usesRecord, usesTable)
	if usesRecord && usesTable {
		return &UserError{Message: "Cannot access both record scoped and table scoped variables"}
	}
	return nil
}

// execOnce runs the statements and the trailing expression once. ok is
// false when the input ran out of records mid-evaluation.
func (ip *Interp) execOnce() (result interface{}, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ended := r.(noMoreRecords); ended {
				result, ok = obj.Undefined, false
				return
			}
			panic(r)
		}
	}()
	for _, stmt := range ip.prog.Stmts {
		ip.execStmt(stmt)
	}
	return ip.eval(ip.prog.Expr), true
}

// execLooped runs the program, and if it bound itself to an advancing
// scope, keeps re-running it per element, lazily, so output can stream
// before the input is exhausted.
func (ip *Interp) execLooped() interface{} {
	result, ok := ip.execOnce()
	if !ok {
		return obj.Undefined
	}
	sc := ip.conf.scope
	if sc == nil || sc.advance == nil {
		return result
	}
	emittedFirst := false
	return seq.New(func() (interface{}, bool) {
		if !emittedFirst {
			emittedFirst = true
			return result, true
		}
		if !sc.advance() {
			return nil, false
		}
		v, ok := ip.execOnce()
		if !ok {
			return nil, false
		}
		return v, true
	})
}

// lineSeq splits the raw input into newline-terminated lines.
func (ip *Interp) lineSeq() seq.Pull[interface{}] {
	lines := ioformat.SplitRecords(ip.input, "\n", 0)
	return func() (interface{}, bool) {
		b, ok := lines()
		if !ok {
			return nil, false
		}
		if !utf8.Valid(b) {
			panic(ioformat.ErrBinaryRecords)
		}
		return string(b), true
	}
}

func (ip *Interp) print(result interface{}) error {
	cfg := ioformat.PrinterConfig{
		Header:    ip.conf.header,
		Suggested: ip.conf.suggested,
		Width:     ip.width,
	}
	err := ip.conf.printer.Print(ip.output, result, cfg)
	if err != nil {
		return errors.Wrap(err, "writing output")
	}
	return nil
}

// Exec evaluates the program and returns the raw result value instead of
// printing it. Callers embedding the interpreter use this to get Go values
// out.
func Exec(prog *ast.Program, config *Config) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch r := r.(type) {
			case *UserError:
				err = r
			case *ioformat.FormatError:
				err = r
			default:
				panic(r)
			}
		}
	}()
	interp := newInterp(prog, config)
	if err := interp.checkStaticScope(); err != nil {
		return nil, err
	}
	res := interp.execLooped()
	if s, ok := res.(*seq.Sequence[interface{}]); ok {
		return s.List(), nil
	}
	return res, nil
}
