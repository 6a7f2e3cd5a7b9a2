package interp

import (
	"github.com/golin/golin/ioformat"
)

// scopeIterator is the advancing cursor a program binds itself to by
// touching a scoped variable. For table ("file") scope advance is nil and
// the program runs once.
type scopeIterator struct {
	name    string
	advance func() bool
}

func recordish(name string) bool {
	switch name {
	case "record", "line", "json":
		return true
	}
	return false
}

// progConfig is the configuration visible to the program as `cfg`. The
// parser is settable until parsing starts, then frozen.
type progConfig struct {
	printer      ioformat.Printer
	header       []string
	recordSep    string
	fieldSep     string
	inputFormat  string
	parser       ioformat.Parser
	parserFrozen bool
	suggested    string
	scope        *scopeIterator
}

// setScope binds the program to a scope. The scope can be set only once per
// program; touching variables of two different scopes is an error.
func (c *progConfig) setScope(advance func() bool, name string) {
	if c.scope != nil && c.scope.name != name {
		if recordish(c.scope.name) != recordish(name) {
			runtimeErrorf("Cannot access both record scoped and table scoped variables")
		}
		runtimeErrorf("Cannot change scope from %q to %q", c.scope.name, name)
	}
	c.scope = &scopeIterator{name: name, advance: advance}
}

// curParser returns the configured parser, creating the default one on
// first use.
func (c *progConfig) curParser() ioformat.Parser {
	if c.parser == nil {
		p, err := ioformat.NewParser(c.inputFormat, c.recordSep, c.fieldSep)
		if err != nil {
			runtimeErrorf("%s", err)
		}
		c.parser = p
	}
	return c.parser
}

func (c *progConfig) setParser(v interface{}) {
	if c.parserFrozen {
		runtimeErrorf("Parsing already started, cannot set parser")
	}
	switch v := v.(type) {
	case string:
		p, err := ioformat.NewParser(v, c.recordSep, c.fieldSep)
		if err != nil {
			runtimeErrorf("%s", err)
		}
		c.parser = p
	case ioformat.Parser:
		c.parser = v
	default:
		runtimeErrorf("expect `parser` to be a parser or a format name")
	}
}

func (c *progConfig) freezeParser() ioformat.Parser {
	p := c.curParser()
	c.parserFrozen = true
	return p
}

func (c *progConfig) setPrinter(v interface{}) {
	switch v := v.(type) {
	case string:
		p, err := ioformat.NewPrinter(v)
		if err != nil {
			runtimeErrorf("%s", err)
		}
		c.printer = p
	case ioformat.Printer:
		c.printer = v
	default:
		runtimeErrorf("expect `printer` to be a printer or a format name")
	}
}

// item is one provided variable: a thunk invoked on access, optionally
// cached after the first call.
type item struct {
	get    func() interface{}
	cache  bool
	cached bool
	value  interface{}
}

func (it *item) access() interface{} {
	if it.cached {
		return it.value
	}
	v := it.get()
	if it.cache {
		it.value = v
		it.cached = true
	}
	return v
}

// env is the name environment for one program run: provided variables,
// user assignments, and comprehension locals.
type env struct {
	items   map[string]*item
	globals map[string]interface{}
	locals  []map[string]interface{}
}

func newEnv() *env {
	return &env{
		items:   make(map[string]*item),
		globals: make(map[string]interface{}),
	}
}

func (e *env) provide(name string, cache bool, get func() interface{}) {
	e.items[name] = &item{get: get, cache: cache}
}

func (e *env) provideValue(name string, v interface{}) {
	e.items[name] = &item{get: func() interface{} { return v }, cache: true}
}

func (e *env) lookup(name string) (interface{}, bool) {
	for i := len(e.locals) - 1; i >= 0; i-- {
		if v, ok := e.locals[i][name]; ok {
			return v, true
		}
	}
	if v, ok := e.globals[name]; ok {
		return v, true
	}
	if it, ok := e.items[name]; ok {
		return it.access(), true
	}
	return nil, false
}

func (e *env) pushLocals(frame map[string]interface{}) {
	e.locals = append(e.locals, frame)
}

func (e *env) popLocals() {
	e.locals = e.locals[:len(e.locals)-1]
}
