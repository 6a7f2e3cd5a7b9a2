package ioformat

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/record"
)

// PrinterConfig carries per-run printing context: a header override set by
// the program, the printer the input parser suggests, and the available
// output width for table layouts.
type PrinterConfig struct {
	Header    []string
	Suggested string
	Width     func() int
}

func (c PrinterConfig) width() int {
	if c.Width == nil {
		return 100
	}
	return c.Width()
}

// Printer writes the result of the program to the output in one format.
type Printer interface {
	Print(w io.Writer, result interface{}, cfg PrinterConfig) error
}

var printerMakers = map[string]func() Printer{
	"auto":     func() Printer { return &AutoPrinter{} },
	"txt":      func() Printer { return &TxtPrinter{} },
	"awk":      func() Printer { return &TxtPrinter{} },
	"csv":      func() Printer { return &CsvPrinter{} },
	"tsv":      func() Printer { return &CsvPrinter{Delimiter: '\t'} },
	"md":       func() Printer { return &MarkdownPrinter{} },
	"markdown": func() Printer { return &MarkdownPrinter{} },
	"table":    func() Printer { return &MarkdownPrinter{} },
	"json":     func() Printer { return &JsonPrinter{} },
	"jsonl":    func() Printer { return &JsonlPrinter{} },
	"repr":     func() Printer { return &ReprPrinter{} },
	"str":      func() Printer { return &StrPrinter{} },
	"binary":   func() Printer { return &BinaryPrinter{} },
}

// NewPrinter creates a printer for the given output format name.
func NewPrinter(format string) (Printer, error) {
	maker, ok := printerMakers[format]
	if !ok {
		return nil, fmt.Errorf("unrecognized output format %q", format)
	}
	return maker(), nil
}

// PrinterFormats returns the recognized output format names, sorted.
func PrinterFormats() []string {
	names := make([]string, 0, len(printerMakers))
	for name := range printerMakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cell is one formatted table cell. Name is the column name when the value
// came from a named field.
type Cell struct {
	Text string
	Name string
}

// table is the normalized form results are printed from: a header plus a
// lazily pulled stream of rows. synthesized marks headers invented by the
// printer (numbered columns) rather than taken from the data.
type table struct {
	header      []string
	synthesized bool
	rows        seq.Pull[[]Cell]
}

// isListLike reports whether the value is an iterable that is not a string,
// bytes, or dict.
func isListLike(v interface{}) bool {
	switch v.(type) {
	case obj.Tuple, []interface{}, *record.Record, *record.Sequence, *seq.Sequence[interface{}]:
		return true
	}
	return false
}

// rowIter returns a pull iterator over the elements of a multi-row value,
// or nil for single-row and scalar values.
func rowIter(v interface{}) seq.Pull[interface{}] {
	switch v := v.(type) {
	case []interface{}:
		return seq.FromSlice(v).Iter()
	case *seq.Sequence[interface{}]:
		return v.Iter()
	case *record.Sequence:
		records := v.Iter()
		return func() (interface{}, bool) {
			r, ok := records()
			if !ok {
				return nil, false
			}
			return r, true
		}
	}
	return nil
}

// formatValue formats a single value for a table cell.
func formatValue(v interface{}) string {
	return obj.Str(v)
}

// formatRecord formats one row into its cells.
func formatRecord(v interface{}) []Cell {
	switch v := v.(type) {
	case string, []byte:
		return []Cell{{Text: formatValue(v)}}
	case record.Field:
		return []Cell{{Text: v.Str(), Name: v.Name()}}
	case *record.Record:
		cells := make([]Cell, v.Len())
		for i, f := range v.Fields() {
			cells[i] = Cell{Text: f.Str(), Name: f.Name()}
		}
		return cells
	case *obj.Dict:
		cells := make([]Cell, 0, v.Len())
		for _, k := range v.Keys() {
			item, _ := v.Get(k)
			cells = append(cells, Cell{Text: formatValue(item), Name: k})
		}
		return cells
	case obj.Tuple:
		return cellsFromItems(v)
	case []interface{}:
		return cellsFromItems(v)
	case *seq.Sequence[interface{}]:
		return cellsFromItems(v.List())
	}
	return []Cell{{Text: formatValue(v)}}
}

func cellsFromItems(items []interface{}) []Cell {
	cells := make([]Cell, len(items))
	for i, item := range items {
		if f, ok := item.(record.Field); ok {
			cells[i] = Cell{Text: f.Str(), Name: f.Name()}
		} else {
			cells[i] = Cell{Text: formatValue(item)}
		}
	}
	return cells
}

// generateHeader derives a header from the first row: real column names when
// the cells carry them, otherwise a synthesized numbering ("value" for a
// single column).
func generateHeader(firstRow []Cell) (header []string, synthesized bool) {
	header = make([]string, len(firstRow))
	real := false
	for i, cell := range firstRow {
		if cell.Name != "" {
			header[i] = cell.Name
			real = true
		} else if len(firstRow) == 1 {
			header[i] = "value"
		} else {
			header[i] = strconv.Itoa(i)
		}
	}
	return header, !real
}

// resultHeader extracts a data-borne header from the result, if it has one.
func resultHeader(v interface{}) []string {
	switch v := v.(type) {
	case *record.Sequence:
		if h := v.Header(); h != nil {
			return h.Strings()
		}
	case *record.Record:
		if h := v.Header(); h != nil {
			return h.Strings()
		}
	}
	return nil
}

// toTable turns a result value into a header and a stream of rows. A header
// that came from the config or the data wins over a synthesized one.
func toTable(result interface{}, cfgHeader []string) table {
	header := cfgHeader
	if header == nil {
		header = resultHeader(result)
	}

	if rows := rowIter(result); rows != nil {
		formatted := func() ([]Cell, bool) {
			for {
				v, ok := rows()
				if !ok {
					return nil, false
				}
				if obj.IsUndefined(v) {
					continue
				}
				return formatRecord(v), true
			}
		}
		if header != nil {
			return table{header: header, rows: formatted}
		}
		// Peek the first row to derive a header without consuming it.
		first, ok := formatted()
		if !ok {
			return table{rows: func() ([]Cell, bool) { return nil, false }}
		}
		header, synthesized := generateHeader(first)
		yieldedFirst := false
		return table{header: header, synthesized: synthesized, rows: func() ([]Cell, bool) {
			if !yieldedFirst {
				yieldedFirst = true
				return first, true
			}
			return formatted()
		}}
	}

	if d, ok := result.(*obj.Dict); ok {
		if header == nil {
			header = d.Keys()
		}
		return table{header: header, rows: oneRow(formatRecord(d))}
	}

	row := formatRecord(result)
	synthesized := false
	if header == nil {
		header, synthesized = generateHeader(row)
	}
	return table{header: header, synthesized: synthesized, rows: oneRow(row)}
}

func oneRow(row []Cell) seq.Pull[[]Cell] {
	done := false
	return func() ([]Cell, bool) {
		if done {
			return nil, false
		}
		done = true
		return row, true
	}
}

// ReprPrinter prints the result as an expression literal.
type ReprPrinter struct{}

func (p *ReprPrinter) Print(w io.Writer, result interface{}, cfg PrinterConfig) error {
	_, err := io.WriteString(w, obj.Repr(materialized(result))+"\n")
	return err
}

// StrPrinter prints the result converted to a plain string.
type StrPrinter struct{}

func (p *StrPrinter) Print(w io.Writer, result interface{}, cfg PrinterConfig) error {
	s := obj.Str(materialized(result))
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, s+"\n")
	return err
}

// BinaryPrinter writes the raw bytes of the result, for redirecting to a
// file or another program.
type BinaryPrinter struct{}

func (p *BinaryPrinter) Print(w io.Writer, result interface{}, cfg PrinterConfig) error {
	var b []byte
	switch v := result.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case record.Field:
		b = v.Bytes()
	default:
		return fmt.Errorf("cannot write %s as binary output", obj.TypeName(result))
	}
	_, err := w.Write(b)
	return err
}

// materialized turns lazy sequences into plain lists so value renderers can
// see their elements.
func materialized(v interface{}) interface{} {
	switch v := v.(type) {
	case *seq.Sequence[interface{}]:
		return v.List()
	case *record.Sequence:
		items := make([]interface{}, 0)
		for _, r := range v.List() {
			items = append(items, r)
		}
		return items
	}
	return v
}
