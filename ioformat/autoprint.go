package ioformat

import (
	"io"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/record"
)

// AutoPrinter decides which format to print the result in: dicts as JSON,
// tables as markdown, and scalars as plain text. A parser-suggested format
// wins over the table heuristics.
type AutoPrinter struct{}

func (p *AutoPrinter) Print(w io.Writer, result interface{}, cfg PrinterConfig) error {
	printer, err := NewPrinter(p.infer(result, cfg.Suggested))
	if err != nil {
		return err
	}
	return printer.Print(w, result, cfg)
}

func (p *AutoPrinter) infer(result interface{}, suggested string) string {
	if _, ok := result.(*obj.Dict); ok {
		return "json"
	}
	if suggested != "" {
		return suggested
	}
	rows := rowIter(result)
	if rows == nil {
		return "txt"
	}
	first, ok := rows()
	if !ok {
		return "markdown"
	}
	if cells, isRow := rowItems(first); isRow || isScalarRow(first) {
		for _, cell := range cells {
			if isListLike(cell) {
				return "json"
			}
			if _, isDict := cell.(*obj.Dict); isDict {
				return "json"
			}
		}
		return "markdown"
	}
	if d, isDict := first.(*obj.Dict); isDict {
		for _, v := range d.Values() {
			if isListLike(v) {
				return "json"
			}
			if _, nested := v.(*obj.Dict); nested {
				return "json"
			}
		}
		return "markdown"
	}
	return "markdown"
}

// isScalarRow reports whether a row element is a plain value that still
// renders as a one-cell markdown row.
func isScalarRow(v interface{}) bool {
	switch v.(type) {
	case string, []byte, record.Field:
		return true
	}
	return false
}
