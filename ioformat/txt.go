package ioformat

import (
	"io"
	"regexp"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/record"
)

// TxtParser parses input in the AWK style: whitespace separated values. It
// splits records by the record separator and splits each record into fields
// with the field separator, a regex pattern defaulting to `[ \t]+`.
type TxtParser struct {
	base
}

func NewTxtParser(recordSep, fieldSep string) *TxtParser {
	if recordSep == "" {
		recordSep = "\n"
	}
	if fieldSep == "" {
		fieldSep = `[ \t]+`
	}
	return &TxtParser{base{recordSep: recordSep, fieldSep: fieldSep}}
}

func (p *TxtParser) Records(r io.Reader) seq.Pull[*record.Record] {
	fieldRe, err := regexp.Compile(p.fieldSep)
	if err != nil {
		formatPanicf("invalid field separator %q: %v", p.fieldSep, err)
	}
	return headered(p.recordsFromLines(SplitRecords(r, p.recordSep, 0), fieldRe), p.hasHeader)
}

func (p *TxtParser) recordsFromLines(lines seq.Pull[[]byte], fieldRe *regexp.Regexp) seq.Pull[*record.Record] {
	return func() (*record.Record, bool) {
		line, ok := lines()
		if !ok {
			return nil, false
		}
		text := decodeText(line)
		if text == "" {
			return record.New(nil, text, nil), true
		}
		return record.New(fieldRe.Split(text, -1), text, nil), true
	}
}

// TxtPrinter prints results in a space-separated format, similar to AWK.
type TxtPrinter struct {
	RecordSeparator string
	FieldSeparator  string
}

func (p *TxtPrinter) Print(w io.Writer, result interface{}, cfg PrinterConfig) error {
	if obj.IsUndefined(result) {
		return nil
	}
	rs, fs := p.RecordSeparator, p.FieldSeparator
	if rs == "" {
		rs = "\n"
	}
	if fs == "" {
		fs = " "
	}
	t := toTable(result, cfg.Header)
	if len(t.header) > 0 && !t.synthesized {
		if err := writeJoined(w, t.header, fs, rs); err != nil {
			return err
		}
	}
	for {
		row, ok := t.rows()
		if !ok {
			return nil
		}
		texts := make([]string, len(row))
		for i, cell := range row {
			texts[i] = cell.Text
		}
		if err := writeJoined(w, texts, fs, rs); err != nil {
			return err
		}
	}
}

func writeJoined(w io.Writer, items []string, sep, end string) error {
	for i, item := range items {
		if i > 0 {
			if _, err := io.WriteString(w, sep); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, item); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, end)
	return err
}
