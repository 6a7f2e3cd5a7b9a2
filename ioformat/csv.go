package ioformat

import (
	"encoding/csv"
	"io"
	"regexp"
	"strings"

	"github.com/golin/golin/internal/debug"
	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/record"
)

// Dialect describes how a CSV variant delimits and quotes fields.
type Dialect struct {
	Delimiter   byte
	Quote       byte
	DoubleQuote bool
	EscapeChar  byte
}

var (
	DialectExcel = Dialect{Delimiter: ',', Quote: '"', DoubleQuote: true}
	DialectUnix  = Dialect{Delimiter: ',', Quote: '"', DoubleQuote: true}
)

// commonDelimiters are the delimiter candidates the sniffer considers when
// no field separator is given.
const commonDelimiters = ",\t;"

// CsvParser parses CSV input. When no dialect is given, the delimiter is
// sniffed from a sample of the input, and the quoting style (doubled quotes
// vs backslash escapes) may still be revised mid-stream until a quoted field
// is seen.
type CsvParser struct {
	base
	dialect  *Dialect
	sniffing bool
}

// NewCsvParser creates a CSV parser. fieldSep is a set of candidate
// delimiter characters for sniffing; dialect, when non-nil, disables
// sniffing entirely.
func NewCsvParser(recordSep, fieldSep string, dialect *Dialect) *CsvParser {
	if recordSep == "" {
		recordSep = "\n"
	}
	if fieldSep == "" {
		fieldSep = commonDelimiters
	}
	var d *Dialect
	if dialect != nil {
		copied := *dialect
		d = &copied
	}
	return &CsvParser{base: base{recordSep: recordSep, fieldSep: fieldSep}, dialect: d}
}

// Dialect returns the parser's dialect, which is nil until sniffed.
func (p *CsvParser) Dialect() *Dialect { return p.dialect }

func (p *CsvParser) Records(r io.Reader) seq.Pull[*record.Record] {
	lines := SplitRecords(r, p.recordSep, 0)
	if p.dialect == nil {
		var sample [][]byte
		var pending [][]byte
		for len(sample) < 5 {
			line, ok := lines()
			if !ok {
				break
			}
			sample = append(sample, line)
			pending = append(pending, line)
		}
		if err := p.sniff(sample); err != nil {
			formatPanicf("cannot determine CSV dialect: %v", err)
		}
		inner := lines
		lines = func() ([]byte, bool) {
			if len(pending) > 0 {
				line := pending[0]
				pending = pending[1:]
				return line, true
			}
			return inner()
		}
	}
	return headered(p.RecordsFromLines(lines), p.hasHeader)
}

// RecordsFromLines parses pre-split record lines with the current dialect.
// The dialect must already be set or sniffed.
func (p *CsvParser) RecordsFromLines(lines seq.Pull[[]byte]) seq.Pull[*record.Record] {
	return func() (*record.Record, bool) {
		line, ok := lines()
		if !ok {
			return nil, false
		}
		text := decodeText(line)
		if p.sniffing {
			p.updateDialect(text)
		}
		return record.New(splitCsvFields(text, p.dialect), text, nil), true
	}
}

// SniffHeuristic reports whether the sample looks like CSV, setting the
// dialect when it does. Unlike sniff, this is allowed to answer no.
func (p *CsvParser) SniffHeuristic(sample [][]byte) bool {
	if err := p.sniff(sample); err != nil {
		debug.Printf("csv sniff: %v", err)
		return false
	}
	return strings.IndexByte(p.fieldSep, p.dialect.Delimiter) >= 0
}

// sniff guesses the delimiter from the sample lines, assuming the input is
// CSV. Candidates are restricted to the configured field separator set. A
// candidate is viable when it appears the same number of times on every
// sample line; ties go to the candidate order.
func (p *CsvParser) sniff(sample [][]byte) error {
	if p.dialect != nil {
		return nil
	}
	lines := make([]string, 0, len(sample))
	for _, b := range sample {
		lines = append(lines, decodeText(b))
	}
	for _, cand := range p.fieldSep {
		d := byte(cand)
		count := -1
		viable := len(lines) > 0
		for _, line := range lines {
			if line == "" {
				continue
			}
			n := strings.Count(line, string(d))
			if n == 0 {
				viable = false
				break
			}
			if count == -1 {
				count = n
			} else if n != count {
				viable = false
				break
			}
		}
		if viable && count > 0 {
			p.dialect = &Dialect{Delimiter: d, Quote: '"', DoubleQuote: true}
			p.sniffing = true
			p.fieldSep = string(d)
			return nil
		}
	}
	return errNoDelimiter
}

var errNoDelimiter = &FormatError{Message: "could not determine delimiter"}

var doubledQuoteRe = regexp.MustCompile(`[^\\]""`)

// updateDialect revises the sniffed quoting style once the stream shows
// which escape convention it uses.
func (p *CsvParser) updateDialect(line string) {
	if doubledQuoteRe.MatchString(line) {
		p.dialect.DoubleQuote = true
		return
	}
	if strings.Contains(line, `\"`) {
		p.dialect.DoubleQuote = false
		p.dialect.EscapeChar = '\\'
	}
}

// splitCsvFields splits one record line into fields per the dialect.
func splitCsvFields(line string, d *Dialect) []string {
	if line == "" {
		return nil
	}
	var fields []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuote:
			switch {
			case d.EscapeChar != 0 && c == d.EscapeChar && i+1 < len(line):
				i++
				cur.WriteByte(line[i])
			case c == d.Quote && d.DoubleQuote && i+1 < len(line) && line[i+1] == d.Quote:
				i++
				cur.WriteByte(d.Quote)
			case c == d.Quote:
				inQuote = false
			default:
				cur.WriteByte(c)
			}
		case c == d.Quote && cur.Len() == 0:
			inQuote = true
		case c == d.Delimiter:
			fields = append(fields, cur.String())
			cur.Reset()
		case d.EscapeChar != 0 && c == d.EscapeChar && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// CsvPrinter prints results in CSV format.
type CsvPrinter struct {
	Delimiter   rune
	PrintHeader bool
}

func (p *CsvPrinter) Print(w io.Writer, result interface{}, cfg PrinterConfig) error {
	if obj.IsUndefined(result) {
		return nil
	}
	t := toTable(result, cfg.Header)
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if p.Delimiter != 0 {
		cw.Comma = p.Delimiter
	}
	if p.PrintHeader {
		if err := cw.Write(t.header); err != nil {
			return err
		}
	}
	for {
		row, ok := t.rows()
		if !ok {
			break
		}
		texts := make([]string, len(row))
		for i, cell := range row {
			texts[i] = cell.Text
		}
		if err := cw.Write(texts); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
