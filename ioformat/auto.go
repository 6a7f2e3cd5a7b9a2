package ioformat

import (
	"bytes"
	"io"
	"regexp"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/record"
)

// autoSniffLimit is how many bytes the auto parser reads looking for a
// record separator before giving up on detection.
const autoSniffLimit = 4000

// AutoParser detects the input data format: CSV and TSV by delimiter
// sniffing, then whole-input JSON, then field separated text.
type AutoParser struct {
	base
}

func NewAutoParser(recordSep, fieldSep string) *AutoParser {
	if recordSep == "" {
		recordSep = "\n"
	}
	return &AutoParser{base{recordSep: recordSep, fieldSep: fieldSep}}
}

func (p *AutoParser) Records(r io.Reader) seq.Pull[*record.Record] {
	lines := SplitRecords(r, p.recordSep, autoSniffLimit)
	var sample [][]byte
	for len(sample) < 5 {
		line, ok := lines()
		if !ok {
			break
		}
		sample = append(sample, line)
	}
	pending := append([][]byte(nil), sample...)
	replay := func() ([]byte, bool) {
		if len(pending) > 0 {
			line := pending[0]
			pending = pending[1:]
			return line, true
		}
		return lines()
	}

	// JSON first: a compact JSON document is full of commas, which would
	// fool the delimiter sniff.
	if len(sample) > 0 {
		first := bytes.TrimLeft(sample[0], " \t")
		if len(first) > 0 && (first[0] == '{' || first[0] == '[') {
			// Buffer everything: if the whole-input JSON parse fails, the
			// text fallback still needs every line.
			var doc [][]byte
			for {
				line, ok := replay()
				if !ok {
					break
				}
				doc = append(doc, line)
			}
			if records, ok := p.parseWholeJSON(doc); ok {
				return records
			}
			pending = doc
		}
	}

	csvParser := NewCsvParser(p.recordSep, p.fieldSep, nil)
	csvParser.hasHeader = p.hasHeader
	if csvParser.SniffHeuristic(sample) {
		p.fieldSep = string(csvParser.Dialect().Delimiter)
		return headered(csvParser.RecordsFromLines(replay), p.hasHeader)
	}

	txtParser := NewTxtParser(p.recordSep, p.fieldSep)
	fieldRe, err := regexp.Compile(txtParser.fieldSep)
	if err != nil {
		formatPanicf("invalid field separator %q: %v", txtParser.fieldSep, err)
	}
	return headered(txtParser.recordsFromLines(replay, fieldRe), p.hasHeader)
}

// parseWholeJSON buffers the remaining lines and tries to parse them as one
// JSON document. It reports false when the input is not table-like JSON, so
// detection can fall through to plain text.
func (p *AutoParser) parseWholeJSON(doc [][]byte) (seq.Pull[*record.Record], bool) {
	joined := bytes.Join(doc, []byte(p.recordSep))
	v, err := DecodeJSON(string(joined))
	if err != nil {
		return nil, false
	}
	arr, ok := v.([]interface{})
	if !ok {
		if d, isDict := v.(*obj.Dict); isDict {
			arr = []interface{}{d}
		} else {
			return nil, false
		}
	}
	for _, item := range arr {
		if _, isDict := item.(*obj.Dict); !isDict {
			return nil, false
		}
	}
	return RecordsFromValues(seq.FromSlice(arr).Iter()), true
}
