// Package ioformat contains the input format parsers and output printers.
package ioformat

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/record"
)

// FormatError is a user-facing input/output format error: unrecognized
// format name, failed format detection, or malformed input for the format.
// The lazily pulled record generators report fatal format errors by
// panicking with a *FormatError; Catch converts that back into an error at
// the boundary.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string { return e.Message }

func formatPanicf(format string, args ...interface{}) {
	panic(&FormatError{Message: fmt.Sprintf(format, args...)})
}

// ErrBinaryRecords is reported when record or field based variables are
// accessed while the input is not valid text.
var ErrBinaryRecords = &FormatError{
	Message: "`record`-based attributes are not supported for binary inputs",
}

// Catch runs f, converting a panicking *FormatError into a returned error.
func Catch(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*FormatError)
			if !ok {
				panic(r)
			}
			err = fe
		}
	}()
	return f()
}

// Parser is a strategy that turns a raw byte stream into a sequence of
// records. Implementations own the detection logic for their format.
type Parser interface {
	// Records returns a pull iterator over the records parsed from r,
	// yielding a header record first when one is present or detected.
	// Fatal format errors panic with *FormatError.
	Records(r io.Reader) seq.Pull[*record.Record]

	// SetHasHeader overrides the header-presence heuristic.
	SetHasHeader(has bool)
}

// base carries the separator configuration and header override shared by the
// concrete parsers.
type base struct {
	recordSep string
	fieldSep  string
	hasHeader *bool
}

func (b *base) SetHasHeader(has bool) { b.hasHeader = &has }

var parserMakers = map[string]func(recordSep, fieldSep string) Parser{
	"txt":       func(rs, fs string) Parser { return NewTxtParser(rs, fs) },
	"awk":       func(rs, fs string) Parser { return NewTxtParser(rs, fs) },
	"csv":       func(rs, fs string) Parser { return NewCsvParser(rs, fs, nil) },
	"csv_excel": func(rs, fs string) Parser { return NewCsvParser(rs, fs, &DialectExcel) },
	"csv_unix":  func(rs, fs string) Parser { return NewCsvParser(rs, fs, &DialectUnix) },
	"tsv":       func(rs, fs string) Parser { return NewCsvParser(rs, "\t", nil) },
	"json":      func(rs, fs string) Parser { return NewJsonParser(rs, false) },
	"jsonl":     func(rs, fs string) Parser { return NewJsonParser(rs, true) },
	"binary":    func(rs, fs string) Parser { return &BinaryParser{} },
	"auto":      func(rs, fs string) Parser { return NewAutoParser(rs, fs) },
}

// NewParser creates a parser for the given input format name.
func NewParser(format, recordSep, fieldSep string) (Parser, error) {
	maker, ok := parserMakers[format]
	if !ok {
		return nil, fmt.Errorf("unknown input format %q", format)
	}
	return maker(recordSep, fieldSep), nil
}

// ParserFormats returns the recognized input format names, sorted.
func ParserFormats() []string {
	names := make([]string, 0, len(parserMakers))
	for name := range parserMakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SplitRecords reads the stream record by record, where records are
// delimited by the separator pattern matched against incrementally buffered
// input, so it works on unbounded streams. If limit is positive and that
// many bytes are read before any separator is seen, the stream is considered
// undetectable and a *FormatError is raised.
func SplitRecords(r io.Reader, sep string, limit int) seq.Pull[[]byte] {
	re, err := regexp.Compile(sep)
	if err != nil {
		formatPanicf("invalid record separator %q: %v", sep, err)
	}
	var buf []byte
	chunk := make([]byte, 4096)
	atEOF := false
	yielded := false
	total := 0
	done := false

	return func() ([]byte, bool) {
		for {
			if done {
				return nil, false
			}
			if m := re.FindIndex(buf); m != nil && (atEOF || m[1] < len(buf)) {
				// Only split when the match can't extend with more
				// input.
				token := buf[:m[0]:m[0]]
				buf = buf[m[1]:]
				yielded = true
				return token, true
			}
			if atEOF {
				done = true
				if len(buf) > 0 {
					return buf, true
				}
				return nil, false
			}
			n, err := r.Read(chunk)
			if n > 0 {
				buf = append(buf, chunk[:n]...)
				total += n
				if limit > 0 && total > limit && !yielded {
					formatPanicf("unable to detect input format: try specifying the input format with -i")
				}
			}
			if err != nil {
				atEOF = true
			}
		}
	}
}

// decodeText converts raw record bytes to a string, reporting the
// binary-mode violation for invalid UTF-8.
func decodeText(b []byte) string {
	if !utf8.Valid(b) {
		panic(ErrBinaryRecords)
	}
	return string(b)
}

// headered applies the header-presence heuristic to a raw record generator
// and rewires records so fields know their column names. When hasHeader is
// nil the heuristic votes on a sample of leading rows; otherwise the
// override decides.
func headered(gen seq.Pull[*record.Record], hasHeader *bool) seq.Pull[*record.Record] {
	started := false
	has := false
	var sample []*record.Record
	var header *record.Record
	n := 0

	return func() (*record.Record, bool) {
		if !started {
			started = true
			if hasHeader != nil {
				has = *hasHeader
			} else {
				for len(sample) < headerSampleRows {
					r, ok := gen()
					if !ok {
						break
					}
					sample = append(sample, r)
				}
				has = HasHeader(sample)
			}
			if has {
				var first *record.Record
				var ok bool
				if len(sample) > 0 {
					first, ok = sample[0], true
					sample = sample[1:]
				} else {
					first, ok = gen()
				}
				if ok {
					header = record.NewHeader(first.Strings(), first.Source())
					return header, true
				}
				return nil, false
			}
		}
		var r *record.Record
		var ok bool
		if len(sample) > 0 {
			r, ok = sample[0], true
			sample = sample[1:]
		} else {
			r, ok = gen()
		}
		if !ok {
			return nil, false
		}
		if header != nil {
			r = record.New(r.Strings(), r.Source(), header)
		}
		r.SetNum(n)
		n++
		return r, true
	}
}
