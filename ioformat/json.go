package ioformat

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/record"
)

// DecodeJSON decodes one JSON document, preserving object key order by
// materializing objects as *obj.Dict. Numbers become int64 when they fit,
// float64 otherwise.
func DecodeJSON(s string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	return decodeNext(dec)
}

func decodeNext(dec *json.Decoder) (interface{}, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, t)
}

func decodeToken(dec *json.Decoder, t json.Token) (interface{}, error) {
	switch t := t.(type) {
	case json.Delim:
		switch t {
		case '{':
			d := obj.NewDict()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				v, err := decodeNext(dec)
				if err != nil {
					return nil, err
				}
				d.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return d, nil
		case '[':
			items := []interface{}{}
			for dec.More() {
				v, err := decodeNext(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		}
		return nil, &json.SyntaxError{}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		return f, err
	default:
		// string, bool or nil
		return t, nil
	}
}

// JsonFinder accumulates input text until a complete JSON value has been
// read, then emits it. It supports streams of multiple concatenated JSON
// values, like the JSON-lines format.
type JsonFinder struct {
	accumulated []byte
	stack       []byte
	skipNext    bool
}

func (f *JsonFinder) peek() byte {
	if len(f.stack) == 0 {
		return 0
	}
	return f.stack[len(f.stack)-1]
}

// Add feeds more input, returning the complete values it finished.
func (f *JsonFinder) Add(input []byte) ([]interface{}, error) {
	var values []interface{}
	for _, c := range input {
		f.accumulated = append(f.accumulated, c)
		if f.skipNext {
			f.skipNext = false
			continue
		}
		switch {
		case (c == '{' || c == '[') && f.peek() != '"':
			f.stack = append(f.stack, c)
		case c == '}' && f.peek() != '"':
			if f.peek() != '{' {
				return nil, &FormatError{Message: "unbalanced } in JSON input"}
			}
			f.stack = f.stack[:len(f.stack)-1]
		case c == ']' && f.peek() != '"':
			if f.peek() != '[' {
				return nil, &FormatError{Message: "unbalanced ] in JSON input"}
			}
			f.stack = f.stack[:len(f.stack)-1]
		case c == '"':
			if f.peek() == '"' {
				f.stack = f.stack[:len(f.stack)-1]
			} else {
				f.stack = append(f.stack, '"')
			}
		case c == '\\':
			f.skipNext = true
		}
		if len(f.stack) == 0 {
			if strings.TrimSpace(string(f.accumulated)) != "" {
				v, err := DecodeJSON(string(f.accumulated))
				if err != nil {
					return nil, err
				}
				values = append(values, v)
			}
			f.accumulated = f.accumulated[:0]
		}
	}
	return values, nil
}

// Exhausted reports whether all fed input has been consumed into values.
func (f *JsonFinder) Exhausted() bool {
	return strings.TrimSpace(string(f.accumulated)) == ""
}

// JsonValues lazily pulls the concatenated JSON values out of a stream.
func JsonValues(r io.Reader) seq.Pull[interface{}] {
	finder := &JsonFinder{}
	var pending []interface{}
	buf := make([]byte, 1024)
	done := false
	return func() (interface{}, bool) {
		for {
			if len(pending) > 0 {
				v := pending[0]
				pending = pending[1:]
				return v, true
			}
			if done {
				return nil, false
			}
			n, err := r.Read(buf)
			if n > 0 {
				if !utf8Prefix(buf[:n]) {
					panic(ErrBinaryRecords)
				}
				values, ferr := finder.Add(buf[:n])
				if ferr != nil {
					panic(&FormatError{Message: "invalid JSON input: " + ferr.Error()})
				}
				pending = values
			}
			if err != nil {
				done = true
				if !finder.Exhausted() {
					panic(&FormatError{Message: "incomplete JSON input"})
				}
			}
		}
	}
}

// utf8Prefix is a cheap binary check on a chunk boundary: reject NUL bytes,
// which never appear in JSON text.
func utf8Prefix(b []byte) bool {
	for _, c := range b {
		if c == 0 {
			return false
		}
	}
	return true
}

// JsonParser parses table-like JSON input: an array of objects, or a stream
// of concatenated objects (JSON-lines), where each object is in the form
// {"column_name": value}.
type JsonParser struct {
	base
	linesOnly bool
}

func NewJsonParser(recordSep string, linesOnly bool) *JsonParser {
	if recordSep == "" {
		recordSep = "\n"
	}
	p := &JsonParser{base: base{recordSep: recordSep}, linesOnly: linesOnly}
	has := true
	p.hasHeader = &has
	return p
}

func (p *JsonParser) Records(r io.Reader) seq.Pull[*record.Record] {
	values := JsonValues(r)
	if !p.linesOnly {
		// A single top-level array is the table itself.
		first, ok := values()
		if !ok {
			return func() (*record.Record, bool) { return nil, false }
		}
		second, hasSecond := values()
		if arr, isArr := first.([]interface{}); isArr && !hasSecond {
			values = seq.FromSlice(arr).Iter()
		} else {
			pending := []interface{}{first}
			if hasSecond {
				pending = append(pending, second)
			}
			inner := values
			values = func() (interface{}, bool) {
				if len(pending) > 0 {
					v := pending[0]
					pending = pending[1:]
					return v, true
				}
				return inner()
			}
		}
	}
	return RecordsFromValues(values)
}

// RecordsFromValues turns a stream of decoded JSON values into records. The
// first object's keys become the header; every value must be an object.
func RecordsFromValues(values seq.Pull[interface{}]) seq.Pull[*record.Record] {
	var header *record.Record
	n := 0
	pendingHeader := false
	var firstData *record.Record
	return func() (*record.Record, bool) {
		if pendingHeader {
			pendingHeader = false
			return firstData, true
		}
		v, ok := values()
		if !ok {
			return nil, false
		}
		d, isDict := v.(*obj.Dict)
		if !isDict {
			formatPanicf("input is not an array of objects")
		}
		fields := make([]string, 0, d.Len())
		for _, item := range d.Values() {
			fields = append(fields, obj.Str(item))
		}
		rec := record.New(fields, encodeJSON(d, 0), header)
		rec.SetNum(n)
		n++
		if header == nil {
			header = record.NewHeader(d.Keys(), "")
			rec = record.New(fields, rec.Source(), header)
			rec.SetNum(0)
			firstData = rec
			pendingHeader = true
			return header, true
		}
		return rec, true
	}
}

// JsonPrinter prints the result in JSON format. Table-like results with a
// real header print as an array of objects; tables with a synthesized header
// print as a 2D array.
type JsonPrinter struct{}

func (p *JsonPrinter) Print(w io.Writer, result interface{}, cfg PrinterConfig) error {
	if obj.IsUndefined(result) {
		return nil
	}
	if isListLike(result) {
		rows, first, ok := peekElems(result)
		if ok && isRowLike(first) {
			t := toTable(rebuilt(result, rows), cfg.Header)
			if t.synthesized {
				return write2DArray(w, t)
			}
			return writeObjectArray(w, t)
		}
		if cfg.Header != nil {
			d := obj.NewDict()
			i := 0
			for {
				v, ok := rows()
				if !ok {
					break
				}
				if i < len(cfg.Header) {
					d.Set(cfg.Header[i], v)
				}
				i++
			}
			_, err := io.WriteString(w, encodeJSON(d, 2)+"\n")
			return err
		}
		result = rebuilt(result, rows)
	}
	_, err := io.WriteString(w, encodeJSON(result, 2)+"\n")
	return err
}

// peekElems returns an element iterator over a list-like value along with
// its first element. Single-row list-likes (tuples, records) iterate their
// items.
func peekElems(v interface{}) (seq.Pull[interface{}], interface{}, bool) {
	it := rowIter(v)
	if it == nil {
		switch v := v.(type) {
		case obj.Tuple:
			it = seq.FromSlice([]interface{}(v)).Iter()
		case *record.Record:
			items := make([]interface{}, v.Len())
			for i, f := range v.Fields() {
				items[i] = f
			}
			it = seq.FromSlice(items).Iter()
		default:
			return nil, nil, false
		}
	}
	first, ok := it()
	if !ok {
		return func() (interface{}, bool) { return nil, false }, nil, false
	}
	replayed := false
	return func() (interface{}, bool) {
		if !replayed {
			replayed = true
			return first, true
		}
		return it()
	}, first, true
}

// isRowLike reports whether a row prints as a flat table row: list-like with
// no nested containers.
func isRowLike(row interface{}) bool {
	if !isListLike(row) {
		return false
	}
	cells, ok := rowItems(row)
	if !ok {
		return false
	}
	for _, cell := range cells {
		if isListLike(cell) {
			return false
		}
		if _, isDict := cell.(*obj.Dict); isDict {
			return false
		}
	}
	return true
}

func rowItems(row interface{}) ([]interface{}, bool) {
	switch row := row.(type) {
	case obj.Tuple:
		return row, true
	case []interface{}:
		return row, true
	case *record.Record:
		items := make([]interface{}, row.Len())
		for i, f := range row.Fields() {
			items[i] = f
		}
		return items, true
	case *seq.Sequence[interface{}]:
		return row.List(), true
	}
	return nil, false
}

// rebuilt re-wraps a peeked iterator into a value toTable understands,
// keeping the header of record sequences.
func rebuilt(orig interface{}, rows seq.Pull[interface{}]) interface{} {
	if rs, ok := orig.(*record.Sequence); ok && rs.Header() != nil {
		return orig
	}
	return seq.New(rows)
}

func write2DArray(w io.Writer, t table) error {
	rows := [][]interface{}{}
	for {
		row, ok := t.rows()
		if !ok {
			break
		}
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell.Text
		}
		rows = append(rows, cells)
	}
	items := make([]interface{}, len(rows))
	for i, r := range rows {
		items[i] = r
	}
	_, err := io.WriteString(w, encodeJSON(items, 2)+"\n")
	return err
}

func writeObjectArray(w io.Writer, t table) error {
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	i := 0
	for {
		row, ok := t.rows()
		if !ok {
			break
		}
		if i > 0 {
			if _, err := io.WriteString(w, ",\n"); err != nil {
				return err
			}
		}
		d := obj.NewDict()
		for col, cell := range row {
			if col < len(t.header) {
				d.Set(t.header[col], cell.Text)
			}
		}
		if _, err := io.WriteString(w, "    "+encodeJSON(d, 0)); err != nil {
			return err
		}
		i++
	}
	_, err := io.WriteString(w, "\n]\n")
	return err
}

// JsonlPrinter prints each element of the result as one line of JSON.
type JsonlPrinter struct{}

func (p *JsonlPrinter) Print(w io.Writer, result interface{}, cfg PrinterConfig) error {
	if obj.IsUndefined(result) {
		return nil
	}
	if !isListLike(result) {
		return &FormatError{Message: "cannot print non-list-like output as JSONL"}
	}
	rows, first, ok := peekElems(result)
	if ok && isRowLike(first) {
		t := toTable(rebuilt(result, rows), cfg.Header)
		for {
			row, rowOk := t.rows()
			if !rowOk {
				return nil
			}
			var line string
			if t.synthesized {
				cells := make([]interface{}, len(row))
				for i, cell := range row {
					cells[i] = cell.Text
				}
				line = encodeJSON(cells, 0)
			} else {
				d := obj.NewDict()
				for col, cell := range row {
					if col < len(t.header) {
						d.Set(t.header[col], cell.Text)
					}
				}
				line = encodeJSON(d, 0)
			}
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
	}
	for {
		v, vOk := rows()
		if !vOk {
			return nil
		}
		if _, err := io.WriteString(w, encodeJSON(v, 0)+"\n"); err != nil {
			return err
		}
	}
}
