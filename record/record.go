package record

// Record is one row of input: an immutable ordered tuple of Fields plus the
// original raw text it was parsed from. A record produced by the parsing
// pipeline also carries its sequence number, set exactly once.
type Record struct {
	fields   []Field
	source   string
	header   *Record
	num      int
	isHeader bool
}

// New creates a record from field values. If header is non-nil, each field is
// tagged with the column name at its position; fields beyond the header keep
// an empty name.
func New(values []string, source string, header *Record) *Record {
	fields := make([]Field, len(values))
	for i, v := range values {
		name := ""
		if header != nil && i < len(header.fields) {
			name = header.fields[i].Str()
		}
		fields[i] = NewField(v, name)
	}
	return &Record{fields: fields, source: source, header: header, num: -1}
}

// NewHeader creates a header row: structurally a Record whose field values
// are column names rather than data.
func NewHeader(values []string, source string) *Record {
	h := New(values, source, nil)
	h.isHeader = true
	return h
}

func (r *Record) IsHeader() bool { return r.isHeader }

// Fields returns the fields in order. The caller must not modify the result.
func (r *Record) Fields() []Field { return r.fields }

func (r *Record) Len() int { return len(r.fields) }

// Field returns the i'th field. Negative indexes count from the end.
func (r *Record) Field(i int) (Field, bool) {
	if i < 0 {
		i += len(r.fields)
	}
	if i < 0 || i >= len(r.fields) {
		return Field{}, false
	}
	return r.fields[i], true
}

// ByName returns the field under the given column name, if the record has a
// header defining it.
func (r *Record) ByName(name string) (Field, bool) {
	if r.header == nil {
		return Field{}, false
	}
	for i, h := range r.header.fields {
		if h.Str() == name && i < len(r.fields) {
			return r.fields[i], true
		}
	}
	return Field{}, false
}

// Source returns the original raw text this record was parsed from.
func (r *Record) Source() string { return r.source }

func (r *Record) Header() *Record { return r.header }

// SetNum sets the index of the record in the sequence. The parsing pipeline
// calls this exactly once when the record is produced.
func (r *Record) SetNum(num int) { r.num = num }

func (r *Record) Num() int { return r.num }

// First reports whether this is the first record in the sequence.
func (r *Record) First() bool { return r.num == 0 }

// Strings returns the field values as plain strings.
func (r *Record) Strings() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Str()
	}
	return out
}
