// Package record implements the Field/Record/Header data model produced by
// the input parsers.
package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is a single column value within a Record. It is backed by the raw
// text and defers typing: numeric, boolean, and byte views are computed on
// demand and never mutate the field.
type Field struct {
	text string
	name string // column name from the header, "" if none
}

// NewField creates a field with the given text and column name.
func NewField(text, name string) Field {
	return Field{text: text, name: name}
}

func (f Field) Str() string { return f.text }

// Name returns the column name this field belongs to, or "".
func (f Field) Name() string { return f.name }

func (f Field) Bytes() []byte { return []byte(f.text) }

func (f Field) String() string { return f.text }

var boolTokens = map[string]bool{
	"true": true, "t": true, "y": true, "yes": true, "1": true, "on": true,
	"false": false, "f": false, "n": false, "no": false, "0": false, "off": false,
}

// Bool converts the field to a boolean, recognizing true/t/y/yes/1/on and
// false/f/n/no/0/off case-insensitively.
func (f Field) Bool() (bool, error) {
	b, ok := boolTokens[strings.ToLower(f.text)]
	if !ok {
		return false, fmt.Errorf("cannot convert %q to bool", f.text)
	}
	return b, nil
}

func (f Field) Int() (int64, error) {
	n, err := strconv.ParseInt(f.text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to int", f.text)
	}
	return n, nil
}

func (f Field) Float() (float64, error) {
	n, err := strconv.ParseFloat(f.text, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to float", f.text)
	}
	return n, nil
}

// IsNumber reports whether the field parses as a number.
func (f Field) IsNumber() bool {
	_, err := strconv.ParseFloat(f.text, 64)
	return err == nil
}

// Num converts the field to a number, preferring int64 and falling back to
// float64, mirroring how the field parsers defer numeric typing.
func (f Field) Num() (interface{}, error) {
	if n, err := strconv.ParseInt(f.text, 10, 64); err == nil {
		return n, nil
	}
	if n, err := strconv.ParseFloat(f.text, 64); err == nil {
		return n, nil
	}
	return nil, fmt.Errorf("cannot convert %q to int or float", f.text)
}
