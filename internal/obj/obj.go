// Package obj holds value types shared between the interpreter and the
// output formatting layer.
package obj

// UndefinedType is the "no value" sentinel: falsy, stringifies to empty, and
// filtered out of any iterable result before printing.
type UndefinedType struct{}

func (UndefinedType) String() string { return "" }

// Undefined is the singleton no-value sentinel.
var Undefined = UndefinedType{}

// IsUndefined reports whether v is the no-value sentinel.
func IsUndefined(v interface{}) bool {
	_, ok := v.(UndefinedType)
	return ok
}

// Tuple is a fixed group of values. Unlike a list, a flat tuple is treated as
// a single record by the printers, not as a table.
type Tuple []interface{}

// Dict is a string-keyed mapping that preserves insertion order. Key order is
// load-bearing for header derivation and JSON output.
type Dict struct {
	keys  []string
	items map[string]interface{}
}

func NewDict() *Dict {
	return &Dict{items: make(map[string]interface{})}
}

// Set stores v under k, keeping the first-insertion position of k.
func (d *Dict) Set(k string, v interface{}) {
	if _, exists := d.items[k]; !exists {
		d.keys = append(d.keys, k)
	}
	d.items[k] = v
}

func (d *Dict) Get(k string) (interface{}, bool) {
	v, ok := d.items[k]
	return v, ok
}

// Keys returns the keys in insertion order. The caller must not modify the
// result.
func (d *Dict) Keys() []string { return d.keys }

func (d *Dict) Len() int { return len(d.keys) }

// Values returns the values in key insertion order.
func (d *Dict) Values() []interface{} {
	vals := make([]interface{}, len(d.keys))
	for i, k := range d.keys {
		vals[i] = d.items[k]
	}
	return vals
}
