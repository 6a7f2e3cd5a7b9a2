package obj

import (
	"fmt"
	"strconv"
	"strings"
)

// Stringish is implemented by values that behave like strings, such as input
// fields, keeping their text when rendered.
type Stringish interface {
	Str() string
}

// Row is implemented by record-like values that render as a tuple of their
// field strings.
type Row interface {
	Strings() []string
}

// TypeName returns the name of a value's type as the expression language
// presents it.
func TypeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case UndefinedType:
		return "undefined"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string, Stringish:
		return "str"
	case []byte:
		return "bytes"
	case Tuple:
		return "tuple"
	case []interface{}:
		return "list"
	case *Dict:
		return "dict"
	}
	return fmt.Sprintf("%T", v)
}

// Str renders a value for display the way the expression language sees it:
// None for nil, True/False for bools, %.6g for floats, container literals
// for tuples, lists and dicts.
func Str(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case UndefinedType:
		return ""
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return fmt.Sprintf("%.6g", v)
	case string:
		return v
	case []byte:
		return string(v)
	case Stringish:
		return v.Str()
	case Row:
		return rowRepr(v)
	case Tuple:
		return reprSeq("(", ")", v, len(v) == 1)
	case []interface{}:
		return reprSeq("[", "]", v, false)
	case *Dict:
		return reprDict(v)
	}
	return fmt.Sprint(v)
}

// Repr renders a value like Str, except strings are quoted.
func Repr(v interface{}) string {
	switch v := v.(type) {
	case string:
		return quote(v)
	case []byte:
		return "b" + quote(string(v))
	case Stringish:
		return quote(v.Str())
	}
	return Str(v)
}

func reprSeq(left, right string, items []interface{}, trailingComma bool) string {
	var sb strings.Builder
	sb.WriteString(left)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Repr(item))
	}
	if trailingComma {
		sb.WriteString(",")
	}
	sb.WriteString(right)
	return sb.String()
}

func rowRepr(r Row) string {
	items := r.Strings()
	values := make([]interface{}, len(items))
	for i, s := range items {
		values[i] = s
	}
	return reprSeq("(", ")", values, len(values) == 1)
}

func reprDict(d *Dict) string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range d.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := d.Get(k)
		sb.WriteString(quote(k))
		sb.WriteString(": ")
		sb.WriteString(Repr(v))
	}
	sb.WriteString("}")
	return sb.String()
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
