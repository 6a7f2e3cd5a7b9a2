package ioformat

import (
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/record"
)

// EncodeJSON encodes a value as JSON, preserving dict key order. indent of
// 0 produces a compact single-line encoding; a positive indent produces one
// element per line. Strings that look like numbers are emitted as numbers,
// keeping their original text.
func EncodeJSON(v interface{}, indent int) string {
	return encodeJSON(v, indent)
}

func encodeJSON(v interface{}, indent int) string {
	var sb strings.Builder
	encodeValue(&sb, v, indent, 0)
	return sb.String()
}

func encodeValue(sb *strings.Builder, v interface{}, indent, depth int) {
	switch v := v.(type) {
	case nil:
		sb.WriteString("null")
	case obj.UndefinedType:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case int64:
		sb.WriteString(strconv.FormatInt(v, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case string:
		encodeString(sb, v)
	case record.Field:
		encodeString(sb, v.Str())
	case *obj.Dict:
		encodeDict(sb, v, indent, depth)
	case obj.Tuple:
		encodeList(sb, v, indent, depth)
	case []interface{}:
		encodeList(sb, v, indent, depth)
	case *seq.Sequence[interface{}]:
		encodeList(sb, v.List(), indent, depth)
	case *record.Record:
		items := make([]interface{}, v.Len())
		for i, f := range v.Fields() {
			items[i] = f
		}
		encodeList(sb, items, indent, depth)
	case *record.Sequence:
		var items []interface{}
		for _, r := range v.List() {
			items = append(items, r)
		}
		encodeList(sb, items, indent, depth)
	default:
		sb.WriteString(oj.JSON(obj.Repr(v)))
	}
}

// encodeString writes a string value, emitting it as a raw number token when
// it parses as one so that numeric text like "40.0" round-trips unchanged.
func encodeString(sb *strings.Builder, s string) {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		sb.WriteString(s)
		return
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		sb.WriteString(s)
		return
	}
	sb.WriteString(oj.JSON(s))
}

func encodeDict(sb *strings.Builder, d *obj.Dict, indent, depth int) {
	keys := d.Keys()
	if len(keys) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(",")
		}
		writeIndent(sb, indent, depth+1)
		sb.WriteString(oj.JSON(k))
		sb.WriteString(": ")
		v, _ := d.Get(k)
		encodeValue(sb, v, indent, depth+1)
	}
	writeIndent(sb, indent, depth)
	sb.WriteString("}")
}

func encodeList(sb *strings.Builder, items []interface{}, indent, depth int) {
	kept := items[:0:0]
	for _, item := range items {
		if !obj.IsUndefined(item) {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		sb.WriteString("[]")
		return
	}
	sb.WriteString("[")
	for i, item := range kept {
		if i > 0 {
			sb.WriteString(",")
		}
		writeIndent(sb, indent, depth+1)
		encodeValue(sb, item, indent, depth+1)
	}
	writeIndent(sb, indent, depth)
	sb.WriteString("]")
}

func writeIndent(sb *strings.Builder, indent, depth int) {
	if indent == 0 {
		if sb.Len() > 0 {
			last := sb.String()[sb.Len()-1]
			if last == ',' || last == ':' {
				sb.WriteString(" ")
			}
		}
		return
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", indent*depth))
}
