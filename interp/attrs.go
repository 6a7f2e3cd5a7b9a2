package interp

import (
	"strings"
	"unicode"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/ioformat"
	"github.com/golin/golin/record"
)

// getAttr resolves `x.name` for every attribute-bearing value: field and
// record views, dict and string methods, modules, and the cfg object.
func (ip *Interp) getAttr(x interface{}, name string) interface{} {
	switch v := x.(type) {
	case record.Field:
		if a, ok := fieldAttr(v, name); ok {
			return a
		}
		// Fall through to string methods on the field text.
		if m, ok := stringMethod(v.Str(), name); ok {
			return m
		}
	case *record.Record:
		switch name {
		case "source":
			return []byte(v.Source())
		case "str":
			return v.Source()
		case "num":
			return int64(v.Num())
		case "first":
			return v.First()
		}
	case *obj.Dict:
		if m, ok := dictMethod(v, name); ok {
			return m
		}
	case string:
		if m, ok := stringMethod(v, name); ok {
			return m
		}
	case []byte:
		if name == "decode" {
			return boundMethod(func(args []interface{}) interface{} {
				wantArgs("decode", args, 0, 1)
				return string(v)
			})
		}
	case *module:
		if a, ok := v.attrs[name]; ok {
			return a
		}
		runtimeErrorf("module '%s' has no attribute %q", v.name, name)
	case *progConfig:
		if a, ok := ip.configAttr(v, name); ok {
			return a
		}
	}
	runtimeErrorf("'%s' object has no attribute %q", obj.TypeName(x), name)
	return nil
}

// setAttr resolves `x.name = value`: cfg fields and printer/parser options.
func (ip *Interp) setAttr(x interface{}, name string, value interface{}) {
	switch v := x.(type) {
	case *progConfig:
		switch name {
		case "parser":
			v.setParser(value)
			return
		case "printer":
			v.setPrinter(value)
			return
		case "header":
			v.header = headerNames(value)
			return
		}
	case *ioformat.CsvPrinter:
		switch name {
		case "print_header":
			v.PrintHeader = truth(value)
			return
		case "delimiter":
			s, ok := str(value)
			if !ok || len(s) != 1 {
				runtimeErrorf("delimiter must be a 1-character string")
			}
			v.Delimiter = rune(s[0])
			return
		}
	case *ioformat.TxtPrinter:
		switch name {
		case "field_separator":
			s, _ := str(value)
			v.FieldSeparator = s
			return
		case "record_separator":
			s, _ := str(value)
			v.RecordSeparator = s
			return
		}
	}
	runtimeErrorf("cannot set attribute %q on '%s' object", name, obj.TypeName(x))
}

func fieldAttr(f record.Field, name string) (interface{}, bool) {
	switch name {
	case "str":
		return f.Str(), true
	case "bytes":
		return f.Bytes(), true
	case "int":
		n, err := f.Int()
		if err != nil {
			runtimeErrorf("%s", err)
		}
		return n, true
	case "float":
		n, err := f.Float()
		if err != nil {
			runtimeErrorf("%s", err)
		}
		return n, true
	case "bool":
		b, err := f.Bool()
		if err != nil {
			runtimeErrorf("%s", err)
		}
		return b, true
	case "name":
		return f.Name(), true
	}
	return nil, false
}

func (ip *Interp) configAttr(c *progConfig, name string) (interface{}, bool) {
	switch name {
	case "parser":
		return c.curParser(), true
	case "printer":
		return c.printer, true
	case "header":
		if c.header == nil {
			return nil, true
		}
		items := make([]interface{}, len(c.header))
		for i, h := range c.header {
			items[i] = h
		}
		return items, true
	case "new_parser":
		return boundMethod(func(args []interface{}) interface{} {
			wantArgs("new_parser", args, 1, 1)
			format, ok := str(args[0])
			if !ok {
				runtimeErrorf("new_parser: format name must be a string")
			}
			p, err := ioformat.NewParser(format, c.recordSep, c.fieldSep)
			if err != nil {
				runtimeErrorf("%s", err)
			}
			return p
		}), true
	case "new_printer":
		return boundMethod(func(args []interface{}) interface{} {
			wantArgs("new_printer", args, 1, 1)
			format, ok := str(args[0])
			if !ok {
				runtimeErrorf("new_printer: format name must be a string")
			}
			p, err := ioformat.NewPrinter(format)
			if err != nil {
				runtimeErrorf("%s", err)
			}
			return p
		}), true
	}
	return nil, false
}

func dictMethod(d *obj.Dict, name string) (boundMethod, bool) {
	switch name {
	case "keys":
		return func(args []interface{}) interface{} {
			wantArgs("keys", args, 0, 0)
			keys := d.Keys()
			out := make([]interface{}, len(keys))
			for i, k := range keys {
				out[i] = k
			}
			return out
		}, true
	case "values":
		return func(args []interface{}) interface{} {
			wantArgs("values", args, 0, 0)
			keys := d.Keys()
			out := make([]interface{}, len(keys))
			for i, k := range keys {
				out[i], _ = d.Get(k)
			}
			return out
		}, true
	case "items":
		return func(args []interface{}) interface{} {
			wantArgs("items", args, 0, 0)
			keys := d.Keys()
			out := make([]interface{}, len(keys))
			for i, k := range keys {
				v, _ := d.Get(k)
				out[i] = obj.Tuple{k, v}
			}
			return out
		}, true
	case "get":
		return func(args []interface{}) interface{} {
			wantArgs("get", args, 1, 2)
			key, _ := str(args[0])
			if v, ok := d.Get(key); ok {
				return v
			}
			if len(args) == 2 {
				return args[1]
			}
			return nil
		}, true
	}
	return nil, false
}

func stringMethod(s, name string) (boundMethod, bool) {
	switch name {
	case "upper":
		return str0(name, func() string { return strings.ToUpper(s) }), true
	case "lower":
		return str0(name, func() string { return strings.ToLower(s) }), true
	case "strip":
		return stripMethod(s, name, strings.Trim, strings.TrimSpace), true
	case "lstrip":
		return stripMethod(s, name, strings.TrimLeft, func(s string) string {
			return strings.TrimLeftFunc(s, unicode.IsSpace)
		}), true
	case "rstrip":
		return stripMethod(s, name, strings.TrimRight, func(s string) string {
			return strings.TrimRightFunc(s, unicode.IsSpace)
		}), true
	case "title":
		return str0(name, func() string { return titleCase(s) }), true
	case "capitalize":
		return str0(name, func() string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
		}), true
	case "split":
		return func(args []interface{}) interface{} {
			wantArgs("split", args, 0, 1)
			var parts []string
			if len(args) == 0 {
				parts = strings.Fields(s)
			} else {
				sep := mustStr(args[0], "split")
				parts = strings.Split(s, sep)
			}
			out := make([]interface{}, len(parts))
			for i, p := range parts {
				out[i] = p
			}
			return out
		}, true
	case "splitlines":
		return func(args []interface{}) interface{} {
			wantArgs("splitlines", args, 0, 0)
			trimmed := strings.TrimSuffix(s, "\n")
			if trimmed == "" {
				return []interface{}{}
			}
			parts := strings.Split(trimmed, "\n")
			out := make([]interface{}, len(parts))
			for i, p := range parts {
				out[i] = strings.TrimSuffix(p, "\r")
			}
			return out
		}, true
	case "join":
		return func(args []interface{}) interface{} {
			wantArgs("join", args, 1, 1)
			var parts []string
			it := iterValue(args[0])
			for {
				v, ok := it()
				if !ok {
					break
				}
				parts = append(parts, obj.Str(v))
			}
			return strings.Join(parts, s)
		}, true
	case "replace":
		return func(args []interface{}) interface{} {
			wantArgs("replace", args, 2, 2)
			return strings.ReplaceAll(s, mustStr(args[0], name), mustStr(args[1], name))
		}, true
	case "startswith":
		return func(args []interface{}) interface{} {
			wantArgs("startswith", args, 1, 1)
			return strings.HasPrefix(s, mustStr(args[0], name))
		}, true
	case "endswith":
		return func(args []interface{}) interface{} {
			wantArgs("endswith", args, 1, 1)
			return strings.HasSuffix(s, mustStr(args[0], name))
		}, true
	case "find":
		return func(args []interface{}) interface{} {
			wantArgs("find", args, 1, 1)
			return int64(strings.Index(s, mustStr(args[0], name)))
		}, true
	case "count":
		return func(args []interface{}) interface{} {
			wantArgs("count", args, 1, 1)
			return int64(strings.Count(s, mustStr(args[0], name)))
		}, true
	case "zfill":
		return func(args []interface{}) interface{} {
			wantArgs("zfill", args, 1, 1)
			width := int(intIndex(args[0]))
			if len(s) >= width {
				return s
			}
			sign, rest := "", s
			if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
				sign, rest = s[:1], s[1:]
			}
			return sign + strings.Repeat("0", width-len(s)) + rest
		}, true
	case "encode":
		return func(args []interface{}) interface{} {
			wantArgs("encode", args, 0, 1)
			return []byte(s)
		}, true
	case "isdigit":
		return func(args []interface{}) interface{} {
			wantArgs("isdigit", args, 0, 0)
			if s == "" {
				return false
			}
			for _, r := range s {
				if !unicode.IsDigit(r) {
					return false
				}
			}
			return true
		}, true
	}
	return nil, false
}

func str0(name string, fn func() string) boundMethod {
	return func(args []interface{}) interface{} {
		wantArgs(name, args, 0, 0)
		return fn()
	}
}

func stripMethod(s, name string, cut func(string, string) string, space func(string) string) boundMethod {
	return func(args []interface{}) interface{} {
		wantArgs(name, args, 0, 1)
		if len(args) == 1 {
			return cut(s, mustStr(args[0], name))
		}
		return space(s)
	}
}

func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

func mustStr(v interface{}, op string) string {
	if s, ok := str(v); ok {
		return s
	}
	runtimeErrorf("%s: expected a string, not '%s'", op, obj.TypeName(v))
	return ""
}
