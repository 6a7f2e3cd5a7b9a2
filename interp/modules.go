package interp

import (
	"math"
	"regexp"

	"github.com/golin/golin/ioformat"
)

// module is a namespace of values and functions exposed to programs, like
// `math` or `re`.
type module struct {
	name  string
	attrs map[string]interface{}
}

// Modules returns the names of the available modules, sorted.
func Modules() []string {
	return []string{"json", "math", "re"}
}

func newModule(name string, attrs map[string]interface{}) *module {
	for attr, v := range attrs {
		if fn, ok := v.(func(args []interface{}) interface{}); ok {
			attrs[attr] = &builtin{name: name + "." + attr, fn: fn}
		}
	}
	return &module{name: name, attrs: attrs}
}

func mathFunc(name string, fn func(float64) float64) func(args []interface{}) interface{} {
	return func(args []interface{}) interface{} {
		wantArgs(name, args, 1, 1)
		return fn(asFloat(mustNum(args[0], name)))
	}
}

var mathModule = newModule("math", map[string]interface{}{
	"pi":    math.Pi,
	"e":     math.E,
	"inf":   math.Inf(1),
	"nan":   math.NaN(),
	"sqrt":  mathFunc("math.sqrt", math.Sqrt),
	"floor": mathFunc("math.floor", math.Floor),
	"ceil":  mathFunc("math.ceil", math.Ceil),
	"log":   mathFunc("math.log", math.Log),
	"log10": mathFunc("math.log10", math.Log10),
	"log2":  mathFunc("math.log2", math.Log2),
	"fabs":  mathFunc("math.fabs", math.Abs),
	"pow": func(args []interface{}) interface{} {
		wantArgs("math.pow", args, 2, 2)
		x := asFloat(mustNum(args[0], "math.pow"))
		y := asFloat(mustNum(args[1], "math.pow"))
		return math.Pow(x, y)
	},
})

func compilePattern(op string, v interface{}) *regexp.Regexp {
	pat := mustStr(v, op)
	re, err := regexp.Compile(pat)
	if err != nil {
		runtimeErrorf("%s: invalid pattern %q: %s", op, pat, err)
	}
	return re
}

// The re functions return the matched text as a string instead of a match
// object; None still signals no match.
func reFind(name string, match func(re *regexp.Regexp, s string) (string, bool)) func(args []interface{}) interface{} {
	return func(args []interface{}) interface{} {
		wantArgs(name, args, 2, 2)
		re := compilePattern(name, args[0])
		s := mustStr(args[1], name)
		if m, ok := match(re, s); ok {
			return m
		}
		return nil
	}
}

var reModule = newModule("re", map[string]interface{}{
	"search": reFind("re.search", func(re *regexp.Regexp, s string) (string, bool) {
		loc := re.FindStringIndex(s)
		if loc == nil {
			return "", false
		}
		return s[loc[0]:loc[1]], true
	}),
	"match": reFind("re.match", func(re *regexp.Regexp, s string) (string, bool) {
		loc := re.FindStringIndex(s)
		if loc == nil || loc[0] != 0 {
			return "", false
		}
		return s[:loc[1]], true
	}),
	"fullmatch": reFind("re.fullmatch", func(re *regexp.Regexp, s string) (string, bool) {
		loc := re.FindStringIndex(s)
		if loc == nil || loc[0] != 0 || loc[1] != len(s) {
			return "", false
		}
		return s, true
	}),
	"findall": func(args []interface{}) interface{} {
		wantArgs("re.findall", args, 2, 2)
		re := compilePattern("re.findall", args[0])
		matches := re.FindAllString(mustStr(args[1], "re.findall"), -1)
		out := make([]interface{}, len(matches))
		for i, m := range matches {
			out[i] = m
		}
		return out
	},
	"sub": func(args []interface{}) interface{} {
		wantArgs("re.sub", args, 3, 3)
		re := compilePattern("re.sub", args[0])
		repl := mustStr(args[1], "re.sub")
		return re.ReplaceAllString(mustStr(args[2], "re.sub"), repl)
	},
	"split": func(args []interface{}) interface{} {
		wantArgs("re.split", args, 2, 2)
		re := compilePattern("re.split", args[0])
		parts := re.Split(mustStr(args[1], "re.split"), -1)
		out := make([]interface{}, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return out
	},
})

var jsonModule = newModule("json", map[string]interface{}{
	"loads": func(args []interface{}) interface{} {
		wantArgs("json.loads", args, 1, 1)
		v, err := ioformat.DecodeJSON(mustStr(args[0], "json.loads"))
		if err != nil {
			runtimeErrorf("json.loads: %s", err)
		}
		return v
	},
	"dumps": func(args []interface{}) interface{} {
		wantArgs("json.dumps", args, 1, 2)
		indent := 0
		if len(args) == 2 {
			indent = int(intIndex(args[1]))
		}
		return ioformat.EncodeJSON(args[0], indent)
	},
})
