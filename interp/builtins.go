package interp

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/lexer"
	"github.com/golin/golin/record"
)

// builtin is a callable provided by the interpreter.
type builtin struct {
	name string
	fn   func(args []interface{}) interface{}
}

func (b *builtin) call(args []interface{}) interface{} { return b.fn(args) }

// boundMethod is a method closure over its receiver, produced by attribute
// access.
type boundMethod func(args []interface{}) interface{}

func wantArgs(name string, args []interface{}, min, max int) {
	if len(args) < min || (max >= 0 && len(args) > max) {
		runtimeErrorf("%s: wrong number of arguments (%d)", name, len(args))
	}
}

var builtins map[string]*builtin

func init() {
	builtins = map[string]*builtin{}
	for name, fn := range map[string]func(args []interface{}) interface{}{
		"abs":       builtinAbs,
		"all":       builtinAll,
		"any":       builtinAny,
		"bool":      builtinBool,
		"bytes":     builtinBytes,
		"dict":      builtinDict,
		"enumerate": builtinEnumerate,
		"float":     builtinFloat,
		"int":       builtinInt,
		"len":       builtinLen,
		"list":      builtinList,
		"max":       builtinMax,
		"min":       builtinMin,
		"range":     builtinRange,
		"repr":      builtinRepr,
		"reversed":  builtinReversed,
		"round":     builtinRound,
		"sorted":    builtinSorted,
		"str":       builtinStr,
		"sum":       builtinSum,
		"tuple":     builtinTuple,
		"type":      builtinType,
		"zip":       builtinZip,
	} {
		builtins[name] = &builtin{name: name, fn: fn}
	}
}

func builtinLen(args []interface{}) interface{} {
	wantArgs("len", args, 1, 1)
	switch v := args[0].(type) {
	case string:
		return int64(len([]rune(v)))
	case []byte:
		return int64(len(v))
	case record.Field:
		return int64(len([]rune(v.Str())))
	case obj.Tuple:
		return int64(len(v))
	case []interface{}:
		return int64(len(v))
	case *obj.Dict:
		return int64(v.Len())
	case *record.Record:
		return int64(v.Len())
	case *record.Sequence:
		return int64(v.Len())
	case *seq.Sequence[interface{}]:
		return int64(v.Len())
	}
	runtimeErrorf("object of type '%s' has no len()", obj.TypeName(args[0]))
	return nil
}

func builtinStr(args []interface{}) interface{} {
	wantArgs("str", args, 1, 1)
	return obj.Str(args[0])
}

func builtinRepr(args []interface{}) interface{} {
	wantArgs("repr", args, 1, 1)
	return obj.Repr(args[0])
}

func builtinInt(args []interface{}) interface{} {
	wantArgs("int", args, 1, 1)
	switch v := args[0].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	}
	if s, ok := str(args[0]); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			runtimeErrorf("invalid literal for int(): %q", s)
		}
		return n
	}
	runtimeErrorf("int() argument must be a string or a number, not '%s'", obj.TypeName(args[0]))
	return nil
}

func builtinFloat(args []interface{}) interface{} {
	wantArgs("float", args, 1, 1)
	switch v := args[0].(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	case bool:
		if v {
			return float64(1)
		}
		return float64(0)
	}
	if s, ok := str(args[0]); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			runtimeErrorf("could not convert string to float: %q", s)
		}
		return f
	}
	runtimeErrorf("float() argument must be a string or a number, not '%s'", obj.TypeName(args[0]))
	return nil
}

func builtinBool(args []interface{}) interface{} {
	wantArgs("bool", args, 0, 1)
	if len(args) == 0 {
		return false
	}
	// Fields convert through their text: "true", "yes", "0", "off"...
	if f, ok := args[0].(record.Field); ok {
		b, err := f.Bool()
		if err != nil {
			runtimeErrorf("%s", err)
		}
		return b
	}
	return truth(args[0])
}

func builtinBytes(args []interface{}) interface{} {
	wantArgs("bytes", args, 1, 1)
	switch v := args[0].(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	case record.Field:
		return v.Bytes()
	}
	runtimeErrorf("cannot convert '%s' to bytes", obj.TypeName(args[0]))
	return nil
}

func builtinAbs(args []interface{}) interface{} {
	wantArgs("abs", args, 1, 1)
	switch n := mustNum(args[0], "abs()").(type) {
	case int64:
		if n < 0 {
			return -n
		}
		return n
	case float64:
		return math.Abs(n)
	}
	return nil
}

func builtinRound(args []interface{}) interface{} {
	wantArgs("round", args, 1, 2)
	f := asFloat(mustNum(args[0], "round()"))
	if len(args) == 2 {
		digits := intIndex(args[1])
		scale := math.Pow(10, float64(digits))
		return math.RoundToEven(f*scale) / scale
	}
	return int64(math.RoundToEven(f))
}

func builtinList(args []interface{}) interface{} {
	wantArgs("list", args, 0, 1)
	if len(args) == 0 {
		return []interface{}{}
	}
	return materializeList(args[0])
}

func builtinTuple(args []interface{}) interface{} {
	wantArgs("tuple", args, 0, 1)
	if len(args) == 0 {
		return obj.Tuple{}
	}
	return obj.Tuple(materializeList(args[0]))
}

func builtinDict(args []interface{}) interface{} {
	wantArgs("dict", args, 0, 1)
	d := obj.NewDict()
	if len(args) == 0 {
		return d
	}
	if src, ok := args[0].(*obj.Dict); ok {
		for _, k := range src.Keys() {
			v, _ := src.Get(k)
			d.Set(k, v)
		}
		return d
	}
	it := iterValue(args[0])
	for {
		v, ok := it()
		if !ok {
			return d
		}
		pair, ok := listItems(v)
		if !ok || len(pair) != 2 {
			runtimeErrorf("dict() requires an iterable of key/value pairs")
		}
		d.Set(obj.Str(pair[0]), pair[1])
	}
}

func materializeList(v interface{}) []interface{} {
	it := iterValue(v)
	items := []interface{}{}
	for {
		elem, ok := it()
		if !ok {
			return items
		}
		items = append(items, elem)
	}
}

func builtinSum(args []interface{}) interface{} {
	wantArgs("sum", args, 1, 2)
	var total interface{} = int64(0)
	if len(args) == 2 {
		total = mustNum(args[1], "sum()")
	}
	it := iterValue(args[0])
	for {
		v, ok := it()
		if !ok {
			return total
		}
		total = arith(lexer.ADD, total, mustNum(v, "sum()"))
	}
}

func builtinMin(args []interface{}) interface{} { return minMax("min", args, lessThan) }

func builtinMax(args []interface{}) interface{} {
	return minMax("max", args, func(a, b interface{}) bool { return lessThan(b, a) })
}

func minMax(name string, args []interface{}, better func(a, b interface{}) bool) interface{} {
	wantArgs(name, args, 1, -1)
	var items []interface{}
	if len(args) == 1 {
		items = materializeList(args[0])
	} else {
		items = args
	}
	if len(items) == 0 {
		runtimeErrorf("%s() arg is an empty sequence", name)
	}
	best := items[0]
	for _, v := range items[1:] {
		if better(v, best) {
			best = v
		}
	}
	return best
}

func builtinSorted(args []interface{}) interface{} {
	wantArgs("sorted", args, 1, 1)
	items := materializeList(args[0])
	sort.SliceStable(items, func(i, j int) bool { return lessThan(items[i], items[j]) })
	return items
}

func builtinReversed(args []interface{}) interface{} {
	wantArgs("reversed", args, 1, 1)
	items := materializeList(args[0])
	out := make([]interface{}, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return out
}

func builtinAll(args []interface{}) interface{} {
	wantArgs("all", args, 1, 1)
	it := iterValue(args[0])
	for {
		v, ok := it()
		if !ok {
			return true
		}
		if !truth(v) {
			return false
		}
	}
}

func builtinAny(args []interface{}) interface{} {
	wantArgs("any", args, 1, 1)
	it := iterValue(args[0])
	for {
		v, ok := it()
		if !ok {
			return false
		}
		if truth(v) {
			return true
		}
	}
}

func builtinRange(args []interface{}) interface{} {
	wantArgs("range", args, 1, 3)
	start, stop, step := int64(0), int64(0), int64(1)
	switch len(args) {
	case 1:
		stop = intIndex(args[0])
	case 2:
		start, stop = intIndex(args[0]), intIndex(args[1])
	case 3:
		start, stop, step = intIndex(args[0]), intIndex(args[1]), intIndex(args[2])
		if step == 0 {
			runtimeErrorf("range() arg 3 must not be zero")
		}
	}
	cur := start
	return seq.New(func() (interface{}, bool) {
		if (step > 0 && cur >= stop) || (step < 0 && cur <= stop) {
			return nil, false
		}
		v := cur
		cur += step
		return v, true
	})
}

func builtinEnumerate(args []interface{}) interface{} {
	wantArgs("enumerate", args, 1, 2)
	i := int64(0)
	if len(args) == 2 {
		i = intIndex(args[1])
	}
	it := iterValue(args[0])
	return seq.New(func() (interface{}, bool) {
		v, ok := it()
		if !ok {
			return nil, false
		}
		pair := obj.Tuple{i, v}
		i++
		return pair, true
	})
}

func builtinZip(args []interface{}) interface{} {
	wantArgs("zip", args, 1, -1)
	iters := make([]seq.Pull[interface{}], len(args))
	for i, a := range args {
		iters[i] = iterValue(a)
	}
	return seq.New(func() (interface{}, bool) {
		row := make(obj.Tuple, len(iters))
		for i, it := range iters {
			v, ok := it()
			if !ok {
				return nil, false
			}
			row[i] = v
		}
		return row, true
	})
}

func builtinType(args []interface{}) interface{} {
	wantArgs("type", args, 1, 1)
	return obj.TypeName(args[0])
}
