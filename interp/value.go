package interp

import (
	"math"
	"strings"

	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/lexer"
	"github.com/golin/golin/record"
)

// truth reports the truthiness of a value: empty strings, zero numbers, and
// empty containers are false.
func truth(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return false
	case obj.UndefinedType:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	case []byte:
		return len(v) > 0
	case record.Field:
		return v.Str() != ""
	case obj.Tuple:
		return len(v) > 0
	case []interface{}:
		return len(v) > 0
	case *obj.Dict:
		return v.Len() > 0
	case *seq.Sequence[interface{}]:
		return v.Len() > 0
	case *record.Sequence:
		return v.Len() > 0
	case *record.Record:
		return v.Len() > 0
	}
	return true
}

// num converts a numeric operand, coercing fields through their text.
// Returns int64 or float64; ok is false if the value is not numeric.
func num(v interface{}) (interface{}, bool) {
	switch v := v.(type) {
	case int64, float64:
		return v, true
	case bool:
		if v {
			return int64(1), true
		}
		return int64(0), true
	case record.Field:
		n, err := v.Num()
		if err != nil {
			runtimeErrorf("%s", err)
		}
		return n, true
	}
	return nil, false
}

// mustNum is num for contexts where the operand has to be numeric.
func mustNum(v interface{}, op string) interface{} {
	n, ok := num(v)
	if !ok {
		runtimeErrorf("unsupported operand type for %s: '%s'", op, obj.TypeName(v))
	}
	return n
}

func isNumber(v interface{}) bool {
	switch v := v.(type) {
	case int64, float64, bool:
		return true
	case record.Field:
		return v.IsNumber()
	}
	return false
}

func asFloat(v interface{}) float64 {
	switch v := v.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

func bothInt(l, r interface{}) (int64, int64, bool) {
	li, lok := l.(int64)
	ri, rok := r.(int64)
	return li, ri, lok && rok
}

// str converts string-like operands; ok is false otherwise.
func str(v interface{}) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case record.Field:
		return v.Str(), true
	}
	return "", false
}

// binaryOp evaluates a binary arithmetic or bitwise operation. Fields
// follow their coercion rules: `+` falls back to string concatenation,
// `*` prefers numbers but falls back to string repetition, and the rest
// require numeric operands.
func binaryOp(op lexer.Token, l, r interface{}) interface{} {
	switch op {
	case lexer.ADD:
		if ln, rn, ok := addCoerce(l, r); ok {
			return arith(op, ln, rn)
		}
		if ls, ok := str(l); ok {
			if rs, ok := str(r); ok {
				return ls + rs
			}
		}
		if ll, lok := listItems(l); lok {
			if rl, rok := listItems(r); rok {
				out := make([]interface{}, 0, len(ll)+len(rl))
				out = append(out, ll...)
				out = append(out, rl...)
				if _, isTuple := l.(obj.Tuple); isTuple {
					return obj.Tuple(out)
				}
				return out
			}
		}
		runtimeErrorf("unsupported operand types for +: '%s' and '%s'", obj.TypeName(l), obj.TypeName(r))

	case lexer.MUL:
		// Numbers take precedence for `*`, but "ab" * 3 still repeats.
		ln, lok := num(l)
		rn, rok := num(r)
		if lok && rok {
			return arith(op, ln, rn)
		}
		if s, ok := str(l); ok {
			if n, isInt := rn.(int64); rok && isInt {
				return strings.Repeat(s, repeatCount(n))
			}
		}
		if s, ok := str(r); ok {
			if n, isInt := ln.(int64); lok && isInt {
				return strings.Repeat(s, repeatCount(n))
			}
		}
		runtimeErrorf("unsupported operand types for *: '%s' and '%s'", obj.TypeName(l), obj.TypeName(r))

	default:
		return arith(op, mustNum(l, op.String()), mustNum(r, op.String()))
	}
	return nil
}

// addCoerce implements the field rule for `+` and comparisons: two numeric
// fields compare as numbers, a field against a number coerces, anything else
// stays textual.
func addCoerce(l, r interface{}) (interface{}, interface{}, bool) {
	lf, lIsField := l.(record.Field)
	rf, rIsField := r.(record.Field)
	switch {
	case lIsField && rIsField:
		if lf.IsNumber() && rf.IsNumber() {
			ln, _ := num(l)
			rn, _ := num(r)
			return ln, rn, true
		}
		return nil, nil, false
	case lIsField:
		if _, ok := r.(int64); ok {
			ln, _ := num(l)
			return ln, r, true
		}
		if _, ok := r.(float64); ok {
			ln, _ := num(l)
			return ln, r, true
		}
		return nil, nil, false
	case rIsField:
		if _, ok := l.(int64); ok {
			rn, _ := num(r)
			return l, rn, true
		}
		if _, ok := l.(float64); ok {
			rn, _ := num(r)
			return l, rn, true
		}
		return nil, nil, false
	}
	ln, lok := num(l)
	rn, rok := num(r)
	if lok && rok {
		return ln, rn, true
	}
	return nil, nil, false
}

func repeatCount(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}

// arith evaluates an operation on two numeric operands (int64 or float64).
func arith(op lexer.Token, l, r interface{}) interface{} {
	switch op {
	case lexer.ADD:
		if li, ri, ok := bothInt(l, r); ok {
			return li + ri
		}
		return asFloat(l) + asFloat(r)
	case lexer.SUB:
		if li, ri, ok := bothInt(l, r); ok {
			return li - ri
		}
		return asFloat(l) - asFloat(r)
	case lexer.MUL:
		if li, ri, ok := bothInt(l, r); ok {
			return li * ri
		}
		return asFloat(l) * asFloat(r)
	case lexer.DIV:
		rf := asFloat(r)
		if rf == 0 {
			runtimeErrorf("division by zero")
		}
		return asFloat(l) / rf
	case lexer.FLOORDIV:
		if li, ri, ok := bothInt(l, r); ok {
			if ri == 0 {
				runtimeErrorf("division by zero")
			}
			return floorDivInt(li, ri)
		}
		rf := asFloat(r)
		if rf == 0 {
			runtimeErrorf("division by zero")
		}
		return math.Floor(asFloat(l) / rf)
	case lexer.MOD:
		if li, ri, ok := bothInt(l, r); ok {
			if ri == 0 {
				runtimeErrorf("division by zero")
			}
			return li - floorDivInt(li, ri)*ri
		}
		rf := asFloat(r)
		if rf == 0 {
			runtimeErrorf("division by zero")
		}
		lf := asFloat(l)
		return lf - math.Floor(lf/rf)*rf
	case lexer.POW:
		if li, ri, ok := bothInt(l, r); ok && ri >= 0 {
			return powInt(li, ri)
		}
		return math.Pow(asFloat(l), asFloat(r))
	case lexer.LSHIFT:
		li, ri, ok := bothInt(l, r)
		if !ok {
			runtimeErrorf("unsupported operand types for <<")
		}
		return li << uint(ri)
	case lexer.RSHIFT:
		li, ri, ok := bothInt(l, r)
		if !ok {
			runtimeErrorf("unsupported operand types for >>")
		}
		return li >> uint(ri)
	case lexer.AMP:
		li, ri, ok := bothInt(l, r)
		if !ok {
			runtimeErrorf("unsupported operand types for &")
		}
		return li & ri
	case lexer.CARET:
		li, ri, ok := bothInt(l, r)
		if !ok {
			runtimeErrorf("unsupported operand types for ^")
		}
		return li ^ ri
	case lexer.PIPE:
		li, ri, ok := bothInt(l, r)
		if !ok {
			runtimeErrorf("unsupported operand types for |")
		}
		return li | ri
	}
	panic("unreachable arith op " + op.String())
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func powInt(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// equal is value equality with numeric cross-type comparison and field
// coercion.
func equal(l, r interface{}) bool {
	if ln, rn, ok := addCoerce(l, r); ok {
		if li, ri, isInt := bothInt(ln, rn); isInt {
			return li == ri
		}
		return asFloat(ln) == asFloat(rn)
	}
	if ls, ok := str(l); ok {
		if rs, ok := str(r); ok {
			return ls == rs
		}
		return false
	}
	if ll, ok := listItems(l); ok {
		rl, rok := listItems(r)
		if !rok || len(ll) != len(rl) {
			return false
		}
		for i := range ll {
			if !equal(ll[i], rl[i]) {
				return false
			}
		}
		return true
	}
	if ld, ok := l.(*obj.Dict); ok {
		rd, rok := r.(*obj.Dict)
		if !rok || ld.Len() != rd.Len() {
			return false
		}
		for _, k := range ld.Keys() {
			lv, _ := ld.Get(k)
			rv, exists := rd.Get(k)
			if !exists || !equal(lv, rv) {
				return false
			}
		}
		return true
	}
	switch l := l.(type) {
	case nil:
		return r == nil
	case obj.UndefinedType:
		return obj.IsUndefined(r)
	case bool:
		rb, ok := r.(bool)
		return ok && l == rb
	}
	return false
}

// lessThan is strict ordering for numbers, strings, and element-wise for
// tuples and lists.
func lessThan(l, r interface{}) bool {
	if ln, rn, ok := addCoerce(l, r); ok {
		if li, ri, isInt := bothInt(ln, rn); isInt {
			return li < ri
		}
		return asFloat(ln) < asFloat(rn)
	}
	if ls, ok := str(l); ok {
		if rs, ok := str(r); ok {
			return ls < rs
		}
	}
	if ll, lok := listItems(l); lok {
		if rl, rok := listItems(r); rok {
			for i := 0; i < len(ll) && i < len(rl); i++ {
				if lessThan(ll[i], rl[i]) {
					return true
				}
				if lessThan(rl[i], ll[i]) {
					return false
				}
			}
			return len(ll) < len(rl)
		}
	}
	runtimeErrorf("'<' not supported between instances of '%s' and '%s'", obj.TypeName(l), obj.TypeName(r))
	return false
}

// listItems returns the elements of tuple-like and list-like values.
// Records count: they behave as tuples of their fields.
func listItems(v interface{}) ([]interface{}, bool) {
	switch v := v.(type) {
	case obj.Tuple:
		return v, true
	case []interface{}:
		return v, true
	case *record.Record:
		items := make([]interface{}, v.Len())
		for i, f := range v.Fields() {
			items[i] = f
		}
		return items, true
	}
	return nil, false
}

// iterValue returns a pull iterator over any iterable value; strings yield
// their characters.
func iterValue(v interface{}) seq.Pull[interface{}] {
	switch v := v.(type) {
	case *seq.Sequence[interface{}]:
		return v.Iter()
	case *record.Sequence:
		records := v.Iter()
		return func() (interface{}, bool) {
			r, ok := records()
			if !ok {
				return nil, false
			}
			return r, true
		}
	case *obj.Dict:
		keys := v.Keys()
		i := 0
		return func() (interface{}, bool) {
			if i >= len(keys) {
				return nil, false
			}
			k := keys[i]
			i++
			return k, true
		}
	}
	if items, ok := listItems(v); ok {
		return seq.FromSlice(items).Iter()
	}
	if s, ok := str(v); ok {
		runes := []rune(s)
		i := 0
		return func() (interface{}, bool) {
			if i >= len(runes) {
				return nil, false
			}
			c := string(runes[i])
			i++
			return c, true
		}
	}
	runtimeErrorf("'%s' object is not iterable", obj.TypeName(v))
	return nil
}

// contains implements the `in` operator.
func contains(item, container interface{}) bool {
	switch c := container.(type) {
	case string:
		s, ok := str(item)
		if !ok {
			runtimeErrorf("'in <string>' requires string as left operand, not '%s'", obj.TypeName(item))
		}
		return strings.Contains(c, s)
	case record.Field:
		return contains(item, c.Str())
	case *obj.Dict:
		s, ok := str(item)
		if !ok {
			return false
		}
		_, exists := c.Get(s)
		return exists
	}
	it := iterValue(container)
	for {
		v, ok := it()
		if !ok {
			return false
		}
		if equal(item, v) {
			return true
		}
	}
}
