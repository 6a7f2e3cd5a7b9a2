package interp

import (
	"github.com/golin/golin/internal/ast"
	"github.com/golin/golin/internal/obj"
	"github.com/golin/golin/internal/seq"
	"github.com/golin/golin/lexer"
	"github.com/golin/golin/record"
)

func (ip *Interp) execStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		ip.eval(s.X)
	case *ast.AssignStmt:
		ip.assign(s.Target, ip.eval(s.Value))
	default:
		runtimeErrorf("unknown statement %s", stmt)
	}
}

func (ip *Interp) assign(target ast.Expr, value interface{}) {
	switch t := target.(type) {
	case *ast.VarExpr:
		switch t.Name {
		case "header":
			ip.conf.header = headerNames(value)
		case "printer":
			ip.conf.setPrinter(value)
		default:
			ip.env.globals[t.Name] = value
		}
	case *ast.AttrExpr:
		ip.setAttr(ip.eval(t.X), t.Name, value)
	case *ast.IndexExpr:
		ip.setIndex(ip.eval(t.X), ip.eval(t.Index), value)
	default:
		runtimeErrorf("cannot assign to %s", target)
	}
}

func headerNames(value interface{}) []string {
	items, ok := listItems(value)
	if !ok {
		runtimeErrorf("header must be a tuple or list of names")
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = obj.Str(item)
	}
	return names
}

func (ip *Interp) eval(expr ast.Expr) interface{} {
	switch e := expr.(type) {
	case *ast.IntExpr:
		return e.Value
	case *ast.FloatExpr:
		return e.Value
	case *ast.StrExpr:
		return e.Value
	case *ast.BoolExpr:
		return e.Value
	case *ast.NoneExpr:
		return nil

	case *ast.VarExpr:
		if e.Name == "printer" {
			return ip.conf.printer
		}
		if v, ok := ip.env.lookup(e.Name); ok {
			return v
		}
		if b, ok := builtins[e.Name]; ok {
			return b
		}
		runtimeErrorf("name %q is not defined", e.Name)

	case *ast.ListExpr:
		items := make([]interface{}, len(e.Elems))
		for i, elem := range e.Elems {
			items[i] = ip.eval(elem)
		}
		return items

	case *ast.TupleExpr:
		items := make([]interface{}, len(e.Elems))
		for i, elem := range e.Elems {
			items[i] = ip.eval(elem)
		}
		return obj.Tuple(items)

	case *ast.DictExpr:
		d := obj.NewDict()
		for i := range e.Keys {
			key := obj.Str(ip.eval(e.Keys[i]))
			d.Set(key, ip.eval(e.Values[i]))
		}
		return d

	case *ast.UnaryExpr:
		return ip.evalUnary(e)

	case *ast.BinaryExpr:
		return ip.evalBinary(e)

	case *ast.CondExpr:
		if truth(ip.eval(e.Cond)) {
			return ip.eval(e.True_)
		}
		if e.False_ == nil {
			return obj.Undefined
		}
		return ip.eval(e.False_)

	case *ast.CompExpr:
		return ip.evalComp(e)

	case *ast.IndexExpr:
		return ip.index(ip.eval(e.X), ip.eval(e.Index))

	case *ast.SliceExpr:
		return ip.slice(ip.eval(e.X), e.Low, e.High)

	case *ast.AttrExpr:
		return ip.getAttr(ip.eval(e.X), e.Name)

	case *ast.CallExpr:
		return ip.call(e)
	}
	runtimeErrorf("unknown expression %s", expr)
	return nil
}

func (ip *Interp) evalUnary(e *ast.UnaryExpr) interface{} {
	switch e.Op {
	case lexer.NOT:
		return !truth(ip.eval(e.X))
	case lexer.SUB:
		switch n := mustNum(ip.eval(e.X), "-").(type) {
		case int64:
			return -n
		case float64:
			return -n
		}
	case lexer.ADD:
		return mustNum(ip.eval(e.X), "+")
	}
	runtimeErrorf("unknown unary operator %s", e.Op)
	return nil
}

func (ip *Interp) evalBinary(e *ast.BinaryExpr) interface{} {
	switch e.Op {
	case lexer.AND:
		left := ip.eval(e.Left)
		if !truth(left) {
			return left
		}
		return ip.eval(e.Right)
	case lexer.OR:
		left := ip.eval(e.Left)
		if truth(left) {
			return left
		}
		return ip.eval(e.Right)
	}

	left := ip.eval(e.Left)
	right := ip.eval(e.Right)
	switch e.Op {
	case lexer.EQUALS:
		return equal(left, right)
	case lexer.NOT_EQUALS:
		return !equal(left, right)
	case lexer.LESS:
		return lessThan(left, right)
	case lexer.GREATER:
		return lessThan(right, left)
	case lexer.LTE:
		return !lessThan(right, left)
	case lexer.GTE:
		return !lessThan(left, right)
	case lexer.IN:
		return contains(left, right)
	}
	return binaryOp(e.Op, left, right)
}

// evalComp evaluates a comprehension. The bracketed form produces a list
// eagerly; the generator form produces a lazy sequence so record streams
// are not drained up front.
func (ip *Interp) evalComp(e *ast.CompExpr) interface{} {
	source := ip.eval(e.Source)
	it := iterValue(source)

	next := func() (interface{}, bool) {
		for {
			v, ok := it()
			if !ok {
				return nil, false
			}
			frame := bindCompVars(e.Vars, v)
			ip.env.pushLocals(frame)
			if e.Cond != nil && !truth(ip.eval(e.Cond)) {
				ip.env.popLocals()
				continue
			}
			out := ip.eval(e.Elem)
			ip.env.popLocals()
			return out, true
		}
	}

	if e.List {
		var items []interface{}
		for {
			v, ok := next()
			if !ok {
				return items
			}
			items = append(items, v)
		}
	}
	return seq.New(next)
}

func bindCompVars(names []string, v interface{}) map[string]interface{} {
	frame := make(map[string]interface{}, len(names))
	if len(names) == 1 {
		frame[names[0]] = v
		return frame
	}
	items, ok := listItems(v)
	if !ok {
		runtimeErrorf("cannot unpack non-sequence %s", obj.TypeName(v))
	}
	if len(items) != len(names) {
		runtimeErrorf("expected %d values to unpack, got %d", len(names), len(items))
	}
	for i, name := range names {
		frame[name] = items[i]
	}
	return frame
}

func (ip *Interp) index(x, idx interface{}) interface{} {
	switch x := x.(type) {
	case *obj.Dict:
		key := obj.Str(idx)
		v, ok := x.Get(key)
		if !ok {
			runtimeErrorf("key %q not found", key)
		}
		return v
	case *record.Record:
		if name, ok := idx.(string); ok {
			f, found := x.ByName(name)
			if !found {
				runtimeErrorf("record has no column %q", name)
			}
			return f
		}
		i := intIndex(idx)
		f, ok := x.Field(int(i))
		if !ok {
			runtimeErrorf("field index out of range: %d", i)
		}
		return f
	case *record.Sequence:
		r, err := x.Index(int(intIndex(idx)))
		if err != nil {
			runtimeErrorf("%s", err)
		}
		return r
	case *seq.Sequence[interface{}]:
		v, err := x.Index(int(intIndex(idx)))
		if err != nil {
			runtimeErrorf("%s", err)
		}
		return v
	}
	if items, ok := listItems(x); ok {
		i := normIndex(intIndex(idx), len(items))
		return items[i]
	}
	if s, ok := str(x); ok {
		runes := []rune(s)
		i := normIndex(intIndex(idx), len(runes))
		return string(runes[i])
	}
	runtimeErrorf("'%s' object is not subscriptable", obj.TypeName(x))
	return nil
}

func intIndex(idx interface{}) int64 {
	switch idx := idx.(type) {
	case int64:
		return idx
	case record.Field:
		n, err := idx.Int()
		if err != nil {
			runtimeErrorf("indices must be integers")
		}
		return n
	}
	runtimeErrorf("indices must be integers, not %s", obj.TypeName(idx))
	return 0
}

func normIndex(i int64, n int) int {
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		runtimeErrorf("index out of range: %d", i)
	}
	return int(i)
}

func (ip *Interp) slice(x interface{}, lowExpr, highExpr ast.Expr) interface{} {
	var low, high *int
	if lowExpr != nil {
		n := int(intIndex(ip.eval(lowExpr)))
		low = &n
	}
	if highExpr != nil {
		n := int(intIndex(ip.eval(highExpr)))
		high = &n
	}

	switch x := x.(type) {
	case *record.Sequence:
		return x.Slice(low, high)
	case *seq.Sequence[interface{}]:
		return x.Slice(low, high)
	case *record.Record:
		items, _ := listItems(x)
		from, to := sliceBounds(low, high, len(items))
		return obj.Tuple(items[from:to])
	case obj.Tuple:
		from, to := sliceBounds(low, high, len(x))
		return x[from:to]
	case []interface{}:
		from, to := sliceBounds(low, high, len(x))
		return x[from:to]
	}
	if s, ok := str(x); ok {
		runes := []rune(s)
		from, to := sliceBounds(low, high, len(runes))
		return string(runes[from:to])
	}
	runtimeErrorf("'%s' object is not subscriptable", obj.TypeName(x))
	return nil
}

func sliceBounds(low, high *int, n int) (int, int) {
	from, to := 0, n
	if low != nil {
		from = clampIndex(*low, n)
	}
	if high != nil {
		to = clampIndex(*high, n)
	}
	if from > to {
		return 0, 0
	}
	return from, to
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func (ip *Interp) setIndex(x, idx, value interface{}) {
	switch x := x.(type) {
	case *obj.Dict:
		x.Set(obj.Str(idx), value)
		return
	case []interface{}:
		i := normIndex(intIndex(idx), len(x))
		x[i] = value
		return
	}
	runtimeErrorf("'%s' object does not support item assignment", obj.TypeName(x))
}

func (ip *Interp) call(e *ast.CallExpr) interface{} {
	fn := ip.eval(e.Func)
	args := make([]interface{}, len(e.Args))
	for i, a := range e.Args {
		args[i] = ip.eval(a)
	}
	switch fn := fn.(type) {
	case *builtin:
		return fn.call(args)
	case boundMethod:
		return fn(args)
	}
	runtimeErrorf("'%s' object is not callable", obj.TypeName(fn))
	return nil
}
