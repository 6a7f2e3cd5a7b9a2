// Package ast contains the abstract syntax tree node types for golin
// programs.
package ast

import (
	"fmt"
	"strings"

	"github.com/golin/golin/lexer"
)

// Node is an AST node: either an expression or a statement.
type Node interface {
	node()
	String() string
}

// Expr is an expression node that produces a value when evaluated.
type Expr interface {
	Node
	expr()
}

// Stmt is a statement node executed for its side effect.
type Stmt interface {
	Node
	stmt()
}

// Program is a parsed golin program: a possibly empty prefix of statements
// executed for side effects, followed by a single trailing expression whose
// value is the program's result.
type Program struct {
	Stmts []Stmt
	Expr  Expr
}

func (p *Program) String() string {
	parts := make([]string, 0, len(p.Stmts)+1)
	for _, s := range p.Stmts {
		parts = append(parts, s.String())
	}
	parts = append(parts, p.Expr.String())
	return strings.Join(parts, "; ")
}

// IntExpr is an integer literal.
type IntExpr struct {
	Value int64
}

func (e *IntExpr) String() string { return fmt.Sprintf("%d", e.Value) }

// FloatExpr is a floating point literal.
type FloatExpr struct {
	Value float64
}

func (e *FloatExpr) String() string { return fmt.Sprintf("%v", e.Value) }

// StrExpr is a string literal.
type StrExpr struct {
	Value string
}

func (e *StrExpr) String() string { return fmt.Sprintf("%q", e.Value) }

// BoolExpr is a True or False literal.
type BoolExpr struct {
	Value bool
}

func (e *BoolExpr) String() string {
	if e.Value {
		return "True"
	}
	return "False"
}

// NoneExpr is the None literal.
type NoneExpr struct{}

func (e *NoneExpr) String() string { return "None" }

// VarExpr is a name reference.
type VarExpr struct {
	Name string
}

func (e *VarExpr) String() string { return e.Name }

// ListExpr is a list literal.
type ListExpr struct {
	Elems []Expr
}

func (e *ListExpr) String() string { return "[" + exprList(e.Elems) + "]" }

// TupleExpr is a tuple literal (parenthesized or bare comma group).
type TupleExpr struct {
	Elems []Expr
}

func (e *TupleExpr) String() string { return "(" + exprList(e.Elems) + ")" }

// DictExpr is a dict literal; Keys and Values are parallel.
type DictExpr struct {
	Keys   []Expr
	Values []Expr
}

func (e *DictExpr) String() string {
	parts := make([]string, len(e.Keys))
	for i := range e.Keys {
		parts[i] = e.Keys[i].String() + ": " + e.Values[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// UnaryExpr is a unary operation: -x, +x, not x.
type UnaryExpr struct {
	Op lexer.Token
	X  Expr
}

func (e *UnaryExpr) String() string {
	if e.Op == lexer.NOT {
		return "(not " + e.X.String() + ")"
	}
	return "(" + e.Op.String() + e.X.String() + ")"
}

// BinaryExpr is a binary operation, including comparisons, `and`/`or`
// (evaluated with short circuit), and membership tests. Negated membership
// (`not in`) is represented as NOT wrapping IN.
type BinaryExpr struct {
	Left  Expr
	Op    lexer.Token
	Right Expr
}

func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// CondExpr is a conditional expression `True_ if Cond else False_`. False_ is
// nil for the trailing form without an else clause, in which case the
// expression yields the no-value sentinel when Cond is false.
type CondExpr struct {
	Cond   Expr
	True_  Expr
	False_ Expr
}

func (e *CondExpr) String() string {
	s := "(" + e.True_.String() + " if " + e.Cond.String()
	if e.False_ != nil {
		s += " else " + e.False_.String()
	}
	return s + ")"
}

// CompExpr is a comprehension `Elem for Vars in Source if Cond`. Cond may be
// nil. More than one name in Vars unpacks each element. A comprehension
// evaluates lazily to a sequence.
type CompExpr struct {
	Elem   Expr
	Vars   []string
	Source Expr
	Cond   Expr

	// List marks the bracketed form, which evaluates eagerly to a list.
	// The bare generator form evaluates lazily to a sequence.
	List bool
}

func (e *CompExpr) String() string {
	s := "[" + e.Elem.String() + " for " + strings.Join(e.Vars, ", ") + " in " + e.Source.String()
	if e.Cond != nil {
		s += " if " + e.Cond.String()
	}
	return s + "]"
}

// IndexExpr is a subscript x[i].
type IndexExpr struct {
	X     Expr
	Index Expr
}

func (e *IndexExpr) String() string { return e.X.String() + "[" + e.Index.String() + "]" }

// SliceExpr is a slice x[low:high]; either bound may be nil.
type SliceExpr struct {
	X    Expr
	Low  Expr
	High Expr
}

func (e *SliceExpr) String() string {
	s := e.X.String() + "["
	if e.Low != nil {
		s += e.Low.String()
	}
	s += ":"
	if e.High != nil {
		s += e.High.String()
	}
	return s + "]"
}

// AttrExpr is an attribute access x.Name.
type AttrExpr struct {
	X    Expr
	Name string
}

func (e *AttrExpr) String() string { return e.X.String() + "." + e.Name }

// CallExpr is a function or method call.
type CallExpr struct {
	Func Expr
	Args []Expr
}

func (e *CallExpr) String() string { return e.Func.String() + "(" + exprList(e.Args) + ")" }

// ExprStmt is an expression evaluated as a statement.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) String() string { return s.X.String() }

// AssignStmt assigns Value to Target, which is a VarExpr, AttrExpr, or
// IndexExpr.
type AssignStmt struct {
	Target Expr
	Value  Expr
}

func (s *AssignStmt) String() string { return s.Target.String() + " = " + s.Value.String() }

func exprList(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func (*IntExpr) node()    {}
func (*FloatExpr) node()  {}
func (*StrExpr) node()    {}
func (*BoolExpr) node()   {}
func (*NoneExpr) node()   {}
func (*VarExpr) node()    {}
func (*ListExpr) node()   {}
func (*TupleExpr) node()  {}
func (*DictExpr) node()   {}
func (*UnaryExpr) node()  {}
func (*BinaryExpr) node() {}
func (*CondExpr) node()   {}
func (*CompExpr) node()   {}
func (*IndexExpr) node()  {}
func (*SliceExpr) node()  {}
func (*AttrExpr) node()   {}
func (*CallExpr) node()   {}
func (*ExprStmt) node()   {}
func (*AssignStmt) node() {}

func (*IntExpr) expr()    {}
func (*FloatExpr) expr()  {}
func (*StrExpr) expr()    {}
func (*BoolExpr) expr()   {}
func (*NoneExpr) expr()   {}
func (*VarExpr) expr()    {}
func (*ListExpr) expr()   {}
func (*TupleExpr) expr()  {}
func (*DictExpr) expr()   {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*CondExpr) expr()   {}
func (*CompExpr) expr()   {}
func (*IndexExpr) expr()  {}
func (*SliceExpr) expr()  {}
func (*AttrExpr) expr()   {}
func (*CallExpr) expr()   {}

func (*ExprStmt) stmt()   {}
func (*AssignStmt) stmt() {}
