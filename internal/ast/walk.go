package ast

import "fmt"

// Visitor has a Visit method which is invoked for each node encountered by
// Walk. If the returned visitor w is not nil, Walk visits each of the
// children of node with w.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// WalkExprList walks a visitor over a list of expression nodes.
func WalkExprList(v Visitor, exprs []Expr) {
	for _, expr := range exprs {
		Walk(v, expr)
	}
}

// WalkStmtList walks a visitor over a list of statement nodes.
func WalkStmtList(v Visitor, stmts []Stmt) {
	for _, stmt := range stmts {
		Walk(v, stmt)
	}
}

// WalkProgram walks a visitor over every node of a program.
func WalkProgram(v Visitor, prog *Program) {
	WalkStmtList(v, prog.Stmts)
	Walk(v, prog.Expr)
}

// Walk traverses an AST in depth-first order: it starts by calling
// v.Visit(node); if node is nil, it does nothing. If the visitor returned by
// v.Visit is not nil, Walk is invoked recursively for each non-nil child.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	// expressions
	case *IntExpr: // leaf
	case *FloatExpr: // leaf
	case *StrExpr: // leaf
	case *BoolExpr: // leaf
	case *NoneExpr: // leaf
	case *VarExpr: // leaf

	case *ListExpr:
		WalkExprList(v, n.Elems)

	case *TupleExpr:
		WalkExprList(v, n.Elems)

	case *DictExpr:
		WalkExprList(v, n.Keys)
		WalkExprList(v, n.Values)

	case *UnaryExpr:
		Walk(v, n.X)

	case *BinaryExpr:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *CondExpr:
		Walk(v, n.Cond)
		Walk(v, n.True_)
		if n.False_ != nil {
			Walk(v, n.False_)
		}

	case *CompExpr:
		Walk(v, n.Elem)
		Walk(v, n.Source)
		if n.Cond != nil {
			Walk(v, n.Cond)
		}

	case *IndexExpr:
		Walk(v, n.X)
		Walk(v, n.Index)

	case *SliceExpr:
		Walk(v, n.X)
		if n.Low != nil {
			Walk(v, n.Low)
		}
		if n.High != nil {
			Walk(v, n.High)
		}

	case *AttrExpr:
		Walk(v, n.X)

	case *CallExpr:
		Walk(v, n.Func)
		WalkExprList(v, n.Args)

	// statements
	case *ExprStmt:
		Walk(v, n.X)

	case *AssignStmt:
		Walk(v, n.Target)
		Walk(v, n.Value)

	default:
		panic(fmt.Sprintf("unexpected node type %T", n))
	}

	v.Visit(nil)
}
