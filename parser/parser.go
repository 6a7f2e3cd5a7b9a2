// Golin program parser.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golin/golin/internal/ast"
	. "github.com/golin/golin/lexer"
)

// ParseError is an error during parsing, with the position of the failure.
type ParseError struct {
	Position Position
	Message  string
	Source   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

// Pretty formats the error as the offending source line with a caret
// pointing at the failure column.
func (e *ParseError) Pretty() string {
	lines := strings.Split(e.Source, "\n")
	line := ""
	if e.Position.Line-1 < len(lines) {
		line = lines[e.Position.Line-1]
	}
	col := e.Position.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	return fmt.Sprintf("invalid syntax:\n  %s\n  %s^", line, strings.Repeat(" ", col))
}

type parser struct {
	lexer *Lexer
	src   string
	pos   Position
	tok   Token
	val   string
}

func (p *parser) next() {
	p.pos, p.tok, p.val = p.lexer.Scan()
	if p.tok == ILLEGAL {
		p.error("%s", p.val)
	}
}

func (p *parser) error(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	panic(&ParseError{Position: p.pos, Message: message, Source: p.src})
}

func (p *parser) expect(tok Token) {
	if p.tok != tok {
		p.error("expected %s instead of %s", tok, p.tok)
	}
	p.next()
}

func (p *parser) matches(operators ...Token) bool {
	for _, operator := range operators {
		if p.tok == operator {
			return true
		}
	}
	return false
}

// ParseProgram parses a golin program: semicolon-separated statements
// followed by a single trailing expression. The last item must be an
// expression; its value becomes the program's result.
func ParseProgram(src []byte) (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			// Convert to ParseError or re-panic
			err = r.(*ParseError)
		}
	}()
	p := parser{lexer: NewLexer(src), src: string(src)}
	p.next()

	var items []ast.Stmt
	for p.tok == SEMICOLON {
		p.next()
	}
	if p.tok == EOF {
		p.error("empty program")
	}
	for {
		items = append(items, p.statement())
		if p.tok != SEMICOLON && p.tok != EOF {
			p.error("unexpected %s", p.tok)
		}
		for p.tok == SEMICOLON {
			p.next()
		}
		if p.tok == EOF {
			break
		}
	}

	last := items[len(items)-1]
	exprStmt, ok := last.(*ast.ExprStmt)
	if !ok {
		p.error("cannot evaluate value from statement: %s", last)
	}
	return &ast.Program{Stmts: items[:len(items)-1], Expr: exprStmt.X}, nil
}

// ParseExpr parses a single expression.
func ParseExpr(src []byte) (expr ast.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = r.(*ParseError)
		}
	}()
	p := parser{lexer: NewLexer(src), src: string(src)}
	p.next()
	e := p.expression()
	if p.tok != EOF {
		p.error("unexpected %s", p.tok)
	}
	return e, nil
}

func (p *parser) statement() ast.Stmt {
	expr := p.expression()
	// A bare generator: `record.str for record in records`.
	if p.tok == FOR {
		return &ast.ExprStmt{X: p.comprehension(expr)}
	}
	// A bare tuple: `fields[1], fields[0]`.
	if p.tok == COMMA {
		elems := []ast.Expr{expr}
		for p.tok == COMMA {
			p.next()
			if p.tok == SEMICOLON || p.tok == EOF {
				break
			}
			elems = append(elems, p.expression())
		}
		return &ast.ExprStmt{X: &ast.TupleExpr{Elems: elems}}
	}
	if p.tok != ASSIGN {
		return &ast.ExprStmt{X: expr}
	}
	switch expr.(type) {
	case *ast.VarExpr, *ast.AttrExpr, *ast.IndexExpr:
	default:
		p.error("cannot assign to %s", expr)
	}
	p.next()
	value := p.expression()
	return &ast.AssignStmt{Target: expr, Value: value}
}

// expression parses a conditional expression, including the trailing form
// `value if cond` whose implicit else yields the no-value sentinel.
func (p *parser) expression() ast.Expr {
	value := p.orExpr()
	if p.tok != IF {
		return value
	}
	p.next()
	cond := p.orExpr()
	var alt ast.Expr
	if p.tok == ELSE {
		p.next()
		alt = p.expression()
	}
	return &ast.CondExpr{Cond: cond, True_: value, False_: alt}
}

func (p *parser) orExpr() ast.Expr {
	expr := p.andExpr()
	for p.tok == OR {
		p.next()
		right := p.andExpr()
		expr = &ast.BinaryExpr{Left: expr, Op: OR, Right: right}
	}
	return expr
}

func (p *parser) andExpr() ast.Expr {
	expr := p.notExpr()
	for p.tok == AND {
		p.next()
		right := p.notExpr()
		expr = &ast.BinaryExpr{Left: expr, Op: AND, Right: right}
	}
	return expr
}

func (p *parser) notExpr() ast.Expr {
	if p.tok == NOT {
		p.next()
		return &ast.UnaryExpr{Op: NOT, X: p.notExpr()}
	}
	return p.comparison()
}

func (p *parser) comparison() ast.Expr {
	expr := p.bitOr()
	for p.matches(EQUALS, NOT_EQUALS, LESS, LTE, GREATER, GTE, IN, NOT) {
		op := p.tok
		if op == NOT {
			// `not` at comparison level must be `not in`
			p.next()
			if p.tok != IN {
				p.error("expected in instead of %s", p.tok)
			}
		}
		p.next()
		right := p.bitOr()
		cmp := &ast.BinaryExpr{Left: expr, Op: op, Right: right}
		if op == NOT {
			cmp.Op = IN
			expr = &ast.UnaryExpr{Op: NOT, X: cmp}
		} else {
			expr = cmp
		}
	}
	return expr
}

func (p *parser) bitOr() ast.Expr {
	expr := p.bitXor()
	for p.tok == PIPE {
		p.next()
		expr = &ast.BinaryExpr{Left: expr, Op: PIPE, Right: p.bitXor()}
	}
	return expr
}

func (p *parser) bitXor() ast.Expr {
	expr := p.bitAnd()
	for p.tok == CARET {
		p.next()
		expr = &ast.BinaryExpr{Left: expr, Op: CARET, Right: p.bitAnd()}
	}
	return expr
}

func (p *parser) bitAnd() ast.Expr {
	expr := p.shift()
	for p.tok == AMP {
		p.next()
		expr = &ast.BinaryExpr{Left: expr, Op: AMP, Right: p.shift()}
	}
	return expr
}

func (p *parser) shift() ast.Expr {
	expr := p.addition()
	for p.matches(LSHIFT, RSHIFT) {
		op := p.tok
		p.next()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: p.addition()}
	}
	return expr
}

func (p *parser) addition() ast.Expr {
	expr := p.multiplication()
	for p.matches(ADD, SUB) {
		op := p.tok
		p.next()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: p.multiplication()}
	}
	return expr
}

func (p *parser) multiplication() ast.Expr {
	expr := p.unary()
	for p.matches(MUL, DIV, FLOORDIV, MOD) {
		op := p.tok
		p.next()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: p.unary()}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.matches(SUB, ADD) {
		op := p.tok
		p.next()
		return &ast.UnaryExpr{Op: op, X: p.unary()}
	}
	return p.power()
}

func (p *parser) power() ast.Expr {
	expr := p.postfix()
	// Power is right associative: 2**3**2 is 2**(3**2).
	if p.tok == POW {
		p.next()
		return &ast.BinaryExpr{Left: expr, Op: POW, Right: p.unary()}
	}
	return expr
}

func (p *parser) postfix() ast.Expr {
	expr := p.primary()
	for {
		switch p.tok {
		case LPAREN:
			p.next()
			var args []ast.Expr
			for p.tok != RPAREN {
				args = append(args, p.expression())
				if p.tok != COMMA {
					break
				}
				p.next()
			}
			p.expect(RPAREN)
			expr = &ast.CallExpr{Func: expr, Args: args}

		case LBRACKET:
			p.next()
			expr = p.subscript(expr)

		case DOT:
			p.next()
			if p.tok != NAME {
				p.error("expected name instead of %s", p.tok)
			}
			name := p.val
			p.next()
			expr = &ast.AttrExpr{X: expr, Name: name}

		default:
			return expr
		}
	}
}

// subscript parses an index or slice after the opening bracket is consumed.
func (p *parser) subscript(x ast.Expr) ast.Expr {
	var low, high ast.Expr
	if p.tok != COLON {
		low = p.expression()
		if p.tok == RBRACKET {
			p.next()
			return &ast.IndexExpr{X: x, Index: low}
		}
	}
	p.expect(COLON)
	if p.tok != RBRACKET {
		high = p.expression()
	}
	p.expect(RBRACKET)
	return &ast.SliceExpr{X: x, Low: low, High: high}
}

func (p *parser) primary() ast.Expr {
	switch p.tok {
	case NUMBER:
		val := p.val
		p.next()
		if !strings.ContainsAny(val, ".eE") {
			n, err := strconv.ParseInt(val, 10, 64)
			if err == nil {
				return &ast.IntExpr{Value: n}
			}
		}
		n, err := strconv.ParseFloat(val, 64)
		if err != nil {
			p.error("invalid number %q", val)
		}
		return &ast.FloatExpr{Value: n}

	case STRING:
		val := p.val
		p.next()
		return &ast.StrExpr{Value: val}

	case TRUE:
		p.next()
		return &ast.BoolExpr{Value: true}

	case FALSE:
		p.next()
		return &ast.BoolExpr{Value: false}

	case NONE:
		p.next()
		return &ast.NoneExpr{}

	case NAME:
		name := p.val
		p.next()
		return &ast.VarExpr{Name: name}

	case LPAREN:
		p.next()
		if p.tok == RPAREN {
			p.next()
			return &ast.TupleExpr{}
		}
		first := p.expression()
		if p.tok == FOR {
			comp := p.comprehension(first)
			p.expect(RPAREN)
			return comp
		}
		if p.tok == COMMA {
			elems := []ast.Expr{first}
			for p.tok == COMMA {
				p.next()
				if p.tok == RPAREN {
					break
				}
				elems = append(elems, p.expression())
			}
			p.expect(RPAREN)
			return &ast.TupleExpr{Elems: elems}
		}
		p.expect(RPAREN)
		return first

	case LBRACKET:
		p.next()
		if p.tok == RBRACKET {
			p.next()
			return &ast.ListExpr{}
		}
		first := p.expression()
		if p.tok == FOR {
			comp := p.comprehension(first)
			comp.List = true
			p.expect(RBRACKET)
			return comp
		}
		elems := []ast.Expr{first}
		for p.tok == COMMA {
			p.next()
			if p.tok == RBRACKET {
				break
			}
			elems = append(elems, p.expression())
		}
		p.expect(RBRACKET)
		return &ast.ListExpr{Elems: elems}

	case LBRACE:
		p.next()
		var keys, values []ast.Expr
		for p.tok != RBRACE {
			keys = append(keys, p.expression())
			p.expect(COLON)
			values = append(values, p.expression())
			if p.tok != COMMA {
				break
			}
			p.next()
		}
		p.expect(RBRACE)
		return &ast.DictExpr{Keys: keys, Values: values}

	default:
		p.error("unexpected %s", p.tok)
		return nil
	}
}

// comprehension parses `for names in source [if cond]` after the element
// expression, with the opening bracket/paren handled by the caller. More
// than one loop name unpacks each element of the source.
func (p *parser) comprehension(elem ast.Expr) *ast.CompExpr {
	p.expect(FOR)
	var names []string
	for {
		if p.tok != NAME {
			p.error("expected name instead of %s", p.tok)
		}
		names = append(names, p.val)
		p.next()
		if p.tok != COMMA {
			break
		}
		p.next()
	}
	p.expect(IN)
	source := p.orExpr()
	var cond ast.Expr
	if p.tok == IF {
		p.next()
		cond = p.orExpr()
	}
	return &ast.CompExpr{Elem: elem, Vars: names, Source: source, Cond: cond}
}
