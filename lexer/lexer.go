// Golin expression lexer (tokenizer).
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Position struct {
	Line   int
	Column int
}

type Lexer struct {
	src      []byte
	offset   int
	ch       rune
	errorMsg string
	pos      Position
	nextPos  Position
}

func NewLexer(src []byte) *Lexer {
	l := &Lexer{src: src}
	l.nextPos.Line = 1
	l.nextPos.Column = 1
	l.next()
	return l
}

func (l *Lexer) next() {
	l.pos = l.nextPos
	ch, size := utf8.DecodeRune(l.src[l.offset:])
	if size == 0 {
		l.ch = -1
		return
	}
	if ch == utf8.RuneError {
		l.ch = -1
		l.errorMsg = fmt.Sprintf("invalid UTF-8 byte 0x%02x", l.src[l.offset])
		return
	}
	if ch == '\n' {
		l.nextPos.Line++
		l.nextPos.Column = 1
	} else {
		l.nextPos.Column++
	}
	l.ch = ch
	l.offset += size
}

func (l *Lexer) skipWhite() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.next()
		}
		if l.ch != '#' {
			return
		}
		for l.ch >= 0 && l.ch != '\n' {
			l.next()
		}
	}
}

func isNameStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) twoSymbol(secondChar rune, oneChar, twoChar Token) Token {
	if l.ch == secondChar {
		l.next()
		return twoChar
	}
	return oneChar
}

// Scan reads the next token and returns its position, type, and the token's
// value (filled in for names, numbers, strings, and error messages).
func (l *Lexer) Scan() (Position, Token, string) {
	l.skipWhite()
	if l.ch < 0 {
		if l.errorMsg != "" {
			return l.pos, ILLEGAL, l.errorMsg
		}
		return l.pos, EOF, ""
	}

	pos := l.pos
	tok := ILLEGAL
	val := ""

	ch := l.ch
	l.next()

	switch {
	case isNameStart(ch):
		runes := []rune{ch}
		for isNameStart(l.ch) || isDigit(l.ch) {
			runes = append(runes, l.ch)
			l.next()
		}
		name := string(runes)
		keyword, isKeyword := keywordTokens[name]
		if isKeyword {
			tok = keyword
		} else {
			tok = NAME
			val = name
		}

	case isDigit(ch) || (ch == '.' && isDigit(l.ch)):
		runes := []rune{ch}
		gotDigit := isDigit(ch)
		gotDot := ch == '.'
		for isDigit(l.ch) || (l.ch == '.' && !gotDot) {
			gotDigit = gotDigit || isDigit(l.ch)
			gotDot = gotDot || l.ch == '.'
			runes = append(runes, l.ch)
			l.next()
		}
		if !gotDigit {
			return pos, ILLEGAL, "expected digits"
		}
		if l.ch == 'e' || l.ch == 'E' {
			runes = append(runes, l.ch)
			l.next()
			if l.ch == '+' || l.ch == '-' {
				runes = append(runes, l.ch)
				l.next()
			}
			if !isDigit(l.ch) {
				return pos, ILLEGAL, "expected exponent digits"
			}
			for isDigit(l.ch) {
				runes = append(runes, l.ch)
				l.next()
			}
		}
		tok = NUMBER
		val = string(runes)

	case ch == '"' || ch == '\'':
		quote := ch
		var sb strings.Builder
		for l.ch != quote {
			c := l.ch
			if c < 0 {
				return pos, ILLEGAL, "didn't find end quote in string"
			}
			if c == '\n' {
				return pos, ILLEGAL, "can't have newline in string"
			}
			if c != '\\' {
				sb.WriteRune(c)
				l.next()
				continue
			}
			l.next()
			switch l.ch {
			case 'n':
				c = '\n'
			case 't':
				c = '\t'
			case 'r':
				c = '\r'
			case '0':
				c = 0
			case '\\', '\'', '"':
				c = l.ch
			case 'x':
				l.next()
				digit := func(ch rune) (int, bool) {
					switch {
					case ch >= '0' && ch <= '9':
						return int(ch - '0'), true
					case ch >= 'a' && ch <= 'f':
						return int(ch-'a') + 10, true
					case ch >= 'A' && ch <= 'F':
						return int(ch-'A') + 10, true
					}
					return 0, false
				}
				hi, ok := digit(l.ch)
				if !ok {
					return pos, ILLEGAL, "1 or 2 hex digits expected"
				}
				l.next()
				if lo, ok := digit(l.ch); ok {
					c = rune(hi*16 + lo)
				} else {
					sb.WriteRune(rune(hi))
					continue
				}
			default:
				return pos, ILLEGAL, fmt.Sprintf("invalid string escape \\%c", l.ch)
			}
			sb.WriteRune(c)
			l.next()
		}
		l.next()
		tok = STRING
		val = sb.String()

	default:
		switch ch {
		case '+':
			tok = ADD
		case '-':
			tok = SUB
		case '*':
			tok = l.twoSymbol('*', MUL, POW)
		case '/':
			tok = l.twoSymbol('/', DIV, FLOORDIV)
		case '%':
			tok = MOD
		case '&':
			tok = AMP
		case '|':
			tok = PIPE
		case '^':
			tok = CARET
		case '=':
			tok = l.twoSymbol('=', ASSIGN, EQUALS)
		case '!':
			if l.ch == '=' {
				l.next()
				tok = NOT_EQUALS
			} else {
				val = "unexpected '!'"
			}
		case '<':
			switch l.ch {
			case '=':
				l.next()
				tok = LTE
			case '<':
				l.next()
				tok = LSHIFT
			default:
				tok = LESS
			}
		case '>':
			switch l.ch {
			case '=':
				l.next()
				tok = GTE
			case '>':
				l.next()
				tok = RSHIFT
			default:
				tok = GREATER
			}
		case '(':
			tok = LPAREN
		case ')':
			tok = RPAREN
		case '[':
			tok = LBRACKET
		case ']':
			tok = RBRACKET
		case '{':
			tok = LBRACE
		case '}':
			tok = RBRACE
		case ',':
			tok = COMMA
		case ':':
			tok = COLON
		case ';':
			tok = SEMICOLON
		case '.':
			tok = DOT
		default:
			val = fmt.Sprintf("unexpected %q", ch)
		}
	}

	return pos, tok, val
}
