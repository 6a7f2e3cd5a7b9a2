// Lexer tokens

package lexer

type Token int

const (
	ILLEGAL Token = iota
	EOF

	// Symbols
	ADD
	SUB
	MUL
	POW
	DIV
	FLOORDIV
	MOD
	LSHIFT
	RSHIFT
	AMP
	PIPE
	CARET
	ASSIGN
	EQUALS
	NOT_EQUALS
	LESS
	LTE
	GREATER
	GTE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	COLON
	SEMICOLON
	DOT

	// Keywords
	AND
	OR
	NOT
	IF
	ELSE
	FOR
	IN
	TRUE
	FALSE
	NONE

	// Literals and names
	NAME
	NUMBER
	STRING

	LAST = STRING
)

var keywordTokens = map[string]Token{
	"and":   AND,
	"or":    OR,
	"not":   NOT,
	"if":    IF,
	"else":  ELSE,
	"for":   FOR,
	"in":    IN,
	"True":  TRUE,
	"False": FALSE,
	"None":  NONE,
}

var tokenNames = map[Token]string{
	ILLEGAL: "<illegal>",
	EOF:     "<eof>",

	ADD:        "+",
	SUB:        "-",
	MUL:        "*",
	POW:        "**",
	DIV:        "/",
	FLOORDIV:   "//",
	MOD:        "%",
	LSHIFT:     "<<",
	RSHIFT:     ">>",
	AMP:        "&",
	PIPE:       "|",
	CARET:      "^",
	ASSIGN:     "=",
	EQUALS:     "==",
	NOT_EQUALS: "!=",
	LESS:       "<",
	LTE:        "<=",
	GREATER:    ">",
	GTE:        ">=",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACKET:   "[",
	RBRACKET:   "]",
	LBRACE:     "{",
	RBRACE:     "}",
	COMMA:      ",",
	COLON:      ":",
	SEMICOLON:  ";",
	DOT:        ".",

	AND:   "and",
	OR:    "or",
	NOT:   "not",
	IF:    "if",
	ELSE:  "else",
	FOR:   "for",
	IN:    "in",
	TRUE:  "True",
	FALSE: "False",
	NONE:  "None",

	NAME:   "<name>",
	NUMBER: "<number>",
	STRING: "<string>",
}

func (t Token) String() string {
	return tokenNames[t]
}
