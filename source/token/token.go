package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"   // add, foobar, x, y, ...
	INT    = "int"     // 1343456
	FLOAT  = "float64" // 1.23
	STRING = "string"  // "foo"
	TRUE   = "true"
	FALSE  = "false"
	NULL   = "Null"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	CARET    = "^"

	EQ     = "=="
	NOT_EQ = "!="
	LT     = "<"
	LT_EQ  = "<="
	GT     = ">"
	GT_EQ  = ">="

	AND = "&&"
	OR  = "||"

	DOT       = "."
	COMMA     = ","
	SEMICOLON = ";"

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"
	LBRACK = "["
	RBRACK = "]"

	// Keywords
	FUNC   = "func"
	LET    = "let"
	IF     = "if"
	ELSE   = "else"
	WHILE  = "while"
	FOR    = "for"
	IN     = "in"
	RETURN = "return"
	BREAK  = "break"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	ChStart int
	ChEnd   int
	Source  string
}

var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
	"Null":  NULL,

	"func":   FUNC,
	"let":    LET,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"in":     IN,
	"return": RETURN,
	"break":  BREAK,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

func TokenTypeIsOperator(t TokenType) bool {
	switch t {
	case PLUS, MINUS, ASTERISK, SLASH, PERCENT, CARET, EQ, NOT_EQ, LT, LT_EQ, GT, GT_EQ:
		return true
	}
	return false
}
