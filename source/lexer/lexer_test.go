package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/token"
)

func TestStatements(t *testing.T) {
	input :=
		`func main() {
    let x = 2.5 * -3;   // a comment
    if x >= 1 && x != 2 || false { print("a\tb\"c"); }
}`
	items := []testItem{
		{token.FUNC, "func", 1},
		{token.IDENT, "main", 1},
		{token.LPAREN, "(", 1},
		{token.RPAREN, ")", 1},
		{token.LBRACE, "{", 1},
		{token.LET, "let", 2},
		{token.IDENT, "x", 2},
		{token.ASSIGN, "=", 2},
		{token.FLOAT, "2.5", 2},
		{token.ASTERISK, "*", 2},
		{token.MINUS, "-", 2},
		{token.INT, "3", 2},
		{token.SEMICOLON, ";", 2},
		{token.IF, "if", 3},
		{token.IDENT, "x", 3},
		{token.GT_EQ, ">=", 3},
		{token.INT, "1", 3},
		{token.AND, "&&", 3},
		{token.IDENT, "x", 3},
		{token.NOT_EQ, "!=", 3},
		{token.INT, "2", 3},
		{token.OR, "||", 3},
		{token.FALSE, "false", 3},
		{token.LBRACE, "{", 3},
		{token.IDENT, "print", 3},
		{token.LPAREN, "(", 3},
		{token.STRING, "a\tb\"c", 3},
		{token.RPAREN, ")", 3},
		{token.SEMICOLON, ";", 3},
		{token.RBRACE, "}", 3},
		{token.RBRACE, "}", 4},
		{token.EOF, "EOF", 4},
	}
	testLexingString(t, input, items)
}

func TestNumbersAndMembers(t *testing.T) {
	input := `2.str() 3.25 "héllo".len Null`
	items := []testItem{
		{token.INT, "2", 1},
		{token.DOT, ".", 1},
		{token.IDENT, "str", 1},
		{token.LPAREN, "(", 1},
		{token.RPAREN, ")", 1},
		{token.FLOAT, "3.25", 1},
		{token.STRING, "héllo", 1},
		{token.DOT, ".", 1},
		{token.IDENT, "len", 1},
		{token.NULL, "Null", 1},
		{token.EOF, "EOF", 1},
	}
	testLexingString(t, input, items)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input   string
		errorId string
	}{
		{`"unterminated`, "lex/quote"},
		{`"bad \q escape"`, "lex/escape"},
		{`12abc`, "lex/number"},
		{`a ! b`, "lex/char"},
		{`a & b`, "lex/char"},
		{`#`, "lex/char"},
	}
	for _, tt := range tests {
		_, err := Tokenize("dummy source", tt.input)
		require.Error(t, err, tt.input)
		require.Equal(t, tt.errorId, err.(*report.Error).ErrorId, tt.input)
	}
}

type testItem struct {
	expectedType    token.TokenType
	expectedLiteral string
	expectedLine    int
}

func testLexingString(t *testing.T, input string, items []testItem) {
	toks, err := Tokenize("dummy source", input)
	require.NoError(t, err)
	require.Len(t, toks, len(items))
	for i, tt := range items {
		tok := toks[i]
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q with literal %q, got=%q with literal %q",
				i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
		if tok.Line != tt.expectedLine {
			t.Fatalf("tests[%d] - line wrong. expected=%d, got=%d",
				i, tt.expectedLine, tok.Line)
		}
	}
}
