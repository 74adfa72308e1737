package lexer

import (
	"fmt"
	"strconv"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/settings"
	"github.com/tim-hardcastle/compute/source/token"
)

type Lexer struct {
	runes  *RuneSupplier
	tstart int // the value of char at the start of a token
	lineNo int
	Ers    []*report.Error
	source string
}

func NewLexer(source, input string) *Lexer {
	return &Lexer{
		runes:  NewRuneSupplier([]rune(input)),
		source: source,
		lineNo: 1,
	}
}

// Tokenize lexes the whole of the input, stopping at the first error.
func Tokenize(source, input string) ([]token.Token, error) {
	l := NewLexer(source, input)
	result := []token.Token{}
	for {
		tok := l.NextToken()
		if len(l.Ers) > 0 {
			return nil, l.Ers[0]
		}
		result = append(result, tok)
		if tok.Type == token.EOF {
			return result, nil
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()
	l.lineNo, l.tstart = l.runes.Position()
	if l.runes.AtEnd() {
		return l.MakeToken(token.EOF, "EOF")
	}
	switch ch := l.runes.CurrentRune(); ch {
	case ';':
		return l.NewToken(token.SEMICOLON, ";")
	case ',':
		return l.NewToken(token.COMMA, ",")
	case '.':
		return l.NewToken(token.DOT, ".")
	case '{':
		return l.NewToken(token.LBRACE, "{")
	case '}':
		return l.NewToken(token.RBRACE, "}")
	case '[':
		return l.NewToken(token.LBRACK, "[")
	case ']':
		return l.NewToken(token.RBRACK, "]")
	case '(':
		return l.NewToken(token.LPAREN, "(")
	case ')':
		return l.NewToken(token.RPAREN, ")")
	case '+':
		return l.NewToken(token.PLUS, "+")
	case '-':
		return l.NewToken(token.MINUS, "-")
	case '*':
		return l.NewToken(token.ASTERISK, "*")
	case '/':
		return l.NewToken(token.SLASH, "/")
	case '%':
		return l.NewToken(token.PERCENT, "%")
	case '^':
		return l.NewToken(token.CARET, "^")
	case '=':
		if l.runes.PeekRune() == '=' {
			l.runes.Next()
			return l.NewToken(token.EQ, "==")
		}
		return l.NewToken(token.ASSIGN, "=")
	case '!':
		if l.runes.PeekRune() == '=' {
			l.runes.Next()
			return l.NewToken(token.NOT_EQ, "!=")
		}
	case '<':
		if l.runes.PeekRune() == '=' {
			l.runes.Next()
			return l.NewToken(token.LT_EQ, "<=")
		}
		return l.NewToken(token.LT, "<")
	case '>':
		if l.runes.PeekRune() == '=' {
			l.runes.Next()
			return l.NewToken(token.GT_EQ, ">=")
		}
		return l.NewToken(token.GT, ">")
	case '&':
		if l.runes.PeekRune() == '&' {
			l.runes.Next()
			return l.NewToken(token.AND, "&&")
		}
	case '|':
		if l.runes.PeekRune() == '|' {
			l.runes.Next()
			return l.NewToken(token.OR, "||")
		}
	case '"':
		s, closed, badEscape := l.runes.ReadString()
		if !closed {
			return l.Throw("lex/quote")
		}
		if badEscape != 0 {
			return l.Throw("lex/escape", string(badEscape))
		}
		return l.NewToken(token.STRING, s)
	}

	if IsDigit(l.runes.CurrentRune()) {
		numString := l.runes.ReadNumber()
		if _, err := strconv.ParseInt(numString, 10, 64); err == nil {
			return l.NewToken(token.INT, numString)
		}
		if _, err := strconv.ParseFloat(numString, 64); err == nil {
			return l.NewToken(token.FLOAT, numString)
		}
		return l.Throw("lex/number", numString)
	}

	if IsLegalStart(l.runes.CurrentRune()) {
		lit := l.runes.ReadIdentifier()
		return l.NewToken(token.LookupIdent(lit), lit)
	}

	return l.Throw("lex/char", string(l.runes.CurrentRune()))
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.runes.CurrentRune() {
		case ' ', '\t', '\r', '\n':
			l.runes.Next()
		case '/':
			if l.runes.PeekRune() != '/' {
				return
			}
			l.runes.ReadComment()
			l.runes.Next()
		default:
			return
		}
	}
}

func (l *Lexer) NewToken(tokenType token.TokenType, st string) token.Token {
	tok := l.MakeToken(tokenType, st)
	l.runes.Next()
	return tok
}

func (l *Lexer) MakeToken(tokenType token.TokenType, st string) token.Token {
	if settings.SHOW_LEXER {
		fmt.Println(tokenType, st)
	}
	_, chNo := l.runes.Position()
	return token.Token{Type: tokenType, Literal: st, Source: l.source, Line: l.lineNo, ChStart: l.tstart, ChEnd: chNo}
}

func (l *Lexer) Throw(errorID string, args ...any) token.Token {
	tok := l.MakeToken(token.ILLEGAL, errorID)
	l.Ers = append(l.Ers, report.CreateErr(errorID, &tok, args...))
	l.runes.Next()
	return tok
}
