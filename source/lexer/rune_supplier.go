package lexer

import (
	"strings"
	"unicode"
)

// The RuneSupplier does the character-level work of the lexer: it tracks the position in the
// source and slurps up the multi-character pieces such as numbers and string literals.
type RuneSupplier struct {
	code      []rune
	pos       int
	lineNo    int
	lineStart int
}

func NewRuneSupplier(code []rune) *RuneSupplier {
	return &RuneSupplier{code: code, lineNo: 1}
}

func (rs *RuneSupplier) CurrentRune() rune {
	if rs.pos < len(rs.code) {
		return rs.code[rs.pos]
	}
	return 0
}

func (rs *RuneSupplier) PeekRune() rune {
	if rs.pos+1 < len(rs.code) {
		return rs.code[rs.pos+1]
	}
	return 0
}

func (rs *RuneSupplier) AtEnd() bool {
	return rs.pos >= len(rs.code)
}

func (rs *RuneSupplier) Next() {
	if rs.pos >= len(rs.code) {
		return
	}
	if rs.code[rs.pos] == '\n' {
		rs.lineNo++
		rs.lineStart = rs.pos + 1
	}
	rs.pos++
}

// Returns the line number and the character number within the line, both of the current rune.
func (rs *RuneSupplier) Position() (int, int) {
	return rs.lineNo, rs.pos - rs.lineStart
}

// The reading functions leave the supplier on the last rune of what they read.

func (rs *RuneSupplier) ReadIdentifier() string {
	start := rs.pos
	for IsLegalMiddle(rs.PeekRune()) {
		rs.Next()
	}
	return string(rs.code[start : rs.pos+1])
}

// A number is a run of digits, optionally followed by a '.' and another run of digits. A '.'
// followed by anything else is left alone, as in '2.str()'.
func (rs *RuneSupplier) ReadNumber() string {
	start := rs.pos
	for IsDigit(rs.PeekRune()) {
		rs.Next()
	}
	if rs.PeekRune() == '.' && rs.pos+2 < len(rs.code) && IsDigit(rs.code[rs.pos+2]) {
		rs.Next()
		for IsDigit(rs.PeekRune()) {
			rs.Next()
		}
	}
	for IsLegalMiddle(rs.PeekRune()) { // So that '12abc' is one malformed number and not two tokens.
		rs.Next()
	}
	return string(rs.code[start : rs.pos+1])
}

func (rs *RuneSupplier) ReadComment() string {
	start := rs.pos
	for rs.PeekRune() != '\n' && rs.PeekRune() != 0 {
		rs.Next()
	}
	return string(rs.code[start : rs.pos+1])
}

var escapes = map[rune]rune{'n': '\n', 't': '\t', '"': '"', '\\': '\\', 'r': '\r'}

// Reads a double-quoted string starting at the opening quote. Returns the unescaped contents,
// whether the string was closed, and the first bad escape character if there was one.
func (rs *RuneSupplier) ReadString() (string, bool, rune) {
	var b strings.Builder
	var badEscape rune
	for {
		rs.Next()
		switch ch := rs.CurrentRune(); ch {
		case 0, '\n':
			return b.String(), false, badEscape
		case '"':
			return b.String(), true, badEscape
		case '\\':
			rs.Next()
			esc, ok := escapes[rs.CurrentRune()]
			if !ok && badEscape == 0 {
				badEscape = rs.CurrentRune()
			}
			b.WriteRune(esc)
		default:
			b.WriteRune(ch)
		}
	}
}

func IsDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func IsLegalStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func IsLegalMiddle(ch rune) bool {
	return IsLegalStart(ch) || unicode.IsDigit(ch)
}
