// Package prep turns the text of a compute file into the text the parser sees: comments are
// stripped, 'import' and 'replace' lines are taken out and acted on, and every line is checked
// for a terminator. Line numbers are preserved, so that errors from the parser point at the
// right line of the original file.
package prep

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/settings"
	"github.com/tim-hardcastle/compute/source/token"
)

var (
	importLine  = regexp.MustCompile(`^import\s+([A-Za-z_][A-Za-z0-9_/]*)$`)
	replaceLine = regexp.MustCompile(`^replace\s+(\S+)\s*->\s*(.+)$`)
	wordChars   = regexp.MustCompile(`^\w+$`)
)

type replacement struct {
	pattern *regexp.Regexp
	with    string
}

// Process returns the normalized text and the names of the imports, in the order they appear.
// The source is used only for error positions.
func Process(source, text string) (string, []string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	imports := []string{}
	replacements := []replacement{}
	for i, line := range lines {
		line = strings.TrimSpace(StripComment(line))
		switch {
		case startsWithKeyword(line, "import"):
			match := importLine.FindStringSubmatch(line)
			if match == nil {
				return "", nil, report.CreateErr("prep/import", position(source, i), line)
			}
			imports = append(imports, match[1])
			line = ""
		case startsWithKeyword(line, "replace"):
			match := replaceLine.FindStringSubmatch(line)
			if match == nil {
				return "", nil, report.CreateErr("prep/replace", position(source, i), line)
			}
			replacements = append(replacements, makeReplacement(match[1], strings.TrimSpace(match[2])))
			line = ""
		case line == "":
		case strings.HasSuffix(line, "{") || strings.HasSuffix(line, "}") || strings.HasSuffix(line, ";"):
		case startsWithKeyword(line, "if", "for", "while", "else", "func"):
			return "", nil, report.CreateErr("prep/brace", position(source, i), i+1)
		default:
			return "", nil, report.CreateErr("prep/semicolon", position(source, i), i+1)
		}
		lines[i] = line
	}
	for _, r := range replacements {
		for i, line := range lines {
			lines[i] = replaceOutsideStrings(line, r)
		}
	}
	result := strings.Join(lines, "\n")
	if err := CheckBrackets(source, result); err != nil {
		return "", nil, err
	}
	if settings.SHOW_PREP {
		fmt.Println(result)
	}
	return result, imports, nil
}

func makeReplacement(name, with string) replacement {
	quoted := regexp.QuoteMeta(name)
	if wordChars.MatchString(name) {
		quoted = `\b` + quoted + `\b`
	}
	return replacement{pattern: regexp.MustCompile(quoted), with: with}
}

func startsWithKeyword(line string, keywords ...string) bool {
	for _, kw := range keywords {
		if line == kw || strings.HasPrefix(line, kw+" ") || strings.HasPrefix(line, kw+"(") {
			return true
		}
	}
	return false
}

func position(source string, i int) *token.Token {
	return &token.Token{Source: source, Line: i + 1}
}

// StripComment removes a '//' comment from a line, ignoring any '//' inside a string literal.
func StripComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && inString:
			i++
		case line[i] == '"':
			inString = !inString
		case !inString && line[i] == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

func replaceOutsideStrings(line string, r replacement) string {
	var b strings.Builder
	inString := false
	start := 0
	flush := func(end int) {
		if inString {
			b.WriteString(line[start:end])
		} else {
			b.WriteString(r.pattern.ReplaceAllLiteralString(line[start:end], r.with))
		}
		start = end
	}
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && inString:
			i++
		case line[i] == '"':
			if inString {
				flush(i + 1)
			} else {
				flush(i)
			}
			inString = !inString
		}
	}
	flush(len(line))
	return b.String()
}

var opposite = map[rune]rune{')': '(', ']': '[', '}': '{'}

// CheckBrackets reports the first bracket, outside of string literals, without a partner.
func CheckBrackets(source, text string) error {
	type open struct {
		ch   rune
		line int
		col  int
	}
	stack := []open{}
	line, col := 1, 0
	inString := false
	escaped := false
	for _, ch := range text {
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '(' || ch == '[' || ch == '{':
			stack = append(stack, open{ch, line, col})
		case ch == ')' || ch == ']' || ch == '}':
			if len(stack) == 0 {
				return report.CreateErr("prep/bracket", &token.Token{Source: source, Line: line, ChStart: col}, string(ch))
			}
			if top := stack[len(stack)-1]; top.ch != opposite[ch] {
				return report.CreateErr("prep/bracket", &token.Token{Source: source, Line: top.line, ChStart: top.col}, string(top.ch))
			}
			stack = stack[:len(stack)-1]
		}
		if ch == '\n' {
			line++
			col = 0
			inString = false
		} else {
			col++
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return report.CreateErr("prep/bracket", &token.Token{Source: source, Line: top.line, ChStart: top.col}, string(top.ch))
	}
	return nil
}
