package text

// This consists of a bunch of text utilities to help in generating pretty and meaningful
// help messages, error messages, etc.

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/tim-hardcastle/compute/source/token"
)

const (
	VERSION   = "0.3.0"
	BULLET    = "  ▪ "
	PROMPT    = "→ "
	EXTENSION = ".compute"
)

// Strips the directory and the extension, so that "lib/helpers.compute" becomes "helpers".
func ExtractFileName(s string) string {
	base := filepath.Base(s)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func Emph(s string) string {
	return "'" + s + "'"
}

func Cyan(s string) string {
	return color.CyanString("%s", s)
}

func Logo() string {
	var padding string
	if len(VERSION)%2 == 1 {
		padding = ","
	}
	titleText := " compute" + padding + " version " + VERSION + " "
	diamond := Cyan("◆")
	leftMargin := "  "
	bar := strings.Repeat("═", len(titleText)/2)
	logoString := "\n" +
		leftMargin + "╔" + bar + diamond + bar + "╗\n" +
		leftMargin + "║" + titleText + "║\n" +
		leftMargin + "╚" + bar + diamond + bar + "╝\n\n"
	return logoString
}

const HELP = "\nUsage: compute [-v | --version] [-h | --help]\n" +
	"               <file> [-c | --clear-cache] [options] [--] [args...]\n" +
	"               repl [options]\n\n" +
	"  <file>        Runs the 'main' function of a compute script. With -c the\n" +
	"                function cache is cleared first. Any further arguments are\n" +
	"                passed to the script, which can read them with os.args().\n" +
	"  repl          Starts an interactive session.\n\n" +
	"Options:\n" +
	"  --entry <name>       the function to start at instead of 'main'\n" +
	"  --cache-dir <dir>    where to keep the function cache\n" +
	"  --log-level <level>  debug, info, warn or error\n" +
	"  --no-color           don't use color\n\n" +
	"Settings are read from 'compute.yaml' in the working directory if it exists, and\n" +
	"can be overridden with COMPUTE_* environment variables and then by the options.\n\n"

func DescribePos(tok *token.Token) string {
	if tok == nil {
		return ""
	}
	prettySource := tok.Source
	if prettySource != "" && prettySource != "REPL input" {
		prettySource = "'" + prettySource + "'"
	}
	if tok.Line > 0 {
		result := " at line " + strconv.Itoa(tok.Line) + ":" + strconv.Itoa(tok.ChStart)
		if prettySource != "" {
			result = result + " of " + prettySource
		}
		return result
	}
	if prettySource == "" {
		return ""
	}
	return " in " + prettySource
}

// Wraps s at word boundaries so that no line is longer than width, indenting every line by
// margin spaces.
func Pretty(s string, margin, width int) string {
	var b strings.Builder
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			if line != "" && len(line)+1+len(word) > width {
				b.WriteString(strings.Repeat(" ", margin) + line + "\n")
				line = ""
			}
			if line != "" {
				line += " "
			}
			line += word
		}
		b.WriteString(strings.Repeat(" ", margin) + line + "\n")
	}
	return b.String()
}
