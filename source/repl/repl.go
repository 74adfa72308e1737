package repl

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lmorg/readline"

	"github.com/tim-hardcastle/compute/source/evaluator"
	"github.com/tim-hardcastle/compute/source/parser"
	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/text"
	"github.com/tim-hardcastle/compute/source/values"
)

// A Repl keeps one environment for the whole session, so that what is declared on one line
// can be used on the next. Functions can be defined as well, and replace any earlier
// function of the same name.
type Repl struct {
	ctx *evaluator.Context
	env *evaluator.Environment
	out io.Writer
}

func New(functions values.FunctionTable, ioHandler evaluator.IoHandler, out io.Writer, logger *slog.Logger) *Repl {
	return &Repl{
		ctx: evaluator.NewContext(functions, ioHandler, logger),
		env: evaluator.NewEnvironment(),
		out: out,
	}
}

func (r *Repl) Context() *evaluator.Context {
	return r.ctx
}

func Start(r *Repl) {
	defer r.ctx.Databases.CloseAll()
	rline := readline.NewInstance()
	for {
		rline.SetPrompt(text.PROMPT)
		line, err := rline.Readline()
		if err != nil {
			return
		}
		if r.Do(line) {
			return
		}
	}
}

// Do runs one line of input and says whether the user has asked to quit. Errors are shown
// and the session carries on.
func (r *Repl) Do(line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(r.out, text.HELP)
		return false
	case "vars":
		for _, b := range r.env.Bindings() {
			fmt.Fprintln(r.out, text.BULLET+b.Name+" = "+values.PrintSequence([]values.Value{b.Value}))
		}
		return false
	}
	if strings.HasPrefix(line, "func ") {
		r.define(line)
		return false
	}
	if !strings.HasSuffix(line, ";") && !strings.HasSuffix(line, "}") {
		line = line + ";"
	}
	code, err := parser.ParseCode(line)
	if err != nil {
		report.Render(r.out, err)
		return false
	}
	for _, stmt := range code {
		outcome, v, err := r.ctx.ExecuteStatement(r.env, stmt)
		if err != nil {
			report.Render(r.out, err)
			return false
		}
		if outcome == evaluator.Broke {
			report.Render(r.out, report.CreateErr("eval/break", nil))
			return false
		}
		if (outcome == evaluator.Returned || evaluator.IsExpression(stmt)) && v != values.NULL {
			fmt.Fprintln(r.out, values.PrintSequence([]values.Value{v}))
		}
	}
	return false
}

func (r *Repl) define(line string) {
	table, err := parser.ParseFunctionsFrom("REPL input", line)
	if err != nil {
		report.Render(r.out, err)
		return
	}
	r.ctx.Functions = append(table, r.ctx.Functions...)
	for _, fn := range table {
		fmt.Fprintln(r.out, text.BULLET+"defined "+text.Emph(fn.Name))
	}
}
