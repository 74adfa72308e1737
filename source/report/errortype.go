package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/tim-hardcastle/compute/source/text"
	"github.com/tim-hardcastle/compute/source/token"
)

// The 'error' type. Every failure in preprocessing, parsing, the cache or the evaluator
// is one of these, and all of them are fatal to the run.
type Error struct {
	ErrorId  string
	Message  string
	Solution string
	Args     []any
	Trace    []string     // Names of the user functions the error passed through, innermost first.
	Token    *token.Token // May be nil for errors at runtime.
	Err      error        // The Go error underlying this one, if any.
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) AddToTrace(fnName string) {
	e.Trace = append(e.Trace, fnName)
}

// CreateErr looks the id up in the ErrorCreatorMap and fills in the message and the
// possible solution from the args.
func CreateErr(errorId string, tok *token.Token, args ...any) *Error {
	creator, ok := ErrorCreatorMap[errorId]
	if !ok {
		panic("unknown error id " + strconv.Quote(errorId))
	}
	e := &Error{ErrorId: errorId, Args: args, Token: tok}
	e.Message = creator.Message(tok, args...)
	if creator.Solution != nil {
		e.Solution = creator.Solution(tok, args...)
	}
	return e
}

// WrapErr is CreateErr for failures that come out of Go libraries: the underlying error is
// kept for errors.Is and errors.As and is passed to the creator as its last argument.
func WrapErr(errorId string, tok *token.Token, err error, args ...any) *Error {
	e := CreateErr(errorId, tok, append(args, err)...)
	e.Err = err
	return e
}

// AsError extracts a *Error from anything in the chain, converting a foreign error into an
// "internal" one if there isn't one.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return WrapErr("internal", nil, err)
}

const rule = "--------------"

// Render writes an error in the form the command line shows it.
func Render(w io.Writer, err error) {
	e := AsError(err)
	heading := color.New(color.FgRed, color.Bold).SprintFunc()
	sub := color.New(color.FgYellow).SprintFunc()
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString(heading("COMPUTE ERROR:") + "\n")
	b.WriteString(" " + e.Message + text.DescribePos(e.Token) + "\n")
	if len(e.Trace) > 0 {
		b.WriteString(" in " + strings.Join(e.Trace, " <- ") + "\n")
	}
	if e.Solution != "" {
		b.WriteString(sub("POSSIBLE SOLUTION:") + "\n")
		b.WriteString(text.Pretty(e.Solution, 1, 78))
	}
	b.WriteString(rule + "\n")
	fmt.Fprint(w, b.String())
}
