package evaluator

import (
	"bytes"
	"io"
	"strings"

	"github.com/lmorg/readline"

	"github.com/tim-hardcastle/compute/source/values"
)

// The IoHandler is where 'input' and 'print' get and send their text, so that tests and the
// REPL can supply their own.
type IoHandler struct {
	InHandle  InHandler
	OutHandle OutHandler
}

type InHandler interface {
	Get(prompt string) (string, error)
}

type OutHandler interface {
	Out(v values.Value)
}

func MakeStandardIoHandler(out io.Writer) IoHandler {
	iH := &standardInHandler{}
	oH := &standardOutHandler{out: out}
	return IoHandler{InHandle: iH, OutHandle: oH}
}

type standardInHandler struct{}

func (iH *standardInHandler) Get(prompt string) (string, error) {
	rline := readline.NewInstance()
	rline.SetPrompt(prompt)
	return rline.Readline()
}

type standardOutHandler struct {
	out io.Writer
}

func (oH *standardOutHandler) Out(v values.Value) {
	var out bytes.Buffer
	out.WriteString(values.Printable(v))
	out.WriteRune('\n')
	oH.out.Write(out.Bytes())
}

// For tests: the input is supplied in advance and the output is collected.
func MakeTestIoHandler(out io.Writer, lines ...string) IoHandler {
	return IoHandler{InHandle: &testInHandler{lines: lines}, OutHandle: &standardOutHandler{out: out}}
}

type testInHandler struct {
	lines []string
}

func (iH *testInHandler) Get(prompt string) (string, error) {
	if len(iH.lines) == 0 {
		return "", io.EOF
	}
	line := iH.lines[0]
	iH.lines = iH.lines[1:]
	return strings.TrimRight(line, "\n"), nil
}
