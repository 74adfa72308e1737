package evaluator

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/tim-hardcastle/compute/source/parser"
	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/values"
)

type builtin struct {
	minArgs int
	maxArgs int
	fn      func(c *Context, env *Environment, args []values.Value) (values.Value, error)
}

// The built-in functions, which take priority over user-defined functions of the same name.
// This is filled in by init because 'executeline' calls back into the evaluator.
var BUILTINS map[string]builtin

func init() {
	BUILTINS = map[string]builtin{
		"print":       {1, 1, builtinPrint},
		"abs":         {1, 1, builtinAbs},
		"round":       {1, 1, builtinRound},
		"len":         {1, 1, builtinLen},
		"input":       {0, 1, builtinInput},
		"type":        {1, 1, builtinType},
		"hash":        {1, 1, builtinHash},
		"sqrt":        {1, 1, builtinSqrt},
		"range":       {1, 3, builtinRange},
		"int":         {1, 1, builtinInt},
		"str":         {1, 1, builtinStr},
		"float":       {1, 1, builtinFloat},
		"executeline": {1, 1, builtinExecuteline},
		"the_answer":  {0, 0, builtinTheAnswer},
	}
}

func describeArity(min, max int) string {
	if min == max {
		if min == 1 {
			return "1 argument"
		}
		return strconv.Itoa(min) + " arguments"
	}
	return fmt.Sprintf("%v to %v arguments", min, max)
}

func typeError(name string, v values.Value, expects string) error {
	return report.CreateErr("eval/builtin/type", nil, name, values.Describe(v), expects)
}

func builtinPrint(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	c.IO.OutHandle.Out(args[0])
	return values.NULL, nil
}

func builtinAbs(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	switch x := args[0].(type) {
	case values.Integer:
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case values.Float:
		return values.Float(math.Abs(float64(x))), nil
	}
	return nil, typeError("abs", args[0], "a number")
}

func builtinRound(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	switch x := args[0].(type) {
	case values.Integer:
		return x, nil
	case values.Float:
		return values.Integer(math.Round(float64(x))), nil
	}
	return nil, typeError("round", args[0], "a number")
}

// The length of a string is in characters, not bytes.
func builtinLen(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	switch x := args[0].(type) {
	case values.String:
		return values.Integer(len([]rune(string(x)))), nil
	case values.Array:
		return values.Integer(len(x.Elements)), nil
	}
	return nil, typeError("len", args[0], "a string or an array")
}

func builtinInput(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	prompt := ""
	if len(args) == 1 {
		s, ok := args[0].(values.String)
		if !ok {
			return nil, typeError("input", args[0], "a string to use as a prompt")
		}
		prompt = string(s)
	}
	line, err := c.IO.InHandle.Get(prompt)
	if err != nil {
		return nil, report.WrapErr("eval/input", nil, err)
	}
	return values.String(line), nil
}

func builtinType(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	return values.String(values.TypeName(args[0])), nil
}

func builtinHash(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	data, err := values.EncodeValue(args[0])
	if err != nil {
		return nil, report.WrapErr("eval/hash", nil, err)
	}
	sum := blake2b.Sum256(data)
	return values.String(hex.EncodeToString(sum[:])), nil
}

func builtinSqrt(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	switch x := args[0].(type) {
	case values.Integer:
		return values.Float(math.Sqrt(float64(x))), nil
	case values.Float:
		return values.Float(math.Sqrt(float64(x))), nil
	}
	return nil, typeError("sqrt", args[0], "a number")
}

// range(stop), range(start, stop) or range(start, stop, step). The stop is never included;
// with a negative step the range counts down from the start.
func builtinRange(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	bounds := make([]values.Integer, len(args))
	for i, arg := range args {
		n, ok := arg.(values.Integer)
		if !ok {
			return nil, typeError("range", arg, "integers")
		}
		bounds[i] = n
	}
	start, stop, step := values.Integer(0), bounds[0], values.Integer(1)
	if len(bounds) > 1 {
		start, stop = bounds[0], bounds[1]
	}
	if len(bounds) > 2 {
		step = bounds[2]
	}
	if step == 0 {
		return nil, report.CreateErr("eval/range/step", nil)
	}
	// The distances are taken as unsigned so that stepping past the end of the integers
	// stops the range rather than wrapping round.
	var result []values.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			result = append(result, i)
			if uint64(stop)-uint64(i) <= uint64(step) {
				break
			}
		}
	} else {
		for i := start; i > stop; i += step {
			result = append(result, i)
			if uint64(i)-uint64(stop) <= uint64(-step) {
				break
			}
		}
	}
	return values.NewArray(result), nil
}

func builtinInt(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	switch x := args[0].(type) {
	case values.Integer:
		return x, nil
	case values.Float:
		return values.Integer(x), nil
	case values.String:
		i, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		if err != nil {
			return nil, report.CreateErr("eval/convert", nil, "Integer", values.Describe(x))
		}
		return values.Integer(i), nil
	case values.Bool:
		if x {
			return values.Integer(1), nil
		}
		return values.Integer(0), nil
	}
	return nil, report.CreateErr("eval/convert", nil, "Integer", values.Describe(args[0]))
}

func builtinFloat(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	switch x := args[0].(type) {
	case values.Integer:
		return values.Float(x), nil
	case values.Float:
		return x, nil
	case values.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		if err != nil {
			return nil, report.CreateErr("eval/convert", nil, "Float", values.Describe(x))
		}
		return values.Float(f), nil
	}
	return nil, report.CreateErr("eval/convert", nil, "Float", values.Describe(args[0]))
}

func builtinStr(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	return values.String(values.Printable(args[0])), nil
}

func builtinExecuteline(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	s, ok := args[0].(values.String)
	if !ok {
		return nil, typeError("executeline", args[0], "a string of code")
	}
	code, err := parser.ParseCodeFrom("executeline", string(s))
	if err != nil {
		return nil, err
	}
	return c.ExecuteLine(env, code)
}

func builtinTheAnswer(c *Context, env *Environment, args []values.Value) (values.Value, error) {
	c.IO.OutHandle.Out(values.String("42, the answer to the Ultimate Question of Life, the Universe, and Everything."))
	return values.Integer(42), nil
}
