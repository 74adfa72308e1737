package evaluator

import (
	"strings"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/values"
)

// Evaluate reduces the tokens of one expression to a single evaluated value. The tokens are
// operands alternating with operators, and are folded from left to right into an accumulator,
// with no precedence other than what the parser has grouped into a Priority. Members and the
// right-hand sides of '||' and '&&' apply to whatever has been accumulated so far.
func (c *Context) Evaluate(env *Environment, expr []values.Value) (values.Value, error) {
	var output values.Value = values.NULL
	seeded := false
	op := values.OpNone
	for _, tok := range expr {
		switch tok := tok.(type) {
		case values.Operation:
			if !seeded || op != values.OpNone {
				return nil, report.CreateErr("eval/operator/dangling", nil, tok.Op.Symbol())
			}
			op = tok.Op
		case values.Or:
			if err := c.checkApplicable(seeded, op, "||"); err != nil {
				return nil, err
			}
			result, err := c.evaluateLogic(env, "||", output, tok.Operands, true)
			if err != nil {
				return nil, err
			}
			output = result
		case values.And:
			if err := c.checkApplicable(seeded, op, "&&"); err != nil {
				return nil, err
			}
			result, err := c.evaluateLogic(env, "&&", output, tok.Operands, false)
			if err != nil {
				return nil, err
			}
			output = result
		case values.Property:
			if err := c.checkApplicable(seeded, op, "."+tok.Name); err != nil {
				return nil, err
			}
			result, err := c.applyMember(tok.Name, output, nil)
			if err != nil {
				return nil, err
			}
			output = result
		case values.PropertyFunction:
			if err := c.checkApplicable(seeded, op, "."+tok.Name); err != nil {
				return nil, err
			}
			args, err := c.evaluateArgs(env, tok.Args)
			if err != nil {
				return nil, err
			}
			result, err := c.applyMember(tok.Name, output, args)
			if err != nil {
				return nil, err
			}
			output = result
		default:
			v, err := c.reduce(env, tok)
			if err != nil {
				return nil, err
			}
			if !seeded {
				output, seeded = v, true
				continue
			}
			if op == values.OpNone {
				return nil, report.CreateErr("eval/operator/missing", nil, values.Describe(v))
			}
			if output, err = apply(op, output, v); err != nil {
				return nil, err
			}
			op = values.OpNone
		}
	}
	if !seeded {
		return nil, report.CreateErr("eval/empty", nil)
	}
	if op != values.OpNone {
		return nil, report.CreateErr("eval/operator/dangling", nil, op.Symbol())
	}
	return output, nil
}

func (c *Context) checkApplicable(seeded bool, op values.Operator, what string) error {
	if !seeded {
		return report.CreateErr("eval/operator/dangling", nil, what)
	}
	if op != values.OpNone {
		return report.CreateErr("eval/operator/dangling", nil, op.Symbol())
	}
	return nil
}

// The right-hand side is only evaluated, and so only checked, if the left-hand side doesn't
// decide the result on its own: for '||' when it's false and for '&&' when it's true.
func (c *Context) evaluateLogic(env *Environment, symbol string, left values.Value, rhs []values.Value, decidesOn bool) (values.Value, error) {
	l, ok := left.(values.Bool)
	if !ok {
		return nil, report.CreateErr("eval/logic/type", nil, symbol, values.Describe(left))
	}
	if bool(l) == decidesOn {
		return l, nil
	}
	right, err := c.Evaluate(env, rhs)
	if err != nil {
		return nil, err
	}
	r, ok := right.(values.Bool)
	if !ok {
		return nil, report.CreateErr("eval/logic/type", nil, symbol, values.Describe(right))
	}
	return r, nil
}

// reduce turns a single operand into an evaluated value.
func (c *Context) reduce(env *Environment, tok values.Value) (values.Value, error) {
	switch tok := tok.(type) {
	case values.Null, values.Integer, values.Float, values.String, values.Bool, values.File:
		return tok, nil
	case values.Array:
		return c.evaluateArray(env, tok)
	case values.VariableIdentifier:
		b, ok := env.Lookup(tok.Name)
		if !ok {
			return nil, report.CreateErr("eval/var/undefined", nil, tok.Name)
		}
		return b.Value, nil
	case values.FunctionCall:
		args, err := c.evaluateArgs(env, tok.Args)
		if err != nil {
			return nil, err
		}
		return c.Call(env, tok.Name, args)
	case values.NamespaceFunctionCall:
		args, err := c.evaluateArgs(env, tok.Args)
		if err != nil {
			return nil, err
		}
		result, found, err := c.CallNamespace(tok.Namespace, tok.Name, args)
		if !found {
			return nil, report.CreateErr("eval/namespace/unknown", nil, strings.Join(tok.Namespace, "."), tok.Name)
		}
		return result, err
	case values.Priority:
		return c.Evaluate(env, tok.Expr)
	case values.Wrap:
		return c.Evaluate(env, tok.Inner)
	}
	return nil, report.CreateErr("eval/statement", nil, values.Printable(tok))
}

func (c *Context) evaluateArgs(env *Environment, args []values.Value) ([]values.Value, error) {
	var result []values.Value
	for _, arg := range values.SplitArgs(args) {
		v, err := c.Evaluate(env, arg)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// An array token is either a literal whose elements need evaluating, a suite meaning a base
// followed by index groups, or a value.
func (c *Context) evaluateArray(env *Environment, arr values.Array) (values.Value, error) {
	switch {
	case arr.IsParsed:
		elements := make([]values.Value, len(arr.Elements))
		for i, e := range arr.Elements {
			v, err := c.reduce(env, e)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return values.NewArray(elements), nil
	case arr.IsSuite:
		return c.evaluateSuite(env, arr.Elements)
	}
	return arr, nil
}

// The indices are applied from left to right, so that x[i][j] is the jth element of the ith
// element of x.
func (c *Context) evaluateSuite(env *Environment, suite []values.Value) (values.Value, error) {
	if len(suite) == 0 {
		return nil, report.CreateErr("eval/empty", nil)
	}
	result, err := c.reduce(env, suite[0])
	if err != nil {
		return nil, err
	}
	for _, group := range suite[1:] {
		index, err := c.reduce(env, group)
		if err != nil {
			return nil, err
		}
		indexArray, ok := index.(values.Array)
		if !ok || len(indexArray.Elements) != 1 {
			n := 1
			if ok {
				n = len(indexArray.Elements)
			}
			return nil, report.CreateErr("eval/index/count", nil, n)
		}
		if result, err = indexInto(result, indexArray.Elements[0]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func indexInto(target, index values.Value) (values.Value, error) {
	i, ok := index.(values.Integer)
	if !ok {
		return nil, report.CreateErr("eval/index/type", nil, values.Describe(index))
	}
	switch target := target.(type) {
	case values.Array:
		if i < 0 || int(i) >= len(target.Elements) {
			return nil, report.CreateErr("eval/index/range", nil, int(i), len(target.Elements))
		}
		return target.Elements[i], nil
	case values.String:
		runes := []rune(string(target))
		if i < 0 || int(i) >= len(runes) {
			return nil, report.CreateErr("eval/index/range", nil, int(i), len(runes))
		}
		return values.String(runes[i]), nil
	}
	return nil, report.CreateErr("eval/index/target", nil, values.Describe(target))
}
