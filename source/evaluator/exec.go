package evaluator

import (
	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/values"
)

// How a sequence of statements finished.
type Outcome int

const (
	Normal Outcome = iota
	Returned
	Broke
)

func (o Outcome) String() string {
	switch o {
	case Returned:
		return "Returned"
	case Broke:
		return "Broke"
	}
	return "Normal"
}

// A Result is what running a sequence of statements produces. Touched lists the bindings of
// the enclosing environment which were reassigned, so that the caller can write them back.
type Result struct {
	Value   values.Value
	Outcome Outcome
	Touched []Binding
}

// Execute runs statements in order until one of them returns or breaks, or they run out, in
// which case the value is Null.
func (c *Context) Execute(env *Environment, code [][]values.Value) (Result, error) {
	for _, stmt := range code {
		outcome, value, err := c.ExecuteStatement(env, stmt)
		if err != nil {
			return Result{}, err
		}
		if outcome != Normal {
			return Result{Value: value, Outcome: outcome, Touched: env.Touched()}, nil
		}
	}
	return Result{Value: values.NULL, Outcome: Normal, Touched: env.Touched()}, nil
}

// IsExpression says whether a statement is a bare expression rather than a declaration, a
// control structure, a return or a break.
func IsExpression(stmt []values.Value) bool {
	stmt = unwrap(stmt)
	if len(stmt) != 1 {
		return len(stmt) > 0
	}
	switch stmt[0].(type) {
	case values.VariableDeclaration, values.FunctionReturn, values.Break,
		values.Condition, values.While, values.Loop:
		return false
	}
	return true
}

func unwrap(stmt []values.Value) []values.Value {
	for len(stmt) == 1 {
		w, ok := stmt[0].(values.Wrap)
		if !ok {
			break
		}
		stmt = w.Inner
	}
	return stmt
}

// ExecuteStatement runs one statement. For a bare expression the value returned is the value
// of the expression, for a return statement it is the value returned, and otherwise Null.
func (c *Context) ExecuteStatement(env *Environment, stmt []values.Value) (Outcome, values.Value, error) {
	stmt = unwrap(stmt)
	if len(stmt) == 1 {
		switch s := stmt[0].(type) {
		case values.VariableDeclaration:
			v, err := c.Evaluate(env, s.Expr)
			if err != nil {
				return Normal, nil, err
			}
			if !s.Redeclare {
				env.Declare(s.Name, v)
				return Normal, values.NULL, nil
			}
			if !env.Assign(s.Name, v) {
				return Normal, nil, report.CreateErr("eval/var/undeclared", nil, s.Name)
			}
			return Normal, values.NULL, nil
		case values.FunctionReturn:
			if len(s.Expr) == 0 {
				return Returned, values.NULL, nil
			}
			v, err := c.Evaluate(env, s.Expr)
			if err != nil {
				return Normal, nil, err
			}
			return Returned, v, nil
		case values.Break:
			return Broke, values.NULL, nil
		case values.Condition:
			return c.executeCondition(env, s)
		case values.While:
			return c.executeWhile(env, s)
		case values.Loop:
			return c.executeLoop(env, s)
		}
	}
	v, err := c.Evaluate(env, stmt)
	if err != nil {
		return Normal, nil, err
	}
	return Normal, v, nil
}

// A block runs in a snapshot of the environment. Whatever it reassigns in the environment is
// written back even when it returns or breaks.
func (c *Context) runBlock(env *Environment, body [][]values.Value) (Outcome, values.Value, error) {
	result, err := c.Execute(env.Child(), body)
	if err != nil {
		return Normal, nil, err
	}
	env.Merge(result.Touched)
	return result.Outcome, result.Value, nil
}

func (c *Context) evaluateGuard(env *Environment, kind string, guard []values.Value) (bool, error) {
	v, err := c.Evaluate(env, guard)
	if err != nil {
		return false, err
	}
	b, ok := v.(values.Bool)
	if !ok {
		return false, report.CreateErr("eval/guard", nil, kind, values.Describe(v))
	}
	return bool(b), nil
}

func (c *Context) executeCondition(env *Environment, cond values.Condition) (Outcome, values.Value, error) {
	ok, err := c.evaluateGuard(env, "if", cond.Guard)
	if err != nil {
		return Normal, nil, err
	}
	if ok {
		return c.runBlock(env, cond.Then)
	}
	for _, branch := range cond.Else {
		if len(branch.Guard) > 0 {
			ok, err := c.evaluateGuard(env, "else if", branch.Guard)
			if err != nil {
				return Normal, nil, err
			}
			if !ok {
				continue
			}
		}
		return c.runBlock(env, branch.Body)
	}
	return Normal, values.NULL, nil
}

// A break inside a conditional passes through it to the loop, so it's only the loops which
// turn Broke back into Normal.
func (c *Context) executeWhile(env *Environment, loop values.While) (Outcome, values.Value, error) {
	for {
		ok, err := c.evaluateGuard(env, "while", loop.Guard)
		if err != nil || !ok {
			return Normal, values.NULL, err
		}
		outcome, v, err := c.runBlock(env, loop.Body)
		if err != nil {
			return Normal, nil, err
		}
		switch outcome {
		case Returned:
			return Returned, v, nil
		case Broke:
			return Normal, values.NULL, nil
		}
	}
}

func (c *Context) executeLoop(env *Environment, loop values.Loop) (Outcome, values.Value, error) {
	iterable, err := c.Evaluate(env, loop.Iterable)
	if err != nil {
		return Normal, nil, err
	}
	var items []values.Value
	switch it := iterable.(type) {
	case values.Array:
		items = it.Elements
	case values.String:
		for _, r := range string(it) {
			items = append(items, values.String(r))
		}
	default:
		return Normal, nil, report.CreateErr("eval/iterate", nil, values.Describe(iterable))
	}
	for _, item := range items {
		child := env.Child()
		child.Declare(loop.Name, item)
		result, err := c.Execute(child, loop.Body)
		if err != nil {
			return Normal, nil, err
		}
		env.Merge(result.Touched)
		switch result.Outcome {
		case Returned:
			return Returned, result.Value, nil
		case Broke:
			return Normal, values.NULL, nil
		}
	}
	return Normal, values.NULL, nil
}

// ExecuteLine runs code given at run time as a block in the caller's environment. A single
// expression gives its own value; otherwise the value is whatever the code returns.
func (c *Context) ExecuteLine(env *Environment, code [][]values.Value) (values.Value, error) {
	if len(code) == 1 && IsExpression(code[0]) {
		return c.Evaluate(env, unwrap(code[0]))
	}
	outcome, v, err := c.runBlock(env, code)
	if err != nil {
		return nil, err
	}
	if outcome == Broke {
		return nil, report.CreateErr("eval/break", nil)
	}
	return v, nil
}
