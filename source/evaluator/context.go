package evaluator

import (
	"io"
	"log/slog"

	"github.com/tim-hardcastle/compute/source/database"
	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/values"
)

// The Context carries what the evaluator needs besides the environment: the functions it can
// call, where its input and output go, and how deeply it is allowed to recurse. One Context
// serves one run of a program.
type Context struct {
	Functions values.FunctionTable
	IO        IoHandler
	Logger    *slog.Logger
	MaxDepth  int
	Args      []string // What 'os.args' returns.
	Databases *database.Databases
	depth     int
}

const DEFAULT_MAX_DEPTH = 10000

func NewContext(functions values.FunctionTable, ioHandler IoHandler, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Context{
		Functions: functions,
		IO:        ioHandler,
		Logger:    logger,
		MaxDepth:  DEFAULT_MAX_DEPTH,
		Databases: database.New(),
	}
}

// Call runs a function, built-in or user-defined, on arguments which have already been
// evaluated.
func (c *Context) Call(env *Environment, name string, args []values.Value) (values.Value, error) {
	if builtin, ok := BUILTINS[name]; ok {
		if len(args) < builtin.minArgs || len(args) > builtin.maxArgs {
			return nil, report.CreateErr("eval/builtin/arity", nil, name, describeArity(builtin.minArgs, builtin.maxArgs), len(args))
		}
		return builtin.fn(c, env, args)
	}
	fn, ok := c.Functions.Lookup(name)
	if !ok {
		return nil, report.CreateErr("eval/func/unknown", nil, name)
	}
	return c.CallFunction(fn, args)
}

// CallFunction runs a user-defined function in a fresh environment holding only its
// parameters. Nothing the function does to its environment is visible to the caller.
func (c *Context) CallFunction(fn *values.Function, args []values.Value) (values.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, report.CreateErr("eval/func/arity", nil, fn.Name, len(fn.Params), len(args))
	}
	if c.depth >= c.MaxDepth {
		return nil, report.CreateErr("eval/depth", nil, c.MaxDepth)
	}
	c.depth++
	defer func() { c.depth-- }()
	env := NewEnvironment()
	for i, param := range fn.Params {
		env.Declare(param, args[i])
	}
	result, err := c.Execute(env, fn.Body)
	if err != nil {
		if e, ok := err.(*report.Error); ok {
			e.AddToTrace(fn.Name)
		}
		return nil, err
	}
	if result.Outcome == Broke {
		e := report.CreateErr("eval/break", nil)
		e.AddToTrace(fn.Name)
		return nil, e
	}
	return result.Value, nil
}

// CallNamespace runs a function of one of the built-in namespaces. It reports whether the
// function exists separately from whether it failed.
func (c *Context) CallNamespace(path []string, name string, args []values.Value) (values.Value, bool, error) {
	if len(path) != 1 {
		return nil, false, nil
	}
	fn, ok := NAMESPACES[path[0]][name]
	if !ok {
		return nil, false, nil
	}
	if len(args) < fn.minArgs || len(args) > fn.maxArgs {
		return nil, true, report.CreateErr("eval/builtin/arity", nil, path[0]+"."+name, describeArity(fn.minArgs, fn.maxArgs), len(args))
	}
	result, err := fn.fn(c, args)
	return result, true, err
}
