package evaluator

import (
	"math"
	"os"
	"runtime"
	"time"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/values"
)

// The namespaced built-ins, called as e.g. io.read("file.txt"). The names of the namespaces
// must agree with the ones the parser recognizes.
type namespaced struct {
	minArgs int
	maxArgs int
	fn      func(c *Context, args []values.Value) (values.Value, error)
}

const variadic = math.MaxInt

var NAMESPACES = map[string]map[string]namespaced{
	"io":   IO_FUNCTIONS,
	"os":   OS_FUNCTIONS,
	"time": TIME_FUNCTIONS,
	"math": MATH_FUNCTIONS,
	"sql":  SQL_FUNCTIONS,
}

func stringArg(name string, arg values.Value) (string, error) {
	s, ok := arg.(values.String)
	if !ok {
		return "", typeError(name, arg, "a string")
	}
	return string(s), nil
}

func numberArg(name string, arg values.Value) (float64, error) {
	switch x := arg.(type) {
	case values.Integer:
		return float64(x), nil
	case values.Float:
		return float64(x), nil
	}
	return 0, typeError(name, arg, "a number")
}

var IO_FUNCTIONS = map[string]namespaced{
	"open": {1, 1, func(c *Context, args []values.Value) (values.Value, error) {
		path, err := stringArg("io.open", args[0])
		if err != nil {
			return nil, err
		}
		return values.File{Path: path}, nil
	}},
	"read": {1, 1, func(c *Context, args []values.Value) (values.Value, error) {
		path, err := stringArg("io.read", args[0])
		if err != nil {
			return nil, err
		}
		return c.applyMember("read", values.File{Path: path}, nil)
	}},
	"write": {2, 2, func(c *Context, args []values.Value) (values.Value, error) {
		path, err := stringArg("io.write", args[0])
		if err != nil {
			return nil, err
		}
		return c.applyMember("write", values.File{Path: path}, args[1:])
	}},
	"exists": {1, 1, func(c *Context, args []values.Value) (values.Value, error) {
		path, err := stringArg("io.exists", args[0])
		if err != nil {
			return nil, err
		}
		return c.applyMember("exists", values.File{Path: path}, nil)
	}},
}

var OS_FUNCTIONS = map[string]namespaced{
	"env": {1, 1, func(c *Context, args []values.Value) (values.Value, error) {
		name, err := stringArg("os.env", args[0])
		if err != nil {
			return nil, err
		}
		if v, ok := os.LookupEnv(name); ok {
			return values.String(v), nil
		}
		return values.NULL, nil
	}},
	"cwd": {0, 0, func(c *Context, args []values.Value) (values.Value, error) {
		dir, err := os.Getwd()
		if err != nil {
			return nil, report.WrapErr("eval/file", nil, err, "find", ".")
		}
		return values.String(dir), nil
	}},
	"platform": {0, 0, func(c *Context, args []values.Value) (values.Value, error) {
		return values.String(runtime.GOOS), nil
	}},
	"args": {0, 0, func(c *Context, args []values.Value) (values.Value, error) {
		var result []values.Value
		for _, arg := range c.Args {
			result = append(result, values.String(arg))
		}
		return values.NewArray(result), nil
	}},
}

var TIME_FUNCTIONS = map[string]namespaced{
	"now": {0, 0, func(c *Context, args []values.Value) (values.Value, error) {
		return values.Float(float64(time.Now().UnixMicro()) / 1e6), nil
	}},
	"millis": {0, 0, func(c *Context, args []values.Value) (values.Value, error) {
		return values.Integer(time.Now().UnixMilli()), nil
	}},
	"sleep": {1, 1, func(c *Context, args []values.Value) (values.Value, error) {
		ms, ok := args[0].(values.Integer)
		if !ok || ms < 0 {
			return nil, report.CreateErr("eval/time/sleep", nil, values.Printable(args[0]))
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return values.NULL, nil
	}},
}

func mathFunction(name string, f func(float64) float64) namespaced {
	return namespaced{1, 1, func(c *Context, args []values.Value) (values.Value, error) {
		x, err := numberArg("math."+name, args[0])
		if err != nil {
			return nil, err
		}
		return values.Float(f(x)), nil
	}}
}

var MATH_FUNCTIONS = map[string]namespaced{
	"pi": {0, 0, func(c *Context, args []values.Value) (values.Value, error) {
		return values.Float(math.Pi), nil
	}},
	"floor": mathFunction("floor", math.Floor),
	"ceil":  mathFunction("ceil", math.Ceil),
	"log":   mathFunction("log", math.Log),
	"sin":   mathFunction("sin", math.Sin),
	"cos":   mathFunction("cos", math.Cos),
}

// A database is referred to by the handle 'sql.open' returns. Any arguments after the query
// are passed to it as parameters.
var SQL_FUNCTIONS = map[string]namespaced{
	"open": {2, 2, func(c *Context, args []values.Value) (values.Value, error) {
		driver, err := stringArg("sql.open", args[0])
		if err != nil {
			return nil, err
		}
		dsn, err := stringArg("sql.open", args[1])
		if err != nil {
			return nil, err
		}
		handle, err := c.Databases.Open(driver, dsn)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("opened database", "driver", driver, "handle", handle)
		return values.String(handle), nil
	}},
	"exec": {2, variadic, func(c *Context, args []values.Value) (values.Value, error) {
		handle, query, err := handleAndQuery("sql.exec", args)
		if err != nil {
			return nil, err
		}
		n, err := c.Databases.Exec(handle, query, args[2:])
		if err != nil {
			return nil, err
		}
		return values.Integer(n), nil
	}},
	"query": {2, variadic, func(c *Context, args []values.Value) (values.Value, error) {
		handle, query, err := handleAndQuery("sql.query", args)
		if err != nil {
			return nil, err
		}
		return c.Databases.Query(handle, query, args[2:])
	}},
	"close": {1, 1, func(c *Context, args []values.Value) (values.Value, error) {
		handle, err := stringArg("sql.close", args[0])
		if err != nil {
			return nil, err
		}
		return values.NULL, c.Databases.Close(handle)
	}},
}

func handleAndQuery(name string, args []values.Value) (string, string, error) {
	handle, err := stringArg(name, args[0])
	if err != nil {
		return "", "", err
	}
	query, err := stringArg(name, args[1])
	return handle, query, err
}
