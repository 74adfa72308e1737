package evaluator

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/values"
)

// Members are what follows a '.' after a value, e.g. "abc".uppercase() or x.len. Which
// members there are depends on the type of the value, and each has a fixed number of
// arguments.
type member struct {
	arity int
	fn    func(self values.Value, args []values.Value) (values.Value, error)
}

var MEMBERS = map[values.Kind]map[string]member{
	values.KindString:  STRING_MEMBERS,
	values.KindInteger: INTEGER_MEMBERS,
	values.KindFloat:   FLOAT_MEMBERS,
	values.KindArray:   ARRAY_MEMBERS,
	values.KindFile:    FILE_MEMBERS,
}

func (c *Context) applyMember(name string, self values.Value, args []values.Value) (values.Value, error) {
	typeName := values.TypeName(self)
	m, ok := MEMBERS[values.KindOf(self)][name]
	if !ok {
		return nil, report.CreateErr("eval/member/unknown", nil, name, typeName)
	}
	if len(args) != m.arity {
		return nil, report.CreateErr("eval/member/arity", nil, name, typeName, m.arity, len(args))
	}
	result, err := m.fn(self, args)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// An argument of the wrong type is reported against the member it was passed to.
func memberArg[T values.Value](member string, self, arg values.Value, expects string) (T, error) {
	x, ok := arg.(T)
	if !ok {
		return x, report.CreateErr("eval/member/arg", nil, member, values.TypeName(self), values.Describe(arg), expects)
	}
	return x, nil
}

// The longest string repeat will build.
const maxRepeatBytes = 1 << 30

// A Caser carries state, so each call gets its own.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

var STRING_MEMBERS = map[string]member{
	"uppercase": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.String(upper(string(self.(values.String)))), nil
	}},
	"lowercase": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.String(lower(string(self.(values.String)))), nil
	}},
	"capitalize": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		s := string(self.(values.String))
		_, size := utf8.DecodeRuneInString(s)
		return values.String(upper(s[:size]) + s[size:]), nil
	}},
	"replace": {2, func(self values.Value, args []values.Value) (values.Value, error) {
		old, err := memberArg[values.String]("replace", self, args[0], "a string")
		if err != nil {
			return nil, err
		}
		replacement, err := memberArg[values.String]("replace", self, args[1], "a string")
		if err != nil {
			return nil, err
		}
		return values.String(strings.ReplaceAll(string(self.(values.String)), string(old), string(replacement))), nil
	}},
	"len": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Integer(utf8.RuneCountInString(string(self.(values.String)))), nil
	}},
	"trim": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.String(strings.TrimSpace(string(self.(values.String)))), nil
	}},
	"split": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		sep, err := memberArg[values.String]("split", self, args[0], "a string")
		if err != nil {
			return nil, err
		}
		var result []values.Value
		for _, part := range strings.Split(string(self.(values.String)), string(sep)) {
			result = append(result, values.String(part))
		}
		return values.NewArray(result), nil
	}},
	"contains": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		sub, err := memberArg[values.String]("contains", self, args[0], "a string")
		if err != nil {
			return nil, err
		}
		return values.MakeBool(strings.Contains(string(self.(values.String)), string(sub))), nil
	}},
	"startswith": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		prefix, err := memberArg[values.String]("startswith", self, args[0], "a string")
		if err != nil {
			return nil, err
		}
		return values.MakeBool(strings.HasPrefix(string(self.(values.String)), string(prefix))), nil
	}},
	"endswith": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		suffix, err := memberArg[values.String]("endswith", self, args[0], "a string")
		if err != nil {
			return nil, err
		}
		return values.MakeBool(strings.HasSuffix(string(self.(values.String)), string(suffix))), nil
	}},
	"reverse": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		runes := []rune(string(self.(values.String)))
		slices.Reverse(runes)
		return values.String(runes), nil
	}},
	"repeat": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		n, err := memberArg[values.Integer]("repeat", self, args[0], "an integer")
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, report.CreateErr("eval/member/arg", nil, "repeat", "String", values.Describe(n), "a non-negative integer")
		}
		s := string(self.(values.String))
		if len(s) > 0 && int64(n) > maxRepeatBytes/int64(len(s)) {
			return nil, report.CreateErr("eval/member/arg", nil, "repeat", "String", values.Describe(n), "a count giving a string of at most 1 GiB")
		}
		return values.String(strings.Repeat(s, int(n))), nil
	}},
}

var INTEGER_MEMBERS = map[string]member{
	"abs": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		if n := self.(values.Integer); n < 0 {
			return -n, nil
		}
		return self, nil
	}},
	"pow": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		return apply(values.OpPower, self, args[0])
	}},
	"sqrt": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Float(math.Sqrt(float64(self.(values.Integer)))), nil
	}},
	"min": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		n, err := memberArg[values.Integer]("min", self, args[0], "an integer")
		if err != nil {
			return nil, err
		}
		return min(self.(values.Integer), n), nil
	}},
	"max": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		n, err := memberArg[values.Integer]("max", self, args[0], "an integer")
		if err != nil {
			return nil, err
		}
		return max(self.(values.Integer), n), nil
	}},
	"float": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Float(self.(values.Integer)), nil
	}},
	"str": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.String(values.Printable(self)), nil
	}},
}

// round, floor and ceil give integers, as their results are whole numbers.
var FLOAT_MEMBERS = map[string]member{
	"abs": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Float(math.Abs(float64(self.(values.Float)))), nil
	}},
	"round": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Integer(math.Round(float64(self.(values.Float)))), nil
	}},
	"floor": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Integer(math.Floor(float64(self.(values.Float)))), nil
	}},
	"ceil": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Integer(math.Ceil(float64(self.(values.Float)))), nil
	}},
	"sqrt": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Float(math.Sqrt(float64(self.(values.Float)))), nil
	}},
	"pow": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		return apply(values.OpPower, self, args[0])
	}},
	"int": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Integer(self.(values.Float)), nil
	}},
	"str": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.String(values.Printable(self)), nil
	}},
}

// The array members never change the array they're applied to: 'push' and 'pop' return a
// new one.
var ARRAY_MEMBERS = map[string]member{
	"len": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Integer(len(self.(values.Array).Elements)), nil
	}},
	"contains": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.MakeBool(indexOf(self.(values.Array), args[0]) >= 0), nil
	}},
	"index": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.Integer(indexOf(self.(values.Array), args[0])), nil
	}},
	"push": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		elements := self.(values.Array).Elements
		result := make([]values.Value, 0, len(elements)+1)
		return values.NewArray(append(append(result, elements...), args[0])), nil
	}},
	"pop": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		elements, err := nonEmpty("pop", self)
		if err != nil {
			return nil, err
		}
		return values.NewArray(slices.Clone(elements[:len(elements)-1])), nil
	}},
	"first": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		elements, err := nonEmpty("first", self)
		if err != nil {
			return nil, err
		}
		return elements[0], nil
	}},
	"last": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		elements, err := nonEmpty("last", self)
		if err != nil {
			return nil, err
		}
		return elements[len(elements)-1], nil
	}},
	"reverse": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		result := slices.Clone(self.(values.Array).Elements)
		slices.Reverse(result)
		return values.NewArray(result), nil
	}},
	"sort": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return sortArray(self.(values.Array))
	}},
	"join": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		sep, err := memberArg[values.String]("join", self, args[0], "a string")
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(self.(values.Array).Elements))
		for i, e := range self.(values.Array).Elements {
			parts[i] = values.Printable(e)
		}
		return values.String(strings.Join(parts, string(sep))), nil
	}},
	"sum": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		var total values.Value = values.Integer(0)
		for _, e := range self.(values.Array).Elements {
			var err error
			if total, err = apply(values.OpAdd, total, e); err != nil {
				return nil, report.CreateErr("eval/member/arg", nil, "sum", "Array", values.Describe(e), "numbers")
			}
		}
		return total, nil
	}},
	"min": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return extremum("min", self, values.OpLess)
	}},
	"max": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return extremum("max", self, values.OpGreater)
	}},
	"slice": {2, func(self values.Value, args []values.Value) (values.Value, error) {
		elements := self.(values.Array).Elements
		from, err := memberArg[values.Integer]("slice", self, args[0], "an integer")
		if err != nil {
			return nil, err
		}
		to, err := memberArg[values.Integer]("slice", self, args[1], "an integer")
		if err != nil {
			return nil, err
		}
		if from < 0 || int(from) > len(elements) {
			return nil, report.CreateErr("eval/index/range", nil, int(from), len(elements))
		}
		if to < from || int(to) > len(elements) {
			return nil, report.CreateErr("eval/index/range", nil, int(to), len(elements))
		}
		return values.NewArray(slices.Clone(elements[from:to])), nil
	}},
}

func indexOf(arr values.Array, v values.Value) int {
	return slices.IndexFunc(arr.Elements, func(e values.Value) bool { return values.Equal(e, v) })
}

func nonEmpty(name string, self values.Value) ([]values.Value, error) {
	elements := self.(values.Array).Elements
	if len(elements) == 0 {
		return nil, report.CreateErr("eval/member/empty", nil, name)
	}
	return elements, nil
}

// The elements must all be comparable with one another by the same operator as in the
// language, so an array mixing integers and floats can't be sorted.
func extremum(name string, self values.Value, better values.Operator) (values.Value, error) {
	elements, err := nonEmpty(name, self)
	if err != nil {
		return nil, err
	}
	result := elements[0]
	for _, e := range elements[1:] {
		b, err := apply(better, e, result)
		if err != nil {
			return nil, report.CreateErr("eval/member/arg", nil, name, "Array", values.Describe(e), "elements which can be compared")
		}
		if b == values.TRUE {
			result = e
		}
	}
	return result, nil
}

func sortArray(arr values.Array) (values.Value, error) {
	result := slices.Clone(arr.Elements)
	var failed values.Value
	slices.SortStableFunc(result, func(a, b values.Value) int {
		if failed != nil {
			return 0
		}
		if sa, ok := a.(values.String); ok {
			if sb, ok := b.(values.String); ok {
				return strings.Compare(string(sa), string(sb))
			}
		}
		less, err := apply(values.OpLess, a, b)
		if err != nil {
			failed = b
			return 0
		}
		if less == values.TRUE {
			return -1
		}
		if greater, _ := apply(values.OpGreater, a, b); greater == values.TRUE {
			return 1
		}
		return 0
	})
	if failed != nil {
		return nil, report.CreateErr("eval/member/arg", nil, "sort", "Array", values.Describe(failed), "elements which can be compared")
	}
	return values.NewArray(result), nil
}

var FILE_MEMBERS = map[string]member{
	"read": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		path := self.(values.File).Path
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, report.WrapErr("eval/file", nil, err, "read", path)
		}
		return values.String(data), nil
	}},
	"lines": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		path := self.(values.File).Path
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, report.WrapErr("eval/file", nil, err, "read", path)
		}
		var result []values.Value
		if len(data) > 0 {
			for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
				result = append(result, values.String(strings.TrimSuffix(line, "\r")))
			}
		}
		return values.NewArray(result), nil
	}},
	"write": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		return writeFile("write", self, args[0], os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
	}},
	"append": {1, func(self values.Value, args []values.Value) (values.Value, error) {
		return writeFile("append", self, args[0], os.O_CREATE|os.O_WRONLY|os.O_APPEND)
	}},
	"exists": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		_, err := os.Stat(self.(values.File).Path)
		return values.MakeBool(err == nil), nil
	}},
	"delete": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		path := self.(values.File).Path
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, report.WrapErr("eval/file", nil, err, "delete", path)
		}
		return values.NULL, nil
	}},
	"path": {0, func(self values.Value, args []values.Value) (values.Value, error) {
		return values.String(self.(values.File).Path), nil
	}},
}

func writeFile(name string, self, arg values.Value, flag int) (values.Value, error) {
	s, err := memberArg[values.String](name, self, arg, "a string")
	if err != nil {
		return nil, err
	}
	path := self.(values.File).Path
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, report.WrapErr("eval/file", nil, err, name, path)
	}
	defer f.Close()
	if _, err := f.WriteString(string(s)); err != nil {
		return nil, report.WrapErr("eval/file", nil, err, name, path)
	}
	return values.NULL, nil
}
