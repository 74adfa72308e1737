package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/compute/source/parser"
	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/test_helper"
	"github.com/tim-hardcastle/compute/source/values"
)

func TestParser(t *testing.T) {
	tests := []test_helper.TestItem{
		{Input: `2 + 3 * 4;`, Want: `2 + 3 * 4`},
		{Input: `-5 + x;`, Want: `-5 + x`},
		{Input: `-x * 2;`, Want: `(0 - x) * 2`},
		{Input: `(1 + 2) * 3;`, Want: `(1 + 2) * 3`},
		{Input: `1.5 ^ 2;`, Want: `1.5 ^ 2`},
		{Input: `Null == Null;`, Want: `Null == Null`},
		{Input: `a || b && c;`, Want: `a || b && c`},
		{Input: `[1, 2 + 3, "a"];`, Want: `[1, 2 + 3, "a"]`},
		{Input: `[];`, Want: `[]`},
		{Input: `[[1, 2], [3, 4]][1][0];`, Want: `[[1, 2], [3, 4]][1][0]`},
		{Input: `"hello"[1];`, Want: `"hello"[1]`},
		{Input: `"abc".uppercase().len;`, Want: `(("abc" .uppercase()) .len)`},
		{Input: `print(1, x);`, Want: `print(1 , x)`},
		{Input: `io.open("f.txt");`, Want: `io.open("f.txt")`},
		{Input: `let x = 1;`, Want: `let x = 1`},
		{Input: `x = x + 1;`, Want: `x = x + 1`},
		{Input: `return;`, Want: `return`},
		{Input: `return x;`, Want: `return x`},
		{Input: `break;`, Want: `break`},
		{Input: `if x > 1 { print(x); } else { }`, Want: `if x > 1 {...}`},
		{Input: `for c in "abc" { }`, Want: `for c in "abc" {...}`},
		{Input: `while true { }`, Want: `while true {...}`},
		{Input: `1; 2;`, Want: `1 ; 2`},
		{Input: `1 +;`, Want: `error parse/expected`},
		{Input: `let = 4;`, Want: `error parse/expected`},
		{Input: `(1;`, Want: `error parse/expected`},
		{Input: `1`, Want: `error parse/eof`},
		{Input: `else { }`, Want: `error parse/else`},
		{Input: `();`, Want: `error parse/empty`},
		{Input: `"abc`, Want: `error lex/quote`},
		{Input: `io.open;`, Want: `error parse/expected`},
		{Input: `func f() { }`, Want: `error parse/expected`},
	}
	test_helper.RunTest(t, tests, testParserOutput)
}

func testParserOutput(s string) (string, error) {
	groups, err := parser.ParseCode(s)
	if err != nil {
		return "", err
	}
	parts := []string{}
	for _, group := range groups {
		parts = append(parts, values.PrintSequence(group))
	}
	return strings.Join(parts, " ; "), nil
}

func TestLogicalStructure(t *testing.T) {
	groups, err := parser.ParseCode(`a || b && c;`)
	require.NoError(t, err)
	require.Equal(t, [][]values.Value{{
		values.VariableIdentifier{Name: "a"},
		values.Or{Operands: []values.Value{
			values.VariableIdentifier{Name: "b"},
			values.And{Operands: []values.Value{values.VariableIdentifier{Name: "c"}}},
		}},
	}}, groups)

	groups, err = parser.ParseCode(`x > 1 && y;`)
	require.NoError(t, err)
	require.Equal(t, [][]values.Value{{
		values.VariableIdentifier{Name: "x"},
		values.Operation{Op: values.OpGreater},
		values.Integer(1),
		values.And{Operands: []values.Value{values.VariableIdentifier{Name: "y"}}},
	}}, groups)
}

func TestSuiteStructure(t *testing.T) {
	groups, err := parser.ParseCode(`a[1 + 1][0];`)
	require.NoError(t, err)
	require.Equal(t, [][]values.Value{{
		values.Array{IsSuite: true, Elements: []values.Value{
			values.VariableIdentifier{Name: "a"},
			values.Array{IsParsed: true, Elements: []values.Value{
				values.Wrap{Inner: []values.Value{values.Integer(1), values.Operation{Op: values.OpAdd}, values.Integer(1)}},
			}},
			values.Array{IsParsed: true, Elements: []values.Value{values.Integer(0)}},
		}},
	}}, groups)
}

func TestConditionStructure(t *testing.T) {
	groups, err := parser.ParseCode(`if a { 1; } else if b { 2; } else { 3; }`)
	require.NoError(t, err)
	require.Equal(t, [][]values.Value{{
		values.Condition{
			Guard: []values.Value{values.VariableIdentifier{Name: "a"}},
			Then:  [][]values.Value{{values.Integer(1)}},
			Else: []values.ElseBranch{
				{Guard: []values.Value{values.VariableIdentifier{Name: "b"}}, Body: [][]values.Value{{values.Integer(2)}}},
				{Body: [][]values.Value{{values.Integer(3)}}},
			},
		},
	}}, groups)
}

const program = `
func add(a, b) {
    return a + b;
}

func main() {
    let xs = [1, 2.5, "three", true, Null];
    for x in xs {
        if x == Null { break; } else { print(x); }
    }
    while false { }
    print(add(1, -2), io.exists("f"), "abc".replace("a", "b")[0]);
    return;
}`

func TestParseFunctions(t *testing.T) {
	table, err := parser.ParseFunctions(program)
	require.NoError(t, err)
	require.Equal(t, []string{"add", "main"}, table.Names())
	add, ok := table.Lookup("add")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, add.Params)
	main, ok := table.Lookup("main")
	require.True(t, ok)
	require.Nil(t, main.Params)
	require.Len(t, main.Body, 5)
}

func TestFunctionTableRoundTrip(t *testing.T) {
	table, err := parser.ParseFunctions(program)
	require.NoError(t, err)
	data, err := values.EncodeTable(table)
	require.NoError(t, err)
	decoded, err := values.DecodeTable(data)
	require.NoError(t, err)
	require.Equal(t, table, decoded)
}

func TestParseFunctionsErrors(t *testing.T) {
	tests := []struct {
		input   string
		errorId string
	}{
		{"func f() { }\nfunc f() { }", "parse/func/dup"},
		{"let x = 1;", "parse/toplevel"},
		{"func f(a b) { }", "parse/expected"},
		{"func () { }", "parse/expected"},
		{"func f() { return 1; ", "parse/eof"},
	}
	for _, tt := range tests {
		_, err := parser.ParseFunctions(tt.input)
		require.Error(t, err, tt.input)
		require.Equal(t, tt.errorId, err.(*report.Error).ErrorId, tt.input)
	}
}
