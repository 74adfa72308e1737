package values

import (
	"strconv"
	"strings"
)

// Printable gives the form in which 'print' shows a value. At the top level a string is
// shown raw; inside an array it is quoted so that ["1"] and [1] can be told apart.
func Printable(v Value) string {
	return printable(v, false)
}

func printable(v Value, nested bool) string {
	switch v := v.(type) {
	case Null:
		return "Null"
	case Integer:
		return strconv.FormatInt(int64(v), 10)
	case Float:
		return FormatFloat(float64(v))
	case String:
		if nested {
			return strconv.Quote(string(v))
		}
		return string(v)
	case Bool:
		return strconv.FormatBool(bool(v))
	case Array:
		if v.IsSuite && len(v.Elements) > 0 {
			result := printable(v.Elements[0], true)
			for _, index := range v.Elements[1:] {
				result += printable(index, true)
			}
			return result
		}
		elements := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			elements[i] = printable(e, true)
		}
		return "[" + strings.Join(elements, ", ") + "]"
	case File:
		return "File(" + strconv.Quote(v.Path) + ")"
	case Or:
		return "|| " + PrintSequence(v.Operands)
	case And:
		return "&& " + PrintSequence(v.Operands)
	case Property:
		return "." + v.Name
	case PropertyFunction:
		return "." + v.Name + "(" + PrintSequence(v.Args) + ")"
	case VariableIdentifier:
		return v.Name
	case FunctionCall:
		return v.Name + "(" + PrintSequence(v.Args) + ")"
	case NamespaceFunctionCall:
		return strings.Join(v.Namespace, ".") + "." + v.Name + "(" + PrintSequence(v.Args) + ")"
	case FunctionReturn:
		if len(v.Expr) == 0 {
			return "return"
		}
		return "return " + PrintSequence(v.Expr)
	case Priority:
		return "(" + PrintSequence(v.Expr) + ")"
	case Operation:
		return v.Op.Symbol()
	case VariableDeclaration:
		if v.Redeclare {
			return v.Name + " = " + PrintSequence(v.Expr)
		}
		return "let " + v.Name + " = " + PrintSequence(v.Expr)
	case Condition:
		return "if " + PrintSequence(v.Guard) + " {...}"
	case While:
		return "while " + PrintSequence(v.Guard) + " {...}"
	case Loop:
		return "for " + v.Name + " in " + PrintSequence(v.Iterable) + " {...}"
	case Wrap:
		return PrintSequence(v.Inner)
	case Separator:
		return ","
	case Break:
		return "break"
	}
	return "?"
}

// PrintSequence shows an unevaluated token sequence, for debugging and for tests of the parser.
func PrintSequence(seq []Value) string {
	parts := make([]string, len(seq))
	for i, tok := range seq {
		parts[i] = printable(tok, true)
	}
	return strings.Join(parts, " ")
}

// FormatFloat shows the shortest representation that reads back as the same float, so 3.0
// prints as 3 and 0.1 as 0.1.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var typeNames = map[Kind]string{
	KindNull:                  "Null",
	KindInteger:               "Integer",
	KindFloat:                 "Float",
	KindString:                "String",
	KindBool:                  "Bool",
	KindArray:                 "Array",
	KindOr:                    "Or",
	KindAnd:                   "And",
	KindProperty:              "Property",
	KindPropertyFunction:      "PropertyFunction",
	KindVariableIdentifier:    "VariableIdentifier",
	KindFunctionCall:          "FunctionCall",
	KindNamespaceFunctionCall: "NamespaceFunctionCall",
	KindFunctionReturn:        "FunctionReturn",
	KindPriority:              "Priority",
	KindOperation:             "Operation",
	KindVariableDeclaration:   "VariableDeclaration",
	KindCondition:             "Condition",
	KindWhile:                 "While",
	KindLoop:                  "Loop",
	KindWrap:                  "Wrap",
	KindSeparator:             "Separator",
	KindBreak:                 "Break",
	KindFile:                  "File",
}

// TypeName is the short name used in error messages and returned by the 'type' builtin.
func TypeName(v Value) string {
	return typeNames[KindOf(v)]
}

// Describe is for error messages: the value in quotes followed by its type.
func Describe(v Value) string {
	if _, ok := v.(String); ok {
		return strconv.Quote(Printable(v)) + " (String)"
	}
	return "'" + Printable(v) + "' (" + TypeName(v) + ")"
}

// Equal is structural equality on evaluated values. Integers and floats are never equal to
// one another, as the language has no implicit numeric comparison.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Integer, Float, String, Bool, File:
		return a == b
	case Array:
		bArr, ok := b.(Array)
		if !ok || len(a.Elements) != len(bArr.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], bArr.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}
