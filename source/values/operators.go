package values

type Operator uint8

const (
	OpNone Operator = iota // What the evaluator holds before it has seen an operator.
	OpAdd
	OpSub
	OpMultiply
	OpDivide
	OpModulo
	OpPower
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

var operatorSymbols = map[Operator]string{
	OpNone:         "none",
	OpAdd:          "+",
	OpSub:          "-",
	OpMultiply:     "*",
	OpDivide:       "/",
	OpModulo:       "%",
	OpPower:        "^",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
}

var operatorNames = map[Operator]string{
	OpNone:         "None",
	OpAdd:          "Add",
	OpSub:          "Sub",
	OpMultiply:     "Multiply",
	OpDivide:       "Divide",
	OpModulo:       "Modulo",
	OpPower:        "Power",
	OpEqual:        "Equal",
	OpNotEqual:     "NotEqual",
	OpLess:         "Less",
	OpLessEqual:    "LessEqual",
	OpGreater:      "Greater",
	OpGreaterEqual: "GreaterEqual",
}

func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return "Unknown"
}

func (op Operator) Symbol() string {
	return operatorSymbols[op]
}

// OperatorFromSymbol is used by the parser.
func OperatorFromSymbol(s string) (Operator, bool) {
	for op, sym := range operatorSymbols {
		if sym == s && op != OpNone {
			return op, true
		}
	}
	return OpNone, false
}

func (op Operator) IsComparison() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return true
	}
	return false
}
