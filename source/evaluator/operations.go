package evaluator

import (
	"math"

	"github.com/tim-hardcastle/compute/source/report"
	"github.com/tim-hardcastle/compute/source/values"
)

// apply combines two evaluated operands. The language has no implicit conversions except
// that arithmetic mixing integers and floats is done in floats; anything not covered below
// is a type error.
func apply(op values.Operator, left, right values.Value) (values.Value, error) {
	switch l := left.(type) {
	case values.Integer:
		switch r := right.(type) {
		case values.Integer:
			return integerOp(op, l, r)
		case values.Float:
			if !op.IsComparison() {
				return floatOp(op, values.Float(l), r)
			}
		}
	case values.Float:
		switch r := right.(type) {
		case values.Float:
			return floatOp(op, l, r)
		case values.Integer:
			if !op.IsComparison() {
				return floatOp(op, l, values.Float(r))
			}
		}
	case values.String:
		if r, ok := right.(values.String); ok && op == values.OpAdd {
			return l + r, nil
		}
	case values.Null:
		if _, ok := right.(values.Null); ok {
			switch op {
			case values.OpEqual:
				return values.TRUE, nil
			case values.OpNotEqual:
				return values.FALSE, nil
			}
		}
	case values.Array:
		if r, ok := right.(values.Array); ok && op == values.OpAdd {
			elements := make([]values.Value, 0, len(l.Elements)+len(r.Elements))
			elements = append(elements, l.Elements...)
			return values.NewArray(append(elements, r.Elements...)), nil
		}
	}
	return nil, report.CreateErr("eval/type/op", nil, op.Symbol(), values.TypeName(left), values.TypeName(right))
}

func integerOp(op values.Operator, l, r values.Integer) (values.Value, error) {
	switch op {
	case values.OpAdd:
		return l + r, nil
	case values.OpSub:
		return l - r, nil
	case values.OpMultiply:
		return l * r, nil
	case values.OpDivide:
		if r == 0 {
			return nil, report.CreateErr("eval/div/zero", nil)
		}
		return values.Float(float64(l) / float64(r)), nil
	case values.OpModulo:
		if r == 0 {
			return nil, report.CreateErr("eval/mod/zero", nil)
		}
		return l % r, nil
	case values.OpPower:
		if r < 0 {
			return nil, report.CreateErr("eval/pow/negative", nil)
		}
		return intPow(l, r), nil
	case values.OpEqual:
		return values.MakeBool(l == r), nil
	case values.OpNotEqual:
		return values.MakeBool(l != r), nil
	case values.OpLess:
		return values.MakeBool(l < r), nil
	case values.OpLessEqual:
		return values.MakeBool(l <= r), nil
	case values.OpGreater:
		return values.MakeBool(l > r), nil
	case values.OpGreaterEqual:
		return values.MakeBool(l >= r), nil
	}
	return nil, report.CreateErr("eval/type/op", nil, op.Symbol(), "Integer", "Integer")
}

// Exponentiation by squaring. Overflow wraps, as it does for the other integer operations.
func intPow(base, exp values.Integer) values.Integer {
	result := values.Integer(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func floatOp(op values.Operator, l, r values.Float) (values.Value, error) {
	switch op {
	case values.OpAdd:
		return l + r, nil
	case values.OpSub:
		return l - r, nil
	case values.OpMultiply:
		return l * r, nil
	case values.OpDivide:
		if r == 0 {
			return nil, report.CreateErr("eval/div/zero", nil)
		}
		return l / r, nil
	case values.OpModulo:
		if r == 0 {
			return nil, report.CreateErr("eval/mod/zero", nil)
		}
		return values.Float(math.Mod(float64(l), float64(r))), nil
	case values.OpPower:
		return values.Float(math.Pow(float64(l), float64(r))), nil
	case values.OpEqual:
		return values.MakeBool(l == r), nil
	case values.OpNotEqual:
		return values.MakeBool(l != r), nil
	case values.OpLess:
		return values.MakeBool(l < r), nil
	case values.OpLessEqual:
		return values.MakeBool(l <= r), nil
	case values.OpGreater:
		return values.MakeBool(l > r), nil
	case values.OpGreaterEqual:
		return values.MakeBool(l >= r), nil
	}
	return nil, report.CreateErr("eval/type/op", nil, op.Symbol(), "Float", "Float")
}
