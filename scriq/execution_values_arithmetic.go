package scriq

import "math"

func addValues(left, right Value) (Value, error) {
	switch left.kind {
	case KindNumber:
		if right.kind == KindNumber {
			return NewNumber(left.data.(float64) + right.data.(float64)), nil
		}
		return NewText(formatNumber(left.data.(float64)) + right.String()), nil
	case KindText:
		return NewText(left.data.(string) + right.String()), nil
	case KindArray:
		return arrayArithmetic("+", left, right, (*NDArray).Add)
	default:
		return NewVoid(), unsupportedOperator("+", left)
	}
}

func subtractValues(left, right Value) (Value, error) {
	return numericOrArray("-", left, right, func(x, y float64) float64 { return x - y }, (*NDArray).Sub)
}

func multiplyValues(left, right Value) (Value, error) {
	return numericOrArray("*", left, right, func(x, y float64) float64 { return x * y }, (*NDArray).Mul)
}

func divideValues(left, right Value) (Value, error) {
	return numericOrArray("/", left, right, func(x, y float64) float64 { return x / y }, (*NDArray).Div)
}

func moduloValues(left, right Value) (Value, error) {
	return numericOrArray("%", left, right, math.Mod, nil)
}

// powerValues raises to the exponent truncated toward zero.
func powerValues(left, right Value) (Value, error) {
	return numericOrArray("**", left, right, func(x, y float64) float64 { return math.Pow(x, math.Trunc(y)) }, nil)
}

func numericOrArray(op string, left, right Value, num func(x, y float64) float64, arr func(*NDArray, *NDArray) (*NDArray, error)) (Value, error) {
	switch left.kind {
	case KindNumber:
		r, err := right.AsNumber()
		if err != nil {
			return NewVoid(), newError(FaultTypeMismatch, "'%s' needs a number on the right, got %s", op, right.kind)
		}
		return NewNumber(num(left.data.(float64), r)), nil
	case KindArray:
		if arr == nil {
			return NewVoid(), unsupportedOperator(op, left)
		}
		return arrayArithmetic(op, left, right, arr)
	default:
		return NewVoid(), unsupportedOperator(op, left)
	}
}

func arrayArithmetic(op string, left, right Value, fn func(*NDArray, *NDArray) (*NDArray, error)) (Value, error) {
	l := left.data.(*NDArray)
	r, err := arrayOperand(op, right)
	if err != nil {
		return NewVoid(), err
	}
	out, err := fn(l, r)
	if err != nil {
		return NewVoid(), err
	}
	return NewArray(out), nil
}

// arrayOperand accepts an array, or a tuple literal converted to one.
func arrayOperand(op string, v Value) (*NDArray, error) {
	switch v.kind {
	case KindArray:
		return v.data.(*NDArray), nil
	case KindTuple:
		return NDArrayFromNested(v.data.([]Value))
	default:
		return nil, newError(FaultTypeMismatch, "'%s' needs an array on the right, got %s", op, v.kind)
	}
}

func dotValues(left, right Value) (Value, error) {
	if left.kind != KindArray {
		return NewVoid(), newError(FaultTypeMismatch, "'.' needs an array on the left, got %s", left.kind)
	}
	r, err := arrayOperand(".", right)
	if err != nil {
		return NewVoid(), err
	}
	dot, err := left.data.(*NDArray).Dot(r)
	if err != nil {
		return NewVoid(), err
	}
	return NewNumber(dot), nil
}

func compareValues(op string, left, right Value) (Value, error) {
	l, err := left.AsNumber()
	if err != nil {
		return NewVoid(), newError(FaultTypeMismatch, "'%s' needs numbers, got %s", op, left.kind)
	}
	r, err := right.AsNumber()
	if err != nil {
		return NewVoid(), newError(FaultTypeMismatch, "'%s' needs numbers, got %s", op, right.kind)
	}
	switch op {
	case "<":
		return NewBool(l < r), nil
	case "<=":
		return NewBool(l <= r), nil
	case ">":
		return NewBool(l > r), nil
	case ">=":
		return NewBool(l >= r), nil
	default:
		return NewVoid(), newError(FaultUnsupportedOperator, "unknown comparison '%s'", op)
	}
}

func logicalValues(op string, left, right Value) (Value, error) {
	l, err := left.AsBool()
	if err != nil {
		return NewVoid(), newError(FaultTypeMismatch, "'%s' needs booleans, got %s", op, left.kind)
	}
	r, err := right.AsBool()
	if err != nil {
		return NewVoid(), newError(FaultTypeMismatch, "'%s' needs booleans, got %s", op, right.kind)
	}
	if op == "and" {
		return NewBool(l && r), nil
	}
	return NewBool(l || r), nil
}

func unsupportedOperator(op string, left Value) error {
	return newError(FaultUnsupportedOperator, "'%s' is not defined for %s", op, left.kind)
}

// ApplyOperator applies a binary operator to two available values.
func ApplyOperator(op string, left, right Value) (Value, error) {
	switch op {
	case "+":
		return addValues(left, right)
	case "-":
		return subtractValues(left, right)
	case "*":
		return multiplyValues(left, right)
	case "/":
		return divideValues(left, right)
	case "%":
		return moduloValues(left, right)
	case "**":
		return powerValues(left, right)
	case ".":
		return dotValues(left, right)
	case "<", "<=", ">", ">=":
		return compareValues(op, left, right)
	case "==":
		return NewBool(left.Equal(right)), nil
	case "!=":
		return NewBool(!left.Equal(right)), nil
	case "and", "or":
		return logicalValues(op, left, right)
	default:
		return NewVoid(), newError(FaultUnsupportedOperator, "unknown operator '%s'", op)
	}
}
