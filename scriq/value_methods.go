package scriq

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindFuture:
		return "future"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindRange:
		return "range"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindVoid:
		return ""
	case KindNull:
		return "null"
	case KindBool:
		if v.data.(bool) {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.data.(float64))
	case KindText:
		return v.data.(string)
	case KindFuture:
		return v.data.(*Future).String()
	case KindArray:
		return v.data.(*NDArray).String()
	case KindTuple:
		items := v.data.([]Value)
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRange:
		r := v.data.(Range)
		return fmt.Sprintf("%d:%d", r.Start, r.End)
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}

// formatNumber renders a double the way the script language prints numbers:
// integral values keep one decimal place and magnitudes outside [1e-3, 1e7)
// switch to scientific notation ("1.0E10").
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		out := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(out, ".") {
			out += ".0"
		}
		return out
	}
	sci := strconv.FormatFloat(f, 'E', -1, 64)
	mantissa, exp, _ := strings.Cut(sci, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return sci
	}
	return mantissa + "E" + strconv.Itoa(n)
}

func numbersEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) < EqualityTolerance
}

func textAsNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// Equal compares two values. Numbers use EqualityTolerance and a number
// compared with text coerces the text first.
func (v Value) Equal(other Value) bool {
	switch v.kind {
	case KindNumber:
		left := v.data.(float64)
		switch other.kind {
		case KindNumber:
			return numbersEqual(left, other.data.(float64))
		case KindText:
			right, ok := textAsNumber(other.data.(string))
			return ok && numbersEqual(left, right)
		}
		return false
	case KindText:
		switch other.kind {
		case KindText:
			return v.data.(string) == other.data.(string)
		case KindNumber:
			return other.Equal(v)
		}
		return false
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindVoid, KindNull:
		return true
	case KindBool:
		return v.data.(bool) == other.data.(bool)
	case KindFuture:
		return v.data.(*Future) == other.data.(*Future)
	case KindArray:
		return v.data.(*NDArray).Equal(other.data.(*NDArray))
	case KindTuple:
		left, right := v.data.([]Value), other.data.([]Value)
		if len(left) != len(right) {
			return false
		}
		for i := range left {
			if !left[i].Equal(right[i]) {
				return false
			}
		}
		return true
	case KindRange:
		return v.data.(Range) == other.data.(Range)
	default:
		return false
	}
}
