package scriq

func NewVoid() Value               { return Value{} }
func NewNull() Value               { return Value{kind: KindNull} }
func NewBool(b bool) Value         { return Value{kind: KindBool, data: b} }
func NewNumber(f float64) Value    { return Value{kind: KindNumber, data: f} }
func NewText(s string) Value       { return Value{kind: KindText, data: s} }
func NewRange(r Range) Value       { return Value{kind: KindRange, data: r} }
func NewArray(a *NDArray) Value    { return Value{kind: KindArray, data: a} }
func NewFuture(f *Future) Value    { return Value{kind: KindFuture, data: f} }
func NewTuple(items []Value) Value { return Value{kind: KindTuple, data: items} }

// NewNumbers builds a tuple of numbers, handy for hosts seeding arrays.
func NewNumbers(nums ...float64) Value {
	items := make([]Value, len(nums))
	for i, n := range nums {
		items[i] = NewNumber(n)
	}
	return NewTuple(items)
}
