package scriq

type ValueKind int

const (
	KindVoid ValueKind = iota
	KindNull
	KindBool
	KindNumber
	KindText
	KindFuture
	KindArray
	KindTuple
	KindRange
)

// Value is the evaluator's tagged result type. The zero Value is Void.
type Value struct {
	kind ValueKind
	data any
}

// Range is a subscript slice covering Start..End inclusive. End == -1 means
// through the last index of the axis.
type Range struct {
	Start int
	End   int
}

// EqualityTolerance is the absolute difference below which two numbers are equal.
const EqualityTolerance = 1e-9
