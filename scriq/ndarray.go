package scriq

import (
	"slices"
	"strings"
)

const (
	// MaxIndexRank is the highest rank that supports subscript addressing.
	MaxIndexRank = 3
	// MaxElementwiseRank is the highest rank that supports elementwise arithmetic.
	MaxElementwiseRank = 4
)

// NDArray is a rectangular tensor of float64 stored row-major. Arrays are
// never mutated after construction; indexing and arithmetic return copies.
type NDArray struct {
	shape []int
	data  []float64
}

// NewNDArray wraps data with the given shape. The element count must match.
func NewNDArray(shape []int, data []float64) (*NDArray, error) {
	if len(shape) == 0 {
		return nil, newError(FaultConstructionFault, "array shape must have at least one axis")
	}
	count := 1
	for _, extent := range shape {
		if extent < 0 {
			return nil, newError(FaultConstructionFault, "negative extent in shape %v", shape)
		}
		count *= extent
	}
	if count != len(data) {
		return nil, newError(FaultConstructionFault, "shape %v needs %d elements, got %d", shape, count, len(data))
	}
	return &NDArray{shape: slices.Clone(shape), data: slices.Clone(data)}, nil
}

// NDArrayFromNested builds an array from nested tuples of numbers. Nesting
// must be rectangular with every number at the same depth.
func NDArrayFromNested(items []Value) (*NDArray, error) {
	b := &nestedBuilder{depth: -1}
	if err := b.walk(items, 0); err != nil {
		return nil, err
	}
	return &NDArray{shape: b.shape, data: b.data}, nil
}

type nestedBuilder struct {
	shape []int
	data  []float64
	depth int // level holding scalars, -1 until the first scalar
}

func (b *nestedBuilder) walk(items []Value, level int) error {
	if level == len(b.shape) {
		if b.depth >= 0 && level > b.depth {
			return newError(FaultConstructionFault, "irregular nesting: list found below scalar depth %d", b.depth)
		}
		b.shape = append(b.shape, len(items))
	} else if b.shape[level] != len(items) {
		return newError(FaultConstructionFault, "irregular nesting: length %d at depth %d, expected %d", len(items), level, b.shape[level])
	}
	for _, item := range items {
		switch item.kind {
		case KindNumber:
			if b.depth < 0 {
				b.depth = level
				if len(b.shape) > level+1 {
					return newError(FaultConstructionFault, "irregular nesting: scalar at depth %d beside deeper lists", level)
				}
			}
			if level != b.depth {
				return newError(FaultConstructionFault, "irregular nesting: scalar at depth %d, expected depth %d", level, b.depth)
			}
			b.data = append(b.data, item.data.(float64))
		case KindTuple:
			if b.depth >= 0 && level >= b.depth {
				return newError(FaultConstructionFault, "irregular nesting: list at depth %d beside scalars", level)
			}
			if err := b.walk(item.data.([]Value), level+1); err != nil {
				return err
			}
		case KindArray:
			nested := item.data.(*NDArray)
			if err := b.walk(nested.toTuples(), level+1); err != nil {
				return err
			}
		default:
			return newError(FaultConstructionFault, "array elements must be numbers, got %s", item.kind)
		}
	}
	return nil
}

// toTuples converts the array back to nested tuples.
func (a *NDArray) toTuples() []Value {
	var build func(axis, offset int) []Value
	strides := a.strides()
	build = func(axis, offset int) []Value {
		out := make([]Value, a.shape[axis])
		for i := range out {
			pos := offset + i*strides[axis]
			if axis == len(a.shape)-1 {
				out[i] = NewNumber(a.data[pos])
			} else {
				out[i] = NewTuple(build(axis+1, pos))
			}
		}
		return out
	}
	return build(0, 0)
}

func (a *NDArray) strides() []int {
	strides := make([]int, len(a.shape))
	step := 1
	for axis := len(a.shape) - 1; axis >= 0; axis-- {
		strides[axis] = step
		step *= a.shape[axis]
	}
	return strides
}

func (a *NDArray) Shape() []int { return slices.Clone(a.shape) }
func (a *NDArray) Rank() int    { return len(a.shape) }
func (a *NDArray) Len() int     { return len(a.data) }

// Data returns a copy of the row-major backing storage.
func (a *NDArray) Data() []float64 { return slices.Clone(a.data) }

// At returns the element at the given full index.
func (a *NDArray) At(idx ...int) (float64, error) {
	if len(idx) != len(a.shape) {
		return 0, newError(FaultIndexOutOfRange, "need %d indices, got %d", len(a.shape), len(idx))
	}
	pos := 0
	strides := a.strides()
	for axis, i := range idx {
		if i < 0 || i >= a.shape[axis] {
			return 0, newError(FaultIndexOutOfRange, "index %d out of range for axis %d of extent %d", i, axis, a.shape[axis])
		}
		pos += i * strides[axis]
	}
	return a.data[pos], nil
}

func (a *NDArray) Sum() float64 {
	total := 0.0
	for _, f := range a.data {
		total += f
	}
	return total
}

func (a *NDArray) Equal(other *NDArray) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	return slices.Equal(a.shape, other.shape) && slices.Equal(a.data, other.data)
}

func (a *NDArray) String() string {
	var b strings.Builder
	strides := a.strides()
	var render func(axis, offset int)
	render = func(axis, offset int) {
		b.WriteByte('[')
		for i := 0; i < a.shape[axis]; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			pos := offset + i*strides[axis]
			if axis == len(a.shape)-1 {
				b.WriteString(formatNumber(a.data[pos]))
			} else {
				render(axis+1, pos)
			}
		}
		b.WriteByte(']')
	}
	render(0, 0)
	return b.String()
}
