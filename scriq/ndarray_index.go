package scriq

import "math"

type axisSelection struct {
	indices []int
	keep    bool
}

// Index applies a trailer of subscripts to the array. Each item addresses the
// next unaddressed axis: a number selects one position and drops the axis, a
// Range keeps Start..End inclusive. Addressing every axis yields a Number.
func (a *NDArray) Index(trailer []Value) (Value, error) {
	if len(trailer) == 0 {
		return NewArray(a), nil
	}
	rank := len(a.shape)
	if rank > MaxIndexRank {
		return NewVoid(), newError(FaultUnsupportedRank, "indexing supports rank 1 to %d, got rank %d", MaxIndexRank, rank)
	}
	if len(trailer) > rank {
		return NewVoid(), newError(FaultIndexOutOfRange, "%d subscripts for a rank %d array", len(trailer), rank)
	}

	sels := make([]axisSelection, rank)
	for axis := range sels {
		extent := a.shape[axis]
		if axis >= len(trailer) {
			sels[axis] = axisSelection{indices: indexSpan(0, extent-1), keep: true}
			continue
		}
		sel, err := selectAxis(trailer[axis], axis, extent)
		if err != nil {
			return NewVoid(), err
		}
		sels[axis] = sel
	}

	var outShape []int
	count := 1
	for _, sel := range sels {
		if sel.keep {
			outShape = append(outShape, len(sel.indices))
		}
		count *= len(sel.indices)
	}

	strides := a.strides()
	out := make([]float64, 0, count)
	var gather func(axis, offset int)
	gather = func(axis, offset int) {
		if axis == rank {
			out = append(out, a.data[offset])
			return
		}
		for _, i := range sels[axis].indices {
			gather(axis+1, offset+i*strides[axis])
		}
	}
	gather(0, 0)

	if len(outShape) == 0 {
		return NewNumber(out[0]), nil
	}
	return NewArray(&NDArray{shape: outShape, data: out}), nil
}

func selectAxis(item Value, axis, extent int) (axisSelection, error) {
	switch item.kind {
	case KindNumber:
		f := item.data.(float64)
		if f != math.Trunc(f) {
			return axisSelection{}, newError(FaultIndexOutOfRange, "index %s is not an integer", formatNumber(f))
		}
		i := int(f)
		if i < 0 || i >= extent {
			return axisSelection{}, newError(FaultIndexOutOfRange, "index %d out of range for axis %d of extent %d", i, axis, extent)
		}
		return axisSelection{indices: []int{i}}, nil
	case KindRange:
		r := item.data.(Range)
		end := r.End
		if end == -1 {
			end = extent - 1
		}
		if r.Start < 0 || end >= extent || r.Start > end+1 {
			return axisSelection{}, newError(FaultIndexOutOfRange, "slice %d:%d out of range for axis %d of extent %d", r.Start, r.End, axis, extent)
		}
		return axisSelection{indices: indexSpan(r.Start, end), keep: true}, nil
	default:
		return axisSelection{}, newError(FaultTypeMismatch, "subscript must be a number or a range, got %s", item.kind)
	}
}

// indexSpan lists from..to inclusive; empty when to < from.
func indexSpan(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
