package scriq

import "slices"

func (a *NDArray) Add(b *NDArray) (*NDArray, error) {
	return a.elementwise("+", b, func(x, y float64) float64 { return x + y })
}

func (a *NDArray) Sub(b *NDArray) (*NDArray, error) {
	return a.elementwise("-", b, func(x, y float64) float64 { return x - y })
}

func (a *NDArray) Mul(b *NDArray) (*NDArray, error) {
	return a.elementwise("*", b, func(x, y float64) float64 { return x * y })
}

func (a *NDArray) Div(b *NDArray) (*NDArray, error) {
	return a.elementwise("/", b, func(x, y float64) float64 { return x / y })
}

func (a *NDArray) elementwise(op string, b *NDArray, fn func(x, y float64) float64) (*NDArray, error) {
	if rank := len(a.shape); rank < 1 || rank > MaxElementwiseRank {
		return nil, newError(FaultUnsupportedRank, "'%s' supports rank 1 to %d, got rank %d", op, MaxElementwiseRank, rank)
	}
	if !slices.Equal(a.shape, b.shape) {
		return nil, newError(FaultShapeMismatch, "'%s' on shapes %v and %v", op, a.shape, b.shape)
	}
	out := make([]float64, len(a.data))
	for i := range out {
		out[i] = fn(a.data[i], b.data[i])
	}
	return &NDArray{shape: slices.Clone(a.shape), data: out}, nil
}

// Dot is the inner product of two vectors.
func (a *NDArray) Dot(b *NDArray) (float64, error) {
	if len(a.shape) != 1 || len(b.shape) != 1 {
		return 0, newError(FaultUnsupportedRank, "dot product needs two rank 1 arrays, got ranks %d and %d", len(a.shape), len(b.shape))
	}
	if a.shape[0] != b.shape[0] {
		return 0, newError(FaultShapeMismatch, "dot product on lengths %d and %d", a.shape[0], b.shape[0])
	}
	total := 0.0
	for i, x := range a.data {
		total += x * b.data[i]
	}
	return total, nil
}
