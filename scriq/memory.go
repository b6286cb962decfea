package scriq

import "fmt"

const (
	estimatedValueBytes        = 24
	estimatedStringHeaderBytes = 16
	estimatedSliceBaseBytes    = 24
	estimatedMapBaseBytes      = 48
	estimatedMapEntryBytes     = 32
	estimatedEnvBytes          = 16
	estimatedArrayBytes        = 48
	estimatedFloatBytes        = 8
	estimatedIntBytes          = 8
	estimatedFutureBytes       = 96
)

// memoryEstimator approximates the bytes held by an environment. Arrays and
// futures shared by several variables are counted once.
type memoryEstimator struct {
	seenArrays  map[*NDArray]struct{}
	seenFutures map[*Future]struct{}
}

func newMemoryEstimator() *memoryEstimator {
	return &memoryEstimator{
		seenArrays:  make(map[*NDArray]struct{}),
		seenFutures: make(map[*Future]struct{}),
	}
}

func (exec *Execution) checkMemory() error {
	if exec.memoryQuota <= 0 {
		return nil
	}
	used := EstimateMemory(exec.env)
	if used > exec.memoryQuota {
		return fmt.Errorf("%w (%d bytes)", errMemoryQuotaExceeded, exec.memoryQuota)
	}
	return nil
}

// EstimateMemory approximates the bytes held by env's bindings.
func EstimateMemory(env *Env) int {
	if env == nil {
		return 0
	}
	return newMemoryEstimator().env(env)
}

func (est *memoryEstimator) env(env *Env) int {
	size := estimatedEnvBytes + estimatedMapBaseBytes + len(env.values)*estimatedMapEntryBytes
	for name, val := range env.values {
		size += estimatedStringHeaderBytes + len(name)
		size += est.value(val)
	}
	return size
}

func (est *memoryEstimator) value(val Value) int {
	size := estimatedValueBytes

	switch val.kind {
	case KindText:
		size += estimatedStringHeaderBytes + len(val.data.(string))
	case KindArray:
		size += est.array(val.data.(*NDArray))
	case KindTuple:
		items := val.data.([]Value)
		size += estimatedSliceBaseBytes
		for _, item := range items {
			size += est.value(item)
		}
	case KindFuture:
		f := val.data.(*Future)
		if _, seen := est.seenFutures[f]; seen {
			return size
		}
		est.seenFutures[f] = struct{}{}
		size += estimatedFutureBytes
		if v, ok, _ := f.Result(); ok {
			size += est.value(v)
		}
	}

	return size
}

func (est *memoryEstimator) array(arr *NDArray) int {
	if arr == nil {
		return 0
	}
	if _, seen := est.seenArrays[arr]; seen {
		return 0
	}
	est.seenArrays[arr] = struct{}{}
	return estimatedArrayBytes + len(arr.shape)*estimatedIntBytes + len(arr.data)*estimatedFloatBytes
}
