package scriq

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsVoid() bool   { return v.kind == KindVoid }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsFuture() bool { return v.kind == KindFuture }
func (v Value) IsArray() bool  { return v.kind == KindArray }

func mismatch(v Value, want ValueKind) error {
	return newError(FaultTypeMismatch, "expected %s, got %s", want, v.kind)
}

func (v Value) AsNumber() (float64, error) {
	if v.kind != KindNumber {
		return 0, mismatch(v, KindNumber)
	}
	return v.data.(float64), nil
}

func (v Value) AsText() (string, error) {
	if v.kind != KindText {
		return "", mismatch(v, KindText)
	}
	return v.data.(string), nil
}

func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, mismatch(v, KindBool)
	}
	return v.data.(bool), nil
}

func (v Value) AsArray() (*NDArray, error) {
	if v.kind != KindArray {
		return nil, mismatch(v, KindArray)
	}
	return v.data.(*NDArray), nil
}

func (v Value) AsFuture() (*Future, error) {
	if v.kind != KindFuture {
		return nil, mismatch(v, KindFuture)
	}
	return v.data.(*Future), nil
}

func (v Value) AsTuple() ([]Value, error) {
	if v.kind != KindTuple {
		return nil, mismatch(v, KindTuple)
	}
	return v.data.([]Value), nil
}

func (v Value) AsRange() (Range, error) {
	if v.kind != KindRange {
		return Range{}, mismatch(v, KindRange)
	}
	return v.data.(Range), nil
}

// AsInt truncates a number to an int, as subscripts and host arguments expect.
func (v Value) AsInt() (int, error) {
	f, err := v.AsNumber()
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
