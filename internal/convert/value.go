package convert

import "strconv"

// Value is a parsed number. It holds either an integer or, for exponential
// and fractional decimal sources, a float.
type Value struct {
	i     int64
	f     float64
	float bool
}

// IntValue returns an integer Value.
func IntValue(i int64) Value {
	return Value{i: i}
}

// FloatValue returns a float Value.
func FloatValue(f float64) Value {
	return Value{f: f, float: true}
}

// IsFloat reports whether the value holds a float.
func (v Value) IsFloat() bool {
	return v.float
}

// Int returns the integer value. Floats are truncated toward zero; use
// Policy.ToInt for range checking.
func (v Value) Int() int64 {
	if v.float {
		return int64(v.f)
	}
	return v.i
}

// Float returns the value as a float64.
func (v Value) Float() float64 {
	if v.float {
		return v.f
	}
	return float64(v.i)
}

// String renders the value in plain decimal.
func (v Value) String() string {
	if v.float {
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	}
	return strconv.FormatInt(v.i, 10)
}
