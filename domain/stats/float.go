package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Float is a float64 result field that survives JSON encoding when it is
// degenerate: NaN encodes as null and infinities as "+Inf"/"-Inf".
type Float float64

// NaN is the undefined value.
var NaN = Float(math.NaN())

// Float64 returns the raw value.
func (f Float) Float64() float64 { return float64(f) }

// IsNaN reports whether the value is undefined.
func (f Float) IsNaN() bool { return math.IsNaN(float64(f)) }

// IsInf reports whether the value is infinite.
func (f Float) IsInf() bool { return math.IsInf(float64(f), 0) }

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte("null"), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		*f = NaN
		return nil
	case `"+Inf"`, `"Inf"`:
		*f = Float(math.Inf(1))
		return nil
	case `"-Inf"`:
		*f = Float(math.Inf(-1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*f = Float(v)
	return nil
}
