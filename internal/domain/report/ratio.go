package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Ratio is a percentage or average that may be undefined.
// Division by zero is not guarded, so a Ratio can hold NaN or ±Inf;
// both are encoded as JSON null.
type Ratio float64

// Percent returns part/whole*100 without guarding a zero whole
func Percent(part, whole float64) Ratio {
	return Ratio(part / whole * 100)
}

// Div returns num/den without guarding a zero denominator
func Div(num, den float64) Ratio {
	return Ratio(num / den)
}

// IsDefined reports whether the ratio is a finite number
func (r Ratio) IsDefined() bool {
	f := float64(r)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float64 returns the raw value
func (r Ratio) Float64() float64 {
	return float64(r)
}

// MarshalJSON implements json.Marshaler
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.IsDefined() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(r), 'f', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler; null decodes to NaN
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = Ratio(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// Round1 rounds half away from zero to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
