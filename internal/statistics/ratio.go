package statistics

import (
	"encoding/json"
	"fmt"
)

// NotApplicable is how an undefined ratio is reported.
const NotApplicable = "N/A"

// Ratio is a quotient that may be undefined because its denominator is zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// NewRatio divides num by den. A zero denominator yields an undefined ratio.
func NewRatio(num, den float64) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{Value: num / den, Defined: true}
}

// String formats the ratio with four decimals, or N/A.
func (r Ratio) String() string {
	if !r.Defined {
		return NotApplicable
	}
	return fmt.Sprintf("%.4f", r.Value)
}

// Percent formats the ratio as a percentage, or N/A.
func (r Ratio) Percent() string {
	if !r.Defined {
		return NotApplicable
	}
	return fmt.Sprintf("%.2f%%", r.Value*100)
}

// MarshalJSON encodes an undefined ratio as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}
