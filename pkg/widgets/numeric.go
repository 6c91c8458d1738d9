package widgets

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// stepTolerance absorbs binary rounding when checking step alignment
// (0.1 + 0.2 style drift).
const stepTolerance = 1e-9

// Constraints bounds a numeric-family parameter. Nil fields are unbounded.
type Constraints struct {
	Min  *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step *float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// IsZero reports whether no bound is declared.
func (c Constraints) IsZero() bool {
	return c.Min == nil && c.Max == nil && c.Step == nil
}

// Float returns a pointer to v, for building Constraints literals.
func Float(v float64) *float64 {
	return &v
}

// ParseNumber converts raw input to a float64. Anything that cannot be read as
// a number yields NaN; it never fails.
func ParseNumber(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return math.NaN()
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		return parseNumberText(string(v))
	case string:
		return parseNumberText(v)
	case []byte:
		return parseNumberText(string(v))
	default:
		return math.NaN()
	}
}

func parseNumberText(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isWhole(v float64) bool {
	return finite(v) && v == math.Trunc(v)
}

// numberValid applies the numeric validity rules to an already parsed value.
func numberValid(v float64, c Constraints, wholeOnly bool) bool {
	if !finite(v) {
		return false
	}
	step := 0.0
	if c.Step != nil && *c.Step > 0 {
		step = *c.Step
	}
	if step > 0 && isWhole(step) {
		wholeOnly = true
	}
	if wholeOnly && !isWhole(v) {
		return false
	}
	if c.Min != nil && v < *c.Min {
		return false
	}
	if c.Max != nil && v > *c.Max {
		return false
	}
	if step > 0 {
		base := 0.0
		if c.Min != nil {
			base = *c.Min
		}
		if !alignedToStep(v-base, step) {
			return false
		}
	}
	return true
}

func alignedToStep(offset, step float64) bool {
	ratio := offset / step
	return math.Abs(ratio-math.Round(ratio)) <= stepTolerance*math.Max(1, math.Abs(ratio))
}

// FormatNumber renders a float the way JSON and the remote endpoint expect:
// plain decimal between 1e-6 and 1e21, exponent form otherwise.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	out := strconv.FormatFloat(v, 'e', -1, 64)
	// Go pads exponents to two digits ("1e-07"); drop the padding.
	if n := len(out); n >= 4 && out[n-2] == '0' && (out[n-3] == '-' || out[n-3] == '+') {
		out = out[:n-2] + out[n-1:]
	}
	return out
}
