package widgets

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Stringify renders any raw value as text. Slices join their elements with
// commas and numbers use FormatNumber.
func Stringify(raw any) string {
	if IsUnset(raw) || isNil(raw) {
		return ""
	}
	if ref, ok := asReference(raw); ok {
		if name := ref.Name(); name != "" {
			return name
		}
		return ref.ID()
	}
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return FormatNumber(v)
	case float32:
		return FormatNumber(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	case json.Number:
		return v.String()
	case Target:
		return v.TargetName
	case []string:
		return strings.Join(v, ",")
	case []float64:
		return joinStringified(anySlice(v))
	case []int:
		return joinStringified(anySlice(v))
	case Region:
		return joinStringified(anySlice([]float64(v)))
	case []any:
		return joinStringified(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(raw)
}

func joinStringified(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Stringify(v)
	}
	return strings.Join(parts, ",")
}

// Truthy maps raw input to a boolean. Everything is true except the empty
// string, numeric zero, NaN, false and absent values.
func Truthy(raw any) bool {
	if IsUnset(raw) {
		return false
	}
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		f := ParseNumber(v)
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// vectorElements splits raw vector input into its elements. Strings are split
// on commas; a blank string is an empty vector.
func vectorElements(raw any) ([]any, bool) {
	if IsUnset(raw) {
		return nil, false
	}
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return []any{}, true
		}
		parts := strings.Split(v, ",")
		return anySlice(parts), true
	case []any:
		return v, true
	case []string:
		return anySlice(v), true
	case []float64:
		return anySlice(v), true
	case []int:
		return anySlice(v), true
	case Region:
		return anySlice([]float64(v)), true
	}
	return []any{raw}, true
}

// StringVector coerces raw input into trimmed strings. Absent input yields nil.
func StringVector(raw any) []string {
	elements, ok := vectorElements(raw)
	if !ok {
		return nil
	}
	out := make([]string, len(elements))
	for i, el := range elements {
		out[i] = strings.TrimSpace(Stringify(el))
	}
	return out
}

// NumberVector coerces raw input into numbers. Elements that do not parse are
// NaN and flip ok to false.
func NumberVector(raw any) (out []float64, ok bool) {
	elements, present := vectorElements(raw)
	if !present {
		return nil, false
	}
	ok = true
	out = make([]float64, len(elements))
	for i, el := range elements {
		out[i] = ParseNumber(el)
		if !finite(out[i]) {
			ok = false
		}
	}
	return out, ok
}

// CoerceCandidates runs enumeration candidates through the element coercion of
// t so membership checks compare like with like.
func CoerceCandidates(t Type, candidates []any) []any {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]any, len(candidates))
	for i, c := range candidates {
		if t.Capabilities().Has(CapNumeric) {
			out[i] = ParseNumber(c)
			continue
		}
		out[i] = Stringify(c)
	}
	return out
}

func containsString(candidates []any, value string) bool {
	for _, c := range candidates {
		if Stringify(c) == value {
			return true
		}
	}
	return false
}

func containsNumber(candidates []any, value float64) bool {
	if !finite(value) {
		return false
	}
	for _, c := range candidates {
		if ParseNumber(c) == value {
			return true
		}
	}
	return false
}
