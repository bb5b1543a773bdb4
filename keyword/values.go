package keyword

import (
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// ErrInvalidValue is wrapped by digesters when a keyword value is malformed.
var ErrInvalidValue = errors.New("invalid keyword value")

// Invalid returns an ErrInvalidValue error for keyword.
func Invalid(keyword, format string, args ...any) error {
	return fmt.Errorf("%w: %q %s", ErrInvalidValue, keyword, fmt.Sprintf(format, args...))
}

// Number converts a decoded JSON number to a decimal. It reports false for
// values that are not numbers.
func Number(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(string(n))
		return d, err == nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		return Number(float64(n))
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromUint64(uint64(n)), true
	case uint8:
		return decimal.NewFromUint64(uint64(n)), true
	case uint16:
		return decimal.NewFromUint64(uint64(n)), true
	case uint32:
		return decimal.NewFromUint64(uint64(n)), true
	case uint64:
		return decimal.NewFromUint64(n), true
	default:
		return decimal.Decimal{}, false
	}
}

// DecimalValue reads a numeric keyword.
func DecimalValue(schema map[string]any, keyword string) (decimal.Decimal, error) {
	d, ok := Number(schema[keyword])
	if !ok {
		return decimal.Decimal{}, Invalid(keyword, "must be a number, found %s", Render(schema[keyword]))
	}
	return d, nil
}

// CountValue reads a keyword holding a non-negative integer.
func CountValue(schema map[string]any, keyword string) (int, error) {
	d, ok := Number(schema[keyword])
	if !ok || !d.IsInteger() || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, Invalid(keyword, "must be a non-negative integer, found %s", Render(schema[keyword]))
	}
	return int(d.IntPart()), nil
}

// BoolValue reads an optional boolean keyword.
func BoolValue(schema map[string]any, keyword string, def bool) (bool, error) {
	v, ok := schema[keyword]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, Invalid(keyword, "must be a boolean, found %s", Render(v))
	}
	return b, nil
}

// StringsValue reads a keyword holding an array of strings.
func StringsValue(schema map[string]any, keyword string) ([]string, error) {
	arr, ok := schema[keyword].([]any)
	if !ok {
		return nil, Invalid(keyword, "must be an array, found %s", Render(schema[keyword]))
	}
	out := make([]string, 0, len(arr))
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, Invalid(keyword, "element %d must be a string, found %s", i, Render(e))
		}
		out = append(out, s)
	}
	return out, nil
}

// ObjectValue reads a keyword holding an object. A missing keyword yields nil.
func ObjectValue(schema map[string]any, keyword string) (map[string]any, error) {
	v, ok := schema[keyword]
	if !ok {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, Invalid(keyword, "must be an object, found %s", Render(v))
	}
	return obj, nil
}

// Render renders a JSON value compactly for message texts.
func Render(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// Equal reports whether two decoded JSON values are equal. Numbers compare
// by value, so 1 and 1.0 are equal.
func Equal(a, b any) bool {
	if na, ok := Number(a); ok {
		nb, ok := Number(b)
		return ok && na.Equal(nb)
	}

	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
