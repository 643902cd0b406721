package numeric

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// maxLitersPerPlant is the highest liters-per-plant entry the field app accepts.
const maxLitersPerPlant = 40

// ParseDecimal parses a locale-formatted decimal string. Both "," and "."
// are accepted as decimal separator; when both appear, "." is treated as a
// thousands separator and stripped. Empty or unparseable input reports ok=false.
func ParseDecimal(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ".", "")
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseNumber parses a JSON-shaped value (number or string) into a float64.
func ParseNumber(v interface{}) (float64, bool) {
	switch value := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, false
		}
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		return ParseDecimal(value)
	default:
		return 0, false
	}
}

// NumberOr parses v and falls back when it carries no usable number
func NumberOr(v interface{}, fallback float64) float64 {
	parsed, ok := ParseNumber(v)
	if !ok {
		return fallback
	}
	return parsed
}

// FormatDecimal renders a number with 2 decimal places. Values within 1e-6
// of zero and non-finite values render as the empty string, which the app
// reads as "not meaningfully set" rather than "0.00".
func FormatDecimal(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if math.Abs(f) < 1e-6 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// SanitizeLitersInput normalizes a liters-per-plant entry: values above the
// accepted ceiling are clamped, and the decimal separator the user typed is
// preserved. Unparseable input collapses to empty.
func SanitizeLitersInput(v interface{}) string {
	if v == nil {
		return ""
	}
	trimmed := strings.TrimSpace(stringify(v))
	if trimmed == "" {
		return ""
	}

	parsed, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return ""
	}

	if parsed > maxLitersPerPlant {
		parsed = maxLitersPerPlant
	}
	result := strconv.FormatFloat(parsed, 'f', -1, 64)

	if strings.Contains(trimmed, ",") {
		result = strings.Replace(result, ".", ",", 1)
	}
	return result
}

// SanitizeDiscountType admits only the percentage (1) and per-hectare (2)
// discount markers; anything else means no discount.
func SanitizeDiscountType(v interface{}) int {
	parsed, ok := ParseNumber(v)
	if !ok {
		return 0
	}
	if parsed == 1 || parsed == 2 {
		return int(parsed)
	}
	return 0
}

func stringify(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	default:
		return ""
	}
}
