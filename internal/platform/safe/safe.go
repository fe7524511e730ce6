// Package safe reads loosely typed JSON decoded into map[string]any.
//
// Upstream fields arrive as numbers, percent strings or null
// interchangeably. None of these helpers panic or return errors; every
// failure degrades to a default and the Result reports that it did.
package safe

import (
	"math"
	"strconv"
	"strings"
)

// Result carries a coerced value and whether the default was substituted.
type Result[T any] struct {
	Value     T
	Defaulted bool
}

func value[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func fallback[T any](v T) Result[T] {
	return Result[T]{Value: v, Defaulted: true}
}

// Get walks keys through nested maps. It returns def when an intermediate
// value is not a map, a key is absent, or the final value is nil.
func Get(obj any, def any, keys ...string) Result[any] {
	current := obj
	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return fallback(def)
		}
		next, found := m[key]
		if !found {
			return fallback(def)
		}
		current = next
	}
	if current == nil {
		return fallback(def)
	}
	return value(current)
}

// Map is Get narrowed to a nested object; nil when absent.
func Map(obj any, keys ...string) map[string]any {
	m, _ := Get(obj, nil, keys...).Value.(map[string]any)
	return m
}

// Slice is Get narrowed to a nested array; nil when absent.
func Slice(obj any, keys ...string) []any {
	s, _ := Get(obj, nil, keys...).Value.([]any)
	return s
}

// String is Get narrowed to text. Numbers are formatted; other types give def.
func String(obj any, def string, keys ...string) Result[string] {
	res := Get(obj, nil, keys...)
	if res.Defaulted {
		return fallback(def)
	}
	switch v := res.Value.(type) {
	case string:
		return value(v)
	case float64:
		return value(strconv.FormatFloat(v, 'f', -1, 64))
	case int:
		return value(strconv.Itoa(v))
	case int64:
		return value(strconv.FormatInt(v, 10))
	default:
		return fallback(def)
	}
}

// Int coerces v to an int. Text keeps only its ASCII digits before parsing,
// so sign and decimal point are discarded: "-3.5" becomes 35.
func Int(v any, def int) Result[int] {
	switch x := v.(type) {
	case nil:
		return fallback(def)
	case string:
		digits := keepDigits(x)
		if digits == "" {
			return fallback(def)
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return fallback(def)
		}
		return value(n)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fallback(def)
		}
		return value(int(x))
	case float32:
		return Int(float64(x), def)
	case int:
		return value(x)
	case int64:
		return value(int(x))
	case int32:
		return value(int(x))
	case bool:
		if x {
			return value(1)
		}
		return value(0)
	default:
		return fallback(def)
	}
}

// Float coerces v to a float64, returning 0 on failure.
func Float(v any) Result[float64] {
	switch x := v.(type) {
	case float64:
		return value(x)
	case float32:
		return value(float64(x))
	case int:
		return value(float64(x))
	case int64:
		return value(float64(x))
	case int32:
		return value(float64(x))
	case bool:
		if x {
			return value(1.0)
		}
		return value(0.0)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return fallback(0.0)
		}
		return value(f)
	default:
		return fallback(0.0)
	}
}

var nestedNumericKeys = []string{"value", "total", "home", "away"}

// CleanNumericString normalizes a statistic for float parsing. Falsy
// values (nil, "", 0, false, empty collections) give def. Maps yield the
// first of value, total, home, away that holds something other than nil,
// "" or "None".
func CleanNumericString(v any, def string) Result[string] {
	if isFalsy(v) {
		return fallback(def)
	}

	if m, ok := v.(map[string]any); ok {
		picked, found := pickNested(m)
		if !found {
			return fallback(def)
		}
		v = picked
	}

	text := stringify(v)
	if text == "None" {
		return fallback(def)
	}

	text = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(text, "%", ""), ",", "."))
	if text == "" {
		return fallback(def)
	}
	return value(text)
}

// Percent runs v through CleanNumericString, parses it and rounds to two
// decimals. def is returned when nothing parses.
func Percent(v any, def float64) Result[float64] {
	cleaned := CleanNumericString(v, "")
	if cleaned.Defaulted {
		return fallback(def)
	}
	f, err := strconv.ParseFloat(cleaned.Value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback(def)
	}
	return value(Round2(f))
}

func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func pickNested(m map[string]any) (any, bool) {
	for _, key := range nestedNumericKeys {
		candidate, ok := m[key]
		if !ok || candidate == nil {
			continue
		}
		if s, isString := candidate.(string); isString && (s == "" || s == "None") {
			continue
		}
		return candidate, true
	}
	return nil, false
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	default:
		return false
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
