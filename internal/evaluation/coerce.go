package evaluation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

// undefinedText is how an absent value renders when stringified by the builder runtime.
const undefinedText = "undefined"

// stringify renders a loosely typed value the way the builder runtime does when
// it coerces a value to a string: integral numbers lose their fraction, booleans
// become true/false, arrays join with commas and absent values become "undefined".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return undefinedText
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	case int:
		return strconv.Itoa(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return formatNumber(f)
		}
		return t.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatNumber(rv.Float())
	case reflect.Slice, reflect.Array:
		items, _ := asSlice(v)
		return joinStrings(items)
	case reflect.Ptr:
		if rv.IsNil() {
			return undefinedText
		}
		return stringify(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinStrings(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if item == nil {
			continue
		}
		parts[i] = stringify(item)
	}
	return strings.Join(parts, ",")
}

// asSlice reports whether v is an array-like value and returns its elements.
func asSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// asNumber accepts only numeric values; numeric strings are rejected.
func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, string, bool:
		return 0, false
	case float64:
		return t, !math.IsNaN(t)
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f)
	}
	return 0, false
}

// toNumber converts authored values the way Number() would, so "50" becomes 50.
func toNumber(v any) (float64, bool) {
	if f, ok := asNumber(v); ok {
		return f, true
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// authoredFlag reads an authored boolean that may have been persisted as "true"/"false".
func authoredFlag(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		return t == "true", true
	}
	return false, false
}

// isTrue reports whether v is the boolean true or the string "true".
func isTrue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}
	return false
}

// truthy follows the builder runtime's notion of a falsy value.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	}
	if f, ok := asNumber(v); ok {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Map || rv.Kind() == reflect.Slice {
		return !rv.IsNil()
	}
	return true
}

// lookupKey finds the value stored under key in a map of any key type, comparing keys as strings.
func lookupKey(m any, key string) any {
	switch t := m.(type) {
	case map[string]any:
		return t[key]
	case map[string]bool:
		if v, ok := t[key]; ok {
			return v
		}
		return nil
	}
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Map {
		return nil
	}
	iter := rv.MapRange()
	for iter.Next() {
		if stringify(iter.Key().Interface()) == key {
			return iter.Value().Interface()
		}
	}
	return nil
}

// pairSides extracts left and right from a submitted matching entry.
func pairSides(entry any) (any, any) {
	switch t := entry.(type) {
	case models.MatchPair:
		return t.Left, t.Right
	case *models.MatchPair:
		if t == nil {
			return nil, nil
		}
		return t.Left, t.Right
	case map[string]any:
		return t["left"], t["right"]
	}
	return lookupKey(entry, "left"), lookupKey(entry, "right")
}
