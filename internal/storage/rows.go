package storage

import "strconv"

// Coercion helpers for values coming back through Backend.Query. The
// native engine hands back int64/float64/string; the embedded variant
// can surface numerics read out of a restored snapshot with a
// different concrete type. Booleans are stored as 0/1 integers.

func asInt64(v any) int64 {
	switch value := v.(type) {
	case int64:
		return value
	case int:
		return int64(value)
	case int32:
		return int64(value)
	case float64:
		return int64(value)
	case bool:
		if value {
			return 1
		}
		return 0
	case []byte:
		return parseInt64(string(value))
	case string:
		return parseInt64(value)
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int64:
		return float64(value)
	case int:
		return float64(value)
	case []byte:
		return parseFloat64(string(value))
	case string:
		return parseFloat64(value)
	default:
		return 0
	}
}

func asString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []byte:
		return string(value)
	case nil:
		return ""
	default:
		return ""
	}
}

func asBool(v any) bool {
	if value, ok := v.(bool); ok {
		return value
	}
	return asInt64(v) != 0
}

func parseInt64(raw string) int64 {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func parseFloat64(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}
