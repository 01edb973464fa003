package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StripCodeFences removes a surrounding markdown code fence (``` or ```json).
func StripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```")
		if nl := strings.IndexByte(raw, '\n'); nl != -1 && !strings.ContainsAny(raw[:nl], "{[") {
			raw = raw[nl+1:]
		} else {
			raw = strings.TrimPrefix(raw, "json")
		}
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// ExtractJSON returns the outermost JSON value delimited by open/close
// ('{','}' or '[',']') found in raw after fence stripping.
func ExtractJSON(raw string, open, close byte) (string, bool) {
	raw = StripCodeFences(raw)
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start == -1 || end <= start {
		return "", false
	}
	candidate := raw[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", false
	}
	return candidate, true
}

// CoerceFloat converts JSON numbers and numeric strings; anything else is NaN.
func CoerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		// "8/10" is a common model habit
		if slash := strings.IndexByte(trimmed, '/'); slash > 0 {
			trimmed = strings.TrimSpace(trimmed[:slash])
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// CoerceString trims strings and renders scalars; nil and containers yield "".
func CoerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64, bool, int, json.Number:
		return fmt.Sprint(val)
	default:
		return ""
	}
}

// CoerceStrings keeps the non-empty string items of a JSON array, up to limit.
// A single string is treated as a one-element list.
func CoerceStrings(v any, limit int) []string {
	var items []any
	switch val := v.(type) {
	case []any:
		items = val
	case string:
		items = []any{val}
	default:
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
