// Package parse converts free-form text produced by the generation service
// into validated mappings. Generation models frequently wrap JSON in markdown
// fences, prepend commentary, or emit single-quoted pseudo-JSON; every helper
// here degrades to an empty result instead of returning an error.
package parse

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"talentnav/internal/errors"
)

// Mapping is the loosely-typed result of extracting structure from model text.
type Mapping map[string]any

// Extract attempts, in order: a direct JSON parse, a parse after stripping
// markdown code fences, a parse of the first balanced {...} span, and a
// last-resort parse after swapping single quotes for double quotes. An empty
// mapping means "no structured signal", never an error.
func Extract(text string, logger *errors.Logger) Mapping {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Mapping{}
	}

	if m, ok := tryUnmarshal(trimmed); ok {
		return m
	}

	if m, ok := tryUnmarshal(stripFences(trimmed)); ok {
		return m
	}

	if span := braceSpan(trimmed); span != "" {
		if m, ok := tryUnmarshal(span); ok {
			return m
		}
		// Lower confidence: the span may use single-quoted strings.
		if m, ok := tryUnmarshal(strings.ReplaceAll(span, "'", `"`)); ok {
			return m
		}
	}

	if m, ok := tryUnmarshal(strings.ReplaceAll(trimmed, "'", `"`)); ok {
		return m
	}

	if logger != nil {
		logger.Debug("No structured content recovered from model output",
			"text_length", len(text))
	}
	return Mapping{}
}

func tryUnmarshal(s string) (Mapping, bool) {
	var m Mapping
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	if m == nil {
		return nil, false
	}
	return m, true
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, and any stray backticks left at the edges.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}

// braceSpan returns the first balanced top-level {...} span in raw, greedy to
// the matching closing brace. Braces inside JSON strings are skipped.
func braceSpan(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}

// First returns the first non-empty value among the candidate keys.
// Alias resolution is an ordered lookup, not a conditional chain: callers
// declare (candidate -> canonical) pairs as a plain key list.
func (m Mapping) First(keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// String resolves the candidate keys to a trimmed string, or "".
func (m Mapping) String(keys ...string) string {
	return AsString(m.First(keys...))
}

// StringList resolves the candidate keys to a list of non-empty trimmed
// strings, or an empty (non-nil) list.
func (m Mapping) StringList(keys ...string) []string {
	return AsStringList(m.First(keys...))
}

// Int resolves the candidate keys to an integer. The second return reports
// whether a numeric value was actually present, so callers can distinguish
// "0" from "non-numeric" and recompute instead of discarding signal.
func (m Mapping) Int(keys ...string) (int, bool) {
	return AsInt(m.First(keys...))
}

// MappingList resolves the candidate keys to a list of nested mappings.
func (m Mapping) MappingList(keys ...string) []Mapping {
	v := m.First(keys...)
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Mapping, 0, len(items))
	for _, item := range items {
		if nested, ok := item.(map[string]any); ok {
			out = append(out, Mapping(nested))
		}
	}
	return out
}

// AsString coerces a decoded JSON value to a trimmed string.
func AsString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// AsStringList coerces a decoded JSON value to a list of non-empty strings.
// A bare string is treated as a single-element list; anything else yields an
// empty, non-nil list.
func AsStringList(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := AsString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(val); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AsInt coerces a decoded JSON value to an int, rounding floats and parsing
// numeric strings. The second return is false for anything non-numeric.
func AsInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(math.Round(val)), true
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	default:
		return 0, false
	}
}

// Clamp bounds a score into [0,100].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// DedupFold removes duplicates under case-insensitive comparison while
// preserving first-seen order and original spelling.
func DedupFold(items []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
