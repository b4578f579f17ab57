package util

import (
	"sort"
	"strings"
)

// SplitCommaSeparated splits a comma-separated string and trims whitespace from each element.
// Empty input returns nil.
func SplitCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Unquote strips one pair of surrounding double quotes. Unquoted input is
// returned trimmed but otherwise verbatim.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Quote wraps s in double quotes the way the appliance CLI prints names.
func Quote(s string) string {
	return `"` + s + `"`
}

// QuoteIfNeeded quotes s only when it is empty or contains whitespace.
func QuoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t") {
		return Quote(s)
	}
	return s
}

// LastSegment returns the part of s after the final sep.
// Example: LastSegment("PARENT|CHILD", "|") → "CHILD"
func LastSegment(s, sep string) string {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return s
}

// SortedKeys returns the keys of a string set in ascending order.
func SortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
