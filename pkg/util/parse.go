package util

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseFloat parses s as a float64, tolerating surrounding whitespace and
// thousands separators. Returns (v, true) if it parsed.
func ParseFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloatPtr parses s as a float64 or returns nil if empty/invalid.
func ParseFloatPtr(s string) *float64 {
	if v, ok := ParseFloat(s); ok {
		return &v
	}
	return nil
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// FirstSubmatch runs re against body and returns the first capture group, or
// "" when there is no match. Used by the scrape fallbacks where the upstream
// page embeds values in markup instead of clean JSON.
func FirstSubmatch(re *regexp.Regexp, body string) string {
	m := re.FindStringSubmatch(body)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
