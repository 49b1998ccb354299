package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var nonNumeric = regexp.MustCompile(`[^\d.\-]`)

// SafeNumber converts a feed amount written as text into a float. Currency
// symbols, spaces and thousand separators are stripped outright. Returns nil
// when nothing parseable remains.
//
// Comma is NOT treated as a decimal separator: "1.234,56" parses as 1.23456.
// That matches the upstream feed grammar this pipeline is pinned to; see
// DESIGN.md before changing it.
func SafeNumber(value string) *float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}

	s = nonNumeric.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return nil
	}
	if strings.Count(s, ".") > 1 {
		return nil
	}

	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate coerces a feed timestamp into a time. Unparseable or missing
// input yields nil rather than an error.
func ParseDate(value *string) *time.Time {
	if value == nil {
		return nil
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }
