package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanText collapses all runs of whitespace into single spaces and trims the result
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes cuts s to at most max runes without splitting a UTF-8 sequence
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// RuneLen is the character length used by every length filter
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// DedupeKey is the case-insensitive comparison key for text values.
// prefix > 0 limits the key to the first prefix runes.
func DedupeKey(s string, prefix int) string {
	key := strings.ToLower(CleanText(s))
	if prefix > 0 {
		key = TruncateRunes(key, prefix)
	}
	return key
}

// StringSet is an insertion-ordered set of dedupe keys
type StringSet struct {
	seen map[string]struct{}
}

// NewStringSet creates an empty set
func NewStringSet() *StringSet {
	return &StringSet{seen: make(map[string]struct{})}
}

// Add inserts key and reports whether it was new
func (s *StringSet) Add(key string) bool {
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Len returns the number of keys
func (s *StringSet) Len() int {
	return len(s.seen)
}

// Clamp01 bounds a confidence value to [0,1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
