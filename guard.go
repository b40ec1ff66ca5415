package viewz

import (
	"cmp"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Guards are write predicates for Cell.Conditionally.

// MaxLen accepts strings of at most n characters.
func MaxLen(n int) func(string) bool {
	return func(s string) bool {
		return utf8.RuneCountInString(s) <= n
	}
}

// MinLen accepts strings of at least n characters.
func MinLen(n int) func(string) bool {
	return func(s string) bool {
		return utf8.RuneCountInString(s) >= n
	}
}

// Required rejects blank strings.
func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}

// InRange accepts values in the closed interval [lo, hi].
func InRange[T cmp.Ordered](lo, hi T) func(T) bool {
	return func(v T) bool {
		return v >= lo && v <= hi
	}
}

// Match accepts empty strings and strings matching pattern.
func Match(pattern string) func(string) bool {
	re := regexp.MustCompile(pattern)
	return func(s string) bool {
		return s == "" || re.MatchString(s)
	}
}
