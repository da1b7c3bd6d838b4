// Package numeric turns loosely typed operator input into numbers.
//
// Parsing never fails: anything that does not start with a number is 0, so
// a sloppy answer can never stall an interview.
package numeric

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// leadingFloat matches the longest numeric prefix, like a lenient parseFloat.
var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Parse strips euro signs and whitespace, treats the first comma as the
// decimal separator and reads the leading number. Unparseable text is 0.
func Parse(s string) float64 {
	s = strings.Map(func(r rune) rune {
		if r == '€' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.Replace(s, ",", ".", 1)

	m := leadingFloat.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParsePtr is Parse for optional input; nil is 0.
func ParsePtr(s *string) float64 {
	if s == nil {
		return 0
	}
	return Parse(*s)
}

// Count parses s and rounds to the nearest whole number (halves away from zero).
func Count(s string) float64 {
	return math.Round(Parse(s))
}

// SafeDiv returns a/b, or 0 when b is 0.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
