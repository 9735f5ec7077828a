package helpers

import "strings"

// SplitPages splits a page range such as "12111-6" into its start and end
// pages. An end token shorter than the start token only carries the
// low-order digits, so "12111-6" yields 12111 and 12116.
func SplitPages(s string) (start, end string) {
	s = strings.TrimSpace(s)
	i := strings.IndexByte(s, '-')
	if i == -1 {
		return s, ""
	}
	start = strings.TrimSpace(s[:i])
	end = strings.TrimSpace(strings.TrimLeft(s[i+1:], "-"))
	if end == "" || len(end) >= len(start) {
		return start, end
	}
	return start, start[:len(start)-len(end)] + end
}

var romanDigits = map[byte]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// IsRomanNumeral reports whether s consists only of roman numeral letters.
func IsRomanNumeral(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if _, ok := romanDigits[upper(s[i])]; !ok {
			return false
		}
	}
	return true
}

// RomanValue decodes a roman numeral, case-insensitively. It returns 0 for
// anything that is not a roman numeral.
func RomanValue(s string) int {
	if !IsRomanNumeral(s) {
		return 0
	}
	total := 0
	for i := 0; i < len(s); i++ {
		v := romanDigits[upper(s[i])]
		if i+1 < len(s) && romanDigits[upper(s[i+1])] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}

// IsArabic reports whether s is a non-empty string of ASCII digits.
func IsArabic(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
