package helpers

import (
	"strconv"
	"strings"
)

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// SplitDate splits a composite date on sep. The year, month and day are the
// first three parts; anything after the third separator is returned as other.
func SplitDate(s string, sep rune) (year, month, day, other string) {
	parts := strings.SplitN(s, string(sep), 4)
	get := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
	return get(0), get(1), get(2), get(3)
}

// SplitMedlineDate splits a free-text MEDLINE date such as "2003 Jan-Feb"
// into at most three whitespace-separated parts. A month range keeps its
// bounds separated by '/'.
func SplitMedlineDate(s string) []string {
	toks := strings.Fields(s)
	if len(toks) > 3 {
		toks = toks[:3]
	}
	if len(toks) > 1 {
		toks[1] = strings.ReplaceAll(toks[1], "-", "/")
	}
	return toks
}

// MonthName abbreviates a numeric month (1-12). Other values are returned
// unchanged.
func MonthName(s string) string {
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	m, err := strconv.Atoi(s[:digits])
	if err != nil || m < 1 || m > 12 {
		return s
	}
	return monthAbbrev[m-1]
}
