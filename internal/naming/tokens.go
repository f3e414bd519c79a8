package naming

import (
	"strconv"
	"strings"
)

// romanValues covers I through XX.
var romanValues = buildRomanValues(20)

func buildRomanValues(limit int) map[string]int {
	ones := []string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX"}
	tens := []string{"", "X", "XX"}
	out := make(map[string]int, limit)
	for n := 1; n <= limit; n++ {
		out[tens[n/10]+ones[n%10]] = n
	}
	return out
}

// RomanValue returns the value of a roman numeral in I..XX.
func RomanValue(token string) (int, bool) {
	v, ok := romanValues[strings.ToUpper(strings.TrimSpace(token))]
	return v, ok
}

// diskValue normalizes a disk token: digits parse directly, roman numerals
// I..XX take precedence over letters, and a single letter maps to its
// alphabet position. Anything else yields 0.
func diskValue(token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	if n, err := strconv.Atoi(token); err == nil {
		if n < 1 {
			return 0
		}
		return n
	}
	if v, ok := RomanValue(token); ok {
		return v
	}
	if len(token) == 1 {
		return letterValue(token[0])
	}
	return 0
}

func sideValue(token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	if n, err := strconv.Atoi(token); err == nil {
		return n
	}
	return letterValue(token[0])
}

func totalValue(token string) int {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func letterValue(b byte) int {
	switch {
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 1
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 1
	}
	return 0
}
