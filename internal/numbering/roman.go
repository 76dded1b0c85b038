package numbering

import "strings"

// romanMonths maps month-1 to its Roman code.
//
//nolint:gochecknoglobals // Fixed lookup table.
var romanMonths = [12]string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

// FallbackRoman is returned by MonthToRoman for months outside 1..12.
const FallbackRoman = "I"

// MonthToRoman returns the Roman code of month (1 = "I", 12 = "XII").
// Months outside 1..12 return FallbackRoman rather than an error, matching
// what the numbering service prints for such input.
func MonthToRoman(month int) string {
	if month < 1 || month > len(romanMonths) {
		return FallbackRoman
	}
	return romanMonths[month-1]
}

// RomanToMonth is the inverse of MonthToRoman. Matching is case-insensitive
// and ignores surrounding whitespace.
func RomanToMonth(code string) (int, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, r := range romanMonths {
		if r == code {
			return i + 1, true
		}
	}
	return 0, false
}
