package numbering

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	referenceSeparator = "/"
	referenceFields    = 5
	yearDigits         = 4
)

// NullInt is an integer that may be absent. A numeric field of a reference
// number that does not start with digits parses to an invalid NullInt.
type NullInt struct {
	Value int
	Valid bool
}

// Int returns a valid NullInt holding v.
func Int(v int) NullInt {
	return NullInt{Value: v, Valid: true}
}

// String renders the value, or "NaN" when invalid.
func (n NullInt) String() string {
	if !n.Valid {
		return "NaN"
	}
	return strconv.Itoa(n.Value)
}

// MarshalJSON renders an invalid NullInt as null.
func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// ReferenceNumber is a reference number split into its positional fields.
type ReferenceNumber struct {
	Sequence     NullInt `json:"sequence"`
	CategoryCode string  `json:"category_code"`
	CompanyCode  string  `json:"company_code"`
	MonthRoman   string  `json:"month_roman"`
	Year         NullInt `json:"year"`
}

// ParseReferenceNumber splits s on "/" and maps the five fields positionally.
// It returns false unless there are exactly five fields. Sequence and year are
// read with a lenient integer parse (leading digits, trailing junk ignored,
// 0x selects hex); a field with no leading digits, or one too large for an
// int, yields an invalid NullInt and the parse still succeeds. Use WellFormed
// to reject such values.
func ParseReferenceNumber(s string) (ReferenceNumber, bool) {
	parts := strings.Split(s, referenceSeparator)
	if len(parts) != referenceFields {
		return ReferenceNumber{}, false
	}
	return ReferenceNumber{
		Sequence:     parseLeadingInt(parts[0]),
		CategoryCode: parts[1],
		CompanyCode:  parts[2],
		MonthRoman:   parts[3],
		Year:         parseLeadingInt(parts[4]),
	}, true
}

// String reassembles the reference number. Invalid numeric fields render as
// "NaN".
func (r ReferenceNumber) String() string {
	return strings.Join([]string{
		r.Sequence.String(),
		r.CategoryCode,
		r.CompanyCode,
		r.MonthRoman,
		r.Year.String(),
	}, referenceSeparator)
}

// Month returns the calendar month encoded by MonthRoman.
func (r ReferenceNumber) Month() (int, bool) {
	return RomanToMonth(r.MonthRoman)
}

// WellFormed reports whether every field holds a plausible value: a
// non-negative sequence, non-empty codes, a Roman month I..XII and a
// four-digit year.
func (r ReferenceNumber) WellFormed() bool {
	if !r.Sequence.Valid || r.Sequence.Value < 0 {
		return false
	}
	if r.CategoryCode == "" || r.CompanyCode == "" {
		return false
	}
	if _, ok := r.Month(); !ok {
		return false
	}
	return r.Year.Valid && len(strconv.Itoa(r.Year.Value)) == yearDigits
}

// FormatReferenceNumber renders a reference number in the default layout.
func FormatReferenceNumber(sequence int, categoryCode, companyCode string, month, year int) string {
	return fmt.Sprintf("%d/%s/%s/%s/%d", sequence, categoryCode, companyCode, MonthToRoman(month), year)
}

// parseLeadingInt reads an optionally signed run of leading digits after any
// leading whitespace. A 0x or 0X prefix switches to hexadecimal. Anything
// after the digits is ignored. A value outside the int range is invalid.
func parseLeadingInt(s string) NullInt {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}

	base, isDigit := 10, isDecimalDigit
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit, s = 16, isHexDigit, s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return NullInt{}
	}

	v, err := strconv.ParseInt(sign+s[:end], base, strconv.IntSize)
	if err != nil {
		return NullInt{}
	}
	return Int(int(v))
}

func isDecimalDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDecimalDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
