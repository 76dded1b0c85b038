package numbering

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// InvalidDate is what FormatDateLong and FormatDateShort print for input
// they cannot parse.
const InvalidDate = "Invalid Date"

// inputLayout is the HTML date-input layout.
const inputLayout = "2006-01-02"

// Layouts accepted for letter dates, tried in order. The API sends either a
// bare date (tanggal) or an RFC 3339 timestamp (created_at).
//
//nolint:gochecknoglobals // Fixed lookup table.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	inputLayout,
}

type monthNames struct {
	long  [12]string
	short [12]string
}

//nolint:gochecknoglobals // Fixed lookup tables.
var (
	indonesianMonths = monthNames{
		long: [12]string{
			"Januari", "Februari", "Maret", "April", "Mei", "Juni",
			"Juli", "Agustus", "September", "Oktober", "November", "Desember",
		},
		short: [12]string{
			"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
			"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
		},
	}
	englishMonths = monthNames{
		long: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		short: [12]string{
			"Jan", "Feb", "Mar", "Apr", "May", "Jun",
			"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
		},
	}

	supportedLocales = []language.Tag{language.Indonesian, language.English}
	localeMatcher    = language.NewMatcher(supportedLocales)
)

// DateFormatter renders letter dates day-month-year in a locale and
// location. The zero value is not usable; use NewDateFormatter.
type DateFormatter struct {
	tag    language.Tag
	months monthNames
	loc    *time.Location
}

// NewDateFormatter returns a formatter for the closest supported match to
// locale (a BCP 47 tag such as "id-ID" or "en"). Unknown or empty locales
// fall back to Indonesian. A nil loc means time.Local.
func NewDateFormatter(locale string, loc *time.Location) DateFormatter {
	if loc == nil {
		loc = time.Local
	}

	tag := language.Indonesian
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, confidence := localeMatcher.Match(parsed)
			if confidence != language.No {
				tag = supportedLocales[idx]
			}
		}
	}

	months := indonesianMonths
	if tag == language.English {
		months = englishMonths
	}
	return DateFormatter{tag: tag, months: months, loc: loc}
}

// Locale returns the matched locale tag.
func (f DateFormatter) Locale() language.Tag {
	return f.tag
}

// Location returns the zone dates are rendered in.
func (f DateFormatter) Location() *time.Location {
	return f.loc
}

// Long renders s as "5 Oktober 2025".
func (f DateFormatter) Long(s string) string {
	t, ok := f.Parse(s)
	if !ok {
		return InvalidDate
	}
	return fmt.Sprintf("%d %s %d", t.Day(), f.months.long[t.Month()-1], t.Year())
}

// Short renders s as "5 Okt 2025".
func (f DateFormatter) Short(s string) string {
	t, ok := f.Parse(s)
	if !ok {
		return InvalidDate
	}
	return fmt.Sprintf("%d %s %d", t.Day(), f.months.short[t.Month()-1], t.Year())
}

// ForInput renders s as "2025-10-05", or "" when s cannot be parsed.
func (f DateFormatter) ForInput(s string) string {
	t, ok := f.Parse(s)
	if !ok {
		return ""
	}
	return t.Format(inputLayout)
}

// Parse reads s with any accepted layout and converts it to the formatter's
// location. Bare dates are taken as calendar dates in that location so they
// never shift by a day.
func (f DateFormatter) Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339Nano {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, f.loc)
		}
		if err == nil {
			return t.In(f.loc), true
		}
	}
	return time.Time{}, false
}

// defaultFormatter backs the package-level helpers.
//
//nolint:gochecknoglobals // Immutable after init.
var defaultFormatter = NewDateFormatter("id-ID", time.Local)

// FormatDateLong renders s in the Indonesian long form, "5 Oktober 2025".
func FormatDateLong(s string) string {
	return defaultFormatter.Long(s)
}

// FormatDateShort renders s in the Indonesian short form, "5 Okt 2025".
func FormatDateShort(s string) string {
	return defaultFormatter.Short(s)
}

// FormatDateForInput renders s as "2025-10-05".
func FormatDateForInput(s string) string {
	return defaultFormatter.ForInput(s)
}
