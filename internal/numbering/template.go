package numbering

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Placeholders understood in a nomor_format template.
const (
	PlaceholderSequence = "{nomor}"
	PlaceholderCategory = "{kode_surat}"
	PlaceholderCompany  = "{kode_perusahaan}"
	PlaceholderMonth    = "{bulan}"
	PlaceholderYear     = "{tahun}"
)

// DefaultFormat is the server's default nomor_format.
const DefaultFormat = PlaceholderSequence + "/" + PlaceholderCategory + "/" +
	PlaceholderCompany + "/" + PlaceholderMonth + "/" + PlaceholderYear

// Template errors.
var (
	ErrEmptyTemplate       = errors.New("numbering: template is empty")
	ErrUnknownPlaceholder  = errors.New("numbering: unknown placeholder")
	ErrMissingSequence     = errors.New("numbering: template must contain " + PlaceholderSequence)
	ErrRepeatedPlaceholder = errors.New("numbering: placeholder used more than once")
)

//nolint:gochecknoglobals // Fixed patterns.
var (
	placeholderPattern = regexp.MustCompile(`\{[a-z_]+\}`)
	fieldPatterns      = map[string]string{
		PlaceholderSequence: `(\d+)`,
		PlaceholderCategory: `([^/]+?)`,
		PlaceholderCompany:  `([^/]+?)`,
		PlaceholderMonth:    `(I|II|III|IV|V|VI|VII|VIII|IX|X|XI|XII)`,
		PlaceholderYear:     `(\d{4})`,
	}
)

// Fields are the values substituted into a Template.
type Fields struct {
	Sequence     int
	CategoryCode string
	CompanyCode  string
	Month        int
	Year         int
}

// Template is a validated nomor_format string.
type Template struct {
	format string
	order  []string
	re     *regexp.Regexp
}

// ParseTemplate validates format. Every placeholder must be known and used at
// most once, and {nomor} must be present.
func ParseTemplate(format string) (Template, error) {
	if strings.TrimSpace(format) == "" {
		return Template{}, ErrEmptyTemplate
	}

	seen := make(map[string]bool)
	var order []string
	var pattern strings.Builder
	pattern.WriteString("^")

	last := 0
	for _, loc := range placeholderPattern.FindAllStringIndex(format, -1) {
		name := format[loc[0]:loc[1]]
		field, ok := fieldPatterns[name]
		if !ok {
			return Template{}, fmt.Errorf("%w: %s", ErrUnknownPlaceholder, name)
		}
		if seen[name] {
			return Template{}, fmt.Errorf("%w: %s", ErrRepeatedPlaceholder, name)
		}
		seen[name] = true
		order = append(order, name)

		pattern.WriteString(regexp.QuoteMeta(format[last:loc[0]]))
		pattern.WriteString(field)
		last = loc[1]
	}
	pattern.WriteString(regexp.QuoteMeta(format[last:]))
	pattern.WriteString("$")

	if !seen[PlaceholderSequence] {
		return Template{}, ErrMissingSequence
	}

	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return Template{}, fmt.Errorf("numbering: compiling template: %w", err)
	}
	return Template{format: format, order: order, re: re}, nil
}

// MustParseTemplate is ParseTemplate for known-good formats.
func MustParseTemplate(format string) Template {
	t, err := ParseTemplate(format)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the template source.
func (t Template) String() string {
	return t.format
}

// Render substitutes f into the template. The month is written as its Roman
// code.
func (t Template) Render(f Fields) string {
	return strings.NewReplacer(
		PlaceholderSequence, strconv.Itoa(f.Sequence),
		PlaceholderCategory, f.CategoryCode,
		PlaceholderCompany, f.CompanyCode,
		PlaceholderMonth, MonthToRoman(f.Month),
		PlaceholderYear, strconv.Itoa(f.Year),
	).Replace(t.format)
}

// Parse matches s against the template. Placeholders absent from the
// template leave their field zero. A number too large for an int is no match.
func (t Template) Parse(s string) (Fields, bool) {
	if t.re == nil {
		return Fields{}, false
	}
	m := t.re.FindStringSubmatch(s)
	if m == nil {
		return Fields{}, false
	}

	var (
		f   Fields
		err error
	)
	for i, name := range t.order {
		v := m[i+1]
		switch name {
		case PlaceholderSequence:
			f.Sequence, err = strconv.Atoi(v)
		case PlaceholderCategory:
			f.CategoryCode = v
		case PlaceholderCompany:
			f.CompanyCode = v
		case PlaceholderMonth:
			f.Month, _ = RomanToMonth(v)
		case PlaceholderYear:
			f.Year, err = strconv.Atoi(v)
		}
		if err != nil {
			return Fields{}, false
		}
	}
	return f, true
}
