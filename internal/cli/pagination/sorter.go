package pagination

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/numbering"
)

// Sort fields accepted for letters.
const (
	FieldNumber   = "nomor"
	FieldDate     = "tanggal"
	FieldSubject  = "perihal"
	FieldCompany  = "perusahaan"
	FieldCategory = "kategori"
	FieldCreated  = "dibuat"
)

type letterCompare func(a, b api.Letter) int

//nolint:gochecknoglobals // Fixed lookup table.
var letterFields = map[string]letterCompare{
	FieldNumber:   compareReference,
	FieldDate:     func(a, b api.Letter) int { return strings.Compare(a.Date, b.Date) },
	FieldSubject:  func(a, b api.Letter) int { return compareFold(a.Subject, b.Subject) },
	FieldCompany:  func(a, b api.Letter) int { return compareFold(a.CompanyName, b.CompanyName) },
	FieldCategory: func(a, b api.Letter) int { return compareFold(a.CategoryName, b.CategoryName) },
	FieldCreated:  func(a, b api.Letter) int { return strings.Compare(a.CreatedAt, b.CreatedAt) },
}

// LetterFields returns the accepted sort fields in order.
func LetterFields() []string {
	fields := make([]string, 0, len(letterFields))
	for f := range letterFields {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// SortLetters returns a sorted copy of ls for a --sort expression. Sorting
// is stable, so letters that compare equal keep the server's order. An
// empty expression returns ls unchanged.
func SortLetters(ls []api.Letter, expr string) ([]api.Letter, error) {
	field, order, err := ParseSort(expr)
	if err != nil {
		return nil, err
	}
	if field == "" {
		return ls, nil
	}
	compare, ok := letterFields[strings.ToLower(field)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(LetterFields(), ", "))
	}

	sorted := slices.Clone(ls)
	slices.SortStableFunc(sorted, func(a, b api.Letter) int {
		if order == SortOrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted, nil
}

// compareReference orders reference numbers by year, then month, then
// sequence. Numbers that do not parse sort first, by their text.
func compareReference(a, b api.Letter) int {
	ra, okA := numbering.ParseReferenceNumber(a.ReferenceNumber)
	rb, okB := numbering.ParseReferenceNumber(b.ReferenceNumber)
	switch {
	case !okA && !okB:
		return strings.Compare(a.ReferenceNumber, b.ReferenceNumber)
	case !okA:
		return -1
	case !okB:
		return 1
	}
	ma, _ := ra.Month()
	mb, _ := rb.Month()
	return cmp.Or(
		cmp.Compare(ra.Year.Value, rb.Year.Value),
		cmp.Compare(ma, mb),
		cmp.Compare(ra.Sequence.Value, rb.Sequence.Value),
		strings.Compare(a.ReferenceNumber, b.ReferenceNumber),
	)
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
