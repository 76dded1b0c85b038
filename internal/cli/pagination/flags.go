package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/pager"
)

// Sort orders.
const (
	DefaultPage   = 1
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
	sortPartsMax  = 2
)

// Validation errors.
var (
	ErrInvalidPageSize   = errors.New("page-size must be > 0")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'tanggal:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params are the paging flags of a list command.
type Params struct {
	Page     int
	PageSize int
	Sort     string
}

// AddFlags registers --page, --page-size and --sort on cmd.
func AddFlags(cmd *cobra.Command, p *Params, defaultPageSize int) {
	if defaultPageSize <= 0 {
		defaultPageSize = pager.DefaultPageSize
	}
	cmd.Flags().IntVar(&p.Page, "page", DefaultPage, "page to show (clamped to the available pages)")
	cmd.Flags().IntVar(&p.PageSize, "page-size", defaultPageSize,
		fmt.Sprintf("letters per page (suggested: %s)", choices()))
	cmd.Flags().StringVar(&p.Sort, "sort", "", "sort as field[:asc|desc] before paging")
}

func choices() string {
	parts := make([]string, 0, len(pager.PageSizeChoices))
	for _, n := range pager.PageSizeChoices {
		parts = append(parts, fmt.Sprint(n))
	}
	return strings.Join(parts, ", ")
}

// Validate rejects a non-positive page size and a malformed sort. The page
// number is never an error.
func (p Params) Validate() error {
	if p.PageSize <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidPageSize, p.PageSize)
	}
	if _, _, err := ParseSort(p.Sort); err != nil {
		return err
	}
	return nil
}

// Apply sizes pg and moves it to the requested page, clamping out-of-range
// pages to the first or last page.
func Apply[T any](pg *pager.Pager[T], p Params) {
	pg.SetPageSize(p.PageSize)
	switch {
	case p.Page <= 1:
		pg.First()
	case p.Page > pg.TotalPages():
		pg.Last()
	default:
		pg.GoToPage(p.Page)
	}
}

// ParseSort parses "field" or "field:order". An empty string means no
// sorting and yields an empty field.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if strings.TrimSpace(sortStr) == "" {
		return "", SortOrderAsc, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = SortOrderAsc
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}
