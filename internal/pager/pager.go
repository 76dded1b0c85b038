package pager

// DefaultPageSize is used when New is given a non-positive size.
const DefaultPageSize = 10

// PageSizeChoices are the sizes offered by the letter list.
//
//nolint:gochecknoglobals // Fixed option list.
var PageSizeChoices = []int{5, 10, 20, 50}

// Pager pages through a slice of T.
type Pager[T any] struct {
	items    []T
	pageSize int
	page     int
}

// New returns an empty Pager on page 1.
func New[T any](pageSize int) *Pager[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager[T]{pageSize: pageSize, page: 1}
}

// SetFullResult replaces the backing items and clamps the current page.
// The slice is copied.
func (p *Pager[T]) SetFullResult(items []T) {
	p.items = append([]T(nil), items...)
	p.clamp()
}

// ResetPage moves to page 1.
func (p *Pager[T]) ResetPage() {
	p.page = 1
}

// GoToPage moves to page n. It returns false and changes nothing when n is
// outside [1, TotalPages].
func (p *Pager[T]) GoToPage(n int) bool {
	if n < 1 || n > p.TotalPages() {
		return false
	}
	p.page = n
	return true
}

// Next moves forward one page, if there is one.
func (p *Pager[T]) Next() bool {
	return p.GoToPage(p.page + 1)
}

// Prev moves back one page, if there is one.
func (p *Pager[T]) Prev() bool {
	return p.GoToPage(p.page - 1)
}

// First moves to page 1.
func (p *Pager[T]) First() bool {
	return p.GoToPage(1)
}

// Last moves to the final page.
func (p *Pager[T]) Last() bool {
	return p.GoToPage(p.TotalPages())
}

// SetPageSize changes the page size and restarts at page 1. Non-positive
// sizes are rejected.
func (p *Pager[T]) SetPageSize(n int) bool {
	if n <= 0 {
		return false
	}
	p.pageSize = n
	p.page = 1
	return true
}

// RemoveItem deletes every item matching pred and returns how many were
// removed. If that empties the current page and it is not the first, the
// pager steps back one page.
func (p *Pager[T]) RemoveItem(pred func(T) bool) int {
	if pred == nil {
		return 0
	}
	kept := p.items[:0]
	removed := 0
	for _, item := range p.items {
		if pred(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	// Zero the tail so removed items can be collected.
	var zero T
	for i := len(kept); i < len(p.items); i++ {
		p.items[i] = zero
	}
	p.items = kept

	if removed == 0 {
		return 0
	}
	if p.page > 1 && (p.page-1)*p.pageSize >= len(p.items) {
		p.page--
	}
	p.clamp()
	return removed
}

// UpdateItem applies fn to every item matching pred, in place, and returns
// how many were updated. The page is unchanged.
func (p *Pager[T]) UpdateItem(pred func(T) bool, fn func(T) T) int {
	if pred == nil || fn == nil {
		return 0
	}
	updated := 0
	for i, item := range p.items {
		if pred(item) {
			p.items[i] = fn(item)
			updated++
		}
	}
	return updated
}

// Items returns a copy of the full result set.
func (p *Pager[T]) Items() []T {
	return append([]T(nil), p.items...)
}

// Visible returns the items on the current page. The returned slice aliases
// the pager's storage and must not be modified.
func (p *Pager[T]) Visible() []T {
	from, to := p.bounds()
	return p.items[from:to:to]
}

// Len returns the number of items in the full result set.
func (p *Pager[T]) Len() int {
	return len(p.items)
}

// Page returns the 1-based current page.
func (p *Pager[T]) Page() int {
	return p.page
}

// PageSize returns the number of items per page.
func (p *Pager[T]) PageSize() int {
	return p.pageSize
}

// TotalPages returns max(1, ceil(Len/PageSize)).
func (p *Pager[T]) TotalPages() int {
	if len(p.items) == 0 {
		return 1
	}
	return (len(p.items) + p.pageSize - 1) / p.pageSize
}

// HasNext reports whether a later page exists.
func (p *Pager[T]) HasNext() bool {
	return p.page < p.TotalPages()
}

// HasPrevious reports whether an earlier page exists.
func (p *Pager[T]) HasPrevious() bool {
	return p.page > 1
}

// Range returns the 1-based positions of the first and last visible items,
// for "showing 11-20 of 23". Both are 0 when the result set is empty.
func (p *Pager[T]) Range() (int, int) {
	from, to := p.bounds()
	if from == to {
		return 0, 0
	}
	return from + 1, to
}

// Meta summarises the pager state.
func (p *Pager[T]) Meta() Meta {
	return Meta{
		CurrentPage: p.page,
		PageSize:    p.pageSize,
		TotalPages:  p.TotalPages(),
		TotalItems:  len(p.items),
		HasPrevious: p.HasPrevious(),
		HasNext:     p.HasNext(),
	}
}

func (p *Pager[T]) bounds() (int, int) {
	from := (p.page - 1) * p.pageSize
	if from > len(p.items) {
		from = len(p.items)
	}
	to := from + p.pageSize
	if to > len(p.items) {
		to = len(p.items)
	}
	return from, to
}

func (p *Pager[T]) clamp() {
	if total := p.TotalPages(); p.page > total {
		p.page = total
	}
	if p.page < 1 {
		p.page = 1
	}
}
