package pager

import (
	"strconv"
	"strings"
)

// labelWindow is how many pages either side of the current page get a label.
const labelWindow = 2

// Ellipsis is the text of a gap label.
const Ellipsis = "..."

// Label is one entry in the page navigation bar: a page number, or an
// ellipsis standing in for a run of skipped pages.
type Label struct {
	Page     int
	Ellipsis bool
}

// String renders the label as the page number or Ellipsis.
func (l Label) String() string {
	if l.Ellipsis {
		return Ellipsis
	}
	return strconv.Itoa(l.Page)
}

// PageNumberLabels returns the labels for the navigation bar. Page 1 and the
// last page are always present, as is every page within two of the current
// one. A single ellipsis replaces each gap of more than one page.
func (p *Pager[T]) PageNumberLabels() []Label {
	return pageLabels(p.page, p.TotalPages())
}

func pageLabels(current, total int) []Label {
	if total <= 1 {
		return []Label{{Page: 1}}
	}

	pages := make([]int, 0, 2*labelWindow+3) //nolint:mnd // window both sides plus first, last and current
	pages = append(pages, 1)
	for n := max(2, current-labelWindow); n <= min(total-1, current+labelWindow); n++ {
		pages = append(pages, n)
	}
	pages = append(pages, total)

	labels := make([]Label, 0, 2*len(pages)) //nolint:mnd // at most one ellipsis per page
	for i, n := range pages {
		if i > 0 && n-pages[i-1] > 1 {
			labels = append(labels, Label{Ellipsis: true})
		}
		labels = append(labels, Label{Page: n})
	}
	return labels
}

// FormatLabels joins labels for plain-text output, marking the current page
// with brackets: "1 ... 4 [5] 6 ... 12".
func FormatLabels(labels []Label, current int) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		s := l.String()
		if !l.Ellipsis && l.Page == current {
			s = "[" + s + "]"
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}
