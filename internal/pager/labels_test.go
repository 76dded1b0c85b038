package pager_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/pager"
)

func labelString(labels []pager.Label) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.String()
	}
	return strings.Join(parts, " ")
}

func labelsAt(t *testing.T, items, size, page int) []pager.Label {
	t.Helper()
	p := pager.New[int](size)
	p.SetFullResult(seq(items))
	require.True(t, p.GoToPage(page))
	return p.PageNumberLabels()
}

func TestPageNumberLabels(t *testing.T) {
	tests := []struct {
		name  string
		items int
		page  int
		want  string
	}{
		{name: "empty", items: 0, page: 1, want: "1"},
		{name: "single page", items: 7, page: 1, want: "1"},
		{name: "two pages", items: 15, page: 2, want: "1 2"},
		{name: "three pages", items: 23, page: 1, want: "1 2 3"},
		{name: "five pages middle", items: 50, page: 3, want: "1 2 3 4 5"},
		{name: "twelve pages start", items: 120, page: 1, want: "1 2 3 ... 12"},
		{name: "twelve pages third", items: 120, page: 3, want: "1 2 3 4 5 ... 12"},
		{name: "twelve pages fourth", items: 120, page: 4, want: "1 2 3 4 5 6 ... 12"},
		{name: "twelve pages middle", items: 120, page: 6, want: "1 ... 4 5 6 7 8 ... 12"},
		{name: "twelve pages ninth", items: 120, page: 9, want: "1 ... 7 8 9 10 11 12"},
		{name: "twelve pages end", items: 120, page: 12, want: "1 ... 10 11 12"},
		{name: "seven pages gap of one page", items: 70, page: 5, want: "1 ... 3 4 5 6 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labelString(labelsAt(t, tt.items, 10, tt.page))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPageNumberLabels_Properties(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for page := 1; page <= total; page++ {
			labels := labelsAt(t, total*3, 3, page)

			require.NotEmpty(t, labels)
			assert.Equal(t, pager.Label{Page: 1}, labels[0], "total=%d page=%d", total, page)
			if total > 1 {
				assert.Equal(t, pager.Label{Page: total}, labels[len(labels)-1], "total=%d page=%d", total, page)
			}

			seen := make(map[int]bool)
			prev := 0
			for i, l := range labels {
				if l.Ellipsis {
					assert.False(t, labels[i-1].Ellipsis, "adjacent ellipses at total=%d page=%d", total, page)
					continue
				}
				assert.False(t, seen[l.Page], "duplicate %d at total=%d page=%d", l.Page, total, page)
				seen[l.Page] = true
				assert.Greater(t, l.Page, prev)
				if i > 0 && !labels[i-1].Ellipsis {
					assert.Equal(t, prev+1, l.Page, "missing ellipsis at total=%d page=%d", total, page)
				}
				prev = l.Page
			}

			for n := max(1, page-2); n <= min(total, page+2); n++ {
				assert.True(t, seen[n], "page %d missing at total=%d page=%d", n, total, page)
			}
		}
	}
}

func TestFormatLabels(t *testing.T) {
	labels := labelsAt(t, 120, 10, 5)
	assert.Equal(t, "1 ... 3 4 [5] 6 7 ... 12", pager.FormatLabels(labels, 5))
}
