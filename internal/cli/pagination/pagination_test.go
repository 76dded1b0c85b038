package pagination

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/pager"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{name: "defaults", params: Params{Page: 1, PageSize: 10}},
		{name: "page past end is fine", params: Params{Page: 999, PageSize: 10}},
		{name: "page zero is fine", params: Params{Page: 0, PageSize: 7}},
		{name: "zero page size", params: Params{Page: 1, PageSize: 0}, wantErr: ErrInvalidPageSize},
		{name: "negative page size", params: Params{Page: 1, PageSize: -5}, wantErr: ErrInvalidPageSize},
		{name: "bad sort order", params: Params{PageSize: 10, Sort: "tanggal:up"}, wantErr: ErrInvalidSortOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAddFlags(t *testing.T) {
	var p Params
	cmd := &cobra.Command{Use: "list"}
	AddFlags(cmd, &p, 20)
	require.NoError(t, cmd.ParseFlags([]string{"--page", "3"}))
	assert.Equal(t, Params{Page: 3, PageSize: 20}, p)
	assert.Contains(t, cmd.Flags().Lookup("page-size").Usage, "5, 10, 20, 50")
}

func TestApply(t *testing.T) {
	items := make([]int, 23)
	tests := []struct {
		name     string
		params   Params
		wantPage int
	}{
		{"in range", Params{Page: 2, PageSize: 10}, 2},
		{"past end clamps to last", Params{Page: 99, PageSize: 10}, 3},
		{"zero clamps to first", Params{Page: 0, PageSize: 10}, 1},
		{"negative clamps to first", Params{Page: -4, PageSize: 5}, 1},
		{"odd page size", Params{Page: 4, PageSize: 7}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := pager.New[int](pager.DefaultPageSize)
			pg.SetFullResult(items)
			Apply(pg, tt.params)
			assert.Equal(t, tt.wantPage, pg.Page())
			assert.Equal(t, tt.params.PageSize, pg.PageSize())
		})
	}
}

func TestApply_EmptyResult(t *testing.T) {
	pg := pager.New[int](pager.DefaultPageSize)
	Apply(pg, Params{Page: 5, PageSize: 10})
	assert.Equal(t, 1, pg.Page())
	assert.Empty(t, pg.Visible())
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in        string
		field     string
		order     string
		wantError error
	}{
		{in: "", field: "", order: SortOrderAsc},
		{in: "tanggal", field: "tanggal", order: SortOrderAsc},
		{in: "tanggal:DESC", field: "tanggal", order: SortOrderDesc},
		{in: " nomor : asc ", field: "nomor", order: SortOrderAsc},
		{in: "a:b:c", wantError: ErrInvalidSortFormat},
		{in: ":desc", wantError: ErrEmptySortField},
		{in: "nomor:sideways", wantError: ErrInvalidSortOrder},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			field, order, err := ParseSort(tt.in)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.field, field)
			assert.Equal(t, tt.order, order)
		})
	}
}

func refs(ls []api.Letter) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ReferenceNumber)
	}
	return out
}

func TestSortLetters(t *testing.T) {
	ls := []api.Letter{
		{ReferenceNumber: "10/SP/EP/I/2025", Subject: "beta", Date: "2025-01-20"},
		{ReferenceNumber: "2/SP/EP/XII/2024", Subject: "Alfa", Date: "2024-12-03"},
		{ReferenceNumber: "9/SP/EP/I/2025", Subject: "gamma", Date: "2025-01-19"},
		{ReferenceNumber: "draft", Subject: "delta", Date: "2025-02-01"},
	}

	t.Run("by number", func(t *testing.T) {
		got, err := SortLetters(ls, "nomor")
		require.NoError(t, err)
		assert.Equal(t, []string{"draft", "2/SP/EP/XII/2024", "9/SP/EP/I/2025", "10/SP/EP/I/2025"}, refs(got))
	})

	t.Run("by date descending", func(t *testing.T) {
		got, err := SortLetters(ls, "tanggal:desc")
		require.NoError(t, err)
		assert.Equal(t, []string{"draft", "10/SP/EP/I/2025", "9/SP/EP/I/2025", "2/SP/EP/XII/2024"}, refs(got))
	})

	t.Run("by subject ignores case", func(t *testing.T) {
		got, err := SortLetters(ls, "perihal")
		require.NoError(t, err)
		assert.Equal(t, "Alfa", got[0].Subject)
	})

	t.Run("empty keeps order", func(t *testing.T) {
		got, err := SortLetters(ls, "")
		require.NoError(t, err)
		assert.Equal(t, refs(ls), refs(got))
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := SortLetters(ls, "warna")
		require.ErrorIs(t, err, ErrInvalidSortField)
		assert.Contains(t, err.Error(), "nomor")
	})

	t.Run("does not modify input", func(t *testing.T) {
		before := refs(ls)
		_, err := SortLetters(ls, "nomor:desc")
		require.NoError(t, err)
		assert.Equal(t, before, refs(ls))
	})
}

func TestLetterFields(t *testing.T) {
	assert.Equal(t, []string{"dibuat", "kategori", "nomor", "perihal", "perusahaan", "tanggal"}, LetterFields())
}
