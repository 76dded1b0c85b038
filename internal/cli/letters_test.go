package cli_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/api/apitest"
	"github.com/suratku/suratku/internal/cli"
	"github.com/suratku/suratku/internal/pager"
)

type letterListJSON struct {
	Letters    []api.Letter `json:"letters"`
	Pagination pager.Meta   `json:"pagination"`
	Pages      []string     `json:"pages"`
}

func listJSON(t *testing.T, h *harness, args ...string) letterListJSON {
	t.Helper()
	out, _, err := h.run("", append([]string{"letters", "list", "--output", "json"}, args...)...)
	require.NoError(t, err)
	var got letterListJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	return got
}

func TestLettersList_Paging(t *testing.T) {
	h := newHarness(t)
	h.srv.AddLetters(25, 2, 1, 2025, 8)
	h.login(apitest.AdminEmail)

	tests := []struct {
		name      string
		args      []string
		wantPage  int
		wantCount int
		wantNext  bool
		wantPrev  bool
	}{
		{name: "first page", args: []string{"--page-size", "10"}, wantPage: 1, wantCount: 10, wantNext: true},
		{name: "middle page", args: []string{"--page", "2", "--page-size", "10"}, wantPage: 2, wantCount: 10, wantNext: true, wantPrev: true},
		{name: "last page is partial", args: []string{"--page", "3", "--page-size", "10"}, wantPage: 3, wantCount: 5, wantPrev: true},
		{name: "page past the end clamps", args: []string{"--page", "99", "--page-size", "10"}, wantPage: 3, wantCount: 5, wantPrev: true},
		{name: "page below one clamps", args: []string{"--page=-4", "--page-size", "10"}, wantPage: 1, wantCount: 10, wantNext: true},
		{name: "single page", args: []string{"--page-size", "50"}, wantPage: 1, wantCount: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listJSON(t, h, tt.args...)
			assert.Equal(t, tt.wantPage, got.Pagination.CurrentPage)
			assert.Equal(t, 25, got.Pagination.TotalItems)
			assert.Len(t, got.Letters, tt.wantCount)
			assert.Equal(t, tt.wantNext, got.Pagination.HasNext)
			assert.Equal(t, tt.wantPrev, got.Pagination.HasPrevious)
		})
	}
}

func TestLettersList_EllipsisLabels(t *testing.T) {
	h := newHarness(t)
	h.srv.AddLetters(100, 2, 1, 2025, 8)
	h.login(apitest.AdminEmail)

	got := listJSON(t, h, "--page", "5", "--page-size", "10")
	assert.Equal(t, []string{"1", "...", "3", "4", "5", "6", "7", "...", "10"}, got.Pages)
	assert.Equal(t, 10, got.Pagination.TotalPages)
}

func TestLettersList_Table(t *testing.T) {
	h := newHarness(t)
	h.srv.AddLetters(25, 2, 1, 2025, 8)
	h.login(apitest.AdminEmail)

	out, _, err := h.run("", "letters", "list", "--page", "2", "--page-size", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "NOMOR SURAT")
	assert.Contains(t, out, "Halaman 1 [2] 3")
	assert.Contains(t, out, "Menampilkan 11-20 dari 25 surat")
	assert.Contains(t, out, "10 per halaman")
}

func TestLettersList_Empty(t *testing.T) {
	h := newHarness(t)
	h.login(apitest.AdminEmail)

	out, _, err := h.run("", "letters", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tidak ada surat.")
}

func TestLettersList_AdminSeesOwnCompany(t *testing.T) {
	h := newHarness(t)
	h.srv.AddLetters(3, 1, 1, 2025, 8)
	h.srv.AddLetters(4, 2, 1, 2025, 8)
	h.login(apitest.AdminEmail)

	got := listJSON(t, h)
	require.Len(t, got.Letters, 4)
	for _, l := range got.Letters {
		assert.Equal(t, int64(2), l.CompanyID)
	}
}

func TestLettersList_Filters(t *testing.T) {
	h := newHarness(t)
	h.srv.AddLetters(3, 1, 1, 2025, 8)
	h.srv.AddLetters(2, 1, 2, 2025, 9)
	h.srv.AddLetters(1, 2, 1, 2024, 8)
	h.login(apitest.SuperAdminEmail)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no filter", want: 6},
		{name: "company", args: []string{"--company", "1"}, want: 5},
		{name: "category", args: []string{"--category", "2"}, want: 2},
		{name: "year and month", args: []string{"--year", "2025", "--month", "8"}, want: 3},
		{name: "year", args: []string{"--year", "2024"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listJSON(t, h, tt.args...)
			assert.Equal(t, tt.want, got.Pagination.TotalItems)
		})
	}
}

func TestLettersList_InvalidFlags(t *testing.T) {
	h := newHarness(t)
	h.login(apitest.AdminEmail)

	tests := []struct {
		name string
		args []string
	}{
		{name: "zero page size", args: []string{"--page-size", "0"}},
		{name: "bad sort order", args: []string{"--sort", "tanggal:up"}},
		{name: "month out of range", args: []string{"--month", "13"}},
		{name: "unknown output", args: []string{"--output", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := h.run("", append([]string{"letters", "list"}, tt.args...)...)
			require.Error(t, err)
		})
	}
}

func TestLettersList_RejectedToken(t *testing.T) {
	h := newHarness(t)
	h.login(apitest.AdminEmail)
	h.srv.Fail(http.MethodGet, "/surat", http.StatusUnauthorized, "Token tidak valid")

	_, _, err := h.run("", "letters", "list")
	requireExitCode(t, err, cli.ExitCodeAuth)
}

func TestLettersShow(t *testing.T) {
	h := newHarness(t)
	h.srv.AddLetters(1, 2, 1, 2025, 8)
	h.login(apitest.AdminEmail)
	letter := h.srv.Letters()[0]

	out, _, err := h.run("", "letters", "show", fmt.Sprint(letter.ID))
	require.NoError(t, err)
	assert.Contains(t, out, letter.ReferenceNumber)
	assert.Contains(t, out, letter.Subject)
	assert.Contains(t, out, "Agustus 2025")

	out, _, err = h.run("", "letters", "show", fmt.Sprint(letter.ID), "-o", "json")
	require.NoError(t, err)
	var detail struct {
		Reference  map[string]any `json:"reference"`
		WellFormed bool           `json:"well_formed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.NotEmpty(t, detail.Reference)
	assert.True(t, detail.WellFormed)
}

func TestLettersShow_NotFound(t *testing.T) {
	h := newHarness(t)
	h.login(apitest.AdminEmail)

	_, _, err := h.run("", "letters", "show", "9999")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestLettersCreate(t *testing.T) {
	h := newHarness(t)
	h.login(apitest.AdminEmail)

	out, _, err := h.run("", "letters", "create",
		"--category", "1", "--subject", "Undangan rapat", "--recipient", "PT Mitra", "--date", "2025-08-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Surat dibuat dengan nomor 1/SP/AOS/VIII/2025")

	letters := h.srv.Letters()
	require.Len(t, letters, 1)
	assert.Equal(t, int64(2), letters[0].CompanyID)
}

func TestLettersCreate_MissingFields(t *testing.T) {
	h := newHarness(t)
	h.login(apitest.AdminEmail)

	_, _, err := h.run("", "letters", "create", "--category", "1")
	require.Error(t, err)
	assert.Empty(t, h.srv.Letters())
}

func TestLettersEdit(t *testing.T) {
	h := newHarness(t)
	h.srv.AddLetters(1, 2, 1, 2025, 8)
	h.login(apitest.AdminEmail)
	id := h.srv.Letters()[0].ID

	_, _, err := h.run("", "letters", "edit", fmt.Sprint(id))
	require.Error(t, err)

	out, _, err := h.run("", "letters", "edit", fmt.Sprint(id), "--subject", "Perihal baru")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Surat %d diperbarui", id))
	assert.Equal(t, "Perihal baru", h.srv.Letters()[0].Subject)
}

func TestLettersDelete(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		stdin       string
		wantDeleted bool
		wantOut     string
	}{
		{name: "yes flag", args: []string{"--yes"}, wantDeleted: true, wantOut: "dihapus"},
		{name: "confirmed", stdin: "y\n", wantDeleted: true, wantOut: "dihapus"},
		{name: "declined", stdin: "n\n", wantOut: "Dibatalkan."},
		{name: "empty answer declines", stdin: "\n", wantOut: "Dibatalkan."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.srv.AddLetters(1, 2, 1, 2025, 8)
			h.login(apitest.AdminEmail)
			id := h.srv.Letters()[0].ID

			args := append([]string{"letters", "delete", fmt.Sprint(id)}, tt.args...)
			out, _, err := h.run(tt.stdin, args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
			if tt.wantDeleted {
				assert.Empty(t, h.srv.Letters())
			} else {
				assert.Len(t, h.srv.Letters(), 1)
			}
		})
	}
}
