package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/api/apitest"
	"github.com/suratku/suratku/internal/letters"
	"github.com/suratku/suratku/internal/session"
)

func TestSuperAdminGate(t *testing.T) {
	commands := [][]string{
		{"users", "list"},
		{"companies", "create", "--name", "PT Baru", "--code", "PB"},
		{"settings", "set", "--app-name", "Baru"},
		{"settings", "reset", "--yes"},
	}

	h := newHarness(t)
	h.login(apitest.AdminEmail)

	for _, args := range commands {
		t.Run(strings.Join(args[:2], " "), func(t *testing.T) {
			_, _, err := h.run("", args...)
			require.ErrorIs(t, err, session.ErrForbidden)
		})
	}
}

func TestUsers_SuperAdmin(t *testing.T) {
	h := newHarness(t)
	h.login(apitest.SuperAdminEmail)

	out, _, err := h.run("", "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, apitest.AdminEmail)

	out, _, err = h.run("rahasia456\n", "users", "create",
		"--name", "Admin EP", "--email", "ep@suratku.test", "--role", "admin", "--company", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin EP <ep@suratku.test> dibuat")

	_, _, err = h.run("", "users", "create", "--name", "X", "--email", "x@suratku.test", "--role", "owner")
	require.Error(t, err)

	_, _, err = h.run("", "users", "delete", "1", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own account")
}

func TestCompanies(t *testing.T) {
	h := newHarness(t)
	h.login(apitest.SuperAdminEmail)

	out, _, err := h.run("", "companies", "list", "--active")
	require.NoError(t, err)
	assert.Contains(t, out, "PT Eka Prima")
	assert.NotContains(t, out, "PT Sinar Pagi")

	out, _, err = h.run("", "companies", "create", "--name", "PT Baru", "--code", "PB")
	require.NoError(t, err)
	assert.Contains(t, out, "Perusahaan PT Baru (PB) dibuat")

	_, _, err = h.run("", "companies", "create", "--name", "PT Lain", "--code", "PL", "--status", "tutup")
	require.Error(t, err)
}

func TestCategories(t *testing.T) {
	h := newHarness(t)
	h.login(apitest.AdminEmail)

	out, _, err := h.run("", "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Surat Perintah")

	out, _, err = h.run("", "categories", "create", "--name", "Surat Keputusan", "--code", "SK")
	require.NoError(t, err)
	assert.Contains(t, out, "Kategori Surat Keputusan (SK) dibuat")
}

func TestSettings(t *testing.T) {
	h := newHarness(t)
	h.login(apitest.SuperAdminEmail)

	out, _, err := h.run("", "settings", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "Suratku")
	assert.Contains(t, out, "Contoh nomor:")

	_, _, err = h.run("", "settings", "set", "--number-format", "{kode_surat}/{tahun}")
	require.Error(t, err)

	_, _, err = h.run("", "settings", "set")
	require.Error(t, err)

	out, _, err = h.run("", "settings", "set", "--number-format", "{kode_perusahaan}-{nomor}/{tahun}")
	require.NoError(t, err)
	assert.Contains(t, out, "Pengaturan disimpan.")
	assert.Contains(t, out, "EP-1/")
}

func TestReportExport(t *testing.T) {
	h := newHarness(t)
	h.srv.AddLetters(3, 2, 1, 2025, 8)
	h.login(apitest.AdminEmail)

	dir := t.TempDir()
	tests := []struct {
		format     string
		file       string
		wantPrefix string
	}{
		{format: "pdf", file: "laporan.pdf", wantPrefix: "%PDF"},
		{format: "excel", file: "laporan.xlsx", wantPrefix: "PK"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			out, _, err := h.run("", "report", "export", "--format", tt.format, "--file", path)
			require.NoError(t, err)
			assert.Contains(t, out, "Laporan disimpan ke "+path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(data), tt.wantPrefix))
		})
	}

	_, _, err := h.run("", "report", "export", "--format", "csv", "--file", filepath.Join(dir, "x.csv"))
	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestReportShowAndDashboard(t *testing.T) {
	h := newHarness(t)
	h.srv.AddLetters(3, 2, 1, 2025, 8)
	h.login(apitest.AdminEmail)

	_, _, err := h.run("", "dashboard")
	require.NoError(t, err)

	out, _, err := h.run("", "report", "show", "--year", "2025", "--month", "8", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Perihal")
}

func TestLettersOptions_CacheFollowsChanges(t *testing.T) {
	h := newHarness(t)
	t.Setenv("SURATKU_CACHE_ENABLED", "true")
	h.srv.AddLetters(2, 1, 1, 2025, 8)
	h.login(apitest.SuperAdminEmail)

	options := func() letters.Options {
		t.Helper()
		out, _, err := h.run("", "letters", "options", "-o", "json")
		require.NoError(t, err)
		var got letters.Options
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		return got
	}
	companyNames := func(o letters.Options) []string {
		names := make([]string, 0, len(o.Companies))
		for _, c := range o.Companies {
			names = append(names, c.Name)
		}
		return names
	}
	categoryNames := func(o letters.Options) []string {
		names := make([]string, 0, len(o.Categories))
		for _, c := range o.Categories {
			names = append(names, c.Name)
		}
		return names
	}

	before := options()
	assert.NotContains(t, companyNames(before), "PT Baru")
	assert.Equal(t, []int{2025}, before.Years)

	// The listing is served from the cache until something changes.
	h.srv.AddLetters(1, 1, 1, 2019, 1)
	assert.Equal(t, []int{2025}, options().Years)

	_, _, err := h.run("", "companies", "create", "--name", "PT Baru", "--code", "PB")
	require.NoError(t, err)
	assert.Contains(t, companyNames(options()), "PT Baru")

	_, _, err = h.run("", "categories", "create", "--name", "Surat Keputusan", "--code", "SK")
	require.NoError(t, err)
	assert.Contains(t, categoryNames(options()), "Surat Keputusan")

	_, _, err = h.run("", "letters", "create", "--company", "1", "--category", "1",
		"--subject", "Undangan", "--recipient", "PT Mitra", "--date", "2023-02-01")
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2023, 2019}, options().Years)
}
