package letters_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/api/apitest"
	"github.com/suratku/suratku/internal/cache"
	"github.com/suratku/suratku/internal/letters"
)

func client(t *testing.T, srv *apitest.Server, email string) *api.Client {
	t.Helper()
	c, err := api.New(srv.BaseURL(), api.WithToken(srv.TokenFor(email)))
	require.NoError(t, err)
	return c
}

func ids(ls []api.Letter) []int64 {
	out := make([]int64, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.ID)
	}
	return out
}

// gatedSource answers ListLetters from canned responses, blocking each call
// until its gate is released.
type gatedSource struct {
	letters.Source

	calls chan api.LetterFilter
	gates map[string]chan []api.Letter
}

func newGatedSource(searches ...string) *gatedSource {
	g := &gatedSource{calls: make(chan api.LetterFilter, len(searches)), gates: map[string]chan []api.Letter{}}
	for _, s := range searches {
		g.gates[s] = make(chan []api.Letter, 1)
	}
	return g
}

func (g *gatedSource) ListLetters(ctx context.Context, f api.LetterFilter) ([]api.Letter, error) {
	g.calls <- f
	select {
	case ls := <-g.gates[f.Search]:
		return ls, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestBrowser_StaleResultIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newGatedSource("lama", "baru")
	b := letters.New(src)

	first := b.SetFilter(api.LetterFilter{Search: "lama"})
	results := make(chan letters.Result, 2)
	go func() { results <- b.Fetch(context.Background(), first) }()
	<-src.calls

	second := b.SetFilter(api.LetterFilter{Search: "baru"})
	go func() { results <- b.Fetch(context.Background(), second) }()
	<-src.calls

	// The superseded fetch was canceled when the filter changed.
	stale := <-results
	require.ErrorIs(t, stale.Err, context.Canceled)
	applied, err := b.Apply(stale)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.True(t, b.Loading())

	src.gates["baru"] <- []api.Letter{{ID: 2}, {ID: 3}}
	fresh := <-results
	applied, err = b.Apply(fresh)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.False(t, b.Loading())
	assert.Equal(t, []int64{2, 3}, ids(b.Pager().Items()))
	assert.Equal(t, "baru", b.Filter().Search)
}

func TestBrowser_LateSuccessAfterNewerResultIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newGatedSource("a", "b")
	b := letters.New(src)

	// Both responses exist before either is applied; the older one arrives last.
	first := b.SetFilter(api.LetterFilter{Search: "a"})
	src.gates["a"] <- []api.Letter{{ID: 1}}
	r1 := b.Fetch(context.Background(), first)
	<-src.calls

	second := b.SetFilter(api.LetterFilter{Search: "b"})
	src.gates["b"] <- []api.Letter{{ID: 9}}
	r2 := b.Fetch(context.Background(), second)
	<-src.calls

	applied, err := b.Apply(r2)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = b.Apply(r1)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, []int64{9}, ids(b.Pager().Items()))
}

func TestBrowser_ApplyBeforeAnyTicket(t *testing.T) {
	b := letters.New(newGatedSource())
	applied, err := b.Apply(letters.Result{Letters: []api.Letter{{ID: 1}}})
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Zero(t, b.Pager().Len())

	_, err = b.Refresh()
	require.ErrorIs(t, err, letters.ErrNoFetch)
	require.ErrorIs(t, b.Reload(context.Background()), letters.ErrNoFetch)
}

func TestBrowser_Close(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newGatedSource("x")
	b := letters.New(src)
	ticket := b.SetFilter(api.LetterFilter{Search: "x"})
	done := make(chan letters.Result, 1)
	go func() { done <- b.Fetch(context.Background(), ticket) }()
	<-src.calls

	b.Close()
	select {
	case r := <-done:
		require.ErrorIs(t, r.Err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("fetch not canceled by Close")
	}
	assert.False(t, b.Loading())
}

func TestBrowser_LoadAndPaging(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddLetters(23, 1, 1, 2025, 8)
	b := letters.New(client(t, srv, apitest.SuperAdminEmail), letters.WithPageSize(10))

	require.NoError(t, b.Load(context.Background(), api.LetterFilter{Year: 2025}))
	p := b.Pager()
	assert.Equal(t, 23, p.Len())
	assert.Equal(t, 3, p.TotalPages())

	require.True(t, p.Last())
	assert.Len(t, p.Visible(), 3)

	// Reload keeps the page.
	require.NoError(t, b.Reload(context.Background()))
	assert.Equal(t, 3, p.Page())

	// A new filter goes back to page 1.
	require.NoError(t, b.Load(context.Background(), api.LetterFilter{Year: 2025, Month: 8}))
	assert.Equal(t, 1, p.Page())

	last := srv.Requests()[len(srv.Requests())-1]
	assert.Equal(t, "8", last.URL.Query().Get("bulan"))
	assert.Empty(t, last.URL.Query().Get("limit"))
}

func TestBrowser_ReloadClampsPage(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddLetters(12, 1, 1, 2025, 1)
	c := client(t, srv, apitest.SuperAdminEmail)
	b := letters.New(c, letters.WithPageSize(5))
	require.NoError(t, b.Load(context.Background(), api.LetterFilter{}))
	require.True(t, b.Pager().Last())
	assert.Equal(t, 3, b.Pager().Page())

	for _, l := range srv.Letters()[8:] {
		require.NoError(t, c.DeleteLetter(context.Background(), l.ID))
	}
	require.NoError(t, b.Reload(context.Background()))
	assert.Equal(t, 8, b.Pager().Len())
	assert.Equal(t, 2, b.Pager().Page())
}

func TestBrowser_FailedFetchKeepsLastGoodResult(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddLetters(4, 1, 1, 2025, 2)
	b := letters.New(client(t, srv, apitest.SuperAdminEmail))
	require.NoError(t, b.Load(context.Background(), api.LetterFilter{}))

	srv.Fail(http.MethodGet, "/surat", http.StatusInternalServerError, "Database error")
	err := b.Load(context.Background(), api.LetterFilter{Search: "perihal"})
	require.Error(t, err)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Database error", apiErr.Message)
	assert.Equal(t, err, b.Err())
	assert.Equal(t, 4, b.Pager().Len())

	require.NoError(t, b.Reload(context.Background()))
	assert.NoError(t, b.Err())
}

func TestBrowser_CompanyScope(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddLetters(3, 1, 1, 2025, 5)
	srv.AddLetters(2, 2, 1, 2025, 5)
	b := letters.New(client(t, srv, apitest.AdminEmail), letters.WithCompanyScope(2))

	ticket := b.SetFilter(api.LetterFilter{CompanyID: 1})
	assert.Equal(t, int64(2), ticket.Filter.CompanyID)
	_, err := b.Apply(b.Fetch(context.Background(), ticket))
	require.NoError(t, err)
	assert.Equal(t, 2, b.Pager().Len())
	for _, l := range b.Pager().Items() {
		assert.Equal(t, int64(2), l.CompanyID)
	}
}

func TestBrowser_EditAndDelete(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddLetters(11, 1, 2, 2025, 3)
	b := letters.New(client(t, srv, apitest.SuperAdminEmail), letters.WithPageSize(5))
	ctx := context.Background()
	require.NoError(t, b.Load(ctx, api.LetterFilter{}))

	target := b.Pager().Items()[0]
	subject := "Undangan rapat"
	updated, err := b.Edit(ctx, target.ID, api.LetterPatch{Subject: &subject})
	require.NoError(t, err)
	assert.Equal(t, subject, updated.Subject)
	assert.Equal(t, subject, b.Pager().Items()[0].Subject)
	assert.Equal(t, target.ReferenceNumber, b.Pager().Items()[0].ReferenceNumber)
	assert.Equal(t, "PT Eka Prima", b.Pager().Items()[0].CompanyName)

	// Deleting the only letter on the last page steps back a page.
	require.True(t, b.Pager().Last())
	lastID := b.Pager().Visible()[0].ID
	require.NoError(t, b.Delete(ctx, lastID))
	assert.Equal(t, 10, b.Pager().Len())
	assert.Equal(t, 2, b.Pager().Page())
	assert.Len(t, srv.Letters(), 10)
}

func TestBrowser_MutationsWaitForServer(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddLetters(2, 1, 1, 2025, 3)
	b := letters.New(client(t, srv, apitest.SuperAdminEmail))
	ctx := context.Background()
	require.NoError(t, b.Load(ctx, api.LetterFilter{}))
	id := b.Pager().Items()[0].ID

	srv.Fail(http.MethodDelete, "/surat/"+itoa(id), http.StatusForbidden, "Akses ditolak")
	err := b.Delete(ctx, id)
	require.Error(t, err)
	assert.Equal(t, 2, b.Pager().Len())

	subject := "x"
	srv.Fail(http.MethodPut, "/surat/"+itoa(id), http.StatusInternalServerError, "Gagal")
	_, err = b.Edit(ctx, id, api.LetterPatch{Subject: &subject})
	require.Error(t, err)
	assert.NotEqual(t, "x", b.Pager().Items()[0].Subject)

	err = b.Delete(ctx, 999)
	require.ErrorIs(t, err, api.ErrNotFound)
	assert.Equal(t, 2, b.Pager().Len())
}

func TestBrowser_Options(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddLetters(1, 1, 1, 2023, 3)
	srv.AddLetters(1, 1, 1, 2025, 3)
	srv.AddLetters(1, 2, 1, 2024, 3)

	store, err := cache.NewStore(filepath.Join(t.TempDir(), "cache"), true, time.Minute)
	require.NoError(t, err)

	t.Run("super admin", func(t *testing.T) {
		b := letters.New(client(t, srv, apitest.SuperAdminEmail), letters.WithCache(store, srv.BaseURL(), "1"))
		opts, err := b.Options(context.Background())
		require.NoError(t, err)
		assert.Len(t, opts.Companies, 3)
		assert.Len(t, opts.Categories, 3)
		assert.Equal(t, []int{2025, 2024, 2023}, opts.Years)

		before := len(srv.Requests())
		_, err = b.Options(context.Background())
		require.NoError(t, err)
		assert.Equal(t, before, len(srv.Requests()), "second call served from cache")
	})

	t.Run("admin sees own company", func(t *testing.T) {
		b := letters.New(client(t, srv, apitest.AdminEmail),
			letters.WithCompanyScope(2), letters.WithCache(store, srv.BaseURL(), "2"))
		opts, err := b.Options(context.Background())
		require.NoError(t, err)
		require.Len(t, opts.Companies, 1)
		assert.Equal(t, "AOS", opts.Companies[0].Code)
	})

	t.Run("failure", func(t *testing.T) {
		srv.Fail(http.MethodGet, "/kategori", http.StatusInternalServerError, "boom")
		b := letters.New(client(t, srv, apitest.SuperAdminEmail))
		_, err := b.Options(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading categories")
	})
}

func TestBrowser_DeleteDropsCachedYears(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.AddLetters(1, 1, 1, 2023, 3)
	srv.AddLetters(1, 1, 1, 2025, 3)

	store, err := cache.NewStore(filepath.Join(t.TempDir(), "cache"), true, time.Minute)
	require.NoError(t, err)
	b := letters.New(client(t, srv, apitest.SuperAdminEmail), letters.WithCache(store, srv.BaseURL(), "1"))
	ctx := context.Background()

	opts, err := b.Options(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2023}, opts.Years)

	require.NoError(t, b.Load(ctx, api.LetterFilter{Year: 2023}))
	require.NoError(t, b.Delete(ctx, b.Pager().Items()[0].ID))

	_, err = store.Get(letters.OptionKey(letters.OptionYears, srv.BaseURL(), "1"))
	require.ErrorIs(t, err, cache.ErrNotFound)
	_, err = store.Get(letters.OptionKey(letters.OptionCompanies, srv.BaseURL(), "1"))
	require.NoError(t, err, "companies stay cached")

	opts, err = b.Options(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2025}, opts.Years)
}

func TestForgetOptions(t *testing.T) {
	require.NoError(t, letters.ForgetOptions(nil, []string{"x"}, letters.OptionYears))

	disabled, err := cache.NewStore("", false, time.Minute)
	require.NoError(t, err)
	require.NoError(t, letters.ForgetOptions(disabled, []string{"x"}, letters.OptionYears))

	store, err := cache.NewStore(filepath.Join(t.TempDir(), "cache"), true, time.Minute)
	require.NoError(t, err)
	key := letters.OptionKey(letters.OptionCategories, "http://api", "7")
	require.NoError(t, store.Set(key, []byte(`[]`)))
	require.NoError(t, letters.ForgetOptions(store, []string{"http://api", "7"}, letters.OptionCategories, letters.OptionYears))
	_, err = store.Get(key)
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestBrowser_FetchHonorsCallerContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newGatedSource("q")
	b := letters.New(src)
	ticket := b.SetFilter(api.LetterFilter{Search: "q"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := b.Fetch(ctx, ticket)
	<-src.calls
	require.True(t, errors.Is(r.Err, context.Canceled))
	_, err := b.Apply(r)
	require.ErrorIs(t, err, context.Canceled)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
