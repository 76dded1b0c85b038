package letters

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/cache"
	"github.com/suratku/suratku/internal/logging"
	"github.com/suratku/suratku/internal/pager"
)

// ErrNoFetch is returned by Reload before any filter was set.
var ErrNoFetch = errors.New("no listing loaded yet")

// Source is the part of the API client a Browser needs.
type Source interface {
	ListLetters(ctx context.Context, f api.LetterFilter) ([]api.Letter, error)
	UpdateLetter(ctx context.Context, id int64, patch api.LetterPatch) (api.Letter, error)
	DeleteLetter(ctx context.Context, id int64) error
	ListCompanies(ctx context.Context, activeOnly bool) ([]api.Company, error)
	ListCategories(ctx context.Context) ([]api.Category, error)
	AvailableYears(ctx context.Context) ([]int, error)
}

// Ticket identifies one requested fetch.
type Ticket struct {
	Generation uint64
	Filter     api.LetterFilter

	keepPage bool
	ctx      context.Context //nolint:containedctx // Carries cancellation from SetFilter to Fetch.
}

// Result is the outcome of Fetch.
type Result struct {
	Generation uint64
	Letters    []api.Letter
	Err        error

	keepPage bool
}

// Browser pages through letters matching a filter. Except for Fetch, its
// methods must be called from a single goroutine.
type Browser struct {
	src    Source
	pager  *pager.Pager[api.Letter]
	filter api.LetterFilter

	generation uint64
	started    bool
	loading    bool
	cancel     context.CancelFunc
	lastErr    error

	companyID int64
	scoped    bool

	store    *cache.Store
	cacheKey []string
	logger   zerolog.Logger
	hasLog   bool
}

// Option configures a Browser.
type Option func(*Browser)

// WithPageSize sets the initial page size.
func WithPageSize(n int) Option {
	return func(b *Browser) {
		b.pager.SetPageSize(n)
	}
}

// WithCompanyScope pins every listing and the company options to one
// company. Used for accounts that are not super admins.
func WithCompanyScope(companyID int64) Option {
	return func(b *Browser) {
		b.companyID = companyID
		b.scoped = true
	}
}

// WithCache caches reference data in store under keys derived from scope,
// typically the API root and the user id.
func WithCache(store *cache.Store, scope ...string) Option {
	return func(b *Browser) {
		b.store = store
		b.cacheKey = scope
	}
}

// WithLogger sets the logger. Without one the context logger is used.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Browser) {
		b.logger = logging.ComponentLogger(logger, "letters")
		b.hasLog = true
	}
}

// New returns an empty Browser reading from src.
func New(src Source, opts ...Option) *Browser {
	b := &Browser{src: src, pager: pager.New[api.Letter](pager.DefaultPageSize)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Pager exposes the pager for navigation.
func (b *Browser) Pager() *pager.Pager[api.Letter] {
	return b.pager
}

// Filter returns the active filter.
func (b *Browser) Filter() api.LetterFilter {
	return b.filter
}

// Loading reports whether a fetch is outstanding.
func (b *Browser) Loading() bool {
	return b.loading
}

// Err returns the error of the last applied fetch, if it failed.
func (b *Browser) Err() error {
	return b.lastErr
}

// Generation returns the generation of the newest ticket.
func (b *Browser) Generation() uint64 {
	return b.generation
}

// SetFilter makes f the active filter and returns the ticket to fetch it
// with. Any fetch still in flight is canceled and its result will be
// discarded. The page goes back to 1.
func (b *Browser) SetFilter(f api.LetterFilter) Ticket {
	if b.scoped {
		f.CompanyID = b.companyID
	}
	// Paging is client-side; the server always returns the full set.
	f.Limit, f.Offset = 0, 0
	b.filter = f
	b.pager.ResetPage()
	return b.issue(false)
}

// Refresh returns a ticket refetching the active filter. The page is kept
// when the result is applied, clamped to the new page count.
func (b *Browser) Refresh() (Ticket, error) {
	if !b.started {
		return Ticket{}, ErrNoFetch
	}
	return b.issue(true), nil
}

func (b *Browser) issue(keepPage bool) Ticket {
	if b.cancel != nil {
		b.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.generation++
	b.started = true
	b.loading = true
	return Ticket{Generation: b.generation, Filter: b.filter, keepPage: keepPage, ctx: ctx}
}

// Fetch performs the listing for t. It reads no Browser state and is safe
// to call on a worker goroutine. The request is abandoned when ctx ends or
// when t is superseded.
func (b *Browser) Fetch(ctx context.Context, t Ticket) Result {
	if t.ctx != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(t.ctx, cancel)
		defer stop()
	}
	letters, err := b.src.ListLetters(ctx, t.Filter)
	if err != nil {
		return Result{Generation: t.Generation, Err: fmt.Errorf("listing letters: %w", err), keepPage: t.keepPage}
	}
	return Result{Generation: t.Generation, Letters: letters, keepPage: t.keepPage}
}

// Apply installs r. A result from a superseded ticket is dropped and Apply
// reports false. A failed fetch leaves the previous result set in place and
// returns its error.
func (b *Browser) Apply(r Result) (bool, error) {
	if !b.started || r.Generation != b.generation {
		b.log(context.Background()).Debug().
			Uint64("generation", r.Generation).
			Uint64("current", b.generation).
			Msg("discarding stale listing")
		return false, nil
	}
	b.loading = false
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if r.Err != nil {
		b.lastErr = r.Err
		return true, r.Err
	}
	b.lastErr = nil
	b.pager.SetFullResult(r.Letters)
	if !r.keepPage {
		b.pager.ResetPage()
	}
	return true, nil
}

// Load sets f, fetches and applies in one call.
func (b *Browser) Load(ctx context.Context, f api.LetterFilter) error {
	t := b.SetFilter(f)
	_, err := b.Apply(b.Fetch(ctx, t))
	return err
}

// Reload refetches the active filter and keeps the current page.
func (b *Browser) Reload(ctx context.Context) error {
	t, err := b.Refresh()
	if err != nil {
		return err
	}
	_, err = b.Apply(b.Fetch(ctx, t))
	return err
}

// Close cancels any outstanding fetch.
func (b *Browser) Close() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.loading = false
}

// Edit updates letter id on the server and then in the loaded result set.
func (b *Browser) Edit(ctx context.Context, id int64, patch api.LetterPatch) (api.Letter, error) {
	updated, err := b.src.UpdateLetter(ctx, id, patch)
	if err != nil {
		return api.Letter{}, fmt.Errorf("updating letter %d: %w", id, err)
	}
	if updated.ID == 0 {
		updated.ID = id
	}
	b.Edited(updated, patch)
	return updated, nil
}

// Edited records a server-confirmed edit. When the server echoed only a
// partial letter, patch is applied to the loaded copy instead.
func (b *Browser) Edited(updated api.Letter, patch api.LetterPatch) int {
	b.forgetYears()
	return b.pager.UpdateItem(byID(updated.ID), func(l api.Letter) api.Letter {
		if updated.ReferenceNumber == "" {
			return patch.Apply(l)
		}
		return mergeLetter(l, updated)
	})
}

// Delete removes letter id on the server and then from the loaded result
// set.
func (b *Browser) Delete(ctx context.Context, id int64) error {
	if err := b.src.DeleteLetter(ctx, id); err != nil {
		return fmt.Errorf("deleting letter %d: %w", id, err)
	}
	b.Deleted(id)
	return nil
}

// Deleted records a server-confirmed deletion.
func (b *Browser) Deleted(id int64) int {
	b.forgetYears()
	return b.pager.RemoveItem(byID(id))
}

func byID(id int64) func(api.Letter) bool {
	return func(l api.Letter) bool { return l.ID == id }
}

// mergeLetter keeps the joined display names of loaded when the server's
// update response omits them.
func mergeLetter(loaded, updated api.Letter) api.Letter {
	if updated.CompanyName == "" && updated.CompanyID == loaded.CompanyID {
		updated.CompanyName, updated.CompanyCode = loaded.CompanyName, loaded.CompanyCode
	}
	if updated.CategoryName == "" && updated.CategoryID == loaded.CategoryID {
		updated.CategoryName, updated.CategoryCode = loaded.CategoryName, loaded.CategoryCode
	}
	if updated.CreatedByName == "" {
		updated.CreatedByName = loaded.CreatedByName
	}
	return updated
}

func (b *Browser) log(ctx context.Context) *zerolog.Logger {
	if b.hasLog {
		return &b.logger
	}
	return logging.FromContext(ctx)
}
