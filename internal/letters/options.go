package letters

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/cache"
)

// Names of the cached reference data behind Options.
const (
	OptionCompanies  = "companies"
	OptionCategories = "categories"
	OptionYears      = "years"
)

// Options are the choices offered by the listing filters.
type Options struct {
	Companies  []api.Company  `json:"companies"`
	Categories []api.Category `json:"categories"`
	Years      []int          `json:"years"`
}

// Options loads companies, categories and the years that have letters,
// concurrently and through the reference-data cache. Years come newest
// first. A company-scoped browser only offers its own company.
func (b *Browser) Options(ctx context.Context) (Options, error) {
	var opts Options
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		companies, err := cache.Fetch(gCtx, b.store, b.key(OptionCompanies), func(ctx context.Context) ([]api.Company, error) {
			return b.src.ListCompanies(ctx, false)
		})
		if err != nil {
			return fmt.Errorf("loading companies: %w", err)
		}
		opts.Companies = b.scopeCompanies(companies)
		return nil
	})
	g.Go(func() error {
		categories, err := cache.Fetch(gCtx, b.store, b.key(OptionCategories), b.src.ListCategories)
		if err != nil {
			return fmt.Errorf("loading categories: %w", err)
		}
		opts.Categories = categories
		return nil
	})
	g.Go(func() error {
		years, err := cache.Fetch(gCtx, b.store, b.key(OptionYears), b.src.AvailableYears)
		if err != nil {
			return fmt.Errorf("loading years: %w", err)
		}
		years = slices.Clone(years)
		slices.Sort(years)
		slices.Reverse(years)
		opts.Years = slices.Compact(years)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (b *Browser) scopeCompanies(companies []api.Company) []api.Company {
	if !b.scoped {
		return companies
	}
	out := []api.Company{}
	for _, c := range companies {
		if c.ID == b.companyID {
			out = append(out, c)
		}
	}
	return out
}

// OptionKey is the cache key of the named reference data under scope.
func OptionKey(name string, scope ...string) string {
	return cache.Key(append(slices.Clone(scope), name)...)
}

// ForgetOptions drops the named reference data from store so the next
// Options call refetches it. A nil or disabled store is a no-op.
func ForgetOptions(store *cache.Store, scope []string, names ...string) error {
	if store == nil || !store.Enabled() {
		return nil
	}
	var errs []error
	for _, name := range names {
		if err := store.Delete(OptionKey(name, scope...)); err != nil {
			errs = append(errs, fmt.Errorf("forgetting %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// forgetYears drops the cached years after a letter changed on the server.
func (b *Browser) forgetYears() {
	if err := ForgetOptions(b.store, b.cacheKey, OptionYears); err != nil {
		b.log(context.Background()).Warn().Err(err).Msg("could not drop cached years")
	}
}

func (b *Browser) key(name string) string {
	return OptionKey(name, b.cacheKey...)
}
