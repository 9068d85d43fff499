package briefing

import (
	"context"
	"sync"

	"techbrief/internal/catalog"
	"techbrief/internal/citations"
	"techbrief/internal/core"
)

// CategoryFetcher fetches one category. *Fetcher satisfies it; tests
// substitute stubs with controlled completion timing.
type CategoryFetcher interface {
	Fetch(ctx context.Context, entry core.CatalogEntry) core.CategoryResult
}

// Aggregator fans the category fetcher out across the whole catalog and
// merges the results into one briefing.
type Aggregator struct {
	fetcher CategoryFetcher
}

// NewAggregator creates an aggregator over the given fetcher.
func NewAggregator(fetcher CategoryFetcher) *Aggregator {
	return &Aggregator{fetcher: fetcher}
}

// FetchAll fetches every catalog entry concurrently and waits for all to
// settle; per-category fetches cannot fail, so there is nothing to abort
// early for. Each goroutine owns a disjoint slot of the results slice, so
// output order always equals catalog order regardless of completion order.
// Citations are flattened in catalog order and deduplicated globally by URI.
func (a *Aggregator) FetchAll(ctx context.Context, cat *catalog.Catalog) core.Briefing {
	entries := cat.Entries()
	results := make([]core.CategoryResult, len(entries))

	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry core.CatalogEntry) {
			defer wg.Done()
			results[i] = a.fetcher.Fetch(ctx, entry)
		}(i, entry)
	}
	wg.Wait()

	categories := make([]core.NewsCategory, len(results))
	perCategory := make([][]core.GroundingSource, len(results))
	for i, r := range results {
		categories[i] = r.Category
		perCategory[i] = r.Citations
	}

	return core.Briefing{
		Categories: categories,
		Sources:    citations.Merge(perCategory...),
	}
}
