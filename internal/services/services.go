package services

import (
	"context"

	"techbrief/internal/briefing"
	"techbrief/internal/catalog"
	"techbrief/internal/core"
	"techbrief/internal/llm"
	"techbrief/internal/rankings"
	"techbrief/internal/visual"
)

// briefingService binds the aggregator to the process-wide catalog.
type briefingService struct {
	aggregator *briefing.Aggregator
	catalog    *catalog.Catalog
}

// NewBriefingService wires a briefing service over the given collaborator
// and catalog.
func NewBriefingService(gen briefing.Generator, cat *catalog.Catalog) BriefingService {
	return &briefingService{
		aggregator: briefing.NewAggregator(briefing.NewFetcher(gen)),
		catalog:    cat,
	}
}

func (s *briefingService) Fetch(ctx context.Context) core.Briefing {
	return s.aggregator.FetchAll(ctx, s.catalog)
}

// rankingsService adapts the rankings fetcher to the service seam.
type rankingsService struct {
	fetcher *rankings.Fetcher
}

// NewRankingsService wires a rankings service over the given collaborator.
func NewRankingsService(gen rankings.Generator) RankingsService {
	return &rankingsService{fetcher: rankings.NewFetcher(gen)}
}

func (s *rankingsService) Fetch(ctx context.Context) []core.LLMRankingItem {
	return s.fetcher.Fetch(ctx)
}

// backgroundService adapts detached image generation to the service seam.
type backgroundService struct {
	gen visual.ImageGenerator
}

// NewBackgroundService wires a background service over the given image
// collaborator.
func NewBackgroundService(gen visual.ImageGenerator) BackgroundService {
	return &backgroundService{gen: gen}
}

func (s *backgroundService) Generate(ctx context.Context, trends []string) <-chan string {
	return visual.GenerateBackground(ctx, s.gen, trends)
}

// compile-time check that the LLM client satisfies the collaborator seams.
var (
	_ briefing.Generator    = (*llm.Client)(nil)
	_ rankings.Generator    = (*llm.Client)(nil)
	_ visual.ImageGenerator = (*llm.Client)(nil)
)
