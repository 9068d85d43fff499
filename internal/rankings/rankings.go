// Package rankings fetches the LLM leaderboard shown next to the briefing.
package rankings

import (
	"context"
	"log/slog"
	"sort"

	"techbrief/internal/core"
	"techbrief/internal/llm"
	"techbrief/internal/logger"
	"techbrief/internal/parser"
)

// RankingsPrompt asks for the current top-10 leaderboard as a bare JSON
// array. The model supplies every field; there is no static data to fuse.
const RankingsPrompt = `Provide a list of the top 10 Large Language Models (LLMs), including Grok, based on the very latest performance benchmarks (e.g., from leaderboards like LMSys Chatbot Arena) and recent community consensus.
The data should be as current as possible.
For each model, include its rank, name, developer, and an overall score out of 100 representing its general capability.
The output must be a valid JSON array matching this structure: [{"rank": number, "name": string, "developer": string, "score": number}].`

// MaxRendered caps how many leaderboard rows Top ever returns.
const MaxRendered = 10

// Generator is the text-generation collaborator contract for rankings.
type Generator interface {
	Generate(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error)
}

// Fetcher fetches the leaderboard in a single grounded call.
type Fetcher struct {
	gen Generator
	log *slog.Logger
}

// NewFetcher creates a rankings fetcher backed by the given collaborator.
func NewFetcher(gen Generator) *Fetcher {
	return &Fetcher{gen: gen, log: logger.Get()}
}

// Fetch returns the leaderboard as the model ordered it; sorting and
// truncation happen at render time via Top. Fetch fails closed: on any
// error it logs and returns an empty list, so the leaderboard may be empty
// but never crashes the caller.
func (f *Fetcher) Fetch(ctx context.Context) []core.LLMRankingItem {
	result, err := f.gen.Generate(ctx, RankingsPrompt, llm.GenerateOptions{EnableWebSearch: true})
	if err != nil {
		f.log.Warn("rankings fetch failed, returning empty leaderboard", "error", err.Error())
		return []core.LLMRankingItem{}
	}

	var items []core.LLMRankingItem
	if err := parser.Unmarshal(result.Text, &items); err != nil {
		f.log.Warn("rankings payload rejected, returning empty leaderboard", "error", err.Error())
		return []core.LLMRankingItem{}
	}
	if items == nil {
		items = []core.LLMRankingItem{}
	}
	return items
}

// Top sorts a copy of the leaderboard by rank ascending and truncates it to
// at most MaxRendered rows.
func Top(items []core.LLMRankingItem) []core.LLMRankingItem {
	sorted := make([]core.LLMRankingItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })
	if len(sorted) > MaxRendered {
		sorted = sorted[:MaxRendered]
	}
	return sorted
}
