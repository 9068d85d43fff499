// Package briefing builds the daily news briefing: one grounded generation
// call per catalog category, fanned out concurrently and merged back in
// catalog order.
package briefing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"techbrief/internal/citations"
	"techbrief/internal/core"
	"techbrief/internal/llm"
	"techbrief/internal/logger"
	"techbrief/internal/parser"

	"github.com/google/uuid"
)

// CategoryPromptTemplate is the per-category prompt. It pins the exact JSON
// shape so the payload can be validated strictly, and asks for recent items
// only.
const CategoryPromptTemplate = `Generate a summary of the latest, most significant news and breakthroughs for the tech category: "%s" (ID: %s).

Requirements:
1. Provide exactly 5 key news items.
2. Each item must have a concise, one-sentence description and a relevant source URL.
3. Provide 4-6 trending topics/keywords for this category.
4. Focus on news from the last 7 days.

Output JSON format:
{
    "id": "%s",
    "trendingTopics": ["topic1", "topic2"],
    "items": [
        {
            "id": "unique-id-1",
            "title": "News Title",
            "description": "Short description.",
            "url": "https://source.url"
        }
    ]
}`

// Generator is the text-generation collaborator contract the fetcher needs.
// *llm.Client satisfies it; tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error)
}

// ShapeValidationError reports a payload that parsed as JSON but violates
// the expected category structure. It is fatal to the single fetch that
// produced it and never surfaces past the fetcher.
type ShapeValidationError struct {
	Reason string
}

func (e *ShapeValidationError) Error() string {
	return fmt.Sprintf("category payload shape invalid: %s", e.Reason)
}

// categoryPayload is the raw decoded shape of a category response. Items and
// trendingTopics stay raw so a wrong-typed field can be coerced instead of
// failing the whole category.
type categoryPayload struct {
	ID             string          `json:"id"`
	TrendingTopics json.RawMessage `json:"trendingTopics"`
	Items          json.RawMessage `json:"items"`
}

type itemPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Fetcher fetches exactly one news category per call and isolates every
// failure to that category.
type Fetcher struct {
	gen Generator
	log *slog.Logger
}

// NewFetcher creates a category fetcher backed by the given collaborator.
func NewFetcher(gen Generator) *Fetcher {
	return &Fetcher{gen: gen, log: logger.Get()}
}

// Fetch builds the category prompt, invokes the collaborator with web search
// enabled, and fuses the validated payload with the static catalog entry.
//
// Fetch never fails outward: on any error from the model call, parsing or
// validation it logs and returns the fallback result for the entry (empty
// items and topics, Degraded set), so one bad category never blocks the
// briefing.
func (f *Fetcher) Fetch(ctx context.Context, entry core.CatalogEntry) core.CategoryResult {
	prompt := fmt.Sprintf(CategoryPromptTemplate, entry.Title, entry.ID, entry.ID)

	result, err := f.gen.Generate(ctx, prompt, llm.GenerateOptions{EnableWebSearch: true})
	if err != nil {
		f.log.Warn("category fetch failed, using fallback", "category", entry.ID, "error", err.Error())
		return fallbackResult(entry)
	}

	category, err := buildCategory(entry, result.Text)
	if err != nil {
		f.log.Warn("category payload rejected, using fallback", "category", entry.ID, "error", err.Error())
		return fallbackResult(entry)
	}

	return core.CategoryResult{
		Category:  category,
		Citations: citations.Extract(result),
	}
}

// buildCategory validates and repairs the raw payload and fuses it with the
// catalog entry. Icon and title always come from the entry.
func buildCategory(entry core.CatalogEntry, rawText string) (core.NewsCategory, error) {
	var payload categoryPayload
	if err := parser.Unmarshal(rawText, &payload); err != nil {
		return core.NewsCategory{}, err
	}

	// An id the catalog does not know produces an orphan category; discard.
	if payload.ID != "" && payload.ID != entry.ID {
		return core.NewsCategory{}, &ShapeValidationError{
			Reason: fmt.Sprintf("payload id %q does not match catalog entry %q", payload.ID, entry.ID),
		}
	}

	return core.NewsCategory{
		ID:             entry.ID,
		Title:          entry.Title,
		Icon:           entry.Icon,
		TrendingTopics: coerceTopics(payload.TrendingTopics),
		Items:          sanitizeItems(payload.Items),
	}, nil
}

// sanitizeItems decodes the items field, coercing a non-array to empty.
// Missing item fields get defaults (generated id, "Untitled" title, empty
// description); a missing or empty url drops that single item.
func sanitizeItems(raw json.RawMessage) []core.NewsItem {
	var candidates []itemPayload
	if len(raw) == 0 || json.Unmarshal(raw, &candidates) != nil {
		return []core.NewsItem{}
	}

	items := make([]core.NewsItem, 0, len(candidates))
	for _, c := range candidates {
		if c.URL == "" {
			continue
		}
		item := core.NewsItem{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			URL:         c.URL,
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Title == "" {
			item.Title = "Untitled"
		}
		items = append(items, item)
	}
	return items
}

// coerceTopics decodes trendingTopics, coercing anything non-array to empty.
func coerceTopics(raw json.RawMessage) []string {
	var topics []string
	if len(raw) == 0 || json.Unmarshal(raw, &topics) != nil {
		return []string{}
	}
	if topics == nil {
		topics = []string{}
	}
	return topics
}

// fallbackResult is the empty-but-well-typed category substituted when a
// fetch fails. Static metadata still comes from the catalog entry so the
// section renders; Degraded distinguishes it from a genuinely empty result.
func fallbackResult(entry core.CatalogEntry) core.CategoryResult {
	return core.CategoryResult{
		Category: core.NewsCategory{
			ID:             entry.ID,
			Title:          entry.Title,
			Icon:           entry.Icon,
			TrendingTopics: []string{},
			Items:          []core.NewsItem{},
			Degraded:       true,
		},
		Citations: nil,
	}
}
