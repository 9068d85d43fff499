package briefing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"techbrief/internal/core"
	"techbrief/internal/llm"
)

// stubGenerator returns canned results per prompt.
type stubGenerator struct {
	fn func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error)
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
	return s.fn(ctx, prompt, options)
}

var testEntry = core.CatalogEntry{ID: "x", Title: "X", Icon: "brain"}

func TestFetch_FencedPayload(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		if !options.EnableWebSearch {
			t.Error("category fetch must enable web search")
		}
		if !strings.Contains(prompt, `"X" (ID: x)`) {
			t.Errorf("prompt missing category title/id: %s", prompt)
		}
		return &llm.GenerateResult{
			Text: "```json\n{\"id\":\"x\",\"items\":[{\"title\":\"A\",\"description\":\"d\",\"url\":\"http://u\"}],\"trendingTopics\":[\"t1\"]}\n```",
		}, nil
	}}

	result := NewFetcher(gen).Fetch(context.Background(), testEntry)

	cat := result.Category
	if cat.ID != "x" || cat.Title != "X" || cat.Icon != "brain" {
		t.Errorf("static metadata must come from the catalog entry: %+v", cat)
	}
	if cat.Degraded {
		t.Error("successful fetch must not be marked degraded")
	}
	if len(cat.TrendingTopics) != 1 || cat.TrendingTopics[0] != "t1" {
		t.Errorf("unexpected trending topics: %v", cat.TrendingTopics)
	}
	if len(cat.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cat.Items))
	}
	item := cat.Items[0]
	if item.Title != "A" || item.Description != "d" || item.URL != "http://u" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.ID == "" {
		t.Error("missing item id must be generated")
	}
}

func TestFetch_DropsItemsWithoutURL(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		return &llm.GenerateResult{
			Text: `{"id":"x","trendingTopics":[],"items":[
				{"title":"keep","description":"","url":"https://keep"},
				{"title":"drop","description":"no url"},
				{"title":"also keep","url":"https://also"}
			]}`,
		}, nil
	}}

	result := NewFetcher(gen).Fetch(context.Background(), testEntry)
	items := result.Category.Items
	if len(items) != 2 {
		t.Fatalf("expected exactly the url-less item dropped, got %d items", len(items))
	}
	if items[0].URL != "https://keep" || items[1].URL != "https://also" {
		t.Errorf("wrong items survived: %+v", items)
	}
}

func TestFetch_FieldDefaults(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		return &llm.GenerateResult{
			Text: `{"id":"x","items":[{"url":"https://bare"}]}`,
		}, nil
	}}

	result := NewFetcher(gen).Fetch(context.Background(), testEntry)
	if len(result.Category.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Category.Items))
	}
	item := result.Category.Items[0]
	if item.Title != "Untitled" {
		t.Errorf("missing title should default to Untitled, got %q", item.Title)
	}
	if item.Description != "" {
		t.Errorf("missing description should default to empty, got %q", item.Description)
	}
	if item.ID == "" {
		t.Error("missing id should be generated")
	}
	if result.Category.TrendingTopics == nil || len(result.Category.TrendingTopics) != 0 {
		t.Errorf("missing trendingTopics should coerce to empty, got %v", result.Category.TrendingTopics)
	}
}

func TestFetch_NonArrayItemsCoercedToEmpty(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		return &llm.GenerateResult{Text: `{"id":"x","items":"not a list","trendingTopics":["t"]}`}, nil
	}}

	result := NewFetcher(gen).Fetch(context.Background(), testEntry)
	if result.Category.Degraded {
		t.Error("non-array items is repairable, not a failure")
	}
	if len(result.Category.Items) != 0 {
		t.Errorf("non-array items should coerce to empty, got %v", result.Category.Items)
	}
	if len(result.Category.TrendingTopics) != 1 {
		t.Errorf("valid topics should survive coercion of items: %v", result.Category.TrendingTopics)
	}
}

func TestFetch_UnknownIDDiscardsCategory(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		return &llm.GenerateResult{Text: `{"id":"someone-else","items":[{"title":"A","url":"https://a"}]}`}, nil
	}}

	result := NewFetcher(gen).Fetch(context.Background(), testEntry)
	if !result.Category.Degraded {
		t.Error("orphan category must be discarded in favor of the fallback")
	}
	if len(result.Category.Items) != 0 {
		t.Errorf("fallback must carry no items, got %v", result.Category.Items)
	}
}

func TestFetch_CollaboratorErrorYieldsFallback(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		return nil, &llm.CollaboratorError{Op: "generate", Err: errors.New("quota exceeded")}
	}}

	result := NewFetcher(gen).Fetch(context.Background(), testEntry)

	cat := result.Category
	if cat.ID != "x" || cat.Title != "X" || cat.Icon != "brain" {
		t.Errorf("fallback must fuse the entry's static metadata: %+v", cat)
	}
	if !cat.Degraded {
		t.Error("fallback must be marked degraded")
	}
	if len(cat.Items) != 0 || len(cat.TrendingTopics) != 0 {
		t.Errorf("fallback must be empty: %+v", cat)
	}
	if cat.Items == nil || cat.TrendingTopics == nil {
		t.Error("fallback slices must be empty, not nil, to keep JSON shape stable")
	}
	if len(result.Citations) != 0 {
		t.Errorf("fallback must carry no citations: %v", result.Citations)
	}
}

func TestFetch_MalformedResponseYieldsFallback(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		return &llm.GenerateResult{Text: "I could not find any news today, sorry."}, nil
	}}

	result := NewFetcher(gen).Fetch(context.Background(), testEntry)
	if !result.Category.Degraded {
		t.Error("malformed payload must degrade to the fallback")
	}
}

func TestFetch_ExtractsCitations(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		return &llm.GenerateResult{
			Text: `{"id":"x","items":[],"trendingTopics":[]}`,
			Grounding: &llm.GroundingMetadata{Chunks: []llm.GroundingChunk{
				{Web: &llm.WebSource{URI: "https://src", Title: "Src"}},
			}},
		}, nil
	}}

	result := NewFetcher(gen).Fetch(context.Background(), testEntry)
	if len(result.Citations) != 1 || result.Citations[0].URI != "https://src" {
		t.Errorf("unexpected citations: %v", result.Citations)
	}
}
