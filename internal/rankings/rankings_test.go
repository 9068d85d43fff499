package rankings

import (
	"context"
	"errors"
	"testing"

	"techbrief/internal/core"
	"techbrief/internal/llm"
)

type stubGenerator struct {
	fn func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error)
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
	return s.fn(ctx, prompt, options)
}

func TestFetch_ParsesLeaderboard(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		if !options.EnableWebSearch {
			t.Error("rankings fetch must enable web search")
		}
		return &llm.GenerateResult{
			Text: "```json\n[{\"rank\":2,\"name\":\"B\",\"developer\":\"DevB\",\"score\":91.5},{\"rank\":1,\"name\":\"A\",\"developer\":\"DevA\",\"score\":95}]\n```",
		}, nil
	}}

	items := NewFetcher(gen).Fetch(context.Background())
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// Fetch preserves model order; sorting happens in Top.
	if items[0].Rank != 2 || items[1].Rank != 1 {
		t.Errorf("fetch must not sort: %+v", items)
	}
	if items[1].Name != "A" || items[1].Developer != "DevA" || items[1].Score != 95 {
		t.Errorf("unexpected item: %+v", items[1])
	}
}

func TestFetch_CollaboratorErrorFailsClosed(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		return nil, &llm.CollaboratorError{Op: "generate", Err: errors.New("network down")}
	}}

	items := NewFetcher(gen).Fetch(context.Background())
	if items == nil {
		t.Fatal("fail-closed result must be an empty slice, not nil")
	}
	if len(items) != 0 {
		t.Errorf("expected empty leaderboard, got %v", items)
	}
}

func TestFetch_MalformedPayloadFailsClosed(t *testing.T) {
	gen := &stubGenerator{fn: func(ctx context.Context, prompt string, options llm.GenerateOptions) (*llm.GenerateResult, error) {
		return &llm.GenerateResult{Text: "here is some prose instead of JSON"}, nil
	}}

	if items := NewFetcher(gen).Fetch(context.Background()); len(items) != 0 {
		t.Errorf("expected empty leaderboard, got %v", items)
	}
}

func TestTop_SortsByRankAndTruncates(t *testing.T) {
	var items []core.LLMRankingItem
	for rank := 12; rank >= 1; rank-- {
		items = append(items, core.LLMRankingItem{Rank: rank, Name: "m"})
	}

	top := Top(items)
	if len(top) != MaxRendered {
		t.Fatalf("expected %d items, got %d", MaxRendered, len(top))
	}
	for i, item := range top {
		if item.Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, item.Rank)
		}
	}
	// Input must be untouched.
	if items[0].Rank != 12 {
		t.Error("Top must sort a copy, not the input")
	}
}

func TestTop_ShortList(t *testing.T) {
	top := Top([]core.LLMRankingItem{{Rank: 3}, {Rank: 1}})
	if len(top) != 2 || top[0].Rank != 1 || top[1].Rank != 3 {
		t.Errorf("unexpected order: %+v", top)
	}
}
