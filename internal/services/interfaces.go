// Package services defines the seams between the HTTP layer and the
// briefing domain, plus the default implementations wired at startup.
package services

import (
	"context"

	"techbrief/internal/core"
)

// BriefingService produces a full briefing for the configured catalog.
type BriefingService interface {
	Fetch(ctx context.Context) core.Briefing
}

// RankingsService produces the LLM leaderboard.
type RankingsService interface {
	Fetch(ctx context.Context) []core.LLMRankingItem
}

// BackgroundService starts detached background-image generation and returns
// the channel its data URI (or "") is delivered on.
type BackgroundService interface {
	Generate(ctx context.Context, trends []string) <-chan string
}

// ChatService is the chat widget lifecycle: open with current briefing
// state, exchange messages, close and discard.
type ChatService interface {
	Open(categories []core.NewsCategory, rankings []core.LLMRankingItem) error
	Send(ctx context.Context, text string) (core.ChatMessage, error)
	Transcript() []core.ChatMessage
	Close()
}
