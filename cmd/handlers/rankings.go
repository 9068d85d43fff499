package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"techbrief/internal/rankings"

	"github.com/spf13/cobra"
)

// NewRankingsCmd creates the one-shot leaderboard command.
func NewRankingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rankings",
		Short: "Fetch the LLM leaderboard and print it as JSON",
		Run:   rankingsRun,
	}
}

func rankingsRun(cmd *cobra.Command, args []string) {
	client, err := newLLMClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create Gemini client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	items := rankings.Top(rankings.NewFetcher(client).Fetch(ctx))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode rankings: %v\n", err)
		os.Exit(1)
	}
}
