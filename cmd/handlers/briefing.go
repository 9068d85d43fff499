package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"techbrief/internal/briefing"

	"github.com/spf13/cobra"
)

// NewBriefingCmd creates the one-shot briefing command.
func NewBriefingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Fetch a full briefing and print it as JSON",
		Run:   briefingRun,
	}
	cmd.Flags().Duration("timeout", 2*time.Minute, "Overall fetch timeout")
	return cmd
}

func briefingRun(cmd *cobra.Command, args []string) {
	client, err := newLLMClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create Gemini client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	aggregator := briefing.NewAggregator(briefing.NewFetcher(client))
	result := aggregator.FetchAll(ctx, newsCatalog())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode briefing: %v\n", err)
		os.Exit(1)
	}
}
