package handlers

import (
	"fmt"
	"os"

	"techbrief/internal/catalog"
	"techbrief/internal/config"
	"techbrief/internal/llm"
	"techbrief/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCmd creates the techbrief root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "techbrief",
		Short: "Daily AI & tech news briefing backend",
		Long: `Techbrief - AI & Tech News Briefing

Generates a daily briefing on AI and technology by orchestrating grounded
Gemini calls: one per news category plus an LLM leaderboard, with global
source deduplication and a generated background image.

Examples:
  # Serve the briefing API
  techbrief serve

  # One-shot briefing to stdout
  techbrief briefing

  # One-shot leaderboard to stdout
  techbrief rankings`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .techbrief.yaml)")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewBriefingCmd())
	rootCmd.AddCommand(NewRankingsCmd())

	cobra.OnInitialize(initConfig)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded
	logger.SetLevel(cfg.App.LogLevel)
}

// newsCatalog builds the category catalog from config, falling back to the
// built-in set.
func newsCatalog() *catalog.Catalog {
	if len(cfg.Catalog.Entries) > 0 {
		return catalog.New(cfg.Catalog.Entries)
	}
	return catalog.Default()
}

// newLLMClient constructs the process-wide Gemini client.
func newLLMClient() (*llm.Client, error) {
	return llm.NewClient(cfg.Gemini.Model)
}
