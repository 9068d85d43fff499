package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techbrief/internal/chat"
	"techbrief/internal/logger"
	"techbrief/internal/server"
	"techbrief/internal/services"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the briefing HTTP API",
		Long: `Start the HTTP API that front-ends consume.

Endpoints:
  GET  /api/briefing          Current briefing (categories + sources)
  POST /api/briefing/refresh  Fetch a fresh briefing (last refresh wins)
  GET  /api/rankings          LLM leaderboard, sorted and truncated
  GET  /api/background        Generated background image data URI
  POST /api/chat/open|message|close, GET /api/chat/transcript`,
		Run: serveRun,
	}
	return cmd
}

func serveRun(cmd *cobra.Command, args []string) {
	client, err := newLLMClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create Gemini client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	widget := chat.NewWidget(chat.StarterFunc(func(instruction string, webSearch bool) chat.Sender {
		return client.StartChatSession(instruction, webSearch)
	}))

	srv := server.New(
		cfg.Server,
		services.NewBriefingService(client, newsCatalog()),
		services.NewRankingsService(client),
		services.NewBackgroundService(client),
		widget,
	)

	// Serve until interrupted, then drain.
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server exited", err)
			os.Exit(1)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", err)
		}
	}
}
