package visual

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"techbrief/internal/llm"
)

type stubImageGenerator struct {
	fn func(ctx context.Context, prompt string, options llm.ImageOptions) ([]byte, error)
}

func (s *stubImageGenerator) GenerateImage(ctx context.Context, prompt string, options llm.ImageOptions) ([]byte, error) {
	return s.fn(ctx, prompt, options)
}

func TestBuildBackgroundPrompt(t *testing.T) {
	prompt := BuildBackgroundPrompt([]string{"GPT-5", "robotics", "GPT-5", "", "quantum"})

	if !strings.Contains(prompt, "GPT-5, robotics, quantum") {
		t.Errorf("prompt must contain deduplicated trends in first-seen order:\n%s", prompt)
	}
	if strings.Count(prompt, "GPT-5") != 1 {
		t.Error("duplicate trends must appear once")
	}
	if !strings.Contains(prompt, "NO TEXT") {
		t.Error("prompt must keep the no-text constraint")
	}
}

func TestBuildBackgroundPrompt_CapsTrends(t *testing.T) {
	trends := []string{"a", "b", "c", "d", "e", "f", "g"}
	prompt := BuildBackgroundPrompt(trends)

	if !strings.Contains(prompt, "a, b, c, d, e.") {
		t.Errorf("prompt must cap at %d trends:\n%s", maxPromptTrends, prompt)
	}
	if strings.Contains(prompt, "f") && strings.Contains(prompt, "concepts: a, b, c, d, e, f") {
		t.Error("trends past the cap must be dropped")
	}
}

func TestBuildBackgroundPrompt_EmptyTrendsFallback(t *testing.T) {
	prompt := BuildBackgroundPrompt(nil)
	if !strings.Contains(prompt, "artificial intelligence, technology") {
		t.Errorf("empty trends must fall back to generic concepts:\n%s", prompt)
	}
}

func TestGenerateBackground_DeliversDataURI(t *testing.T) {
	imageBytes := []byte{0xff, 0xd8, 0xff}
	gen := &stubImageGenerator{fn: func(ctx context.Context, prompt string, options llm.ImageOptions) ([]byte, error) {
		if !strings.Contains(prompt, "robotics") {
			t.Errorf("prompt must be built from the trends:\n%s", prompt)
		}
		if options.Count != 1 {
			t.Errorf("expected default image options, got %+v", options)
		}
		return imageBytes, nil
	}}

	select {
	case uri := <-GenerateBackground(context.Background(), gen, []string{"robotics"}):
		want := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageBytes)
		if uri != want {
			t.Errorf("got %q, want %q", uri, want)
		}
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}
}

func TestGenerateBackground_FailureDeliversEmpty(t *testing.T) {
	gen := &stubImageGenerator{fn: func(ctx context.Context, prompt string, options llm.ImageOptions) ([]byte, error) {
		return nil, errors.New("quota exceeded")
	}}

	select {
	case uri := <-GenerateBackground(context.Background(), gen, []string{"robotics"}):
		if uri != "" {
			t.Errorf("failure must deliver the empty string, got %q", uri)
		}
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}
}

func TestGenerateBackground_DoesNotBlockSender(t *testing.T) {
	done := make(chan struct{})
	gen := &stubImageGenerator{fn: func(ctx context.Context, prompt string, options llm.ImageOptions) ([]byte, error) {
		defer close(done)
		return []byte{1}, nil
	}}

	// Drop the channel without receiving; the task must still finish.
	_ = GenerateBackground(context.Background(), gen, nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("generation task blocked without a consumer")
	}
}
