// Package visual generates the daily abstract background image from the
// briefing's trending topics. Generation is fire-and-forget relative to the
// briefing render: it runs as a detached task, delivers over its own
// channel, and swallows failure as "no image".
package visual

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"techbrief/internal/llm"
	"techbrief/internal/logger"
)

// backgroundPromptTemplate forbids text in the image so it can sit behind
// page content.
const backgroundPromptTemplate = `Create a stunning, photorealistic 3D abstract background wallpaper that visually represents these technology concepts: %s.

Visual Direction: "GFX", High-tech, Abstract, 3D Rendering.
Content: Use abstract geometric shapes, glowing data streams, intricate circuit patterns, neural nodes, and futuristic metallic structures to represent the trends.

CRITICAL CONSTRAINT: ABSOLUTELY NO TEXT, NO LETTERS, NO WORDS, NO NUMBERS, NO TYPOGRAPHY. The image must be pure visual art.

Atmosphere: Deep, dark, sophisticated, and mysterious.
Colors: Dark slate, midnight blue, void black, with subtle neon cyan and electric violet highlights.
Lighting: Cinematic, volumetric, soft glows.
Composition: Wide-angle, uncluttered center (for website content), detailed edges.
Quality: 8k resolution, hyper-detailed.`

// maxPromptTrends caps how many topics feed the image prompt.
const maxPromptTrends = 5

// ImageGenerator is the image-generation collaborator contract.
// *llm.Client satisfies it.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, options llm.ImageOptions) ([]byte, error)
}

// BuildBackgroundPrompt assembles the wallpaper prompt from trending topics,
// deduplicated in first-seen order and capped at maxPromptTrends.
func BuildBackgroundPrompt(trends []string) string {
	seen := make(map[string]bool)
	var unique []string
	for _, t := range trends {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		unique = append(unique, t)
		if len(unique) == maxPromptTrends {
			break
		}
	}
	if len(unique) == 0 {
		unique = []string{"artificial intelligence", "technology"}
	}
	return fmt.Sprintf(backgroundPromptTemplate, strings.Join(unique, ", "))
}

// GenerateBackground starts a detached background-image generation task and
// returns the channel its result is delivered on: a jpeg data URI, or the
// empty string when generation failed or produced nothing. The channel is
// buffered so the task never blocks on a consumer that went away, and the
// primary briefing path is never affected by this task's outcome.
func GenerateBackground(ctx context.Context, gen ImageGenerator, trends []string) <-chan string {
	result := make(chan string, 1)

	go func() {
		defer close(result)

		prompt := BuildBackgroundPrompt(trends)
		imageBytes, err := gen.GenerateImage(ctx, prompt, llm.DefaultImageOptions())
		if err != nil {
			logger.Warn("background image generation failed", "error", err.Error())
			result <- ""
			return
		}

		result <- "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageBytes)
	}()

	return result
}
