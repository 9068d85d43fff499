package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the default Gemini model for grounded text generation.
	DefaultModel = "gemini-2.5-flash"
	// DefaultChatModel is the model used for conversational sessions.
	DefaultChatModel = "gemini-2.5-pro"
	// DefaultImageModel is the Imagen model used for background generation.
	DefaultImageModel = "imagen-4.0-generate-001"
)

// CollaboratorError wraps any failure from the hosted model (network, quota,
// API errors). Fetchers catch it at their boundary; it never reaches the
// top-level caller.
type CollaboratorError struct {
	Op  string // The operation that failed ("generate", "generate_image", ...)
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("collaborator %s failed: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// GenerateOptions controls a single text generation call.
type GenerateOptions struct {
	EnableWebSearch bool    // Attach the Google Search grounding tool
	Model           string  // Override the client's default model
	Temperature     float32 // 0 leaves the model default in place
	MaxTokens       int32   // 0 leaves the model default in place
}

// WebSource is one grounded web reference inside a grounding chunk.
type WebSource struct {
	URI   string
	Title string
}

// GroundingChunk mirrors the model's grounding-chunk envelope; Web is nil
// for non-web chunks.
type GroundingChunk struct {
	Web *WebSource
}

// GroundingMetadata is the optional grounding envelope attached to a
// generation response when web search was used.
type GroundingMetadata struct {
	Chunks []GroundingChunk
}

// GenerateResult is the response envelope of one text generation call.
type GenerateResult struct {
	Text      string
	Grounding *GroundingMetadata // nil when the call produced no grounding
}

// ImageOptions controls a single image generation call.
type ImageOptions struct {
	Count       int    // Number of images; the briefing only ever asks for 1
	MIMEType    string // Output format, e.g. "image/jpeg"
	AspectRatio string // e.g. "16:9"
}

// DefaultImageOptions returns the options used for briefing backgrounds.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{Count: 1, MIMEType: "image/jpeg", AspectRatio: "16:9"}
}

// Client is the handle to the hosted Gemini collaborator. One client is
// constructed at process start and passed to the fetchers; it owns no
// per-request state and is safe for concurrent use.
type Client struct {
	apiKey        string
	modelName     string
	chatModelName string
	gClient       *genai.Client
}

// NewClient creates a new Gemini client. The API key is resolved in order
// of preference from the GEMINI_API_KEY environment variable (with
// GOOGLE_GEMINI_API_KEY and GOOGLE_AI_API_KEY as alternates) and the viper
// key gemini.api_key.
func NewClient(modelName string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY"); apiKey == "" {
			if apiKey = os.Getenv("GOOGLE_AI_API_KEY"); apiKey == "" {
				apiKey = viper.GetString("gemini.api_key")
			}
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or gemini.api_key in config file")
	}

	if modelName == "" {
		modelName = viper.GetString("gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	chatModelName := viper.GetString("gemini.chat_model")
	if chatModelName == "" {
		chatModelName = DefaultChatModel
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		apiKey:        apiKey,
		modelName:     modelName,
		chatModelName: chatModelName,
		gClient:       gClient,
	}, nil
}

// GetModelName returns the model name used by this client.
func (c *Client) GetModelName() string {
	return c.modelName
}

// Close cleans up resources used by the client.
func (c *Client) Close() {
	// The genai client does not require explicit close.
}

// Generate runs one text generation call and returns the response text
// together with any grounding metadata the model attached.
func (c *Client) Generate(ctx context.Context, prompt string, options GenerateOptions) (*GenerateResult, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	modelName := c.modelName
	if options.Model != "" {
		modelName = options.Model
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	config := &genai.GenerateContentConfig{}
	if options.EnableWebSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = options.MaxTokens
	}
	if options.Temperature > 0 {
		config.Temperature = genai.Ptr(options.Temperature)
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return nil, &CollaboratorError{Op: "generate", Err: err}
	}

	text := resp.Text()
	if text == "" {
		return nil, &CollaboratorError{Op: "generate", Err: fmt.Errorf("empty response from model")}
	}

	return &GenerateResult{
		Text:      text,
		Grounding: groundingFromResponse(resp),
	}, nil
}

// GenerateImage runs one image generation call and returns the raw bytes of
// the first generated image.
func (c *Client) GenerateImage(ctx context.Context, prompt string, options ImageOptions) ([]byte, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	if options.Count <= 0 {
		options = DefaultImageOptions()
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages: int32(options.Count),
		OutputMIMEType: options.MIMEType,
		AspectRatio:    options.AspectRatio,
	}

	resp, err := c.gClient.Models.GenerateImages(ctx, DefaultImageModel, prompt, config)
	if err != nil {
		return nil, &CollaboratorError{Op: "generate_image", Err: err}
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, &CollaboratorError{Op: "generate_image", Err: fmt.Errorf("no image returned")}
	}

	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

// groundingFromResponse converts the SDK grounding envelope into the local
// wire-shaped form. Returns nil when the response carries no grounding.
func groundingFromResponse(resp *genai.GenerateContentResponse) *GroundingMetadata {
	if len(resp.Candidates) == 0 {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil || len(gm.GroundingChunks) == 0 {
		return nil
	}

	out := &GroundingMetadata{Chunks: make([]GroundingChunk, 0, len(gm.GroundingChunks))}
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil {
			continue
		}
		var web *WebSource
		if chunk.Web != nil {
			web = &WebSource{URI: chunk.Web.URI, Title: chunk.Web.Title}
		}
		out.Chunks = append(out.Chunks, GroundingChunk{Web: web})
	}
	return out
}
