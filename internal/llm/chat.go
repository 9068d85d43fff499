package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ChatSession is one conversation thread with the model. History is managed
// manually and the full transcript is sent on every turn; the session is
// discarded when the owning chat widget closes.
type ChatSession struct {
	client            *Client
	history           []*genai.Content
	systemInstruction string
	modelName         string
	webSearch         bool
}

// StartChatSession opens a new conversation with the given system
// instruction. When webSearch is true the Google Search tool stays available
// for every turn.
func (c *Client) StartChatSession(systemInstruction string, webSearch bool) *ChatSession {
	return &ChatSession{
		client:            c,
		history:           nil,
		systemInstruction: systemInstruction,
		modelName:         c.chatModelName,
		webSearch:         webSearch,
	}
}

// Send appends the user message to the history, runs one generation turn and
// returns the model's reply. The reply is appended to the history only on
// success, so a failed turn can be retried without duplicating context.
func (s *ChatSession) Send(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	turn := append(copyHistory(s.history), &genai.Content{
		Parts: []*genai.Part{{Text: message}},
		Role:  "user",
	})

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: s.systemInstruction}},
		},
		Temperature: genai.Ptr(float32(0.7)),
	}
	if s.webSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := s.client.gClient.Models.GenerateContent(ctx, s.modelName, turn, config)
	if err != nil {
		return "", &CollaboratorError{Op: "chat_send", Err: err}
	}

	responseText := resp.Text()
	if responseText == "" {
		return "", &CollaboratorError{Op: "chat_send", Err: fmt.Errorf("empty response from model")}
	}

	s.history = append(turn, &genai.Content{
		Parts: []*genai.Part{{Text: responseText}},
		Role:  "model",
	})

	return strings.TrimSpace(responseText), nil
}

func copyHistory(history []*genai.Content) []*genai.Content {
	out := make([]*genai.Content, len(history))
	copy(out, history)
	return out
}
