// Package chat owns the briefing assistant: the system-instruction builder
// and the lifecycle of one chat widget session.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"techbrief/internal/core"
)

// systemInstructionTemplate embeds the serialized briefing state plus the
// assistant's fixed behavioral directives.
const systemInstructionTemplate = `You are a highly intelligent AI assistant. Your name is "Briefing Bot".
You are embedded in a web app that displays a daily briefing on AI and technology.
Your primary goal is to act as an expert investigator for the user.
It is crucial that you follow user instructions precisely, especially regarding the length and format of your answers.
First, check if the answer can be found in the page's CONTEXT provided below.
If the information is not in the context or if the user asks for more details, use your ability to search the internet to find the most accurate and up-to-date information.
You are not limited to the on-page context. Be resourceful and provide comprehensive answers.
Do not use markdown in your responses.

CONTEXT:
%s`

// apologyText is appended to the transcript when a send fails recoverably.
const apologyText = "Sorry, something went wrong. Please try again."

// BuildSystemInstruction serializes the current briefing state into the
// assistant's system instruction. Pure function; it must be re-run whenever
// the underlying briefing changes, since a stale context is a correctness
// bug rather than a staleness nit.
func BuildSystemInstruction(categories []core.NewsCategory, rankings []core.LLMRankingItem) string {
	contextData := struct {
		NewsData     []core.NewsCategory   `json:"newsData"`
		RankingsData []core.LLMRankingItem `json:"rankingsData"`
	}{
		NewsData:     categories,
		RankingsData: rankings,
	}

	serialized, err := json.Marshal(contextData)
	if err != nil {
		// Briefing state is plain data and always marshals; keep the
		// directives usable even if it somehow does not.
		serialized = []byte("{}")
	}
	return fmt.Sprintf(systemInstructionTemplate, serialized)
}

// State is the chat widget lifecycle state.
type State string

const (
	StateClosed          State = "closed"
	StateInitializing    State = "initializing"
	StateReady           State = "ready"
	StateWaitingForReply State = "waiting_for_reply"
)

// Sender is the conversational session handle obtained from the
// collaborator. *llm.ChatSession satisfies it.
type Sender interface {
	Send(ctx context.Context, message string) (string, error)
}

// SessionStarter opens a conversation thread with the collaborator.
type SessionStarter interface {
	StartChatSession(systemInstruction string, webSearch bool) Sender
}

// StarterFunc adapts a plain function to SessionStarter.
type StarterFunc func(systemInstruction string, webSearch bool) Sender

// StartChatSession calls f.
func (f StarterFunc) StartChatSession(systemInstruction string, webSearch bool) Sender {
	return f(systemInstruction, webSearch)
}

// Widget is the stateful chat session owned by one open chat widget
// instance. The transcript is append-only for the lifetime of a session and
// discarded on close.
type Widget struct {
	starter SessionStarter

	mu         sync.Mutex
	state      State
	session    Sender
	transcript []core.ChatMessage
}

// NewWidget creates a closed chat widget.
func NewWidget(starter SessionStarter) *Widget {
	return &Widget{starter: starter, state: StateClosed}
}

// State reports the current lifecycle state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Open starts a fresh session seeded with the current briefing state.
// Reopening after a close always builds a new system instruction and a new
// session handle; nothing carries over.
func (w *Widget) Open(categories []core.NewsCategory, rankings []core.LLMRankingItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateClosed {
		return fmt.Errorf("chat already open (state %s)", w.state)
	}

	w.state = StateInitializing
	instruction := BuildSystemInstruction(categories, rankings)
	w.session = w.starter.StartChatSession(instruction, true)
	w.transcript = nil
	w.state = StateReady
	return nil
}

// Send runs one user turn. The user message is always appended; a reply
// appends the model message, a recoverable error appends an apology instead
// of failing the widget. Either way the widget returns to ready.
func (w *Widget) Send(ctx context.Context, text string) (core.ChatMessage, error) {
	w.mu.Lock()
	if w.state != StateReady {
		w.mu.Unlock()
		return core.ChatMessage{}, fmt.Errorf("chat not ready (state %s)", w.state)
	}
	w.state = StateWaitingForReply
	w.transcript = append(w.transcript, core.ChatMessage{Role: core.RoleUser, Text: text})
	session := w.session
	w.mu.Unlock()

	replyText, err := session.Send(ctx, text)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateClosed {
		// Closed mid-flight; drop the reply with the transcript.
		return core.ChatMessage{}, fmt.Errorf("chat closed while waiting for reply")
	}

	reply := core.ChatMessage{Role: core.RoleModel, Text: replyText}
	if err != nil {
		reply.Text = apologyText
	}
	w.transcript = append(w.transcript, reply)
	w.state = StateReady
	return reply, nil
}

// Close discards the transcript and session handle and returns the widget
// to the closed state. Closing a closed widget is a no-op.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateClosed
	w.session = nil
	w.transcript = nil
}

// Transcript returns a copy of the current transcript.
func (w *Widget) Transcript() []core.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]core.ChatMessage, len(w.transcript))
	copy(out, w.transcript)
	return out
}
