package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"techbrief/internal/core"
	"techbrief/internal/rankings"
)

// BriefingResponse is the payload of GET /api/briefing and of a refresh.
type BriefingResponse struct {
	Categories []core.NewsCategory    `json:"categories"`
	Sources    []core.GroundingSource `json:"sources"`
	FetchedAt  time.Time              `json:"fetchedAt"`
}

// RankingsResponse is the payload of GET /api/rankings, already sorted and
// truncated for rendering.
type RankingsResponse struct {
	Rankings []core.LLMRankingItem `json:"rankings"`
}

// BackgroundResponse carries the current background image as a data URI,
// empty when none has been generated yet.
type BackgroundResponse struct {
	Image string `json:"image"`
}

// ChatMessageRequest is the body of POST /api/chat/message.
type ChatMessageRequest struct {
	Message string `json:"message"`
}

// ChatMessageResponse is the model's reply to one chat turn.
type ChatMessageResponse struct {
	Reply core.ChatMessage `json:"reply"`
}

// ChatTranscriptResponse is the payload of GET /api/chat/transcript.
type ChatTranscriptResponse struct {
	Messages []core.ChatMessage `json:"messages"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetBriefing serves the latest published snapshot, running a fetch
// cycle first if none exists yet.
func (s *Server) handleGetBriefing(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	if snap == nil {
		snap = s.runFetchCycle(r.Context())
	}
	s.respondJSON(w, http.StatusOK, BriefingResponse{
		Categories: snap.Briefing.Categories,
		Sources:    snap.Briefing.Sources,
		FetchedAt:  snap.FetchedAt,
	})
}

// handleRefresh starts a fresh fetch cycle. Last refresh wins: a cycle that
// was superseded while in flight is discarded instead of being merged with
// newer results, though its output is still returned to the caller that
// requested it.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap := s.runFetchCycle(r.Context())
	s.respondJSON(w, http.StatusOK, BriefingResponse{
		Categories: snap.Briefing.Categories,
		Sources:    snap.Briefing.Sources,
		FetchedAt:  snap.FetchedAt,
	})
}

func (s *Server) handleGetRankings(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	if snap == nil {
		snap = s.runFetchCycle(r.Context())
	}
	s.respondJSON(w, http.StatusOK, RankingsResponse{Rankings: rankings.Top(snap.Rankings)})
}

func (s *Server) handleGetBackground(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	uri := s.backgroundURI
	s.mu.Unlock()
	s.respondJSON(w, http.StatusOK, BackgroundResponse{Image: uri})
}

func (s *Server) handleChatOpen(w http.ResponseWriter, r *http.Request) {
	snap := s.currentSnapshot()
	if snap == nil {
		s.respondError(w, http.StatusConflict, "no briefing loaded yet")
		return
	}
	if err := s.chat.Open(snap.Briefing.Categories, rankings.Top(snap.Rankings)); err != nil {
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "open"})
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.chat.Send(r.Context(), req.Message)
	if err != nil {
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, ChatMessageResponse{Reply: reply})
}

func (s *Server) handleChatTranscript(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, ChatTranscriptResponse{Messages: s.chat.Transcript()})
}

func (s *Server) handleChatClose(w http.ResponseWriter, r *http.Request) {
	s.chat.Close()
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

// runFetchCycle fetches the briefing and rankings in parallel, publishes the
// snapshot if this cycle is still the newest, and kicks off detached
// background-image generation from the fresh trending topics.
func (s *Server) runFetchCycle(ctx context.Context) *snapshot {
	s.mu.Lock()
	s.fetchCycle++
	cycle := s.fetchCycle
	s.mu.Unlock()

	var (
		wg       sync.WaitGroup
		briefing core.Briefing
		ranks    []core.LLMRankingItem
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		briefing = s.briefings.Fetch(ctx)
	}()
	go func() {
		defer wg.Done()
		ranks = s.rankings.Fetch(ctx)
	}()
	wg.Wait()

	snap := &snapshot{Briefing: briefing, Rankings: ranks, FetchedAt: time.Now().UTC()}

	s.mu.Lock()
	superseded := cycle != s.fetchCycle
	if !superseded {
		s.current = snap
	}
	s.mu.Unlock()

	if superseded {
		s.log.Info("fetch cycle superseded, discarding result", "cycle", cycle)
		return snap
	}

	s.startBackgroundGeneration(cycle, briefing)
	return snap
}

// startBackgroundGeneration launches the detached image task for the given
// cycle. The result only updates server state if the cycle is still current
// when it lands; failures have already been reduced to "" upstream.
func (s *Server) startBackgroundGeneration(cycle uint64, briefing core.Briefing) {
	var trends []string
	for _, cat := range briefing.Categories {
		trends = append(trends, cat.TrendingTopics...)
	}

	// Detached from any request lifetime on purpose.
	result := s.background.Generate(context.Background(), trends)
	go func() {
		uri, ok := <-result
		if !ok || uri == "" {
			return
		}
		s.mu.Lock()
		if cycle == s.fetchCycle {
			s.backgroundURI = uri
		}
		s.mu.Unlock()
	}()
}

func (s *Server) currentSnapshot() *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

// respondError writes a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
