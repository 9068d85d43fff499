package core

// CatalogEntry is a statically configured category descriptor. Entries are
// loaded once at process start and never mutated; they define the fixed set
// of categories every briefing attempts to populate.
type CatalogEntry struct {
	ID    string `json:"id"`    // Unique category identifier (e.g. "ai-models")
	Title string `json:"title"` // Human-readable category title
	Icon  string `json:"icon"`  // Opaque icon reference resolved by the front-end
}

// NewsItem is a single generated news entry. Items are produced fresh on
// every fetch and never persisted; an item without a URL is dropped during
// validation.
type NewsItem struct {
	ID          string `json:"id"`          // Unique identifier (model-supplied or generated)
	Title       string `json:"title"`       // Headline
	Description string `json:"description"` // One-sentence description
	URL         string `json:"url"`         // Source URL, always non-empty
}

// NewsCategory is the runtime fusion of one CatalogEntry with the model's
// generated payload for that category. ID, Title and Icon always come from
// the catalog, never from the model.
type NewsCategory struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Icon           string     `json:"icon"`
	TrendingTopics []string   `json:"trendingTopics"` // 4-6 trending keywords for the category
	Items          []NewsItem `json:"items"`          // Ordered news items
	Degraded       bool       `json:"degraded"`       // True when this category is a fetch-failure fallback
}

// GroundingSource is a web source the generation collaborator claims to have
// used. Sources are aggregated across all category calls and deduplicated by
// URI, last write winning on title collisions.
type GroundingSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// LLMRankingItem is one row of the LLM leaderboard. The list is re-sorted by
// rank at render time, not during fetch.
type LLMRankingItem struct {
	Rank      int     `json:"rank"`
	Name      string  `json:"name"`
	Developer string  `json:"developer"`
	Score     float64 `json:"score"` // Overall capability score, 0-100
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one entry in a chat transcript. Transcripts are append-only
// and live only as long as one open chat session.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// Briefing is the aggregated output of one full fetch cycle: every catalog
// category in catalog order plus the globally deduplicated source list.
type Briefing struct {
	Categories []NewsCategory    `json:"categories"`
	Sources    []GroundingSource `json:"sources"`
}

// CategoryResult pairs one fetched category with the grounding sources its
// generation call reported. Citations are raw here; global dedup happens
// during aggregation.
type CategoryResult struct {
	Category  NewsCategory
	Citations []GroundingSource
}
