// Package citations extracts and merges grounding sources reported by the
// generation collaborator.
package citations

import (
	"techbrief/internal/core"
	"techbrief/internal/llm"
)

// Extract pulls the ordered list of web grounding sources out of a
// generation result. Absent grounding metadata is not an error; grounding is
// optional per call. Chunks without a web URI are filtered out. Extraction
// does not deduplicate; global dedup across categories is Merge's job.
func Extract(result *llm.GenerateResult) []core.GroundingSource {
	if result == nil || result.Grounding == nil {
		return nil
	}

	var sources []core.GroundingSource
	for _, chunk := range result.Grounding.Chunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, core.GroundingSource{
			URI:   chunk.Web.URI,
			Title: chunk.Web.Title,
		})
	}
	return sources
}

// Merge flattens per-category source lists into one list deduplicated by
// URI. When the same URI appears more than once, the later entry in
// flattening order supplies the title; emission order is first-seen
// insertion order, which keeps the output deterministic.
func Merge(lists ...[]core.GroundingSource) []core.GroundingSource {
	index := make(map[string]int)
	var merged []core.GroundingSource

	for _, list := range lists {
		for _, src := range list {
			if src.URI == "" {
				continue
			}
			if i, seen := index[src.URI]; seen {
				merged[i] = src
				continue
			}
			index[src.URI] = len(merged)
			merged = append(merged, src)
		}
	}
	return merged
}
