package rag

import "fitai/internal/llm"

// Turn is one inbound conversational request. Prompt mode carries free
// text; form mode carries the structured preference fields instead.
type Turn struct {
	Prompt  bool          `json:"prompt"`
	Text    string        `json:"text"`
	History []llm.Message `json:"history"`

	CurrentWeight   float64  `json:"current_weight"`
	CurrentHeight   float64  `json:"current_height"`
	GoalWeight      float64  `json:"goal_weight"`
	MealRestriction []string `json:"meal_restriction"`
	DietImprovement []string `json:"diet_improvement"`
	Allergies       []string `json:"allergies"`
	FoodAroundMe    []string `json:"food_arround_me"`
}

// ClassifiedIndex holds the search terms extracted for one target index.
type ClassifiedIndex struct {
	Name    string `json:"name"`
	Entities struct {
		Recommended   []string `json:"recommended"`
		Exclude       []string `json:"exclude"`
		QueriesOrFAQs []string `json:"queries_or_faqs"`
	} `json:"entities"`
}

func (c ClassifiedIndex) hasTerms() bool {
	return len(c.Entities.Recommended) > 0 ||
		len(c.Entities.Exclude) > 0 ||
		len(c.Entities.QueriesOrFAQs) > 0
}

// ExtractionResult is what the preference extractor produced for a turn.
// Indexes keep extraction order; an index is present only if it carries
// at least one term.
type ExtractionResult struct {
	Indexes        []ClassifiedIndex `json:"indexes"`
	QueryExpansion string            `json:"query_expansion"`
}

// Normalize drops indexes that carry no terms, enforcing the presence
// invariant regardless of what the model returned.
func (e ExtractionResult) Normalize() ExtractionResult {
	out := ExtractionResult{QueryExpansion: e.QueryExpansion}
	for _, idx := range e.Indexes {
		if idx.hasTerms() {
			out.Indexes = append(out.Indexes, idx)
		}
	}
	return out
}

// HasTerms reports whether retrieval is worth running at all.
func (e ExtractionResult) HasTerms() bool {
	for _, idx := range e.Indexes {
		if idx.hasTerms() {
			return true
		}
	}
	return false
}

// CandidateSet is the per-request retrieval output, split by origin index.
// Order within each bucket is retrieval rank; duplicates are kept.
type CandidateSet struct {
	Menus []string
	Infos []string
}
