package rag

import (
	"context"
	"errors"
	"log"
	"strings"

	"fitai/internal/embed"
	"fitai/internal/llm"
	"fitai/internal/search"
)

var (
	ErrMissingText = errors.New("text is required when prompt is true")
)

// Searcher is the slice of the document-store client the pipeline needs.
type Searcher interface {
	Msearch(ctx context.Context, batch search.MultiSearch) (search.MultiResponse, error)
}

// Pipeline runs one turn end to end: extraction, retrieval, strategy
// selection, generation. Built once at startup and shared across
// requests; it holds no per-request state.
type Pipeline struct {
	Embedder  embed.Provider
	Search    Searcher
	Generator *Generator
	Extractor *Extractor
	KFactor   int
	MinScore  float64
}

func NewPipeline(embedder embed.Provider, searcher Searcher, provider llm.Provider, audit AuditSink, kFactor int, minScore float64) *Pipeline {
	if kFactor <= 0 {
		kFactor = 10
	}
	gen := &Generator{Provider: provider, Audit: audit}
	return &Pipeline{
		Embedder:  embedder,
		Search:    searcher,
		Generator: gen,
		Extractor: &Extractor{Generator: gen, Restaurants: AvailableRestaurants},
		KFactor:   kFactor,
		MinScore:  minScore,
	}
}

// Run executes the pipeline for one turn. Retrieval faults degrade to
// fewer candidates; only malformed input surfaces as an error.
func (p *Pipeline) Run(ctx context.Context, turn Turn) (Outcome, error) {
	if turn.Prompt && strings.TrimSpace(turn.Text) == "" {
		return Outcome{}, ErrMissingText
	}

	text := turn.Text
	var extraction ExtractionResult
	if turn.Prompt {
		extraction = p.Extractor.FromPrompt(ctx, turn)
	} else {
		text = renderFormQuery(turn)
		extraction = p.Extractor.FromForm(turn)
	}

	var candidates CandidateSet
	if extraction.HasTerms() {
		if extraction.QueryExpansion != "" {
			text = extraction.QueryExpansion
		}
		candidates = p.retrieve(ctx, text, extraction)
	}

	strategy := SelectStrategy(candidates)
	system := renderSystemPrompt(strategy.Template, candidates.Menus, candidates.Infos)
	chat := chatMessages(system, turn.History, text)
	return p.Generator.Generate(ctx, chat, strategy.Schema, strategy.Sampling), nil
}

// retrieve embeds the query text and runs the multi-index search. Any
// fault here returns an empty candidate set, shifting the strategy
// toward the no-result branch rather than failing the request.
func (p *Pipeline) retrieve(ctx context.Context, text string, extraction ExtractionResult) CandidateSet {
	vecs, err := p.Embedder.Embed(ctx, []string{text})
	if err != nil || len(vecs) == 0 {
		log.Printf("query embedding failed: %v", err)
		return CandidateSet{}
	}
	k := p.KFactor * len(extraction.Indexes)
	batch := BuildMultiSearch(vecs[0], extraction, k, p.MinScore)
	resp, err := p.Search.Msearch(ctx, batch)
	if err != nil {
		log.Printf("multi-index retrieval failed: %v", err)
		return CandidateSet{}
	}
	return Aggregate(resp)
}
