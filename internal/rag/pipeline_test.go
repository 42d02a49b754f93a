package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fitai/internal/embed"
	"fitai/internal/llm"
	"fitai/internal/search"
)

// recordingProvider replays canned results per call and records what it
// was asked for.
type recordingProvider struct {
	results []llm.Result
	calls   []struct {
		schema llm.Schema
		chat   []llm.Message
	}
}

func (r *recordingProvider) Chat(_ context.Context, messages []llm.Message, schema llm.Schema, _ llm.Sampling) (llm.Result, error) {
	r.calls = append(r.calls, struct {
		schema llm.Schema
		chat   []llm.Message
	}{schema, messages})
	if len(r.results) == 0 {
		return llm.Result{}, errors.New("no canned result")
	}
	res := r.results[0]
	r.results = r.results[1:]
	return res, nil
}

func (r *recordingProvider) Name() string  { return "recording" }
func (r *recordingProvider) Model() string { return "recording" }

type stubSearcher struct {
	resp    search.MultiResponse
	err     error
	batches []search.MultiSearch
}

func (s *stubSearcher) Msearch(_ context.Context, batch search.MultiSearch) (search.MultiResponse, error) {
	s.batches = append(s.batches, batch)
	return s.resp, s.err
}

func TestRunPromptModeRequiresText(t *testing.T) {
	p := NewPipeline(embed.NewNoop(8), &stubSearcher{}, &recordingProvider{}, nil, 10, 1)
	if _, err := p.Run(context.Background(), Turn{Prompt: true, Text: "   "}); !errors.Is(err, ErrMissingText) {
		t.Fatalf("expected ErrMissingText, got %v", err)
	}
}

func TestRunZeroHitsStillGenerates(t *testing.T) {
	extraction := `{"indexes":[{"name":"index-of-menus","entities":{"recommended":["keto diet"],"exclude":[],"queries_or_faqs":[]}}],"query_expansion":""}`
	provider := &recordingProvider{results: []llm.Result{
		{Content: extraction},
		{Content: `{"suggestions":["try a broader search"],"message_res":"nothing matched"}`},
	}}
	searcher := &stubSearcher{resp: search.MultiResponse{Responses: []search.IndexResponse{
		{Status: 200},
	}}}
	p := NewPipeline(embed.NewNoop(8), searcher, provider, nil, 10, 1)

	outcome, err := p.Run(context.Background(), Turn{Prompt: true, Text: "keto dinner ideas"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != OutcomeParsed {
		t.Fatalf("expected parsed outcome, got %s (%s)", outcome.Kind, outcome.Detail)
	}
	if len(provider.calls) != 2 {
		t.Fatalf("expected extraction plus generation calls, got %d", len(provider.calls))
	}
	if provider.calls[1].schema.Name != SchemaNoResult.Name {
		t.Fatalf("expected no_result schema on zero hits, got %s", provider.calls[1].schema.Name)
	}
	if len(searcher.batches) != 1 {
		t.Fatalf("expected one msearch batch, got %d", len(searcher.batches))
	}
}

func TestRunFormModeRendersQueryAndRetrieves(t *testing.T) {
	provider := &recordingProvider{results: []llm.Result{
		{Content: `{"menus":[],"message_res":"here you go","suggestions":[]}`},
	}}
	resp := search.MultiResponse{Responses: []search.IndexResponse{
		{Status: 200, Hits: search.HitList{Hits: []search.Hit{hit(MenuIndex, "Market Salad, 330 calories")}}},
	}}
	searcher := &stubSearcher{resp: resp}
	p := NewPipeline(embed.NewNoop(8), searcher, provider, nil, 10, 1)

	turn := Turn{
		CurrentWeight:   82,
		CurrentHeight:   178,
		GoalWeight:      75,
		MealRestriction: []string{"keto diet"},
		Allergies:       []string{"peanuts"},
	}
	outcome, err := p.Run(context.Background(), turn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != OutcomeParsed {
		t.Fatalf("expected parsed outcome, got %s (%s)", outcome.Kind, outcome.Detail)
	}
	// Form mode classifies locally, so the only model call is generation.
	if len(provider.calls) != 1 {
		t.Fatalf("expected single generation call, got %d", len(provider.calls))
	}
	if provider.calls[0].schema.Name != SchemaMenuOnly.Name {
		t.Fatalf("expected menu_only schema, got %s", provider.calls[0].schema.Name)
	}
	user := provider.calls[0].chat[len(provider.calls[0].chat)-1]
	if !strings.Contains(user.Content, "keto diet") || !strings.Contains(user.Content, "peanuts") {
		t.Fatalf("form query missing preference fields: %q", user.Content)
	}
	system := provider.calls[0].chat[0]
	if !strings.Contains(system.Content, "Market Salad") {
		t.Fatalf("system prompt missing retrieved candidate: %q", system.Content)
	}
}

func TestRunNoTermsSkipsRetrieval(t *testing.T) {
	provider := &recordingProvider{results: []llm.Result{
		{Content: `{"indexes":[],"query_expansion":""}`},
		{Content: `{"suggestions":[],"message_res":"tell me more about your diet"}`},
	}}
	searcher := &stubSearcher{}
	p := NewPipeline(embed.NewNoop(8), searcher, provider, nil, 10, 1)

	outcome, err := p.Run(context.Background(), Turn{Prompt: true, Text: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != OutcomeParsed {
		t.Fatalf("expected parsed outcome, got %s", outcome.Kind)
	}
	if len(searcher.batches) != 0 {
		t.Fatalf("expected no retrieval without terms, got %d batches", len(searcher.batches))
	}
}

func TestRunSearchFailureDegradesToNoResult(t *testing.T) {
	extraction := `{"indexes":[{"name":"index-of-menus","entities":{"recommended":["keto diet"],"exclude":[],"queries_or_faqs":[]}}],"query_expansion":""}`
	provider := &recordingProvider{results: []llm.Result{
		{Content: extraction},
		{Content: `{"suggestions":[],"message_res":"nothing right now"}`},
	}}
	searcher := &stubSearcher{err: errors.New("cluster unreachable")}
	p := NewPipeline(embed.NewNoop(8), searcher, provider, nil, 10, 1)

	outcome, err := p.Run(context.Background(), Turn{Prompt: true, Text: "keto dinner"})
	if err != nil {
		t.Fatalf("retrieval faults must not fail the request: %v", err)
	}
	if outcome.Kind != OutcomeParsed {
		t.Fatalf("expected parsed outcome, got %s", outcome.Kind)
	}
	if provider.calls[1].schema.Name != SchemaNoResult.Name {
		t.Fatalf("expected degradation to no_result, got %s", provider.calls[1].schema.Name)
	}
}
