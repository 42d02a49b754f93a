package rag

import (
	"context"
	"errors"
	"testing"

	"fitai/internal/llm"
)

func TestFromFormMapsFieldsToMenuIndex(t *testing.T) {
	e := &Extractor{}
	turn := Turn{
		MealRestriction: []string{"keto diet"},
		DietImprovement: []string{"muscle building"},
		Allergies:       []string{"peanuts"},
		FoodAroundMe:    []string{"chick-fil-a"},
	}
	got := e.FromForm(turn)
	if len(got.Indexes) != 1 {
		t.Fatalf("expected one classified index, got %d", len(got.Indexes))
	}
	idx := got.Indexes[0]
	if idx.Name != MenuIndex {
		t.Fatalf("expected %s, got %s", MenuIndex, idx.Name)
	}
	wantRec := []string{"keto diet", "muscle building", "chick-fil-a"}
	if len(idx.Entities.Recommended) != len(wantRec) {
		t.Fatalf("expected %d recommended terms, got %v", len(wantRec), idx.Entities.Recommended)
	}
	for i, term := range wantRec {
		if idx.Entities.Recommended[i] != term {
			t.Fatalf("recommended[%d]: expected %q, got %q", i, term, idx.Entities.Recommended[i])
		}
	}
	if len(idx.Entities.Exclude) != 1 || idx.Entities.Exclude[0] != "peanuts" {
		t.Fatalf("expected allergies excluded, got %v", idx.Entities.Exclude)
	}
	if len(idx.Entities.QueriesOrFAQs) != 0 {
		t.Fatalf("form mode must not emit queries, got %v", idx.Entities.QueriesOrFAQs)
	}
}

func TestFromFormEmptyTurnHasNoIndexes(t *testing.T) {
	e := &Extractor{}
	got := e.FromForm(Turn{})
	if len(got.Indexes) != 0 {
		t.Fatalf("expected no indexes for an empty form, got %v", got.Indexes)
	}
	if got.HasTerms() {
		t.Fatalf("empty form must not report terms")
	}
}

func TestFromPromptDecodesModelOutput(t *testing.T) {
	content := `{"indexes":[{"name":"index-of-menus","entities":{"recommended":["keto diet"],"exclude":["peanuts"],"queries_or_faqs":[]}}],"query_expansion":"keto friendly dishes without peanuts"}`
	provider := &stubProvider{result: llm.Result{Content: content}}
	e := &Extractor{Generator: &Generator{Provider: provider}, Restaurants: AvailableRestaurants}

	got := e.FromPrompt(context.Background(), Turn{Prompt: true, Text: "keto food, no peanuts"})
	if len(got.Indexes) != 1 || got.Indexes[0].Name != MenuIndex {
		t.Fatalf("unexpected extraction: %+v", got)
	}
	if got.QueryExpansion != "keto friendly dishes without peanuts" {
		t.Fatalf("unexpected expansion: %q", got.QueryExpansion)
	}
	if len(provider.lastChat) == 0 || provider.lastChat[0].Role != llm.RoleSystem {
		t.Fatalf("expected system prompt in chat, got %+v", provider.lastChat)
	}
}

func TestFromPromptDropsEmptyIndexes(t *testing.T) {
	content := `{"indexes":[{"name":"index-of-faqs","entities":{"recommended":[],"exclude":[],"queries_or_faqs":[]}}],"query_expansion":""}`
	provider := &stubProvider{result: llm.Result{Content: content}}
	e := &Extractor{Generator: &Generator{Provider: provider}}

	got := e.FromPrompt(context.Background(), Turn{Prompt: true, Text: "hello"})
	if len(got.Indexes) != 0 {
		t.Fatalf("expected term-free indexes dropped, got %+v", got.Indexes)
	}
}

func TestFromPromptFailureYieldsEmptyResult(t *testing.T) {
	provider := &stubProvider{err: errors.New("provider down")}
	e := &Extractor{Generator: &Generator{Provider: provider}}

	got := e.FromPrompt(context.Background(), Turn{Prompt: true, Text: "anything"})
	if got.HasTerms() || got.QueryExpansion != "" {
		t.Fatalf("expected empty result on provider failure, got %+v", got)
	}
}
