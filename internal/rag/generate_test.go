package rag

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitai/internal/llm"
)

type stubProvider struct {
	result   llm.Result
	err      error
	lastChat []llm.Message
}

func (s *stubProvider) Chat(_ context.Context, messages []llm.Message, _ llm.Schema, _ llm.Sampling) (llm.Result, error) {
	s.lastChat = messages
	return s.result, s.err
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub" }

type chanSink struct {
	appended chan map[string]any
}

func (c *chanSink) Append(_ context.Context, _ []llm.Message, response map[string]any) error {
	c.appended <- response
	return nil
}

func TestGenerateParsedValidSchema(t *testing.T) {
	sink := &chanSink{appended: make(chan map[string]any, 1)}
	gen := &Generator{
		Provider: &stubProvider{result: llm.Result{Content: `{"suggestions":["try keto"],"message_res":"hi"}`}},
		Audit:    sink,
	}
	outcome := gen.Generate(context.Background(), nil, SchemaNoResult, llm.Sampling{})
	if outcome.Kind != OutcomeParsed {
		t.Fatalf("expected parsed, got %s (%s)", outcome.Kind, outcome.Detail)
	}
	if outcome.Object["message_res"] != "hi" {
		t.Fatalf("unexpected object: %v", outcome.Object)
	}
	select {
	case <-sink.appended:
	case <-time.After(time.Second):
		t.Fatalf("expected audit append after successful parse")
	}
}

func TestGenerateRefusal(t *testing.T) {
	gen := &Generator{Provider: &stubProvider{result: llm.Result{Refusal: "cannot help with that"}}}
	outcome := gen.Generate(context.Background(), nil, SchemaNoResult, llm.Sampling{})
	if outcome.Kind != OutcomeRefused {
		t.Fatalf("expected refused, got %s", outcome.Kind)
	}
	if outcome.Detail != "cannot help with that" {
		t.Fatalf("expected refusal detail, got %q", outcome.Detail)
	}
}

func TestGenerateLengthExceeded(t *testing.T) {
	gen := &Generator{Provider: &stubProvider{result: llm.Result{Content: `{"trunc`, FinishReason: llm.FinishLength}}}
	outcome := gen.Generate(context.Background(), nil, SchemaNoResult, llm.Sampling{})
	if outcome.Kind != OutcomeLengthExceeded {
		t.Fatalf("expected length exceeded, got %s", outcome.Kind)
	}
}

func TestGenerateTransportFault(t *testing.T) {
	gen := &Generator{Provider: &stubProvider{err: errors.New("connection refused")}}
	outcome := gen.Generate(context.Background(), nil, SchemaNoResult, llm.Sampling{})
	if outcome.Kind != OutcomeUnknownError {
		t.Fatalf("expected unknown error, got %s", outcome.Kind)
	}
	if outcome.Detail == "" {
		t.Fatalf("expected error detail")
	}
}

func TestGenerateSchemaMismatchIsRepaired(t *testing.T) {
	raw := `{'dish': 'Market Salad', 'calories': 200} and 'message_res': 'Enjoy!'`
	gen := &Generator{Provider: &stubProvider{result: llm.Result{Content: raw}}}
	outcome := gen.Generate(context.Background(), nil, SchemaMenuOnly, llm.Sampling{})
	if outcome.Kind != OutcomeRepaired {
		t.Fatalf("expected repaired, got %s", outcome.Kind)
	}
	if outcome.Object["message_res"] != "Enjoy!" {
		t.Fatalf("unexpected repaired object: %v", outcome.Object)
	}
}

func TestGenerateUnsalvageableIsUnparseable(t *testing.T) {
	gen := &Generator{Provider: &stubProvider{result: llm.Result{Content: "total word salad"}}}
	outcome := gen.Generate(context.Background(), nil, SchemaMenuOnly, llm.Sampling{})
	if outcome.Kind != OutcomeUnparseable {
		t.Fatalf("expected unparseable, got %s", outcome.Kind)
	}
	msg, _ := outcome.Object["message_res"].(string)
	if !inPool(msg) {
		t.Fatalf("expected pool message, got %q", msg)
	}
}

func TestGenerateValidJSONWrongShapeStillSalvaged(t *testing.T) {
	// Decodes as JSON but fails the no_result schema; direct decode in
	// the repair step keeps the object.
	gen := &Generator{Provider: &stubProvider{result: llm.Result{Content: `{"unexpected":"shape"}`}}}
	outcome := gen.Generate(context.Background(), nil, SchemaNoResult, llm.Sampling{})
	if outcome.Kind != OutcomeRepaired {
		t.Fatalf("expected repaired, got %s", outcome.Kind)
	}
	if outcome.Object["unexpected"] != "shape" {
		t.Fatalf("unexpected object: %v", outcome.Object)
	}
}
