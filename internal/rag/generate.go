package rag

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fitai/internal/llm"
)

type OutcomeKind string

const (
	// OutcomeParsed: the model honored the declared schema.
	OutcomeParsed OutcomeKind = "parsed"
	// OutcomeRefused: the model explicitly declined to answer.
	OutcomeRefused OutcomeKind = "refused"
	// OutcomeLengthExceeded: generation was cut off before the output
	// could be completed.
	OutcomeLengthExceeded OutcomeKind = "length_exceeded"
	// OutcomeRepaired: the schema was not honored but the repair parser
	// salvaged a structured result from raw text.
	OutcomeRepaired OutcomeKind = "repaired"
	// OutcomeUnparseable: nothing could be salvaged; Object carries a
	// message drawn from the no-result pool. Distinct from the
	// no-candidates case even though the user-facing copy overlaps.
	OutcomeUnparseable OutcomeKind = "unparseable"
	// OutcomeUnknownError: transport or provider fault with no
	// recoverable signal.
	OutcomeUnknownError OutcomeKind = "unknown_error"
)

// Outcome is the tagged result of one schema-constrained generation call.
// Callers always receive an Outcome, never a raised fault.
type Outcome struct {
	Kind   OutcomeKind
	Object map[string]any
	Detail string
}

// AuditSink receives (prompt, response) pairs after successful parses.
// Appends are fire-and-forget; a failing sink never fails a request.
type AuditSink interface {
	Append(ctx context.Context, prompt []llm.Message, response map[string]any) error
}

// Generator issues schema-constrained completion calls and classifies the
// result into an Outcome.
type Generator struct {
	Provider llm.Provider
	Audit    AuditSink
}

func (g *Generator) Generate(ctx context.Context, chat []llm.Message, schema llm.Schema, sampling llm.Sampling) Outcome {
	res, err := g.Provider.Chat(ctx, chat, schema, sampling)
	if err != nil {
		return Outcome{Kind: OutcomeUnknownError, Detail: err.Error()}
	}
	if res.Refusal != "" {
		return Outcome{Kind: OutcomeRefused, Detail: res.Refusal}
	}
	if res.FinishReason == llm.FinishLength {
		return Outcome{Kind: OutcomeLengthExceeded, Detail: "output truncated before completion"}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(res.Content), &obj); err == nil && obj != nil {
		if ok, _ := validateJSON(schema, obj); ok {
			g.emitAudit(chat, obj)
			return Outcome{Kind: OutcomeParsed, Object: obj}
		}
	}

	repaired, salvaged := Recover(res.Content)
	if !salvaged {
		return Outcome{Kind: OutcomeUnparseable, Object: repaired}
	}
	return Outcome{Kind: OutcomeRepaired, Object: repaired}
}

func (g *Generator) emitAudit(prompt []llm.Message, response map[string]any) {
	if g.Audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := g.Audit.Append(ctx, prompt, response); err != nil {
			log.Printf("prompt audit append failed: %v", err)
		}
	}()
}

func chatMessages(systemPrompt string, history []llm.Message, text string) []llm.Message {
	out := make([]llm.Message, 0, len(history)+2)
	out = append(out, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	out = append(out, history...)
	out = append(out, llm.Message{Role: llm.RoleUser, Content: text})
	return out
}
