package llm

import (
	"context"
	"encoding/json"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FinishLength is the finish reason reported when the model ran out of
// tokens before completing its output.
const FinishLength = "length"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Sampling bundles the decoding parameters sent with every completion.
type Sampling struct {
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
	MaxTokens        int
}

// Schema is the declared shape the model is asked to produce.
type Schema struct {
	Name string
	Raw  json.RawMessage
}

type Result struct {
	Content      string
	Refusal      string
	FinishReason string
}

type Provider interface {
	Chat(ctx context.Context, messages []Message, schema Schema, sampling Sampling) (Result, error)
	Name() string
	Model() string
}
