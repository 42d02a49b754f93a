package store

import (
	"context"
	"encoding/json"

	"fitai/internal/llm"
)

// PromptLogSink adapts the store's append-only prompt log to the
// generation pipeline's audit interface.
type PromptLogSink struct {
	Store *Store
}

func (p *PromptLogSink) Append(ctx context.Context, prompt []llm.Message, response map[string]any) error {
	promptJSON, err := json.Marshal(prompt)
	if err != nil {
		return err
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return err
	}
	_, err = p.Store.AppendPromptLog(ctx, promptJSON, responseJSON)
	return err
}
