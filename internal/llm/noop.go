package llm

import (
	"context"
	"encoding/json"
)

// Noop answers every chat with a canned object for the requested schema.
// It keeps the pipeline runnable in dev mode without an API key.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) Name() string  { return "noop" }
func (n *Noop) Model() string { return "noop" }

func (n *Noop) Chat(_ context.Context, messages []Message, schema Schema, _ Sampling) (Result, error) {
	if schema.Raw == nil {
		return Result{Content: "ok"}, nil
	}
	return Result{Content: canned(schema.Name, lastUser(messages))}, nil
}

func lastUser(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func canned(schemaName string, userText string) string {
	switch schemaName {
	case "metadata_extraction":
		out := map[string]any{"indexes": []any{}, "query_expansion": userText}
		data, _ := json.Marshal(out)
		return string(data)
	case "no_result":
		return `{"suggestions":["recommend a keto friendly diet?","is a balanced meal healthy?"],"message_res":"How can I assist you with your nutrition and diet today?"}`
	case "menu_only":
		return `{"menus":[],"message_res":"Here are some options for you.","suggestions":[]}`
	case "info_only":
		return `{"details":"","message_res":"Here is what I found.","suggestions":[]}`
	case "menu_and_info":
		return `{"details":"","menus":[],"message_res":"Here is what I found.","suggestions":[]}`
	default:
		return "{}"
	}
}
