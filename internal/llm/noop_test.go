package llm

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNoopReturnsValidJSONPerSchema(t *testing.T) {
	provider := NewNoop()
	messages := []Message{
		{Role: RoleSystem, Content: "system"},
		{Role: RoleUser, Content: "what should I eat?"},
	}
	for _, name := range []string{"metadata_extraction", "no_result", "menu_only", "info_only", "menu_and_info"} {
		res, err := provider.Chat(context.Background(), messages, Schema{Name: name, Raw: json.RawMessage(`{}`)}, Sampling{})
		if err != nil {
			t.Fatalf("chat error for %s: %v", name, err)
		}
		var out map[string]any
		if err := json.Unmarshal([]byte(res.Content), &out); err != nil {
			t.Fatalf("canned content for %s is not json: %v", name, err)
		}
	}
}

func TestNoopEchoesUserTextInExpansion(t *testing.T) {
	provider := NewNoop()
	res, err := provider.Chat(context.Background(), []Message{{Role: RoleUser, Content: "low carb"}}, Schema{Name: "metadata_extraction", Raw: json.RawMessage(`{}`)}, Sampling{})
	if err != nil {
		t.Fatalf("chat error: %v", err)
	}
	var out struct {
		QueryExpansion string `json:"query_expansion"`
	}
	if err := json.Unmarshal([]byte(res.Content), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.QueryExpansion != "low carb" {
		t.Fatalf("expected user text echoed, got %q", out.QueryExpansion)
	}
}
