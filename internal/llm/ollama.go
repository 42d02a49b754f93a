package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Ollama struct {
	BaseURL string
	ModelID string
	Client  *http.Client
}

func NewOllama(baseURL string, model string) *Ollama {
	if model == "" {
		model = "llama3"
	}
	return &Ollama{
		BaseURL: baseURL,
		ModelID: model,
		Client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (o *Ollama) Name() string  { return "ollama" }
func (o *Ollama) Model() string { return o.ModelID }

func (o *Ollama) Chat(ctx context.Context, messages []Message, schema Schema, sampling Sampling) (Result, error) {
	if o.BaseURL == "" {
		return Result{}, errors.New("ollama url not configured")
	}
	payload := map[string]any{
		"model":    o.ModelID,
		"messages": messages,
		"stream":   false,
		"options": map[string]any{
			"temperature":      sampling.Temperature,
			"top_p":            sampling.TopP,
			"frequency_penalty": sampling.FrequencyPenalty,
			"presence_penalty": sampling.PresencePenalty,
			"num_predict":      sampling.MaxTokens,
		},
	}
	// Ollama has no schema-constrained mode; json format plus the prompt's
	// example shape is the closest it gets.
	if schema.Raw != nil {
		payload["format"] = "json"
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := o.Client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("ollama chat request failed: status %d", resp.StatusCode)
	}

	var decoded struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		DoneReason string `json:"done_reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, err
	}
	finish := ""
	if decoded.DoneReason == "length" {
		finish = FinishLength
	}
	return Result{Content: decoded.Message.Content, FinishReason: finish}, nil
}
