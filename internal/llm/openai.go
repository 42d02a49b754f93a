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

type OpenAI struct {
	APIKey  string
	ModelID string
	Client  *http.Client
}

func NewOpenAI(apiKey string, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		APIKey:  apiKey,
		ModelID: model,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (o *OpenAI) Name() string  { return "openai" }
func (o *OpenAI) Model() string { return o.ModelID }

func (o *OpenAI) Chat(ctx context.Context, messages []Message, schema Schema, sampling Sampling) (Result, error) {
	if o.APIKey == "" {
		return Result{}, errors.New("openai api key not configured")
	}
	payload := map[string]any{
		"model":             o.ModelID,
		"messages":          messages,
		"temperature":       sampling.Temperature,
		"top_p":             sampling.TopP,
		"frequency_penalty": sampling.FrequencyPenalty,
		"presence_penalty":  sampling.PresencePenalty,
	}
	if sampling.MaxTokens > 0 {
		payload["max_tokens"] = sampling.MaxTokens
	}
	if schema.Raw != nil {
		payload["response_format"] = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schema.Name,
				"strict": true,
				"schema": schema.Raw,
			},
		}
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+o.APIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := o.Client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("openai chat request failed: status %d", resp.StatusCode)
	}

	var decoded struct {
		Choices []struct {
			FinishReason string `json:"finish_reason"`
			Message      struct {
				Content string `json:"content"`
				Refusal string `json:"refusal"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, err
	}
	if len(decoded.Choices) == 0 {
		return Result{}, errors.New("openai chat response had no choices")
	}
	choice := decoded.Choices[0]
	return Result{
		Content:      choice.Message.Content,
		Refusal:      choice.Message.Refusal,
		FinishReason: choice.FinishReason,
	}, nil
}
