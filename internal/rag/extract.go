package rag

import (
	"context"
	"encoding/json"

	"fitai/internal/llm"
)

// extractionSampling keeps term classification focused but not rigid.
var extractionSampling = llm.Sampling{
	Temperature:      TemperatureMid,
	TopP:             TopPLow,
	FrequencyPenalty: FrequencyPenaltyLow,
	PresencePenalty:  PresencePenaltyHigh,
	MaxTokens:        MaxTokensLow,
}

// Extractor classifies a user turn into per-index search terms.
type Extractor struct {
	Generator   *Generator
	Restaurants []string
}

// FromForm maps structured preferences straight onto the menu index: the
// stated restrictions, improvements and nearby options are recommended,
// allergies are excluded. Pure and total; no model call.
func (e *Extractor) FromForm(turn Turn) ExtractionResult {
	var idx ClassifiedIndex
	idx.Name = MenuIndex
	idx.Entities.Recommended = concat(turn.MealRestriction, turn.DietImprovement, turn.FoodAroundMe)
	idx.Entities.Exclude = append([]string(nil), turn.Allergies...)
	return ExtractionResult{Indexes: []ClassifiedIndex{idx}}.Normalize()
}

// FromPrompt asks the model to classify free text against the controlled
// vocabularies. A failed structured call yields an empty result, which
// sends the request down the no-retrieval path instead of failing it.
func (e *Extractor) FromPrompt(ctx context.Context, turn Turn) ExtractionResult {
	chat := chatMessages(renderExtractionPrompt(e.Restaurants), turn.History, turn.Text)
	outcome := e.Generator.Generate(ctx, chat, SchemaExtraction, extractionSampling)
	if outcome.Kind != OutcomeParsed {
		return ExtractionResult{}
	}
	data, err := json.Marshal(outcome.Object)
	if err != nil {
		return ExtractionResult{}
	}
	var res ExtractionResult
	if err := json.Unmarshal(data, &res); err != nil {
		return ExtractionResult{}
	}
	return res.Normalize()
}

func concat(groups ...[]string) []string {
	var out []string
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}
