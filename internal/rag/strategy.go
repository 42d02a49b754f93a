package rag

import "fitai/internal/llm"

// Strategy couples the prompt template, the declared output shape and the
// sampling profile for one retrieval occupancy state.
type Strategy struct {
	Template string
	Schema   llm.Schema
	Sampling llm.Sampling
}

type occupancy struct {
	menu bool
	info bool
}

// strategyTable is the single source of truth for the prompt/schema/sampling
// coupling. Menu-bearing replies get low temperature and a high token
// budget; the no-result branch gets high temperature and a short budget.
var strategyTable = map[occupancy]Strategy{
	{menu: true, info: true}: {
		Template: promptWithMenuAndInfo,
		Schema:   SchemaMenuAndInfo,
		Sampling: llm.Sampling{
			Temperature:      TemperatureLow,
			TopP:             TopPLow,
			FrequencyPenalty: FrequencyPenaltyHigh,
			PresencePenalty:  PresencePenaltyHigh,
			MaxTokens:        MaxTokensHigh,
		},
	},
	{menu: true, info: false}: {
		Template: promptWithMenu,
		Schema:   SchemaMenuOnly,
		Sampling: llm.Sampling{
			Temperature:      TemperatureLow,
			TopP:             TopPLow,
			FrequencyPenalty: FrequencyPenaltyHigh,
			PresencePenalty:  PresencePenaltyHigh,
			MaxTokens:        MaxTokensHigh,
		},
	},
	{menu: false, info: true}: {
		Template: promptWithInfo,
		Schema:   SchemaInfoOnly,
		Sampling: llm.Sampling{
			Temperature:      TemperatureMid,
			TopP:             TopPLow,
			FrequencyPenalty: FrequencyPenaltyHigh,
			PresencePenalty:  PresencePenaltyMid,
			MaxTokens:        MaxTokensLow,
		},
	},
	{menu: false, info: false}: {
		Template: promptNoMenuAndInfo,
		Schema:   SchemaNoResult,
		Sampling: llm.Sampling{
			Temperature:      TemperatureHigh,
			TopP:             TopPLow,
			FrequencyPenalty: FrequencyPenaltyHigh,
			PresencePenalty:  PresencePenaltyLow,
			MaxTokens:        MaxTokensLow,
		},
	},
}

// SelectStrategy maps retrieval occupancy to its table row. Total over all
// four combinations.
func SelectStrategy(candidates CandidateSet) Strategy {
	return strategyTable[occupancy{
		menu: len(candidates.Menus) > 0,
		info: len(candidates.Infos) > 0,
	}]
}
