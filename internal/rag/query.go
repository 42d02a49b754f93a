package rag

import "fitai/internal/search"

// BuildMultiSearch turns classified terms plus the query embedding into an
// ordered msearch batch, one header+body pair per classified index.
//
// Filter semantics: every recommended term must match (AND), queries/FAQ
// terms boost but do not gate (OR), excluded terms are phrase-excluded.
// Scores combine the boolean filter with a kNN inner-product over
// vector_field; hits below minScore are dropped and each index returns at
// most kPerIndex hits.
func BuildMultiSearch(vector []float32, extraction ExtractionResult, kPerIndex int, minScore float64) search.MultiSearch {
	var batch search.MultiSearch
	for _, idx := range extraction.Indexes {
		must := make([]map[string]any, 0, len(idx.Entities.Recommended))
		for _, entity := range idx.Entities.Recommended {
			must = append(must, map[string]any{"match": map[string]any{"metadata.entities": entity}})
		}
		should := make([]map[string]any, 0, len(idx.Entities.QueriesOrFAQs))
		for _, entity := range idx.Entities.QueriesOrFAQs {
			should = append(should, map[string]any{"match": map[string]any{"metadata.entities": entity}})
		}
		mustNot := make([]map[string]any, 0, len(idx.Entities.Exclude))
		for _, entity := range idx.Entities.Exclude {
			mustNot = append(mustNot, map[string]any{"match_phrase": map[string]any{"metadata.entities": entity}})
		}

		body := map[string]any{
			"_source":   map[string]any{"excludes": []string{"vector_field"}},
			"size":      kPerIndex,
			"min_score": minScore,
			"query": map[string]any{
				"script_score": map[string]any{
					"query": map[string]any{
						"bool": map[string]any{
							"must":     must,
							"should":   should,
							"must_not": mustNot,
						},
					},
					"script": map[string]any{
						"lang":   "knn",
						"source": "knn_score",
						"params": map[string]any{
							"field":       "vector_field",
							"query_value": vector,
							"space_type":  "innerproduct",
						},
					},
				},
			},
		}
		batch.Items = append(batch.Items, search.Item{
			Header: map[string]any{"index": idx.Name},
			Body:   body,
		})
	}
	return batch
}
