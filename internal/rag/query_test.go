package rag

import (
	"testing"
)

func sampleExtraction() ExtractionResult {
	var menu ClassifiedIndex
	menu.Name = MenuIndex
	menu.Entities.Recommended = []string{"keto", "high protein"}
	menu.Entities.Exclude = []string{"peanuts"}

	var info ClassifiedIndex
	info.Name = InfoIndex
	info.Entities.QueriesOrFAQs = []string{"what is keto"}

	return ExtractionResult{Indexes: []ClassifiedIndex{menu, info}}
}

func TestBuildMultiSearchPairsPerIndex(t *testing.T) {
	vec := []float32{0.1, 0.2, 0.3}
	batch := BuildMultiSearch(vec, sampleExtraction(), 20, 1)
	if len(batch.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(batch.Items))
	}
	if batch.Items[0].Header["index"] != MenuIndex {
		t.Fatalf("expected first header for %s, got %v", MenuIndex, batch.Items[0].Header["index"])
	}
	if batch.Items[1].Header["index"] != InfoIndex {
		t.Fatalf("expected second header for %s, got %v", InfoIndex, batch.Items[1].Header["index"])
	}
}

func TestBuildMultiSearchClauseCounts(t *testing.T) {
	batch := BuildMultiSearch([]float32{1}, sampleExtraction(), 20, 1)

	boolQuery := func(body map[string]any) map[string]any {
		query := body["query"].(map[string]any)
		score := query["script_score"].(map[string]any)
		inner := score["query"].(map[string]any)
		return inner["bool"].(map[string]any)
	}

	menu := boolQuery(batch.Items[0].Body)
	if got := len(menu["must"].([]map[string]any)); got != 2 {
		t.Fatalf("expected 2 must clauses, got %d", got)
	}
	if got := len(menu["must_not"].([]map[string]any)); got != 1 {
		t.Fatalf("expected 1 must_not clause, got %d", got)
	}
	if got := len(menu["should"].([]map[string]any)); got != 0 {
		t.Fatalf("expected 0 should clauses, got %d", got)
	}

	info := boolQuery(batch.Items[1].Body)
	if got := len(info["should"].([]map[string]any)); got != 1 {
		t.Fatalf("expected 1 should clause, got %d", got)
	}
}

func TestBuildMultiSearchBodyParameters(t *testing.T) {
	batch := BuildMultiSearch([]float32{0.5}, sampleExtraction(), 20, 1)
	body := batch.Items[0].Body
	if body["size"] != 20 {
		t.Fatalf("expected size 20, got %v", body["size"])
	}
	if body["min_score"] != float64(1) {
		t.Fatalf("expected min_score 1, got %v", body["min_score"])
	}
	source := body["_source"].(map[string]any)
	excludes := source["excludes"].([]string)
	if len(excludes) != 1 || excludes[0] != "vector_field" {
		t.Fatalf("expected vector_field excluded, got %v", excludes)
	}

	query := body["query"].(map[string]any)
	script := query["script_score"].(map[string]any)["script"].(map[string]any)
	if script["source"] != "knn_score" {
		t.Fatalf("expected knn_score script, got %v", script["source"])
	}
	params := script["params"].(map[string]any)
	if params["space_type"] != "innerproduct" {
		t.Fatalf("expected innerproduct space, got %v", params["space_type"])
	}
	if params["field"] != "vector_field" {
		t.Fatalf("expected vector_field param, got %v", params["field"])
	}
}

func TestBuildMultiSearchEmptyExtraction(t *testing.T) {
	batch := BuildMultiSearch([]float32{1}, ExtractionResult{}, 10, 1)
	if len(batch.Items) != 0 {
		t.Fatalf("expected empty batch, got %d items", len(batch.Items))
	}
}
