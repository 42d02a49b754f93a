package embed

import (
	"context"
	"math"
	"testing"
)

func TestNoopIsDeterministic(t *testing.T) {
	provider := NewNoop(0)
	if provider.Dim() != DefaultDim {
		t.Fatalf("expected default dim %d, got %d", DefaultDim, provider.Dim())
	}
	first, err := provider.Embed(context.Background(), []string{"grilled chicken"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	second, err := provider.Embed(context.Background(), []string{"grilled chicken"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(first) != 1 || len(first[0]) != DefaultDim {
		t.Fatalf("unexpected vector shape")
	}
	for i := range first[0] {
		if first[0][i] != second[0][i] {
			t.Fatalf("expected identical vectors for identical text")
		}
	}
}

func TestNoopVectorsAreUnit(t *testing.T) {
	provider := NewNoop(16)
	vecs, err := provider.Embed(context.Background(), []string{"keto", "vegan"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	for _, vec := range vecs {
		var sum float64
		for _, v := range vec {
			sum += float64(v) * float64(v)
		}
		if math.Abs(math.Sqrt(sum)-1) > 1e-5 {
			t.Fatalf("expected unit norm, got %v", math.Sqrt(sum))
		}
	}
}
