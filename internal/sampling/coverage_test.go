package sampling

import (
	"math"
	"testing"
)

func TestCoverageBounds(t *testing.T) {
	embeddings := blobEmbeddings(100, 4, 4, 1)

	if got := Coverage(embeddings, nil, 100, 0); got != 0.0 {
		t.Errorf("empty selection: expected 0, got %f", got)
	}
	if got := Coverage(embeddings, allIndices(100), 100, 0); got != 1.0 {
		t.Errorf("full selection: expected 1, got %f", got)
	}

	selected := SelectRandom(100, 10, 42)
	got := Coverage(embeddings, selected, 100, 0)
	if got < 0 || got > 1 {
		t.Errorf("coverage %f out of [0, 1]", got)
	}
}

func TestCoverageMetadataOnlyRatio(t *testing.T) {
	// Without embeddings the score is the selection ratio.
	if got := Coverage(nil, make([]int, 50), 500, 0); got != 0.1 {
		t.Errorf("expected 0.1, got %f", got)
	}
	if got := Coverage(nil, nil, 500, 0); got != 0.0 {
		t.Errorf("empty selection: expected 0, got %f", got)
	}
	if got := Coverage(nil, make([]int, 10), 0, 0); got != 0.0 {
		t.Errorf("zero total: expected 0, got %f", got)
	}
}

func TestCoverageSelfCalibrating(t *testing.T) {
	// With the default 75th percentile threshold at least 75% of items
	// are always within it, whatever the geometry.
	embeddings := blobEmbeddings(200, 8, 5, 2)
	selected := diversitySelection(t, embeddings, 20)

	got := Coverage(embeddings, selected, 200, 0)
	if got < 0.75 {
		t.Errorf("expected coverage >= 0.75 with the default percentile, got %f", got)
	}

	// A higher percentile can only widen the threshold.
	higher := Coverage(embeddings, selected, 200, 95)
	if higher < got {
		t.Errorf("p95 coverage %f below p75 coverage %f", higher, got)
	}
}

func diversitySelection(t *testing.T, embeddings [][]float32, n int) []int {
	t.Helper()
	selected, err := SelectDiversity(embeddings, n, 42)
	if err != nil {
		t.Fatal(err)
	}
	return selected
}

func TestCoverageDeterministic(t *testing.T) {
	embeddings := blobEmbeddings(80, 4, 4, 3)
	selected := SelectRandom(80, 8, 1)

	first := Coverage(embeddings, selected, 80, 75)
	second := Coverage(embeddings, selected, 80, 75)
	if first != second || math.IsNaN(first) {
		t.Errorf("coverage not deterministic: %f vs %f", first, second)
	}
}
