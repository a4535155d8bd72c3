package sampling

import (
	"errors"
	"reflect"
	"testing"
)

func TestSelectDiversitySpreadsAcrossBlobs(t *testing.T) {
	// 5 well-separated blobs, 5 picks: each blob contributes exactly
	// one representative.
	embeddings := blobEmbeddings(100, 4, 5, 1)

	selected, err := SelectDiversity(embeddings, 5, 42)
	if err != nil {
		t.Fatal(err)
	}
	checkSelection(t, selected, 5, 100)

	// blobEmbeddings assigns blob i%5.
	perBlob := make(map[int]int)
	for _, idx := range selected {
		perBlob[idx%5]++
	}
	for blob := 0; blob < 5; blob++ {
		if perBlob[blob] != 1 {
			t.Errorf("blob %d has %d representatives, want 1 (selection %v)", blob, perBlob[blob], selected)
		}
	}
}

func TestSelectDiversityEdgeCounts(t *testing.T) {
	embeddings := blobEmbeddings(20, 3, 2, 2)

	selected, err := SelectDiversity(embeddings, 0, 1)
	if err != nil || len(selected) != 0 {
		t.Errorf("n=0: expected empty selection, got %v (%v)", selected, err)
	}

	selected, err = SelectDiversity(embeddings, 20, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(selected, allIndices(20)) {
		t.Errorf("n=N: expected all indices, got %v", selected)
	}

	selected, err = SelectDiversity(embeddings, 25, 1)
	if err != nil || len(selected) != 20 {
		t.Errorf("n>N: expected 20 indices, got %d (%v)", len(selected), err)
	}
}

func TestSelectDiversityNilEmbeddings(t *testing.T) {
	// The embeddings check comes before the count check: a nil matrix
	// errors even for n=0.
	if _, err := SelectDiversity(nil, 0, 1); !errors.Is(err, ErrEmbeddingsRequired) {
		t.Fatalf("expected ErrEmbeddingsRequired, got %v", err)
	}
}

func TestSelectDiversityDuplicatePointsBackfill(t *testing.T) {
	// Many identical points collapse the per-centroid picks; the
	// backfill must still produce exactly n distinct indices,
	// deterministically.
	vec := []float32{1, 1}
	embeddings := make([][]float32, 12)
	for i := range embeddings {
		embeddings[i] = vec
	}

	first, err := SelectDiversity(embeddings, 6, 3)
	if err != nil {
		t.Fatal(err)
	}
	checkSelection(t, first, 6, 12)

	second, err := SelectDiversity(embeddings, 6, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("backfill not deterministic: %v vs %v", first, second)
	}
}

func TestSelectRandomWithoutReplacement(t *testing.T) {
	selected := SelectRandom(1000, 100, 42)
	checkSelection(t, selected, 100, 1000)

	if got := SelectRandom(10, 10, 1); !reflect.DeepEqual(got, allIndices(10)) {
		t.Errorf("n=N: expected all indices, got %v", got)
	}
	if got := SelectRandom(10, 15, 1); !reflect.DeepEqual(got, allIndices(10)) {
		t.Errorf("n>N: expected all indices, got %v", got)
	}
	if got := SelectRandom(10, 0, 1); len(got) != 0 {
		t.Errorf("n=0: expected empty, got %v", got)
	}

	first := SelectRandom(500, 50, 7)
	second := SelectRandom(500, 50, 7)
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed gave different selections")
	}
}
