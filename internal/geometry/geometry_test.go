package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSquaredL2(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 6, 3}

	if got := SquaredL2(a, b); !almostEqual(got, 25) {
		t.Errorf("expected 25, got %f", got)
	}
	if got := L2(a, b); !almostEqual(got, 5) {
		t.Errorf("expected 5, got %f", got)
	}
	if got := SquaredL2(a, a); got != 0 {
		t.Errorf("self distance: expected 0, got %f", got)
	}
}

func TestNearestCentroid(t *testing.T) {
	centroids := [][]float64{{0, 0}, {10, 0}, {0, 10}}

	idx, dist := NearestCentroid([]float32{9, 1}, centroids)
	if idx != 1 {
		t.Errorf("expected centroid 1, got %d", idx)
	}
	if !almostEqual(dist, 2) {
		t.Errorf("expected squared distance 2, got %f", dist)
	}
}

func TestMinDistances(t *testing.T) {
	batch := [][]float32{{0, 0}, {5, 0}, {10, 0}}
	reference := [][]float32{{0, 0}, {10, 0}}

	got := MinDistances(batch, reference)
	want := []float64{0, 5, 0}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestKthNearestDistances(t *testing.T) {
	// Points on a line at 0, 1, 3, 7.
	vectors := [][]float32{{0}, {1}, {3}, {7}}

	got := KthNearestDistances(vectors, 1)
	want := []float64{1, 1, 2, 4}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("k=1 index %d: expected %f, got %f", i, want[i], got[i])
		}
	}

	got = KthNearestDistances(vectors, 2)
	want = []float64{3, 2, 3, 6}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("k=2 index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{50, 2.5},
		{75, 3.25},
		{100, 4},
		{-5, 1},
		{110, 4},
	}
	for _, tc := range cases {
		if got := Percentile(values, tc.p); !almostEqual(got, tc.want) {
			t.Errorf("p=%f: expected %f, got %f", tc.p, tc.want, got)
		}
	}

	if got := Percentile(nil, 50); got != 0 {
		t.Errorf("empty input: expected 0, got %f", got)
	}
	if got := Percentile([]float64{7}, 50); got != 7 {
		t.Errorf("single value: expected 7, got %f", got)
	}

	// The input must not be reordered.
	unsorted := []float64{3, 1, 2}
	Percentile(unsorted, 50)
	if unsorted[0] != 3 || unsorted[1] != 1 || unsorted[2] != 2 {
		t.Errorf("input was modified: %v", unsorted)
	}
}

func TestNorms(t *testing.T) {
	got := Norms([][]float32{{3, 4}, {0, 0}, {1, 0}})
	want := []float64{5, 0, 1}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Errorf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}
