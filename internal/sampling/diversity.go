package sampling

import (
	"math"
	"math/rand"
	"sort"

	"github.com/arpitg1304/tessera/internal/geometry"
)

// SelectDiversity picks nSamples indices that spread across the feature
// space. It clusters the vectors into nSamples groups with seeded
// k-means and takes the real data point nearest each centroid. When two
// centroids share a nearest point the duplicates collapse and the
// shortfall is backfilled uniformly at random (seeded) from the
// unselected indices, so the result always has exactly
// min(nSamples, N) distinct indices, in ascending order.
func SelectDiversity(embeddings [][]float32, nSamples int, seed int64) ([]int, error) {
	if len(embeddings) == 0 {
		return nil, ErrEmbeddingsRequired
	}
	n := len(embeddings)
	if nSamples >= n {
		return allIndices(n), nil
	}
	if nSamples <= 0 {
		return []int{}, nil
	}

	fit := FitKMeans(embeddings, nSamples, seed, KMeansRestarts)

	taken := make(map[int]bool, nSamples)
	selected := make([]int, 0, nSamples)
	for _, centroid := range fit.Centroids {
		idx := nearestPoint(embeddings, centroid)
		if !taken[idx] {
			taken[idx] = true
			selected = append(selected, idx)
		}
	}

	if len(selected) < nSamples {
		remaining := make([]int, 0, n-len(selected))
		for i := 0; i < n; i++ {
			if !taken[i] {
				remaining = append(remaining, i)
			}
		}
		rng := rand.New(rand.NewSource(seed))
		selected = append(selected, drawWithoutReplacement(rng, remaining, nSamples-len(selected))...)
	}

	sort.Ints(selected)
	return selected, nil
}

// nearestPoint returns the index of the data point closest to the
// centroid. Ties resolve to the lowest index.
func nearestPoint(embeddings [][]float32, centroid []float64) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, v := range embeddings {
		if d := geometry.SquaredL2Centroid(v, centroid); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
