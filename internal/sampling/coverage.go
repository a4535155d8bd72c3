package sampling

import (
	"github.com/arpitg1304/tessera/internal/geometry"
)

const (
	// DefaultPercentile is the self-calibrating threshold percentile
	// for coverage scoring.
	DefaultPercentile = 75.0

	// coverageBatchSize bounds peak memory to O(batch * |selected|)
	// instead of materializing the full pairwise distance matrix.
	coverageBatchSize = 5000
)

// Coverage scores how well the selected indices represent the full set,
// in [0, 1]. For every item it computes the Euclidean distance to the
// nearest selected item, takes the given percentile of that
// distribution as a threshold, and returns the fraction of items within
// the threshold. The threshold self-calibrates to the achieved
// distances, so naturally sparse regions are not penalized.
//
// Without embeddings the score degrades to the selection ratio
// |selected| / nTotal. An empty selection scores 0, a full one scores 1.
func Coverage(embeddings [][]float32, selected []int, nTotal int, percentile float64) float64 {
	if len(embeddings) == 0 {
		if len(selected) == 0 || nTotal == 0 {
			return 0.0
		}
		return float64(len(selected)) / float64(nTotal)
	}
	if len(selected) == 0 {
		return 0.0
	}
	if len(selected) >= len(embeddings) {
		return 1.0
	}
	if percentile <= 0 {
		percentile = DefaultPercentile
	}

	reference := make([][]float32, len(selected))
	for i, idx := range selected {
		reference[i] = embeddings[idx]
	}

	minDistances := make([]float64, 0, len(embeddings))
	for start := 0; start < len(embeddings); start += coverageBatchSize {
		end := start + coverageBatchSize
		if end > len(embeddings) {
			end = len(embeddings)
		}
		minDistances = append(minDistances, geometry.MinDistances(embeddings[start:end], reference)...)
	}

	threshold := geometry.Percentile(minDistances, percentile)
	covered := 0
	for _, d := range minDistances {
		if d <= threshold {
			covered++
		}
	}
	return float64(covered) / float64(len(minDistances))
}
