package sampling

import (
	"math"
	"math/rand"

	"github.com/arpitg1304/tessera/internal/geometry"
)

const (
	kmeansMaxIter   = 300
	kmeansTolerance = 1e-4
	// KMeansRestarts is the number of seeded initializations tried per
	// fit; the run with the lowest inertia wins.
	KMeansRestarts = 10
)

// KMeansResult holds the outcome of one k-means fit.
type KMeansResult struct {
	Centroids  [][]float64
	Labels     []int
	Inertia    float64
	Iterations int
}

// FitKMeans partitions vectors into k clusters by Lloyd iteration with
// k-means++ initialization. It runs restarts seeded initializations
// derived from seed (seed, seed+1, ...) and keeps the fit with the
// lowest inertia, so the result is fully determined by
// (vectors, k, seed, restarts). k must satisfy 0 < k <= len(vectors).
func FitKMeans(vectors [][]float32, k int, seed int64, restarts int) *KMeansResult {
	if restarts < 1 {
		restarts = 1
	}
	var best *KMeansResult
	for r := 0; r < restarts; r++ {
		res := fitOnce(vectors, k, seed+int64(r))
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best
}

func fitOnce(vectors [][]float32, k int, seed int64) *KMeansResult {
	rng := rand.New(rand.NewSource(seed))
	dim := len(vectors[0])

	centroids := kmeansppInit(vectors, k, rng)
	labels := make([]int, len(vectors))

	res := &KMeansResult{Centroids: centroids, Labels: labels}
	prevInertia := math.MaxFloat64

	for iter := 0; iter < kmeansMaxIter; iter++ {
		var inertia float64
		for i, v := range vectors {
			c, d := geometry.NearestCentroid(v, centroids)
			labels[i] = c
			inertia += d
		}
		res.Iterations = iter + 1
		res.Inertia = inertia

		if math.Abs(prevInertia-inertia) < kmeansTolerance*float64(len(vectors)) {
			break
		}
		prevInertia = inertia

		updateCentroids(vectors, labels, centroids, k, dim)
	}
	return res
}

// kmeansppInit picks initial centroids with probability proportional to
// the squared distance from the nearest already-chosen centroid.
func kmeansppInit(vectors [][]float32, k int, rng *rand.Rand) [][]float64 {
	n := len(vectors)
	dim := len(vectors[0])
	centroids := make([][]float64, k)

	centroids[0] = toFloat64(vectors[rng.Intn(n)], dim)

	distances := make([]float64, n)
	for i := range distances {
		distances[i] = math.MaxFloat64
	}

	for c := 1; c < k; c++ {
		var total float64
		for i, v := range vectors {
			if d := geometry.SquaredL2Centroid(v, centroids[c-1]); d < distances[i] {
				distances[i] = d
			}
			total += distances[i]
		}

		chosen := 0
		if total > 0 {
			threshold := rng.Float64() * total
			var cumulative float64
			for i, d := range distances {
				cumulative += d
				if cumulative >= threshold {
					chosen = i
					break
				}
			}
		} else {
			// All remaining points coincide with a centroid.
			chosen = rng.Intn(n)
		}
		centroids[c] = toFloat64(vectors[chosen], dim)
	}
	return centroids
}

func updateCentroids(vectors [][]float32, labels []int, centroids [][]float64, k, dim int) {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := 0; c < k; c++ {
		sums[c] = make([]float64, dim)
	}
	for i, v := range vectors {
		c := labels[i]
		counts[c]++
		for j, x := range v {
			sums[c][j] += float64(x)
		}
	}
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			// Empty cluster keeps its previous centroid.
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
		centroids[c] = sums[c]
	}
}

func toFloat64(v []float32, dim int) []float64 {
	out := make([]float64, dim)
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
