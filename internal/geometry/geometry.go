// Package geometry provides the distance and order-statistic primitives
// shared by the sampling and clustering packages. Vectors are float32;
// accumulation happens in float64 to keep distances stable for high
// dimensional embeddings.
package geometry

import (
	"math"
	"sort"
)

// SquaredL2 returns the squared Euclidean distance between two vectors.
func SquaredL2(a, b []float32) float64 {
	var d float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		d += diff * diff
	}
	return d
}

// L2 returns the Euclidean distance between two vectors.
func L2(a, b []float32) float64 {
	return math.Sqrt(SquaredL2(a, b))
}

// SquaredL2Centroid returns the squared Euclidean distance between a
// vector and a float64 centroid.
func SquaredL2Centroid(v []float32, c []float64) float64 {
	var d float64
	for i := range v {
		diff := float64(v[i]) - c[i]
		d += diff * diff
	}
	return d
}

// NearestCentroid returns the index of the closest centroid and the
// squared distance to it.
func NearestCentroid(v []float32, centroids [][]float64) (int, float64) {
	best := 0
	bestDist := math.MaxFloat64
	for c := range centroids {
		if d := SquaredL2Centroid(v, centroids[c]); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best, bestDist
}

// MinDistances computes, for each vector in a batch, the Euclidean
// distance to its nearest vector among the reference set.
func MinDistances(batch, reference [][]float32) []float64 {
	out := make([]float64, len(batch))
	for i, v := range batch {
		min := math.MaxFloat64
		for _, r := range reference {
			if d := SquaredL2(v, r); d < min {
				min = d
			}
		}
		out[i] = math.Sqrt(min)
	}
	return out
}

// KthNearestDistances returns, for every vector, the Euclidean distance
// to its k-th nearest neighbor (self excluded). k must be >= 1 and
// < len(vectors).
func KthNearestDistances(vectors [][]float32, k int) []float64 {
	n := len(vectors)
	out := make([]float64, n)
	// Fixed-size insertion keeps the k smallest squared distances;
	// k is small (<= 10) so this beats sorting full rows.
	smallest := make([]float64, k)
	for i := 0; i < n; i++ {
		count := 0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			d := SquaredL2(vectors[i], vectors[j])
			if count < k {
				pos := count
				for pos > 0 && smallest[pos-1] > d {
					smallest[pos] = smallest[pos-1]
					pos--
				}
				smallest[pos] = d
				count++
				continue
			}
			if d < smallest[k-1] {
				pos := k - 1
				for pos > 0 && smallest[pos-1] > d {
					smallest[pos] = smallest[pos-1]
					pos--
				}
				smallest[pos] = d
			}
		}
		if count > 0 {
			out[i] = math.Sqrt(smallest[count-1])
		}
	}
	return out
}

// Percentile returns the p-th percentile (0..100) of values using
// linear interpolation between closest ranks. The input is not
// modified. Returns 0 for an empty input.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Norms returns the L2 norm of every vector.
func Norms(vectors [][]float32) []float64 {
	out := make([]float64, len(vectors))
	for i, v := range vectors {
		var s float64
		for _, x := range v {
			s += float64(x) * float64(x)
		}
		out[i] = math.Sqrt(s)
	}
	return out
}
