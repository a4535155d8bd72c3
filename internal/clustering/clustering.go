// Package clustering groups embeddings for exploratory analysis. It
// rides on the same numeric core as the sampling package: the k-means
// engine and the distance primitives are shared, clustering adds
// automatic parameter selection and a density-based method.
package clustering

import (
	"errors"
	"fmt"
	"math"

	"github.com/arpitg1304/tessera/internal/geometry"
	"github.com/arpitg1304/tessera/internal/sampling"
)

// Recognized method names.
const (
	MethodKMeans  = "kmeans"
	MethodDensity = "density"
)

// NoiseLabel marks points the density method assigns to no cluster.
const NoiseLabel = -1

// ErrUnknownMethod is returned for method names other than kmeans and
// density.
var ErrUnknownMethod = errors.New("unknown clustering method")

// ErrNoEmbeddings is returned when clustering is requested without an
// embedding matrix.
var ErrNoEmbeddings = errors.New("clustering requires embeddings")

// Options parameterizes a Cluster call.
type Options struct {
	Method     string
	NClusters  int   // kmeans; 0 selects automatically from the dataset shape
	MinSamples int   // density; core-point neighbor threshold, 0 means 5
	Seed       int64 // kmeans only; the density method is seed-independent
}

// Stats summarizes one clustering outcome. KMeans fills Inertia and
// Iterations; the density method fills Eps, MinSamples, NNoise and
// NoiseRatio.
type Stats struct {
	Method       string
	NClusters    int
	ClusterSizes map[int]int
	Inertia      float64
	Iterations   int
	Eps          float64
	MinSamples   int
	NNoise       int
	NoiseRatio   float64
}

// Cluster assigns every embedding a cluster label. KMeans labels lie in
// [0, NClusters); the density method additionally uses NoiseLabel for
// points outside all dense regions.
func Cluster(embeddings [][]float32, opts Options) ([]int, Stats, error) {
	if len(embeddings) == 0 {
		return nil, Stats{}, ErrNoEmbeddings
	}
	switch opts.Method {
	case MethodKMeans:
		return clusterKMeans(embeddings, opts)
	case MethodDensity:
		return clusterDensity(embeddings, opts)
	default:
		return nil, Stats{}, fmt.Errorf("%w: %q", ErrUnknownMethod, opts.Method)
	}
}

// AutoClusterCount picks a cluster count from the dataset shape:
// round(sqrt(n/2)) clamped to [3, 50], with a bonus of 5 for
// embeddings wider than 512 dimensions (still capped at 50).
func AutoClusterCount(n, dim int) int {
	k := int(math.Round(math.Sqrt(float64(n) / 2)))
	if k < 3 {
		k = 3
	}
	if k > 50 {
		k = 50
	}
	if dim > 512 {
		k += 5
		if k > 50 {
			k = 50
		}
	}
	return k
}

func clusterKMeans(embeddings [][]float32, opts Options) ([]int, Stats, error) {
	k := opts.NClusters
	if k <= 0 {
		k = AutoClusterCount(len(embeddings), len(embeddings[0]))
	}
	if k > len(embeddings) {
		k = len(embeddings)
	}

	fit := sampling.FitKMeans(embeddings, k, opts.Seed, sampling.KMeansRestarts)

	sizes := make(map[int]int, k)
	for _, label := range fit.Labels {
		sizes[label]++
	}
	stats := Stats{
		Method:       MethodKMeans,
		NClusters:    k,
		ClusterSizes: sizes,
		Inertia:      fit.Inertia,
		Iterations:   fit.Iterations,
	}
	return fit.Labels, stats, nil
}

func clusterDensity(embeddings [][]float32, opts Options) ([]int, Stats, error) {
	n := len(embeddings)
	minSamples := opts.MinSamples
	if minSamples <= 0 {
		minSamples = 5
	}

	eps := estimateEps(embeddings)
	labels := dbscan(embeddings, eps, minSamples)

	sizes := make(map[int]int)
	noise := 0
	for _, label := range labels {
		if label == NoiseLabel {
			noise++
			continue
		}
		sizes[label]++
	}
	stats := Stats{
		Method:       MethodDensity,
		NClusters:    len(sizes),
		ClusterSizes: sizes,
		Eps:          eps,
		MinSamples:   minSamples,
		NNoise:       noise,
		NoiseRatio:   float64(noise) / float64(n),
	}
	return labels, stats, nil
}

// estimateEps picks the neighborhood radius as the 95th percentile of
// each point's distance to its k-th nearest neighbor, k = min(10, n/10)
// with a floor of 1.
func estimateEps(embeddings [][]float32) float64 {
	n := len(embeddings)
	k := n / 10
	if k > 10 {
		k = 10
	}
	if k < 1 {
		k = 1
	}
	if k >= n {
		k = n - 1
	}
	if k < 1 {
		return 0
	}
	distances := geometry.KthNearestDistances(embeddings, k)
	return geometry.Percentile(distances, 95)
}

// dbscan runs a deterministic density scan: points are visited in index
// order, clusters grow by breadth-first expansion over eps
// neighborhoods, and points reachable from no core point stay noise.
// No randomness is involved, so the result is seed-independent.
func dbscan(embeddings [][]float32, eps float64, minSamples int) []int {
	const unvisited = -2

	n := len(embeddings)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}
	epsSq := eps * eps
	next := 0

	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		neighbors := regionQuery(embeddings, i, epsSq)
		if len(neighbors) < minSamples {
			labels[i] = NoiseLabel
			continue
		}

		cluster := next
		next++
		labels[i] = cluster

		queue := neighbors
		for head := 0; head < len(queue); head++ {
			j := queue[head]
			if labels[j] == NoiseLabel {
				labels[j] = cluster // border point
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster
			jNeighbors := regionQuery(embeddings, j, epsSq)
			if len(jNeighbors) >= minSamples {
				queue = append(queue, jNeighbors...)
			}
		}
	}
	return labels
}

// regionQuery returns the indices within eps of point i, including i
// itself, in ascending order.
func regionQuery(embeddings [][]float32, i int, epsSq float64) []int {
	var neighbors []int
	for j := range embeddings {
		if geometry.SquaredL2(embeddings[i], embeddings[j]) <= epsSq {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}
