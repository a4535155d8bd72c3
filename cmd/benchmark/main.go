package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/arpitg1304/tessera/internal/adapter/dataset"
	"github.com/arpitg1304/tessera/internal/clustering"
	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/sampling"
)

func main() {
	path := flag.String("data", "", "dataset file to benchmark against")
	n := flag.Int("n", 10000, "synthetic episode count (when no -data)")
	dim := flag.Int("dim", 128, "synthetic embedding dimension (when no -data)")
	nSamples := flag.Int("samples", 100, "episodes to select per run")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	var ds *domain.Dataset
	if *path != "" {
		var err error
		ds, err = (dataset.Loader{}).Load(*path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Dataset: %s (%d episodes, dim %d)\n\n", ds.Name, ds.Count(), ds.Dimension())
	} else {
		ds = syntheticDataset(*n, *dim, *seed)
		fmt.Printf("Synthetic dataset: %d episodes, dim %d\n\n", *n, *dim)
	}

	for _, strategy := range []string{
		sampling.StrategyRandom,
		sampling.StrategyStratified,
		sampling.StrategyDiversity,
	} {
		opts := sampling.Options{
			Strategy: strategy,
			NSamples: *nSamples,
			Seed:     *seed,
			NTotal:   ds.Count(),
		}
		if strategy == sampling.StrategyStratified {
			fields := ds.Metadata.Fields()
			if len(fields) == 0 {
				fmt.Printf("%-12s skipped (no metadata)\n", strategy)
				continue
			}
			opts.StratifyBy = fields[0]
		}

		start := time.Now()
		result, err := sampling.Sample(ds.Embeddings, ds.Metadata, opts)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s failed: %v\n", strategy, err)
			continue
		}
		fmt.Printf("%-12s %8s  %d selected, coverage %.4f\n",
			strategy, elapsed.Round(time.Millisecond), len(result.Indices), result.Coverage)
	}

	if ds.HasEmbeddings() {
		start := time.Now()
		labels, stats, err := clustering.Cluster(ds.Embeddings, clustering.Options{
			Method: clustering.MethodKMeans,
			Seed:   *seed,
		})
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s failed: %v\n", "kmeans", err)
			return
		}
		fmt.Printf("%-12s %8s  %d episodes into %d clusters\n",
			"kmeans", elapsed.Round(time.Millisecond), len(labels), stats.NClusters)
	}
}

// syntheticDataset builds a dataset of gaussian blobs with a task label
// per blob, so every strategy has something to chew on.
func syntheticDataset(n, dim int, seed int64) *domain.Dataset {
	rng := rand.New(rand.NewSource(seed))

	const blobs = 8
	centers := make([][]float64, blobs)
	for b := range centers {
		centers[b] = make([]float64, dim)
		for d := range centers[b] {
			centers[b][d] = rng.NormFloat64() * 10
		}
	}

	embeddings := make([][]float32, n)
	ids := make([]string, n)
	tasks := make([]string, n)
	for i := 0; i < n; i++ {
		b := rng.Intn(blobs)
		vec := make([]float32, dim)
		for d := range vec {
			vec[d] = float32(centers[b][d] + rng.NormFloat64())
		}
		embeddings[i] = vec
		ids[i] = fmt.Sprintf("episode_%06d", i)
		tasks[i] = fmt.Sprintf("task_%d", b)
	}

	return &domain.Dataset{
		Name:       "synthetic",
		EpisodeIDs: ids,
		Embeddings: embeddings,
		Metadata: domain.Metadata{
			"task": domain.StringColumn(tasks),
		},
	}
}
