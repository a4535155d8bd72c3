package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/semaphore"

	"github.com/arpitg1304/tessera/internal/geometry"
	"github.com/arpitg1304/tessera/internal/port"
	"github.com/arpitg1304/tessera/internal/sampling"
)

// SimilarUseCase finds the nearest neighbours of a set of query episodes
// by brute-force scan over the dataset embeddings.
type SimilarUseCase struct {
	loader  port.DatasetLoader
	store   port.ProjectStore
	limiter *semaphore.Weighted
}

func NewSimilarUseCase(loader port.DatasetLoader, store port.ProjectStore, limiter *semaphore.Weighted) *SimilarUseCase {
	return &SimilarUseCase{loader: loader, store: store, limiter: limiter}
}

type SimilarParams struct {
	DatasetPath string
	ProjectID   string

	// Indices of the query episodes. Neighbours are pooled across all
	// queries, deduplicated, and the queries themselves excluded.
	Indices []int
	K       int
}

// Neighbour is one similar episode with its distance to the nearest query.
type Neighbour struct {
	Index     int     `json:"index"`
	EpisodeID string  `json:"episode_id"`
	Distance  float64 `json:"distance"`
}

type SimilarOutput struct {
	Queries    []int       `json:"query_indices"`
	Neighbours []Neighbour `json:"neighbours"`
}

func (u *SimilarUseCase) Similar(ctx context.Context, params SimilarParams) (*SimilarOutput, error) {
	if params.K <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", params.K)
	}
	if len(params.Indices) == 0 {
		return nil, fmt.Errorf("at least one query index is required")
	}

	if err := u.limiter.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer u.limiter.Release(1)

	path, err := resolveDatasetPath(u.store, params.DatasetPath, params.ProjectID)
	if err != nil {
		return nil, err
	}
	ds, err := u.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	if !ds.HasEmbeddings() {
		return nil, sampling.ErrEmbeddingsRequired
	}
	if err := checkIndices(params.Indices, ds.Count()); err != nil {
		return nil, err
	}

	queries := make(map[int]bool, len(params.Indices))
	for _, idx := range params.Indices {
		queries[idx] = true
	}

	// Distance from each episode to its closest query.
	best := make(map[int]float64)
	for _, q := range params.Indices {
		for i, v := range ds.Embeddings {
			if queries[i] {
				continue
			}
			d := geometry.SquaredL2(ds.Embeddings[q], v)
			if cur, ok := best[i]; !ok || d < cur {
				best[i] = d
			}
		}
	}

	candidates := make([]Neighbour, 0, len(best))
	for i, d := range best {
		candidates = append(candidates, Neighbour{
			Index:     i,
			EpisodeID: ds.EpisodeIDs[i],
			Distance:  math.Sqrt(d),
		})
	}
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].Distance != candidates[b].Distance {
			return candidates[a].Distance < candidates[b].Distance
		}
		return candidates[a].Index < candidates[b].Index
	})
	if len(candidates) > params.K {
		candidates = candidates[:params.K]
	}

	out := &SimilarOutput{Queries: params.Indices, Neighbours: candidates}
	return out, nil
}
