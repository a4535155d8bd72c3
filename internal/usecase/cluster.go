package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/arpitg1304/tessera/internal/clustering"
	"github.com/arpitg1304/tessera/internal/port"
)

// ClusterUseCase groups a dataset's embeddings for exploration.
type ClusterUseCase struct {
	loader  port.DatasetLoader
	store   port.ProjectStore
	limiter *semaphore.Weighted
}

func NewClusterUseCase(loader port.DatasetLoader, store port.ProjectStore, limiter *semaphore.Weighted) *ClusterUseCase {
	return &ClusterUseCase{loader: loader, store: store, limiter: limiter}
}

// ClusterParams identifies the dataset and the clustering options.
type ClusterParams struct {
	DatasetPath string
	ProjectID   string

	Method     string
	NClusters  int
	MinSamples int
	Seed       int64
}

// ClusterOutput pairs per-episode labels with summary statistics.
type ClusterOutput struct {
	Labels []int            `json:"labels"`
	Stats  clustering.Stats `json:"stats"`
}

func (u *ClusterUseCase) Cluster(ctx context.Context, params ClusterParams) (*ClusterOutput, error) {
	path, err := resolveDatasetPath(u.store, params.DatasetPath, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := u.limiter.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer u.limiter.Release(1)

	ds, err := u.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	labels, stats, err := clustering.Cluster(ds.Embeddings, clustering.Options{
		Method:     params.Method,
		NClusters:  params.NClusters,
		MinSamples: params.MinSamples,
		Seed:       params.Seed,
	})
	if err != nil {
		return nil, err
	}
	return &ClusterOutput{Labels: labels, Stats: stats}, nil
}
