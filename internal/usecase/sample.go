package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/port"
	"github.com/arpitg1304/tessera/internal/sampling"
)

// NewLimiter caps the number of simultaneous heavy computations. The
// core algorithms are CPU-bound and synchronous; the limiter is the
// external throttle that keeps concurrent requests from stacking large
// matrix computations.
func NewLimiter(maxConcurrent int) *semaphore.Weighted {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return semaphore.NewWeighted(int64(maxConcurrent))
}

// SampleUseCase runs sampling over a dataset and optionally persists
// the selection.
type SampleUseCase struct {
	loader  port.DatasetLoader
	store   port.ProjectStore
	limiter *semaphore.Weighted
}

func NewSampleUseCase(loader port.DatasetLoader, store port.ProjectStore, limiter *semaphore.Weighted) *SampleUseCase {
	return &SampleUseCase{loader: loader, store: store, limiter: limiter}
}

// SampleParams identifies the dataset (directly by path, or through a
// registered project) and the sampling options.
type SampleParams struct {
	DatasetPath string
	ProjectID   string

	Strategy   string
	NSamples   int
	StratifyBy string
	Seed       int64
	Percentile float64

	// SaveAs persists the selection under the project when non-empty.
	SaveAs string
}

// SampleOutput is a sampling result enriched with episode IDs.
type SampleOutput struct {
	Indices     []int    `json:"selected_indices"`
	EpisodeIDs  []string `json:"selected_episode_ids"`
	NSamples    int      `json:"n_samples"`
	Strategy    string   `json:"strategy"`
	Coverage    float64  `json:"coverage_score"`
	SelectionID uint64   `json:"selection_id,omitempty"`
}

func (u *SampleUseCase) Sample(ctx context.Context, params SampleParams) (*SampleOutput, error) {
	path, projectID, err := u.resolvePath(params.DatasetPath, params.ProjectID)
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

	result, err := sampling.Sample(ds.Embeddings, ds.Metadata, sampling.Options{
		Strategy:   params.Strategy,
		NSamples:   params.NSamples,
		StratifyBy: params.StratifyBy,
		Seed:       params.Seed,
		Percentile: params.Percentile,
		NTotal:     ds.Count(),
	})
	if err != nil {
		return nil, err
	}

	out := &SampleOutput{
		Indices:    result.Indices,
		EpisodeIDs: episodeIDs(ds, result.Indices),
		NSamples:   len(result.Indices),
		Strategy:   params.Strategy,
		Coverage:   result.Coverage,
	}

	if params.SaveAs != "" && projectID != "" {
		id, err := u.store.SaveSelection(domain.Selection{
			ProjectID: projectID,
			Name:      params.SaveAs,
			Strategy:  params.Strategy,
			NSamples:  len(result.Indices),
			Indices:   result.Indices,
			Coverage:  result.Coverage,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save selection: %w", err)
		}
		out.SelectionID = id
	}

	return out, nil
}

// Coverage scores an arbitrary caller-supplied index set against the
// dataset.
func (u *SampleUseCase) Coverage(ctx context.Context, datasetPath, projectID string, indices []int, percentile float64) (float64, error) {
	path, _, err := u.resolvePath(datasetPath, projectID)
	if err != nil {
		return 0, err
	}

	if err := u.limiter.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer u.limiter.Release(1)

	ds, err := u.loader.Load(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load dataset: %w", err)
	}
	if err := checkIndices(indices, ds.Count()); err != nil {
		return 0, err
	}
	return sampling.Coverage(ds.Embeddings, indices, ds.Count(), percentile), nil
}

func (u *SampleUseCase) resolvePath(datasetPath, projectID string) (path, resolvedProject string, err error) {
	path, err = resolveDatasetPath(u.store, datasetPath, projectID)
	return path, projectID, err
}

func episodeIDs(ds *domain.Dataset, indices []int) []string {
	ids := make([]string, len(indices))
	for i, idx := range indices {
		ids[i] = ds.EpisodeIDs[idx]
	}
	return ids
}

// resolveDatasetPath prefers the explicit path; otherwise it looks the
// path up from the registered project.
func resolveDatasetPath(store port.ProjectStore, datasetPath, projectID string) (string, error) {
	if datasetPath != "" {
		return datasetPath, nil
	}
	if projectID == "" {
		return "", fmt.Errorf("either a dataset path or a project id is required")
	}
	if store == nil {
		return "", fmt.Errorf("no project store configured")
	}
	p, err := store.GetProject(projectID)
	if err != nil {
		return "", err
	}
	return p.DatasetPath, nil
}

func checkIndices(indices []int, n int) error {
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return fmt.Errorf("index %d out of range [0, %d)", idx, n)
		}
	}
	return nil
}
