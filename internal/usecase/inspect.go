package usecase

import (
	"fmt"

	"github.com/arpitg1304/tessera/internal/adapter/dataset"
	"github.com/arpitg1304/tessera/internal/port"
)

// InspectUseCase validates dataset files and summarizes their metadata.
type InspectUseCase struct {
	loader port.DatasetLoader
	store  port.ProjectStore
	limits dataset.Limits
}

func NewInspectUseCase(loader port.DatasetLoader, store port.ProjectStore, limits dataset.Limits) *InspectUseCase {
	return &InspectUseCase{loader: loader, store: store, limits: limits}
}

// FileReport pairs one dataset path with its validation result.
type FileReport struct {
	Path   string                   `json:"path"`
	Result dataset.ValidationResult `json:"result"`
}

// Validate checks each path against the configured limits. It never
// stops at the first bad file; every path gets a report.
func (u *InspectUseCase) Validate(paths []string) []FileReport {
	reports := make([]FileReport, len(paths))
	for i, path := range paths {
		reports[i] = FileReport{Path: path, Result: dataset.Validate(path, u.limits)}
	}
	return reports
}

// DatasetSummary describes a dataset's metadata fields and, when
// embeddings are present, their basic statistics.
type DatasetSummary struct {
	Name           string                          `json:"name"`
	NEpisodes      int                             `json:"n_episodes"`
	EmbeddingDim   int                             `json:"embedding_dim"`
	HasEmbeddings  bool                            `json:"has_embeddings"`
	Fields         map[string]dataset.FieldSummary `json:"fields"`
	EmbeddingStats *dataset.EmbeddingStats         `json:"embedding_stats,omitempty"`
}

// Summarize builds the summary for a dataset. When a project id is
// given the summary is served from and written to the store cache.
func (u *InspectUseCase) Summarize(datasetPath, projectID string, seed int64) (*DatasetSummary, error) {
	if projectID != "" && u.store != nil {
		var cached DatasetSummary
		found, err := u.store.GetSummary(projectID, &cached)
		if err != nil {
			return nil, err
		}
		if found {
			return &cached, nil
		}
	}

	path, err := resolveDatasetPath(u.store, datasetPath, projectID)
	if err != nil {
		return nil, err
	}
	ds, err := u.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	summary := &DatasetSummary{
		Name:          ds.Name,
		NEpisodes:     ds.Count(),
		EmbeddingDim:  ds.Dimension(),
		HasEmbeddings: ds.HasEmbeddings(),
		Fields:        dataset.Summarize(ds.Metadata),
	}
	if stats, ok := dataset.Stats(ds, seed); ok {
		summary.EmbeddingStats = &stats
	}

	if projectID != "" && u.store != nil {
		if err := u.store.PutSummary(projectID, summary); err != nil {
			return nil, err
		}
	}
	return summary, nil
}
