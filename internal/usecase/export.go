package usecase

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/port"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ExportUseCase writes a selection's episode IDs (and optionally their
// metadata) in a machine-readable format.
type ExportUseCase struct {
	loader port.DatasetLoader
	store  port.ProjectStore
}

func NewExportUseCase(loader port.DatasetLoader, store port.ProjectStore) *ExportUseCase {
	return &ExportUseCase{loader: loader, store: store}
}

// ExportParams identifies what to export. Exactly one of SelectionID or
// Indices selects the episodes; SelectionID requires a project.
type ExportParams struct {
	DatasetPath string
	ProjectID   string

	SelectionID     uint64
	Indices         []int
	Format          string
	IncludeMetadata bool
}

type jsonExport struct {
	ExportedAt string              `json:"exported_at"`
	NEpisodes  int                 `json:"n_episodes"`
	Strategy   string              `json:"strategy,omitempty"`
	Coverage   *float64            `json:"coverage_score,omitempty"`
	Indices    []int               `json:"selected_indices"`
	EpisodeIDs []string            `json:"selected_episode_ids"`
	Metadata   map[string][]string `json:"metadata,omitempty"`
}

func (u *ExportUseCase) Export(w io.Writer, params ExportParams) error {
	indices := params.Indices
	var strategy string
	var coverage *float64

	if params.SelectionID != 0 {
		if params.ProjectID == "" {
			return fmt.Errorf("exporting a saved selection requires a project id")
		}
		sel, err := u.store.GetSelection(params.ProjectID, params.SelectionID)
		if err != nil {
			return err
		}
		indices = sel.Indices
		strategy = sel.Strategy
		coverage = &sel.Coverage
	}
	if indices == nil {
		return fmt.Errorf("either a selection id or explicit indices are required")
	}

	path := params.DatasetPath
	if path == "" {
		p, err := u.store.GetProject(params.ProjectID)
		if err != nil {
			return err
		}
		path = p.DatasetPath
	}

	ds, err := u.loader.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if err := checkIndices(indices, ds.Count()); err != nil {
		return err
	}

	switch params.Format {
	case FormatJSON, "":
		return u.exportJSON(w, ds, indices, strategy, coverage, params.IncludeMetadata)
	case FormatCSV:
		return u.exportCSV(w, ds, indices, params.IncludeMetadata)
	default:
		return fmt.Errorf("unknown export format: %q", params.Format)
	}
}

func (u *ExportUseCase) exportJSON(w io.Writer, ds *domain.Dataset, indices []int, strategy string, coverage *float64, includeMetadata bool) error {
	out := jsonExport{
		ExportedAt: time.Now().Format(time.RFC3339),
		NEpisodes:  len(indices),
		Strategy:   strategy,
		Coverage:   coverage,
		Indices:    indices,
		EpisodeIDs: episodeIDs(ds, indices),
	}
	if includeMetadata && len(ds.Metadata) > 0 {
		out.Metadata = make(map[string][]string, len(ds.Metadata))
		for _, field := range ds.Metadata.Fields() {
			column := ds.Metadata[field]
			values := make([]string, len(indices))
			for i, idx := range indices {
				values[i] = column.Value(idx)
			}
			out.Metadata[field] = values
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (u *ExportUseCase) exportCSV(w io.Writer, ds *domain.Dataset, indices []int, includeMetadata bool) error {
	cw := csv.NewWriter(w)

	header := []string{"index", "episode_id"}
	var fields []string
	if includeMetadata {
		fields = ds.Metadata.Fields()
		header = append(header, fields...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, idx := range indices {
		row := []string{strconv.Itoa(idx), ds.EpisodeIDs[idx]}
		for _, field := range fields {
			row = append(row, ds.Metadata[field].Value(idx))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
