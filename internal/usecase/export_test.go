package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpitg1304/tessera/internal/adapter/dataset"
	"github.com/arpitg1304/tessera/internal/adapter/memstore"
	"github.com/arpitg1304/tessera/internal/sampling"
)

func TestExportJSON(t *testing.T) {
	path := writeDataset(t, 20, 4)
	uc := NewExportUseCase(dataset.Loader{}, nil)

	var buf bytes.Buffer
	err := uc.Export(&buf, ExportParams{
		DatasetPath:     path,
		Indices:         []int{0, 4, 8},
		Format:          FormatJSON,
		IncludeMetadata: true,
	})
	require.NoError(t, err)

	var out struct {
		ExportedAt string              `json:"exported_at"`
		NEpisodes  int                 `json:"n_episodes"`
		Indices    []int               `json:"selected_indices"`
		EpisodeIDs []string            `json:"selected_episode_ids"`
		Metadata   map[string][]string `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.NotEmpty(t, out.ExportedAt)
	assert.Equal(t, 3, out.NEpisodes)
	assert.Equal(t, []int{0, 4, 8}, out.Indices)
	assert.Len(t, out.EpisodeIDs, 3)
	// Indices 0, 4, 8 all fall in the pick group.
	assert.Equal(t, []string{"pick", "pick", "pick"}, out.Metadata["task"])
}

func TestExportCSV(t *testing.T) {
	path := writeDataset(t, 20, 4)
	uc := NewExportUseCase(dataset.Loader{}, nil)

	var buf bytes.Buffer
	err := uc.Export(&buf, ExportParams{
		DatasetPath:     path,
		Indices:         []int{1, 2},
		Format:          FormatCSV,
		IncludeMetadata: true,
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"index", "episode_id", "task"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "place", rows[1][2])
	assert.Equal(t, "2", rows[2][0])
}

func TestExportSavedSelection(t *testing.T) {
	path := writeDataset(t, 20, 4)
	store := memstore.NewMemoryStore()
	p := registerProject(t, store, path)

	sampleUC := NewSampleUseCase(dataset.Loader{}, store, NewLimiter(1))
	sampled, err := sampleUC.Sample(context.Background(), SampleParams{
		ProjectID: p.ID,
		Strategy:  sampling.StrategyRandom,
		NSamples:  4,
		Seed:      3,
		SaveAs:    "export-me",
	})
	require.NoError(t, err)

	uc := NewExportUseCase(dataset.Loader{}, store)
	var buf bytes.Buffer
	err = uc.Export(&buf, ExportParams{
		ProjectID:   p.ID,
		SelectionID: sampled.SelectionID,
	})
	require.NoError(t, err)

	var out struct {
		Strategy string   `json:"strategy"`
		Coverage *float64 `json:"coverage_score"`
		Indices  []int    `json:"selected_indices"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, sampling.StrategyRandom, out.Strategy)
	require.NotNil(t, out.Coverage)
	assert.Equal(t, sampled.Indices, out.Indices)
}

func TestExportErrors(t *testing.T) {
	path := writeDataset(t, 20, 4)
	uc := NewExportUseCase(dataset.Loader{}, nil)

	var buf bytes.Buffer
	err := uc.Export(&buf, ExportParams{DatasetPath: path})
	assert.Error(t, err, "needs a selection id or indices")

	err = uc.Export(&buf, ExportParams{DatasetPath: path, SelectionID: 1})
	assert.Error(t, err, "selection id without a project")

	err = uc.Export(&buf, ExportParams{DatasetPath: path, Indices: []int{0}, Format: "parquet"})
	assert.Error(t, err)

	err = uc.Export(&buf, ExportParams{DatasetPath: path, Indices: []int{99}})
	assert.Error(t, err)
}
