package dataset

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/arpitg1304/tessera/internal/domain"
)

// Limits bounds what a container may hold.
type Limits struct {
	MaxEpisodes  int
	MaxDimension int
}

// ValidationResult reports whether a container is usable and what it
// holds. Errors make the file unusable; warnings do not.
type ValidationResult struct {
	Valid            bool     `json:"valid"`
	NEpisodes        int      `json:"n_episodes"`
	EmbeddingDim     int      `json:"embedding_dim"`
	HasEmbeddings    bool     `json:"has_embeddings"`
	HasSuccess       bool     `json:"has_success"`
	HasTask          bool     `json:"has_task"`
	HasEpisodeLength bool     `json:"has_episode_length"`
	HasDataset       bool     `json:"has_dataset"`
	MetadataFields   []string `json:"metadata_fields,omitempty"`
	Errors           []string `json:"errors,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

// Validate checks a container file against the limits and internal
// consistency rules.
func Validate(path string, limits Limits) ValidationResult {
	var res ValidationResult

	if _, err := os.Stat(path); err != nil {
		res.Errors = append(res.Errors, "file does not exist")
		return res
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".tsr" {
		res.Warnings = append(res.Warnings, "file extension is not .tsr")
	}

	ds, err := (Loader{}).Load(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("failed to read container: %v", err))
		return res
	}

	fileRes := ValidateDataset(ds, limits)
	fileRes.Warnings = append(res.Warnings, fileRes.Warnings...)
	return fileRes
}

// ValidateDataset checks an in-memory dataset: episode IDs present,
// every metadata column as long as the episode list, all vectors the
// same width, counts within limits, no NaN or Inf values.
func ValidateDataset(ds *domain.Dataset, limits Limits) ValidationResult {
	var res ValidationResult
	res.NEpisodes = ds.Count()
	res.EmbeddingDim = ds.Dimension()
	res.HasEmbeddings = ds.HasEmbeddings()

	if res.NEpisodes == 0 {
		res.Errors = append(res.Errors, "missing required episode IDs")
	}
	if limits.MaxEpisodes > 0 && res.NEpisodes > limits.MaxEpisodes {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"too many episodes: %d > %d", res.NEpisodes, limits.MaxEpisodes))
	}

	if ds.HasEmbeddings() {
		if len(ds.Embeddings) != res.NEpisodes {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"embeddings count (%d) doesn't match episode count (%d)", len(ds.Embeddings), res.NEpisodes))
		}
		if limits.MaxDimension > 0 && res.EmbeddingDim > limits.MaxDimension {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"embedding dimension too large: %d > %d", res.EmbeddingDim, limits.MaxDimension))
		}
		if res.EmbeddingDim == 0 {
			res.Errors = append(res.Errors, "embeddings have zero dimension")
		}
		for i, vec := range ds.Embeddings {
			if len(vec) != res.EmbeddingDim {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"vector %d has dimension %d, expected %d", i, len(vec), res.EmbeddingDim))
				break
			}
		}
		res.Errors = append(res.Errors, scanValues(ds.Embeddings)...)
	}

	for _, field := range ds.Metadata.Fields() {
		res.MetadataFields = append(res.MetadataFields, field)
		if l := ds.Metadata[field].Len(); l != res.NEpisodes {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"metadata/%s length (%d) doesn't match episode count (%d)", field, l, res.NEpisodes))
		}
		switch field {
		case "success":
			res.HasSuccess = true
		case "task":
			res.HasTask = true
		case "episode_length":
			res.HasEpisodeLength = true
		case "dataset":
			res.HasDataset = true
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func scanValues(embeddings [][]float32) []string {
	nan, inf := false, false
	for _, vec := range embeddings {
		for _, x := range vec {
			v := float64(x)
			if math.IsNaN(v) {
				nan = true
			} else if math.IsInf(v, 0) {
				inf = true
			}
		}
		if nan && inf {
			break
		}
	}
	var errs []string
	if nan {
		errs = append(errs, "embeddings contain NaN values")
	}
	if inf {
		errs = append(errs, "embeddings contain infinite values")
	}
	return errs
}
