package dataset

import (
	"math"
	"math/rand"
	"sort"

	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/geometry"
)

// FieldSummary describes one metadata field for display. The stat
// fields are type-specific: booleans fill the true/false counts,
// numbers fill min/max/mean, categorical fields list distinct values
// when there are few enough.
type FieldSummary struct {
	Type        domain.ColumnType `json:"type"`
	Count       int               `json:"count"`
	TrueCount   *int              `json:"true_count,omitempty"`
	FalseCount  *int              `json:"false_count,omitempty"`
	Min         *float64          `json:"min,omitempty"`
	Max         *float64          `json:"max,omitempty"`
	Mean        *float64          `json:"mean,omitempty"`
	UniqueCount *int              `json:"unique_count,omitempty"`
	Categories  []string          `json:"categories,omitempty"`
}

const maxListedCategories = 20

// Summarize builds per-field summaries for all metadata columns.
func Summarize(m domain.Metadata) map[string]FieldSummary {
	out := make(map[string]FieldSummary, len(m))
	for _, field := range m.Fields() {
		out[field] = summarizeColumn(m[field])
	}
	return out
}

func summarizeColumn(c domain.Column) FieldSummary {
	s := FieldSummary{Type: c.Type(), Count: c.Len()}
	switch c.Type() {
	case domain.ColumnBool:
		trues := 0
		for _, b := range c.Bools {
			if b {
				trues++
			}
		}
		falses := len(c.Bools) - trues
		s.TrueCount, s.FalseCount = &trues, &falses
	case domain.ColumnInt:
		values := make([]float64, len(c.Ints))
		for i, v := range c.Ints {
			values[i] = float64(v)
		}
		fillNumeric(&s, values)
	case domain.ColumnFloat:
		fillNumeric(&s, c.Floats)
	default:
		distinct := make(map[string]struct{}, len(c.Strings))
		for _, v := range c.Strings {
			distinct[v] = struct{}{}
		}
		n := len(distinct)
		s.UniqueCount = &n
		if n <= maxListedCategories {
			categories := make([]string, 0, n)
			for v := range distinct {
				categories = append(categories, v)
			}
			sort.Strings(categories)
			s.Categories = categories
		}
	}
	return s
}

func fillNumeric(s *FieldSummary, values []float64) {
	if len(values) == 0 {
		return
	}
	min, max, sum := values[0], values[0], 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(values))
	s.Min, s.Max, s.Mean = &min, &max, &mean
}

// EmbeddingStats summarizes the vector norms of a dataset, computed on
// a seeded sample of at most sampleSize vectors.
type EmbeddingStats struct {
	NEpisodes    int     `json:"n_episodes"`
	EmbeddingDim int     `json:"embedding_dim"`
	NormMin      float64 `json:"norm_min"`
	NormMax      float64 `json:"norm_max"`
	NormMean     float64 `json:"norm_mean"`
	NormStd      float64 `json:"norm_std"`
}

const statsSampleSize = 1000

// Stats computes embedding statistics for display. Returns ok=false
// for metadata-only datasets, where the stats cannot be computed.
func Stats(ds *domain.Dataset, seed int64) (EmbeddingStats, bool) {
	if !ds.HasEmbeddings() {
		return EmbeddingStats{}, false
	}

	n := len(ds.Embeddings)
	sample := ds.Embeddings
	if n > statsSampleSize {
		rng := rand.New(rand.NewSource(seed))
		picked := rng.Perm(n)[:statsSampleSize]
		sort.Ints(picked)
		sample = make([][]float32, len(picked))
		for i, idx := range picked {
			sample[i] = ds.Embeddings[idx]
		}
	}

	norms := geometry.Norms(sample)
	min, max, sum := norms[0], norms[0], 0.0
	for _, v := range norms {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(norms))
	var variance float64
	for _, v := range norms {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(norms))

	return EmbeddingStats{
		NEpisodes:    n,
		EmbeddingDim: ds.Dimension(),
		NormMin:      min,
		NormMax:      max,
		NormMean:     mean,
		NormStd:      math.Sqrt(variance),
	}, true
}
