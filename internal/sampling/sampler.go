// Package sampling implements the episode selection strategies and the
// coverage scorer. Every function is pure given its inputs and seed: no
// package-level random state, no caching, no retained references to
// caller data, so calls may run concurrently.
package sampling

import (
	"fmt"

	"github.com/arpitg1304/tessera/internal/domain"
)

// Recognized strategy names.
const (
	StrategyDiversity  = "diversity"
	StrategyStratified = "stratified"
	StrategyRandom     = "random"
)

// Options parameterizes one Sample call.
type Options struct {
	Strategy   string
	NSamples   int
	StratifyBy string  // stratified strategy only
	Seed       int64   // drives all randomness; equal seeds reproduce bit-identical results
	Percentile float64 // coverage threshold percentile; 0 means DefaultPercentile
	NTotal     int     // explicit item count for metadata-only datasets
}

// Result is one sampling outcome: the chosen indices in ascending order
// and their coverage score.
type Result struct {
	Indices  []int
	Coverage float64
}

// Sample selects indices with the requested strategy and scores the
// selection's coverage of the full set. The item count resolves from
// the embedding matrix when present, else from metadata, else from the
// explicit total; disagreement between those sources aborts with
// DimensionMismatchError.
func Sample(embeddings [][]float32, metadata domain.Metadata, opts Options) (*Result, error) {
	nTotal, err := ResolveTotal(embeddings, metadata, opts.NTotal)
	if err != nil {
		return nil, err
	}

	var indices []int
	switch opts.Strategy {
	case StrategyDiversity:
		indices, err = SelectDiversity(embeddings, opts.NSamples, opts.Seed)
	case StrategyStratified:
		if len(metadata) == 0 || opts.StratifyBy == "" {
			return nil, ErrStratifyFieldRequired
		}
		indices, err = SelectStratified(metadata, opts.StratifyBy, opts.NSamples, opts.Seed, nTotal)
	case StrategyRandom:
		indices = SelectRandom(nTotal, opts.NSamples, opts.Seed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, opts.Strategy)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Indices:  indices,
		Coverage: Coverage(embeddings, indices, nTotal, opts.Percentile),
	}, nil
}

// ResolveTotal determines the item count with documented precedence:
// embedding matrix length, then metadata column length, then the
// explicit parameter. Whatever sources are present must agree; a
// mismatch is a data-integrity fault reported as
// DimensionMismatchError rather than silently truncated.
func ResolveTotal(embeddings [][]float32, metadata domain.Metadata, explicit int) (int, error) {
	n := -1
	if len(embeddings) > 0 {
		n = len(embeddings)
	}

	for _, field := range metadata.Fields() {
		l := metadata[field].Len()
		if n == -1 {
			n = l
			continue
		}
		if l != n {
			return 0, &DimensionMismatchError{Field: field, Want: n, Got: l}
		}
	}

	if n == -1 {
		return explicit, nil
	}
	if explicit > 0 && explicit != n {
		return 0, &DimensionMismatchError{Want: n, Got: explicit}
	}
	return n, nil
}
