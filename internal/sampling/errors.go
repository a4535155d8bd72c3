package sampling

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmbeddingsRequired is returned when the diversity strategy is
	// requested for a dataset that has no embedding matrix.
	ErrEmbeddingsRequired = errors.New("diversity sampling requires embeddings")

	// ErrUnknownStrategy is returned for strategy names other than
	// diversity, stratified and random.
	ErrUnknownStrategy = errors.New("unknown sampling strategy")

	// ErrStratifyFieldRequired is returned when the stratified strategy
	// is requested without metadata or a stratify field.
	ErrStratifyFieldRequired = errors.New("stratified sampling requires metadata and a stratify field")
)

// UnknownFieldError reports a stratify field that does not exist in the
// metadata. Available lists the fields that do, to aid correction.
type UnknownFieldError struct {
	Field     string
	Available []string
}

func (e *UnknownFieldError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("metadata field %q not found (no metadata fields available)", e.Field)
	}
	return fmt.Sprintf("metadata field %q not found (available: %s)", e.Field, strings.Join(e.Available, ", "))
}

// DimensionMismatchError reports a disagreement on item count between
// the embedding matrix, a metadata column, or an explicit total. This
// is a data-integrity fault from the upstream loader and aborts the
// whole call.
type DimensionMismatchError struct {
	Field string // metadata field, or "" for the explicit total
	Want  int
	Got   int
}

func (e *DimensionMismatchError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("item count mismatch: expected %d, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("metadata field %q has %d values, expected %d", e.Field, e.Got, e.Want)
}
