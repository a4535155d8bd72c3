package port

import "github.com/arpitg1304/tessera/internal/domain"

// DatasetLoader loads embedding containers. Implementations return the
// full dataset: the embedding matrix (nil in metadata-only mode), the
// metadata columns, and the episode IDs carrying the item count.
type DatasetLoader interface {
	Load(path string) (*domain.Dataset, error)
}
