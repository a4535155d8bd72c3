// Package dataset reads and writes the .tsr embedding container: a
// JSON header carrying episode IDs and typed metadata columns, followed
// by an optional block of length-prefixed float32 vectors. Datasets
// without the vector block load in metadata-only mode.
package dataset

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/arpitg1304/tessera/internal/domain"
)

var magic = [4]byte{'T', 'S', 'R', '1'}

type header struct {
	DatasetName   string                `json:"dataset_name,omitempty"`
	Description   string                `json:"description,omitempty"`
	NEpisodes     int                   `json:"n_episodes"`
	EmbeddingDim  int                   `json:"embedding_dim"`
	HasEmbeddings bool                  `json:"has_embeddings"`
	EpisodeIDs    []string              `json:"episode_ids"`
	Metadata      map[string]columnData `json:"metadata,omitempty"`
}

type columnData struct {
	Type    domain.ColumnType `json:"type"`
	Bools   []bool            `json:"bools,omitempty"`
	Ints    []int64           `json:"ints,omitempty"`
	Floats  []float64         `json:"floats,omitempty"`
	Strings []string          `json:"strings,omitempty"`
}

// Loader loads .tsr containers from the local filesystem.
type Loader struct{}

// Load reads a container into a Dataset. Embeddings stay nil for
// metadata-only containers.
func (Loader) Load(path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// Read decodes a container from a reader.
func Read(r io.Reader) (*domain.Dataset, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	ds := &domain.Dataset{
		Name:        h.DatasetName,
		Description: h.Description,
		EpisodeIDs:  h.EpisodeIDs,
		Metadata:    decodeMetadata(h.Metadata),
	}

	if h.HasEmbeddings {
		vectors, err := readVectors(r, h.NEpisodes, h.EmbeddingDim)
		if err != nil {
			return nil, err
		}
		ds.Embeddings = vectors
	}
	return ds, nil
}

// Write encodes a dataset into a container file.
func Write(path string, ds *domain.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := encode(w, ds); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(w io.Writer, ds *domain.Dataset) error {
	h := header{
		DatasetName:   ds.Name,
		Description:   ds.Description,
		NEpisodes:     ds.Count(),
		EmbeddingDim:  ds.Dimension(),
		HasEmbeddings: ds.HasEmbeddings(),
		EpisodeIDs:    ds.EpisodeIDs,
		Metadata:      encodeMetadata(ds.Metadata),
	}
	headerBytes, err := json.Marshal(h)
	if err != nil {
		return err
	}

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(headerBytes))); err != nil {
		return err
	}
	if _, err := w.Write(headerBytes); err != nil {
		return err
	}

	for _, vec := range ds.Embeddings {
		if err := binary.Write(w, binary.LittleEndian, int32(len(vec))); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
			return err
		}
	}
	return nil
}

func readHeader(r io.Reader) (*header, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if m != magic {
		return nil, fmt.Errorf("not a tsr container (magic %q)", m[:])
	}

	var headerLen uint32
	if err := binary.Read(r, binary.LittleEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("failed to read header length: %w", err)
	}
	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var h header
	if err := json.Unmarshal(headerBytes, &h); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	return &h, nil
}

// readVectors reads n length-prefixed float32 vectors, all of the same
// dimension.
func readVectors(r io.Reader, n, expectedDim int) ([][]float32, error) {
	vectors := make([][]float32, 0, n)
	for i := 0; i < n; i++ {
		var dim int32
		if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
			return nil, fmt.Errorf("failed to read vector %d dimension: %w", i, err)
		}
		if int(dim) != expectedDim {
			return nil, fmt.Errorf("inconsistent dimensions: expected %d, got %d at vector %d", expectedDim, dim, i)
		}
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("failed to read vector %d values: %w", i, err)
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func encodeMetadata(m domain.Metadata) map[string]columnData {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]columnData, len(m))
	for field, col := range m {
		out[field] = columnData{
			Type:    col.Type(),
			Bools:   col.Bools,
			Ints:    col.Ints,
			Floats:  col.Floats,
			Strings: col.Strings,
		}
	}
	return out
}

func decodeMetadata(m map[string]columnData) domain.Metadata {
	if len(m) == 0 {
		return nil
	}
	out := make(domain.Metadata, len(m))
	for field, cd := range m {
		switch cd.Type {
		case domain.ColumnBool:
			out[field] = domain.BoolColumn(cd.Bools)
		case domain.ColumnInt:
			out[field] = domain.IntColumn(cd.Ints)
		case domain.ColumnFloat:
			out[field] = domain.FloatColumn(cd.Floats)
		default:
			out[field] = domain.StringColumn(cd.Strings)
		}
	}
	return out
}
