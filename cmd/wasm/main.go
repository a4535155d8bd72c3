//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/arpitg1304/tessera/internal/clustering"
	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/sampling"
)

var current *domain.Dataset

func main() {
	c := make(chan struct{})

	js.Global().Set("tesseraLoad", js.FuncOf(loadDataset))
	js.Global().Set("tesseraSample", js.FuncOf(sampleDataset))
	js.Global().Set("tesseraCluster", js.FuncOf(clusterDataset))
	js.Global().Set("tesseraClear", js.FuncOf(clearDataset))
	js.Global().Set("tesseraStats", js.FuncOf(getStats))

	<-c
}

type wireDataset struct {
	Name       string              `json:"name"`
	EpisodeIDs []string            `json:"episode_ids"`
	Embeddings [][]float32         `json:"embeddings,omitempty"`
	Metadata   map[string][]string `json:"metadata,omitempty"`
}

func loadDataset(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: tesseraLoad(datasetJSON)")
	}

	var wire wireDataset
	if err := json.Unmarshal([]byte(args[0].String()), &wire); err != nil {
		return makeError("invalid dataset JSON: " + err.Error())
	}

	ds := &domain.Dataset{
		Name:       wire.Name,
		EpisodeIDs: wire.EpisodeIDs,
		Embeddings: wire.Embeddings,
	}
	if len(wire.Metadata) > 0 {
		ds.Metadata = make(domain.Metadata, len(wire.Metadata))
		for field, values := range wire.Metadata {
			ds.Metadata[field] = domain.StringColumn(values)
		}
	}
	current = ds

	return map[string]interface{}{
		"n_episodes":     ds.Count(),
		"embedding_dim":  ds.Dimension(),
		"has_embeddings": ds.HasEmbeddings(),
	}
}

type wireSampleOptions struct {
	Strategy   string  `json:"strategy"`
	NSamples   int     `json:"n_samples"`
	StratifyBy string  `json:"stratify_by,omitempty"`
	Seed       int64   `json:"seed"`
	Percentile float64 `json:"percentile,omitempty"`
}

func sampleDataset(this js.Value, args []js.Value) interface{} {
	if current == nil {
		return makeError("no dataset loaded; call tesseraLoad first")
	}
	if len(args) < 1 {
		return makeError("usage: tesseraSample(optionsJSON)")
	}

	var opts wireSampleOptions
	if err := json.Unmarshal([]byte(args[0].String()), &opts); err != nil {
		return makeError("invalid options JSON: " + err.Error())
	}
	if opts.Strategy == "" {
		opts.Strategy = sampling.StrategyDiversity
	}

	result, err := sampling.Sample(current.Embeddings, current.Metadata, sampling.Options{
		Strategy:   opts.Strategy,
		NSamples:   opts.NSamples,
		StratifyBy: opts.StratifyBy,
		Seed:       opts.Seed,
		Percentile: opts.Percentile,
		NTotal:     current.Count(),
	})
	if err != nil {
		return makeError(err.Error())
	}

	ids := make([]interface{}, len(result.Indices))
	indices := make([]interface{}, len(result.Indices))
	for i, idx := range result.Indices {
		indices[i] = idx
		ids[i] = current.EpisodeIDs[idx]
	}
	return map[string]interface{}{
		"selected_indices":     indices,
		"selected_episode_ids": ids,
		"coverage_score":       result.Coverage,
	}
}

type wireClusterOptions struct {
	Method     string `json:"method,omitempty"`
	NClusters  int    `json:"n_clusters,omitempty"`
	MinSamples int    `json:"min_samples,omitempty"`
	Seed       int64  `json:"seed"`
}

func clusterDataset(this js.Value, args []js.Value) interface{} {
	if current == nil {
		return makeError("no dataset loaded; call tesseraLoad first")
	}
	if len(args) < 1 {
		return makeError("usage: tesseraCluster(optionsJSON)")
	}

	var opts wireClusterOptions
	if err := json.Unmarshal([]byte(args[0].String()), &opts); err != nil {
		return makeError("invalid options JSON: " + err.Error())
	}
	if opts.Method == "" {
		opts.Method = clustering.MethodKMeans
	}

	labels, stats, err := clustering.Cluster(current.Embeddings, clustering.Options{
		Method:     opts.Method,
		NClusters:  opts.NClusters,
		MinSamples: opts.MinSamples,
		Seed:       opts.Seed,
	})
	if err != nil {
		return makeError(err.Error())
	}

	wireLabels := make([]interface{}, len(labels))
	for i, l := range labels {
		wireLabels[i] = l
	}
	return map[string]interface{}{
		"labels":     wireLabels,
		"n_clusters": stats.NClusters,
		"n_noise":    stats.NNoise,
	}
}

func clearDataset(this js.Value, args []js.Value) interface{} {
	current = nil
	return map[string]interface{}{"cleared": true}
}

func getStats(this js.Value, args []js.Value) interface{} {
	if current == nil {
		return map[string]interface{}{"loaded": false}
	}
	return map[string]interface{}{
		"loaded":         true,
		"name":           current.Name,
		"n_episodes":     current.Count(),
		"embedding_dim":  current.Dimension(),
		"has_embeddings": current.HasEmbeddings(),
	}
}

func makeError(msg string) map[string]interface{} {
	return map[string]interface{}{"error": msg}
}
