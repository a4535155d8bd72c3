package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/arpitg1304/tessera/internal/clustering"
	"github.com/arpitg1304/tessera/internal/usecase"
)

var (
	clusterProject    string
	clusterMethod     string
	clusterN          int
	clusterMinSamples int
	clusterSeed       int64
	clusterJSON       bool
)

var clusterCmd = &cobra.Command{
	Use:   "cluster [dataset]",
	Short: "Group a dataset's embeddings into clusters",
	Long: `Cluster the embedding space to explore a dataset's structure.

Methods:
  kmeans   fixed number of clusters, chosen automatically when --n-clusters
           is omitted (default)
  density  DBSCAN with an automatically estimated neighbourhood radius;
           outliers get the noise label -1

Examples:
  tessera cluster run.tsr
  tessera cluster run.tsr --n-clusters 12 --json
  tessera cluster run.tsr --method density --min-samples 8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCluster,
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.Flags().StringVarP(&clusterProject, "project", "p", "", "registered project id")
	clusterCmd.Flags().StringVarP(&clusterMethod, "method", "m", clustering.MethodKMeans, "clustering method (kmeans, density)")
	clusterCmd.Flags().IntVar(&clusterN, "n-clusters", 0, "number of clusters (0 = automatic)")
	clusterCmd.Flags().IntVar(&clusterMinSamples, "min-samples", 0, "density method: neighbours required for a core point (0 = default)")
	clusterCmd.Flags().Int64Var(&clusterSeed, "seed", -1, "random seed (default from config)")
	clusterCmd.Flags().BoolVar(&clusterJSON, "json", false, "output as JSON")
}

func runCluster(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	var datasetPath string
	if len(args) > 0 {
		datasetPath = args[0]
	}

	seed := clusterSeed
	if seed < 0 {
		seed = cfg.Sampling.DefaultSeed
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	uc := usecase.NewClusterUseCase(loader, st, usecase.NewLimiter(cfg.Compute.MaxConcurrent))
	out, err := uc.Cluster(context.Background(), usecase.ClusterParams{
		DatasetPath: datasetPath,
		ProjectID:   clusterProject,
		Method:      clusterMethod,
		NClusters:   clusterN,
		MinSamples:  clusterMinSamples,
		Seed:        seed,
	})
	if err != nil {
		return err
	}

	if clusterJSON {
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	stats := out.Stats
	fmt.Printf("Clustered %d episodes with %s into %d clusters\n", len(out.Labels), stats.Method, stats.NClusters)

	labels := make([]int, 0, len(stats.ClusterSizes))
	for label := range stats.ClusterSizes {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	for _, label := range labels {
		if label == clustering.NoiseLabel {
			continue
		}
		fmt.Printf("  cluster %d: %d episodes\n", label, stats.ClusterSizes[label])
	}

	switch stats.Method {
	case clustering.MethodKMeans:
		fmt.Printf("Inertia: %.4f after %d iterations\n", stats.Inertia, stats.Iterations)
	case clustering.MethodDensity:
		fmt.Printf("Eps: %.4f, min samples: %d\n", stats.Eps, stats.MinSamples)
		if stats.NNoise > 0 {
			fmt.Printf("Noise: %d episodes (%.1f%%)\n", stats.NNoise, stats.NoiseRatio*100)
		}
	}
	return nil
}
