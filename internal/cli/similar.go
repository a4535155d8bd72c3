package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arpitg1304/tessera/internal/usecase"
)

var (
	similarProject string
	similarIndices string
	similarK       int
	similarJSON    bool
)

var similarCmd = &cobra.Command{
	Use:   "similar [dataset]",
	Short: "Find episodes similar to a set of query episodes",
	Long: `Find the episodes nearest to the query episodes in embedding space.
Neighbours are pooled across all queries and returned by ascending
distance to the closest query.

Examples:
  tessera similar run.tsr --indices 42 -k 10
  tessera similar --project 3f8a2k9q --indices 3,17 -k 5 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().StringVarP(&similarProject, "project", "p", "", "registered project id")
	similarCmd.Flags().StringVar(&similarIndices, "indices", "", "comma-separated query episode indices (required)")
	similarCmd.Flags().IntVarP(&similarK, "top-k", "k", 10, "number of neighbours")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "output as JSON")
	similarCmd.MarkFlagRequired("indices")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	var datasetPath string
	if len(args) > 0 {
		datasetPath = args[0]
	}

	indices, err := parseIndices(similarIndices)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	uc := usecase.NewSimilarUseCase(loader, st, usecase.NewLimiter(cfg.Compute.MaxConcurrent))
	out, err := uc.Similar(context.Background(), usecase.SimilarParams{
		DatasetPath: datasetPath,
		ProjectID:   similarProject,
		Indices:     indices,
		K:           similarK,
	})
	if err != nil {
		return err
	}

	if similarJSON {
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(out.Neighbours) == 0 {
		fmt.Println("No neighbours found.")
		return nil
	}
	fmt.Printf("Nearest %d episodes:\n", len(out.Neighbours))
	for _, n := range out.Neighbours {
		fmt.Printf("  [%d] %s (distance %.4f)\n", n.Index, n.EpisodeID, n.Distance)
	}
	return nil
}
