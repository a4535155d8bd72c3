package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/arpitg1304/tessera/internal/adapter/dataset"
	"github.com/arpitg1304/tessera/internal/usecase"
)

var (
	summaryProject string
	summarySeed    int64
	summaryJSON    bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary [dataset]",
	Short: "Summarize a dataset's metadata and embeddings",
	Long: `Print per-field metadata summaries and basic embedding statistics.
For registered projects the summary is cached in the project store.

Examples:
  tessera summary run.tsr
  tessera summary --project 3f8a2k9q --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryProject, "project", "p", "", "registered project id")
	summaryCmd.Flags().Int64Var(&summarySeed, "seed", -1, "random seed for embedding stats sampling (default from config)")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output as JSON")
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	var datasetPath string
	if len(args) > 0 {
		datasetPath = args[0]
	}

	seed := summarySeed
	if seed < 0 {
		seed = cfg.Sampling.DefaultSeed
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	uc := usecase.NewInspectUseCase(loader, st, dataset.Limits{
		MaxEpisodes:  cfg.Limits.MaxEpisodes,
		MaxDimension: cfg.Limits.MaxDimension,
	})
	summary, err := uc.Summarize(datasetPath, summaryProject, seed)
	if err != nil {
		return err
	}

	if summaryJSON {
		data, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s: %d episodes", summary.Name, summary.NEpisodes)
	if summary.HasEmbeddings {
		fmt.Printf(", %d-dim embeddings", summary.EmbeddingDim)
	}
	fmt.Println()

	fields := make([]string, 0, len(summary.Fields))
	for field := range summary.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fs := summary.Fields[field]
		fmt.Printf("  %s (%s)", field, fs.Type)
		switch {
		case fs.Min != nil && fs.Max != nil && fs.Mean != nil:
			fmt.Printf(": min %.4g, max %.4g, mean %.4g", *fs.Min, *fs.Max, *fs.Mean)
		case fs.TrueCount != nil && fs.FalseCount != nil:
			fmt.Printf(": %d true, %d false", *fs.TrueCount, *fs.FalseCount)
		case fs.UniqueCount != nil:
			fmt.Printf(": %d distinct values", *fs.UniqueCount)
		}
		fmt.Println()
	}

	if s := summary.EmbeddingStats; s != nil {
		fmt.Printf("  embedding norm: min %.4f, max %.4f, mean %.4f\n", s.NormMin, s.NormMax, s.NormMean)
	}
	return nil
}
