package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arpitg1304/tessera/internal/sampling"
	"github.com/arpitg1304/tessera/internal/usecase"
)

var (
	sampleProject    string
	sampleStrategy   string
	sampleN          int
	sampleStratifyBy string
	sampleSeed       int64
	samplePercentile float64
	sampleSaveAs     string
	sampleJSON       bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample [dataset]",
	Short: "Select a representative subset of episodes",
	Long: `Select episodes from a dataset using the chosen strategy and score the
selection's coverage of the full dataset.

Strategies:
  diversity   k-means over the embeddings, one pick per cluster (default)
  stratified  proportional allocation over a metadata field (--stratify-by)
  random      uniform sampling without replacement

Examples:
  tessera sample run.tsr -n 100
  tessera sample run.tsr -n 50 --strategy stratified --stratify-by task
  tessera sample --project 3f8a2k9q -n 200 --save-as baseline --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().StringVarP(&sampleProject, "project", "p", "", "registered project id")
	sampleCmd.Flags().StringVarP(&sampleStrategy, "strategy", "s", sampling.StrategyDiversity, "sampling strategy (diversity, stratified, random)")
	sampleCmd.Flags().IntVarP(&sampleN, "n-samples", "n", 0, "number of episodes to select (required)")
	sampleCmd.Flags().StringVar(&sampleStratifyBy, "stratify-by", "", "metadata field for stratified sampling")
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", -1, "random seed (default from config)")
	sampleCmd.Flags().Float64Var(&samplePercentile, "percentile", 0, "coverage distance percentile (default from config)")
	sampleCmd.Flags().StringVar(&sampleSaveAs, "save-as", "", "persist the selection under this name (requires --project)")
	sampleCmd.Flags().BoolVar(&sampleJSON, "json", false, "output as JSON")
	sampleCmd.MarkFlagRequired("n-samples")
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	var datasetPath string
	if len(args) > 0 {
		datasetPath = args[0]
	}
	if datasetPath == "" && sampleProject == "" {
		return fmt.Errorf("either a dataset path or --project is required")
	}
	if sampleSaveAs != "" && sampleProject == "" {
		return fmt.Errorf("--save-as requires --project")
	}

	seed := sampleSeed
	if seed < 0 {
		seed = cfg.Sampling.DefaultSeed
	}
	percentile := samplePercentile
	if percentile <= 0 {
		percentile = cfg.Sampling.CoveragePercentile
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	uc := usecase.NewSampleUseCase(loader, st, usecase.NewLimiter(cfg.Compute.MaxConcurrent))
	out, err := uc.Sample(context.Background(), usecase.SampleParams{
		DatasetPath: datasetPath,
		ProjectID:   sampleProject,
		Strategy:    sampleStrategy,
		NSamples:    sampleN,
		StratifyBy:  sampleStratifyBy,
		Seed:        seed,
		Percentile:  percentile,
		SaveAs:      sampleSaveAs,
	})
	if err != nil {
		return err
	}

	if sampleJSON {
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Selected %d episodes (%s):\n", out.NSamples, out.Strategy)
	for i, idx := range out.Indices {
		fmt.Printf("  [%d] %s\n", idx, out.EpisodeIDs[i])
	}
	fmt.Printf("\nCoverage score: %.4f\n", out.Coverage)
	if out.SelectionID != 0 {
		fmt.Printf("Saved as selection %d (%s)\n", out.SelectionID, sampleSaveAs)
	}
	return nil
}
