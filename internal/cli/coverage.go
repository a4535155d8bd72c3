package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arpitg1304/tessera/internal/usecase"
)

var (
	coverageProject    string
	coverageIndices    string
	coverageSelection  uint64
	coveragePercentile float64
	coverageJSON       bool
)

var coverageCmd = &cobra.Command{
	Use:   "coverage [dataset]",
	Short: "Score how well an index set covers a dataset",
	Long: `Score an arbitrary set of episode indices against the full dataset.
The indices come either from --indices or from a saved selection.

Examples:
  tessera coverage run.tsr --indices 3,17,42,105
  tessera coverage --project 3f8a2k9q --selection 2 --percentile 90`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCoverage,
}

func init() {
	rootCmd.AddCommand(coverageCmd)
	coverageCmd.Flags().StringVarP(&coverageProject, "project", "p", "", "registered project id")
	coverageCmd.Flags().StringVar(&coverageIndices, "indices", "", "comma-separated episode indices")
	coverageCmd.Flags().Uint64Var(&coverageSelection, "selection", 0, "saved selection id (requires --project)")
	coverageCmd.Flags().Float64Var(&coveragePercentile, "percentile", 0, "coverage distance percentile (default from config)")
	coverageCmd.Flags().BoolVar(&coverageJSON, "json", false, "output as JSON")
}

func runCoverage(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	var datasetPath string
	if len(args) > 0 {
		datasetPath = args[0]
	}

	percentile := coveragePercentile
	if percentile <= 0 {
		percentile = cfg.Sampling.CoveragePercentile
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var indices []int
	switch {
	case coverageIndices != "":
		indices, err = parseIndices(coverageIndices)
		if err != nil {
			return err
		}
	case coverageSelection != 0:
		if coverageProject == "" {
			return fmt.Errorf("--selection requires --project")
		}
		sel, err := st.GetSelection(coverageProject, coverageSelection)
		if err != nil {
			return err
		}
		indices = sel.Indices
	default:
		return fmt.Errorf("either --indices or --selection is required")
	}

	uc := usecase.NewSampleUseCase(loader, st, usecase.NewLimiter(cfg.Compute.MaxConcurrent))
	score, err := uc.Coverage(context.Background(), datasetPath, coverageProject, indices, percentile)
	if err != nil {
		return err
	}

	if coverageJSON {
		data, _ := json.MarshalIndent(map[string]any{
			"n_selected":     len(indices),
			"percentile":     percentile,
			"coverage_score": score,
		}, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Coverage score: %.4f (%d episodes, p%.0f threshold)\n", score, len(indices), percentile)
	return nil
}

func parseIndices(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	indices := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %w", p, err)
		}
		indices = append(indices, idx)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("no indices given")
	}
	return indices, nil
}
