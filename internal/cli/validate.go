package cli

import (
	"encoding/json"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/arpitg1304/tessera/internal/adapter/dataset"
	"github.com/arpitg1304/tessera/internal/adapter/fs"
	"github.com/arpitg1304/tessera/internal/usecase"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate <path|glob>...",
	Short: "Check dataset files against the configured limits",
	Long: `Validate one or more dataset files. Arguments may be files, directories
(scanned recursively) or glob patterns.

Examples:
  tessera validate run.tsr
  tessera validate data/
  tessera validate 'data/**/*.tsr' --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	walker := fs.NewWalker(nil, nil)
	var paths []string
	for _, arg := range args {
		resolved, err := walker.Resolve(arg)
		if err != nil {
			return fmt.Errorf("failed to resolve %q: %w", arg, err)
		}
		paths = append(paths, resolved...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no dataset files found")
	}

	uc := usecase.NewInspectUseCase(loader, nil, dataset.Limits{
		MaxEpisodes:  cfg.Limits.MaxEpisodes,
		MaxDimension: cfg.Limits.MaxDimension,
	})

	var bar *progressbar.ProgressBar
	if !validateJSON && len(paths) > 1 {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Validating[reset]"),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)
	}

	reports := make([]usecase.FileReport, 0, len(paths))
	for _, path := range paths {
		reports = append(reports, uc.Validate([]string{path})...)
		if bar != nil {
			bar.Add(1)
		}
	}

	if validateJSON {
		data, _ := json.MarshalIndent(reports, "", "  ")
		fmt.Println(string(data))
	} else {
		printReports(reports)
	}

	for _, r := range reports {
		if !r.Result.Valid {
			return fmt.Errorf("%d of %d files failed validation", countInvalid(reports), len(reports))
		}
	}
	return nil
}

func printReports(reports []usecase.FileReport) {
	for _, r := range reports {
		status := "ok"
		if !r.Result.Valid {
			status = "FAILED"
		}
		fmt.Printf("%s: %s (%d episodes, dim %d)\n", r.Path, status, r.Result.NEpisodes, r.Result.EmbeddingDim)
		for _, e := range r.Result.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		for _, w := range r.Result.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}
}

func countInvalid(reports []usecase.FileReport) int {
	n := 0
	for _, r := range reports {
		if !r.Result.Valid {
			n++
		}
	}
	return n
}
