package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arpitg1304/tessera/internal/usecase"
)

var (
	exportProject   string
	exportSelection uint64
	exportIndices   string
	exportFormat    string
	exportMetadata  bool
	exportOutput    string
)

var exportCmd = &cobra.Command{
	Use:   "export [dataset]",
	Short: "Export a selection as JSON or CSV",
	Long: `Export the episode IDs of a saved selection or an explicit index set,
optionally with their metadata columns.

Examples:
  tessera export run.tsr --indices 3,17,42 -f csv -o picks.csv
  tessera export --project 3f8a2k9q --selection 2 --metadata`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportProject, "project", "p", "", "registered project id")
	exportCmd.Flags().Uint64Var(&exportSelection, "selection", 0, "saved selection id (requires --project)")
	exportCmd.Flags().StringVar(&exportIndices, "indices", "", "comma-separated episode indices")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", usecase.FormatJSON, "output format (json, csv)")
	exportCmd.Flags().BoolVar(&exportMetadata, "metadata", false, "include metadata columns")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	var datasetPath string
	if len(args) > 0 {
		datasetPath = args[0]
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	params := usecase.ExportParams{
		DatasetPath:     datasetPath,
		ProjectID:       exportProject,
		SelectionID:     exportSelection,
		Format:          exportFormat,
		IncludeMetadata: exportMetadata,
	}
	if exportIndices != "" {
		params.Indices, err = parseIndices(exportIndices)
		if err != nil {
			return err
		}
	}

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	uc := usecase.NewExportUseCase(loader, st)
	if err := uc.Export(out, params); err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", exportOutput)
	}
	return nil
}
