package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arpitg1304/tessera/config"
	"github.com/arpitg1304/tessera/internal/adapter/cache"
	"github.com/arpitg1304/tessera/internal/adapter/dataset"
	"github.com/arpitg1304/tessera/internal/adapter/store"
)

var (
	cfgFile string
	cfg     *config.Config
	baseDir string

	// loader is shared across commands so repeated loads of the same
	// container parse it once.
	loader = cache.NewCachingLoader(dataset.Loader{}, 4, 5*time.Minute)
)

var rootCmd = &cobra.Command{
	Use:   "tessera",
	Short: "Tessera - Sample representative episode subsets from embedding datasets",
	Long: `Tessera selects representative subsets of episodes from large datasets
using their embedding vectors: diversity sampling via k-means, stratified
sampling over a metadata field, or plain random sampling. Every selection
is scored for how well it covers the full dataset.

Example usage:
  tessera validate data/*.tsr                 # Check dataset files
  tessera project create run.tsr              # Register a dataset
  tessera sample run.tsr -n 100               # Pick 100 diverse episodes
  tessera cluster run.tsr --method density    # Explore the embedding space`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if baseDir == "" {
			baseDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(baseDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tessera.yaml)")
	rootCmd.PersistentFlags().StringVarP(&baseDir, "dir", "d", "", "base directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetBaseDir() string {
	return baseDir
}

// openStore opens the project database under the base directory,
// creating the .tessera directory if needed.
func openStore() (*store.BoltStore, error) {
	if err := config.EnsureDir(baseDir); err != nil {
		return nil, fmt.Errorf("failed to create .tessera directory: %w", err)
	}
	st, err := store.NewBoltStore(config.StoreDBPath(baseDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open project store: %w", err)
	}
	return st, nil
}
