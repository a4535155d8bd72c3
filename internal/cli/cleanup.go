package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove projects past their retention period",
	Args:  cobra.NoArgs,
	RunE:  runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	uc, closeStore, err := projectUseCase()
	if err != nil {
		return err
	}
	defer closeStore()

	removed, err := uc.Cleanup(time.Now())
	if err != nil {
		return err
	}

	if len(removed) == 0 {
		fmt.Println("No expired projects.")
		return nil
	}
	for _, p := range removed {
		fmt.Printf("Removed %s (%s, expired %s)\n", p.ID, p.DatasetName, p.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}
