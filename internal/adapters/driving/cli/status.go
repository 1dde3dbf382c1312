package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the contents of the vector index",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if vectorIndex == nil {
		return errors.New("vector index not configured")
	}

	ctx := cmd.Context()
	total, err := vectorIndex.Count(ctx)
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}

	stats, err := vectorIndex.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	cmd.Printf("Indexed documents: %d\n", len(stats))
	cmd.Printf("Indexed chunks:    %d\n", total)

	if len(stats) > 0 {
		cmd.Println()
		for _, s := range stats {
			cmd.Printf("  %s  (%d chunks)\n", s.FileName, s.ChunkCount)
		}
	}
	return nil
}
