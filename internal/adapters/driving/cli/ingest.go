package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
	"github.com/ishika2236/ConstructionChatbot/internal/readers/pdf"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest documents into the vector index",
	Long: `Ingests a directory of construction documents (or a single file) into
the local vector index. Supported formats: PDF, plain text, markdown.
Re-ingesting an updated file replaces its previous records.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}

	if err := pdf.CheckAvailable(); err != nil {
		cmd.PrintErrln(pdf.InstallInstructions())
		cmd.PrintErrln()
	}

	ctx := cmd.Context()
	var report *domain.IngestionReport
	if info.IsDir() {
		report, err = ingestionService.Ingest(ctx, path)
	} else {
		report, err = ingestionService.IngestFile(ctx, path)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report *domain.IngestionReport) {
	cmd.Printf("Documents found:   %d\n", report.TotalDocuments)
	cmd.Printf("Documents indexed: %d\n", report.Processed)
	cmd.Printf("Chunks indexed:    %d\n", report.TotalChunks)

	if len(report.Failures) > 0 {
		cmd.Println()
		cmd.Printf("Failures (%d):\n", len(report.Failures))
		for _, f := range report.Failures {
			cmd.Printf("  %s: %s\n", f.FileName, f.Err)
		}
	}
}
