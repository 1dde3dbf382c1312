package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract [schema]",
	Short: "Extract structured records from the ingested documents",
	Long: `Extracts a structured schedule from the ingested documents and prints
it as a table. Known schemas: door_schedule, room_summary, equipment_list.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	result, err := extractionService.Extract(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(result.Records) == 0 {
		cmd.Printf("No %s records could be extracted.\n", result.Schema)
		return nil
	}

	cmd.Printf("%s (%d records):\n\n", result.Schema, len(result.Records))
	printRecords(cmd, result.Schema, result.Records)

	if len(result.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, s := range result.Sources {
			cmd.Printf("  [%d] %s, page %d\n", i+1, s.FileName, s.Page)
		}
	}
	return nil
}

// printRecords renders records as an aligned table. Columns follow the
// schema's declaration order, the way the printed schedules read; keys
// the schema does not declare come last, alphabetically.
func printRecords(cmd *cobra.Command, schemaName string, records []domain.Record) {
	columns := recordColumns(schemaName, records)
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}

	rows := make([][]string, len(records))
	for r, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = formatValue(record[col])
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
		rows[r] = row
	}

	var header strings.Builder
	for i, col := range columns {
		header.WriteString(fmt.Sprintf("%-*s  ", widths[i], strings.ToUpper(col)))
	}
	cmd.Println(strings.TrimRight(header.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			line.WriteString(fmt.Sprintf("%-*s  ", widths[i], cell))
		}
		cmd.Println(strings.TrimRight(line.String(), " "))
	}
}

// recordColumns returns the union of record keys: schema fields first in
// declaration order, then any undeclared keys sorted.
func recordColumns(schemaName string, records []domain.Record) []string {
	present := make(map[string]bool)
	for _, r := range records {
		for k := range r {
			present[k] = true
		}
	}

	var columns []string
	for _, s := range domain.BuiltinSchemas() {
		if s.Name != schemaName {
			continue
		}
		for _, name := range s.FieldNames() {
			if present[name] {
				columns = append(columns, name)
				delete(present, name)
			}
		}
		break
	}

	extras := make([]string, 0, len(present))
	for k := range present {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	return append(columns, extras...)
}

func formatValue(v any) string {
	if v == nil {
		return "-"
	}
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%.2f", n)
	default:
		return fmt.Sprintf("%v", v)
	}
}
