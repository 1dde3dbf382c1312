package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
)

func captureOutput(fn func(cmd *cobra.Command)) string {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	fn(cmd)
	return buf.String()
}

func TestPrintRecords_AlignedTable(t *testing.T) {
	records := []domain.Record{
		{"mark": "D-101", "width_mm": float64(914), "fire_rating": "1 HR"},
		{"mark": "D-102", "width_mm": nil, "fire_rating": nil},
	}

	out := captureOutput(func(cmd *cobra.Command) {
		printRecords(cmd, "door_schedule", records)
	})

	assert.Contains(t, out, "MARK")
	assert.Contains(t, out, "WIDTH_MM")
	assert.Contains(t, out, "D-101")
	assert.Contains(t, out, "914")
	assert.Contains(t, out, "-", "null values render as a dash")

	header := strings.SplitN(out, "\n", 2)[0]
	assert.True(t, strings.HasPrefix(header, "MARK"), "mark column leads, as declared: %q", header)
}

func TestRecordColumns_UnknownSchemaSortsKeys(t *testing.T) {
	records := []domain.Record{
		{"b": 1, "a": 2},
		{"c": 3, "a": 4},
	}
	cols := recordColumns("window_schedule", records)
	require.Equal(t, []string{"a", "b", "c"}, cols)
}

func TestRecordColumns_SchemaDeclarationOrder(t *testing.T) {
	records := []domain.Record{
		{"fire_rating": "1 HR", "mark": "D-101", "width_mm": 914, "note": "pair"},
	}
	cols := recordColumns("door_schedule", records)
	require.Equal(t, []string{"mark", "width_mm", "fire_rating", "note"}, cols)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "-", formatValue(nil))
	assert.Equal(t, "914", formatValue(float64(914)))
	assert.Equal(t, "3.14", formatValue(3.14))
	assert.Equal(t, "1 HR", formatValue("1 HR"))
	assert.Equal(t, "42", formatValue(42))
}

func TestExtractCmd_Use(t *testing.T) {
	assert.Equal(t, "extract [schema]", extractCmd.Use)
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [path]", ingestCmd.Use)
}

func TestAskCmd_Flags(t *testing.T) {
	assert.NotNil(t, askCmd.Flags().Lookup("conversation"))
	assert.NotNil(t, askCmd.Flags().Lookup("json"))
}
