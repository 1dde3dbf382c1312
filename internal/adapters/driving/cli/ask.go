package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driving"
)

var (
	askConversationID string
	askJSON           bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested documents",
	Long: `Answers a natural-language question grounded in the ingested documents,
with citations to specific files and pages. Questions like "generate the
door schedule" return structured records instead of prose.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askConversationID, "conversation", "c", "", "continue an existing conversation")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	resp, err := chatService.Ask(cmd.Context(), args[0], askConversationID)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, resp)
	}
	return outputAskText(cmd, resp)
}

func outputAskJSON(cmd *cobra.Command, resp *driving.ChatResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, resp *driving.ChatResponse) error {
	cmd.Println(resp.Message)

	if resp.Structured != nil && len(resp.Structured.Records) > 0 {
		cmd.Println()
		printRecords(cmd, resp.Structured.Schema, resp.Structured.Records)
	}

	if len(resp.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, s := range resp.Sources {
			cmd.Printf("  [%d] %s, page %d (%.2f)\n", i+1, s.FileName, s.Page, s.Score)
		}
	}

	cmd.Println()
	cmd.Printf("Conversation: %s\n", resp.ConversationID)
	return nil
}
