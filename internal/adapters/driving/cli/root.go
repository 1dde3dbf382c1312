// Package cli implements the command-line interface. Commands talk to
// the core services through the driving ports; service construction
// happens once in the root command's PersistentPreRunE.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	ollamaembed "github.com/ishika2236/ConstructionChatbot/internal/adapters/driven/embedding/ollama"
	"github.com/ishika2236/ConstructionChatbot/internal/adapters/driven/extract"
	"github.com/ishika2236/ConstructionChatbot/internal/adapters/driven/index/sqlite"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driven"
	"github.com/ishika2236/ConstructionChatbot/internal/core/ports/driving"
	"github.com/ishika2236/ConstructionChatbot/internal/core/services"
	"github.com/ishika2236/ConstructionChatbot/internal/logger"
	"github.com/ishika2236/ConstructionChatbot/internal/postprocessors"
	"github.com/ishika2236/ConstructionChatbot/internal/postprocessors/chunker"
	"github.com/ishika2236/ConstructionChatbot/internal/readers/pdf"
	"github.com/ishika2236/ConstructionChatbot/internal/readers/plaintext"

	configfile "github.com/ishika2236/ConstructionChatbot/internal/adapters/driven/config/file"
	openaiembed "github.com/ishika2236/ConstructionChatbot/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/ishika2236/ConstructionChatbot/internal/adapters/driven/llm/anthropic"
	openaillm "github.com/ishika2236/ConstructionChatbot/internal/adapters/driven/llm/openai"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose enables debug logging.
var verbose bool

// configDir overrides the default ~/.constructchat directory.
var configDir string

// Services wired in initServices and consumed by the commands.
var (
	configStore       driven.ConfigStore
	vectorIndex       driven.VectorIndex
	ingestionService  driving.IngestionService
	chatService       driving.ChatService
	extractionService driving.ExtractionService
)

var rootCmd = &cobra.Command{
	Use:   "constructchat",
	Short: "Chat with your construction documents",
	Long: `constructchat ingests construction PDFs and specifications into a local
vector index and answers questions about them with citations. Questions
like "generate the door schedule" produce structured, validated records.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.constructchat)")
}

// Execute runs the CLI. The command context is cancelled on interrupt
// so long-running commands stop cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// initServices builds the adapter stack and core services. The version
// command skips wiring so it works without any configuration.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Name() == "version" {
		return nil
	}

	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	configStore = store

	index, err := sqlite.NewIndex(store.GetString(configfile.KeyDataDir))
	if err != nil {
		return fmt.Errorf("open vector index: %w", err)
	}
	vectorIndex = index

	embedder, err := buildEmbedder(store)
	if err != nil {
		return err
	}

	llm, err := buildLLM(store)
	if err != nil {
		return err
	}

	chunkOpts := []chunker.Option{}
	if size := store.GetInt(configfile.KeyChunkSize); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(size))
	}
	if overlap := store.GetInt(configfile.KeyChunkOverlap); overlap > 0 {
		chunkOpts = append(chunkOpts, chunker.WithOverlap(overlap))
	}
	pipeline := postprocessors.NewPipeline(chunker.New(chunkOpts...))

	readers := []driven.DocumentReader{pdf.New(), plaintext.New()}

	ingestionService = services.NewIngestionService(readers, pipeline, embedder, index, services.IngestionConfig{
		EmbedBatchSize: store.GetInt(configfile.KeyEmbedBatchSize),
		Parallelism:    store.GetInt(configfile.KeyIngestParallelism),
	})

	retriever := services.NewRetriever(embedder, index, llm, services.RetrieverConfig{
		TopK:                store.GetInt(configfile.KeyTopK),
		SimilarityThreshold: store.GetFloat(configfile.KeySimilarityThreshold),
		ContextBudget:       store.GetInt(configfile.KeyContextBudget),
	})

	extractionService = services.NewExtractionService(retriever, []driven.RecordExtractor{
		extract.NewLLMExtractor(llm),
		extract.NewPatternExtractor(),
	})

	chatService = services.NewChatService(retriever, extractionService, services.NewConversationStore())
	return nil
}

// buildEmbedder selects the embedding provider. OpenAI is used when an
// API key is available; otherwise a local Ollama server.
func buildEmbedder(store driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := store.GetString(configfile.KeyEmbeddingProvider)
	apiKey := os.Getenv("OPENAI_API_KEY")
	if provider == "" {
		if apiKey != "" {
			provider = "openai"
		} else {
			provider = "ollama"
		}
	}

	switch provider {
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  apiKey,
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   store.GetString(configfile.KeyEmbeddingModel),
		})
	case "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: os.Getenv("OLLAMA_HOST"),
			Model:   store.GetString(configfile.KeyEmbeddingModel),
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildLLM selects the completion provider.
func buildLLM(store driven.ConfigStore) (driven.LLMService, error) {
	provider := store.GetString(configfile.KeyLLMProvider)
	if provider == "" {
		if os.Getenv("ANTHROPIC_API_KEY") != "" {
			provider = "anthropic"
		} else {
			provider = "openai"
		}
	}

	switch provider {
	case "openai":
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   store.GetString(configfile.KeyLLMModel),
		})
	case "anthropic":
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:  store.GetString(configfile.KeyLLMModel),
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
