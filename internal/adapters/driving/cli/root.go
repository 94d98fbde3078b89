// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	embeddingopenai "github.com/quillhq/paperchat/internal/adapters/driven/embedding/openai"
	"github.com/quillhq/paperchat/internal/adapters/driven/extract/auto"
	generatoropenai "github.com/quillhq/paperchat/internal/adapters/driven/generator/openai"
	"github.com/quillhq/paperchat/internal/adapters/driven/storage/file"
	"github.com/quillhq/paperchat/internal/adapters/driven/storage/sqlite"
	"github.com/quillhq/paperchat/internal/config"
	"github.com/quillhq/paperchat/internal/core/ports/driving"
	"github.com/quillhq/paperchat/internal/core/services"
	"github.com/quillhq/paperchat/internal/logger"
	"github.com/quillhq/paperchat/internal/splitter"
)

// version is set at build time via -ldflags.
var version = "dev"

// Flags shared across commands.
var (
	verboseFlag bool
	configDir   string
)

// Services wired by initServices and used by the commands.
var (
	cfg          *config.Config
	owner        string
	store        *sqlite.Store
	paperService driving.PaperService
	retriever    driving.Retriever
	chatService  driving.ChatService
)

var rootCmd = &cobra.Command{
	Use:   "paperchat",
	Short: "Chat with your papers",
	Long: `Paperchat ingests documents, indexes them with vector embeddings,
and answers questions about them with page-level citations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			if err := store.Close(); err != nil {
				logger.Warn("Closing store: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.paperchat)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initServices loads configuration and wires the full service graph.
func initServices() error {
	// A .env in the working directory is a convenience, not a requirement.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	owner = cfg.Owner

	store, err = sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	byteStore, err := file.NewByteStore("")
	if err != nil {
		return fmt.Errorf("open byte store: %w", err)
	}

	if cfg.OpenAI.APIKey == "" {
		return errors.New("OPENAI_API_KEY is not set (environment, .env or config.toml)")
	}

	embedder, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
		APIKey:            cfg.OpenAI.APIKey,
		BaseURL:           cfg.OpenAI.BaseURL,
		Model:             cfg.OpenAI.EmbeddingModel,
		Timeout:           cfg.OpenAI.RequestTimeout,
		RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
	})
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}

	generator, err := generatoropenai.NewGenerator(generatoropenai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.ChatModel,
		Timeout: cfg.OpenAI.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("create generator: %w", err)
	}

	var splitOpts []splitter.Option
	if cfg.Chunking.ChunkSize > 0 {
		splitOpts = append(splitOpts, splitter.WithChunkSize(cfg.Chunking.ChunkSize))
	}
	if cfg.Chunking.MinChunkSize > 0 {
		splitOpts = append(splitOpts, splitter.WithMinChunkSize(cfg.Chunking.MinChunkSize))
	}
	if cfg.Chunking.Overlap > 0 {
		splitOpts = append(splitOpts, splitter.WithOverlap(cfg.Chunking.Overlap))
	}

	pipeline := services.NewIngestionPipeline(
		splitter.New(splitOpts...),
		embedder,
		store.ChunkStore(),
		store.StatusStore(),
	)

	retriever = services.NewRetrievalEngine(embedder, store.ChunkStore())

	paperService = services.NewPaperService(
		store.PaperStore(),
		store.StatusStore(),
		store.ChunkStore(),
		store.ChatStore(),
		byteStore,
		auto.New(),
		pipeline,
	)

	chatService = services.NewChatSessionManager(
		store.ChatStore(),
		store.PaperStore(),
		retriever,
		generator,
	)

	logger.Debug("Services initialised (data dir %s)", cfg.DataDir)
	return nil
}
