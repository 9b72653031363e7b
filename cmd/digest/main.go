// Command digest summarises documents from the command line, over HTTP and over MCP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/digest/internal/adapters/driven/ai"
	"github.com/custodia-labs/digest/internal/adapters/driven/config/file"
	filestore "github.com/custodia-labs/digest/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/digest/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/digest/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/digest/internal/adapters/driving/cli"
	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/core/services"
	"github.com/custodia-labs/digest/internal/logger"
	"github.com/custodia-labs/digest/internal/normalisers"
	"github.com/custodia-labs/digest/internal/normalisers/docx"
	"github.com/custodia-labs/digest/internal/normalisers/html"
	"github.com/custodia-labs/digest/internal/normalisers/markdown"
	"github.com/custodia-labs/digest/internal/normalisers/plaintext"
	"github.com/custodia-labs/digest/internal/simcache"
	"github.com/custodia-labs/digest/internal/workerpool"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is normal; secrets may come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	var configStore driven.ConfigStore
	if fileStore, err := file.NewConfigStore(""); err == nil {
		configStore = fileStore
	} else {
		fmt.Fprintf(os.Stderr, "Warning: config unavailable (%v); using defaults for this run\n", err)
		configStore = memory.NewConfigStore()
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		// The LLM section survives the reset.
		fmt.Fprintf(os.Stderr, "Warning: %v; using default settings (fix with 'digest settings set')\n", err)
		defaults := settingsService.GetDefaults()
		defaults.LLM = settings.LLM
		settings = &defaults
	}

	store, err := openStore(settings.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompts: %w", err)
	}

	aiServices := ai.Init(ctx, settings, prompts)
	defer aiServices.Close()
	for _, w := range aiServices.Warnings {
		logger.Warn("%s", w)
	}

	registry := normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
	)

	documentService := services.NewDocumentService(store, registry)
	cleaningService := services.NewCleaningService(store, nil)

	var summariser driven.AbstractiveSummariser
	if aiServices.LLMService != nil {
		summariser = aiServices.LLMService
	}
	sum := settings.Summary
	summaryService := services.NewSummaryOrchestrator(store, summariser,
		services.WithPool(workerpool.New(sum.Workers)),
		services.WithCache(simcache.New(sum.CacheSize, sum.CacheTTL)),
		services.WithChunking(sum.ChunkWords, sum.MinChunkChars, sum.Workers),
		services.WithTimeout(sum.Timeout),
		services.WithCleaner(cleaningService, settings.Cleaning),
	)

	translationOpts := []services.TranslationOption{
		services.WithDefaultProvider(settings.Translation.Provider),
		services.WithTranslateTimeout(sum.Timeout),
	}
	for provider, t := range aiServices.Translators {
		translationOpts = append(translationOpts, services.WithTranslator(provider, t))
	}
	translationService := services.NewTranslationService(store, translationOpts...)

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Document:     documentService,
		Cleaning:     cleaningService,
		Summary:      summaryService,
		Translation:  translationService,
		Settings:     settingsService,
		InboxFilter:  registry.Supports,
		LLMAvailable: summariser != nil,
	})

	return cli.Execute(ctx)
}

// openStore opens the configured artifact store.
func openStore(cfg domain.StorageSettings) (driven.ArtifactStore, error) {
	switch cfg.Backend {
	case domain.StorageMemory:
		return memory.NewArtifactStore(), nil

	case domain.StorageFile:
		dir := cfg.DataDir
		if dir == "" {
			base, err := sqlite.DefaultDataDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(base, "artifacts")
		}
		store, err := filestore.NewStore(dir)
		if err != nil {
			return nil, fmt.Errorf("opening file store: %w", err)
		}
		return store, nil

	default:
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil
	}
}
