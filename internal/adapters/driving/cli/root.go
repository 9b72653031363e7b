// Package cli provides the cobra command tree for the digest binary.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driving"
	"github.com/custodia-labs/digest/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose   bool
	logFormat string
)

// Services wired by main. Commands check for nil before use.
var (
	documentService    driving.DocumentService
	cleaningService    driving.CleaningService
	summaryService     driving.SummaryService
	translationService driving.TranslationService
	settingsService    driving.SettingsService
	inboxFilter        func(path string) bool
	llmAvailable       bool
)

// Services groups the driving ports the commands call.
type Services struct {
	Document    driving.DocumentService
	Cleaning    driving.CleaningService
	Summary     driving.SummaryService
	Translation driving.TranslationService
	Settings    driving.SettingsService

	// InboxFilter reports whether the watch command should ingest a file.
	InboxFilter func(path string) bool

	// LLMAvailable reports whether an abstractive summariser is wired.
	LLMAvailable bool
}

var rootCmd = &cobra.Command{
	Use:   "digest",
	Short: "Summarise documents from the command line",
	Long: `digest ingests documents, cleans them into sentence corpora and builds
extractive, abstractive, hybrid and formatted summaries. Summaries can be
translated and served over HTTP or MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		f, err := logger.ParseFormat(logFormat)
		if err != nil {
			return err
		}
		logger.SetFormat(f)
		logger.SetVerbose(verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log line format: console or json")
}

// SetServices wires the driving ports used by the commands.
func SetServices(s *Services) {
	documentService = s.Document
	cleaningService = s.Cleaning
	summaryService = s.Summary
	translationService = s.Translation
	settingsService = s.Settings
	inboxFilter = s.InboxFilter
	llmAvailable = s.LLMAvailable
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Long-running commands stop when ctx is done.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// currentSettings returns stored settings, or the defaults when none can be read.
func currentSettings() domain.AppSettings {
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s != nil {
			return *s
		}
	}
	return domain.DefaultAppSettings()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
