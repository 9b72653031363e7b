package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/digest/internal/core/domain"
)

var (
	translateType     string
	translateLanguage string
	translateProvider string
	translateShow     bool
	translateJSON     bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [doc-id]",
	Short: "Translate a stored summary",
	Long: `Translates the latest summary of a type into English, Hindi or Marathi.

Providers:
  libre - a LibreTranslate server (translation.libre_url)
  llm   - the configured LLM
  auto  - libre, falling back to llm`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

var translateLanguagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported target languages",
	Args:  cobra.NoArgs,
	RunE:  runTranslateLanguages,
}

func init() {
	translateCmd.Flags().StringVarP(&translateType, "type", "t", string(domain.SummaryHybrid),
		"summary type to translate")
	translateCmd.Flags().StringVarP(&translateLanguage, "language", "l", "hindi", "target language name or code")
	translateCmd.Flags().StringVarP(&translateProvider, "provider", "p", "",
		"libre, llm or auto (default from settings)")
	translateCmd.Flags().BoolVar(&translateShow, "show", false, "print the stored translation instead of translating")
	translateCmd.Flags().BoolVar(&translateJSON, "json", false, "output the translation record as JSON")

	translateCmd.AddCommand(translateLanguagesCmd)
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	if translationService == nil {
		return errors.New("translation service not configured")
	}

	t, err := domain.ParseSummaryType(translateType)
	if err != nil {
		return err
	}

	var rec *domain.TranslationRecord
	if translateShow {
		rec, err = translationService.Get(cmd.Context(), args[0], t, translateLanguage)
	} else {
		rec, err = translationService.TranslateSummary(cmd.Context(), args[0], t, translateLanguage,
			domain.TranslationProvider(translateProvider))
	}
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	if translateJSON {
		return printJSON(cmd, rec)
	}

	cmd.Println(rec.TranslatedText)
	cmd.Println()
	cmd.Printf("[%s summary -> %s via %s]\n", rec.SummaryType, rec.TargetLanguage, rec.Provider)
	if rec.FilePath != "" {
		cmd.Printf("Saved to %s\n", rec.FilePath)
	}
	return nil
}

func runTranslateLanguages(cmd *cobra.Command, _ []string) error {
	languages := domain.SupportedLanguages()
	if translationService != nil {
		languages = translationService.Languages()
	}

	cmd.Println("Supported languages:")
	for _, l := range languages {
		cmd.Printf("  %-10s %s\n", l.Name, l.Code)
	}
	return nil
}
