package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/digest/internal/core/domain"
)

var (
	cleanRemoveStopwords     bool
	cleanNormalizeWhitespace bool
	cleanRemoveSpecialChars  bool
	cleanMinSentenceLength   int
	cleanPreview             bool
	cleanSampleSize          int
	cleanShow                bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [doc-id]",
	Short: "Clean extracted text into sentences",
	Long: `Normalises the extracted text of a document and splits it into the
sentence corpus used by every summariser.

Flags not given on the command line fall back to the cleaning.* settings.
Use --preview to see the effect on a sample without storing anything,
or --show to print the stored result.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	def := domain.DefaultCleaningOptions()
	cleanCmd.Flags().BoolVar(&cleanRemoveStopwords, "remove-stopwords", def.RemoveStopwords, "drop English stopwords")
	cleanCmd.Flags().BoolVar(&cleanNormalizeWhitespace, "normalize-whitespace", def.NormalizeWhitespace,
		"collapse runs of spaces")
	cleanCmd.Flags().BoolVar(&cleanRemoveSpecialChars, "remove-special-chars", def.RemoveSpecialChars,
		"strip characters other than letters, digits and punctuation")
	cleanCmd.Flags().IntVar(&cleanMinSentenceLength, "min-sentence-length", def.MinSentenceLength,
		"drop sentences shorter than this many characters")
	cleanCmd.Flags().BoolVar(&cleanPreview, "preview", false, "show a sample without storing")
	cleanCmd.Flags().IntVar(&cleanSampleSize, "sample-size", 500, "preview sample size in characters")
	cleanCmd.Flags().BoolVar(&cleanShow, "show", false, "print the stored cleaned text")
	rootCmd.AddCommand(cleanCmd)
}

// cleaningOptions starts from the stored settings and applies explicit flags.
func cleaningOptions(cmd *cobra.Command) domain.CleaningOptions {
	opts := currentSettings().Cleaning
	flags := cmd.Flags()
	if flags.Changed("remove-stopwords") {
		opts.RemoveStopwords = cleanRemoveStopwords
	}
	if flags.Changed("normalize-whitespace") {
		opts.NormalizeWhitespace = cleanNormalizeWhitespace
	}
	if flags.Changed("remove-special-chars") {
		opts.RemoveSpecialChars = cleanRemoveSpecialChars
	}
	if flags.Changed("min-sentence-length") {
		opts.MinSentenceLength = cleanMinSentenceLength
	}
	return opts
}

func runClean(cmd *cobra.Command, args []string) error {
	if cleaningService == nil {
		return errors.New("cleaning service not configured")
	}

	ctx := cmd.Context()
	docID := args[0]

	if cleanShow {
		cleaned, err := cleaningService.Get(ctx, docID)
		if err != nil {
			return fmt.Errorf("failed to get cleaned text: %w", err)
		}
		cmd.Println(cleaned.Text)
		return nil
	}

	opts := cleaningOptions(cmd)

	if cleanPreview {
		preview, err := cleaningService.Preview(ctx, docID, opts, cleanSampleSize)
		if err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
		cmd.Printf("Preview for %s (%.1f%% reduction)\n\n", docID, preview.ReductionPercent)
		cmd.Println("Original:")
		cmd.Printf("  %s\n\n", preview.OriginalSample)
		cmd.Println("Cleaned:")
		cmd.Printf("  %s\n", preview.CleanedSample)
		if len(preview.SampleSentences) > 0 {
			cmd.Println("\nSentences:")
			for i, s := range preview.SampleSentences {
				cmd.Printf("  [%d] %s\n", i+1, s)
			}
		}
		return nil
	}

	cleaned, err := cleaningService.Clean(ctx, docID, opts)
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}

	cmd.Printf("Cleaned %s\n", docID)
	cmd.Printf("  Sentences: %d\n", cleaned.SentenceCount)
	cmd.Printf("  Words:     %d\n", cleaned.WordCount)
	cmd.Printf("  Length:    %d -> %d chars\n", cleaned.OriginalLength, cleaned.CleanedLength)
	if cleaned.FilePath != "" {
		cmd.Printf("  Text:      %s\n", cleaned.FilePath)
	}
	return nil
}
