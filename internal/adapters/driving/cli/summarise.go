package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/digest/internal/core/domain"
)

var (
	summaryJSON            bool
	summaryRatio           float64
	summaryAlgorithm       string
	summaryNoCache         bool
	summaryMaxLength       int
	summaryMinLength       int
	summaryModel           string
	summaryExtractiveRatio float64
	summaryType            string
)

var summariseCmd = &cobra.Command{
	Use:     "summarise",
	Aliases: []string{"summarize"},
	Short:   "Build and view summaries",
	Long: `Builds summaries from a cleaned document.

  extractive  - ranks sentences and keeps the best (no LLM needed)
  abstractive - rewrites the cleaned text through the configured LLM
  hybrid      - extractive first, then rewritten by the LLM
  formatted   - hybrid plus title, objective, key points and sections`,
}

var summariseExtractiveCmd = &cobra.Command{
	Use:   "extractive [doc-id]",
	Short: "Select the highest-ranked sentences",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummariseExtractive,
}

var summariseAbstractiveCmd = &cobra.Command{
	Use:   "abstractive [doc-id]",
	Short: "Rewrite the document through the LLM",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummariseAbstractive,
}

var summariseHybridCmd = &cobra.Command{
	Use:   "hybrid [doc-id]",
	Short: "Rewrite an extractive summary through the LLM",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummariseHybrid,
}

var summariseFormattedCmd = &cobra.Command{
	Use:   "formatted [doc-id]",
	Short: "Build a structured hybrid summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummariseFormatted,
}

var summariseGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show the stored summary of a type",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummariseGet,
}

func init() {
	summariseCmd.PersistentFlags().BoolVar(&summaryJSON, "json", false, "output the summary record as JSON")

	summariseExtractiveCmd.Flags().Float64VarP(&summaryRatio, "ratio", "r", 0, "fraction of sentences to keep (default from settings)")
	summariseExtractiveCmd.Flags().StringVarP(&summaryAlgorithm, "algorithm", "a", "",
		"graph, frequency or topic (default from settings)")
	summariseExtractiveCmd.Flags().BoolVar(&summaryNoCache, "no-cache", false, "bypass the similarity cache")

	for _, c := range []*cobra.Command{summariseAbstractiveCmd, summariseHybridCmd, summariseFormattedCmd} {
		c.Flags().IntVar(&summaryMaxLength, "max-length", 0, "maximum words per chunk summary (default from settings)")
		c.Flags().IntVar(&summaryMinLength, "min-length", 0, "minimum words per chunk summary (default from settings)")
	}
	summariseAbstractiveCmd.Flags().StringVarP(&summaryModel, "model", "m", "", "override the configured LLM model")
	for _, c := range []*cobra.Command{summariseHybridCmd, summariseFormattedCmd} {
		c.Flags().Float64Var(&summaryExtractiveRatio, "extractive-ratio", 0, "extractive pass ratio (default 0.5)")
	}

	summariseGetCmd.Flags().StringVarP(&summaryType, "type", "t", string(domain.SummaryExtractive),
		"extractive, abstractive, hybrid or formatted-hybrid")

	summariseCmd.AddCommand(summariseExtractiveCmd)
	summariseCmd.AddCommand(summariseAbstractiveCmd)
	summariseCmd.AddCommand(summariseHybridCmd)
	summariseCmd.AddCommand(summariseFormattedCmd)
	summariseCmd.AddCommand(summariseGetCmd)
	rootCmd.AddCommand(summariseCmd)
}

func runSummariseExtractive(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	def := currentSettings().Summary
	opts := domain.ExtractiveOptions{
		Ratio:     def.Ratio,
		Algorithm: def.Algorithm,
		UseCache:  !summaryNoCache,
	}
	if summaryRatio != 0 {
		opts.Ratio = summaryRatio
	}
	if summaryAlgorithm != "" {
		opts.Algorithm = domain.Algorithm(summaryAlgorithm)
	}

	rec, err := summaryService.Extractive(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("extractive summary failed: %w", err)
	}
	return outputSummary(cmd, rec)
}

func runSummariseAbstractive(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	maxLen, minLen := summaryLengths()
	rec, err := summaryService.Abstractive(cmd.Context(), args[0], domain.AbstractiveOptions{
		MaxLength: maxLen,
		MinLength: minLen,
		Model:     summaryModel,
	})
	if err != nil {
		return fmt.Errorf("abstractive summary failed: %w", err)
	}
	return outputSummary(cmd, rec)
}

func runSummariseHybrid(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	rec, err := summaryService.Hybrid(cmd.Context(), args[0], hybridOptions())
	if err != nil {
		return fmt.Errorf("hybrid summary failed: %w", err)
	}
	return outputSummary(cmd, rec)
}

func runSummariseFormatted(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	rec, err := summaryService.FormattedHybrid(cmd.Context(), args[0], hybridOptions())
	if err != nil {
		return fmt.Errorf("formatted summary failed: %w", err)
	}
	return outputSummary(cmd, rec)
}

func runSummariseGet(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	t, err := domain.ParseSummaryType(summaryType)
	if err != nil {
		return err
	}

	rec, err := summaryService.Get(cmd.Context(), args[0], t)
	if err != nil {
		return fmt.Errorf("failed to get summary: %w", err)
	}
	return outputSummary(cmd, rec)
}

func summaryLengths() (maxLength, minLength int) {
	def := currentSettings().Summary
	maxLength, minLength = def.MaxLength, def.MinLength
	if summaryMaxLength > 0 {
		maxLength = summaryMaxLength
	}
	if summaryMinLength > 0 {
		minLength = summaryMinLength
	}
	return maxLength, minLength
}

func hybridOptions() domain.HybridOptions {
	maxLen, minLen := summaryLengths()
	return domain.HybridOptions{
		ExtractiveRatio: summaryExtractiveRatio,
		MaxLength:       maxLen,
		MinLength:       minLen,
	}
}

func outputSummary(cmd *cobra.Command, rec *domain.SummaryRecord) error {
	if summaryJSON {
		return printJSON(cmd, rec)
	}

	if f := rec.Formatted; f != nil {
		outputFormatted(cmd, f)
	} else {
		cmd.Println(rec.SummaryText)
	}

	cmd.Println()
	cmd.Printf("[%s", rec.Type)
	if rec.Algorithm != "" {
		cmd.Printf(", %s", rec.Algorithm)
	}
	if rec.Model != "" {
		cmd.Printf(", %s", rec.Model)
	}
	cmd.Printf("] %d -> %d chars (%.0f%%)\n", rec.OriginalLength, rec.SummaryLength, rec.CompressionRatio*100)
	if rec.FilePath != "" {
		cmd.Printf("Saved to %s\n", rec.FilePath)
	}
	return nil
}

func outputFormatted(cmd *cobra.Command, f *domain.FormattedSummary) {
	cmd.Println(f.Title)
	cmd.Println(strings.Repeat("=", len([]rune(f.Title))))
	cmd.Println()
	if f.Objective != "" {
		cmd.Printf("Objective: %s\n\n", f.Objective)
	}
	if len(f.KeyPoints) > 0 {
		cmd.Println("Key points:")
		for _, p := range f.KeyPoints {
			cmd.Printf("  - %s\n", p)
		}
		cmd.Println()
	}
	for _, section := range f.SectionOrder {
		lines := f.SectionSummary[section]
		if len(lines) == 0 {
			continue
		}
		cmd.Printf("%s:\n", section)
		for _, line := range lines {
			cmd.Printf("  %s\n", line)
		}
		cmd.Println()
	}
	if f.FinalAbstract != "" {
		cmd.Println("Summary:")
		cmd.Println(f.FinalAbstract)
	}
}
