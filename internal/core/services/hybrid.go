package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/logger"
	"github.com/custodia-labs/digest/internal/textutil"
)

// Headings searched for by the formatted hybrid summary.
var knownSections = []string{"Education", "Projects", "Skills", "Work Experience"}

var knownSectionPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(knownSections))
	for i, h := range knownSections {
		out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(h))
	}
	return out
}()

// Labels of the quartile buckets used when no heading is found.
var quartileSections = []string{"Introduction", "Applications", "Challenges", "Future"}

// sentencesPerSection bounds each section summary.
const sentencesPerSection = 2

// Hybrid ranks the corpus, then rewrites the extractive summary through the
// external summariser. The extractive text is handed to the summariser
// directly; only the final hybrid record is written.
func (o *SummaryOrchestrator) Hybrid(
	ctx context.Context, documentID string, opts domain.HybridOptions,
) (*domain.SummaryRecord, error) {
	if o.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := o.checkSummariser(); err != nil {
		return nil, err
	}
	ratio, aopts, err := hybridDefaults(opts)
	if err != nil {
		return nil, err
	}

	unlock := o.locks.Lock(documentID)
	defer unlock()

	logger.Section("Hybrid Summary")

	// 1. Load corpus
	cleaned, err := o.loadCleaned(ctx, documentID)
	if err != nil {
		return nil, err
	}

	// 2. Extractive pass (graph, cached)
	strategy, err := o.strategy(domain.AlgorithmGraph, true)
	if err != nil {
		return nil, err
	}
	ext, err := o.extract(ctx, documentID, cleaned.Sentences, strategy, ratio)
	if err != nil {
		return nil, err
	}

	// 3. Abstractive pass over the extractive text
	summary, err := o.abstract(ctx, ext.SummaryText, aopts)
	if err != nil {
		return nil, err
	}

	// 4. Persist the final record once
	summaryLength := utf8.RuneCountInString(summary)
	rec := &domain.SummaryRecord{
		ID:                uuid.New().String(),
		DocumentID:        documentID,
		Type:              domain.SummaryHybrid,
		Method:            "hybrid",
		Algorithm:         ext.Algorithm,
		SummaryText:       summary,
		Sentences:         ext.Sentences,
		CompressionRatio:  domain.CompressionRatio(ext.SummaryLength, summaryLength),
		ExtractiveRatio:   ratio,
		OriginalSentences: ext.OriginalSentences,
		OriginalLength:    utf8.RuneCountInString(cleaned.Text),
		SummaryLength:     summaryLength,
		MaxLength:         aopts.MaxLength,
		MinLength:         aopts.MinLength,
		Model:             o.modelName(""),
		CreatedAt:         o.now(),
	}
	if err := o.persist(ctx, rec, summary); err != nil {
		return nil, err
	}
	return rec, nil
}

// FormattedHybrid builds a structured summary: an abstract of the scrubbed
// text, graph-ranked key points, a title, an objective and section
// summaries. Heuristics that find nothing fall back to placeholders.
func (o *SummaryOrchestrator) FormattedHybrid(
	ctx context.Context, documentID string, opts domain.HybridOptions,
) (*domain.SummaryRecord, error) {
	if o.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := o.checkSummariser(); err != nil {
		return nil, err
	}
	ratio, aopts, err := hybridDefaults(opts)
	if err != nil {
		return nil, err
	}

	unlock := o.locks.Lock(documentID)
	defer unlock()

	logger.Section("Formatted Hybrid Summary")

	cleaned, err := o.loadCleaned(ctx, documentID)
	if err != nil {
		return nil, err
	}
	strategy, err := o.strategy(domain.AlgorithmGraph, true)
	if err != nil {
		return nil, err
	}

	// Scrubbing happens in memory; the cleaned artifact is left as is.
	scrubbed := textutil.ScrubPersonalData(cleaned.Text)

	var (
		abstract string
		ext      *domain.SummaryRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		abstract, err = o.abstract(gctx, scrubbed, aopts)
		return err
	})
	g.Go(func() error {
		var err error
		ext, err = o.extract(gctx, documentID, cleaned.Sentences, strategy, ratio)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	keyPoints := make([]string, len(ext.Sentences))
	for i, s := range ext.Sentences {
		keyPoints[i] = strings.TrimSpace(s)
	}

	abstractSentences := textutil.SplitSentences(abstract)
	sections, order := sectionSummary(scrubbed, cleaned.Sentences)
	formatted := &domain.FormattedSummary{
		Title:          detectTitle(scrubbed, abstractSentences),
		Objective:      detectObjective(abstractSentences),
		KeyPoints:      keyPoints,
		SectionSummary: sections,
		SectionOrder:   order,
		FinalAbstract:  abstract,
	}

	summaryLength := utf8.RuneCountInString(abstract)
	originalLength := utf8.RuneCountInString(cleaned.Text)
	rec := &domain.SummaryRecord{
		ID:                uuid.New().String(),
		DocumentID:        documentID,
		Type:              domain.SummaryFormattedHybrid,
		Method:            "formatted",
		Algorithm:         ext.Algorithm,
		SummaryText:       abstract,
		Sentences:         keyPoints,
		CompressionRatio:  domain.CompressionRatio(originalLength, summaryLength),
		ExtractiveRatio:   ratio,
		OriginalSentences: len(cleaned.Sentences),
		OriginalLength:    originalLength,
		SummaryLength:     summaryLength,
		MaxLength:         aopts.MaxLength,
		MinLength:         aopts.MinLength,
		Model:             o.modelName(""),
		Formatted:         formatted,
		CreatedAt:         o.now(),
	}
	if err := o.persist(ctx, rec, renderFormatted(formatted)); err != nil {
		return nil, err
	}
	return rec, nil
}

func hybridDefaults(opts domain.HybridOptions) (float64, domain.AbstractiveOptions, error) {
	ratio := opts.ExtractiveRatio
	if ratio == 0 {
		ratio = DefaultHybridRatio
	}
	if err := validateRatio(ratio); err != nil {
		return 0, domain.AbstractiveOptions{}, err
	}
	aopts, err := normaliseLengths(domain.AbstractiveOptions{MaxLength: opts.MaxLength, MinLength: opts.MinLength})
	return ratio, aopts, err
}

// detectTitle returns the first line with 3 to 12 words, else the first
// abstract sentence, else the placeholder.
func detectTitle(text string, abstractSentences []string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if n := textutil.WordCount(line); n >= 3 && n <= 12 {
			return line
		}
	}
	if len(abstractSentences) > 0 {
		return abstractSentences[0]
	}
	return domain.UntitledPlaceholder
}

// detectObjective joins the second and third abstract sentences.
func detectObjective(abstractSentences []string) string {
	if len(abstractSentences) < 2 {
		return domain.NoObjectivePlaceholder
	}
	end := min(3, len(abstractSentences))
	return strings.Join(abstractSentences[1:end], " ")
}

// sectionSummary takes the first sentences after each known heading found
// in text. Without any heading the corpus is split into quartile buckets.
// The second result lists section names in output order.
func sectionSummary(text string, corpus []string) (map[string][]string, []string) {
	sections := make(map[string][]string)
	var order []string

	for i, heading := range knownSections {
		loc := knownSectionPatterns[i].FindStringIndex(text)
		if loc == nil {
			continue
		}
		after := textutil.SplitSentences(text[loc[1]:])
		sections[heading] = after[:min(sentencesPerSection, len(after))]
		order = append(order, heading)
	}
	if len(order) > 0 {
		return sections, order
	}

	size := max(1, len(corpus)/len(quartileSections))
	for i, label := range quartileSections {
		start := min(i*size, len(corpus))
		end := min(start+size, len(corpus))
		bucket := corpus[start:end]
		sections[label] = append([]string{}, bucket[:min(sentencesPerSection, len(bucket))]...)
		order = append(order, label)
	}
	return sections, order
}

// renderFormatted produces the flat-text mirror of a formatted summary.
func renderFormatted(f *domain.FormattedSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nObjective: %s\n\nKey points:\n", f.Title, f.Objective)
	for _, p := range f.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	for _, name := range f.SectionOrder {
		fmt.Fprintf(&b, "\n%s:\n%s\n", name, strings.Join(f.SectionSummary[name], " "))
	}
	fmt.Fprintf(&b, "\nSummary:\n%s\n", f.FinalAbstract)
	return b.String()
}
