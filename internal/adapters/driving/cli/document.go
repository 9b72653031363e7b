package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/digest/internal/connectors/filesystem"
	"github.com/custodia-labs/digest/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `View ingested documents, list their pipeline stages, or delete them.`,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print extracted text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentStagesCmd = &cobra.Command{
	Use:   "stages [doc-id]",
	Short: "List persisted pipeline stages",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentStages,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and all its artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var ingestClean bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Extract text from files",
	Long: `Extracts the text of each file and stores it as the extraction stage.
The document id is the file name without its extension.

Supported formats: plain text, Markdown, HTML and DOCX.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestClean, "clean", false, "clean each document with the configured defaults")

	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentStagesCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if ingestClean && cleaningService == nil {
		return errors.New("cleaning service not configured")
	}

	ctx := cmd.Context()
	var failed int
	for _, arg := range args {
		if err := ingestOne(ctx, cmd, filesystem.LocalPath(arg), ingestClean); err != nil {
			cmd.PrintErrf("  %s: %v\n", arg, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// ingestOne ingests path and optionally cleans it with the stored defaults.
func ingestOne(ctx context.Context, cmd *cobra.Command, path string, clean bool) error {
	doc, err := documentService.Ingest(ctx, path)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	cmd.Printf("Ingested %s (%d chars, %s)\n", doc.ID, doc.CharCount, doc.MIMEType)

	if !clean {
		return nil
	}
	cleaned, err := cleaningService.Clean(ctx, doc.ID, currentSettings().Cleaning)
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}
	cmd.Printf("Cleaned %s (%d sentences)\n", doc.ID, cleaned.SentenceCount)
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Source:   %s\n", doc.URI)
	cmd.Printf("  Type:     %s\n", doc.MIMEType)
	cmd.Printf("  Chars:    %d\n", doc.CharCount)
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))

	if len(doc.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for k, v := range doc.Metadata {
			cmd.Printf("    %s: %v\n", k, v)
		}
	}

	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(doc.Content)
	return nil
}

func runDocumentStages(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	stages, err := documentService.Stages(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list stages: %w", err)
	}

	if len(stages) == 0 {
		cmd.Printf("No stages stored for %s\n", args[0])
		return nil
	}

	cmd.Printf("Stages for %s:\n", args[0])
	for _, stage := range stages {
		cmd.Printf("  %s\n", stage)
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %s not found", args[0])
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}
