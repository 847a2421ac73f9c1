package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/export"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `List, view, update or delete documents in the library.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentUpdateCmd = &cobra.Command{
	Use:   "update [doc-id]",
	Short: "Update document metadata",
	Long: `Changes the title, category, language, jurisdiction, tags or summary of a
document. Only the flags given are changed. The category tag is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentUpdate,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count documents per category",
	Args:  cobra.NoArgs,
	RunE:  runDocumentStats,
}

// Flags for the document subcommands.
var (
	docListCategory string
	docListTags     string
	docListText     string
	docListJSON     bool

	docGetContent bool

	docUpdateTitle        string
	docUpdateCategory     string
	docUpdateLanguage     string
	docUpdateJurisdiction string
	docUpdateTags         string
	docUpdateSummary      string
)

func init() {
	documentListCmd.Flags().StringVarP(&docListCategory, "category", "c", "", "only list one category")
	documentListCmd.Flags().StringVar(&docListTags, "tags", "", "comma-separated tags; any match")
	documentListCmd.Flags().StringVarP(&docListText, "text", "q", "", "case-insensitive text in title or content")
	documentListCmd.Flags().BoolVar(&docListJSON, "json", false, "output as JSON")

	documentGetCmd.Flags().BoolVar(&docGetContent, "content", false, "print the full text")

	documentUpdateCmd.Flags().StringVar(&docUpdateTitle, "title", "", "new title")
	documentUpdateCmd.Flags().StringVarP(&docUpdateCategory, "category", "c", "", "new category")
	documentUpdateCmd.Flags().StringVar(&docUpdateLanguage, "language", "", "new language code")
	documentUpdateCmd.Flags().StringVar(&docUpdateJurisdiction, "jurisdiction", "", "new jurisdiction")
	documentUpdateCmd.Flags().StringVar(&docUpdateTags, "tags", "", "comma-separated tags replacing the current ones")
	documentUpdateCmd.Flags().StringVar(&docUpdateSummary, "summary", "", "new summary")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentUpdateCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentStatsCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	category, err := parseCategoryFlag(docListCategory)
	if err != nil {
		return err
	}

	docs, err := libraryService.List(cmd.Context(), domain.DocumentFilter{
		Category: category,
		Tags:     splitList(docListTags),
		Text:     docListText,
	})
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if docListJSON {
		return export.JSON(cmd.OutOrStdout(), docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title:    %s\n", docs[i].Title)
		cmd.Printf("    Category: %s\n", docs[i].Category)
		cmd.Printf("    Source:   %s\n", docs[i].Source)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	doc, err := libraryService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if docGetContent {
		cmd.Println(doc.Content)
		return nil
	}

	printDocument(cmd, doc)
	return nil
}

func printDocument(cmd *cobra.Command, doc *domain.Document) {
	m := doc.Metadata
	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:        %s\n", doc.Title)
	cmd.Printf("  Category:     %s\n", doc.Category)
	cmd.Printf("  Source:       %s\n", doc.Source)
	cmd.Printf("  File:         %s (%d bytes)\n", m.FileName, m.FileSizeBytes)
	if m.PageCount != nil {
		cmd.Printf("  Pages:        %d\n", *m.PageCount)
	}
	cmd.Printf("  Language:     %s\n", m.Language)
	cmd.Printf("  Jurisdiction: %s\n", m.Jurisdiction)
	cmd.Printf("  Tags:         %s\n", strings.Join(m.Tags, ", "))
	cmd.Printf("  Created:      %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:      %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	if m.Summary != "" {
		cmd.Printf("\n  %s\n", m.Summary)
	}
}

func runDocumentUpdate(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	var update domain.DocumentUpdate
	flags := cmd.Flags()
	if flags.Changed("title") {
		update.Title = &docUpdateTitle
	}
	if flags.Changed("category") {
		category, err := parseCategoryFlag(docUpdateCategory)
		if err != nil {
			return err
		}
		update.Category = category
	}
	if flags.Changed("language") {
		update.Language = &docUpdateLanguage
	}
	if flags.Changed("jurisdiction") {
		update.Jurisdiction = &docUpdateJurisdiction
	}
	if flags.Changed("tags") {
		tags := splitList(docUpdateTags)
		update.Tags = &tags
	}
	if flags.Changed("summary") {
		update.Summary = &docUpdateSummary
	}
	if update == (domain.DocumentUpdate{}) {
		return errors.New("nothing to update: pass at least one of --title, --category, --language, --jurisdiction, --tags, --summary")
	}

	doc, err := libraryService.Update(cmd.Context(), args[0], update)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	cmd.Printf("Document %s updated.\n", doc.ID)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	if err := libraryService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}

func runDocumentStats(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	stats, err := libraryService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	cmd.Printf("Documents: %d\n", stats.Total)
	for _, c := range domain.Categories() {
		if n := stats.ByCategory[c]; n > 0 {
			cmd.Printf("  %-16s %d\n", c, n)
		}
	}
	return nil
}
