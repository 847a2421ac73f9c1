package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

var (
	ingestCategory  string
	ingestDirWorker int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Index legal documents",
	Long: `Extracts the text of one or more documents and adds them to the library.

Paths are resolved against ingestion.root and may not escape it.
Several paths are ingested concurrently; one failure does not stop the rest.

Categories: PENAL_CODE, CIVIL_CODE, COMMERCIAL_CODE, CASE_LAW, LEGAL_OPINION, OTHER`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var ingestDirCmd = &cobra.Command{
	Use:   "ingest-dir [dir]",
	Short: "Index every document in a directory",
	Long: `Walks a directory under ingestion.root and indexes every file with the
configured extension (ingestion.extension, default .pdf).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngestDir,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCategory, "category", "c", string(domain.CategoryOther), "document category")
	ingestDirCmd.Flags().StringVarP(&ingestCategory, "category", "c", string(domain.CategoryOther), "document category")
	ingestDirCmd.Flags().IntVarP(&ingestDirWorker, "workers", "w", domain.DefaultWorkers, "concurrent extractions")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(ingestDirCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	category, err := parseCategoryFlag(ingestCategory)
	if err != nil {
		return err
	}
	if category == nil {
		other := domain.CategoryOther
		category = &other
	}

	if len(args) == 1 {
		doc, err := libraryService.Index(cmd.Context(), args[0], *category)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", args[0], err)
		}
		printIndexed(cmd, doc)
		persistenceNote(cmd)
		return nil
	}

	items := make([]domain.BatchItem, 0, len(args))
	for _, path := range args {
		items = append(items, domain.BatchItem{Source: path, Category: *category})
	}
	err = reportBatch(cmd, libraryService.IndexBatch(cmd.Context(), items))
	persistenceNote(cmd)
	return err
}

func runIngestDir(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	category, err := parseCategoryFlag(ingestCategory)
	if err != nil {
		return err
	}
	if category == nil {
		other := domain.CategoryOther
		category = &other
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	results, err := libraryService.IndexDirectory(cmd.Context(), dir, *category)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if len(results) == 0 {
		cmd.Printf("No documents found in %s.\n", dir)
		return nil
	}

	err = reportBatch(cmd, results)
	persistenceNote(cmd)
	return err
}

func printIndexed(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("Indexed: %s\n", doc.Title)
	cmd.Printf("  ID:       %s\n", doc.ID)
	cmd.Printf("  Source:   %s\n", doc.Source)
	cmd.Printf("  Category: %s\n", doc.Category)
	if doc.Metadata.PageCount != nil {
		cmd.Printf("  Pages:    %d\n", *doc.Metadata.PageCount)
	}
	cmd.Printf("  Tags:     %s\n", strings.Join(doc.Metadata.Tags, ", "))
}

// reportBatch prints per-item outcomes and fails when any item failed.
func reportBatch(cmd *cobra.Command, results []domain.BatchItemResult) error {
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
			cmd.Printf("  FAILED  %s: %v\n", r.Source, r.Err)
			continue
		}
		cmd.Printf("  OK      %s -> %s (%s)\n", r.Source, r.Document.ID, r.Document.Title)
	}

	cmd.Printf("\nIndexed %d of %d documents.\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func persistenceNote(cmd *cobra.Command) {
	if current != nil && !current.Persistent {
		cmd.Println("\nNote: storage is in memory; documents are kept for this run only.")
		cmd.Println("Run 'lexa settings set storage.backend sqlite' to keep them.")
	}
}
