package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/export"
)

var (
	searchLimit    int
	searchJSON     bool
	searchCategory string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Finds the documents most relevant to a query.

Keyword retrieval (the default) scores each document by the share of query
terms it contains. Vector retrieval (retrieval.mode = vector) ranks by
embedding similarity and needs an embedding provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "only search one category")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	category, err := parseCategoryFlag(searchCategory)
	if err != nil {
		return err
	}

	opts := domain.SearchOptions{
		Limit:    searchLimit,
		Category: category,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return export.JSON(cmd.OutOrStdout(), results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.DocumentReference) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] Title (Score)
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, results[i].Title, results[i].RelevanceScore)
		cmd.Printf("      ID: %s\n", results[i].DocumentID)
		for _, section := range results[i].RelevantSections {
			cmd.Printf("      > %s\n", truncate(section, 120))
		}
		cmd.Println()
	}

	return nil
}
