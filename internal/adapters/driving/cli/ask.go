package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexa-cli/internal/export"
)

var (
	askContext  string
	askType     string
	askUser     string
	askCategory string
	askFormat   string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a legal question",
	Long: `Answers a question from the documents in the library.

The most relevant documents are retrieved and passed to the language model,
which answers citing them. The answer comes with its sources, a confidence
score between 0 and 1, and a short explanation of the reasoning.

Question types: LEGAL_QUESTION, DOCUMENT_SEARCH, CASE_ANALYSIS,
STATUTE_INTERPRETATION`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askContext, "context", "", "extra facts about the case")
	askCmd.Flags().StringVarP(&askType, "type", "t", string(domain.QueryTypeLegalQuestion), "question type")
	askCmd.Flags().StringVarP(&askUser, "user", "u", "", "user ID recorded with the question")
	askCmd.Flags().StringVarP(&askCategory, "category", "c", "", "only use documents of one category")
	askCmd.Flags().StringVarP(&askFormat, "format", "f", string(export.FormatText), "output format: text, json or yaml")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	format, err := export.ParseFormat(askFormat, export.FormatText, export.FormatJSON, export.FormatYAML)
	if err != nil {
		return err
	}
	category, err := parseCategoryFlag(askCategory)
	if err != nil {
		return err
	}

	result := queryService.Ask(cmd.Context(), driving.AskRequest{
		Question: args[0],
		Context:  askContext,
		Type:     domain.QueryType(strings.ToUpper(askType)),
		UserID:   askUser,
		Category: category,
	})

	if format == export.FormatJSON {
		if err := export.JSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	}
	if !result.Success {
		return resultError(result.Message)
	}

	switch format {
	case export.FormatJSON:
	case export.FormatYAML:
		return export.AnswerYAML(cmd.OutOrStdout(), result.Data)
	default:
		printAnswer(cmd, result.Data)
	}
	return nil
}

func printAnswer(cmd *cobra.Command, resp *domain.QueryResponse) {
	cmd.Println(resp.Answer)
	cmd.Println()
	cmd.Printf("Confidence: %.2f\n", resp.Confidence)
	printSources(cmd, resp.Sources)
	if resp.Reasoning != "" {
		cmd.Println()
		cmd.Println("Reasoning:")
		cmd.Println(resp.Reasoning)
	}
	cmd.Printf("\nQuery ID: %s\n", resp.QueryID)
}

// printAnswerRecord prints a stored query and its answers.
func printAnswerRecord(cmd *cobra.Command, record *domain.QueryRecord) {
	q := record.Query
	cmd.Printf("Query: %s\n", q.ID)
	cmd.Printf("  Question: %s\n", q.Question)
	cmd.Printf("  Type:     %s\n", q.Type)
	if q.Context != "" {
		cmd.Printf("  Context:  %s\n", q.Context)
	}
	cmd.Printf("  Asked:    %s\n", q.CreatedAt.Format("2006-01-02 15:04:05"))
	for i := range record.Responses {
		cmd.Println()
		printAnswer(cmd, &record.Responses[i])
	}
	if len(record.Responses) == 0 {
		cmd.Println("\nNo answer was stored for this query.")
	}
}
