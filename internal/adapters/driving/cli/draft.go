package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexa-cli/internal/export"
)

var (
	draftPrompt   string
	draftType     string
	draftContext  string
	draftUser     string
	draftCategory string
	draftFormat   string
	draftOutput   string

	validateFormat string
)

var draftCmd = &cobra.Command{
	Use:   "draft [title]",
	Short: "Draft a legal document",
	Long: `Drafts a legal document grounded in the library.

The prompt describes what to write; --context adds case facts. The draft is
split into its numbered or upper-case sections and returned with the sources
used and a confidence score.

Document types: COMPLAINT, MOTION, BRIEF, CONTRACT, LEGAL_OPINION,
DEMAND_LETTER, OTHER`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Review a legal document",
	Long: `Asks the language model to review a document and reports whether it is
valid, its issues, suggestions and an overall analysis.

Use "-" to read the document from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	draftCmd.Flags().StringVarP(&draftPrompt, "prompt", "p", "", "drafting instructions (required)")
	draftCmd.Flags().StringVarP(&draftType, "type", "t", string(domain.DocumentTypeOther), "document type")
	draftCmd.Flags().StringVar(&draftContext, "context", "", "case facts")
	draftCmd.Flags().StringVarP(&draftUser, "user", "u", "", "user ID recorded with the request")
	draftCmd.Flags().StringVarP(&draftCategory, "category", "c", "", "only use documents of one category")
	draftCmd.Flags().StringVarP(&draftFormat, "format", "f", string(export.FormatText), "output format: text, json, yaml or html")
	draftCmd.Flags().StringVarP(&draftOutput, "output", "o", "", "write the draft to a file instead of stdout")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", string(export.FormatText), "output format: text, json or yaml")
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(validateCmd)
}

func runDraft(cmd *cobra.Command, args []string) error {
	if writingService == nil {
		return errors.New("writing service not configured")
	}

	format, err := export.ParseFormat(draftFormat)
	if err != nil {
		return err
	}
	category, err := parseCategoryFlag(draftCategory)
	if err != nil {
		return err
	}

	title := args[0]
	result := writingService.Generate(cmd.Context(), driving.DraftRequest{
		Title:    title,
		Prompt:   draftPrompt,
		Context:  draftContext,
		Type:     domain.DocumentType(strings.ToUpper(draftType)),
		UserID:   draftUser,
		Category: category,
	})

	out := cmd.OutOrStdout()
	if draftOutput != "" && result.Success {
		f, err := os.Create(draftOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", draftOutput, err)
		}
		defer f.Close()
		out = f
	}

	if format == export.FormatJSON {
		if err := export.JSON(out, result); err != nil {
			return err
		}
	}
	if !result.Success {
		return resultError(result.Message)
	}

	switch format {
	case export.FormatJSON:
	case export.FormatYAML:
		err = export.DraftYAML(out, title, result.Data)
	case export.FormatHTML:
		err = export.DraftHTML(out, title, result.Data)
	default:
		printDraft(cmd, out, title, result.Data)
	}
	if err != nil {
		return err
	}

	if draftOutput != "" {
		cmd.Printf("Draft written to %s (confidence %.2f)\n", draftOutput, result.Data.Confidence)
	}
	return nil
}

func printDraft(cmd *cobra.Command, out io.Writer, title string, resp *domain.WritingResponse) {
	fmt.Fprintln(out, strings.ToUpper(title))
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.TrimSpace(resp.Content))
	fmt.Fprintln(out)
	if out != cmd.OutOrStdout() {
		return
	}
	cmd.Printf("Sections: %d  Confidence: %.2f\n", len(resp.Sections), resp.Confidence)
	printSources(cmd, resp.Sources)
	cmd.Printf("\nWriting ID: %s\n", resp.WritingID)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if writingService == nil {
		return errors.New("writing service not configured")
	}

	format, err := export.ParseFormat(validateFormat, export.FormatText, export.FormatJSON, export.FormatYAML)
	if err != nil {
		return err
	}

	content, err := readInput(cmd, args[0])
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	result := writingService.Validate(cmd.Context(), string(content))

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
		return nil
	case export.FormatYAML:
		return export.ReportYAML(cmd.OutOrStdout(), result.Data)
	}

	report := result.Data
	if report.IsValid {
		cmd.Println("Result: VALID")
	} else {
		cmd.Println("Result: NOT VALID")
	}
	printList(cmd, "Issues", report.Issues)
	printList(cmd, "Suggestions", report.Suggestions)
	if report.Analysis != "" {
		cmd.Println()
		cmd.Println("Analysis:")
		cmd.Println(report.Analysis)
	}
	return nil
}

func printList(cmd *cobra.Command, heading string, items []string) {
	cmd.Println()
	if len(items) == 0 {
		cmd.Printf("%s: none\n", heading)
		return
	}
	cmd.Printf("%s:\n", heading)
	for _, item := range items {
		cmd.Printf("  - %s\n", item)
	}
}

// printDraftRecord prints a stored writing request and its drafts.
func printDraftRecord(cmd *cobra.Command, record *domain.WritingRecord) {
	w := record.Writing
	cmd.Printf("Writing: %s\n", w.ID)
	cmd.Printf("  Title:   %s\n", w.Title)
	cmd.Printf("  Type:    %s\n", w.Type)
	cmd.Printf("  Prompt:  %s\n", w.Prompt)
	cmd.Printf("  Created: %s\n", w.CreatedAt.Format("2006-01-02 15:04:05"))
	for i := range record.Responses {
		cmd.Println()
		printDraft(cmd, cmd.OutOrStdout(), w.Title, &record.Responses[i])
	}
	if len(record.Responses) == 0 {
		cmd.Println("\nNo draft was stored for this request.")
	}
}
