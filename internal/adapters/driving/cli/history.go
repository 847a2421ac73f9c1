package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/export"
)

var (
	historyUser     string
	historyWritings bool
	historyJSON     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past questions and drafts",
	Long: `Lists stored questions, or drafting requests with --writings.
Only useful with storage.backend = sqlite; the memory backend forgets
everything when the command exits.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a stored question or draft with its responses",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().BoolVarP(&historyWritings, "writings", "w", false, "drafting requests instead of questions")
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.Flags().StringVarP(&historyUser, "user", "u", "", "only one user")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyWritings {
		if writingService == nil {
			return errors.New("writing service not configured")
		}
		result := writingService.History(cmd.Context(), historyUser)
		if !result.Success {
			return resultError(result.Message)
		}
		if historyJSON {
			return export.JSON(cmd.OutOrStdout(), result.Data)
		}
		writings := *result.Data
		if len(writings) == 0 {
			cmd.Println("No drafting requests found.")
			return nil
		}
		for _, w := range writings {
			cmd.Printf("  %s  %s  %-14s %s\n", w.ID, w.CreatedAt.Format("2006-01-02 15:04"), w.Type, w.Title)
		}
		return nil
	}

	if queryService == nil {
		return errors.New("query service not configured")
	}
	result := queryService.History(cmd.Context(), historyUser)
	if !result.Success {
		return resultError(result.Message)
	}
	if historyJSON {
		return export.JSON(cmd.OutOrStdout(), result.Data)
	}
	queries := *result.Data
	if len(queries) == 0 {
		cmd.Println("No questions found.")
		return nil
	}
	for _, q := range queries {
		cmd.Printf("  %s  %s  %s\n", q.ID, q.CreatedAt.Format("2006-01-02 15:04"), truncate(q.Question, 80))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyWritings {
		if writingService == nil {
			return errors.New("writing service not configured")
		}
		result := writingService.Get(cmd.Context(), args[0])
		return showRecord(cmd, result.Success, result.Message, result.Data, func() {
			printDraftRecord(cmd, result.Data)
		})
	}

	if queryService == nil {
		return errors.New("query service not configured")
	}
	result := queryService.Get(cmd.Context(), args[0])
	return showRecord(cmd, result.Success, result.Message, result.Data, func() {
		printAnswerRecord(cmd, result.Data)
	})
}

func showRecord(cmd *cobra.Command, ok bool, message string, data any, render func()) error {
	if !ok {
		return resultError(message)
	}
	if historyJSON {
		return export.JSON(cmd.OutOrStdout(), data)
	}
	render()
	return nil
}
