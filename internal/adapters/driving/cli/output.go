package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// parseCategoryFlag accepts categories in any case. Empty means no filter.
func parseCategoryFlag(value string) (*domain.Category, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	c, err := domain.ParseCategory(strings.ToUpper(strings.TrimSpace(value)))
	if err != nil {
		return nil, fmt.Errorf("%w (valid: %s)", err, categoryList())
	}
	return &c, nil
}

func categoryList() string {
	names := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// resultError turns a failed Result message into a command error.
func resultError(message string) error {
	if message == "" {
		message = "request failed"
	}
	return errors.New(message)
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// printSources lists document references under a heading.
func printSources(cmd *cobra.Command, refs []domain.DocumentReference) {
	if len(refs) == 0 {
		cmd.Println("Sources: none")
		return
	}
	cmd.Println("Sources:")
	for i, ref := range refs {
		cmd.Printf("  [%d] %s (%.2f) %s\n", i+1, ref.Title, ref.RelevanceScore, ref.DocumentID)
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
