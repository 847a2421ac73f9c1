package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/watcher"
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

var (
	watchCategory string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Index documents as they are added",
	Long: `Watches a directory (default: ingestion.root) and its subdirectories and
indexes every file with the configured extension when it is created or
changed. A file is indexed after it has been quiet for the debounce period.
Indexing the same file again replaces the document created for it earlier.

The directory must be ingestion.root or lie below it.

Runs until interrupted. Use storage.backend = sqlite to keep the documents.

Examples:
  lexa watch
  lexa watch ./documents/fallos --category CASE_LAW`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchCategory, "category", "c", string(domain.CategoryOther), "category for indexed documents")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before indexing a file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if libraryService == nil || settingsService == nil {
		return errors.New("library service not configured")
	}

	category, err := parseCategoryFlag(watchCategory)
	if err != nil {
		return err
	}
	if category == nil {
		other := domain.CategoryOther
		category = &other
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	dir := settings.Ingestion.Root
	if len(args) == 1 {
		dir = args[0]
	}

	w := watcher.New(libraryService, watcher.Config{
		Root:          dir,
		IngestionRoot: settings.Ingestion.Root,
		Extension:     settings.Ingestion.Extension,
		Category:      *category,
		Debounce:      watchDebounce,
	})
	events, err := w.Watch(cmd.Context())
	if err != nil {
		return err
	}

	persistenceNote(cmd)
	cmd.Printf("Watching %s for %s files (Ctrl+C to stop)\n", w.Root(), extensionLabel(settings.Ingestion.Extension))

	indexed, failed := 0, 0
	for ev := range events {
		switch {
		case ev.Err != nil:
			failed++
			cmd.Printf("  FAILED  %s: %v\n", ev.Path, ev.Err)
		case ev.Replaced != "":
			indexed++
			cmd.Printf("  UPDATED %s -> %s (replaces %s)\n", ev.Path, ev.Document.ID, ev.Replaced)
		default:
			indexed++
			cmd.Printf("  OK      %s -> %s (%s)\n", ev.Path, ev.Document.ID, ev.Document.Title)
		}
	}

	cmd.Printf("\nStopped. Indexed %d, failed %d.\n", indexed, failed)
	return nil
}

func extensionLabel(ext string) string {
	if ext == "" {
		return "all"
	}
	return ext
}
