// Package cli implements the lexa command line interface with cobra.
//
// Commands reach the core through the driving ports held in package
// variables. They are built by Bootstrap on first use, or injected with
// SetServices.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

// Command annotations read by initServices.
const (
	// skipBootstrap marks commands that run without services.
	skipBootstrap = "lexa/skip-bootstrap"

	// settingsOnly marks commands that only need the settings service.
	settingsOnly = "lexa/settings-only"
)

var version = "dev"

// Global flags.
var (
	verbose   bool
	ephemeral bool
	configDir string
)

// Driving ports used by the commands.
var (
	libraryService  driving.LibraryService
	searchService   driving.SearchService
	queryService    driving.QueryService
	writingService  driving.WritingService
	settingsService driving.SettingsService
)

// Services groups the driving ports the CLI needs.
type Services struct {
	Library  driving.LibraryService
	Search   driving.SearchService
	Query    driving.QueryService
	Writing  driving.WritingService
	Settings driving.SettingsService

	// Persistent is false when documents only live for this process.
	Persistent bool

	// Warnings are non-fatal bootstrap issues shown to the user.
	Warnings []string
}

var (
	current    *Services
	closeFuncs []func() error
)

var rootCmd = &cobra.Command{
	Use:   "lexa",
	Short: "Legal research assistant over your own documents",
	Long: `Lexa indexes legal documents (codes, case law, opinions) and answers
questions, drafts and reviews legal writing grounded in them.

Configure a language model first:
  lexa settings llm

Then add documents and ask:
  lexa ingest codigo_civil.pdf --category CIVIL_CODE
  lexa ask "¿Qué plazo de prescripción rige para daños?"`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline details to stderr")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep everything in memory for this run")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.lexa)")
}

// SetServices injects the driving ports. Bootstrap is skipped afterwards.
// Passing nil clears them.
func SetServices(s *Services) {
	current = s
	if s == nil {
		libraryService, searchService, queryService, writingService, settingsService = nil, nil, nil, nil, nil
		return
	}
	libraryService = s.Library
	searchService = s.Search
	queryService = s.Query
	writingService = s.Writing
	settingsService = s.Settings
}

// Execute runs the root command and releases bootstrapped resources.
// Interrupts cancel the command context.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	defer closeServices()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if current != nil || cmd.Annotations[skipBootstrap] == "true" {
		return nil
	}

	opts := BootstrapOptions{
		ConfigDir:  configDir,
		Ephemeral:  ephemeral,
		DotenvPath: ".env",
		Overrides:  flagOverrides(cmd),
	}

	if cmd.Annotations[settingsOnly] == "true" {
		settings, err := BootstrapSettings(opts)
		if err != nil {
			return fmt.Errorf("starting lexa: %w", err)
		}
		SetServices(&Services{Settings: settings})
		return nil
	}

	services, closer, err := Bootstrap(opts)
	if err != nil {
		return fmt.Errorf("starting lexa: %w", err)
	}
	SetServices(services)
	closeFuncs = append(closeFuncs, closer)

	for _, w := range services.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
	return nil
}

// flagOverrides maps command flags that shadow configuration keys.
func flagOverrides(cmd *cobra.Command) map[string]string {
	overrides := make(map[string]string)
	for flag, key := range map[string]string{"workers": "ingestion.workers", "addr": "server.addr"} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}
	return overrides
}

func closeServices() {
	var errs []error
	for _, fn := range closeFuncs {
		errs = append(errs, fn())
	}
	closeFuncs = nil
	if err := errors.Join(errs...); err != nil {
		logger.Error("shutdown: %v", err)
	}
}
