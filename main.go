// langsync keeps localized .lang resource files in step with upstream game
// releases and translates what is new through an AI provider.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/minios-linux/langsync/config"
	"github.com/minios-linux/langsync/i18n"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Logging
// ---------------------------------------------------------------------------

var logger = newLogger(os.Stderr, false)

// newLogger returns a console logger on f. Colors are used only when f is
// a terminal.
func newLogger(f *os.File, verbose bool) zerolog.Logger {
	w := zerolog.ConsoleWriter{
		Out:          f,
		NoColor:      !isTerminal(f),
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func logInfo(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

func logSuccess(format string, args ...any) {
	logger.Info().Str("status", "ok").Msgf(format, args...)
}

func logWarning(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

func logError(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}

func logDebug(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
	verbose    bool
	uiLang     string
)

func loadProject() (*config.Config, error) {
	cfg, err := config.Load(rootDir, configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path() != "" {
		logDebug(i18n.T("Using config %s"), cfg.Path())
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "langsync",
		Short: "Keep localized .lang files in sync with upstream and translate them with AI",
		Long: `langsync keeps a localized key-value resource file (client.lang, meta.lang, ...)
synchronized with the upstream source-language file across game releases.

Untranslated lines carry a marker (# TODO: Translate, # TODO: TranslateLine)
until a translation pass replaces them. Translated lines are kept across
upstream changes.

Commands:
  sync        Rebuild localized files from upstream, marking new strings
  translate   Translate marked strings with an AI provider
  update      sync, then translate when an API key is available
  overlay     Stamp a fixed translation set onto upstream files
  status      Show translation progress and stale translations
  auth        Manage provider API keys

AI Providers:
  google         Google AI (Gemini), API key
  openai         OpenAI, API key
  groq           Groq, API key
  ollama         Ollama local server
  custom-openai  Custom OpenAI-compatible endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			i18n.Init(uiLang)
			logger = newLogger(os.Stderr, verbose)
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <root>/"+config.FileName+")")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging")
	root.PersistentFlags().StringVar(&uiLang, "ui-lang", "", "Language of langsync's own messages (default: from environment)")

	root.AddCommand(
		newSyncCmd(),
		newTranslateCmd(),
		newUpdateCmd(),
		newOverlayCmd(),
		newStatusCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "langsync version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// failedFiles turns a per-file failure count into the command error.
func failedFiles(n int) error {
	if n == 0 {
		return nil
	}
	return fmt.Errorf(i18n.N("%d file failed", "%d files failed", n), n)
}

// splitList splits a comma-separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
