package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/minios-linux/langsync/config"
	"github.com/minios-linux/langsync/i18n"
	"github.com/minios-linux/langsync/langmeta"
	"github.com/minios-linux/langsync/lockfile"
	"github.com/minios-linux/langsync/settings"
	"github.com/minios-linux/langsync/translate"
	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// translate (marked strings -> AI provider -> file)
// ---------------------------------------------------------------------------

type translateArgs struct {
	provider, apiKey, model, baseURL string
	proxy                            string
	timeout                          time.Duration
	promptFile                       string
	files                            []string
	dryRun                           bool
}

// addTranslateFlags registers the flags shared by translate and update.
func addTranslateFlags(cmd *cobra.Command, a *translateArgs, files *string) {
	cmd.Flags().StringVar(&a.provider, "provider", "", "AI provider: "+strings.Join(translate.ProviderIDs(), ", ")+" (default: from config)")
	cmd.Flags().StringVar(&a.model, "model", "", "Model name (default: from config or provider)")
	cmd.Flags().StringVar(&a.apiKey, "api-key", "", "API key (or "+settings.EnvAPIKey+" env var)")
	cmd.Flags().StringVar(&a.baseURL, "base-url", "", "Custom API base URL")
	cmd.Flags().StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "Time limit per file (0 = none)")
	cmd.Flags().StringVar(&a.promptFile, "prompt-file", "", "Prompt preamble template (default: from config, then "+settings.PromptFilePath()+")")
	cmd.Flags().StringVar(files, "file", "", "Files to process (comma-separated, default: all configured)")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Show what would be translated without calling the provider")

	_ = cmd.RegisterFlagCompletionFunc("provider", completeProviders)
	_ = cmd.RegisterFlagCompletionFunc("file", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.Load(rootDir, configPath)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return cfg.Files, cobra.ShellCompDirectiveNoFileComp
	})
}

func newTranslateCmd() *cobra.Command {
	var (
		a     translateArgs
		files string
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate marked strings with an AI provider",
		Long: `Translate every line still marked with # TODO: Translate.

Each file is sent in one request. Lines the reply does not cover stay
marked and are picked up by the next run. A failed request leaves the file
unchanged.

Examples:
  # Google AI (key from GEMINI_API_KEY or 'langsync auth login')
  langsync translate

  # Local Ollama
  langsync translate --provider ollama --model qwen2.5

  # Show the batch without calling the provider
  langsync translate --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			a.files = splitList(files)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runTranslate(ctx, cfg, a)
		},
	}

	addTranslateFlags(cmd, &a, &files)
	return cmd
}

func runTranslate(ctx context.Context, cfg *config.Config, a translateArgs) error {
	files, err := cfg.SelectFiles(a.files)
	if err != nil {
		return err
	}
	prov, err := resolveProvider(cfg, a)
	if err != nil {
		return err
	}
	preamble, err := buildPreamble(cfg, a.promptFile)
	if err != nil {
		return err
	}
	lock, err := lockfile.Load(cfg.Root())
	if err != nil {
		return err
	}

	var oracle translate.Oracle
	if !a.dryRun {
		if err := prov.Validate(); err != nil {
			return providerHint(prov, err)
		}
		o, err := translate.NewHTTPOracle(prov)
		if err != nil {
			return err
		}
		oracle = o
		logInfo(i18n.T("Translating into %s with %s (%s)"), langmeta.Label(cfg.Locale), prov.Name, prov.Model)
	}

	tr := translate.New(oracle, translate.Options{
		Preamble:   preamble,
		DryRun:     a.dryRun,
		Lock:       lock,
		LockTarget: cfg.LockTarget,
		OnLog:      func(format string, args ...any) { logInfo(i18n.T(format), args...) },
		OnError:    func(format string, args ...any) { logError(i18n.T(format), args...) },
		Verbose:    verbose,
	})

	failed := 0
	for _, name := range files {
		path := cfg.OutputPath(name)
		if !fileExists(path) {
			logWarning(i18n.T("%s not found; run 'langsync sync' first"), path)
			continue
		}

		fileCtx, cancel := ctx, context.CancelFunc(func() {})
		if a.timeout > 0 {
			fileCtx, cancel = context.WithTimeout(ctx, a.timeout)
		}
		rep, err := tr.TranslateFile(fileCtx, path)
		cancel()
		if err != nil {
			logError("%s: %v", name, err)
			failed++
			continue
		}
		if rep.Applied > 0 {
			logDebug(i18n.T("%s: %d of %d indices resolved"), name, rep.Resolved, rep.Collected)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			logWarning(i18n.T("Interrupted; remaining files are left as they are"))
			break
		}
	}

	if !a.dryRun {
		if err := saveLock(lock); err != nil {
			return err
		}
	}
	return failedFiles(failed)
}

// resolveProvider merges flags, config, stored settings and provider
// defaults, in that order of precedence.
func resolveProvider(cfg *config.Config, a translateArgs) (translate.Provider, error) {
	id := strings.ToLower(a.provider)
	if id == "" {
		id = cfg.Provider
	}
	prov, ok := translate.DefaultProviders()[id]
	if !ok {
		return prov, fmt.Errorf(i18n.T("unknown provider %q (have %s)"), id, strings.Join(translate.ProviderIDs(), ", "))
	}

	switch {
	case a.model != "":
		prov.Model = a.model
	case cfg.Model != "" && (a.provider == "" || id == cfg.Provider):
		prov.Model = cfg.Model
	}

	switch {
	case a.baseURL != "":
		prov.BaseURL = a.baseURL
	case cfg.BaseURL != "" && id == cfg.Provider:
		prov.BaseURL = cfg.BaseURL
	default:
		if stored := settings.GetBaseURL(id); stored != "" {
			prov.BaseURL = stored
		}
	}

	prov.APIKey = settings.ResolveAPIKey(id, a.apiKey)
	prov.Proxy = a.proxy
	return prov, nil
}

// providerHint adds the way out to a provider validation error.
func providerHint(prov translate.Provider, err error) error {
	switch {
	case prov.APIKey == "" && prov.NeedsAPIKey():
		hint := fmt.Sprintf(i18n.T("Store a key with 'langsync auth login --provider %s' or pass --api-key"), prov.ID)
		if env := settings.EnvVarForProvider(prov.ID); env != "" {
			hint += fmt.Sprintf(i18n.T(" (or set %s)"), env)
		}
		return fmt.Errorf("%w\n\n  %s", err, hint)
	case prov.BaseURL == "":
		return fmt.Errorf("%w\n\n  %s", err, i18n.T("Pass --base-url or set base_url in the config"))
	case prov.Model == "":
		return fmt.Errorf("%w\n\n  %s", err, i18n.T("Pass --model or set model in the config"))
	}
	return err
}

// buildPreamble loads the preamble template and renders it for the target
// locale.
func buildPreamble(cfg *config.Config, promptFile string) (string, error) {
	path := promptFile
	if path == "" {
		path = cfg.PromptPath()
	}
	if path == "" {
		path = settings.PromptFilePath()
	}
	tmpl, err := translate.LoadPreamble(path)
	if err != nil {
		return "", err
	}

	meta := langmeta.Resolve(cfg.Locale)
	return translate.RenderPreamble(tmpl, translate.PromptData{
		TargetLang: fmt.Sprintf("%s (%s)", meta.EnglishName, meta.Code),
		Glossary:   glossaryFor(cfg),
	})
}

// glossaryFor returns the configured glossary. Without one, Korean targets
// get the built-in glossary.
func glossaryFor(cfg *config.Config) []translate.GlossaryTerm {
	if len(cfg.Glossary) > 0 {
		out := make([]translate.GlossaryTerm, 0, len(cfg.Glossary))
		for _, g := range cfg.Glossary {
			out = append(out, translate.GlossaryTerm{Source: g.Source, Target: g.Target, Note: g.Note})
		}
		return out
	}
	if base, _, _ := strings.Cut(cfg.Locale, "-"); strings.EqualFold(base, "ko") {
		return translate.DefaultGlossary()
	}
	return nil
}

// ---------------------------------------------------------------------------
// update (sync + translate)
// ---------------------------------------------------------------------------

func newUpdateCmd() *cobra.Command {
	var (
		a     translateArgs
		files string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Sync with upstream, then translate when an API key is available",
		Long: `Run 'sync' and then 'translate' on the same files.

The translation step is skipped, with a warning, when the provider needs an
API key and none is configured. Run 'langsync translate' later to finish.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			a.files = splitList(files)
			if err := runSync(cfg, syncArgs{files: a.files, dryRun: a.dryRun}); err != nil {
				return err
			}

			prov, err := resolveProvider(cfg, a)
			if err != nil {
				return err
			}
			if prov.NeedsAPIKey() && prov.APIKey == "" && !a.dryRun {
				logWarning(i18n.T("No API key for %s; skipping translation"), prov.ID)
				return nil
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runTranslate(ctx, cfg, a)
		},
	}

	addTranslateFlags(cmd, &a, &files)
	return cmd
}
