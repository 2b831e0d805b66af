package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/minios-linux/langsync/i18n"
	"github.com/minios-linux/langsync/settings"
	"github.com/minios-linux/langsync/translate"
	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// auth (API key store)
// ---------------------------------------------------------------------------

// keyHelp tells where to get an API key.
var keyHelp = map[string]string{
	translate.ProviderGoogle: "https://aistudio.google.com/apikey",
	translate.ProviderGroq:   "https://console.groq.com/keys",
	translate.ProviderOpenAI: "https://platform.openai.com/api-keys",
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys",
		Long: `Manage API keys and endpoints stored in ` + settings.FilePath() + `.

Keys given with --api-key or through the environment take precedence over
stored ones.

Examples:
  langsync auth login --provider google
  langsync auth login --provider custom-openai --base-url https://llm.example.com/v1
  langsync auth logout --provider google
  langsync auth list`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func completeProviders(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	defaults := translate.DefaultProviders()
	var out []string
	for _, id := range translate.ProviderIDs() {
		out = append(out, id+"\t"+defaults[id].Name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func newAuthLoginCmd() *cobra.Command {
	var provider, baseURL string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key for a provider",
		Long: `Store an API key (and optionally an endpoint URL) for a provider.

The key is read from standard input, so it can be piped:
  echo "$KEY" | langsync auth login --provider groq`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := translate.DefaultProviders()[provider]; !ok {
				return fmt.Errorf(i18n.T("unknown provider %q (have %s)"), provider, strings.Join(translate.ProviderIDs(), ", "))
			}
			return authLogin(cmd.InOrStdin(), cmd.ErrOrStderr(), provider, baseURL)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", translate.ProviderGoogle, "Provider to store the key for")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Endpoint URL to store with the key")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeProviders)

	return cmd
}

func authLogin(in io.Reader, out io.Writer, providerID, baseURL string) error {
	prov := translate.DefaultProviders()[providerID]
	if help := keyHelp[providerID]; help != "" {
		fmt.Fprintf(out, i18n.T("Get your API key from: %s")+"\n", help)
	}

	existing := settings.Get(providerID)
	if existing != nil && existing.Key != "" {
		fmt.Fprintf(out, i18n.T("Current key: %s")+"\n", settings.MaskKey(existing.Key))
		fmt.Fprint(out, i18n.T("Enter new key to replace, or press Enter to keep: "))
	} else {
		fmt.Fprint(out, i18n.T("Enter API key: "))
	}

	scanner := bufio.NewScanner(in)
	key := ""
	if scanner.Scan() {
		key = strings.TrimSpace(scanner.Text())
	}
	fmt.Fprintln(out)

	if key == "" && existing != nil {
		key = existing.Key
	}
	if baseURL == "" && existing != nil {
		baseURL = existing.BaseURL
	}
	if key == "" && prov.NeedsAPIKey() {
		return errors.New(i18n.T("no API key provided"))
	}
	if key == "" && baseURL == "" {
		return errors.New(i18n.T("nothing to store: give a key or --base-url"))
	}

	if err := settings.SetAPIKey(providerID, key, baseURL); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	logSuccess(i18n.T("%s credentials saved"), prov.Name)
	return nil
}

func newAuthLogoutCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long: `Remove stored credentials for one provider, or for all providers when
--provider is not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess(i18n.T("All stored credentials removed"))
				return nil
			}
			if settings.Get(provider) == nil {
				logWarning(i18n.T("No stored credentials for %s"), provider)
				return nil
			}
			if err := settings.Remove(provider); err != nil {
				return err
			}
			logSuccess(i18n.T("%s credentials removed"), provider)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to logout (default: all)")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeProviders)

	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored credentials",
		Run: func(cmd *cobra.Command, args []string) {
			listCredentials(cmd.OutOrStdout())
		},
	}
}

func listCredentials(w io.Writer) {
	fmt.Fprintln(w, i18n.T("Stored credentials"))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, id := range translate.ProviderIDs() {
		entry := settings.Get(id)
		switch {
		case entry != nil && entry.Key != "":
			fmt.Fprintf(w, "  %-14s "+i18n.T("configured (key: %s)")+"\n", id, settings.MaskKey(entry.Key))
		case entry != nil && entry.BaseURL != "":
			fmt.Fprintf(w, "  %-14s "+i18n.T("configured (no key)")+"\n", id)
		default:
			fmt.Fprintf(w, "  %-14s %s\n", id, i18n.T("not configured"))
		}
		if entry != nil && entry.BaseURL != "" {
			fmt.Fprintf(w, "  %-14s "+i18n.T("endpoint: %s")+"\n", "", entry.BaseURL)
		}
	}

	fmt.Fprintln(w)
	vars := []string{settings.EnvAPIKey}
	for _, id := range translate.ProviderIDs() {
		if env := settings.EnvVarForProvider(id); env != "" && !slices.Contains(vars, env) {
			vars = append(vars, env)
		}
	}
	for _, env := range vars {
		if v := os.Getenv(env); v != "" {
			fmt.Fprintf(w, "  %-18s "+i18n.T("%s (overrides stored keys)")+"\n", env, settings.MaskKey(v))
		} else {
			fmt.Fprintf(w, "  %-18s %s\n", env, i18n.T("not set"))
		}
	}
}
