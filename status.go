package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minios-linux/langsync/config"
	"github.com/minios-linux/langsync/i18n"
	"github.com/minios-linux/langsync/langfile"
	"github.com/minios-linux/langsync/langmeta"
	"github.com/minios-linux/langsync/lockfile"
	"github.com/spf13/cobra"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

// ---------------------------------------------------------------------------
// status (read-only: progress + stale translations)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show translation progress and stale translations",
		Long: `Show per-file translation progress of the localized files.

A translation is stale when the upstream text it was made from has changed
since. Stale lines are not re-marked by sync; use --verbose to list them.
Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			lock, err := lockfile.Load(cfg.Root())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color := false
			if f, ok := out.(*os.File); ok {
				color = isTerminal(f)
			}
			showStatus(out, cfg, lock, color)
			return nil
		},
	}
}

// fileStatus is one row of the status table.
type fileStatus struct {
	name            string
	missing         bool
	upstreamMissing bool
	stats           langfile.Stats
	stale           []string
}

func (s fileStatus) percent() int {
	total := s.stats.Entries + s.stats.Continuations
	if total == 0 {
		return 100
	}
	return (total - s.stats.Pending) * 100 / total
}

func collectStatus(cfg *config.Config, lock *lockfile.LockFile, name string) fileStatus {
	st := fileStatus{name: name}
	target := cfg.OutputPath(name)
	f, err := langfile.ParseFile(target)
	if err != nil {
		st.missing = true
		return st
	}
	st.stats = f.Stats()

	up, err := langfile.ParseFile(cfg.UpstreamPath(name))
	if err != nil {
		st.upstreamMissing = true
		return st
	}
	sources := make(map[string]string)
	for i := 0; i < up.Len(); i++ {
		if ln := up.Line(i); ln.Translatable() {
			sources[up.LineKey(i)] = ln.Text
		}
	}
	st.stale = lock.Stale(cfg.LockTarget(target), sources)
	return st
}

func showStatus(w io.Writer, cfg *config.Config, lock *lockfile.LockFile, color bool) {
	paint := func(c, s string) string {
		if !color {
			return s
		}
		return c + s + colorReset
	}

	fmt.Fprintf(w, "%s %s\n", paint(colorBlue, i18n.T("Locale:")), langmeta.Label(cfg.Locale))
	fmt.Fprintf(w, "%s %s\n", paint(colorBlue, i18n.T("Upstream:")), cfg.UpstreamDir)
	fmt.Fprintf(w, "%s %s\n", paint(colorBlue, i18n.T("Output:")), cfg.OutputDir)
	fmt.Fprintf(w, "%s %s\n\n", paint(colorBlue, i18n.T("Lock file:")), lock.Summary())

	width := 0
	for _, name := range cfg.Files {
		width = max(width, len(name))
	}

	for _, name := range cfg.Files {
		st := collectStatus(cfg, lock, name)
		switch {
		case st.missing:
			fmt.Fprintf(w, "  %-*s  %s\n", width, name, paint(colorRed, i18n.T("not synchronized yet")))
			continue
		case st.upstreamMissing:
			fmt.Fprintf(w, "  %-*s  %s  %s\n", width, name, progressBar(st.percent(), 20, color),
				paint(colorYellow, i18n.T("upstream missing")))
			continue
		}

		line := fmt.Sprintf("  %-*s  %s  "+i18n.T("%d pending"), width, name, progressBar(st.percent(), 20, color), st.stats.Pending)
		if n := len(st.stale); n > 0 {
			line += ", " + paint(colorYellow, fmt.Sprintf(i18n.N("%d stale", "%d stale", n), n))
		}
		fmt.Fprintln(w, line)
		if verbose {
			for _, key := range st.stale {
				fmt.Fprintf(w, "      %s\n", key)
			}
		}
	}
}

// progressBar renders percent as a bar of width cells followed by the
// number, colored by how far along it is.
func progressBar(percent, width int, color bool) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if color {
		c := colorRed
		switch {
		case percent == 100:
			c = colorGreen
		case percent >= 50:
			c = colorYellow
		}
		bar = c + bar + colorReset
	}
	return fmt.Sprintf("%s %3d%%", bar, percent)
}
