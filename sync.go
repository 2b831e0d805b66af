package main

import (
	"github.com/minios-linux/langsync/classify"
	"github.com/minios-linux/langsync/config"
	"github.com/minios-linux/langsync/i18n"
	"github.com/minios-linux/langsync/langfile"
	"github.com/minios-linux/langsync/lockfile"
	"github.com/minios-linux/langsync/merge"
	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// sync (upstream -> localized, marking new strings)
// ---------------------------------------------------------------------------

type syncArgs struct {
	files  []string
	dryRun bool
}

func newSyncCmd() *cobra.Command {
	var (
		files  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Rebuild localized files from upstream, marking new strings",
		Long: `Rebuild each localized file from its upstream source file.

The output follows upstream's line order exactly. Lines already translated
are carried over, even when the upstream text has changed since (see
'langsync status' for such stale translations). New or untranslated text is
copied from upstream and marked with # TODO: Translate.

Examples:
  langsync sync
  langsync sync --file client.lang
  langsync sync --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			return runSync(cfg, syncArgs{files: splitList(files), dryRun: dryRun})
		},
	}

	cmd.Flags().StringVar(&files, "file", "", "Files to process (comma-separated, default: all configured)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")

	return cmd
}

func runSync(cfg *config.Config, a syncArgs) error {
	files, err := cfg.SelectFiles(a.files)
	if err != nil {
		return err
	}
	cls, err := classify.ForLocale(cfg.Locale)
	if err != nil {
		return err
	}
	lock, err := lockfile.Load(cfg.Root())
	if err != nil {
		return err
	}
	logDebug(i18n.T("Target locale %s, script %s"), cls.Locale(), cls.Script())

	failed := 0
	for _, name := range files {
		s := merge.NewSession(cfg.UpstreamPath(name), cfg.OutputPath(name), cls)
		if err := s.Load(); err != nil {
			logError("%s: %v", name, err)
			failed++
			continue
		}
		if s.UpstreamMissing {
			logWarning(i18n.T("Upstream file not found, skipping: %s"), s.UpstreamPath)
			continue
		}

		rep := s.Run()
		if !s.Changed() {
			logInfo(i18n.T("%s is up to date (%d pending)"), name, rep.Pending)
			continue
		}
		if a.dryRun {
			logInfo(i18n.T("%s would change: %d entries, %d carried, %d added, %d pending"),
				name, rep.Entries, rep.Carried, rep.Added, rep.Pending)
			continue
		}
		if err := s.Save(); err != nil {
			logError("%s: %v", name, err)
			failed++
			continue
		}
		lock.Clean(cfg.LockTarget(s.TargetPath), lineKeys(s.Output))
		logSuccess(i18n.T("Synchronized %s: %d entries, %d carried, %d added, %d pending"),
			name, rep.Entries, rep.Carried, rep.Added, rep.Pending)
	}

	if !a.dryRun {
		if err := saveLock(lock); err != nil {
			return err
		}
	}
	return failedFiles(failed)
}

// lineKeys returns the lock keys of every translatable line of f.
func lineKeys(f *langfile.File) []string {
	var keys []string
	for i := 0; i < f.Len(); i++ {
		if f.Line(i).Translatable() {
			keys = append(keys, f.LineKey(i))
		}
	}
	return keys
}

// saveLock writes the lock file unless there is nothing to record and no
// file to update.
func saveLock(lock *lockfile.LockFile) error {
	if _, keys := lock.Stats(); keys == 0 && !fileExists(lock.Path()) {
		return nil
	}
	return lock.Save()
}
