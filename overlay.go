package main

import (
	"errors"
	"path/filepath"

	"github.com/minios-linux/langsync/config"
	"github.com/minios-linux/langsync/i18n"
	"github.com/minios-linux/langsync/merge"
	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// overlay (install-time patch stamping)
// ---------------------------------------------------------------------------

func newOverlayCmd() *cobra.Command {
	var (
		outDir string
		files  string
	)

	cmd := &cobra.Command{
		Use:   "overlay [BASE PATCH OUT]",
		Short: "Stamp a fixed translation set onto upstream files",
		Long: `Apply a flat key=value patch onto a base .lang file and write the result.

Keys present in the patch replace the base value; everything else is copied
unchanged. Markers and continuation lines get no special treatment.

With three arguments, one base file is patched explicitly. Without
arguments, every configured file is processed: the base is the upstream
file, the patch comes from patch_dir (falling back to the localized file)
and the result is written to --out.

Examples:
  langsync overlay en-US/client.lang ko-KR/client.lang out/client.lang
  langsync overlay --out "$GAME/Language/ko-KR"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return errors.New(i18n.T("overlay takes either no arguments or BASE PATCH OUT"))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 3 {
				return overlayOne(args[0], args[1], args[2])
			}
			if outDir == "" {
				return errors.New(i18n.T("--out is required without explicit files"))
			}
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			return runOverlay(cfg, splitList(files), outDir)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&files, "file", "", "Files to process (comma-separated, default: all configured)")

	return cmd
}

func overlayOne(base, patch, out string) error {
	stats, err := merge.OverlayFile(base, patch, out)
	if err != nil {
		return err
	}
	logSuccess(i18n.T("Overlaid %s: %d/%d keys replaced"), out, stats.Replaced, stats.Total)
	return nil
}

func runOverlay(cfg *config.Config, only []string, outDir string) error {
	files, err := cfg.SelectFiles(only)
	if err != nil {
		return err
	}

	failed := 0
	for _, name := range files {
		patch := cfg.PatchPath(name)
		if !fileExists(patch) {
			patch = cfg.OutputPath(name)
		}
		if !fileExists(patch) {
			logWarning(i18n.T("No patch for %s, skipping"), name)
			continue
		}
		if err := overlayOne(cfg.UpstreamPath(name), patch, filepath.Join(outDir, name)); err != nil {
			logError("%s: %v", name, err)
			failed++
		}
	}
	return failedFiles(failed)
}
