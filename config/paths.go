package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// gameDir is the game installation below the platform data directory.
const gameDir = "install/release/package/game/latest/Client"

// DefaultUpstreamDir returns the language directory of the locally
// installed game for sourceLocale, e.g.
// ~/.local/share/Hytale/install/release/package/game/latest/Client/Data/Shared/Language/en-US
func DefaultUpstreamDir(sourceLocale string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return upstreamDirFor(runtime.GOOS, home, os.Getenv("APPDATA"), sourceLocale)
}

// upstreamDirFor computes the default upstream directory for an OS.
func upstreamDirFor(goos, home, appData, sourceLocale string) string {
	switch goos {
	case "windows":
		if appData == "" {
			appData = home
		}
		return filepath.Join(appData, "Hytale", filepath.FromSlash(gameDir), "Data", "Shared", "Language", sourceLocale)
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Hytale", filepath.FromSlash(gameDir),
			"Hytale.app", "Contents", "Resources", "Data", "Shared", "Language", sourceLocale)
	default:
		return filepath.Join(home, ".local", "share", "Hytale", filepath.FromSlash(gameDir), "Data", "Shared", "Language", sourceLocale)
	}
}
