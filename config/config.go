// Package config handles the .langsync.yaml project file.
//
// The project file names the target locale, where the upstream
// source-language files live, where the localized files are written and
// which provider translates them. Values missing from the file fall back
// to defaults; a handful can be overridden from the environment, which is
// first populated from a .env file next to the project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".langsync.yaml"

// Environment variables read by Load.
const (
	EnvUpstreamDir = "LANGSYNC_UPSTREAM_DIR"
	EnvModel       = "GEMINI_MODEL_ID"
)

// Defaults.
const (
	DefaultLocale       = "ko-KR"
	DefaultSourceLocale = "en-US"
	DefaultProvider     = "google"
)

// DefaultFiles are the resource files synchronized when none are configured.
var DefaultFiles = []string{"client.lang", "meta.lang"}

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the top-level .langsync.yaml structure.
type Config struct {
	// Locale is the target locale, e.g. "ko-KR".
	Locale string `yaml:"locale,omitempty"`
	// SourceLocale names the upstream language directory (default "en-US").
	SourceLocale string `yaml:"source_locale,omitempty"`
	// UpstreamDir holds the upstream source-language files. Defaults to
	// the game's per-OS install location.
	UpstreamDir string `yaml:"upstream_dir,omitempty"`
	// OutputDir receives the localized files (default "Language/<locale>").
	OutputDir string `yaml:"output_dir,omitempty"`
	// PatchDir holds the fixed translation sets used by overlay
	// (default "patches/<locale>").
	PatchDir string `yaml:"patch_dir,omitempty"`
	// Files are the resource file names to process.
	Files []string `yaml:"files,omitempty"`

	// Provider is the translation provider ID.
	Provider string `yaml:"provider,omitempty"`
	// Model is the provider's model identifier.
	Model string `yaml:"model,omitempty"`
	// BaseURL overrides the provider's API endpoint.
	BaseURL string `yaml:"base_url,omitempty"`
	// PromptFile is a text/template replacing the built-in prompt preamble.
	PromptFile string `yaml:"prompt_file,omitempty"`
	// Glossary fixes the translation of game terms.
	Glossary []GlossaryTerm `yaml:"glossary,omitempty"`

	// root is the directory relative paths are resolved against.
	root string
	// path is the file the config was read from, empty if none.
	path string
}

// GlossaryTerm is one glossary entry.
type GlossaryTerm struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	Note   string `yaml:"note,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the project configuration for rootDir. path selects the config
// file; empty means rootDir/.langsync.yaml, which may be absent. An
// explicitly given path must exist.
func Load(rootDir, path string) (*Config, error) {
	if err := loadDotEnv(rootDir); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(rootDir, FileName)
	}

	c := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		c.path = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	c.root = rootDir
	c.applyEnv()
	c.applyDefaults()
	if err := c.validate(); err != nil {
		if c.path != "" {
			return nil, fmt.Errorf("%s: %w", c.path, err)
		}
		return nil, err
	}
	return c, nil
}

// loadDotEnv loads rootDir/.env if present. Variables already set in the
// environment win.
func loadDotEnv(rootDir string) error {
	path := filepath.Join(rootDir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvUpstreamDir); v != "" {
		c.UpstreamDir = v
	}
	if v := os.Getenv(EnvModel); v != "" && c.Model == "" {
		c.Model = v
	}
}

func (c *Config) applyDefaults() {
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.SourceLocale == "" {
		c.SourceLocale = DefaultSourceLocale
	}
	if c.UpstreamDir == "" {
		c.UpstreamDir = DefaultUpstreamDir(c.SourceLocale)
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join("Language", c.Locale)
	}
	if c.PatchDir == "" {
		c.PatchDir = filepath.Join("patches", c.Locale)
	}
	if len(c.Files) == 0 {
		c.Files = append([]string(nil), DefaultFiles...)
	}
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Files))
	for _, f := range c.Files {
		if f == "" || filepath.Base(f) != f {
			return fmt.Errorf("invalid file name %q: must be a plain file name", f)
		}
		if seen[f] {
			return fmt.Errorf("file %q listed twice", f)
		}
		seen[f] = true
	}
	for i, g := range c.Glossary {
		if g.Source == "" || g.Target == "" {
			return fmt.Errorf("glossary entry %d: source and target are required", i+1)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

// Path returns the file the config was read from, or "" for defaults only.
func (c *Config) Path() string { return c.path }

// Root returns the project root directory.
func (c *Config) Root() string { return c.root }

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, p)
}

// UpstreamPath returns the upstream path of file.
func (c *Config) UpstreamPath(file string) string {
	return filepath.Join(c.resolve(c.UpstreamDir), file)
}

// OutputPath returns the localized path of file.
func (c *Config) OutputPath(file string) string {
	return filepath.Join(c.resolve(c.OutputDir), file)
}

// PatchPath returns the patch path of file.
func (c *Config) PatchPath(file string) string {
	return filepath.Join(c.resolve(c.PatchDir), file)
}

// PromptPath returns the resolved prompt file, or "".
func (c *Config) PromptPath() string {
	return c.resolve(c.PromptFile)
}

// LockTarget returns the lock file key of a localized file: its path
// relative to the project root when possible.
func (c *Config) LockTarget(path string) string {
	rel, err := filepath.Rel(c.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// SelectFiles returns the configured files, restricted to only when it is
// non-empty. Names in only that are not configured are an error.
func (c *Config) SelectFiles(only []string) ([]string, error) {
	if len(only) == 0 {
		return c.Files, nil
	}
	known := make(map[string]bool, len(c.Files))
	for _, f := range c.Files {
		known[f] = true
	}
	var out []string
	for _, f := range only {
		if !known[f] {
			return nil, fmt.Errorf("file %q is not configured (have %v)", f, c.Files)
		}
		out = append(out, f)
	}
	return out, nil
}
