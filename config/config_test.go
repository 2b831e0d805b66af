package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvUpstreamDir, "")
	t.Setenv(EnvModel, "")
	dir := t.TempDir()

	c, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Path() != "" {
		t.Errorf("Path() = %q, want empty", c.Path())
	}
	if c.Locale != DefaultLocale {
		t.Errorf("Locale = %q, want %q", c.Locale, DefaultLocale)
	}
	if !reflect.DeepEqual(c.Files, DefaultFiles) {
		t.Errorf("Files = %v, want %v", c.Files, DefaultFiles)
	}
	if got, want := c.OutputPath("client.lang"), filepath.Join(dir, "Language", "ko-KR", "client.lang"); got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
	if got, want := c.PatchPath("meta.lang"), filepath.Join(dir, "patches", "ko-KR", "meta.lang"); got != want {
		t.Errorf("PatchPath = %q, want %q", got, want)
	}
	if !strings.HasSuffix(c.UpstreamDir, filepath.Join("Language", "en-US")) {
		t.Errorf("UpstreamDir = %q, want a game language directory", c.UpstreamDir)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvUpstreamDir, "")
	t.Setenv(EnvModel, "")
	dir := t.TempDir()
	writeConfig(t, dir, `locale: ja-JP
upstream_dir: upstream
output_dir: out
files: [client.lang]
provider: ollama
model: llama3
glossary:
  - {source: Kweebec, target: クウィーベック}
`)

	c, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Locale != "ja-JP" || c.Provider != "ollama" || c.Model != "llama3" {
		t.Errorf("config = %+v", c)
	}
	if got, want := c.UpstreamPath("client.lang"), filepath.Join(dir, "upstream", "client.lang"); got != want {
		t.Errorf("UpstreamPath = %q, want %q", got, want)
	}
	if got, want := c.PatchPath("client.lang"), filepath.Join(dir, "patches", "ja-JP", "client.lang"); got != want {
		t.Errorf("PatchPath = %q, want %q", got, want)
	}
	if len(c.Glossary) != 1 || c.Glossary[0].Target != "クウィーベック" {
		t.Errorf("Glossary = %+v", c.Glossary)
	}
	if got := c.LockTarget(c.OutputPath("client.lang")); got != "out/client.lang" {
		t.Errorf("LockTarget = %q, want %q", got, "out/client.lang")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "upstream_dir: from-file\n")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_MODEL_ID=gemini-from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvUpstreamDir, "/srv/upstream")
	t.Setenv(EnvModel, "")
	os.Unsetenv(EnvModel)

	c, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.UpstreamDir != "/srv/upstream" {
		t.Errorf("UpstreamDir = %q, want env override", c.UpstreamDir)
	}
	if c.Model != "gemini-from-dotenv" {
		t.Errorf("Model = %q, want value from .env", c.Model)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("explicit path missing", func(t *testing.T) {
		if _, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "files: [\n")
		if _, err := Load(dir, ""); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("file with directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "files: [sub/client.lang]\n")
		_, err := Load(dir, "")
		if err == nil || !strings.Contains(err.Error(), FileName) {
			t.Fatalf("err = %v, want error mentioning %s", err, FileName)
		}
	})

	t.Run("duplicate file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "files: [a.lang, a.lang]\n")
		if _, err := Load(dir, ""); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("incomplete glossary", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "glossary:\n  - {source: Void}\n")
		if _, err := Load(dir, ""); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestSelectFiles(t *testing.T) {
	c := &Config{Files: []string{"client.lang", "meta.lang"}}

	got, err := c.SelectFiles(nil)
	if err != nil || !reflect.DeepEqual(got, c.Files) {
		t.Errorf("SelectFiles(nil) = %v, %v", got, err)
	}
	got, err = c.SelectFiles([]string{"meta.lang"})
	if err != nil || !reflect.DeepEqual(got, []string{"meta.lang"}) {
		t.Errorf("SelectFiles(meta) = %v, %v", got, err)
	}
	if _, err := c.SelectFiles([]string{"server.lang"}); err == nil {
		t.Error("expected error for unknown file")
	}
}

func TestUpstreamDirFor(t *testing.T) {
	tests := []struct {
		goos, home, appData string
		want                string
	}{
		{"linux", "/home/u", "", filepath.Join("/home/u", ".local", "share", "Hytale", "install", "release", "package", "game", "latest", "Client", "Data", "Shared", "Language", "en-US")},
		{"darwin", "/Users/u", "", filepath.Join("/Users/u", "Library", "Application Support", "Hytale", "install", "release", "package", "game", "latest", "Client", "Hytale.app", "Contents", "Resources", "Data", "Shared", "Language", "en-US")},
		{"windows", "/home/u", "/appdata", filepath.Join("/appdata", "Hytale", "install", "release", "package", "game", "latest", "Client", "Data", "Shared", "Language", "en-US")},
		{"windows", "/home/u", "", filepath.Join("/home/u", "Hytale", "install", "release", "package", "game", "latest", "Client", "Data", "Shared", "Language", "en-US")},
	}
	for _, tt := range tests {
		got := upstreamDirFor(tt.goos, tt.home, tt.appData, "en-US")
		if got != tt.want {
			t.Errorf("upstreamDirFor(%q) = %q, want %q", tt.goos, got, tt.want)
		}
	}
}
