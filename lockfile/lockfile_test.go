package lockfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newLock() *LockFile {
	return &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
	}
}

func TestHashDeterministic(t *testing.T) {
	h1 := Hash("hello world")
	h2 := Hash("hello world")
	if h1 != h2 {
		t.Errorf("Hash not deterministic: %s != %s", h1, h2)
	}
	h3 := Hash("different")
	if h1 == h3 {
		t.Errorf("Hash collision: %s == %s", h1, h3)
	}
}

func TestLoadNonExistent(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error for non-existent file: %v", err)
	}
	if lf.Version != Version {
		t.Errorf("Version = %d, want %d", lf.Version, Version)
	}
	if len(lf.Checksums) != 0 {
		t.Errorf("Checksums not empty: %v", lf.Checksums)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	lf, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	lf.Update("ko-KR/client.lang", "menu.play", "Play")
	lf.Update("ko-KR/client.lang", "item.desc#1", "forged long ago.")
	lf.Update("ko-KR/meta.lang", "meta.name", "Name")

	if err := lf.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(dir, LockFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Lock file not created at %s", path)
	}

	lf2, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}

	targets, keys := lf2.Stats()
	if targets != 2 {
		t.Errorf("targets = %d, want 2", targets)
	}
	if keys != 3 {
		t.Errorf("keys = %d, want 3", keys)
	}
	if lf2.changed("ko-KR/client.lang", "menu.play", "Play") {
		t.Error("reloaded entry should match")
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LockFileName), []byte("checksums: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestChanged(t *testing.T) {
	lf := newLock()

	if !lf.changed("ko-KR/client.lang", "menu.play", "Play") {
		t.Error("new entry should be changed")
	}

	lf.Update("ko-KR/client.lang", "menu.play", "Play")
	if lf.changed("ko-KR/client.lang", "menu.play", "Play") {
		t.Error("unchanged entry should not be changed")
	}
	if !lf.changed("ko-KR/client.lang", "menu.play", "Start") {
		t.Error("modified entry should be changed")
	}
	if !lf.changed("ja-JP/client.lang", "menu.play", "Play") {
		t.Error("different target should be changed")
	}
}

func TestStale(t *testing.T) {
	lf := newLock()
	lf.UpdateBatch("ko-KR/client.lang", map[string]string{
		"menu.play": "Play",
		"menu.quit": "Quit",
	})

	got := lf.Stale("ko-KR/client.lang", map[string]string{
		"menu.play": "Start game", // reworded upstream
		"menu.quit": "Quit",       // unchanged
		"hud.ping":  "Ping",       // never translated
	})
	want := []string{"menu.play"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Stale() = %v, want %v", got, want)
	}
}

func TestClean(t *testing.T) {
	lf := newLock()

	lf.Update("ko-KR/client.lang", "a", "A")
	lf.Update("ko-KR/client.lang", "b", "B")
	lf.Update("ko-KR/client.lang", "gone", "Gone")

	lf.Clean("ko-KR/client.lang", []string{"a", "b"})

	if lf.changed("ko-KR/client.lang", "a", "A") {
		t.Error("a should still be tracked")
	}
	if !lf.changed("ko-KR/client.lang", "gone", "Gone") {
		t.Error("gone should be removed by Clean")
	}

	lf.Clean("ko-KR/client.lang", nil)
	if targets, _ := lf.Stats(); targets != 0 {
		t.Errorf("targets after cleaning everything = %d, want 0", targets)
	}
}

func TestTargets(t *testing.T) {
	lf := newLock()

	lf.Update("ko-KR/meta.lang", "k", "v")
	lf.Update("ko-KR/client.lang", "k", "v")
	lf.Update("ja-JP/client.lang", "k", "v")

	targets := lf.Targets()
	expected := []string{"ja-JP/client.lang", "ko-KR/client.lang", "ko-KR/meta.lang"}
	if !reflect.DeepEqual(targets, expected) {
		t.Errorf("Targets() = %v, want %v", targets, expected)
	}
}

func TestLineContent(t *testing.T) {
	c1 := LineContent("key1", "value1")
	c2 := LineContent("key1", "value2")
	c3 := LineContent("key2", "value1")
	if c1 == c2 {
		t.Error("different values should produce different content")
	}
	if c1 == c3 {
		t.Error("different keys should produce different content")
	}
}

func TestTargetKey(t *testing.T) {
	got := TargetKey(filepath.Join("ko-KR", "client.lang"))
	if got != "ko-KR/client.lang" {
		t.Errorf("TargetKey = %q, want %q", got, "ko-KR/client.lang")
	}
}

func TestSummary(t *testing.T) {
	lf := newLock()

	if lf.Summary() != "empty" {
		t.Errorf("empty summary = %q, want %q", lf.Summary(), "empty")
	}

	lf.Update("ko-KR/client.lang", "a", "A")
	lf.Update("ko-KR/meta.lang", "a", "A")
	want := "2 targets, 2 keys (ko-KR/client.lang: 1 keys, ko-KR/meta.lang: 1 keys)"
	if got := lf.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestConcurrentAccess(t *testing.T) {
	lf := newLock()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(n int) {
			target := "ko-KR/client.lang"
			key := "key" + string(rune('0'+n))
			lf.Update(target, key, "value")
			lf.Stale(target, map[string]string{key: "value"})
			lf.Stats()
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	_, keys := lf.Stats()
	if keys != 10 {
		t.Errorf("keys after concurrent writes = %d, want 10", keys)
	}
}
