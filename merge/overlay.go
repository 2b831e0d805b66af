package merge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/minios-linux/langsync/langfile"
)

// Patch maps keys to replacement values.
type Patch map[string]string

// OverlayStats counts the entries of a base file and how many of them were
// replaced.
type OverlayStats struct {
	Replaced int
	Total    int
}

// ParsePatch reads the entries of a .lang file. Later definitions win.
// Entries still marked for translation hold source text and are left out,
// so a localized file can serve as a patch.
func ParsePatch(data []byte) (Patch, error) {
	f, err := langfile.Parse(data)
	if err != nil {
		return nil, err
	}
	p := make(Patch)
	for _, ln := range f.Lines() {
		if ln.Kind == langfile.Entry && ln.Status == langfile.Clean {
			p[ln.Key] = ln.Text
		}
	}
	return p, nil
}

// LoadPatch reads a patch file. A missing file yields an empty patch.
func LoadPatch(path string) (Patch, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Patch{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading patch %s: %w", path, err)
	}
	p, err := ParsePatch(data)
	if err != nil {
		return nil, fmt.Errorf("parsing patch %s: %w", path, err)
	}
	return p, nil
}

// Overlay replaces the value of every base entry whose key is in patch.
// A replaced entry keeps the base's continuation backslash, and its
// continuation lines are left alone. All other lines, and the line
// terminators, are kept byte for byte.
func Overlay(base []byte, patch Patch) ([]byte, OverlayStats, error) {
	var stats OverlayStats
	f, err := langfile.Parse(base)
	if err != nil {
		return nil, stats, err
	}

	var b strings.Builder
	b.Grow(len(base))
	text := string(base)
	if strings.HasPrefix(text, bom) {
		b.WriteString(bom)
		text = text[len(bom):]
	}
	i := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		ln := f.Line(i)
		i++
		if ln.Kind != langfile.Entry {
			b.WriteString(line)
			continue
		}
		stats.Total++
		v, found := patch[ln.Key]
		if !found {
			b.WriteString(line)
			continue
		}
		stats.Replaced++
		content := strings.TrimRight(line, "\r\n")
		b.WriteString(ln.Key)
		b.WriteString(" = ")
		b.WriteString(v)
		if ln.Continues {
			b.WriteString(`\`)
		}
		b.WriteString(line[len(content):])
	}
	return []byte(b.String()), stats, nil
}

const bom = "\ufeff"

// OverlayFile applies the patch at patchPath to basePath and writes the
// result to outPath. A missing patch copies the base unchanged.
func OverlayFile(basePath, patchPath, outPath string) (OverlayStats, error) {
	base, err := os.ReadFile(basePath)
	if err != nil {
		return OverlayStats{}, fmt.Errorf("reading base %s: %w", basePath, err)
	}
	patch, err := LoadPatch(patchPath)
	if err != nil {
		return OverlayStats{}, err
	}
	out, stats, err := Overlay(base, patch)
	if err != nil {
		return OverlayStats{}, fmt.Errorf("parsing base %s: %w", basePath, err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return stats, fmt.Errorf("mkdir %s: %w", filepath.Dir(outPath), err)
	}
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return stats, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return stats, nil
}
