package translate

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/minios-linux/langsync/langfile"
)

// Item is one pending line: its physical line index and source text.
type Item struct {
	Index int
	Text  string
}

// Batch is the set of pending lines sent in one oracle round, in line order.
type Batch []Item

// Result maps batch indices to translated text. It may cover only part of
// its batch.
type Result map[int]string

func (b Batch) indexSet() map[int]bool {
	m := make(map[int]bool, len(b))
	for _, it := range b {
		m[it.Index] = true
	}
	return m
}

// Collect returns every pending entry and continuation line of f.
func Collect(f *langfile.File) Batch {
	var b Batch
	for i := 0; i < f.Len(); i++ {
		l := f.Line(i)
		if l.Translatable() && l.Status == langfile.Pending {
			b = append(b, Item{Index: i, Text: l.Text})
		}
	}
	return b
}

// Apply writes translations from r into f and clears their markers.
// Indices that are out of range, not pending, or map to an empty
// translation are skipped. It returns the indices applied, ascending.
func Apply(f *langfile.File, r Result) []int {
	idxs := make([]int, 0, len(r))
	for idx := range r {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	applied := idxs[:0]
	for _, idx := range idxs {
		if idx < 0 || idx >= f.Len() {
			continue
		}
		l := f.Line(idx)
		if !l.Translatable() || l.Status != langfile.Pending {
			continue
		}
		text := cleanTranslation(r[idx])
		if text == "" {
			continue
		}
		f.Set(idx, l.WithText(text).WithStatus(langfile.Clean))
		applied = append(applied, idx)
	}
	return applied
}

// cleanTranslation normalizes a translated text to NFC and removes any
// echoed marker and trailing backslashes. Whether the line continues is
// taken from the file, never from the translation.
func cleanTranslation(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	for {
		prev := s
		s = strings.TrimSpace(langfile.StripMarker(s))
		s = strings.TrimRight(s, `\`)
		s = strings.TrimSpace(s)
		if s == prev {
			return s
		}
	}
}
