// Package merge reconciles a localized .lang file with a new upstream
// release, the way msgmerge reconciles a PO file with its template, and
// overlays fixed translation sets onto freshly extracted base files.
package merge

import (
	"github.com/minios-linux/langsync/langfile"
)

// Classifier decides whether a source text needs translation.
type Classifier interface {
	NeedsTranslation(text string) bool
}

// Report counts what a Sync did.
type Report struct {
	Lines   int // lines in the result
	Entries int // entries in the result
	Carried int // translatable lines carried over from the existing file
	Added   int // keys with no counterpart in the existing file
	Pending int // lines left marked for translation
}

// prior is the existing file's state for one key.
type prior struct {
	entry langfile.Line
	conts []langfile.Line
}

// Sync rebuilds a localized file from upstream. The result follows
// upstream's line structure and order:
//   - passthrough lines are copied from upstream;
//   - an entry whose key already has a translation in existing keeps it;
//   - any other entry takes upstream's text and is marked pending when
//     cls says it needs translation;
//   - the n-th continuation of a key reuses the existing file's n-th
//     continuation of that key when it is translated, and is otherwise
//     derived from upstream like an entry.
//
// Lines that existing still had marked pending are re-derived from
// upstream, so running Sync on its own output changes nothing.
// A nil existing behaves like an empty file.
func Sync(upstream, existing *langfile.File, cls Classifier) (*langfile.File, Report) {
	known := make(map[string]prior)
	if existing != nil {
		for _, b := range existing.Blocks() {
			p := prior{entry: existing.Line(b.Entry)}
			for _, ci := range b.Continuations {
				p.conts = append(p.conts, existing.Line(ci))
			}
			// Duplicate keys: last definition wins.
			known[p.entry.Key] = p
		}
	}

	out := langfile.New(upstream)
	var rep Report

	var (
		cur    prior
		hasCur bool
		nCont  int
	)
	for i := 0; i < upstream.Len(); i++ {
		l := upstream.Line(i)
		switch l.Kind {
		case langfile.Passthrough:
			out.Append(l)

		case langfile.Entry:
			cur, hasCur = known[l.Key]
			nCont = 0
			if !hasCur {
				rep.Added++
			}
			if hasCur && cur.entry.Status == langfile.Clean {
				out.Append(l.WithText(cur.entry.Text).WithStatus(langfile.Clean))
				rep.Carried++
				continue
			}
			out.Append(derive(l, cls))

		case langfile.Continuation:
			n := nCont
			nCont++
			if hasCur && n < len(cur.conts) && cur.conts[n].Status == langfile.Clean {
				out.Append(cur.conts[n].WithContinues(l.Continues))
				rep.Carried++
				continue
			}
			out.Append(derive(l, cls))
		}
	}

	st := out.Stats()
	rep.Lines = st.Lines
	rep.Entries = st.Entries
	rep.Pending = st.Pending
	return out, rep
}

// derive returns upstream line l marked according to cls.
func derive(l langfile.Line, cls Classifier) langfile.Line {
	if cls.NeedsTranslation(l.Text) {
		return l.WithStatus(langfile.Pending)
	}
	return l.WithStatus(langfile.Clean)
}
