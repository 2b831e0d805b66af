// Package translate implements batch translation of the pending lines of a
// .lang file through an AI provider: Google AI (Gemini), OpenAI, Groq,
// a custom OpenAI-compatible endpoint, or a local Ollama.
//
// One file is one round: every pending line goes into a single request,
// the reply is parsed defensively, and whatever could be matched back is
// written in place. Lines left unresolved stay pending and are collected
// again on the next run.
package translate

import (
	"context"
	"errors"

	"github.com/minios-linux/langsync/langfile"
	"github.com/minios-linux/langsync/lockfile"
)

// ErrUnparseable is reported when no strategy could read the reply.
var ErrUnparseable = errors.New("could not parse any translation from the response")

// ---------------------------------------------------------------------------
// Translation options
// ---------------------------------------------------------------------------

// Options controls the translation behavior.
type Options struct {
	// Preamble is the rendered prompt preamble.
	Preamble string
	// Strategies overrides the response parse chain.
	Strategies []Strategy
	// DryRun collects and reports the batch without calling the oracle.
	DryRun bool
	// Lock, when set, receives the source hash of every translated line.
	Lock *lockfile.LockFile
	// LockTarget maps a file path to its lock target key.
	// Defaults to lockfile.TargetKey.
	LockTarget func(path string) string
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// OnError emits error messages during translation.
	OnError func(format string, args ...any)
	// Verbose enables detailed logging.
	Verbose bool
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) lockTarget(path string) string {
	if o.LockTarget != nil {
		return o.LockTarget(path)
	}
	return lockfile.TargetKey(path)
}

// Report describes one translation round.
type Report struct {
	Path      string
	Collected int // pending lines sent
	Resolved  int // indices the reply mapped back
	Applied   int // lines rewritten
	Remaining int // lines still pending afterwards
	// PromptBytes is the size of the request text.
	PromptBytes int
	// Err is the oracle or parse failure of this round, if any. It never
	// causes the file to change.
	Err error
}

// Translator runs translation rounds against one oracle.
type Translator struct {
	oracle Oracle
	opts   Options
}

// New returns a Translator. oracle may be nil in dry-run mode.
func New(oracle Oracle, opts Options) *Translator {
	return &Translator{oracle: oracle, opts: opts}
}

// Round translates the pending lines of f in memory. Oracle and parse
// failures are recorded in the report and leave f untouched.
func (t *Translator) Round(ctx context.Context, f *langfile.File) (Report, []int) {
	var rep Report
	batch := Collect(f)
	rep.Collected = len(batch)
	rep.Remaining = len(batch)
	if len(batch) == 0 {
		return rep, nil
	}

	prompt := BuildPrompt(t.opts.Preamble, batch)
	rep.PromptBytes = len(prompt)
	if t.opts.DryRun || t.oracle == nil {
		if t.opts.Verbose {
			for _, it := range batch {
				t.opts.log("[%d] %s", it.Index, it.Text)
			}
		}
		return rep, nil
	}

	reply, err := t.oracle.Complete(ctx, prompt)
	if err != nil {
		rep.Err = err
		return rep, nil
	}

	result := ParseResponse(reply, batch, t.opts.Strategies...)
	rep.Resolved = len(result)
	if len(result) == 0 {
		rep.Err = ErrUnparseable
		if t.opts.Verbose {
			t.opts.log("Response: %s", truncate(reply, 500))
		}
		return rep, nil
	}

	applied := Apply(f, result)
	rep.Applied = len(applied)
	rep.Remaining = len(batch) - len(applied)
	return rep, applied
}

// TranslateFile runs one round over the file at path and writes it back
// when anything was translated. Read and write failures are returned.
func (t *Translator) TranslateFile(ctx context.Context, path string) (Report, error) {
	f, err := langfile.ParseFile(path)
	if err != nil {
		return Report{Path: path}, err
	}

	// Source texts, by line key, before Apply replaces them.
	sources := make(map[int]string)
	for _, it := range Collect(f) {
		sources[it.Index] = it.Text
	}

	rep, applied := t.Round(ctx, f)
	rep.Path = path

	switch {
	case rep.Collected == 0:
		t.opts.log("No new strings to translate in %s", path)
		return rep, nil
	case t.opts.DryRun:
		t.opts.log("%s: %d strings to translate (%d bytes of prompt)", path, rep.Collected, rep.PromptBytes)
		return rep, nil
	case rep.Err != nil:
		t.opts.logError("%s: %v", path, rep.Err)
		return rep, nil
	}

	if rep.Applied > 0 {
		if err := f.WriteFile(path); err != nil {
			return rep, err
		}
		if t.opts.Lock != nil {
			entries := make(map[string]string, len(applied))
			for _, idx := range applied {
				entries[f.LineKey(idx)] = sources[idx]
			}
			t.opts.Lock.UpdateBatch(t.opts.lockTarget(path), entries)
		}
	}
	t.opts.log("%s: translated %d of %d strings, %d still pending", path, rep.Applied, rep.Collected, rep.Remaining)
	return rep, nil
}
