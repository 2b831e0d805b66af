// Package langfile implements reading and writing of .lang resource files.
//
// Format: "key = value" pairs, one per line. Comment lines ('#'), blank
// lines and any other line without a "key =" prefix are preserved
// verbatim. Keys may hold any characters except whitespace and '='. A value ending in a single backslash continues on the following
// physical lines until a line that does not end in a backslash:
//
//	item.sword.desc = A blade \
//	    forged long ago.
//
// Translation status is tracked per line as an explicit Status. On disk a
// pending entry carries a key-level marker after its value, a pending
// continuation line carries a line-level marker before its trailing
// backslash:
//
//	menu.play = Play # TODO: Translate
//	item.sword.desc = A blade \ # TODO: Translate
//	    forged long ago. # TODO: TranslateLine
//
// Unmodified lines are written back byte for byte, so parse then marshal
// reproduces the input.
package langfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Marker strings appended to lines that still need translation.
const (
	KeyMarker  = " # TODO: Translate"
	LineMarker = " # TODO: TranslateLine"
)

const sentinel = `\`

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// Kind classifies each physical line.
type Kind int

const (
	Passthrough  Kind = iota // comment, blank or unrecognized line
	Entry                    // key = value
	Continuation             // physical line continuing the value above
)

func (k Kind) String() string {
	switch k {
	case Entry:
		return "entry"
	case Continuation:
		return "continuation"
	default:
		return "passthrough"
	}
}

// Status is the translation state of an Entry or Continuation.
type Status int

const (
	Clean   Status = iota // translated, or needs no translation
	Pending               // still holds source-language text
)

func (s Status) String() string {
	if s == Pending {
		return "pending"
	}
	return "clean"
}

// Line is a single physical line of a .lang file.
//
// Lines are values: the With* methods return a modified copy that is
// re-rendered on output, while an untouched copy keeps its original bytes.
type Line struct {
	Kind Kind
	// Key is the trimmed key (Entry only).
	Key string
	// Indent is the leading whitespace of a Continuation.
	Indent string
	// Text is the value text without marker or trailing backslash.
	Text string
	// Continues reports whether the line ends with a continuation backslash.
	Continues bool
	Status    Status

	keyPart   string // text left of '=' as written
	raw       string // physical line as read, without line terminator
	body      string // raw with marker removed and trailing blanks trimmed
	rewritten bool   // Text changed since parse
	dirty     bool
}

// WithText returns a copy of l carrying text as its value.
func (l Line) WithText(text string) Line {
	if l.Text == text {
		return l
	}
	l.Text = text
	l.rewritten = true
	l.dirty = true
	return l
}

// WithStatus returns a copy of l with the given translation status.
func (l Line) WithStatus(s Status) Line {
	if l.Status == s {
		return l
	}
	l.Status = s
	l.dirty = true
	return l
}

// WithContinues returns a copy of l with the continuation flag set to c.
func (l Line) WithContinues(c bool) Line {
	if l.Continues == c {
		return l
	}
	l.Continues = c
	l.rewritten = true
	l.dirty = true
	return l
}

// Translatable reports whether the line holds value text.
func (l Line) Translatable() bool {
	return l.Kind == Entry || l.Kind == Continuation
}

// Raw returns the physical line as it will be written.
func (l Line) Raw() string {
	return l.render()
}

func (l Line) render() string {
	if !l.dirty || l.Kind == Passthrough {
		return l.raw
	}
	var b strings.Builder
	switch l.Kind {
	case Entry:
		if l.rewritten || l.body == "" {
			b.WriteString(strings.TrimRight(l.keyPart, " \t"))
			b.WriteString(" = ")
			b.WriteString(l.Text)
			if l.Continues {
				b.WriteString(sentinel)
			}
		} else {
			b.WriteString(l.body)
		}
		if l.Status == Pending {
			b.WriteString(KeyMarker)
		}
	case Continuation:
		b.WriteString(l.Indent)
		b.WriteString(l.Text)
		if l.Status == Pending {
			b.WriteString(LineMarker)
		}
		if l.Continues {
			b.WriteString(sentinel)
		}
	}
	return b.String()
}

// File represents a parsed .lang file.
type File struct {
	lines []Line
	// crlf is set when the input used Windows line endings.
	crlf bool
	// noFinalNewline is set when the last line had no terminator.
	noFinalNewline bool
	// bom is set when the input started with a UTF-8 byte order mark.
	bom bool
}

// New returns an empty File that writes with the same line endings as like.
// A nil like yields "\n" endings.
func New(like *File) *File {
	f := &File{}
	if like != nil {
		f.crlf = like.crlf
		f.noFinalNewline = like.noFinalNewline
		f.bom = like.bom
	}
	return f
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

const bom = "\ufeff"

// chainKeyPattern is the stricter key shape that ends a continuation chain.
// Markup such as "<color=#fff>" inside a continued value does not match it.
var chainKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ParseFile reads and parses a .lang file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses .lang content from a byte slice.
func Parse(data []byte) (*File, error) {
	f := &File{}

	text := string(data)
	if strings.HasPrefix(text, bom) {
		f.bom = true
		text = text[len(bom):]
	}
	if strings.Contains(text, "\r\n") {
		f.crlf = true
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	rawLines := strings.Split(text, "\n")

	// Drop trailing empty element from a file that ends with \n.
	if rawLines[len(rawLines)-1] == "" {
		rawLines = rawLines[:len(rawLines)-1]
	} else {
		f.noFinalNewline = true
	}

	for i := 0; i < len(rawLines); {
		raw := rawLines[i]
		i++

		body, status := stripMarker(raw)
		keyPart, value, ok := splitPair(body)
		if !ok {
			f.lines = append(f.lines, Line{Kind: Passthrough, raw: raw})
			continue
		}

		entry := Line{
			Kind:    Entry,
			Key:     strings.TrimSpace(keyPart),
			Status:  status,
			keyPart: keyPart,
			raw:     raw,
			body:    body,
		}
		entry.Text, entry.Continues = splitSentinel(value)
		f.lines = append(f.lines, entry)

		// Consume the continuation chain. A line whose key has the strict
		// shape starts a new entry; comment lines are consumed like text.
		continues := entry.Continues
		for continues && i < len(rawLines) {
			raw := rawLines[i]
			body, status := stripMarker(raw)
			if keyPart, _, ok := splitPair(body); ok && chainKeyPattern.MatchString(strings.TrimSpace(keyPart)) {
				break
			}
			i++

			content, cont := splitSentinel(body)
			cl := Line{
				Kind:      Continuation,
				Indent:    leadingSpace(content),
				Text:      strings.TrimSpace(content),
				Continues: cont,
				Status:    status,
				raw:       raw,
				body:      body,
			}
			f.lines = append(f.lines, cl)
			continues = cont
		}
	}

	return f, nil
}

// splitPair splits a "key = value" line at its first '='. The key must be
// non-empty and free of whitespace; comment lines never split.
func splitPair(s string) (keyPart, value string, ok bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(s[:eq])
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return s[:eq], strings.TrimSpace(s[eq+1:]), true
}

// StripMarker removes a trailing key-level or line-level marker from s.
func StripMarker(s string) string {
	body, _ := stripMarker(s)
	return body
}

// stripMarker removes a marker in either position and reports whether one
// was present. The line marker is checked first because the key marker is
// its prefix.
func stripMarker(raw string) (string, Status) {
	s := strings.TrimRight(raw, " \t")
	for _, m := range []string{LineMarker, KeyMarker} {
		if strings.HasSuffix(s, m+" "+sentinel) {
			return strings.TrimSuffix(s, m+" "+sentinel) + " " + sentinel, Pending
		}
		if strings.HasSuffix(s, m+sentinel) {
			return strings.TrimSuffix(s, m+sentinel) + sentinel, Pending
		}
		if strings.HasSuffix(s, m) {
			return strings.TrimRight(strings.TrimSuffix(s, m), " \t"), Pending
		}
	}
	return s, Clean
}

// splitSentinel strips an unescaped trailing backslash from s. An even run
// of backslashes is an escaped literal and does not continue the value.
func splitSentinel(s string) (string, bool) {
	s = strings.TrimRight(s, " \t")
	n := 0
	for n < len(s) && s[len(s)-1-n] == '\\' {
		n++
	}
	if n%2 == 0 {
		return s, false
	}
	return strings.TrimRight(s[:len(s)-1], " \t"), true
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Len returns the number of physical lines.
func (f *File) Len() int { return len(f.lines) }

// Line returns the line at index i.
func (f *File) Line(i int) Line { return f.lines[i] }

// Lines returns a copy of all lines in document order.
func (f *File) Lines() []Line {
	return append([]Line(nil), f.lines...)
}

// Set replaces the line at index i.
func (f *File) Set(i int, l Line) { f.lines[i] = l }

// Append adds l at the end of the file.
func (f *File) Append(l Line) { f.lines = append(f.lines, l) }

// Block groups an Entry with its continuation lines, by line index.
type Block struct {
	Entry         int
	Continuations []int
}

// Blocks returns the entry blocks in document order.
func (f *File) Blocks() []Block {
	var blocks []Block
	for i, ln := range f.lines {
		switch ln.Kind {
		case Entry:
			blocks = append(blocks, Block{Entry: i})
		case Continuation:
			if len(blocks) > 0 {
				b := &blocks[len(blocks)-1]
				b.Continuations = append(b.Continuations, i)
			}
		}
	}
	return blocks
}

// Lookup returns the entry for key. When a key is defined more than once
// the last definition wins.
func (f *File) Lookup(key string) (Line, bool) {
	for i := len(f.lines) - 1; i >= 0; i-- {
		if f.lines[i].Kind == Entry && f.lines[i].Key == key {
			return f.lines[i], true
		}
	}
	return Line{}, false
}

// Keys returns all entry keys in document order.
func (f *File) Keys() []string {
	var keys []string
	for _, ln := range f.lines {
		if ln.Kind == Entry {
			keys = append(keys, ln.Key)
		}
	}
	return keys
}

// LineKey returns a stable identifier for the translatable line at i: the
// entry key for an Entry, "key#n" for the n-th continuation of key.
// Passthrough lines yield "".
func (f *File) LineKey(i int) string {
	switch f.lines[i].Kind {
	case Entry:
		return f.lines[i].Key
	case Continuation:
		n := 0
		for j := i; j >= 0; j-- {
			switch f.lines[j].Kind {
			case Continuation:
				n++
			case Entry:
				return fmt.Sprintf("%s#%d", f.lines[j].Key, n)
			}
		}
	}
	return ""
}

// Stats summarizes a file.
type Stats struct {
	Lines         int
	Entries       int
	Continuations int
	Pending       int
}

// Stats counts entries, continuation lines and pending lines.
func (f *File) Stats() Stats {
	s := Stats{Lines: len(f.lines)}
	for _, ln := range f.lines {
		switch ln.Kind {
		case Entry:
			s.Entries++
		case Continuation:
			s.Continuations++
		default:
			continue
		}
		if ln.Status == Pending {
			s.Pending++
		}
	}
	return s
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal serialises the file back to .lang format.
func (f *File) Marshal() ([]byte, error) {
	nl := "\n"
	if f.crlf {
		nl = "\r\n"
	}
	var buf bytes.Buffer
	if f.bom {
		buf.WriteString(bom)
	}
	for i, ln := range f.lines {
		buf.WriteString(ln.render())
		if i < len(f.lines)-1 || !f.noFinalNewline {
			buf.WriteString(nl)
		}
	}
	return buf.Bytes(), nil
}

// WriteFile serialises and writes to path, creating parent directories
// with 0755 permissions.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
