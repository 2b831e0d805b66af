package langfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustParse(t *testing.T, s string) *File {
	t.Helper()
	f, err := Parse([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func marshal(t *testing.T, f *File) string {
	t.Helper()
	data, err := f.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestParse_Basic(t *testing.T) {
	f := mustParse(t, "# header\n\nmenu.play = Play\nmenu.quit=Quit\n")
	if f.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", f.Len())
	}
	if f.Line(0).Kind != Passthrough || f.Line(1).Kind != Passthrough {
		t.Errorf("comment and blank lines should be passthrough")
	}
	l, ok := f.Lookup("menu.play")
	if !ok || l.Text != "Play" {
		t.Errorf("Lookup(menu.play) = %q, %v, want %q", l.Text, ok, "Play")
	}
	l, ok = f.Lookup("menu.quit")
	if !ok || l.Text != "Quit" {
		t.Errorf("Lookup(menu.quit) = %q, %v, want %q", l.Text, ok, "Quit")
	}
}

func TestParse_ContinuationChain(t *testing.T) {
	f := mustParse(t, "item.sword.desc = A blade \\\n    forged long ago.\nhud.ping = Ping\n")
	if f.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", f.Len())
	}
	e := f.Line(0)
	if e.Kind != Entry || e.Text != "A blade" || !e.Continues {
		t.Errorf("entry = %+v", e)
	}
	c := f.Line(1)
	if c.Kind != Continuation || c.Text != "forged long ago." || c.Indent != "    " || c.Continues {
		t.Errorf("continuation = %+v", c)
	}
	if f.Line(2).Kind != Entry {
		t.Errorf("line 2 kind = %v, want entry", f.Line(2).Kind)
	}
	if got := f.LineKey(1); got != "item.sword.desc#1" {
		t.Errorf("LineKey(1) = %q, want %q", got, "item.sword.desc#1")
	}
}

func TestParse_ChainStopsAtPair(t *testing.T) {
	f := mustParse(t, "a = one \\\nb = two\n")
	if f.Line(1).Kind != Entry {
		t.Fatalf("line 1 kind = %v, want entry", f.Line(1).Kind)
	}
	if !f.Line(0).Continues {
		t.Errorf("dangling sentinel should still be recorded")
	}
}

func TestParse_MarkupIsNotAPair(t *testing.T) {
	f := mustParse(t, "lore = Intro \\\n<color=#ff0000>Beware</color>\n")
	if f.Line(1).Kind != Continuation {
		t.Errorf("line 1 kind = %v, want continuation", f.Line(1).Kind)
	}
}

func TestParse_EscapedBackslash(t *testing.T) {
	f := mustParse(t, "path = C:\\\\\nnext = x\n")
	if f.Line(0).Continues {
		t.Errorf("an escaped backslash must not continue the value")
	}
}

func TestParse_Markers(t *testing.T) {
	src := "menu.play = Play # TODO: Translate\n" +
		"item.sword.desc = A blade\\ # TODO: Translate\n" +
		"    forged # TODO: TranslateLine\\\n" +
		"    long ago. # TODO: TranslateLine\n"
	f := mustParse(t, src)

	want := []struct {
		text      string
		continues bool
	}{
		{"Play", false},
		{"A blade", true},
		{"forged", true},
		{"long ago.", false},
	}
	for i, w := range want {
		l := f.Line(i)
		if l.Status != Pending {
			t.Errorf("line %d status = %v, want pending", i, l.Status)
		}
		if l.Text != w.text || l.Continues != w.continues {
			t.Errorf("line %d = (%q, %v), want (%q, %v)", i, l.Text, l.Continues, w.text, w.continues)
		}
	}
	if got := f.Stats().Pending; got != 4 {
		t.Errorf("Stats().Pending = %d, want 4", got)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a = b\n",
		"a = b",
		"# c\r\na=b\r\n\r\nweird line\r\n",
		"x = A \\\n  B # TODO: TranslateLine\\\n  C # TODO: TranslateLine\n",
		"menu.play   =   Play # TODO: Translate  \n",
	}
	for _, in := range inputs {
		f := mustParse(t, in)
		if got := marshal(t, f); got != in {
			t.Errorf("round trip of %q = %q", in, got)
		}
	}
}

func TestRender_Markers(t *testing.T) {
	f := mustParse(t, "item.desc = A blade \\\n    forged long ago. \\\n    The end.\n")
	for i := 0; i < f.Len(); i++ {
		f.Set(i, f.Line(i).WithStatus(Pending))
	}
	want := "item.desc = A blade \\ # TODO: Translate\n" +
		"    forged long ago. # TODO: TranslateLine\\\n" +
		"    The end. # TODO: TranslateLine\n"
	if got := marshal(t, f); got != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}

	// Parsing the marked output yields the same texts back.
	g := mustParse(t, want)
	for i := 0; i < f.Len(); i++ {
		if g.Line(i).Text != f.Line(i).Text || g.Line(i).Status != Pending {
			t.Errorf("reparsed line %d = %+v", i, g.Line(i))
		}
	}
}

func TestRender_Rewritten(t *testing.T) {
	f := mustParse(t, "item.desc=A blade \\ # TODO: Translate\n  forged. # TODO: TranslateLine\n")
	f.Set(0, f.Line(0).WithText("칼날").WithStatus(Clean))
	f.Set(1, f.Line(1).WithText("오래 전 벼려진.").WithStatus(Clean))
	want := "item.desc = 칼날\\\n  오래 전 벼려진.\n"
	if got := marshal(t, f); got != want {
		t.Errorf("Marshal() = %q, want %q", got, want)
	}
}

func TestLookup_LastWins(t *testing.T) {
	f := mustParse(t, "k = first\nk = second\n")
	l, _ := f.Lookup("k")
	if l.Text != "second" {
		t.Errorf("Lookup(k) = %q, want %q", l.Text, "second")
	}
}

func TestSplitPair_Keys(t *testing.T) {
	tests := []struct {
		in    string
		key   string
		value string
		ok    bool
	}{
		{"a.b = c", "a.b", "c", true},
		{"a-b_c=d=e", "a-b_c", "d=e", true},
		{"# a = b", "", "", false},
		{"<color=red>", "<color", "red>", true},
		{"ui.hud:ping = High Latency", "ui.hud:ping", "High Latency", true},
		{"items/sword=Sword", "items/sword", "Sword", true},
		{" = orphan", "", "", false},
		{"no separator", "", "", false},
		{"has space = x", "", "", false},
	}
	for _, tt := range tests {
		k, v, ok := splitPair(tt.in)
		k = strings.TrimSpace(k)
		if k != tt.key || v != tt.value || ok != tt.ok {
			t.Errorf("splitPair(%q) = (%q, %q, %v), want (%q, %q, %v)", tt.in, k, v, ok, tt.key, tt.value, tt.ok)
		}
	}
}

func TestParse_LooseKeys(t *testing.T) {
	in := "\ufeffmenu.title = Title\nui.hud:ping = High Latency\nitems/sword = Sword\n"
	f := mustParse(t, in)
	wantKeys := []string{"menu.title", "ui.hud:ping", "items/sword"}
	for i, key := range wantKeys {
		l := f.Line(i)
		if l.Kind != Entry || l.Key != key {
			t.Errorf("line %d = %v %q, want entry %q", i, l.Kind, l.Key, key)
		}
	}
	if got := marshal(t, f); got != in {
		t.Errorf("round trip = %q, want %q", got, in)
	}

	f.Set(0, f.Line(0).WithStatus(Pending))
	want := "\ufeffmenu.title = Title # TODO: Translate\nui.hud:ping = High Latency\nitems/sword = Sword\n"
	if got := marshal(t, f); got != want {
		t.Errorf("marshal = %q, want %q", got, want)
	}
}

func TestParse_CommentInsideChain(t *testing.T) {
	// A comment does not end a continuation chain; only a new pair does.
	f := mustParse(t, "a = Hello\\\n# section two\nb = B\n")
	if f.Line(1).Kind != Continuation || f.Line(1).Text != "# section two" {
		t.Fatalf("line 1 = %v %q, want continuation", f.Line(1).Kind, f.Line(1).Text)
	}
	if f.Line(2).Kind != Entry {
		t.Errorf("line 2 kind = %v, want entry", f.Line(2).Kind)
	}

	f.Set(1, f.Line(1).WithStatus(Pending))
	want := "a = Hello\\\n# section two # TODO: TranslateLine\nb = B\n"
	if got := marshal(t, f); got != want {
		t.Errorf("marshal = %q, want %q", got, want)
	}
}

func TestWriteFile_CreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ko-KR", "client.lang")
	f := mustParse(t, "a = b\n")
	if err := f.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a = b\n" {
		t.Errorf("written = %q", data)
	}
}
