package translate

import (
	"fmt"
	"os"
	"strings"
	"text/template"
)

// GlossaryTerm fixes the translation of one source term.
type GlossaryTerm struct {
	Source string
	Target string
	// Note disambiguates homonyms, e.g. "storage furniture" for Chest.
	Note string
}

// PromptData is the input of a preamble template.
type PromptData struct {
	// TargetLang is the display name of the target language.
	TargetLang string
	Glossary   []GlossaryTerm
}

// DefaultPreamble is the built-in preamble template.
const DefaultPreamble = `You are the localization director of a AAA sandbox RPG that combines
adventure, creative building and modding tools (asset editor).
Translate the English resource strings below into natural, polished {{.TargetLang}}.

### 1. Glossary
Always use these renderings:
{{- range .Glossary}}
- {{.Source}} -> {{.Target}}{{if .Note}} ({{.Note}}){{end}}
{{- else}}
- (no fixed terms)
{{- end}}

### 2. Tone
- UI and system text: short and concise; prefer noun phrases. ("Connecting..." is a status, "Settings" is a label.)
- Item descriptions, lore and any text inside <i>...</i>: narrative and immersive, like a fantasy novel.
- Warnings and errors: clear and polite.

### 3. Technical constraints
- Never change or drop placeholders and markup: {{"{{0}}"}}, {{"{{name}}"}}, {{"{{count, plural, ...}}"}}, [TMP], <color=...>, \n.
- In ICU plural blocks keep the selector words (one, other) untouched; translate only the displayed text.
- Identifiers containing underscores (e.g. Wood_Ash_Roots, Battleaxe_Swing_Left) are copied unchanged.
- Each numbered line is one physical line of the file; translate it on its own and keep it on one line.

### 4. Examples
- "Connecting to server..." -> a short progress status.
- "<i>A sword used by ancient heroes.</i>" -> keep the <i> tags, narrative register inside.
- "High Latency (>200ms) - gameplay may be slow." -> keep "(>200ms)" exactly.

Translate the following lines. Output only the translations.
`

const responseInstruction = "Respond only with the translations in the following format:\n[index] translated_text"

// RenderPreamble executes tmpl with data. An empty tmpl uses DefaultPreamble.
func RenderPreamble(tmpl string, data PromptData) (string, error) {
	if tmpl == "" {
		tmpl = DefaultPreamble
	}
	t, err := template.New("preamble").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parsing preamble template: %w", err)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering preamble: %w", err)
	}
	return b.String(), nil
}

// LoadPreamble reads a preamble template from path. A missing file yields
// the default template.
func LoadPreamble(path string) (string, error) {
	if path == "" {
		return DefaultPreamble, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPreamble, nil
		}
		return "", fmt.Errorf("reading prompt file: %w", err)
	}
	return string(data), nil
}

// BuildPrompt renders the oracle request: the preamble, one "[i] text" line
// per batch item and the response format instruction.
func BuildPrompt(preamble string, batch Batch) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(preamble, "\n"))
	b.WriteString("\n\n")
	for _, it := range batch {
		fmt.Fprintf(&b, "[%d] %s\n", it.Index, it.Text)
	}
	b.WriteString("\n")
	b.WriteString(responseInstruction)
	return b.String()
}

// DefaultGlossary returns the built-in Korean glossary.
func DefaultGlossary() []GlossaryTerm {
	return []GlossaryTerm{
		{Source: "Adventure Mode", Target: "모험 모드"},
		{Source: "Creative Mode", Target: "크리에이티브 모드"},
		{Source: "Kweebec", Target: "퀴벡", Note: "forest race"},
		{Source: "Trork", Target: "트로크"},
		{Source: "Feran", Target: "페란"},
		{Source: "Outlander", Target: "아웃랜더"},
		{Source: "Gaia", Target: "가이아"},
		{Source: "Orbis", Target: "오르비스"},
		{Source: "Void", Target: "공허"},
		{Source: "Scaraks", Target: "스카락"},
		{Source: "Prefab", Target: "프리팹"},
		{Source: "Chunk", Target: "청크"},
		{Source: "Asset", Target: "에셋"},
		{Source: "Entity", Target: "엔티티", Note: "technical context"},
		{Source: "Entity", Target: "개체", Note: "in-game creature"},
		{Source: "Hitbox", Target: "히트박스"},
		{Source: "Spawn", Target: "소환", Note: "active"},
		{Source: "Spawn", Target: "생성", Note: "automatic"},
		{Source: "Auth", Target: "인증"},
		{Source: "Chest", Target: "상자", Note: "storage furniture"},
		{Source: "Chest", Target: "흉갑", Note: "armor slot"},
		{Source: "Back", Target: "뒤로", Note: "UI button"},
		{Source: "Back", Target: "등", Note: "equipment slot"},
		{Source: "Legs", Target: "하의", Note: "armor"},
		{Source: "Hands", Target: "장갑", Note: "armor"},
	}
}
