// Package langmeta provides language display metadata (native name,
// English name and emoji flag) for locale codes, used in prompts and CLI
// output.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	// Code is the canonical form of the locale, e.g. "ko-KR".
	Code string
	// Name is the language's name in itself, e.g. "한국어".
	Name string
	// EnglishName is the language's English name, e.g. "Korean".
	EnglishName string
	Flag        string
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort metadata for a locale code. Variants like
// pt_BR and pt-BR are accepted. Codes that do not parse come back with the
// input as Name and no flag.
func Resolve(lang string) Meta {
	code := canonicalize(lang)
	tag, err := language.Parse(code)
	if err != nil || code == "" {
		return Meta{Code: lang, Name: lang}
	}
	base, _ := tag.Base()
	baseTag := language.Make(base.String())

	m := Meta{
		Code:        code,
		Name:        display.Self.Name(baseTag),
		EnglishName: display.English.Languages().Name(baseTag),
	}
	if m.Name == "" {
		m.Name = lang
	}
	if m.EnglishName == "" {
		m.EnglishName = m.Name
	}
	if region, conf := tag.Region(); conf != language.No {
		m.Flag = flag(region.String())
	}
	return m
}

// flag returns the regional-indicator emoji of a two-letter region code.
func flag(region string) string {
	if len(region) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range strings.ToUpper(region) {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}

// Label formats a locale for CLI output, e.g. "🇰🇷 한국어 (ko-KR)".
func Label(lang string) string {
	m := Resolve(lang)
	if m.Flag == "" {
		return m.Name + " (" + m.Code + ")"
	}
	return m.Flag + " " + m.Name + " (" + m.Code + ")"
}
