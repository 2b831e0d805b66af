// Package classify decides which source texts need translation.
//
// Escape-only texts ("\n\n") and identifier examples ("Wood_Ash_Roots")
// are copied verbatim. Text already written in the target locale's script
// counts as translated.
package classify

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

var (
	escapeOnly     = regexp.MustCompile(`^(\\[nrt])+$`)
	identifierLike = regexp.MustCompile(`^[A-Za-z0-9_,\s]+$`)
)

// scriptTables maps ISO 15924 script codes to the unicode tables whose
// presence marks a text as already written in that script.
var scriptTables = map[string][]*unicode.RangeTable{
	"Kore": {unicode.Hangul},
	"Jpan": {unicode.Hiragana, unicode.Katakana, unicode.Han},
	"Hans": {unicode.Han},
	"Hant": {unicode.Han},
	"Cyrl": {unicode.Cyrillic},
	"Arab": {unicode.Arabic},
	"Hebr": {unicode.Hebrew},
	"Grek": {unicode.Greek},
	"Thai": {unicode.Thai},
	"Deva": {unicode.Devanagari},
}

// IsEscapeOnly reports whether text, trimmed, is empty or consists only of
// \n, \r and \t escape sequences.
func IsEscapeOnly(text string) bool {
	s := strings.TrimSpace(text)
	return s == "" || escapeOnly.MatchString(s)
}

// IsIdentifierLike reports whether text contains an underscore and nothing
// besides ASCII letters, digits, underscores, commas and whitespace.
func IsIdentifierLike(text string) bool {
	s := strings.TrimSpace(text)
	if !strings.Contains(s, "_") {
		return false
	}
	return identifierLike.MatchString(s)
}

// Classifier applies the translation rules for one target locale.
type Classifier struct {
	locale string
	script string
	tables []*unicode.RangeTable
}

// ForLocale returns a Classifier for a BCP 47 locale such as "ko-KR".
// Latin-script targets have no script check.
func ForLocale(locale string) (*Classifier, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	script, _ := tag.Script()
	return &Classifier{
		locale: tag.String(),
		script: script.String(),
		tables: scriptTables[script.String()],
	}, nil
}

// Locale returns the canonical locale tag.
func (c *Classifier) Locale() string { return c.locale }

// Script returns the ISO 15924 code of the target script.
func (c *Classifier) Script() string { return c.script }

// ContainsTargetScript reports whether text has at least one character of
// the target script.
func (c *Classifier) ContainsTargetScript(text string) bool {
	if len(c.tables) == 0 {
		return false
	}
	for _, r := range text {
		if unicode.IsOneOf(c.tables, r) {
			return true
		}
	}
	return false
}

// NeedsTranslation reports whether text should be marked for translation.
func (c *Classifier) NeedsTranslation(text string) bool {
	return !IsEscapeOnly(text) && !IsIdentifierLike(text) && !c.ContainsTargetScript(text)
}
