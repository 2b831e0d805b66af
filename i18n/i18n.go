// Package i18n translates langsync's own user-facing messages.
//
// It wraps gotext with T() and N(). Catalogs are embedded in the binary
// and loaded once by Init():
//
//	i18n.Init("")  // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	fmt.Println(i18n.T("Synchronized %s"))
//	fmt.Println(i18n.N("%d string", "%d strings", count))
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales holds the message catalogs.
// Directory structure: locales/{lang}/LC_MESSAGES/langsync.po
//
//go:embed all:locales
var locales embed.FS

const domain = "langsync"

var (
	po      *gotext.Locale
	current string
)

// Init loads the catalog for lang. An empty lang is detected from the
// environment the way GNU gettext does it.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	current = lang
	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// Language returns the language Init loaded, or "" before Init.
func Language() string { return current }

// T translates a string. Untranslated strings are returned unchanged.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a string with plural forms.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// detectLanguage follows gettext priority: LANGUAGE > LC_ALL > LC_MESSAGES > LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE is a colon-separated list
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// ko_KR.UTF-8 -> ko_KR
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
