// Package i18n translates the messages i18nsync itself prints.
//
// Catalogs are gettext PO files embedded from locales/<lang>/LC_MESSAGES/
// and read with gotext. Untranslated strings pass through unchanged, so
// calling T before Init is safe.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "i18nsync"

var (
	locale *gotext.Locale
	lang   = "en"
)

// Init loads the catalog for language. An empty language is taken from the
// environment the way gettext does it.
func Init(language string) {
	if language == "" {
		language = detectLanguage()
	}
	lang = language
	locale = gotext.NewLocaleFSWithPath(language, locales, "locales")
	locale.AddDomain(domain)
	locale.SetDomain(domain)
}

// Language returns the language passed to or detected by Init.
func Language() string { return lang }

// T translates msgid. Extra arguments are formatted into the result.
func T(msgid string, vars ...any) string {
	if locale == nil {
		return gotext.Printf(msgid, vars...)
	}
	return locale.Get(msgid, vars...)
}

// N translates a message with a plural form chosen by n.
func N(singular, plural string, n int, vars ...any) string {
	if locale == nil {
		if n == 1 {
			return gotext.Printf(singular, vars...)
		}
		return gotext.Printf(plural, vars...)
	}
	return locale.GetN(singular, plural, n, vars...)
}

// detectLanguage follows the gettext lookup order: LANGUAGE, LC_ALL,
// LC_MESSAGES, LANG. "C" and "POSIX" mean no translation.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		val, _, _ = strings.Cut(val, ".")
		val, _, _ = strings.Cut(val, "@")
		if val != "" && val != "C" && val != "POSIX" {
			return val
		}
	}
	return "en"
}
