// Package i18n holds the user-facing strings of the relay in the site's
// three languages. Missing translations fall back to English.
package i18n

import "strings"

// T returns the message for key in lang, falling back to English and then to
// the key itself.
func T(lang, key string) string {
	if m, ok := messages[lang]; ok {
		if s := m[key]; s != "" {
			return s
		}
	}
	if s := messages[LangEN][key]; s != "" {
		return s
	}
	return key
}

func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// Pick chooses a language from an explicit query value, then the first
// supported tag of an Accept-Language header, defaulting to English.
func Pick(query, acceptLanguage string) string {
	if q := strings.ToLower(strings.TrimSpace(query)); Supported(q) {
		return q
	}
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = tag[:i]
		}
		if i := strings.IndexByte(tag, '-'); i >= 0 {
			tag = tag[:i]
		}
		if Supported(tag) {
			return tag
		}
	}
	return LangEN
}
