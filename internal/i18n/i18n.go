// Package i18n holds the static English/French translation table.
package i18n

import (
	"sort"

	"github.com/doudou-app/doudou/internal/domain"
)

// Translate returns the string for key in lang. Unknown keys, unknown
// languages and empty translations all fall back to the key itself.
func Translate(lang domain.Language, key string) string {
	e, ok := translations[key]
	if !ok {
		return key
	}
	var s string
	switch lang {
	case domain.LanguageEN:
		s = e.EN
	case domain.LanguageFR:
		s = e.FR
	}
	if s == "" {
		return key
	}
	return s
}

// Has reports whether key is in the table.
func Has(key string) bool {
	_, ok := translations[key]
	return ok
}

// Lookup returns the entry for key.
func Lookup(key string) (Entry, bool) {
	e, ok := translations[key]
	return e, ok
}

// Keys returns every key in the table, sorted.
func Keys() []string {
	keys := make([]string, 0, len(translations))
	for k := range translations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
